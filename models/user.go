package models

const (
	DefaultImageURL = "https://cdn-icons-png.flaticon.com/512/149/149071.png"
	DefaultBio      = "No Bio Yet"
)

type User struct {
	Base
	Username string `gorm:"size:50;uniqueIndex;not null" json:"username"`
	Email    string `gorm:"size:150;uniqueIndex;not null" json:"email"`
	Password string `gorm:"type:text;not null" json:"-"`
	IsAdmin  bool   `gorm:"not null;default:false" json:"isAdmin"`
	ImageURL string `gorm:"type:text" json:"imageURL"`
	Bio      string `gorm:"type:text" json:"bio"`
}
