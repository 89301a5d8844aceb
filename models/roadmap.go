package models

import "github.com/google/uuid"

type Difficulty string

const (
	DifficultyBeginner     Difficulty = "Beginner"
	DifficultyIntermediate Difficulty = "Intermediate"
	DifficultyAdvanced     Difficulty = "Advanced"
	DifficultyExpert       Difficulty = "Expert"
)

var Difficulties = []Difficulty{DifficultyBeginner, DifficultyIntermediate, DifficultyAdvanced, DifficultyExpert}

type ResourceType string

const (
	ResourceVideo   ResourceType = "video"
	ResourceArticle ResourceType = "article"
	ResourceCourse  ResourceType = "course"
)

var ResourceTypes = []ResourceType{ResourceVideo, ResourceArticle, ResourceCourse}

type Roadmap struct {
	Base
	Title       string    `gorm:"size:100;not null" json:"title"`
	Slug        string    `gorm:"size:150;index" json:"slug"`
	Description string    `gorm:"type:text;not null" json:"description"`
	Sections    []Section `gorm:"foreignKey:RoadmapID" json:"sections,omitempty"`
}

type Section struct {
	Base
	RoadmapID   uuid.UUID  `gorm:"type:uuid;not null;index" json:"roadmapId"`
	Title       string     `gorm:"size:100;not null" json:"title"`
	Description string     `gorm:"type:text;not null" json:"description"`
	Difficulty  Difficulty `gorm:"type:varchar(20);not null" json:"difficulty"`
	Position    int        `gorm:"not null;default:0" json:"-"`
	Resources   []Resource `gorm:"foreignKey:SectionID" json:"resources,omitempty"`
}

type Resource struct {
	Base
	SectionID uuid.UUID    `gorm:"type:uuid;not null;index" json:"sectionId"`
	URL       string       `gorm:"type:text;not null" json:"url"`
	Title     string       `gorm:"size:150;not null" json:"title"`
	Type      ResourceType `gorm:"type:varchar(10);not null" json:"type"`
	Position  int          `gorm:"not null;default:0" json:"-"`
}
