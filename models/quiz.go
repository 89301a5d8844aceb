package models

import (
	"github.com/google/uuid"
	"gorm.io/datatypes"
)

type QuizRank string

const (
	RankBeginner     QuizRank = "Beginner"
	RankIntermediate QuizRank = "Intermediate"
	RankAdvanced     QuizRank = "Advanced"
	RankExpert       QuizRank = "Expert"
	RankMaster       QuizRank = "Master"
)

var QuizRanks = []QuizRank{RankBeginner, RankIntermediate, RankAdvanced, RankExpert, RankMaster}

type Quiz struct {
	Base
	Title       string     `gorm:"size:100;not null" json:"title"`
	Slug        string     `gorm:"size:150;index" json:"slug"`
	Description string     `gorm:"type:text;not null" json:"description"`
	Rank        QuizRank   `gorm:"type:varchar(20);not null" json:"rank"`
	Questions   []Question `gorm:"foreignKey:QuizID" json:"questions"`
}

// Question belongs to exactly one quiz. Its 1-based question number is its
// index in the quiz's position-ordered question list.
type Question struct {
	Base
	QuizID   uuid.UUID                   `gorm:"type:uuid;not null;index" json:"quizId"`
	Question string                      `gorm:"type:text;not null" json:"question"`
	Answer   string                      `gorm:"type:text;not null" json:"answer"`
	Options  datatypes.JSONSlice[string] `json:"options"`
	Position int                         `gorm:"not null;default:0" json:"-"`
}
