package models

import "github.com/google/uuid"

const (
	StatusPassed = "Passed"
	StatusFailed = "Failed"
)

// QuizProgress is one graded submission. Rows are only ever inserted, or
// removed all at once for a (user, quiz) pair when the user restarts.
type QuizProgress struct {
	Base
	UserID         uuid.UUID `gorm:"type:uuid;not null;index:idx_quiz_progress_user_quiz,priority:1" json:"-"`
	QuizID         uuid.UUID `gorm:"type:uuid;not null;index:idx_quiz_progress_user_quiz,priority:2" json:"quizId"`
	Percentage     float64   `gorm:"type:numeric(5,2);not null" json:"percentage"`
	TotalQuestions int       `gorm:"not null" json:"totalQuestions"`
	CorrectAnswers int       `gorm:"not null" json:"correctAnswers"`
	WrongAnswers   int       `gorm:"not null" json:"wrongAnswers"`
	Grade          string    `gorm:"type:varchar(2);not null" json:"grade"`
	Status         string    `gorm:"type:varchar(10);not null" json:"status"`
}

// RoadmapProgress records the section count of a roadmap at the user's
// first completion toggle.
type RoadmapProgress struct {
	Base
	UserID              uuid.UUID `gorm:"type:uuid;not null;uniqueIndex:idx_roadmap_progress_user_roadmap,priority:1" json:"-"`
	RoadmapID           uuid.UUID `gorm:"type:uuid;not null;uniqueIndex:idx_roadmap_progress_user_roadmap,priority:2" json:"roadmapId"`
	NumberOfAllSections int       `gorm:"not null;default:0" json:"numberOfAllSections"`
}

// CompletedSection is one member of a user's completed-set for a roadmap.
type CompletedSection struct {
	Base
	UserID    uuid.UUID `gorm:"type:uuid;not null;uniqueIndex:idx_completed_user_section,priority:1" json:"-"`
	RoadmapID uuid.UUID `gorm:"type:uuid;not null;index" json:"roadmapId"`
	SectionID uuid.UUID `gorm:"type:uuid;not null;uniqueIndex:idx_completed_user_section,priority:2" json:"sectionId"`
}
