package services

import (
	"errors"

	"gorm.io/gorm"
)

var (
	ErrUserNotFound       = errors.New("User not found")
	ErrQuizNotFound       = errors.New("Quiz not found")
	ErrQuestionNotFound   = errors.New("Question not found")
	ErrRoadmapNotFound    = errors.New("Roadmap not found")
	ErrSectionNotFound    = errors.New("Section not found")
	ErrResourceNotFound   = errors.New("Resource not found")
	ErrNoAnswers          = errors.New("Answers are required")
	ErrQuizHasNoQuestions = errors.New("This quiz has no questions yet")
)

// notFound maps gorm's missing-row error to the given sentinel and passes
// every other error through untouched.
func notFound(err, sentinel error) error {
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return sentinel
	}
	return err
}
