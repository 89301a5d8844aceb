package services

import (
	"fmt"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"

	"github.com/vnkhanh/learnpath-backend/models"
)

type AnswerSubmission struct {
	QuestionID uuid.UUID `json:"questionId"`
	Answer     string    `json:"answer"`
}

type QuestionResult struct {
	QuestionID    uuid.UUID `json:"questionId"`
	Question      string    `json:"question"`
	UserAnswer    *string   `json:"userAnswer"`
	CorrectAnswer string    `json:"correctAnswer"`
	IsCorrect     bool      `json:"isCorrect"`
}

type GradeResult struct {
	Results        []QuestionResult `json:"results"`
	TotalQuestions int              `json:"totalQuestions"`
	CorrectAnswers int              `json:"correctAnswers"`
	WrongAnswers   int              `json:"wrongAnswers"`
	Percentage     float64          `json:"percentage"`
	Grade          string           `json:"grade"`
	Status         string           `json:"status"`
}

type Submission struct {
	Results  []QuestionResult    `json:"results"`
	Progress models.QuizProgress `json:"progress"`
}

var gradeThresholds = []struct {
	min   float64
	grade string
}{
	{90, "A+"},
	{80, "A"},
	{70, "B"},
	{60, "C"},
	{50, "D"},
}

func GradeFor(percentage float64) string {
	for _, t := range gradeThresholds {
		if percentage >= t.min {
			return t.grade
		}
	}
	return "F"
}

func StatusFor(grade string) string {
	if grade == "F" {
		return models.StatusFailed
	}
	return models.StatusPassed
}

// Percentage returns correct/total as a percentage rounded to two decimals.
func Percentage(correct, total int) float64 {
	if total == 0 {
		return 0
	}
	return decimal.NewFromInt(int64(correct)).
		Mul(decimal.NewFromInt(100)).
		Div(decimal.NewFromInt(int64(total))).
		Round(2).
		InexactFloat64()
}

// Grade scores answers against questions in question order. Answers are
// matched by question ID; the first answer for a question wins and a
// question without an answer counts as wrong. Comparison is exact.
func Grade(questions []models.Question, answers []AnswerSubmission) GradeResult {
	byQuestion := make(map[uuid.UUID]string, len(answers))
	for _, a := range answers {
		if _, ok := byQuestion[a.QuestionID]; !ok {
			byQuestion[a.QuestionID] = a.Answer
		}
	}

	res := GradeResult{
		Results:        make([]QuestionResult, 0, len(questions)),
		TotalQuestions: len(questions),
	}
	for _, q := range questions {
		r := QuestionResult{
			QuestionID:    q.ID,
			Question:      q.Question,
			CorrectAnswer: q.Answer,
		}
		if answer, ok := byQuestion[q.ID]; ok {
			r.UserAnswer = &answer
			r.IsCorrect = answer == q.Answer
		}
		if r.IsCorrect {
			res.CorrectAnswers++
		}
		res.Results = append(res.Results, r)
	}

	res.WrongAnswers = res.TotalQuestions - res.CorrectAnswers
	res.Percentage = Percentage(res.CorrectAnswers, res.TotalQuestions)
	res.Grade = GradeFor(res.Percentage)
	res.Status = StatusFor(res.Grade)
	return res
}

// SubmitQuiz grades a submission and appends one QuizProgress row for the
// user. Earlier attempts are left in place.
func SubmitQuiz(db *gorm.DB, userID, quizID uuid.UUID, answers []AnswerSubmission) (*Submission, error) {
	if len(answers) == 0 {
		return nil, ErrNoAnswers
	}

	var quiz models.Quiz
	if err := db.Preload("Questions", models.OrderByPosition).First(&quiz, "id = ?", quizID).Error; err != nil {
		return nil, notFound(err, ErrQuizNotFound)
	}
	if len(quiz.Questions) == 0 {
		return nil, ErrQuizHasNoQuestions
	}

	var user models.User
	if err := db.Select("id").First(&user, "id = ?", userID).Error; err != nil {
		return nil, notFound(err, ErrUserNotFound)
	}

	graded := Grade(quiz.Questions, answers)
	record := models.QuizProgress{
		UserID:         userID,
		QuizID:         quizID,
		Percentage:     graded.Percentage,
		TotalQuestions: graded.TotalQuestions,
		CorrectAnswers: graded.CorrectAnswers,
		WrongAnswers:   graded.WrongAnswers,
		Grade:          graded.Grade,
		Status:         graded.Status,
	}
	if err := db.Create(&record).Error; err != nil {
		return nil, fmt.Errorf("save quiz progress: %w", err)
	}

	return &Submission{Results: graded.Results, Progress: record}, nil
}

// RestartQuiz removes every progress row the user has for the quiz and
// reports how many were removed. Calling it again is a no-op.
func RestartQuiz(db *gorm.DB, userID, quizID uuid.UUID) (int64, error) {
	if err := quizExists(db, quizID); err != nil {
		return 0, err
	}
	res := db.Where("user_id = ? AND quiz_id = ?", userID, quizID).Delete(&models.QuizProgress{})
	if res.Error != nil {
		return 0, fmt.Errorf("restart quiz: %w", res.Error)
	}
	return res.RowsAffected, nil
}

// QuizHistory lists the user's attempts at a quiz, newest first.
func QuizHistory(db *gorm.DB, userID, quizID uuid.UUID) ([]models.QuizProgress, error) {
	if err := quizExists(db, quizID); err != nil {
		return nil, err
	}
	var attempts []models.QuizProgress
	err := db.Where("user_id = ? AND quiz_id = ?", userID, quizID).
		Order("created_at DESC").
		Find(&attempts).Error
	return attempts, err
}
