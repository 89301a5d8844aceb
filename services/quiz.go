package services

import (
	"database/sql"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/vnkhanh/learnpath-backend/models"
)

func quizExists(db *gorm.DB, quizID uuid.UUID) error {
	var quiz models.Quiz
	if err := db.Select("id").First(&quiz, "id = ?", quizID).Error; err != nil {
		return notFound(err, ErrQuizNotFound)
	}
	return nil
}

// QuestionByNumber resolves a 1-based question number within a quiz.
func QuestionByNumber(db *gorm.DB, quizID uuid.UUID, number int) (models.Question, error) {
	var question models.Question
	if err := quizExists(db, quizID); err != nil {
		return question, err
	}
	if number < 1 {
		return question, ErrQuestionNotFound
	}
	err := models.OrderByPosition(db.Where("quiz_id = ?", quizID)).
		Offset(number - 1).
		Limit(1).
		Find(&question).Error
	if err != nil {
		return question, err
	}
	if question.ID == uuid.Nil {
		return question, ErrQuestionNotFound
	}
	return question, nil
}

// NextPosition returns the position for a new child appended under parentID.
func NextPosition(db *gorm.DB, model interface{}, parentColumn string, parentID uuid.UUID) (int, error) {
	var max sql.NullInt64
	row := db.Model(model).Select("MAX(position)").Where(parentColumn+" = ?", parentID).Row()
	if err := row.Scan(&max); err != nil {
		return 0, err
	}
	if !max.Valid {
		return 0, nil
	}
	return int(max.Int64) + 1, nil
}
