package controllers

import (
	"errors"
	"fmt"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/gosimple/slug"
	"gorm.io/gorm"

	"github.com/vnkhanh/learnpath-backend/models"
	"github.com/vnkhanh/learnpath-backend/services"
	"github.com/vnkhanh/learnpath-backend/validators"
)

func findQuiz(db *gorm.DB, id uuid.UUID, withQuestions bool) (models.Quiz, error) {
	var quiz models.Quiz
	q := db
	if withQuestions {
		q = q.Preload("Questions", models.OrderByPosition)
	}
	if err := q.First(&quiz, "id = ?", id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return quiz, services.ErrQuizNotFound
		}
		return quiz, err
	}
	return quiz, nil
}

func quizSlugTaken(db *gorm.DB, s string, self uuid.UUID) (bool, error) {
	var count int64
	err := db.Model(&models.Quiz{}).Where("slug = ? AND id <> ?", s, self).Count(&count).Error
	return count > 0, err
}

func GetQuizzes(c *gin.Context) {
	var quizzes []models.Quiz
	if err := getDB(c).Preload("Questions", models.OrderByPosition).
		Order("created_at DESC").
		Find(&quizzes).Error; err != nil {
		respondServiceError(c, err)
		return
	}
	if len(quizzes) == 0 {
		respondError(c, http.StatusNotFound, "No quizzes available. Please add a new one.")
		return
	}
	c.JSON(http.StatusOK, gin.H{"success": true, "quizData": quizzes})
}

func GetQuiz(c *gin.Context) {
	id, ok := paramID(c, "id")
	if !ok {
		return
	}
	quiz, err := findQuiz(getDB(c), id, true)
	if err != nil {
		respondServiceError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"success": true, "quiz": quiz})
}

func CreateQuiz(c *gin.Context) {
	var input validators.QuizInput
	if !bindJSON(c, &input) {
		return
	}
	if r := input.Validate(true); !r.Valid {
		respondError(c, http.StatusBadRequest, r.Message)
		return
	}

	db := getDB(c)
	title := strings.TrimSpace(*input.Title)
	slugValue := slug.Make(title)
	if taken, err := quizSlugTaken(db, slugValue, uuid.Nil); err != nil {
		respondServiceError(c, err)
		return
	} else if taken {
		respondError(c, http.StatusBadRequest, "A quiz with this title already exists.")
		return
	}

	quiz := models.Quiz{
		Title:       title,
		Slug:        slugValue,
		Description: strings.TrimSpace(*input.Description),
		Rank:        models.RankBeginner,
	}
	if input.Rank != nil {
		quiz.Rank = models.QuizRank(strings.TrimSpace(*input.Rank))
	}
	if err := db.Create(&quiz).Error; err != nil {
		respondServiceError(c, fmt.Errorf("create quiz: %w", err))
		return
	}
	quiz.Questions = []models.Question{}

	c.JSON(http.StatusCreated, gin.H{
		"success": true,
		"message": "Quiz created successfully.",
		"quiz":    quiz,
	})
}

func UpdateQuiz(c *gin.Context) {
	id, ok := paramID(c, "id")
	if !ok {
		return
	}
	var input validators.QuizInput
	if !bindJSON(c, &input) {
		return
	}
	if r := input.Validate(false); !r.Valid {
		respondError(c, http.StatusBadRequest, r.Message)
		return
	}

	db := getDB(c)
	quiz, err := findQuiz(db, id, false)
	if err != nil {
		respondServiceError(c, err)
		return
	}

	updates := map[string]interface{}{}
	if input.Title != nil {
		title := strings.TrimSpace(*input.Title)
		slugValue := slug.Make(title)
		if taken, err := quizSlugTaken(db, slugValue, id); err != nil {
			respondServiceError(c, err)
			return
		} else if taken {
			respondError(c, http.StatusBadRequest, "A quiz with this title already exists.")
			return
		}
		updates["title"] = title
		updates["slug"] = slugValue
	}
	if input.Description != nil {
		updates["description"] = strings.TrimSpace(*input.Description)
	}
	if input.Rank != nil {
		updates["rank"] = strings.TrimSpace(*input.Rank)
	}
	if len(updates) > 0 {
		if err := db.Model(&quiz).Updates(updates).Error; err != nil {
			respondServiceError(c, fmt.Errorf("update quiz: %w", err))
			return
		}
	}

	quiz, err = findQuiz(db, id, true)
	if err != nil {
		respondServiceError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{
		"success": true,
		"message": "Quiz updated successfully.",
		"quiz":    quiz,
	})
}

func DeleteQuiz(c *gin.Context) {
	id, ok := paramID(c, "id")
	if !ok {
		return
	}
	if err := services.DeleteQuiz(getDB(c), id); err != nil {
		respondServiceError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{
		"success": true,
		"message": "Quiz, its questions and related progress deleted successfully",
	})
}

type SubmitAnswersInput struct {
	Answers []services.AnswerSubmission `json:"answers"`
}

func SubmitAnswers(c *gin.Context) {
	userID, ok := currentUserID(c)
	if !ok {
		return
	}
	quizID, ok := paramID(c, "id")
	if !ok {
		return
	}
	var input SubmitAnswersInput
	if !bindJSON(c, &input) {
		return
	}

	submission, err := services.SubmitQuiz(getDB(c), userID, quizID, input.Answers)
	if err != nil {
		respondServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"success":  true,
		"message":  "Quiz submitted successfully",
		"results":  submission.Results,
		"progress": submission.Progress,
	})
}

func RestartQuiz(c *gin.Context) {
	userID, ok := currentUserID(c)
	if !ok {
		return
	}
	quizID, ok := paramID(c, "id")
	if !ok {
		return
	}

	removed, err := services.RestartQuiz(getDB(c), userID, quizID)
	if err != nil {
		respondServiceError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{
		"success": true,
		"message": "Quiz progress has been reset",
		"removed": removed,
	})
}

func GetQuizHistory(c *gin.Context) {
	userID, ok := currentUserID(c)
	if !ok {
		return
	}
	quizID, ok := paramID(c, "id")
	if !ok {
		return
	}

	attempts, err := services.QuizHistory(getDB(c), userID, quizID)
	if err != nil {
		respondServiceError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"success": true, "attempts": attempts})
}
