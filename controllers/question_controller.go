package controllers

import (
	"fmt"
	"net/http"
	"strconv"
	"strings"

	"github.com/gin-gonic/gin"
	"gorm.io/datatypes"

	"github.com/vnkhanh/learnpath-backend/models"
	"github.com/vnkhanh/learnpath-backend/services"
	"github.com/vnkhanh/learnpath-backend/validators"
)

func questionNumber(c *gin.Context) (int, bool) {
	n, err := strconv.Atoi(c.Param("questionNumber"))
	if err != nil || n < 1 {
		respondError(c, http.StatusBadRequest, "Question number must be a positive integer")
		return 0, false
	}
	return n, true
}

func CreateQuestion(c *gin.Context) {
	quizID, ok := paramID(c, "id")
	if !ok {
		return
	}
	var input validators.QuestionInput
	if !bindJSON(c, &input) {
		return
	}
	if r := input.Validate(true); !r.Valid {
		respondError(c, http.StatusBadRequest, r.Message)
		return
	}

	db := getDB(c)
	if _, err := findQuiz(db, quizID, false); err != nil {
		respondServiceError(c, err)
		return
	}

	position, err := services.NextPosition(db, &models.Question{}, "quiz_id", quizID)
	if err != nil {
		respondServiceError(c, err)
		return
	}

	question := models.Question{
		QuizID:   quizID,
		Question: strings.TrimSpace(*input.Question),
		Answer:   *input.Answer,
		Options:  datatypes.JSONSlice[string](input.Options),
		Position: position,
	}
	if err := db.Create(&question).Error; err != nil {
		respondServiceError(c, fmt.Errorf("create question: %w", err))
		return
	}

	c.JSON(http.StatusCreated, gin.H{
		"success":        true,
		"message":        "Question created successfully",
		"question":       question,
		"questionNumber": position + 1,
	})
}

// GetQuestion hides the answer; it is revealed by submitting the quiz.
func GetQuestion(c *gin.Context) {
	quizID, ok := paramID(c, "id")
	if !ok {
		return
	}
	n, ok := questionNumber(c)
	if !ok {
		return
	}

	question, err := services.QuestionByNumber(getDB(c), quizID, n)
	if err != nil {
		respondServiceError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{
		"success": true,
		"question": gin.H{
			"id":       question.ID,
			"quizId":   question.QuizID,
			"question": question.Question,
			"options":  question.Options,
			"number":   n,
		},
	})
}

func UpdateQuestion(c *gin.Context) {
	quizID, ok := paramID(c, "id")
	if !ok {
		return
	}
	n, ok := questionNumber(c)
	if !ok {
		return
	}
	var input validators.QuestionInput
	if !bindJSON(c, &input) {
		return
	}
	if r := input.Validate(false); !r.Valid {
		respondError(c, http.StatusBadRequest, r.Message)
		return
	}

	db := getDB(c)
	question, err := services.QuestionByNumber(db, quizID, n)
	if err != nil {
		respondServiceError(c, err)
		return
	}

	// The answer must stay one of the options after a partial update.
	merged := validators.QuestionInput{Answer: &question.Answer, Options: []string(question.Options)}
	if input.Answer != nil {
		merged.Answer = input.Answer
	}
	if input.Options != nil {
		merged.Options = input.Options
	}
	if r := merged.Validate(false); !r.Valid {
		respondError(c, http.StatusBadRequest, r.Message)
		return
	}

	updates := map[string]interface{}{}
	if input.Question != nil {
		updates["question"] = strings.TrimSpace(*input.Question)
	}
	if input.Answer != nil {
		updates["answer"] = *input.Answer
	}
	if input.Options != nil {
		updates["options"] = datatypes.JSONSlice[string](input.Options)
	}
	if len(updates) > 0 {
		if err := db.Model(&question).Updates(updates).Error; err != nil {
			respondServiceError(c, fmt.Errorf("update question: %w", err))
			return
		}
	}

	updated, err := services.QuestionByNumber(db, quizID, n)
	if err != nil {
		respondServiceError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{
		"success":  true,
		"message":  "Question updated successfully",
		"question": updated,
	})
}

func DeleteQuestion(c *gin.Context) {
	quizID, ok := paramID(c, "id")
	if !ok {
		return
	}
	n, ok := questionNumber(c)
	if !ok {
		return
	}

	removed, err := services.DeleteQuestion(getDB(c), quizID, n)
	if err != nil {
		respondServiceError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{
		"success":  true,
		"message":  "Question deleted successfully",
		"question": removed,
	})
}
