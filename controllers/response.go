package controllers

import (
	"errors"
	"fmt"
	"log"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/vnkhanh/learnpath-backend/services"
)

func getDB(c *gin.Context) *gorm.DB {
	return c.MustGet("db").(*gorm.DB)
}

func respondError(c *gin.Context, code int, message string) {
	c.JSON(code, gin.H{"success": false, "message": message})
}

// respondServiceError maps the sentinel errors returned by services to HTTP
// statuses. Unique-index conflicts are a 400. Anything unknown is logged and reported as a 500.
func respondServiceError(c *gin.Context, err error) {
	switch {
	case errors.Is(err, services.ErrUserNotFound),
		errors.Is(err, services.ErrQuizNotFound),
		errors.Is(err, services.ErrQuestionNotFound),
		errors.Is(err, services.ErrRoadmapNotFound),
		errors.Is(err, services.ErrSectionNotFound),
		errors.Is(err, services.ErrResourceNotFound):
		respondError(c, http.StatusNotFound, err.Error())
	case errors.Is(err, services.ErrNoAnswers),
		errors.Is(err, services.ErrQuizHasNoQuestions):
		respondError(c, http.StatusBadRequest, err.Error())
	case errors.Is(err, gorm.ErrDuplicatedKey):
		respondError(c, http.StatusBadRequest, "Resource already exists")
	default:
		log.Printf("%s %s: %v", c.Request.Method, c.FullPath(), err)
		respondError(c, http.StatusInternalServerError, err.Error())
	}
}

// currentUserID reads the id placed in the context by AuthMiddleware. It
// writes a 401 and returns false when the id is unusable.
func currentUserID(c *gin.Context) (uuid.UUID, bool) {
	id, err := uuid.Parse(c.GetString("user_id"))
	if err != nil {
		respondError(c, http.StatusUnauthorized, "Unauthorized: invalid token subject")
		return uuid.Nil, false
	}
	return id, true
}

func paramID(c *gin.Context, name string) (uuid.UUID, bool) {
	id, err := uuid.Parse(c.Param(name))
	if err != nil {
		respondError(c, http.StatusBadRequest, "Invalid Id")
		return uuid.Nil, false
	}
	return id, true
}

func bindJSON(c *gin.Context, dst interface{}) bool {
	if err := c.ShouldBindJSON(dst); err != nil {
		respondError(c, http.StatusBadRequest, "Invalid request body: "+err.Error())
		return false
	}
	return true
}

// NotFound answers every unregistered route.
func NotFound(c *gin.Context) {
	respondError(c, http.StatusNotFound, fmt.Sprintf("Route %s %s not found", c.Request.Method, c.Request.URL.RequestURI()))
}

// Recovery turns a panic into the standard error envelope.
func Recovery(c *gin.Context, recovered interface{}) {
	log.Printf("panic on %s %s: %v", c.Request.Method, c.Request.URL.Path, recovered)
	c.AbortWithStatusJSON(http.StatusInternalServerError, gin.H{
		"success": false,
		"message": fmt.Sprint(recovered),
	})
}
