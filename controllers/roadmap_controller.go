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

type RoadmapInput struct {
	Title       string `json:"title"`
	Description string `json:"description"`
}

func findRoadmap(db *gorm.DB, id uuid.UUID) (models.Roadmap, error) {
	var roadmap models.Roadmap
	if err := db.First(&roadmap, "id = ?", id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return roadmap, services.ErrRoadmapNotFound
		}
		return roadmap, err
	}
	return roadmap, nil
}

func roadmapSlugTaken(db *gorm.DB, s string, self uuid.UUID) (bool, error) {
	var count int64
	err := db.Model(&models.Roadmap{}).Where("slug = ? AND id <> ?", s, self).Count(&count).Error
	return count > 0, err
}

func GetRoadmaps(c *gin.Context) {
	var roadmaps []models.Roadmap
	if err := getDB(c).Order("created_at DESC").Find(&roadmaps).Error; err != nil {
		respondServiceError(c, err)
		return
	}
	if len(roadmaps) == 0 {
		c.JSON(http.StatusOK, gin.H{"success": false, "message": "No roadmap available. Please add a new one."})
		return
	}
	c.JSON(http.StatusOK, gin.H{"success": true, "roadmap": roadmaps})
}

func GetRoadmap(c *gin.Context) {
	id, ok := paramID(c, "id")
	if !ok {
		return
	}
	var roadmap models.Roadmap
	err := getDB(c).Preload("Sections", models.OrderByPosition).First(&roadmap, "id = ?", id).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		err = services.ErrRoadmapNotFound
	}
	if err != nil {
		respondServiceError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"success": true, "roadmap": roadmap})
}

func CreateRoadmap(c *gin.Context) {
	var input RoadmapInput
	if !bindJSON(c, &input) {
		return
	}
	if r := validators.RoadmapData(input.Title, input.Description); !r.Valid {
		respondError(c, http.StatusBadRequest, r.Message)
		return
	}

	db := getDB(c)
	title := strings.TrimSpace(input.Title)
	slugValue := slug.Make(title)
	if taken, err := roadmapSlugTaken(db, slugValue, uuid.Nil); err != nil {
		respondServiceError(c, err)
		return
	} else if taken {
		respondError(c, http.StatusBadRequest, "A roadmap with this title already exists.")
		return
	}

	roadmap := models.Roadmap{
		Title:       title,
		Slug:        slugValue,
		Description: strings.TrimSpace(input.Description),
	}
	if err := db.Create(&roadmap).Error; err != nil {
		respondServiceError(c, fmt.Errorf("create roadmap: %w", err))
		return
	}

	c.JSON(http.StatusCreated, gin.H{
		"success": true,
		"message": "Roadmap created successfully",
		"roadmap": roadmap,
	})
}

func UpdateRoadmap(c *gin.Context) {
	id, ok := paramID(c, "id")
	if !ok {
		return
	}
	var input RoadmapInput
	if !bindJSON(c, &input) {
		return
	}
	if r := validators.RoadmapData(input.Title, input.Description); !r.Valid {
		respondError(c, http.StatusBadRequest, r.Message)
		return
	}

	db := getDB(c)
	roadmap, err := findRoadmap(db, id)
	if err != nil {
		respondServiceError(c, err)
		return
	}

	title := strings.TrimSpace(input.Title)
	slugValue := slug.Make(title)
	if taken, err := roadmapSlugTaken(db, slugValue, id); err != nil {
		respondServiceError(c, err)
		return
	} else if taken {
		respondError(c, http.StatusBadRequest, "A roadmap with this title already exists.")
		return
	}

	if err := db.Model(&roadmap).Updates(map[string]interface{}{
		"title":       title,
		"slug":        slugValue,
		"description": strings.TrimSpace(input.Description),
	}).Error; err != nil {
		respondServiceError(c, fmt.Errorf("update roadmap: %w", err))
		return
	}

	roadmap, err = findRoadmap(db, id)
	if err != nil {
		respondServiceError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{
		"success": true,
		"message": "Roadmap updated successfully",
		"roadmap": roadmap,
	})
}

func DeleteRoadmap(c *gin.Context) {
	id, ok := paramID(c, "id")
	if !ok {
		return
	}
	if err := services.DeleteRoadmap(getDB(c), id); err != nil {
		respondServiceError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{
		"success": true,
		"message": "Roadmap, related sections, and resources deleted successfully",
	})
}

func GetRoadmapProgress(c *gin.Context) {
	userID, ok := currentUserID(c)
	if !ok {
		return
	}
	roadmapID, ok := paramID(c, "id")
	if !ok {
		return
	}

	view, err := services.RoadmapProgress(getDB(c), userID, roadmapID)
	if err != nil {
		respondServiceError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{
		"success":            true,
		"roadmap":            view.Roadmap,
		"sections":           view.Sections,
		"total":              view.Total,
		"completed":          view.Completed,
		"progressPercentage": view.ProgressPercentage,
	})
}
