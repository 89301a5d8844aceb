package controllers

import (
	"errors"
	"fmt"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/vnkhanh/learnpath-backend/models"
	"github.com/vnkhanh/learnpath-backend/services"
	"github.com/vnkhanh/learnpath-backend/validators"
)

type SectionInput struct {
	Title       string `json:"title"`
	Description string `json:"description"`
	Difficulty  string `json:"difficulty"`
}

// findSection loads a section only if it belongs to the roadmap.
func findSection(db *gorm.DB, roadmapID, sectionID uuid.UUID, withResources bool) (models.Section, error) {
	var section models.Section
	q := db
	if withResources {
		q = q.Preload("Resources", models.OrderByPosition)
	}
	if err := q.First(&section, "id = ? AND roadmap_id = ?", sectionID, roadmapID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return section, services.ErrSectionNotFound
		}
		return section, err
	}
	return section, nil
}

func sectionTitleTaken(db *gorm.DB, roadmapID uuid.UUID, title string, self uuid.UUID) (bool, error) {
	var count int64
	err := db.Model(&models.Section{}).
		Where("roadmap_id = ? AND LOWER(title) = ? AND id <> ?", roadmapID, strings.ToLower(title), self).
		Count(&count).Error
	return count > 0, err
}

func GetSections(c *gin.Context) {
	roadmapID, ok := paramID(c, "id")
	if !ok {
		return
	}
	db := getDB(c)
	if _, err := findRoadmap(db, roadmapID); err != nil {
		respondServiceError(c, err)
		return
	}

	var sections []models.Section
	if err := models.OrderByPosition(db.Where("roadmap_id = ?", roadmapID)).
		Preload("Resources", models.OrderByPosition).
		Find(&sections).Error; err != nil {
		respondServiceError(c, err)
		return
	}
	if len(sections) == 0 {
		c.JSON(http.StatusOK, gin.H{"success": false, "message": "No sections available. Please add a new one."})
		return
	}
	c.JSON(http.StatusOK, gin.H{"success": true, "sections": sections})
}

func CreateSection(c *gin.Context) {
	roadmapID, ok := paramID(c, "id")
	if !ok {
		return
	}
	var input SectionInput
	if !bindJSON(c, &input) {
		return
	}
	if r := validators.SectionData(input.Title, input.Description, input.Difficulty); !r.Valid {
		respondError(c, http.StatusBadRequest, r.Message)
		return
	}

	db := getDB(c)
	if _, err := findRoadmap(db, roadmapID); err != nil {
		respondServiceError(c, err)
		return
	}

	title := strings.TrimSpace(input.Title)
	if taken, err := sectionTitleTaken(db, roadmapID, title, uuid.Nil); err != nil {
		respondServiceError(c, err)
		return
	} else if taken {
		respondError(c, http.StatusBadRequest, "Section already exist")
		return
	}

	position, err := services.NextPosition(db, &models.Section{}, "roadmap_id", roadmapID)
	if err != nil {
		respondServiceError(c, err)
		return
	}

	section := models.Section{
		RoadmapID:   roadmapID,
		Title:       title,
		Description: strings.TrimSpace(input.Description),
		Difficulty:  models.Difficulty(validators.NormalizeDifficulty(input.Difficulty)),
		Position:    position,
	}
	if err := db.Create(&section).Error; err != nil {
		respondServiceError(c, fmt.Errorf("create section: %w", err))
		return
	}

	c.JSON(http.StatusCreated, gin.H{
		"success": true,
		"message": "Section created successfully",
		"section": section,
	})
}

func GetSection(c *gin.Context) {
	roadmapID, ok := paramID(c, "id")
	if !ok {
		return
	}
	sectionID, ok := paramID(c, "sectionId")
	if !ok {
		return
	}
	section, err := findSection(getDB(c), roadmapID, sectionID, true)
	if err != nil {
		respondServiceError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"success": true, "section": section})
}

func UpdateSection(c *gin.Context) {
	roadmapID, ok := paramID(c, "id")
	if !ok {
		return
	}
	sectionID, ok := paramID(c, "sectionId")
	if !ok {
		return
	}
	var input SectionInput
	if !bindJSON(c, &input) {
		return
	}
	if r := validators.SectionData(input.Title, input.Description, input.Difficulty); !r.Valid {
		respondError(c, http.StatusBadRequest, r.Message)
		return
	}

	db := getDB(c)
	section, err := findSection(db, roadmapID, sectionID, false)
	if err != nil {
		respondServiceError(c, err)
		return
	}

	title := strings.TrimSpace(input.Title)
	if taken, err := sectionTitleTaken(db, roadmapID, title, sectionID); err != nil {
		respondServiceError(c, err)
		return
	} else if taken {
		respondError(c, http.StatusBadRequest, "Section already exist")
		return
	}

	if err := db.Model(&section).Updates(map[string]interface{}{
		"title":       title,
		"description": strings.TrimSpace(input.Description),
		"difficulty":  validators.NormalizeDifficulty(input.Difficulty),
	}).Error; err != nil {
		respondServiceError(c, fmt.Errorf("update section: %w", err))
		return
	}

	updated, err := findSection(db, roadmapID, sectionID, true)
	if err != nil {
		respondServiceError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{
		"success":        true,
		"message":        "Section updated successfully",
		"updatedSection": updated,
	})
}

func DeleteSection(c *gin.Context) {
	roadmapID, ok := paramID(c, "id")
	if !ok {
		return
	}
	sectionID, ok := paramID(c, "sectionId")
	if !ok {
		return
	}
	if err := services.DeleteSection(getDB(c), roadmapID, sectionID); err != nil {
		respondServiceError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{
		"success": true,
		"message": "Section and related resources deleted successfully",
	})
}

// ToggleSectionCompletion marks a section complete for the caller, or
// incomplete if it already was.
func ToggleSectionCompletion(c *gin.Context) {
	userID, ok := currentUserID(c)
	if !ok {
		return
	}
	roadmapID, ok := paramID(c, "id")
	if !ok {
		return
	}
	sectionID, ok := paramID(c, "sectionId")
	if !ok {
		return
	}

	db := getDB(c)
	if _, err := findSection(db, roadmapID, sectionID, false); err != nil {
		respondServiceError(c, err)
		return
	}

	result, err := services.ToggleSection(db, userID, sectionID)
	if err != nil {
		respondServiceError(c, err)
		return
	}

	message := "Section marked as incomplete"
	if result.IsCompleted {
		message = "Section marked as complete"
	}
	c.JSON(http.StatusOK, gin.H{
		"success": true,
		"message": message,
		"progress": gin.H{
			"completed": result.Completed,
			"total":     result.Total,
			"roadmapId": result.RoadmapID,
		},
	})
}
