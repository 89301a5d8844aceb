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

type ResourceInput struct {
	URL   string `json:"url"`
	Title string `json:"title"`
	Type  string `json:"type"`
}

// resourcePath parses :id, :sectionId and checks the section belongs to the
// roadmap.
func resourcePath(c *gin.Context) (models.Section, bool) {
	roadmapID, ok := paramID(c, "id")
	if !ok {
		return models.Section{}, false
	}
	sectionID, ok := paramID(c, "sectionId")
	if !ok {
		return models.Section{}, false
	}
	section, err := findSection(getDB(c), roadmapID, sectionID, false)
	if err != nil {
		respondServiceError(c, err)
		return section, false
	}
	return section, true
}

func findResource(db *gorm.DB, sectionID, resourceID uuid.UUID) (models.Resource, error) {
	var resource models.Resource
	if err := db.First(&resource, "id = ? AND section_id = ?", resourceID, sectionID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return resource, services.ErrResourceNotFound
		}
		return resource, err
	}
	return resource, nil
}

func GetResources(c *gin.Context) {
	section, ok := resourcePath(c)
	if !ok {
		return
	}
	var resources []models.Resource
	if err := models.OrderByPosition(getDB(c).Where("section_id = ?", section.ID)).Find(&resources).Error; err != nil {
		respondServiceError(c, err)
		return
	}
	if len(resources) == 0 {
		c.JSON(http.StatusOK, gin.H{"success": false, "message": "No resources available. Please add a new one"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"success": true, "resources": resources})
}

func CreateResource(c *gin.Context) {
	var input ResourceInput
	if !bindJSON(c, &input) {
		return
	}
	if r := validators.ResourceData(input.URL, input.Title, input.Type); !r.Valid {
		respondError(c, http.StatusBadRequest, r.Message)
		return
	}
	section, ok := resourcePath(c)
	if !ok {
		return
	}

	db := getDB(c)
	position, err := services.NextPosition(db, &models.Resource{}, "section_id", section.ID)
	if err != nil {
		respondServiceError(c, err)
		return
	}

	resource := models.Resource{
		SectionID: section.ID,
		URL:       strings.TrimSpace(input.URL),
		Title:     strings.TrimSpace(input.Title),
		Type:      models.ResourceType(strings.TrimSpace(input.Type)),
		Position:  position,
	}
	if err := db.Create(&resource).Error; err != nil {
		respondServiceError(c, fmt.Errorf("create resource: %w", err))
		return
	}

	c.JSON(http.StatusCreated, gin.H{
		"success":  true,
		"message":  "Resource created successfully",
		"resource": resource,
	})
}

func GetResource(c *gin.Context) {
	section, ok := resourcePath(c)
	if !ok {
		return
	}
	resourceID, ok := paramID(c, "resourceId")
	if !ok {
		return
	}
	resource, err := findResource(getDB(c), section.ID, resourceID)
	if err != nil {
		respondServiceError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"success": true, "resource": resource})
}

func UpdateResource(c *gin.Context) {
	var input ResourceInput
	if !bindJSON(c, &input) {
		return
	}
	if r := validators.ResourceData(input.URL, input.Title, input.Type); !r.Valid {
		respondError(c, http.StatusBadRequest, r.Message)
		return
	}
	section, ok := resourcePath(c)
	if !ok {
		return
	}
	resourceID, ok := paramID(c, "resourceId")
	if !ok {
		return
	}

	db := getDB(c)
	resource, err := findResource(db, section.ID, resourceID)
	if err != nil {
		respondServiceError(c, err)
		return
	}
	if err := db.Model(&resource).Updates(map[string]interface{}{
		"url":   strings.TrimSpace(input.URL),
		"title": strings.TrimSpace(input.Title),
		"type":  strings.TrimSpace(input.Type),
	}).Error; err != nil {
		respondServiceError(c, fmt.Errorf("update resource: %w", err))
		return
	}

	updated, err := findResource(db, section.ID, resourceID)
	if err != nil {
		respondServiceError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{
		"success":         true,
		"message":         "Resource updated successfully",
		"updatedResource": updated,
	})
}

func DeleteResource(c *gin.Context) {
	section, ok := resourcePath(c)
	if !ok {
		return
	}
	resourceID, ok := paramID(c, "resourceId")
	if !ok {
		return
	}

	res := getDB(c).Where("id = ? AND section_id = ?", resourceID, section.ID).Delete(&models.Resource{})
	if res.Error != nil {
		respondServiceError(c, fmt.Errorf("delete resource: %w", res.Error))
		return
	}
	if res.RowsAffected == 0 {
		respondServiceError(c, services.ErrResourceNotFound)
		return
	}
	c.JSON(http.StatusOK, gin.H{"success": true, "message": "Resource deleted successfully"})
}
