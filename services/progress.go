package services

import (
	"fmt"
	"math"

	"github.com/google/uuid"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/vnkhanh/learnpath-backend/models"
)

type ToggleResult struct {
	Completed   int       `json:"completed"`
	Total       int       `json:"total"`
	RoadmapID   uuid.UUID `json:"roadmapId"`
	IsCompleted bool      `json:"isCompleted"`
}

// ToggleSection flips the section's membership in the user's completed set
// for its roadmap. The first toggle on a roadmap records the roadmap's
// section count at that moment.
func ToggleSection(db *gorm.DB, userID, sectionID uuid.UUID) (ToggleResult, error) {
	var result ToggleResult

	var section models.Section
	if err := db.First(&section, "id = ?", sectionID).Error; err != nil {
		return result, notFound(err, ErrSectionNotFound)
	}
	var roadmap models.Roadmap
	if err := db.Select("id").First(&roadmap, "id = ?", section.RoadmapID).Error; err != nil {
		return result, notFound(err, ErrRoadmapNotFound)
	}

	err := db.Transaction(func(tx *gorm.DB) error {
		var sections int64
		if err := tx.Model(&models.Section{}).Where("roadmap_id = ?", roadmap.ID).Count(&sections).Error; err != nil {
			return err
		}

		entry := models.RoadmapProgress{
			UserID:              userID,
			RoadmapID:           roadmap.ID,
			NumberOfAllSections: int(sections),
		}
		if err := tx.Clauses(clause.OnConflict{DoNothing: true}).Create(&entry).Error; err != nil {
			return err
		}
		var stored models.RoadmapProgress
		if err := tx.Where("user_id = ? AND roadmap_id = ?", userID, roadmap.ID).First(&stored).Error; err != nil {
			return err
		}

		removed := tx.Where("user_id = ? AND section_id = ?", userID, sectionID).Delete(&models.CompletedSection{})
		if removed.Error != nil {
			return removed.Error
		}
		if removed.RowsAffected == 0 {
			done := models.CompletedSection{UserID: userID, RoadmapID: roadmap.ID, SectionID: sectionID}
			if err := tx.Clauses(clause.OnConflict{DoNothing: true}).Create(&done).Error; err != nil {
				return err
			}
			result.IsCompleted = true
		}

		var completed int64
		if err := tx.Model(&models.CompletedSection{}).
			Where("user_id = ? AND roadmap_id = ?", userID, roadmap.ID).
			Count(&completed).Error; err != nil {
			return err
		}

		result.Completed = int(completed)
		result.Total = stored.NumberOfAllSections
		result.RoadmapID = roadmap.ID
		return nil
	})
	if err != nil {
		return ToggleResult{}, fmt.Errorf("toggle section: %w", err)
	}
	return result, nil
}

type RoadmapSummary struct {
	ID          uuid.UUID `json:"id"`
	Title       string    `json:"title"`
	Description string    `json:"description"`
}

type SectionProgress struct {
	ID          uuid.UUID `json:"id"`
	Title       string    `json:"title"`
	Description string    `json:"description"`
	Completed   bool      `json:"completed"`
}

type RoadmapProgressView struct {
	Roadmap            RoadmapSummary    `json:"roadmap"`
	Sections           []SectionProgress `json:"sections"`
	Total              int               `json:"total"`
	Completed          int               `json:"completed"`
	ProgressPercentage int               `json:"progressPercentage"`
}

// RoadmapProgress builds the per-section completion view for a user. Totals
// come from the roadmap's current sections.
func RoadmapProgress(db *gorm.DB, userID, roadmapID uuid.UUID) (RoadmapProgressView, error) {
	var view RoadmapProgressView

	var roadmap models.Roadmap
	if err := db.Preload("Sections", models.OrderByPosition).First(&roadmap, "id = ?", roadmapID).Error; err != nil {
		return view, notFound(err, ErrRoadmapNotFound)
	}
	var user models.User
	if err := db.Select("id").First(&user, "id = ?", userID).Error; err != nil {
		return view, notFound(err, ErrUserNotFound)
	}

	var done []uuid.UUID
	if err := db.Model(&models.CompletedSection{}).
		Where("user_id = ? AND roadmap_id = ?", userID, roadmapID).
		Pluck("section_id", &done).Error; err != nil {
		return view, err
	}
	completedSet := make(map[uuid.UUID]struct{}, len(done))
	for _, id := range done {
		completedSet[id] = struct{}{}
	}

	view.Roadmap = RoadmapSummary{ID: roadmap.ID, Title: roadmap.Title, Description: roadmap.Description}
	view.Sections = make([]SectionProgress, 0, len(roadmap.Sections))
	for _, s := range roadmap.Sections {
		_, ok := completedSet[s.ID]
		view.Sections = append(view.Sections, SectionProgress{
			ID:          s.ID,
			Title:       s.Title,
			Description: s.Description,
			Completed:   ok,
		})
		if ok {
			view.Completed++
		}
	}
	view.Total = len(roadmap.Sections)
	view.ProgressPercentage = CompletionPercentage(view.Completed, view.Total)
	return view, nil
}

// CompletionPercentage rounds completed/total to a whole percent; an empty
// roadmap is 0% complete.
func CompletionPercentage(completed, total int) int {
	if total == 0 {
		return 0
	}
	return int(math.Round(float64(completed) / float64(total) * 100))
}

type RoadmapEntry struct {
	RoadmapID           uuid.UUID   `json:"roadmapId"`
	CompletedSections   []uuid.UUID `json:"completedSections"`
	NumberOfAllSections int         `json:"numberOfAllSections"`
}

type ProgressData struct {
	Quiz    []models.QuizProgress `json:"quiz"`
	Roadmap []RoadmapEntry        `json:"roadmap"`
}

// UserProgress collects every progress row of a user into the shape used by
// profile responses.
func UserProgress(db *gorm.DB, userID uuid.UUID) (ProgressData, error) {
	data := ProgressData{Quiz: []models.QuizProgress{}, Roadmap: []RoadmapEntry{}}

	if err := db.Where("user_id = ?", userID).Order("created_at ASC").Find(&data.Quiz).Error; err != nil {
		return data, err
	}

	var entries []models.RoadmapProgress
	if err := db.Where("user_id = ?", userID).Order("created_at ASC").Find(&entries).Error; err != nil {
		return data, err
	}
	var completed []models.CompletedSection
	if err := db.Where("user_id = ?", userID).Order("created_at ASC").Find(&completed).Error; err != nil {
		return data, err
	}

	byRoadmap := make(map[uuid.UUID][]uuid.UUID)
	for _, c := range completed {
		byRoadmap[c.RoadmapID] = append(byRoadmap[c.RoadmapID], c.SectionID)
	}
	for _, e := range entries {
		sections := byRoadmap[e.RoadmapID]
		if sections == nil {
			sections = []uuid.UUID{}
		}
		data.Roadmap = append(data.Roadmap, RoadmapEntry{
			RoadmapID:           e.RoadmapID,
			CompletedSections:   sections,
			NumberOfAllSections: e.NumberOfAllSections,
		})
	}
	return data, nil
}
