package services

import (
	"fmt"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/vnkhanh/learnpath-backend/models"
)

// DeleteRoadmap removes a roadmap, its sections and their resources, and
// every user's progress on it. Nothing is removed if any step fails.
func DeleteRoadmap(db *gorm.DB, roadmapID uuid.UUID) error {
	return db.Transaction(func(tx *gorm.DB) error {
		var roadmap models.Roadmap
		if err := tx.Select("id").First(&roadmap, "id = ?", roadmapID).Error; err != nil {
			return notFound(err, ErrRoadmapNotFound)
		}

		var sectionIDs []uuid.UUID
		if err := tx.Model(&models.Section{}).Where("roadmap_id = ?", roadmapID).Pluck("id", &sectionIDs).Error; err != nil {
			return err
		}
		if len(sectionIDs) > 0 {
			if err := tx.Where("section_id IN ?", sectionIDs).Delete(&models.Resource{}).Error; err != nil {
				return fmt.Errorf("delete resources: %w", err)
			}
		}
		if err := tx.Where("roadmap_id = ?", roadmapID).Delete(&models.Section{}).Error; err != nil {
			return fmt.Errorf("delete sections: %w", err)
		}
		if err := tx.Delete(&models.Roadmap{}, "id = ?", roadmapID).Error; err != nil {
			return fmt.Errorf("delete roadmap: %w", err)
		}
		if err := tx.Where("roadmap_id = ?", roadmapID).Delete(&models.CompletedSection{}).Error; err != nil {
			return fmt.Errorf("scrub completed sections: %w", err)
		}
		if err := tx.Where("roadmap_id = ?", roadmapID).Delete(&models.RoadmapProgress{}).Error; err != nil {
			return fmt.Errorf("scrub roadmap progress: %w", err)
		}
		return nil
	})
}

// DeleteSection removes a section of the given roadmap with its resources
// and drops it from every completed set.
func DeleteSection(db *gorm.DB, roadmapID, sectionID uuid.UUID) error {
	return db.Transaction(func(tx *gorm.DB) error {
		var section models.Section
		if err := tx.Select("id").First(&section, "id = ? AND roadmap_id = ?", sectionID, roadmapID).Error; err != nil {
			return notFound(err, ErrSectionNotFound)
		}
		if err := tx.Where("section_id = ?", sectionID).Delete(&models.Resource{}).Error; err != nil {
			return fmt.Errorf("delete resources: %w", err)
		}
		if err := tx.Delete(&models.Section{}, "id = ?", sectionID).Error; err != nil {
			return fmt.Errorf("delete section: %w", err)
		}
		if err := tx.Where("section_id = ?", sectionID).Delete(&models.CompletedSection{}).Error; err != nil {
			return fmt.Errorf("scrub completed sections: %w", err)
		}
		return nil
	})
}

// DeleteQuiz removes a quiz with its questions and all attempts on it.
func DeleteQuiz(db *gorm.DB, quizID uuid.UUID) error {
	return db.Transaction(func(tx *gorm.DB) error {
		if err := quizExists(tx, quizID); err != nil {
			return err
		}
		if err := tx.Where("quiz_id = ?", quizID).Delete(&models.Question{}).Error; err != nil {
			return fmt.Errorf("delete questions: %w", err)
		}
		if err := tx.Delete(&models.Quiz{}, "id = ?", quizID).Error; err != nil {
			return fmt.Errorf("delete quiz: %w", err)
		}
		if err := tx.Where("quiz_id = ?", quizID).Delete(&models.QuizProgress{}).Error; err != nil {
			return fmt.Errorf("scrub quiz progress: %w", err)
		}
		return nil
	})
}

// DeleteQuestion removes the question at the given 1-based number. Later
// questions move up by one number.
func DeleteQuestion(db *gorm.DB, quizID uuid.UUID, number int) (models.Question, error) {
	var removed models.Question
	err := db.Transaction(func(tx *gorm.DB) error {
		q, err := QuestionByNumber(tx, quizID, number)
		if err != nil {
			return err
		}
		if err := tx.Delete(&models.Question{}, "id = ?", q.ID).Error; err != nil {
			return fmt.Errorf("delete question: %w", err)
		}
		removed = q
		return nil
	})
	return removed, err
}

// DeleteUser removes an account together with all of its progress rows.
func DeleteUser(db *gorm.DB, userID uuid.UUID) error {
	return db.Transaction(func(tx *gorm.DB) error {
		var user models.User
		if err := tx.Select("id").First(&user, "id = ?", userID).Error; err != nil {
			return notFound(err, ErrUserNotFound)
		}
		for _, model := range []interface{}{&models.QuizProgress{}, &models.CompletedSection{}, &models.RoadmapProgress{}} {
			if err := tx.Where("user_id = ?", userID).Delete(model).Error; err != nil {
				return fmt.Errorf("delete user progress: %w", err)
			}
		}
		if err := tx.Delete(&models.User{}, "id = ?", userID).Error; err != nil {
			return fmt.Errorf("delete user: %w", err)
		}
		return nil
	})
}
