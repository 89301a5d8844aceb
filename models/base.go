package models

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// Base is embedded by every stored entity. IDs are generated by the
// application so the same schema works on PostgreSQL and SQLite.
type Base struct {
	ID        uuid.UUID `gorm:"type:uuid;primaryKey" json:"id"`
	CreatedAt time.Time `gorm:"autoCreateTime" json:"createdAt"`
	UpdatedAt time.Time `gorm:"autoUpdateTime" json:"updatedAt"`
}

func (b *Base) BeforeCreate(tx *gorm.DB) error {
	if b.ID == uuid.Nil {
		b.ID = uuid.New()
	}
	return nil
}

// OrderByPosition keeps child sequences (questions, sections, resources) in
// insertion order.
func OrderByPosition(db *gorm.DB) *gorm.DB {
	return db.Order("position ASC").Order("created_at ASC")
}

// All lists every model handled by AutoMigrate.
func All() []interface{} {
	return []interface{}{
		&User{},
		&Quiz{},
		&Question{},
		&Roadmap{},
		&Section{},
		&Resource{},
		&QuizProgress{},
		&RoadmapProgress{},
		&CompletedSection{},
	}
}
