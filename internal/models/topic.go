package models

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// Topic is a hashtag-like subject posts can attach to
type Topic struct {
	ID          string `gorm:"primaryKey;type:uuid" json:"id"`
	Name        string `gorm:"uniqueIndex;not null" json:"name"`
	Description string `gorm:"type:text" json:"description"`

	// UseCount counts posts ever attached; ViewCount counts topic page views
	UseCount  int `gorm:"default:0" json:"use_count"`
	ViewCount int `gorm:"default:0" json:"view_count"`

	// TrendingScore is recomputed on trending reads and persisted
	// opportunistically; the column is a cache, not the source of truth
	TrendingScore int `gorm:"default:0;index" json:"trending_score"`

	// Featured topics always outrank organic trending ones
	IsFeatured bool `gorm:"default:false;index" json:"is_featured"`

	CreatedAt time.Time      `json:"created_at"`
	UpdatedAt time.Time      `json:"updated_at"`
	DeletedAt gorm.DeletedAt `gorm:"index" json:"-"`
}

func (t *Topic) BeforeCreate(tx *gorm.DB) error {
	if t.ID == "" {
		t.ID = uuid.New().String()
	}
	return nil
}
