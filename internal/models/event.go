package models

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// Event statuses
const (
	EventStatusUpcoming  = "upcoming"
	EventStatusOngoing   = "ongoing"
	EventStatusFinished  = "finished"
	EventStatusCancelled = "cancelled"
)

// Event is a campus activity users can register for
type Event struct {
	ID          string `gorm:"primaryKey;type:uuid" json:"id"`
	CreatorID   string `gorm:"not null;index" json:"creator_id"`
	Creator     User   `gorm:"foreignKey:CreatorID" json:"creator,omitempty"`
	Title       string `gorm:"not null" json:"title"`
	Description string `gorm:"type:text" json:"description"`
	Location    string `json:"location"`

	StartTime time.Time `gorm:"not null;index" json:"start_time"`
	EndTime   time.Time `gorm:"not null" json:"end_time"`

	// Capacity 0 means unlimited
	Capacity        int `gorm:"default:0" json:"capacity"`
	RegisteredCount int `gorm:"default:0" json:"registered_count"`

	Status string `gorm:"default:upcoming;index" json:"status"`

	CreatedAt time.Time      `json:"created_at"`
	UpdatedAt time.Time      `json:"updated_at"`
	DeletedAt gorm.DeletedAt `gorm:"index" json:"-"`
}

func (e *Event) BeforeCreate(tx *gorm.DB) error {
	if e.ID == "" {
		e.ID = uuid.New().String()
	}
	return nil
}

// IsFull reports whether the event has reached capacity
func (e *Event) IsFull() bool {
	return e.Capacity > 0 && e.RegisteredCount >= e.Capacity
}

// EventRegistration links a user to an event, soft-delete restore semantics
type EventRegistration struct {
	ID      string `gorm:"primaryKey;type:uuid" json:"id"`
	EventID string `gorm:"not null;uniqueIndex:idx_event_regs_pair" json:"event_id"`
	UserID  string `gorm:"not null;uniqueIndex:idx_event_regs_pair;index" json:"user_id"`
	User    User   `gorm:"foreignKey:UserID" json:"user,omitempty"`

	CreatedAt time.Time      `json:"created_at"`
	UpdatedAt time.Time      `json:"updated_at"`
	DeletedAt gorm.DeletedAt `json:"-"`
}

func (r *EventRegistration) BeforeCreate(tx *gorm.DB) error {
	if r.ID == "" {
		r.ID = uuid.New().String()
	}
	return nil
}
