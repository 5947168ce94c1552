package models

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// Report statuses
const (
	ReportStatusPending  = "pending"
	ReportStatusResolved = "resolved"
	ReportStatusRejected = "rejected"
)

// Report target types
const (
	ReportTargetPost    = "post"
	ReportTargetComment = "comment"
	ReportTargetUser    = "user"
)

// Report is a user-submitted moderation report handled by admins
type Report struct {
	ID         string `gorm:"primaryKey;type:uuid" json:"id"`
	ReporterID string `gorm:"not null;index" json:"reporter_id"`
	Reporter   User   `gorm:"foreignKey:ReporterID" json:"reporter,omitempty"`

	TargetType string `gorm:"not null;index:idx_reports_target" json:"target_type"`
	TargetID   string `gorm:"not null;index:idx_reports_target" json:"target_id"`
	Reason     string `gorm:"type:text;not null" json:"reason"`

	Status     string  `gorm:"default:pending;index" json:"status"`
	ResolvedBy *string `gorm:"type:uuid" json:"resolved_by,omitempty"`
	Resolution string  `gorm:"type:text" json:"resolution"`

	CreatedAt time.Time      `json:"created_at"`
	UpdatedAt time.Time      `json:"updated_at"`
	DeletedAt gorm.DeletedAt `json:"-"`
}

func (r *Report) BeforeCreate(tx *gorm.DB) error {
	if r.ID == "" {
		r.ID = uuid.New().String()
	}
	return nil
}
