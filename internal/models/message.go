package models

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// Notification types
const (
	NotificationLike    = "like"
	NotificationComment = "comment"
	NotificationFollow  = "follow"
	NotificationMessage = "message"
	NotificationEvent   = "event"
	NotificationSystem  = "system"
)

// Message is a direct message between two users
type Message struct {
	ID          string `gorm:"primaryKey;type:uuid" json:"id"`
	SenderID    string `gorm:"not null;index" json:"sender_id"`
	Sender      User   `gorm:"foreignKey:SenderID" json:"sender,omitempty"`
	RecipientID string `gorm:"not null;index" json:"recipient_id"`

	Content string `gorm:"type:text;not null" json:"content"`
	IsRead  bool   `gorm:"default:false;index" json:"is_read"`

	CreatedAt time.Time      `gorm:"index" json:"created_at"`
	UpdatedAt time.Time      `json:"updated_at"`
	DeletedAt gorm.DeletedAt `json:"-"`
}

func (m *Message) BeforeCreate(tx *gorm.DB) error {
	if m.ID == "" {
		m.ID = uuid.New().String()
	}
	return nil
}

// Notification is an in-app notification for a user.
// Actor is empty for system notifications.
type Notification struct {
	ID      string  `gorm:"primaryKey;type:uuid" json:"id"`
	UserID  string  `gorm:"not null;index" json:"user_id"`
	ActorID *string `gorm:"type:uuid" json:"actor_id,omitempty"`
	Actor   *User   `gorm:"foreignKey:ActorID" json:"actor,omitempty"`

	Type       string `gorm:"not null;index" json:"type"`
	TargetType string `json:"target_type"`
	TargetID   string `json:"target_id"`
	Content    string `gorm:"type:text" json:"content"`

	IsRead bool `gorm:"default:false;index" json:"is_read"`

	CreatedAt time.Time      `gorm:"index" json:"created_at"`
	UpdatedAt time.Time      `json:"updated_at"`
	DeletedAt gorm.DeletedAt `json:"-"`
}

func (n *Notification) BeforeCreate(tx *gorm.DB) error {
	if n.ID == "" {
		n.ID = uuid.New().String()
	}
	return nil
}
