package models

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// Like target types
const (
	LikeTargetPost    = "post"
	LikeTargetComment = "comment"
)

// Like is a polymorphic like on a post or a comment. Rows are soft deleted
// on unlike and restored on re-like so the unique index keeps holding.
type Like struct {
	ID         string `gorm:"primaryKey;type:uuid" json:"id"`
	UserID     string `gorm:"not null;uniqueIndex:idx_likes_user_target" json:"user_id"`
	TargetType string `gorm:"not null;uniqueIndex:idx_likes_user_target" json:"target_type"`
	TargetID   string `gorm:"not null;uniqueIndex:idx_likes_user_target;index" json:"target_id"`

	CreatedAt time.Time      `json:"created_at"`
	UpdatedAt time.Time      `json:"updated_at"`
	DeletedAt gorm.DeletedAt `json:"-"`
}

func (l *Like) BeforeCreate(tx *gorm.DB) error {
	if l.ID == "" {
		l.ID = uuid.New().String()
	}
	return nil
}

// Favorite bookmarks a post for a user, with the same soft-delete
// restore semantics as Like
type Favorite struct {
	ID     string `gorm:"primaryKey;type:uuid" json:"id"`
	UserID string `gorm:"not null;uniqueIndex:idx_favorites_user_post" json:"user_id"`
	PostID string `gorm:"not null;uniqueIndex:idx_favorites_user_post;index" json:"post_id"`
	Post   Post   `gorm:"foreignKey:PostID" json:"post,omitempty"`

	CreatedAt time.Time      `json:"created_at"`
	UpdatedAt time.Time      `json:"updated_at"`
	DeletedAt gorm.DeletedAt `json:"-"`
}

func (f *Favorite) BeforeCreate(tx *gorm.DB) error {
	if f.ID == "" {
		f.ID = uuid.New().String()
	}
	return nil
}

// Follow links a follower to a followee
type Follow struct {
	ID         string `gorm:"primaryKey;type:uuid" json:"id"`
	FollowerID string `gorm:"not null;uniqueIndex:idx_follows_pair" json:"follower_id"`
	FolloweeID string `gorm:"not null;uniqueIndex:idx_follows_pair;index" json:"followee_id"`

	CreatedAt time.Time      `json:"created_at"`
	UpdatedAt time.Time      `json:"updated_at"`
	DeletedAt gorm.DeletedAt `json:"-"`
}

func (f *Follow) BeforeCreate(tx *gorm.DB) error {
	if f.ID == "" {
		f.ID = uuid.New().String()
	}
	return nil
}
