package models

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// Post statuses
const (
	PostStatusPublished = "published"
	PostStatusDraft     = "draft"
	PostStatusHidden    = "hidden"
	PostStatusRejected  = "rejected"
)

// Post represents a community post
type Post struct {
	ID     string `gorm:"primaryKey;type:uuid" json:"id"`
	UserID string `gorm:"not null;index" json:"user_id"`
	User   User   `gorm:"foreignKey:UserID" json:"user,omitempty"`

	CategoryID *string   `gorm:"type:uuid;index" json:"category_id,omitempty"`
	Category   *Category `gorm:"foreignKey:CategoryID" json:"category,omitempty"`

	Title   string `gorm:"not null" json:"title"`
	Content string `gorm:"type:text;not null" json:"content"`

	Status string `gorm:"default:published;index" json:"status"`

	// Engagement counters, denormalized for fast list reads.
	// Non-negative: decrements are clamped at zero.
	LikeCount     int `gorm:"default:0" json:"like_count"`
	CommentCount  int `gorm:"default:0" json:"comment_count"`
	FavoriteCount int `gorm:"default:0" json:"favorite_count"`
	ViewCount     int `gorm:"default:0" json:"view_count"`

	// Admin overrides
	IsRecommended bool `gorm:"default:false;index" json:"is_recommended"`
	IsPinned      bool `gorm:"default:false" json:"is_pinned"`

	Topics []Topic `gorm:"many2many:post_topics" json:"topics,omitempty"`
	Tags   []Tag   `gorm:"many2many:post_tags" json:"tags,omitempty"`

	CreatedAt time.Time      `gorm:"index" json:"created_at"`
	UpdatedAt time.Time      `json:"updated_at"`
	DeletedAt gorm.DeletedAt `gorm:"index" json:"-"`
}

func (p *Post) BeforeCreate(tx *gorm.DB) error {
	if p.ID == "" {
		p.ID = uuid.New().String()
	}
	return nil
}

// TotalInteractions is the sum the ranking dampening rule looks at
// (views excluded, they have their own threshold)
func (p *Post) TotalInteractions() int {
	return p.LikeCount + p.CommentCount + p.FavoriteCount
}

// Category groups posts into board-like sections
type Category struct {
	ID          string `gorm:"primaryKey;type:uuid" json:"id"`
	Name        string `gorm:"uniqueIndex;not null" json:"name"`
	Description string `gorm:"type:text" json:"description"`
	SortOrder   int    `gorm:"default:0" json:"sort_order"`
	Enabled     bool   `gorm:"default:true" json:"enabled"`

	CreatedAt time.Time      `json:"created_at"`
	UpdatedAt time.Time      `json:"updated_at"`
	DeletedAt gorm.DeletedAt `gorm:"index" json:"-"`
}

func (c *Category) BeforeCreate(tx *gorm.DB) error {
	if c.ID == "" {
		c.ID = uuid.New().String()
	}
	return nil
}

// Tag is a free-form label attached to posts
type Tag struct {
	ID       string `gorm:"primaryKey;type:uuid" json:"id"`
	Name     string `gorm:"uniqueIndex;not null" json:"name"`
	UseCount int    `gorm:"default:0" json:"use_count"`

	CreatedAt time.Time      `json:"created_at"`
	UpdatedAt time.Time      `json:"updated_at"`
	DeletedAt gorm.DeletedAt `gorm:"index" json:"-"`
}

func (t *Tag) BeforeCreate(tx *gorm.DB) error {
	if t.ID == "" {
		t.ID = uuid.New().String()
	}
	return nil
}

// PostView is the audit row written when a debounced view is counted.
// ViewerKey is the user ID for authenticated viewers, the client IP otherwise.
type PostView struct {
	ID        string    `gorm:"primaryKey;type:uuid" json:"id"`
	PostID    string    `gorm:"not null;index" json:"post_id"`
	ViewerKey string    `gorm:"not null;index" json:"viewer_key"`
	CreatedAt time.Time `json:"created_at"`
}

func (v *PostView) BeforeCreate(tx *gorm.DB) error {
	if v.ID == "" {
		v.ID = uuid.New().String()
	}
	return nil
}
