package models

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// User roles
const (
	RoleUser  = "user"
	RoleAdmin = "admin"
)

// User account statuses
const (
	UserStatusActive = "active"
	UserStatusBanned = "banned"
)

// User represents a campus community member account
type User struct {
	ID       string `gorm:"primaryKey;type:uuid" json:"id"`
	Email    string `gorm:"uniqueIndex;not null" json:"email"`
	Username string `gorm:"uniqueIndex;not null" json:"username"`
	Nickname string `gorm:"not null" json:"nickname"`
	Bio      string `gorm:"type:text" json:"bio"`

	PasswordHash string `gorm:"type:text;not null" json:"-"`

	// Profile data
	AvatarURL string `json:"avatar_url"`
	College   string `json:"college"`
	Major     string `json:"major"`

	Role   string `gorm:"default:user;index" json:"role"`
	Status string `gorm:"default:active" json:"status"`

	// Denormalized social counters, kept consistent with the join rows
	// inside the follow/post transactions
	FollowerCount  int `gorm:"default:0" json:"follower_count"`
	FollowingCount int `gorm:"default:0" json:"following_count"`
	PostCount      int `gorm:"default:0" json:"post_count"`

	LastActiveAt *time.Time `json:"last_active_at"`

	CreatedAt time.Time      `json:"created_at"`
	UpdatedAt time.Time      `json:"updated_at"`
	DeletedAt gorm.DeletedAt `gorm:"index" json:"-"`
}

// BeforeCreate assigns a UUID primary key when one wasn't provided
func (u *User) BeforeCreate(tx *gorm.DB) error {
	if u.ID == "" {
		u.ID = uuid.New().String()
	}
	return nil
}

// IsAdmin reports whether the user has the admin role
func (u *User) IsAdmin() bool {
	return u.Role == RoleAdmin
}

// IsBanned reports whether the account is banned
func (u *User) IsBanned() bool {
	return u.Status == UserStatusBanned
}

// PublicProfile returns the subset of user fields safe to expose to other users
func (u *User) PublicProfile() map[string]interface{} {
	return map[string]interface{}{
		"id":              u.ID,
		"username":        u.Username,
		"nickname":        u.Nickname,
		"bio":             u.Bio,
		"avatar_url":      u.AvatarURL,
		"college":         u.College,
		"major":           u.Major,
		"follower_count":  u.FollowerCount,
		"following_count": u.FollowingCount,
		"post_count":      u.PostCount,
		"created_at":      u.CreatedAt,
	}
}
