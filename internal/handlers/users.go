package handlers

import (
	"github.com/gin-gonic/gin"

	"github.com/campushub/backend/internal/database"
	"github.com/campushub/backend/internal/models"
	"github.com/campushub/backend/internal/util"
)

// GetUser returns a user's public profile with the viewer's follow state
// GET /api/v1/users/:id
func (h *Handlers) GetUser(c *gin.Context) {
	var user models.User
	if err := database.DB.First(&user, "id = ?", c.Param("id")).Error; err != nil {
		util.RespondNotFound(c, "user")
		return
	}

	profile := user.PublicProfile()

	if viewerID := util.OptionalUserID(c); viewerID != "" && viewerID != user.ID {
		var n int64
		database.DB.Model(&models.Follow{}).
			Where("follower_id = ? AND followee_id = ?", viewerID, user.ID).
			Count(&n)
		profile["is_following"] = n > 0
	}

	util.RespondData(c, profile)
}

// ListUserPosts lists a user's published posts
// GET /api/v1/users/:id/posts?page=&limit=
func (h *Handlers) ListUserPosts(c *gin.Context) {
	targetID := c.Param("id")
	page, limit := util.ParsePagination(c, 20, 100)

	var target models.User
	if err := database.DB.Select("id").First(&target, "id = ?", targetID).Error; err != nil {
		util.RespondNotFound(c, "user")
		return
	}

	base := database.DB.Model(&models.Post{}).
		Where("user_id = ? AND status = ?", targetID, models.PostStatusPublished)

	var total int64
	if err := base.Count(&total).Error; err != nil {
		util.RespondInternalError(c, "failed to list posts")
		return
	}

	var posts []models.Post
	err := base.
		Preload("Topics").
		Preload("Tags").
		Order("created_at DESC").
		Limit(limit).
		Offset((page - 1) * limit).
		Find(&posts).Error
	if err != nil {
		util.RespondInternalError(c, "failed to list posts")
		return
	}

	util.RespondData(c, gin.H{
		"posts":      posts,
		"pagination": util.Pagination{Page: page, Limit: limit, Total: total},
	})
}

// ListUserBadges returns the badges granted to a user
// GET /api/v1/users/:id/badges
func (h *Handlers) ListUserBadges(c *gin.Context) {
	targetID := c.Param("id")

	var target models.User
	if err := database.DB.Select("id").First(&target, "id = ?", targetID).Error; err != nil {
		util.RespondNotFound(c, "user")
		return
	}

	var grants []models.UserBadge
	err := database.DB.
		Preload("Badge").
		Where("user_id = ?", targetID).
		Order("created_at DESC").
		Find(&grants).Error
	if err != nil {
		util.RespondInternalError(c, "failed to list badges")
		return
	}

	util.RespondData(c, gin.H{"badges": grants})
}
