package handlers

import (
	"github.com/gin-gonic/gin"
	"gorm.io/gorm"

	"github.com/campushub/backend/internal/database"
	"github.com/campushub/backend/internal/metrics"
	"github.com/campushub/backend/internal/models"
	"github.com/campushub/backend/internal/util"
)

// FavoritePost bookmarks a post, idempotently
// POST /api/v1/posts/:id/favorite
func (h *Handlers) FavoritePost(c *gin.Context) {
	userID, ok := util.GetUserIDFromContext(c)
	if !ok {
		return
	}

	var post models.Post
	if err := database.DB.First(&post, "id = ? AND status = ?", c.Param("id"), models.PostStatusPublished).Error; err != nil {
		util.RespondNotFound(c, "post")
		return
	}

	created := false
	err := database.DB.Transaction(func(tx *gorm.DB) error {
		var existing models.Favorite
		findErr := tx.Unscoped().
			Where("user_id = ? AND post_id = ?", userID, post.ID).
			First(&existing).Error

		switch {
		case findErr == gorm.ErrRecordNotFound:
			if err := tx.Create(&models.Favorite{UserID: userID, PostID: post.ID}).Error; err != nil {
				return err
			}
		case findErr != nil:
			return findErr
		case existing.DeletedAt.Valid:
			if err := tx.Unscoped().Model(&existing).Update("deleted_at", nil).Error; err != nil {
				return err
			}
		default:
			return nil
		}

		created = true
		return incrementCounter(tx, &models.Post{}, post.ID, "favorite_count")
	})
	if err != nil {
		util.RespondInternalError(c, "failed to favorite post")
		return
	}

	if created {
		metrics.Get().InteractionsTotal.WithLabelValues("favorite", "add").Inc()
	}

	util.RespondMessage(c, "favorited")
}

// UnfavoritePost removes a bookmark
// DELETE /api/v1/posts/:id/favorite
func (h *Handlers) UnfavoritePost(c *gin.Context) {
	userID, ok := util.GetUserIDFromContext(c)
	if !ok {
		return
	}

	var post models.Post
	if err := database.DB.First(&post, "id = ?", c.Param("id")).Error; err != nil {
		util.RespondNotFound(c, "post")
		return
	}

	err := database.DB.Transaction(func(tx *gorm.DB) error {
		var existing models.Favorite
		findErr := tx.Where("user_id = ? AND post_id = ?", userID, post.ID).First(&existing).Error
		if findErr == gorm.ErrRecordNotFound {
			return nil
		}
		if findErr != nil {
			return findErr
		}

		if err := tx.Delete(&existing).Error; err != nil {
			return err
		}
		return decrementCounter(tx, &models.Post{}, post.ID, "favorite_count")
	})
	if err != nil {
		util.RespondInternalError(c, "failed to unfavorite post")
		return
	}

	metrics.Get().InteractionsTotal.WithLabelValues("favorite", "remove").Inc()
	util.RespondMessage(c, "unfavorited")
}

// ListMyFavorites returns the authenticated user's bookmarked posts
// GET /api/v1/users/me/favorites?page=&limit=
func (h *Handlers) ListMyFavorites(c *gin.Context) {
	userID, ok := util.GetUserIDFromContext(c)
	if !ok {
		return
	}

	page, limit := util.ParsePagination(c, 20, 100)

	base := database.DB.Model(&models.Favorite{}).Where("user_id = ?", userID)

	var total int64
	if err := base.Count(&total).Error; err != nil {
		util.RespondInternalError(c, "failed to list favorites")
		return
	}

	var favorites []models.Favorite
	err := base.
		Preload("Post").
		Preload("Post.User").
		Order("created_at DESC").
		Limit(limit).
		Offset((page - 1) * limit).
		Find(&favorites).Error
	if err != nil {
		util.RespondInternalError(c, "failed to list favorites")
		return
	}

	util.RespondData(c, gin.H{
		"favorites":  favorites,
		"pagination": util.Pagination{Page: page, Limit: limit, Total: total},
	})
}
