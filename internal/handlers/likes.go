package handlers

import (
	"github.com/gin-gonic/gin"
	"gorm.io/gorm"

	"github.com/campushub/backend/internal/database"
	"github.com/campushub/backend/internal/metrics"
	"github.com/campushub/backend/internal/models"
	"github.com/campushub/backend/internal/util"
)

// like inserts (or restores) a like row and bumps the target's counter,
// all inside one transaction. Re-liking an active like is a no-op
// success so the endpoint stays idempotent.
func like(userID, targetType, targetID string, counterModel interface{}) (created bool, err error) {
	err = database.DB.Transaction(func(tx *gorm.DB) error {
		var existing models.Like
		findErr := tx.Unscoped().
			Where("user_id = ? AND target_type = ? AND target_id = ?", userID, targetType, targetID).
			First(&existing).Error

		switch {
		case findErr == gorm.ErrRecordNotFound:
			if err := tx.Create(&models.Like{
				UserID:     userID,
				TargetType: targetType,
				TargetID:   targetID,
			}).Error; err != nil {
				return err
			}
		case findErr != nil:
			return findErr
		case existing.DeletedAt.Valid:
			// Soft-deleted row from an earlier unlike: restore it
			if err := tx.Unscoped().Model(&existing).Update("deleted_at", nil).Error; err != nil {
				return err
			}
		default:
			// Already liked, nothing to do
			return nil
		}

		created = true
		return incrementCounter(tx, counterModel, targetID, "like_count")
	})
	return created, err
}

// unlike soft-deletes an active like and lowers the counter. Unliking
// something that isn't liked succeeds without touching anything.
func unlike(userID, targetType, targetID string, counterModel interface{}) error {
	return database.DB.Transaction(func(tx *gorm.DB) error {
		var existing models.Like
		findErr := tx.
			Where("user_id = ? AND target_type = ? AND target_id = ?", userID, targetType, targetID).
			First(&existing).Error
		if findErr == gorm.ErrRecordNotFound {
			return nil
		}
		if findErr != nil {
			return findErr
		}

		if err := tx.Delete(&existing).Error; err != nil {
			return err
		}
		return decrementCounter(tx, counterModel, targetID, "like_count")
	})
}

// LikePost likes a post
// POST /api/v1/posts/:id/like
func (h *Handlers) LikePost(c *gin.Context) {
	userID, ok := util.GetUserIDFromContext(c)
	if !ok {
		return
	}

	var post models.Post
	if err := database.DB.First(&post, "id = ? AND status = ?", c.Param("id"), models.PostStatusPublished).Error; err != nil {
		util.RespondNotFound(c, "post")
		return
	}

	created, err := like(userID, models.LikeTargetPost, post.ID, &models.Post{})
	if err != nil {
		util.RespondInternalError(c, "failed to like post")
		return
	}

	if created {
		metrics.Get().InteractionsTotal.WithLabelValues("like", "add").Inc()
		h.notify(post.UserID, userID, models.NotificationLike, "post", post.ID, "")
	}

	util.RespondMessage(c, "liked")
}

// UnlikePost removes a post like
// DELETE /api/v1/posts/:id/like
func (h *Handlers) UnlikePost(c *gin.Context) {
	userID, ok := util.GetUserIDFromContext(c)
	if !ok {
		return
	}

	var post models.Post
	if err := database.DB.First(&post, "id = ?", c.Param("id")).Error; err != nil {
		util.RespondNotFound(c, "post")
		return
	}

	if err := unlike(userID, models.LikeTargetPost, post.ID, &models.Post{}); err != nil {
		util.RespondInternalError(c, "failed to unlike post")
		return
	}

	metrics.Get().InteractionsTotal.WithLabelValues("like", "remove").Inc()
	util.RespondMessage(c, "unliked")
}

// LikeComment likes a comment
// POST /api/v1/comments/:id/like
func (h *Handlers) LikeComment(c *gin.Context) {
	userID, ok := util.GetUserIDFromContext(c)
	if !ok {
		return
	}

	var comment models.Comment
	if err := database.DB.First(&comment, "id = ? AND is_hidden = ?", c.Param("id"), false).Error; err != nil {
		util.RespondNotFound(c, "comment")
		return
	}

	created, err := like(userID, models.LikeTargetComment, comment.ID, &models.Comment{})
	if err != nil {
		util.RespondInternalError(c, "failed to like comment")
		return
	}

	if created {
		metrics.Get().InteractionsTotal.WithLabelValues("like", "add").Inc()
		h.notify(comment.UserID, userID, models.NotificationLike, "comment", comment.ID, "")
	}

	util.RespondMessage(c, "liked")
}

// UnlikeComment removes a comment like
// DELETE /api/v1/comments/:id/like
func (h *Handlers) UnlikeComment(c *gin.Context) {
	userID, ok := util.GetUserIDFromContext(c)
	if !ok {
		return
	}

	var comment models.Comment
	if err := database.DB.First(&comment, "id = ?", c.Param("id")).Error; err != nil {
		util.RespondNotFound(c, "comment")
		return
	}

	if err := unlike(userID, models.LikeTargetComment, comment.ID, &models.Comment{}); err != nil {
		util.RespondInternalError(c, "failed to unlike comment")
		return
	}

	metrics.Get().InteractionsTotal.WithLabelValues("like", "remove").Inc()
	util.RespondMessage(c, "unliked")
}
