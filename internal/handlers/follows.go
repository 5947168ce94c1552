package handlers

import (
	"github.com/gin-gonic/gin"
	"gorm.io/gorm"

	"github.com/campushub/backend/internal/database"
	"github.com/campushub/backend/internal/metrics"
	"github.com/campushub/backend/internal/models"
	"github.com/campushub/backend/internal/util"
)

// FollowUser follows another user, idempotently. Both follower_count
// and following_count move inside the same transaction as the row.
// POST /api/v1/users/:id/follow
func (h *Handlers) FollowUser(c *gin.Context) {
	userID, ok := util.GetUserIDFromContext(c)
	if !ok {
		return
	}

	targetID := c.Param("id")
	if targetID == userID {
		util.RespondBadRequest(c, "cannot follow yourself")
		return
	}

	var target models.User
	if err := database.DB.First(&target, "id = ?", targetID).Error; err != nil {
		util.RespondNotFound(c, "user")
		return
	}

	created := false
	err := database.DB.Transaction(func(tx *gorm.DB) error {
		var existing models.Follow
		findErr := tx.Unscoped().
			Where("follower_id = ? AND followee_id = ?", userID, targetID).
			First(&existing).Error

		switch {
		case findErr == gorm.ErrRecordNotFound:
			if err := tx.Create(&models.Follow{FollowerID: userID, FolloweeID: targetID}).Error; err != nil {
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
		if err := incrementCounter(tx, &models.User{}, targetID, "follower_count"); err != nil {
			return err
		}
		return incrementCounter(tx, &models.User{}, userID, "following_count")
	})
	if err != nil {
		util.RespondInternalError(c, "failed to follow user")
		return
	}

	if created {
		metrics.Get().InteractionsTotal.WithLabelValues("follow", "add").Inc()
		h.notify(targetID, userID, models.NotificationFollow, "user", userID, "")
	}

	util.RespondMessage(c, "following")
}

// UnfollowUser removes a follow
// DELETE /api/v1/users/:id/follow
func (h *Handlers) UnfollowUser(c *gin.Context) {
	userID, ok := util.GetUserIDFromContext(c)
	if !ok {
		return
	}
	targetID := c.Param("id")

	err := database.DB.Transaction(func(tx *gorm.DB) error {
		var existing models.Follow
		findErr := tx.Where("follower_id = ? AND followee_id = ?", userID, targetID).First(&existing).Error
		if findErr == gorm.ErrRecordNotFound {
			return nil
		}
		if findErr != nil {
			return findErr
		}

		if err := tx.Delete(&existing).Error; err != nil {
			return err
		}
		if err := decrementCounter(tx, &models.User{}, targetID, "follower_count"); err != nil {
			return err
		}
		return decrementCounter(tx, &models.User{}, userID, "following_count")
	})
	if err != nil {
		util.RespondInternalError(c, "failed to unfollow user")
		return
	}

	metrics.Get().InteractionsTotal.WithLabelValues("follow", "remove").Inc()
	util.RespondMessage(c, "unfollowed")
}

// ListFollowers returns the users following :id
// GET /api/v1/users/:id/followers?page=&limit=
func (h *Handlers) ListFollowers(c *gin.Context) {
	h.listFollowEdge(c, "followee_id", "follower_id")
}

// ListFollowing returns the users :id follows
// GET /api/v1/users/:id/following?page=&limit=
func (h *Handlers) ListFollowing(c *gin.Context) {
	h.listFollowEdge(c, "follower_id", "followee_id")
}

func (h *Handlers) listFollowEdge(c *gin.Context, matchColumn, selectColumn string) {
	targetID := c.Param("id")
	page, limit := util.ParsePagination(c, 20, 100)

	var target models.User
	if err := database.DB.Select("id").First(&target, "id = ?", targetID).Error; err != nil {
		util.RespondNotFound(c, "user")
		return
	}

	base := database.DB.Model(&models.Follow{}).Where(matchColumn+" = ?", targetID)

	var total int64
	if err := base.Count(&total).Error; err != nil {
		util.RespondInternalError(c, "failed to list follows")
		return
	}

	var userIDs []string
	err := base.
		Order("created_at DESC").
		Limit(limit).
		Offset((page - 1) * limit).
		Pluck(selectColumn, &userIDs).Error
	if err != nil {
		util.RespondInternalError(c, "failed to list follows")
		return
	}

	var users []models.User
	if len(userIDs) > 0 {
		if err := database.DB.Where("id IN ?", userIDs).Find(&users).Error; err != nil {
			util.RespondInternalError(c, "failed to list follows")
			return
		}
	}

	profiles := make([]map[string]interface{}, 0, len(users))
	for i := range users {
		profiles = append(profiles, users[i].PublicProfile())
	}

	util.RespondData(c, gin.H{
		"users":      profiles,
		"pagination": util.Pagination{Page: page, Limit: limit, Total: total},
	})
}
