package handlers

import (
	"github.com/gin-gonic/gin"

	"github.com/campushub/backend/internal/database"
	"github.com/campushub/backend/internal/models"
	"github.com/campushub/backend/internal/util"
)

// ListNotifications returns the user's notifications, newest first
// GET /api/v1/notifications?unread=true&page=&limit=
func (h *Handlers) ListNotifications(c *gin.Context) {
	userID, ok := util.GetUserIDFromContext(c)
	if !ok {
		return
	}

	page, limit := util.ParsePagination(c, 20, 100)

	base := database.DB.Model(&models.Notification{}).Where("user_id = ?", userID)
	if c.Query("unread") == "true" {
		base = base.Where("is_read = ?", false)
	}

	var total int64
	if err := base.Count(&total).Error; err != nil {
		util.RespondInternalError(c, "failed to list notifications")
		return
	}

	var notifications []models.Notification
	err := base.
		Preload("Actor").
		Order("created_at DESC").
		Limit(limit).
		Offset((page - 1) * limit).
		Find(&notifications).Error
	if err != nil {
		util.RespondInternalError(c, "failed to list notifications")
		return
	}

	util.RespondData(c, gin.H{
		"notifications": notifications,
		"pagination":    util.Pagination{Page: page, Limit: limit, Total: total},
	})
}

// GetUnreadCount returns the unread notification count
// GET /api/v1/notifications/unread-count
func (h *Handlers) GetUnreadCount(c *gin.Context) {
	userID, ok := util.GetUserIDFromContext(c)
	if !ok {
		return
	}

	var count int64
	err := database.DB.Model(&models.Notification{}).
		Where("user_id = ? AND is_read = ?", userID, false).
		Count(&count).Error
	if err != nil {
		util.RespondInternalError(c, "failed to count notifications")
		return
	}

	util.RespondData(c, gin.H{"count": count})
}

// MarkNotificationRead marks one notification as read
// POST /api/v1/notifications/:id/read
func (h *Handlers) MarkNotificationRead(c *gin.Context) {
	userID, ok := util.GetUserIDFromContext(c)
	if !ok {
		return
	}

	var notification models.Notification
	err := database.DB.First(&notification, "id = ? AND user_id = ?", c.Param("id"), userID).Error
	if err != nil {
		util.RespondNotFound(c, "notification")
		return
	}

	if err := database.DB.Model(&notification).Update("is_read", true).Error; err != nil {
		util.RespondInternalError(c, "failed to mark notification read")
		return
	}

	util.RespondMessage(c, "notification marked read")
}

// MarkAllNotificationsRead marks everything as read
// POST /api/v1/notifications/read-all
func (h *Handlers) MarkAllNotificationsRead(c *gin.Context) {
	userID, ok := util.GetUserIDFromContext(c)
	if !ok {
		return
	}

	err := database.DB.Model(&models.Notification{}).
		Where("user_id = ? AND is_read = ?", userID, false).
		Update("is_read", true).Error
	if err != nil {
		util.RespondInternalError(c, "failed to mark notifications read")
		return
	}

	util.RespondMessage(c, "all notifications marked read")
}
