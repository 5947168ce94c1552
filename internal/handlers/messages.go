package handlers

import (
	"github.com/gin-gonic/gin"

	"github.com/campushub/backend/internal/database"
	"github.com/campushub/backend/internal/models"
	"github.com/campushub/backend/internal/util"
)

// SendMessageRequest holds a direct message body
type SendMessageRequest struct {
	Content string `json:"content" binding:"required,min=1,max=2000"`
}

// SendMessage sends a direct message to another user
// POST /api/v1/messages/:userID
func (h *Handlers) SendMessage(c *gin.Context) {
	senderID, ok := util.GetUserIDFromContext(c)
	if !ok {
		return
	}

	recipientID := c.Param("userID")
	if recipientID == senderID {
		util.RespondBadRequest(c, "cannot message yourself")
		return
	}

	var recipient models.User
	if err := database.DB.First(&recipient, "id = ?", recipientID).Error; err != nil {
		util.RespondNotFound(c, "user")
		return
	}

	var req SendMessageRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		util.RespondBadRequest(c, err.Error())
		return
	}

	message := models.Message{
		SenderID:    senderID,
		RecipientID: recipientID,
		Content:     req.Content,
	}
	if err := database.DB.Create(&message).Error; err != nil {
		util.RespondInternalError(c, "failed to send message")
		return
	}

	h.notify(recipientID, senderID, models.NotificationMessage, "message", message.ID, req.Content)

	util.RespondCreated(c, message)
}

// conversationSummary is one row of the conversation list
type conversationSummary struct {
	PartnerID   string                 `json:"partner_id"`
	Partner     map[string]interface{} `json:"partner"`
	LastMessage models.Message         `json:"last_message"`
	UnreadCount int64                  `json:"unread_count"`
}

// ListConversations returns conversation partners with the latest
// message and unread count per partner
// GET /api/v1/messages
func (h *Handlers) ListConversations(c *gin.Context) {
	userID, ok := util.GetUserIDFromContext(c)
	if !ok {
		return
	}

	// All messages touching this user, newest first; first hit per
	// partner is the conversation head
	var messages []models.Message
	err := database.DB.
		Where("sender_id = ? OR recipient_id = ?", userID, userID).
		Order("created_at DESC").
		Find(&messages).Error
	if err != nil {
		util.RespondInternalError(c, "failed to list conversations")
		return
	}

	heads := make([]models.Message, 0)
	seen := make(map[string]bool)
	partnerIDs := make([]string, 0)
	for _, m := range messages {
		partnerID := m.SenderID
		if partnerID == userID {
			partnerID = m.RecipientID
		}
		if seen[partnerID] {
			continue
		}
		seen[partnerID] = true
		heads = append(heads, m)
		partnerIDs = append(partnerIDs, partnerID)
	}

	partners := make(map[string]models.User, len(partnerIDs))
	if len(partnerIDs) > 0 {
		var users []models.User
		if err := database.DB.Where("id IN ?", partnerIDs).Find(&users).Error; err != nil {
			util.RespondInternalError(c, "failed to list conversations")
			return
		}
		for _, u := range users {
			partners[u.ID] = u
		}
	}

	conversations := make([]conversationSummary, 0, len(heads))
	for _, head := range heads {
		partnerID := head.SenderID
		if partnerID == userID {
			partnerID = head.RecipientID
		}

		var unread int64
		database.DB.Model(&models.Message{}).
			Where("sender_id = ? AND recipient_id = ? AND is_read = ?", partnerID, userID, false).
			Count(&unread)

		summary := conversationSummary{
			PartnerID:   partnerID,
			LastMessage: head,
			UnreadCount: unread,
		}
		if partner, ok := partners[partnerID]; ok {
			summary.Partner = partner.PublicProfile()
		}
		conversations = append(conversations, summary)
	}

	util.RespondData(c, gin.H{"conversations": conversations})
}

// ListMessagesWith returns the full thread with one user, oldest first
// GET /api/v1/messages/:userID?page=&limit=
func (h *Handlers) ListMessagesWith(c *gin.Context) {
	userID, ok := util.GetUserIDFromContext(c)
	if !ok {
		return
	}
	partnerID := c.Param("userID")

	page, limit := util.ParsePagination(c, 50, 200)

	base := database.DB.Model(&models.Message{}).
		Where("(sender_id = ? AND recipient_id = ?) OR (sender_id = ? AND recipient_id = ?)",
			userID, partnerID, partnerID, userID)

	var total int64
	if err := base.Count(&total).Error; err != nil {
		util.RespondInternalError(c, "failed to list messages")
		return
	}

	var thread []models.Message
	err := base.
		Order("created_at ASC").
		Limit(limit).
		Offset((page - 1) * limit).
		Find(&thread).Error
	if err != nil {
		util.RespondInternalError(c, "failed to list messages")
		return
	}

	util.RespondData(c, gin.H{
		"messages":   thread,
		"pagination": util.Pagination{Page: page, Limit: limit, Total: total},
	})
}

// MarkConversationRead marks everything the partner sent as read
// POST /api/v1/messages/:userID/read
func (h *Handlers) MarkConversationRead(c *gin.Context) {
	userID, ok := util.GetUserIDFromContext(c)
	if !ok {
		return
	}
	partnerID := c.Param("userID")

	err := database.DB.Model(&models.Message{}).
		Where("sender_id = ? AND recipient_id = ? AND is_read = ?", partnerID, userID, false).
		Update("is_read", true).Error
	if err != nil {
		util.RespondInternalError(c, "failed to mark messages read")
		return
	}

	util.RespondMessage(c, "conversation marked read")
}
