package handlers

import (
	"github.com/gin-gonic/gin"
	"gorm.io/gorm"

	"github.com/campushub/backend/internal/database"
	"github.com/campushub/backend/internal/models"
	"github.com/campushub/backend/internal/util"
)

// CreateCommentRequest holds a new comment. ParentID makes it a reply;
// only one level of threading is allowed.
type CreateCommentRequest struct {
	Content  string  `json:"content" binding:"required,min=1,max=2000"`
	ParentID *string `json:"parent_id"`
}

// CreateComment adds a comment to a post
// POST /api/v1/posts/:id/comments
func (h *Handlers) CreateComment(c *gin.Context) {
	userID, ok := util.GetUserIDFromContext(c)
	if !ok {
		return
	}

	var post models.Post
	if err := database.DB.First(&post, "id = ? AND status = ?", c.Param("id"), models.PostStatusPublished).Error; err != nil {
		util.RespondNotFound(c, "post")
		return
	}

	var req CreateCommentRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		util.RespondBadRequest(c, err.Error())
		return
	}

	var parent *models.Comment
	if req.ParentID != nil {
		parent = &models.Comment{}
		if err := database.DB.First(parent, "id = ? AND post_id = ?", *req.ParentID, post.ID).Error; err != nil {
			util.RespondValidationError(c, "parent_id", "parent comment not found")
			return
		}
		// Replies to replies hang off the top-level comment
		if parent.ParentID != nil {
			req.ParentID = parent.ParentID
		}
	}

	comment := models.Comment{
		PostID:   post.ID,
		UserID:   userID,
		Content:  req.Content,
		ParentID: req.ParentID,
	}

	err := database.DB.Transaction(func(tx *gorm.DB) error {
		if err := tx.Create(&comment).Error; err != nil {
			return err
		}
		return tx.Model(&models.Post{}).Where("id = ?", post.ID).
			UpdateColumn("comment_count", gorm.Expr("comment_count + 1")).Error
	})
	if err != nil {
		util.RespondInternalError(c, "failed to create comment")
		return
	}

	h.notify(post.UserID, userID, models.NotificationComment, "post", post.ID, comment.Content)
	if parent != nil {
		h.notify(parent.UserID, userID, models.NotificationComment, "comment", parent.ID, comment.Content)
	}

	database.DB.Preload("User").First(&comment, "id = ?", comment.ID)
	util.RespondCreated(c, comment)
}

// ListComments returns a post's top-level comments with replies nested
// GET /api/v1/posts/:id/comments?page=&limit=
func (h *Handlers) ListComments(c *gin.Context) {
	postID := c.Param("id")
	page, limit := util.ParsePagination(c, 20, 100)

	var post models.Post
	if err := database.DB.Select("id").First(&post, "id = ?", postID).Error; err != nil {
		util.RespondNotFound(c, "post")
		return
	}

	base := database.DB.Model(&models.Comment{}).
		Where("post_id = ? AND parent_id IS NULL AND is_hidden = ?", postID, false)

	var total int64
	if err := base.Count(&total).Error; err != nil {
		util.RespondInternalError(c, "failed to list comments")
		return
	}

	var comments []models.Comment
	err := base.
		Preload("User").
		Preload("Replies", "is_hidden = ?", false).
		Preload("Replies.User").
		Order("created_at DESC").
		Limit(limit).
		Offset((page - 1) * limit).
		Find(&comments).Error
	if err != nil {
		util.RespondInternalError(c, "failed to list comments")
		return
	}

	util.RespondData(c, gin.H{
		"comments":   comments,
		"pagination": util.Pagination{Page: page, Limit: limit, Total: total},
	})
}

// DeleteComment soft-deletes a comment (author or admin)
// DELETE /api/v1/comments/:id
func (h *Handlers) DeleteComment(c *gin.Context) {
	user, ok := util.GetUserFromContext(c)
	if !ok {
		return
	}

	var comment models.Comment
	if err := database.DB.First(&comment, "id = ?", c.Param("id")).Error; err != nil {
		util.RespondNotFound(c, "comment")
		return
	}
	if comment.UserID != user.ID && !user.IsAdmin() {
		util.RespondForbidden(c, "not your comment")
		return
	}

	err := database.DB.Transaction(func(tx *gorm.DB) error {
		if err := tx.Delete(&comment).Error; err != nil {
			return err
		}
		return decrementCounter(tx, &models.Post{}, comment.PostID, "comment_count")
	})
	if err != nil {
		util.RespondInternalError(c, "failed to delete comment")
		return
	}

	util.RespondMessage(c, "comment deleted")
}
