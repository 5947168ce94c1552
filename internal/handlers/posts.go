package handlers

import (
	"context"
	"strings"
	"time"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"

	"github.com/campushub/backend/internal/database"
	"github.com/campushub/backend/internal/logger"
	"github.com/campushub/backend/internal/metrics"
	"github.com/campushub/backend/internal/models"
	"github.com/campushub/backend/internal/ranking"
	"github.com/campushub/backend/internal/settings"
	"github.com/campushub/backend/internal/util"
)

// CreatePostRequest holds a new post's payload. Topics and tags are
// attached by name and created on first use.
type CreatePostRequest struct {
	Title      string   `json:"title" binding:"required,min=1,max=200"`
	Content    string   `json:"content" binding:"required,min=1"`
	CategoryID *string  `json:"category_id"`
	Topics     []string `json:"topics" binding:"omitempty,max=5"`
	Tags       []string `json:"tags" binding:"omitempty,max=10"`
	Draft      bool     `json:"draft"`
}

// CreatePost creates a post for the authenticated user
// POST /api/v1/posts
func (h *Handlers) CreatePost(c *gin.Context) {
	userID, ok := util.GetUserIDFromContext(c)
	if !ok {
		return
	}

	var req CreatePostRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		util.RespondBadRequest(c, err.Error())
		return
	}

	if req.CategoryID != nil {
		var category models.Category
		if err := database.DB.First(&category, "id = ? AND enabled = ?", *req.CategoryID, true).Error; err != nil {
			util.RespondValidationError(c, "category_id", "unknown category")
			return
		}
	}

	status := models.PostStatusPublished
	if req.Draft {
		status = models.PostStatusDraft
	}

	post := models.Post{
		UserID:     userID,
		CategoryID: req.CategoryID,
		Title:      req.Title,
		Content:    req.Content,
		Status:     status,
	}

	err := database.DB.Transaction(func(tx *gorm.DB) error {
		if err := tx.Create(&post).Error; err != nil {
			return err
		}

		topics, err := attachTopics(tx, &post, req.Topics)
		if err != nil {
			return err
		}
		post.Topics = topics

		tags, err := attachTags(tx, &post, req.Tags)
		if err != nil {
			return err
		}
		post.Tags = tags

		if status == models.PostStatusPublished {
			if err := tx.Model(&models.User{}).Where("id = ?", userID).
				UpdateColumn("post_count", gorm.Expr("post_count + 1")).Error; err != nil {
				return err
			}
		}
		return nil
	})
	if err != nil {
		logger.ErrorWithFields("Failed to create post", err)
		util.RespondInternalError(c, "failed to create post")
		return
	}

	if status == models.PostStatusPublished {
		h.indexPostAsync(&post)
	}
	// Topic rows were created (or bumped) even for drafts
	for i := range post.Topics {
		h.indexTopicAsync(&post.Topics[i])
	}

	util.RespondCreated(c, post)
}

// attachTopics resolves topic names to rows (creating missing ones),
// links them to the post and bumps use counts.
func attachTopics(tx *gorm.DB, post *models.Post, names []string) ([]models.Topic, error) {
	topics := make([]models.Topic, 0, len(names))
	for _, name := range names {
		name = strings.TrimSpace(name)
		if name == "" {
			continue
		}

		var topic models.Topic
		err := tx.Where("name = ?", name).First(&topic).Error
		if err == gorm.ErrRecordNotFound {
			topic = models.Topic{Name: name}
			err = tx.Create(&topic).Error
		}
		if err != nil {
			return nil, err
		}

		if err := tx.Model(post).Association("Topics").Append(&topic); err != nil {
			return nil, err
		}
		if err := tx.Model(&models.Topic{}).Where("id = ?", topic.ID).
			UpdateColumn("use_count", gorm.Expr("use_count + 1")).Error; err != nil {
			return nil, err
		}
		// Keep the copy consistent with the row; it feeds the search document
		topic.UseCount++
		topics = append(topics, topic)
	}
	return topics, nil
}

// attachTags mirrors attachTopics for free-form tags.
func attachTags(tx *gorm.DB, post *models.Post, names []string) ([]models.Tag, error) {
	tags := make([]models.Tag, 0, len(names))
	for _, name := range names {
		name = strings.TrimSpace(name)
		if name == "" {
			continue
		}

		var tag models.Tag
		err := tx.Where("name = ?", name).First(&tag).Error
		if err == gorm.ErrRecordNotFound {
			tag = models.Tag{Name: name}
			err = tx.Create(&tag).Error
		}
		if err != nil {
			return nil, err
		}

		if err := tx.Model(post).Association("Tags").Append(&tag); err != nil {
			return nil, err
		}
		if err := tx.Model(&models.Tag{}).Where("id = ?", tag.ID).
			UpdateColumn("use_count", gorm.Expr("use_count + 1")).Error; err != nil {
			return nil, err
		}
		tags = append(tags, tag)
	}
	return tags, nil
}

// GetPost returns a single post with author, topics and tags preloaded
// GET /api/v1/posts/:id
func (h *Handlers) GetPost(c *gin.Context) {
	postID := c.Param("id")

	var post models.Post
	err := database.DB.
		Preload("User").
		Preload("Category").
		Preload("Topics").
		Preload("Tags").
		First(&post, "id = ?", postID).Error
	if err != nil {
		util.RespondNotFound(c, "post")
		return
	}

	viewerID := util.OptionalUserID(c)

	// Hidden/draft posts are visible to their author and admins only
	if post.Status != models.PostStatusPublished {
		viewer, _ := util.GetUserFromContext(c)
		isOwner := viewerID != "" && viewerID == post.UserID
		isAdmin := viewer != nil && viewer.IsAdmin()
		if !isOwner && !isAdmin {
			util.RespondNotFound(c, "post")
			return
		}
	}

	liked, favorited := false, false
	if viewerID != "" {
		var n int64
		database.DB.Model(&models.Like{}).
			Where("user_id = ? AND target_type = ? AND target_id = ?", viewerID, models.LikeTargetPost, post.ID).
			Count(&n)
		liked = n > 0

		database.DB.Model(&models.Favorite{}).
			Where("user_id = ? AND post_id = ?", viewerID, post.ID).
			Count(&n)
		favorited = n > 0
	}

	util.RespondData(c, gin.H{
		"post":      post,
		"liked":     liked,
		"favorited": favorited,
	})
}

// ListPosts lists published posts with optional filters
// GET /api/v1/posts?category=&topic=&tag=&author=&sort=newest|hot&page=&limit=
func (h *Handlers) ListPosts(c *gin.Context) {
	page, limit := util.ParsePagination(c, 20, 100)

	query := database.DB.Model(&models.Post{}).
		Where("status = ?", models.PostStatusPublished)

	if categoryID := c.Query("category"); categoryID != "" {
		query = query.Where("category_id = ?", categoryID)
	}
	if author := c.Query("author"); author != "" {
		query = query.Where("user_id = ?", author)
	}
	if topicID := c.Query("topic"); topicID != "" {
		query = query.Where("id IN (?)",
			database.DB.Table("post_topics").Select("post_id").Where("topic_id = ?", topicID))
	}
	if tagID := c.Query("tag"); tagID != "" {
		query = query.Where("id IN (?)",
			database.DB.Table("post_tags").Select("post_id").Where("tag_id = ?", tagID))
	}

	var total int64
	if err := query.Count(&total).Error; err != nil {
		util.RespondInternalError(c, "failed to list posts")
		return
	}

	// "hot" orders by raw interaction volume; the ranked feed with time
	// decay lives at /posts/recommended
	switch c.DefaultQuery("sort", "newest") {
	case "hot":
		query = query.Order("(like_count + comment_count + favorite_count) DESC, created_at DESC")
	default:
		query = query.Order("is_pinned DESC, created_at DESC")
	}

	var posts []models.Post
	err := query.
		Preload("User").
		Preload("Topics").
		Preload("Tags").
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

// UpdatePostRequest holds the editable post fields
type UpdatePostRequest struct {
	Title   *string `json:"title" binding:"omitempty,min=1,max=200"`
	Content *string `json:"content" binding:"omitempty,min=1"`
	Publish *bool   `json:"publish"`
}

// UpdatePost edits a post's title/content or publishes a draft
// PUT /api/v1/posts/:id
func (h *Handlers) UpdatePost(c *gin.Context) {
	userID, ok := util.GetUserIDFromContext(c)
	if !ok {
		return
	}

	var post models.Post
	if err := database.DB.First(&post, "id = ?", c.Param("id")).Error; err != nil {
		util.RespondNotFound(c, "post")
		return
	}
	if post.UserID != userID {
		util.RespondForbidden(c, "not your post")
		return
	}

	var req UpdatePostRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		util.RespondBadRequest(c, err.Error())
		return
	}

	updates := map[string]interface{}{}
	if req.Title != nil {
		updates["title"] = *req.Title
	}
	if req.Content != nil {
		updates["content"] = *req.Content
	}

	publishing := req.Publish != nil && *req.Publish && post.Status == models.PostStatusDraft
	if publishing {
		updates["status"] = models.PostStatusPublished
	}
	if len(updates) == 0 {
		util.RespondBadRequest(c, "no fields to update")
		return
	}

	err := database.DB.Transaction(func(tx *gorm.DB) error {
		if err := tx.Model(&post).Updates(updates).Error; err != nil {
			return err
		}
		if publishing {
			return tx.Model(&models.User{}).Where("id = ?", userID).
				UpdateColumn("post_count", gorm.Expr("post_count + 1")).Error
		}
		return nil
	})
	if err != nil {
		util.RespondInternalError(c, "failed to update post")
		return
	}

	if post.Status == models.PostStatusPublished {
		h.indexPostAsync(&post)
	}

	util.RespondData(c, post)
}

// DeletePost soft-deletes a post (author or admin)
// DELETE /api/v1/posts/:id
func (h *Handlers) DeletePost(c *gin.Context) {
	user, ok := util.GetUserFromContext(c)
	if !ok {
		return
	}

	var post models.Post
	if err := database.DB.First(&post, "id = ?", c.Param("id")).Error; err != nil {
		util.RespondNotFound(c, "post")
		return
	}
	if post.UserID != user.ID && !user.IsAdmin() {
		util.RespondForbidden(c, "not your post")
		return
	}

	err := database.DB.Transaction(func(tx *gorm.DB) error {
		if err := tx.Delete(&post).Error; err != nil {
			return err
		}
		if post.Status == models.PostStatusPublished {
			return decrementCounter(tx, &models.User{}, post.UserID, "post_count")
		}
		return nil
	})
	if err != nil {
		util.RespondInternalError(c, "failed to delete post")
		return
	}

	if h.search != nil {
		postID := post.ID
		go func() {
			if err := h.search.DeletePost(context.Background(), postID); err != nil {
				logger.WarnWithFields("Failed to remove post from search index", err)
			}
		}()
	}

	util.RespondMessage(c, "post deleted")
}

// RecordView counts a debounced view for a post
// POST /api/v1/posts/:id/view
func (h *Handlers) RecordView(c *gin.Context) {
	postID := c.Param("id")

	var post models.Post
	if err := database.DB.Select("id", "status").First(&post, "id = ?", postID).Error; err != nil {
		util.RespondNotFound(c, "post")
		return
	}
	if post.Status != models.PostStatusPublished {
		util.RespondNotFound(c, "post")
		return
	}

	viewerKey := util.ViewerKey(c)
	if !h.views.ShouldCount(c.Request.Context(), postID, viewerKey) {
		metrics.Get().ViewsSuppressedTotal.Inc()
		util.RespondData(c, gin.H{"counted": false})
		return
	}

	err := database.DB.Transaction(func(tx *gorm.DB) error {
		if err := tx.Model(&models.Post{}).Where("id = ?", postID).
			UpdateColumn("view_count", gorm.Expr("view_count + 1")).Error; err != nil {
			return err
		}
		return tx.Create(&models.PostView{PostID: postID, ViewerKey: viewerKey}).Error
	})
	if err != nil {
		util.RespondInternalError(c, "failed to record view")
		return
	}

	util.RespondData(c, gin.H{"counted": true})
}

// GetRecommendedFeed returns the ranked post feed
// GET /api/v1/posts/recommended?page=&limit=
func (h *Handlers) GetRecommendedFeed(c *gin.Context) {
	page, limit := util.ParsePagination(c, 20, 50)
	viewerID := util.OptionalUserID(c)

	cfg, err := settings.LoadRankingConfig(database.DB)
	if err != nil {
		util.RespondInternalError(c, "failed to load ranking settings")
		return
	}

	startTime := time.Now()
	feed, err := ranking.RecommendedFeed(database.DB, cfg, page, limit, viewerID)
	if err != nil {
		logger.ErrorWithFields("Failed to build recommended feed", err)
		util.RespondInternalError(c, "failed to build feed")
		return
	}

	m := metrics.Get()
	m.RankingComputations.WithLabelValues("feed").Inc()
	m.RankingDuration.WithLabelValues("feed").Observe(time.Since(startTime).Seconds())

	util.RespondData(c, gin.H{
		"posts":      feed.Posts,
		"pagination": util.Pagination{Page: feed.Page, Limit: feed.Limit, Total: feed.Total},
	})
}
