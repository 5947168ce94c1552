package handlers

import (
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

// ListTopics lists topics ordered by use count
// GET /api/v1/topics?page=&limit=
func (h *Handlers) ListTopics(c *gin.Context) {
	page, limit := util.ParsePagination(c, 20, 100)

	var total int64
	if err := database.DB.Model(&models.Topic{}).Count(&total).Error; err != nil {
		util.RespondInternalError(c, "failed to list topics")
		return
	}

	var topics []models.Topic
	err := database.DB.
		Order("use_count DESC, name ASC").
		Limit(limit).
		Offset((page - 1) * limit).
		Find(&topics).Error
	if err != nil {
		util.RespondInternalError(c, "failed to list topics")
		return
	}

	util.RespondData(c, gin.H{
		"topics":     topics,
		"pagination": util.Pagination{Page: page, Limit: limit, Total: total},
	})
}

// GetTrendingTopics returns the trending topic list, featured first
// GET /api/v1/topics/trending?limit=
func (h *Handlers) GetTrendingTopics(c *gin.Context) {
	limit := util.ParseInt(c.DefaultQuery("limit", "10"), 10)
	if limit < 1 {
		limit = 10
	}

	cfg, err := settings.LoadRankingConfig(database.DB)
	if err != nil {
		util.RespondInternalError(c, "failed to load ranking settings")
		return
	}

	startTime := time.Now()
	trending, err := ranking.TrendingTopics(database.DB, cfg, limit)
	if err != nil {
		logger.ErrorWithFields("Failed to compute trending topics", err)
		util.RespondInternalError(c, "failed to compute trending topics")
		return
	}

	m := metrics.Get()
	m.RankingComputations.WithLabelValues("trending").Inc()
	m.RankingDuration.WithLabelValues("trending").Observe(time.Since(startTime).Seconds())

	util.RespondData(c, gin.H{"topics": trending})
}

// GetTopic returns a topic and bumps its view count
// GET /api/v1/topics/:id
func (h *Handlers) GetTopic(c *gin.Context) {
	var topic models.Topic
	if err := database.DB.First(&topic, "id = ?", c.Param("id")).Error; err != nil {
		util.RespondNotFound(c, "topic")
		return
	}

	if err := database.DB.Model(&topic).
		UpdateColumn("view_count", gorm.Expr("view_count + 1")).Error; err != nil {
		logger.WarnWithFields("Failed to bump topic view count", err)
	}

	util.RespondData(c, topic)
}

// ListTopicPosts lists published posts under a topic
// GET /api/v1/topics/:id/posts?page=&limit=
func (h *Handlers) ListTopicPosts(c *gin.Context) {
	topicID := c.Param("id")
	page, limit := util.ParsePagination(c, 20, 100)

	var topic models.Topic
	if err := database.DB.Select("id").First(&topic, "id = ?", topicID).Error; err != nil {
		util.RespondNotFound(c, "topic")
		return
	}

	base := database.DB.Model(&models.Post{}).
		Where("status = ?", models.PostStatusPublished).
		Where("id IN (?)",
			database.DB.Table("post_topics").Select("post_id").Where("topic_id = ?", topicID))

	var total int64
	if err := base.Count(&total).Error; err != nil {
		util.RespondInternalError(c, "failed to list topic posts")
		return
	}

	var posts []models.Post
	err := base.
		Preload("User").
		Preload("Topics").
		Preload("Tags").
		Order("created_at DESC").
		Limit(limit).
		Offset((page - 1) * limit).
		Find(&posts).Error
	if err != nil {
		util.RespondInternalError(c, "failed to list topic posts")
		return
	}

	util.RespondData(c, gin.H{
		"posts":      posts,
		"pagination": util.Pagination{Page: page, Limit: limit, Total: total},
	})
}

// ListTags lists tags ordered by use count
// GET /api/v1/tags?page=&limit=
func (h *Handlers) ListTags(c *gin.Context) {
	page, limit := util.ParsePagination(c, 50, 200)

	var total int64
	if err := database.DB.Model(&models.Tag{}).Count(&total).Error; err != nil {
		util.RespondInternalError(c, "failed to list tags")
		return
	}

	var tags []models.Tag
	err := database.DB.
		Order("use_count DESC, name ASC").
		Limit(limit).
		Offset((page - 1) * limit).
		Find(&tags).Error
	if err != nil {
		util.RespondInternalError(c, "failed to list tags")
		return
	}

	util.RespondData(c, gin.H{
		"tags":       tags,
		"pagination": util.Pagination{Page: page, Limit: limit, Total: total},
	})
}

// ListTagPosts lists published posts carrying a tag
// GET /api/v1/tags/:id/posts?page=&limit=
func (h *Handlers) ListTagPosts(c *gin.Context) {
	tagID := c.Param("id")
	page, limit := util.ParsePagination(c, 20, 100)

	var tag models.Tag
	if err := database.DB.Select("id").First(&tag, "id = ?", tagID).Error; err != nil {
		util.RespondNotFound(c, "tag")
		return
	}

	base := database.DB.Model(&models.Post{}).
		Where("status = ?", models.PostStatusPublished).
		Where("id IN (?)",
			database.DB.Table("post_tags").Select("post_id").Where("tag_id = ?", tagID))

	var total int64
	if err := base.Count(&total).Error; err != nil {
		util.RespondInternalError(c, "failed to list tag posts")
		return
	}

	var posts []models.Post
	err := base.
		Preload("User").
		Preload("Tags").
		Order("created_at DESC").
		Limit(limit).
		Offset((page - 1) * limit).
		Find(&posts).Error
	if err != nil {
		util.RespondInternalError(c, "failed to list tag posts")
		return
	}

	util.RespondData(c, gin.H{
		"posts":      posts,
		"pagination": util.Pagination{Page: page, Limit: limit, Total: total},
	})
}

// ListCategories lists enabled categories in sort order
// GET /api/v1/categories
func (h *Handlers) ListCategories(c *gin.Context) {
	var categories []models.Category
	err := database.DB.
		Where("enabled = ?", true).
		Order("sort_order ASC, name ASC").
		Find(&categories).Error
	if err != nil {
		util.RespondInternalError(c, "failed to list categories")
		return
	}

	util.RespondData(c, gin.H{"categories": categories})
}
