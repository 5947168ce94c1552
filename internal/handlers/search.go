package handlers

import (
	"github.com/gin-gonic/gin"

	"github.com/campushub/backend/internal/database"
	"github.com/campushub/backend/internal/logger"
	"github.com/campushub/backend/internal/metrics"
	"github.com/campushub/backend/internal/models"
	"github.com/campushub/backend/internal/util"
)

// Each search endpoint degrades gracefully: Elasticsearch first, and if
// it is unavailable or errors, a database LIKE fallback. Responses carry
// "fallback" in the meta block so clients can tell which path served them.

func searchParams(c *gin.Context) (query string, limit, offset int, ok bool) {
	query = c.Query("q")
	if query == "" {
		util.RespondBadRequest(c, "query parameter q is required")
		return "", 0, 0, false
	}
	limit = util.ParseInt(c.DefaultQuery("limit", "20"), 20)
	if limit < 1 || limit > 100 {
		limit = 20
	}
	offset = util.ParseInt(c.DefaultQuery("offset", "0"), 0)
	if offset < 0 {
		offset = 0
	}
	return query, limit, offset, true
}

// orderByIDs re-sorts DB rows into the relevance order ES returned
func orderByIDs[T any](rows []T, ids []string, idOf func(T) string) []T {
	byID := make(map[string]T, len(rows))
	for _, row := range rows {
		byID[idOf(row)] = row
	}
	ordered := make([]T, 0, len(rows))
	for _, id := range ids {
		if row, ok := byID[id]; ok {
			ordered = append(ordered, row)
		}
	}
	return ordered
}

// SearchPosts searches published posts
// GET /api/v1/search/posts?q=&limit=&offset=
func (h *Handlers) SearchPosts(c *gin.Context) {
	query, limit, offset, ok := searchParams(c)
	if !ok {
		return
	}

	var posts []models.Post
	total := 0
	usingFallback := false

	if h.search != nil {
		result, err := h.search.SearchPosts(c.Request.Context(), query, limit, offset)
		if err == nil && result != nil {
			total = result.Total
			if len(result.IDs) > 0 {
				if dbErr := database.DB.
					Preload("User").
					Preload("Topics").
					Preload("Tags").
					Where("id IN ? AND status = ?", result.IDs, models.PostStatusPublished).
					Find(&posts).Error; dbErr != nil {
					util.RespondInternalError(c, "search failed")
					return
				}
				posts = orderByIDs(posts, result.IDs, func(p models.Post) string { return p.ID })
			}
		} else {
			if err != nil {
				logger.WarnWithFields("Elasticsearch post search failed, falling back to database", err)
			}
			usingFallback = true
		}
	} else {
		usingFallback = true
	}

	if usingFallback {
		metrics.Get().SearchFallbacksTotal.WithLabelValues("posts").Inc()
		pattern := "%" + query + "%"

		base := database.DB.Model(&models.Post{}).
			Where("status = ?", models.PostStatusPublished).
			Where("title LIKE ? OR content LIKE ?", pattern, pattern)

		var dbTotal int64
		if err := base.Count(&dbTotal).Error; err != nil {
			util.RespondInternalError(c, "search failed")
			return
		}
		total = int(dbTotal)

		if err := base.
			Preload("User").
			Preload("Topics").
			Preload("Tags").
			Order("created_at DESC").
			Limit(limit).
			Offset(offset).
			Find(&posts).Error; err != nil {
			util.RespondInternalError(c, "search failed")
			return
		}
	}

	util.RespondData(c, gin.H{
		"posts": posts,
		"meta": gin.H{
			"query":    query,
			"limit":    limit,
			"offset":   offset,
			"total":    total,
			"fallback": usingFallback,
		},
	})
}

// SearchUsers searches users by username, nickname or bio
// GET /api/v1/search/users?q=&limit=&offset=
func (h *Handlers) SearchUsers(c *gin.Context) {
	query, limit, offset, ok := searchParams(c)
	if !ok {
		return
	}

	var users []models.User
	total := 0
	usingFallback := false

	if h.search != nil {
		result, err := h.search.SearchUsers(c.Request.Context(), query, limit, offset)
		if err == nil && result != nil {
			total = result.Total
			if len(result.IDs) > 0 {
				if dbErr := database.DB.Where("id IN ?", result.IDs).Find(&users).Error; dbErr != nil {
					util.RespondInternalError(c, "search failed")
					return
				}
				users = orderByIDs(users, result.IDs, func(u models.User) string { return u.ID })
			}
		} else {
			if err != nil {
				logger.WarnWithFields("Elasticsearch user search failed, falling back to database", err)
			}
			usingFallback = true
		}
	} else {
		usingFallback = true
	}

	if usingFallback {
		metrics.Get().SearchFallbacksTotal.WithLabelValues("users").Inc()
		pattern := "%" + query + "%"

		base := database.DB.Model(&models.User{}).
			Where("status = ?", models.UserStatusActive).
			Where("username LIKE ? OR nickname LIKE ?", pattern, pattern)

		var dbTotal int64
		if err := base.Count(&dbTotal).Error; err != nil {
			util.RespondInternalError(c, "search failed")
			return
		}
		total = int(dbTotal)

		if err := base.
			Order("follower_count DESC").
			Limit(limit).
			Offset(offset).
			Find(&users).Error; err != nil {
			util.RespondInternalError(c, "search failed")
			return
		}
	}

	profiles := make([]map[string]interface{}, 0, len(users))
	for i := range users {
		profiles = append(profiles, users[i].PublicProfile())
	}

	util.RespondData(c, gin.H{
		"users": profiles,
		"meta": gin.H{
			"query":    query,
			"limit":    limit,
			"offset":   offset,
			"total":    total,
			"fallback": usingFallback,
		},
	})
}

// SearchTopics searches topics by name or description
// GET /api/v1/search/topics?q=&limit=&offset=
func (h *Handlers) SearchTopics(c *gin.Context) {
	query, limit, offset, ok := searchParams(c)
	if !ok {
		return
	}

	var topics []models.Topic
	total := 0
	usingFallback := false

	if h.search != nil {
		result, err := h.search.SearchTopics(c.Request.Context(), query, limit, offset)
		if err == nil && result != nil {
			total = result.Total
			if len(result.IDs) > 0 {
				if dbErr := database.DB.Where("id IN ?", result.IDs).Find(&topics).Error; dbErr != nil {
					util.RespondInternalError(c, "search failed")
					return
				}
				topics = orderByIDs(topics, result.IDs, func(t models.Topic) string { return t.ID })
			}
		} else {
			if err != nil {
				logger.WarnWithFields("Elasticsearch topic search failed, falling back to database", err)
			}
			usingFallback = true
		}
	} else {
		usingFallback = true
	}

	if usingFallback {
		metrics.Get().SearchFallbacksTotal.WithLabelValues("topics").Inc()
		pattern := "%" + query + "%"

		base := database.DB.Model(&models.Topic{}).
			Where("name LIKE ? OR description LIKE ?", pattern, pattern)

		var dbTotal int64
		if err := base.Count(&dbTotal).Error; err != nil {
			util.RespondInternalError(c, "search failed")
			return
		}
		total = int(dbTotal)

		if err := base.
			Order("use_count DESC").
			Limit(limit).
			Offset(offset).
			Find(&topics).Error; err != nil {
			util.RespondInternalError(c, "search failed")
			return
		}
	}

	util.RespondData(c, gin.H{
		"topics": topics,
		"meta": gin.H{
			"query":    query,
			"limit":    limit,
			"offset":   offset,
			"total":    total,
			"fallback": usingFallback,
		},
	})
}
