package handlers

import (
	"context"

	"go.uber.org/zap"

	"github.com/campushub/backend/internal/auth"
	"github.com/campushub/backend/internal/cache"
	"github.com/campushub/backend/internal/database"
	"github.com/campushub/backend/internal/logger"
	"github.com/campushub/backend/internal/models"
	"github.com/campushub/backend/internal/search"
	"github.com/campushub/backend/internal/views"
)

// Handlers contains all HTTP handlers for the API
type Handlers struct {
	auth   *auth.Service
	search *search.Client
	views  *views.Debouncer
}

// NewHandlers creates a new handlers instance
func NewHandlers(authService *auth.Service) *Handlers {
	return &Handlers{
		auth:  authService,
		views: views.NewDebouncer(nil, 0),
	}
}

// SetSearchClient sets the Elasticsearch search client
func (h *Handlers) SetSearchClient(searchClient *search.Client) {
	h.search = searchClient
}

// SetRedisClient sets the redis client used for view debouncing
func (h *Handlers) SetRedisClient(redisClient *cache.RedisClient) {
	h.views = views.NewDebouncer(redisClient, 0)
}

// notify writes an in-app notification row. Failures only log; a broken
// notification must never fail the action that triggered it.
func (h *Handlers) notify(userID string, actorID string, notifType, targetType, targetID, content string) {
	// Never notify users about their own actions
	if actorID != "" && actorID == userID {
		return
	}

	notification := models.Notification{
		UserID:     userID,
		Type:       notifType,
		TargetType: targetType,
		TargetID:   targetID,
		Content:    content,
	}
	if actorID != "" {
		notification.ActorID = &actorID
	}

	if err := database.DB.Create(&notification).Error; err != nil {
		logger.Log.Warn("Failed to create notification",
			zap.String("user_id", userID),
			zap.String("type", notifType),
			zap.Error(err),
		)
	}
}

// indexPostAsync pushes a post document to Elasticsearch in the background.
// Search indexing is best-effort; the DB is the source of truth.
func (h *Handlers) indexPostAsync(post *models.Post) {
	if h.search == nil {
		return
	}
	doc := search.PostDocument(post)
	postID := post.ID
	go func() {
		if err := h.search.IndexPost(context.Background(), postID, doc); err != nil {
			logger.WarnWithFields("Failed to index post for search", err)
		}
	}()
}

// indexUserAsync pushes a user document to Elasticsearch in the background.
func (h *Handlers) indexUserAsync(user *models.User) {
	if h.search == nil {
		return
	}
	doc := search.UserDocument(user)
	userID := user.ID
	go func() {
		if err := h.search.IndexUser(context.Background(), userID, doc); err != nil {
			logger.WarnWithFields("Failed to index user for search", err)
		}
	}()
}

// indexTopicAsync pushes a topic document to Elasticsearch in the background.
func (h *Handlers) indexTopicAsync(topic *models.Topic) {
	if h.search == nil {
		return
	}
	doc := search.TopicDocument(topic)
	topicID := topic.ID
	go func() {
		if err := h.search.IndexTopic(context.Background(), topicID, doc); err != nil {
			logger.WarnWithFields("Failed to index topic for search", err)
		}
	}()
}
