package main

import (
	"github.com/gin-gonic/gin"

	"github.com/campushub/backend/internal/auth"
	"github.com/campushub/backend/internal/handlers"
	"github.com/campushub/backend/internal/middleware"
)

func registerRoutes(r *gin.Engine, h *handlers.Handlers, authService *auth.Service) {
	requireAuth := middleware.RequireAuth(authService)
	optionalAuth := middleware.OptionalAuth(authService)
	requireAdmin := middleware.RequireAdmin()
	listCache := middleware.ResponseCacheMiddleware(listCacheTTL)

	api := r.Group("/api/v1")

	authGroup := api.Group("/auth")
	{
		authGroup.POST("/register", h.Register)
		authGroup.POST("/login", h.Login)
		authGroup.GET("/me", requireAuth, h.GetMe)
		authGroup.POST("/change-password", requireAuth, h.ChangePassword)
	}

	users := api.Group("/users")
	{
		users.PUT("/me", requireAuth, h.UpdateMe)
		users.GET("/me/favorites", requireAuth, h.ListMyFavorites)
		users.GET("/me/events", requireAuth, h.ListMyEvents)

		users.GET("/:id", optionalAuth, h.GetUser)
		users.GET("/:id/posts", h.ListUserPosts)
		users.GET("/:id/followers", h.ListFollowers)
		users.GET("/:id/following", h.ListFollowing)
		users.GET("/:id/badges", h.ListUserBadges)

		users.POST("/:id/follow", requireAuth, h.FollowUser)
		users.DELETE("/:id/follow", requireAuth, h.UnfollowUser)
	}

	posts := api.Group("/posts")
	{
		posts.GET("", listCache, h.ListPosts)
		// Ranked feed is computed fresh on every request, never cached
		posts.GET("/recommended", optionalAuth, h.GetRecommendedFeed)
		posts.GET("/:id", optionalAuth, h.GetPost)
		posts.POST("", requireAuth, h.CreatePost)
		posts.PUT("/:id", requireAuth, h.UpdatePost)
		posts.DELETE("/:id", requireAuth, h.DeletePost)

		posts.POST("/:id/view", optionalAuth, h.RecordView)

		posts.GET("/:id/comments", h.ListComments)
		posts.POST("/:id/comments", requireAuth, h.CreateComment)

		posts.POST("/:id/like", requireAuth, h.LikePost)
		posts.DELETE("/:id/like", requireAuth, h.UnlikePost)
		posts.POST("/:id/favorite", requireAuth, h.FavoritePost)
		posts.DELETE("/:id/favorite", requireAuth, h.UnfavoritePost)
	}

	comments := api.Group("/comments")
	{
		comments.DELETE("/:id", requireAuth, h.DeleteComment)
		comments.POST("/:id/like", requireAuth, h.LikeComment)
		comments.DELETE("/:id/like", requireAuth, h.UnlikeComment)
	}

	topics := api.Group("/topics")
	{
		topics.GET("", listCache, h.ListTopics)
		// Trending is a ranking computation, fresh on every request like the feed
		topics.GET("/trending", h.GetTrendingTopics)
		topics.GET("/:id", h.GetTopic)
		topics.GET("/:id/posts", h.ListTopicPosts)
	}

	tags := api.Group("/tags")
	{
		tags.GET("", listCache, h.ListTags)
		tags.GET("/:id/posts", h.ListTagPosts)
	}

	api.GET("/categories", listCache, h.ListCategories)

	events := api.Group("/events")
	{
		events.GET("", h.ListEvents)
		events.GET("/:id", optionalAuth, h.GetEvent)
		events.POST("/:id/register", requireAuth, h.RegisterForEvent)
		events.DELETE("/:id/register", requireAuth, h.CancelRegistration)
	}

	messages := api.Group("/messages")
	{
		messages.Use(requireAuth)
		messages.GET("", h.ListConversations)
		messages.GET("/:userID", h.ListMessagesWith)
		messages.POST("/:userID", h.SendMessage)
		messages.POST("/:userID/read", h.MarkConversationRead)
	}

	notifications := api.Group("/notifications")
	{
		notifications.Use(requireAuth)
		notifications.GET("", h.ListNotifications)
		notifications.GET("/unread-count", h.GetUnreadCount)
		notifications.POST("/read-all", h.MarkAllNotificationsRead)
		notifications.POST("/:id/read", h.MarkNotificationRead)
	}

	searchGroup := api.Group("/search")
	{
		searchGroup.GET("/posts", h.SearchPosts)
		searchGroup.GET("/users", optionalAuth, h.SearchUsers)
		searchGroup.GET("/topics", h.SearchTopics)
	}

	api.POST("/reports", requireAuth, h.CreateReport)

	// Successful admin mutations purge the cached public lists
	purgeLists := middleware.CacheInvalidationMiddleware("response:/api/v1/posts*",
		"response:/api/v1/topics*", "response:/api/v1/tags*", "response:/api/v1/categories*")

	admin := api.Group("/admin")
	{
		admin.Use(requireAuth, requireAdmin, purgeLists)

		admin.GET("/users", h.AdminListUsers)
		admin.POST("/users/:id/ban", h.AdminBanUser)
		admin.POST("/users/:id/unban", h.AdminUnbanUser)

		admin.POST("/posts/:id/recommend", h.AdminRecommendPost)
		admin.POST("/posts/:id/unrecommend", h.AdminUnrecommendPost)
		admin.POST("/posts/:id/pin", h.AdminPinPost)
		admin.POST("/posts/:id/unpin", h.AdminUnpinPost)
		admin.POST("/posts/:id/hide", h.AdminHidePost)
		admin.POST("/posts/:id/unhide", h.AdminUnhidePost)

		admin.POST("/comments/:id/hide", h.AdminHideComment)
		admin.POST("/comments/:id/unhide", h.AdminUnhideComment)

		admin.POST("/topics/:id/feature", h.AdminFeatureTopic)
		admin.POST("/topics/:id/unfeature", h.AdminUnfeatureTopic)

		admin.GET("/reports", h.AdminListReports)
		admin.POST("/reports/:id/resolve", h.AdminResolveReport)

		admin.POST("/events", h.AdminCreateEvent)
		admin.PUT("/events/:id", h.AdminUpdateEvent)
		admin.POST("/events/:id/cancel", h.AdminCancelEvent)

		admin.POST("/categories", h.AdminCreateCategory)
		admin.PUT("/categories/:id", h.AdminUpdateCategory)

		admin.POST("/badges", h.AdminCreateBadge)
		admin.POST("/badges/:id/grant/:userID", h.AdminGrantBadge)

		admin.GET("/settings", h.AdminGetSettings)
		admin.PUT("/settings", h.AdminUpdateSettings)
	}
}
