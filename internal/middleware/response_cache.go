package middleware

import (
	"bytes"
	"fmt"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/campushub/backend/internal/cache"
	"github.com/campushub/backend/internal/logger"
	"github.com/campushub/backend/internal/metrics"
)

// ResponseCacheMiddleware caches successful GET responses with configurable TTL.
// Only 2xx responses are cached. Adds an X-Cache: HIT/MISS header for debugging.
// Cache key is response:{path}:{query}:{user_id}.
func ResponseCacheMiddleware(ttl time.Duration) gin.HandlerFunc {
	return func(c *gin.Context) {
		if c.Request.Method != http.MethodGet {
			c.Next()
			return
		}

		redisClient := cache.GetRedisClient()
		if redisClient == nil {
			c.Next()
			return
		}

		userID := c.GetString("user_id")
		cacheKey := cacheKeyFor(c.Request.URL.Path, c.Request.URL.RawQuery, userID)
		ctx := c.Request.Context()

		if cached, err := redisClient.Get(ctx, cacheKey); err == nil {
			metrics.Get().CacheHitsTotal.WithLabelValues("response_cache").Inc()
			c.Header("X-Cache", "HIT")
			c.Data(http.StatusOK, "application/json; charset=utf-8", []byte(cached))
			c.Abort()
			return
		}

		metrics.Get().CacheMissesTotal.WithLabelValues("response_cache").Inc()

		writer := &cachedResponseWriter{
			ResponseWriter: c.Writer,
			statusCode:     http.StatusOK,
			body:           &bytes.Buffer{},
		}
		c.Writer = writer
		c.Header("X-Cache", "MISS")

		c.Next()

		if writer.statusCode >= 200 && writer.statusCode < 300 && writer.body.Len() > 0 {
			if err := redisClient.SetEx(ctx, cacheKey, writer.body.String(), ttl); err != nil {
				logger.Log.Debug("Failed to write response to cache",
					zap.String("key", cacheKey),
					zap.Error(err),
				)
			}
		}
	}
}

func cacheKeyFor(path, query, userID string) string {
	key := fmt.Sprintf("response:%s", path)
	if query != "" {
		key = fmt.Sprintf("%s:%s", key, query)
	}
	if userID != "" {
		key = fmt.Sprintf("%s:%s", key, userID)
	}
	return key
}

// cachedResponseWriter intercepts response writes to capture the body
type cachedResponseWriter struct {
	gin.ResponseWriter
	statusCode int
	body       *bytes.Buffer
}

func (w *cachedResponseWriter) Write(data []byte) (int, error) {
	w.body.Write(data)
	return w.ResponseWriter.Write(data)
}

func (w *cachedResponseWriter) WriteHeader(statusCode int) {
	w.statusCode = statusCode
	w.ResponseWriter.WriteHeader(statusCode)
}

// CacheInvalidationMiddleware clears matching response-cache entries after
// successful POST/PUT/DELETE requests. Use on mutation endpoints whose
// results feed cached lists.
func CacheInvalidationMiddleware(patterns ...string) gin.HandlerFunc {
	return func(c *gin.Context) {
		c.Next()

		switch c.Request.Method {
		case http.MethodPost, http.MethodPut, http.MethodPatch, http.MethodDelete:
		default:
			return
		}
		if c.Writer.Status() < 200 || c.Writer.Status() >= 400 {
			return
		}

		redisClient := cache.GetRedisClient()
		if redisClient == nil {
			return
		}

		ctx := c.Request.Context()
		for _, pattern := range patterns {
			if err := redisClient.DelPattern(ctx, pattern); err != nil {
				logger.Log.Debug("Failed to invalidate cache pattern",
					zap.String("pattern", pattern),
					zap.Error(err),
				)
			}
		}
	}
}
