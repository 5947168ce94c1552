package main

import (
	"context"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"github.com/joho/godotenv"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"go.uber.org/zap"

	"github.com/campushub/backend/internal/auth"
	"github.com/campushub/backend/internal/cache"
	"github.com/campushub/backend/internal/database"
	"github.com/campushub/backend/internal/handlers"
	"github.com/campushub/backend/internal/logger"
	"github.com/campushub/backend/internal/metrics"
	"github.com/campushub/backend/internal/middleware"
	"github.com/campushub/backend/internal/search"
	"github.com/campushub/backend/internal/settings"
)

const listCacheTTL = 60 * time.Second

func main() {
	// Load environment variables before anything reads them
	if err := godotenv.Load(); err != nil {
		// .env is optional in production; system env wins anyway
		os.Stderr.WriteString("no .env file found, using system environment\n")
	}

	if err := logger.Initialize(os.Getenv("LOG_LEVEL"), getEnvOrDefault("LOG_FILE", "server.log")); err != nil {
		os.Stderr.WriteString("failed to initialize logger: " + err.Error() + "\n")
		os.Exit(1)
	}
	defer logger.Close()

	logger.Log.Info("CampusHub backend starting")

	// Database
	if err := database.Initialize(); err != nil {
		logger.FatalWithFields("Failed to initialize database", err)
	}
	defer database.Close()

	if err := database.Migrate(); err != nil {
		logger.FatalWithFields("Failed to run migrations", err)
	}
	if err := settings.SeedDefaults(database.DB); err != nil {
		logger.FatalWithFields("Failed to seed default settings", err)
	}

	// Redis is optional: without it the response cache and view debounce
	// degrade gracefully
	redisClient, err := cache.NewRedisClient(
		getEnvOrDefault("REDIS_HOST", "localhost"),
		getEnvOrDefault("REDIS_PORT", "6379"),
		os.Getenv("REDIS_PASSWORD"),
	)
	if err != nil {
		logger.WarnWithFields("Redis unavailable, continuing without cache", err)
		redisClient = nil
	} else {
		defer redisClient.Close()
	}

	// Auth
	jwtSecret := []byte(os.Getenv("JWT_SECRET"))
	if len(jwtSecret) == 0 {
		logger.Log.Fatal("JWT_SECRET environment variable is required")
	}
	authService := auth.NewService(jwtSecret)

	// Prometheus collectors
	metrics.Initialize()

	// Handlers
	h := handlers.NewHandlers(authService)
	h.SetRedisClient(redisClient)

	// Elasticsearch is optional: search endpoints fall back to the DB
	if searchClient, err := search.NewClient(); err != nil {
		logger.WarnWithFields("Elasticsearch unavailable, search will use database fallback", err)
	} else {
		if err := searchClient.InitializeIndices(context.Background()); err != nil {
			logger.WarnWithFields("Failed to initialize search indices", err)
		}
		h.SetSearchClient(searchClient)
	}

	if os.Getenv("GIN_MODE") == "" {
		gin.SetMode(gin.ReleaseMode)
	}

	r := gin.New()
	r.Use(gin.Recovery())
	r.Use(middleware.RequestIDMiddleware())
	r.Use(middleware.GinLoggerMiddleware())
	r.Use(middleware.MetricsMiddleware())

	corsConfig := cors.DefaultConfig()
	corsConfig.AllowOrigins = []string{getEnvOrDefault("CORS_ORIGIN", "*")}
	corsConfig.AllowMethods = []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"}
	corsConfig.AllowHeaders = []string{"Origin", "Content-Length", "Content-Type", "Authorization", "X-Request-ID"}
	r.Use(cors.New(corsConfig))

	r.GET("/health", func(c *gin.Context) {
		status := "ok"
		code := http.StatusOK
		if err := database.Health(); err != nil {
			status = "degraded"
			code = http.StatusServiceUnavailable
		}
		c.JSON(code, gin.H{
			"status":    status,
			"timestamp": time.Now().UTC(),
			"service":   "campushub-backend",
		})
	})
	r.GET("/metrics", gin.WrapH(promhttp.Handler()))

	registerRoutes(r, h, authService)

	port := getEnvOrDefault("PORT", "8080")
	srv := &http.Server{
		Addr:    ":" + port,
		Handler: r,
	}

	go func() {
		logger.Log.Info("Listening", zap.String("port", port))
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			logger.FatalWithFields("Server failed", err)
		}
	}()

	// Graceful shutdown on SIGINT/SIGTERM
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit
	logger.Log.Info("Shutting down")

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()
	if err := srv.Shutdown(ctx); err != nil {
		logger.FatalWithFields("Forced shutdown", err)
	}

	logger.Log.Info("Server exited")
}

func getEnvOrDefault(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}
