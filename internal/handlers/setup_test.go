package handlers

import (
	"bytes"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	gormlogger "gorm.io/gorm/logger"

	"github.com/campushub/backend/internal/database"
	"github.com/campushub/backend/internal/logger"
	"github.com/campushub/backend/internal/models"
)

// newTestDB opens a fresh in-memory sqlite DB with all tables migrated
// and installs it as the global connection the handlers read.
func newTestDB(t *testing.T) *gorm.DB {
	t.Helper()

	logger.InitializeForTest()
	gin.SetMode(gin.TestMode)

	dsn := fmt.Sprintf("file:handlers_%d?mode=memory&cache=shared", time.Now().UnixNano())
	db, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{
		Logger: gormlogger.Default.LogMode(gormlogger.Silent),
	})
	require.NoError(t, err)

	require.NoError(t, db.AutoMigrate(
		&models.User{},
		&models.Category{},
		&models.Topic{},
		&models.Tag{},
		&models.Post{},
		&models.PostView{},
		&models.Comment{},
		&models.Like{},
		&models.Favorite{},
		&models.Follow{},
		&models.Event{},
		&models.EventRegistration{},
		&models.Message{},
		&models.Notification{},
		&models.Setting{},
		&models.Badge{},
		&models.UserBadge{},
		&models.Report{},
	))

	database.DB = db
	return db
}

// testAuthMiddleware resolves X-User-ID into the context keys the real
// auth middleware would set.
func testAuthMiddleware(db *gorm.DB) gin.HandlerFunc {
	return func(c *gin.Context) {
		userID := c.GetHeader("X-User-ID")
		if userID == "" {
			c.JSON(http.StatusUnauthorized, gin.H{"success": false, "message": "unauthorized"})
			c.Abort()
			return
		}

		var user models.User
		if err := db.First(&user, "id = ?", userID).Error; err != nil {
			c.JSON(http.StatusUnauthorized, gin.H{"success": false, "message": "unauthorized"})
			c.Abort()
			return
		}

		c.Set("user_id", user.ID)
		c.Set("user", &user)
		c.Next()
	}
}

func createUser(t *testing.T, db *gorm.DB, username string) *models.User {
	t.Helper()
	user := &models.User{
		Email:        username + "@campus.test",
		Username:     username,
		Nickname:     username,
		PasswordHash: "x",
	}
	require.NoError(t, db.Create(user).Error)
	return user
}

func createAdmin(t *testing.T, db *gorm.DB, username string) *models.User {
	t.Helper()
	admin := createUser(t, db, username)
	require.NoError(t, db.Model(admin).Update("role", models.RoleAdmin).Error)
	admin.Role = models.RoleAdmin
	return admin
}

func createPublishedPost(t *testing.T, db *gorm.DB, author *models.User, title string) *models.Post {
	t.Helper()
	post := &models.Post{
		UserID:  author.ID,
		Title:   title,
		Content: "content of " + title,
		Status:  models.PostStatusPublished,
	}
	require.NoError(t, db.Create(post).Error)
	return post
}

// doJSON performs a request against the router with an optional body and
// acting user, returning the recorder.
func doJSON(router *gin.Engine, method, path string, body interface{}, userID string) *httptest.ResponseRecorder {
	var reader *bytes.Reader
	if body != nil {
		payload, _ := json.Marshal(body)
		reader = bytes.NewReader(payload)
	} else {
		reader = bytes.NewReader(nil)
	}

	req := httptest.NewRequest(method, path, reader)
	req.Header.Set("Content-Type", "application/json")
	if userID != "" {
		req.Header.Set("X-User-ID", userID)
	}

	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)
	return w
}
