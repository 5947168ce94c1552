package ranking

import (
	"fmt"
	"testing"
	"time"

	"github.com/campushub/backend/internal/logger"
	"github.com/campushub/backend/internal/models"
	"github.com/campushub/backend/internal/settings"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	gormlogger "gorm.io/gorm/logger"
)

func setupTestDB(t *testing.T) *gorm.DB {
	t.Helper()
	logger.InitializeForTest()

	// Unique name per test: in-memory sqlite with a shared cache so
	// gorm's pooled connections see the same database
	dsn := fmt.Sprintf("file:ranking_%d?mode=memory&cache=shared", time.Now().UnixNano())
	db, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{
		Logger: gormlogger.Default.LogMode(gormlogger.Silent),
	})
	require.NoError(t, err)

	require.NoError(t, db.AutoMigrate(
		&models.User{},
		&models.Topic{},
		&models.Tag{},
		&models.Post{},
		&models.Comment{},
		&models.Like{},
		&models.Favorite{},
		&models.Setting{},
	))

	t.Cleanup(func() {
		sqlDB, _ := db.DB()
		if sqlDB != nil {
			sqlDB.Close()
		}
	})
	return db
}

func createTestUser(t *testing.T, db *gorm.DB, name string) *models.User {
	t.Helper()
	user := &models.User{
		Email:        fmt.Sprintf("%s_%d@campus.test", name, time.Now().UnixNano()),
		Username:     fmt.Sprintf("%s_%d", name, time.Now().UnixNano()),
		Nickname:     name,
		PasswordHash: "x",
	}
	require.NoError(t, db.Create(user).Error)
	return user
}

func createPost(t *testing.T, db *gorm.DB, userID string, age time.Duration, mutate func(*models.Post)) *models.Post {
	t.Helper()
	post := &models.Post{
		UserID:  userID,
		Title:   "post",
		Content: "content",
		Status:  models.PostStatusPublished,
	}
	if mutate != nil {
		mutate(post)
	}
	require.NoError(t, db.Create(post).Error)
	// Backdate after create so gorm doesn't overwrite the timestamp
	createdAt := time.Now().Add(-age)
	require.NoError(t, db.Model(post).UpdateColumn("created_at", createdAt).Error)
	post.CreatedAt = createdAt
	return post
}

func TestRecommendedFeedAdminPicksFirst(t *testing.T) {
	db := setupTestDB(t)
	user := createTestUser(t, db, "author")
	cfg := settings.DefaultRankingConfig()

	// High-scoring organic post
	createPost(t, db, user.ID, 2*24*time.Hour, func(p *models.Post) {
		p.LikeCount = 100
		p.CommentCount = 50
		p.ViewCount = 1000
	})

	// Zero-engagement admin pick
	adminPost := createPost(t, db, user.ID, 10*24*time.Hour, func(p *models.Post) {
		p.IsRecommended = true
	})

	page, err := RecommendedFeed(db, cfg, 1, 10, "")
	require.NoError(t, err)
	require.NotEmpty(t, page.Posts)

	assert.Equal(t, adminPost.ID, page.Posts[0].Post.ID,
		"admin-recommended post must lead the feed regardless of score")
	assert.True(t, page.Posts[0].IsAdminPick)
}

func TestRecommendedFeedAdminPicksOnlyOnPageOne(t *testing.T) {
	db := setupTestDB(t)
	user := createTestUser(t, db, "author")
	cfg := settings.DefaultRankingConfig()

	createPost(t, db, user.ID, 24*time.Hour, func(p *models.Post) {
		p.IsRecommended = true
	})
	for i := 0; i < 5; i++ {
		createPost(t, db, user.ID, time.Duration(i+2)*24*time.Hour, func(p *models.Post) {
			p.LikeCount = 10
		})
	}

	page1, err := RecommendedFeed(db, cfg, 1, 2, "")
	require.NoError(t, err)
	page2, err := RecommendedFeed(db, cfg, 2, 2, "")
	require.NoError(t, err)

	assert.True(t, page1.Posts[0].IsAdminPick)
	for _, rp := range page2.Posts {
		assert.False(t, rp.IsAdminPick, "admin picks must not repeat past page 1")
	}

	// Total counts scored posts only
	assert.Equal(t, int64(5), page1.Total)
	assert.Equal(t, page1.Total, page2.Total)
}

func TestRecommendedFeedSortsByScore(t *testing.T) {
	db := setupTestDB(t)
	user := createTestUser(t, db, "author")
	cfg := settings.DefaultRankingConfig()

	low := createPost(t, db, user.ID, 5*24*time.Hour, func(p *models.Post) {
		p.LikeCount = 1
	})
	high := createPost(t, db, user.ID, 5*24*time.Hour, func(p *models.Post) {
		p.LikeCount = 50
	})

	page, err := RecommendedFeed(db, cfg, 1, 10, "")
	require.NoError(t, err)
	require.Len(t, page.Posts, 2)
	assert.Equal(t, high.ID, page.Posts[0].Post.ID)
	assert.Equal(t, low.ID, page.Posts[1].Post.ID)
	assert.Greater(t, page.Posts[0].Score, page.Posts[1].Score)
}

func TestRecommendedFeedExcludesOldAndUnpublished(t *testing.T) {
	db := setupTestDB(t)
	user := createTestUser(t, db, "author")
	cfg := settings.DefaultRankingConfig()

	createPost(t, db, user.ID, 60*24*time.Hour, func(p *models.Post) {
		p.LikeCount = 100 // outside the 30-day window
	})
	createPost(t, db, user.ID, 24*time.Hour, func(p *models.Post) {
		p.Status = models.PostStatusHidden
	})
	visible := createPost(t, db, user.ID, 24*time.Hour, func(p *models.Post) {
		p.LikeCount = 5
	})

	page, err := RecommendedFeed(db, cfg, 1, 10, "")
	require.NoError(t, err)
	require.Len(t, page.Posts, 1)
	assert.Equal(t, visible.ID, page.Posts[0].Post.ID)
}

func TestRecommendedFeedEmpty(t *testing.T) {
	db := setupTestDB(t)
	cfg := settings.DefaultRankingConfig()

	page, err := RecommendedFeed(db, cfg, 1, 10, "")
	require.NoError(t, err)
	assert.Empty(t, page.Posts)
	assert.Equal(t, int64(0), page.Total)
}

func TestRecommendedFeedEnrichment(t *testing.T) {
	db := setupTestDB(t)
	author := createTestUser(t, db, "author")
	viewer := createTestUser(t, db, "viewer")
	cfg := settings.DefaultRankingConfig()

	post := createPost(t, db, author.ID, 2*24*time.Hour, func(p *models.Post) {
		p.LikeCount = 3
	})

	// Three top-level comments; only the 2 newest should attach
	for i := 0; i < 3; i++ {
		cm := &models.Comment{PostID: post.ID, UserID: author.ID, Content: fmt.Sprintf("comment %d", i)}
		require.NoError(t, db.Create(cm).Error)
		require.NoError(t, db.Model(cm).UpdateColumn("created_at", time.Now().Add(-time.Duration(3-i)*time.Hour)).Error)
	}

	require.NoError(t, db.Create(&models.Like{
		UserID: viewer.ID, TargetType: models.LikeTargetPost, TargetID: post.ID,
	}).Error)
	require.NoError(t, db.Create(&models.Favorite{UserID: viewer.ID, PostID: post.ID}).Error)

	page, err := RecommendedFeed(db, cfg, 1, 10, viewer.ID)
	require.NoError(t, err)
	require.Len(t, page.Posts, 1)

	rp := page.Posts[0]
	assert.Len(t, rp.TopComments, 2)
	assert.Equal(t, "comment 2", rp.TopComments[0].Content, "newest comment first")
	assert.True(t, rp.Liked)
	assert.True(t, rp.Favorited)

	// Anonymous viewer gets no interaction state
	anon, err := RecommendedFeed(db, cfg, 1, 10, "")
	require.NoError(t, err)
	assert.False(t, anon.Posts[0].Liked)
	assert.False(t, anon.Posts[0].Favorited)
}

func TestLoadRankingConfigDefaultsAndOverlay(t *testing.T) {
	db := setupTestDB(t)

	cfg, err := settings.LoadRankingConfig(db)
	require.NoError(t, err)
	assert.Equal(t, settings.DefaultRankingConfig(), cfg, "empty settings table yields defaults")

	require.NoError(t, settings.Save(db, settings.KeyLikeWeight, "5.5"))
	require.NoError(t, settings.Save(db, settings.KeyMaxHotTopics, "50"))

	cfg, err = settings.LoadRankingConfig(db)
	require.NoError(t, err)
	assert.Equal(t, 5.5, cfg.LikeWeight)
	assert.Equal(t, settings.HotTopicsCeiling, cfg.MaxHotTopics, "maxHotTopics is hard-capped")
	assert.Equal(t, 3.0, cfg.CommentWeight, "untouched keys keep defaults")
}
