package ranking

import (
	"testing"
	"time"

	"github.com/campushub/backend/internal/models"
	"github.com/campushub/backend/internal/settings"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
)

func createTopic(t *testing.T, db *gorm.DB, name string, useCount int, featured bool) *models.Topic {
	t.Helper()
	topic := &models.Topic{Name: name, UseCount: useCount, IsFeatured: featured}
	require.NoError(t, db.Create(topic).Error)
	return topic
}

func attachPost(t *testing.T, db *gorm.DB, topicID string, post *models.Post) {
	t.Helper()
	require.NoError(t, db.Exec(
		"INSERT INTO post_topics (post_id, topic_id) VALUES (?, ?)", post.ID, topicID,
	).Error)
}

func TestTrendingTopicsFeaturedFirst(t *testing.T) {
	db := setupTestDB(t)
	cfg := settings.DefaultRankingConfig()

	hot := createTopic(t, db, "exam-week", 1000, false)
	featured := createTopic(t, db, "orientation", 1, true)

	ranked, err := TrendingTopics(db, cfg, 10)
	require.NoError(t, err)
	require.Len(t, ranked, 2)

	assert.Equal(t, featured.ID, ranked[0].Topic.ID,
		"featured topics outrank organic ones regardless of score")
	assert.Equal(t, hot.ID, ranked[1].Topic.ID)
	assert.Greater(t, ranked[1].Score, ranked[0].Score)
}

func TestTrendingTopicsScoreOrderAndRecentBoost(t *testing.T) {
	db := setupTestDB(t)
	user := createTestUser(t, db, "author")
	cfg := settings.DefaultRankingConfig()
	// Make recent activity dominate so the boost is visible
	cfg.TopicRecentWeight = 10

	quiet := createTopic(t, db, "quiet", 10, false)
	active := createTopic(t, db, "active", 10, false)

	for i := 0; i < 3; i++ {
		post := createPost(t, db, user.ID, 24*time.Hour, nil)
		attachPost(t, db, active.ID, post)
	}
	// Old attachment outside the recent window should not count
	oldPost := createPost(t, db, user.ID, 30*24*time.Hour, nil)
	attachPost(t, db, quiet.ID, oldPost)

	ranked, err := TrendingTopics(db, cfg, 10)
	require.NoError(t, err)
	require.Len(t, ranked, 2)
	assert.Equal(t, active.ID, ranked[0].Topic.ID)

	// use 10*0.7 + recent 3*10 = 37
	assert.Equal(t, 37, ranked[0].Score)
	// use 10*0.7 + recent 0 = 7
	assert.Equal(t, 7, ranked[1].Score)
}

func TestTrendingTopicsTruncation(t *testing.T) {
	db := setupTestDB(t)
	cfg := settings.DefaultRankingConfig()
	cfg.MaxHotTopics = 3

	for i := 0; i < 6; i++ {
		createTopic(t, db, string(rune('a'+i)), i*10, false)
	}

	ranked, err := TrendingTopics(db, cfg, 100)
	require.NoError(t, err)
	assert.Len(t, ranked, 3, "request beyond maxHotTopics is clamped")

	two, err := TrendingTopics(db, cfg, 2)
	require.NoError(t, err)
	assert.Len(t, two, 2, "smaller explicit limits are honored")
}

func TestTrendingTopicsPersistsScore(t *testing.T) {
	db := setupTestDB(t)
	cfg := settings.DefaultRankingConfig()

	topic := createTopic(t, db, "clubs", 100, false)
	_, err := TrendingTopics(db, cfg, 10)
	require.NoError(t, err)

	var reloaded models.Topic
	require.NoError(t, db.First(&reloaded, "id = ?", topic.ID).Error)
	assert.Equal(t, 70, reloaded.TrendingScore) // 100*0.7
}
