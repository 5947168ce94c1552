package ranking

import (
	"fmt"
	"sort"
	"time"

	"github.com/campushub/backend/internal/logger"
	"github.com/campushub/backend/internal/models"
	"github.com/campushub/backend/internal/settings"
	"gorm.io/gorm"
)

// TrendingTopic pairs a topic with its freshly computed score
type TrendingTopic struct {
	Topic *models.Topic `json:"topic"`
	Score int           `json:"score"`
}

// TrendingTopics ranks topics for the trending widget.
//
// Order is (is_featured desc, score desc): admin-featured topics always
// outrank organic ones. The result is truncated to
// min(limit, cfg.MaxHotTopics, HotTopicsCeiling). Computed scores are
// written back to the trending_score column as a cache; a failed write
// only logs, it never fails the read.
func TrendingTopics(db *gorm.DB, cfg settings.RankingConfig, limit int) ([]*TrendingTopic, error) {
	max := cfg.MaxHotTopics
	if max > settings.HotTopicsCeiling {
		max = settings.HotTopicsCeiling
	}
	if limit <= 0 || limit > max {
		limit = max
	}

	var topics []*models.Topic
	if err := db.Find(&topics).Error; err != nil {
		return nil, fmt.Errorf("failed to load topics: %w", err)
	}
	if len(topics) == 0 {
		return []*TrendingTopic{}, nil
	}

	topicIDs := make([]string, 0, len(topics))
	for _, t := range topics {
		topicIDs = append(topicIDs, t.ID)
	}

	// One grouped query for recent attach counts across all topics
	cutoff := time.Now().AddDate(0, 0, -cfg.TopicRecentDays)
	type recentRow struct {
		TopicID string
		Count   int64
	}
	var rows []recentRow
	err := db.Table("post_topics").
		Select("post_topics.topic_id AS topic_id, COUNT(*) AS count").
		Joins("JOIN posts ON posts.id = post_topics.post_id").
		Where("posts.created_at >= ? AND posts.deleted_at IS NULL AND posts.status = ?",
			cutoff, models.PostStatusPublished).
		Where("post_topics.topic_id IN ?", topicIDs).
		Group("post_topics.topic_id").
		Scan(&rows).Error
	if err != nil {
		return nil, fmt.Errorf("failed to count recent topic posts: %w", err)
	}

	recent := make(map[string]int64, len(rows))
	for _, r := range rows {
		recent[r.TopicID] = r.Count
	}

	ranked := make([]*TrendingTopic, 0, len(topics))
	for _, t := range topics {
		score := TopicScore(t, recent[t.ID], cfg)
		if score != t.TrendingScore {
			if err := db.Model(t).UpdateColumn("trending_score", score).Error; err != nil {
				logger.WarnWithFields("Failed to persist trending score for topic "+t.ID, err)
			}
			t.TrendingScore = score
		}
		ranked = append(ranked, &TrendingTopic{Topic: t, Score: score})
	}

	sort.SliceStable(ranked, func(i, j int) bool {
		if ranked[i].Topic.IsFeatured != ranked[j].Topic.IsFeatured {
			return ranked[i].Topic.IsFeatured
		}
		return ranked[i].Score > ranked[j].Score
	})

	if len(ranked) > limit {
		ranked = ranked[:limit]
	}
	return ranked, nil
}
