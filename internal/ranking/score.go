package ranking

import (
	"math"
	"time"

	"github.com/campushub/backend/internal/models"
	"github.com/campushub/backend/internal/settings"
)

// Dampening rule for brand-new posts: a post younger than a day with almost
// no engagement is capped so it can't dominate the feed purely by recency.
const (
	dampeningAgeCutoff   = 24 * time.Hour
	dampeningInteraction = 3
	dampeningViews       = 10
	dampenedScoreCap     = 0.5
)

// BaseScore is the weighted engagement sum before time decay
func BaseScore(post *models.Post, cfg settings.RankingConfig) float64 {
	return float64(post.LikeCount)*cfg.LikeWeight +
		float64(post.CommentCount)*cfg.CommentWeight +
		float64(post.FavoriteCount)*cfg.CollectionWeight +
		float64(post.ViewCount)*cfg.ViewWeight
}

// TimeFactor is the exponential decay multiplier for a post of the given age.
// TimeDecayDays is an e-folding time: the factor drops to 1/e after that many
// days, not 1/2.
func TimeFactor(age time.Duration, cfg settings.RankingConfig) float64 {
	ageDays := age.Hours() / 24
	return math.Exp(-ageDays / cfg.TimeDecayDays)
}

// Score computes the final recommendation score for a post as of now
func Score(post *models.Post, now time.Time, cfg settings.RankingConfig) float64 {
	age := now.Sub(post.CreatedAt)
	score := BaseScore(post, cfg) * TimeFactor(age, cfg)

	if age < dampeningAgeCutoff &&
		post.TotalInteractions() < dampeningInteraction &&
		post.ViewCount < dampeningViews &&
		score > dampenedScoreCap {
		return dampenedScoreCap
	}

	return score
}

// TopicScore computes the trending score for a topic given the number of
// posts attached to it during the recent window
func TopicScore(topic *models.Topic, recentPosts int64, cfg settings.RankingConfig) int {
	raw := float64(topic.UseCount)*cfg.TopicBaseWeight +
		float64(recentPosts)*cfg.TopicRecentWeight
	return int(math.Round(raw))
}
