package ranking

import (
	"math"
	"testing"
	"time"

	"github.com/campushub/backend/internal/models"
	"github.com/campushub/backend/internal/settings"
	"github.com/stretchr/testify/assert"
)

func defaultCfg() settings.RankingConfig {
	return settings.DefaultRankingConfig()
}

func TestScoreWorkedExample(t *testing.T) {
	// likes=10, comments=2, favorites=1, views=50, age=5 days
	// baseScore = 10*2 + 2*3 + 1*4 + 50*0.5 = 55
	// timeFactor = exp(-5/10) ≈ 0.6065
	// finalScore ≈ 33.36
	now := time.Now()
	post := &models.Post{
		LikeCount:     10,
		CommentCount:  2,
		FavoriteCount: 1,
		ViewCount:     50,
		CreatedAt:     now.Add(-5 * 24 * time.Hour),
	}
	cfg := defaultCfg()

	assert.InDelta(t, 55.0, BaseScore(post, cfg), 1e-9)

	score := Score(post, now, cfg)
	expected := 55.0 * math.Exp(-0.5)
	assert.InDelta(t, expected, score, 1e-9)
	assert.InDelta(t, 33.36, score, 0.01)
}

func TestScoreMonotonicTimeDecay(t *testing.T) {
	now := time.Now()
	cfg := defaultCfg()

	prev := math.Inf(1)
	for days := 1; days <= 30; days++ {
		post := &models.Post{
			LikeCount:    5,
			CommentCount: 5,
			ViewCount:    100,
			CreatedAt:    now.Add(-time.Duration(days) * 24 * time.Hour),
		}
		score := Score(post, now, cfg)
		assert.Less(t, score, prev, "score must strictly decrease with age (day %d)", days)
		prev = score
	}
}

func TestScoreDampeningAppliesToFreshUnvettedPost(t *testing.T) {
	now := time.Now()
	cfg := defaultCfg()

	// 1 hour old, 1 like, 5 views: undampened score would be
	// (1*2 + 5*0.5) * e^(-tiny) ≈ 4.48, capped at 0.5
	post := &models.Post{
		LikeCount: 1,
		ViewCount: 5,
		CreatedAt: now.Add(-time.Hour),
	}
	assert.Equal(t, 0.5, Score(post, now, cfg))
}

func TestScoreDampeningBoundaries(t *testing.T) {
	now := time.Now()
	cfg := defaultCfg()

	// Age >= 1 day: no cap even with zero engagement
	old := &models.Post{ViewCount: 5, CreatedAt: now.Add(-25 * time.Hour)}
	oldExpected := BaseScore(old, cfg) * TimeFactor(25*time.Hour, cfg)
	assert.InDelta(t, oldExpected, Score(old, now, cfg), 1e-9)

	// Interactions >= 3: no cap
	engaged := &models.Post{LikeCount: 3, CreatedAt: now.Add(-time.Hour)}
	engagedExpected := BaseScore(engaged, cfg) * TimeFactor(time.Hour, cfg)
	assert.InDelta(t, engagedExpected, Score(engaged, now, cfg), 1e-9)

	// Views >= 10: no cap
	viewed := &models.Post{ViewCount: 10, CreatedAt: now.Add(-time.Hour)}
	viewedExpected := BaseScore(viewed, cfg) * TimeFactor(time.Hour, cfg)
	assert.InDelta(t, viewedExpected, Score(viewed, now, cfg), 1e-9)
}

func TestScoreDampeningNeverRaisesScore(t *testing.T) {
	// A fresh post with zero engagement scores 0, not 0.5
	now := time.Now()
	post := &models.Post{CreatedAt: now.Add(-time.Minute)}
	assert.Equal(t, 0.0, Score(post, now, defaultCfg()))
}

func TestTopicScore(t *testing.T) {
	cfg := defaultCfg()

	topic := &models.Topic{UseCount: 100}
	// 100*0.7 + 10*0.3 = 73
	assert.Equal(t, 73, TopicScore(topic, 10, cfg))

	// Rounds to nearest
	small := &models.Topic{UseCount: 1}
	// 1*0.7 + 1*0.3 = 1.0
	assert.Equal(t, 1, TopicScore(small, 1, cfg))

	zero := &models.Topic{}
	assert.Equal(t, 0, TopicScore(zero, 0, cfg))
}

func TestTimeFactorIsEFolding(t *testing.T) {
	cfg := defaultCfg()
	// After exactly timeDecayDays the factor is 1/e, not 1/2
	factor := TimeFactor(time.Duration(cfg.TimeDecayDays)*24*time.Hour, cfg)
	assert.InDelta(t, 1/math.E, factor, 1e-9)
}
