package settings

import (
	"fmt"
	"strconv"

	"github.com/campushub/backend/internal/models"
	"gorm.io/gorm"
)

// Setting keys for the ranking knobs, stored one row each in the settings table
const (
	KeyLikeWeight          = "likeWeight"
	KeyCommentWeight       = "commentWeight"
	KeyCollectionWeight    = "collectionWeight"
	KeyViewWeight          = "viewWeight"
	KeyTimeDecayDays       = "timeDecayDays"
	KeyMaxAgeDays          = "maxAgeDays"
	KeyMaxAdminRecommended = "maxAdminRecommended"
	KeyTopicBaseWeight     = "topicBaseWeight"
	KeyTopicRecentWeight   = "topicRecentWeight"
	KeyTopicRecentDays     = "topicRecentDays"
	KeyMaxHotTopics        = "maxHotTopics"
)

// HotTopicsCeiling caps maxHotTopics regardless of what admins configure
const HotTopicsCeiling = 20

// RankingConfig holds every tunable the ranking computations read.
// It is loaded once per request and passed down explicitly, so the scoring
// functions never touch ambient state.
type RankingConfig struct {
	LikeWeight          float64
	CommentWeight       float64
	CollectionWeight    float64
	ViewWeight          float64
	TimeDecayDays       float64
	MaxAgeDays          int
	MaxAdminRecommended int
	TopicBaseWeight     float64
	TopicRecentWeight   float64
	TopicRecentDays     int
	MaxHotTopics        int
}

// DefaultRankingConfig returns the hardcoded fallbacks applied when
// settings rows are absent
func DefaultRankingConfig() RankingConfig {
	return RankingConfig{
		LikeWeight:          2.0,
		CommentWeight:       3.0,
		CollectionWeight:    4.0,
		ViewWeight:          0.5,
		TimeDecayDays:       10,
		MaxAgeDays:          30,
		MaxAdminRecommended: 5,
		TopicBaseWeight:     0.7,
		TopicRecentWeight:   0.3,
		TopicRecentDays:     7,
		MaxHotTopics:        10,
	}
}

// LoadRankingConfig reads the settings table and overlays present keys on
// the defaults. Missing or malformed rows silently keep their default;
// a query error is returned so callers can fail the request.
func LoadRankingConfig(db *gorm.DB) (RankingConfig, error) {
	cfg := DefaultRankingConfig()

	var rows []models.Setting
	if err := db.Find(&rows).Error; err != nil {
		return cfg, fmt.Errorf("failed to load settings: %w", err)
	}

	for _, row := range rows {
		switch row.Key {
		case KeyLikeWeight:
			overlayFloat(&cfg.LikeWeight, row.Value)
		case KeyCommentWeight:
			overlayFloat(&cfg.CommentWeight, row.Value)
		case KeyCollectionWeight:
			overlayFloat(&cfg.CollectionWeight, row.Value)
		case KeyViewWeight:
			overlayFloat(&cfg.ViewWeight, row.Value)
		case KeyTimeDecayDays:
			overlayFloat(&cfg.TimeDecayDays, row.Value)
		case KeyMaxAgeDays:
			overlayInt(&cfg.MaxAgeDays, row.Value)
		case KeyMaxAdminRecommended:
			overlayInt(&cfg.MaxAdminRecommended, row.Value)
		case KeyTopicBaseWeight:
			overlayFloat(&cfg.TopicBaseWeight, row.Value)
		case KeyTopicRecentWeight:
			overlayFloat(&cfg.TopicRecentWeight, row.Value)
		case KeyTopicRecentDays:
			overlayInt(&cfg.TopicRecentDays, row.Value)
		case KeyMaxHotTopics:
			overlayInt(&cfg.MaxHotTopics, row.Value)
		}
	}

	if cfg.MaxHotTopics > HotTopicsCeiling {
		cfg.MaxHotTopics = HotTopicsCeiling
	}
	if cfg.TimeDecayDays <= 0 {
		cfg.TimeDecayDays = DefaultRankingConfig().TimeDecayDays
	}

	return cfg, nil
}

// Save upserts a single setting row
func Save(db *gorm.DB, key, value string) error {
	var row models.Setting
	err := db.Where("key = ?", key).First(&row).Error
	if err == gorm.ErrRecordNotFound {
		return db.Create(&models.Setting{Key: key, Value: value}).Error
	}
	if err != nil {
		return err
	}
	return db.Model(&row).Update("value", value).Error
}

// SeedDefaults creates missing settings rows with their default values.
// Existing rows are left alone.
func SeedDefaults(db *gorm.DB) error {
	defaults := DefaultRankingConfig()
	rows := map[string]string{
		KeyLikeWeight:          formatFloat(defaults.LikeWeight),
		KeyCommentWeight:       formatFloat(defaults.CommentWeight),
		KeyCollectionWeight:    formatFloat(defaults.CollectionWeight),
		KeyViewWeight:          formatFloat(defaults.ViewWeight),
		KeyTimeDecayDays:       formatFloat(defaults.TimeDecayDays),
		KeyMaxAgeDays:          strconv.Itoa(defaults.MaxAgeDays),
		KeyMaxAdminRecommended: strconv.Itoa(defaults.MaxAdminRecommended),
		KeyTopicBaseWeight:     formatFloat(defaults.TopicBaseWeight),
		KeyTopicRecentWeight:   formatFloat(defaults.TopicRecentWeight),
		KeyTopicRecentDays:     strconv.Itoa(defaults.TopicRecentDays),
		KeyMaxHotTopics:        strconv.Itoa(defaults.MaxHotTopics),
	}

	for key, value := range rows {
		var count int64
		if err := db.Model(&models.Setting{}).Where("key = ?", key).Count(&count).Error; err != nil {
			return err
		}
		if count == 0 {
			if err := db.Create(&models.Setting{Key: key, Value: value}).Error; err != nil {
				return err
			}
		}
	}
	return nil
}

func overlayFloat(dst *float64, raw string) {
	if v, err := strconv.ParseFloat(raw, 64); err == nil {
		*dst = v
	}
}

func overlayInt(dst *int, raw string) {
	if v, err := strconv.Atoi(raw); err == nil {
		*dst = v
	}
}

func formatFloat(v float64) string {
	return strconv.FormatFloat(v, 'f', -1, 64)
}
