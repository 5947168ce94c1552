package handlers

import (
	"encoding/json"
	"net/http"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/require"

	"github.com/campushub/backend/internal/models"
)

func trendingNames(t *testing.T, router *gin.Engine) []string {
	t.Helper()
	w := doJSON(router, http.MethodGet, "/api/v1/topics/trending", nil, "")
	require.Equal(t, http.StatusOK, w.Code)

	var resp struct {
		Data struct {
			Topics []struct {
				Topic struct {
					Name string `json:"name"`
				} `json:"topic"`
				Score int `json:"score"`
			} `json:"topics"`
		} `json:"data"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))

	names := make([]string, 0, len(resp.Data.Topics))
	for _, item := range resp.Data.Topics {
		names = append(names, item.Topic.Name)
	}
	return names
}

// Each request recomputes scores from the current rows; nothing may serve
// a stale ranking.
func TestTrendingReflectsChangesImmediately(t *testing.T) {
	db := newTestDB(t)

	h := NewHandlers(nil)
	router := gin.New()
	router.GET("/api/v1/topics/trending", h.GetTrendingTopics)

	busy := &models.Topic{Name: "busy", UseCount: 5}
	quiet := &models.Topic{Name: "quiet", UseCount: 1}
	require.NoError(t, db.Create(busy).Error)
	require.NoError(t, db.Create(quiet).Error)

	names := trendingNames(t, router)
	require.Equal(t, []string{"busy", "quiet"}, names)

	require.NoError(t, db.Model(quiet).UpdateColumn("use_count", 50).Error)

	names = trendingNames(t, router)
	require.Equal(t, []string{"quiet", "busy"}, names)
}

func TestTrendingFeaturedOutranksScore(t *testing.T) {
	db := newTestDB(t)

	h := NewHandlers(nil)
	router := gin.New()
	router.GET("/api/v1/topics/trending", h.GetTrendingTopics)

	require.NoError(t, db.Create(&models.Topic{Name: "popular", UseCount: 100}).Error)
	require.NoError(t, db.Create(&models.Topic{Name: "featured", UseCount: 1, IsFeatured: true}).Error)

	names := trendingNames(t, router)
	require.Equal(t, []string{"featured", "popular"}, names)
}
