package handlers

import (
	"encoding/json"
	"net/http"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/suite"
	"gorm.io/gorm"

	"github.com/campushub/backend/internal/models"
)

type PostTestSuite struct {
	suite.Suite
	db     *gorm.DB
	router *gin.Engine
	author *models.User
}

func (s *PostTestSuite) SetupTest() {
	db := newTestDB(s.T())
	s.db = db

	h := NewHandlers(nil)
	s.router = gin.New()

	posts := s.router.Group("/api/v1/posts")
	posts.GET("/recommended", h.GetRecommendedFeed)
	posts.POST("/:id/view", h.RecordView)

	authed := s.router.Group("/api/v1/posts")
	authed.Use(testAuthMiddleware(db))
	authed.POST("", h.CreatePost)

	s.author = createUser(s.T(), db, "writer")
}

// backdate shifts a post's created_at so scoring sees a known age
func (s *PostTestSuite) backdate(post *models.Post, age time.Duration) {
	s.Require().NoError(s.db.Model(post).
		UpdateColumn("created_at", time.Now().Add(-age)).Error)
}

func (s *PostTestSuite) feedTitles(path string) []string {
	w := doJSON(s.router, http.MethodGet, path, nil, "")
	s.Require().Equal(http.StatusOK, w.Code)

	var resp struct {
		Data struct {
			Posts []struct {
				Post struct {
					Title string `json:"title"`
				} `json:"post"`
				IsAdminPick bool `json:"is_admin_pick"`
			} `json:"posts"`
		} `json:"data"`
	}
	s.Require().NoError(json.Unmarshal(w.Body.Bytes(), &resp))

	titles := make([]string, 0, len(resp.Data.Posts))
	for _, p := range resp.Data.Posts {
		titles = append(titles, p.Post.Title)
	}
	return titles
}

func (s *PostTestSuite) TestRecommendedFeedPutsAdminPicksFirst() {
	// A heavily liked organic post
	hot := createPublishedPost(s.T(), s.db, s.author, "organic hit")
	s.Require().NoError(s.db.Model(hot).UpdateColumn("like_count", 50).Error)
	s.backdate(hot, 48*time.Hour)

	// A quiet admin pick
	pick := createPublishedPost(s.T(), s.db, s.author, "admin pick")
	s.Require().NoError(s.db.Model(pick).UpdateColumn("is_recommended", true).Error)
	s.backdate(pick, 72*time.Hour)

	titles := s.feedTitles("/api/v1/posts/recommended")
	s.Require().Len(titles, 2)
	s.Equal("admin pick", titles[0])
	s.Equal("organic hit", titles[1])
}

func (s *PostTestSuite) TestRecommendedFeedAdminPicksOnlyOnPageOne() {
	pick := createPublishedPost(s.T(), s.db, s.author, "admin pick")
	s.Require().NoError(s.db.Model(pick).UpdateColumn("is_recommended", true).Error)
	s.backdate(pick, 24*time.Hour)

	for i := 0; i < 3; i++ {
		post := createPublishedPost(s.T(), s.db, s.author, "organic")
		s.Require().NoError(s.db.Model(post).UpdateColumn("like_count", 10+i).Error)
		s.backdate(post, 48*time.Hour)
	}

	pageOne := s.feedTitles("/api/v1/posts/recommended?page=1&limit=2")
	s.Contains(pageOne, "admin pick")

	pageTwo := s.feedTitles("/api/v1/posts/recommended?page=2&limit=2")
	s.NotContains(pageTwo, "admin pick")
}

func (s *PostTestSuite) TestViewDebounceWithinWindow() {
	post := createPublishedPost(s.T(), s.db, s.author, "viewed")

	w := doJSON(s.router, http.MethodPost, "/api/v1/posts/"+post.ID+"/view", nil, "")
	s.Equal(http.StatusOK, w.Code)

	var resp struct {
		Data struct {
			Counted bool `json:"counted"`
		} `json:"data"`
	}
	s.Require().NoError(json.Unmarshal(w.Body.Bytes(), &resp))
	s.True(resp.Data.Counted)

	// Same viewer inside the window: suppressed
	w = doJSON(s.router, http.MethodPost, "/api/v1/posts/"+post.ID+"/view", nil, "")
	s.Require().NoError(json.Unmarshal(w.Body.Bytes(), &resp))
	s.False(resp.Data.Counted)

	var fresh models.Post
	s.Require().NoError(s.db.First(&fresh, "id = ?", post.ID).Error)
	s.Equal(1, fresh.ViewCount)

	var auditRows int64
	s.db.Model(&models.PostView{}).Where("post_id = ?", post.ID).Count(&auditRows)
	s.Equal(int64(1), auditRows)
}

func (s *PostTestSuite) TestCreatePostAttachesTopicsAndTags() {
	body := map[string]interface{}{
		"title":   "lost keycard",
		"content": "anyone seen a keycard near the library?",
		"topics":  []string{"campus-life"},
		"tags":    []string{"lost-and-found"},
	}
	w := doJSON(s.router, http.MethodPost, "/api/v1/posts", body, s.author.ID)
	s.Require().Equal(http.StatusCreated, w.Code)

	var topic models.Topic
	s.Require().NoError(s.db.First(&topic, "name = ?", "campus-life").Error)
	s.Equal(1, topic.UseCount)

	var tag models.Tag
	s.Require().NoError(s.db.First(&tag, "name = ?", "lost-and-found").Error)
	s.Equal(1, tag.UseCount)

	var fresh models.User
	s.Require().NoError(s.db.First(&fresh, "id = ?", s.author.ID).Error)
	s.Equal(1, fresh.PostCount)
}

func TestPostTestSuite(t *testing.T) {
	suite.Run(t, new(PostTestSuite))
}
