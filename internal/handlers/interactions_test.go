package handlers

import (
	"net/http"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/suite"
	"gorm.io/gorm"

	"github.com/campushub/backend/internal/models"
)

// InteractionTestSuite covers like/favorite/follow idempotency and
// counter consistency.
type InteractionTestSuite struct {
	suite.Suite
	db     *gorm.DB
	router *gin.Engine
	user   *models.User
	other  *models.User
	post   *models.Post
}

func (s *InteractionTestSuite) SetupTest() {
	db := newTestDB(s.T())
	s.db = db

	h := NewHandlers(nil)
	s.router = gin.New()

	api := s.router.Group("/api/v1")
	posts := api.Group("/posts")
	posts.Use(testAuthMiddleware(db))
	posts.POST("/:id/like", h.LikePost)
	posts.DELETE("/:id/like", h.UnlikePost)
	posts.POST("/:id/favorite", h.FavoritePost)
	posts.DELETE("/:id/favorite", h.UnfavoritePost)

	users := api.Group("/users")
	users.Use(testAuthMiddleware(db))
	users.POST("/:id/follow", h.FollowUser)
	users.DELETE("/:id/follow", h.UnfollowUser)

	s.user = createUser(s.T(), db, "alice")
	s.other = createUser(s.T(), db, "bob")
	s.post = createPublishedPost(s.T(), db, s.other, "hello")
}

func (s *InteractionTestSuite) postLikeCount() int {
	var post models.Post
	s.Require().NoError(s.db.First(&post, "id = ?", s.post.ID).Error)
	return post.LikeCount
}

func (s *InteractionTestSuite) TestLikePostIsIdempotent() {
	for i := 0; i < 3; i++ {
		w := doJSON(s.router, http.MethodPost, "/api/v1/posts/"+s.post.ID+"/like", nil, s.user.ID)
		s.Equal(http.StatusOK, w.Code)
	}

	s.Equal(1, s.postLikeCount())

	var rows int64
	s.db.Model(&models.Like{}).
		Where("user_id = ? AND target_id = ?", s.user.ID, s.post.ID).
		Count(&rows)
	s.Equal(int64(1), rows)
}

func (s *InteractionTestSuite) TestUnlikeThenRelikeRestoresSameRow() {
	doJSON(s.router, http.MethodPost, "/api/v1/posts/"+s.post.ID+"/like", nil, s.user.ID)
	s.Equal(1, s.postLikeCount())

	w := doJSON(s.router, http.MethodDelete, "/api/v1/posts/"+s.post.ID+"/like", nil, s.user.ID)
	s.Equal(http.StatusOK, w.Code)
	s.Equal(0, s.postLikeCount())

	// Re-like restores the soft-deleted row instead of inserting a second one
	doJSON(s.router, http.MethodPost, "/api/v1/posts/"+s.post.ID+"/like", nil, s.user.ID)
	s.Equal(1, s.postLikeCount())

	var totalRows int64
	s.db.Unscoped().Model(&models.Like{}).
		Where("user_id = ? AND target_id = ?", s.user.ID, s.post.ID).
		Count(&totalRows)
	s.Equal(int64(1), totalRows)
}

func (s *InteractionTestSuite) TestUnlikeWithoutLikeIsNoOp() {
	w := doJSON(s.router, http.MethodDelete, "/api/v1/posts/"+s.post.ID+"/like", nil, s.user.ID)
	s.Equal(http.StatusOK, w.Code)
	s.Equal(0, s.postLikeCount())
}

func (s *InteractionTestSuite) TestFavoriteIdempotentAndCounted() {
	for i := 0; i < 2; i++ {
		w := doJSON(s.router, http.MethodPost, "/api/v1/posts/"+s.post.ID+"/favorite", nil, s.user.ID)
		s.Equal(http.StatusOK, w.Code)
	}

	var post models.Post
	s.Require().NoError(s.db.First(&post, "id = ?", s.post.ID).Error)
	s.Equal(1, post.FavoriteCount)

	doJSON(s.router, http.MethodDelete, "/api/v1/posts/"+s.post.ID+"/favorite", nil, s.user.ID)
	s.Require().NoError(s.db.First(&post, "id = ?", s.post.ID).Error)
	s.Equal(0, post.FavoriteCount)
}

func (s *InteractionTestSuite) TestFollowUpdatesBothCounters() {
	w := doJSON(s.router, http.MethodPost, "/api/v1/users/"+s.other.ID+"/follow", nil, s.user.ID)
	s.Equal(http.StatusOK, w.Code)
	// Second follow is a no-op
	doJSON(s.router, http.MethodPost, "/api/v1/users/"+s.other.ID+"/follow", nil, s.user.ID)

	var follower, followee models.User
	s.Require().NoError(s.db.First(&follower, "id = ?", s.user.ID).Error)
	s.Require().NoError(s.db.First(&followee, "id = ?", s.other.ID).Error)
	s.Equal(1, follower.FollowingCount)
	s.Equal(1, followee.FollowerCount)

	doJSON(s.router, http.MethodDelete, "/api/v1/users/"+s.other.ID+"/follow", nil, s.user.ID)
	s.Require().NoError(s.db.First(&follower, "id = ?", s.user.ID).Error)
	s.Require().NoError(s.db.First(&followee, "id = ?", s.other.ID).Error)
	s.Equal(0, follower.FollowingCount)
	s.Equal(0, followee.FollowerCount)
}

func (s *InteractionTestSuite) TestSelfFollowRejected() {
	w := doJSON(s.router, http.MethodPost, "/api/v1/users/"+s.user.ID+"/follow", nil, s.user.ID)
	s.Equal(http.StatusBadRequest, w.Code)
}

func (s *InteractionTestSuite) TestLikeCreatesNotificationForAuthor() {
	doJSON(s.router, http.MethodPost, "/api/v1/posts/"+s.post.ID+"/like", nil, s.user.ID)

	var n models.Notification
	err := s.db.First(&n, "user_id = ? AND type = ?", s.other.ID, models.NotificationLike).Error
	s.NoError(err)
	s.Equal(s.post.ID, n.TargetID)
}

func TestInteractionTestSuite(t *testing.T) {
	suite.Run(t, new(InteractionTestSuite))
}
