package handlers

import (
	"net/http"
	"net/http/httptest"
	"sync"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/require"

	"github.com/campushub/backend/internal/models"
	"github.com/campushub/backend/internal/search"
)

// indexRecorder stands in for Elasticsearch and records every document
// write so tests can assert what got indexed.
type indexRecorder struct {
	mu    sync.Mutex
	paths []string
}

func (r *indexRecorder) ServeHTTP(w http.ResponseWriter, req *http.Request) {
	if req.Method == http.MethodPut || req.Method == http.MethodPost {
		r.mu.Lock()
		r.paths = append(r.paths, req.URL.Path)
		r.mu.Unlock()
	}
	w.Header().Set("X-Elastic-Product", "Elasticsearch")
	w.Header().Set("Content-Type", "application/json")
	w.Write([]byte(`{}`))
}

func (r *indexRecorder) saw(path string) bool {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, p := range r.paths {
		if p == path {
			return true
		}
	}
	return false
}

func TestCreatePostIndexesTopics(t *testing.T) {
	db := newTestDB(t)

	recorder := &indexRecorder{}
	server := httptest.NewServer(recorder)
	defer server.Close()

	t.Setenv("ELASTICSEARCH_URL", server.URL)
	client, err := search.NewClient()
	require.NoError(t, err)

	h := NewHandlers(nil)
	h.SetSearchClient(client)

	router := gin.New()
	router.POST("/api/v1/posts", testAuthMiddleware(db), h.CreatePost)

	author := createUser(t, db, "indexer")
	w := doJSON(router, http.MethodPost, "/api/v1/posts", map[string]interface{}{
		"title":   "study group forming",
		"content": "weekly algorithms study group, all welcome",
		"topics":  []string{"study-groups"},
	}, author.ID)
	require.Equal(t, http.StatusCreated, w.Code)

	var topic models.Topic
	require.NoError(t, db.First(&topic, "name = ?", "study-groups").Error)

	// Indexing runs in the background
	require.Eventually(t, func() bool {
		return recorder.saw("/topics/_doc/" + topic.ID)
	}, 2*time.Second, 10*time.Millisecond, "topic document was never indexed")

	var post models.Post
	require.NoError(t, db.First(&post, "title = ?", "study group forming").Error)
	require.Eventually(t, func() bool {
		return recorder.saw("/posts/_doc/" + post.ID)
	}, 2*time.Second, 10*time.Millisecond, "post document was never indexed")
}

func TestCreateDraftIndexesTopicButNotPost(t *testing.T) {
	db := newTestDB(t)

	recorder := &indexRecorder{}
	server := httptest.NewServer(recorder)
	defer server.Close()

	t.Setenv("ELASTICSEARCH_URL", server.URL)
	client, err := search.NewClient()
	require.NoError(t, err)

	h := NewHandlers(nil)
	h.SetSearchClient(client)

	router := gin.New()
	router.POST("/api/v1/posts", testAuthMiddleware(db), h.CreatePost)

	author := createUser(t, db, "drafter")
	w := doJSON(router, http.MethodPost, "/api/v1/posts", map[string]interface{}{
		"title":   "unfinished thoughts",
		"content": "still editing this one",
		"topics":  []string{"campus-life"},
		"draft":   true,
	}, author.ID)
	require.Equal(t, http.StatusCreated, w.Code)

	var topic models.Topic
	require.NoError(t, db.First(&topic, "name = ?", "campus-life").Error)
	require.Eventually(t, func() bool {
		return recorder.saw("/topics/_doc/" + topic.ID)
	}, 2*time.Second, 10*time.Millisecond, "topic document was never indexed")

	var post models.Post
	require.NoError(t, db.First(&post, "title = ?", "unfinished thoughts").Error)
	require.False(t, recorder.saw("/posts/_doc/"+post.ID), "draft should not be searchable")
}
