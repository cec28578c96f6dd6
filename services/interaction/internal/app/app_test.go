package internal

import (
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"sync"
	"testing"
	"time"

	"social-monkeys/pkg/config"
	"social-monkeys/pkg/database/dbtest"
	"social-monkeys/pkg/lock"
	"social-monkeys/pkg/logger"
	"social-monkeys/pkg/models"
	"social-monkeys/services/interaction/internal/entity"

	"github.com/alicebob/miniredis/v2"
	"github.com/gin-gonic/gin"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
)

type testServer struct {
	app    *App
	db     *gorm.DB
	router *gin.Engine
}

func newTestServer(t *testing.T) *testServer {
	gin.SetMode(gin.TestMode)
	mr := miniredis.RunT(t)
	redisClient := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	t.Cleanup(func() { redisClient.Close() })

	cfg := &config.Config{
		JWTSecret:       "test-secret",
		RateLimit:       1000,
		RateLimitWindow: time.Minute,
	}
	db := dbtest.New(t)
	locker := lock.NewRedisLocker(redisClient, 2*time.Second, 5*time.Millisecond)
	a := newApp(cfg, logger.NewWithWriters(io.Discard, io.Discard), db, redisClient, nil, locker)
	return &testServer{app: a, db: db, router: a.Router()}
}

func (s *testServer) do(t *testing.T, username, method, path string) *httptest.ResponseRecorder {
	t.Helper()
	req, _ := http.NewRequest(method, path, nil)
	if username != "" {
		token, err := s.app.jwtService.GenerateToken("id-"+username, username)
		require.NoError(t, err)
		req.Header.Set("Authorization", "Bearer "+token)
	}
	w := httptest.NewRecorder()
	s.router.ServeHTTP(w, req)
	return w
}

func (s *testServer) seedPost(t *testing.T, author string) string {
	t.Helper()
	post := &models.Post{AuthorUsername: author, Body: "hello"}
	require.NoError(t, s.db.Create(post).Error)
	return post.ID
}

func likeCount(t *testing.T, w *httptest.ResponseRecorder) int {
	t.Helper()
	var post entity.Post
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &post))
	return post.LikeCount
}

func TestHealth(t *testing.T) {
	s := newTestServer(t)

	w := s.do(t, "", "GET", "/health")
	assert.Equal(t, http.StatusOK, w.Code)
}

func TestAPI_RequiresToken(t *testing.T) {
	s := newTestServer(t)
	postID := s.seedPost(t, "alice")

	w := s.do(t, "", "POST", "/api/v1/interactions/posts/"+postID+"/like")
	assert.Equal(t, http.StatusUnauthorized, w.Code)

	var count int64
	require.NoError(t, s.db.Model(&models.Like{}).Count(&count).Error)
	assert.Zero(t, count)
}

func TestAPI_LikeUnlikeLike(t *testing.T) {
	s := newTestServer(t)
	postID := s.seedPost(t, "alice")
	path := "/api/v1/interactions/posts/" + postID + "/like"

	w := s.do(t, "bob", "POST", path)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, 1, likeCount(t, w))

	w = s.do(t, "bob", "POST", path)
	assert.Equal(t, http.StatusConflict, w.Code)

	w = s.do(t, "bob", "DELETE", path)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, 0, likeCount(t, w))

	w = s.do(t, "bob", "DELETE", path)
	assert.Equal(t, http.StatusConflict, w.Code)

	w = s.do(t, "bob", "POST", path)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, 1, likeCount(t, w))

	w = s.do(t, "bob", "GET", "/api/v1/interactions/posts/"+postID+"/liked")
	require.Equal(t, http.StatusOK, w.Code)
	assert.JSONEq(t, `{"post_id":"`+postID+`","liked":true}`, w.Body.String())
}

func TestAPI_LikeMissingPost(t *testing.T) {
	s := newTestServer(t)

	w := s.do(t, "bob", "POST", "/api/v1/interactions/posts/7f6c1e1e-3c1a-4c9e-9a53-1d8e0c6c0b1a/like")
	assert.Equal(t, http.StatusNotFound, w.Code)
}

func TestAPI_ConcurrentLikesOnePair(t *testing.T) {
	s := newTestServer(t)
	postID := s.seedPost(t, "alice")
	path := "/api/v1/interactions/posts/" + postID + "/like"

	var (
		wg    sync.WaitGroup
		mu    sync.Mutex
		codes = map[int]int{}
	)
	for i := 0; i < 10; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			w := s.do(t, "bob", "POST", path)
			mu.Lock()
			codes[w.Code]++
			mu.Unlock()
		}()
	}
	wg.Wait()

	assert.Equal(t, 1, codes[http.StatusOK])
	assert.Equal(t, 9, codes[http.StatusConflict])

	var post models.Post
	require.NoError(t, s.db.First(&post, "id = ?", postID).Error)
	assert.Equal(t, 1, post.LikeCount)
}

func TestAPI_LikedPosts(t *testing.T) {
	s := newTestServer(t)
	first := s.seedPost(t, "alice")
	second := s.seedPost(t, "carol")

	require.Equal(t, http.StatusOK, s.do(t, "bob", "POST", "/api/v1/interactions/posts/"+first+"/like").Code)
	require.Equal(t, http.StatusOK, s.do(t, "bob", "POST", "/api/v1/interactions/posts/"+second+"/like").Code)

	w := s.do(t, "bob", "GET", "/api/v1/interactions/posts/liked")
	require.Equal(t, http.StatusOK, w.Code)

	var response struct {
		Posts []entity.Post `json:"posts"`
		Count int           `json:"count"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &response))
	assert.Equal(t, 2, response.Count)
}
