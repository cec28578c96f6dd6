package http

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"

	"social-monkeys/pkg/apperror"
	"social-monkeys/pkg/logger"
	"social-monkeys/pkg/middleware"
	"social-monkeys/services/interaction/internal/entity"
	"social-monkeys/services/interaction/internal/usecase"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

type MockLikeUseCase struct {
	mock.Mock
}

func (m *MockLikeUseCase) Like(ctx context.Context, postID, username string) (*entity.Post, error) {
	args := m.Called(postID, username)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*entity.Post), args.Error(1)
}

func (m *MockLikeUseCase) Unlike(ctx context.Context, postID, username string) (*entity.Post, error) {
	args := m.Called(postID, username)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*entity.Post), args.Error(1)
}

func (m *MockLikeUseCase) IsLiked(ctx context.Context, postID, username string) (bool, error) {
	args := m.Called(postID, username)
	return args.Bool(0), args.Error(1)
}

func (m *MockLikeUseCase) GetLikedPosts(ctx context.Context, username string, limit, offset int) ([]*entity.Post, error) {
	args := m.Called(username, limit, offset)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*entity.Post), args.Error(1)
}

var _ usecase.LikeUseCase = (*MockLikeUseCase)(nil)

func setupRouter(username string) (*gin.Engine, *MockLikeUseCase) {
	gin.SetMode(gin.TestMode)
	likes := new(MockLikeUseCase)
	handler := NewInteractionHandler(likes, logger.NewWithWriters(io.Discard, io.Discard))

	router := gin.New()
	router.Use(func(c *gin.Context) {
		if username != "" {
			c.Set(middleware.UsernameKey, username)
		}
		c.Next()
	})
	router.POST("/interactions/posts/:post_id/like", handler.LikePost)
	router.DELETE("/interactions/posts/:post_id/like", handler.UnlikePost)
	router.GET("/interactions/posts/:post_id/liked", handler.IsLiked)
	router.GET("/interactions/posts/liked", handler.GetLikedPosts)
	return router, likes
}

func serve(router *gin.Engine, method, path string) *httptest.ResponseRecorder {
	w := httptest.NewRecorder()
	req, _ := http.NewRequest(method, path, nil)
	router.ServeHTTP(w, req)
	return w
}

func errorCode(t *testing.T, w *httptest.ResponseRecorder) string {
	t.Helper()
	var response apperror.ErrorResponse
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &response))
	return response.Code
}

func TestLikePost_Success(t *testing.T) {
	router, likes := setupRouter("bob")
	likes.On("Like", "post-1", "bob").Return(&entity.Post{ID: "post-1", LikeCount: 1}, nil)

	w := serve(router, "POST", "/interactions/posts/post-1/like")

	assert.Equal(t, http.StatusOK, w.Code)
	var response entity.Post
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &response))
	assert.Equal(t, 1, response.LikeCount)
	likes.AssertExpectations(t)
}

func TestLikePost_AlreadyLiked(t *testing.T) {
	router, likes := setupRouter("bob")
	likes.On("Like", "post-1", "bob").Return(nil, entity.ErrAlreadyLiked)

	w := serve(router, "POST", "/interactions/posts/post-1/like")

	assert.Equal(t, http.StatusConflict, w.Code)
	assert.Equal(t, apperror.CodeConflict, errorCode(t, w))
}

func TestLikePost_NotFound(t *testing.T) {
	router, likes := setupRouter("bob")
	likes.On("Like", "missing", "bob").Return(nil, apperror.NotFound("post not found"))

	w := serve(router, "POST", "/interactions/posts/missing/like")

	assert.Equal(t, http.StatusNotFound, w.Code)
	assert.Equal(t, apperror.CodeNotFound, errorCode(t, w))
}

func TestLikePost_StoreUnavailable(t *testing.T) {
	router, likes := setupRouter("bob")
	likes.On("Like", "post-1", "bob").Return(nil, apperror.StoreUnavailable("acquire like lock", errors.New("redis down")))

	w := serve(router, "POST", "/interactions/posts/post-1/like")

	assert.Equal(t, http.StatusServiceUnavailable, w.Code)
	assert.NotContains(t, w.Body.String(), "redis down")
}

func TestLikePost_Unauthenticated(t *testing.T) {
	router, likes := setupRouter("")

	w := serve(router, "POST", "/interactions/posts/post-1/like")

	assert.Equal(t, http.StatusUnauthorized, w.Code)
	likes.AssertNotCalled(t, "Like", mock.Anything, mock.Anything)
}

func TestUnlikePost(t *testing.T) {
	router, likes := setupRouter("bob")
	likes.On("Unlike", "post-1", "bob").Return(&entity.Post{ID: "post-1"}, nil).Once()
	likes.On("Unlike", "post-1", "bob").Return(nil, entity.ErrNotLiked).Once()

	w := serve(router, "DELETE", "/interactions/posts/post-1/like")
	assert.Equal(t, http.StatusOK, w.Code)

	w = serve(router, "DELETE", "/interactions/posts/post-1/like")
	assert.Equal(t, http.StatusConflict, w.Code)
	likes.AssertExpectations(t)
}

func TestIsLiked(t *testing.T) {
	router, likes := setupRouter("bob")
	likes.On("IsLiked", "post-1", "bob").Return(true, nil)

	w := serve(router, "GET", "/interactions/posts/post-1/liked")

	assert.Equal(t, http.StatusOK, w.Code)
	var response LikeStatusResponse
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &response))
	assert.Equal(t, "post-1", response.PostID)
	assert.True(t, response.Liked)
}

func TestGetLikedPosts_Paging(t *testing.T) {
	router, likes := setupRouter("bob")
	likes.On("GetLikedPosts", "bob", 5, 10).Return([]*entity.Post{{ID: "post-1"}}, nil)

	w := serve(router, "GET", "/interactions/posts/liked?limit=5&offset=10")

	assert.Equal(t, http.StatusOK, w.Code)
	var response LikedPostsResponse
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &response))
	assert.Equal(t, 1, response.Count)
	assert.Equal(t, 10, response.Offset)
	likes.AssertExpectations(t)
}

func TestGetLikedPosts_InvalidParamsUseDefaults(t *testing.T) {
	router, likes := setupRouter("bob")
	likes.On("GetLikedPosts", "bob", 20, 0).Return(nil, nil)

	w := serve(router, "GET", "/interactions/posts/liked?limit=1000&offset=-3")

	assert.Equal(t, http.StatusOK, w.Code)
	assert.JSONEq(t, `{"posts":[],"count":0,"offset":0}`, w.Body.String())
	likes.AssertExpectations(t)
}
