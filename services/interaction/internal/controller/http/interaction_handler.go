package http

import (
	"net/http"
	"strconv"

	"social-monkeys/pkg/apperror"
	"social-monkeys/pkg/logger"
	"social-monkeys/pkg/middleware"
	"social-monkeys/services/interaction/internal/entity"
	"social-monkeys/services/interaction/internal/usecase"

	"github.com/gin-gonic/gin"
)

const (
	defaultLimit = 20
	maxLimit     = 100
)

type InteractionHandler struct {
	likeUseCase usecase.LikeUseCase
	logger      *logger.Logger
}

func NewInteractionHandler(likeUseCase usecase.LikeUseCase, logger *logger.Logger) *InteractionHandler {
	return &InteractionHandler{
		likeUseCase: likeUseCase,
		logger:      logger,
	}
}

type LikeStatusResponse struct {
	PostID string `json:"post_id"`
	Liked  bool   `json:"liked"`
}

type LikedPostsResponse struct {
	Posts  []*entity.Post `json:"posts"`
	Count  int            `json:"count"`
	Offset int            `json:"offset"`
}

func (h *InteractionHandler) fail(c *gin.Context, action string, err error) {
	if status, _ := apperror.Status(err); status >= http.StatusInternalServerError {
		h.logger.Error("Failed to %s: %v", action, err)
	}
	apperror.Respond(c, err)
}

// LikePost godoc
// @Summary      Like a post
// @Description  Record a like by the caller. Liking twice is a conflict.
// @Tags         interactions
// @Produce      json
// @Security     BearerAuth
// @Param        post_id path string true "Post ID"
// @Success      200  {object}  entity.Post
// @Failure      401  {object}  apperror.ErrorResponse
// @Failure      404  {object}  apperror.ErrorResponse
// @Failure      409  {object}  apperror.ErrorResponse
// @Failure      503  {object}  apperror.ErrorResponse
// @Router       /interactions/posts/{post_id}/like [post]
func (h *InteractionHandler) LikePost(c *gin.Context) {
	username, err := middleware.Username(c)
	if err != nil {
		apperror.Respond(c, err)
		return
	}

	post, err := h.likeUseCase.Like(c.Request.Context(), c.Param("post_id"), username)
	if err != nil {
		h.fail(c, "like post", err)
		return
	}

	c.JSON(http.StatusOK, post)
}

// UnlikePost godoc
// @Summary      Unlike a post
// @Description  Remove the caller's like. Unliking a post that is not liked is a conflict.
// @Tags         interactions
// @Produce      json
// @Security     BearerAuth
// @Param        post_id path string true "Post ID"
// @Success      200  {object}  entity.Post
// @Failure      401  {object}  apperror.ErrorResponse
// @Failure      404  {object}  apperror.ErrorResponse
// @Failure      409  {object}  apperror.ErrorResponse
// @Failure      503  {object}  apperror.ErrorResponse
// @Router       /interactions/posts/{post_id}/like [delete]
func (h *InteractionHandler) UnlikePost(c *gin.Context) {
	username, err := middleware.Username(c)
	if err != nil {
		apperror.Respond(c, err)
		return
	}

	post, err := h.likeUseCase.Unlike(c.Request.Context(), c.Param("post_id"), username)
	if err != nil {
		h.fail(c, "unlike post", err)
		return
	}

	c.JSON(http.StatusOK, post)
}

// IsLiked godoc
// @Summary      Check if user liked a post
// @Description  Check if the authenticated user has liked a specific post
// @Tags         interactions
// @Produce      json
// @Security     BearerAuth
// @Param        post_id path string true "Post ID"
// @Success      200  {object}  LikeStatusResponse
// @Failure      401  {object}  apperror.ErrorResponse
// @Failure      404  {object}  apperror.ErrorResponse
// @Failure      503  {object}  apperror.ErrorResponse
// @Router       /interactions/posts/{post_id}/liked [get]
func (h *InteractionHandler) IsLiked(c *gin.Context) {
	username, err := middleware.Username(c)
	if err != nil {
		apperror.Respond(c, err)
		return
	}

	postID := c.Param("post_id")
	liked, err := h.likeUseCase.IsLiked(c.Request.Context(), postID, username)
	if err != nil {
		h.fail(c, "check like status", err)
		return
	}

	c.JSON(http.StatusOK, LikeStatusResponse{PostID: postID, Liked: liked})
}

// GetLikedPosts godoc
// @Summary      Get liked posts
// @Description  Get posts liked by the authenticated user, most recently liked first
// @Tags         interactions
// @Produce      json
// @Security     BearerAuth
// @Param        limit query int false "Number of posts to return (max 100)"
// @Param        offset query int false "Offset for pagination"
// @Success      200  {object}  LikedPostsResponse
// @Failure      401  {object}  apperror.ErrorResponse
// @Failure      503  {object}  apperror.ErrorResponse
// @Router       /interactions/posts/liked [get]
func (h *InteractionHandler) GetLikedPosts(c *gin.Context) {
	username, err := middleware.Username(c)
	if err != nil {
		apperror.Respond(c, err)
		return
	}

	limit := defaultLimit
	offset := 0

	if limitStr := c.Query("limit"); limitStr != "" {
		if l, err := strconv.Atoi(limitStr); err == nil && l > 0 && l <= maxLimit {
			limit = l
		}
	}

	if offsetStr := c.Query("offset"); offsetStr != "" {
		if o, err := strconv.Atoi(offsetStr); err == nil && o >= 0 {
			offset = o
		}
	}

	posts, err := h.likeUseCase.GetLikedPosts(c.Request.Context(), username, limit, offset)
	if err != nil {
		h.fail(c, "get liked posts", err)
		return
	}
	if posts == nil {
		posts = []*entity.Post{}
	}

	c.JSON(http.StatusOK, LikedPostsResponse{Posts: posts, Count: len(posts), Offset: offset})
}
