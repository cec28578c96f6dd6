package http

import (
	"net/http"

	"social-monkeys/pkg/apperror"
	"social-monkeys/pkg/logger"
	"social-monkeys/pkg/middleware"
	"social-monkeys/pkg/stream"
	"social-monkeys/services/post/internal/entity"
	"social-monkeys/services/post/internal/usecase"

	"github.com/gin-gonic/gin"
)

type PostHandler struct {
	postUseCase    usecase.PostUseCase
	commentUseCase usecase.CommentUseCase
	counterUseCase usecase.CounterUseCase
	logger         *logger.Logger
}

func NewPostHandler(
	postUseCase usecase.PostUseCase,
	commentUseCase usecase.CommentUseCase,
	counterUseCase usecase.CounterUseCase,
	logger *logger.Logger,
) *PostHandler {
	return &PostHandler{
		postUseCase:    postUseCase,
		commentUseCase: commentUseCase,
		counterUseCase: counterUseCase,
		logger:         logger,
	}
}

type BodyRequest struct {
	Body string `json:"body" example:"Hello monkeys"`
}

type PostListResponse struct {
	Posts []*entity.Post `json:"posts"`
	Count int            `json:"count"`
}

type CommentListResponse struct {
	Comments []entity.Comment `json:"comments"`
	Count    int              `json:"count"`
}

func (h *PostHandler) fail(c *gin.Context, action string, err error) {
	if status, _ := apperror.Status(err); status >= http.StatusInternalServerError {
		h.logger.Error("Failed to %s: %v", action, err)
	}
	apperror.Respond(c, err)
}

func bindBody(c *gin.Context) (string, error) {
	var req BodyRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		return "", apperror.Validation("invalid request body")
	}
	return req.Body, nil
}

// CreatePost godoc
// @Summary      Create a post
// @Description  Create a post authored by the caller. The body must contain a non-whitespace character.
// @Tags         posts
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        request body BodyRequest true "Post body"
// @Success      201  {object}  entity.Post
// @Failure      400  {object}  apperror.ErrorResponse
// @Failure      401  {object}  apperror.ErrorResponse
// @Failure      503  {object}  apperror.ErrorResponse
// @Router       /posts [post]
func (h *PostHandler) CreatePost(c *gin.Context) {
	username, err := middleware.Username(c)
	if err != nil {
		apperror.Respond(c, err)
		return
	}

	body, err := bindBody(c)
	if err != nil {
		apperror.Respond(c, err)
		return
	}

	post, err := h.postUseCase.CreatePost(c.Request.Context(), username, body)
	if err != nil {
		h.fail(c, "create post", err)
		return
	}

	c.JSON(http.StatusCreated, post)
}

// GetPost godoc
// @Summary      Get post by ID
// @Description  Get a post with its comments, newest first
// @Tags         posts
// @Produce      json
// @Security     BearerAuth
// @Param        id path string true "Post ID"
// @Success      200  {object}  entity.Post
// @Failure      404  {object}  apperror.ErrorResponse
// @Failure      503  {object}  apperror.ErrorResponse
// @Router       /posts/{id} [get]
func (h *PostHandler) GetPost(c *gin.Context) {
	post, err := h.postUseCase.GetPost(c.Request.Context(), c.Param("id"))
	if err != nil {
		h.fail(c, "get post", err)
		return
	}

	c.JSON(http.StatusOK, post)
}

// ListPosts godoc
// @Summary      List posts
// @Description  Every post, newest first
// @Tags         posts
// @Produce      json
// @Security     BearerAuth
// @Success      200  {object}  PostListResponse
// @Failure      503  {object}  apperror.ErrorResponse
// @Router       /posts [get]
func (h *PostHandler) ListPosts(c *gin.Context) {
	posts, err := stream.Collect(h.postUseCase.ListPosts(c.Request.Context()))
	if err != nil {
		h.fail(c, "list posts", err)
		return
	}
	if posts == nil {
		posts = []*entity.Post{}
	}

	c.JSON(http.StatusOK, PostListResponse{Posts: posts, Count: len(posts)})
}

// DeletePost godoc
// @Summary      Delete post
// @Description  Delete a post. Only its author may do so. Comments and likes are kept.
// @Tags         posts
// @Produce      json
// @Security     BearerAuth
// @Param        id path string true "Post ID"
// @Success      200  {object}  map[string]string
// @Failure      403  {object}  apperror.ErrorResponse
// @Failure      404  {object}  apperror.ErrorResponse
// @Failure      503  {object}  apperror.ErrorResponse
// @Router       /posts/{id} [delete]
func (h *PostHandler) DeletePost(c *gin.Context) {
	username, err := middleware.Username(c)
	if err != nil {
		apperror.Respond(c, err)
		return
	}

	if err := h.postUseCase.DeletePost(c.Request.Context(), c.Param("id"), username); err != nil {
		h.fail(c, "delete post", err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"message": "Post deleted successfully"})
}

// AddComment godoc
// @Summary      Comment on a post
// @Description  Add a comment and bump the post's comment count
// @Tags         comments
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        id path string true "Post ID"
// @Param        request body BodyRequest true "Comment body"
// @Success      201  {object}  entity.Comment
// @Failure      400  {object}  apperror.ErrorResponse
// @Failure      404  {object}  apperror.ErrorResponse
// @Failure      503  {object}  apperror.ErrorResponse
// @Router       /posts/{id}/comments [post]
func (h *PostHandler) AddComment(c *gin.Context) {
	username, err := middleware.Username(c)
	if err != nil {
		apperror.Respond(c, err)
		return
	}

	body, err := bindBody(c)
	if err != nil {
		apperror.Respond(c, err)
		return
	}

	comment, err := h.commentUseCase.AddComment(c.Request.Context(), c.Param("id"), username, body)
	if err != nil {
		h.fail(c, "add comment", err)
		return
	}

	c.JSON(http.StatusCreated, comment)
}

// ListComments godoc
// @Summary      List comments
// @Description  Comments of a post, newest first
// @Tags         comments
// @Produce      json
// @Security     BearerAuth
// @Param        id path string true "Post ID"
// @Success      200  {object}  CommentListResponse
// @Failure      404  {object}  apperror.ErrorResponse
// @Router       /posts/{id}/comments [get]
func (h *PostHandler) ListComments(c *gin.Context) {
	comments, err := h.commentUseCase.ListComments(c.Request.Context(), c.Param("id"))
	if err != nil {
		h.fail(c, "list comments", err)
		return
	}
	if comments == nil {
		comments = []entity.Comment{}
	}

	c.JSON(http.StatusOK, CommentListResponse{Comments: comments, Count: len(comments)})
}

// CheckCounters godoc
// @Summary      Check post counters
// @Description  Compare like_count and comment_count with the stored likes and comments
// @Tags         counters
// @Produce      json
// @Security     BearerAuth
// @Param        id path string true "Post ID"
// @Success      200  {object}  entity.CounterReport
// @Failure      404  {object}  apperror.ErrorResponse
// @Router       /posts/{id}/counters [get]
func (h *PostHandler) CheckCounters(c *gin.Context) {
	report, err := h.counterUseCase.CheckCounters(c.Request.Context(), c.Param("id"))
	if err != nil {
		h.fail(c, "check counters", err)
		return
	}

	c.JSON(http.StatusOK, report)
}

// ReconcileCounters godoc
// @Summary      Recompute post counters
// @Description  Recount likes and comments and store the result on the post
// @Tags         counters
// @Produce      json
// @Security     BearerAuth
// @Param        id path string true "Post ID"
// @Success      200  {object}  entity.CounterReport
// @Failure      404  {object}  apperror.ErrorResponse
// @Failure      503  {object}  apperror.ErrorResponse
// @Router       /posts/{id}/reconcile [post]
func (h *PostHandler) ReconcileCounters(c *gin.Context) {
	report, err := h.counterUseCase.RecomputeCounters(c.Request.Context(), c.Param("id"))
	if err != nil {
		h.fail(c, "reconcile counters", err)
		return
	}

	c.JSON(http.StatusOK, report)
}
