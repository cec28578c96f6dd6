package http

import (
	"net/http"

	"social-monkeys/pkg/apperror"
	"social-monkeys/pkg/logger"
	"social-monkeys/pkg/middleware"
	"social-monkeys/services/auth/internal/entity"
	"social-monkeys/services/auth/internal/usecase"

	"github.com/gin-gonic/gin"
)

// Form field carrying the profile image.
const imageField = "image"

type AuthHandler struct {
	authUseCase usecase.AuthUseCase
	logger      *logger.Logger
}

func NewAuthHandler(authUseCase usecase.AuthUseCase, logger *logger.Logger) *AuthHandler {
	return &AuthHandler{
		authUseCase: authUseCase,
		logger:      logger,
	}
}

type TokenResponse struct {
	Token string `json:"token"`
}

func (h *AuthHandler) fail(c *gin.Context, action string, err error) {
	if status, _ := apperror.Status(err); status >= http.StatusInternalServerError {
		h.logger.Error("Failed to %s: %v", action, err)
	}
	apperror.Respond(c, err)
}

// Signup godoc
// @Summary      Sign up
// @Description  Create a user and return a token for it. New users get the default profile image.
// @Tags         auth
// @Accept       json
// @Produce      json
// @Param        request body entity.Signup true "Signup data"
// @Success      201  {object}  TokenResponse
// @Failure      400  {object}  apperror.ErrorResponse
// @Failure      409  {object}  apperror.ErrorResponse
// @Failure      503  {object}  apperror.ErrorResponse
// @Router       /signup [post]
func (h *AuthHandler) Signup(c *gin.Context) {
	var req entity.Signup
	if err := c.ShouldBindJSON(&req); err != nil {
		apperror.Respond(c, apperror.Validation("invalid request body"))
		return
	}

	token, err := h.authUseCase.Signup(c.Request.Context(), req)
	if err != nil {
		h.fail(c, "sign up", err)
		return
	}

	c.JSON(http.StatusCreated, TokenResponse{Token: token})
}

// Login godoc
// @Summary      Login user
// @Description  Authenticate user and return JWT token
// @Tags         auth
// @Accept       json
// @Produce      json
// @Param        request body entity.Credentials true "Login credentials"
// @Success      200  {object}  TokenResponse
// @Failure      400  {object}  apperror.ErrorResponse
// @Failure      401  {object}  apperror.ErrorResponse
// @Failure      503  {object}  apperror.ErrorResponse
// @Router       /login [post]
func (h *AuthHandler) Login(c *gin.Context) {
	var req entity.Credentials
	if err := c.ShouldBindJSON(&req); err != nil {
		apperror.Respond(c, apperror.Validation("invalid request body"))
		return
	}

	token, err := h.authUseCase.Login(c.Request.Context(), req)
	if err != nil {
		h.fail(c, "log in", err)
		return
	}

	c.JSON(http.StatusOK, TokenResponse{Token: token})
}

// Me godoc
// @Summary      Get current user info
// @Description  Get information about the currently authenticated user
// @Tags         users
// @Produce      json
// @Security     BearerAuth
// @Success      200  {object}  entity.User
// @Failure      401  {object}  apperror.ErrorResponse
// @Failure      404  {object}  apperror.ErrorResponse
// @Router       /me [get]
func (h *AuthHandler) Me(c *gin.Context) {
	userID, err := middleware.UserID(c)
	if err != nil {
		apperror.Respond(c, err)
		return
	}

	user, err := h.authUseCase.GetMe(c.Request.Context(), userID)
	if err != nil {
		h.fail(c, "get user", err)
		return
	}

	c.JSON(http.StatusOK, user)
}

// AddUserDetails godoc
// @Summary      Update profile details
// @Description  Set bio, website and location. Values are trimmed and a website without scheme gets http://.
// @Tags         users
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        request body entity.Details true "Profile details"
// @Success      200  {object}  entity.User
// @Failure      400  {object}  apperror.ErrorResponse
// @Failure      401  {object}  apperror.ErrorResponse
// @Failure      404  {object}  apperror.ErrorResponse
// @Router       /user [post]
func (h *AuthHandler) AddUserDetails(c *gin.Context) {
	userID, err := middleware.UserID(c)
	if err != nil {
		apperror.Respond(c, err)
		return
	}

	var req entity.Details
	if err := c.ShouldBindJSON(&req); err != nil {
		apperror.Respond(c, apperror.Validation("invalid request body"))
		return
	}

	user, err := h.authUseCase.AddUserDetails(c.Request.Context(), userID, req)
	if err != nil {
		h.fail(c, "update user details", err)
		return
	}

	c.JSON(http.StatusOK, user)
}

// UploadImage godoc
// @Summary      Upload profile image
// @Description  Upload a JPEG or PNG profile image
// @Tags         users
// @Accept       multipart/form-data
// @Produce      json
// @Security     BearerAuth
// @Param        image formData file true "Profile image"
// @Success      200  {object}  entity.User
// @Failure      400  {object}  apperror.ErrorResponse
// @Failure      401  {object}  apperror.ErrorResponse
// @Failure      503  {object}  apperror.ErrorResponse
// @Router       /user/image [post]
func (h *AuthHandler) UploadImage(c *gin.Context) {
	userID, err := middleware.UserID(c)
	if err != nil {
		apperror.Respond(c, err)
		return
	}

	fileHeader, err := c.FormFile(imageField)
	if err != nil {
		apperror.Respond(c, apperror.Validation("image file is required"))
		return
	}

	file, err := fileHeader.Open()
	if err != nil {
		apperror.Respond(c, apperror.Validation("image file is unreadable"))
		return
	}
	defer file.Close()

	contentType := fileHeader.Header.Get("Content-Type")
	user, err := h.authUseCase.UploadImage(c.Request.Context(), userID, fileHeader.Filename, contentType, file)
	if err != nil {
		h.fail(c, "upload profile image", err)
		return
	}

	c.JSON(http.StatusOK, user)
}
