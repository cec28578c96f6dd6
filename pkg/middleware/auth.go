package middleware

import (
	"strings"

	"social-monkeys/pkg/apperror"
	"social-monkeys/pkg/jwt"

	"github.com/gin-gonic/gin"
)

// Context keys set by AuthMiddleware.
const (
	UserIDKey   = "user_id"
	UsernameKey = "username"
)

// AuthMiddleware resolves the caller identity from a Bearer token. Requests
// without a valid token never reach the handlers.
func AuthMiddleware(jwtService *jwt.Service) gin.HandlerFunc {
	return func(c *gin.Context) {
		authHeader := c.GetHeader("Authorization")
		if authHeader == "" {
			apperror.Respond(c, apperror.Unauthorized("authorization header required"))
			return
		}

		tokenString, found := strings.CutPrefix(authHeader, "Bearer ")
		if !found || strings.TrimSpace(tokenString) == "" {
			apperror.Respond(c, apperror.Unauthorized("invalid authorization header format"))
			return
		}

		claims, err := jwtService.ValidateToken(tokenString)
		if err != nil {
			apperror.Respond(c, apperror.Unauthorized("invalid or expired token"))
			return
		}
		if claims.Username == "" {
			apperror.Respond(c, apperror.Unauthorized("token carries no username"))
			return
		}

		c.Set(UserIDKey, claims.UserID)
		c.Set(UsernameKey, claims.Username)
		c.Next()
	}
}

// Username returns the verified caller, or an Unauthorized error when the
// request was not authenticated.
func Username(c *gin.Context) (string, error) {
	username := c.GetString(UsernameKey)
	if username == "" {
		return "", apperror.Unauthorized("missing identity")
	}
	return username, nil
}

// UserID is Username for the caller's user id.
func UserID(c *gin.Context) (string, error) {
	userID := c.GetString(UserIDKey)
	if userID == "" {
		return "", apperror.Unauthorized("missing identity")
	}
	return userID, nil
}
