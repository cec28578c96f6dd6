package middleware

import (
	"fmt"
	"net/http"
	"time"

	"social-monkeys/pkg/apperror"

	"github.com/gin-gonic/gin"
	"github.com/redis/go-redis/v9"
)

func RateLimitMiddleware(redisClient *redis.Client, limit int, window time.Duration) gin.HandlerFunc {
	return func(c *gin.Context) {
		userID, exists := c.Get(UserIDKey)
		if !exists {
			userID = c.ClientIP()
		}

		key := fmt.Sprintf("rate_limit:%s:%s", c.FullPath(), userID)

		ctx := c.Request.Context()
		count, err := redisClient.Incr(ctx, key).Result()
		if err != nil {
			apperror.Respond(c, apperror.StoreUnavailable("rate limit check", err))
			return
		}

		if count == 1 {
			redisClient.Expire(ctx, key, window)
		}

		if count > int64(limit) {
			c.AbortWithStatusJSON(http.StatusTooManyRequests, apperror.ErrorResponse{
				Code:    "RATE_LIMITED",
				Message: "Rate limit exceeded",
			})
			return
		}

		c.Next()
	}
}
