package api

import (
	"net/http"
	"strings"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/rongwang/fintrack/internal/models"
	"github.com/rongwang/fintrack/internal/service"
	"github.com/rongwang/fintrack/internal/utils"
)

const userIDKey = "userId"

// AuthMiddleware resolves the bearer token to an active user and stores the
// user id in the context under "userId".
func AuthMiddleware(svc service.Service) gin.HandlerFunc {
	return func(c *gin.Context) {
		// Get the JWT token from the Authorization header
		authHeader := c.GetHeader("Authorization")
		if authHeader == "" {
			abortUnauthenticated(c, "Authentication required")
			return
		}

		// Check if the Authorization header starts with "Bearer "
		parts := strings.Split(authHeader, " ")
		if len(parts) != 2 || !strings.EqualFold(parts[0], "Bearer") {
			abortUnauthenticated(c, "Invalid token format")
			return
		}

		user, err := svc.Authenticate(c.Request.Context(), parts[1])
		if err != nil {
			abortUnauthenticated(c, "Invalid token")
			return
		}

		// Set user ID in the context
		c.Set(userIDKey, user.ID)
		c.Next()
	}
}

func abortUnauthenticated(c *gin.Context, message string) {
	c.AbortWithStatusJSON(http.StatusUnauthorized, models.ErrorResponse{
		Status:  "error",
		Code:    "UNAUTHORIZED",
		Message: message,
	})
}

// RequestLogger logs one line per request once the handler chain is done
func RequestLogger(log utils.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		c.Next()

		status := c.Writer.Status()
		kv := []any{
			"method", c.Request.Method,
			"path", c.FullPath(),
			"status", status,
			"latency", time.Since(start),
		}
		if userID := c.GetString(userIDKey); userID != "" {
			kv = append(kv, "userId", userID)
		}

		ctx := c.Request.Context()
		switch {
		case status >= http.StatusInternalServerError:
			log.Error(ctx, "request failed", kv...)
		case status >= http.StatusBadRequest:
			log.Warn(ctx, "request rejected", kv...)
		default:
			log.Info(ctx, "request handled", kv...)
		}
	}
}

func actorID(c *gin.Context) string {
	return c.GetString(userIDKey)
}
