package middleware

import (
	"strings"

	"github.com/gin-gonic/gin"

	"github.com/lifelens/backend/internal/apierror"
	"github.com/lifelens/backend/internal/logger"
)

// Scope establishes the per-request user scope from the X-User-ID
// header. Authentication lives in front of this service; this
// middleware only scopes the request and rejects requests without one.
func Scope() gin.HandlerFunc {
	return func(c *gin.Context) {
		userID := strings.TrimSpace(c.GetHeader("X-User-ID"))
		if userID == "" {
			requestID := apierror.GetRequestID(c)
			apierror.WriteProblem(c, apierror.NewUnauthorizedError(requestID))
			c.Abort()
			return
		}

		c.Set("user_id", userID)

		// Add user ID to request context for logging
		ctx := logger.WithUserID(c.Request.Context(), userID)
		c.Request = c.Request.WithContext(ctx)

		c.Next()
	}
}
