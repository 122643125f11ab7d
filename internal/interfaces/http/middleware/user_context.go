package middleware

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

const UserIDKey = "user_id"

// UserContextMiddleware resolves the calling user from the X-User-ID
// header set by the authenticating gateway in front of this service.
// Requests without a valid user ID are rejected before any handler runs.
func UserContextMiddleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		raw := c.GetHeader("X-User-ID")
		userID, err := uuid.Parse(raw)
		if err != nil {
			c.AbortWithStatusJSON(http.StatusBadRequest, gin.H{
				"code":    http.StatusBadRequest,
				"message": "missing or invalid X-User-ID header",
			})
			return
		}
		c.Set(UserIDKey, userID)
		c.Next()
	}
}

// GetUserID returns the resolved user ID for the current request
func GetUserID(c *gin.Context) (uuid.UUID, bool) {
	v, ok := c.Get(UserIDKey)
	if !ok {
		return uuid.Nil, false
	}
	id, ok := v.(uuid.UUID)
	return id, ok
}
