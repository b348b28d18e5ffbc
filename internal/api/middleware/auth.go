package middleware

import (
	"net/http"
	"strings"

	"meal-planner/internal/pkg/common"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

// ContextUserID is the gin context key holding the authenticated user ID
// as a string.
const ContextUserID = "user_id"

// TokenParser validates a bearer token and returns the user it names.
type TokenParser interface {
	ParseToken(token string) (uuid.UUID, error)
}

// Auth requires a valid Bearer token and stores the caller's user ID in
// the request context.
func Auth(parser TokenParser) gin.HandlerFunc {
	return func(c *gin.Context) {
		header := c.GetHeader("Authorization")
		token, ok := strings.CutPrefix(header, "Bearer ")
		if !ok || token == "" {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{
				"error": "missing bearer token",
				"code":  common.ErrCodeUnauthorized,
			})
			return
		}

		userID, err := parser.ParseToken(token)
		if err != nil {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{
				"error": "invalid or expired token",
				"code":  common.ErrCodeUnauthorized,
			})
			return
		}

		c.Set(ContextUserID, userID.String())
		c.Next()
	}
}

// UserID extracts the authenticated user ID set by Auth.
func UserID(c *gin.Context) (uuid.UUID, bool) {
	raw := c.GetString(ContextUserID)
	if raw == "" {
		return uuid.Nil, false
	}
	id, err := uuid.Parse(raw)
	if err != nil {
		return uuid.Nil, false
	}
	return id, true
}
