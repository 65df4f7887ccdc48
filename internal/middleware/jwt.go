package middleware

import (
	"net/http" // HTTP status codes
	"strings"  // String manipulation

	"invest_ledger/internal/utils" // JWT utility functions

	"github.com/gin-gonic/gin" // Gin web framework
	"github.com/google/uuid"
)

// ActorKey is the gin context key holding the authenticated user id
const ActorKey = "userID"

// JWTAuthMiddleware validates JWT tokens and extracts the acting user
func JWTAuthMiddleware(secret string) gin.HandlerFunc {
	return func(c *gin.Context) {
		authHeader := c.GetHeader("Authorization") // Get Authorization header
		// Check if the Authorization header is present and properly formatted
		if authHeader == "" || !strings.HasPrefix(authHeader, "Bearer ") {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "Missing or invalid Authorization header", "kind": "not_authenticated"})
			return
		}
		tokenStr := strings.TrimPrefix(authHeader, "Bearer ")
		userID, err := utils.ParseJWT(tokenStr, secret)
		if err != nil {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "Invalid or expired token", "kind": "not_authenticated"})
			return
		}
		c.Set(ActorKey, userID) // Store userID in context
		c.Next()
	}
}

// Actor returns the authenticated user id, or uuid.Nil when the request
// carries none
func Actor(c *gin.Context) uuid.UUID {
	v, ok := c.Get(ActorKey)
	if !ok {
		return uuid.Nil
	}
	id, _ := v.(uuid.UUID)
	return id
}
