// File: internal/common/context_helpers.go
package common

import (
	"strings"

	"github.com/gin-gonic/gin"
)

// GetTokenFromContext retrieves the bearer token string from the
// Authorization header. Returns an empty string if not found.
func GetTokenFromContext(c *gin.Context) string {
	authHeader := c.GetHeader(AuthorizationHeader)
	if authHeader == "" {
		return ""
	}
	parts := strings.Split(authHeader, " ")
	if len(parts) != 2 || !strings.EqualFold(parts[0], AuthorizationTypeBearer) {
		return ""
	}
	return parts[1]
}

// GetUserIDFromContext retrieves the authenticated user's ID from the Gin
// context. The auth middleware always sets it, so a missing value means the
// route was wired without the middleware.
func GetUserIDFromContext(c *gin.Context) (string, error) {
	val, exists := c.Get(UserIDKey)
	if !exists {
		return "", ErrUnauthorized.WithDetails("User ID not found in token.")
	}
	id, ok := val.(string)
	if !ok || id == "" {
		return "", ErrUnauthorized.WithDetails("User ID not found in token.")
	}
	return id, nil
}

// GetUserRoleFromContext retrieves the user role from the Gin context.
func GetUserRoleFromContext(c *gin.Context) string {
	val, exists := c.Get(UserRoleKey)
	if !exists {
		return ""
	}
	role, ok := val.(string)
	if !ok {
		return ""
	}
	return role
}
