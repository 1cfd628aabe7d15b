// File: internal/middleware/context.go
package middleware

import (
	"parking_share_backend/internal/common"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

// Keys under which request-scoped identity is stored in the Gin context.
const (
	ContextUserIDKey      = "userID"
	ContextUserRoleKey    = "userRole"
	ContextFirebaseUIDKey = "firebaseUID"
	ContextLoggerKey      = "logger"
	ContextRequestIDKey   = "requestID"
)

// GetUserIDFromContext returns the authenticated user's application ID.
func GetUserIDFromContext(c *gin.Context) (uuid.UUID, error) {
	v, exists := c.Get(ContextUserIDKey)
	if !exists {
		return uuid.Nil, common.ErrUnauthorized.WithDetails("User identity missing from request context.")
	}
	id, ok := v.(uuid.UUID)
	if !ok || id == uuid.Nil {
		return uuid.Nil, common.ErrUnauthorized.WithDetails("User identity missing from request context.")
	}
	return id, nil
}

// GetUserRoleFromContext returns the authenticated user's role.
func GetUserRoleFromContext(c *gin.Context) (string, error) {
	v, exists := c.Get(ContextUserRoleKey)
	if !exists {
		return "", common.ErrUnauthorized.WithDetails("User role missing from request context.")
	}
	role, ok := v.(string)
	if !ok || role == "" {
		return "", common.ErrUnauthorized.WithDetails("User role missing from request context.")
	}
	return role, nil
}

// IsAdminRequest reports whether the authenticated user is an admin.
func IsAdminRequest(c *gin.Context) bool {
	role, err := GetUserRoleFromContext(c)
	return err == nil && role == common.RoleAdmin
}
