// File: internal/middleware/auth.go
package middleware

import (
	"context"
	"strings"

	"parking_share_backend/internal/common"
	"parking_share_backend/internal/firebase"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"go.uber.org/zap"
)

// UserResolver maps a verified Firebase identity to an application user.
// Implemented by the user service; kept as a function type so this package
// does not depend on it.
type UserResolver func(ctx context.Context, firebaseUID, email, displayName string) (userID uuid.UUID, role string, err error)

// AuthMiddleware verifies the Bearer ID token, resolves (or provisions)
// the application user, and stores identity in the request context.
func AuthMiddleware(verifier firebase.TokenVerifier, resolve UserResolver, logger *zap.Logger) gin.HandlerFunc {
	authLogger := logger.Named("AuthMiddleware")
	return func(c *gin.Context) {
		header := c.GetHeader("Authorization")
		if header == "" {
			common.RespondWithError(c, common.ErrUnauthorized.WithDetails("Authorization header is missing."))
			return
		}

		parts := strings.SplitN(header, " ", 2)
		if len(parts) != 2 || !strings.EqualFold(parts[0], "Bearer") || parts[1] == "" {
			common.RespondWithError(c, common.ErrUnauthorized.WithDetails("Authorization header must be of the form 'Bearer <token>'."))
			return
		}

		token, err := verifier.VerifyIDToken(c.Request.Context(), parts[1])
		if err != nil {
			common.RespondWithError(c, common.ErrUnauthorized.WithDetails("Invalid or expired ID token."))
			return
		}

		email, _ := token.Claims["email"].(string)
		name, _ := token.Claims["name"].(string)

		userID, role, err := resolve(c.Request.Context(), token.UID, email, name)
		if err != nil {
			authLogger.Error("Failed to resolve authenticated user",
				zap.String("firebaseUID", token.UID), zap.Error(err))
			common.RespondWithError(c, err)
			return
		}

		c.Set(ContextUserIDKey, userID)
		c.Set(ContextUserRoleKey, role)
		c.Set(ContextFirebaseUIDKey, token.UID)
		c.Next()
	}
}

// RoleAuthMiddleware allows only users holding one of the given roles.
// It must run after AuthMiddleware.
func RoleAuthMiddleware(allowedRoles ...string) gin.HandlerFunc {
	return func(c *gin.Context) {
		role, err := GetUserRoleFromContext(c)
		if err != nil {
			common.RespondWithError(c, err)
			return
		}
		for _, allowed := range allowedRoles {
			if role == allowed {
				c.Next()
				return
			}
		}
		common.RespondWithError(c, common.ErrForbidden.WithDetails("This action requires elevated privileges."))
	}
}
