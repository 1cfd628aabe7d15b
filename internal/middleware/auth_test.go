// File: internal/middleware/auth_test.go
package middleware

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"parking_share_backend/internal/common"

	"firebase.google.com/go/v4/auth"
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

type fakeVerifier struct {
	token *auth.Token
	err   error
}

func (f *fakeVerifier) VerifyIDToken(ctx context.Context, idToken string) (*auth.Token, error) {
	return f.token, f.err
}

func setupAuthRouter(verifier *fakeVerifier, resolve UserResolver) *gin.Engine {
	gin.SetMode(gin.TestMode)
	r := gin.New()
	r.GET("/protected", AuthMiddleware(verifier, resolve, zap.NewNop()), func(c *gin.Context) {
		userID, _ := GetUserIDFromContext(c)
		role, _ := GetUserRoleFromContext(c)
		c.JSON(http.StatusOK, gin.H{"user_id": userID, "role": role})
	})
	return r
}

func staticResolver(userID uuid.UUID, role string) UserResolver {
	return func(ctx context.Context, firebaseUID, email, displayName string) (uuid.UUID, string, error) {
		return userID, role, nil
	}
}

func TestAuthMiddleware_MissingHeader(t *testing.T) {
	r := setupAuthRouter(&fakeVerifier{}, staticResolver(uuid.New(), common.RoleUser))

	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, "/protected", nil)
	r.ServeHTTP(w, req)

	assert.Equal(t, http.StatusUnauthorized, w.Code)
}

func TestAuthMiddleware_MalformedHeader(t *testing.T) {
	r := setupAuthRouter(&fakeVerifier{}, staticResolver(uuid.New(), common.RoleUser))

	for _, header := range []string{"Basic abc", "Bearer", "Bearer "} {
		w := httptest.NewRecorder()
		req := httptest.NewRequest(http.MethodGet, "/protected", nil)
		req.Header.Set("Authorization", header)
		r.ServeHTTP(w, req)
		assert.Equal(t, http.StatusUnauthorized, w.Code, "header %q", header)
	}
}

func TestAuthMiddleware_InvalidToken(t *testing.T) {
	verifier := &fakeVerifier{err: errors.New("token expired")}
	r := setupAuthRouter(verifier, staticResolver(uuid.New(), common.RoleUser))

	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, "/protected", nil)
	req.Header.Set("Authorization", "Bearer bad-token")
	r.ServeHTTP(w, req)

	assert.Equal(t, http.StatusUnauthorized, w.Code)
}

func TestAuthMiddleware_ValidTokenSetsIdentity(t *testing.T) {
	userID := uuid.New()
	verifier := &fakeVerifier{token: &auth.Token{
		UID:    "firebase-uid-1",
		Claims: map[string]interface{}{"email": "kim@example.com", "name": "Kim"},
	}}

	var resolvedUID, resolvedEmail string
	resolve := func(ctx context.Context, firebaseUID, email, displayName string) (uuid.UUID, string, error) {
		resolvedUID = firebaseUID
		resolvedEmail = email
		return userID, common.RoleUser, nil
	}

	r := setupAuthRouter(verifier, resolve)
	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, "/protected", nil)
	req.Header.Set("Authorization", "Bearer good-token")
	r.ServeHTTP(w, req)

	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "firebase-uid-1", resolvedUID)
	assert.Equal(t, "kim@example.com", resolvedEmail)
	assert.Contains(t, w.Body.String(), userID.String())
}

func TestRoleAuthMiddleware(t *testing.T) {
	gin.SetMode(gin.TestMode)

	newRouter := func(role string) *gin.Engine {
		r := gin.New()
		r.GET("/admin",
			func(c *gin.Context) { c.Set(ContextUserIDKey, uuid.New()); c.Set(ContextUserRoleKey, role) },
			RoleAuthMiddleware(common.RoleAdmin),
			func(c *gin.Context) { c.Status(http.StatusOK) })
		return r
	}

	w := httptest.NewRecorder()
	newRouter(common.RoleAdmin).ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/admin", nil))
	assert.Equal(t, http.StatusOK, w.Code)

	w = httptest.NewRecorder()
	newRouter(common.RoleUser).ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/admin", nil))
	assert.Equal(t, http.StatusForbidden, w.Code)
}
