package middleware

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/lodge/backend/internal/infrastructure/auth"
	"github.com/lodge/backend/internal/infrastructure/config"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestJWTService(expiration time.Duration) *auth.JWTService {
	return auth.NewJWTService(config.JWTConfig{
		Secret:                "integration-test-secret-0123456789abcdef",
		AccessTokenExpiration: expiration,
		Issuer:                "lodge-test",
	})
}

func newJWTRouter(svc *auth.JWTService) *gin.Engine {
	router := gin.New()
	router.Use(JWTAuthMiddlewareWithConfig(JWTMiddlewareConfig{
		JWTService: svc,
		SkipPaths:  []string{"/public"},
	}))
	router.GET("/public", func(c *gin.Context) { c.Status(http.StatusOK) })
	router.GET("/private", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{
			"user_id":  GetJWTUserID(c),
			"username": GetJWTUsername(c),
			"role":     GetJWTRole(c),
		})
	})
	return router
}

func TestJWTMiddleware_SkipPathBypassesAuth(t *testing.T) {
	router := newJWTRouter(newTestJWTService(time.Hour))

	w := httptest.NewRecorder()
	router.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/public", nil))

	assert.Equal(t, http.StatusOK, w.Code)
}

func TestJWTMiddleware_MissingHeaderRejected(t *testing.T) {
	router := newJWTRouter(newTestJWTService(time.Hour))

	w := httptest.NewRecorder()
	router.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/private", nil))

	assert.Equal(t, http.StatusUnauthorized, w.Code)
	assert.Contains(t, w.Body.String(), "ERR_TOKEN_INVALID")
}

func TestJWTMiddleware_ValidTokenSetsClaims(t *testing.T) {
	svc := newTestJWTService(time.Hour)
	router := newJWTRouter(svc)

	userID := uuid.New()
	token, err := svc.GenerateToken(auth.GenerateTokenInput{
		UserID:   userID,
		Username: "casey",
		Role:     "staff",
	})
	require.NoError(t, err)

	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, "/private", nil)
	req.Header.Set("Authorization", "Bearer "+token.AccessToken)
	router.ServeHTTP(w, req)

	assert.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), userID.String())
	assert.Contains(t, w.Body.String(), "casey")
	assert.Contains(t, w.Body.String(), "staff")
}

func TestJWTMiddleware_ExpiredTokenRejected(t *testing.T) {
	expiredSvc := newTestJWTService(-time.Minute)
	token, err := expiredSvc.GenerateToken(auth.GenerateTokenInput{
		UserID:   uuid.New(),
		Username: "casey",
		Role:     "staff",
	})
	require.NoError(t, err)

	router := newJWTRouter(newTestJWTService(time.Hour))

	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, "/private", nil)
	req.Header.Set("Authorization", "Bearer "+token.AccessToken)
	router.ServeHTTP(w, req)

	assert.Equal(t, http.StatusUnauthorized, w.Code)
	assert.Contains(t, w.Body.String(), "ERR_TOKEN_EXPIRED")
}

func TestRequireRole_AllowsMatchingRole(t *testing.T) {
	router := gin.New()
	router.Use(func(c *gin.Context) {
		c.Set(JWTRoleKey, "admin")
		c.Next()
	})
	router.Use(RequireRole("admin"))
	router.GET("/admin", func(c *gin.Context) { c.Status(http.StatusOK) })

	w := httptest.NewRecorder()
	router.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/admin", nil))

	assert.Equal(t, http.StatusOK, w.Code)
}

func TestRequireRole_RejectsOtherRoles(t *testing.T) {
	router := gin.New()
	router.Use(func(c *gin.Context) {
		c.Set(JWTRoleKey, "staff")
		c.Next()
	})
	router.Use(RequireRole("admin"))
	router.GET("/admin", func(c *gin.Context) { c.Status(http.StatusOK) })

	w := httptest.NewRecorder()
	router.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/admin", nil))

	assert.Equal(t, http.StatusForbidden, w.Code)
	assert.Contains(t, w.Body.String(), "ERR_FORBIDDEN")
}
