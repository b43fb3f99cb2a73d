package handler

import (
	"github.com/gin-gonic/gin"
	identityapp "github.com/lodge/backend/internal/application/identity"
)

// AuthHandler handles authentication API endpoints
type AuthHandler struct {
	BaseHandler
	service *identityapp.AuthService

	// loginGuards run before Login, e.g. a rate limiter to slow down
	// credential guessing.
	loginGuards []gin.HandlerFunc
}

// NewAuthHandler creates a new AuthHandler
func NewAuthHandler(service *identityapp.AuthService, loginGuards ...gin.HandlerFunc) *AuthHandler {
	return &AuthHandler{service: service, loginGuards: loginGuards}
}

// RegisterRoutes registers auth routes
func (h *AuthHandler) RegisterRoutes(rg *gin.RouterGroup) {
	auth := rg.Group("/auth")
	{
		auth.POST("/login", append(append([]gin.HandlerFunc{}, h.loginGuards...), h.Login)...)
		auth.GET("/me", h.Me)
	}
}

// Login authenticates a user and returns an access token
func (h *AuthHandler) Login(c *gin.Context) {
	var req identityapp.LoginRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.HandleBindingError(c, err)
		return
	}

	result, err := h.service.Login(c.Request.Context(), req)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, result)
}

// Me returns the authenticated user's profile
func (h *AuthHandler) Me(c *gin.Context) {
	userID, err := getUserID(c)
	if err != nil {
		h.Unauthorized(c, "Authentication required")
		return
	}

	info, err := h.service.GetUser(c.Request.Context(), userID)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, info)
}
