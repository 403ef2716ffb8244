// internal/interfaces/http/handlers/auth.go
package handlers

import (
	"context"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"

	"github.com/your-org/apparel-storefront/internal/domain/user"
)

// AuthService is the admin authentication behaviour the handler needs
type AuthService interface {
	Login(ctx context.Context, req *user.LoginRequest) (*user.AuthResponse, error)
	Me(ctx context.Context, userID string) (*user.User, error)
	ChangePassword(ctx context.Context, userID string, req *user.ChangePasswordRequest) error
}

// AuthHandler handles authentication endpoints
type AuthHandler struct {
	users  AuthService
	logger *logrus.Logger
}

// NewAuthHandler creates a new auth handler
func NewAuthHandler(users AuthService, logger *logrus.Logger) *AuthHandler {
	return &AuthHandler{users: users, logger: logger}
}

// Login handles POST /auth/login
func (h *AuthHandler) Login(c *gin.Context) {
	var req user.LoginRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondBindError(c, err)
		return
	}

	resp, err := h.users.Login(c.Request.Context(), &req)
	if err != nil {
		respondDomainError(c, h.logger, err, "Login failed")
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"success":   true,
		"token":     resp.Token,
		"user":      resp.User,
		"expiresIn": resp.ExpiresIn,
	})
}

// GetCurrentUser handles GET /auth/me
func (h *AuthHandler) GetCurrentUser(c *gin.Context) {
	u, err := h.users.Me(c.Request.Context(), c.GetString("user_id"))
	if err != nil {
		respondDomainError(c, h.logger, err, "Failed to retrieve user")
		return
	}
	respond(c, http.StatusOK, u, "")
}

// ChangePassword handles PUT /auth/password
func (h *AuthHandler) ChangePassword(c *gin.Context) {
	var req user.ChangePasswordRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondBindError(c, err)
		return
	}

	if err := h.users.ChangePassword(c.Request.Context(), c.GetString("user_id"), &req); err != nil {
		respondDomainError(c, h.logger, err, "Failed to change password")
		return
	}
	respond(c, http.StatusOK, nil, "Password changed successfully")
}
