// internal/domain/user/service.go
package user

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/sirupsen/logrus"

	"github.com/your-org/apparel-storefront/internal/config"
	"github.com/your-org/apparel-storefront/internal/pkg/auth"
)

var (
	ErrUserNotFound       = errors.New("user not found")
	ErrInvalidCredentials = errors.New("invalid email or password")
	ErrAccountDisabled    = errors.New("account is disabled")
)

// Service handles staff authentication
type Service struct {
	repo      Repository
	passwords *auth.PasswordManager
	tokens    *auth.JWTManager
	logger    *logrus.Logger
	now       func() time.Time
}

// NewService creates a new user service
func NewService(repo Repository, cfg *config.Config, logger *logrus.Logger) *Service {
	return &Service{
		repo:      repo,
		passwords: auth.NewPasswordManager(cfg),
		tokens:    auth.NewJWTManager(cfg),
		logger:    logger,
		now:       func() time.Time { return time.Now().UTC() },
	}
}

// LoginRequest represents admin login data
type LoginRequest struct {
	Email    string `json:"email" binding:"required,email"`
	Password string `json:"password" binding:"required"`
}

// AuthResponse represents authentication response
type AuthResponse struct {
	Token     string `json:"token"`
	User      *User  `json:"user"`
	ExpiresIn int64  `json:"expiresIn"`
}

// ChangePasswordRequest represents a password change by the signed-in user
type ChangePasswordRequest struct {
	CurrentPassword string `json:"currentPassword" binding:"required"`
	NewPassword     string `json:"newPassword" binding:"required"`
}

// Login authenticates a user and issues an access token
func (s *Service) Login(ctx context.Context, req *LoginRequest) (*AuthResponse, error) {
	u, err := s.repo.FindByEmail(ctx, req.Email)
	if err != nil {
		if errors.Is(err, ErrUserNotFound) {
			return nil, ErrInvalidCredentials
		}
		return nil, fmt.Errorf("failed to load user: %w", err)
	}

	if err := s.passwords.VerifyPassword(req.Password, u.PasswordHash); err != nil {
		s.logger.WithField("email", u.Email).Warn("Failed admin login")
		return nil, ErrInvalidCredentials
	}

	if !u.IsActive {
		return nil, ErrAccountDisabled
	}

	token, err := s.tokens.GenerateAccessToken(u.ID, u.Email, string(u.Role))
	if err != nil {
		return nil, fmt.Errorf("failed to generate access token: %w", err)
	}

	now := s.now()
	if err := s.repo.TouchLastLogin(ctx, u.ID, now); err != nil {
		s.logger.WithError(err).WithField("user_id", u.ID).Warn("Failed to record last login")
	}
	u.LastLoginAt = &now

	s.logger.WithFields(logrus.Fields{"user_id": u.ID, "email": u.Email}).Info("Admin logged in")

	return &AuthResponse{
		Token:     token,
		User:      u,
		ExpiresIn: int64(s.tokens.Expiry().Seconds()),
	}, nil
}

// Me returns the active user behind a token
func (s *Service) Me(ctx context.Context, userID string) (*User, error) {
	u, err := s.repo.FindByID(ctx, userID)
	if err != nil {
		return nil, err
	}
	if !u.IsActive {
		return nil, ErrAccountDisabled
	}
	return u, nil
}

// ChangePassword changes user password after verifying current password
func (s *Service) ChangePassword(ctx context.Context, userID string, req *ChangePasswordRequest) error {
	u, err := s.Me(ctx, userID)
	if err != nil {
		return err
	}

	if err := s.passwords.VerifyPassword(req.CurrentPassword, u.PasswordHash); err != nil {
		return ErrInvalidCredentials
	}

	hash, err := s.passwords.HashPassword(req.NewPassword)
	if err != nil {
		return err
	}

	if err := s.repo.UpdatePassword(ctx, u.ID, hash); err != nil {
		return fmt.Errorf("failed to update password: %w", err)
	}
	return nil
}

// EnsureAdmin creates an administrator unless the email is already registered
func (s *Service) EnsureAdmin(ctx context.Context, name, email, password string) (*User, bool, error) {
	existing, err := s.repo.FindByEmail(ctx, email)
	if err == nil {
		return existing, false, nil
	}
	if !errors.Is(err, ErrUserNotFound) {
		return nil, false, err
	}

	hash, err := s.passwords.HashPassword(password)
	if err != nil {
		return nil, false, err
	}

	u := &User{
		Name:         name,
		Email:        NormalizeEmail(email),
		PasswordHash: hash,
		Role:         RoleAdmin,
		IsActive:     true,
	}
	if err := s.repo.Create(ctx, u); err != nil {
		return nil, false, fmt.Errorf("failed to create admin: %w", err)
	}

	s.logger.WithField("email", u.Email).Info("Seeded admin user")
	return u, true, nil
}

// ValidateToken parses a bearer token for the auth middleware
func (s *Service) ValidateToken(token string) (*auth.Claims, error) {
	return s.tokens.ValidateAccessToken(token)
}
