package user

import (
	"context"
	"io"
	"testing"
	"time"

	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/stretchr/testify/suite"

	"github.com/your-org/apparel-storefront/internal/config"
)

type memoryRepo struct {
	users map[string]*User
}

func (m *memoryRepo) FindByEmail(_ context.Context, email string) (*User, error) {
	for _, u := range m.users {
		if u.Email == NormalizeEmail(email) {
			copied := *u
			return &copied, nil
		}
	}
	return nil, ErrUserNotFound
}

func (m *memoryRepo) FindByID(_ context.Context, id string) (*User, error) {
	u, ok := m.users[id]
	if !ok {
		return nil, ErrUserNotFound
	}
	copied := *u
	return &copied, nil
}

func (m *memoryRepo) Create(_ context.Context, u *User) error {
	if u.ID == "" {
		u.ID = "generated"
	}
	m.users[u.ID] = u
	return nil
}

func (m *memoryRepo) UpdatePassword(_ context.Context, id, hash string) error {
	m.users[id].PasswordHash = hash
	return nil
}

func (m *memoryRepo) TouchLastLogin(_ context.Context, id string, at time.Time) error {
	m.users[id].LastLoginAt = &at
	return nil
}

type ServiceTestSuite struct {
	suite.Suite
	repo    *memoryRepo
	service *Service
}

func (s *ServiceTestSuite) SetupTest() {
	cfg := &config.Config{
		App:      config.AppConfig{Name: "Apparel Storefront"},
		JWT:      config.JWTConfig{Secret: "a-very-long-test-secret-of-32-chars!", AccessTokenExpiry: time.Hour},
		Security: config.SecurityConfig{BcryptCost: 4},
	}
	logger := logrus.New()
	logger.SetOutput(io.Discard)

	s.repo = &memoryRepo{users: map[string]*User{}}
	s.service = NewService(s.repo, cfg, logger)

	_, created, err := s.service.EnsureAdmin(context.Background(), "Store Admin", "Admin@Example.com", "Adm1n!Storefront")
	s.Require().NoError(err)
	s.Require().True(created)
}

func (s *ServiceTestSuite) TestLogin() {
	resp, err := s.service.Login(context.Background(), &LoginRequest{Email: "admin@example.com", Password: "Adm1n!Storefront"})
	s.Require().NoError(err)

	s.NotEmpty(resp.Token)
	s.Equal(int64(3600), resp.ExpiresIn)
	s.Equal(RoleAdmin, resp.User.Role)
	s.NotNil(s.repo.users["generated"].LastLoginAt)

	claims, err := s.service.ValidateToken(resp.Token)
	s.Require().NoError(err)
	s.Equal("generated", claims.UserID)
}

func (s *ServiceTestSuite) TestLoginRejectsBadCredentials() {
	_, err := s.service.Login(context.Background(), &LoginRequest{Email: "admin@example.com", Password: "wrong"})
	s.ErrorIs(err, ErrInvalidCredentials)

	_, err = s.service.Login(context.Background(), &LoginRequest{Email: "nobody@example.com", Password: "Adm1n!Storefront"})
	s.ErrorIs(err, ErrInvalidCredentials)
}

func (s *ServiceTestSuite) TestInactiveUserCannotLogin() {
	s.repo.users["generated"].IsActive = false

	_, err := s.service.Login(context.Background(), &LoginRequest{Email: "admin@example.com", Password: "Adm1n!Storefront"})
	s.ErrorIs(err, ErrAccountDisabled)

	_, err = s.service.Me(context.Background(), "generated")
	s.ErrorIs(err, ErrAccountDisabled)
}

func (s *ServiceTestSuite) TestEnsureAdminIsIdempotent() {
	u, created, err := s.service.EnsureAdmin(context.Background(), "Other", "admin@example.com", "Adm1n!Storefront")
	s.Require().NoError(err)
	s.False(created)
	s.Equal("Store Admin", u.Name)
	s.Len(s.repo.users, 1)
}

func (s *ServiceTestSuite) TestChangePassword() {
	ctx := context.Background()

	err := s.service.ChangePassword(ctx, "generated", &ChangePasswordRequest{CurrentPassword: "nope", NewPassword: "N3w!Passphrase"})
	s.ErrorIs(err, ErrInvalidCredentials)

	err = s.service.ChangePassword(ctx, "generated", &ChangePasswordRequest{CurrentPassword: "Adm1n!Storefront", NewPassword: "N3w!Passphrase"})
	s.Require().NoError(err)

	_, err = s.service.Login(ctx, &LoginRequest{Email: "admin@example.com", Password: "N3w!Passphrase"})
	s.NoError(err)
}

func TestServiceTestSuite(t *testing.T) {
	suite.Run(t, new(ServiceTestSuite))
}

func TestDisplayName(t *testing.T) {
	assert.Equal(t, "Asha", (&User{Name: " Asha ", Email: "a@example.com"}).GetDisplayName())
	assert.Equal(t, "a@example.com", (&User{Email: "a@example.com"}).GetDisplayName())
	require.True(t, (&User{Role: RoleAdmin}).IsAdmin())
}
