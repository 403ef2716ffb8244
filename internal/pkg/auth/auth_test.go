package auth

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/your-org/apparel-storefront/internal/config"
)

func testConfig() *config.Config {
	return &config.Config{
		App:      config.AppConfig{Name: "Apparel Storefront"},
		JWT:      config.JWTConfig{Secret: "a-very-long-test-secret-of-32-chars!", AccessTokenExpiry: time.Hour},
		Security: config.SecurityConfig{BcryptCost: 4},
	}
}

func TestAccessTokenRoundTrip(t *testing.T) {
	m := NewJWTManager(testConfig())

	token, err := m.GenerateAccessToken("u-1", "admin@example.com", "ADMIN")
	require.NoError(t, err)

	claims, err := m.ValidateAccessToken(token)
	require.NoError(t, err)
	assert.Equal(t, "u-1", claims.UserID)
	assert.Equal(t, "admin@example.com", claims.Email)
	assert.Equal(t, "ADMIN", claims.Role)
	assert.Equal(t, "user:u-1", claims.Subject)
}

func TestAccessTokenRejections(t *testing.T) {
	cfg := testConfig()
	m := NewJWTManager(cfg)

	t.Run("expired", func(t *testing.T) {
		issued := time.Date(2025, 1, 1, 0, 0, 0, 0, time.UTC)
		m.now = func() time.Time { return issued }
		token, err := m.GenerateAccessToken("u-1", "a@example.com", "ADMIN")
		require.NoError(t, err)

		m.now = func() time.Time { return issued.Add(2 * time.Hour) }
		_, err = m.ValidateAccessToken(token)
		assert.ErrorIs(t, err, ErrInvalidToken)
		m.now = func() time.Time { return time.Now().UTC() }
	})

	t.Run("wrong secret", func(t *testing.T) {
		other := testConfig()
		other.JWT.Secret = "another-very-long-secret-of-32-chars"
		token, err := NewJWTManager(other).GenerateAccessToken("u-1", "a@example.com", "ADMIN")
		require.NoError(t, err)

		_, err = m.ValidateAccessToken(token)
		assert.ErrorIs(t, err, ErrInvalidToken)
	})

	t.Run("garbage", func(t *testing.T) {
		_, err := m.ValidateAccessToken("not.a.token")
		assert.ErrorIs(t, err, ErrInvalidToken)
	})
}

func TestExtractTokenFromHeader(t *testing.T) {
	assert.Equal(t, "abc", ExtractTokenFromHeader("Bearer abc"))
	assert.Equal(t, "", ExtractTokenFromHeader("Basic abc"))
	assert.Equal(t, "", ExtractTokenFromHeader(""))
}

func TestPasswordManager(t *testing.T) {
	p := NewPasswordManager(testConfig())

	hash, err := p.HashPassword("Adm1n!Storefront")
	require.NoError(t, err)
	assert.NoError(t, p.VerifyPassword("Adm1n!Storefront", hash))
	assert.Error(t, p.VerifyPassword("adm1n!storefront", hash))

	for _, weak := range []string{"Sh0rt!", "alllowercase1!", "ALLUPPER1!", "NoDigits!!", "NoSpecial123", "MyPassword1!"} {
		assert.Error(t, p.ValidatePassword(weak), weak)
	}
}

func TestHashPasswordRejectsWeakPassword(t *testing.T) {
	_, err := NewPasswordManager(testConfig()).HashPassword("short")
	assert.ErrorIs(t, err, ErrWeakPassword)
}
