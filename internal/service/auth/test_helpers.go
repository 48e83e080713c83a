package auth

import (
	"context"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/XavierTanMT/IS212---Software-Project-Management-sub001/internal/config"
)

// DefaultJWTConfig returns a standard configuration for JWT authentication suitable for testing.
func DefaultJWTConfig() config.AuthConfig {
	return config.AuthConfig{
		JWTSecret:            "test-jwt-secret-that-is-32-chars-long",
		TokenLifetimeMinutes: 60,
	}
}

// RequireTestJWTService creates a JWT service with DefaultJWTConfig and fails
// the test if that is not possible.
func RequireTestJWTService(t *testing.T) JWTService {
	t.Helper()
	service, err := NewJWTService(DefaultJWTConfig())
	require.NoError(t, err, "Failed to create test JWT service")
	return service
}

// GenerateAuthHeaderForTestingT returns a Bearer Authorization header value
// for userID, signed with DefaultJWTConfig.
func GenerateAuthHeaderForTestingT(t *testing.T, userID string) string {
	t.Helper()
	token, err := RequireTestJWTService(t).GenerateToken(context.Background(), userID)
	require.NoError(t, err, "Failed to generate auth token")
	return "Bearer " + token
}
