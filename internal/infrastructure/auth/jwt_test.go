package auth

import (
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/lodge/backend/internal/infrastructure/config"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestJWTService(expiration time.Duration) *JWTService {
	return NewJWTService(config.JWTConfig{
		Secret:                "test-secret-key-for-jwt-signing-32b",
		AccessTokenExpiration: expiration,
		Issuer:                "lodge-test",
	})
}

func TestJWTService_GenerateAndValidate(t *testing.T) {
	svc := newTestJWTService(time.Hour)
	userID := uuid.New()

	token, err := svc.GenerateToken(GenerateTokenInput{
		UserID:   userID,
		Username: "admin",
		Role:     "admin",
	})
	require.NoError(t, err)
	assert.NotEmpty(t, token.AccessToken)
	assert.Equal(t, "Bearer", token.TokenType)
	assert.WithinDuration(t, time.Now().Add(time.Hour), token.ExpiresAt, 5*time.Second)

	claims, err := svc.ValidateToken(token.AccessToken)
	require.NoError(t, err)
	assert.Equal(t, userID.String(), claims.UserID)
	assert.Equal(t, "admin", claims.Username)
	assert.Equal(t, "admin", claims.Role)

	parsed, err := claims.GetUserUUID()
	require.NoError(t, err)
	assert.Equal(t, userID, parsed)
}

func TestJWTService_ValidateExpiredToken(t *testing.T) {
	svc := newTestJWTService(-time.Minute)

	token, err := svc.GenerateToken(GenerateTokenInput{
		UserID:   uuid.New(),
		Username: "staff",
		Role:     "staff",
	})
	require.NoError(t, err)

	_, err = svc.ValidateToken(token.AccessToken)
	assert.ErrorIs(t, err, ErrExpiredToken)
}

func TestJWTService_ValidateTamperedToken(t *testing.T) {
	svc := newTestJWTService(time.Hour)

	token, err := svc.GenerateToken(GenerateTokenInput{
		UserID:   uuid.New(),
		Username: "admin",
		Role:     "admin",
	})
	require.NoError(t, err)

	_, err = svc.ValidateToken(token.AccessToken + "x")
	assert.ErrorIs(t, err, ErrInvalidToken)
}

func TestJWTService_ValidateWrongSecret(t *testing.T) {
	svc := newTestJWTService(time.Hour)
	other := NewJWTService(config.JWTConfig{
		Secret:                "a-completely-different-signing-key!!",
		AccessTokenExpiration: time.Hour,
		Issuer:                "lodge-test",
	})

	token, err := svc.GenerateToken(GenerateTokenInput{
		UserID:   uuid.New(),
		Username: "admin",
		Role:     "admin",
	})
	require.NoError(t, err)

	_, err = other.ValidateToken(token.AccessToken)
	assert.ErrorIs(t, err, ErrInvalidToken)
}
