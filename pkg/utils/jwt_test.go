package utils

import (
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const testSecret = "test-secret"

func TestGenerateAndValidateToken(t *testing.T) {
	userID := uuid.New()

	token, err := GenerateToken(userID, testSecret, time.Hour)
	require.NoError(t, err)

	userCtx, err := ValidateToken(token, testSecret)
	require.NoError(t, err)
	assert.Equal(t, userID, userCtx.ID)
	assert.Equal(t, token, userCtx.Token)
	assert.WithinDuration(t, time.Now().Add(time.Hour), userCtx.ExpiresAt, 5*time.Second)
}

func TestValidateTokenErrors(t *testing.T) {
	userID := uuid.New()

	expired, err := GenerateToken(userID, testSecret, -time.Minute)
	require.NoError(t, err)

	otherSecret, err := GenerateToken(userID, "another-secret", time.Hour)
	require.NoError(t, err)

	badSubject, err := jwt.NewWithClaims(jwt.SigningMethodHS256, JWTClaims{
		UserID: "not-a-uuid",
		RegisteredClaims: jwt.RegisteredClaims{
			ExpiresAt: jwt.NewNumericDate(time.Now().Add(time.Hour)),
		},
	}).SignedString([]byte(testSecret))
	require.NoError(t, err)

	noExpiry, err := jwt.NewWithClaims(jwt.SigningMethodHS256, JWTClaims{
		UserID: userID.String(),
	}).SignedString([]byte(testSecret))
	require.NoError(t, err)

	tests := []struct {
		name     string
		token    string
		expected error
	}{
		{"empty", "", ErrMissingToken},
		{"expired", expired, ErrExpiredToken},
		{"wrong secret", otherSecret, ErrInvalidToken},
		{"garbage", "not.a.jwt", ErrInvalidToken},
		{"bad user id", badSubject, ErrInvalidToken},
		{"no expiry", noExpiry, ErrInvalidToken},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := ValidateToken(tt.token, testSecret)
			assert.ErrorIs(t, err, tt.expected)
		})
	}
}

func TestExtractTokenFromHeader(t *testing.T) {
	tests := []struct {
		header   string
		expected string
	}{
		{"Bearer abc", "abc"},
		{"", ""},
		{"Bearer", ""},
		{"Basic abc", ""},
		{"Bearer a b", ""},
	}

	for _, tt := range tests {
		t.Run(tt.header, func(t *testing.T) {
			assert.Equal(t, tt.expected, ExtractTokenFromHeader(tt.header))
		})
	}
}
