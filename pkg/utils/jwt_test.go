package utils

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestAccessTokenRoundTrip(t *testing.T) {
	InitJWT("test-access-secret", "test-refresh-secret", time.Hour, 24*time.Hour)

	token, err := GenerateAccessToken(42, "lecturer", "jdoe")
	require.NoError(t, err)

	claims, err := ValidateAccessToken(token)
	require.NoError(t, err)

	assert.Equal(t, uint(42), claims.UserID)
	assert.Equal(t, "lecturer", claims.Role)
	assert.Equal(t, "jdoe", claims.Username)
}

func TestExpiredAccessTokenRejected(t *testing.T) {
	InitJWT("test-access-secret", "test-refresh-secret", -time.Minute, 24*time.Hour)

	token, err := GenerateAccessToken(42, "student", "jdoe")
	require.NoError(t, err)

	_, err = ValidateAccessToken(token)
	assert.Error(t, err)
}

func TestTamperedTokenRejected(t *testing.T) {
	InitJWT("test-access-secret", "test-refresh-secret", time.Hour, 24*time.Hour)

	token, err := GenerateAccessToken(42, "student", "jdoe")
	require.NoError(t, err)

	_, err = ValidateAccessToken(token + "x")
	assert.Error(t, err)
}

func TestRefreshTokenHashing(t *testing.T) {
	token, err := GenerateRefreshToken()
	require.NoError(t, err)
	assert.NotEmpty(t, token)

	hash := HashRefreshToken(token)
	assert.Len(t, hash, 64)
	assert.NotEqual(t, token, hash)
	assert.Equal(t, hash, HashRefreshToken(token))
}
