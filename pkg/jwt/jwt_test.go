package jwt

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestManager_AccessTokenRoundTrip(t *testing.T) {
	m := NewManager("test-secret", time.Hour, 0)

	token, err := m.GenerateAccessToken("u-1", "donor@example.com", "DONOR")
	require.NoError(t, err)

	claims, err := m.ValidateAccessToken(token)
	require.NoError(t, err)
	assert.Equal(t, "u-1", claims.UserID)
	assert.Equal(t, "DONOR", claims.Role)
	assert.Equal(t, TokenTypeAccess, claims.Type)
}

func TestManager_RejectsWrongTokenType(t *testing.T) {
	m := NewManager("test-secret", time.Hour, time.Hour)

	refresh, err := m.GenerateRefreshToken("u-1")
	require.NoError(t, err)

	_, err = m.ValidateAccessToken(refresh)
	assert.Error(t, err)

	claims, err := m.ValidateRefreshToken(refresh)
	require.NoError(t, err)
	assert.Equal(t, "u-1", claims.UserID)
}

func TestManager_RejectsForeignSecret(t *testing.T) {
	token, err := NewManager("secret-a", time.Hour, 0).GenerateAccessToken("u-1", "a@b.c", "ADMIN")
	require.NoError(t, err)

	_, err = NewManager("secret-b", time.Hour, 0).ValidateToken(token)
	assert.Error(t, err)
}

func TestManager_RejectsExpiredToken(t *testing.T) {
	m := NewManager("test-secret", time.Minute, 0)
	m.now = func() time.Time { return time.Now().Add(-2 * time.Hour) }

	token, err := m.GenerateAccessToken("u-1", "a@b.c", "DONOR")
	require.NoError(t, err)

	_, err = m.ValidateToken(token)
	assert.Error(t, err)
}
