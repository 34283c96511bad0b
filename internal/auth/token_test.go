package auth

import (
	"testing"
	"time"

	"github.com/stretchr/testify/require"
)

func TestGenerateAndParseToken(t *testing.T) {
	tm := NewTokenManager("test-secret", 60)

	token, expiresAt, err := tm.GenerateToken(42, "a@b.c")
	require.NoError(t, err)
	require.NotEmpty(t, token)
	require.WithinDuration(t, time.Now().Add(time.Hour), expiresAt, 5*time.Second)

	claims, err := tm.ParseToken(token)
	require.NoError(t, err)
	require.Equal(t, "a@b.c", claims.Email)

	id, err := claims.UserID()
	require.NoError(t, err)
	require.Equal(t, int64(42), id)
}

func TestParseToken_WrongSecretRejected(t *testing.T) {
	token, _, err := NewTokenManager("secret-one", 60).GenerateToken(1, "a@b.c")
	require.NoError(t, err)

	_, err = NewTokenManager("secret-two", 60).ParseToken(token)
	require.Error(t, err)
}

func TestParseToken_ExpiredRejected(t *testing.T) {
	tm := &TokenManager{secret: []byte("s"), ttl: -time.Minute}
	token, _, err := tm.GenerateToken(1, "a@b.c")
	require.NoError(t, err)

	_, err = tm.ParseToken(token)
	require.Error(t, err)
}

func TestParseToken_GarbageRejected(t *testing.T) {
	tm := NewTokenManager("s", 60)
	_, err := tm.ParseToken("not-a-token")
	require.Error(t, err)
}

func TestNewTokenManager_DefaultTTL(t *testing.T) {
	tm := NewTokenManager("s", 0)
	_, expiresAt, err := tm.GenerateToken(1, "a@b.c")
	require.NoError(t, err)
	require.WithinDuration(t, time.Now().Add(time.Hour), expiresAt, 5*time.Second)
}

func TestHashAndComparePassword(t *testing.T) {
	hashed, err := HashPassword("hunter2", 4)
	require.NoError(t, err)
	require.NotEqual(t, "hunter2", hashed)

	require.NoError(t, ComparePassword(hashed, "hunter2"))
	require.Error(t, ComparePassword(hashed, "hunter3"))
}
