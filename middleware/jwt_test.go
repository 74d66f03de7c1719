package middleware

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const testSecret = "test-jwt-secret-32bytes-padded!!"

func TestParseToken_RoundTripClaims(t *testing.T) {
	tok, err := GenerateToken(99, "admin", testSecret, time.Hour)
	require.NoError(t, err)

	claims, err := ParseToken(tok, testSecret)
	require.NoError(t, err)
	assert.Equal(t, int64(99), claims.AccountID)
	assert.Equal(t, "admin", claims.Role)
	assert.NotEmpty(t, claims.ID)
}

func TestParseToken_Rejects(t *testing.T) {
	good, err := GenerateToken(1, "user", testSecret, time.Hour)
	require.NoError(t, err)
	expired, err := GenerateToken(1, "user", testSecret, -time.Second)
	require.NoError(t, err)

	_, err = ParseToken(good, "wrong-secret")
	assert.Error(t, err, "wrong secret")
	_, err = ParseToken(expired, testSecret)
	assert.Error(t, err, "expired")
	_, err = ParseToken("not.a.jwt", testSecret)
	assert.Error(t, err, "malformed")
	_, err = ParseToken("", testSecret)
	assert.Error(t, err, "empty")
}

func TestGenerateToken_UniquePerLogin(t *testing.T) {
	t1, err := GenerateToken(1, "user", testSecret, time.Hour)
	require.NoError(t, err)
	t2, err := GenerateToken(1, "user", testSecret, time.Hour)
	require.NoError(t, err)
	assert.NotEqual(t, t1, t2, "same account, same second")
}

func TestGenerateToken_EmptySecret(t *testing.T) {
	_, err := GenerateToken(1, "user", "", time.Hour)
	assert.Error(t, err)
}
