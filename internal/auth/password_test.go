package auth

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"
)

func TestHashPassword(t *testing.T) {
	hash, err := HashPassword("correct horse battery", bcrypt.MinCost)
	require.NoError(t, err)
	assert.NotEqual(t, "correct horse battery", hash)

	require.NoError(t, CheckPassword("correct horse battery", hash))
	assert.ErrorIs(t, CheckPassword("wrong password!", hash), ErrInvalidPassword)
}

func TestHashPasswordTooShort(t *testing.T) {
	_, err := HashPassword("short", bcrypt.MinCost)
	assert.ErrorIs(t, err, ErrPasswordTooShort)
}

func TestHashPasswordTooLong(t *testing.T) {
	_, err := HashPassword(strings.Repeat("a", 73), bcrypt.MinCost)
	assert.ErrorIs(t, err, ErrPasswordTooLong)
}

func TestHashToken(t *testing.T) {
	first := HashToken("some-refresh-token")
	assert.Len(t, first, 64)
	assert.Equal(t, first, HashToken("some-refresh-token"))
	assert.NotEqual(t, first, HashToken("other-refresh-token"))
}

func TestGenerateJWTSecret(t *testing.T) {
	first, err := GenerateJWTSecret()
	require.NoError(t, err)
	assert.Len(t, first, 64)

	second, err := GenerateJWTSecret()
	require.NoError(t, err)
	assert.NotEqual(t, first, second)
}
