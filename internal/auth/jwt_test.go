package auth

import (
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSignAndVerify(t *testing.T) {
	signer := NewSigner("test-secret", "eventsphere")

	token, err := signer.Sign("user-1", "u1@example.com", time.Minute)
	require.NoError(t, err)
	require.NotEmpty(t, token)

	p, err := signer.Verify(token)
	require.NoError(t, err)
	assert.Equal(t, "user-1", p.UserID)
	assert.Equal(t, "u1@example.com", p.Email)
}

func TestVerifyExpiredToken(t *testing.T) {
	signer := NewSigner("test-secret", "eventsphere")

	token, err := signer.Sign("user-1", "u1@example.com", -time.Minute)
	require.NoError(t, err)

	_, err = signer.Verify(token)
	assert.ErrorIs(t, err, ErrTokenExpired)
}

func TestVerifyWrongSecret(t *testing.T) {
	signer := NewSigner("test-secret", "eventsphere")
	other := NewSigner("another-secret", "eventsphere")

	token, err := other.Sign("user-1", "u1@example.com", time.Minute)
	require.NoError(t, err)

	_, err = signer.Verify(token)
	assert.ErrorIs(t, err, ErrTokenInvalid)
}

func TestVerifyRejectsWrongAlgorithm(t *testing.T) {
	signer := NewSigner("test-secret", "eventsphere")

	token, err := jwt.NewWithClaims(jwt.SigningMethodHS512, jwt.MapClaims{
		"sub":   "user-1",
		"email": "u1@example.com",
		"exp":   time.Now().Add(time.Minute).Unix(),
	}).SignedString([]byte("test-secret"))
	require.NoError(t, err)

	_, err = signer.Verify(token)
	assert.ErrorIs(t, err, ErrTokenInvalid)
}

func TestVerifyGarbage(t *testing.T) {
	signer := NewSigner("test-secret", "eventsphere")

	_, err := signer.Verify("not.a.token")
	assert.ErrorIs(t, err, ErrTokenInvalid)

	_, err = signer.Verify("")
	assert.ErrorIs(t, err, ErrTokenInvalid)
}
