package jwt

import (
	"context"
	"testing"
	"time"

	gojwt "github.com/golang-jwt/jwt/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"pet-rescue/internal/ports/auth"
)

const secret = "test-secret"

func token(t *testing.T, key string, c Claims) string {
	t.Helper()
	s, err := Sign(key, c)
	require.NoError(t, err)
	return s
}

func valid(sub string) Claims {
	return Claims{
		Email: "Staff@Example.com",
		Name:  "Staff",
		RegisteredClaims: gojwt.RegisteredClaims{
			Subject:   sub,
			Issuer:    "pet-rescue",
			ExpiresAt: gojwt.NewNumericDate(time.Now().Add(time.Hour)),
		},
	}
}

func TestVerify_ValidToken(t *testing.T) {
	v, err := NewVerifier(secret, WithIssuer("pet-rescue"))
	require.NoError(t, err)

	got, err := v.Verify(context.Background(), token(t, secret, valid("u-1")))
	require.NoError(t, err)
	assert.Equal(t, auth.Claims{UserID: "u-1", Email: "staff@example.com", Name: "Staff"}, got)
}

func TestVerify_Rejects(t *testing.T) {
	v, err := NewVerifier(secret, WithIssuer("pet-rescue"))
	require.NoError(t, err)

	expired := valid("u-1")
	expired.ExpiresAt = gojwt.NewNumericDate(time.Now().Add(-time.Hour))

	noExp := valid("u-1")
	noExp.ExpiresAt = nil

	otherIssuer := valid("u-1")
	otherIssuer.Issuer = "someone-else"

	cases := map[string]string{
		"empty":        "",
		"garbage":      "not-a-jwt",
		"wrong secret": token(t, "other-secret", valid("u-1")),
		"expired":      token(t, secret, expired),
		"no exp":       token(t, secret, noExp),
		"issuer":       token(t, secret, otherIssuer),
		"no subject":   token(t, secret, valid("")),
	}
	for name, tok := range cases {
		_, err := v.Verify(context.Background(), tok)
		assert.ErrorIs(t, err, auth.ErrInvalidToken, name)
	}
}

func TestVerify_RejectsOtherAlgorithms(t *testing.T) {
	v, err := NewVerifier(secret)
	require.NoError(t, err)

	tok, err := gojwt.NewWithClaims(gojwt.SigningMethodHS512, valid("u-1")).SignedString([]byte(secret))
	require.NoError(t, err)

	_, err = v.Verify(context.Background(), tok)
	assert.ErrorIs(t, err, auth.ErrInvalidToken)
}

func TestNewVerifier_RequiresSecret(t *testing.T) {
	_, err := NewVerifier("  ")
	assert.ErrorIs(t, err, ErrNoSecret)
}
