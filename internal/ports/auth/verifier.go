package auth

import (
	"context"
	"errors"
)

var ErrInvalidToken = errors.New("invalid token")

// AuthVerifier verifica un token y devuelve claims o error.
// Implementaciones: adapters/auth/odin (IAM externo) y adapters/auth/jwt (HS256 local).
type AuthVerifier interface {
	Verify(ctx context.Context, token string) (Claims, error)
}
