package odin

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"pet-rescue/internal/ports/auth"
)

// Verifier implementa auth.AuthVerifier contra Odin.
type Verifier struct {
	client *Client
}

func NewVerifier(client *Client) *Verifier {
	return &Verifier{client: client}
}

// Verify: un rechazo de Odin se reporta como auth.ErrInvalidToken; errores de red
// o de upstream quedan como ErrOdinUpstream.
func (v *Verifier) Verify(ctx context.Context, token string) (auth.Claims, error) {
	if v == nil || v.client == nil {
		return auth.Claims{}, ErrOdinNotConfigured
	}
	token = strings.TrimSpace(token)
	if token == "" {
		return auth.Claims{}, auth.ErrInvalidToken
	}

	claims, err := v.client.VerifyToken(ctx, token)
	if errors.Is(err, ErrOdinUnauthorized) {
		return auth.Claims{}, fmt.Errorf("%w: %v", auth.ErrInvalidToken, err)
	}
	if err != nil {
		return auth.Claims{}, fmt.Errorf("odin verify failed: %w", err)
	}
	return claims, nil
}
