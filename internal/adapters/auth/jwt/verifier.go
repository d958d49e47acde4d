// Package jwt verifica tokens HS256 firmados con un secreto compartido
// (AUTH_MODE=jwt). Es la alternativa local a Odin.
package jwt

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	gojwt "github.com/golang-jwt/jwt/v5"

	"pet-rescue/internal/ports/auth"
)

var ErrNoSecret = errors.New("jwt secret is required")

// Claims que esperamos en el token. sub es el user id.
type Claims struct {
	Email string `json:"email,omitempty"`
	Name  string `json:"name,omitempty"`
	gojwt.RegisteredClaims
}

type Verifier struct {
	secret []byte
	issuer string
	leeway time.Duration
}

type Option func(*Verifier)

// WithIssuer exige que el claim iss coincida.
func WithIssuer(iss string) Option { return func(v *Verifier) { v.issuer = strings.TrimSpace(iss) } }

func WithLeeway(d time.Duration) Option { return func(v *Verifier) { v.leeway = d } }

func NewVerifier(secret string, opts ...Option) (*Verifier, error) {
	if strings.TrimSpace(secret) == "" {
		return nil, ErrNoSecret
	}
	v := &Verifier{secret: []byte(secret), leeway: 30 * time.Second}
	for _, o := range opts {
		o(v)
	}
	return v, nil
}

func (v *Verifier) Verify(_ context.Context, token string) (auth.Claims, error) {
	token = strings.TrimSpace(token)
	if token == "" {
		return auth.Claims{}, auth.ErrInvalidToken
	}

	popts := []gojwt.ParserOption{
		gojwt.WithValidMethods([]string{gojwt.SigningMethodHS256.Alg()}),
		gojwt.WithLeeway(v.leeway),
		gojwt.WithExpirationRequired(),
	}
	if v.issuer != "" {
		popts = append(popts, gojwt.WithIssuer(v.issuer))
	}

	var c Claims
	_, err := gojwt.ParseWithClaims(token, &c, func(*gojwt.Token) (any, error) {
		return v.secret, nil
	}, popts...)
	if err != nil {
		return auth.Claims{}, fmt.Errorf("%w: %v", auth.ErrInvalidToken, err)
	}

	sub := strings.TrimSpace(c.Subject)
	if sub == "" {
		return auth.Claims{}, fmt.Errorf("%w: missing sub", auth.ErrInvalidToken)
	}
	return auth.Claims{
		UserID: sub,
		Email:  strings.ToLower(strings.TrimSpace(c.Email)),
		Name:   strings.TrimSpace(c.Name),
	}, nil
}

// Sign emite un token HS256. Lo usan los tests y el comando de dev para armar tokens.
func Sign(secret string, c Claims) (string, error) {
	if strings.TrimSpace(secret) == "" {
		return "", ErrNoSecret
	}
	return gojwt.NewWithClaims(gojwt.SigningMethodHS256, c).SignedString([]byte(secret))
}
