package odin

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"strings"
	"time"

	"pet-rescue/internal/platform/httpclient"
	"pet-rescue/internal/ports/auth"
)

var (
	ErrOdinNotConfigured = errors.New("odin client not configured")
	ErrOdinUnauthorized  = errors.New("odin unauthorized")
	ErrOdinUpstream      = errors.New("odin upstream error")
)

const verifyPath = "/v1/tokens/verify"

// Config del cliente Odin (ODIN_BASE_URL / ODIN_API_KEY).
type Config struct {
	BaseURL string
	APIKey  string

	// Si está vacío se usa "X-Api-Key".
	APIKeyHeader string
	Timeout      time.Duration

	Transport http.RoundTripper // tests
}

type Client struct {
	http *httpclient.Client
}

func NewClient(cfg Config) (*Client, error) {
	base := strings.TrimSpace(cfg.BaseURL)
	key := strings.TrimSpace(cfg.APIKey)
	if base == "" || key == "" {
		return nil, ErrOdinNotConfigured
	}
	h := strings.TrimSpace(cfg.APIKeyHeader)
	if h == "" {
		h = "X-Api-Key"
	}
	timeout := cfg.Timeout
	if timeout <= 0 {
		timeout = 5 * time.Second
	}

	hc, err := httpclient.New(httpclient.Config{
		BaseURL:   base,
		Timeout:   timeout,
		Headers:   map[string]string{h: key},
		Transport: cfg.Transport,
	})
	if err != nil {
		return nil, fmt.Errorf("odin: %w", err)
	}
	return &Client{http: hc}, nil
}

type verifyResponse struct {
	UserID   string `json:"user_id"`
	Email    string `json:"email"`
	Name     string `json:"name"`
	TenantID string `json:"tenant_id"`
}

// VerifyToken manda el token en el body y también como Bearer.
func (c *Client) VerifyToken(ctx context.Context, token string) (auth.Claims, error) {
	if c == nil || c.http == nil {
		return auth.Claims{}, ErrOdinNotConfigured
	}
	token = strings.TrimSpace(token)
	if token == "" {
		return auth.Claims{}, ErrOdinUnauthorized
	}

	var out verifyResponse
	err := c.http.DoJSON(ctx, http.MethodPost, verifyPath,
		map[string]string{"Authorization": "Bearer " + token},
		map[string]string{"token": token},
		&out,
	)
	switch code := httpclient.StatusCode(err); {
	case err == nil:
	case code == http.StatusUnauthorized || code == http.StatusForbidden:
		return auth.Claims{}, ErrOdinUnauthorized
	default:
		return auth.Claims{}, fmt.Errorf("%w: %v", ErrOdinUpstream, err)
	}

	out.UserID = strings.TrimSpace(out.UserID)
	if out.UserID == "" {
		return auth.Claims{}, fmt.Errorf("%w: response missing user_id", ErrOdinUpstream)
	}
	return auth.Claims{
		UserID:   out.UserID,
		Email:    strings.ToLower(strings.TrimSpace(out.Email)),
		Name:     strings.TrimSpace(out.Name),
		TenantID: strings.TrimSpace(out.TenantID),
	}, nil
}
