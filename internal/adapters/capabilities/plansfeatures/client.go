package plansfeatures

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"net/url"
	"strings"
	"time"

	"pet-rescue/internal/platform/httpclient"
)

var (
	ErrPlansNotConfigured = errors.New("plans-features client not configured")
	ErrPlansUnauthorized  = errors.New("plans-features unauthorized")
	ErrPlansUpstream      = errors.New("plans-features upstream error")
)

type Config struct {
	BaseURL string
	APIKey  string

	APIKeyHeader string
	Timeout      time.Duration

	Transport http.RoundTripper
}

type Client struct {
	http *httpclient.Client
}

func NewClient(cfg Config) (*Client, error) {
	base := strings.TrimSpace(cfg.BaseURL)
	key := strings.TrimSpace(cfg.APIKey)
	if base == "" || key == "" {
		return nil, ErrPlansNotConfigured
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
		return nil, fmt.Errorf("plans-features: %w", err)
	}
	return &Client{http: hc}, nil
}

// CapabilitiesResponse: {"capabilities": {"reports:verify": true, "claims:review": false}}
type CapabilitiesResponse struct {
	Capabilities map[string]bool `json:"capabilities"`
}

func (c *Client) GetCapabilities(ctx context.Context, userID string) (CapabilitiesResponse, error) {
	if c == nil || c.http == nil {
		return CapabilitiesResponse{}, ErrPlansNotConfigured
	}
	userID = strings.TrimSpace(userID)
	if userID == "" {
		return CapabilitiesResponse{}, errors.New("userID required")
	}

	var out CapabilitiesResponse
	err := c.http.DoJSON(ctx, http.MethodGet, "/v1/capabilities?user_id="+url.QueryEscape(userID), nil, nil, &out)
	switch code := httpclient.StatusCode(err); {
	case err == nil:
	case code == http.StatusUnauthorized || code == http.StatusForbidden:
		return CapabilitiesResponse{}, ErrPlansUnauthorized
	default:
		return CapabilitiesResponse{}, fmt.Errorf("%w: %v", ErrPlansUpstream, err)
	}

	if out.Capabilities == nil {
		out.Capabilities = map[string]bool{}
	}
	return out, nil
}
