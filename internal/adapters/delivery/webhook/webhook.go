// Package webhook entrega cada notificación como un POST JSON a una URL fija.
package webhook

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"strings"
	"time"

	"pet-rescue/internal/adapters/delivery"
	"pet-rescue/internal/domain/notifications"
	"pet-rescue/internal/platform/httpclient"
)

var ErrNoURL = errors.New("webhook url is required")

type Config struct {
	URL           string
	PublicBaseURL string
	// Secret opcional; va en X-Webhook-Secret.
	Secret  string
	Timeout time.Duration

	Transport http.RoundTripper
}

type Deliverer struct {
	http    *httpclient.Client
	url     string
	baseURL string
}

func New(cfg Config) (*Deliverer, error) {
	u := strings.TrimSpace(cfg.URL)
	if u == "" {
		return nil, ErrNoURL
	}
	headers := map[string]string{}
	if s := strings.TrimSpace(cfg.Secret); s != "" {
		headers["X-Webhook-Secret"] = s
	}
	hc, err := httpclient.New(httpclient.Config{
		Timeout:   cfg.Timeout,
		Headers:   headers,
		Transport: cfg.Transport,
	})
	if err != nil {
		return nil, err
	}
	return &Deliverer{
		http:    hc,
		url:     u,
		baseURL: strings.TrimRight(strings.TrimSpace(cfg.PublicBaseURL), "/"),
	}, nil
}

func (d *Deliverer) Deliver(ctx context.Context, n notifications.Notification) error {
	ev := delivery.FromNotification(n, d.baseURL)
	err := d.http.DoJSON(ctx, http.MethodPost, d.url,
		map[string]string{"X-Notification-Id": n.ID},
		ev, nil)
	if err != nil {
		return fmt.Errorf("webhook delivery %s: %w", n.ID, err)
	}
	return nil
}
