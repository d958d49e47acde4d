package plansfeatures

import (
	"context"
	"sort"

	"pet-rescue/internal/ports/capabilities"
)

// Resolver implementa capabilities.Resolver contra plans-features.
// Las capabilities que upstream devuelve en false se descartan.
type Resolver struct {
	client *Client
}

func NewResolver(client *Client) *Resolver {
	return &Resolver{client: client}
}

func (r *Resolver) Resolve(ctx context.Context, userID string) ([]capabilities.Capability, error) {
	if r == nil || r.client == nil {
		return nil, ErrPlansNotConfigured
	}
	resp, err := r.client.GetCapabilities(ctx, userID)
	if err != nil {
		return nil, err
	}

	out := make([]capabilities.Capability, 0, len(resp.Capabilities))
	for name, granted := range resp.Capabilities {
		if granted {
			out = append(out, capabilities.Capability(name))
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i] < out[j] })
	return out, nil
}
