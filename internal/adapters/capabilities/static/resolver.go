// Package static resuelve capabilities desde config: una lista de user ids de staff
// (STAFF_USER_IDS) o ALLOW_ALL_CAPABILITIES para dev.
package static

import (
	"context"
	"strings"

	"pet-rescue/internal/ports/capabilities"
)

type Resolver struct {
	allowAll bool
	staff    map[string]struct{}
}

func NewResolver(staffUserIDs []string, allowAll bool) *Resolver {
	r := &Resolver{allowAll: allowAll, staff: map[string]struct{}{}}
	for _, id := range staffUserIDs {
		if id = strings.TrimSpace(id); id != "" {
			r.staff[id] = struct{}{}
		}
	}
	return r
}

func (r *Resolver) Resolve(_ context.Context, userID string) ([]capabilities.Capability, error) {
	if r.allowAll {
		return []capabilities.Capability{capabilities.All}, nil
	}
	if _, ok := r.staff[strings.TrimSpace(userID)]; ok {
		return append([]capabilities.Capability(nil), capabilities.StaffCapabilities...), nil
	}
	return nil, nil
}
