package memory

import (
	"context"
	"errors"
	"slices"
	"sort"
	"strings"

	"pet-rescue/internal/domain/claims"
)

type claimsRepo struct{ s *Store }

func NewClaimsRepo(s *Store) claims.Repository {
	return &claimsRepo{s: s}
}

func (r *claimsRepo) Create(ctx context.Context, c claims.Claim) error {
	defer r.s.lock(ctx)()

	if strings.TrimSpace(c.ID) == "" {
		return errors.New("claim id required")
	}
	if _, ok := r.s.reports[c.ReportID]; !ok {
		return claims.ErrNotFound
	}
	for _, other := range r.s.claims {
		if other.ReportID == c.ReportID && strings.EqualFold(other.ClaimantEmail, c.ClaimantEmail) {
			return claims.ErrDuplicateClaim
		}
	}
	r.s.claims[c.ID] = c
	return nil
}

func (r *claimsRepo) GetByID(ctx context.Context, id string) (claims.Claim, error) {
	defer r.s.lock(ctx)()

	c, ok := r.s.claims[id]
	if !ok {
		return claims.Claim{}, claims.ErrNotFound
	}
	return c, nil
}

func (r *claimsRepo) ListByReport(ctx context.Context, reportID string) ([]claims.Claim, error) {
	defer r.s.lock(ctx)()

	out := make([]claims.Claim, 0)
	for _, c := range r.s.claims {
		if c.ReportID == reportID {
			out = append(out, c)
		}
	}
	sortByCreated(out)
	return out, nil
}

func (r *claimsRepo) ListByStatus(ctx context.Context, status claims.Status, limit int) ([]claims.Claim, error) {
	defer r.s.lock(ctx)()

	out := make([]claims.Claim, 0)
	for _, c := range r.s.claims {
		if c.Status == status {
			out = append(out, c)
		}
	}
	sortByCreated(out)
	if limit > 0 && len(out) > limit {
		out = out[:limit]
	}
	return out, nil
}

func (r *claimsRepo) ListByClaimant(ctx context.Context, userID, email string, limit int) ([]claims.Claim, error) {
	defer r.s.lock(ctx)()

	out := make([]claims.Claim, 0)
	for _, c := range r.s.claims {
		if c.IsFiledBy(userID, email) {
			out = append(out, c)
		}
	}
	sortByCreated(out)
	slices.Reverse(out)
	if limit > 0 && len(out) > limit {
		out = out[:limit]
	}
	return out, nil
}

func (r *claimsRepo) CountByStatus(ctx context.Context) (map[claims.Status]int, error) {
	defer r.s.lock(ctx)()

	out := map[claims.Status]int{}
	for _, c := range r.s.claims {
		out[c.Status]++
	}
	return out, nil
}

func (r *claimsRepo) MarkReviewed(ctx context.Context, c claims.Claim) error {
	defer r.s.lock(ctx)()

	cur, ok := r.s.claims[c.ID]
	if !ok {
		return claims.ErrNotFound
	}
	if cur.Status != claims.StatusPending {
		return claims.ErrAlreadyReviewed
	}
	cur.Status = c.Status
	cur.ReviewedBy = c.ReviewedBy
	cur.ReviewNotes = c.ReviewNotes
	cur.ReviewedAt = c.ReviewedAt
	cur.UpdatedAt = c.UpdatedAt
	r.s.claims[c.ID] = cur
	return nil
}

// Orden estable por created_at asc, igual que sqlstore.
func sortByCreated(cs []claims.Claim) {
	sort.Slice(cs, func(i, j int) bool {
		if cs[i].CreatedAt.Equal(cs[j].CreatedAt) {
			return cs[i].ID < cs[j].ID
		}
		return cs[i].CreatedAt.Before(cs[j].CreatedAt)
	})
}
