package memory

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"pet-rescue/internal/domain/reports"
)

type reportsRepo struct{ s *Store }

func NewReportsRepo(s *Store) reports.Repository {
	return &reportsRepo{s: s}
}

func (r *reportsRepo) Create(ctx context.Context, rep reports.Report) error {
	defer r.s.lock(ctx)()

	if strings.TrimSpace(rep.ID) == "" {
		return errors.New("report id required")
	}
	if _, exists := r.s.reports[rep.ID]; exists {
		return fmt.Errorf("report %s already exists", rep.ID)
	}
	if _, taken := r.s.codes[rep.ReferenceCode]; taken {
		return reports.ErrCodeTaken
	}
	r.s.reports[rep.ID] = rep
	r.s.codes[rep.ReferenceCode] = rep.ID
	return nil
}

func (r *reportsRepo) GetByID(ctx context.Context, id string) (reports.Report, error) {
	defer r.s.lock(ctx)()

	rep, ok := r.s.reports[id]
	if !ok {
		return reports.Report{}, reports.ErrNotFound
	}
	return rep, nil
}

func (r *reportsRepo) GetByCode(ctx context.Context, code string) (reports.Report, error) {
	defer r.s.lock(ctx)()

	id, ok := r.s.codes[code]
	if !ok {
		return reports.Report{}, reports.ErrNotFound
	}
	return r.s.reports[id], nil
}

func (r *reportsRepo) Update(ctx context.Context, rep reports.Report) error {
	defer r.s.lock(ctx)()

	cur, ok := r.s.reports[rep.ID]
	if !ok {
		return reports.ErrNotFound
	}
	// status y código no se tocan desde acá
	rep.Status = cur.Status
	rep.ReferenceCode = cur.ReferenceCode
	rep.CreatedAt = cur.CreatedAt
	r.s.reports[rep.ID] = rep
	return nil
}

func (r *reportsRepo) CompareAndSetStatus(ctx context.Context, id string, from, to reports.Status, at time.Time) error {
	defer r.s.lock(ctx)()

	cur, ok := r.s.reports[id]
	if !ok {
		return reports.ErrNotFound
	}
	if cur.Status != from {
		return fmt.Errorf("%w: stored %s, expected %s", reports.ErrStatusConflict, cur.Status, from)
	}
	cur.Status = to
	cur.UpdatedAt = at
	r.s.reports[id] = cur
	return nil
}

func (r *reportsRepo) Search(ctx context.Context, f reports.SearchFilter) ([]reports.Report, error) {
	f = f.Normalize()

	defer r.s.lock(ctx)()

	out := make([]reports.Report, 0)
	for _, rep := range r.s.reports {
		if f.Matches(rep) {
			out = append(out, rep)
		}
	}
	reports.SortRecent(out)
	if len(out) > f.Limit {
		out = out[:f.Limit]
	}
	return out, nil
}

func (r *reportsRepo) ListByReporter(ctx context.Context, userID, email string, limit int) ([]reports.Report, error) {
	defer r.s.lock(ctx)()

	out := make([]reports.Report, 0)
	for _, rep := range r.s.reports {
		if rep.IsOwnedBy(userID, email) {
			out = append(out, rep)
		}
	}
	reports.SortRecent(out)
	if limit > 0 && len(out) > limit {
		out = out[:limit]
	}
	return out, nil
}

func (r *reportsRepo) Counts(ctx context.Context) (reports.Counts, error) {
	defer r.s.lock(ctx)()

	c := reports.Counts{ByStatus: map[reports.Status]int{}, ByType: map[reports.Type]int{}}
	for _, rep := range r.s.reports {
		c.Total++
		c.ByStatus[rep.Status]++
		c.ByType[rep.Type]++
		if !rep.IsVerified {
			c.Unverified++
		}
	}
	return c, nil
}

// Delete borra el reporte y sus claims (las notificaciones quedan).
func (r *reportsRepo) Delete(ctx context.Context, id string) error {
	defer r.s.lock(ctx)()

	rep, ok := r.s.reports[id]
	if !ok {
		return reports.ErrNotFound
	}
	delete(r.s.reports, id)
	delete(r.s.codes, rep.ReferenceCode)
	for cid, c := range r.s.claims {
		if c.ReportID == id {
			delete(r.s.claims, cid)
		}
	}
	return nil
}
