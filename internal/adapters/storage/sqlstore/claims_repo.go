package sqlstore

import (
	"context"
	"database/sql"
	"errors"
	"strings"

	"pet-rescue/internal/domain/claims"
)

type ClaimsRepo struct {
	s *DB
}

func NewClaimsRepo(s *DB) *ClaimsRepo {
	return &ClaimsRepo{s: s}
}

const claimColumns = `
	id, report_id, type,
	claimant_name, claimant_email, claimant_phone, claimant_user_id,
	message, proof,
	status, reviewed_by, review_notes, reviewed_at,
	created_at, updated_at`

func (r *ClaimsRepo) Create(ctx context.Context, c claims.Claim) error {
	_, err := r.s.exec(ctx, `
		INSERT INTO claims (`+claimColumns+`
		) VALUES (?,?,?,?,?,?,?,?,?,?,?,?,?,?,?)
	`,
		c.ID,
		c.ReportID,
		string(c.Type),
		c.ClaimantName,
		strings.ToLower(c.ClaimantEmail),
		c.ClaimantPhone,
		c.ClaimantUserID,
		c.Message,
		c.Proof,
		string(c.Status),
		c.ReviewedBy,
		c.ReviewNotes,
		toNullTime(c.ReviewedAt),
		c.CreatedAt.UTC(),
		c.UpdatedAt.UTC(),
	)
	if r.s.dialect.uniqueViolation(err) {
		return claims.ErrDuplicateClaim
	}
	return err
}

func (r *ClaimsRepo) GetByID(ctx context.Context, id string) (claims.Claim, error) {
	id = strings.TrimSpace(id)
	if id == "" {
		return claims.Claim{}, claims.ErrNotFound
	}
	c, err := scanClaim(r.s.queryRow(ctx, `SELECT `+claimColumns+` FROM claims WHERE id = ?`, id))
	if errors.Is(err, sql.ErrNoRows) {
		return claims.Claim{}, claims.ErrNotFound
	}
	return c, err
}

func (r *ClaimsRepo) ListByReport(ctx context.Context, reportID string) ([]claims.Claim, error) {
	return r.list(ctx, `SELECT `+claimColumns+` FROM claims WHERE report_id = ? ORDER BY created_at ASC, id ASC`, reportID)
}

func (r *ClaimsRepo) ListByStatus(ctx context.Context, status claims.Status, limit int) ([]claims.Claim, error) {
	if limit <= 0 {
		limit = 50
	}
	return r.list(ctx, `SELECT `+claimColumns+` FROM claims WHERE status = ? ORDER BY created_at ASC, id ASC LIMIT ?`, string(status), limit)
}

func (r *ClaimsRepo) ListByClaimant(ctx context.Context, userID, email string, limit int) ([]claims.Claim, error) {
	var (
		conds []string
		args  []any
	)
	if userID = strings.TrimSpace(userID); userID != "" {
		conds = append(conds, `claimant_user_id = ?`)
		args = append(args, userID)
	}
	// claimant_email ya se guarda en minúsculas
	if email = strings.TrimSpace(email); email != "" {
		conds = append(conds, `claimant_email = ?`)
		args = append(args, strings.ToLower(email))
	}
	if len(conds) == 0 {
		return []claims.Claim{}, nil
	}
	if limit <= 0 {
		limit = 50
	}
	args = append(args, limit)
	return r.list(ctx, `SELECT `+claimColumns+` FROM claims
		WHERE `+strings.Join(conds, " OR ")+`
		ORDER BY created_at DESC, id DESC LIMIT ?`, args...)
}

func (r *ClaimsRepo) CountByStatus(ctx context.Context) (map[claims.Status]int, error) {
	rows, err := r.s.query(ctx, `SELECT status, COUNT(*) FROM claims GROUP BY status`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	out := map[claims.Status]int{}
	for rows.Next() {
		var (
			st string
			n  int
		)
		if err := rows.Scan(&st, &n); err != nil {
			return nil, err
		}
		out[claims.Status(st)] = n
	}
	return out, rows.Err()
}

func (r *ClaimsRepo) list(ctx context.Context, q string, args ...any) ([]claims.Claim, error) {
	rows, err := r.s.query(ctx, q, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	out := make([]claims.Claim, 0)
	for rows.Next() {
		c, err := scanClaim(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, c)
	}
	return out, rows.Err()
}

// MarkReviewed es un CAS sobre status = 'pending'.
func (r *ClaimsRepo) MarkReviewed(ctx context.Context, c claims.Claim) error {
	res, err := r.s.exec(ctx, `
		UPDATE claims
		SET status = ?, reviewed_by = ?, review_notes = ?, reviewed_at = ?, updated_at = ?
		WHERE id = ? AND status = ?
	`,
		string(c.Status),
		c.ReviewedBy,
		c.ReviewNotes,
		toNullTime(c.ReviewedAt),
		c.UpdatedAt.UTC(),
		c.ID,
		string(claims.StatusPending),
	)
	if err != nil {
		return err
	}
	n, _ := res.RowsAffected()
	if n == 1 {
		return nil
	}
	if _, err := r.GetByID(ctx, c.ID); err != nil {
		return err
	}
	return claims.ErrAlreadyReviewed
}

func scanClaim(row rowScanner) (claims.Claim, error) {
	var (
		c           claims.Claim
		typ, status string
		reviewedAt  sql.NullTime
	)
	if err := row.Scan(
		&c.ID,
		&c.ReportID,
		&typ,
		&c.ClaimantName,
		&c.ClaimantEmail,
		&c.ClaimantPhone,
		&c.ClaimantUserID,
		&c.Message,
		&c.Proof,
		&status,
		&c.ReviewedBy,
		&c.ReviewNotes,
		&reviewedAt,
		&c.CreatedAt,
		&c.UpdatedAt,
	); err != nil {
		return claims.Claim{}, err
	}
	c.Type = claims.Type(typ)
	c.Status = claims.Status(status)
	c.ReviewedAt = fromNullTime(reviewedAt)
	c.CreatedAt = c.CreatedAt.UTC()
	c.UpdatedAt = c.UpdatedAt.UTC()
	return c, nil
}
