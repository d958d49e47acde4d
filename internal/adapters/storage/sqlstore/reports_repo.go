package sqlstore

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"
	"time"

	"pet-rescue/internal/domain/reports"
)

type ReportsRepo struct {
	s *DB
}

func NewReportsRepo(s *DB) *ReportsRepo {
	return &ReportsRepo{s: s}
}

const reportColumns = `
	id, reference_code,
	type, name, species, breed, color, size, gender,
	description, location, found_on, photo_path,
	contact_name, contact_email, contact_phone, reporter_user_id,
	status, is_verified, verified_by, verified_at, admin_notes,
	created_at, updated_at`

func (r *ReportsRepo) Create(ctx context.Context, rep reports.Report) error {
	_, err := r.s.exec(ctx, `
		INSERT INTO reports (`+reportColumns+`
		) VALUES (?,?,?,?,?,?,?,?,?,?,?,?,?,?,?,?,?,?,?,?,?,?,?,?)
	`,
		rep.ID,
		rep.ReferenceCode,
		string(rep.Type),
		rep.Name,
		string(rep.Species),
		rep.Breed,
		rep.Color,
		string(rep.Size),
		string(rep.Gender),
		rep.Description,
		rep.Location,
		rep.Date.UTC(),
		rep.PhotoPath,
		rep.ContactName,
		rep.ContactEmail,
		rep.ContactPhone,
		rep.ReporterUserID,
		string(rep.Status),
		rep.IsVerified,
		rep.VerifiedBy,
		toNullTime(rep.VerifiedAt),
		rep.AdminNotes,
		rep.CreatedAt.UTC(),
		rep.UpdatedAt.UTC(),
	)
	if r.s.dialect.uniqueViolation(err) {
		return fmt.Errorf("%w: %s", reports.ErrCodeTaken, rep.ReferenceCode)
	}
	return err
}

func (r *ReportsRepo) GetByID(ctx context.Context, id string) (reports.Report, error) {
	id = strings.TrimSpace(id)
	if id == "" {
		return reports.Report{}, reports.ErrNotFound
	}
	return r.getOne(ctx, `SELECT `+reportColumns+` FROM reports WHERE id = ?`, id)
}

func (r *ReportsRepo) GetByCode(ctx context.Context, code string) (reports.Report, error) {
	code = strings.TrimSpace(code)
	if code == "" {
		return reports.Report{}, reports.ErrNotFound
	}
	return r.getOne(ctx, `SELECT `+reportColumns+` FROM reports WHERE reference_code = ?`, code)
}

func (r *ReportsRepo) getOne(ctx context.Context, q string, arg any) (reports.Report, error) {
	rep, err := scanReport(r.s.queryRow(ctx, q, arg))
	if errors.Is(err, sql.ErrNoRows) {
		return reports.Report{}, reports.ErrNotFound
	}
	return rep, err
}

// Update no toca status (eso va por CompareAndSetStatus).
func (r *ReportsRepo) Update(ctx context.Context, rep reports.Report) error {
	res, err := r.s.exec(ctx, `
		UPDATE reports
		SET
			name = ?,
			breed = ?,
			color = ?,
			size = ?,
			gender = ?,
			description = ?,
			location = ?,
			photo_path = ?,
			contact_name = ?,
			contact_email = ?,
			contact_phone = ?,
			is_verified = ?,
			verified_by = ?,
			verified_at = ?,
			admin_notes = ?,
			updated_at = ?
		WHERE id = ?
	`,
		rep.Name,
		rep.Breed,
		rep.Color,
		string(rep.Size),
		string(rep.Gender),
		rep.Description,
		rep.Location,
		rep.PhotoPath,
		rep.ContactName,
		rep.ContactEmail,
		rep.ContactPhone,
		rep.IsVerified,
		rep.VerifiedBy,
		toNullTime(rep.VerifiedAt),
		rep.AdminNotes,
		rep.UpdatedAt.UTC(),
		rep.ID,
	)
	if err != nil {
		return err
	}
	n, _ := res.RowsAffected()
	if n == 0 {
		return reports.ErrNotFound
	}
	return nil
}

func (r *ReportsRepo) CompareAndSetStatus(ctx context.Context, id string, from, to reports.Status, at time.Time) error {
	res, err := r.s.exec(ctx, `
		UPDATE reports SET status = ?, updated_at = ?
		WHERE id = ? AND status = ?
	`, string(to), at.UTC(), id, string(from))
	if err != nil {
		return err
	}
	n, _ := res.RowsAffected()
	if n == 1 {
		return nil
	}

	// 0 filas: o no existe o alguien cambió el estado antes.
	var exists int
	err = r.s.queryRow(ctx, `SELECT 1 FROM reports WHERE id = ?`, id).Scan(&exists)
	if errors.Is(err, sql.ErrNoRows) {
		return reports.ErrNotFound
	}
	if err != nil {
		return err
	}
	return reports.ErrStatusConflict
}

func (r *ReportsRepo) Search(ctx context.Context, f reports.SearchFilter) ([]reports.Report, error) {
	f = f.Normalize()
	fold := r.s.dialect.ContainsFold

	sb := strings.Builder{}
	sb.WriteString(`SELECT ` + reportColumns + ` FROM reports WHERE 1=1`)
	args := []any{}

	if f.Type != "" {
		sb.WriteString(` AND type = ?`)
		args = append(args, string(f.Type))
	}
	if f.Species != "" {
		sb.WriteString(` AND species = ?`)
		args = append(args, string(f.Species))
	}
	if f.Status != "" {
		sb.WriteString(` AND status = ?`)
		args = append(args, string(f.Status))
	}
	if f.Size != "" {
		sb.WriteString(` AND size = ?`)
		args = append(args, string(f.Size))
	}
	if f.VerifiedOnly {
		sb.WriteString(` AND is_verified = ?`)
		args = append(args, true)
	}
	if f.Color != "" {
		sb.WriteString(` AND ` + fold("color"))
		args = append(args, likePattern(f.Color))
	}
	if f.Location != "" {
		sb.WriteString(` AND ` + fold("location"))
		args = append(args, likePattern(f.Location))
	}
	if f.Query != "" {
		cols := []string{"name", "breed", "color", "location", "description"}
		conds := make([]string, 0, len(cols))
		p := likePattern(f.Query)
		for _, c := range cols {
			conds = append(conds, fold(c))
			args = append(args, p)
		}
		sb.WriteString(` AND (` + strings.Join(conds, " OR ") + `)`)
	}

	sb.WriteString(` ORDER BY created_at DESC, id DESC LIMIT ?`)
	args = append(args, f.Limit)

	rows, err := r.s.query(ctx, sb.String(), args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	out := make([]reports.Report, 0)
	for rows.Next() {
		rep, err := scanReport(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, rep)
	}
	return out, rows.Err()
}

func (r *ReportsRepo) ListByReporter(ctx context.Context, userID, email string, limit int) ([]reports.Report, error) {
	var (
		conds []string
		args  []any
	)
	if userID = strings.TrimSpace(userID); userID != "" {
		conds = append(conds, `reporter_user_id = ?`)
		args = append(args, userID)
	}
	if email = strings.TrimSpace(email); email != "" {
		conds = append(conds, `LOWER(contact_email) = LOWER(?)`)
		args = append(args, email)
	}
	if len(conds) == 0 {
		return []reports.Report{}, nil
	}
	if limit <= 0 {
		limit = reports.DefaultLimit
	}
	args = append(args, limit)

	rows, err := r.s.query(ctx, `SELECT `+reportColumns+` FROM reports
		WHERE `+strings.Join(conds, " OR ")+`
		ORDER BY created_at DESC, id DESC LIMIT ?`, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	out := make([]reports.Report, 0)
	for rows.Next() {
		rep, err := scanReport(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, rep)
	}
	return out, rows.Err()
}

// Counts: dos GROUP BY y un COUNT de no verificados.
func (r *ReportsRepo) Counts(ctx context.Context) (reports.Counts, error) {
	c := reports.Counts{ByStatus: map[reports.Status]int{}, ByType: map[reports.Type]int{}}

	if err := r.groupCount(ctx, "status", func(k string, n int) {
		c.ByStatus[reports.Status(k)] = n
		c.Total += n
	}); err != nil {
		return reports.Counts{}, err
	}
	if err := r.groupCount(ctx, "type", func(k string, n int) {
		c.ByType[reports.Type(k)] = n
	}); err != nil {
		return reports.Counts{}, err
	}

	if err := r.s.queryRow(ctx, `SELECT COUNT(*) FROM reports WHERE is_verified = ?`, false).Scan(&c.Unverified); err != nil {
		return reports.Counts{}, err
	}
	return c, nil
}

// groupCount: col viene siempre de una constante de este archivo.
func (r *ReportsRepo) groupCount(ctx context.Context, col string, add func(k string, n int)) error {
	rows, err := r.s.query(ctx, `SELECT `+col+`, COUNT(*) FROM reports GROUP BY `+col)
	if err != nil {
		return err
	}
	defer rows.Close()

	for rows.Next() {
		var (
			k string
			n int
		)
		if err := rows.Scan(&k, &n); err != nil {
			return err
		}
		add(k, n)
	}
	return rows.Err()
}

// Delete: los claims caen por ON DELETE CASCADE; las notificaciones no tienen FK.
func (r *ReportsRepo) Delete(ctx context.Context, id string) error {
	res, err := r.s.exec(ctx, `DELETE FROM reports WHERE id = ?`, id)
	if err != nil {
		return err
	}
	n, _ := res.RowsAffected()
	if n == 0 {
		return reports.ErrNotFound
	}
	return nil
}

type rowScanner interface {
	Scan(dest ...any) error
}

func scanReport(row rowScanner) (reports.Report, error) {
	var (
		rep                                reports.Report
		typ, species, size, gender, status string
		verifiedAt                         sql.NullTime
	)
	if err := row.Scan(
		&rep.ID,
		&rep.ReferenceCode,
		&typ,
		&rep.Name,
		&species,
		&rep.Breed,
		&rep.Color,
		&size,
		&gender,
		&rep.Description,
		&rep.Location,
		&rep.Date,
		&rep.PhotoPath,
		&rep.ContactName,
		&rep.ContactEmail,
		&rep.ContactPhone,
		&rep.ReporterUserID,
		&status,
		&rep.IsVerified,
		&rep.VerifiedBy,
		&verifiedAt,
		&rep.AdminNotes,
		&rep.CreatedAt,
		&rep.UpdatedAt,
	); err != nil {
		return reports.Report{}, err
	}

	rep.Type = reports.Type(typ)
	rep.Species = reports.Species(species)
	rep.Size = reports.Size(size)
	rep.Gender = reports.Gender(gender)
	rep.Status = reports.Status(status)
	rep.VerifiedAt = fromNullTime(verifiedAt)
	rep.Date = rep.Date.UTC()
	rep.CreatedAt = rep.CreatedAt.UTC()
	rep.UpdatedAt = rep.UpdatedAt.UTC()
	return rep, nil
}
