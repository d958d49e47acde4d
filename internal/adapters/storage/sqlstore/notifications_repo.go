package sqlstore

import (
	"context"
	"database/sql"
	"errors"
	"strings"
	"time"

	"pet-rescue/internal/domain/notifications"
)

type NotificationsRepo struct {
	s *DB
}

func NewNotificationsRepo(s *DB) *NotificationsRepo {
	return &NotificationsRepo{s: s}
}

const notificationColumns = `
	id, recipient_user_id, recipient_email,
	category, title, body,
	is_read, read_at,
	related_report_id, related_claim_id, action_url,
	created_at`

func (r *NotificationsRepo) Create(ctx context.Context, n notifications.Notification) error {
	_, err := r.s.exec(ctx, `
		INSERT INTO notifications (`+notificationColumns+`
		) VALUES (?,?,?,?,?,?,?,?,?,?,?,?)
	`,
		n.ID,
		n.Recipient.UserID,
		strings.ToLower(n.Recipient.Email),
		string(n.Category),
		n.Title,
		n.Body,
		n.IsRead,
		toNullTime(n.ReadAt),
		n.RelatedReportID,
		n.RelatedClaimID,
		n.ActionURL,
		n.CreatedAt.UTC(),
	)
	return err
}

func (r *NotificationsRepo) GetByID(ctx context.Context, id string) (notifications.Notification, error) {
	id = strings.TrimSpace(id)
	if id == "" {
		return notifications.Notification{}, notifications.ErrNotFound
	}
	n, err := scanNotification(r.s.queryRow(ctx, `SELECT `+notificationColumns+` FROM notifications WHERE id = ?`, id))
	if errors.Is(err, sql.ErrNoRows) {
		return notifications.Notification{}, notifications.ErrNotFound
	}
	return n, err
}

func (r *NotificationsRepo) GetMany(ctx context.Context, ids []string) ([]notifications.Notification, error) {
	if len(ids) == 0 {
		return nil, nil
	}
	ph := strings.TrimSuffix(strings.Repeat("?,", len(ids)), ",")
	args := make([]any, 0, len(ids))
	for _, id := range ids {
		args = append(args, id)
	}
	return r.list(ctx, `SELECT `+notificationColumns+` FROM notifications WHERE id IN (`+ph+`) ORDER BY created_at ASC, id ASC`, args...)
}

// recipientWhere: matchea user id o email (los vacíos no cuentan).
func recipientWhere(rcpt notifications.Recipient) (string, []any) {
	conds := []string{}
	args := []any{}
	if uid := strings.TrimSpace(rcpt.UserID); uid != "" {
		conds = append(conds, `recipient_user_id = ?`)
		args = append(args, uid)
	}
	if email := strings.ToLower(strings.TrimSpace(rcpt.Email)); email != "" {
		conds = append(conds, `recipient_email = ?`)
		args = append(args, email)
	}
	if len(conds) == 0 {
		return "1=0", nil
	}
	return "(" + strings.Join(conds, " OR ") + ")", args
}

func (r *NotificationsRepo) ListByRecipient(ctx context.Context, rcpt notifications.Recipient, f notifications.ListFilter) ([]notifications.Notification, error) {
	where, args := recipientWhere(rcpt)

	sb := strings.Builder{}
	sb.WriteString(`SELECT ` + notificationColumns + ` FROM notifications WHERE ` + where)
	if f.UnreadOnly {
		sb.WriteString(` AND is_read = ?`)
		args = append(args, false)
	}
	limit := f.Limit
	if limit <= 0 {
		limit = 50
	}
	sb.WriteString(` ORDER BY created_at DESC, id DESC LIMIT ?`)
	args = append(args, limit)

	return r.list(ctx, sb.String(), args...)
}

func (r *NotificationsRepo) CountUnread(ctx context.Context, rcpt notifications.Recipient) (int, error) {
	where, args := recipientWhere(rcpt)
	args = append(args, false)

	var n int
	err := r.s.queryRow(ctx, `SELECT COUNT(*) FROM notifications WHERE `+where+` AND is_read = ?`, args...).Scan(&n)
	return n, err
}

func (r *NotificationsRepo) MarkRead(ctx context.Context, id string, at time.Time) error {
	res, err := r.s.exec(ctx, `
		UPDATE notifications SET is_read = ?, read_at = ?
		WHERE id = ? AND is_read = ?
	`, true, at.UTC(), id, false)
	if err != nil {
		return err
	}
	if n, _ := res.RowsAffected(); n == 0 {
		// ya leída (idempotente) o inexistente
		if _, err := r.GetByID(ctx, id); err != nil {
			return err
		}
	}
	return nil
}

func (r *NotificationsRepo) MarkAllRead(ctx context.Context, rcpt notifications.Recipient, at time.Time) (int, error) {
	where, args := recipientWhere(rcpt)
	all := append([]any{true, at.UTC()}, args...)
	all = append(all, false)

	res, err := r.s.exec(ctx, `UPDATE notifications SET is_read = ?, read_at = ? WHERE `+where+` AND is_read = ?`, all...)
	if err != nil {
		return 0, err
	}
	n, _ := res.RowsAffected()
	return int(n), nil
}

func (r *NotificationsRepo) list(ctx context.Context, q string, args ...any) ([]notifications.Notification, error) {
	rows, err := r.s.query(ctx, q, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	out := make([]notifications.Notification, 0)
	for rows.Next() {
		n, err := scanNotification(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, n)
	}
	return out, rows.Err()
}

func scanNotification(row rowScanner) (notifications.Notification, error) {
	var (
		n        notifications.Notification
		category string
		readAt   sql.NullTime
	)
	if err := row.Scan(
		&n.ID,
		&n.Recipient.UserID,
		&n.Recipient.Email,
		&category,
		&n.Title,
		&n.Body,
		&n.IsRead,
		&readAt,
		&n.RelatedReportID,
		&n.RelatedClaimID,
		&n.ActionURL,
		&n.CreatedAt,
	); err != nil {
		return notifications.Notification{}, err
	}
	n.Category = notifications.Category(category)
	n.ReadAt = fromNullTime(readAt)
	n.CreatedAt = n.CreatedAt.UTC()
	return n, nil
}
