package memory

import (
	"context"
	"errors"
	"sort"
	"strings"
	"time"

	"pet-rescue/internal/domain/notifications"
)

type notificationsRepo struct{ s *Store }

func NewNotificationsRepo(s *Store) notifications.Repository {
	return &notificationsRepo{s: s}
}

func (r *notificationsRepo) Create(ctx context.Context, n notifications.Notification) error {
	defer r.s.lock(ctx)()

	if strings.TrimSpace(n.ID) == "" {
		return errors.New("notification id required")
	}
	r.s.notifications[n.ID] = n
	return nil
}

func (r *notificationsRepo) GetByID(ctx context.Context, id string) (notifications.Notification, error) {
	defer r.s.lock(ctx)()

	n, ok := r.s.notifications[id]
	if !ok {
		return notifications.Notification{}, notifications.ErrNotFound
	}
	return n, nil
}

// GetMany ignora los ids que no existen.
func (r *notificationsRepo) GetMany(ctx context.Context, ids []string) ([]notifications.Notification, error) {
	defer r.s.lock(ctx)()

	out := make([]notifications.Notification, 0, len(ids))
	for _, id := range ids {
		if n, ok := r.s.notifications[id]; ok {
			out = append(out, n)
		}
	}
	return out, nil
}

func (r *notificationsRepo) ListByRecipient(ctx context.Context, rcpt notifications.Recipient, f notifications.ListFilter) ([]notifications.Notification, error) {
	defer r.s.lock(ctx)()

	out := make([]notifications.Notification, 0)
	for _, n := range r.s.notifications {
		if !n.IsFor(rcpt.UserID, rcpt.Email) {
			continue
		}
		if f.UnreadOnly && n.IsRead {
			continue
		}
		out = append(out, n)
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].CreatedAt.Equal(out[j].CreatedAt) {
			return out[i].ID > out[j].ID
		}
		return out[i].CreatedAt.After(out[j].CreatedAt)
	})

	limit := f.Limit
	if limit <= 0 {
		limit = 50
	}
	if len(out) > limit {
		out = out[:limit]
	}
	return out, nil
}

func (r *notificationsRepo) CountUnread(ctx context.Context, rcpt notifications.Recipient) (int, error) {
	defer r.s.lock(ctx)()

	count := 0
	for _, n := range r.s.notifications {
		if !n.IsRead && n.IsFor(rcpt.UserID, rcpt.Email) {
			count++
		}
	}
	return count, nil
}

func (r *notificationsRepo) MarkRead(ctx context.Context, id string, at time.Time) error {
	defer r.s.lock(ctx)()

	n, ok := r.s.notifications[id]
	if !ok {
		return notifications.ErrNotFound
	}
	if n.IsRead {
		return nil
	}
	r.s.notifications[id] = markRead(n, at)
	return nil
}

func (r *notificationsRepo) MarkAllRead(ctx context.Context, rcpt notifications.Recipient, at time.Time) (int, error) {
	defer r.s.lock(ctx)()

	changed := 0
	for id, n := range r.s.notifications {
		if n.IsRead || !n.IsFor(rcpt.UserID, rcpt.Email) {
			continue
		}
		r.s.notifications[id] = markRead(n, at)
		changed++
	}
	return changed, nil
}

func markRead(n notifications.Notification, at time.Time) notifications.Notification {
	at = at.UTC()
	n.IsRead = true
	n.ReadAt = &at
	return n
}
