package notifications

import (
	"context"
	"time"
)

// Repository: las consultas por destinatario matchean UserID o Email
// (lo que venga no vacío), igual que Notification.IsFor.
type Repository interface {
	Create(ctx context.Context, n Notification) error
	GetByID(ctx context.Context, id string) (Notification, error)
	GetMany(ctx context.Context, ids []string) ([]Notification, error)
	ListByRecipient(ctx context.Context, rcpt Recipient, f ListFilter) ([]Notification, error)
	CountUnread(ctx context.Context, rcpt Recipient) (int, error)

	MarkRead(ctx context.Context, id string, at time.Time) error
	// MarkAllRead devuelve cuántas pasaron de no leídas a leídas.
	MarkAllRead(ctx context.Context, rcpt Recipient, at time.Time) (int, error)
}

// Deliverer es la entrega externa (email/webhook/kafka). Best-effort.
type Deliverer interface {
	Deliver(ctx context.Context, n Notification) error
}
