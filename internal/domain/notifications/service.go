package notifications

import (
	"context"
	"errors"
	"strings"
	"time"

	"pet-rescue/internal/platform/logger"
	"pet-rescue/internal/platform/validation"
	"pet-rescue/internal/ports/capabilities"

	"github.com/google/uuid"
)

var (
	ErrInvalidInput = validation.ErrInvalid
	ErrNotFound     = errors.New("notification not found")
	ErrForbidden    = errors.New("forbidden")
)

const defaultDeliveryTimeout = 5 * time.Second

type Service struct {
	repo      Repository
	deliverer Deliverer
	log       logger.Logger
	timeout   time.Duration
	now       func() time.Time
}

type Option func(*Service)

// WithDeliverer: sin deliverer solo queda la notificación in-app.
func WithDeliverer(d Deliverer) Option { return func(s *Service) { s.deliverer = d } }

func WithLogger(l logger.Logger) Option { return func(s *Service) { s.log = l } }

func WithDeliveryTimeout(d time.Duration) Option { return func(s *Service) { s.timeout = d } }

func NewService(repo Repository, opts ...Option) *Service {
	s := &Service{
		repo:    repo,
		log:     logger.Nop(),
		timeout: defaultDeliveryTimeout,
		now:     time.Now,
	}
	for _, o := range opts {
		o(s)
	}
	return s
}

// Create persiste la notificación. Si ctx trae una tx, queda dentro de ella.
func (s *Service) Create(ctx context.Context, msg Message) (Notification, error) {
	v := validation.Errors{}
	if msg.Recipient.IsZero() {
		v.Add("recipient", "is required")
	}
	if !knownCategories[msg.Category] {
		v.Add("category", "unknown category")
	}
	validation.Required(v, "title", msg.Title)
	validation.MaxLen(v, "title", msg.Title, 200)
	if err := v.Err(); err != nil {
		return Notification{}, err
	}

	n := Notification{
		ID: uuid.NewString(),
		Recipient: Recipient{
			UserID: strings.TrimSpace(msg.Recipient.UserID),
			Email:  strings.ToLower(strings.TrimSpace(msg.Recipient.Email)),
		},
		Category:        msg.Category,
		Title:           strings.TrimSpace(msg.Title),
		Body:            strings.TrimSpace(msg.Body),
		RelatedReportID: msg.RelatedReportID,
		RelatedClaimID:  msg.RelatedClaimID,
		ActionURL:       msg.ActionURL,
		CreatedAt:       s.now().UTC(),
	}
	if err := s.repo.Create(ctx, n); err != nil {
		return Notification{}, err
	}
	return n, nil
}

// Record implementa notifier.Notifier (solo persiste).
func (s *Service) Record(ctx context.Context, msg Message) (string, error) {
	n, err := s.Create(ctx, msg)
	if err != nil {
		return "", err
	}
	return n.ID, nil
}

// Dispatch hace la entrega externa de notificaciones ya commiteadas.
// Los errores se loguean y nunca vuelven al llamador.
func (s *Service) Dispatch(ctx context.Context, ids ...string) {
	if s.deliverer == nil || len(ids) == 0 {
		return
	}

	clean := make([]string, 0, len(ids))
	for _, id := range ids {
		if id = strings.TrimSpace(id); id != "" {
			clean = append(clean, id)
		}
	}
	if len(clean) == 0 {
		return
	}

	items, err := s.repo.GetMany(ctx, clean)
	if err != nil {
		s.log.Warn("notification dispatch: load failed", map[string]any{"ids": clean, "err": err})
		return
	}
	for _, n := range items {
		s.deliver(ctx, n)
	}
}

func (s *Service) deliver(ctx context.Context, n Notification) {
	// El request puede terminar antes que la entrega.
	dctx, cancel := context.WithTimeout(context.WithoutCancel(ctx), s.timeout)
	defer cancel()

	if err := s.deliverer.Deliver(dctx, n); err != nil {
		s.log.Warn("notification delivery failed", map[string]any{
			"notification_id": n.ID,
			"category":        n.Category,
			"err":             err,
		})
		return
	}
	s.log.Debug("notification delivered", map[string]any{"notification_id": n.ID})
}

// Notify = Create + Dispatch, para usos fuera de una tx.
func (s *Service) Notify(ctx context.Context, msg Message) (Notification, error) {
	n, err := s.Create(ctx, msg)
	if err != nil {
		return Notification{}, err
	}
	if s.deliverer != nil {
		s.deliver(ctx, n)
	}
	return n, nil
}

func (s *Service) List(ctx context.Context, actor capabilities.Actor, f ListFilter) ([]Notification, error) {
	rcpt, err := recipientOf(actor)
	if err != nil {
		return nil, err
	}
	if f.Limit <= 0 {
		f.Limit = 50
	}
	if f.Limit > 200 {
		f.Limit = 200
	}
	return s.repo.ListByRecipient(ctx, rcpt, f)
}

func (s *Service) UnreadCount(ctx context.Context, actor capabilities.Actor) (int, error) {
	rcpt, err := recipientOf(actor)
	if err != nil {
		return 0, err
	}
	return s.repo.CountUnread(ctx, rcpt)
}

// MarkRead: solo el destinatario. Idempotente.
func (s *Service) MarkRead(ctx context.Context, id string, actor capabilities.Actor) (Notification, error) {
	id = strings.TrimSpace(id)
	if id == "" {
		return Notification{}, ErrNotFound
	}
	n, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return Notification{}, err
	}
	if !n.IsFor(actor.UserID, actor.Email) {
		return Notification{}, ErrForbidden
	}
	if n.IsRead {
		return n, nil
	}

	now := s.now().UTC()
	if err := s.repo.MarkRead(ctx, n.ID, now); err != nil {
		return Notification{}, err
	}
	n.IsRead = true
	n.ReadAt = &now
	return n, nil
}

// MarkAllRead marca todas las del actor. Devuelve cuántas cambiaron (0 si ya estaban leídas).
func (s *Service) MarkAllRead(ctx context.Context, actor capabilities.Actor) (int, error) {
	rcpt, err := recipientOf(actor)
	if err != nil {
		return 0, err
	}
	return s.repo.MarkAllRead(ctx, rcpt, s.now().UTC())
}

func recipientOf(a capabilities.Actor) (Recipient, error) {
	if a.IsAnonymous() {
		return Recipient{}, ErrForbidden
	}
	return Recipient{UserID: a.UserID, Email: a.Email}, nil
}
