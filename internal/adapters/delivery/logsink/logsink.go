// Package logsink "entrega" escribiendo en el log. Es el driver por defecto en dev.
package logsink

import (
	"context"

	"pet-rescue/internal/domain/notifications"
	"pet-rescue/internal/platform/logger"
)

type Sink struct {
	log logger.Logger
}

func New(log logger.Logger) *Sink {
	if log == nil {
		log = logger.Nop()
	}
	return &Sink{log: log}
}

func (s *Sink) Deliver(_ context.Context, n notifications.Notification) error {
	s.log.Info("notification delivered", map[string]any{
		"notification_id": n.ID,
		"category":        string(n.Category),
		"user_id":         n.Recipient.UserID,
		"email":           n.Recipient.Email,
		"title":           n.Title,
	})
	return nil
}
