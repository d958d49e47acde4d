// Package delivery tiene el payload común de las entregas externas
// (webhook y kafka mandan el mismo JSON).
package delivery

import (
	"time"

	"pet-rescue/internal/domain/notifications"
)

type Recipient struct {
	UserID string `json:"user_id,omitempty"`
	Email  string `json:"email,omitempty"`
}

type Event struct {
	ID        string    `json:"id"`
	Category  string    `json:"category"`
	Recipient Recipient `json:"recipient"`
	Title     string    `json:"title"`
	Body      string    `json:"body,omitempty"`

	RelatedReportID string `json:"related_report_id,omitempty"`
	RelatedClaimID  string `json:"related_claim_id,omitempty"`

	// ActionURL absoluta si se configuró PUBLIC_BASE_URL.
	ActionURL string    `json:"action_url,omitempty"`
	CreatedAt time.Time `json:"created_at"`
}

// FromNotification arma el evento. baseURL puede venir vacío.
func FromNotification(n notifications.Notification, baseURL string) Event {
	action := n.ActionURL
	if action != "" && baseURL != "" {
		action = baseURL + action
	}
	return Event{
		ID:       n.ID,
		Category: string(n.Category),
		Recipient: Recipient{
			UserID: n.Recipient.UserID,
			Email:  n.Recipient.Email,
		},
		Title:           n.Title,
		Body:            n.Body,
		RelatedReportID: n.RelatedReportID,
		RelatedClaimID:  n.RelatedClaimID,
		ActionURL:       action,
		CreatedAt:       n.CreatedAt.UTC(),
	}
}

// Key agrupa por destinatario (partición en kafka).
func (e Event) Key() string {
	if e.Recipient.UserID != "" {
		return "user:" + e.Recipient.UserID
	}
	return "email:" + e.Recipient.Email
}
