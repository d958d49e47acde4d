package notifications

import (
	"strings"
	"time"

	"pet-rescue/internal/ports/notifier"
)

type (
	Category  = notifier.Category
	Recipient = notifier.Recipient
	Message   = notifier.Message
)

var knownCategories = map[Category]bool{
	notifier.CategoryReportSubmitted: true,
	notifier.CategoryReportVerified:  true,
	notifier.CategoryReportStatus:    true,
	notifier.CategoryClaimSubmitted:  true,
	notifier.CategoryClaimUpdate:     true,
	notifier.CategorySystem:          true,
}

// Notification es el registro in-app. Solo cambia cuando el destinatario la marca como leída.
type Notification struct {
	ID        string
	Recipient Recipient
	Category  Category
	Title     string
	Body      string

	IsRead bool
	ReadAt *time.Time

	// Referencias débiles (sin FK).
	RelatedReportID string
	RelatedClaimID  string
	ActionURL       string

	CreatedAt time.Time
}

// IsFor: coincide el user id o el email del destinatario.
func (n Notification) IsFor(userID, email string) bool {
	if userID != "" && n.Recipient.UserID == userID {
		return true
	}
	return email != "" && n.Recipient.Email != "" && strings.EqualFold(n.Recipient.Email, email)
}

type ListFilter struct {
	UnreadOnly bool
	Limit      int // default 50, máx 200
}
