package notifier

import (
	"context"
	"strings"
)

type Category string

const (
	CategoryReportSubmitted Category = "report_submitted"
	CategoryReportVerified  Category = "report_verified"
	CategoryReportStatus    Category = "report_status"
	CategoryClaimSubmitted  Category = "claim_submitted"
	CategoryClaimUpdate     Category = "claim_update"
	CategorySystem          Category = "system"
)

// Recipient: usuario logueado y/o email de contacto (los reportes pueden ser anónimos).
type Recipient struct {
	UserID string
	Email  string
}

func (r Recipient) IsZero() bool {
	return strings.TrimSpace(r.UserID) == "" && strings.TrimSpace(r.Email) == ""
}

type Message struct {
	Recipient Recipient
	Category  Category
	Title     string
	Body      string

	// Referencias débiles: borrar el reporte/claim no borra la notificación.
	RelatedReportID string
	RelatedClaimID  string
	ActionURL       string
}

// Notifier lo implementa notifications.Service.
// Se usa desde reports/claims sin importar ese paquete (evita ciclos).
//
// Record persiste (dentro de la tx del llamador si la hay).
// Dispatch hace la entrega externa best-effort; nunca devuelve error.
type Notifier interface {
	Record(ctx context.Context, msg Message) (string, error)
	Dispatch(ctx context.Context, notificationIDs ...string)
}
