package claims

import (
	"strings"
	"time"

	"pet-rescue/internal/domain/reports"
	"pet-rescue/internal/ports/notifier"
)

// Type: qué pide quien hace el claim.
// @Enum claim, adopt, sighting
type Type string

const (
	TypeClaim    Type = "claim"    // "es mío"
	TypeAdopt    Type = "adopt"    // quiere adoptarlo
	TypeSighting Type = "sighting" // lo vio (para reportes de perdidos)
)

// TargetStatus: a qué estado pasa el reporte cuando se aprueba un claim de este tipo.
func (t Type) TargetStatus() reports.Status {
	switch t {
	case TypeAdopt:
		return reports.StatusAdopted
	case TypeSighting:
		return reports.StatusMatched
	default:
		return reports.StatusClaimed
	}
}

// @Enum pending, approved, rejected
type Status string

const (
	StatusPending  Status = "pending"
	StatusApproved Status = "approved"
	StatusRejected Status = "rejected"
)

type Claim struct {
	ID       string
	ReportID string
	Type     Type

	ClaimantName   string
	ClaimantEmail  string // siempre en minúsculas (clave de unicidad con ReportID)
	ClaimantPhone  string
	ClaimantUserID string

	Message string
	Proof   string

	Status      Status
	ReviewedBy  string
	ReviewNotes string
	ReviewedAt  *time.Time

	CreatedAt time.Time
	UpdatedAt time.Time
}

func (c Claim) Recipient() notifier.Recipient {
	return notifier.Recipient{UserID: c.ClaimantUserID, Email: c.ClaimantEmail}
}

func (c Claim) IsFiledBy(userID, email string) bool {
	if userID != "" && c.ClaimantUserID == userID {
		return true
	}
	return email != "" && c.ClaimantEmail != "" && strings.EqualFold(c.ClaimantEmail, email)
}

// Stats junta los totales de reportes y claims del tablero.
type Stats struct {
	Reports reports.Counts
	Claims  map[Status]int
}

// Decision del staff al revisar.
type Decision struct {
	Approve bool
	Notes   string
}
