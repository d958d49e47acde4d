package claims

import "context"

type Repository interface {
	// Create devuelve ErrDuplicateClaim si ya hay un claim para (ReportID, ClaimantEmail).
	Create(ctx context.Context, c Claim) error
	GetByID(ctx context.Context, id string) (Claim, error)
	ListByReport(ctx context.Context, reportID string) ([]Claim, error)
	ListByStatus(ctx context.Context, status Status, limit int) ([]Claim, error)

	// ListByClaimant: claims de userID o con ese email (sin mayúsculas), más nuevos primero.
	ListByClaimant(ctx context.Context, userID, email string, limit int) ([]Claim, error)
	CountByStatus(ctx context.Context) (map[Status]int, error)

	// MarkReviewed guarda status + datos de revisión solo si el claim sigue pending.
	// Si ya fue revisado devuelve ErrAlreadyReviewed.
	MarkReviewed(ctx context.Context, c Claim) error
}
