package claims

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"pet-rescue/internal/domain/reports"
	"pet-rescue/internal/platform/logger"
	"pet-rescue/internal/platform/validation"
	"pet-rescue/internal/ports/capabilities"
	"pet-rescue/internal/ports/notifier"
	"pet-rescue/internal/ports/txn"

	"github.com/google/uuid"
)

var (
	ErrInvalidInput      = validation.ErrInvalid
	ErrNotFound          = errors.New("claim not found")
	ErrPermissionDenied  = errors.New("permission denied")
	ErrDuplicateClaim    = errors.New("a claim for this report and email already exists")
	ErrInvalidTransition = errors.New("invalid claim transition")

	// ErrAlreadyReviewed y ErrReportClosed son ErrInvalidTransition (errors.Is).
	ErrAlreadyReviewed = fmt.Errorf("%w: claim already reviewed", ErrInvalidTransition)
	ErrReportClosed    = fmt.Errorf("%w: report no longer accepts claims", ErrInvalidTransition)
)

// ReportStore es lo que claims necesita de reports. Lo implementa *reports.Service.
type ReportStore interface {
	Get(ctx context.Context, ref string) (reports.Report, error)
	AdvanceFromClaim(ctx context.Context, reportID string, from, to reports.Status) (reports.Report, error)
	Counts(ctx context.Context) (reports.Counts, error)
}

type Service struct {
	repo     Repository
	reports  ReportStore
	tx       txn.Runner
	notifier notifier.Notifier
	log      logger.Logger
	now      func() time.Time
}

type Option func(*Service)

func WithTx(r txn.Runner) Option { return func(s *Service) { s.tx = r } }

func WithNotifier(n notifier.Notifier) Option { return func(s *Service) { s.notifier = n } }

func WithLogger(l logger.Logger) Option { return func(s *Service) { s.log = l } }

func NewService(repo Repository, reportStore ReportStore, opts ...Option) *Service {
	s := &Service{
		repo:     repo,
		reports:  reportStore,
		tx:       txn.Direct,
		notifier: nopNotifier{},
		log:      logger.Nop(),
		now:      time.Now,
	}
	for _, o := range opts {
		o(s)
	}
	return s
}

// File registra un claim/solicitud contra un reporte y avisa a quien lo cargó.
// Si el claimant no manda email se usa el de su cuenta.
func (s *Service) File(ctx context.Context, reportRef string, claimant capabilities.Actor, in FileInput) (Claim, error) {
	if strings.TrimSpace(in.Email) == "" {
		in.Email = claimant.Email
	}
	in, err := ValidateClaim(in)
	if err != nil {
		return Claim{}, err
	}

	var (
		out     Claim
		pending []string
	)
	err = s.tx.WithinTx(ctx, func(ctx context.Context) error {
		rep, err := s.reports.Get(ctx, reportRef)
		if err != nil {
			return err
		}
		if !rep.AcceptsClaims() {
			return fmt.Errorf("%w (status %s)", ErrReportClosed, rep.Status)
		}

		now := s.now().UTC()
		c := Claim{
			ID:             uuid.NewString(),
			ReportID:       rep.ID,
			Type:           Type(in.Type),
			ClaimantName:   in.Name,
			ClaimantEmail:  in.Email,
			ClaimantPhone:  in.Phone,
			ClaimantUserID: claimant.UserID,
			Message:        in.Message,
			Proof:          in.Proof,
			Status:         StatusPending,
			CreatedAt:      now,
			UpdatedAt:      now,
		}
		if err := s.repo.Create(ctx, c); err != nil {
			return err
		}

		if rcpt := rep.Recipient(); !rcpt.IsZero() {
			id, err := s.notifier.Record(ctx, notifier.Message{
				Recipient:       rcpt,
				Category:        notifier.CategoryClaimSubmitted,
				Title:           "New " + string(c.Type) + " request",
				Body:            fmt.Sprintf("%s filed a %s request on your report %s.", c.ClaimantName, c.Type, rep),
				RelatedReportID: rep.ID,
				RelatedClaimID:  c.ID,
				ActionURL:       "/reports/" + rep.ReferenceCode,
			})
			if err != nil {
				return err
			}
			pending = append(pending, id)
		}

		out = c
		return nil
	})
	if err != nil {
		return Claim{}, err
	}

	s.notifier.Dispatch(ctx, pending...)
	s.log.Info("claim filed", map[string]any{
		"claim_id":  out.ID,
		"report_id": out.ReportID,
		"type":      out.Type,
	})
	return out, nil
}

// Review aprueba o rechaza un claim pending. Al aprobar, el reporte avanza
// (CAS sobre su estado) en la misma transacción que el claim y las notificaciones.
func (s *Service) Review(ctx context.Context, claimID string, d Decision, actor capabilities.Actor) (Claim, error) {
	if !actor.Can(capabilities.ClaimsReview) {
		return Claim{}, ErrPermissionDenied
	}
	claimID = strings.TrimSpace(claimID)
	if claimID == "" {
		return Claim{}, ErrNotFound
	}

	var (
		out     Claim
		pending []string
	)
	err := s.tx.WithinTx(ctx, func(ctx context.Context) error {
		c, err := s.repo.GetByID(ctx, claimID)
		if err != nil {
			return err
		}
		if c.Status != StatusPending {
			return ErrAlreadyReviewed
		}

		rep, err := s.reports.Get(ctx, c.ReportID)
		if err != nil {
			return err
		}
		if d.Approve && !rep.AcceptsClaims() {
			return fmt.Errorf("%w (status %s)", ErrReportClosed, rep.Status)
		}

		now := s.now().UTC()
		c.Status = StatusRejected
		if d.Approve {
			c.Status = StatusApproved
		}
		c.ReviewedBy = actor.UserID
		c.ReviewNotes = strings.TrimSpace(d.Notes)
		c.ReviewedAt = &now
		c.UpdatedAt = now
		if err := s.repo.MarkReviewed(ctx, c); err != nil {
			return err
		}

		if d.Approve {
			rep, err = s.reports.AdvanceFromClaim(ctx, rep.ID, rep.Status, c.Type.TargetStatus())
			if err != nil {
				return err
			}
		}

		if rcpt := c.Recipient(); !rcpt.IsZero() {
			id, err := s.notifier.Record(ctx, notifier.Message{
				Recipient:       rcpt,
				Category:        notifier.CategoryClaimUpdate,
				Title:           "Your " + string(c.Type) + " request was " + string(c.Status),
				Body:            claimantBody(c, rep),
				RelatedReportID: rep.ID,
				RelatedClaimID:  c.ID,
				ActionURL:       "/reports/" + rep.ReferenceCode,
			})
			if err != nil {
				return err
			}
			pending = append(pending, id)
		}

		if d.Approve {
			if rcpt := rep.Recipient(); !rcpt.IsZero() {
				id, err := s.notifier.Record(ctx, notifier.Message{
					Recipient:       rcpt,
					Category:        notifier.CategoryReportStatus,
					Title:           "Report status updated",
					Body:            fmt.Sprintf("Your report %s is now %s.", rep, rep.Status),
					RelatedReportID: rep.ID,
					RelatedClaimID:  c.ID,
					ActionURL:       "/reports/" + rep.ReferenceCode,
				})
				if err != nil {
					return err
				}
				pending = append(pending, id)
			}
		}

		out = c
		return nil
	})
	if err != nil {
		return Claim{}, err
	}

	s.notifier.Dispatch(ctx, pending...)
	s.log.Info("claim reviewed", map[string]any{
		"claim_id": out.ID,
		"status":   out.Status,
		"by":       actor.UserID,
	})
	return out, nil
}

func claimantBody(c Claim, rep reports.Report) string {
	msg := fmt.Sprintf("Your %s request for %s was %s.", c.Type, rep, c.Status)
	if c.ReviewNotes != "" {
		msg += " Notes: " + c.ReviewNotes
	}
	return msg
}

// Get: staff o quien hizo el claim.
func (s *Service) Get(ctx context.Context, id string, actor capabilities.Actor) (Claim, error) {
	c, err := s.repo.GetByID(ctx, strings.TrimSpace(id))
	if err != nil {
		return Claim{}, err
	}
	if !actor.Can(capabilities.ClaimsReview) && !c.IsFiledBy(actor.UserID, actor.Email) {
		return Claim{}, ErrPermissionDenied
	}
	return c, nil
}

// ListByReport: staff o el dueño del reporte.
func (s *Service) ListByReport(ctx context.Context, reportRef string, actor capabilities.Actor) ([]Claim, error) {
	rep, err := s.reports.Get(ctx, reportRef)
	if err != nil {
		return nil, err
	}
	if !actor.Can(capabilities.ClaimsReview) && !rep.IsOwnedBy(actor.UserID, actor.Email) {
		return nil, ErrPermissionDenied
	}
	return s.repo.ListByReport(ctx, rep.ID)
}

// ListByStatus es la cola de revisión del staff (default: pending).
func (s *Service) ListByStatus(ctx context.Context, status Status, limit int, actor capabilities.Actor) ([]Claim, error) {
	if !actor.Can(capabilities.ClaimsReview) {
		return nil, ErrPermissionDenied
	}
	if status == "" {
		status = StatusPending
	}
	switch status {
	case StatusPending, StatusApproved, StatusRejected:
	default:
		v := validation.Errors{}
		v.Add("status", "must be one of: pending, approved, rejected")
		return nil, v
	}
	if limit <= 0 {
		limit = 50
	}
	if limit > 200 {
		limit = 200
	}
	return s.repo.ListByStatus(ctx, status, limit)
}

// ListByClaimant: "mis solicitudes".
func (s *Service) ListByClaimant(ctx context.Context, actor capabilities.Actor) ([]Claim, error) {
	if actor.IsAnonymous() {
		return nil, ErrPermissionDenied
	}
	return s.repo.ListByClaimant(ctx, actor.UserID, actor.Email, 200)
}

// Stats es el tablero de staff (reports:verify o claims:review).
func (s *Service) Stats(ctx context.Context, actor capabilities.Actor) (Stats, error) {
	if !actor.Can(capabilities.ClaimsReview) && !actor.Can(capabilities.ReportsVerify) {
		return Stats{}, ErrPermissionDenied
	}
	return s.PublicStats(ctx)
}

// PublicStats no chequea permisos; el handler público recorta lo que muestra.
func (s *Service) PublicStats(ctx context.Context) (Stats, error) {
	rc, err := s.reports.Counts(ctx)
	if err != nil {
		return Stats{}, err
	}
	cc, err := s.repo.CountByStatus(ctx)
	if err != nil {
		return Stats{}, err
	}
	return Stats{Reports: rc, Claims: cc}, nil
}

type nopNotifier struct{}

func (nopNotifier) Record(context.Context, notifier.Message) (string, error) { return "", nil }
func (nopNotifier) Dispatch(context.Context, ...string)                      {}
