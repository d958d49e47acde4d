package reports

import (
	"context"
	"errors"
	"fmt"
	"io"
	"strings"
	"time"

	"pet-rescue/internal/platform/imaging"
	"pet-rescue/internal/platform/logger"
	"pet-rescue/internal/platform/refcode"
	"pet-rescue/internal/platform/validation"
	"pet-rescue/internal/ports/capabilities"
	"pet-rescue/internal/ports/notifier"
	"pet-rescue/internal/ports/txn"

	"github.com/google/uuid"
)

var (
	ErrInvalidInput      = validation.ErrInvalid
	ErrNotFound          = errors.New("report not found")
	ErrPermissionDenied  = errors.New("permission denied")
	ErrInvalidTransition = errors.New("invalid status transition")
	ErrStatusConflict    = errors.New("report status changed concurrently")
	ErrCodeTaken         = errors.New("reference code already in use")
	ErrPhotosDisabled    = errors.New("photo storage not configured")
)

const codeAttempts = 5

type Service struct {
	repo     Repository
	tx       txn.Runner
	notifier notifier.Notifier
	photos   PhotoStore
	log      logger.Logger

	now     func() time.Time
	newCode func() (string, error)
}

type Option func(*Service)

func WithTx(r txn.Runner) Option { return func(s *Service) { s.tx = r } }

func WithNotifier(n notifier.Notifier) Option { return func(s *Service) { s.notifier = n } }

func WithPhotoStore(p PhotoStore) Option { return func(s *Service) { s.photos = p } }

func WithLogger(l logger.Logger) Option { return func(s *Service) { s.log = l } }

func NewService(repo Repository, opts ...Option) *Service {
	s := &Service{
		repo:     repo,
		tx:       txn.Direct,
		notifier: nopNotifier{},
		log:      logger.Nop(),
		now:      time.Now,
		newCode:  refcode.New,
	}
	for _, o := range opts {
		o(s)
	}
	return s
}

// Submit crea el reporte en estado pending y avisa al que lo cargó (si se lo puede identificar).
func (s *Service) Submit(ctx context.Context, reporterUserID string, in SubmitInput) (Report, error) {
	now := s.now().UTC()

	in, err := ValidateSubmission(in, now)
	if err != nil {
		return Report{}, err
	}

	r := Report{
		ID:             uuid.NewString(),
		Type:           Type(in.Type),
		Name:           in.Name,
		Species:        Species(in.Species),
		Breed:          in.Breed,
		Color:          in.Color,
		Size:           Size(in.Size),
		Gender:         Gender(in.Gender),
		Description:    in.Description,
		Location:       in.Location,
		Date:           in.Date,
		ContactName:    in.ContactName,
		ContactEmail:   in.ContactEmail,
		ContactPhone:   in.ContactPhone,
		ReporterUserID: strings.TrimSpace(reporterUserID),
		Status:         StatusPending,
		CreatedAt:      now,
		UpdatedAt:      now,
	}

	var pending []string
	for attempt := 1; ; attempt++ {
		code, err := s.newCode()
		if err != nil {
			return Report{}, fmt.Errorf("reference code: %w", err)
		}
		r.ReferenceCode = code

		pending = pending[:0]
		err = s.tx.WithinTx(ctx, func(ctx context.Context) error {
			if err := s.repo.Create(ctx, r); err != nil {
				return err
			}
			id, err := s.record(ctx, r, notifier.CategoryReportSubmitted,
				"Report received",
				fmt.Sprintf("We received your report %s (reference %s). Staff will review it shortly.", r, refcode.Display(r.ReferenceCode)))
			if err != nil {
				return err
			}
			if id != "" {
				pending = append(pending, id)
			}
			return nil
		})
		if errors.Is(err, ErrCodeTaken) && attempt < codeAttempts {
			continue
		}
		if err != nil {
			return Report{}, err
		}
		break
	}

	s.notifier.Dispatch(ctx, pending...)
	s.log.Info("report submitted", map[string]any{
		"report_id": r.ID,
		"code":      r.ReferenceCode,
		"type":      r.Type,
	})
	return r, nil
}

// Get acepta el UUID o el código de referencia (con o sin guión).
func (s *Service) Get(ctx context.Context, ref string) (Report, error) {
	ref = strings.TrimSpace(ref)
	if ref == "" {
		return Report{}, ErrNotFound
	}
	if _, err := uuid.Parse(ref); err == nil {
		return s.repo.GetByID(ctx, ref)
	}
	code := refcode.Normalize(ref)
	if !refcode.Valid(code) {
		return Report{}, ErrNotFound
	}
	return s.repo.GetByCode(ctx, code)
}

// Verify marca el reporte como verificado por staff. Idempotente.
func (s *Service) Verify(ctx context.Context, ref string, actor capabilities.Actor) (Report, error) {
	if !actor.Can(capabilities.ReportsVerify) {
		return Report{}, ErrPermissionDenied
	}

	var (
		out     Report
		pending []string
	)
	err := s.tx.WithinTx(ctx, func(ctx context.Context) error {
		r, err := s.Get(ctx, ref)
		if err != nil {
			return err
		}
		if r.IsVerified {
			out = r
			return nil
		}

		now := s.now().UTC()
		r.IsVerified = true
		r.VerifiedBy = actor.UserID
		r.VerifiedAt = &now
		r.UpdatedAt = now
		if err := s.repo.Update(ctx, r); err != nil {
			return err
		}

		if r.Status == StatusPending {
			if err := s.repo.CompareAndSetStatus(ctx, r.ID, StatusPending, StatusPublished, now); err != nil {
				return err
			}
			r.Status = StatusPublished
		}

		id, err := s.record(ctx, r, notifier.CategoryReportVerified,
			"Report verified",
			fmt.Sprintf("Your report %s has been verified and is now public.", r))
		if err != nil {
			return err
		}
		if id != "" {
			pending = append(pending, id)
		}
		out = r
		return nil
	})
	if err != nil {
		return Report{}, err
	}

	s.notifier.Dispatch(ctx, pending...)
	return out, nil
}

// Transition es el cambio manual de estado (staff). Solo hacia adelante.
func (s *Service) Transition(ctx context.Context, ref string, to Status, notes string, actor capabilities.Actor) (Report, error) {
	if !actor.Can(capabilities.ReportsManage) {
		return Report{}, ErrPermissionDenied
	}
	to = Status(strings.ToLower(strings.TrimSpace(string(to))))
	if !to.Valid() {
		v := validation.Errors{}
		v.Add("status", "unknown status")
		return Report{}, v
	}

	var (
		out     Report
		pending []string
	)
	err := s.tx.WithinTx(ctx, func(ctx context.Context) error {
		r, err := s.Get(ctx, ref)
		if err != nil {
			return err
		}
		if !CanTransition(r.Status, to) {
			return fmt.Errorf("%w: %s -> %s", ErrInvalidTransition, r.Status, to)
		}

		now := s.now().UTC()
		if err := s.repo.CompareAndSetStatus(ctx, r.ID, r.Status, to, now); err != nil {
			return err
		}
		r.Status = to
		r.UpdatedAt = now
		if n := strings.TrimSpace(notes); n != "" {
			r.AdminNotes = n
			if err := s.repo.Update(ctx, r); err != nil {
				return err
			}
		}

		if to.Stage() >= 2 {
			id, err := s.record(ctx, r, notifier.CategoryReportStatus,
				"Report status updated",
				fmt.Sprintf("Your report %s is now %s.", r, to))
			if err != nil {
				return err
			}
			if id != "" {
				pending = append(pending, id)
			}
		}
		out = r
		return nil
	})
	if err != nil {
		return Report{}, err
	}

	s.notifier.Dispatch(ctx, pending...)
	return out, nil
}

// AdvanceFromClaim lo usa claims al aprobar, dentro de su propia tx (ctx).
// Si otro claim ya movió el reporte devuelve ErrStatusConflict.
func (s *Service) AdvanceFromClaim(ctx context.Context, reportID string, from, to Status) (Report, error) {
	if !CanTransition(from, to) {
		return Report{}, fmt.Errorf("%w: %s -> %s", ErrInvalidTransition, from, to)
	}
	r, err := s.repo.GetByID(ctx, reportID)
	if err != nil {
		return Report{}, err
	}
	if r.Status != from {
		return Report{}, ErrStatusConflict
	}

	now := s.now().UTC()
	if err := s.repo.CompareAndSetStatus(ctx, r.ID, from, to, now); err != nil {
		return Report{}, err
	}
	r.Status = to
	r.UpdatedAt = now
	return r, nil
}

func (s *Service) Search(ctx context.Context, f SearchFilter) ([]Report, error) {
	return s.repo.Search(ctx, f.Normalize())
}

// Browse es la búsqueda pública: sin reports:verify solo se ven reportes verificados.
func (s *Service) Browse(ctx context.Context, f SearchFilter, actor capabilities.Actor) ([]Report, error) {
	if !actor.Can(capabilities.ReportsVerify) {
		f.VerifiedOnly = true
	}
	return s.Search(ctx, f)
}

// Recent: listado de la home.
func (s *Service) Recent(ctx context.Context, limit int, actor capabilities.Actor) ([]Report, error) {
	return s.Browse(ctx, SearchFilter{Limit: limit}, actor)
}

// ListByReporter: "mis reportes", verificados o no.
func (s *Service) ListByReporter(ctx context.Context, actor capabilities.Actor) ([]Report, error) {
	if actor.IsAnonymous() {
		return nil, ErrPermissionDenied
	}
	return s.repo.ListByReporter(ctx, actor.UserID, actor.Email, MaxLimit)
}

func (s *Service) Counts(ctx context.Context) (Counts, error) {
	return s.repo.Counts(ctx)
}

// AttachPhoto procesa (valida + achica) y guarda la foto. Solo el dueño del reporte o staff.
func (s *Service) AttachPhoto(ctx context.Context, ref string, photo io.Reader, actor capabilities.Actor) (Report, error) {
	if s.photos == nil {
		return Report{}, ErrPhotosDisabled
	}
	r, err := s.Get(ctx, ref)
	if err != nil {
		return Report{}, err
	}
	if !r.IsOwnedBy(actor.UserID, actor.Email) && !actor.Can(capabilities.ReportsManage) {
		return Report{}, ErrPermissionDenied
	}

	p, err := imaging.Process(photo)
	if err != nil {
		v := validation.Errors{}
		v.Add("photo", err.Error())
		return Report{}, v
	}

	path, err := s.photos.Save(ctx, r.ReferenceCode, p.Data)
	if err != nil {
		return Report{}, fmt.Errorf("save photo: %w", err)
	}

	r.PhotoPath = path
	r.UpdatedAt = s.now().UTC()
	if err := s.repo.Update(ctx, r); err != nil {
		return Report{}, err
	}
	return r, nil
}

// Delete borra el reporte (los claims caen en cascada en el store).
func (s *Service) Delete(ctx context.Context, ref string, actor capabilities.Actor) error {
	if !actor.Can(capabilities.ReportsManage) {
		return ErrPermissionDenied
	}
	r, err := s.Get(ctx, ref)
	if err != nil {
		return err
	}
	if err := s.repo.Delete(ctx, r.ID); err != nil {
		return err
	}

	if s.photos != nil && r.PhotoPath != "" {
		if err := s.photos.Delete(ctx, r.ReferenceCode); err != nil {
			s.log.Warn("photo cleanup failed", map[string]any{"report_id": r.ID, "err": err})
		}
	}
	s.log.Info("report deleted", map[string]any{"report_id": r.ID, "by": actor.UserID})
	return nil
}

// Recipient del reporte: el usuario que lo cargó y/o el email de contacto.
func (r Report) Recipient() notifier.Recipient {
	return notifier.Recipient{UserID: r.ReporterUserID, Email: r.ContactEmail}
}

func (s *Service) record(ctx context.Context, r Report, cat notifier.Category, title, body string) (string, error) {
	rcpt := r.Recipient()
	if rcpt.IsZero() {
		return "", nil
	}
	return s.notifier.Record(ctx, notifier.Message{
		Recipient:       rcpt,
		Category:        cat,
		Title:           title,
		Body:            body,
		RelatedReportID: r.ID,
		ActionURL:       "/reports/" + r.ReferenceCode,
	})
}

type nopNotifier struct{}

func (nopNotifier) Record(context.Context, notifier.Message) (string, error) { return "", nil }
func (nopNotifier) Dispatch(context.Context, ...string)                      {}
