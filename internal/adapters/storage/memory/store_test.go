package memory

import (
	"context"
	"errors"
	"testing"
	"time"

	"pet-rescue/internal/domain/claims"
	"pet-rescue/internal/domain/notifications"
	"pet-rescue/internal/domain/reports"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var base = time.Date(2026, 5, 10, 12, 0, 0, 0, time.UTC)

func seedReport(t *testing.T, repo reports.Repository, id, code string, created time.Time) reports.Report {
	t.Helper()
	r := reports.Report{
		ID:            id,
		ReferenceCode: code,
		Type:          reports.TypeFound,
		Species:       reports.SpeciesDog,
		Color:         "brown",
		Location:      "Central Park",
		Status:        reports.StatusPending,
		CreatedAt:     created,
		UpdatedAt:     created,
	}
	require.NoError(t, repo.Create(context.Background(), r))
	return r
}

func TestWithinTx_RestoresOnError(t *testing.T) {
	s := NewStore()
	repo := NewReportsRepo(s)
	ctx := context.Background()

	boom := errors.New("boom")
	err := s.WithinTx(ctx, func(ctx context.Context) error {
		seedReport(t, repo, "r1", "AAAA1111", base)
		// tx anidada: reusa la de afuera (no deadlock)
		return s.WithinTx(ctx, func(ctx context.Context) error {
			if _, err := repo.GetByCode(ctx, "AAAA1111"); err != nil {
				return err
			}
			return boom
		})
	})
	assert.ErrorIs(t, err, boom)

	_, err = repo.GetByID(ctx, "r1")
	assert.ErrorIs(t, err, reports.ErrNotFound)
	_, err = repo.GetByCode(ctx, "AAAA1111")
	assert.ErrorIs(t, err, reports.ErrNotFound)
}

func TestWithinTx_RestoresOnPanic(t *testing.T) {
	s := NewStore()
	repo := NewReportsRepo(s)
	ctx := context.Background()

	assert.Panics(t, func() {
		_ = s.WithinTx(ctx, func(ctx context.Context) error {
			seedReport(t, repo, "r1", "AAAA1111", base)
			panic("kaboom")
		})
	})

	// el mutex quedó libre y el estado restaurado
	_, err := repo.GetByID(ctx, "r1")
	assert.ErrorIs(t, err, reports.ErrNotFound)
}

func TestReportsRepo_CodeTakenAndCAS(t *testing.T) {
	s := NewStore()
	repo := NewReportsRepo(s)
	ctx := context.Background()

	seedReport(t, repo, "r1", "AAAA1111", base)
	err := repo.Create(ctx, reports.Report{ID: "r2", ReferenceCode: "AAAA1111"})
	assert.ErrorIs(t, err, reports.ErrCodeTaken)

	require.NoError(t, repo.CompareAndSetStatus(ctx, "r1", reports.StatusPending, reports.StatusPublished, base))
	err = repo.CompareAndSetStatus(ctx, "r1", reports.StatusPending, reports.StatusPublished, base)
	assert.ErrorIs(t, err, reports.ErrStatusConflict)
	assert.ErrorIs(t, repo.CompareAndSetStatus(ctx, "nope", reports.StatusPending, reports.StatusPublished, base), reports.ErrNotFound)

	r, err := repo.GetByID(ctx, "r1")
	require.NoError(t, err)
	r.Status = reports.StatusClosed
	r.AdminNotes = "checked"
	require.NoError(t, repo.Update(ctx, r))

	got, err := repo.GetByID(ctx, "r1")
	require.NoError(t, err)
	assert.Equal(t, reports.StatusPublished, got.Status)
	assert.Equal(t, "checked", got.AdminNotes)
}

func TestReportsRepo_SearchNewestFirstWithLimit(t *testing.T) {
	s := NewStore()
	repo := NewReportsRepo(s)
	ctx := context.Background()

	seedReport(t, repo, "r1", "AAAA0001", base)
	seedReport(t, repo, "r2", "AAAA0002", base.Add(time.Minute))
	seedReport(t, repo, "r3", "AAAA0003", base.Add(2*time.Minute))

	got, err := repo.Search(ctx, reports.SearchFilter{Limit: 2, Query: "central"})
	require.NoError(t, err)
	require.Len(t, got, 2)
	assert.Equal(t, "r3", got[0].ID)
	assert.Equal(t, "r2", got[1].ID)
}

func TestClaimsRepo_DuplicateReviewAndCascade(t *testing.T) {
	s := NewStore()
	reportsRepo := NewReportsRepo(s)
	repo := NewClaimsRepo(s)
	ctx := context.Background()

	seedReport(t, reportsRepo, "r1", "AAAA1111", base)

	c := claims.Claim{ID: "c1", ReportID: "r1", ClaimantEmail: "alice@example.com", Status: claims.StatusPending, CreatedAt: base}
	require.NoError(t, repo.Create(ctx, c))
	assert.ErrorIs(t, repo.Create(ctx, claims.Claim{ID: "c2", ReportID: "r1", ClaimantEmail: "ALICE@example.com"}), claims.ErrDuplicateClaim)
	assert.ErrorIs(t, repo.Create(ctx, claims.Claim{ID: "c3", ReportID: "missing", ClaimantEmail: "x@example.com"}), claims.ErrNotFound)

	c.Status = claims.StatusRejected
	require.NoError(t, repo.MarkReviewed(ctx, c))
	assert.ErrorIs(t, repo.MarkReviewed(ctx, c), claims.ErrAlreadyReviewed)

	rejected, err := repo.ListByStatus(ctx, claims.StatusRejected, 10)
	require.NoError(t, err)
	assert.Len(t, rejected, 1)

	require.NoError(t, reportsRepo.Delete(ctx, "r1"))
	_, err = repo.GetByID(ctx, "c1")
	assert.ErrorIs(t, err, claims.ErrNotFound)
}

func TestReportsAndClaims_OwnListsAndCounts(t *testing.T) {
	s := NewStore()
	reportsRepo := NewReportsRepo(s)
	repo := NewClaimsRepo(s)
	ctx := context.Background()

	r1 := seedReport(t, reportsRepo, "r1", "AAAA1111", base)
	r1.ReporterUserID = "u-1"
	require.NoError(t, reportsRepo.Update(ctx, r1))
	r2 := seedReport(t, reportsRepo, "r2", "BBBB2222", base.Add(time.Hour))
	r2.ContactEmail = "Finder@example.com"
	require.NoError(t, reportsRepo.Update(ctx, r2))
	seedReport(t, reportsRepo, "r3", "CCCC3333", base.Add(2*time.Hour))

	mine, err := reportsRepo.ListByReporter(ctx, "u-1", "finder@example.com", 10)
	require.NoError(t, err)
	require.Len(t, mine, 2)
	assert.Equal(t, "r2", mine[0].ID)
	assert.Equal(t, "r1", mine[1].ID)

	rc, err := reportsRepo.Counts(ctx)
	require.NoError(t, err)
	assert.Equal(t, 3, rc.Total)
	assert.Equal(t, 3, rc.Unverified)
	assert.Equal(t, 3, rc.ByStatus[reports.StatusPending])

	require.NoError(t, repo.Create(ctx, claims.Claim{ID: "c1", ReportID: "r1", ClaimantEmail: "alice@example.com", Status: claims.StatusPending, CreatedAt: base}))
	require.NoError(t, repo.Create(ctx, claims.Claim{ID: "c2", ReportID: "r2", ClaimantUserID: "alice-id", ClaimantEmail: "a2@example.com", Status: claims.StatusPending, CreatedAt: base.Add(time.Minute)}))
	require.NoError(t, repo.Create(ctx, claims.Claim{ID: "c3", ReportID: "r2", ClaimantEmail: "bob@example.com", Status: claims.StatusPending, CreatedAt: base}))

	own, err := repo.ListByClaimant(ctx, "alice-id", "ALICE@example.com", 10)
	require.NoError(t, err)
	require.Len(t, own, 2)
	assert.Equal(t, "c2", own[0].ID)
	assert.Equal(t, "c1", own[1].ID)

	cc, err := repo.CountByStatus(ctx)
	require.NoError(t, err)
	assert.Equal(t, map[claims.Status]int{claims.StatusPending: 3}, cc)
}

func TestNotificationsRepo_ReadFlow(t *testing.T) {
	s := NewStore()
	repo := NewNotificationsRepo(s)
	ctx := context.Background()

	alice := notifications.Recipient{UserID: "alice-id", Email: "alice@example.com"}
	require.NoError(t, repo.Create(ctx, notifications.Notification{ID: "n1", Recipient: notifications.Recipient{UserID: "alice-id"}, CreatedAt: base}))
	require.NoError(t, repo.Create(ctx, notifications.Notification{ID: "n2", Recipient: notifications.Recipient{Email: "alice@example.com"}, CreatedAt: base.Add(time.Minute)}))
	require.NoError(t, repo.Create(ctx, notifications.Notification{ID: "n3", Recipient: notifications.Recipient{UserID: "bob-id"}, CreatedAt: base}))

	items, err := repo.ListByRecipient(ctx, alice, notifications.ListFilter{})
	require.NoError(t, err)
	require.Len(t, items, 2)
	assert.Equal(t, "n2", items[0].ID)

	require.NoError(t, repo.MarkRead(ctx, "n1", base))
	n, err := repo.CountUnread(ctx, alice)
	require.NoError(t, err)
	assert.Equal(t, 1, n)

	changed, err := repo.MarkAllRead(ctx, alice, base)
	require.NoError(t, err)
	assert.Equal(t, 1, changed)

	unread, err := repo.ListByRecipient(ctx, alice, notifications.ListFilter{UnreadOnly: true})
	require.NoError(t, err)
	assert.Empty(t, unread)

	assert.ErrorIs(t, repo.MarkRead(ctx, "missing", base), notifications.ErrNotFound)
}
