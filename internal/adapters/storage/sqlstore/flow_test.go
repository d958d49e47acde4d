package sqlstore_test

import (
	"context"
	"errors"
	"testing"
	"time"

	"pet-rescue/internal/adapters/storage/sqlite"
	"pet-rescue/internal/adapters/storage/sqlstore"
	"pet-rescue/internal/domain/claims"
	"pet-rescue/internal/domain/notifications"
	"pet-rescue/internal/domain/reports"
	"pet-rescue/internal/ports/capabilities"
	"pet-rescue/internal/ports/notifier"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type stack struct {
	reports       *reports.Service
	claims        *claims.Service
	notifications *notifications.Service
	claimsRepo    *sqlstore.ClaimsRepo
}

func newStack(t *testing.T) stack {
	t.Helper()
	db := sqlite.NewTestStore(t)

	notifSvc := notifications.NewService(sqlstore.NewNotificationsRepo(db))
	reportsSvc := reports.NewService(sqlstore.NewReportsRepo(db),
		reports.WithTx(db),
		reports.WithNotifier(notifSvc),
	)
	claimsRepo := sqlstore.NewClaimsRepo(db)
	claimsSvc := claims.NewService(claimsRepo, reportsSvc,
		claims.WithTx(db),
		claims.WithNotifier(notifSvc),
	)
	return stack{reports: reportsSvc, claims: claimsSvc, notifications: notifSvc, claimsRepo: claimsRepo}
}

func TestFlow_ClaimApprovalOnSQLite(t *testing.T) {
	st := newStack(t)
	ctx := context.Background()

	staff := capabilities.NewActor("staff-1", "", capabilities.All)
	reporter := capabilities.NewActor("reporter-1", "finder@example.com")
	alice := capabilities.NewActor("", "alice@example.com")

	rep, err := st.reports.Submit(ctx, reporter.UserID, reports.SubmitInput{
		Species:      "dog",
		Color:        "brown",
		Location:     "Park",
		Date:         time.Now(),
		ContactEmail: "finder@example.com",
	})
	require.NoError(t, err)

	c, err := st.claims.File(ctx, rep.ReferenceCode, alice, claims.FileInput{
		Name:    "Alice",
		Message: "He is mine",
	})
	require.NoError(t, err)
	assert.Equal(t, claims.StatusPending, c.Status)

	// report_submitted + claim_submitted para el reporter
	n, err := st.notifications.UnreadCount(ctx, reporter)
	require.NoError(t, err)
	assert.Equal(t, 2, n)

	_, err = st.claims.File(ctx, rep.ID, alice, claims.FileInput{Name: "Alice", Message: "again"})
	assert.ErrorIs(t, err, claims.ErrDuplicateClaim)

	approved, err := st.claims.Review(ctx, c.ID, claims.Decision{Approve: true}, staff)
	require.NoError(t, err)
	assert.Equal(t, claims.StatusApproved, approved.Status)

	got, err := st.reports.Get(ctx, rep.ID)
	require.NoError(t, err)
	assert.Equal(t, reports.StatusClaimed, got.Status)

	aliceInbox, err := st.notifications.List(ctx, alice, notifications.ListFilter{})
	require.NoError(t, err)
	require.Len(t, aliceInbox, 1)
	assert.Equal(t, notifier.CategoryClaimUpdate, aliceInbox[0].Category)

	n, err = st.notifications.UnreadCount(ctx, reporter)
	require.NoError(t, err)
	assert.Equal(t, 3, n)

	_, err = st.claims.Review(ctx, c.ID, claims.Decision{Approve: false}, staff)
	assert.True(t, errors.Is(err, claims.ErrInvalidTransition))
}

func TestFlow_FailedReviewRollsBackClaim(t *testing.T) {
	st := newStack(t)
	ctx := context.Background()
	staff := capabilities.NewActor("staff-1", "", capabilities.All)

	rep, err := st.reports.Submit(ctx, "", reports.SubmitInput{
		Species:  "cat",
		Location: "Riverside",
		Date:     time.Now(),
	})
	require.NoError(t, err)

	c, err := st.claims.File(ctx, rep.ID, capabilities.Anonymous(), claims.FileInput{
		Name:    "Bob",
		Email:   "bob@example.com",
		Message: "mine",
	})
	require.NoError(t, err)

	// staff cierra el reporte por fuera: la aprobación tiene que fallar sin dejar el claim aprobado
	_, err = st.reports.Transition(ctx, rep.ID, reports.StatusClosed, "duplicate", staff)
	require.NoError(t, err)

	_, err = st.claims.Review(ctx, c.ID, claims.Decision{Approve: true}, staff)
	require.ErrorIs(t, err, claims.ErrReportClosed)

	stored, err := st.claimsRepo.GetByID(ctx, c.ID)
	require.NoError(t, err)
	assert.Equal(t, claims.StatusPending, stored.Status)
}
