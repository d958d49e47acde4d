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

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var base = time.Date(2026, 5, 10, 12, 0, 0, 0, time.UTC)

func newReport(code string, created time.Time) reports.Report {
	return reports.Report{
		ID:            uuid.NewString(),
		ReferenceCode: code,
		Type:          reports.TypeFound,
		Name:          "Rex",
		Species:       reports.SpeciesDog,
		Breed:         "Labrador",
		Color:         "Brown",
		Gender:        reports.GenderUnknown,
		Description:   "Red collar, very friendly",
		Location:      "Central Park",
		Date:          time.Date(2026, 5, 9, 0, 0, 0, 0, time.UTC),
		ContactEmail:  "finder@example.com",
		Status:        reports.StatusPending,
		CreatedAt:     created,
		UpdatedAt:     created,
	}
}

func TestReportsRepo_CreateGetAndCodeUniqueness(t *testing.T) {
	db := sqlite.NewTestStore(t)
	repo := sqlstore.NewReportsRepo(db)
	ctx := context.Background()

	r := newReport("AAAA1111", base)
	require.NoError(t, repo.Create(ctx, r))

	got, err := repo.GetByCode(ctx, "AAAA1111")
	require.NoError(t, err)
	assert.Equal(t, r.ID, got.ID)
	assert.Equal(t, r.Date, got.Date)
	assert.True(t, r.CreatedAt.Equal(got.CreatedAt))
	assert.Nil(t, got.VerifiedAt)

	dup := newReport("AAAA1111", base)
	err = repo.Create(ctx, dup)
	assert.ErrorIs(t, err, reports.ErrCodeTaken)

	_, err = repo.GetByID(ctx, uuid.NewString())
	assert.ErrorIs(t, err, reports.ErrNotFound)
}

func TestReportsRepo_UpdateKeepsStatusAndCAS(t *testing.T) {
	db := sqlite.NewTestStore(t)
	repo := sqlstore.NewReportsRepo(db)
	ctx := context.Background()

	r := newReport("BBBB2222", base)
	require.NoError(t, repo.Create(ctx, r))

	now := base.Add(time.Hour)
	r.IsVerified = true
	r.VerifiedBy = "staff-1"
	r.VerifiedAt = &now
	r.Status = reports.StatusClosed // Update lo ignora
	require.NoError(t, repo.Update(ctx, r))

	got, err := repo.GetByID(ctx, r.ID)
	require.NoError(t, err)
	assert.Equal(t, reports.StatusPending, got.Status)
	require.NotNil(t, got.VerifiedAt)
	assert.True(t, now.Equal(*got.VerifiedAt))

	require.NoError(t, repo.CompareAndSetStatus(ctx, r.ID, reports.StatusPending, reports.StatusPublished, now))
	err = repo.CompareAndSetStatus(ctx, r.ID, reports.StatusPending, reports.StatusPublished, now)
	assert.ErrorIs(t, err, reports.ErrStatusConflict)
	err = repo.CompareAndSetStatus(ctx, uuid.NewString(), reports.StatusPending, reports.StatusPublished, now)
	assert.ErrorIs(t, err, reports.ErrNotFound)
}

func TestReportsRepo_Search(t *testing.T) {
	db := sqlite.NewTestStore(t)
	repo := sqlstore.NewReportsRepo(db)
	ctx := context.Background()

	dog := newReport("CCCC0001", base)
	cat := newReport("CCCC0002", base.Add(time.Minute))
	cat.Species = reports.SpeciesCat
	cat.Name = "Luna"
	cat.Breed = "Siamese"
	cat.Color = "Cream"
	cat.Location = "Riverside 100% park"
	cat.Description = ""
	cat.IsVerified = true
	for _, r := range []reports.Report{dog, cat} {
		require.NoError(t, repo.Create(ctx, r))
	}

	all, err := repo.Search(ctx, reports.SearchFilter{})
	require.NoError(t, err)
	require.Len(t, all, 2)
	assert.Equal(t, cat.ID, all[0].ID, "newest first")

	cases := []struct {
		name string
		f    reports.SearchFilter
		want []string
	}{
		{"query case-insensitive", reports.SearchFilter{Query: "LABRA"}, []string{dog.ID}},
		{"query on description", reports.SearchFilter{Query: "collar"}, []string{dog.ID}},
		{"species", reports.SearchFilter{Species: reports.SpeciesCat}, []string{cat.ID}},
		{"color substring", reports.SearchFilter{Color: "rea"}, []string{cat.ID}},
		{"location with wildcard char", reports.SearchFilter{Location: "100%"}, []string{cat.ID}},
		{"verified only", reports.SearchFilter{VerifiedOnly: true}, []string{cat.ID}},
		{"and-combined", reports.SearchFilter{Species: reports.SpeciesDog, Query: "luna"}, nil},
		{"limit", reports.SearchFilter{Limit: 1}, []string{cat.ID}},
	}
	for _, tc := range cases {
		got, err := repo.Search(ctx, tc.f)
		require.NoError(t, err, tc.name)
		ids := make([]string, 0, len(got))
		for _, r := range got {
			ids = append(ids, r.ID)
		}
		if tc.want == nil {
			assert.Empty(t, ids, tc.name)
			continue
		}
		assert.Equal(t, tc.want, ids, tc.name)
	}
}

func newClaim(reportID, email string) claims.Claim {
	return claims.Claim{
		ID:            uuid.NewString(),
		ReportID:      reportID,
		Type:          claims.TypeClaim,
		ClaimantName:  "Alice",
		ClaimantEmail: email,
		Message:       "mine",
		Status:        claims.StatusPending,
		CreatedAt:     base,
		UpdatedAt:     base,
	}
}

func TestClaimsRepo_DuplicateReviewAndCascade(t *testing.T) {
	db := sqlite.NewTestStore(t)
	reportsRepo := sqlstore.NewReportsRepo(db)
	repo := sqlstore.NewClaimsRepo(db)
	ctx := context.Background()

	r := newReport("DDDD0001", base)
	require.NoError(t, reportsRepo.Create(ctx, r))

	c := newClaim(r.ID, "alice@example.com")
	require.NoError(t, repo.Create(ctx, c))
	assert.ErrorIs(t, repo.Create(ctx, newClaim(r.ID, "ALICE@example.com")), claims.ErrDuplicateClaim)

	now := base.Add(time.Hour)
	c.Status = claims.StatusApproved
	c.ReviewedBy = "staff-1"
	c.ReviewedAt = &now
	c.UpdatedAt = now
	require.NoError(t, repo.MarkReviewed(ctx, c))
	assert.ErrorIs(t, repo.MarkReviewed(ctx, c), claims.ErrAlreadyReviewed)

	pending, err := repo.ListByStatus(ctx, claims.StatusPending, 10)
	require.NoError(t, err)
	assert.Empty(t, pending)

	require.NoError(t, reportsRepo.Delete(ctx, r.ID))
	_, err = repo.GetByID(ctx, c.ID)
	assert.ErrorIs(t, err, claims.ErrNotFound, "claims cascade with their report")
}

func TestReportsRepo_ListByReporterAndCounts(t *testing.T) {
	db := sqlite.NewTestStore(t)
	repo := sqlstore.NewReportsRepo(db)
	ctx := context.Background()

	byUser := newReport("EEEE0001", base)
	byUser.ReporterUserID = "u-1"
	byUser.ContactEmail = "x@example.com"
	byEmail := newReport("EEEE0002", base.Add(time.Hour))
	byEmail.ContactEmail = "FINDER@example.com"
	other := newReport("EEEE0003", base.Add(2*time.Hour))
	other.ContactEmail = "other@example.com"
	other.Type = reports.TypeLost
	other.IsVerified = true
	for _, r := range []reports.Report{byUser, byEmail, other} {
		require.NoError(t, repo.Create(ctx, r))
	}
	require.NoError(t, repo.CompareAndSetStatus(ctx, other.ID, reports.StatusPending, reports.StatusPublished, base))

	got, err := repo.ListByReporter(ctx, "u-1", "finder@example.com", 10)
	require.NoError(t, err)
	require.Len(t, got, 2)
	assert.Equal(t, byEmail.ID, got[0].ID)
	assert.Equal(t, byUser.ID, got[1].ID)

	none, err := repo.ListByReporter(ctx, "", "", 10)
	require.NoError(t, err)
	assert.Empty(t, none)

	c, err := repo.Counts(ctx)
	require.NoError(t, err)
	assert.Equal(t, 3, c.Total)
	assert.Equal(t, 2, c.Unverified)
	assert.Equal(t, map[reports.Status]int{reports.StatusPending: 2, reports.StatusPublished: 1}, c.ByStatus)
	assert.Equal(t, map[reports.Type]int{reports.TypeFound: 2, reports.TypeLost: 1}, c.ByType)
}

func TestClaimsRepo_ListByClaimantAndCounts(t *testing.T) {
	db := sqlite.NewTestStore(t)
	reportsRepo := sqlstore.NewReportsRepo(db)
	repo := sqlstore.NewClaimsRepo(db)
	ctx := context.Background()

	r1 := newReport("FFFF0001", base)
	r2 := newReport("FFFF0002", base)
	require.NoError(t, reportsRepo.Create(ctx, r1))
	require.NoError(t, reportsRepo.Create(ctx, r2))

	byEmail := newClaim(r1.ID, "Alice@example.com")
	byUser := newClaim(r2.ID, "alice.work@example.com")
	byUser.ClaimantUserID = "alice-id"
	byUser.CreatedAt = base.Add(time.Hour)
	bob := newClaim(r2.ID, "bob@example.com")
	for _, c := range []claims.Claim{byEmail, byUser, bob} {
		require.NoError(t, repo.Create(ctx, c))
	}

	got, err := repo.ListByClaimant(ctx, "alice-id", "ALICE@example.com", 10)
	require.NoError(t, err)
	require.Len(t, got, 2)
	assert.Equal(t, byUser.ID, got[0].ID)
	assert.Equal(t, byEmail.ID, got[1].ID)

	now := base.Add(time.Hour)
	bob.Status = claims.StatusRejected
	bob.ReviewedAt = &now
	bob.UpdatedAt = now
	require.NoError(t, repo.MarkReviewed(ctx, bob))

	counts, err := repo.CountByStatus(ctx)
	require.NoError(t, err)
	assert.Equal(t, map[claims.Status]int{claims.StatusPending: 2, claims.StatusRejected: 1}, counts)
}

func TestNotificationsRepo_RecipientMatchingAndRead(t *testing.T) {
	db := sqlite.NewTestStore(t)
	repo := sqlstore.NewNotificationsRepo(db)
	ctx := context.Background()

	mk := func(rcpt notifications.Recipient, at time.Time) notifications.Notification {
		n := notifications.Notification{
			ID:        uuid.NewString(),
			Recipient: rcpt,
			Category:  "claim_update",
			Title:     "hello",
			CreatedAt: at,
		}
		require.NoError(t, repo.Create(ctx, n))
		return n
	}
	byUser := mk(notifications.Recipient{UserID: "alice-id"}, base)
	byEmail := mk(notifications.Recipient{Email: "alice@example.com"}, base.Add(time.Minute))
	mk(notifications.Recipient{UserID: "bob-id"}, base)

	alice := notifications.Recipient{UserID: "alice-id", Email: "alice@example.com"}
	items, err := repo.ListByRecipient(ctx, alice, notifications.ListFilter{})
	require.NoError(t, err)
	require.Len(t, items, 2)
	assert.Equal(t, byEmail.ID, items[0].ID)

	require.NoError(t, repo.MarkRead(ctx, byUser.ID, base.Add(time.Hour)))
	require.NoError(t, repo.MarkRead(ctx, byUser.ID, base.Add(2*time.Hour)), "idempotent")
	assert.ErrorIs(t, repo.MarkRead(ctx, "missing", base), notifications.ErrNotFound)

	unread, err := repo.CountUnread(ctx, alice)
	require.NoError(t, err)
	assert.Equal(t, 1, unread)

	changed, err := repo.MarkAllRead(ctx, alice, base.Add(time.Hour))
	require.NoError(t, err)
	assert.Equal(t, 1, changed)
	changed, err = repo.MarkAllRead(ctx, alice, base.Add(time.Hour))
	require.NoError(t, err)
	assert.Equal(t, 0, changed)

	got, err := repo.GetMany(ctx, []string{byUser.ID, byEmail.ID})
	require.NoError(t, err)
	assert.Len(t, got, 2)

	nobody, err := repo.ListByRecipient(ctx, notifications.Recipient{}, notifications.ListFilter{})
	require.NoError(t, err)
	assert.Empty(t, nobody)
}

func TestWithinTx_RollsBackOnError(t *testing.T) {
	db := sqlite.NewTestStore(t)
	repo := sqlstore.NewReportsRepo(db)
	ctx := context.Background()

	r := newReport("EEEE0001", base)
	boom := errors.New("boom")
	err := db.WithinTx(ctx, func(ctx context.Context) error {
		if err := repo.Create(ctx, r); err != nil {
			return err
		}
		if _, err := repo.GetByID(ctx, r.ID); err != nil {
			return err
		}
		return boom
	})
	assert.ErrorIs(t, err, boom)

	_, err = repo.GetByID(ctx, r.ID)
	assert.ErrorIs(t, err, reports.ErrNotFound)
}
