package notifications

import (
	"context"
	"errors"
	"sort"
	"testing"
	"time"

	"pet-rescue/internal/platform/logger"
	"pet-rescue/internal/ports/capabilities"
	"pet-rescue/internal/ports/notifier"

	"github.com/google/go-cmp/cmp"
	"go.uber.org/goleak"
	"go.uber.org/zap"
	"go.uber.org/zap/zaptest/observer"
)

// Dispatch se desacopla del ctx de la request; no debe dejar goroutines vivas.
func TestMain(m *testing.M) {
	goleak.VerifyTestMain(m)
}

// -------------------------
// Test repo (in-memory)
// -------------------------

type testRepo struct {
	byID map[string]Notification
}

func newTestRepo() *testRepo {
	return &testRepo{byID: map[string]Notification{}}
}

func (r *testRepo) Create(_ context.Context, n Notification) error {
	r.byID[n.ID] = n
	return nil
}

func (r *testRepo) GetByID(_ context.Context, id string) (Notification, error) {
	n, ok := r.byID[id]
	if !ok {
		return Notification{}, ErrNotFound
	}
	return n, nil
}

func (r *testRepo) GetMany(_ context.Context, ids []string) ([]Notification, error) {
	out := make([]Notification, 0, len(ids))
	for _, id := range ids {
		if n, ok := r.byID[id]; ok {
			out = append(out, n)
		}
	}
	return out, nil
}

func (r *testRepo) ListByRecipient(_ context.Context, rcpt Recipient, f ListFilter) ([]Notification, error) {
	out := make([]Notification, 0)
	for _, n := range r.byID {
		if !n.IsFor(rcpt.UserID, rcpt.Email) {
			continue
		}
		if f.UnreadOnly && n.IsRead {
			continue
		}
		out = append(out, n)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].CreatedAt.After(out[j].CreatedAt) })
	return out, nil
}

func (r *testRepo) CountUnread(ctx context.Context, rcpt Recipient) (int, error) {
	items, _ := r.ListByRecipient(ctx, rcpt, ListFilter{UnreadOnly: true})
	return len(items), nil
}

func (r *testRepo) MarkRead(_ context.Context, id string, at time.Time) error {
	n, ok := r.byID[id]
	if !ok {
		return ErrNotFound
	}
	n.IsRead = true
	n.ReadAt = &at
	r.byID[id] = n
	return nil
}

func (r *testRepo) MarkAllRead(_ context.Context, rcpt Recipient, at time.Time) (int, error) {
	changed := 0
	for id, n := range r.byID {
		if !n.IsFor(rcpt.UserID, rcpt.Email) || n.IsRead {
			continue
		}
		n.IsRead = true
		n.ReadAt = &at
		r.byID[id] = n
		changed++
	}
	return changed, nil
}

type testDeliverer struct {
	delivered []string
	err       error
}

func (d *testDeliverer) Deliver(_ context.Context, n Notification) error {
	if d.err != nil {
		return d.err
	}
	d.delivered = append(d.delivered, n.ID)
	return nil
}

// -------------------------
// Helpers
// -------------------------

var fixedNow = time.Date(2026, 5, 10, 12, 0, 0, 0, time.UTC)

var (
	alice = capabilities.NewActor("alice-id", "alice@example.com")
	bob   = capabilities.NewActor("bob-id", "bob@example.com")
)

func newTestService(opts ...Option) (*Service, *testRepo) {
	repo := newTestRepo()
	svc := NewService(repo, opts...)
	svc.now = func() time.Time { return fixedNow }
	return svc, repo
}

func msgFor(rcpt Recipient) Message {
	return Message{
		Recipient: rcpt,
		Category:  notifier.CategoryClaimUpdate,
		Title:     "Your claim was approved",
		Body:      "Come pick up Rex.",
	}
}

// -------------------------
// Tests
// -------------------------

func TestCreate_ValidatesMessage(t *testing.T) {
	svc, _ := newTestService()

	_, err := svc.Create(context.Background(), Message{Category: "spam"})
	if !errors.Is(err, ErrInvalidInput) {
		t.Fatalf("expected ErrInvalidInput, got %v", err)
	}
}

func TestCreate_NormalizesRecipientEmail(t *testing.T) {
	svc, _ := newTestService()

	n, err := svc.Create(context.Background(), msgFor(Recipient{Email: " Alice@Example.com "}))
	if err != nil {
		t.Fatalf("Create: %v", err)
	}
	want := Notification{
		ID:        n.ID,
		Recipient: Recipient{Email: "alice@example.com"},
		Category:  notifier.CategoryClaimUpdate,
		Title:     "Your claim was approved",
		Body:      "Come pick up Rex.",
		CreatedAt: fixedNow,
	}
	if diff := cmp.Diff(want, n); diff != "" {
		t.Fatalf("notification mismatch (-want +got):\n%s", diff)
	}
}

func TestDispatch_DeliveryFailureIsOnlyLogged(t *testing.T) {
	core, logs := observer.New(zap.WarnLevel)
	d := &testDeliverer{err: errors.New("smtp down")}
	svc, repo := newTestService(WithDeliverer(d), WithLogger(logger.Wrap(zap.New(core))))

	id, err := svc.Record(context.Background(), msgFor(Recipient{UserID: "alice-id"}))
	if err != nil {
		t.Fatalf("Record: %v", err)
	}
	svc.Dispatch(context.Background(), id)

	if _, ok := repo.byID[id]; !ok {
		t.Fatalf("notification must stay persisted")
	}
	if logs.FilterMessage("notification delivery failed").Len() != 1 {
		t.Fatalf("expected a warning log, got %v", logs.All())
	}
}

func TestDispatch_DeliversRecorded(t *testing.T) {
	d := &testDeliverer{}
	svc, _ := newTestService(WithDeliverer(d))

	id1, _ := svc.Record(context.Background(), msgFor(Recipient{UserID: "alice-id"}))
	id2, _ := svc.Record(context.Background(), msgFor(Recipient{Email: "bob@example.com"}))
	svc.Dispatch(context.Background(), id1, "", id2)

	if diff := cmp.Diff([]string{id1, id2}, d.delivered); diff != "" {
		t.Fatalf("delivered mismatch (-want +got):\n%s", diff)
	}
}

func TestNotify_PersistsAndDelivers(t *testing.T) {
	d := &testDeliverer{}
	svc, repo := newTestService(WithDeliverer(d))

	n, err := svc.Notify(context.Background(), msgFor(Recipient{UserID: "alice-id"}))
	if err != nil {
		t.Fatalf("Notify: %v", err)
	}
	if _, ok := repo.byID[n.ID]; !ok || len(d.delivered) != 1 {
		t.Fatalf("expected persisted and delivered")
	}
}

func TestMarkRead_OnlyRecipient(t *testing.T) {
	svc, _ := newTestService()
	n, _ := svc.Create(context.Background(), msgFor(Recipient{Email: "alice@example.com"}))

	if _, err := svc.MarkRead(context.Background(), n.ID, bob); !errors.Is(err, ErrForbidden) {
		t.Fatalf("expected ErrForbidden, got %v", err)
	}

	got, err := svc.MarkRead(context.Background(), n.ID, alice)
	if err != nil {
		t.Fatalf("MarkRead: %v", err)
	}
	if !got.IsRead || got.ReadAt == nil {
		t.Fatalf("expected read notification")
	}

	// idempotente
	if _, err := svc.MarkRead(context.Background(), n.ID, alice); err != nil {
		t.Fatalf("second MarkRead: %v", err)
	}
	if _, err := svc.MarkRead(context.Background(), "missing", alice); !errors.Is(err, ErrNotFound) {
		t.Fatalf("expected ErrNotFound, got %v", err)
	}
}

func TestMarkAllRead_Idempotent(t *testing.T) {
	svc, _ := newTestService()
	ctx := context.Background()
	_, _ = svc.Create(ctx, msgFor(Recipient{UserID: "alice-id"}))
	_, _ = svc.Create(ctx, msgFor(Recipient{Email: "alice@example.com"}))
	_, _ = svc.Create(ctx, msgFor(Recipient{UserID: "bob-id"}))

	if c, _ := svc.UnreadCount(ctx, alice); c != 2 {
		t.Fatalf("expected 2 unread for alice, got %d", c)
	}

	changed, err := svc.MarkAllRead(ctx, alice)
	if err != nil || changed != 2 {
		t.Fatalf("MarkAllRead: %v changed=%d", err, changed)
	}
	changed, err = svc.MarkAllRead(ctx, alice)
	if err != nil || changed != 0 {
		t.Fatalf("second MarkAllRead should change nothing: %v changed=%d", err, changed)
	}
	if c, _ := svc.UnreadCount(ctx, bob); c != 1 {
		t.Fatalf("bob must keep his unread notification, got %d", c)
	}

	if _, err := svc.MarkAllRead(ctx, capabilities.Anonymous()); !errors.Is(err, ErrForbidden) {
		t.Fatalf("anonymous must be rejected, got %v", err)
	}
}

func TestList_UnreadOnly(t *testing.T) {
	svc, _ := newTestService()
	ctx := context.Background()
	first, _ := svc.Create(ctx, msgFor(Recipient{UserID: "alice-id"}))
	_, _ = svc.Create(ctx, msgFor(Recipient{UserID: "alice-id"}))
	_, _ = svc.MarkRead(ctx, first.ID, alice)

	all, _ := svc.List(ctx, alice, ListFilter{})
	unread, _ := svc.List(ctx, alice, ListFilter{UnreadOnly: true})
	if len(all) != 2 || len(unread) != 1 {
		t.Fatalf("expected 2 total / 1 unread, got %d / %d", len(all), len(unread))
	}
}
