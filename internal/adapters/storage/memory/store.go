// Package memory guarda todo en mapas. Sirve para dev y tests de punta a punta;
// no persiste nada entre reinicios.
package memory

import (
	"context"
	"sync"

	"pet-rescue/internal/domain/claims"
	"pet-rescue/internal/domain/notifications"
	"pet-rescue/internal/domain/reports"
)

type txKey struct{}

// Store es el estado compartido por los tres repos. Un solo mutex para todo:
// WithinTx lo toma durante toda la función y los repos no lo vuelven a tomar
// si el ctx ya está dentro de la transacción.
type Store struct {
	mu sync.Mutex

	reports       map[string]reports.Report
	codes         map[string]string // reference code -> report id
	claims        map[string]claims.Claim
	notifications map[string]notifications.Notification
}

func NewStore() *Store {
	return &Store{
		reports:       make(map[string]reports.Report),
		codes:         make(map[string]string),
		claims:        make(map[string]claims.Claim),
		notifications: make(map[string]notifications.Notification),
	}
}

func (s *Store) inTx(ctx context.Context) bool {
	owner, _ := ctx.Value(txKey{}).(*Store)
	return owner == s
}

// lock devuelve el unlock correspondiente (no-op dentro de una tx).
func (s *Store) lock(ctx context.Context) func() {
	if s.inTx(ctx) {
		return func() {}
	}
	s.mu.Lock()
	return s.mu.Unlock
}

// WithinTx: si fn devuelve error (o hace panic) se restaura la foto tomada al entrar.
// Las tx anidadas reusan la de afuera.
func (s *Store) WithinTx(ctx context.Context, fn func(ctx context.Context) error) (err error) {
	if s.inTx(ctx) {
		return fn(ctx)
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	snap := s.snapshot()
	defer func() {
		if p := recover(); p != nil {
			s.restore(snap)
			panic(p)
		}
		if err != nil {
			s.restore(snap)
		}
	}()

	return fn(context.WithValue(ctx, txKey{}, s))
}

type snapshot struct {
	reports       map[string]reports.Report
	codes         map[string]string
	claims        map[string]claims.Claim
	notifications map[string]notifications.Notification
}

// Los valores son structs; los punteros que tienen (*time.Time) nunca se mutan
// en el lugar, así que alcanza con copiar los mapas.
func (s *Store) snapshot() snapshot {
	return snapshot{
		reports:       cloneMap(s.reports),
		codes:         cloneMap(s.codes),
		claims:        cloneMap(s.claims),
		notifications: cloneMap(s.notifications),
	}
}

func (s *Store) restore(snap snapshot) {
	s.reports = snap.reports
	s.codes = snap.codes
	s.claims = snap.claims
	s.notifications = snap.notifications
}

func cloneMap[K comparable, V any](m map[K]V) map[K]V {
	out := make(map[K]V, len(m))
	for k, v := range m {
		out[k] = v
	}
	return out
}
