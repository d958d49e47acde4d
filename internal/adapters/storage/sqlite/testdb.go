package sqlite

import (
	"context"
	"testing"

	"pet-rescue/internal/adapters/storage/sqlstore"
)

// NewTestStore crea una base en memoria con el schema aplicado.
func NewTestStore(t *testing.T) *sqlstore.DB {
	t.Helper()

	db, err := Open(":memory:")
	if err != nil {
		t.Fatalf("opening test database: %v", err)
	}
	if err := Migrate(context.Background(), db); err != nil {
		db.Close()
		t.Fatalf("creating test database schema: %v", err)
	}
	t.Cleanup(func() { db.Close() })

	return NewStore(db)
}
