// Package sqlite es el store embebido (un archivo, sin servidor).
package sqlite

import (
	"database/sql"
	"errors"
	"fmt"
	"strings"

	"pet-rescue/internal/adapters/storage/sqlstore"

	"modernc.org/sqlite"
	sqlite3 "modernc.org/sqlite/lib"
)

// Open abre la base y configura pragmas.
func Open(path string) (*sql.DB, error) {
	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, fmt.Errorf("opening database: %w", err)
	}

	// SQLite admite un solo escritor; con :memory: además cada conexión es otra base.
	db.SetMaxOpenConns(1)

	pragmas := []string{
		"PRAGMA journal_mode=WAL",
		"PRAGMA busy_timeout=5000",
		"PRAGMA foreign_keys=ON",
		"PRAGMA synchronous=NORMAL",
	}
	for _, p := range pragmas {
		if _, err := db.Exec(p); err != nil {
			db.Close()
			return nil, fmt.Errorf("setting pragma %q: %w", p, err)
		}
	}

	return db, nil
}

// Dialect para sqlstore: placeholders ?, LOWER(..) LIKE y SQLITE_CONSTRAINT_UNIQUE.
var Dialect = sqlstore.Dialect{
	Name: "sqlite",
	IsUniqueViolation: func(err error) bool {
		var se *sqlite.Error
		if !errors.As(err, &se) {
			return false
		}
		switch se.Code() {
		case sqlite3.SQLITE_CONSTRAINT_UNIQUE, sqlite3.SQLITE_CONSTRAINT_PRIMARYKEY:
			return true
		case sqlite3.SQLITE_CONSTRAINT:
			// sin extended result codes
			return strings.Contains(se.Error(), "UNIQUE constraint failed")
		}
		return false
	},
}

func NewStore(db *sql.DB) *sqlstore.DB {
	return sqlstore.New(db, Dialect)
}
