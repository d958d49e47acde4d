package postgres

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"pet-rescue/internal/adapters/storage/sqlstore"

	"github.com/jackc/pgx/v5/pgconn"
	_ "github.com/jackc/pgx/v5/stdlib"
)

// Open abre una conexión pool a Postgres usando pgx (database/sql).
func Open(dsn string) (*sql.DB, error) {
	db, err := sql.Open("pgx", dsn)
	if err != nil {
		return nil, err
	}

	// defaults razonables para MVP (ajustable luego)
	db.SetMaxOpenConns(10)
	db.SetMaxIdleConns(5)
	db.SetConnMaxIdleTime(5 * time.Minute)
	db.SetConnMaxLifetime(30 * time.Minute)

	ctx, cancel := context.WithTimeout(context.Background(), 3*time.Second)
	defer cancel()

	if err := db.PingContext(ctx); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("ping postgres: %w", err)
	}

	return db, nil
}

// Dialect para sqlstore: $n, ILIKE y código 23505.
var Dialect = sqlstore.Dialect{
	Name:           "postgres",
	NumberedParams: true,
	ContainsFold: func(col string) string {
		return col + ` ILIKE ? ESCAPE '\'`
	},
	IsUniqueViolation: func(err error) bool {
		var pgErr *pgconn.PgError
		return errors.As(err, &pgErr) && pgErr.Code == "23505"
	},
}

// NewStore arma el sqlstore sobre una conexión ya abierta.
func NewStore(db *sql.DB) *sqlstore.DB {
	return sqlstore.New(db, Dialect)
}
