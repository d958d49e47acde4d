// Package sqlstore tiene los repos SQL compartidos por Postgres y SQLite.
// Las queries se escriben con `?` y el Dialect las adapta.
package sqlstore

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strconv"
	"strings"
	"time"
)

// Dialect: lo poco que cambia entre motores. Lo definen los paquetes postgres y sqlite.
type Dialect struct {
	Name string

	// NumberedParams: $1, $2... en vez de ?.
	NumberedParams bool

	// ContainsFold devuelve la condición "col contiene ?" sin distinguir mayúsculas.
	ContainsFold func(col string) string

	// IsUniqueViolation reconoce el error de índice único del driver.
	IsUniqueViolation func(err error) bool
}

func (d Dialect) rebind(q string) string {
	if !d.NumberedParams {
		return q
	}
	var sb strings.Builder
	sb.Grow(len(q) + 16)
	n := 0
	for _, ch := range q {
		if ch == '?' {
			n++
			sb.WriteByte('$')
			sb.WriteString(strconv.Itoa(n))
			continue
		}
		sb.WriteRune(ch)
	}
	return sb.String()
}

func (d Dialect) uniqueViolation(err error) bool {
	return err != nil && d.IsUniqueViolation != nil && d.IsUniqueViolation(err)
}

type querier interface {
	ExecContext(ctx context.Context, query string, args ...any) (sql.Result, error)
	QueryContext(ctx context.Context, query string, args ...any) (*sql.Rows, error)
	QueryRowContext(ctx context.Context, query string, args ...any) *sql.Row
}

// DB envuelve el pool y sabe abrir transacciones que viajan en el ctx.
// Implementa txn.Runner.
type DB struct {
	db      *sql.DB
	dialect Dialect
}

func New(db *sql.DB, d Dialect) *DB {
	if d.ContainsFold == nil {
		d.ContainsFold = func(col string) string {
			return "LOWER(" + col + ") LIKE LOWER(?) ESCAPE '\\'"
		}
	}
	return &DB{db: db, dialect: d}
}

type txKey struct{}

type txValue struct {
	owner *DB
	tx    *sql.Tx
}

// WithinTx corre fn en una transacción. Si ctx ya trae una tx de este DB, la reutiliza.
func (s *DB) WithinTx(ctx context.Context, fn func(ctx context.Context) error) (err error) {
	if v, ok := ctx.Value(txKey{}).(txValue); ok && v.owner == s {
		return fn(ctx)
	}

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin tx: %w", err)
	}
	defer func() {
		if p := recover(); p != nil {
			_ = tx.Rollback()
			panic(p)
		}
	}()

	if err := fn(context.WithValue(ctx, txKey{}, txValue{owner: s, tx: tx})); err != nil {
		if rbErr := tx.Rollback(); rbErr != nil && !errors.Is(rbErr, sql.ErrTxDone) {
			return errors.Join(err, fmt.Errorf("rollback: %w", rbErr))
		}
		return err
	}
	if err := tx.Commit(); err != nil {
		return fmt.Errorf("commit: %w", err)
	}
	return nil
}

func (s *DB) conn(ctx context.Context) querier {
	if v, ok := ctx.Value(txKey{}).(txValue); ok && v.owner == s {
		return v.tx
	}
	return s.db
}

func (s *DB) exec(ctx context.Context, q string, args ...any) (sql.Result, error) {
	return s.conn(ctx).ExecContext(ctx, s.dialect.rebind(q), args...)
}

func (s *DB) query(ctx context.Context, q string, args ...any) (*sql.Rows, error) {
	return s.conn(ctx).QueryContext(ctx, s.dialect.rebind(q), args...)
}

func (s *DB) queryRow(ctx context.Context, q string, args ...any) *sql.Row {
	return s.conn(ctx).QueryRowContext(ctx, s.dialect.rebind(q), args...)
}

// likePattern arma "%texto%" escapando los comodines de LIKE.
func likePattern(s string) string {
	r := strings.NewReplacer(`\`, `\\`, `%`, `\%`, `_`, `\_`)
	return "%" + r.Replace(s) + "%"
}

// Los time.Time se guardan siempre en UTC.
func toNullTime(t *time.Time) sql.NullTime {
	if t == nil {
		return sql.NullTime{}
	}
	return sql.NullTime{Time: t.UTC(), Valid: true}
}

func fromNullTime(t sql.NullTime) *time.Time {
	if !t.Valid {
		return nil
	}
	v := t.Time.UTC()
	return &v
}
