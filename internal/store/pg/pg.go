// Package pg is the PostgreSQL store implementation, over database/sql
// with the pgx stdlib driver. The tenancy contract is enforced centrally:
// every statement touching an organization-scoped table goes through
// scopedOrgID, which ANDs the carrier's organization id onto the query.
package pg

import (
	"context"
	"database/sql"
	"errors"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgconn"

	_ "github.com/jackc/pgx/v5/stdlib"

	"github.com/facturio/facturio/internal/contexts"
	"github.com/facturio/facturio/internal/store"
)

// Config configures the connection pool.
type Config struct {
	DSN             string        `conf:"dsn"                yaml:"dsn"                json:"dsn"`
	MaxOpenConns    int           `conf:"max_open_conns"     yaml:"max_open_conns"     json:"max_open_conns"`
	MaxIdleConns    int           `conf:"max_idle_conns"     yaml:"max_idle_conns"     json:"max_idle_conns"`
	ConnMaxLifetime time.Duration `conf:"conn_max_lifetime"  yaml:"conn_max_lifetime"  json:"conn_max_lifetime"`
}

type Store struct {
	db *sql.DB
}

var _ store.Store = (*Store)(nil)

// Open connects to PostgreSQL and tunes the pool.
func Open(cfg Config) (*Store, error) {
	db, err := sql.Open("pgx", cfg.DSN)
	if err != nil {
		return nil, err
	}

	if cfg.MaxOpenConns == 0 {
		cfg.MaxOpenConns = 50
	}

	if cfg.MaxIdleConns == 0 {
		cfg.MaxIdleConns = 25
	}

	if cfg.ConnMaxLifetime == 0 {
		cfg.ConnMaxLifetime = 15 * time.Minute
	}

	db.SetMaxOpenConns(cfg.MaxOpenConns)
	db.SetMaxIdleConns(cfg.MaxIdleConns)
	db.SetConnMaxLifetime(cfg.ConnMaxLifetime)

	return &Store{db: db}, nil
}

func (s *Store) Close() error { return s.db.Close() }

func (s *Store) DB() *sql.DB { return s.db }

// querier abstracts *sql.DB and *sql.Tx.
type querier interface {
	ExecContext(ctx context.Context, query string, args ...any) (sql.Result, error)
	QueryContext(ctx context.Context, query string, args ...any) (*sql.Rows, error)
	QueryRowContext(ctx context.Context, query string, args ...any) *sql.Row
}

// txKey carries the running transaction through the context, so nested
// store calls inside RunInTransaction share it.
type txKey struct{}

func (s *Store) q(ctx context.Context) querier {
	if tx, ok := ctx.Value(txKey{}).(*sql.Tx); ok {
		return tx
	}

	return s.db
}

// RunInTransaction executes fn within a transaction. Nested calls reuse
// the outer transaction.
func (s *Store) RunInTransaction(ctx context.Context, fn func(ctx context.Context) error) error {
	if _, ok := ctx.Value(txKey{}).(*sql.Tx); ok {
		return fn(ctx)
	}

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return err
	}

	defer func() { _ = tx.Rollback() }()

	if err := fn(context.WithValue(ctx, txKey{}, tx)); err != nil {
		return err
	}

	return tx.Commit()
}

// scopedOrgID is the mandatory predicate for organization-scoped tables.
func scopedOrgID(ctx context.Context) (uuid.UUID, error) {
	return contexts.RequireOrganizationID(ctx)
}

// mapError translates driver errors into the store taxonomy.
func mapError(err error) error {
	if err == nil {
		return nil
	}

	if errors.Is(err, sql.ErrNoRows) {
		return store.ErrNotFound
	}

	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) && pgErr.Code == "23505" {
		return store.ErrConflict
	}

	return err
}
