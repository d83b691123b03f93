// Package repository provides database access layer.
package repository

import (
	"context"
	"embed"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/cenkalti/backoff/v4"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"
)

//go:embed migrations/*.sql
var migrations embed.FS

const schemaUpFile = "migrations/000001_init.up.sql"

// DBTX is the subset of pgx shared by the pool and a transaction.
type DBTX interface {
	Exec(ctx context.Context, sql string, args ...any) (pgconn.CommandTag, error)
	Query(ctx context.Context, sql string, args ...any) (pgx.Rows, error)
	QueryRow(ctx context.Context, sql string, args ...any) pgx.Row
}

// PoolConfig holds connection pool limits. Zero values use the defaults.
type PoolConfig struct {
	MaxConns int32
	MinConns int32
}

// Repository provides database access methods.
type Repository struct {
	pool *pgxpool.Pool
	db   DBTX
	inTx bool
}

// New creates a new Repository with a connection pool.
func New(ctx context.Context, databaseURL string, pc PoolConfig) (*Repository, error) {
	config, err := pgxpool.ParseConfig(databaseURL)
	if err != nil {
		return nil, backoff.Permanent(fmt.Errorf("failed to parse database URL: %w", err))
	}

	config.MaxConns = 10
	config.MinConns = 2
	if pc.MaxConns > 0 {
		config.MaxConns = pc.MaxConns
	}
	if pc.MinConns > 0 {
		config.MinConns = pc.MinConns
	}
	if config.MinConns > config.MaxConns {
		config.MinConns = config.MaxConns
	}

	pool, err := pgxpool.NewWithConfig(ctx, config)
	if err != nil {
		return nil, fmt.Errorf("failed to create connection pool: %w", err)
	}

	if err := pool.Ping(ctx); err != nil {
		pool.Close()
		return nil, fmt.Errorf("failed to ping database: %w", err)
	}

	return &Repository{pool: pool, db: pool}, nil
}

// Connect calls New until it succeeds, the context ends or maxWait elapses.
// Only process startup uses it; request-path operations are never retried.
func Connect(ctx context.Context, databaseURL string, pc PoolConfig, maxWait time.Duration, logger *slog.Logger) (*Repository, error) {
	b := backoff.NewExponentialBackOff()
	b.InitialInterval = 250 * time.Millisecond
	b.MaxInterval = 5 * time.Second
	b.MaxElapsedTime = maxWait

	var repo *Repository
	op := func() error {
		r, err := New(ctx, databaseURL, pc)
		if err != nil {
			return err
		}
		repo = r
		return nil
	}
	notify := func(err error, wait time.Duration) {
		logger.Warn("database not ready, retrying",
			slog.String("error", err.Error()),
			slog.Duration("retry_in", wait),
		)
	}

	if err := backoff.RetryNotify(op, backoff.WithContext(b, ctx), notify); err != nil {
		return nil, err
	}
	return repo, nil
}

// EnsureSchema creates the tables if they do not exist.
func (r *Repository) EnsureSchema(ctx context.Context) error {
	ddl, err := migrations.ReadFile(schemaUpFile)
	if err != nil {
		return fmt.Errorf("read schema: %w", err)
	}
	if _, err := r.db.Exec(ctx, string(ddl)); err != nil {
		return wrapPgError("failed to apply schema", err)
	}
	return nil
}

// InTx runs fn against a Repository bound to a single transaction. The
// transaction commits when fn returns nil and rolls back otherwise. Calls
// on a Repository that is already in a transaction reuse it.
func (r *Repository) InTx(ctx context.Context, fn func(Store) error) error {
	if r.inTx {
		return fn(r)
	}
	return pgx.BeginFunc(ctx, r.pool, func(tx pgx.Tx) error {
		return fn(&Repository{pool: r.pool, db: tx, inTx: true})
	})
}

// Ping checks database connectivity.
func (r *Repository) Ping(ctx context.Context) error {
	return r.pool.Ping(ctx)
}

// Close closes the database connection pool.
func (r *Repository) Close() {
	r.pool.Close()
}

// Pool returns the underlying connection pool.
// Use sparingly - prefer adding methods to Repository.
func (r *Repository) Pool() *pgxpool.Pool {
	return r.pool
}

func scanErr(err, notFound error, op string) error {
	if errors.Is(err, pgx.ErrNoRows) {
		return notFound
	}
	return wrapPgError(op, err)
}
