package db

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"
)

const pgUniqueViolation = "23505"

// PgxPool is the subset of *pgxpool.Pool used here. pgxmock.PgxPoolIface satisfies it.
type PgxPool interface {
	Exec(ctx context.Context, sql string, args ...any) (pgconn.CommandTag, error)
	Query(ctx context.Context, sql string, args ...any) (pgx.Rows, error)
	QueryRow(ctx context.Context, sql string, args ...any) pgx.Row
	Begin(ctx context.Context) (pgx.Tx, error)
	Ping(ctx context.Context) error
	Close()
}

type pgxQuerier interface {
	Exec(ctx context.Context, sql string, args ...any) (pgconn.CommandTag, error)
	Query(ctx context.Context, sql string, args ...any) (pgx.Rows, error)
	QueryRow(ctx context.Context, sql string, args ...any) pgx.Row
}

// NewPostgresPool opens a pool whose connections all resolve unqualified table
// names inside schema. An empty schema keeps the server default search_path.
func NewPostgresPool(ctx context.Context, dbURL, schema string, maxConns int) (*pgxpool.Pool, error) {
	cfg, err := pgxpool.ParseConfig(dbURL)
	if err != nil {
		return nil, fmt.Errorf("invalid DB URL: %w", err)
	}

	if maxConns > 0 {
		cfg.MaxConns = int32(maxConns)
	}
	cfg.MaxConnLifetime = time.Hour

	if schema != "" {
		setSearchPath := "SET search_path TO " + pgx.Identifier{schema}.Sanitize() + ", public"
		cfg.AfterConnect = func(ctx context.Context, conn *pgx.Conn) error {
			_, err := conn.Exec(ctx, setSearchPath)
			return err
		}
	}

	pool, err := pgxpool.NewWithConfig(ctx, cfg)
	if err != nil {
		return nil, fmt.Errorf("failed to connect to PostgreSQL: %w", err)
	}

	return pool, nil
}

type Postgres struct {
	pgQuerier
	pool       PgxPool
	schema     string
	schemaOnce sync.Once
	schemaErr  error
}

func NewPostgres(pool PgxPool, schema string, queryTimeout time.Duration) *Postgres {
	return &Postgres{
		pgQuerier: pgQuerier{q: pool, timeout: queryTimeout},
		pool:      pool,
		schema:    schema,
	}
}

func (p *Postgres) Backend() string { return DriverPostgres }

func (p *Postgres) Ping(ctx context.Context) error {
	return p.pool.Ping(ctx)
}

func (p *Postgres) Close() {
	p.pool.Close()
}

func (p *Postgres) WithTx(ctx context.Context, fn func(q Querier) error) error {
	tx, err := p.pool.Begin(ctx)
	if err != nil {
		return fmt.Errorf("begin transaction: %w", err)
	}

	defer func() {
		if r := recover(); r != nil {
			_ = tx.Rollback(ctx)
			panic(r)
		}
	}()

	if err := fn(pgQuerier{q: tx, timeout: p.timeout}); err != nil {
		_ = tx.Rollback(ctx)
		return err
	}

	if err := tx.Commit(ctx); err != nil {
		return fmt.Errorf("commit transaction: %w", err)
	}
	return nil
}

func (p *Postgres) EnsureSchema(ctx context.Context) error {
	p.schemaOnce.Do(func() {
		var errs []error
		if p.schema != "" {
			if _, err := p.Exec(ctx, "CREATE SCHEMA IF NOT EXISTS "+pgx.Identifier{p.schema}.Sanitize()); err != nil {
				errs = append(errs, fmt.Errorf("create schema %s: %w", p.schema, err))
			}
		}

		stmts, err := schemaStatements(DriverPostgres)
		if err != nil {
			p.schemaErr = err
			return
		}
		for _, stmt := range stmts {
			if _, err := p.Exec(ctx, stmt); err != nil {
				errs = append(errs, err)
			}
		}
		p.schemaErr = errors.Join(errs...)
	})
	return p.schemaErr
}

type pgQuerier struct {
	q       pgxQuerier
	timeout time.Duration
}

func (q pgQuerier) Query(ctx context.Context, sql string, args ...any) (Rows, error) {
	ctx, cancel := withTimeout(ctx, q.timeout)
	rows, err := q.q.Query(ctx, sql, args...)
	if err != nil {
		cancel()
		return nil, mapPgError(err)
	}
	return &pgRows{rows: rows, cancel: cancel}, nil
}

func (q pgQuerier) QueryRow(ctx context.Context, sql string, args ...any) Row {
	ctx, cancel := withTimeout(ctx, q.timeout)
	return &pgRow{row: q.q.QueryRow(ctx, sql, args...), cancel: cancel}
}

func (q pgQuerier) Exec(ctx context.Context, sql string, args ...any) (int64, error) {
	ctx, cancel := withTimeout(ctx, q.timeout)
	defer cancel()

	tag, err := q.q.Exec(ctx, sql, args...)
	if err != nil {
		return 0, mapPgError(err)
	}
	return tag.RowsAffected(), nil
}

type pgRow struct {
	row    pgx.Row
	cancel context.CancelFunc
}

func (r *pgRow) Scan(dest ...any) error {
	defer r.cancel()
	err := r.row.Scan(dest...)
	if errors.Is(err, pgx.ErrNoRows) {
		return ErrNoRows
	}
	return mapPgError(err)
}

type pgRows struct {
	rows   pgx.Rows
	cancel context.CancelFunc
}

func (r *pgRows) Next() bool             { return r.rows.Next() }
func (r *pgRows) Scan(dest ...any) error { return r.rows.Scan(dest...) }
func (r *pgRows) Err() error             { return mapPgError(r.rows.Err()) }

func (r *pgRows) Close() {
	r.rows.Close()
	r.cancel()
}

func mapPgError(err error) error {
	if err == nil {
		return nil
	}
	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) && pgErr.Code == pgUniqueViolation {
		return &UniqueViolationError{Constraint: pgErr.ConstraintName, Err: err}
	}
	return err
}
