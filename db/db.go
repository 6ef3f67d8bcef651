package db

import (
	"context"
	"errors"
	"fmt"
	"time"

	"go.uber.org/zap"
)

const (
	DriverPostgres = "postgres"
	DriverSQLite   = "sqlite"
)

var (
	// ErrNoRows is returned by Row.Scan when the query matched nothing, whatever the backend.
	ErrNoRows = errors.New("db: no rows in result set")

	// ErrUniqueViolation matches (errors.Is) any unique-constraint failure.
	ErrUniqueViolation = errors.New("db: unique constraint violation")
)

// UniqueViolationError carries the backend error of a unique-constraint failure.
type UniqueViolationError struct {
	Constraint string
	Err        error
}

func (e *UniqueViolationError) Error() string {
	return fmt.Sprintf("unique constraint %q violated: %v", e.Constraint, e.Err)
}

func (e *UniqueViolationError) Unwrap() error { return e.Err }

func (e *UniqueViolationError) Is(target error) bool { return target == ErrUniqueViolation }

type Row interface {
	Scan(dest ...any) error
}

type Rows interface {
	Next() bool
	Scan(dest ...any) error
	Err() error
	Close()
}

// Querier runs SQL written with $N placeholders. It is implemented by every
// backend and by the transaction handle passed to WithTx.
type Querier interface {
	Query(ctx context.Context, sql string, args ...any) (Rows, error)
	QueryRow(ctx context.Context, sql string, args ...any) Row
	Exec(ctx context.Context, sql string, args ...any) (int64, error)
}

type DB interface {
	Querier
	// WithTx runs fn in a transaction, committing when fn returns nil and
	// rolling back otherwise.
	WithTx(ctx context.Context, fn func(q Querier) error) error
	// EnsureSchema applies the backend DDL. Only the first call per handle runs it.
	EnsureSchema(ctx context.Context) error
	Ping(ctx context.Context) error
	Backend() string
	Close()
}

type Options struct {
	Driver       string
	URL          string
	Path         string
	Schema       string
	MaxConns     int
	QueryTimeout time.Duration
}

// Open connects to the configured backend and applies its schema. Schema
// failures are logged and do not prevent startup, since the tables may already exist.
func Open(ctx context.Context, opts Options, log *zap.Logger) (DB, error) {
	var (
		handle DB
		err    error
	)

	switch opts.Driver {
	case DriverPostgres:
		pool, perr := NewPostgresPool(ctx, opts.URL, opts.Schema, opts.MaxConns)
		if perr != nil {
			return nil, perr
		}
		handle = NewPostgres(pool, opts.Schema, opts.QueryTimeout)
	case DriverSQLite, "":
		handle, err = OpenSQLite(ctx, opts.Path, opts.QueryTimeout)
		if err != nil {
			return nil, err
		}
	default:
		return nil, fmt.Errorf("unsupported database driver %q", opts.Driver)
	}

	if err := handle.EnsureSchema(ctx); err != nil {
		log.Error("failed to apply database schema", zap.String("backend", handle.Backend()), zap.Error(err))
	} else {
		log.Info("database schema ready", zap.String("backend", handle.Backend()), zap.String("schema", opts.Schema))
	}

	return handle, nil
}

func withTimeout(ctx context.Context, d time.Duration) (context.Context, context.CancelFunc) {
	if d <= 0 {
		return ctx, func() {}
	}
	return context.WithTimeout(ctx, d)
}
