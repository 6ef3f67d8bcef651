package db

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"regexp"
	"strings"
	"sync"
	"time"

	_ "github.com/glebarez/go-sqlite"
)

const (
	sqliteMemory           = ":memory:"
	sqliteUniqueConstraint = "UNIQUE constraint failed"
	sqlitePragmas          = "_pragma=foreign_keys(1)&_pragma=busy_timeout(5000)"
)

var pgPlaceholder = regexp.MustCompile(`\$(\d+)`)

type sqlConn interface {
	ExecContext(ctx context.Context, query string, args ...any) (sql.Result, error)
	QueryContext(ctx context.Context, query string, args ...any) (*sql.Rows, error)
	QueryRowContext(ctx context.Context, query string, args ...any) *sql.Row
}

type SQLite struct {
	sqlQuerier
	db         *sql.DB
	schemaOnce sync.Once
	schemaErr  error
}

// OpenSQLite opens (creating when missing) the database file at path.
// ":memory:" gives a private in-memory database.
func OpenSQLite(ctx context.Context, path string, queryTimeout time.Duration) (*SQLite, error) {
	if path != sqliteMemory {
		if dir := filepath.Dir(path); dir != "." {
			if err := os.MkdirAll(dir, 0o755); err != nil {
				return nil, fmt.Errorf("create database directory: %w", err)
			}
		}
	}

	conn, err := sql.Open(DriverSQLite, sqliteDSN(path))
	if err != nil {
		return nil, fmt.Errorf("open sqlite: %w", err)
	}
	// A single connection serializes writers and keeps an in-memory database alive.
	conn.SetMaxOpenConns(1)

	if err := conn.PingContext(ctx); err != nil {
		_ = conn.Close()
		return nil, fmt.Errorf("failed to connect to SQLite: %w", err)
	}

	return &SQLite{
		sqlQuerier: sqlQuerier{q: conn, timeout: queryTimeout},
		db:         conn,
	}, nil
}

func sqliteDSN(path string) string {
	if path == sqliteMemory {
		path = "file::memory:"
	}
	sep := "?"
	if strings.Contains(path, "?") {
		sep = "&"
	}
	return path + sep + sqlitePragmas
}

func (s *SQLite) Backend() string { return DriverSQLite }

func (s *SQLite) Ping(ctx context.Context) error {
	return s.db.PingContext(ctx)
}

func (s *SQLite) Close() {
	_ = s.db.Close()
}

func (s *SQLite) WithTx(ctx context.Context, fn func(q Querier) error) error {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin transaction: %w", err)
	}

	defer func() {
		if r := recover(); r != nil {
			_ = tx.Rollback()
			panic(r)
		}
	}()

	if err := fn(sqlQuerier{q: tx, timeout: s.timeout}); err != nil {
		_ = tx.Rollback()
		return err
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("commit transaction: %w", err)
	}
	return nil
}

func (s *SQLite) EnsureSchema(ctx context.Context) error {
	s.schemaOnce.Do(func() {
		stmts, err := schemaStatements(DriverSQLite)
		if err != nil {
			s.schemaErr = err
			return
		}
		var errs []error
		for _, stmt := range stmts {
			if _, err := s.Exec(ctx, stmt); err != nil {
				errs = append(errs, err)
			}
		}
		s.schemaErr = errors.Join(errs...)
	})
	return s.schemaErr
}

type sqlQuerier struct {
	q       sqlConn
	timeout time.Duration
}

func (q sqlQuerier) Query(ctx context.Context, query string, args ...any) (Rows, error) {
	ctx, cancel := withTimeout(ctx, q.timeout)
	rows, err := q.q.QueryContext(ctx, rebind(query), args...)
	if err != nil {
		cancel()
		return nil, mapSQLiteError(err)
	}
	return &sqlRows{rows: rows, cancel: cancel}, nil
}

func (q sqlQuerier) QueryRow(ctx context.Context, query string, args ...any) Row {
	ctx, cancel := withTimeout(ctx, q.timeout)
	return &sqlRow{row: q.q.QueryRowContext(ctx, rebind(query), args...), cancel: cancel}
}

func (q sqlQuerier) Exec(ctx context.Context, query string, args ...any) (int64, error) {
	ctx, cancel := withTimeout(ctx, q.timeout)
	defer cancel()

	res, err := q.q.ExecContext(ctx, rebind(query), args...)
	if err != nil {
		return 0, mapSQLiteError(err)
	}
	return res.RowsAffected()
}

type sqlRow struct {
	row    *sql.Row
	cancel context.CancelFunc
}

func (r *sqlRow) Scan(dest ...any) error {
	defer r.cancel()
	err := r.row.Scan(dest...)
	if errors.Is(err, sql.ErrNoRows) {
		return ErrNoRows
	}
	return mapSQLiteError(err)
}

type sqlRows struct {
	rows   *sql.Rows
	cancel context.CancelFunc
}

func (r *sqlRows) Next() bool             { return r.rows.Next() }
func (r *sqlRows) Scan(dest ...any) error { return r.rows.Scan(dest...) }
func (r *sqlRows) Err() error             { return mapSQLiteError(r.rows.Err()) }

func (r *sqlRows) Close() {
	_ = r.rows.Close()
	r.cancel()
}

// rebind turns $N placeholders into SQLite's numbered ?N form.
func rebind(query string) string {
	return pgPlaceholder.ReplaceAllString(query, "?$1")
}

func mapSQLiteError(err error) error {
	if err == nil {
		return nil
	}
	msg := err.Error()
	if i := strings.Index(msg, sqliteUniqueConstraint); i >= 0 {
		constraint := strings.TrimSpace(strings.TrimPrefix(msg[i+len(sqliteUniqueConstraint):], ":"))
		if j := strings.Index(constraint, " ("); j >= 0 {
			constraint = constraint[:j]
		}
		return &UniqueViolationError{Constraint: constraint, Err: err}
	}
	return err
}
