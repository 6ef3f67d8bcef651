package db

import (
	"context"
	"errors"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

func newTestSQLite(t *testing.T) *SQLite {
	t.Helper()
	s, err := OpenSQLite(context.Background(), sqliteMemory, 5*time.Second)
	require.NoError(t, err)
	t.Cleanup(s.Close)
	require.NoError(t, s.EnsureSchema(context.Background()))
	return s
}

func insertUser(t *testing.T, q Querier, id, username string) {
	t.Helper()
	_, err := q.Exec(context.Background(),
		"INSERT INTO users (id, username, password_hash, created_at, updated_at) VALUES ($1, $2, $3, $4, $4)",
		id, username, "hash", time.Now().UnixMilli())
	require.NoError(t, err)
}

func TestRebind(t *testing.T) {
	assert.Equal(t, "SELECT * FROM t WHERE a = ?1 AND b = ?2", rebind("SELECT * FROM t WHERE a = $1 AND b = $2"))
	assert.Equal(t, "UPDATE t SET x = x + ?1 WHERE id = ?12", rebind("UPDATE t SET x = x + $1 WHERE id = $12"))
	assert.Equal(t, "SELECT 1", rebind("SELECT 1"))
}

func TestSQLiteDSN(t *testing.T) {
	assert.Equal(t, "file::memory:?"+sqlitePragmas, sqliteDSN(sqliteMemory))
	assert.Equal(t, "data/app.db?"+sqlitePragmas, sqliteDSN("data/app.db"))
	assert.Equal(t, "file:app.db?mode=rwc&"+sqlitePragmas, sqliteDSN("file:app.db?mode=rwc"))
}

func TestSQLite(t *testing.T) {
	ctx := context.Background()

	t.Run("schema is applied once and is idempotent", func(t *testing.T) {
		s := newTestSQLite(t)
		assert.NoError(t, s.EnsureSchema(ctx))

		var count int
		err := s.QueryRow(ctx, "SELECT COUNT(*) FROM sqlite_master WHERE type = 'table' AND name = $1", "receipt_records").Scan(&count)
		require.NoError(t, err)
		assert.Equal(t, 1, count)
	})

	t.Run("query row maps missing rows to ErrNoRows", func(t *testing.T) {
		s := newTestSQLite(t)
		var id string
		err := s.QueryRow(ctx, "SELECT id FROM users WHERE username = $1", "ghost").Scan(&id)
		assert.ErrorIs(t, err, ErrNoRows)
	})

	t.Run("exec reports affected rows and query iterates", func(t *testing.T) {
		s := newTestSQLite(t)
		insertUser(t, s, "u1", "alice")
		insertUser(t, s, "u2", "bob")

		rows, err := s.Query(ctx, "SELECT username FROM users ORDER BY username")
		require.NoError(t, err)
		var names []string
		for rows.Next() {
			var name string
			require.NoError(t, rows.Scan(&name))
			names = append(names, name)
		}
		require.NoError(t, rows.Err())
		rows.Close()
		assert.Equal(t, []string{"alice", "bob"}, names)

		n, err := s.Exec(ctx, "DELETE FROM users WHERE username = $1", "alice")
		require.NoError(t, err)
		assert.Equal(t, int64(1), n)
	})

	t.Run("unique violations are recognizable", func(t *testing.T) {
		s := newTestSQLite(t)
		insertUser(t, s, "u1", "alice")

		_, err := s.Exec(ctx,
			"INSERT INTO users (id, username, password_hash, created_at, updated_at) VALUES ($1, $2, $3, $4, $4)",
			"u2", "alice", "hash", time.Now().UnixMilli())
		require.Error(t, err)
		assert.True(t, errors.Is(err, ErrUniqueViolation))

		var uniq *UniqueViolationError
		require.ErrorAs(t, err, &uniq)
		assert.Equal(t, "users.username", uniq.Constraint)
	})

	t.Run("transaction commits on success", func(t *testing.T) {
		s := newTestSQLite(t)
		err := s.WithTx(ctx, func(q Querier) error {
			insertUser(t, q, "u1", "alice")
			return nil
		})
		require.NoError(t, err)

		var count int
		require.NoError(t, s.QueryRow(ctx, "SELECT COUNT(*) FROM users").Scan(&count))
		assert.Equal(t, 1, count)
	})

	t.Run("transaction rolls back on error", func(t *testing.T) {
		s := newTestSQLite(t)
		boom := errors.New("boom")
		err := s.WithTx(ctx, func(q Querier) error {
			insertUser(t, q, "u1", "alice")
			return boom
		})
		assert.ErrorIs(t, err, boom)

		var count int
		require.NoError(t, s.QueryRow(ctx, "SELECT COUNT(*) FROM users").Scan(&count))
		assert.Equal(t, 0, count)
	})

	t.Run("foreign keys cascade", func(t *testing.T) {
		s := newTestSQLite(t)
		insertUser(t, s, "u1", "alice")
		_, err := s.Exec(ctx,
			"INSERT INTO refresh_tokens (id, user_id, token, expires_at, created_at) VALUES ($1, $2, $3, $4, $4)",
			"rt1", "u1", "tok", time.Now().UnixMilli())
		require.NoError(t, err)

		_, err = s.Exec(ctx, "DELETE FROM users WHERE id = $1", "u1")
		require.NoError(t, err)

		var count int
		require.NoError(t, s.QueryRow(ctx, "SELECT COUNT(*) FROM refresh_tokens").Scan(&count))
		assert.Equal(t, 0, count)
	})
}

func TestOpen(t *testing.T) {
	ctx := context.Background()

	t.Run("opens a sqlite file and creates its directory", func(t *testing.T) {
		path := filepath.Join(t.TempDir(), "nested", "database.db")
		handle, err := Open(ctx, Options{Driver: DriverSQLite, Path: path, QueryTimeout: time.Second}, zap.NewNop())
		require.NoError(t, err)
		defer handle.Close()

		assert.Equal(t, DriverSQLite, handle.Backend())
		assert.NoError(t, handle.Ping(ctx))
		assert.FileExists(t, path)
	})

	t.Run("rejects unknown drivers", func(t *testing.T) {
		_, err := Open(ctx, Options{Driver: "oracle"}, zap.NewNop())
		assert.Error(t, err)
	})
}
