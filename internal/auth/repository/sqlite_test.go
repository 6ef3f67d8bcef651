package repository_test

import (
	"context"
	"fmt"
	"testing"
	"time"

	"github.com/Mohamad548/smart-accounting-receipt-manager-backend/db"
	"github.com/Mohamad548/smart-accounting-receipt-manager-backend/internal/auth/domain"
	repo "github.com/Mohamad548/smart-accounting-receipt-manager-backend/internal/auth/repository"
	apperrors "github.com/Mohamad548/smart-accounting-receipt-manager-backend/internal/errors"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

func openSQLite(t *testing.T) db.DB {
	t.Helper()
	handle, err := db.Open(context.Background(), db.Options{Driver: db.DriverSQLite, Path: ":memory:"}, zap.NewNop())
	require.NoError(t, err)
	t.Cleanup(handle.Close)
	return handle
}

func TestRefreshTokensOnSQLite(t *testing.T) {
	ctx := context.Background()
	handle := openSQLite(t)
	users := repo.NewUserRepository(handle)
	tokens := repo.NewRefreshTokenRepository(handle)

	now := time.UnixMilli(1700000000000)
	require.NoError(t, users.Create(ctx, &domain.User{ID: "u1", Username: "admin", PasswordHash: "h", CreatedAt: now, UpdatedAt: now}))

	for i := 0; i < 4; i++ {
		require.NoError(t, tokens.Store(ctx, &domain.RefreshToken{
			ID:        fmt.Sprintf("rt-%d", i),
			UserID:    "u1",
			Token:     fmt.Sprintf("token-%d", i),
			ExpiresAt: now.Add(time.Duration(i) * time.Hour),
			CreatedAt: now.Add(time.Duration(i) * time.Second),
		}))
	}

	t.Run("prune keeps the newest tokens", func(t *testing.T) {
		require.NoError(t, tokens.DeleteOldestByUserID(ctx, "u1", 3))
		n, err := tokens.CountByUserID(ctx, "u1")
		require.NoError(t, err)
		assert.Equal(t, 3, n)

		gone, err := tokens.GetByToken(ctx, "token-0")
		require.NoError(t, err)
		assert.Nil(t, gone)
	})

	t.Run("rotated token cannot be rotated again", func(t *testing.T) {
		next := &domain.RefreshToken{ID: "rt-next", UserID: "u1", Token: "token-next", ExpiresAt: now.Add(time.Hour), CreatedAt: now}
		require.NoError(t, tokens.Rotate(ctx, "token-1", next))

		again := &domain.RefreshToken{ID: "rt-again", UserID: "u1", Token: "token-again", ExpiresAt: now.Add(time.Hour), CreatedAt: now}
		assert.ErrorIs(t, tokens.Rotate(ctx, "token-1", again), apperrors.ErrRefreshTokenNotFound)

		notStored, err := tokens.GetByToken(ctx, "token-again")
		require.NoError(t, err)
		assert.Nil(t, notStored)
	})

	t.Run("sweep removes only expired tokens", func(t *testing.T) {
		n, err := tokens.DeleteExpired(ctx, now.Add(150*time.Minute))
		require.NoError(t, err)
		assert.Equal(t, int64(2), n) // token-2 (2h) and token-next (1h)

		left, err := tokens.GetByToken(ctx, "token-3")
		require.NoError(t, err)
		assert.NotNil(t, left)
	})

	t.Run("duplicate username", func(t *testing.T) {
		err := users.Create(ctx, &domain.User{ID: "u2", Username: "admin", PasswordHash: "h", CreatedAt: now, UpdatedAt: now})
		assert.ErrorIs(t, err, apperrors.ErrUsernameTaken)
	})
}
