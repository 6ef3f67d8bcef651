package repository

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/Mohamad548/smart-accounting-receipt-manager-backend/db"
	"github.com/Mohamad548/smart-accounting-receipt-manager-backend/internal/auth/domain"
	apperrors "github.com/Mohamad548/smart-accounting-receipt-manager-backend/internal/errors"
)

type RefreshTokenRepository struct {
	db db.DB
}

func NewRefreshTokenRepository(handle db.DB) *RefreshTokenRepository {
	return &RefreshTokenRepository{db: handle}
}

func (r *RefreshTokenRepository) Store(ctx context.Context, rt *domain.RefreshToken) error {
	if err := insertRefreshToken(ctx, r.db, rt); err != nil {
		return fmt.Errorf("failed to store refresh token: %w", err)
	}
	return nil
}

func (r *RefreshTokenRepository) GetByToken(ctx context.Context, token string) (*domain.RefreshToken, error) {
	var (
		rt                   domain.RefreshToken
		expiresAt, createdAt int64
	)
	err := r.db.QueryRow(ctx, `
		SELECT id, user_id, token, expires_at, created_at
		FROM refresh_tokens
		WHERE token = $1
	`, token).Scan(&rt.ID, &rt.UserID, &rt.Token, &expiresAt, &createdAt)
	if errors.Is(err, db.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get refresh token: %w", err)
	}
	rt.ExpiresAt = time.UnixMilli(expiresAt)
	rt.CreatedAt = time.UnixMilli(createdAt)
	return &rt, nil
}

func (r *RefreshTokenRepository) DeleteByToken(ctx context.Context, token string) error {
	if _, err := r.db.Exec(ctx, `DELETE FROM refresh_tokens WHERE token = $1`, token); err != nil {
		return fmt.Errorf("failed to delete refresh token: %w", err)
	}
	return nil
}

func (r *RefreshTokenRepository) DeleteByUserID(ctx context.Context, userID string) error {
	if _, err := r.db.Exec(ctx, `DELETE FROM refresh_tokens WHERE user_id = $1`, userID); err != nil {
		return fmt.Errorf("failed to delete refresh tokens of user: %w", err)
	}
	return nil
}

func (r *RefreshTokenRepository) DeleteExpired(ctx context.Context, now time.Time) (int64, error) {
	n, err := r.db.Exec(ctx, `DELETE FROM refresh_tokens WHERE expires_at < $1`, now.UnixMilli())
	if err != nil {
		return 0, fmt.Errorf("failed to delete expired refresh tokens: %w", err)
	}
	return n, nil
}

func (r *RefreshTokenRepository) Rotate(ctx context.Context, oldToken string, next *domain.RefreshToken) error {
	return r.db.WithTx(ctx, func(q db.Querier) error {
		n, err := q.Exec(ctx, `DELETE FROM refresh_tokens WHERE token = $1`, oldToken)
		if err != nil {
			return fmt.Errorf("failed to delete rotated refresh token: %w", err)
		}
		if n != 1 {
			return apperrors.ErrRefreshTokenNotFound
		}
		if err := insertRefreshToken(ctx, q, next); err != nil {
			return fmt.Errorf("failed to store rotated refresh token: %w", err)
		}
		return nil
	})
}

func (r *RefreshTokenRepository) CountByUserID(ctx context.Context, userID string) (int, error) {
	var count int
	err := r.db.QueryRow(ctx, `SELECT COUNT(*) FROM refresh_tokens WHERE user_id = $1`, userID).Scan(&count)
	if err != nil {
		return 0, fmt.Errorf("failed to count refresh tokens: %w", err)
	}
	return count, nil
}

func (r *RefreshTokenRepository) DeleteOldestByUserID(ctx context.Context, userID string, keep int) error {
	_, err := r.db.Exec(ctx, `
		DELETE FROM refresh_tokens
		WHERE user_id = $1 AND id NOT IN (
			SELECT id FROM refresh_tokens
			WHERE user_id = $1
			ORDER BY created_at DESC, id DESC
			LIMIT $2
		)
	`, userID, keep)
	if err != nil {
		return fmt.Errorf("failed to delete oldest refresh tokens: %w", err)
	}
	return nil
}

func insertRefreshToken(ctx context.Context, q db.Querier, rt *domain.RefreshToken) error {
	_, err := q.Exec(ctx, `
		INSERT INTO refresh_tokens (id, user_id, token, expires_at, created_at)
		VALUES ($1, $2, $3, $4, $5)
	`, rt.ID, rt.UserID, rt.Token, rt.ExpiresAt.UnixMilli(), rt.CreatedAt.UnixMilli())
	return err
}
