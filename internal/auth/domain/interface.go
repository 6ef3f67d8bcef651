package domain

//go:generate mockgen -destination=../../mocks/mock_auth_repository.go -package=mocks github.com/Mohamad548/smart-accounting-receipt-manager-backend/internal/auth/domain UserRepository,RefreshTokenRepository,AccessTokenDenylist

import (
	"context"
	"time"
)

// UserRepository lookups return (nil, nil) when no user matches.
type UserRepository interface {
	GetByUsername(ctx context.Context, username string) (*User, error)
	GetByID(ctx context.Context, id string) (*User, error)
	Create(ctx context.Context, user *User) error
}

type RefreshTokenRepository interface {
	Store(ctx context.Context, rt *RefreshToken) error
	// GetByToken returns (nil, nil) when the token is not persisted.
	GetByToken(ctx context.Context, token string) (*RefreshToken, error)
	DeleteByToken(ctx context.Context, token string) error
	DeleteByUserID(ctx context.Context, userID string) error
	// DeleteExpired removes every token whose expiry is before now.
	DeleteExpired(ctx context.Context, now time.Time) (int64, error)
	// Rotate deletes oldToken and stores next atomically. It fails with
	// ErrRefreshTokenNotFound when oldToken was already gone.
	Rotate(ctx context.Context, oldToken string, next *RefreshToken) error
	CountByUserID(ctx context.Context, userID string) (int, error)
	// DeleteOldestByUserID keeps only the newest keep tokens of the user.
	DeleteOldestByUserID(ctx context.Context, userID string, keep int) error
}

// AccessTokenDenylist records access tokens revoked before their expiry, by jti.
type AccessTokenDenylist interface {
	Revoke(ctx context.Context, jti string, until time.Time) error
	IsRevoked(ctx context.Context, jti string) (bool, error)
}
