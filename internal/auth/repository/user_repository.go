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

const selectUser = `SELECT id, username, password_hash, created_at, updated_at FROM users`

type UserRepository struct {
	db db.Querier
}

func NewUserRepository(q db.Querier) *UserRepository {
	return &UserRepository{db: q}
}

func (r *UserRepository) GetByUsername(ctx context.Context, username string) (*domain.User, error) {
	user, err := scanUser(r.db.QueryRow(ctx, selectUser+` WHERE username = $1 LIMIT 1`, username))
	if err != nil {
		return nil, fmt.Errorf("failed to get user by username: %w", err)
	}
	return user, nil
}

func (r *UserRepository) GetByID(ctx context.Context, id string) (*domain.User, error) {
	user, err := scanUser(r.db.QueryRow(ctx, selectUser+` WHERE id = $1 LIMIT 1`, id))
	if err != nil {
		return nil, fmt.Errorf("failed to get user by id: %w", err)
	}
	return user, nil
}

func (r *UserRepository) Create(ctx context.Context, user *domain.User) error {
	_, err := r.db.Exec(ctx, `
		INSERT INTO users (id, username, password_hash, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5)
	`, user.ID, user.Username, user.PasswordHash, user.CreatedAt.UnixMilli(), user.UpdatedAt.UnixMilli())
	if errors.Is(err, db.ErrUniqueViolation) {
		return apperrors.ErrUsernameTaken
	}
	if err != nil {
		return fmt.Errorf("failed to create user: %w", err)
	}
	return nil
}

func scanUser(row db.Row) (*domain.User, error) {
	var (
		user                 domain.User
		createdAt, updatedAt int64
	)
	err := row.Scan(&user.ID, &user.Username, &user.PasswordHash, &createdAt, &updatedAt)
	if errors.Is(err, db.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	user.CreatedAt = time.UnixMilli(createdAt)
	user.UpdatedAt = time.UnixMilli(updatedAt)
	return &user, nil
}
