package service

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/Mohamad548/smart-accounting-receipt-manager-backend/internal/auth/domain"
	"github.com/Mohamad548/smart-accounting-receipt-manager-backend/internal/auth/dto"
	apperrors "github.com/Mohamad548/smart-accounting-receipt-manager-backend/internal/errors"
	"github.com/google/uuid"
	"go.uber.org/zap"
	"golang.org/x/crypto/bcrypt"
)

type UserService struct {
	users                  domain.UserRepository
	tokens                 domain.RefreshTokenRepository
	tokenService           TokenGenerator
	denylist               domain.AccessTokenDenylist
	maxActiveTokensPerUser int
	log                    *zap.Logger
	now                    func() time.Time
}

func NewUserService(
	users domain.UserRepository,
	tokens domain.RefreshTokenRepository,
	tokenService TokenGenerator,
	denylist domain.AccessTokenDenylist,
	maxTokens int,
	log *zap.Logger,
) *UserService {
	return &UserService{
		users:                  users,
		tokens:                 tokens,
		tokenService:           tokenService,
		denylist:               denylist,
		maxActiveTokensPerUser: maxTokens,
		log:                    log,
		now:                    time.Now,
	}
}

func (s *UserService) Register(ctx context.Context, input dto.RegisterInput) (*domain.User, error) {
	existingUser, err := s.users.GetByUsername(ctx, input.Username)
	if err != nil {
		return nil, err
	}
	if existingUser != nil {
		return nil, apperrors.ErrUsernameTaken
	}

	hashedPassword, err := bcrypt.GenerateFromPassword([]byte(input.Password), bcrypt.DefaultCost)
	if err != nil {
		return nil, fmt.Errorf("failed to hash password: %w", err)
	}

	now := s.now()
	user := &domain.User{
		ID:           uuid.NewString(),
		Username:     input.Username,
		PasswordHash: string(hashedPassword),
		CreatedAt:    now,
		UpdatedAt:    now,
	}

	if err := s.users.Create(ctx, user); err != nil {
		return nil, err
	}

	return user, nil
}

// EnsureUser creates the user unless the username already exists.
func (s *UserService) EnsureUser(ctx context.Context, username, password string) (bool, error) {
	_, err := s.Register(ctx, dto.RegisterInput{Username: username, Password: password})
	if errors.Is(err, apperrors.ErrUsernameTaken) {
		return false, nil
	}
	if err != nil {
		return false, err
	}
	return true, nil
}

func (s *UserService) Login(ctx context.Context, input dto.LoginInput) (*dto.LoginOutput, error) {
	user, err := s.users.GetByUsername(ctx, input.Username)
	if err != nil {
		return nil, err
	}

	if user == nil || bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(input.Password)) != nil {
		return nil, apperrors.ErrInvalidCredentials
	}

	out, rt, err := s.issue(user)
	if err != nil {
		return nil, err
	}

	if err := s.tokens.Store(ctx, rt); err != nil {
		return nil, err
	}

	s.pruneSessions(ctx, user.ID)

	return out, nil
}

// Refresh exchanges a persisted refresh token for a new token pair. The
// presented token stops being valid whether or not the exchange succeeds.
func (s *UserService) Refresh(ctx context.Context, refreshToken string) (*dto.LoginOutput, error) {
	claims, err := s.tokenService.VerifyRefreshToken(refreshToken)
	if err != nil {
		if errors.Is(err, apperrors.ErrTokenExpired) {
			if derr := s.tokens.DeleteByToken(ctx, refreshToken); derr != nil {
				s.log.Warn("failed to delete expired refresh token", zap.Error(derr))
			}
		}
		return nil, err
	}

	stored, err := s.tokens.GetByToken(ctx, refreshToken)
	if err != nil {
		return nil, err
	}
	if stored == nil {
		// A signed token with no row was rotated or logged out already.
		// Replaying it ends every session of the user.
		if derr := s.tokens.DeleteByUserID(ctx, claims.UserID); derr != nil {
			s.log.Warn("failed to revoke sessions after refresh token reuse", zap.String("user_id", claims.UserID), zap.Error(derr))
		} else {
			s.log.Warn("refresh token reuse detected", zap.String("user_id", claims.UserID))
		}
		return nil, apperrors.ErrTokenRevoked
	}

	if !stored.ExpiresAt.After(s.now()) {
		if derr := s.tokens.DeleteByToken(ctx, refreshToken); derr != nil {
			s.log.Warn("failed to delete expired refresh token", zap.Error(derr))
		}
		return nil, apperrors.ErrRefreshTokenExpired
	}

	user, err := s.users.GetByID(ctx, stored.UserID)
	if err != nil {
		return nil, err
	}
	if user == nil {
		return nil, apperrors.ErrUserNotFound
	}

	out, next, err := s.issue(user)
	if err != nil {
		return nil, err
	}

	if err := s.tokens.Rotate(ctx, refreshToken, next); err != nil {
		if errors.Is(err, apperrors.ErrRefreshTokenNotFound) {
			return nil, apperrors.ErrTokenRevoked
		}
		return nil, err
	}

	return out, nil
}

// Logout deletes the refresh token and denylists the access token until it
// expires. Either token may be empty.
func (s *UserService) Logout(ctx context.Context, refreshToken, accessToken string) error {
	if refreshToken != "" {
		if err := s.tokens.DeleteByToken(ctx, refreshToken); err != nil {
			return err
		}
	}

	if accessToken == "" {
		return nil
	}
	claims, err := s.tokenService.VerifyAccessToken(accessToken)
	if err != nil || claims.ID == "" {
		return nil
	}
	if err := s.denylist.Revoke(ctx, claims.ID, claims.ExpiresAt.Time); err != nil {
		return fmt.Errorf("failed to revoke access token: %w", err)
	}
	return nil
}

func (s *UserService) issue(user *domain.User) (*dto.LoginOutput, *domain.RefreshToken, error) {
	payload := domain.TokenPayload{UserID: user.ID, Username: user.Username}

	accessToken, accessExpiresAt, err := s.tokenService.IssueAccessToken(payload)
	if err != nil {
		return nil, nil, err
	}
	refreshToken, refreshExpiresAt, err := s.tokenService.IssueRefreshToken(payload)
	if err != nil {
		return nil, nil, err
	}

	rt := &domain.RefreshToken{
		ID:        uuid.NewString(),
		UserID:    user.ID,
		Token:     refreshToken,
		ExpiresAt: refreshExpiresAt,
		CreatedAt: s.now(),
	}

	return &dto.LoginOutput{
		User:             dto.NewUserOutput(user),
		AccessToken:      accessToken,
		AccessExpiresAt:  accessExpiresAt,
		RefreshToken:     refreshToken,
		RefreshExpiresAt: refreshExpiresAt,
	}, rt, nil
}

// pruneSessions deletes the oldest refresh tokens beyond the per-user limit.
func (s *UserService) pruneSessions(ctx context.Context, userID string) {
	if s.maxActiveTokensPerUser <= 0 {
		return
	}
	count, err := s.tokens.CountByUserID(ctx, userID)
	if err != nil {
		s.log.Warn("failed to count refresh tokens", zap.String("user_id", userID), zap.Error(err))
		return
	}
	if count <= s.maxActiveTokensPerUser {
		return
	}
	if err := s.tokens.DeleteOldestByUserID(ctx, userID, s.maxActiveTokensPerUser); err != nil {
		s.log.Warn("failed to delete oldest refresh tokens", zap.String("user_id", userID), zap.Error(err))
	}
}
