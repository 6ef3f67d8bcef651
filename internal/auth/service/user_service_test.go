package service_test

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/Mohamad548/smart-accounting-receipt-manager-backend/internal/auth/domain"
	"github.com/Mohamad548/smart-accounting-receipt-manager-backend/internal/auth/dto"
	"github.com/Mohamad548/smart-accounting-receipt-manager-backend/internal/auth/service"
	apperrors "github.com/Mohamad548/smart-accounting-receipt-manager-backend/internal/errors"
	"github.com/Mohamad548/smart-accounting-receipt-manager-backend/internal/mocks"
	"github.com/golang-jwt/jwt/v5"
	"github.com/golang/mock/gomock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"golang.org/x/crypto/bcrypt"
)

type userServiceMocks struct {
	users    *mocks.MockUserRepository
	tokens   *mocks.MockRefreshTokenRepository
	tokenGen *mocks.MockTokenGenerator
	denylist *mocks.MockAccessTokenDenylist
}

func newUserService(t *testing.T, maxTokens int) (*service.UserService, userServiceMocks) {
	t.Helper()
	ctrl := gomock.NewController(t)
	m := userServiceMocks{
		users:    mocks.NewMockUserRepository(ctrl),
		tokens:   mocks.NewMockRefreshTokenRepository(ctrl),
		tokenGen: mocks.NewMockTokenGenerator(ctrl),
		denylist: mocks.NewMockAccessTokenDenylist(ctrl),
	}
	s := service.NewUserService(m.users, m.tokens, m.tokenGen, m.denylist, maxTokens, zap.NewNop())
	return s, m
}

func hashedUser(t *testing.T, password string) *domain.User {
	t.Helper()
	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.MinCost)
	require.NoError(t, err)
	return &domain.User{ID: "user-1", Username: "admin", PasswordHash: string(hash)}
}

func expectIssue(m userServiceMocks, accessExp, refreshExp time.Time) {
	m.tokenGen.EXPECT().IssueAccessToken(domain.TokenPayload{UserID: "user-1", Username: "admin"}).
		Return("access-token", accessExp, nil)
	m.tokenGen.EXPECT().IssueRefreshToken(domain.TokenPayload{UserID: "user-1", Username: "admin"}).
		Return("refresh-token", refreshExp, nil)
}

func TestUserService_Register_Success(t *testing.T) {
	s, m := newUserService(t, 0)
	input := dto.RegisterInput{Username: "admin", Password: "password123"}

	m.users.EXPECT().GetByUsername(gomock.Any(), "admin").Return(nil, nil)
	m.users.EXPECT().Create(gomock.Any(), gomock.Any()).Return(nil)

	user, err := s.Register(context.Background(), input)

	assert.NoError(t, err)
	require.NotNil(t, user)
	assert.Equal(t, "admin", user.Username)
	assert.NotEmpty(t, user.ID)
	assert.NoError(t, bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte("password123")))
	assert.NotZero(t, user.CreatedAt)
	assert.Equal(t, user.CreatedAt, user.UpdatedAt)
}

func TestUserService_Register_UsernameTaken(t *testing.T) {
	s, m := newUserService(t, 0)

	m.users.EXPECT().GetByUsername(gomock.Any(), "admin").Return(&domain.User{ID: "existing"}, nil)

	user, err := s.Register(context.Background(), dto.RegisterInput{Username: "admin", Password: "password123"})

	assert.Equal(t, apperrors.ErrUsernameTaken, err)
	assert.Nil(t, user)
}

func TestUserService_Register_RepositoryErrors(t *testing.T) {
	dbErr := errors.New("database error")

	t.Run("lookup", func(t *testing.T) {
		s, m := newUserService(t, 0)
		m.users.EXPECT().GetByUsername(gomock.Any(), "admin").Return(nil, dbErr)

		user, err := s.Register(context.Background(), dto.RegisterInput{Username: "admin", Password: "password123"})
		assert.Equal(t, dbErr, err)
		assert.Nil(t, user)
	})

	t.Run("create", func(t *testing.T) {
		s, m := newUserService(t, 0)
		m.users.EXPECT().GetByUsername(gomock.Any(), "admin").Return(nil, nil)
		m.users.EXPECT().Create(gomock.Any(), gomock.Any()).Return(dbErr)

		user, err := s.Register(context.Background(), dto.RegisterInput{Username: "admin", Password: "password123"})
		assert.Equal(t, dbErr, err)
		assert.Nil(t, user)
	})
}

func TestUserService_EnsureUser(t *testing.T) {
	t.Run("creates missing user", func(t *testing.T) {
		s, m := newUserService(t, 0)
		m.users.EXPECT().GetByUsername(gomock.Any(), "admin").Return(nil, nil)
		m.users.EXPECT().Create(gomock.Any(), gomock.Any()).Return(nil)

		created, err := s.EnsureUser(context.Background(), "admin", "admin123")
		assert.NoError(t, err)
		assert.True(t, created)
	})

	t.Run("keeps existing user", func(t *testing.T) {
		s, m := newUserService(t, 0)
		m.users.EXPECT().GetByUsername(gomock.Any(), "admin").Return(&domain.User{ID: "user-1"}, nil)

		created, err := s.EnsureUser(context.Background(), "admin", "admin123")
		assert.NoError(t, err)
		assert.False(t, created)
	})

	t.Run("lost race on create", func(t *testing.T) {
		s, m := newUserService(t, 0)
		m.users.EXPECT().GetByUsername(gomock.Any(), "admin").Return(nil, nil)
		m.users.EXPECT().Create(gomock.Any(), gomock.Any()).Return(apperrors.ErrUsernameTaken)

		created, err := s.EnsureUser(context.Background(), "admin", "admin123")
		assert.NoError(t, err)
		assert.False(t, created)
	})
}

func TestUserService_Login_Success(t *testing.T) {
	s, m := newUserService(t, 10)
	user := hashedUser(t, "admin123")
	accessExp := time.Now().Add(15 * time.Minute)
	refreshExp := time.Now().Add(7 * 24 * time.Hour)

	m.users.EXPECT().GetByUsername(gomock.Any(), "admin").Return(user, nil)
	expectIssue(m, accessExp, refreshExp)
	m.tokens.EXPECT().Store(gomock.Any(), gomock.Any()).DoAndReturn(func(_ context.Context, rt *domain.RefreshToken) error {
		assert.Equal(t, "user-1", rt.UserID)
		assert.Equal(t, "refresh-token", rt.Token)
		assert.Equal(t, refreshExp, rt.ExpiresAt)
		assert.NotEmpty(t, rt.ID)
		return nil
	})
	m.tokens.EXPECT().CountByUserID(gomock.Any(), "user-1").Return(1, nil)

	out, err := s.Login(context.Background(), dto.LoginInput{Username: "admin", Password: "admin123"})

	require.NoError(t, err)
	assert.Equal(t, dto.UserOutput{ID: "user-1", Username: "admin"}, out.User)
	assert.Equal(t, "access-token", out.AccessToken)
	assert.Equal(t, accessExp, out.AccessExpiresAt)
	assert.Equal(t, "refresh-token", out.RefreshToken)
	assert.Equal(t, refreshExp, out.RefreshExpiresAt)
}

func TestUserService_Login_InvalidCredentials(t *testing.T) {
	t.Run("unknown user", func(t *testing.T) {
		s, m := newUserService(t, 10)
		m.users.EXPECT().GetByUsername(gomock.Any(), "ghost").Return(nil, nil)

		out, err := s.Login(context.Background(), dto.LoginInput{Username: "ghost", Password: "admin123"})
		assert.Equal(t, apperrors.ErrInvalidCredentials, err)
		assert.Nil(t, out)
	})

	t.Run("wrong password", func(t *testing.T) {
		s, m := newUserService(t, 10)
		m.users.EXPECT().GetByUsername(gomock.Any(), "admin").Return(hashedUser(t, "admin123"), nil)

		out, err := s.Login(context.Background(), dto.LoginInput{Username: "admin", Password: "nope"})
		assert.Equal(t, apperrors.ErrInvalidCredentials, err)
		assert.Nil(t, out)
	})
}

func TestUserService_Login_StoreError(t *testing.T) {
	s, m := newUserService(t, 10)
	dbErr := errors.New("database error")

	m.users.EXPECT().GetByUsername(gomock.Any(), "admin").Return(hashedUser(t, "admin123"), nil)
	expectIssue(m, time.Now(), time.Now())
	m.tokens.EXPECT().Store(gomock.Any(), gomock.Any()).Return(dbErr)

	out, err := s.Login(context.Background(), dto.LoginInput{Username: "admin", Password: "admin123"})
	assert.Equal(t, dbErr, err)
	assert.Nil(t, out)
}

func TestUserService_Login_PrunesOldSessions(t *testing.T) {
	s, m := newUserService(t, 2)

	m.users.EXPECT().GetByUsername(gomock.Any(), "admin").Return(hashedUser(t, "admin123"), nil)
	expectIssue(m, time.Now(), time.Now())
	m.tokens.EXPECT().Store(gomock.Any(), gomock.Any()).Return(nil)
	m.tokens.EXPECT().CountByUserID(gomock.Any(), "user-1").Return(3, nil)
	m.tokens.EXPECT().DeleteOldestByUserID(gomock.Any(), "user-1", 2).Return(errors.New("ignored"))

	out, err := s.Login(context.Background(), dto.LoginInput{Username: "admin", Password: "admin123"})
	assert.NoError(t, err)
	assert.NotNil(t, out)
}

func TestUserService_Refresh_Success(t *testing.T) {
	s, m := newUserService(t, 10)
	future := time.Now().Add(time.Hour)

	m.tokenGen.EXPECT().VerifyRefreshToken("old-refresh").Return(&service.JWTCustomClaims{UserID: "user-1"}, nil)
	m.tokens.EXPECT().GetByToken(gomock.Any(), "old-refresh").Return(&domain.RefreshToken{UserID: "user-1", Token: "old-refresh", ExpiresAt: future}, nil)
	m.users.EXPECT().GetByID(gomock.Any(), "user-1").Return(&domain.User{ID: "user-1", Username: "admin"}, nil)
	expectIssue(m, future, future)
	m.tokens.EXPECT().Rotate(gomock.Any(), "old-refresh", gomock.Any()).DoAndReturn(func(_ context.Context, _ string, next *domain.RefreshToken) error {
		assert.Equal(t, "refresh-token", next.Token)
		return nil
	})

	out, err := s.Refresh(context.Background(), "old-refresh")

	require.NoError(t, err)
	assert.Equal(t, "access-token", out.AccessToken)
	assert.Equal(t, "refresh-token", out.RefreshToken)
}

func TestUserService_Refresh_Failures(t *testing.T) {
	future := time.Now().Add(time.Hour)
	claims := &service.JWTCustomClaims{UserID: "user-1"}

	tests := []struct {
		name    string
		setup   func(m userServiceMocks)
		wantErr error
	}{
		{
			name: "invalid signature",
			setup: func(m userServiceMocks) {
				m.tokenGen.EXPECT().VerifyRefreshToken("token").Return(nil, apperrors.ErrInvalidToken)
			},
			wantErr: apperrors.ErrInvalidToken,
		},
		{
			name: "expired jwt removes the row",
			setup: func(m userServiceMocks) {
				m.tokenGen.EXPECT().VerifyRefreshToken("token").Return(nil, apperrors.ErrTokenExpired)
				m.tokens.EXPECT().DeleteByToken(gomock.Any(), "token").Return(nil)
			},
			wantErr: apperrors.ErrTokenExpired,
		},
		{
			name: "reused token revokes every session",
			setup: func(m userServiceMocks) {
				m.tokenGen.EXPECT().VerifyRefreshToken("token").Return(claims, nil)
				m.tokens.EXPECT().GetByToken(gomock.Any(), "token").Return(nil, nil)
				m.tokens.EXPECT().DeleteByUserID(gomock.Any(), "user-1").Return(nil)
			},
			wantErr: apperrors.ErrTokenRevoked,
		},
		{
			name: "persisted expiry passed",
			setup: func(m userServiceMocks) {
				m.tokenGen.EXPECT().VerifyRefreshToken("token").Return(claims, nil)
				m.tokens.EXPECT().GetByToken(gomock.Any(), "token").
					Return(&domain.RefreshToken{UserID: "user-1", ExpiresAt: time.Now().Add(-time.Minute)}, nil)
				m.tokens.EXPECT().DeleteByToken(gomock.Any(), "token").Return(nil)
			},
			wantErr: apperrors.ErrRefreshTokenExpired,
		},
		{
			name: "user deleted",
			setup: func(m userServiceMocks) {
				m.tokenGen.EXPECT().VerifyRefreshToken("token").Return(claims, nil)
				m.tokens.EXPECT().GetByToken(gomock.Any(), "token").Return(&domain.RefreshToken{UserID: "user-1", ExpiresAt: future}, nil)
				m.users.EXPECT().GetByID(gomock.Any(), "user-1").Return(nil, nil)
			},
			wantErr: apperrors.ErrUserNotFound,
		},
		{
			name: "concurrent rotation",
			setup: func(m userServiceMocks) {
				m.tokenGen.EXPECT().VerifyRefreshToken("token").Return(claims, nil)
				m.tokens.EXPECT().GetByToken(gomock.Any(), "token").Return(&domain.RefreshToken{UserID: "user-1", ExpiresAt: future}, nil)
				m.users.EXPECT().GetByID(gomock.Any(), "user-1").Return(&domain.User{ID: "user-1", Username: "admin"}, nil)
				expectIssue(m, future, future)
				m.tokens.EXPECT().Rotate(gomock.Any(), "token", gomock.Any()).Return(apperrors.ErrRefreshTokenNotFound)
			},
			wantErr: apperrors.ErrTokenRevoked,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			s, m := newUserService(t, 10)
			tt.setup(m)

			out, err := s.Refresh(context.Background(), "token")

			assert.ErrorIs(t, err, tt.wantErr)
			assert.Nil(t, out)
		})
	}
}

func TestUserService_Logout(t *testing.T) {
	exp := time.Now().Add(10 * time.Minute)
	accessClaims := &service.JWTCustomClaims{
		UserID:           "user-1",
		RegisteredClaims: jwt.RegisteredClaims{ID: "jti-1", ExpiresAt: jwt.NewNumericDate(exp)},
	}

	t.Run("deletes refresh token and denylists access token", func(t *testing.T) {
		s, m := newUserService(t, 10)
		m.tokens.EXPECT().DeleteByToken(gomock.Any(), "refresh").Return(nil)
		m.tokenGen.EXPECT().VerifyAccessToken("access").Return(accessClaims, nil)
		m.denylist.EXPECT().Revoke(gomock.Any(), "jti-1", accessClaims.ExpiresAt.Time).Return(nil)

		assert.NoError(t, s.Logout(context.Background(), "refresh", "access"))
	})

	t.Run("no tokens is a no-op", func(t *testing.T) {
		s, _ := newUserService(t, 10)
		assert.NoError(t, s.Logout(context.Background(), "", ""))
	})

	t.Run("invalid access token is ignored", func(t *testing.T) {
		s, m := newUserService(t, 10)
		m.tokenGen.EXPECT().VerifyAccessToken("access").Return(nil, apperrors.ErrTokenExpired)

		assert.NoError(t, s.Logout(context.Background(), "", "access"))
	})

	t.Run("refresh delete error", func(t *testing.T) {
		s, m := newUserService(t, 10)
		dbErr := errors.New("database error")
		m.tokens.EXPECT().DeleteByToken(gomock.Any(), "refresh").Return(dbErr)

		assert.Equal(t, dbErr, s.Logout(context.Background(), "refresh", "access"))
	})

	t.Run("denylist error", func(t *testing.T) {
		s, m := newUserService(t, 10)
		m.tokenGen.EXPECT().VerifyAccessToken("access").Return(accessClaims, nil)
		m.denylist.EXPECT().Revoke(gomock.Any(), "jti-1", gomock.Any()).Return(errors.New("redis down"))

		assert.Error(t, s.Logout(context.Background(), "", "access"))
	})
}
