package service

import (
	"testing"
	"time"

	"github.com/Mohamad548/smart-accounting-receipt-manager-backend/internal/auth/domain"
	apperrors "github.com/Mohamad548/smart-accounting-receipt-manager-backend/internal/errors"
	"github.com/golang-jwt/jwt/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewTokenService(t *testing.T) {
	tests := []struct {
		name           string
		accessSecret   string
		refreshSecret  string
		accessMinutes  int
		refreshMinutes int
	}{
		{
			name:           "default lifetimes",
			accessSecret:   "access-secret-key",
			refreshSecret:  "refresh-secret-key",
			accessMinutes:  15,
			refreshMinutes: 10080,
		},
		{
			name:           "empty secrets",
			accessSecret:   "",
			refreshSecret:  "",
			accessMinutes:  30,
			refreshMinutes: 2880,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			ts := NewTokenService(tt.accessSecret, tt.refreshSecret, tt.accessMinutes, tt.refreshMinutes)

			assert.NotNil(t, ts)
			assert.Equal(t, tt.accessSecret, ts.AccessTokenSecret)
			assert.Equal(t, tt.refreshSecret, ts.RefreshTokenSecret)
			assert.Equal(t, time.Duration(tt.accessMinutes)*time.Minute, ts.GetAccessTokenExpiry())
			assert.Equal(t, time.Duration(tt.refreshMinutes)*time.Minute, ts.GetRefreshTokenExpiry())
		})
	}
}

func TestTokenService_RoundTrip(t *testing.T) {
	payloads := []domain.TokenPayload{
		{UserID: "user-123", Username: "admin"},
		{UserID: "8f0c6b1e-2a4d-4f7e-9d55-0c1f3e2a9b77", Username: "مدیر"},
		{UserID: "u", Username: ""},
	}
	ts := NewTokenService("test-access-secret", "test-refresh-secret", 15, 10080)

	for _, p := range payloads {
		t.Run("payload_"+p.UserID, func(t *testing.T) {
			before := time.Now()

			access, accessExp, err := ts.IssueAccessToken(p)
			require.NoError(t, err)
			claims, err := ts.VerifyAccessToken(access)
			require.NoError(t, err)
			assert.Equal(t, p, claims.Payload())
			assert.NotEmpty(t, claims.ID)
			assert.WithinDuration(t, before.Add(15*time.Minute), accessExp, 2*time.Second)

			refresh, refreshExp, err := ts.IssueRefreshToken(p)
			require.NoError(t, err)
			claims, err = ts.VerifyRefreshToken(refresh)
			require.NoError(t, err)
			assert.Equal(t, p, claims.Payload())
			assert.WithinDuration(t, before.Add(7*24*time.Hour), refreshExp, 2*time.Second)
		})
	}
}

func TestTokenService_TokensAreUnique(t *testing.T) {
	ts := NewTokenService("a", "r", 15, 10080)
	p := domain.TokenPayload{UserID: "user-1", Username: "admin"}

	first, _, err := ts.IssueRefreshToken(p)
	require.NoError(t, err)
	second, _, err := ts.IssueRefreshToken(p)
	require.NoError(t, err)

	// Same payload, same second: the jti still differs.
	assert.NotEqual(t, first, second)
}

func TestTokenService_Verify_Failures(t *testing.T) {
	ts := NewTokenService("test-access-secret", "test-refresh-secret", 15, 10080)
	p := domain.TokenPayload{UserID: "user-1", Username: "admin"}

	access, _, err := ts.IssueAccessToken(p)
	require.NoError(t, err)
	refresh, _, err := ts.IssueRefreshToken(p)
	require.NoError(t, err)

	t.Run("keys are not interchangeable", func(t *testing.T) {
		claims, err := ts.VerifyAccessToken(refresh)
		assert.Nil(t, claims)
		assert.ErrorIs(t, err, apperrors.ErrInvalidToken)

		claims, err = ts.VerifyRefreshToken(access)
		assert.Nil(t, claims)
		assert.ErrorIs(t, err, apperrors.ErrInvalidToken)
	})

	t.Run("corrupted token", func(t *testing.T) {
		claims, err := ts.VerifyAccessToken(access[:len(access)-2] + "xx")
		assert.Nil(t, claims)
		assert.ErrorIs(t, err, apperrors.ErrInvalidToken)
	})

	t.Run("malformed token", func(t *testing.T) {
		claims, err := ts.VerifyAccessToken("not-a-jwt")
		assert.Nil(t, claims)
		assert.ErrorIs(t, err, apperrors.ErrInvalidToken)
	})

	t.Run("wrong algorithm", func(t *testing.T) {
		unsigned, err := jwt.NewWithClaims(jwt.SigningMethodNone, JWTCustomClaims{
			UserID:           "user-1",
			RegisteredClaims: jwt.RegisteredClaims{ExpiresAt: jwt.NewNumericDate(time.Now().Add(time.Hour))},
		}).SignedString(jwt.UnsafeAllowNoneSignatureType)
		require.NoError(t, err)

		claims, err := ts.VerifyAccessToken(unsigned)
		assert.Nil(t, claims)
		assert.ErrorIs(t, err, apperrors.ErrInvalidToken)
	})

	t.Run("expired token", func(t *testing.T) {
		ts.Now = func() time.Time { return time.Now().Add(16 * time.Minute) }
		defer func() { ts.Now = time.Now }()

		claims, err := ts.VerifyAccessToken(access)
		assert.Nil(t, claims)
		assert.ErrorIs(t, err, apperrors.ErrTokenExpired)

		// The refresh token outlives the access token.
		_, err = ts.VerifyRefreshToken(refresh)
		assert.NoError(t, err)
	})
}

func TestTokenService_ValidUntilExpiry(t *testing.T) {
	issued := time.Unix(1700000000, 0)
	ts := NewTokenService("a", "r", 15, 10080)
	ts.Now = func() time.Time { return issued }

	token, exp, err := ts.IssueAccessToken(domain.TokenPayload{UserID: "user-1", Username: "admin"})
	require.NoError(t, err)
	assert.Equal(t, issued.Add(15*time.Minute), exp)

	ts.Now = func() time.Time { return exp.Add(-time.Second) }
	_, err = ts.VerifyAccessToken(token)
	assert.NoError(t, err)

	ts.Now = func() time.Time { return exp.Add(time.Second) }
	_, err = ts.VerifyAccessToken(token)
	assert.ErrorIs(t, err, apperrors.ErrTokenExpired)
}
