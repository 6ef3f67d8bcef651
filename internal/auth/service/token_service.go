package service

//go:generate mockgen -destination=../../mocks/mock_token_generator.go -package=mocks github.com/Mohamad548/smart-accounting-receipt-manager-backend/internal/auth/service TokenGenerator

import (
	"errors"
	"fmt"
	"time"

	"github.com/Mohamad548/smart-accounting-receipt-manager-backend/internal/auth/domain"
	apperrors "github.com/Mohamad548/smart-accounting-receipt-manager-backend/internal/errors"
	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
)

type TokenGenerator interface {
	IssueAccessToken(payload domain.TokenPayload) (string, time.Time, error)
	IssueRefreshToken(payload domain.TokenPayload) (string, time.Time, error)
	VerifyAccessToken(tokenString string) (*JWTCustomClaims, error)
	VerifyRefreshToken(tokenString string) (*JWTCustomClaims, error)
	GetAccessTokenExpiry() time.Duration
	GetRefreshTokenExpiry() time.Duration
}

type TokenService struct {
	AccessTokenSecret  string
	RefreshTokenSecret string
	AccessTokenExpiry  time.Duration
	RefreshTokenExpiry time.Duration
	Now                func() time.Time
}

type JWTCustomClaims struct {
	jwt.RegisteredClaims
	UserID   string `json:"userId"`
	Username string `json:"username"`
}

func (c *JWTCustomClaims) Payload() domain.TokenPayload {
	return domain.TokenPayload{UserID: c.UserID, Username: c.Username}
}

func NewTokenService(accessSecret, refreshSecret string, accessMinutes, refreshMinutes int) *TokenService {
	return &TokenService{
		AccessTokenSecret:  accessSecret,
		RefreshTokenSecret: refreshSecret,
		AccessTokenExpiry:  time.Duration(accessMinutes) * time.Minute,
		RefreshTokenExpiry: time.Duration(refreshMinutes) * time.Minute,
		Now:                time.Now,
	}
}

func (ts *TokenService) IssueAccessToken(payload domain.TokenPayload) (string, time.Time, error) {
	return ts.issue(payload, ts.AccessTokenSecret, ts.AccessTokenExpiry)
}

func (ts *TokenService) IssueRefreshToken(payload domain.TokenPayload) (string, time.Time, error) {
	return ts.issue(payload, ts.RefreshTokenSecret, ts.RefreshTokenExpiry)
}

func (ts *TokenService) issue(payload domain.TokenPayload, secret string, lifetime time.Duration) (string, time.Time, error) {
	now := ts.Now()
	expiresAt := now.Add(lifetime)

	claims := JWTCustomClaims{
		UserID:   payload.UserID,
		Username: payload.Username,
		RegisteredClaims: jwt.RegisteredClaims{
			ID:        uuid.NewString(),
			ExpiresAt: jwt.NewNumericDate(expiresAt),
			IssuedAt:  jwt.NewNumericDate(now),
		},
	}

	token, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString([]byte(secret))
	if err != nil {
		return "", time.Time{}, fmt.Errorf("failed to sign token: %w", err)
	}

	// exp has second precision; report what the token actually carries.
	return token, claims.ExpiresAt.Time, nil
}

func (ts *TokenService) GetAccessTokenExpiry() time.Duration {
	return ts.AccessTokenExpiry
}

func (ts *TokenService) GetRefreshTokenExpiry() time.Duration {
	return ts.RefreshTokenExpiry
}

// VerifyAccessToken parses and validates the given access token string.
func (ts *TokenService) VerifyAccessToken(tokenString string) (*JWTCustomClaims, error) {
	return ts.verify(tokenString, ts.AccessTokenSecret)
}

// VerifyRefreshToken parses and validates the given refresh token string.
func (ts *TokenService) VerifyRefreshToken(tokenString string) (*JWTCustomClaims, error) {
	return ts.verify(tokenString, ts.RefreshTokenSecret)
}

func (ts *TokenService) verify(tokenString, secret string) (*JWTCustomClaims, error) {
	claims := &JWTCustomClaims{}
	token, err := jwt.ParseWithClaims(tokenString, claims, func(token *jwt.Token) (interface{}, error) {
		// Ensure the token's signing method is HMAC.
		if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method: %v", token.Header["alg"])
		}
		return []byte(secret), nil
	},
		jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}),
		jwt.WithExpirationRequired(),
		jwt.WithTimeFunc(ts.Now),
	)

	if err != nil {
		if errors.Is(err, jwt.ErrTokenExpired) {
			return nil, apperrors.ErrTokenExpired
		}
		return nil, fmt.Errorf("%w: %v", apperrors.ErrInvalidToken, err)
	}

	if !token.Valid || claims.UserID == "" {
		return nil, apperrors.ErrInvalidToken
	}

	return claims, nil
}
