package handler

import (
	"errors"
	"time"

	"github.com/Mohamad548/smart-accounting-receipt-manager-backend/internal/auth/domain"
	"github.com/Mohamad548/smart-accounting-receipt-manager-backend/internal/auth/dto"
	"github.com/Mohamad548/smart-accounting-receipt-manager-backend/internal/auth/service"
	apperrors "github.com/Mohamad548/smart-accounting-receipt-manager-backend/internal/errors"
	"github.com/Mohamad548/smart-accounting-receipt-manager-backend/internal/httpx"
	"github.com/Mohamad548/smart-accounting-receipt-manager-backend/pkg/constant"
	"github.com/gofiber/fiber/v2"
	"go.uber.org/zap"
)

type AuthHandler struct {
	userService   *service.UserService
	tokenService  service.TokenGenerator
	denylist      domain.AccessTokenDenylist
	secureCookies bool
	log           *zap.Logger
}

func NewAuthHandler(
	userService *service.UserService,
	tokenService service.TokenGenerator,
	denylist domain.AccessTokenDenylist,
	secureCookies bool,
	log *zap.Logger,
) *AuthHandler {
	return &AuthHandler{
		userService:   userService,
		tokenService:  tokenService,
		denylist:      denylist,
		secureCookies: secureCookies,
		log:           log,
	}
}

type RefreshResponse struct {
	Success     bool   `json:"success"`
	AccessToken string `json:"accessToken"`
	ExpiresAt   int64  `json:"expiresAt"`
}

func (h *AuthHandler) Register(c *fiber.Ctx) error {
	var input dto.RegisterInput
	if err := httpx.Bind(c, &input); err != nil {
		return httpx.ErrorJSON(c, fiber.StatusBadRequest, constant.MsgInvalidInput)
	}

	user, err := h.userService.Register(c.UserContext(), input)
	if err != nil {
		if errors.Is(err, apperrors.ErrUsernameTaken) {
			return httpx.ErrorJSON(c, fiber.StatusBadRequest, constant.MsgUsernameTaken)
		}
		h.log.Error("register failed", zap.String("username", input.Username), zap.Error(err))
		return httpx.ErrorJSON(c, fiber.StatusInternalServerError, constant.MsgInternalError)
	}

	return c.Status(fiber.StatusCreated).JSON(dto.NewUserOutput(user))
}

func (h *AuthHandler) Login(c *fiber.Ctx) error {
	var input dto.LoginInput
	if err := httpx.Bind(c, &input); err != nil {
		return httpx.ErrorJSON(c, fiber.StatusBadRequest, constant.MsgCredentialsRequired)
	}

	out, err := h.userService.Login(c.UserContext(), input)
	if err != nil {
		if errors.Is(err, apperrors.ErrInvalidCredentials) {
			return httpx.ErrorJSON(c, fiber.StatusUnauthorized, constant.MsgInvalidCredentials)
		}
		h.log.Error("login failed", zap.String("username", input.Username), zap.Error(err))
		return httpx.ErrorJSON(c, fiber.StatusInternalServerError, constant.MsgLoginFailed)
	}

	h.setTokenCookies(c, out)

	return c.JSON(dto.LoginResponse{
		Success:     true,
		User:        out.User,
		AccessToken: out.AccessToken,
		ExpiresAt:   out.AccessExpiresAt.UnixMilli(),
	})
}

func (h *AuthHandler) Refresh(c *fiber.Ctx) error {
	refreshToken := c.Cookies(constant.RefreshTokenCookie)
	if refreshToken == "" {
		return httpx.ErrorJSON(c, fiber.StatusUnauthorized, constant.MsgRefreshMissing)
	}

	out, err := h.userService.Refresh(c.UserContext(), refreshToken)
	if err != nil {
		switch {
		case errors.Is(err, apperrors.ErrTokenExpired), errors.Is(err, apperrors.ErrRefreshTokenExpired):
			h.clearCookie(c, constant.RefreshTokenCookie)
			return httpx.ErrorJSON(c, fiber.StatusForbidden, constant.MsgRefreshExpired)
		case errors.Is(err, apperrors.ErrInvalidToken),
			errors.Is(err, apperrors.ErrTokenRevoked),
			errors.Is(err, apperrors.ErrUserNotFound):
			h.clearCookie(c, constant.RefreshTokenCookie)
			return httpx.ErrorJSON(c, fiber.StatusForbidden, constant.MsgRefreshInvalid)
		}
		h.log.Error("refresh failed", zap.Error(err))
		return httpx.ErrorJSON(c, fiber.StatusInternalServerError, constant.MsgRefreshFailed)
	}

	h.setTokenCookies(c, out)

	return c.JSON(RefreshResponse{
		Success:     true,
		AccessToken: out.AccessToken,
		ExpiresAt:   out.AccessExpiresAt.UnixMilli(),
	})
}

func (h *AuthHandler) Logout(c *fiber.Ctx) error {
	err := h.userService.Logout(c.UserContext(), c.Cookies(constant.RefreshTokenCookie), accessTokenFrom(c))

	h.clearCookie(c, constant.AccessTokenCookie)
	h.clearCookie(c, constant.RefreshTokenCookie)

	if err != nil {
		h.log.Error("logout failed", zap.Error(err))
		return httpx.ErrorJSON(c, fiber.StatusInternalServerError, constant.MsgLogoutFailed)
	}

	return c.JSON(httpx.MessageResponse{Success: true, Message: constant.MsgLogoutSuccess})
}

func (h *AuthHandler) setTokenCookies(c *fiber.Ctx, out *dto.LoginOutput) {
	h.setCookie(c, constant.AccessTokenCookie, out.AccessToken, h.tokenService.GetAccessTokenExpiry())
	h.setCookie(c, constant.RefreshTokenCookie, out.RefreshToken, h.tokenService.GetRefreshTokenExpiry())
}

func (h *AuthHandler) setCookie(c *fiber.Ctx, name, value string, maxAge time.Duration) {
	c.Cookie(&fiber.Cookie{
		Name:     name,
		Value:    value,
		Path:     "/",
		MaxAge:   int(maxAge.Seconds()),
		Secure:   h.secureCookies,
		HTTPOnly: true,
		SameSite: fiber.CookieSameSiteStrictMode,
	})
}

func (h *AuthHandler) clearCookie(c *fiber.Ctx, name string) {
	c.Cookie(&fiber.Cookie{
		Name:     name,
		Value:    "",
		Path:     "/",
		Expires:  time.Unix(0, 0),
		MaxAge:   -1,
		Secure:   h.secureCookies,
		HTTPOnly: true,
		SameSite: fiber.CookieSameSiteStrictMode,
	})
}
