package handler

import (
	"errors"
	"strings"

	"github.com/Mohamad548/smart-accounting-receipt-manager-backend/internal/auth/service"
	"github.com/Mohamad548/smart-accounting-receipt-manager-backend/internal/httpx"
	"github.com/Mohamad548/smart-accounting-receipt-manager-backend/pkg/constant"
	"github.com/gofiber/fiber/v2"
	"go.uber.org/zap"
)

// RequireAuth admits requests carrying a valid, non-revoked access token in the
// accessToken cookie or an Authorization Bearer header.
func (h *AuthHandler) RequireAuth(c *fiber.Ctx) error {
	token := accessTokenFrom(c)
	if token == "" {
		return httpx.ErrorJSON(c, fiber.StatusUnauthorized, constant.MsgUnauthorized)
	}

	claims, err := h.tokenService.VerifyAccessToken(token)
	if err != nil {
		return httpx.ErrorJSON(c, fiber.StatusForbidden, constant.MsgInvalidAccessToken)
	}

	if claims.ID != "" {
		revoked, err := h.denylist.IsRevoked(c.UserContext(), claims.ID)
		if err != nil {
			h.log.Error("denylist lookup failed", zap.Error(err))
			return httpx.ErrorJSON(c, fiber.StatusInternalServerError, constant.MsgInternalError)
		}
		if revoked {
			return httpx.ErrorJSON(c, fiber.StatusForbidden, constant.MsgInvalidAccessToken)
		}
	}

	c.Locals(constant.LocalsUser, claims)
	return c.Next()
}

// CurrentUser returns the claims stored by RequireAuth.
func CurrentUser(c *fiber.Ctx) (*service.JWTCustomClaims, error) {
	claims, ok := c.Locals(constant.LocalsUser).(*service.JWTCustomClaims)
	if !ok || claims == nil {
		return nil, errors.New("no authenticated user in context")
	}
	return claims, nil
}

func accessTokenFrom(c *fiber.Ctx) string {
	if token := c.Cookies(constant.AccessTokenCookie); token != "" {
		return token
	}
	token, ok := strings.CutPrefix(c.Get(fiber.HeaderAuthorization), "Bearer ")
	if !ok {
		return ""
	}
	return strings.TrimSpace(token)
}
