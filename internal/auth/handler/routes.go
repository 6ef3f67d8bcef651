package handler

import (
	"github.com/gofiber/fiber/v2"
)

func RegisterRoutes(app fiber.Router, h *AuthHandler) {
	auth := app.Group("/api/auth")
	auth.Post("/login", h.Login)
	auth.Post("/refresh", h.Refresh)
	auth.Post("/logout", h.Logout)

	// Accounts are created by an authenticated operator.
	auth.Post("/register", h.RequireAuth, h.Register)
}
