package handlers

import (
	"github.com/gofiber/fiber/v2"

	applog "storefront/internal/log"
	"storefront/internal/services"
	"storefront/internal/validate"
)

type AuthHandler struct {
	Auth *services.AuthService
}

// POST /api/v1/auth/login
func (h *AuthHandler) Login(c *fiber.Ctx) error {
	var req services.LoginRequest
	if err := c.BodyParser(&req); err != nil {
		return badRequest(c, "invalid request body")
	}
	username, ok := validate.Username(req.Username)
	if !ok || req.Password == "" {
		applog.Security(c, "auth.login.fail", map[string]any{"username": req.Username, "reason": "bad_format"})
		return badRequest(c, "username and password required")
	}
	if !validate.Password(req.Password) {
		applog.Security(c, "auth.login.fail", map[string]any{"username": username, "reason": "bad_password_format"})
		return authFail(c, services.ErrBadCreds)
	}

	pair, err := h.Auth.Login(c.UserContext(), username, req.Password)
	if err != nil {
		if err == services.ErrBadCreds {
			applog.Security(c, "auth.login.fail", map[string]any{"username": username})
			return authFail(c, err)
		}
		return fail(c, "auth.login", err)
	}
	c.Locals("user", pair.User)
	applog.Audit(c, "auth.login.success", map[string]any{"username": username})
	return c.JSON(pair)
}

// POST /api/v1/auth/register
func (h *AuthHandler) Register(c *fiber.Ctx) error {
	var req services.RegisterRequest
	if err := c.BodyParser(&req); err != nil {
		return badRequest(c, "invalid request body")
	}
	pair, err := h.Auth.Register(c.UserContext(), req)
	if err != nil {
		return fail(c, "auth.register", err)
	}
	c.Locals("user", pair.User)
	applog.Audit(c, "auth.register.success", map[string]any{"username": pair.User.Username})
	return c.Status(fiber.StatusCreated).JSON(pair)
}

// POST /api/v1/auth/logout
func (h *AuthHandler) Logout(c *fiber.Ctx) error {
	var req services.RefreshRequest
	if err := c.BodyParser(&req); err != nil || req.Refresh == "" {
		return badRequest(c, "refresh token required")
	}
	if err := h.Auth.Logout(c.UserContext(), currentUser(c), req.Refresh); err != nil {
		if err == services.ErrInvalidToken || err == services.ErrExpiredToken {
			applog.Security(c, "auth.logout.fail", map[string]any{"reason": err.Error()})
			return authFail(c, err)
		}
		return fail(c, "auth.logout", err)
	}
	applog.Audit(c, "auth.logout", nil)
	return c.SendStatus(fiber.StatusNoContent)
}

// POST /api/v1/auth/refresh
func (h *AuthHandler) Refresh(c *fiber.Ctx) error {
	var req services.RefreshRequest
	if err := c.BodyParser(&req); err != nil || req.Refresh == "" {
		return badRequest(c, "refresh token required")
	}
	pair, err := h.Auth.Refresh(c.UserContext(), req.Refresh)
	if err != nil {
		applog.Security(c, "auth.refresh.fail", map[string]any{"reason": err.Error()})
		return authFail(c, err)
	}
	return c.JSON(pair)
}

// GET /api/v1/auth/me
func (h *AuthHandler) Me(c *fiber.Ctx) error {
	return c.JSON(currentUser(c))
}
