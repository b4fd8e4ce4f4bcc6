package handlers

import (
	"strings"

	"github.com/gofiber/fiber/v2"

	"storefront/internal/domain"
	applog "storefront/internal/log"
	"storefront/internal/services"
)

func bearer(c *fiber.Ctx) string {
	h := c.Get(fiber.HeaderAuthorization)
	if !strings.HasPrefix(h, "Bearer ") {
		return ""
	}
	return strings.TrimSpace(strings.TrimPrefix(h, "Bearer "))
}

func currentUser(c *fiber.Ctx) *domain.User {
	u, _ := c.Locals("user").(*domain.User)
	return u
}

// Authenticate attaches the bearer token's user to the context when the
// token is valid. It never rejects; the Require* guards do that.
func Authenticate(auth *services.AuthService) fiber.Handler {
	return func(c *fiber.Ctx) error {
		if tok := bearer(c); tok != "" {
			if u, err := auth.CurrentUser(c.UserContext(), tok); err == nil && u != nil {
				c.Locals("user", u)
			} else if err != nil {
				applog.Security(c, "auth.token.invalid", map[string]any{"reason": err.Error()})
			}
		}
		return c.Next()
	}
}

// RequireUser enforces that a user is authenticated.
func RequireUser() fiber.Handler {
	return func(c *fiber.Ctx) error {
		if currentUser(c) == nil {
			applog.Denied(c, "anonymous", nil)
			return c.Status(fiber.StatusUnauthorized).JSON(ErrorResponse{
				Error:   string(domain.KindUnauthorized),
				Message: "Authentication credentials were not provided",
			})
		}
		return c.Next()
	}
}

// RequireStaff guards the admin group.
func RequireStaff() fiber.Handler {
	return func(c *fiber.Ctx) error {
		u := currentUser(c)
		if u == nil {
			applog.Denied(c, "anonymous", nil)
			return c.Status(fiber.StatusUnauthorized).JSON(ErrorResponse{
				Error:   string(domain.KindUnauthorized),
				Message: "Authentication credentials were not provided",
			})
		}
		if !services.IsStaff(u) {
			applog.Denied(c, "admin", map[string]any{"role": "staff"})
			return c.Status(fiber.StatusForbidden).JSON(ErrorResponse{
				Error:   string(domain.KindForbidden),
				Message: "Access denied",
			})
		}
		return c.Next()
	}
}
