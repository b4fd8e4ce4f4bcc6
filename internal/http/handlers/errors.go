package handlers

import (
	"errors"

	"github.com/gofiber/fiber/v2"

	"storefront/internal/domain"
	applog "storefront/internal/log"
	"storefront/internal/services"
)

type ErrorResponse struct {
	Error   string `json:"error"`
	Message string `json:"message"`
}

func statusFor(k domain.Kind) int {
	switch k {
	case domain.KindValidation, domain.KindInsufficientStock:
		return fiber.StatusBadRequest
	case domain.KindNotFound:
		return fiber.StatusNotFound
	case domain.KindForbidden:
		return fiber.StatusForbidden
	case domain.KindUnauthorized:
		return fiber.StatusUnauthorized
	}
	return fiber.StatusInternalServerError
}

// fail writes err as a JSON error body. Business failures keep their
// message; anything else is logged and replaced by a generic one.
func fail(c *fiber.Ctx, action string, err error) error {
	k := domain.KindOf(err)
	if k == "" {
		applog.Error(c, action+".fail", err, nil)
		return c.Status(fiber.StatusInternalServerError).JSON(ErrorResponse{
			Error:   "internal_error",
			Message: "Something went wrong. Please try again.",
		})
	}
	status := statusFor(k)
	c.Status(status)
	switch k {
	case domain.KindForbidden, domain.KindUnauthorized:
		applog.Denied(c, action, map[string]any{"reason": err.Error()})
	case domain.KindValidation:
		applog.Security(c, "validation.fail", map[string]any{"action": action, "reason": err.Error()})
	default:
		applog.Info(c, action+".fail", map[string]any{"kind": string(k), "reason": err.Error()})
	}
	return c.JSON(ErrorResponse{Error: string(k), Message: err.Error()})
}

func badRequest(c *fiber.Ctx, msg string) error {
	return c.Status(fiber.StatusBadRequest).JSON(ErrorResponse{Error: string(domain.KindValidation), Message: msg})
}

// ErrorHandler is the app-level fallback; it never leaks internals.
func ErrorHandler(c *fiber.Ctx, err error) error {
	var fe *fiber.Error
	if errors.As(err, &fe) && fe.Code < fiber.StatusInternalServerError {
		return c.Status(fe.Code).JSON(ErrorResponse{Error: "request_error", Message: fe.Message})
	}
	applog.Error(c, "server.error", err, nil)
	return c.Status(fiber.StatusInternalServerError).JSON(ErrorResponse{
		Error:   "internal_error",
		Message: "Something went wrong. Please try again.",
	})
}

func authFail(c *fiber.Ctx, err error) error {
	msg := "Invalid or expired token"
	if errors.Is(err, services.ErrBadCreds) {
		msg = "Invalid credentials"
	}
	return c.Status(fiber.StatusUnauthorized).JSON(ErrorResponse{Error: string(domain.KindUnauthorized), Message: msg})
}
