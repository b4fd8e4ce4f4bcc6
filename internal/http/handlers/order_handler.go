package handlers

import (
	"github.com/gofiber/fiber/v2"

	"storefront/internal/domain"
	applog "storefront/internal/log"
	"storefront/internal/services"
)

type OrderHandler struct {
	Order *services.OrderService
}

// POST /api/v1/cart/checkout
func (h *OrderHandler) Checkout(c *fiber.Ctx) error {
	var req services.CheckoutRequest
	if err := c.BodyParser(&req); err != nil {
		return badRequest(c, "invalid request body")
	}
	res, err := h.Order.Checkout(c.UserContext(), currentUser(c), req)
	if err != nil {
		return fail(c, "order.place", err)
	}
	applog.Audit(c, "order.place", map[string]any{
		"order_id": res.Order.ID,
		"total":    res.Order.TotalAmount.String(),
		"items":    len(res.Order.Items),
		"payment":  string(res.Order.PaymentMethod),
	})
	return c.Status(fiber.StatusCreated).JSON(res)
}

// GET /api/v1/orders
func (h *OrderHandler) History(c *fiber.Ctx) error {
	orders, err := h.Order.List(c.UserContext(), currentUser(c))
	if err != nil {
		return fail(c, "orders.history", err)
	}
	return c.JSON(orders)
}

// GET /api/v1/orders/:id
func (h *OrderHandler) View(c *fiber.Ctx) error {
	oid := c.Params("id")
	o, err := h.Order.Get(c.UserContext(), currentUser(c), oid)
	if err != nil {
		// Someone else's order is reported as missing.
		if domain.KindOf(err) == domain.KindForbidden {
			applog.Denied(c, "order", map[string]any{"order_id": oid})
			return c.Status(fiber.StatusNotFound).JSON(ErrorResponse{Error: string(domain.KindNotFound), Message: "Order not found"})
		}
		return fail(c, "orders.view", err)
	}
	return c.JSON(o)
}

// POST /api/v1/orders/:id/cancel
func (h *OrderHandler) Cancel(c *fiber.Ctx) error {
	oid := c.Params("id")
	o, err := h.Order.Cancel(c.UserContext(), currentUser(c), oid)
	if err != nil {
		return fail(c, "orders.cancel", err)
	}
	applog.Audit(c, "orders.cancel", map[string]any{"order_id": oid})
	return c.JSON(o)
}

// POST /api/v1/orders/:id/status
func (h *OrderHandler) UpdateStatus(c *fiber.Ctx) error {
	var req services.UpdateStatusRequest
	if err := c.BodyParser(&req); err != nil || req.Status == "" {
		return badRequest(c, "status is required")
	}
	oid := c.Params("id")
	o, err := h.Order.UpdateStatus(c.UserContext(), currentUser(c), oid, req)
	if err != nil {
		return fail(c, "orders.update", err)
	}
	applog.Audit(c, "orders.update", map[string]any{"order_id": oid, "status": req.Status})
	return c.JSON(o)
}

// DELETE /api/v1/orders/:id
func (h *OrderHandler) Delete(c *fiber.Ctx) error {
	oid := c.Params("id")
	if err := h.Order.Delete(c.UserContext(), currentUser(c), oid); err != nil {
		return fail(c, "orders.delete", err)
	}
	applog.Audit(c, "orders.delete", map[string]any{"order_id": oid})
	return c.SendStatus(fiber.StatusNoContent)
}
