package handlers

import (
	"github.com/gofiber/fiber/v2"

	"storefront/internal/domain"
	"storefront/internal/services"
)

type AdminHandler struct {
	Inv    *services.InventoryService
	Orders *services.OrderService
}

// GET /api/v1/admin
func (h *AdminHandler) Dashboard(c *fiber.Ctx) error {
	return c.JSON(fiber.Map{
		"user":           currentUser(c),
		"order_statuses": domain.OrderStatuses(),
		"inventory_path": "/api/v1/admin/inventory",
		"orders_path":    "/api/v1/admin/orders",
	})
}

// GET /api/v1/admin/orders
func (h *AdminHandler) OrdersPage(c *fiber.Ctx) error {
	ords, err := h.Orders.List(c.UserContext(), currentUser(c))
	if err != nil {
		return fail(c, "admin.orders.list", err)
	}
	return c.JSON(ords)
}

// GET /api/v1/admin/inventory
func (h *AdminHandler) Inventory(c *fiber.Ctx) error {
	rows, err := h.Inv.List(c.UserContext(), currentUser(c))
	if err != nil {
		return fail(c, "admin.inventory.list", err)
	}
	return c.JSON(rows)
}
