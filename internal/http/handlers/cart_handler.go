package handlers

import (
	"github.com/gofiber/fiber/v2"

	applog "storefront/internal/log"
	"storefront/internal/services"
)

type CartHandler struct {
	Cart *services.CartService
}

// GET /api/v1/cart
func (h *CartHandler) View(c *fiber.Ctx) error {
	cv, err := h.Cart.View(c.UserContext(), currentUser(c))
	if err != nil {
		return fail(c, "cart.view", err)
	}
	return c.JSON(cv)
}

// POST /api/v1/cart/items
func (h *CartHandler) Add(c *fiber.Ctx) error {
	var req services.AddItemRequest
	if err := c.BodyParser(&req); err != nil {
		return badRequest(c, "invalid request body")
	}
	cv, err := h.Cart.Add(c.UserContext(), currentUser(c), req)
	if err != nil {
		return fail(c, "cart.add", err)
	}
	applog.Info(c, "cart.add", map[string]any{"product": req.ProductID, "total_items": cv.TotalItems})
	return c.JSON(cv)
}

// PUT /api/v1/cart/items/:product_id
func (h *CartHandler) Update(c *fiber.Ctx) error {
	var req services.UpdateItemRequest
	if err := c.BodyParser(&req); err != nil {
		return badRequest(c, "invalid request body")
	}
	pid := c.Params("product_id")
	cv, err := h.Cart.UpdateQuantity(c.UserContext(), currentUser(c), pid, req)
	if err != nil {
		return fail(c, "cart.update", err)
	}
	applog.Info(c, "cart.update", map[string]any{"product": pid, "qty": req.Quantity})
	return c.JSON(cv)
}

// DELETE /api/v1/cart/items/:product_id
func (h *CartHandler) Remove(c *fiber.Ctx) error {
	pid := c.Params("product_id")
	cv, err := h.Cart.Remove(c.UserContext(), currentUser(c), pid)
	if err != nil {
		return fail(c, "cart.remove", err)
	}
	applog.Info(c, "cart.remove", map[string]any{"product": pid})
	return c.JSON(cv)
}

type removedResponse struct {
	Removed int64  `json:"removed"`
	Message string `json:"message"`
}

// POST /api/v1/cart/clear
func (h *CartHandler) Clear(c *fiber.Ctx) error {
	n, err := h.Cart.Clear(c.UserContext(), currentUser(c))
	if err != nil {
		return fail(c, "cart.clear", err)
	}
	applog.Info(c, "cart.clear", map[string]any{"removed": n})
	return c.JSON(removedResponse{Removed: n, Message: "Cart cleared"})
}

// DELETE /api/v1/cart/:id
func (h *CartHandler) Delete(c *fiber.Ctx) error {
	id := c.Params("id")
	n, err := h.Cart.Delete(c.UserContext(), currentUser(c), id)
	if err != nil {
		return fail(c, "cart.delete", err)
	}
	applog.Audit(c, "cart.delete", map[string]any{"cart_id": id, "removed": n})
	return c.JSON(removedResponse{Removed: n, Message: "Cart deleted"})
}
