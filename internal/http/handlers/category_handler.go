package handlers

import (
	"github.com/gofiber/fiber/v2"

	applog "storefront/internal/log"
	"storefront/internal/services"
)

type CategoryHandler struct {
	Catalog *services.CatalogService
}

func (h *CategoryHandler) List(c *fiber.Ctx) error {
	cats, err := h.Catalog.ListCategories(c.UserContext())
	if err != nil {
		return fail(c, "categories.list", err)
	}
	return c.JSON(cats)
}

func (h *CategoryHandler) Create(c *fiber.Ctx) error {
	var req services.CategoryRequest
	if err := c.BodyParser(&req); err != nil {
		return badRequest(c, "invalid request body")
	}
	cat, err := h.Catalog.CreateCategory(c.UserContext(), currentUser(c), req)
	if err != nil {
		return fail(c, "categories.create", err)
	}
	applog.Audit(c, "categories.create", map[string]any{"category_id": cat.ID, "name": cat.Name})
	return c.Status(fiber.StatusCreated).JSON(cat)
}

// GET /api/v1/categories/:id/products
func (h *CategoryHandler) Products(c *fiber.Ctx) error {
	page, size := pageParams(c)
	products, err := h.Catalog.CategoryProducts(c.UserContext(), c.Params("id"), page, size)
	if err != nil {
		return fail(c, "categories.products", err)
	}
	return c.JSON(productViews(products))
}

// DELETE /api/v1/categories/:id?force=true
func (h *CategoryHandler) Delete(c *fiber.Ctx) error {
	id := c.Params("id")
	force := c.QueryBool("force", false)
	res, err := h.Catalog.DeleteCategory(c.UserContext(), currentUser(c), id, force)
	if err != nil {
		return fail(c, "categories.delete", err)
	}
	applog.Audit(c, "categories.delete", map[string]any{"category_id": id, "force": force, "deactivated": res.Deactivated})
	return c.JSON(res)
}
