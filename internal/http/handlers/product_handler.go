package handlers

import (
	"github.com/gofiber/fiber/v2"

	"storefront/internal/domain"
	applog "storefront/internal/log"
	"storefront/internal/services"
	"storefront/internal/validate"
)

type ProductHandler struct {
	Catalog *services.CatalogService
}

type productView struct {
	domain.Product
	IsAvailable bool `json:"is_available"`
}

func productViews(ps []domain.Product) []productView {
	out := make([]productView, 0, len(ps))
	for _, p := range ps {
		out = append(out, productView{Product: p, IsAvailable: p.Available()})
	}
	return out
}

func pageParams(c *fiber.Ctx) (int, int) {
	return c.QueryInt("page", 1), c.QueryInt("page_size", 20)
}

// GET /api/v1/products?category=
func (h *ProductHandler) List(c *fiber.Ctx) error {
	page, size := pageParams(c)
	cat := c.Query("category")
	if cat != "" {
		if _, ok := validate.ID(cat); !ok {
			return badRequest(c, "invalid category")
		}
	}
	products, err := h.Catalog.ListProducts(c.UserContext(), cat, page, size)
	if err != nil {
		return fail(c, "products.list", err)
	}
	return c.JSON(productViews(products))
}

func (h *ProductHandler) Detail(c *fiber.Ctx) error {
	id, ok := validate.ID(c.Params("id"))
	if !ok {
		applog.Security(c, "validation.fail", map[string]any{"field": "product"})
		return c.Status(fiber.StatusNotFound).JSON(ErrorResponse{Error: string(domain.KindNotFound), Message: "This item is no longer available"})
	}
	p, err := h.Catalog.GetProduct(c.UserContext(), currentUser(c), id)
	if err != nil {
		return fail(c, "products.detail", err)
	}
	return c.JSON(productView{Product: p, IsAvailable: p.Available()})
}

func (h *ProductHandler) Create(c *fiber.Ctx) error {
	var req services.ProductRequest
	if err := c.BodyParser(&req); err != nil {
		return badRequest(c, "invalid request body")
	}
	p, err := h.Catalog.CreateProduct(c.UserContext(), currentUser(c), req)
	if err != nil {
		return fail(c, "products.create", err)
	}
	applog.Audit(c, "products.create", map[string]any{"product": p.ID, "price": p.Price.String(), "stock": p.Stock})
	return c.Status(fiber.StatusCreated).JSON(productView{Product: p, IsAvailable: p.Available()})
}

func (h *ProductHandler) Update(c *fiber.Ctx) error {
	var req services.ProductRequest
	if err := c.BodyParser(&req); err != nil {
		return badRequest(c, "invalid request body")
	}
	p, err := h.Catalog.UpdateProduct(c.UserContext(), currentUser(c), c.Params("id"), req)
	if err != nil {
		return fail(c, "products.update", err)
	}
	applog.Audit(c, "products.update", map[string]any{"product": p.ID, "price": p.Price.String()})
	return c.JSON(productView{Product: p, IsAvailable: p.Available()})
}

type stockRequest struct {
	Quantity *int `json:"quantity"`
}

// POST /api/v1/products/:id/update_stock
func (h *ProductHandler) UpdateStock(c *fiber.Ctx) error {
	var req stockRequest
	if err := c.BodyParser(&req); err != nil || req.Quantity == nil {
		return badRequest(c, "quantity is required")
	}
	p, err := h.Catalog.UpdateStock(c.UserContext(), currentUser(c), c.Params("id"), *req.Quantity)
	if err != nil {
		return fail(c, "products.stock", err)
	}
	applog.Audit(c, "products.stock", map[string]any{"product": p.ID, "qty": p.Stock})
	return c.JSON(productView{Product: p, IsAvailable: p.Available()})
}

func (h *ProductHandler) Deactivate(c *fiber.Ctx) error {
	p, err := h.Catalog.Deactivate(c.UserContext(), currentUser(c), c.Params("id"))
	if err != nil {
		return fail(c, "products.deactivate", err)
	}
	applog.Audit(c, "products.deactivate", map[string]any{"product": p.ID})
	return c.JSON(productView{Product: p, IsAvailable: p.Available()})
}

func (h *ProductHandler) Reactivate(c *fiber.Ctx) error {
	p, err := h.Catalog.Reactivate(c.UserContext(), currentUser(c), c.Params("id"))
	if err != nil {
		return fail(c, "products.reactivate", err)
	}
	applog.Audit(c, "products.reactivate", map[string]any{"product": p.ID})
	return c.JSON(productView{Product: p, IsAvailable: p.Available()})
}

// DELETE /api/v1/products/:id
func (h *ProductHandler) Delete(c *fiber.Ctx) error {
	id := c.Params("id")
	if err := h.Catalog.HardDelete(c.UserContext(), currentUser(c), id); err != nil {
		return fail(c, "products.delete", err)
	}
	applog.Audit(c, "products.delete", map[string]any{"product": id})
	return c.SendStatus(fiber.StatusNoContent)
}
