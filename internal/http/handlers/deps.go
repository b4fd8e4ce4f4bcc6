package handlers

import (
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/limiter"
	"github.com/jmoiron/sqlx"

	"storefront/internal/config"
	applog "storefront/internal/log"
	"storefront/internal/repos"
	"storefront/internal/services"
)

type Deps struct {
	Auth             *services.AuthService
	Tokens           *services.TokenManager
	AuthHandler      *AuthHandler
	CategoryHandler  *CategoryHandler
	ProductHandler   *ProductHandler
	InventoryHandler *InventoryHandler
	CartHandler      *CartHandler
	OrderHandler     *OrderHandler
	AdminHandler     *AdminHandler
}

func NewDeps(db *sqlx.DB, cfg config.Config) *Deps {
	catRepo := repos.NewCategoryRepo(db)
	prodRepo := repos.NewProductRepo(db)
	invRepo := repos.NewInventoryRepo(db)
	cartRepo := repos.NewCartRepo(db)
	orderRepo := repos.NewOrderRepo(db)
	userRepo := repos.NewUserRepo(db)

	tokens := services.NewTokenManager(services.TokenConfig{
		Secret:     cfg.JWTSecret,
		Issuer:     cfg.JWTIssuer,
		AccessTTL:  cfg.AccessTokenTTL,
		RefreshTTL: cfg.RefreshTokenTTL,
	})
	authSvc := &services.AuthService{DB: db, Users: userRepo, Tokens: tokens, Revoked: repos.NewTokenRepo(db)}
	catalogSvc := services.NewCatalogService(db, catRepo, prodRepo, invRepo)
	invSvc := services.NewInventoryService(invRepo, prodRepo)
	cartSvc := services.NewCartService(db, cartRepo, prodRepo)
	orderSvc := services.NewOrderService(db, cartRepo, invRepo, orderRepo)

	return &Deps{
		Auth:             authSvc,
		Tokens:           tokens,
		AuthHandler:      &AuthHandler{Auth: authSvc},
		CategoryHandler:  &CategoryHandler{Catalog: catalogSvc},
		ProductHandler:   &ProductHandler{Catalog: catalogSvc},
		InventoryHandler: &InventoryHandler{Inv: invSvc},
		CartHandler:      &CartHandler{Cart: cartSvc},
		OrderHandler:     &OrderHandler{Order: orderSvc},
		AdminHandler:     &AdminHandler{Inv: invSvc, Orders: orderSvc},
	}
}

// Register mounts the JSON API under /api/v1. Authenticate must already be
// installed on the app.
func (d *Deps) Register(app *fiber.App) {
	api := app.Group("/api/v1")

	auth := api.Group("/auth")
	auth.Post("/login", limiter.New(limiter.Config{
		Max:        5,
		Expiration: 10 * time.Minute,
		LimitReached: func(c *fiber.Ctx) error {
			applog.Security(c, "rate.login.hit", nil)
			return c.Status(fiber.StatusTooManyRequests).JSON(ErrorResponse{
				Error:   "rate_limited",
				Message: "Too many attempts. Please try again later.",
			})
		},
	}), d.AuthHandler.Login)
	auth.Post("/register", limiter.New(limiter.Config{
		Max:        10,
		Expiration: time.Hour,
		LimitReached: func(c *fiber.Ctx) error {
			applog.Security(c, "rate.register.hit", nil)
			return c.Status(fiber.StatusTooManyRequests).JSON(ErrorResponse{
				Error:   "rate_limited",
				Message: "Too many attempts. Please try again later.",
			})
		},
	}), d.AuthHandler.Register)
	auth.Post("/refresh", d.AuthHandler.Refresh)
	auth.Post("/logout", RequireUser(), d.AuthHandler.Logout)
	auth.Get("/me", RequireUser(), d.AuthHandler.Me)

	api.Get("/categories", d.CategoryHandler.List)
	api.Post("/categories", RequireStaff(), d.CategoryHandler.Create)
	api.Get("/categories/:id/products", d.CategoryHandler.Products)
	api.Delete("/categories/:id", RequireStaff(), d.CategoryHandler.Delete)

	availLimiter := limiter.New(limiter.Config{
		Max:        15,
		Expiration: 30 * time.Second,
		KeyGenerator: func(c *fiber.Ctx) string {
			return c.IP() + "|avail"
		},
		LimitReached: func(c *fiber.Ctx) error {
			applog.Security(c, "rate.availability.hit", nil)
			return c.Status(fiber.StatusTooManyRequests).JSON(ErrorResponse{
				Error:   "rate_limited",
				Message: "rate limit exceeded, retry soon",
			})
		},
	})
	api.Get("/products", d.ProductHandler.List)
	api.Get("/products/:id", d.ProductHandler.Detail)
	api.Get("/products/:id/availability", availLimiter, d.InventoryHandler.Check)
	api.Post("/products", RequireStaff(), d.ProductHandler.Create)
	api.Put("/products/:id", RequireStaff(), d.ProductHandler.Update)
	api.Post("/products/:id/update_stock", RequireStaff(), d.ProductHandler.UpdateStock)
	api.Post("/products/:id/deactivate", RequireStaff(), d.ProductHandler.Deactivate)
	api.Post("/products/:id/reactivate", RequireStaff(), d.ProductHandler.Reactivate)
	api.Delete("/products/:id", RequireStaff(), d.ProductHandler.Delete)

	cart := api.Group("/cart", RequireUser())
	cart.Get("/", d.CartHandler.View)
	cart.Post("/items", d.CartHandler.Add)
	cart.Put("/items/:product_id", d.CartHandler.Update)
	cart.Delete("/items/:product_id", d.CartHandler.Remove)
	cart.Post("/clear", d.CartHandler.Clear)
	cart.Post("/checkout", d.OrderHandler.Checkout)
	cart.Delete("/:id", d.CartHandler.Delete)

	orders := api.Group("/orders", RequireUser())
	orders.Get("/", d.OrderHandler.History)
	orders.Get("/:id", d.OrderHandler.View)
	orders.Post("/:id/cancel", d.OrderHandler.Cancel)
	orders.Post("/:id/status", RequireStaff(), d.OrderHandler.UpdateStatus)
	orders.Delete("/:id", RequireStaff(), d.OrderHandler.Delete)

	admin := api.Group("/admin", RequireStaff())
	admin.Get("/", d.AdminHandler.Dashboard)
	admin.Get("/orders", d.AdminHandler.OrdersPage)
	admin.Get("/inventory", d.AdminHandler.Inventory)
}
