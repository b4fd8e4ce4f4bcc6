package services_test

import (
	"context"
	"testing"

	"github.com/jmoiron/sqlx"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/require"

	"storefront/internal/domain"
	"storefront/internal/repos"
	"storefront/internal/services"
)

type env struct {
	db      *sqlx.DB
	catalog *services.CatalogService
	inv     *services.InventoryService
	cart    *services.CartService
	orders  *services.OrderService

	alice, bob, staff, admin *domain.User
}

func newEnv(t *testing.T) *env {
	t.Helper()
	db, err := repos.OpenDB(":memory:", false)
	require.NoError(t, err)
	t.Cleanup(func() { _ = db.Close() })

	cats := repos.NewCategoryRepo(db)
	prods := repos.NewProductRepo(db)
	inv := repos.NewInventoryRepo(db)
	carts := repos.NewCartRepo(db)
	orders := repos.NewOrderRepo(db)
	users := repos.NewUserRepo(db)

	e := &env{
		db:      db,
		catalog: services.NewCatalogService(db, cats, prods, inv),
		inv:     services.NewInventoryService(inv, prods),
		cart:    services.NewCartService(db, carts, prods),
		orders:  services.NewOrderService(db, carts, inv, orders),
	}
	ctx := context.Background()
	for id, dst := range map[string]**domain.User{"u-alice": &e.alice, "u-bob": &e.bob, "u-staff": &e.staff, "u-admin": &e.admin} {
		u, err := users.ByID(ctx, id)
		require.NoError(t, err)
		*dst = u
	}
	return e
}

func (e *env) category(t *testing.T, id, name string) {
	t.Helper()
	_, err := e.db.Exec(`INSERT INTO categories(id,name) VALUES(?,?)`, id, name)
	require.NoError(t, err)
}

// product inserts an active product directly; price is a decimal string.
func (e *env) product(t *testing.T, id, price string, stock int) {
	t.Helper()
	_, err := e.db.Exec(`INSERT INTO products(id,name,price,stock) VALUES(?,?,?,?)`, id, "Product "+id, price, stock)
	require.NoError(t, err)
}

func (e *env) stock(t *testing.T, id string) int {
	t.Helper()
	var n int
	require.NoError(t, e.db.Get(&n, `SELECT stock FROM products WHERE id=?`, id))
	return n
}

func qty(n int) *int { return &n }

func dec(s string) decimal.Decimal { return decimal.RequireFromString(s) }
