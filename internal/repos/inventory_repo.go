package repos

import (
	"context"

	"github.com/jmoiron/sqlx"
	"github.com/shopspring/decimal"

	"storefront/internal/domain"
)

// InventoryRepo owns every write to products.stock.
type InventoryRepo struct{ q sqlx.ExtContext }

func NewInventoryRepo(q sqlx.ExtContext) *InventoryRepo { return &InventoryRepo{q: q} }

func (r *InventoryRepo) WithTx(tx *sqlx.Tx) *InventoryRepo { return &InventoryRepo{q: tx} }

// Row used by the admin inventory listing
type InventoryRow struct {
	ProductID string          `db:"product_id" json:"product_id"`
	Name      string          `db:"name" json:"name"`
	Price     decimal.Decimal `db:"price" json:"price"`
	Stock     int             `db:"stock" json:"stock"`
	Active    bool            `db:"active" json:"is_active"`
}

func (r *InventoryRepo) ListAll(ctx context.Context) ([]InventoryRow, error) {
	rows := []InventoryRow{}
	err := sqlx.SelectContext(ctx, r.q, &rows, `
		SELECT id AS product_id, name, price, stock, active
		FROM products
		ORDER BY name, id
	`)
	return rows, err
}

// Qty returns current stock for a product.
func (r *InventoryRepo) Qty(ctx context.Context, productID string) (int, error) {
	var qty int
	if err := sqlx.GetContext(ctx, r.q, &qty, `SELECT stock FROM products WHERE id = ?`, productID); err != nil {
		return 0, notFound(err, "product", productID)
	}
	return qty, nil
}

// Decrement subtracts "by" units only if enough stock exists, so stock can
// never go below zero.
func (r *InventoryRepo) Decrement(ctx context.Context, productID string, by int) error {
	res, err := r.q.ExecContext(ctx, `
		UPDATE products
		SET stock = stock - ?, updated_at = CURRENT_TIMESTAMP
		WHERE id = ? AND stock >= ?
	`, by, productID, by)
	if err != nil {
		return err
	}
	n, _ := res.RowsAffected()
	if n == 0 {
		have, err := r.Qty(ctx, productID)
		if err != nil {
			return err
		}
		return domain.InsufficientStock("insufficient stock for %s (need %d, have %d)", productID, by, have)
	}
	return nil
}

// Increment returns units to stock.
func (r *InventoryRepo) Increment(ctx context.Context, productID string, by int) error {
	res, err := r.q.ExecContext(ctx, `
		UPDATE products SET stock = stock + ?, updated_at = CURRENT_TIMESTAMP WHERE id = ?
	`, by, productID)
	return mustAffect(res, err, "product", productID)
}

// SetQty overwrites the stock level.
func (r *InventoryRepo) SetQty(ctx context.Context, productID string, qty int) error {
	res, err := r.q.ExecContext(ctx, `
		UPDATE products SET stock = ?, updated_at = CURRENT_TIMESTAMP WHERE id = ?
	`, qty, productID)
	return mustAffect(res, err, "product", productID)
}
