package repos

import (
	"context"
	"fmt"

	"github.com/jmoiron/sqlx"

	"storefront/internal/domain"
)

type ProductRepo struct{ q sqlx.ExtContext }

func NewProductRepo(q sqlx.ExtContext) *ProductRepo { return &ProductRepo{q: q} }

// WithTx returns a repo bound to tx.
func (r *ProductRepo) WithTx(tx *sqlx.Tx) *ProductRepo { return &ProductRepo{q: tx} }

const productCols = `
    id, category_id, name, description, price, stock, active,
    COALESCE(created_at,'') AS created_at, COALESCE(updated_at,'') AS updated_at`

func (r *ProductRepo) List(ctx context.Context, catID string, activeOnly bool, limit, offset int) ([]domain.Product, error) {
	where := `1 = 1`
	args := []any{}
	if activeOnly {
		where += ` AND active = 1`
	}
	if catID != "" {
		where += ` AND category_id = ?`
		args = append(args, catID)
	}
	args = append(args, limit, offset)

	out := []domain.Product{}
	err := sqlx.SelectContext(ctx, r.q, &out, `
  SELECT`+productCols+`
  FROM products
  WHERE `+where+`
  ORDER BY created_at DESC, id
  LIMIT ? OFFSET ?`, args...)
	return out, err
}

func (r *ProductRepo) Get(ctx context.Context, id string) (domain.Product, error) {
	var p domain.Product
	err := sqlx.GetContext(ctx, r.q, &p, `SELECT`+productCols+` FROM products WHERE id = ?`, id)
	if err != nil {
		return domain.Product{}, notFound(err, "product", id)
	}
	return p, nil
}

// GetActive hides inactive products behind NotFound.
func (r *ProductRepo) GetActive(ctx context.Context, id string) (domain.Product, error) {
	p, err := r.Get(ctx, id)
	if err != nil {
		return domain.Product{}, err
	}
	if !p.Active {
		return domain.Product{}, domain.NotFound("product %s not found", id)
	}
	return p, nil
}

func (r *ProductRepo) Create(ctx context.Context, p domain.Product) error {
	_, err := r.q.ExecContext(ctx, `
	  INSERT INTO products(id, category_id, name, description, price, stock, active, created_at)
	  VALUES(?, ?, ?, ?, ?, ?, ?, CURRENT_TIMESTAMP)
	`, p.ID, p.CategoryID, p.Name, p.Description, p.Price, p.Stock, p.Active)
	return err
}

// Update overwrites the editable descriptive fields; stock and the active
// flag have their own operations.
func (r *ProductRepo) Update(ctx context.Context, p domain.Product) error {
	res, err := r.q.ExecContext(ctx, `
	  UPDATE products
	  SET category_id = ?, name = ?, description = ?, price = ?, updated_at = CURRENT_TIMESTAMP
	  WHERE id = ?
	`, p.CategoryID, p.Name, p.Description, p.Price, p.ID)
	return mustAffect(res, err, "product", p.ID)
}

func (r *ProductRepo) SetActive(ctx context.Context, id string, active bool) error {
	res, err := r.q.ExecContext(ctx, `
	  UPDATE products SET active = ?, updated_at = CURRENT_TIMESTAMP WHERE id = ?
	`, active, id)
	return mustAffect(res, err, "product", id)
}

func (r *ProductRepo) Delete(ctx context.Context, id string) error {
	res, err := r.q.ExecContext(ctx, `DELETE FROM products WHERE id = ?`, id)
	return mustAffect(res, err, "product", id)
}

// OrderRefs counts order lines that still point at the product.
func (r *ProductRepo) OrderRefs(ctx context.Context, id string) (int, error) {
	var n int
	err := sqlx.GetContext(ctx, r.q, &n, `SELECT COUNT(*) FROM order_items WHERE product_id = ?`, id)
	return n, err
}

func (r *ProductRepo) CountByCategory(ctx context.Context, catID string) (int, error) {
	var n int
	err := sqlx.GetContext(ctx, r.q, &n, `SELECT COUNT(*) FROM products WHERE category_id = ?`, catID)
	return n, err
}

// DetachCategory deactivates every product in the category and clears the
// reference so the category row can go.
func (r *ProductRepo) DetachCategory(ctx context.Context, catID string) (int64, error) {
	res, err := r.q.ExecContext(ctx, `
	  UPDATE products SET active = 0, category_id = NULL, updated_at = CURRENT_TIMESTAMP
	  WHERE category_id = ?
	`, catID)
	if err != nil {
		return 0, err
	}
	return res.RowsAffected()
}

type execResult interface{ RowsAffected() (int64, error) }

func mustAffect(res execResult, err error, what, id string) error {
	if err != nil {
		return err
	}
	n, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("rows affected: %w", err)
	}
	if n == 0 {
		return domain.NotFound("%s %s not found", what, id)
	}
	return nil
}
