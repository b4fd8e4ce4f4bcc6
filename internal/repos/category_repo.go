package repos

import (
	"context"

	"github.com/jmoiron/sqlx"

	"storefront/internal/domain"
)

type CategoryRepo struct{ q sqlx.ExtContext }

func NewCategoryRepo(q sqlx.ExtContext) *CategoryRepo { return &CategoryRepo{q: q} }

func (r *CategoryRepo) WithTx(tx *sqlx.Tx) *CategoryRepo { return &CategoryRepo{q: tx} }

const categoryCols = `id, name, description, COALESCE(created_at,'') AS created_at`

func (r *CategoryRepo) List(ctx context.Context) ([]domain.Category, error) {
	out := []domain.Category{}
	err := sqlx.SelectContext(ctx, r.q, &out, `SELECT `+categoryCols+` FROM categories ORDER BY name`)
	return out, err
}

func (r *CategoryRepo) Get(ctx context.Context, id string) (domain.Category, error) {
	var c domain.Category
	if err := sqlx.GetContext(ctx, r.q, &c, `SELECT `+categoryCols+` FROM categories WHERE id = ?`, id); err != nil {
		return domain.Category{}, notFound(err, "category", id)
	}
	return c, nil
}

// NameTaken reports whether a category with the same name (any case) exists.
func (r *CategoryRepo) NameTaken(ctx context.Context, name string) (bool, error) {
	var n int
	err := sqlx.GetContext(ctx, r.q, &n, `SELECT COUNT(*) FROM categories WHERE LOWER(name) = LOWER(?)`, name)
	return n > 0, err
}

func (r *CategoryRepo) Create(ctx context.Context, c domain.Category) error {
	_, err := r.q.ExecContext(ctx, `
	  INSERT INTO categories(id, name, description, created_at) VALUES(?, ?, ?, CURRENT_TIMESTAMP)
	`, c.ID, c.Name, c.Description)
	return err
}

func (r *CategoryRepo) Delete(ctx context.Context, id string) error {
	res, err := r.q.ExecContext(ctx, `DELETE FROM categories WHERE id = ?`, id)
	return mustAffect(res, err, "category", id)
}
