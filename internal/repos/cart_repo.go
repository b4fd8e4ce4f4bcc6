package repos

import (
	"context"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"

	"storefront/internal/domain"
)

type CartRepo struct{ q sqlx.ExtContext }

func NewCartRepo(q sqlx.ExtContext) *CartRepo { return &CartRepo{q: q} }

func (r *CartRepo) WithTx(tx *sqlx.Tx) *CartRepo { return &CartRepo{q: tx} }

const cartCols = `id, user_id, COALESCE(created_at,'') AS created_at, COALESCE(updated_at,'') AS updated_at`

// ByUser returns the user's cart or NotFound.
func (r *CartRepo) ByUser(ctx context.Context, userID string) (domain.Cart, error) {
	var c domain.Cart
	if err := sqlx.GetContext(ctx, r.q, &c, `SELECT `+cartCols+` FROM carts WHERE user_id = ?`, userID); err != nil {
		return domain.Cart{}, notFound(err, "cart for user", userID)
	}
	return c, nil
}

func (r *CartRepo) Get(ctx context.Context, cartID string) (domain.Cart, error) {
	var c domain.Cart
	if err := sqlx.GetContext(ctx, r.q, &c, `SELECT `+cartCols+` FROM carts WHERE id = ?`, cartID); err != nil {
		return domain.Cart{}, notFound(err, "cart", cartID)
	}
	return c, nil
}

// EnsureCart returns the user's cart, creating an empty one on first use.
func (r *CartRepo) EnsureCart(ctx context.Context, userID string) (domain.Cart, error) {
	if _, err := r.q.ExecContext(ctx, `
		INSERT INTO carts(id, user_id, created_at, updated_at)
		VALUES(?, ?, CURRENT_TIMESTAMP, CURRENT_TIMESTAMP)
		ON CONFLICT(user_id) DO NOTHING
	`, uuid.NewString(), userID); err != nil {
		return domain.Cart{}, err
	}
	return r.ByUser(ctx, userID)
}

const cartItemCols = `
	  ci.cart_id, ci.product_id, p.name, p.price, ci.quantity, COALESCE(ci.added_at,'') AS added_at`

// Items returns the cart lines priced at the live product price.
func (r *CartRepo) Items(ctx context.Context, cartID string) ([]domain.CartItem, error) {
	out := []domain.CartItem{}
	err := sqlx.SelectContext(ctx, r.q, &out, `
	  SELECT`+cartItemCols+`
	  FROM cart_items ci JOIN products p ON p.id = ci.product_id
	  WHERE ci.cart_id = ?
	  ORDER BY ci.added_at, ci.product_id
	`, cartID)
	return out, err
}

func (r *CartRepo) Item(ctx context.Context, cartID, productID string) (domain.CartItem, error) {
	var it domain.CartItem
	err := sqlx.GetContext(ctx, r.q, &it, `
	  SELECT`+cartItemCols+`
	  FROM cart_items ci JOIN products p ON p.id = ci.product_id
	  WHERE ci.cart_id = ? AND ci.product_id = ?
	`, cartID, productID)
	if err != nil {
		return domain.CartItem{}, notFound(err, "cart item", productID)
	}
	return it, nil
}

// AddQty inserts the line or adds qty to the existing quantity.
func (r *CartRepo) AddQty(ctx context.Context, cartID, productID string, qty int) error {
	if _, err := r.q.ExecContext(ctx, `
		INSERT INTO cart_items(cart_id, product_id, quantity, added_at)
		VALUES(?, ?, ?, CURRENT_TIMESTAMP)
		ON CONFLICT(cart_id, product_id) DO UPDATE
		SET quantity = cart_items.quantity + excluded.quantity
	`, cartID, productID, qty); err != nil {
		return err
	}
	return r.touch(ctx, cartID)
}

// SetQty overwrites the quantity of an existing line.
func (r *CartRepo) SetQty(ctx context.Context, cartID, productID string, qty int) error {
	res, err := r.q.ExecContext(ctx, `
		UPDATE cart_items SET quantity = ? WHERE cart_id = ? AND product_id = ?
	`, qty, cartID, productID)
	if err := mustAffect(res, err, "cart item", productID); err != nil {
		return err
	}
	return r.touch(ctx, cartID)
}

func (r *CartRepo) RemoveItem(ctx context.Context, cartID, productID string) error {
	res, err := r.q.ExecContext(ctx, `DELETE FROM cart_items WHERE cart_id = ? AND product_id = ?`, cartID, productID)
	if err := mustAffect(res, err, "cart item", productID); err != nil {
		return err
	}
	return r.touch(ctx, cartID)
}

// Clear deletes every line and reports how many were removed.
func (r *CartRepo) Clear(ctx context.Context, cartID string) (int64, error) {
	res, err := r.q.ExecContext(ctx, `DELETE FROM cart_items WHERE cart_id = ?`, cartID)
	if err != nil {
		return 0, err
	}
	n, err := res.RowsAffected()
	if err != nil {
		return 0, err
	}
	return n, r.touch(ctx, cartID)
}

// Delete removes the cart entity together with its lines.
func (r *CartRepo) Delete(ctx context.Context, cartID string) (int64, error) {
	res, err := r.q.ExecContext(ctx, `DELETE FROM cart_items WHERE cart_id = ?`, cartID)
	if err != nil {
		return 0, err
	}
	n, err := res.RowsAffected()
	if err != nil {
		return 0, err
	}
	res, err = r.q.ExecContext(ctx, `DELETE FROM carts WHERE id = ?`, cartID)
	if err := mustAffect(res, err, "cart", cartID); err != nil {
		return 0, err
	}
	return n, nil
}

func (r *CartRepo) touch(ctx context.Context, cartID string) error {
	_, err := r.q.ExecContext(ctx, `UPDATE carts SET updated_at = CURRENT_TIMESTAMP WHERE id = ?`, cartID)
	return err
}
