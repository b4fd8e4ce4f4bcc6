package repos

import (
	"context"

	"github.com/jmoiron/sqlx"

	"storefront/internal/domain"
)

type OrderRepo struct{ q sqlx.ExtContext }

func NewOrderRepo(q sqlx.ExtContext) *OrderRepo { return &OrderRepo{q: q} }

func (r *OrderRepo) WithTx(tx *sqlx.Tx) *OrderRepo { return &OrderRepo{q: tx} }

const orderCols = `
    id, user_id, shipping_address, payment_method, total_amount, status,
    COALESCE(created_at,'') AS created_at, COALESCE(updated_at,'') AS updated_at`

// Create inserts a new order header.
func (r *OrderRepo) Create(ctx context.Context, o domain.Order) error {
	_, err := r.q.ExecContext(ctx, `
	  INSERT INTO orders
	    (id, user_id, shipping_address, payment_method, total_amount, status, created_at, updated_at)
	  VALUES
	    (?,  ?,       ?,                ?,              ?,            ?,      CURRENT_TIMESTAMP, CURRENT_TIMESTAMP)
	`, o.ID, o.UserID, o.ShippingAddress, string(o.PaymentMethod), o.TotalAmount, string(o.Status))
	return err
}

// InsertItem inserts a single line item.
func (r *OrderRepo) InsertItem(ctx context.Context, it domain.OrderItem) error {
	_, err := r.q.ExecContext(ctx, `
	  INSERT INTO order_items(order_id, product_id, quantity, price)
	  VALUES(?, ?, ?, ?)
	`, it.OrderID, it.ProductID, it.Quantity, it.Price)
	return err
}

func (r *OrderRepo) Get(ctx context.Context, orderID string) (domain.Order, error) {
	var o domain.Order
	if err := sqlx.GetContext(ctx, r.q, &o, `SELECT`+orderCols+` FROM orders WHERE id = ?`, orderID); err != nil {
		return domain.Order{}, notFound(err, "order", orderID)
	}
	return o, nil
}

func (r *OrderRepo) Items(ctx context.Context, orderID string) ([]domain.OrderItem, error) {
	items := []domain.OrderItem{}
	err := sqlx.SelectContext(ctx, r.q, &items, `
		SELECT oi.order_id, oi.product_id, p.name, oi.quantity, oi.price
		FROM order_items oi
		JOIN products p ON p.id = oi.product_id
		WHERE oi.order_id = ?
		ORDER BY p.name, oi.product_id
	`, orderID)
	return items, err
}

func (r *OrderRepo) ListLatest(ctx context.Context, limit int) ([]domain.Order, error) {
	if limit <= 0 {
		limit = 100
	}
	out := []domain.Order{}
	err := sqlx.SelectContext(ctx, r.q, &out, `
		SELECT`+orderCols+`
		FROM orders
		ORDER BY datetime(created_at) DESC, id
		LIMIT ?
	`, limit)
	return out, err
}

// ListByUser returns the user's orders, newest first.
func (r *OrderRepo) ListByUser(ctx context.Context, userID string) ([]domain.Order, error) {
	out := []domain.Order{}
	err := sqlx.SelectContext(ctx, r.q, &out, `
		SELECT`+orderCols+`
		FROM orders
		WHERE user_id = ?
		ORDER BY datetime(created_at) DESC, id
	`, userID)
	return out, err
}

func (r *OrderRepo) UpdateStatus(ctx context.Context, id string, status domain.OrderStatus) error {
	res, err := r.q.ExecContext(ctx, `
		UPDATE orders SET status = ?, updated_at = CURRENT_TIMESTAMP WHERE id = ?
	`, string(status), id)
	return mustAffect(res, err, "order", id)
}

// Delete removes the order and its lines.
func (r *OrderRepo) Delete(ctx context.Context, id string) error {
	if _, err := r.q.ExecContext(ctx, `DELETE FROM order_items WHERE order_id = ?`, id); err != nil {
		return err
	}
	res, err := r.q.ExecContext(ctx, `DELETE FROM orders WHERE id = ?`, id)
	return mustAffect(res, err, "order", id)
}
