package services

import (
	"context"
	"fmt"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"
	"github.com/shopspring/decimal"

	"storefront/internal/domain"
	"storefront/internal/repos"
	"storefront/internal/validate"
)

// CheckoutMessage accompanies every successful checkout; payment is
// simulated and always succeeds.
const CheckoutMessage = "Payment processed successfully. Your order has been confirmed."

type OrderService struct {
	DB     *sqlx.DB
	Carts  *repos.CartRepo
	Inv    *repos.InventoryRepo
	Orders *repos.OrderRepo
}

func NewOrderService(db *sqlx.DB, carts *repos.CartRepo, inv *repos.InventoryRepo, orders *repos.OrderRepo) *OrderService {
	return &OrderService{DB: db, Carts: carts, Inv: inv, Orders: orders}
}

type CheckoutRequest struct {
	ShippingAddress string `json:"shipping_address"`
	PaymentMethod   string `json:"payment_method"`
}

type UpdateStatusRequest struct {
	Status string `json:"status"`
}

type OrderLine struct {
	ProductID string          `json:"product_id"`
	Name      string          `json:"name"`
	Quantity  int             `json:"quantity"`
	Price     decimal.Decimal `json:"price"`
	Subtotal  decimal.Decimal `json:"total_price"`
}

type OrderView struct {
	domain.Order
	Items []OrderLine `json:"items"`
}

type CheckoutResult struct {
	Success bool      `json:"success"`
	Message string    `json:"message"`
	Order   OrderView `json:"order"`
}

func (s *OrderService) load(ctx context.Context, orders *repos.OrderRepo, id string) (OrderView, error) {
	o, err := orders.Get(ctx, id)
	if err != nil {
		return OrderView{}, err
	}
	items, err := orders.Items(ctx, id)
	if err != nil {
		return OrderView{}, fmt.Errorf("order items: %w", err)
	}
	v := OrderView{Order: o, Items: make([]OrderLine, 0, len(items))}
	for _, it := range items {
		v.Items = append(v.Items, OrderLine{
			ProductID: it.ProductID,
			Name:      it.Name,
			Quantity:  it.Quantity,
			Price:     it.Price,
			Subtotal:  it.Subtotal(),
		})
	}
	return v, nil
}

// Checkout turns the user's cart into a processing order. Order header,
// order lines, stock decrements and the cart clear commit together or not
// at all.
func (s *OrderService) Checkout(ctx context.Context, u *domain.User, req CheckoutRequest) (CheckoutResult, error) {
	if err := requireUser(u); err != nil {
		return CheckoutResult{}, err
	}
	if req.ShippingAddress == "" {
		return CheckoutResult{}, domain.Validation("shipping address is required")
	}
	addr, ok := validate.ShippingAddress(req.ShippingAddress)
	if !ok {
		return CheckoutResult{}, domain.Validation("shipping address must be 1-500 characters")
	}
	if req.PaymentMethod == "" {
		return CheckoutResult{}, domain.Validation("payment method is required")
	}
	pm, ok := domain.ParsePaymentMethod(req.PaymentMethod)
	if !ok {
		return CheckoutResult{}, domain.Validation("invalid payment method %q", req.PaymentMethod)
	}

	var view OrderView
	err := repos.InTx(ctx, s.DB, func(tx *sqlx.Tx) error {
		carts, inv, orders := s.Carts.WithTx(tx), s.Inv.WithTx(tx), s.Orders.WithTx(tx)

		c, err := carts.ByUser(ctx, u.ID)
		if err != nil {
			return err
		}
		items, err := carts.Items(ctx, c.ID)
		if err != nil {
			return fmt.Errorf("cart items: %w", err)
		}
		if len(items) == 0 {
			return domain.Validation("cart is empty")
		}

		o := domain.Order{
			ID:              uuid.NewString(),
			UserID:          u.ID,
			ShippingAddress: addr,
			PaymentMethod:   pm,
			TotalAmount:     Total(items),
			Status:          domain.StatusProcessing,
		}
		if err := orders.Create(ctx, o); err != nil {
			return fmt.Errorf("create order: %w", err)
		}
		for _, it := range items {
			if err := orders.InsertItem(ctx, domain.OrderItem{
				OrderID:   o.ID,
				ProductID: it.ProductID,
				Quantity:  it.Quantity,
				Price:     it.Price,
			}); err != nil {
				return fmt.Errorf("insert order item %s: %w", it.ProductID, err)
			}
			if err := inv.Decrement(ctx, it.ProductID, it.Quantity); err != nil {
				return err
			}
		}
		if _, err := carts.Clear(ctx, c.ID); err != nil {
			return fmt.Errorf("clear cart: %w", err)
		}
		view, err = s.load(ctx, orders, o.ID)
		return err
	})
	if err != nil {
		return CheckoutResult{}, err
	}
	return CheckoutResult{Success: true, Message: CheckoutMessage, Order: view}, nil
}

// Get returns an order to its owner or to staff. Anyone else gets
// Forbidden; the HTTP layer reports that as a missing order.
func (s *OrderService) Get(ctx context.Context, u *domain.User, id string) (OrderView, error) {
	if err := requireUser(u); err != nil {
		return OrderView{}, err
	}
	v, err := s.load(ctx, s.Orders, id)
	if err != nil {
		return OrderView{}, err
	}
	if err := requireOwnerOrStaff(u, v.UserID, "view this order"); err != nil {
		return OrderView{}, err
	}
	return v, nil
}

// List returns the caller's orders; staff see the latest orders of everyone.
func (s *OrderService) List(ctx context.Context, u *domain.User) ([]domain.Order, error) {
	if err := requireUser(u); err != nil {
		return nil, err
	}
	if IsStaff(u) {
		return s.Orders.ListLatest(ctx, 100)
	}
	return s.Orders.ListByUser(ctx, u.ID)
}

// Cancel puts every ordered unit back in stock and marks the order
// cancelled. Only pending and processing orders can be cancelled.
func (s *OrderService) Cancel(ctx context.Context, u *domain.User, id string) (OrderView, error) {
	if err := requireUser(u); err != nil {
		return OrderView{}, err
	}
	var view OrderView
	err := repos.InTx(ctx, s.DB, func(tx *sqlx.Tx) error {
		inv, orders := s.Inv.WithTx(tx), s.Orders.WithTx(tx)
		o, err := orders.Get(ctx, id)
		if err != nil {
			return err
		}
		if err := requireOwnerOrStaff(u, o.UserID, "cancel this order"); err != nil {
			return err
		}
		if !o.Status.Cancellable() {
			return domain.Validation("order cannot be cancelled while %s", o.Status)
		}
		items, err := orders.Items(ctx, id)
		if err != nil {
			return fmt.Errorf("order items: %w", err)
		}
		for _, it := range items {
			if err := inv.Increment(ctx, it.ProductID, it.Quantity); err != nil {
				return fmt.Errorf("restore stock %s: %w", it.ProductID, err)
			}
		}
		if err := orders.UpdateStatus(ctx, id, domain.StatusCancelled); err != nil {
			return err
		}
		view, err = s.load(ctx, orders, id)
		return err
	})
	return view, err
}

// UpdateStatus moves an order through its lifecycle. Terminal states only
// accept re-asserting the same status, which is a no-op.
func (s *OrderService) UpdateStatus(ctx context.Context, u *domain.User, id string, req UpdateStatusRequest) (OrderView, error) {
	if err := requireStaff(u, "updating order status"); err != nil {
		return OrderView{}, err
	}
	next, ok := domain.ParseOrderStatus(req.Status)
	if !ok {
		return OrderView{}, domain.Validation("invalid status %q", req.Status)
	}
	var view OrderView
	err := repos.InTx(ctx, s.DB, func(tx *sqlx.Tx) error {
		orders := s.Orders.WithTx(tx)
		o, err := orders.Get(ctx, id)
		if err != nil {
			return err
		}
		if err := o.Status.CheckTransition(next); err != nil {
			return err
		}
		if o.Status != next {
			if err := orders.UpdateStatus(ctx, id, next); err != nil {
				return err
			}
		}
		view, err = s.load(ctx, orders, id)
		return err
	})
	return view, err
}

// Delete permanently removes a cancelled order and its lines.
func (s *OrderService) Delete(ctx context.Context, u *domain.User, id string) error {
	if err := requireStaff(u, "deleting orders"); err != nil {
		return err
	}
	return repos.InTx(ctx, s.DB, func(tx *sqlx.Tx) error {
		orders := s.Orders.WithTx(tx)
		o, err := orders.Get(ctx, id)
		if err != nil {
			return err
		}
		if o.Status != domain.StatusCancelled {
			return domain.Validation("order is %s; it must be cancelled before it can be deleted", o.Status)
		}
		return orders.Delete(ctx, id)
	})
}
