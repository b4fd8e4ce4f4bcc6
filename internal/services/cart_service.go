package services

import (
	"context"
	"fmt"
	"strings"

	"github.com/jmoiron/sqlx"
	"github.com/shopspring/decimal"

	"storefront/internal/domain"
	"storefront/internal/repos"
	"storefront/internal/validate"
)

type CartService struct {
	DB    *sqlx.DB
	Carts *repos.CartRepo
	Prods *repos.ProductRepo
}

func NewCartService(db *sqlx.DB, carts *repos.CartRepo, prods *repos.ProductRepo) *CartService {
	return &CartService{DB: db, Carts: carts, Prods: prods}
}

type AddItemRequest struct {
	ProductID string `json:"product_id"`
	Quantity  *int   `json:"quantity"` // defaults to 1
}

type UpdateItemRequest struct {
	Quantity int `json:"quantity"`
}

type CartLine struct {
	ProductID string          `json:"product_id"`
	Name      string          `json:"name"`
	Price     decimal.Decimal `json:"price"`
	Quantity  int             `json:"quantity"`
	Subtotal  decimal.Decimal `json:"total_price"`
	AddedAt   string          `json:"added_at"`
}

type CartView struct {
	ID         string          `json:"id"`
	UserID     string          `json:"user"`
	Items      []CartLine      `json:"items"`
	TotalItems int             `json:"total_items"`
	TotalPrice decimal.Decimal `json:"total_price"`
	UpdatedAt  string          `json:"updated_at"`
}

// Total is the live cart total: the sum of price * quantity at current
// product prices.
func Total(items []domain.CartItem) decimal.Decimal {
	total := decimal.Zero
	for _, it := range items {
		total = total.Add(it.Subtotal())
	}
	return total
}

func newCartView(c domain.Cart, items []domain.CartItem) CartView {
	v := CartView{ID: c.ID, UserID: c.UserID, Items: make([]CartLine, 0, len(items)), UpdatedAt: c.UpdatedAt}
	for _, it := range items {
		v.Items = append(v.Items, CartLine{
			ProductID: it.ProductID,
			Name:      it.Name,
			Price:     it.Price,
			Quantity:  it.Quantity,
			Subtotal:  it.Subtotal(),
			AddedAt:   it.AddedAt,
		})
		v.TotalItems += it.Quantity
	}
	v.TotalPrice = Total(items)
	return v
}

func (s *CartService) view(ctx context.Context, carts *repos.CartRepo, c domain.Cart) (CartView, error) {
	items, err := carts.Items(ctx, c.ID)
	if err != nil {
		return CartView{}, fmt.Errorf("cart items: %w", err)
	}
	if c, err = carts.Get(ctx, c.ID); err != nil {
		return CartView{}, err
	}
	return newCartView(c, items), nil
}

// View returns the user's cart, creating an empty one on first access.
func (s *CartService) View(ctx context.Context, u *domain.User) (CartView, error) {
	if err := requireUser(u); err != nil {
		return CartView{}, err
	}
	c, err := s.Carts.EnsureCart(ctx, u.ID)
	if err != nil {
		return CartView{}, fmt.Errorf("ensure cart: %w", err)
	}
	return s.view(ctx, s.Carts, c)
}

// Add puts quantity units of a product in the cart. An existing line grows
// by quantity; only the requested increment is checked against stock.
func (s *CartService) Add(ctx context.Context, u *domain.User, req AddItemRequest) (CartView, error) {
	if err := requireUser(u); err != nil {
		return CartView{}, err
	}
	if strings.TrimSpace(req.ProductID) == "" {
		return CartView{}, domain.Validation("product_id is required")
	}
	pid, ok := validate.ID(req.ProductID)
	if !ok {
		return CartView{}, domain.NotFound("product %s not found", req.ProductID)
	}
	qty := 1
	if req.Quantity != nil {
		qty = *req.Quantity
	}
	if !validate.QtyInRange(qty, 1) {
		return CartView{}, domain.Validation("quantity must be at least 1")
	}

	var out CartView
	err := repos.InTx(ctx, s.DB, func(tx *sqlx.Tx) error {
		carts, prods := s.Carts.WithTx(tx), s.Prods.WithTx(tx)
		p, err := prods.GetActive(ctx, pid)
		if err != nil {
			return err
		}
		if p.Stock < qty {
			return domain.InsufficientStock("insufficient stock for %s (requested %d, have %d)", pid, qty, p.Stock)
		}
		c, err := carts.EnsureCart(ctx, u.ID)
		if err != nil {
			return err
		}
		if err := carts.AddQty(ctx, c.ID, pid, qty); err != nil {
			return fmt.Errorf("add item: %w", err)
		}
		out, err = s.view(ctx, carts, c)
		return err
	})
	return out, err
}

func (s *CartService) Remove(ctx context.Context, u *domain.User, productID string) (CartView, error) {
	if err := requireUser(u); err != nil {
		return CartView{}, err
	}
	c, err := s.Carts.ByUser(ctx, u.ID)
	if err != nil {
		return CartView{}, err
	}
	if err := s.Carts.RemoveItem(ctx, c.ID, productID); err != nil {
		return CartView{}, err
	}
	return s.view(ctx, s.Carts, c)
}

// UpdateQuantity overwrites a line's quantity; zero removes the line.
func (s *CartService) UpdateQuantity(ctx context.Context, u *domain.User, productID string, req UpdateItemRequest) (CartView, error) {
	if err := requireUser(u); err != nil {
		return CartView{}, err
	}
	if !validate.QtyInRange(req.Quantity, 0) {
		return CartView{}, domain.Validation("quantity cannot be negative")
	}
	if req.Quantity == 0 {
		return s.Remove(ctx, u, productID)
	}

	var out CartView
	err := repos.InTx(ctx, s.DB, func(tx *sqlx.Tx) error {
		carts, prods := s.Carts.WithTx(tx), s.Prods.WithTx(tx)
		c, err := carts.ByUser(ctx, u.ID)
		if err != nil {
			return err
		}
		if _, err := carts.Item(ctx, c.ID, productID); err != nil {
			return err
		}
		p, err := prods.GetActive(ctx, productID)
		if err != nil {
			return err
		}
		if p.Stock < req.Quantity {
			return domain.InsufficientStock("insufficient stock for %s (requested %d, have %d)", productID, req.Quantity, p.Stock)
		}
		if err := carts.SetQty(ctx, c.ID, productID, req.Quantity); err != nil {
			return err
		}
		out, err = s.view(ctx, carts, c)
		return err
	})
	return out, err
}

// Clear empties the cart. A user without a cart simply gets 0.
func (s *CartService) Clear(ctx context.Context, u *domain.User) (int64, error) {
	if err := requireUser(u); err != nil {
		return 0, err
	}
	c, err := s.Carts.ByUser(ctx, u.ID)
	if err != nil {
		if domain.KindOf(err) == domain.KindNotFound {
			return 0, nil
		}
		return 0, err
	}
	return s.Carts.Clear(ctx, c.ID)
}

// Delete destroys the cart entity; only its owner may do so.
func (s *CartService) Delete(ctx context.Context, u *domain.User, cartID string) (int64, error) {
	if err := requireUser(u); err != nil {
		return 0, err
	}
	var removed int64
	err := repos.InTx(ctx, s.DB, func(tx *sqlx.Tx) error {
		carts := s.Carts.WithTx(tx)
		c, err := carts.Get(ctx, cartID)
		if err != nil {
			return err
		}
		if !IsOwner(u, c.UserID) {
			return domain.Forbidden("only the owner can delete this cart")
		}
		removed, err = carts.Delete(ctx, cartID)
		return err
	})
	return removed, err
}
