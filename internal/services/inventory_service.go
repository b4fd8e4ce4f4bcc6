package services

import (
	"context"

	"storefront/internal/domain"
	"storefront/internal/repos"
)

type InventoryService struct {
	Inv   *repos.InventoryRepo
	Prods *repos.ProductRepo
}

func NewInventoryService(inv *repos.InventoryRepo, prods *repos.ProductRepo) *InventoryService {
	return &InventoryService{Inv: inv, Prods: prods}
}

// CheckAvailability converts stock to IN_STOCK / LOW_STOCK / OUT_OF_STOCK.
// Inactive products always read as out of stock.
func (s *InventoryService) CheckAvailability(ctx context.Context, productID string) (domain.Availability, error) {
	p, err := s.Prods.Get(ctx, productID)
	if err != nil {
		return domain.Availability{}, err
	}
	if !p.Active {
		return domain.Availability{Status: "OUT_OF_STOCK", Qty: 0}, nil
	}

	status := "OUT_OF_STOCK"
	switch {
	case p.Stock >= 5:
		status = "IN_STOCK"
	case p.Stock > 0:
		status = "LOW_STOCK"
	}
	return domain.Availability{Status: status, Qty: p.Stock}, nil
}

// List is the staff inventory view.
func (s *InventoryService) List(ctx context.Context, u *domain.User) ([]repos.InventoryRow, error) {
	if err := requireStaff(u, "viewing inventory"); err != nil {
		return nil, err
	}
	return s.Inv.ListAll(ctx)
}
