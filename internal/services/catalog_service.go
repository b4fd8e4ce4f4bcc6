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

type CatalogService struct {
	DB    *sqlx.DB
	Cats  *repos.CategoryRepo
	Prods *repos.ProductRepo
	Inv   *repos.InventoryRepo
}

func NewCatalogService(db *sqlx.DB, cats *repos.CategoryRepo, prods *repos.ProductRepo, inv *repos.InventoryRepo) *CatalogService {
	return &CatalogService{DB: db, Cats: cats, Prods: prods, Inv: inv}
}

type CategoryRequest struct {
	Name        string `json:"name"`
	Description string `json:"description"`
}

type ProductRequest struct {
	Name        string          `json:"name"`
	Description string          `json:"description"`
	Price       decimal.Decimal `json:"price"`
	Stock       int             `json:"stock"`
	CategoryID  *string         `json:"category_id"`
}

// CategoryDeleteResult reports what a category delete touched.
type CategoryDeleteResult struct {
	CategoryID  string `json:"category_id"`
	Deactivated int64  `json:"deactivated_products"`
}

func (s *CatalogService) ListCategories(ctx context.Context) ([]domain.Category, error) {
	return s.Cats.List(ctx)
}

func (s *CatalogService) CreateCategory(ctx context.Context, u *domain.User, req CategoryRequest) (domain.Category, error) {
	if err := requireStaff(u, "creating categories"); err != nil {
		return domain.Category{}, err
	}
	name, ok := validate.Name(req.Name)
	if !ok {
		return domain.Category{}, domain.Validation("category name must be 1-100 characters")
	}
	taken, err := s.Cats.NameTaken(ctx, name)
	if err != nil {
		return domain.Category{}, err
	}
	if taken {
		return domain.Category{}, domain.Validation("category %q already exists", name)
	}
	c := domain.Category{ID: uuid.NewString(), Name: name, Description: req.Description}
	if err := s.Cats.Create(ctx, c); err != nil {
		return domain.Category{}, fmt.Errorf("create category: %w", err)
	}
	return s.Cats.Get(ctx, c.ID)
}

// CategoryProducts lists the active products of an existing category.
func (s *CatalogService) CategoryProducts(ctx context.Context, catID string, page, pageSize int) ([]domain.Product, error) {
	if _, err := s.Cats.Get(ctx, catID); err != nil {
		return nil, err
	}
	return s.ListProducts(ctx, catID, page, pageSize)
}

// DeleteCategory refuses while products reference the category unless
// force is set, in which case the products are deactivated first.
func (s *CatalogService) DeleteCategory(ctx context.Context, u *domain.User, catID string, force bool) (CategoryDeleteResult, error) {
	if force {
		if err := requireSuperuser(u, "force-deleting categories"); err != nil {
			return CategoryDeleteResult{}, err
		}
	} else if err := requireStaff(u, "deleting categories"); err != nil {
		return CategoryDeleteResult{}, err
	}

	res := CategoryDeleteResult{CategoryID: catID}
	err := repos.InTx(ctx, s.DB, func(tx *sqlx.Tx) error {
		cats, prods := s.Cats.WithTx(tx), s.Prods.WithTx(tx)
		if _, err := cats.Get(ctx, catID); err != nil {
			return err
		}
		n, err := prods.CountByCategory(ctx, catID)
		if err != nil {
			return err
		}
		if n > 0 && !force {
			return domain.Validation("category has %d dependent products; deactivate them or force the delete", n)
		}
		if n > 0 {
			if res.Deactivated, err = prods.DetachCategory(ctx, catID); err != nil {
				return err
			}
		}
		return cats.Delete(ctx, catID)
	})
	if err != nil {
		return CategoryDeleteResult{}, err
	}
	return res, nil
}

func (s *CatalogService) ListProducts(ctx context.Context, catID string, page, pageSize int) ([]domain.Product, error) {
	if page < 1 {
		page = 1
	}
	if pageSize <= 0 {
		pageSize = 20
	}
	offset := (page - 1) * pageSize
	return s.Prods.List(ctx, catID, true, pageSize, offset)
}

// GetProduct shows inactive products to staff only.
func (s *CatalogService) GetProduct(ctx context.Context, u *domain.User, id string) (domain.Product, error) {
	if IsStaff(u) {
		return s.Prods.Get(ctx, id)
	}
	return s.Prods.GetActive(ctx, id)
}

func (s *CatalogService) checkProduct(ctx context.Context, req ProductRequest) (string, error) {
	name, ok := validate.Name(req.Name)
	if !ok {
		return "", domain.Validation("product name must be 1-100 characters")
	}
	if req.Price.IsNegative() {
		return "", domain.Validation("price cannot be negative")
	}
	if req.Stock < 0 {
		return "", domain.Validation("stock cannot be negative")
	}
	if req.CategoryID != nil {
		if _, err := s.Cats.Get(ctx, *req.CategoryID); err != nil {
			if domain.KindOf(err) == domain.KindNotFound {
				return "", domain.Validation("category %s does not exist", *req.CategoryID)
			}
			return "", err
		}
	}
	return name, nil
}

func (s *CatalogService) CreateProduct(ctx context.Context, u *domain.User, req ProductRequest) (domain.Product, error) {
	if err := requireStaff(u, "creating products"); err != nil {
		return domain.Product{}, err
	}
	name, err := s.checkProduct(ctx, req)
	if err != nil {
		return domain.Product{}, err
	}
	p := domain.Product{
		ID:          uuid.NewString(),
		CategoryID:  req.CategoryID,
		Name:        name,
		Description: req.Description,
		Price:       req.Price,
		Stock:       req.Stock,
		Active:      true,
	}
	if err := s.Prods.Create(ctx, p); err != nil {
		return domain.Product{}, fmt.Errorf("create product: %w", err)
	}
	return s.Prods.Get(ctx, p.ID)
}

// UpdateProduct edits descriptive fields and price; stock is left alone.
func (s *CatalogService) UpdateProduct(ctx context.Context, u *domain.User, id string, req ProductRequest) (domain.Product, error) {
	if err := requireStaff(u, "updating products"); err != nil {
		return domain.Product{}, err
	}
	name, err := s.checkProduct(ctx, req)
	if err != nil {
		return domain.Product{}, err
	}
	p := domain.Product{ID: id, CategoryID: req.CategoryID, Name: name, Description: req.Description, Price: req.Price}
	if err := s.Prods.Update(ctx, p); err != nil {
		return domain.Product{}, err
	}
	return s.Prods.Get(ctx, id)
}

// UpdateStock overwrites the stock level.
func (s *CatalogService) UpdateStock(ctx context.Context, u *domain.User, id string, qty int) (domain.Product, error) {
	if err := requireStaff(u, "updating stock"); err != nil {
		return domain.Product{}, err
	}
	if qty < 0 {
		return domain.Product{}, domain.Validation("quantity cannot be negative")
	}
	if err := s.Inv.SetQty(ctx, id, qty); err != nil {
		return domain.Product{}, err
	}
	return s.Prods.Get(ctx, id)
}

// Deactivate soft-deletes the product.
func (s *CatalogService) Deactivate(ctx context.Context, u *domain.User, id string) (domain.Product, error) {
	return s.setActive(ctx, u, id, false)
}

// Reactivate is a no-op success on an already active product.
func (s *CatalogService) Reactivate(ctx context.Context, u *domain.User, id string) (domain.Product, error) {
	return s.setActive(ctx, u, id, true)
}

func (s *CatalogService) setActive(ctx context.Context, u *domain.User, id string, active bool) (domain.Product, error) {
	if err := requireStaff(u, "changing product visibility"); err != nil {
		return domain.Product{}, err
	}
	p, err := s.Prods.Get(ctx, id)
	if err != nil {
		return domain.Product{}, err
	}
	if p.Active == active {
		return p, nil
	}
	if err := s.Prods.SetActive(ctx, id, active); err != nil {
		return domain.Product{}, err
	}
	return s.Prods.Get(ctx, id)
}

// HardDelete removes the product row for good. Carts lose the line; order
// history blocks the delete.
func (s *CatalogService) HardDelete(ctx context.Context, u *domain.User, id string) error {
	if err := requireSuperuser(u, "deleting products"); err != nil {
		return err
	}
	return repos.InTx(ctx, s.DB, func(tx *sqlx.Tx) error {
		prods := s.Prods.WithTx(tx)
		if _, err := prods.Get(ctx, id); err != nil {
			return err
		}
		refs, err := prods.OrderRefs(ctx, id)
		if err != nil {
			return err
		}
		if refs > 0 {
			return domain.Validation("product is referenced by %d order items; deactivate it instead", refs)
		}
		return prods.Delete(ctx, id)
	})
}
