package services

import (
	"context"
	"fmt"
	"log"
	"time"

	"tradedesk/internal/caching"
	"tradedesk/internal/common"
	"tradedesk/internal/models"
	"tradedesk/internal/repositories"

	"github.com/google/uuid"
)

const productCacheTTL = 10 * time.Minute

type ProductService interface {
	Create(ctx context.Context, product *models.Product) error
	GetByID(ctx context.Context, tenantID, id uuid.UUID) (*models.Product, error)
	Update(ctx context.Context, product *models.Product) error
	Delete(ctx context.Context, tenantID, id uuid.UUID) error
	List(ctx context.Context, tenantID uuid.UUID, limit, offset int) ([]*models.Product, error)
	Search(ctx context.Context, tenantID uuid.UUID, filter *models.ProductSearchFilter) ([]*models.Product, error)
}

type productService struct {
	productRepo  repositories.ProductRepository
	supplierRepo repositories.SupplierRepository
	cacheSvc     caching.CacheService
}

func NewProductService(productRepo repositories.ProductRepository, supplierRepo repositories.SupplierRepository, cacheSvc caching.CacheService) ProductService {
	return &productService{
		productRepo:  productRepo,
		supplierRepo: supplierRepo,
		cacheSvc:     cacheSvc,
	}
}

func (s *productService) Create(ctx context.Context, product *models.Product) error {
	if err := common.ValidateRequiredString(product.Name, "name"); err != nil {
		return err
	}
	if product.CostPrice < 0 {
		return fmt.Errorf("cost price cannot be negative")
	}
	if product.SupplierID != nil {
		if _, err := s.supplierRepo.GetByID(ctx, product.TenantID, *product.SupplierID); err != nil {
			return fmt.Errorf("supplier %s not found", *product.SupplierID)
		}
	}

	if product.ID == uuid.Nil {
		product.ID = uuid.New()
	}
	return s.productRepo.Create(ctx, product)
}

// GetByID reads through the cache. A cache failure degrades to a direct
// database read rather than failing the request.
func (s *productService) GetByID(ctx context.Context, tenantID, id uuid.UUID) (*models.Product, error) {
	if s.cacheSvc != nil {
		cached, err := s.cacheSvc.GetProduct(ctx, tenantID, id)
		if err != nil {
			log.Printf("WARN: product cache read failed for %s: %v", id, err)
		} else if cached != nil {
			return cached, nil
		}
	}

	product, err := s.productRepo.GetByID(ctx, tenantID, id)
	if err != nil {
		return nil, err
	}

	if s.cacheSvc != nil {
		if err := s.cacheSvc.SetProduct(ctx, tenantID, product, productCacheTTL); err != nil {
			log.Printf("WARN: product cache write failed for %s: %v", id, err)
		}
	}
	return product, nil
}

func (s *productService) Update(ctx context.Context, product *models.Product) error {
	if err := common.ValidateRequiredString(product.Name, "name"); err != nil {
		return err
	}
	if product.CostPrice < 0 {
		return fmt.Errorf("cost price cannot be negative")
	}
	if product.SupplierID != nil {
		if _, err := s.supplierRepo.GetByID(ctx, product.TenantID, *product.SupplierID); err != nil {
			return fmt.Errorf("supplier %s not found", *product.SupplierID)
		}
	}

	if err := s.productRepo.Update(ctx, product); err != nil {
		return err
	}
	if s.cacheSvc != nil {
		_ = s.cacheSvc.DeleteProduct(ctx, product.TenantID, product.ID)
	}
	return nil
}

func (s *productService) Delete(ctx context.Context, tenantID, id uuid.UUID) error {
	if err := s.productRepo.Delete(ctx, tenantID, id); err != nil {
		return err
	}
	if s.cacheSvc != nil {
		_ = s.cacheSvc.DeleteProduct(ctx, tenantID, id)
		_ = s.cacheSvc.DeleteVerdict(ctx, tenantID, id)
	}
	return nil
}

func (s *productService) List(ctx context.Context, tenantID uuid.UUID, limit, offset int) ([]*models.Product, error) {
	return s.productRepo.List(ctx, tenantID, limit, offset)
}

func (s *productService) Search(ctx context.Context, tenantID uuid.UUID, filter *models.ProductSearchFilter) ([]*models.Product, error) {
	return s.productRepo.Search(ctx, tenantID, filter)
}
