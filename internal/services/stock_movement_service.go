package services

import (
	"context"
	"fmt"

	"tradedesk/internal/caching"
	"tradedesk/internal/common"
	"tradedesk/internal/models"
	"tradedesk/internal/repositories"

	"github.com/google/uuid"
)

type StockMovementService interface {
	Record(ctx context.Context, movement *models.StockMovement) error
	ListByProduct(ctx context.Context, tenantID, productID uuid.UUID, limit, offset int) ([]*models.StockMovement, error)
	List(ctx context.Context, tenantID uuid.UUID, limit, offset int) ([]*models.StockMovement, error)
	CountByProduct(ctx context.Context, tenantID, productID uuid.UUID) (int64, error)
}

type stockMovementService struct {
	movementRepo repositories.StockMovementRepository
	productRepo  repositories.ProductRepository
	cacheSvc     caching.CacheService
}

func NewStockMovementService(movementRepo repositories.StockMovementRepository, productRepo repositories.ProductRepository, cacheSvc caching.CacheService) StockMovementService {
	return &stockMovementService{
		movementRepo: movementRepo,
		productRepo:  productRepo,
		cacheSvc:     cacheSvc,
	}
}

// Record appends a stock movement. The first movement for a product ends its
// sample eligibility, so any cached verdict is dropped.
func (s *stockMovementService) Record(ctx context.Context, movement *models.StockMovement) error {
	if err := common.ValidateMovementType(movement.Type); err != nil {
		return err
	}
	if movement.Quantity == 0 {
		return fmt.Errorf("quantity cannot be zero")
	}
	if _, err := s.productRepo.GetByID(ctx, movement.TenantID, movement.ProductID); err != nil {
		return fmt.Errorf("product %s not found", movement.ProductID)
	}

	if movement.ID == uuid.Nil {
		movement.ID = uuid.New()
	}
	if err := s.movementRepo.Create(ctx, movement); err != nil {
		return err
	}

	if s.cacheSvc != nil {
		_ = s.cacheSvc.DeleteVerdict(ctx, movement.TenantID, movement.ProductID)
	}
	return nil
}

func (s *stockMovementService) ListByProduct(ctx context.Context, tenantID, productID uuid.UUID, limit, offset int) ([]*models.StockMovement, error) {
	return s.movementRepo.ListByProduct(ctx, tenantID, productID, limit, offset)
}

func (s *stockMovementService) List(ctx context.Context, tenantID uuid.UUID, limit, offset int) ([]*models.StockMovement, error) {
	return s.movementRepo.List(ctx, tenantID, limit, offset)
}

func (s *stockMovementService) CountByProduct(ctx context.Context, tenantID, productID uuid.UUID) (int64, error) {
	return s.movementRepo.CountByProduct(ctx, tenantID, productID)
}
