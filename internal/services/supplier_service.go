package services

import (
	"context"
	"fmt"

	"tradedesk/internal/common"
	"tradedesk/internal/models"
	"tradedesk/internal/repositories"

	"github.com/google/uuid"
)

type SupplierService interface {
	Create(ctx context.Context, supplier *models.Supplier) error
	GetByID(ctx context.Context, tenantID, id uuid.UUID) (*models.Supplier, error)
	Update(ctx context.Context, supplier *models.Supplier) error
	Delete(ctx context.Context, tenantID, id uuid.UUID) error
	List(ctx context.Context, tenantID uuid.UUID, limit, offset int) ([]*models.Supplier, error)
}

type supplierService struct {
	supplierRepo repositories.SupplierRepository
}

func NewSupplierService(supplierRepo repositories.SupplierRepository) SupplierService {
	return &supplierService{supplierRepo: supplierRepo}
}

func (s *supplierService) Create(ctx context.Context, supplier *models.Supplier) error {
	if err := common.ValidateRequiredString(supplier.Name, "name"); err != nil {
		return err
	}

	// Supplier names double as lookup keys in the back office, so duplicates
	// within a tenant are rejected up front.
	if existing, err := s.supplierRepo.GetByName(ctx, supplier.TenantID, supplier.Name); err == nil && existing != nil {
		return fmt.Errorf("supplier %q already exists", supplier.Name)
	}

	if supplier.ID == uuid.Nil {
		supplier.ID = uuid.New()
	}
	return s.supplierRepo.Create(ctx, supplier)
}

func (s *supplierService) GetByID(ctx context.Context, tenantID, id uuid.UUID) (*models.Supplier, error) {
	return s.supplierRepo.GetByID(ctx, tenantID, id)
}

func (s *supplierService) Update(ctx context.Context, supplier *models.Supplier) error {
	if err := common.ValidateRequiredString(supplier.Name, "name"); err != nil {
		return err
	}
	return s.supplierRepo.Update(ctx, supplier)
}

func (s *supplierService) Delete(ctx context.Context, tenantID, id uuid.UUID) error {
	return s.supplierRepo.Delete(ctx, tenantID, id)
}

func (s *supplierService) List(ctx context.Context, tenantID uuid.UUID, limit, offset int) ([]*models.Supplier, error) {
	return s.supplierRepo.List(ctx, tenantID, limit, offset)
}
