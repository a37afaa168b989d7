package services

import (
	"context"
	"fmt"
	"time"

	"tradedesk/internal/models"
	"tradedesk/internal/repositories"

	"github.com/google/uuid"
)

type PurchaseOrderService interface {
	GetByID(ctx context.Context, tenantID, id uuid.UUID) (*models.PurchaseOrder, error)
	GetWithItems(ctx context.Context, tenantID, id uuid.UUID) (*models.PurchaseOrderWithItems, error)
	List(ctx context.Context, tenantID uuid.UUID, status string, limit, offset int) ([]*models.PurchaseOrder, error)
	FindDraftForSupplier(ctx context.Context, tenantID, supplierID uuid.UUID) (*models.PurchaseOrder, error)
	Confirm(ctx context.Context, tenantID, id uuid.UUID) (*models.PurchaseOrder, error)
	Cancel(ctx context.Context, tenantID, id uuid.UUID) (*models.PurchaseOrder, error)
	DeleteDraft(ctx context.Context, tenantID, id uuid.UUID) error
}

type purchaseOrderService struct {
	orderRepo repositories.PurchaseOrderRepository
	itemRepo  repositories.PurchaseOrderItemRepository
}

func NewPurchaseOrderService(orderRepo repositories.PurchaseOrderRepository, itemRepo repositories.PurchaseOrderItemRepository) PurchaseOrderService {
	return &purchaseOrderService{orderRepo: orderRepo, itemRepo: itemRepo}
}

func (s *purchaseOrderService) GetByID(ctx context.Context, tenantID, id uuid.UUID) (*models.PurchaseOrder, error) {
	return s.orderRepo.GetByID(ctx, tenantID, id)
}

func (s *purchaseOrderService) GetWithItems(ctx context.Context, tenantID, id uuid.UUID) (*models.PurchaseOrderWithItems, error) {
	order, err := s.orderRepo.GetByID(ctx, tenantID, id)
	if err != nil {
		return nil, err
	}
	items, err := s.itemRepo.ListByOrderID(ctx, tenantID, id)
	if err != nil {
		return nil, fmt.Errorf("load items for order %s: %w", order.OrderNumber, err)
	}
	return &models.PurchaseOrderWithItems{Order: order, Items: items}, nil
}

func (s *purchaseOrderService) List(ctx context.Context, tenantID uuid.UUID, status string, limit, offset int) ([]*models.PurchaseOrder, error) {
	if status != "" {
		return s.orderRepo.ListByStatus(ctx, tenantID, status, limit, offset)
	}
	return s.orderRepo.List(ctx, tenantID, limit, offset)
}

func (s *purchaseOrderService) FindDraftForSupplier(ctx context.Context, tenantID, supplierID uuid.UUID) (*models.PurchaseOrder, error) {
	return s.orderRepo.FindLatestDraftBySupplier(ctx, tenantID, supplierID)
}

// Confirm moves a draft to confirmed and stamps the confirmation time. An
// order that is not a draft cannot be confirmed.
func (s *purchaseOrderService) Confirm(ctx context.Context, tenantID, id uuid.UUID) (*models.PurchaseOrder, error) {
	order, err := s.orderRepo.GetByID(ctx, tenantID, id)
	if err != nil {
		return nil, err
	}
	if order.Status != models.OrderStatusDraft {
		return nil, fmt.Errorf("order %s is %s; only draft orders can be confirmed", order.OrderNumber, order.Status)
	}

	items, err := s.itemRepo.ListByOrderID(ctx, tenantID, id)
	if err != nil {
		return nil, err
	}
	if len(items) == 0 {
		return nil, fmt.Errorf("order %s has no line items; cannot confirm an empty order", order.OrderNumber)
	}

	now := time.Now().UTC()
	if err := s.orderRepo.UpdateStatus(ctx, tenantID, id, models.OrderStatusConfirmed, &now); err != nil {
		return nil, err
	}
	order.Status = models.OrderStatusConfirmed
	order.ConfirmedAt = &now
	return order, nil
}

func (s *purchaseOrderService) Cancel(ctx context.Context, tenantID, id uuid.UUID) (*models.PurchaseOrder, error) {
	order, err := s.orderRepo.GetByID(ctx, tenantID, id)
	if err != nil {
		return nil, err
	}
	if order.Status == models.OrderStatusCancelled {
		return order, nil
	}
	if order.Status == models.OrderStatusConfirmed {
		return nil, fmt.Errorf("order %s is already confirmed; confirmed orders cannot be cancelled", order.OrderNumber)
	}

	if err := s.orderRepo.UpdateStatus(ctx, tenantID, id, models.OrderStatusCancelled, nil); err != nil {
		return nil, err
	}
	order.Status = models.OrderStatusCancelled
	return order, nil
}

func (s *purchaseOrderService) DeleteDraft(ctx context.Context, tenantID, id uuid.UUID) error {
	order, err := s.orderRepo.GetByID(ctx, tenantID, id)
	if err != nil {
		return err
	}
	if order.Status != models.OrderStatusDraft {
		return fmt.Errorf("order %s is %s; only draft orders can be deleted", order.OrderNumber, order.Status)
	}
	return s.orderRepo.Delete(ctx, tenantID, id)
}
