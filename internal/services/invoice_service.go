package services

import (
	"context"
	"fmt"
	"time"

	"tradedesk/internal/models"
	"tradedesk/internal/repositories"

	"github.com/google/uuid"
)

const invoiceDueDays = 30

type InvoiceService interface {
	GenerateForOrder(ctx context.Context, tenantID, orderID uuid.UUID) (*models.Invoice, error)
	GetByID(ctx context.Context, tenantID, id uuid.UUID) (*models.Invoice, error)
	MarkPaid(ctx context.Context, tenantID, id uuid.UUID) error
	List(ctx context.Context, tenantID uuid.UUID, limit, offset int) ([]*models.Invoice, error)
	ListUnpaid(ctx context.Context, tenantID uuid.UUID, limit, offset int) ([]*models.Invoice, error)
}

type invoiceService struct {
	invoiceRepo repositories.InvoiceRepository
	orderRepo   repositories.PurchaseOrderRepository
}

func NewInvoiceService(invoiceRepo repositories.InvoiceRepository, orderRepo repositories.PurchaseOrderRepository) InvoiceService {
	return &invoiceService{invoiceRepo: invoiceRepo, orderRepo: orderRepo}
}

// GenerateForOrder creates an unpaid invoice mirroring a confirmed order's
// totals. Generating twice for the same order returns the existing invoice.
func (s *invoiceService) GenerateForOrder(ctx context.Context, tenantID, orderID uuid.UUID) (*models.Invoice, error) {
	order, err := s.orderRepo.GetByID(ctx, tenantID, orderID)
	if err != nil {
		return nil, err
	}
	if order.Status != models.OrderStatusConfirmed {
		return nil, fmt.Errorf("order %s is %s; invoices are generated from confirmed orders only", order.OrderNumber, order.Status)
	}

	existing, err := s.invoiceRepo.GetByOrderID(ctx, tenantID, orderID)
	if err != nil {
		return nil, err
	}
	if existing != nil {
		return existing, nil
	}

	dueDate := time.Now().UTC().AddDate(0, 0, invoiceDueDays)
	invoice := &models.Invoice{
		ID:            uuid.New(),
		TenantID:      tenantID,
		OrderID:       orderID,
		InvoiceNumber: "INV-" + order.OrderNumber,
		TotalHT:       order.TotalHT,
		TotalTTC:      order.TotalTTC,
		Status:        models.InvoiceStatusUnpaid,
		DueDate:       &dueDate,
	}
	if err := s.invoiceRepo.Create(ctx, invoice); err != nil {
		return nil, err
	}
	return invoice, nil
}

func (s *invoiceService) GetByID(ctx context.Context, tenantID, id uuid.UUID) (*models.Invoice, error) {
	return s.invoiceRepo.GetByID(ctx, tenantID, id)
}

func (s *invoiceService) MarkPaid(ctx context.Context, tenantID, id uuid.UUID) error {
	invoice, err := s.invoiceRepo.GetByID(ctx, tenantID, id)
	if err != nil {
		return err
	}
	if invoice.Status == models.InvoiceStatusPaid {
		return nil
	}
	return s.invoiceRepo.UpdateStatus(ctx, tenantID, id, models.InvoiceStatusPaid)
}

func (s *invoiceService) List(ctx context.Context, tenantID uuid.UUID, limit, offset int) ([]*models.Invoice, error) {
	return s.invoiceRepo.List(ctx, tenantID, limit, offset)
}

func (s *invoiceService) ListUnpaid(ctx context.Context, tenantID uuid.UUID, limit, offset int) ([]*models.Invoice, error) {
	return s.invoiceRepo.ListUnpaid(ctx, tenantID, limit, offset)
}
