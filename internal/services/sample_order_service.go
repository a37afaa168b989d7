package services

import (
	"context"
	"fmt"
	"log"
	"time"

	"tradedesk/internal/common"
	"tradedesk/internal/models"
	"tradedesk/internal/repositories"

	"github.com/google/uuid"
)

// SampleOrderService folds an approved sample request into the supplier's
// open draft purchase order, creating the draft if none exists. All business
// failures come back as a structured result; an error return is reserved for
// infrastructure faults the caller cannot act on.
type SampleOrderService interface {
	RequestSample(ctx context.Context, tenantID, productID uuid.UUID, sampleType string, notes *string) (*models.SampleRequestResult, error)
	CheckEligibility(ctx context.Context, tenantID, productID uuid.UUID) (*models.EligibilityVerdict, error)
}

type sampleOrderService struct {
	productRepo    repositories.ProductRepository
	orderRepo      repositories.PurchaseOrderRepository
	itemRepo       repositories.PurchaseOrderItemRepository
	eligibilitySvc EligibilityService
	vatRate        float64
}

func NewSampleOrderService(productRepo repositories.ProductRepository, orderRepo repositories.PurchaseOrderRepository, itemRepo repositories.PurchaseOrderItemRepository, eligibilitySvc EligibilityService, vatRate float64) SampleOrderService {
	return &sampleOrderService{
		productRepo:    productRepo,
		orderRepo:      orderRepo,
		itemRepo:       itemRepo,
		eligibilitySvc: eligibilitySvc,
		vatRate:        vatRate,
	}
}

// RequestSample runs the preconditions in a fixed order and stops at the first
// failure: the product must exist, carry a supplier, carry a positive cost
// price, and still be sample-eligible. Identity comes from the request
// context; an unauthenticated call is rejected before any write.
func (s *sampleOrderService) RequestSample(ctx context.Context, tenantID, productID uuid.UUID, sampleType string, notes *string) (*models.SampleRequestResult, error) {
	userID, ok := common.GetUserIDFromContext(ctx)
	if !ok {
		return failure(models.SampleErrUnauthenticated, "sample requests require an authenticated user"), nil
	}

	product, err := s.productRepo.GetByID(ctx, tenantID, productID)
	if err != nil {
		return failure(models.SampleErrProductNotFound, fmt.Sprintf("product %s not found", productID)), nil
	}

	if product.SupplierID == nil {
		return failure(models.SampleErrMissingSupplier, fmt.Sprintf("product %q has no supplier; cannot route the sample request", product.Name)), nil
	}

	if product.CostPrice <= 0 {
		return failure(models.SampleErrInvalidCost, fmt.Sprintf("product %q has cost price %.2f; a positive cost is required to price the sample line", product.Name, product.CostPrice)), nil
	}

	verdict := s.eligibilitySvc.Check(ctx, tenantID, productID)
	if !verdict.Eligible {
		return failure(models.SampleErrNotEligible, verdict.Message), nil
	}

	supplierID := *product.SupplierID

	draft, err := s.orderRepo.FindLatestDraftBySupplier(ctx, tenantID, supplierID)
	if err != nil {
		return nil, fmt.Errorf("locate draft order: %w", err)
	}

	if draft != nil {
		return s.appendToDraft(ctx, tenantID, userID, draft, product, sampleType, notes)
	}

	result, err := s.createDraftWithSample(ctx, tenantID, userID, supplierID, product, sampleType, notes)
	if err == nil || !repositories.IsUniqueViolation(err) {
		return result, err
	}

	// Another request opened a draft for this supplier between our lookup and
	// the insert. The partial unique index guarantees exactly one draft per
	// supplier, so a single re-lookup must find it.
	log.Printf("draft already open for supplier %s, retrying as append", supplierID)
	draft, err = s.orderRepo.FindLatestDraftBySupplier(ctx, tenantID, supplierID)
	if err != nil {
		return nil, fmt.Errorf("relocate draft order after conflict: %w", err)
	}
	if draft == nil {
		return failure(models.SampleErrStore, "draft order vanished during a concurrent update; please retry"), nil
	}
	return s.appendToDraft(ctx, tenantID, userID, draft, product, sampleType, notes)
}

// CheckEligibility exposes the verdict without any writes, for the
// confirmation step in the back-office UI.
func (s *sampleOrderService) CheckEligibility(ctx context.Context, tenantID, productID uuid.UUID) (*models.EligibilityVerdict, error) {
	if _, err := s.productRepo.GetByID(ctx, tenantID, productID); err != nil {
		return nil, fmt.Errorf("product %s not found", productID)
	}
	return s.eligibilitySvc.Check(ctx, tenantID, productID), nil
}

func (s *sampleOrderService) appendToDraft(ctx context.Context, tenantID, userID uuid.UUID, draft *models.PurchaseOrder, product *models.Product, sampleType string, notes *string) (*models.SampleRequestResult, error) {
	item := s.buildSampleItem(tenantID, draft.ID, product, sampleType, notes)
	if err := s.itemRepo.Create(ctx, item); err != nil {
		return nil, fmt.Errorf("append sample line to order %s: %w", draft.OrderNumber, err)
	}

	if err := s.orderRepo.AddToTotals(ctx, tenantID, draft.ID, product.CostPrice, s.vatRate); err != nil {
		// The draft was confirmed or swept between lookup and update. Remove
		// the line we just added so the closed order is left untouched.
		if delErr := s.itemRepo.Delete(ctx, tenantID, item.ID); delErr != nil {
			log.Printf("ERROR: failed to remove sample line %s after totals update failed: %v", item.ID, delErr)
		}
		return failure(models.SampleErrStore, fmt.Sprintf("order %s is no longer a draft; please retry", draft.OrderNumber)), nil
	}

	return &models.SampleRequestResult{
		Success:      true,
		OrderID:      draft.ID,
		OrderCreated: false,
		Message:      fmt.Sprintf("sample added to existing draft order %s", draft.OrderNumber),
	}, nil
}

func (s *sampleOrderService) createDraftWithSample(ctx context.Context, tenantID, userID, supplierID uuid.UUID, product *models.Product, sampleType string, notes *string) (*models.SampleRequestResult, error) {
	order := &models.PurchaseOrder{
		ID:          uuid.New(),
		TenantID:    tenantID,
		OrderNumber: generateOrderNumber(),
		SupplierID:  supplierID,
		Status:      models.OrderStatusDraft,
		TotalHT:     product.CostPrice,
		TotalTTC:    product.CostPrice * s.vatRate,
		CreatedBy:   userID,
	}

	if err := s.orderRepo.Create(ctx, order); err != nil {
		// unique violations bubble up so the caller can retry as an append
		return nil, err
	}

	item := s.buildSampleItem(tenantID, order.ID, product, sampleType, notes)
	if err := s.itemRepo.Create(ctx, item); err != nil {
		// Do not leave an empty draft behind: it would capture every future
		// sample for this supplier while holding a line count of zero.
		if delErr := s.orderRepo.Delete(ctx, tenantID, order.ID); delErr != nil {
			log.Printf("ERROR: failed to remove empty draft order %s after line insert failed: %v", order.OrderNumber, delErr)
		}
		return nil, fmt.Errorf("insert sample line into new order %s: %w", order.OrderNumber, err)
	}

	return &models.SampleRequestResult{
		Success:      true,
		OrderID:      order.ID,
		OrderCreated: true,
		Message:      fmt.Sprintf("sample added to new draft order %s", order.OrderNumber),
	}, nil
}

func (s *sampleOrderService) buildSampleItem(tenantID, orderID uuid.UUID, product *models.Product, sampleType string, notes *string) *models.PurchaseOrderItem {
	return &models.PurchaseOrderItem{
		ID:         uuid.New(),
		TenantID:   tenantID,
		OrderID:    orderID,
		ProductID:  product.ID,
		Quantity:   1,
		UnitPrice:  product.CostPrice,
		DiscountPc: 0,
		SampleType: &sampleType,
		Notes:      notes,
	}
}

func generateOrderNumber() string {
	return "SMP-" + time.Now().UTC().Format("20060102-150405")
}

func failure(code, message string) *models.SampleRequestResult {
	return &models.SampleRequestResult{
		Success:   false,
		ErrorCode: code,
		Message:   message,
	}
}
