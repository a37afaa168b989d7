package services

import (
	"context"
	"fmt"
	"time"

	"tradedesk/internal/caching"
	"tradedesk/internal/models"
	"tradedesk/internal/repositories"

	"github.com/google/uuid"
	"golang.org/x/sync/errgroup"
)

// EligibilityService decides whether a product may still be requested as a
// sample. The policy is first-time-only: a product that has ever been ordered
// as normal stock, or has ever had a stock movement, is permanently blocked.
type EligibilityService interface {
	Check(ctx context.Context, tenantID, productID uuid.UUID) *models.EligibilityVerdict
	Invalidate(ctx context.Context, tenantID, productID uuid.UUID)
}

type eligibilityService struct {
	itemRepo     repositories.PurchaseOrderItemRepository
	movementRepo repositories.StockMovementRepository
	cacheSvc     caching.CacheService
	verdictTTL   time.Duration
}

func NewEligibilityService(itemRepo repositories.PurchaseOrderItemRepository, movementRepo repositories.StockMovementRepository, cacheSvc caching.CacheService, verdictTTL time.Duration) EligibilityService {
	return &eligibilityService{
		itemRepo:     itemRepo,
		movementRepo: movementRepo,
		cacheSvc:     cacheSvc,
		verdictTTL:   verdictTTL,
	}
}

// Check fetches the purchase-line count and the stock-movement count in
// parallel and combines them into a verdict. It never returns an error: a
// failed fetch produces a non-eligible verdict with the failure embedded in
// the message, so the caller always gets a structured answer.
func (s *eligibilityService) Check(ctx context.Context, tenantID, productID uuid.UUID) *models.EligibilityVerdict {
	if s.cacheSvc != nil {
		if cached, err := s.cacheSvc.GetVerdict(ctx, tenantID, productID); err == nil && cached != nil {
			return cached
		}
	}

	var purchaseCount, movementCount int64

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		count, err := s.itemRepo.CountNonSampleByProduct(gctx, tenantID, productID)
		if err != nil {
			return fmt.Errorf("count purchase history: %w", err)
		}
		purchaseCount = count
		return nil
	})
	g.Go(func() error {
		count, err := s.movementRepo.CountByProduct(gctx, tenantID, productID)
		if err != nil {
			return fmt.Errorf("count stock movements: %w", err)
		}
		movementCount = count
		return nil
	})

	if err := g.Wait(); err != nil {
		return &models.EligibilityVerdict{
			Eligible: false,
			Message:  fmt.Sprintf("eligibility could not be verified: %v", err),
		}
	}

	verdict := decide(purchaseCount, movementCount)

	// Only blocking verdicts are cached: history never goes away, whereas an
	// eligible product can become ineligible on the very next movement.
	if s.cacheSvc != nil && !verdict.Eligible {
		_ = s.cacheSvc.SetVerdict(ctx, tenantID, productID, verdict, s.verdictTTL)
	}

	return verdict
}

func (s *eligibilityService) Invalidate(ctx context.Context, tenantID, productID uuid.UUID) {
	if s.cacheSvc != nil {
		_ = s.cacheSvc.DeleteVerdict(ctx, tenantID, productID)
	}
}

func decide(purchaseCount, movementCount int64) *models.EligibilityVerdict {
	verdict := &models.EligibilityVerdict{
		PurchaseCount: purchaseCount,
		MovementCount: movementCount,
	}

	switch {
	case purchaseCount == 0 && movementCount == 0:
		verdict.Eligible = true
		verdict.Reason = models.ReasonEligible
		verdict.Message = "product has never been ordered or moved; sample allowed"
	case purchaseCount > 0 && movementCount > 0:
		verdict.Reason = models.ReasonBothHistories
		verdict.Message = fmt.Sprintf("product has %d purchase line(s) and %d stock movement(s); samples are no longer permitted", purchaseCount, movementCount)
	case purchaseCount > 0:
		verdict.Reason = models.ReasonHasPurchaseHistory
		verdict.Message = fmt.Sprintf("product has %d non-sample purchase line(s); samples are no longer permitted", purchaseCount)
	default:
		verdict.Reason = models.ReasonHasStockHistory
		verdict.Message = fmt.Sprintf("product has %d stock movement(s); samples are no longer permitted", movementCount)
	}

	return verdict
}
