package services

import (
	"context"
	"errors"
	"testing"
	"time"

	"tradedesk/internal/common"
	"tradedesk/internal/models"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/suite"
)

type SampleOrderServiceTestSuite struct {
	suite.Suite
	mockProductRepo  *MockProductRepository
	mockOrderRepo    *MockPurchaseOrderRepository
	mockItemRepo     *MockPurchaseOrderItemRepository
	mockMovementRepo *MockStockMovementRepository
	service          SampleOrderService
	tenantID         uuid.UUID
	userID           uuid.UUID
	supplierID       uuid.UUID
	product          *models.Product
	ctx              context.Context
}

func (suite *SampleOrderServiceTestSuite) SetupTest() {
	suite.mockProductRepo = &MockProductRepository{}
	suite.mockOrderRepo = &MockPurchaseOrderRepository{}
	suite.mockItemRepo = &MockPurchaseOrderItemRepository{}
	suite.mockMovementRepo = &MockStockMovementRepository{}

	eligibilitySvc := NewEligibilityService(suite.mockItemRepo, suite.mockMovementRepo, nil, 5*time.Minute)
	suite.service = NewSampleOrderService(suite.mockProductRepo, suite.mockOrderRepo, suite.mockItemRepo, eligibilitySvc, 1.2)

	suite.tenantID = uuid.New()
	suite.userID = uuid.New()
	suite.supplierID = uuid.New()
	suite.product = &models.Product{
		ID:         uuid.New(),
		TenantID:   suite.tenantID,
		SupplierID: &suite.supplierID,
		Name:       "Colombian Single Origin 1kg",
		CostPrice:  50,
	}

	ctx := context.WithValue(context.Background(), common.UserIDKey, suite.userID)
	suite.ctx = context.WithValue(ctx, common.TenantIDKey, suite.tenantID)
}

func (suite *SampleOrderServiceTestSuite) TearDownTest() {
	suite.mockProductRepo.AssertExpectations(suite.T())
	suite.mockOrderRepo.AssertExpectations(suite.T())
	suite.mockItemRepo.AssertExpectations(suite.T())
	suite.mockMovementRepo.AssertExpectations(suite.T())
}

func TestSampleOrderServiceTestSuite(t *testing.T) {
	suite.Run(t, new(SampleOrderServiceTestSuite))
}

func (suite *SampleOrderServiceTestSuite) expectEligible() {
	suite.mockItemRepo.On("CountNonSampleByProduct", mock.Anything, suite.tenantID, suite.product.ID).Return(int64(0), nil).Once()
	suite.mockMovementRepo.On("CountByProduct", mock.Anything, suite.tenantID, suite.product.ID).Return(int64(0), nil).Once()
}

// First sample for a supplier: a new draft is created with totals seeded from
// the single line (50 pre-tax becomes 60 with 20% VAT).
func (suite *SampleOrderServiceTestSuite) TestRequestSample_CreatesDraftWithSeededTotals() {
	suite.mockProductRepo.On("GetByID", mock.Anything, suite.tenantID, suite.product.ID).Return(suite.product, nil).Once()
	suite.expectEligible()
	suite.mockOrderRepo.On("FindLatestDraftBySupplier", mock.Anything, suite.tenantID, suite.supplierID).Return(nil, nil).Once()

	var createdOrder *models.PurchaseOrder
	suite.mockOrderRepo.On("Create", mock.Anything, mock.AnythingOfType("*models.PurchaseOrder")).Run(func(args mock.Arguments) {
		createdOrder = args.Get(1).(*models.PurchaseOrder)
	}).Return(nil).Once()
	suite.mockItemRepo.On("Create", mock.Anything, mock.AnythingOfType("*models.PurchaseOrderItem")).Return(nil).Once()

	result, err := suite.service.RequestSample(suite.ctx, suite.tenantID, suite.product.ID, models.SampleTypeInternal, nil)

	assert.NoError(suite.T(), err)
	assert.True(suite.T(), result.Success)
	assert.True(suite.T(), result.OrderCreated)
	assert.Equal(suite.T(), createdOrder.ID, result.OrderID)
	assert.Equal(suite.T(), models.OrderStatusDraft, createdOrder.Status)
	assert.Equal(suite.T(), suite.userID, createdOrder.CreatedBy)
	assert.InDelta(suite.T(), 50.0, createdOrder.TotalHT, 0.001)
	assert.InDelta(suite.T(), 60.0, createdOrder.TotalTTC, 0.001)
	assert.Contains(suite.T(), createdOrder.OrderNumber, "SMP-")
}

// A later sample for the same supplier lands on the open draft: one new line
// and an atomic totals increment (80 pre-tax at the 1.2 multiplier).
func (suite *SampleOrderServiceTestSuite) TestRequestSample_AppendsToExistingDraft() {
	suite.product.CostPrice = 80
	draft := &models.PurchaseOrder{
		ID:          uuid.New(),
		TenantID:    suite.tenantID,
		OrderNumber: "SMP-20260101-080000",
		SupplierID:  suite.supplierID,
		Status:      models.OrderStatusDraft,
	}

	suite.mockProductRepo.On("GetByID", mock.Anything, suite.tenantID, suite.product.ID).Return(suite.product, nil).Once()
	suite.expectEligible()
	suite.mockOrderRepo.On("FindLatestDraftBySupplier", mock.Anything, suite.tenantID, suite.supplierID).Return(draft, nil).Once()

	var createdItem *models.PurchaseOrderItem
	suite.mockItemRepo.On("Create", mock.Anything, mock.AnythingOfType("*models.PurchaseOrderItem")).Run(func(args mock.Arguments) {
		createdItem = args.Get(1).(*models.PurchaseOrderItem)
	}).Return(nil).Once()
	suite.mockOrderRepo.On("AddToTotals", mock.Anything, suite.tenantID, draft.ID, 80.0, 1.2).Return(nil).Once()

	result, err := suite.service.RequestSample(suite.ctx, suite.tenantID, suite.product.ID, models.SampleTypeCustomer, nil)

	assert.NoError(suite.T(), err)
	assert.True(suite.T(), result.Success)
	assert.False(suite.T(), result.OrderCreated)
	assert.Equal(suite.T(), draft.ID, result.OrderID)
	assert.Equal(suite.T(), 1, createdItem.Quantity)
	assert.InDelta(suite.T(), 80.0, createdItem.UnitPrice, 0.001)
	assert.Equal(suite.T(), models.SampleTypeCustomer, *createdItem.SampleType)
	suite.mockOrderRepo.AssertNotCalled(suite.T(), "Create")
}

// If the line insert fails right after the draft was created, the draft is
// deleted again so no empty order is left to capture future samples.
func (suite *SampleOrderServiceTestSuite) TestRequestSample_CompensatesFailedLineInsert() {
	suite.mockProductRepo.On("GetByID", mock.Anything, suite.tenantID, suite.product.ID).Return(suite.product, nil).Once()
	suite.expectEligible()
	suite.mockOrderRepo.On("FindLatestDraftBySupplier", mock.Anything, suite.tenantID, suite.supplierID).Return(nil, nil).Once()

	var createdOrderID uuid.UUID
	suite.mockOrderRepo.On("Create", mock.Anything, mock.AnythingOfType("*models.PurchaseOrder")).Run(func(args mock.Arguments) {
		createdOrderID = args.Get(1).(*models.PurchaseOrder).ID
	}).Return(nil).Once()
	suite.mockItemRepo.On("Create", mock.Anything, mock.AnythingOfType("*models.PurchaseOrderItem")).Return(errors.New("insert failed")).Once()
	suite.mockOrderRepo.On("Delete", mock.Anything, suite.tenantID, mock.AnythingOfType("uuid.UUID")).Return(nil).Once()

	result, err := suite.service.RequestSample(suite.ctx, suite.tenantID, suite.product.ID, models.SampleTypeInternal, nil)

	assert.Error(suite.T(), err)
	assert.Nil(suite.T(), result)
	suite.mockOrderRepo.AssertCalled(suite.T(), "Delete", mock.Anything, suite.tenantID, createdOrderID)
}

// An ineligible product is rejected as a structured result and nothing is
// written: no draft lookup, no order, no line.
func (suite *SampleOrderServiceTestSuite) TestRequestSample_RejectsIneligibleProductWithoutMutation() {
	suite.mockProductRepo.On("GetByID", mock.Anything, suite.tenantID, suite.product.ID).Return(suite.product, nil).Once()
	suite.mockItemRepo.On("CountNonSampleByProduct", mock.Anything, suite.tenantID, suite.product.ID).Return(int64(2), nil).Once()
	suite.mockMovementRepo.On("CountByProduct", mock.Anything, suite.tenantID, suite.product.ID).Return(int64(0), nil).Once()

	result, err := suite.service.RequestSample(suite.ctx, suite.tenantID, suite.product.ID, models.SampleTypeInternal, nil)

	assert.NoError(suite.T(), err)
	assert.False(suite.T(), result.Success)
	assert.Equal(suite.T(), models.SampleErrNotEligible, result.ErrorCode)
	suite.mockOrderRepo.AssertNotCalled(suite.T(), "FindLatestDraftBySupplier")
	suite.mockOrderRepo.AssertNotCalled(suite.T(), "Create")
	suite.mockItemRepo.AssertNotCalled(suite.T(), "Create")
}

// A product without a supplier is rejected before any history fetch runs.
func (suite *SampleOrderServiceTestSuite) TestRequestSample_RejectsMissingSupplierBeforeHistoryFetch() {
	suite.product.SupplierID = nil
	suite.mockProductRepo.On("GetByID", mock.Anything, suite.tenantID, suite.product.ID).Return(suite.product, nil).Once()

	result, err := suite.service.RequestSample(suite.ctx, suite.tenantID, suite.product.ID, models.SampleTypeInternal, nil)

	assert.NoError(suite.T(), err)
	assert.False(suite.T(), result.Success)
	assert.Equal(suite.T(), models.SampleErrMissingSupplier, result.ErrorCode)
	suite.mockItemRepo.AssertNotCalled(suite.T(), "CountNonSampleByProduct")
	suite.mockMovementRepo.AssertNotCalled(suite.T(), "CountByProduct")
}

func (suite *SampleOrderServiceTestSuite) TestRequestSample_RejectsZeroCost() {
	suite.product.CostPrice = 0
	suite.mockProductRepo.On("GetByID", mock.Anything, suite.tenantID, suite.product.ID).Return(suite.product, nil).Once()

	result, err := suite.service.RequestSample(suite.ctx, suite.tenantID, suite.product.ID, models.SampleTypeInternal, nil)

	assert.NoError(suite.T(), err)
	assert.False(suite.T(), result.Success)
	assert.Equal(suite.T(), models.SampleErrInvalidCost, result.ErrorCode)
}

func (suite *SampleOrderServiceTestSuite) TestRequestSample_RejectsUnknownProduct() {
	missingID := uuid.New()
	suite.mockProductRepo.On("GetByID", mock.Anything, suite.tenantID, missingID).Return(nil, errors.New("no rows in result set")).Once()

	result, err := suite.service.RequestSample(suite.ctx, suite.tenantID, missingID, models.SampleTypeInternal, nil)

	assert.NoError(suite.T(), err)
	assert.False(suite.T(), result.Success)
	assert.Equal(suite.T(), models.SampleErrProductNotFound, result.ErrorCode)
}

// Identity comes from the request context; without it nothing is read or
// written.
func (suite *SampleOrderServiceTestSuite) TestRequestSample_RejectsUnauthenticatedCaller() {
	result, err := suite.service.RequestSample(context.Background(), suite.tenantID, suite.product.ID, models.SampleTypeInternal, nil)

	assert.NoError(suite.T(), err)
	assert.False(suite.T(), result.Success)
	assert.Equal(suite.T(), models.SampleErrUnauthenticated, result.ErrorCode)
	suite.mockProductRepo.AssertNotCalled(suite.T(), "GetByID")
}

// Two concurrent first-samples race to open the draft. The loser hits the
// unique index, re-locates the winner's draft and appends to it.
func (suite *SampleOrderServiceTestSuite) TestRequestSample_RetriesAsAppendOnDuplicateDraft() {
	winnersDraft := &models.PurchaseOrder{
		ID:          uuid.New(),
		TenantID:    suite.tenantID,
		OrderNumber: "SMP-20260101-090000",
		SupplierID:  suite.supplierID,
		Status:      models.OrderStatusDraft,
	}

	suite.mockProductRepo.On("GetByID", mock.Anything, suite.tenantID, suite.product.ID).Return(suite.product, nil).Once()
	suite.expectEligible()

	suite.mockOrderRepo.On("FindLatestDraftBySupplier", mock.Anything, suite.tenantID, suite.supplierID).Return(nil, nil).Once()
	suite.mockOrderRepo.On("Create", mock.Anything, mock.AnythingOfType("*models.PurchaseOrder")).Return(&pgconn.PgError{Code: "23505"}).Once()
	suite.mockOrderRepo.On("FindLatestDraftBySupplier", mock.Anything, suite.tenantID, suite.supplierID).Return(winnersDraft, nil).Once()
	suite.mockItemRepo.On("Create", mock.Anything, mock.AnythingOfType("*models.PurchaseOrderItem")).Return(nil).Once()
	suite.mockOrderRepo.On("AddToTotals", mock.Anything, suite.tenantID, winnersDraft.ID, 50.0, 1.2).Return(nil).Once()

	result, err := suite.service.RequestSample(suite.ctx, suite.tenantID, suite.product.ID, models.SampleTypeInternal, nil)

	assert.NoError(suite.T(), err)
	assert.True(suite.T(), result.Success)
	assert.False(suite.T(), result.OrderCreated)
	assert.Equal(suite.T(), winnersDraft.ID, result.OrderID)
}

// A draft that gets confirmed between lookup and the totals update is left
// untouched: the freshly inserted line is removed again.
func (suite *SampleOrderServiceTestSuite) TestRequestSample_RemovesLineWhenDraftClosedUnderneath() {
	draft := &models.PurchaseOrder{
		ID:          uuid.New(),
		TenantID:    suite.tenantID,
		OrderNumber: "SMP-20260101-100000",
		SupplierID:  suite.supplierID,
		Status:      models.OrderStatusDraft,
	}

	suite.mockProductRepo.On("GetByID", mock.Anything, suite.tenantID, suite.product.ID).Return(suite.product, nil).Once()
	suite.expectEligible()
	suite.mockOrderRepo.On("FindLatestDraftBySupplier", mock.Anything, suite.tenantID, suite.supplierID).Return(draft, nil).Once()

	var createdItemID uuid.UUID
	suite.mockItemRepo.On("Create", mock.Anything, mock.AnythingOfType("*models.PurchaseOrderItem")).Run(func(args mock.Arguments) {
		createdItemID = args.Get(1).(*models.PurchaseOrderItem).ID
	}).Return(nil).Once()
	suite.mockOrderRepo.On("AddToTotals", mock.Anything, suite.tenantID, draft.ID, 50.0, 1.2).Return(errors.New("draft order not found or no longer mutable")).Once()
	suite.mockItemRepo.On("Delete", mock.Anything, suite.tenantID, mock.AnythingOfType("uuid.UUID")).Return(nil).Once()

	result, err := suite.service.RequestSample(suite.ctx, suite.tenantID, suite.product.ID, models.SampleTypeInternal, nil)

	assert.NoError(suite.T(), err)
	assert.False(suite.T(), result.Success)
	assert.Equal(suite.T(), models.SampleErrStore, result.ErrorCode)
	suite.mockItemRepo.AssertCalled(suite.T(), "Delete", mock.Anything, suite.tenantID, createdItemID)
}

func (suite *SampleOrderServiceTestSuite) TestCheckEligibility_ReturnsVerdictWithoutWrites() {
	suite.mockProductRepo.On("GetByID", mock.Anything, suite.tenantID, suite.product.ID).Return(suite.product, nil).Once()
	suite.expectEligible()

	verdict, err := suite.service.CheckEligibility(suite.ctx, suite.tenantID, suite.product.ID)

	assert.NoError(suite.T(), err)
	assert.True(suite.T(), verdict.Eligible)
	suite.mockOrderRepo.AssertNotCalled(suite.T(), "Create")
	suite.mockItemRepo.AssertNotCalled(suite.T(), "Create")
}
