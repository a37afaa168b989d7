package services

import (
	"context"
	"errors"
	"testing"
	"time"

	"tradedesk/internal/models"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/suite"
)

type EligibilityServiceTestSuite struct {
	suite.Suite
	mockItemRepo     *MockPurchaseOrderItemRepository
	mockMovementRepo *MockStockMovementRepository
	service          EligibilityService
	tenantID         uuid.UUID
	productID        uuid.UUID
}

func (suite *EligibilityServiceTestSuite) SetupTest() {
	suite.mockItemRepo = &MockPurchaseOrderItemRepository{}
	suite.mockMovementRepo = &MockStockMovementRepository{}
	suite.service = NewEligibilityService(suite.mockItemRepo, suite.mockMovementRepo, nil, 5*time.Minute)
	suite.tenantID = uuid.New()
	suite.productID = uuid.New()
}

func (suite *EligibilityServiceTestSuite) TearDownTest() {
	suite.mockItemRepo.AssertExpectations(suite.T())
	suite.mockMovementRepo.AssertExpectations(suite.T())
}

func TestEligibilityServiceTestSuite(t *testing.T) {
	suite.Run(t, new(EligibilityServiceTestSuite))
}

func (suite *EligibilityServiceTestSuite) TestCheck_EligibleWhenNoHistory() {
	suite.mockItemRepo.On("CountNonSampleByProduct", mock.Anything, suite.tenantID, suite.productID).Return(int64(0), nil).Once()
	suite.mockMovementRepo.On("CountByProduct", mock.Anything, suite.tenantID, suite.productID).Return(int64(0), nil).Once()

	verdict := suite.service.Check(context.Background(), suite.tenantID, suite.productID)

	assert.True(suite.T(), verdict.Eligible)
	assert.Equal(suite.T(), models.ReasonEligible, verdict.Reason)
	assert.Equal(suite.T(), int64(0), verdict.PurchaseCount)
	assert.Equal(suite.T(), int64(0), verdict.MovementCount)
	assert.NotEmpty(suite.T(), verdict.Message)
}

func (suite *EligibilityServiceTestSuite) TestCheck_BlockedByPurchaseHistory() {
	suite.mockItemRepo.On("CountNonSampleByProduct", mock.Anything, suite.tenantID, suite.productID).Return(int64(3), nil).Once()
	suite.mockMovementRepo.On("CountByProduct", mock.Anything, suite.tenantID, suite.productID).Return(int64(0), nil).Once()

	verdict := suite.service.Check(context.Background(), suite.tenantID, suite.productID)

	assert.False(suite.T(), verdict.Eligible)
	assert.Equal(suite.T(), models.ReasonHasPurchaseHistory, verdict.Reason)
	assert.Equal(suite.T(), int64(3), verdict.PurchaseCount)
}

func (suite *EligibilityServiceTestSuite) TestCheck_BlockedByStockHistory() {
	suite.mockItemRepo.On("CountNonSampleByProduct", mock.Anything, suite.tenantID, suite.productID).Return(int64(0), nil).Once()
	suite.mockMovementRepo.On("CountByProduct", mock.Anything, suite.tenantID, suite.productID).Return(int64(1), nil).Once()

	verdict := suite.service.Check(context.Background(), suite.tenantID, suite.productID)

	assert.False(suite.T(), verdict.Eligible)
	assert.Equal(suite.T(), models.ReasonHasStockHistory, verdict.Reason)
	assert.Equal(suite.T(), int64(1), verdict.MovementCount)
}

func (suite *EligibilityServiceTestSuite) TestCheck_BlockedByBothHistories() {
	suite.mockItemRepo.On("CountNonSampleByProduct", mock.Anything, suite.tenantID, suite.productID).Return(int64(2), nil).Once()
	suite.mockMovementRepo.On("CountByProduct", mock.Anything, suite.tenantID, suite.productID).Return(int64(5), nil).Once()

	verdict := suite.service.Check(context.Background(), suite.tenantID, suite.productID)

	assert.False(suite.T(), verdict.Eligible)
	assert.Equal(suite.T(), models.ReasonBothHistories, verdict.Reason)
	assert.Equal(suite.T(), int64(2), verdict.PurchaseCount)
	assert.Equal(suite.T(), int64(5), verdict.MovementCount)
}

// A failed count fetch must never be mistaken for eligibility: the verdict
// comes back non-eligible with the failure in the message, and no error is
// raised to the caller.
func (suite *EligibilityServiceTestSuite) TestCheck_FetchErrorBlocksRequest() {
	suite.mockItemRepo.On("CountNonSampleByProduct", mock.Anything, suite.tenantID, suite.productID).Return(int64(0), errors.New("connection refused")).Once()
	suite.mockMovementRepo.On("CountByProduct", mock.Anything, suite.tenantID, suite.productID).Return(int64(0), nil).Maybe()

	verdict := suite.service.Check(context.Background(), suite.tenantID, suite.productID)

	assert.False(suite.T(), verdict.Eligible)
	assert.Contains(suite.T(), verdict.Message, "could not be verified")
	assert.Contains(suite.T(), verdict.Message, "connection refused")
}

// The check is read-only: running it twice against unchanged history yields
// the same verdict both times.
func (suite *EligibilityServiceTestSuite) TestCheck_IdempotentOnUnchangedHistory() {
	suite.mockItemRepo.On("CountNonSampleByProduct", mock.Anything, suite.tenantID, suite.productID).Return(int64(0), nil).Twice()
	suite.mockMovementRepo.On("CountByProduct", mock.Anything, suite.tenantID, suite.productID).Return(int64(0), nil).Twice()

	first := suite.service.Check(context.Background(), suite.tenantID, suite.productID)
	second := suite.service.Check(context.Background(), suite.tenantID, suite.productID)

	assert.Equal(suite.T(), first, second)
}

func (suite *EligibilityServiceTestSuite) TestCheck_CachedBlockingVerdictIsReused() {
	cacheSvc := &MockCacheService{}
	cached := &models.EligibilityVerdict{
		Eligible:      false,
		Reason:        models.ReasonHasPurchaseHistory,
		Message:       "product has 4 non-sample purchase line(s); samples are no longer permitted",
		PurchaseCount: 4,
	}
	cacheSvc.On("GetVerdict", mock.Anything, suite.tenantID, suite.productID).Return(cached, nil).Once()

	service := NewEligibilityService(suite.mockItemRepo, suite.mockMovementRepo, cacheSvc, 5*time.Minute)
	verdict := service.Check(context.Background(), suite.tenantID, suite.productID)

	assert.Equal(suite.T(), cached, verdict)
	cacheSvc.AssertExpectations(suite.T())
	suite.mockItemRepo.AssertNotCalled(suite.T(), "CountNonSampleByProduct")
	suite.mockMovementRepo.AssertNotCalled(suite.T(), "CountByProduct")
}

func (suite *EligibilityServiceTestSuite) TestCheck_EligibleVerdictIsNotCached() {
	cacheSvc := &MockCacheService{}
	cacheSvc.On("GetVerdict", mock.Anything, suite.tenantID, suite.productID).Return(nil, nil).Once()
	suite.mockItemRepo.On("CountNonSampleByProduct", mock.Anything, suite.tenantID, suite.productID).Return(int64(0), nil).Once()
	suite.mockMovementRepo.On("CountByProduct", mock.Anything, suite.tenantID, suite.productID).Return(int64(0), nil).Once()

	service := NewEligibilityService(suite.mockItemRepo, suite.mockMovementRepo, cacheSvc, 5*time.Minute)
	verdict := service.Check(context.Background(), suite.tenantID, suite.productID)

	assert.True(suite.T(), verdict.Eligible)
	cacheSvc.AssertNotCalled(suite.T(), "SetVerdict")
	cacheSvc.AssertExpectations(suite.T())
}
