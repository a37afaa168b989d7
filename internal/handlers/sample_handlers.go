package handlers

import (
	"net/http"

	"tradedesk/internal/common"
	"tradedesk/internal/models"
	"tradedesk/internal/services"

	"github.com/labstack/echo/v4"
)

// SampleHandlers handles sample request and eligibility endpoints
type SampleHandlers struct {
	sampleService services.SampleOrderService
}

func NewSampleHandlers(sampleService services.SampleOrderService) *SampleHandlers {
	return &SampleHandlers{sampleService: sampleService}
}

// RequestSampleRequest represents the sample request payload
type RequestSampleRequest struct {
	ProductID  string  `json:"product_id"`
	SampleType string  `json:"sample_type"`
	Notes      *string `json:"notes"`
}

// RequestSample folds an approved sample into the supplier's draft order.
// Business rejections come back as 200 with a structured result; only
// infrastructure faults produce a 5xx.
func (h *SampleHandlers) RequestSample(c echo.Context) error {
	ctx := c.Request().Context()

	var req RequestSampleRequest
	if err := c.Bind(&req); err != nil {
		return common.SendClientError(c, "Invalid request format")
	}

	productID, err := common.ValidateUUID(req.ProductID, "product_id")
	if err != nil {
		return common.SendValidationError(c, "product_id", err.Error())
	}
	if req.SampleType == "" {
		req.SampleType = models.SampleTypeInternal
	}
	if err := common.ValidateSampleType(req.SampleType); err != nil {
		return common.SendValidationError(c, "sample_type", err.Error())
	}

	tenantID, ok := common.GetTenantIDFromContext(ctx)
	if !ok {
		return common.SendUnauthorizedError(c)
	}

	result, err := h.sampleService.RequestSample(ctx, tenantID, productID, req.SampleType, req.Notes)
	if err != nil {
		return common.SendServerError(c, "Failed to process sample request")
	}

	status := http.StatusOK
	if result.Success && result.OrderCreated {
		status = http.StatusCreated
	}
	return c.JSON(status, result)
}

// CheckEligibility returns the structured verdict without any writes.
func (h *SampleHandlers) CheckEligibility(c echo.Context) error {
	ctx := c.Request().Context()

	productID, err := common.ValidateUUID(c.Param("id"), "product id")
	if err != nil {
		return common.SendValidationError(c, "id", err.Error())
	}

	tenantID, ok := common.GetTenantIDFromContext(ctx)
	if !ok {
		return common.SendUnauthorizedError(c)
	}

	verdict, err := h.sampleService.CheckEligibility(ctx, tenantID, productID)
	if err != nil {
		return common.SendNotFoundError(c, "Product")
	}

	return c.JSON(http.StatusOK, verdict)
}
