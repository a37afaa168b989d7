package handlers

import (
	"net/http"

	"tradedesk/internal/common"
	"tradedesk/internal/models"
	"tradedesk/internal/services"

	"github.com/labstack/echo/v4"
)

// StockMovementHandlers handles stock movement HTTP requests
type StockMovementHandlers struct {
	movementService services.StockMovementService
}

func NewStockMovementHandlers(movementService services.StockMovementService) *StockMovementHandlers {
	return &StockMovementHandlers{movementService: movementService}
}

// RecordMovementRequest represents the stock movement payload
type RecordMovementRequest struct {
	ProductID string  `json:"product_id"`
	Type      string  `json:"type"`
	Quantity  int     `json:"quantity"`
	Reference *string `json:"reference"`
	Notes     *string `json:"notes"`
}

func (h *StockMovementHandlers) RecordMovement(c echo.Context) error {
	ctx := c.Request().Context()

	var req RecordMovementRequest
	if err := c.Bind(&req); err != nil {
		return common.SendClientError(c, "Invalid request format")
	}

	productID, err := common.ValidateUUID(req.ProductID, "product_id")
	if err != nil {
		return common.SendValidationError(c, "product_id", err.Error())
	}
	if err := common.ValidateMovementType(req.Type); err != nil {
		return common.SendValidationError(c, "type", err.Error())
	}

	tenantID, ok := common.GetTenantIDFromContext(ctx)
	if !ok {
		return common.SendUnauthorizedError(c)
	}
	userID, ok := common.GetUserIDFromContext(ctx)
	if !ok {
		return common.SendUnauthorizedError(c)
	}

	movement := &models.StockMovement{
		TenantID:  tenantID,
		ProductID: productID,
		Type:      req.Type,
		Quantity:  req.Quantity,
		Reference: req.Reference,
		Notes:     req.Notes,
		CreatedBy: userID,
	}

	if err := h.movementService.Record(ctx, movement); err != nil {
		return common.SendClientError(c, err.Error())
	}

	return c.JSON(http.StatusCreated, movement)
}

// ListMovementsRequest represents query parameters for listing movements
type ListMovementsRequest struct {
	ProductID string `query:"product_id"`
	Limit     int    `query:"limit"`
	Offset    int    `query:"offset"`
}

func (h *StockMovementHandlers) ListMovements(c echo.Context) error {
	ctx := c.Request().Context()

	var req ListMovementsRequest
	if err := c.Bind(&req); err != nil {
		return common.SendClientError(c, "Invalid query parameters")
	}

	limit, offset, err := common.ValidatePaginationParams(req.Limit, req.Offset)
	if err != nil {
		return common.SendValidationError(c, "pagination", err.Error())
	}

	tenantID, ok := common.GetTenantIDFromContext(ctx)
	if !ok {
		return common.SendUnauthorizedError(c)
	}

	var movements []*models.StockMovement
	if req.ProductID != "" {
		productID, err := common.ValidateUUID(req.ProductID, "product_id")
		if err != nil {
			return common.SendValidationError(c, "product_id", err.Error())
		}
		movements, err = h.movementService.ListByProduct(ctx, tenantID, productID, limit, offset)
		if err != nil {
			return common.SendServerError(c, "Failed to list movements")
		}
	} else {
		movements, err = h.movementService.List(ctx, tenantID, limit, offset)
		if err != nil {
			return common.SendServerError(c, "Failed to list movements")
		}
	}

	return c.JSON(http.StatusOK, map[string]interface{}{
		"movements": movements,
		"limit":     limit,
		"offset":    offset,
	})
}
