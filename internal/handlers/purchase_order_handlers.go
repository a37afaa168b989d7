package handlers

import (
	"net/http"

	"tradedesk/internal/common"
	"tradedesk/internal/services"

	"github.com/labstack/echo/v4"
)

// PurchaseOrderHandlers handles purchase order HTTP requests
type PurchaseOrderHandlers struct {
	orderService services.PurchaseOrderService
}

func NewPurchaseOrderHandlers(orderService services.PurchaseOrderService) *PurchaseOrderHandlers {
	return &PurchaseOrderHandlers{orderService: orderService}
}

// ListOrdersRequest represents query parameters for listing orders
type ListOrdersRequest struct {
	Status string `query:"status"`
	Limit  int    `query:"limit"`
	Offset int    `query:"offset"`
}

func (h *PurchaseOrderHandlers) ListOrders(c echo.Context) error {
	ctx := c.Request().Context()

	var req ListOrdersRequest
	if err := c.Bind(&req); err != nil {
		return common.SendClientError(c, "Invalid query parameters")
	}
	if req.Status != "" {
		if err := common.ValidateOrderStatus(req.Status); err != nil {
			return common.SendValidationError(c, "status", err.Error())
		}
	}

	limit, offset, err := common.ValidatePaginationParams(req.Limit, req.Offset)
	if err != nil {
		return common.SendValidationError(c, "pagination", err.Error())
	}

	tenantID, ok := common.GetTenantIDFromContext(ctx)
	if !ok {
		return common.SendUnauthorizedError(c)
	}

	orders, err := h.orderService.List(ctx, tenantID, req.Status, limit, offset)
	if err != nil {
		return common.SendServerError(c, "Failed to list orders")
	}

	return c.JSON(http.StatusOK, map[string]interface{}{
		"orders": orders,
		"limit":  limit,
		"offset": offset,
	})
}

func (h *PurchaseOrderHandlers) GetOrder(c echo.Context) error {
	ctx := c.Request().Context()

	orderID, err := common.ValidateUUID(c.Param("id"), "order id")
	if err != nil {
		return common.SendValidationError(c, "id", err.Error())
	}

	tenantID, ok := common.GetTenantIDFromContext(ctx)
	if !ok {
		return common.SendUnauthorizedError(c)
	}

	order, err := h.orderService.GetWithItems(ctx, tenantID, orderID)
	if err != nil {
		return common.SendNotFoundError(c, "Order")
	}

	return c.JSON(http.StatusOK, order)
}

// GetDraftForSupplier returns the open draft for a supplier, or 404 when no
// draft exists.
func (h *PurchaseOrderHandlers) GetDraftForSupplier(c echo.Context) error {
	ctx := c.Request().Context()

	supplierID, err := common.ValidateUUID(c.Param("supplier_id"), "supplier id")
	if err != nil {
		return common.SendValidationError(c, "supplier_id", err.Error())
	}

	tenantID, ok := common.GetTenantIDFromContext(ctx)
	if !ok {
		return common.SendUnauthorizedError(c)
	}

	draft, err := h.orderService.FindDraftForSupplier(ctx, tenantID, supplierID)
	if err != nil {
		return common.SendServerError(c, "Failed to locate draft order")
	}
	if draft == nil {
		return common.SendNotFoundError(c, "Draft order")
	}

	return c.JSON(http.StatusOK, draft)
}

func (h *PurchaseOrderHandlers) ConfirmOrder(c echo.Context) error {
	ctx := c.Request().Context()

	orderID, err := common.ValidateUUID(c.Param("id"), "order id")
	if err != nil {
		return common.SendValidationError(c, "id", err.Error())
	}

	tenantID, ok := common.GetTenantIDFromContext(ctx)
	if !ok {
		return common.SendUnauthorizedError(c)
	}

	order, err := h.orderService.Confirm(ctx, tenantID, orderID)
	if err != nil {
		return common.SendClientError(c, err.Error())
	}

	return c.JSON(http.StatusOK, order)
}

func (h *PurchaseOrderHandlers) CancelOrder(c echo.Context) error {
	ctx := c.Request().Context()

	orderID, err := common.ValidateUUID(c.Param("id"), "order id")
	if err != nil {
		return common.SendValidationError(c, "id", err.Error())
	}

	tenantID, ok := common.GetTenantIDFromContext(ctx)
	if !ok {
		return common.SendUnauthorizedError(c)
	}

	order, err := h.orderService.Cancel(ctx, tenantID, orderID)
	if err != nil {
		return common.SendClientError(c, err.Error())
	}

	return c.JSON(http.StatusOK, order)
}

func (h *PurchaseOrderHandlers) DeleteOrder(c echo.Context) error {
	ctx := c.Request().Context()

	orderID, err := common.ValidateUUID(c.Param("id"), "order id")
	if err != nil {
		return common.SendValidationError(c, "id", err.Error())
	}

	tenantID, ok := common.GetTenantIDFromContext(ctx)
	if !ok {
		return common.SendUnauthorizedError(c)
	}

	if err := h.orderService.DeleteDraft(ctx, tenantID, orderID); err != nil {
		return common.SendClientError(c, err.Error())
	}

	return c.JSON(http.StatusOK, map[string]string{
		"message": "Draft order deleted successfully",
	})
}
