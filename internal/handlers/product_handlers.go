package handlers

import (
	"net/http"

	"tradedesk/internal/common"
	"tradedesk/internal/models"
	"tradedesk/internal/services"

	"github.com/google/uuid"
	"github.com/labstack/echo/v4"
)

// ProductHandlers handles product-related HTTP requests
type ProductHandlers struct {
	productService services.ProductService
}

func NewProductHandlers(productService services.ProductService) *ProductHandlers {
	return &ProductHandlers{productService: productService}
}

// CreateProductRequest represents the product creation request payload
type CreateProductRequest struct {
	Name        string  `json:"name"`
	SupplierID  *string `json:"supplier_id"`
	Reference   *string `json:"reference"`
	CostPrice   float64 `json:"cost_price"`
	Description *string `json:"description"`
}

func (h *ProductHandlers) CreateProduct(c echo.Context) error {
	ctx := c.Request().Context()

	var req CreateProductRequest
	if err := c.Bind(&req); err != nil {
		return common.SendClientError(c, "Invalid request format")
	}
	if req.Name == "" {
		return common.SendValidationError(c, "name", "name is required")
	}

	tenantID, ok := common.GetTenantIDFromContext(ctx)
	if !ok {
		return common.SendUnauthorizedError(c)
	}

	product := &models.Product{
		TenantID:    tenantID,
		Name:        req.Name,
		Reference:   req.Reference,
		CostPrice:   req.CostPrice,
		Description: req.Description,
	}

	if req.SupplierID != nil {
		supplierID, err := common.ValidateUUID(*req.SupplierID, "supplier_id")
		if err != nil {
			return common.SendValidationError(c, "supplier_id", err.Error())
		}
		product.SupplierID = &supplierID
	}

	if err := h.productService.Create(ctx, product); err != nil {
		return common.SendClientError(c, err.Error())
	}

	return c.JSON(http.StatusCreated, product)
}

func (h *ProductHandlers) GetProduct(c echo.Context) error {
	ctx := c.Request().Context()

	productID, err := common.ValidateUUID(c.Param("id"), "product id")
	if err != nil {
		return common.SendValidationError(c, "id", err.Error())
	}

	tenantID, ok := common.GetTenantIDFromContext(ctx)
	if !ok {
		return common.SendUnauthorizedError(c)
	}

	product, err := h.productService.GetByID(ctx, tenantID, productID)
	if err != nil {
		return common.SendNotFoundError(c, "Product")
	}

	return c.JSON(http.StatusOK, product)
}

// UpdateProductRequest represents the product update request payload
type UpdateProductRequest struct {
	Name        *string  `json:"name"`
	SupplierID  *string  `json:"supplier_id"`
	Reference   *string  `json:"reference"`
	CostPrice   *float64 `json:"cost_price"`
	Description *string  `json:"description"`
}

func (h *ProductHandlers) UpdateProduct(c echo.Context) error {
	ctx := c.Request().Context()

	productID, err := common.ValidateUUID(c.Param("id"), "product id")
	if err != nil {
		return common.SendValidationError(c, "id", err.Error())
	}

	var req UpdateProductRequest
	if err := c.Bind(&req); err != nil {
		return common.SendClientError(c, "Invalid request format")
	}

	tenantID, ok := common.GetTenantIDFromContext(ctx)
	if !ok {
		return common.SendUnauthorizedError(c)
	}

	product, err := h.productService.GetByID(ctx, tenantID, productID)
	if err != nil {
		return common.SendNotFoundError(c, "Product")
	}

	if req.Name != nil {
		product.Name = *req.Name
	}
	if req.Reference != nil {
		product.Reference = req.Reference
	}
	if req.CostPrice != nil {
		product.CostPrice = *req.CostPrice
	}
	if req.Description != nil {
		product.Description = req.Description
	}
	if req.SupplierID != nil {
		supplierID, err := common.ValidateUUID(*req.SupplierID, "supplier_id")
		if err != nil {
			return common.SendValidationError(c, "supplier_id", err.Error())
		}
		product.SupplierID = &supplierID
	}

	if err := h.productService.Update(ctx, product); err != nil {
		return common.SendClientError(c, err.Error())
	}

	return c.JSON(http.StatusOK, product)
}

func (h *ProductHandlers) DeleteProduct(c echo.Context) error {
	ctx := c.Request().Context()

	productID, err := common.ValidateUUID(c.Param("id"), "product id")
	if err != nil {
		return common.SendValidationError(c, "id", err.Error())
	}

	tenantID, ok := common.GetTenantIDFromContext(ctx)
	if !ok {
		return common.SendUnauthorizedError(c)
	}

	if _, err := h.productService.GetByID(ctx, tenantID, productID); err != nil {
		return common.SendNotFoundError(c, "Product")
	}

	if err := h.productService.Delete(ctx, tenantID, productID); err != nil {
		return common.SendServerError(c, "Failed to delete product")
	}

	return c.JSON(http.StatusOK, map[string]string{
		"message": "Product deleted successfully",
	})
}

// SearchProductsRequest represents query parameters for product search
type SearchProductsRequest struct {
	Query      string   `query:"q"`
	SupplierID string   `query:"supplier_id"`
	MinCost    *float64 `query:"min_cost"`
	MaxCost    *float64 `query:"max_cost"`
	SortBy     string   `query:"sort_by"`
	SortOrder  string   `query:"sort_order"`
	Limit      int      `query:"limit"`
	Offset     int      `query:"offset"`
}

func (h *ProductHandlers) SearchProducts(c echo.Context) error {
	ctx := c.Request().Context()

	var req SearchProductsRequest
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

	filter := &models.ProductSearchFilter{
		Query:     req.Query,
		MinCost:   req.MinCost,
		MaxCost:   req.MaxCost,
		SortBy:    req.SortBy,
		SortOrder: req.SortOrder,
		Limit:     limit,
		Offset:    offset,
	}
	if req.SupplierID != "" {
		supplierID, err := uuid.Parse(req.SupplierID)
		if err != nil {
			return common.SendValidationError(c, "supplier_id", "supplier_id is not a valid UUID")
		}
		filter.SupplierID = &supplierID
	}

	products, err := h.productService.Search(ctx, tenantID, filter)
	if err != nil {
		return common.SendServerError(c, "Failed to search products")
	}

	return c.JSON(http.StatusOK, map[string]interface{}{
		"products": products,
		"limit":    limit,
		"offset":   offset,
	})
}

// ListProductsRequest represents query parameters for listing products
type ListProductsRequest struct {
	Limit  int `query:"limit"`
	Offset int `query:"offset"`
}

func (h *ProductHandlers) ListProducts(c echo.Context) error {
	ctx := c.Request().Context()

	var req ListProductsRequest
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

	products, err := h.productService.List(ctx, tenantID, limit, offset)
	if err != nil {
		return common.SendServerError(c, "Failed to list products")
	}

	return c.JSON(http.StatusOK, map[string]interface{}{
		"products": products,
		"limit":    limit,
		"offset":   offset,
	})
}
