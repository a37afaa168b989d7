package handlers

import (
	"net/http"
	"time"

	"tradedesk/internal/common"
	"tradedesk/internal/services"

	"github.com/labstack/echo/v4"
)

const presignedURLExpiry = 15 * time.Minute

// InvoiceHandlers handles invoice HTTP requests, including attachments
// stored in object storage.
type InvoiceHandlers struct {
	invoiceService  services.InvoiceService
	documentService services.DocumentService
}

func NewInvoiceHandlers(invoiceService services.InvoiceService, documentService services.DocumentService) *InvoiceHandlers {
	return &InvoiceHandlers{
		invoiceService:  invoiceService,
		documentService: documentService,
	}
}

// GenerateInvoiceRequest represents the invoice generation payload
type GenerateInvoiceRequest struct {
	OrderID string `json:"order_id"`
}

func (h *InvoiceHandlers) GenerateInvoice(c echo.Context) error {
	ctx := c.Request().Context()

	var req GenerateInvoiceRequest
	if err := c.Bind(&req); err != nil {
		return common.SendClientError(c, "Invalid request format")
	}

	orderID, err := common.ValidateUUID(req.OrderID, "order_id")
	if err != nil {
		return common.SendValidationError(c, "order_id", err.Error())
	}

	tenantID, ok := common.GetTenantIDFromContext(ctx)
	if !ok {
		return common.SendUnauthorizedError(c)
	}

	invoice, err := h.invoiceService.GenerateForOrder(ctx, tenantID, orderID)
	if err != nil {
		return common.SendClientError(c, err.Error())
	}

	return c.JSON(http.StatusCreated, invoice)
}

func (h *InvoiceHandlers) GetInvoice(c echo.Context) error {
	ctx := c.Request().Context()

	invoiceID, err := common.ValidateUUID(c.Param("id"), "invoice id")
	if err != nil {
		return common.SendValidationError(c, "id", err.Error())
	}

	tenantID, ok := common.GetTenantIDFromContext(ctx)
	if !ok {
		return common.SendUnauthorizedError(c)
	}

	invoice, err := h.invoiceService.GetByID(ctx, tenantID, invoiceID)
	if err != nil {
		return common.SendNotFoundError(c, "Invoice")
	}

	return c.JSON(http.StatusOK, invoice)
}

func (h *InvoiceHandlers) MarkInvoicePaid(c echo.Context) error {
	ctx := c.Request().Context()

	invoiceID, err := common.ValidateUUID(c.Param("id"), "invoice id")
	if err != nil {
		return common.SendValidationError(c, "id", err.Error())
	}

	tenantID, ok := common.GetTenantIDFromContext(ctx)
	if !ok {
		return common.SendUnauthorizedError(c)
	}

	if err := h.invoiceService.MarkPaid(ctx, tenantID, invoiceID); err != nil {
		return common.SendClientError(c, err.Error())
	}

	return c.JSON(http.StatusOK, map[string]string{
		"message": "Invoice marked as paid",
	})
}

// ListInvoicesRequest represents query parameters for listing invoices
type ListInvoicesRequest struct {
	Unpaid bool `query:"unpaid"`
	Limit  int  `query:"limit"`
	Offset int  `query:"offset"`
}

func (h *InvoiceHandlers) ListInvoices(c echo.Context) error {
	ctx := c.Request().Context()

	var req ListInvoicesRequest
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

	list := h.invoiceService.List
	if req.Unpaid {
		list = h.invoiceService.ListUnpaid
	}
	invoices, err := list(ctx, tenantID, limit, offset)
	if err != nil {
		return common.SendServerError(c, "Failed to list invoices")
	}

	return c.JSON(http.StatusOK, map[string]interface{}{
		"invoices": invoices,
		"limit":    limit,
		"offset":   offset,
	})
}

// UploadAttachment stores an uploaded document against the invoice.
func (h *InvoiceHandlers) UploadAttachment(c echo.Context) error {
	ctx := c.Request().Context()

	invoiceID, err := common.ValidateUUID(c.Param("id"), "invoice id")
	if err != nil {
		return common.SendValidationError(c, "id", err.Error())
	}

	tenantID, ok := common.GetTenantIDFromContext(ctx)
	if !ok {
		return common.SendUnauthorizedError(c)
	}

	if _, err := h.invoiceService.GetByID(ctx, tenantID, invoiceID); err != nil {
		return common.SendNotFoundError(c, "Invoice")
	}

	file, err := c.FormFile("file")
	if err != nil {
		return common.SendClientError(c, "A file upload is required")
	}

	src, err := file.Open()
	if err != nil {
		return common.SendServerError(c, "Failed to read uploaded file")
	}
	defer src.Close()

	objectName := "invoices/" + invoiceID.String() + "/" + file.Filename
	contentType := file.Header.Get("Content-Type")
	if err := h.documentService.Upload(ctx, tenantID, objectName, contentType, src, file.Size); err != nil {
		return common.SendServerError(c, "Failed to store attachment")
	}

	return c.JSON(http.StatusCreated, map[string]string{
		"object_name": objectName,
	})
}

// GetAttachmentURL returns a short-lived presigned URL for an attachment.
func (h *InvoiceHandlers) GetAttachmentURL(c echo.Context) error {
	ctx := c.Request().Context()

	invoiceID, err := common.ValidateUUID(c.Param("id"), "invoice id")
	if err != nil {
		return common.SendValidationError(c, "id", err.Error())
	}

	filename := c.Param("filename")
	if filename == "" {
		return common.SendValidationError(c, "filename", "filename is required")
	}

	tenantID, ok := common.GetTenantIDFromContext(ctx)
	if !ok {
		return common.SendUnauthorizedError(c)
	}

	if _, err := h.invoiceService.GetByID(ctx, tenantID, invoiceID); err != nil {
		return common.SendNotFoundError(c, "Invoice")
	}

	objectName := "invoices/" + invoiceID.String() + "/" + filename
	url, err := h.documentService.GetPresignedURL(tenantID, objectName, presignedURLExpiry)
	if err != nil {
		return common.SendServerError(c, "Failed to generate attachment URL")
	}

	return c.JSON(http.StatusOK, map[string]string{
		"url": url,
	})
}
