package models

import (
	"time"

	"github.com/google/uuid"
)

// Purchase order statuses. Only draft orders are mutable; confirmation and
// cancellation are one-way transitions.
const (
	OrderStatusDraft     = "draft"
	OrderStatusConfirmed = "confirmed"
	OrderStatusCancelled = "cancelled"
)

type PurchaseOrder struct {
	ID          uuid.UUID  `json:"id" db:"id"`
	TenantID    uuid.UUID  `json:"tenant_id" db:"tenant_id"`
	OrderNumber string     `json:"order_number" db:"order_number"`
	SupplierID  uuid.UUID  `json:"supplier_id" db:"supplier_id"`
	Status      string     `json:"status" db:"status"`
	TotalHT     float64    `json:"total_ht" db:"total_ht"`
	TotalTTC    float64    `json:"total_ttc" db:"total_ttc"`
	Notes       *string    `json:"notes" db:"notes"`
	CreatedBy   uuid.UUID  `json:"created_by" db:"created_by"`
	ConfirmedAt *time.Time `json:"confirmed_at" db:"confirmed_at"`
	CreatedAt   time.Time  `json:"created_at" db:"created_at"`
	UpdatedAt   time.Time  `json:"updated_at" db:"updated_at"`
}

// PurchaseOrderWithItems bundles an order with its line items for read paths
type PurchaseOrderWithItems struct {
	Order *PurchaseOrder       `json:"order"`
	Items []*PurchaseOrderItem `json:"items"`
}
