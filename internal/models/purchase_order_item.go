package models

import (
	"time"

	"github.com/google/uuid"
)

// Sample tags on a line item. A nil SampleType means a normal stock line.
const (
	SampleTypeInternal = "internal"
	SampleTypeCustomer = "customer"
)

type PurchaseOrderItem struct {
	ID         uuid.UUID `json:"id" db:"id"`
	TenantID   uuid.UUID `json:"tenant_id" db:"tenant_id"`
	OrderID    uuid.UUID `json:"order_id" db:"order_id"`
	ProductID  uuid.UUID `json:"product_id" db:"product_id"`
	Quantity   int       `json:"quantity" db:"quantity"`
	UnitPrice  float64   `json:"unit_price" db:"unit_price"`
	DiscountPc float64   `json:"discount_pc" db:"discount_pc"`
	SampleType *string   `json:"sample_type" db:"sample_type"`
	Notes      *string   `json:"notes" db:"notes"`
	CreatedAt  time.Time `json:"created_at" db:"created_at"`
	UpdatedAt  time.Time `json:"updated_at" db:"updated_at"`
}
