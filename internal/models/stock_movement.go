package models

import (
	"time"

	"github.com/google/uuid"
)

// Stock movement types. Movements are immutable history; the workflow only
// ever inserts and counts them.
const (
	MovementTypeIn     = "in"
	MovementTypeOut    = "out"
	MovementTypeAdjust = "adjust"
)

type StockMovement struct {
	ID        uuid.UUID `json:"id" db:"id"`
	TenantID  uuid.UUID `json:"tenant_id" db:"tenant_id"`
	ProductID uuid.UUID `json:"product_id" db:"product_id"`
	Type      string    `json:"type" db:"type"`
	Quantity  int       `json:"quantity" db:"quantity"`
	Reference *string   `json:"reference" db:"reference"`
	Notes     *string   `json:"notes" db:"notes"`
	CreatedBy uuid.UUID `json:"created_by" db:"created_by"`
	CreatedAt time.Time `json:"created_at" db:"created_at"`
}
