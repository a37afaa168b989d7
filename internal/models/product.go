package models

import (
	"time"

	"github.com/google/uuid"
)

// ProductSearchFilter holds search and filter criteria for product queries
type ProductSearchFilter struct {
	Query      string     `json:"query,omitempty"`       // Full-text search across name, reference, description
	SupplierID *uuid.UUID `json:"supplier_id,omitempty"` // Filter by supplier
	MinCost    *float64   `json:"min_cost,omitempty"`    // Minimum unit cost
	MaxCost    *float64   `json:"max_cost,omitempty"`    // Maximum unit cost
	SortBy     string     `json:"sort_by,omitempty"`     // Sort field: name, created_at, cost_price
	SortOrder  string     `json:"sort_order,omitempty"`  // Sort order: asc, desc
	Limit      int        `json:"limit,omitempty"`       // Page size (default: 50)
	Offset     int        `json:"offset,omitempty"`      // Page offset
}

type Product struct {
	ID          uuid.UUID  `json:"id" db:"id"`
	TenantID    uuid.UUID  `json:"tenant_id" db:"tenant_id"`
	SupplierID  *uuid.UUID `json:"supplier_id" db:"supplier_id"`
	Name        string     `json:"name" db:"name"`
	Reference   *string    `json:"reference" db:"reference"`
	CostPrice   float64    `json:"cost_price" db:"cost_price"`
	Description *string    `json:"description" db:"description"`
	CreatedAt   time.Time  `json:"created_at" db:"created_at"`
	UpdatedAt   time.Time  `json:"updated_at" db:"updated_at"`
}
