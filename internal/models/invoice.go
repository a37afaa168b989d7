package models

import (
	"time"

	"github.com/google/uuid"
)

const (
	InvoiceStatusUnpaid  = "unpaid"
	InvoiceStatusPaid    = "paid"
	InvoiceStatusOverdue = "overdue"
)

type Invoice struct {
	ID            uuid.UUID  `json:"id" db:"id"`
	TenantID      uuid.UUID  `json:"tenant_id" db:"tenant_id"`
	OrderID       uuid.UUID  `json:"order_id" db:"order_id"`
	InvoiceNumber string     `json:"invoice_number" db:"invoice_number"`
	TotalHT       float64    `json:"total_ht" db:"total_ht"`
	TotalTTC      float64    `json:"total_ttc" db:"total_ttc"`
	Status        string     `json:"status" db:"status"`
	DueDate       *time.Time `json:"due_date" db:"due_date"`
	PaidAt        *time.Time `json:"paid_at" db:"paid_at"`
	CreatedAt     time.Time  `json:"created_at" db:"created_at"`
	UpdatedAt     time.Time  `json:"updated_at" db:"updated_at"`
}
