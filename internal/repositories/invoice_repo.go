package repositories

import (
	"context"
	"errors"

	"tradedesk/internal/models"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
)

type InvoiceRepository interface {
	Create(ctx context.Context, invoice *models.Invoice) error
	GetByID(ctx context.Context, tenantID, id uuid.UUID) (*models.Invoice, error)
	GetByOrderID(ctx context.Context, tenantID, orderID uuid.UUID) (*models.Invoice, error)
	UpdateStatus(ctx context.Context, tenantID, id uuid.UUID, status string) error
	List(ctx context.Context, tenantID uuid.UUID, limit, offset int) ([]*models.Invoice, error)
	ListUnpaid(ctx context.Context, tenantID uuid.UUID, limit, offset int) ([]*models.Invoice, error)
}

type invoiceRepo struct {
	db Database
}

func NewInvoiceRepo(db Database) InvoiceRepository {
	return &invoiceRepo{db: db}
}

func (r *invoiceRepo) Create(ctx context.Context, invoice *models.Invoice) error {
	query := `
		INSERT INTO invoices (id, tenant_id, order_id, invoice_number, total_ht, total_ttc, status, due_date, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, NOW(), NOW())
	`
	_, err := r.db.Exec(ctx, query, invoice.ID, invoice.TenantID, invoice.OrderID, invoice.InvoiceNumber, invoice.TotalHT, invoice.TotalTTC, invoice.Status, invoice.DueDate)
	return err
}

func (r *invoiceRepo) GetByID(ctx context.Context, tenantID, id uuid.UUID) (*models.Invoice, error) {
	invoice := &models.Invoice{}
	query := `
		SELECT id, tenant_id, order_id, invoice_number, total_ht, total_ttc, status, due_date, paid_at, created_at, updated_at
		FROM invoices
		WHERE tenant_id = $1 AND id = $2
	`
	err := r.db.QueryRow(ctx, query, tenantID, id).Scan(&invoice.ID, &invoice.TenantID, &invoice.OrderID, &invoice.InvoiceNumber, &invoice.TotalHT, &invoice.TotalTTC, &invoice.Status, &invoice.DueDate, &invoice.PaidAt, &invoice.CreatedAt, &invoice.UpdatedAt)
	if err != nil {
		return nil, err
	}
	return invoice, nil
}

func (r *invoiceRepo) GetByOrderID(ctx context.Context, tenantID, orderID uuid.UUID) (*models.Invoice, error) {
	invoice := &models.Invoice{}
	query := `
		SELECT id, tenant_id, order_id, invoice_number, total_ht, total_ttc, status, due_date, paid_at, created_at, updated_at
		FROM invoices
		WHERE tenant_id = $1 AND order_id = $2
	`
	err := r.db.QueryRow(ctx, query, tenantID, orderID).Scan(&invoice.ID, &invoice.TenantID, &invoice.OrderID, &invoice.InvoiceNumber, &invoice.TotalHT, &invoice.TotalTTC, &invoice.Status, &invoice.DueDate, &invoice.PaidAt, &invoice.CreatedAt, &invoice.UpdatedAt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, err
	}
	return invoice, nil
}

func (r *invoiceRepo) UpdateStatus(ctx context.Context, tenantID, id uuid.UUID, status string) error {
	query := `
		UPDATE invoices
		SET status = $1, paid_at = CASE WHEN $1 = 'paid' THEN NOW() ELSE paid_at END, updated_at = NOW()
		WHERE tenant_id = $2 AND id = $3
	`
	_, err := r.db.Exec(ctx, query, status, tenantID, id)
	return err
}

func (r *invoiceRepo) List(ctx context.Context, tenantID uuid.UUID, limit, offset int) ([]*models.Invoice, error) {
	query := `
		SELECT id, tenant_id, order_id, invoice_number, total_ht, total_ttc, status, due_date, paid_at, created_at, updated_at
		FROM invoices
		WHERE tenant_id = $1
		ORDER BY created_at DESC
		LIMIT $2 OFFSET $3
	`
	rows, err := r.db.Query(ctx, query, tenantID, limit, offset)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	return scanInvoices(rows)
}

func (r *invoiceRepo) ListUnpaid(ctx context.Context, tenantID uuid.UUID, limit, offset int) ([]*models.Invoice, error) {
	query := `
		SELECT id, tenant_id, order_id, invoice_number, total_ht, total_ttc, status, due_date, paid_at, created_at, updated_at
		FROM invoices
		WHERE tenant_id = $1 AND status IN ('unpaid', 'overdue')
		ORDER BY due_date ASC NULLS LAST
		LIMIT $2 OFFSET $3
	`
	rows, err := r.db.Query(ctx, query, tenantID, limit, offset)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	return scanInvoices(rows)
}

func scanInvoices(rows pgx.Rows) ([]*models.Invoice, error) {
	var invoices []*models.Invoice
	for rows.Next() {
		invoice := &models.Invoice{}
		if err := rows.Scan(&invoice.ID, &invoice.TenantID, &invoice.OrderID, &invoice.InvoiceNumber, &invoice.TotalHT, &invoice.TotalTTC, &invoice.Status, &invoice.DueDate, &invoice.PaidAt, &invoice.CreatedAt, &invoice.UpdatedAt); err != nil {
			return nil, err
		}
		invoices = append(invoices, invoice)
	}
	return invoices, nil
}
