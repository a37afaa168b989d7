package repositories

import (
	"context"
	"errors"
	"time"

	"tradedesk/internal/models"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
)

type PurchaseOrderRepository interface {
	Create(ctx context.Context, order *models.PurchaseOrder) error
	GetByID(ctx context.Context, tenantID, id uuid.UUID) (*models.PurchaseOrder, error)
	FindLatestDraftBySupplier(ctx context.Context, tenantID, supplierID uuid.UUID) (*models.PurchaseOrder, error)
	AddToTotals(ctx context.Context, tenantID, id uuid.UUID, amountHT, vatRate float64) error
	UpdateStatus(ctx context.Context, tenantID, id uuid.UUID, status string, confirmedAt *time.Time) error
	Delete(ctx context.Context, tenantID, id uuid.UUID) error
	List(ctx context.Context, tenantID uuid.UUID, limit, offset int) ([]*models.PurchaseOrder, error)
	ListByStatus(ctx context.Context, tenantID uuid.UUID, status string, limit, offset int) ([]*models.PurchaseOrder, error)
	ListDraftsOlderThan(ctx context.Context, tenantID uuid.UUID, cutoff time.Time) ([]*models.PurchaseOrder, error)
}

type purchaseOrderRepo struct {
	db Database
}

func NewPurchaseOrderRepo(db Database) PurchaseOrderRepository {
	return &purchaseOrderRepo{db: db}
}

// Create inserts a new purchase order. The purchase_orders table carries a
// partial unique index on (tenant_id, supplier_id) WHERE status = 'draft',
// so a concurrent attempt to open a second draft for the same supplier fails
// with a unique violation rather than producing duplicates.
func (r *purchaseOrderRepo) Create(ctx context.Context, order *models.PurchaseOrder) error {
	query := `
		INSERT INTO purchase_orders (id, tenant_id, order_number, supplier_id, status, total_ht, total_ttc, notes, created_by, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, NOW(), NOW())
	`
	_, err := r.db.Exec(ctx, query, order.ID, order.TenantID, order.OrderNumber, order.SupplierID, order.Status, order.TotalHT, order.TotalTTC, order.Notes, order.CreatedBy)
	return err
}

func (r *purchaseOrderRepo) GetByID(ctx context.Context, tenantID, id uuid.UUID) (*models.PurchaseOrder, error) {
	order := &models.PurchaseOrder{}
	query := `
		SELECT id, tenant_id, order_number, supplier_id, status, total_ht, total_ttc, notes, created_by, confirmed_at, created_at, updated_at
		FROM purchase_orders
		WHERE tenant_id = $1 AND id = $2
	`
	err := r.db.QueryRow(ctx, query, tenantID, id).Scan(&order.ID, &order.TenantID, &order.OrderNumber, &order.SupplierID, &order.Status, &order.TotalHT, &order.TotalTTC, &order.Notes, &order.CreatedBy, &order.ConfirmedAt, &order.CreatedAt, &order.UpdatedAt)
	if err != nil {
		return nil, err
	}
	return order, nil
}

// FindLatestDraftBySupplier returns the most recently created draft order for
// the supplier, or nil when no draft exists. Absence is the common case for a
// new supplier relationship and is not an error.
func (r *purchaseOrderRepo) FindLatestDraftBySupplier(ctx context.Context, tenantID, supplierID uuid.UUID) (*models.PurchaseOrder, error) {
	order := &models.PurchaseOrder{}
	query := `
		SELECT id, tenant_id, order_number, supplier_id, status, total_ht, total_ttc, notes, created_by, confirmed_at, created_at, updated_at
		FROM purchase_orders
		WHERE tenant_id = $1 AND supplier_id = $2 AND status = 'draft'
		ORDER BY created_at DESC
		LIMIT 1
	`
	err := r.db.QueryRow(ctx, query, tenantID, supplierID).Scan(&order.ID, &order.TenantID, &order.OrderNumber, &order.SupplierID, &order.Status, &order.TotalHT, &order.TotalTTC, &order.Notes, &order.CreatedBy, &order.ConfirmedAt, &order.CreatedAt, &order.UpdatedAt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, err
	}
	return order, nil
}

// AddToTotals increments the running totals in a single statement so two
// concurrent appends cannot lose an update to a stale read.
func (r *purchaseOrderRepo) AddToTotals(ctx context.Context, tenantID, id uuid.UUID, amountHT, vatRate float64) error {
	query := `
		UPDATE purchase_orders
		SET total_ht = total_ht + $1, total_ttc = (total_ht + $1) * $2, updated_at = NOW()
		WHERE tenant_id = $3 AND id = $4 AND status = 'draft'
	`
	tag, err := r.db.Exec(ctx, query, amountHT, vatRate, tenantID, id)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return errors.New("draft order not found or no longer mutable")
	}
	return nil
}

func (r *purchaseOrderRepo) UpdateStatus(ctx context.Context, tenantID, id uuid.UUID, status string, confirmedAt *time.Time) error {
	query := `
		UPDATE purchase_orders
		SET status = $1, confirmed_at = $2, updated_at = NOW()
		WHERE tenant_id = $3 AND id = $4
	`
	_, err := r.db.Exec(ctx, query, status, confirmedAt, tenantID, id)
	return err
}

func (r *purchaseOrderRepo) Delete(ctx context.Context, tenantID, id uuid.UUID) error {
	query := `DELETE FROM purchase_orders WHERE tenant_id = $1 AND id = $2`
	_, err := r.db.Exec(ctx, query, tenantID, id)
	return err
}

func (r *purchaseOrderRepo) List(ctx context.Context, tenantID uuid.UUID, limit, offset int) ([]*models.PurchaseOrder, error) {
	query := `
		SELECT id, tenant_id, order_number, supplier_id, status, total_ht, total_ttc, notes, created_by, confirmed_at, created_at, updated_at
		FROM purchase_orders
		WHERE tenant_id = $1
		ORDER BY created_at DESC
		LIMIT $2 OFFSET $3
	`
	rows, err := r.db.Query(ctx, query, tenantID, limit, offset)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	return scanPurchaseOrders(rows)
}

func (r *purchaseOrderRepo) ListByStatus(ctx context.Context, tenantID uuid.UUID, status string, limit, offset int) ([]*models.PurchaseOrder, error) {
	query := `
		SELECT id, tenant_id, order_number, supplier_id, status, total_ht, total_ttc, notes, created_by, confirmed_at, created_at, updated_at
		FROM purchase_orders
		WHERE tenant_id = $1 AND status = $2
		ORDER BY created_at DESC
		LIMIT $3 OFFSET $4
	`
	rows, err := r.db.Query(ctx, query, tenantID, status, limit, offset)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	return scanPurchaseOrders(rows)
}

func (r *purchaseOrderRepo) ListDraftsOlderThan(ctx context.Context, tenantID uuid.UUID, cutoff time.Time) ([]*models.PurchaseOrder, error) {
	query := `
		SELECT id, tenant_id, order_number, supplier_id, status, total_ht, total_ttc, notes, created_by, confirmed_at, created_at, updated_at
		FROM purchase_orders
		WHERE tenant_id = $1 AND status = 'draft' AND updated_at < $2
		ORDER BY updated_at ASC
	`
	rows, err := r.db.Query(ctx, query, tenantID, cutoff)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	return scanPurchaseOrders(rows)
}

func scanPurchaseOrders(rows pgx.Rows) ([]*models.PurchaseOrder, error) {
	var orders []*models.PurchaseOrder
	for rows.Next() {
		order := &models.PurchaseOrder{}
		if err := rows.Scan(&order.ID, &order.TenantID, &order.OrderNumber, &order.SupplierID, &order.Status, &order.TotalHT, &order.TotalTTC, &order.Notes, &order.CreatedBy, &order.ConfirmedAt, &order.CreatedAt, &order.UpdatedAt); err != nil {
			return nil, err
		}
		orders = append(orders, order)
	}
	return orders, nil
}
