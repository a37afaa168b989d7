package repositories

import (
	"context"

	"tradedesk/internal/models"

	"github.com/google/uuid"
)

type PurchaseOrderItemRepository interface {
	Create(ctx context.Context, item *models.PurchaseOrderItem) error
	GetByID(ctx context.Context, tenantID, id uuid.UUID) (*models.PurchaseOrderItem, error)
	ListByOrderID(ctx context.Context, tenantID, orderID uuid.UUID) ([]*models.PurchaseOrderItem, error)
	CountNonSampleByProduct(ctx context.Context, tenantID, productID uuid.UUID) (int64, error)
	Delete(ctx context.Context, tenantID, id uuid.UUID) error
}

type purchaseOrderItemRepo struct {
	db Database
}

func NewPurchaseOrderItemRepo(db Database) PurchaseOrderItemRepository {
	return &purchaseOrderItemRepo{db: db}
}

func (r *purchaseOrderItemRepo) Create(ctx context.Context, item *models.PurchaseOrderItem) error {
	query := `
		INSERT INTO purchase_order_items (id, tenant_id, order_id, product_id, quantity, unit_price, discount_pc, sample_type, notes, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, NOW(), NOW())
	`
	_, err := r.db.Exec(ctx, query, item.ID, item.TenantID, item.OrderID, item.ProductID, item.Quantity, item.UnitPrice, item.DiscountPc, item.SampleType, item.Notes)
	return err
}

func (r *purchaseOrderItemRepo) GetByID(ctx context.Context, tenantID, id uuid.UUID) (*models.PurchaseOrderItem, error) {
	item := &models.PurchaseOrderItem{}
	query := `
		SELECT id, tenant_id, order_id, product_id, quantity, unit_price, discount_pc, sample_type, notes, created_at, updated_at
		FROM purchase_order_items
		WHERE tenant_id = $1 AND id = $2
	`
	err := r.db.QueryRow(ctx, query, tenantID, id).Scan(&item.ID, &item.TenantID, &item.OrderID, &item.ProductID, &item.Quantity, &item.UnitPrice, &item.DiscountPc, &item.SampleType, &item.Notes, &item.CreatedAt, &item.UpdatedAt)
	if err != nil {
		return nil, err
	}
	return item, nil
}

func (r *purchaseOrderItemRepo) ListByOrderID(ctx context.Context, tenantID, orderID uuid.UUID) ([]*models.PurchaseOrderItem, error) {
	query := `
		SELECT id, tenant_id, order_id, product_id, quantity, unit_price, discount_pc, sample_type, notes, created_at, updated_at
		FROM purchase_order_items
		WHERE tenant_id = $1 AND order_id = $2
		ORDER BY created_at ASC
	`
	rows, err := r.db.Query(ctx, query, tenantID, orderID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var items []*models.PurchaseOrderItem
	for rows.Next() {
		item := &models.PurchaseOrderItem{}
		if err := rows.Scan(&item.ID, &item.TenantID, &item.OrderID, &item.ProductID, &item.Quantity, &item.UnitPrice, &item.DiscountPc, &item.SampleType, &item.Notes, &item.CreatedAt, &item.UpdatedAt); err != nil {
			return nil, err
		}
		items = append(items, item)
	}
	return items, nil
}

// CountNonSampleByProduct counts line items for the product that are NOT
// tagged as samples. This is the purchase-history half of the eligibility
// decision: any non-sample line means the product has entered commercial
// circulation.
func (r *purchaseOrderItemRepo) CountNonSampleByProduct(ctx context.Context, tenantID, productID uuid.UUID) (int64, error) {
	var count int64
	query := `
		SELECT COUNT(*)
		FROM purchase_order_items
		WHERE tenant_id = $1 AND product_id = $2 AND sample_type IS NULL
	`
	err := r.db.QueryRow(ctx, query, tenantID, productID).Scan(&count)
	if err != nil {
		return 0, err
	}
	return count, nil
}

func (r *purchaseOrderItemRepo) Delete(ctx context.Context, tenantID, id uuid.UUID) error {
	query := `DELETE FROM purchase_order_items WHERE tenant_id = $1 AND id = $2`
	_, err := r.db.Exec(ctx, query, tenantID, id)
	return err
}
