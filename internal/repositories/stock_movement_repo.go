package repositories

import (
	"context"

	"tradedesk/internal/models"

	"github.com/google/uuid"
)

type StockMovementRepository interface {
	Create(ctx context.Context, movement *models.StockMovement) error
	CountByProduct(ctx context.Context, tenantID, productID uuid.UUID) (int64, error)
	ListByProduct(ctx context.Context, tenantID, productID uuid.UUID, limit, offset int) ([]*models.StockMovement, error)
	List(ctx context.Context, tenantID uuid.UUID, limit, offset int) ([]*models.StockMovement, error)
}

type stockMovementRepo struct {
	db Database
}

func NewStockMovementRepo(db Database) StockMovementRepository {
	return &stockMovementRepo{db: db}
}

// Create appends a movement record. Movements are never updated or deleted;
// the table is an append-only history.
func (r *stockMovementRepo) Create(ctx context.Context, movement *models.StockMovement) error {
	query := `
		INSERT INTO stock_movements (id, tenant_id, product_id, type, quantity, reference, notes, created_by, created_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, NOW())
	`
	_, err := r.db.Exec(ctx, query, movement.ID, movement.TenantID, movement.ProductID, movement.Type, movement.Quantity, movement.Reference, movement.Notes, movement.CreatedBy)
	return err
}

func (r *stockMovementRepo) CountByProduct(ctx context.Context, tenantID, productID uuid.UUID) (int64, error) {
	var count int64
	query := `
		SELECT COUNT(*)
		FROM stock_movements
		WHERE tenant_id = $1 AND product_id = $2
	`
	err := r.db.QueryRow(ctx, query, tenantID, productID).Scan(&count)
	if err != nil {
		return 0, err
	}
	return count, nil
}

func (r *stockMovementRepo) ListByProduct(ctx context.Context, tenantID, productID uuid.UUID, limit, offset int) ([]*models.StockMovement, error) {
	query := `
		SELECT id, tenant_id, product_id, type, quantity, reference, notes, created_by, created_at
		FROM stock_movements
		WHERE tenant_id = $1 AND product_id = $2
		ORDER BY created_at DESC
		LIMIT $3 OFFSET $4
	`
	rows, err := r.db.Query(ctx, query, tenantID, productID, limit, offset)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var movements []*models.StockMovement
	for rows.Next() {
		movement := &models.StockMovement{}
		if err := rows.Scan(&movement.ID, &movement.TenantID, &movement.ProductID, &movement.Type, &movement.Quantity, &movement.Reference, &movement.Notes, &movement.CreatedBy, &movement.CreatedAt); err != nil {
			return nil, err
		}
		movements = append(movements, movement)
	}
	return movements, nil
}

func (r *stockMovementRepo) List(ctx context.Context, tenantID uuid.UUID, limit, offset int) ([]*models.StockMovement, error) {
	query := `
		SELECT id, tenant_id, product_id, type, quantity, reference, notes, created_by, created_at
		FROM stock_movements
		WHERE tenant_id = $1
		ORDER BY created_at DESC
		LIMIT $2 OFFSET $3
	`
	rows, err := r.db.Query(ctx, query, tenantID, limit, offset)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var movements []*models.StockMovement
	for rows.Next() {
		movement := &models.StockMovement{}
		if err := rows.Scan(&movement.ID, &movement.TenantID, &movement.ProductID, &movement.Type, &movement.Quantity, &movement.Reference, &movement.Notes, &movement.CreatedBy, &movement.CreatedAt); err != nil {
			return nil, err
		}
		movements = append(movements, movement)
	}
	return movements, nil
}
