package repositories

import (
	"context"

	"salepoint/internal/models"

	"github.com/google/uuid"
)

// Order items are created once during order creation and never mutated, so
// the repository has no update or delete.
type OrderItemRepository interface {
	Create(ctx context.Context, item *models.OrderItem) error
	ListByOrderID(ctx context.Context, tenantID, orderID uuid.UUID) ([]*models.OrderItem, error)
}

type orderItemRepo struct {
	db Querier
}

func NewOrderItemRepo(db Querier) OrderItemRepository {
	return &orderItemRepo{db: db}
}

func (r *orderItemRepo) Create(ctx context.Context, item *models.OrderItem) error {
	query := `
		INSERT INTO order_items (id, tenant_id, order_id, product_id, quantity, unit_price_cents, total_cents, created_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, NOW())
	`
	_, err := r.db.Exec(ctx, query, item.ID, item.TenantID, item.OrderID, item.ProductID, item.Quantity, item.UnitPriceCents, item.TotalCents)
	return err
}

func (r *orderItemRepo) ListByOrderID(ctx context.Context, tenantID, orderID uuid.UUID) ([]*models.OrderItem, error) {
	query := `
		SELECT id, tenant_id, order_id, product_id, quantity, unit_price_cents, total_cents, created_at
		FROM order_items
		WHERE tenant_id = $1 AND order_id = $2
		ORDER BY created_at
	`
	rows, err := r.db.Query(ctx, query, tenantID, orderID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var items []*models.OrderItem
	for rows.Next() {
		item := &models.OrderItem{}
		if err := rows.Scan(&item.ID, &item.TenantID, &item.OrderID, &item.ProductID, &item.Quantity, &item.UnitPriceCents, &item.TotalCents, &item.CreatedAt); err != nil {
			return nil, err
		}
		items = append(items, item)
	}
	return items, rows.Err()
}
