package repositories

import (
	"context"
	"errors"
	"fmt"

	"salepoint/internal/common"
	"salepoint/internal/models"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
)

// Orders are written exclusively by the order service; this repository
// exposes only the mutations that service needs.
type OrderRepository interface {
	Create(ctx context.Context, order *models.Order) error
	GetByID(ctx context.Context, tenantID, id uuid.UUID) (*models.Order, error)
	GetByIDForUpdate(ctx context.Context, tenantID, id uuid.UUID) (*models.Order, error)
	UpdateStatus(ctx context.Context, tenantID, id uuid.UUID, status models.OrderStatus) error
	UpdateTotal(ctx context.Context, tenantID, id uuid.UUID, totalCents int64) error
	List(ctx context.Context, tenantID uuid.UUID, limit, offset int) ([]*models.Order, error)
	ListByStatus(ctx context.Context, tenantID uuid.UUID, status models.OrderStatus, limit, offset int) ([]*models.Order, error)
}

type orderRepo struct {
	db Querier
}

func NewOrderRepo(db Querier) OrderRepository {
	return &orderRepo{db: db}
}

const orderColumns = `id, tenant_id, customer_id, order_number, status, total_cents, created_at, updated_at`

func scanOrder(row pgx.Row) (*models.Order, error) {
	order := &models.Order{}
	err := row.Scan(&order.ID, &order.TenantID, &order.CustomerID, &order.OrderNumber, &order.Status, &order.TotalCents, &order.CreatedAt, &order.UpdatedAt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, common.ErrNotFound
		}
		return nil, err
	}
	return order, nil
}

func (r *orderRepo) Create(ctx context.Context, order *models.Order) error {
	query := `
		INSERT INTO orders (id, tenant_id, customer_id, order_number, status, total_cents, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, NOW(), NOW())
	`
	_, err := r.db.Exec(ctx, query, order.ID, order.TenantID, order.CustomerID, order.OrderNumber, order.Status, order.TotalCents)
	if IsUniqueViolation(err) {
		return fmt.Errorf("order number %q: %w", order.OrderNumber, common.ErrConflict)
	}
	return err
}

func (r *orderRepo) GetByID(ctx context.Context, tenantID, id uuid.UUID) (*models.Order, error) {
	query := `
		SELECT ` + orderColumns + `
		FROM orders
		WHERE tenant_id = $1 AND id = $2
	`
	return scanOrder(r.db.QueryRow(ctx, query, tenantID, id))
}

// GetByIDForUpdate locks the order row so concurrent status changes on the
// same order serialize. Must run inside the caller's transaction.
func (r *orderRepo) GetByIDForUpdate(ctx context.Context, tenantID, id uuid.UUID) (*models.Order, error) {
	query := `
		SELECT ` + orderColumns + `
		FROM orders
		WHERE tenant_id = $1 AND id = $2
		FOR UPDATE
	`
	return scanOrder(r.db.QueryRow(ctx, query, tenantID, id))
}

func (r *orderRepo) UpdateStatus(ctx context.Context, tenantID, id uuid.UUID, status models.OrderStatus) error {
	query := `
		UPDATE orders
		SET status = $1, updated_at = NOW()
		WHERE tenant_id = $2 AND id = $3
	`
	tag, err := r.db.Exec(ctx, query, status, tenantID, id)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return common.ErrNotFound
	}
	return nil
}

func (r *orderRepo) UpdateTotal(ctx context.Context, tenantID, id uuid.UUID, totalCents int64) error {
	query := `
		UPDATE orders
		SET total_cents = $1, updated_at = NOW()
		WHERE tenant_id = $2 AND id = $3
	`
	tag, err := r.db.Exec(ctx, query, totalCents, tenantID, id)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return common.ErrNotFound
	}
	return nil
}

func (r *orderRepo) List(ctx context.Context, tenantID uuid.UUID, limit, offset int) ([]*models.Order, error) {
	query := `
		SELECT ` + orderColumns + `
		FROM orders
		WHERE tenant_id = $1
		ORDER BY created_at DESC
		LIMIT $2 OFFSET $3
	`
	rows, err := r.db.Query(ctx, query, tenantID, limit, offset)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	return collectOrders(rows)
}

func (r *orderRepo) ListByStatus(ctx context.Context, tenantID uuid.UUID, status models.OrderStatus, limit, offset int) ([]*models.Order, error) {
	query := `
		SELECT ` + orderColumns + `
		FROM orders
		WHERE tenant_id = $1 AND status = $2
		ORDER BY created_at DESC
		LIMIT $3 OFFSET $4
	`
	rows, err := r.db.Query(ctx, query, tenantID, status, limit, offset)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	return collectOrders(rows)
}

func collectOrders(rows pgx.Rows) ([]*models.Order, error) {
	var orders []*models.Order
	for rows.Next() {
		order := &models.Order{}
		if err := rows.Scan(&order.ID, &order.TenantID, &order.CustomerID, &order.OrderNumber, &order.Status, &order.TotalCents, &order.CreatedAt, &order.UpdatedAt); err != nil {
			return nil, err
		}
		orders = append(orders, order)
	}
	return orders, rows.Err()
}
