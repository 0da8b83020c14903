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

// ProductRepository is the only access path to products. Every query is
// conjoined with the tenant filter; an id that exists under another tenant
// is reported as ErrNotFound.
type ProductRepository interface {
	Create(ctx context.Context, product *models.Product) error
	GetByID(ctx context.Context, tenantID, id uuid.UUID) (*models.Product, error)
	GetBySKU(ctx context.Context, tenantID uuid.UUID, sku string) (*models.Product, error)
	Update(ctx context.Context, product *models.Product) error
	Delete(ctx context.Context, tenantID, id uuid.UUID) error
	List(ctx context.Context, tenantID uuid.UUID, limit, offset int) ([]*models.Product, error)
	ListLowStock(ctx context.Context, tenantID uuid.UUID) ([]*models.Product, error)

	// GetByIDForUpdate acquires an exclusive row lock on the product for the
	// duration of the surrounding transaction. Callers must run it against a
	// pgx.Tx; outside a transaction the lock is released immediately and
	// provides no protection.
	GetByIDForUpdate(ctx context.Context, tenantID, id uuid.UUID) (*models.Product, error)

	// AdjustStock applies a signed delta to the product's stock. The update
	// is guarded so stock never drops below zero: a decrement that exceeds
	// current stock affects no rows and returns ErrInsufficientStock.
	AdjustStock(ctx context.Context, tenantID, id uuid.UUID, delta int) error
}

type productRepo struct {
	db Querier
}

func NewProductRepo(db Querier) ProductRepository {
	return &productRepo{db: db}
}

const productColumns = `id, tenant_id, sku, name, unit_price_cents, stock_quantity, low_stock_threshold, created_at, updated_at`

func scanProduct(row pgx.Row) (*models.Product, error) {
	product := &models.Product{}
	err := row.Scan(&product.ID, &product.TenantID, &product.SKU, &product.Name, &product.UnitPriceCents, &product.StockQuantity, &product.LowStockThreshold, &product.CreatedAt, &product.UpdatedAt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, common.ErrNotFound
		}
		return nil, err
	}
	return product, nil
}

func (r *productRepo) Create(ctx context.Context, product *models.Product) error {
	query := `
		INSERT INTO products (id, tenant_id, sku, name, unit_price_cents, stock_quantity, low_stock_threshold, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, NOW(), NOW())
	`
	_, err := r.db.Exec(ctx, query, product.ID, product.TenantID, product.SKU, product.Name, product.UnitPriceCents, product.StockQuantity, product.LowStockThreshold)
	if IsUniqueViolation(err) {
		return fmt.Errorf("sku %q: %w", product.SKU, common.ErrConflict)
	}
	return err
}

func (r *productRepo) GetByID(ctx context.Context, tenantID, id uuid.UUID) (*models.Product, error) {
	query := `
		SELECT ` + productColumns + `
		FROM products
		WHERE tenant_id = $1 AND id = $2
	`
	return scanProduct(r.db.QueryRow(ctx, query, tenantID, id))
}

func (r *productRepo) GetBySKU(ctx context.Context, tenantID uuid.UUID, sku string) (*models.Product, error) {
	query := `
		SELECT ` + productColumns + `
		FROM products
		WHERE tenant_id = $1 AND sku = $2
	`
	return scanProduct(r.db.QueryRow(ctx, query, tenantID, sku))
}

func (r *productRepo) GetByIDForUpdate(ctx context.Context, tenantID, id uuid.UUID) (*models.Product, error) {
	query := `
		SELECT ` + productColumns + `
		FROM products
		WHERE tenant_id = $1 AND id = $2
		FOR UPDATE
	`
	return scanProduct(r.db.QueryRow(ctx, query, tenantID, id))
}

func (r *productRepo) Update(ctx context.Context, product *models.Product) error {
	query := `
		UPDATE products
		SET sku = $1, name = $2, unit_price_cents = $3, low_stock_threshold = $4, updated_at = NOW()
		WHERE tenant_id = $5 AND id = $6
	`
	tag, err := r.db.Exec(ctx, query, product.SKU, product.Name, product.UnitPriceCents, product.LowStockThreshold, product.TenantID, product.ID)
	if err != nil {
		if IsUniqueViolation(err) {
			return fmt.Errorf("sku %q: %w", product.SKU, common.ErrConflict)
		}
		return err
	}
	if tag.RowsAffected() == 0 {
		return common.ErrNotFound
	}
	return nil
}

func (r *productRepo) AdjustStock(ctx context.Context, tenantID, id uuid.UUID, delta int) error {
	query := `
		UPDATE products
		SET stock_quantity = stock_quantity + $1, updated_at = NOW()
		WHERE tenant_id = $2 AND id = $3 AND stock_quantity + $1 >= 0
	`
	tag, err := r.db.Exec(ctx, query, delta, tenantID, id)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		// Either the row is gone or the decrement would go negative. The
		// caller holds the row lock, so a preceding locked read tells the
		// two cases apart; re-validating here keeps the invariant even if
		// it doesn't.
		return common.ErrInsufficientStock
	}
	return nil
}

func (r *productRepo) Delete(ctx context.Context, tenantID, id uuid.UUID) error {
	query := `DELETE FROM products WHERE tenant_id = $1 AND id = $2`
	tag, err := r.db.Exec(ctx, query, tenantID, id)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return common.ErrNotFound
	}
	return nil
}

func (r *productRepo) List(ctx context.Context, tenantID uuid.UUID, limit, offset int) ([]*models.Product, error) {
	query := `
		SELECT ` + productColumns + `
		FROM products
		WHERE tenant_id = $1
		ORDER BY created_at DESC
		LIMIT $2 OFFSET $3
	`
	rows, err := r.db.Query(ctx, query, tenantID, limit, offset)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	return collectProducts(rows)
}

func (r *productRepo) ListLowStock(ctx context.Context, tenantID uuid.UUID) ([]*models.Product, error) {
	query := `
		SELECT ` + productColumns + `
		FROM products
		WHERE tenant_id = $1 AND stock_quantity <= low_stock_threshold
		ORDER BY stock_quantity
	`
	rows, err := r.db.Query(ctx, query, tenantID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	return collectProducts(rows)
}

func collectProducts(rows pgx.Rows) ([]*models.Product, error) {
	var products []*models.Product
	for rows.Next() {
		product := &models.Product{}
		if err := rows.Scan(&product.ID, &product.TenantID, &product.SKU, &product.Name, &product.UnitPriceCents, &product.StockQuantity, &product.LowStockThreshold, &product.CreatedAt, &product.UpdatedAt); err != nil {
			return nil, err
		}
		products = append(products, product)
	}
	return products, rows.Err()
}
