package services

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"salepoint/internal/caching"
	"salepoint/internal/common"
	"salepoint/internal/models"
	"salepoint/internal/repositories"
	"salepoint/pkg/logger"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"go.uber.org/zap"
)

// maxOrderNumberAttempts bounds the retry loop on an order number collision.
// Numbers carry 10 chars of a fresh UUID, so a second collision in a row is
// effectively a broken random source.
const maxOrderNumberAttempts = 3

// OrderServiceInterface is the only writer of orders, order items and stock.
// Every mutating operation runs as a single transaction: it either fully
// realizes against inventory or leaves no trace.
type OrderServiceInterface interface {
	CreateOrder(ctx context.Context, tenantID uuid.UUID, req *CreateOrderRequest) (*models.Order, error)
	GetOrderByID(ctx context.Context, tenantID, orderID uuid.UUID) (*models.Order, error)
	ListOrders(ctx context.Context, tenantID uuid.UUID, status *models.OrderStatus, limit, offset int) ([]*models.Order, error)
	CancelOrder(ctx context.Context, tenantID, orderID uuid.UUID) (*models.Order, error)
	UpdateStatus(ctx context.Context, tenantID, orderID uuid.UUID, newStatus models.OrderStatus) (*models.Order, error)
}

// CreateOrderRequest describes one order: a customer and at least one
// (product, quantity) line.
type CreateOrderRequest struct {
	CustomerID uuid.UUID
	Items      []OrderLineRequest
}

type OrderLineRequest struct {
	ProductID uuid.UUID
	Quantity  int
}

type orderService struct {
	db    repositories.Database
	cache caching.CacheService
}

func NewOrderService(db repositories.Database, cache caching.CacheService) OrderServiceInterface {
	return &orderService{db: db, cache: cache}
}

// inTx runs fn inside one transaction, committing on success and rolling
// back on any error.
func (s *orderService) inTx(ctx context.Context, fn func(tx pgx.Tx) error) error {
	tx, err := s.db.Begin(ctx)
	if err != nil {
		return fmt.Errorf("begin transaction: %w", err)
	}
	if err := fn(tx); err != nil {
		_ = tx.Rollback(ctx)
		return err
	}
	return tx.Commit(ctx)
}

func (s *orderService) CreateOrder(ctx context.Context, tenantID uuid.UUID, req *CreateOrderRequest) (*models.Order, error) {
	if tenantID == uuid.Nil {
		return nil, fmt.Errorf("tenant id is required: %w", common.ErrInvalidInput)
	}
	if req == nil || len(req.Items) == 0 {
		return nil, fmt.Errorf("order requires at least one item: %w", common.ErrInvalidInput)
	}
	if req.CustomerID == uuid.Nil {
		return nil, fmt.Errorf("customer id is required: %w", common.ErrInvalidInput)
	}
	for _, line := range req.Items {
		if line.ProductID == uuid.Nil {
			return nil, fmt.Errorf("product id is required: %w", common.ErrInvalidInput)
		}
		if line.Quantity < 1 {
			return nil, fmt.Errorf("quantity must be at least 1: %w", common.ErrInvalidInput)
		}
	}

	var (
		order *models.Order
		err   error
	)
	for attempt := 0; attempt < maxOrderNumberAttempts; attempt++ {
		order, err = s.createOrderOnce(ctx, tenantID, req)
		if err == nil || !errors.Is(err, common.ErrConflict) {
			break
		}
		logger.L().Warn("order number collision, retrying",
			zap.String("tenant_id", tenantID.String()),
			zap.Int("attempt", attempt+1))
	}
	if err != nil {
		return nil, err
	}

	s.invalidateProducts(ctx, tenantID, order.Items)
	return order, nil
}

func (s *orderService) createOrderOnce(ctx context.Context, tenantID uuid.UUID, req *CreateOrderRequest) (*models.Order, error) {
	var order *models.Order
	err := s.inTx(ctx, func(tx pgx.Tx) error {
		orders := repositories.NewOrderRepo(tx)
		items := repositories.NewOrderItemRepo(tx)
		products := repositories.NewProductRepo(tx)
		customers := repositories.NewCustomerRepo(tx)

		customer, err := customers.GetByID(ctx, tenantID, req.CustomerID)
		if err != nil {
			return fmt.Errorf("customer %s: %w", req.CustomerID, err)
		}

		order = &models.Order{
			ID:          uuid.New(),
			TenantID:    tenantID,
			CustomerID:  customer.ID,
			OrderNumber: newOrderNumber(time.Now()),
			Status:      models.OrderStatusPending,
			TotalCents:  0,
		}
		if err := orders.Create(ctx, order); err != nil {
			return err
		}

		// Lines are processed in the order supplied. Each product row stays
		// exclusively locked until commit, so a concurrent order for the
		// same product waits and then re-reads post-commit stock.
		var total int64
		for _, line := range req.Items {
			product, err := products.GetByIDForUpdate(ctx, tenantID, line.ProductID)
			if err != nil {
				return fmt.Errorf("product %s: %w", line.ProductID, err)
			}
			if product.StockQuantity < line.Quantity {
				return fmt.Errorf("product %s: requested %d, available %d: %w",
					product.ID, line.Quantity, product.StockQuantity, common.ErrInsufficientStock)
			}
			if err := products.AdjustStock(ctx, tenantID, product.ID, -line.Quantity); err != nil {
				return fmt.Errorf("product %s: %w", product.ID, err)
			}

			item := &models.OrderItem{
				ID:             uuid.New(),
				TenantID:       tenantID,
				OrderID:        order.ID,
				ProductID:      product.ID,
				Quantity:       line.Quantity,
				UnitPriceCents: product.UnitPriceCents,
				TotalCents:     int64(line.Quantity) * product.UnitPriceCents,
			}
			if err := items.Create(ctx, item); err != nil {
				return err
			}
			order.Items = append(order.Items, item)
			total += item.TotalCents
		}

		if err := orders.UpdateTotal(ctx, tenantID, order.ID, total); err != nil {
			return err
		}
		order.TotalCents = total
		order.Customer = customer
		return nil
	})
	if err != nil {
		return nil, err
	}
	return order, nil
}

func (s *orderService) GetOrderByID(ctx context.Context, tenantID, orderID uuid.UUID) (*models.Order, error) {
	orders := repositories.NewOrderRepo(s.db)
	order, err := orders.GetByID(ctx, tenantID, orderID)
	if err != nil {
		return nil, err
	}
	if err := s.attach(ctx, order); err != nil {
		return nil, err
	}
	return order, nil
}

func (s *orderService) ListOrders(ctx context.Context, tenantID uuid.UUID, status *models.OrderStatus, limit, offset int) ([]*models.Order, error) {
	limit, offset = common.ValidatePaginationParams(limit, offset)
	orders := repositories.NewOrderRepo(s.db)
	if status != nil {
		return orders.ListByStatus(ctx, tenantID, *status, limit, offset)
	}
	return orders.List(ctx, tenantID, limit, offset)
}

func (s *orderService) CancelOrder(ctx context.Context, tenantID, orderID uuid.UUID) (*models.Order, error) {
	var order *models.Order
	err := s.inTx(ctx, func(tx pgx.Tx) error {
		orders := repositories.NewOrderRepo(tx)
		items := repositories.NewOrderItemRepo(tx)
		products := repositories.NewProductRepo(tx)
		customers := repositories.NewCustomerRepo(tx)

		var err error
		order, err = orders.GetByIDForUpdate(ctx, tenantID, orderID)
		if err != nil {
			return fmt.Errorf("order %s: %w", orderID, err)
		}
		if order.Status == models.OrderStatusCancelled {
			return fmt.Errorf("order %s is already cancelled: %w", orderID, common.ErrInvalidTransition)
		}

		order.Items, err = items.ListByOrderID(ctx, tenantID, orderID)
		if err != nil {
			return err
		}

		// Compensating release: return every line's quantity to stock. A
		// product deleted since the order was placed is tolerated silently;
		// there is nothing left to compensate.
		for _, item := range order.Items {
			if _, err := products.GetByIDForUpdate(ctx, tenantID, item.ProductID); err != nil {
				if errors.Is(err, common.ErrNotFound) {
					continue
				}
				return fmt.Errorf("product %s: %w", item.ProductID, err)
			}
			if err := products.AdjustStock(ctx, tenantID, item.ProductID, item.Quantity); err != nil {
				return fmt.Errorf("product %s: %w", item.ProductID, err)
			}
		}

		if err := orders.UpdateStatus(ctx, tenantID, orderID, models.OrderStatusCancelled); err != nil {
			return err
		}
		order.Status = models.OrderStatusCancelled

		order.Customer, err = customers.GetByID(ctx, tenantID, order.CustomerID)
		if err != nil && !errors.Is(err, common.ErrNotFound) {
			return err
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	s.invalidateProducts(ctx, tenantID, order.Items)
	return order, nil
}

func (s *orderService) UpdateStatus(ctx context.Context, tenantID, orderID uuid.UUID, newStatus models.OrderStatus) (*models.Order, error) {
	if !newStatus.Valid() {
		return nil, fmt.Errorf("status %q: %w", newStatus, common.ErrInvalidInput)
	}
	// Cancellation always goes through CancelOrder so stock compensation
	// happens regardless of the entry point.
	if newStatus == models.OrderStatusCancelled {
		return s.CancelOrder(ctx, tenantID, orderID)
	}

	var order *models.Order
	err := s.inTx(ctx, func(tx pgx.Tx) error {
		orders := repositories.NewOrderRepo(tx)

		var err error
		order, err = orders.GetByIDForUpdate(ctx, tenantID, orderID)
		if err != nil {
			return fmt.Errorf("order %s: %w", orderID, err)
		}
		if !order.Status.CanTransitionTo(newStatus) {
			return fmt.Errorf("order %s: %s -> %s: %w", orderID, order.Status, newStatus, common.ErrInvalidTransition)
		}
		if err := orders.UpdateStatus(ctx, tenantID, orderID, newStatus); err != nil {
			return err
		}
		order.Status = newStatus
		return nil
	})
	if err != nil {
		return nil, err
	}
	return order, nil
}

// attach loads the order's items and customer for read responses.
func (s *orderService) attach(ctx context.Context, order *models.Order) error {
	items := repositories.NewOrderItemRepo(s.db)
	customers := repositories.NewCustomerRepo(s.db)

	var err error
	order.Items, err = items.ListByOrderID(ctx, order.TenantID, order.ID)
	if err != nil {
		return err
	}
	order.Customer, err = customers.GetByID(ctx, order.TenantID, order.CustomerID)
	if err != nil && !errors.Is(err, common.ErrNotFound) {
		return err
	}
	return nil
}

// invalidateProducts drops cached product entries whose stock changed in a
// committed transaction. Best effort; a stale cache entry only affects
// catalog reads, never the ledger.
func (s *orderService) invalidateProducts(ctx context.Context, tenantID uuid.UUID, items []*models.OrderItem) {
	for _, item := range items {
		if err := s.cache.DeleteProduct(ctx, tenantID, item.ProductID); err != nil {
			logger.L().Warn("product cache invalidation failed",
				zap.String("tenant_id", tenantID.String()),
				zap.String("product_id", item.ProductID.String()),
				zap.Error(err))
		}
	}
}

// newOrderNumber builds a human-referenceable, globally unique order number.
// Uniqueness is enforced by the orders.order_number index; CreateOrder
// retries on the (vanishingly rare) collision.
func newOrderNumber(now time.Time) string {
	suffix := strings.ToUpper(strings.ReplaceAll(uuid.NewString(), "-", ""))[:10]
	return fmt.Sprintf("SO-%s-%s", now.Format("20060102"), suffix)
}
