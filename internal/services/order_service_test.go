package services

import (
	"context"
	"testing"
	"time"

	"salepoint/internal/common"
	"salepoint/internal/models"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	pgxmock "github.com/pashagolub/pgxmock/v4"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/suite"
)

type MockCacheService struct {
	mock.Mock
}

func (m *MockCacheService) GetProduct(ctx context.Context, tenantID, productID uuid.UUID) (*models.Product, error) {
	args := m.Called(ctx, tenantID, productID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.Product), args.Error(1)
}

func (m *MockCacheService) SetProduct(ctx context.Context, product *models.Product, ttl time.Duration) error {
	args := m.Called(ctx, product, ttl)
	return args.Error(0)
}

func (m *MockCacheService) DeleteProduct(ctx context.Context, tenantID, productID uuid.UUID) error {
	args := m.Called(ctx, tenantID, productID)
	return args.Error(0)
}

func (m *MockCacheService) InvalidateTenant(ctx context.Context, tenantID uuid.UUID) error {
	args := m.Called(ctx, tenantID)
	return args.Error(0)
}

type OrderServiceTestSuite struct {
	suite.Suite
	mock       pgxmock.PgxPoolIface
	cache      *MockCacheService
	service    OrderServiceInterface
	ctx        context.Context
	tenantID   uuid.UUID
	customerID uuid.UUID
	productID  uuid.UUID
	orderID    uuid.UUID
}

func (suite *OrderServiceTestSuite) SetupTest() {
	mockPool, err := pgxmock.NewPool()
	assert.NoError(suite.T(), err)
	suite.mock = mockPool
	suite.cache = &MockCacheService{}
	suite.cache.Test(suite.T())
	suite.service = NewOrderService(mockPool, suite.cache)
	suite.ctx = context.Background()
	suite.tenantID = uuid.New()
	suite.customerID = uuid.New()
	suite.productID = uuid.New()
	suite.orderID = uuid.New()
}

func (suite *OrderServiceTestSuite) TearDownTest() {
	assert.NoError(suite.T(), suite.mock.ExpectationsWereMet())
	suite.cache.AssertExpectations(suite.T())
	suite.mock.Close()
}

func TestOrderServiceTestSuite(t *testing.T) {
	suite.Run(t, new(OrderServiceTestSuite))
}

func (suite *OrderServiceTestSuite) customerRows() *pgxmock.Rows {
	now := time.Now()
	return pgxmock.NewRows([]string{"id", "tenant_id", "name", "email", "phone", "created_at", "updated_at"}).
		AddRow(suite.customerID, suite.tenantID, "Ada Lovelace", nil, nil, now, now)
}

func (suite *OrderServiceTestSuite) productRows(stock int, priceCents int64) *pgxmock.Rows {
	now := time.Now()
	return pgxmock.NewRows([]string{"id", "tenant_id", "sku", "name", "unit_price_cents", "stock_quantity", "low_stock_threshold", "created_at", "updated_at"}).
		AddRow(suite.productID, suite.tenantID, "ABC", "Widget", priceCents, stock, 2, now, now)
}

func (suite *OrderServiceTestSuite) orderRows(status models.OrderStatus, totalCents int64) *pgxmock.Rows {
	now := time.Now()
	return pgxmock.NewRows([]string{"id", "tenant_id", "customer_id", "order_number", "status", "total_cents", "created_at", "updated_at"}).
		AddRow(suite.orderID, suite.tenantID, suite.customerID, "SO-20260101-ABCDEF1234", status, totalCents, now, now)
}

func (suite *OrderServiceTestSuite) TestCreateOrder_Success() {
	suite.mock.ExpectBegin()
	suite.mock.ExpectQuery(`SELECT (.+) FROM customers WHERE tenant_id = \$1 AND id = \$2`).
		WithArgs(suite.tenantID, suite.customerID).
		WillReturnRows(suite.customerRows())
	suite.mock.ExpectExec(`INSERT INTO orders`).
		WithArgs(pgxmock.AnyArg(), suite.tenantID, suite.customerID, pgxmock.AnyArg(), models.OrderStatusPending, int64(0)).
		WillReturnResult(pgxmock.NewResult("INSERT", 1))
	suite.mock.ExpectQuery(`SELECT (.+) FROM products WHERE tenant_id = \$1 AND id = \$2 FOR UPDATE`).
		WithArgs(suite.tenantID, suite.productID).
		WillReturnRows(suite.productRows(5, 1000))
	suite.mock.ExpectExec(`UPDATE products SET stock_quantity = stock_quantity \+ \$1`).
		WithArgs(-3, suite.tenantID, suite.productID).
		WillReturnResult(pgxmock.NewResult("UPDATE", 1))
	suite.mock.ExpectExec(`INSERT INTO order_items`).
		WithArgs(pgxmock.AnyArg(), suite.tenantID, pgxmock.AnyArg(), suite.productID, 3, int64(1000), int64(3000)).
		WillReturnResult(pgxmock.NewResult("INSERT", 1))
	suite.mock.ExpectExec(`UPDATE orders SET total_cents = \$1`).
		WithArgs(int64(3000), suite.tenantID, pgxmock.AnyArg()).
		WillReturnResult(pgxmock.NewResult("UPDATE", 1))
	suite.mock.ExpectCommit()

	suite.cache.On("DeleteProduct", suite.ctx, suite.tenantID, suite.productID).Return(nil)

	order, err := suite.service.CreateOrder(suite.ctx, suite.tenantID, &CreateOrderRequest{
		CustomerID: suite.customerID,
		Items:      []OrderLineRequest{{ProductID: suite.productID, Quantity: 3}},
	})

	assert.NoError(suite.T(), err)
	assert.Equal(suite.T(), models.OrderStatusPending, order.Status)
	assert.Equal(suite.T(), int64(3000), order.TotalCents)
	assert.Len(suite.T(), order.Items, 1)
	assert.Equal(suite.T(), int64(1000), order.Items[0].UnitPriceCents)
	assert.NotNil(suite.T(), order.Customer)
	assert.NotEmpty(suite.T(), order.OrderNumber)
}

func (suite *OrderServiceTestSuite) TestCreateOrder_InsufficientStockRollsBack() {
	suite.mock.ExpectBegin()
	suite.mock.ExpectQuery(`SELECT (.+) FROM customers WHERE tenant_id = \$1 AND id = \$2`).
		WithArgs(suite.tenantID, suite.customerID).
		WillReturnRows(suite.customerRows())
	suite.mock.ExpectExec(`INSERT INTO orders`).
		WithArgs(pgxmock.AnyArg(), suite.tenantID, suite.customerID, pgxmock.AnyArg(), models.OrderStatusPending, int64(0)).
		WillReturnResult(pgxmock.NewResult("INSERT", 1))
	suite.mock.ExpectQuery(`SELECT (.+) FROM products WHERE tenant_id = \$1 AND id = \$2 FOR UPDATE`).
		WithArgs(suite.tenantID, suite.productID).
		WillReturnRows(suite.productRows(2, 1000))
	suite.mock.ExpectRollback()

	order, err := suite.service.CreateOrder(suite.ctx, suite.tenantID, &CreateOrderRequest{
		CustomerID: suite.customerID,
		Items:      []OrderLineRequest{{ProductID: suite.productID, Quantity: 3}},
	})

	assert.Nil(suite.T(), order)
	assert.ErrorIs(suite.T(), err, common.ErrInsufficientStock)
}

func (suite *OrderServiceTestSuite) TestCreateOrder_PartialFailureRollsBackEverything() {
	secondProductID := uuid.New()
	now := time.Now()

	suite.mock.ExpectBegin()
	suite.mock.ExpectQuery(`SELECT (.+) FROM customers WHERE tenant_id = \$1 AND id = \$2`).
		WithArgs(suite.tenantID, suite.customerID).
		WillReturnRows(suite.customerRows())
	suite.mock.ExpectExec(`INSERT INTO orders`).
		WithArgs(pgxmock.AnyArg(), suite.tenantID, suite.customerID, pgxmock.AnyArg(), models.OrderStatusPending, int64(0)).
		WillReturnResult(pgxmock.NewResult("INSERT", 1))
	// First line succeeds and stages a decrement.
	suite.mock.ExpectQuery(`SELECT (.+) FROM products WHERE tenant_id = \$1 AND id = \$2 FOR UPDATE`).
		WithArgs(suite.tenantID, suite.productID).
		WillReturnRows(suite.productRows(5, 1000))
	suite.mock.ExpectExec(`UPDATE products SET stock_quantity = stock_quantity \+ \$1`).
		WithArgs(-2, suite.tenantID, suite.productID).
		WillReturnResult(pgxmock.NewResult("UPDATE", 1))
	suite.mock.ExpectExec(`INSERT INTO order_items`).
		WithArgs(pgxmock.AnyArg(), suite.tenantID, pgxmock.AnyArg(), suite.productID, 2, int64(1000), int64(2000)).
		WillReturnResult(pgxmock.NewResult("INSERT", 1))
	// Second line exceeds stock; the whole unit of work rolls back.
	suite.mock.ExpectQuery(`SELECT (.+) FROM products WHERE tenant_id = \$1 AND id = \$2 FOR UPDATE`).
		WithArgs(suite.tenantID, secondProductID).
		WillReturnRows(pgxmock.NewRows([]string{"id", "tenant_id", "sku", "name", "unit_price_cents", "stock_quantity", "low_stock_threshold", "created_at", "updated_at"}).
			AddRow(secondProductID, suite.tenantID, "DEF", "Gadget", int64(500), 1, 2, now, now))
	suite.mock.ExpectRollback()

	order, err := suite.service.CreateOrder(suite.ctx, suite.tenantID, &CreateOrderRequest{
		CustomerID: suite.customerID,
		Items: []OrderLineRequest{
			{ProductID: suite.productID, Quantity: 2},
			{ProductID: secondProductID, Quantity: 5},
		},
	})

	assert.Nil(suite.T(), order)
	assert.ErrorIs(suite.T(), err, common.ErrInsufficientStock)
}

func (suite *OrderServiceTestSuite) TestCreateOrder_UnknownCustomerIsNotFound() {
	suite.mock.ExpectBegin()
	suite.mock.ExpectQuery(`SELECT (.+) FROM customers WHERE tenant_id = \$1 AND id = \$2`).
		WithArgs(suite.tenantID, suite.customerID).
		WillReturnError(pgx.ErrNoRows)
	suite.mock.ExpectRollback()

	order, err := suite.service.CreateOrder(suite.ctx, suite.tenantID, &CreateOrderRequest{
		CustomerID: suite.customerID,
		Items:      []OrderLineRequest{{ProductID: suite.productID, Quantity: 1}},
	})

	assert.Nil(suite.T(), order)
	assert.ErrorIs(suite.T(), err, common.ErrNotFound)
}

func (suite *OrderServiceTestSuite) TestCreateOrder_EmptyItemsRejectedBeforeAnySQL() {
	order, err := suite.service.CreateOrder(suite.ctx, suite.tenantID, &CreateOrderRequest{
		CustomerID: suite.customerID,
		Items:      nil,
	})

	assert.Nil(suite.T(), order)
	assert.ErrorIs(suite.T(), err, common.ErrInvalidInput)
}

func (suite *OrderServiceTestSuite) TestCreateOrder_ZeroQuantityRejected() {
	order, err := suite.service.CreateOrder(suite.ctx, suite.tenantID, &CreateOrderRequest{
		CustomerID: suite.customerID,
		Items:      []OrderLineRequest{{ProductID: suite.productID, Quantity: 0}},
	})

	assert.Nil(suite.T(), order)
	assert.ErrorIs(suite.T(), err, common.ErrInvalidInput)
}

func (suite *OrderServiceTestSuite) expectCancelFlow(initialStatus models.OrderStatus) {
	now := time.Now()
	itemID := uuid.New()

	suite.mock.ExpectBegin()
	suite.mock.ExpectQuery(`SELECT (.+) FROM orders WHERE tenant_id = \$1 AND id = \$2 FOR UPDATE`).
		WithArgs(suite.tenantID, suite.orderID).
		WillReturnRows(suite.orderRows(initialStatus, 3000))
	suite.mock.ExpectQuery(`SELECT (.+) FROM order_items WHERE tenant_id = \$1 AND order_id = \$2`).
		WithArgs(suite.tenantID, suite.orderID).
		WillReturnRows(pgxmock.NewRows([]string{"id", "tenant_id", "order_id", "product_id", "quantity", "unit_price_cents", "total_cents", "created_at"}).
			AddRow(itemID, suite.tenantID, suite.orderID, suite.productID, 3, int64(1000), int64(3000), now))
	suite.mock.ExpectQuery(`SELECT (.+) FROM products WHERE tenant_id = \$1 AND id = \$2 FOR UPDATE`).
		WithArgs(suite.tenantID, suite.productID).
		WillReturnRows(suite.productRows(2, 1000))
	suite.mock.ExpectExec(`UPDATE products SET stock_quantity = stock_quantity \+ \$1`).
		WithArgs(3, suite.tenantID, suite.productID).
		WillReturnResult(pgxmock.NewResult("UPDATE", 1))
	suite.mock.ExpectExec(`UPDATE orders SET status = \$1`).
		WithArgs(models.OrderStatusCancelled, suite.tenantID, suite.orderID).
		WillReturnResult(pgxmock.NewResult("UPDATE", 1))
	suite.mock.ExpectQuery(`SELECT (.+) FROM customers WHERE tenant_id = \$1 AND id = \$2`).
		WithArgs(suite.tenantID, suite.customerID).
		WillReturnRows(suite.customerRows())
	suite.mock.ExpectCommit()

	suite.cache.On("DeleteProduct", suite.ctx, suite.tenantID, suite.productID).Return(nil)
}

func (suite *OrderServiceTestSuite) TestCancelOrder_RestoresStock() {
	suite.expectCancelFlow(models.OrderStatusPending)

	order, err := suite.service.CancelOrder(suite.ctx, suite.tenantID, suite.orderID)

	assert.NoError(suite.T(), err)
	assert.Equal(suite.T(), models.OrderStatusCancelled, order.Status)
	assert.Len(suite.T(), order.Items, 1)
}

func (suite *OrderServiceTestSuite) TestCancelOrder_AfterPaidRestoresStock() {
	suite.expectCancelFlow(models.OrderStatusPaid)

	order, err := suite.service.CancelOrder(suite.ctx, suite.tenantID, suite.orderID)

	assert.NoError(suite.T(), err)
	assert.Equal(suite.T(), models.OrderStatusCancelled, order.Status)
}

func (suite *OrderServiceTestSuite) TestCancelOrder_AlreadyCancelledRejected() {
	suite.mock.ExpectBegin()
	suite.mock.ExpectQuery(`SELECT (.+) FROM orders WHERE tenant_id = \$1 AND id = \$2 FOR UPDATE`).
		WithArgs(suite.tenantID, suite.orderID).
		WillReturnRows(suite.orderRows(models.OrderStatusCancelled, 3000))
	suite.mock.ExpectRollback()

	order, err := suite.service.CancelOrder(suite.ctx, suite.tenantID, suite.orderID)

	assert.Nil(suite.T(), order)
	assert.ErrorIs(suite.T(), err, common.ErrInvalidTransition)
}

func (suite *OrderServiceTestSuite) TestCancelOrder_DeletedProductTolerated() {
	now := time.Now()
	itemID := uuid.New()

	suite.mock.ExpectBegin()
	suite.mock.ExpectQuery(`SELECT (.+) FROM orders WHERE tenant_id = \$1 AND id = \$2 FOR UPDATE`).
		WithArgs(suite.tenantID, suite.orderID).
		WillReturnRows(suite.orderRows(models.OrderStatusPending, 3000))
	suite.mock.ExpectQuery(`SELECT (.+) FROM order_items WHERE tenant_id = \$1 AND order_id = \$2`).
		WithArgs(suite.tenantID, suite.orderID).
		WillReturnRows(pgxmock.NewRows([]string{"id", "tenant_id", "order_id", "product_id", "quantity", "unit_price_cents", "total_cents", "created_at"}).
			AddRow(itemID, suite.tenantID, suite.orderID, suite.productID, 3, int64(1000), int64(3000), now))
	// Product row is gone; no compensation possible, not an error.
	suite.mock.ExpectQuery(`SELECT (.+) FROM products WHERE tenant_id = \$1 AND id = \$2 FOR UPDATE`).
		WithArgs(suite.tenantID, suite.productID).
		WillReturnError(pgx.ErrNoRows)
	suite.mock.ExpectExec(`UPDATE orders SET status = \$1`).
		WithArgs(models.OrderStatusCancelled, suite.tenantID, suite.orderID).
		WillReturnResult(pgxmock.NewResult("UPDATE", 1))
	suite.mock.ExpectQuery(`SELECT (.+) FROM customers WHERE tenant_id = \$1 AND id = \$2`).
		WithArgs(suite.tenantID, suite.customerID).
		WillReturnRows(suite.customerRows())
	suite.mock.ExpectCommit()

	suite.cache.On("DeleteProduct", suite.ctx, suite.tenantID, suite.productID).Return(nil)

	order, err := suite.service.CancelOrder(suite.ctx, suite.tenantID, suite.orderID)

	assert.NoError(suite.T(), err)
	assert.Equal(suite.T(), models.OrderStatusCancelled, order.Status)
}

func (suite *OrderServiceTestSuite) TestUpdateStatus_PendingToPaid() {
	suite.mock.ExpectBegin()
	suite.mock.ExpectQuery(`SELECT (.+) FROM orders WHERE tenant_id = \$1 AND id = \$2 FOR UPDATE`).
		WithArgs(suite.tenantID, suite.orderID).
		WillReturnRows(suite.orderRows(models.OrderStatusPending, 3000))
	suite.mock.ExpectExec(`UPDATE orders SET status = \$1`).
		WithArgs(models.OrderStatusPaid, suite.tenantID, suite.orderID).
		WillReturnResult(pgxmock.NewResult("UPDATE", 1))
	suite.mock.ExpectCommit()

	order, err := suite.service.UpdateStatus(suite.ctx, suite.tenantID, suite.orderID, models.OrderStatusPaid)

	assert.NoError(suite.T(), err)
	assert.Equal(suite.T(), models.OrderStatusPaid, order.Status)
}

func (suite *OrderServiceTestSuite) TestUpdateStatus_PaidToPendingRejected() {
	suite.mock.ExpectBegin()
	suite.mock.ExpectQuery(`SELECT (.+) FROM orders WHERE tenant_id = \$1 AND id = \$2 FOR UPDATE`).
		WithArgs(suite.tenantID, suite.orderID).
		WillReturnRows(suite.orderRows(models.OrderStatusPaid, 3000))
	suite.mock.ExpectRollback()

	order, err := suite.service.UpdateStatus(suite.ctx, suite.tenantID, suite.orderID, models.OrderStatusPending)

	assert.Nil(suite.T(), order)
	assert.ErrorIs(suite.T(), err, common.ErrInvalidTransition)
}

func (suite *OrderServiceTestSuite) TestUpdateStatus_ToCancelledDelegatesToCancel() {
	suite.expectCancelFlow(models.OrderStatusPaid)

	order, err := suite.service.UpdateStatus(suite.ctx, suite.tenantID, suite.orderID, models.OrderStatusCancelled)

	assert.NoError(suite.T(), err)
	assert.Equal(suite.T(), models.OrderStatusCancelled, order.Status)
}

func (suite *OrderServiceTestSuite) TestUpdateStatus_UnknownStatusRejected() {
	order, err := suite.service.UpdateStatus(suite.ctx, suite.tenantID, suite.orderID, models.OrderStatus("shipped"))

	assert.Nil(suite.T(), order)
	assert.ErrorIs(suite.T(), err, common.ErrInvalidInput)
}

func (suite *OrderServiceTestSuite) TestGetOrderByID_AttachesItemsAndCustomer() {
	now := time.Now()
	itemID := uuid.New()

	suite.mock.ExpectQuery(`SELECT (.+) FROM orders WHERE tenant_id = \$1 AND id = \$2`).
		WithArgs(suite.tenantID, suite.orderID).
		WillReturnRows(suite.orderRows(models.OrderStatusPending, 3000))
	suite.mock.ExpectQuery(`SELECT (.+) FROM order_items WHERE tenant_id = \$1 AND order_id = \$2`).
		WithArgs(suite.tenantID, suite.orderID).
		WillReturnRows(pgxmock.NewRows([]string{"id", "tenant_id", "order_id", "product_id", "quantity", "unit_price_cents", "total_cents", "created_at"}).
			AddRow(itemID, suite.tenantID, suite.orderID, suite.productID, 3, int64(1000), int64(3000), now))
	suite.mock.ExpectQuery(`SELECT (.+) FROM customers WHERE tenant_id = \$1 AND id = \$2`).
		WithArgs(suite.tenantID, suite.customerID).
		WillReturnRows(suite.customerRows())

	order, err := suite.service.GetOrderByID(suite.ctx, suite.tenantID, suite.orderID)

	assert.NoError(suite.T(), err)
	assert.Len(suite.T(), order.Items, 1)
	assert.NotNil(suite.T(), order.Customer)
	assert.Equal(suite.T(), int64(3000), order.TotalCents)
}

func (suite *OrderServiceTestSuite) TestGetOrderByID_CrossTenantIsNotFound() {
	suite.mock.ExpectQuery(`SELECT (.+) FROM orders WHERE tenant_id = \$1 AND id = \$2`).
		WithArgs(suite.tenantID, suite.orderID).
		WillReturnError(pgx.ErrNoRows)

	order, err := suite.service.GetOrderByID(suite.ctx, suite.tenantID, suite.orderID)

	assert.Nil(suite.T(), order)
	assert.ErrorIs(suite.T(), err, common.ErrNotFound)
}
