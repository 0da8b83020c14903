package handlers

import (
	"net/http"
	"strconv"

	"salepoint/internal/common"
	"salepoint/internal/models"
	"salepoint/internal/services"

	"github.com/labstack/echo/v4"
)

// OrderHandlers handles HTTP requests for orders
type OrderHandlers struct {
	orderService   services.OrderServiceInterface
	receiptService services.ReceiptServiceInterface
}

func NewOrderHandlers(orderService services.OrderServiceInterface, receiptService services.ReceiptServiceInterface) *OrderHandlers {
	return &OrderHandlers{
		orderService:   orderService,
		receiptService: receiptService,
	}
}

// CreateOrder handles POST /orders
func (h *OrderHandlers) CreateOrder(c echo.Context) error {
	ctx := c.Request().Context()

	tenantID, ok := common.GetTenantIDFromContext(ctx)
	if !ok {
		return echo.NewHTTPError(http.StatusUnauthorized, "Tenant not found")
	}

	var req struct {
		CustomerID string `json:"customer_id"`
		Items      []struct {
			ProductID string `json:"product_id"`
			Quantity  int    `json:"quantity"`
		} `json:"items"`
	}
	if err := c.Bind(&req); err != nil {
		return common.SendClientError(c, "Invalid request format")
	}

	customerID, err := common.ValidateUUID(req.CustomerID, "customer_id")
	if err != nil {
		return common.SendValidationError(c, "customer_id", err.Error())
	}
	if len(req.Items) == 0 {
		return common.SendValidationError(c, "items", "at least one item is required")
	}

	createReq := &services.CreateOrderRequest{CustomerID: customerID}
	for _, item := range req.Items {
		productID, err := common.ValidateUUID(item.ProductID, "product_id")
		if err != nil {
			return common.SendValidationError(c, "product_id", err.Error())
		}
		if err := common.ValidatePositiveInteger(item.Quantity, "quantity", 10000); err != nil {
			return common.SendValidationError(c, "quantity", err.Error())
		}
		createReq.Items = append(createReq.Items, services.OrderLineRequest{
			ProductID: productID,
			Quantity:  item.Quantity,
		})
	}

	order, err := h.orderService.CreateOrder(ctx, tenantID, createReq)
	if err != nil {
		return common.SendDomainError(c, err, "order")
	}
	return c.JSON(http.StatusCreated, order)
}

// GetOrder handles GET /orders/:id
func (h *OrderHandlers) GetOrder(c echo.Context) error {
	ctx := c.Request().Context()

	tenantID, ok := common.GetTenantIDFromContext(ctx)
	if !ok {
		return echo.NewHTTPError(http.StatusUnauthorized, "Tenant not found")
	}

	orderID, err := common.ValidateUUID(c.Param("id"), "id")
	if err != nil {
		return common.SendClientError(c, err.Error())
	}

	order, err := h.orderService.GetOrderByID(ctx, tenantID, orderID)
	if err != nil {
		return common.SendDomainError(c, err, "order")
	}
	return c.JSON(http.StatusOK, order)
}

// ListOrders handles GET /orders
func (h *OrderHandlers) ListOrders(c echo.Context) error {
	ctx := c.Request().Context()

	tenantID, ok := common.GetTenantIDFromContext(ctx)
	if !ok {
		return echo.NewHTTPError(http.StatusUnauthorized, "Tenant not found")
	}

	limit, _ := strconv.Atoi(c.QueryParam("limit"))
	offset, _ := strconv.Atoi(c.QueryParam("offset"))

	var status *models.OrderStatus
	if raw := c.QueryParam("status"); raw != "" {
		parsed, err := models.ParseOrderStatus(raw)
		if err != nil {
			return common.SendValidationError(c, "status", err.Error())
		}
		status = &parsed
	}

	orders, err := h.orderService.ListOrders(ctx, tenantID, status, limit, offset)
	if err != nil {
		return common.SendDomainError(c, err, "orders")
	}
	return c.JSON(http.StatusOK, orders)
}

// CancelOrder handles POST /orders/:id/cancel
func (h *OrderHandlers) CancelOrder(c echo.Context) error {
	ctx := c.Request().Context()

	tenantID, ok := common.GetTenantIDFromContext(ctx)
	if !ok {
		return echo.NewHTTPError(http.StatusUnauthorized, "Tenant not found")
	}

	orderID, err := common.ValidateUUID(c.Param("id"), "id")
	if err != nil {
		return common.SendClientError(c, err.Error())
	}

	order, err := h.orderService.CancelOrder(ctx, tenantID, orderID)
	if err != nil {
		return common.SendDomainError(c, err, "order")
	}
	return c.JSON(http.StatusOK, order)
}

// UpdateStatus handles PATCH /orders/:id/status
func (h *OrderHandlers) UpdateStatus(c echo.Context) error {
	ctx := c.Request().Context()

	tenantID, ok := common.GetTenantIDFromContext(ctx)
	if !ok {
		return echo.NewHTTPError(http.StatusUnauthorized, "Tenant not found")
	}

	orderID, err := common.ValidateUUID(c.Param("id"), "id")
	if err != nil {
		return common.SendClientError(c, err.Error())
	}

	var req struct {
		Status string `json:"status"`
	}
	if err := c.Bind(&req); err != nil {
		return common.SendClientError(c, "Invalid request format")
	}
	status, err := models.ParseOrderStatus(req.Status)
	if err != nil {
		return common.SendValidationError(c, "status", err.Error())
	}

	order, err := h.orderService.UpdateStatus(ctx, tenantID, orderID, status)
	if err != nil {
		return common.SendDomainError(c, err, "order")
	}
	return c.JSON(http.StatusOK, order)
}

// GetReceipt handles GET /orders/:id/receipt
func (h *OrderHandlers) GetReceipt(c echo.Context) error {
	ctx := c.Request().Context()

	tenantID, ok := common.GetTenantIDFromContext(ctx)
	if !ok {
		return echo.NewHTTPError(http.StatusUnauthorized, "Tenant not found")
	}

	orderID, err := common.ValidateUUID(c.Param("id"), "id")
	if err != nil {
		return common.SendClientError(c, err.Error())
	}

	url, err := h.receiptService.Generate(ctx, tenantID, orderID)
	if err != nil {
		return common.SendDomainError(c, err, "order")
	}
	return c.JSON(http.StatusOK, map[string]string{"receipt_url": url})
}
