package services

import (
	"bytes"
	"context"
	"fmt"
	"time"

	"salepoint/internal/models"

	"github.com/google/uuid"
)

const receiptURLExpiry = 15 * time.Minute

// ReceiptServiceInterface renders a plain-text receipt for an order and
// archives it in object storage, returning a time-limited download URL.
type ReceiptServiceInterface interface {
	Generate(ctx context.Context, tenantID, orderID uuid.UUID) (string, error)
}

type receiptService struct {
	orders OrderServiceInterface
	store  ObjectStore
	bucket string
}

func NewReceiptService(orders OrderServiceInterface, store ObjectStore, bucket string) ReceiptServiceInterface {
	return &receiptService{orders: orders, store: store, bucket: bucket}
}

func (s *receiptService) Generate(ctx context.Context, tenantID, orderID uuid.UUID) (string, error) {
	order, err := s.orders.GetOrderByID(ctx, tenantID, orderID)
	if err != nil {
		return "", err
	}

	body := renderReceipt(order)
	objectName := fmt.Sprintf("%s/%s.txt", tenantID, order.OrderNumber)

	if err := s.store.EnsureBucketExists(ctx, s.bucket); err != nil {
		return "", fmt.Errorf("ensure receipt bucket: %w", err)
	}
	if err := s.store.Upload(ctx, s.bucket, objectName, bytes.NewReader(body), int64(len(body)), "text/plain"); err != nil {
		return "", fmt.Errorf("upload receipt: %w", err)
	}

	url, err := s.store.PresignedURL(ctx, s.bucket, objectName, receiptURLExpiry)
	if err != nil {
		return "", fmt.Errorf("presign receipt: %w", err)
	}
	return url, nil
}

func renderReceipt(order *models.Order) []byte {
	var buf bytes.Buffer
	fmt.Fprintf(&buf, "Order %s\n", order.OrderNumber)
	fmt.Fprintf(&buf, "Status: %s\n", order.Status)
	if order.Customer != nil {
		fmt.Fprintf(&buf, "Customer: %s\n", order.Customer.Name)
	}
	fmt.Fprintf(&buf, "Date: %s\n\n", order.CreatedAt.Format(time.RFC3339))
	for _, item := range order.Items {
		fmt.Fprintf(&buf, "%d x %s @ %s = %s\n",
			item.Quantity, item.ProductID, formatCents(item.UnitPriceCents), formatCents(item.TotalCents))
	}
	fmt.Fprintf(&buf, "\nTotal: %s\n", formatCents(order.TotalCents))
	return buf.Bytes()
}

func formatCents(cents int64) string {
	sign := ""
	if cents < 0 {
		sign = "-"
		cents = -cents
	}
	return fmt.Sprintf("%s%d.%02d", sign, cents/100, cents%100)
}
