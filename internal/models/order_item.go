package models

import (
	"time"

	"github.com/google/uuid"
)

// An OrderItem snapshots the product's unit price at the time the order was
// placed; later product price changes never touch existing items.
type OrderItem struct {
	ID             uuid.UUID `json:"id" db:"id"`
	TenantID       uuid.UUID `json:"tenant_id" db:"tenant_id"`
	OrderID        uuid.UUID `json:"order_id" db:"order_id"`
	ProductID      uuid.UUID `json:"product_id" db:"product_id"`
	Quantity       int       `json:"quantity" db:"quantity"`
	UnitPriceCents int64     `json:"unit_price_cents" db:"unit_price_cents"`
	TotalCents     int64     `json:"total_cents" db:"total_cents"`
	CreatedAt      time.Time `json:"created_at" db:"created_at"`
}
