package models

import (
	"time"

	"github.com/google/uuid"
)

type Order struct {
	ID          uuid.UUID   `json:"id" db:"id"`
	TenantID    uuid.UUID   `json:"tenant_id" db:"tenant_id"`
	CustomerID  uuid.UUID   `json:"customer_id" db:"customer_id"`
	OrderNumber string      `json:"order_number" db:"order_number"`
	Status      OrderStatus `json:"status" db:"status"`
	TotalCents  int64       `json:"total_cents" db:"total_cents"`
	CreatedAt   time.Time   `json:"created_at" db:"created_at"`
	UpdatedAt   time.Time   `json:"updated_at" db:"updated_at"`

	Items    []*OrderItem `json:"items,omitempty" db:"-"`
	Customer *Customer    `json:"customer,omitempty" db:"-"`
}
