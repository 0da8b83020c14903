package common

import "errors"

// Sentinel errors for the operation layer. Handlers map these to HTTP
// statuses with errors.Is; services wrap them with fmt.Errorf("...: %w").
var (
	// ErrTenantUnresolved means no tenant identifier accompanied the request.
	ErrTenantUnresolved = errors.New("tenant not resolved")

	// ErrTenantInvalid means the supplied tenant identifier matches no
	// tenant, or the tenant has been deactivated.
	ErrTenantInvalid = errors.New("invalid or inactive tenant")

	// ErrNotFound covers both a genuinely absent entity and an entity that
	// exists under another tenant. The two cases are indistinguishable to
	// callers so that cross-tenant probes leak nothing.
	ErrNotFound = errors.New("not found")

	// ErrInsufficientStock means a requested quantity exceeded the product's
	// stock at the moment of decrement.
	ErrInsufficientStock = errors.New("insufficient stock")

	// ErrInvalidTransition means an order status change violated the
	// transition table.
	ErrInvalidTransition = errors.New("invalid status transition")

	// ErrInvalidInput means the request shape was malformed (empty item
	// list, non-positive quantity, missing tenant stamp).
	ErrInvalidInput = errors.New("invalid input")

	// ErrConflict means a uniqueness constraint was violated, e.g. a
	// duplicate SKU within the same tenant.
	ErrConflict = errors.New("already exists")
)
