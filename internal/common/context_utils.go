package common

import (
	"context"

	"github.com/google/uuid"
)

type contextKey string

const (
	// TenantIDKey carries the resolved tenant id for the current operation.
	TenantIDKey contextKey = "tenant_id"
	// SubjectKey carries the authenticated caller's subject claim.
	SubjectKey contextKey = "subject"
)

// WithTenantID returns a child context carrying the resolved tenant id.
func WithTenantID(ctx context.Context, tenantID uuid.UUID) context.Context {
	return context.WithValue(ctx, TenantIDKey, tenantID)
}

// GetTenantIDFromContext extracts the tenant ID from the request context.
func GetTenantIDFromContext(ctx context.Context) (uuid.UUID, bool) {
	tenantID, ok := ctx.Value(TenantIDKey).(uuid.UUID)
	return tenantID, ok
}

// WithSubject returns a child context carrying the authenticated subject.
func WithSubject(ctx context.Context, subject string) context.Context {
	return context.WithValue(ctx, SubjectKey, subject)
}

// GetSubjectFromContext extracts the authenticated subject from the context.
func GetSubjectFromContext(ctx context.Context) (string, bool) {
	subject, ok := ctx.Value(SubjectKey).(string)
	return subject, ok
}
