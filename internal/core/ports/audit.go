package ports

import (
	"context"

	"github.com/minitwitter/accounts-auth/internal/core/domain"
)

// AuditRepository persists the authentication audit trail.
type AuditRepository interface {
	InsertEvent(ctx context.Context, event *domain.AuthEvent) error
}

// AuditService records a single audit event.
type AuditService interface {
	Record(ctx context.Context, event domain.AuthEvent) error
}

// AuditRecorder accepts audit events without blocking the caller.
type AuditRecorder interface {
	Enqueue(event domain.AuthEvent)
}
