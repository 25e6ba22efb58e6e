package ports

import (
	"context"

	"github.com/church-member-library/admin-gateway/internal/core/domain"
)

// AuditRepository persists the gateway's audit trail.
type AuditRepository interface {
	Insert(ctx context.Context, entry *domain.AuditEntry) error
	Recent(ctx context.Context, limit int) ([]domain.AuditEntry, error)
}

// AuditService records and reads audit entries.
type AuditService interface {
	Record(ctx context.Context, entry domain.AuditEntry) error
	Recent(ctx context.Context, limit int) ([]domain.AuditEntry, error)
}

// AuditSink accepts entries for asynchronous persistence. Handlers enqueue
// and move on; request latency never waits on the audit store.
type AuditSink interface {
	Enqueue(entry domain.AuditEntry)
}
