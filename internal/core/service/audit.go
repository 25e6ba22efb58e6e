package service

import (
	"context"
	"time"

	"github.com/rs/zerolog"

	"github.com/church-member-library/admin-gateway/internal/api/metrics"
	"github.com/church-member-library/admin-gateway/internal/core/domain"
	"github.com/church-member-library/admin-gateway/internal/core/ports"
)

// AuditService persists the audit trail of mutating admin operations.
// Writes arrive through the async dispatcher; reads serve GET /api/audit.
type AuditService struct {
	repo ports.AuditRepository
	log  zerolog.Logger
}

func NewAuditService(repo ports.AuditRepository, log zerolog.Logger) *AuditService {
	return &AuditService{repo: repo, log: log}
}

// Record writes one audit entry, stamping the time when the caller left it
// zero (entries travel through a queue before landing here).
func (s *AuditService) Record(ctx context.Context, entry domain.AuditEntry) error {
	if entry.CreatedAt.IsZero() {
		entry.CreatedAt = time.Now().UTC()
	}
	if err := s.repo.Insert(ctx, &entry); err != nil {
		metrics.AuditEventsTotal.WithLabelValues("error").Inc()
		s.log.Error().Err(err).Str("action", entry.Action).Msg("audit write failed")
		return err
	}
	metrics.AuditEventsTotal.WithLabelValues("written").Inc()
	return nil
}

// Recent returns the newest entries, newest first.
func (s *AuditService) Recent(ctx context.Context, limit int) ([]domain.AuditEntry, error) {
	if limit <= 0 || limit > 200 {
		limit = 50
	}
	return s.repo.Recent(ctx, limit)
}
