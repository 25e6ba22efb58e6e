package ports

import (
	"context"

	"github.com/church-member-library/admin-gateway/internal/core/domain"
)

// StatsCache caches the computed dashboard statistics between requests.
type StatsCache interface {
	// Get returns the cached stats, or ok=false on a miss.
	Get(ctx context.Context) (stats *domain.DashboardStats, ok bool, err error)
	Set(ctx context.Context, stats *domain.DashboardStats) error
	Invalidate(ctx context.Context) error
}

// StatsService computes dashboard statistics using the caller's registry
// client (the member list is only readable with the caller's credentials).
type StatsService interface {
	Dashboard(ctx context.Context, client RegistryClient) (*domain.DashboardStats, error)
	Invalidate(ctx context.Context)
}
