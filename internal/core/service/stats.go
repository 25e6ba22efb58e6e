package service

import (
	"context"

	"github.com/rs/zerolog"

	"github.com/church-member-library/admin-gateway/internal/api/metrics"
	"github.com/church-member-library/admin-gateway/internal/core/domain"
	"github.com/church-member-library/admin-gateway/internal/core/ports"
)

// StatsService computes the dashboard statistics. The member list comes
// through the caller's registry client so reads always run under the caller's
// credentials; the computed result is shared via the cache.
type StatsService struct {
	cache ports.StatsCache
	log   zerolog.Logger
}

func NewStatsService(cache ports.StatsCache, log zerolog.Logger) *StatsService {
	return &StatsService{cache: cache, log: log}
}

// Dashboard returns cached stats when fresh, otherwise recomputes from the
// full member list. Cache errors degrade to a recompute, never to a failure.
func (s *StatsService) Dashboard(ctx context.Context, client ports.RegistryClient) (*domain.DashboardStats, error) {
	if stats, ok, err := s.cache.Get(ctx); err != nil {
		s.log.Warn().Err(err).Msg("stats cache read failed, recomputing")
	} else if ok {
		metrics.StatsCacheTotal.WithLabelValues("hit").Inc()
		return stats, nil
	} else {
		metrics.StatsCacheTotal.WithLabelValues("miss").Inc()
	}

	members, err := client.ListMembers(ctx)
	if err != nil {
		return nil, err
	}

	stats := domain.ComputeDashboardStats(members)
	if err := s.cache.Set(ctx, stats); err != nil {
		s.log.Warn().Err(err).Msg("stats cache write failed")
	}
	return stats, nil
}

// Invalidate drops the cached stats after a member mutation.
func (s *StatsService) Invalidate(ctx context.Context) {
	if err := s.cache.Invalidate(ctx); err != nil {
		s.log.Warn().Err(err).Msg("stats cache invalidation failed")
	}
}
