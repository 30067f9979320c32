package dashboard

import (
	"context"

	log "github.com/sirupsen/logrus"

	"github.com/clientdesk/clientdesk-backend/internal/domain"
)

// StatsSource computes the aggregates when the cache misses.
type StatsSource interface {
	ComputeStats(ctx context.Context, ownerID string) (*Stats, error)
}

type Service struct {
	source StatsSource
	cache  *Cache
}

func NewService(source StatsSource, cache *Cache) *Service {
	return &Service{source: source, cache: cache}
}

// Stats returns the cached aggregates when available, recomputing on a miss.
// A cache read failure degrades to a recompute rather than an error.
func (s *Service) Stats(ctx context.Context, ownerID string) (*Stats, error) {
	if ownerID == "" {
		return nil, domain.ErrUnauthenticated
	}

	if s.cache != nil {
		cached, err := s.cache.Get(ctx, ownerID)
		if err != nil {
			log.WithError(err).Warn("stats cache read failed")
		} else if cached != nil {
			return cached, nil
		}
	}

	stats, err := s.source.ComputeStats(ctx, ownerID)
	if err != nil {
		return nil, domain.Remote("compute stats", err)
	}

	if s.cache != nil {
		if err := s.cache.Set(ctx, ownerID, stats); err != nil {
			log.WithError(err).Warn("stats cache write failed")
		}
	}
	return stats, nil
}
