package platform

import (
	"context"
	"encoding/json"
	"time"

	"github.com/plataa/platform/pkg/common/logger"
	"github.com/plataa/platform/pkg/common/models"
	"github.com/redis/go-redis/v9"
)

const statsCacheKey = "plataa:platform:stats"

// Counter exposes the aggregate counts behind the public stats page.
type Counter interface {
	CountScreenings(ctx context.Context) (int64, error)
	CountSpecialists(ctx context.Context) (int64, error)
}

type Service struct {
	counter Counter
	cache   *redis.Client
	ttl     time.Duration
}

// NewService builds the stats aggregator. cache may be nil; counts are
// then computed on every request.
func NewService(counter Counter, cache *redis.Client, ttl time.Duration) *Service {
	if ttl <= 0 {
		ttl = 5 * time.Minute
	}
	return &Service{counter: counter, cache: cache, ttl: ttl}
}

// Stats returns the public platform counters, served from cache when fresh.
func (s *Service) Stats(ctx context.Context) (models.PlatformStats, error) {
	if s.cache != nil {
		if cached, err := s.cache.Get(ctx, statsCacheKey).Bytes(); err == nil {
			var stats models.PlatformStats
			if json.Unmarshal(cached, &stats) == nil {
				return stats, nil
			}
		}
	}

	screenings, err := s.counter.CountScreenings(ctx)
	if err != nil {
		return models.PlatformStats{}, err
	}
	specialists, err := s.counter.CountSpecialists(ctx)
	if err != nil {
		return models.PlatformStats{}, err
	}

	stats := models.PlatformStats{
		ScreeningsPerformed:   screenings,
		SpecialistsRegistered: specialists,
		UpdatedAt:             time.Now().UTC(),
	}

	if s.cache != nil {
		if payload, err := json.Marshal(stats); err == nil {
			if err := s.cache.Set(ctx, statsCacheKey, payload, s.ttl).Err(); err != nil {
				logger.Log.WithError(err).Warn("failed to cache platform stats")
			}
		}
	}

	return stats, nil
}
