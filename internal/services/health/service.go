package health

import (
	"context"
	"time"

	"fraudconsole/internal/cache"
	"fraudconsole/internal/models"
	"fraudconsole/internal/scoring"

	"github.com/rs/zerolog/log"
)

// probeTimeout keeps a hung scoring API from stalling page renders.
const probeTimeout = 2 * time.Second

// Service reports the scoring API's health, cached for a short while.
type Service interface {
	Status(ctx context.Context) (*models.HealthStatus, error)
}

type service struct {
	checker scoring.HealthChecker
	cache   cache.Cache
	key     string
	ttl     time.Duration
}

func NewService(checker scoring.HealthChecker, c cache.Cache, target string, ttl time.Duration) Service {
	return &service{
		checker: checker,
		cache:   c,
		key:     cache.GenerateKey("scoring", "health", target),
		ttl:     ttl,
	}
}

// Status returns the cached status or probes the API. Failed probes are not cached.
func (s *service) Status(ctx context.Context) (*models.HealthStatus, error) {
	var cached models.HealthStatus
	found, err := s.cache.Get(ctx, s.key, &cached)
	if err != nil {
		log.Warn().Err(err).Str("key", s.key).Msg("health cache read failed")
	}
	if found {
		return &cached, nil
	}

	probeCtx, cancel := context.WithTimeout(ctx, probeTimeout)
	defer cancel()

	status, err := s.checker.Health(probeCtx)
	if err != nil {
		return nil, err
	}

	if err := s.cache.SetWithTTL(ctx, s.key, status, s.ttl); err != nil {
		log.Warn().Err(err).Str("key", s.key).Msg("health cache write failed")
	}
	return status, nil
}
