package pipeline

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/erikahunting/white-shark-paina/internal/domain"
	"github.com/erikahunting/white-shark-paina/internal/observability"
)

// ReadinessChecker is implemented by loaders that depend on an external
// system, such as a Kafka broker.
type ReadinessChecker interface {
	CheckReadiness(ctx context.Context) error
}

// Service runs one pipeline per batch against a shared set of loaders.
type Service struct {
	loaders     []BatchLoader
	logger      *slog.Logger
	metrics     *observability.Metrics
	maxAttempts int
}

// NewService creates a Service. loaders may be empty.
func NewService(loaders []BatchLoader, logger *slog.Logger, metrics *observability.Metrics, maxAttempts int) *Service {
	return &Service{
		loaders:     loaders,
		logger:      logger,
		metrics:     metrics,
		maxAttempts: maxAttempts,
	}
}

// Process extracts one batch from e and normalizes it under policy.
func (s *Service) Process(ctx context.Context, e BatchExtractor, policy domain.Policy) (domain.NormalizedBatch, error) {
	p := New(e, NewTransformer(policy, s.logger), s.loaders, s.logger, s.metrics, s.maxAttempts)
	return p.Run(ctx)
}

// CheckReadiness reports the first loader that is not ready.
func (s *Service) CheckReadiness(ctx context.Context) error {
	for _, l := range s.loaders {
		rc, ok := l.(ReadinessChecker)
		if !ok {
			continue
		}
		if err := rc.CheckReadiness(ctx); err != nil {
			return fmt.Errorf("%s not ready: %w", l.Name(), err)
		}
	}
	return nil
}
