package pipeline

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	sharedretry "github.com/couchcryptid/storm-data-shared/retry"

	"github.com/erikahunting/white-shark-paina/internal/domain"
	"github.com/erikahunting/white-shark-paina/internal/observability"
)

// BatchExtractor reads one batch of raw records from its source.
type BatchExtractor interface {
	ExtractBatch(ctx context.Context) (domain.Batch, error)
}

// Transformer normalizes and classifies a raw batch.
type Transformer interface {
	Transform(ctx context.Context, batch domain.Batch) (domain.NormalizedBatch, error)
}

// BatchLoader hands a normalized batch to a destination.
type BatchLoader interface {
	Name() string
	LoadBatch(ctx context.Context, batch domain.NormalizedBatch) error
}

// LoadError reports a loader that kept failing after all attempts.
type LoadError struct {
	Loader   string
	Attempts int
	Err      error
}

func (e *LoadError) Error() string {
	return fmt.Sprintf("load batch into %s after %d attempts: %v", e.Loader, e.Attempts, e.Err)
}

func (e *LoadError) Unwrap() error { return e.Err }

// Pipeline runs one extract-transform-load cycle.
type Pipeline struct {
	extractor   BatchExtractor
	transformer Transformer
	loaders     []BatchLoader
	logger      *slog.Logger
	metrics     *observability.Metrics
	maxAttempts int
}

// New creates a Pipeline with the given stages and observability. Each loader
// is tried up to maxAttempts times.
func New(e BatchExtractor, t Transformer, loaders []BatchLoader, logger *slog.Logger, metrics *observability.Metrics, maxAttempts int) *Pipeline {
	if maxAttempts < 1 {
		maxAttempts = 1
	}
	return &Pipeline{
		extractor:   e,
		transformer: t,
		loaders:     loaders,
		logger:      logger,
		metrics:     metrics,
		maxAttempts: maxAttempts,
	}
}

// Run extracts, normalizes, and loads one batch. A batch either normalizes
// completely or Run returns an error before any loader sees it.
func (p *Pipeline) Run(ctx context.Context) (domain.NormalizedBatch, error) {
	start := time.Now()
	p.metrics.PipelineRunning.Set(1)
	defer p.metrics.PipelineRunning.Set(0)

	raw, err := p.extractor.ExtractBatch(ctx)
	if err != nil {
		p.metrics.BatchesProcessed.WithLabelValues("extract_error").Inc()
		return domain.NormalizedBatch{}, fmt.Errorf("extract batch: %w", err)
	}
	p.metrics.RecordsIngested.Add(float64(len(raw.Records)))
	p.metrics.BatchSize.Observe(float64(len(raw.Records)))
	p.logger.Info("batch extracted",
		"batch_id", raw.ID,
		"source", raw.Source,
		"date_column", raw.DateColumn,
		"records", len(raw.Records),
	)

	batch, err := p.transformer.Transform(ctx, raw)
	if err != nil {
		p.metrics.BatchesProcessed.WithLabelValues("transform_error").Inc()
		p.metrics.TransformErrors.WithLabelValues(errorReason(err)).Inc()
		return domain.NormalizedBatch{}, fmt.Errorf("transform batch: %w", err)
	}
	for i := range batch.Records {
		p.metrics.RecordsNormalized.WithLabelValues(string(batch.Policy), string(batch.Records[i].Phase)).Inc()
	}

	for _, loader := range p.loaders {
		if err := p.load(ctx, loader, batch); err != nil {
			p.metrics.BatchesProcessed.WithLabelValues("load_error").Inc()
			return domain.NormalizedBatch{}, err
		}
	}

	p.metrics.BatchesProcessed.WithLabelValues("success").Inc()
	p.metrics.BatchProcessingDuration.Observe(time.Since(start).Seconds())
	p.logger.Info("batch processed",
		"batch_id", batch.ID,
		"source", batch.Source,
		"source_zone", batch.Zone.String(),
		"policy", batch.Policy,
		"records", len(batch.Records),
		"duration", time.Since(start),
	)
	return batch, nil
}

// load hands the batch to one loader, retrying with exponential backoff.
// Starts at 200ms and doubles per retry, capped at 5s.
func (p *Pipeline) load(ctx context.Context, loader BatchLoader, batch domain.NormalizedBatch) error {
	backoff := 200 * time.Millisecond
	maxBackoff := 5 * time.Second

	var (
		err      error
		attempts int
	)
	for attempt := 1; attempt <= p.maxAttempts; attempt++ {
		attempts = attempt
		err = loader.LoadBatch(ctx, batch)
		if err == nil {
			p.metrics.LoadAttempts.WithLabelValues(loader.Name(), "success").Inc()
			return nil
		}
		p.metrics.LoadAttempts.WithLabelValues(loader.Name(), "error").Inc()
		p.logger.Warn("load batch failed",
			"loader", loader.Name(),
			"batch_id", batch.ID,
			"attempt", attempt,
			"error", err,
		)

		if attempt == p.maxAttempts || ctx.Err() != nil {
			break
		}
		if !sharedretry.SleepWithContext(ctx, backoff) {
			break
		}
		backoff = sharedretry.NextBackoff(backoff, maxBackoff)
	}
	return &LoadError{Loader: loader.Name(), Attempts: attempts, Err: err}
}

// errorReason maps a transform error to a bounded metric label.
func errorReason(err error) string {
	switch {
	case errors.Is(err, domain.ErrUnrecognizedTimeZone):
		return "unrecognized_zone"
	case errors.Is(err, domain.ErrInvalidHour):
		return "invalid_hour"
	case errors.Is(err, domain.ErrInvalidRecord):
		return "invalid_record"
	default:
		return "other"
	}
}
