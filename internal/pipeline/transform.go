package pipeline

import (
	"context"
	"log/slog"

	"github.com/erikahunting/white-shark-paina/internal/domain"
)

// TagTransformer implements Transformer using the domain normalization
// functions under a fixed day phase policy.
type TagTransformer struct {
	policy domain.Policy
	logger *slog.Logger
}

// NewTransformer creates a TagTransformer for policy.
func NewTransformer(policy domain.Policy, logger *slog.Logger) *TagTransformer {
	return &TagTransformer{
		policy: policy,
		logger: logger,
	}
}

func (t *TagTransformer) Transform(_ context.Context, batch domain.Batch) (domain.NormalizedBatch, error) {
	normalized, err := domain.NormalizeBatch(batch, t.policy)
	if err != nil {
		return domain.NormalizedBatch{}, err
	}

	t.logger.Debug("batch normalized",
		"batch_id", normalized.ID,
		"source_zone", normalized.Zone.String(),
		"policy", normalized.Policy,
	)
	return normalized, nil
}
