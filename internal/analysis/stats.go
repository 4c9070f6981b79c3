// Package analysis computes descriptive statistics over normalized depth
// records: per-phase summaries, hour by depth heatmaps, per-phase depth
// histograms, per-day and per-hour distributions, and depth-vs-time grids.
package analysis

import (
	"slices"

	"github.com/erikahunting/white-shark-paina/internal/domain"
	"gonum.org/v1/gonum/stat"
)

// PhaseSummary describes the depth distribution within one day phase.
// Empty phases have Count 0 and zero-valued statistics.
type PhaseSummary struct {
	Phase     domain.Phase `json:"phase"`
	Count     int          `json:"count"`
	MeanDepth float64      `json:"mean_depth_m"`
	StdDepth  float64      `json:"std_depth_m"`
	MinDepth  float64      `json:"min_depth_m"`
	MaxDepth  float64      `json:"max_depth_m"`
}

// Summarize returns one summary per phase of policy, in policy order.
// StdDepth is the population standard deviation.
func Summarize(records []domain.NormalizedRecord, policy domain.Policy) []PhaseSummary {
	byPhase := depthsByPhase(records)

	phases := policy.Phases()
	out := make([]PhaseSummary, 0, len(phases))
	for _, phase := range phases {
		depths := byPhase[phase]
		s := PhaseSummary{Phase: phase, Count: len(depths)}
		if len(depths) > 0 {
			s.MeanDepth, s.StdDepth = stat.PopMeanStdDev(depths, nil)
			s.MinDepth = slices.Min(depths)
			s.MaxDepth = slices.Max(depths)
		}
		out = append(out, s)
	}
	return out
}

// depthsByPhase groups depths by phase label, keeping record order.
func depthsByPhase(records []domain.NormalizedRecord) map[domain.Phase][]float64 {
	out := make(map[domain.Phase][]float64)
	for i := range records {
		out[records[i].Phase] = append(out[records[i].Phase], records[i].Depth)
	}
	return out
}

// Resample keeps every rate-th record starting with the first. A rate below
// 2 returns records unchanged.
func Resample(records []domain.NormalizedRecord, rate int) []domain.NormalizedRecord {
	if rate < 2 {
		return records
	}
	out := make([]domain.NormalizedRecord, 0, (len(records)+rate-1)/rate)
	for i := 0; i < len(records); i += rate {
		out = append(out, records[i])
	}
	return out
}
