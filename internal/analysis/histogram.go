package analysis

import (
	"fmt"
	"math"
	"slices"

	"github.com/erikahunting/white-shark-paina/internal/domain"
	"gonum.org/v1/gonum/stat"
)

// Histogram defaults: 25 m bins over the 0-700 m range white sharks use.
const (
	DefaultHistogramBinWidth = 25.0
	DefaultHistogramMaxDepth = 700.0
)

// Histogram is a depth histogram per phase over bins [edge, edge+width).
type Histogram struct {
	BinWidth float64          `json:"bin_width_m"`
	MaxDepth float64          `json:"max_depth_m"`
	Edges    []float64        `json:"edges"` // left edge of each bin
	Phases   []PhaseHistogram `json:"phases"`
}

// PhaseHistogram holds one phase's counts and density. Each phase is
// normalized on its own, so Density integrates to 1 over the binned range
// regardless of how many samples other phases have.
type PhaseHistogram struct {
	Phase      domain.Phase `json:"phase"`
	Count      int          `json:"count"` // binned samples
	OutOfRange int          `json:"out_of_range"`
	Counts     []int        `json:"counts"`
	Density    []float64    `json:"density"`
}

// BuildHistogram bins depths per phase of policy.
func BuildHistogram(records []domain.NormalizedRecord, policy domain.Policy, binWidth, maxDepth float64) (Histogram, error) {
	if binWidth <= 0 || maxDepth <= 0 || binWidth > maxDepth {
		return Histogram{}, fmt.Errorf("invalid histogram range: bin width %g, max depth %g", binWidth, maxDepth)
	}

	// The last bin must end exactly at maxDepth.
	n := maxDepth / binWidth
	if math.Abs(n-math.Round(n)) > 1e-9 {
		return Histogram{}, fmt.Errorf("invalid histogram range: max depth %g is not a multiple of bin width %g", maxDepth, binWidth)
	}
	nBins := int(math.Round(n))
	dividers := make([]float64, nBins+1)
	for i := range dividers {
		dividers[i] = float64(i) * binWidth
	}
	dividers[nBins] = maxDepth

	h := Histogram{
		BinWidth: binWidth,
		MaxDepth: maxDepth,
		Edges:    dividers[:nBins],
	}

	byPhase := depthsByPhase(records)
	for _, phase := range policy.Phases() {
		var inRange []float64
		outOfRange := 0
		for _, d := range byPhase[phase] {
			if d >= 0 && d < maxDepth {
				inRange = append(inRange, d)
			} else {
				outOfRange++
			}
		}
		slices.Sort(inRange)

		ph := PhaseHistogram{
			Phase:      phase,
			Count:      len(inRange),
			OutOfRange: outOfRange,
			Counts:     make([]int, nBins),
			Density:    make([]float64, nBins),
		}
		if len(inRange) > 0 {
			counts := stat.Histogram(nil, dividers, inRange, nil)
			for i, c := range counts {
				ph.Counts[i] = int(c)
				ph.Density[i] = c / (float64(len(inRange)) * binWidth)
			}
		}
		h.Phases = append(h.Phases, ph)
	}
	return h, nil
}
