package analysis

import (
	"math"

	"github.com/erikahunting/white-shark-paina/internal/domain"
)

// Heatmap bins: right-closed 10 m intervals (0,10], (10,20], ... (680,690],
// labeled by their left edge. Depths at the surface (0) or below 690 m fall
// outside every bin and are counted in OutOfRange.
const (
	HeatmapBinWidth = 10.0
	HeatmapMaxDepth = 690.0
)

// Heatmap counts samples by canonical hour and depth bin. Samples with an
// hour outside 0-23 are counted in OutOfRange.
type Heatmap struct {
	BinEdges   []float64 `json:"bin_edges"` // left edge of each bin
	Counts     [24][]int `json:"counts"`    // [hour][bin]
	HourTotals [24]int   `json:"hour_totals"`
	OutOfRange int       `json:"out_of_range"`
}

// BuildHeatmap bins records by canonical hour and depth.
func BuildHeatmap(records []domain.NormalizedRecord) Heatmap {
	nBins := int(HeatmapMaxDepth / HeatmapBinWidth)

	h := Heatmap{BinEdges: make([]float64, nBins)}
	for i := range h.BinEdges {
		h.BinEdges[i] = float64(i) * HeatmapBinWidth
	}
	for hour := range h.Counts {
		h.Counts[hour] = make([]int, nBins)
	}

	for i := range records {
		hour := records[i].CanonicalHour
		bin, ok := heatmapBin(records[i].Depth)
		if !ok || hour < 0 || hour >= len(h.Counts) {
			h.OutOfRange++
			continue
		}
		h.Counts[hour][bin]++
		h.HourTotals[hour]++
	}
	return h
}

func heatmapBin(depth float64) (int, bool) {
	if !(depth > 0 && depth <= HeatmapMaxDepth) {
		return 0, false
	}
	return int(math.Ceil(depth/HeatmapBinWidth)) - 1, true
}

// Fraction is the share of the hour's binned samples that fall in bin, so
// hours with more samples do not dominate the map. Zero for empty hours.
func (h Heatmap) Fraction(hour, bin int) float64 {
	if h.HourTotals[hour] == 0 {
		return 0
	}
	return float64(h.Counts[hour][bin]) / float64(h.HourTotals[hour])
}

// DeepestBin returns the index of the deepest bin with any samples, or -1.
func (h Heatmap) DeepestBin() int {
	deepest := -1
	for hour := range h.Counts {
		for bin := len(h.Counts[hour]) - 1; bin > deepest; bin-- {
			if h.Counts[hour][bin] > 0 {
				deepest = bin
				break
			}
		}
	}
	return deepest
}
