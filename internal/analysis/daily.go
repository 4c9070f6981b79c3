package analysis

import (
	"slices"

	"github.com/erikahunting/white-shark-paina/internal/domain"
	"gonum.org/v1/gonum/stat"
)

// DateLayout formats canonical calendar dates.
const DateLayout = "2006-01-02"

// DailySummary is the per-phase depth distribution for one canonical date.
type DailySummary struct {
	Date   string       `json:"date"`
	Phases []PhaseStats `json:"phases"`
}

// PhaseStats describes a depth distribution by its quartiles.
type PhaseStats struct {
	Phase  domain.Phase `json:"phase"`
	Count  int          `json:"count"`
	Mean   float64      `json:"mean_depth_m"`
	Q1     float64      `json:"q1_depth_m"`
	Median float64      `json:"median_depth_m"`
	Q3     float64      `json:"q3_depth_m"`
}

// DailySummaries summarizes the first numDays canonical dates in record
// order. numDays <= 0 includes every date.
func DailySummaries(records []domain.NormalizedRecord, policy domain.Policy, numDays int) []DailySummary {
	var dates []string
	byDate := make(map[string][]domain.NormalizedRecord)

	for i := range records {
		date := records[i].CanonicalTime.Format(DateLayout)
		if _, seen := byDate[date]; !seen {
			if numDays > 0 && len(dates) == numDays {
				continue
			}
			dates = append(dates, date)
		}
		byDate[date] = append(byDate[date], records[i])
	}

	out := make([]DailySummary, 0, len(dates))
	for _, date := range dates {
		byPhase := depthsByPhase(byDate[date])
		day := DailySummary{Date: date}
		for _, phase := range policy.Phases() {
			day.Phases = append(day.Phases, phaseStats(phase, byPhase[phase]))
		}
		out = append(out, day)
	}
	return out
}

func phaseStats(phase domain.Phase, depths []float64) PhaseStats {
	ps := PhaseStats{Phase: phase, Count: len(depths)}
	if len(depths) == 0 {
		return ps
	}

	sorted := slices.Clone(depths)
	slices.Sort(sorted)

	ps.Mean = stat.Mean(sorted, nil)
	ps.Q1 = stat.Quantile(0.25, stat.Empirical, sorted, nil)
	ps.Median = stat.Quantile(0.5, stat.Empirical, sorted, nil)
	ps.Q3 = stat.Quantile(0.75, stat.Empirical, sorted, nil)
	return ps
}
