package analysis

import "github.com/erikahunting/white-shark-paina/internal/domain"

// HourlySummary is the per-phase depth distribution for one canonical hour.
type HourlySummary struct {
	Hour   int          `json:"hour"`
	Phases []PhaseStats `json:"phases"`
}

// HourlySummaries returns one summary per canonical hour, hour 0 first, with
// phases in policy order. Records with an hour outside 0-23 are skipped.
func HourlySummaries(records []domain.NormalizedRecord, policy domain.Policy) []HourlySummary {
	var byHour [24][]domain.NormalizedRecord
	for i := range records {
		hour := records[i].CanonicalHour
		if hour < 0 || hour >= len(byHour) {
			continue
		}
		byHour[hour] = append(byHour[hour], records[i])
	}

	out := make([]HourlySummary, 0, len(byHour))
	for hour, recs := range byHour {
		byPhase := depthsByPhase(recs)
		hs := HourlySummary{Hour: hour}
		for _, phase := range policy.Phases() {
			hs.Phases = append(hs.Phases, phaseStats(phase, byPhase[phase]))
		}
		out = append(out, hs)
	}
	return out
}
