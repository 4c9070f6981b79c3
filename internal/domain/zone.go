package domain

import "time"

// Date-column labels with a known source zone.
const (
	LabelDateUTCMinus8 = "Date(UTC-8)"
	LabelDateEST       = "Date(EST)"
	LabelDate          = "Date"
)

var (
	// CanonicalZone is Hawaii standard time. It is a fixed offset so there
	// are no daylight-saving transitions to reason about.
	CanonicalZone = time.FixedZone("HST", -10*60*60)

	utcMinus8 = time.FixedZone("UTC-8", -8*60*60)

	// sourceZones is closed: a new export format needs a new entry here.
	sourceZones = map[string]*time.Location{
		LabelDateUTCMinus8: utcMinus8,
		LabelDateEST:       time.UTC, // mislabeled upstream, timestamps are UTC
		LabelDate:          time.UTC,
	}
)

// SourceZone is the zone convention of a batch, inferred from its date-column
// label. The zero value is unresolved and fails normalization.
type SourceZone struct {
	Label    string
	Location *time.Location
}

func (z SourceZone) String() string {
	if z.Location == nil {
		return z.Label + " (unresolved)"
	}
	return z.Label + " (" + z.Location.String() + ")"
}

// InferSourceZone maps a date-column label to its source zone. Matching is
// exact and case-sensitive; unknown labels fail with *UnrecognizedTimeZoneError.
func InferSourceZone(label string) (SourceZone, error) {
	loc, ok := sourceZones[label]
	if !ok {
		return SourceZone{}, &UnrecognizedTimeZoneError{Label: label}
	}
	return SourceZone{Label: label, Location: loc}, nil
}

// KnownDateLabels returns the recognized date-column labels.
func KnownDateLabels() []string {
	return []string{LabelDateUTCMinus8, LabelDateEST, LabelDate}
}
