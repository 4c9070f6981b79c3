package domain

import (
	"fmt"
	"time"
)

// Normalize converts a record's source-zone timestamp to the canonical zone.
//
// The naive (year, month, day, hour, minute, second) tuple is read as an
// instant in zone and converted with time.Time.In, never by subtracting hours,
// so the calendar date rolls back or forward with the offset change. The
// returned record has no phase; see [NormalizeBatch].
func Normalize(rec Record, zone SourceZone) (NormalizedRecord, error) {
	if zone.Location == nil {
		return NormalizedRecord{}, &UnrecognizedTimeZoneError{Label: zone.Label}
	}
	if err := validateRecord(rec); err != nil {
		return NormalizedRecord{}, err
	}

	source := time.Date(rec.Year, time.Month(rec.Month), rec.Day,
		rec.Hour, rec.Minute, rec.Second, 0, zone.Location)
	canonical := source.In(CanonicalZone)

	return NormalizedRecord{
		Record:        rec,
		CanonicalTime: canonical,
		CanonicalHour: canonical.Hour(),
	}, nil
}

// NormalizeBatch infers the batch's source zone, then normalizes and
// classifies every record under policy. Any failure aborts the batch: the
// caller gets either every record or none.
func NormalizeBatch(batch Batch, policy Policy) (NormalizedBatch, error) {
	if policy.Phases() == nil {
		return NormalizedBatch{}, fmt.Errorf("normalize batch %s: unknown day phase policy %q", batch.Source, string(policy))
	}

	zone, err := InferSourceZone(batch.DateColumn)
	if err != nil {
		return NormalizedBatch{}, fmt.Errorf("normalize batch %s: %w", batch.Source, err)
	}

	records := make([]NormalizedRecord, 0, len(batch.Records))
	for _, rec := range batch.Records {
		n, err := Normalize(rec, zone)
		if err != nil {
			return NormalizedBatch{}, fmt.Errorf("normalize batch %s: row %d: %w", batch.Source, rec.Row, err)
		}
		n.Phase, err = policy.Classify(n.CanonicalHour)
		if err != nil {
			return NormalizedBatch{}, fmt.Errorf("normalize batch %s: row %d: %w", batch.Source, rec.Row, err)
		}
		records = append(records, n)
	}

	return NormalizedBatch{
		ID:          batch.ID,
		Source:      batch.Source,
		Header:      batch.Header,
		Zone:        zone,
		Policy:      policy,
		Records:     records,
		ProcessedAt: clock.Now(),
	}, nil
}

// validateRecord rejects fields that time.Date would normalize into a
// different instant instead of failing.
func validateRecord(rec Record) error {
	if err := validateHour(rec.Hour); err != nil {
		return err
	}
	if rec.Month < 1 || rec.Month > 12 {
		return &InvalidRecordError{Row: rec.Row, Field: "month", Value: rec.Month}
	}
	if rec.Day < 1 || rec.Day > daysIn(rec.Year, time.Month(rec.Month)) {
		return &InvalidRecordError{Row: rec.Row, Field: "day", Value: rec.Day}
	}
	if rec.Minute < 0 || rec.Minute > 59 {
		return &InvalidRecordError{Row: rec.Row, Field: "minute", Value: rec.Minute}
	}
	if rec.Second < 0 || rec.Second > 59 {
		return &InvalidRecordError{Row: rec.Row, Field: "second", Value: rec.Second}
	}
	return nil
}

// daysIn returns the number of days in month m of year y.
func daysIn(y int, m time.Month) int {
	return time.Date(y, m+1, 0, 0, 0, 0, 0, time.UTC).Day()
}
