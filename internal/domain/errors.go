package domain

import (
	"errors"
	"fmt"
)

var (
	// ErrUnrecognizedTimeZone matches any *UnrecognizedTimeZoneError via errors.Is.
	ErrUnrecognizedTimeZone = errors.New("unrecognized time zone")

	// ErrInvalidHour matches any *InvalidHourError via errors.Is.
	ErrInvalidHour = errors.New("invalid hour")

	// ErrInvalidRecord matches any *InvalidRecordError via errors.Is.
	ErrInvalidRecord = errors.New("invalid record")
)

// UnrecognizedTimeZoneError reports a date-column label outside the source
// zone table. It is fatal to the whole batch.
type UnrecognizedTimeZoneError struct {
	Label string
}

func (e *UnrecognizedTimeZoneError) Error() string {
	return fmt.Sprintf("cannot process time zone of date column %q", e.Label)
}

func (e *UnrecognizedTimeZoneError) Is(target error) bool {
	return target == ErrUnrecognizedTimeZone
}

// InvalidHourError reports an hour outside 0-23.
type InvalidHourError struct {
	Hour int
}

func (e *InvalidHourError) Error() string {
	return fmt.Sprintf("hour %d out of range 0-23", e.Hour)
}

func (e *InvalidHourError) Is(target error) bool {
	return target == ErrInvalidHour
}

// InvalidRecordError reports a calendar or clock field that time.Date would
// otherwise silently roll over (month 13, minute 75, February 30).
type InvalidRecordError struct {
	Row   int
	Field string
	Value int
}

func (e *InvalidRecordError) Error() string {
	return fmt.Sprintf("row %d: %s %d out of range", e.Row, e.Field, e.Value)
}

func (e *InvalidRecordError) Is(target error) bool {
	return target == ErrInvalidRecord
}
