package domain

import (
	"errors"
	"testing"
	"time"

	"github.com/jonboulle/clockwork"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func mustZone(t *testing.T, label string) SourceZone {
	t.Helper()
	zone, err := InferSourceZone(label)
	require.NoError(t, err)
	return zone
}

func record(y, mo, d, h, mi, s int) Record {
	return Record{Row: 1, Year: y, Month: mo, Day: d, Hour: h, Minute: mi, Second: s, Depth: 42.5}
}

func TestNormalize_MidnightCrossing(t *testing.T) {
	got, err := Normalize(record(2022, 1, 1, 1, 0, 0), mustZone(t, "Date(UTC-8)"))
	require.NoError(t, err)

	want := time.Date(2021, time.December, 31, 23, 0, 0, 0, CanonicalZone)
	assert.True(t, want.Equal(got.CanonicalTime), "got %s", got.CanonicalTime)
	assert.Equal(t, 2021, got.CanonicalTime.Year())
	assert.Equal(t, time.December, got.CanonicalTime.Month())
	assert.Equal(t, 31, got.CanonicalTime.Day())
	assert.Equal(t, 23, got.CanonicalHour)
	assert.Equal(t, CanonicalZone, got.CanonicalTime.Location())
}

func TestNormalize(t *testing.T) {
	tests := []struct {
		name  string
		label string
		rec   Record
		want  time.Time
	}{
		{
			name:  "utc afternoon",
			label: "Date",
			rec:   record(2022, 5, 10, 15, 30, 12),
			want:  time.Date(2022, 5, 10, 5, 30, 12, 0, CanonicalZone),
		},
		{
			name:  "utc early morning rolls back a day",
			label: "Date",
			rec:   record(2022, 5, 10, 3, 0, 0),
			want:  time.Date(2022, 5, 9, 17, 0, 0, 0, CanonicalZone),
		},
		{
			name:  "mislabeled EST is treated as utc",
			label: "Date(EST)",
			rec:   record(2022, 5, 10, 10, 0, 0),
			want:  time.Date(2022, 5, 10, 0, 0, 0, 0, CanonicalZone),
		},
		{
			name:  "utc-8 same day",
			label: "Date(UTC-8)",
			rec:   record(2022, 5, 10, 12, 0, 0),
			want:  time.Date(2022, 5, 10, 10, 0, 0, 0, CanonicalZone),
		},
		{
			name:  "utc-8 year boundary",
			label: "Date(UTC-8)",
			rec:   record(2023, 1, 1, 0, 59, 59),
			want:  time.Date(2022, 12, 31, 22, 59, 59, 0, CanonicalZone),
		},
		{
			name:  "leap day",
			label: "Date",
			rec:   record(2024, 3, 1, 4, 0, 0),
			want:  time.Date(2024, 2, 29, 18, 0, 0, 0, CanonicalZone),
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := Normalize(tt.rec, mustZone(t, tt.label))
			require.NoError(t, err)
			assert.True(t, tt.want.Equal(got.CanonicalTime), "want %s, got %s", tt.want, got.CanonicalTime)
			assert.Equal(t, tt.want.Hour(), got.CanonicalHour)
			assert.Equal(t, tt.want.Day(), got.CanonicalTime.Day())
			assert.Equal(t, tt.rec, got.Record)
			assert.Empty(t, got.Phase)
		})
	}
}

func TestNormalize_HourAlwaysInRange(t *testing.T) {
	for _, label := range KnownDateLabels() {
		zone := mustZone(t, label)
		for hour := 0; hour < 24; hour++ {
			got, err := Normalize(record(2022, 3, 1, hour, 0, 0), zone)
			require.NoError(t, err)
			assert.GreaterOrEqual(t, got.CanonicalHour, 0)
			assert.LessOrEqual(t, got.CanonicalHour, 23)
		}
	}
}

func TestNormalize_Monotonic(t *testing.T) {
	zone := mustZone(t, "Date(UTC-8)")
	start := time.Date(2022, time.February, 27, 20, 0, 0, 0, zone.Location)

	var prev time.Time
	for i := 0; i < 24*4*3; i++ {
		ts := start.Add(time.Duration(i) * 15 * time.Minute)
		rec := record(ts.Year(), int(ts.Month()), ts.Day(), ts.Hour(), ts.Minute(), ts.Second())

		got, err := Normalize(rec, zone)
		require.NoError(t, err)
		if i > 0 {
			require.True(t, got.CanonicalTime.After(prev), "step %d: %s not after %s", i, got.CanonicalTime, prev)
		}
		prev = got.CanonicalTime
	}
}

func TestNormalize_UnresolvedZone(t *testing.T) {
	_, err := Normalize(record(2022, 1, 1, 0, 0, 0), SourceZone{Label: "Date(PST)"})
	var tzErr *UnrecognizedTimeZoneError
	require.ErrorAs(t, err, &tzErr)
	assert.Equal(t, "Date(PST)", tzErr.Label)
}

func TestNormalize_InvalidFields(t *testing.T) {
	zone := mustZone(t, "Date")

	tests := []struct {
		name   string
		rec    Record
		target error
	}{
		{"hour 24", record(2022, 1, 1, 24, 0, 0), ErrInvalidHour},
		{"negative hour", record(2022, 1, 1, -1, 0, 0), ErrInvalidHour},
		{"month 13", record(2022, 13, 1, 0, 0, 0), ErrInvalidRecord},
		{"month 0", record(2022, 0, 1, 0, 0, 0), ErrInvalidRecord},
		{"february 29 non-leap", record(2022, 2, 29, 0, 0, 0), ErrInvalidRecord},
		{"day 0", record(2022, 1, 0, 0, 0, 0), ErrInvalidRecord},
		{"minute 60", record(2022, 1, 1, 0, 60, 0), ErrInvalidRecord},
		{"second 60", record(2022, 1, 1, 0, 0, 60), ErrInvalidRecord},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := Normalize(tt.rec, zone)
			require.Error(t, err)
			assert.True(t, errors.Is(err, tt.target), "got %v", err)
		})
	}
}

func TestNormalizeBatch(t *testing.T) {
	fakeClock := clockwork.NewFakeClockAt(time.Date(2022, time.June, 1, 8, 0, 0, 0, time.UTC))
	SetClock(fakeClock)
	t.Cleanup(func() { SetClock(nil) })

	batch := Batch{
		ID:         "batch-1",
		Source:     "shark-07.csv",
		Header:     []string{"Date(UTC-8)", "Time", "Depth(m)"},
		DateColumn: "Date(UTC-8)",
		Records: []Record{
			{Row: 1, Year: 2022, Month: 1, Day: 1, Hour: 1, Depth: 10},
			{Row: 2, Year: 2022, Month: 1, Day: 1, Hour: 9, Depth: 250.5},
			{Row: 3, Year: 2022, Month: 1, Day: 1, Hour: 20, Depth: 30},
		},
	}

	t.Run("quaternary", func(t *testing.T) {
		got, err := NormalizeBatch(batch, PolicyQuaternary)
		require.NoError(t, err)

		assert.Equal(t, "batch-1", got.ID)
		assert.Equal(t, "shark-07.csv", got.Source)
		assert.Equal(t, "Date(UTC-8)", got.Zone.Label)
		assert.Equal(t, PolicyQuaternary, got.Policy)
		assert.Equal(t, fakeClock.Now(), got.ProcessedAt)
		require.Len(t, got.Records, 3)

		assert.Equal(t, 23, got.Records[0].CanonicalHour)
		assert.Equal(t, PhaseNight, got.Records[0].Phase)
		assert.Equal(t, 7, got.Records[1].CanonicalHour)
		assert.Equal(t, PhaseDay, got.Records[1].Phase)
		assert.Equal(t, 18, got.Records[2].CanonicalHour)
		assert.Equal(t, PhaseDusk, got.Records[2].Phase)
	})

	t.Run("binary", func(t *testing.T) {
		got, err := NormalizeBatch(batch, PolicyBinary)
		require.NoError(t, err)
		require.Len(t, got.Records, 3)

		assert.Equal(t, PhaseNightBinary, got.Records[0].Phase)
		assert.Equal(t, PhaseDayBinary, got.Records[1].Phase)
		assert.Equal(t, PhaseNightBinary, got.Records[2].Phase)
	})

	t.Run("input batch untouched", func(t *testing.T) {
		_, err := NormalizeBatch(batch, PolicyBinary)
		require.NoError(t, err)
		assert.Equal(t, 1, batch.Records[0].Hour)
	})
}

func TestNormalizeBatch_UnrecognizedZone(t *testing.T) {
	batch := Batch{
		Source:     "shark-09.csv",
		DateColumn: "Date(PST)",
		Records:    []Record{record(2022, 1, 1, 0, 0, 0)},
	}

	got, err := NormalizeBatch(batch, PolicyQuaternary)
	var tzErr *UnrecognizedTimeZoneError
	require.ErrorAs(t, err, &tzErr)
	assert.Equal(t, "Date(PST)", tzErr.Label)
	assert.Contains(t, err.Error(), "shark-09.csv")
	assert.Empty(t, got.Records)
}

func TestNormalizeBatch_AllOrNothing(t *testing.T) {
	bad := record(2022, 1, 1, 25, 0, 0)
	bad.Row = 2
	batch := Batch{
		Source:     "shark-10.csv",
		DateColumn: "Date",
		Records:    []Record{record(2022, 1, 1, 0, 0, 0), bad, record(2022, 1, 1, 2, 0, 0)},
	}

	got, err := NormalizeBatch(batch, PolicyBinary)
	require.Error(t, err)
	assert.True(t, errors.Is(err, ErrInvalidHour))
	assert.Contains(t, err.Error(), "row 2")
	assert.Nil(t, got.Records)
}

func TestNormalizeBatch_UnknownPolicy(t *testing.T) {
	_, err := NormalizeBatch(Batch{DateColumn: "Date"}, Policy("hourly"))
	require.Error(t, err)
	assert.Contains(t, err.Error(), "hourly")
}
