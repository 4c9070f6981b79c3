package domain

import (
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func offsetOf(loc *time.Location) int {
	_, offset := time.Date(2022, time.July, 1, 12, 0, 0, 0, loc).Zone()
	return offset
}

func TestInferSourceZone(t *testing.T) {
	tests := []struct {
		label  string
		offset int
	}{
		{"Date(UTC-8)", -8 * 3600},
		{"Date(EST)", 0},
		{"Date", 0},
	}

	for _, tt := range tests {
		t.Run(tt.label, func(t *testing.T) {
			zone, err := InferSourceZone(tt.label)
			require.NoError(t, err)
			assert.Equal(t, tt.label, zone.Label)
			require.NotNil(t, zone.Location)
			assert.Equal(t, tt.offset, offsetOf(zone.Location))
		})
	}
}

func TestInferSourceZone_UTCMinus8IsFixed(t *testing.T) {
	zone, err := InferSourceZone("Date(UTC-8)")
	require.NoError(t, err)

	_, winter := time.Date(2022, time.January, 15, 12, 0, 0, 0, zone.Location).Zone()
	_, summer := time.Date(2022, time.July, 15, 12, 0, 0, 0, zone.Location).Zone()
	assert.Equal(t, -8*3600, winter)
	assert.Equal(t, winter, summer)
}

func TestInferSourceZone_ESTIsUTC(t *testing.T) {
	zone, err := InferSourceZone("Date(EST)")
	require.NoError(t, err)
	assert.Same(t, time.UTC, zone.Location)
}

func TestInferSourceZone_Unrecognized(t *testing.T) {
	for _, label := range []string{"Date(PST)", "date", "DATE", "Date(UTC-10)", "", " Date"} {
		t.Run(label, func(t *testing.T) {
			_, err := InferSourceZone(label)
			var tzErr *UnrecognizedTimeZoneError
			require.ErrorAs(t, err, &tzErr)
			assert.Equal(t, label, tzErr.Label)
			assert.True(t, errors.Is(err, ErrUnrecognizedTimeZone))
		})
	}
}

func TestInferSourceZone_Pure(t *testing.T) {
	for _, label := range KnownDateLabels() {
		first, err := InferSourceZone(label)
		require.NoError(t, err)
		second, err := InferSourceZone(label)
		require.NoError(t, err)
		assert.Equal(t, first, second)
		assert.Same(t, first.Location, second.Location)
	}
}

func TestCanonicalZone(t *testing.T) {
	assert.Equal(t, -10*3600, offsetOf(CanonicalZone))

	_, winter := time.Date(2022, time.January, 15, 12, 0, 0, 0, CanonicalZone).Zone()
	assert.Equal(t, -10*3600, winter)
}

func TestSourceZone_String(t *testing.T) {
	zone, err := InferSourceZone("Date(UTC-8)")
	require.NoError(t, err)
	assert.Equal(t, "Date(UTC-8) (UTC-8)", zone.String())
	assert.Equal(t, "Date(PST) (unresolved)", SourceZone{Label: "Date(PST)"}.String())
}
