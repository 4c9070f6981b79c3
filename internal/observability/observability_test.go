package observability

import (
	"testing"

	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewMetricsForTesting_Isolated(t *testing.T) {
	a := NewMetricsForTesting()
	b := NewMetricsForTesting()

	a.RecordsIngested.Add(5)
	assert.InDelta(t, 5.0, testutil.ToFloat64(a.RecordsIngested), 0)
	assert.InDelta(t, 0.0, testutil.ToFloat64(b.RecordsIngested), 0)

	families, err := a.Gatherer().Gather()
	require.NoError(t, err)
	names := make([]string, 0, len(families))
	for _, f := range families {
		names = append(names, f.GetName())
	}
	assert.Contains(t, names, "paina_records_ingested_total")
}
