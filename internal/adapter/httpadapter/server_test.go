package httpadapter_test

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"math"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/erikahunting/white-shark-paina/internal/adapter/httpadapter"
	"github.com/erikahunting/white-shark-paina/internal/domain"
	"github.com/erikahunting/white-shark-paina/internal/observability"
	"github.com/erikahunting/white-shark-paina/internal/pipeline"
)

const utc8CSV = `Date(UTC-8),Time,Depth(m),Year,Month,Day,Hour,Min,Sec
01/01/2022,01:00:00,14.0,2022,1,1,1,0,0
01/01/2022,09:00:00,250.5,2022,1,1,9,0,0
`

type fixedNormalizer struct {
	batch domain.NormalizedBatch
}

func (f fixedNormalizer) CheckReadiness(_ context.Context) error { return nil }

func (f fixedNormalizer) Process(_ context.Context, _ pipeline.BatchExtractor, _ domain.Policy) (domain.NormalizedBatch, error) {
	return f.batch, nil
}

type failingLoader struct{}

func (failingLoader) Name() string { return "kafka" }

func (failingLoader) LoadBatch(_ context.Context, _ domain.NormalizedBatch) error {
	return errors.New("broker unavailable")
}

type notReady struct {
	*pipeline.Service
	err error
}

func (n notReady) CheckReadiness(_ context.Context) error { return n.err }

func newService(loaders ...pipeline.BatchLoader) *pipeline.Service {
	return pipeline.NewService(loaders, slog.Default(), observability.NewMetricsForTesting(), 1)
}

func newTestServer(n httpadapter.Normalizer) *httpadapter.Server {
	return httpadapter.NewServer(":0", n, httpadapter.Options{
		DefaultPolicy:  domain.PolicyQuaternary,
		MaxUploadBytes: 1 << 20,
	}, slog.Default())
}

func postCSV(srv *httpadapter.Server, query, body string) *httptest.ResponseRecorder {
	rec := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodPost, "/v1/normalize"+query, strings.NewReader(body))
	req.Header.Set("Content-Type", "text/csv")
	srv.ServeHTTP(rec, req)
	return rec
}

func TestHealthzReturns200(t *testing.T) {
	srv := newTestServer(newService())
	rec := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, "/healthz", nil)

	srv.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusOK, rec.Code)

	var body map[string]string
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	assert.Equal(t, "healthy", body["status"])
}

func TestReadyzReturns200WhenReady(t *testing.T) {
	srv := newTestServer(newService())
	rec := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, "/readyz", nil)

	srv.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusOK, rec.Code)
}

func TestReadyzReturns503WhenNotReady(t *testing.T) {
	srv := newTestServer(notReady{Service: newService(), err: fmt.Errorf("kafka not ready")})
	rec := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, "/readyz", nil)

	srv.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusServiceUnavailable, rec.Code)

	var body map[string]string
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	assert.Equal(t, "kafka not ready", body["error"])
}

func TestMetricsEndpoint(t *testing.T) {
	srv := newTestServer(newService())
	rec := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, "/metrics", nil)

	srv.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), "go_goroutines")
}

func TestNormalize_DefaultPolicy(t *testing.T) {
	srv := newTestServer(newService())

	rec := postCSV(srv, "?source=tag-42.csv", utc8CSV)
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())

	var body struct {
		Source     string `json:"source"`
		SourceZone string `json:"source_zone"`
		Policy     string `json:"policy"`
		Records    []struct {
			Row           int    `json:"row"`
			CanonicalTime string `json:"canonical_time"`
			CanonicalHour int    `json:"canonical_hour"`
			Phase         string `json:"phase"`
		} `json:"records"`
		Summary []struct {
			Phase string `json:"phase"`
			Count int    `json:"count"`
		} `json:"summary"`
	}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))

	assert.Equal(t, "tag-42.csv", body.Source)
	assert.Equal(t, "Date(UTC-8)", body.SourceZone)
	assert.Equal(t, "quaternary", body.Policy)
	require.Len(t, body.Records, 2)
	assert.Equal(t, "2021-12-31T23:00:00-10:00", body.Records[0].CanonicalTime)
	assert.Equal(t, 23, body.Records[0].CanonicalHour)
	assert.Equal(t, "Night", body.Records[0].Phase)
	assert.Equal(t, "Day", body.Records[1].Phase)
	assert.Len(t, body.Summary, 4)
}

func TestNormalize_BinaryPolicy(t *testing.T) {
	srv := newTestServer(newService())

	rec := postCSV(srv, "?policy=binary", utc8CSV)
	require.Equal(t, http.StatusOK, rec.Code)

	var body map[string]any
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	assert.Equal(t, "binary", body["policy"])
	assert.Len(t, body["summary"], 2)
}

func TestNormalize_UnknownPolicy(t *testing.T) {
	srv := newTestServer(newService())

	rec := postCSV(srv, "?policy=lunar", utc8CSV)
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestNormalize_UnrecognizedZone(t *testing.T) {
	srv := newTestServer(newService())

	rec := postCSV(srv, "", strings.Replace(utc8CSV, "Date(UTC-8)", "Date(PST)", 1))
	assert.Equal(t, http.StatusUnprocessableEntity, rec.Code)

	var body map[string]string
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	assert.Equal(t, "Date(PST)", body["label"])
	assert.Contains(t, body["error"], "Date(PST)")
}

func TestNormalize_BadInput(t *testing.T) {
	srv := newTestServer(newService())

	tests := map[string]string{
		"empty":          "",
		"missing column": "Date,Depth(m)\n01/01/2022,10\n",
		"NaN depth":      strings.Replace(utc8CSV, "14.0", "NaN", 1),
		"infinite depth": strings.Replace(utc8CSV, "250.5", "+Inf", 1),
		"invalid hour":   strings.Replace(utc8CSV, "2022,1,1,9,0,0", "2022,1,1,24,0,0", 1),
	}
	for name, body := range tests {
		t.Run(name, func(t *testing.T) {
			rec := postCSV(srv, "", body)
			assert.Equal(t, http.StatusBadRequest, rec.Code)
		})
	}
}

func TestNormalize_UploadTooLarge(t *testing.T) {
	srv := newTestServer(newService())

	var b strings.Builder
	b.WriteString(utc8CSV)
	for b.Len() <= 1<<20 {
		b.WriteString("01/01/2022,09:00:00,250.5,2022,1,1,9,0,0\n")
	}

	rec := postCSV(srv, "", b.String())
	assert.Equal(t, http.StatusRequestEntityTooLarge, rec.Code)

	var body map[string]string
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	assert.Contains(t, body["error"], "request body too large")
}

func TestNormalize_UnnamedUploadsGetDistinctSources(t *testing.T) {
	srv := newTestServer(newService())

	sources := make([]string, 0, 2)
	for range 2 {
		rec := postCSV(srv, "", utc8CSV)
		require.Equal(t, http.StatusOK, rec.Code)

		var body map[string]any
		require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
		source, _ := body["source"].(string)
		assert.True(t, strings.HasPrefix(source, "upload-"), source)
		assert.True(t, strings.HasSuffix(source, ".csv"), source)
		sources = append(sources, source)
	}
	assert.NotEqual(t, sources[0], sources[1])
}

func TestNormalize_UnencodableResultReturns500(t *testing.T) {
	batch := domain.NormalizedBatch{
		ID:      "batch-1",
		Policy:  domain.PolicyBinary,
		Records: []domain.NormalizedRecord{{Record: domain.Record{Row: 1, Depth: math.NaN()}, Phase: domain.PhaseDayBinary}},
	}
	srv := newTestServer(fixedNormalizer{batch: batch})

	rec := postCSV(srv, "", utc8CSV)
	assert.Equal(t, http.StatusInternalServerError, rec.Code)

	var body map[string]string
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	assert.Contains(t, body["error"], "encode response")
}

func TestNormalize_LoaderFailure(t *testing.T) {
	srv := newTestServer(newService(failingLoader{}))

	rec := postCSV(srv, "", utc8CSV)
	assert.Equal(t, http.StatusBadGateway, rec.Code)
}

func TestNormalize_MethodNotAllowed(t *testing.T) {
	srv := newTestServer(newService())
	rec := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, "/v1/normalize", nil)

	srv.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusMethodNotAllowed, rec.Code)
}
