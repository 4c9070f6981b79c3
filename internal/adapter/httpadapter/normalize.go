package httpadapter

import (
	"encoding/json"
	"errors"
	"net/http"
	"time"

	sharedobs "github.com/couchcryptid/storm-data-shared/observability"
	"github.com/google/uuid"

	"github.com/erikahunting/white-shark-paina/internal/adapter/csvio"
	"github.com/erikahunting/white-shark-paina/internal/analysis"
	"github.com/erikahunting/white-shark-paina/internal/domain"
	"github.com/erikahunting/white-shark-paina/internal/pipeline"
)

type normalizeResponse struct {
	BatchID     string                    `json:"batch_id"`
	Source      string                    `json:"source"`
	SourceZone  string                    `json:"source_zone"`
	Policy      domain.Policy             `json:"policy"`
	ProcessedAt time.Time                 `json:"processed_at"`
	Records     []domain.NormalizedRecord `json:"records"`
	Summary     []analysis.PhaseSummary   `json:"summary"`
}

type errorResponse struct {
	Error string `json:"error"`
	Label string `json:"label,omitempty"`
}

// handleNormalize reads a tag CSV from the request body and responds with the
// normalized records and a per-phase depth summary.
func (s *Server) handleNormalize(w http.ResponseWriter, r *http.Request) {
	policy := s.opts.DefaultPolicy
	if q := r.URL.Query().Get("policy"); q != "" {
		p, err := domain.ParsePolicy(q)
		if err != nil {
			writeJSON(w, http.StatusBadRequest, errorResponse{Error: err.Error()})
			return
		}
		policy = p
	}
	// Message keys derive from source and row, so unnamed uploads get a
	// unique name.
	source := r.URL.Query().Get("source")
	if source == "" {
		source = "upload-" + uuid.NewString() + ".csv"
	}

	body := r.Body
	if s.opts.MaxUploadBytes > 0 {
		body = http.MaxBytesReader(w, r.Body, s.opts.MaxUploadBytes)
	}

	batch, err := s.normalizer.Process(r.Context(), csvio.NewReaderExtractor(body, source), policy)
	if err != nil {
		status, resp := classifyError(err)
		s.logger.Warn("normalize request failed", "source", source, "status", status, "error", err)
		writeJSON(w, status, resp)
		return
	}

	writeJSON(w, http.StatusOK, normalizeResponse{
		BatchID:     batch.ID,
		Source:      batch.Source,
		SourceZone:  batch.Zone.Label,
		Policy:      batch.Policy,
		ProcessedAt: batch.ProcessedAt,
		Records:     batch.Records,
		Summary:     analysis.Summarize(batch.Records, batch.Policy),
	})
}

func classifyError(err error) (int, errorResponse) {
	var (
		zoneErr  *domain.UnrecognizedTimeZoneError
		loadErr  *pipeline.LoadError
		tooLarge *http.MaxBytesError
	)
	switch {
	case errors.As(err, &zoneErr):
		return http.StatusUnprocessableEntity, errorResponse{Error: err.Error(), Label: zoneErr.Label}
	case errors.As(err, &loadErr):
		return http.StatusBadGateway, errorResponse{Error: err.Error()}
	case errors.As(err, &tooLarge):
		return http.StatusRequestEntityTooLarge, errorResponse{Error: err.Error()}
	default:
		return http.StatusBadRequest, errorResponse{Error: err.Error()}
	}
}

// writeJSON encodes v before any header is written so an encoding failure
// can still become a 500.
func writeJSON(w http.ResponseWriter, status int, v any) {
	data, err := json.Marshal(v)
	if err != nil {
		sharedobs.WriteJSON(w, http.StatusInternalServerError, errorResponse{Error: "encode response: " + err.Error()})
		return
	}
	sharedobs.WriteJSON(w, status, json.RawMessage(data))
}
