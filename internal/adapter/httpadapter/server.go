package httpadapter

import (
	"context"
	"log/slog"
	"net/http"
	"time"

	sharedobs "github.com/couchcryptid/storm-data-shared/observability"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/erikahunting/white-shark-paina/internal/domain"
	"github.com/erikahunting/white-shark-paina/internal/pipeline"
)

// Normalizer runs one uploaded batch through the pipeline.
type Normalizer interface {
	sharedobs.ReadinessChecker
	Process(ctx context.Context, e pipeline.BatchExtractor, policy domain.Policy) (domain.NormalizedBatch, error)
}

// Options configures the normalize endpoint.
type Options struct {
	DefaultPolicy  domain.Policy
	MaxUploadBytes int64
}

// Server exposes the normalize API plus health, readiness, and metrics
// endpoints.
type Server struct {
	httpServer *http.Server
	normalizer Normalizer
	opts       Options
	logger     *slog.Logger
}

// NewServer creates an HTTP server with /healthz, /readyz, /metrics, and
// /v1/normalize routes.
func NewServer(addr string, normalizer Normalizer, opts Options, logger *slog.Logger) *Server {
	mux := http.NewServeMux()

	s := &Server{
		httpServer: &http.Server{
			Addr:         addr,
			Handler:      mux,
			ReadTimeout:  30 * time.Second,
			WriteTimeout: 30 * time.Second,
			IdleTimeout:  60 * time.Second,
		},
		normalizer: normalizer,
		opts:       opts,
		logger:     logger,
	}

	mux.HandleFunc("GET /healthz", sharedobs.LivenessHandler())
	mux.HandleFunc("GET /readyz", sharedobs.ReadinessHandler(normalizer))
	mux.Handle("GET /metrics", promhttp.Handler())
	mux.HandleFunc("POST /v1/normalize", s.handleNormalize)

	return s
}

// Start begins listening. Returns http.ErrServerClosed on graceful shutdown.
func (s *Server) Start() error {
	s.logger.Info("http server starting", "addr", s.httpServer.Addr)
	return s.httpServer.ListenAndServe()
}

// Shutdown gracefully drains connections within the given context deadline.
func (s *Server) Shutdown(ctx context.Context) error {
	return s.httpServer.Shutdown(ctx)
}

// ServeHTTP delegates to the underlying handler, useful for testing.
func (s *Server) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	s.httpServer.Handler.ServeHTTP(w, r)
}
