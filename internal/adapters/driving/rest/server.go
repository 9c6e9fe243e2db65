// Package rest exposes lead enrichment and benchmark analysis over HTTP.
// Routes mirror the hosted enrichment API: GET /, GET /health, POST /enrich
// and GET|POST /test, plus /extract and /rankings over the analysis core.
package rest

import (
	"context"
	"errors"
	"net/http"
	"time"

	"github.com/gorilla/mux"

	"github.com/custodia-labs/leadbench/internal/core/ports/driving"
	"github.com/custodia-labs/leadbench/internal/logger"
)

// ErrMissingEnrichService is returned when the enrich service is not provided.
var ErrMissingEnrichService = errors.New("rest: enrich service is required")

// Ports aggregates the driving ports used by the HTTP server.
type Ports struct {
	// Enrich serves /enrich and /health.
	Enrich driving.EnrichService

	// Analysis serves /extract and /rankings. Optional: those routes
	// answer 503 when nil.
	Analysis driving.AnalysisService
}

// Server is the leadbench HTTP API.
type Server struct {
	router  *mux.Router
	ports   *Ports
	version string
	now     func() time.Time
}

// NewServer creates a server and registers its routes.
func NewServer(ports *Ports, version string) (*Server, error) {
	if ports == nil || ports.Enrich == nil {
		return nil, ErrMissingEnrichService
	}
	if version == "" {
		version = "dev"
	}
	s := &Server{
		router:  mux.NewRouter(),
		ports:   ports,
		version: version,
		now:     time.Now,
	}
	s.setupRoutes()
	return s, nil
}

// Handler returns the root HTTP handler.
func (s *Server) Handler() http.Handler {
	return s.router
}

// Run serves on addr until ctx is cancelled, then shuts down gracefully.
func (s *Server) Run(ctx context.Context, addr string) error {
	httpServer := &http.Server{
		Addr:              addr,
		Handler:           s.router,
		ReadHeaderTimeout: 10 * time.Second,
	}

	go func() {
		<-ctx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		if err := httpServer.Shutdown(shutdownCtx); err != nil {
			logger.Warn("http shutdown: %v", err)
		}
	}()

	logger.Info("http: listening on %s", addr)
	err := httpServer.ListenAndServe()
	if errors.Is(err, http.ErrServerClosed) {
		return nil
	}
	return err
}

func (s *Server) setupRoutes() {
	s.router.Use(s.loggingMiddleware)
	s.router.Use(s.recoveryMiddleware)
	s.router.Use(corsMiddleware)

	s.router.HandleFunc("/", s.handleIndex).Methods(http.MethodGet)
	s.router.HandleFunc("/health", s.handleHealth).Methods(http.MethodGet)
	s.router.HandleFunc("/enrich", s.handleEnrich).Methods(http.MethodPost)
	s.router.HandleFunc("/test", s.handleTest).Methods(http.MethodGet, http.MethodPost)
	s.router.HandleFunc("/extract", s.handleExtract).Methods(http.MethodPost)
	s.router.HandleFunc("/rankings", s.handleRankings).Methods(http.MethodGet)

	// Preflight requests for every route.
	s.router.PathPrefix("/").Methods(http.MethodOptions).HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusNoContent)
	})
}
