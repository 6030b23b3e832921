// ABOUTME: HTTP API for the diet log built on gorilla/mux and rs/cors.
// ABOUTME: Exposes records, summaries, targets, preferences, imports and analysis.
package server

import (
	"context"
	"errors"
	"net/http"
	"time"

	"github.com/charmbracelet/log"
	"github.com/gorilla/mux"
	"github.com/harperreed/diet/internal/ingest"
	"github.com/harperreed/diet/internal/narrate"
	"github.com/harperreed/diet/internal/storage"
	"github.com/harperreed/diet/internal/task"
	"github.com/rs/cors"
)

// maxUploadBytes caps the CSV body accepted by POST /api/imports.
const maxUploadBytes = 10 << 20

const shutdownTimeout = 5 * time.Second

// Server serves the JSON API.
type Server struct {
	repo     storage.Repository
	importer *ingest.Importer
	narrator *narrate.Service
	logger   *log.Logger

	// uploadLimit caps the CSV body of one import request.
	uploadLimit int64

	// importGate and analyzeGate admit one import and one analysis at a time.
	importGate  *task.Gate
	analyzeGate *task.Gate
}

// New creates a server over repo. A nil narrator serves offline analysis
// only; a nil logger uses the default logger.
func New(repo storage.Repository, narrator *narrate.Service, logger *log.Logger) *Server {
	if logger == nil {
		logger = log.Default()
	}
	if narrator == nil {
		narrator = narrate.NewService(nil, narrate.WithLogger(logger))
	}
	return &Server{
		repo:        repo,
		importer:    ingest.NewImporter(ingest.WithLogger(logger)),
		narrator:    narrator,
		logger:      logger,
		uploadLimit: maxUploadBytes,
		importGate:  task.NewGate(),
		analyzeGate: task.NewGate(),
	}
}

// Handler returns the routed API wrapped in CORS and access logging.
func (s *Server) Handler() http.Handler {
	r := mux.NewRouter()
	r.MethodNotAllowedHandler = http.HandlerFunc(methodNotAllowed)

	// Routes live on the root router: a subrouter answers a wrong method
	// with 404 instead of 405.
	r.HandleFunc("/api/records", s.handleListRecords).Methods("GET")
	r.HandleFunc("/api/summary", s.handleSummary).Methods("GET")
	r.HandleFunc("/api/targets", s.handleTargets).Methods("GET")
	r.HandleFunc("/api/profile", s.handleGetProfile).Methods("GET")
	r.HandleFunc("/api/profile", s.handlePutProfile).Methods("PUT")
	r.HandleFunc("/api/goals", s.handleGetGoals).Methods("GET")
	r.HandleFunc("/api/goals", s.handlePutGoals).Methods("PUT")
	r.HandleFunc("/api/imports", s.handleListImports).Methods("GET")
	r.HandleFunc("/api/imports", s.handleCreateImport).Methods("POST")
	r.HandleFunc("/api/imports/{id}", s.handleDeleteImport).Methods("DELETE")
	r.HandleFunc("/api/analyze", s.handleAnalyze).Methods("POST")

	c := cors.New(cors.Options{
		AllowedOrigins: []string{"*"},
		AllowedMethods: []string{"GET", "POST", "PUT", "DELETE"},
		AllowedHeaders: []string{"*"},
	})

	return c.Handler(s.loggingMiddleware(r))
}

// ListenAndServe serves on addr until ctx is cancelled, then shuts down
// gracefully.
func (s *Server) ListenAndServe(ctx context.Context, addr string) error {
	srv := &http.Server{
		Addr:              addr,
		Handler:           s.Handler(),
		ReadHeaderTimeout: 10 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		s.logger.Info("server starting", "addr", addr)
		errCh <- srv.ListenAndServe()
	}()

	select {
	case err := <-errCh:
		return err
	case <-ctx.Done():
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		return err
	}
	if err := <-errCh; err != nil && !errors.Is(err, http.ErrServerClosed) {
		return err
	}
	return nil
}
