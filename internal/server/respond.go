// ABOUTME: JSON response helpers and error-to-status mapping.
// ABOUTME: Typed pipeline errors map to 4xx codes; everything else is a 500.
package server

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"

	"github.com/harperreed/diet/internal/analysis"
	"github.com/harperreed/diet/internal/ingest"
	"github.com/harperreed/diet/internal/models"
	"github.com/harperreed/diet/internal/storage"
	"github.com/harperreed/diet/internal/task"
)

type errorBody struct {
	Error string `json:"error"`
}

// badRequest marks malformed query or body input.
type badRequest struct {
	err error
}

func (e badRequest) Error() string { return e.err.Error() }
func (e badRequest) Unwrap() error { return e.err }

func writeJSON(w http.ResponseWriter, status int, v interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

// statusFor maps an error to its HTTP status.
func statusFor(err error) int {
	var (
		importErr *ingest.ImportError
		aggErr    *analysis.AggregationError
		valErr    *models.ValidationError
		badReq    badRequest
		tooLarge  *http.MaxBytesError
	)
	switch {
	case errors.As(err, &tooLarge):
		return http.StatusRequestEntityTooLarge
	case errors.Is(err, task.ErrBusy):
		return http.StatusConflict
	case errors.As(err, &badReq), errors.As(err, &valErr):
		return http.StatusBadRequest
	case errors.As(err, &importErr), errors.As(err, &aggErr):
		return http.StatusUnprocessableEntity
	case errors.Is(err, storage.ErrNotFound):
		return http.StatusNotFound
	}
	return http.StatusInternalServerError
}

func methodNotAllowed(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusMethodNotAllowed, errorBody{Error: fmt.Sprintf("method %s not allowed on %s", r.Method, r.URL.Path)})
}

func (s *Server) writeError(w http.ResponseWriter, r *http.Request, err error) {
	status := statusFor(err)
	if status == http.StatusInternalServerError {
		s.logger.Error("request failed", "method", r.Method, "path", r.URL.Path, "err", err)
	}
	writeJSON(w, status, errorBody{Error: err.Error()})
}
