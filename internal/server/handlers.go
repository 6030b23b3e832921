// ABOUTME: HTTP handlers for the diet API.
// ABOUTME: Imports and analyses run as gated background tasks.
package server

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strconv"
	"strings"

	"github.com/gorilla/mux"
	"github.com/harperreed/diet/internal/models"
	"github.com/harperreed/diet/internal/narrate"
	"github.com/harperreed/diet/internal/report"
	"github.com/harperreed/diet/internal/task"
)

const defaultUploadName = "upload.csv"

// filterFromQuery reads from, to, q and limit.
func filterFromQuery(r *http.Request) (models.RecordFilter, error) {
	q := r.URL.Query()

	limit := 0
	if v := q.Get("limit"); v != "" {
		n, err := strconv.Atoi(v)
		if err != nil || n < 0 {
			return models.RecordFilter{}, badRequest{fmt.Errorf("invalid limit %q", v)}
		}
		limit = n
	}

	f, err := models.ParseRecordFilter(q.Get("from"), q.Get("to"), q.Get("q"), limit)
	if err != nil {
		return models.RecordFilter{}, badRequest{err}
	}
	return f, nil
}

func (s *Server) handleListRecords(w http.ResponseWriter, r *http.Request) {
	filter, err := filterFromQuery(r)
	if err != nil {
		s.writeError(w, r, err)
		return
	}

	records, err := s.repo.ListRecords(filter)
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	if records == nil {
		records = []models.NutritionRecord{}
	}
	writeJSON(w, http.StatusOK, records)
}

func (s *Server) handleSummary(w http.ResponseWriter, r *http.Request) {
	filter, err := filterFromQuery(r)
	if err != nil {
		s.writeError(w, r, err)
		return
	}

	rep, err := report.Build(s.repo, filter)
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, rep)
}

func (s *Server) handleTargets(w http.ResponseWriter, r *http.Request) {
	_, _, t, err := report.Preferences(s.repo)
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, t)
}

func (s *Server) handleGetProfile(w http.ResponseWriter, r *http.Request) {
	p, err := s.repo.LoadProfile()
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, p)
}

func (s *Server) handlePutProfile(w http.ResponseWriter, r *http.Request) {
	p, err := s.repo.LoadProfile()
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	// Fields absent from the body keep their stored values.
	if err := decodeBody(r, &p); err != nil {
		s.writeError(w, r, err)
		return
	}
	p, err = p.Normalize()
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	if err := s.repo.SaveProfile(p); err != nil {
		s.writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, p)
}

func (s *Server) handleGetGoals(w http.ResponseWriter, r *http.Request) {
	g, err := s.repo.LoadGoals()
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, g)
}

func (s *Server) handlePutGoals(w http.ResponseWriter, r *http.Request) {
	g, err := s.repo.LoadGoals()
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	if err := decodeBody(r, &g); err != nil {
		s.writeError(w, r, err)
		return
	}
	g, err = g.Normalize()
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	if err := s.repo.SaveGoals(g); err != nil {
		s.writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, g)
}

func (s *Server) handleListImports(w http.ResponseWriter, r *http.Request) {
	limit := 20
	if v := r.URL.Query().Get("limit"); v != "" {
		n, err := strconv.Atoi(v)
		if err != nil || n <= 0 {
			s.writeError(w, r, badRequest{fmt.Errorf("invalid limit %q", v)})
			return
		}
		limit = n
	}

	batches, err := s.repo.ListImports(limit)
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	if batches == nil {
		batches = []*models.ImportBatch{}
	}
	writeJSON(w, http.StatusOK, batches)
}

type importResponse struct {
	Import  *models.ImportBatch `json:"import"`
	Skipped []skippedRow        `json:"skipped"`
}

type skippedRow struct {
	Line  int    `json:"line"`
	Error string `json:"error"`
}

// handleCreateImport parses the CSV request body and stores it as one batch.
func (s *Server) handleCreateImport(w http.ResponseWriter, r *http.Request) {
	name := strings.TrimSpace(r.URL.Query().Get("name"))
	if name == "" {
		name = defaultUploadName
	}

	release, err := s.importGate.TryEnter()
	if err != nil {
		s.writeError(w, r, err)
		return
	}

	body, err := io.ReadAll(http.MaxBytesReader(w, r.Body, s.uploadLimit))
	if err != nil {
		release()
		var tooLarge *http.MaxBytesError
		if errors.As(err, &tooLarge) {
			s.writeError(w, r, err)
			return
		}
		s.writeError(w, r, badRequest{fmt.Errorf("read body: %w", err)})
		return
	}

	resp, err := task.Wait(r.Context(), func(ctx context.Context) (*importResponse, error) {
		defer release()

		res, err := s.importer.Import(ctx, name, bytes.NewReader(body))
		if err != nil {
			return nil, err
		}
		batch := res.Batch()
		if err := s.repo.SaveImport(batch, res.Records); err != nil {
			return nil, fmt.Errorf("save import: %w", err)
		}

		out := &importResponse{Import: batch, Skipped: []skippedRow{}}
		for _, sk := range res.Skipped {
			out.Skipped = append(out.Skipped, skippedRow{Line: sk.Line, Error: sk.Err.Error()})
		}
		return out, nil
	})
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusCreated, resp)
}

func (s *Server) handleDeleteImport(w http.ResponseWriter, r *http.Request) {
	id := mux.Vars(r)["id"]
	if err := s.repo.DeleteImport(id); err != nil {
		s.writeError(w, r, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

type analyzeResponse struct {
	narrate.Result
	Error string `json:"error,omitempty"`
}

// handleAnalyze narrates the filtered report. Collaborator failures still
// produce a 200 with the offline text; the failure is reported in "error".
func (s *Server) handleAnalyze(w http.ResponseWriter, r *http.Request) {
	filter, err := filterFromQuery(r)
	if err != nil {
		s.writeError(w, r, err)
		return
	}

	release, err := s.analyzeGate.TryEnter()
	if err != nil {
		s.writeError(w, r, err)
		return
	}

	res, err := task.Wait(r.Context(), func(ctx context.Context) (narrate.Result, error) {
		defer release()

		rep, err := report.Build(s.repo, filter)
		if err != nil {
			return narrate.Result{}, err
		}
		return s.narrator.Analyze(ctx, rep.Payload()), nil
	})
	if err != nil {
		s.writeError(w, r, err)
		return
	}

	out := analyzeResponse{Result: res}
	if res.Err != nil {
		out.Error = res.Err.Error()
	}
	writeJSON(w, http.StatusOK, out)
}

func decodeBody(r *http.Request, v interface{}) error {
	dec := json.NewDecoder(r.Body)
	dec.DisallowUnknownFields()
	if err := dec.Decode(v); err != nil {
		return badRequest{fmt.Errorf("invalid JSON body: %w", err)}
	}
	return nil
}
