package server

import (
	"encoding/json"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/rs/zerolog/log"
)

// handleAsk runs the full pipeline for a natural-language prompt and
// returns the terminal record. Runs are serialized by the orchestrator,
// so concurrent requests queue here.
func (s *Server) handleAsk(w http.ResponseWriter, r *http.Request) {
	var req struct {
		Prompt string `json:"prompt"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil || req.Prompt == "" {
		writeError(w, http.StatusBadRequest, "a non-empty prompt is required")
		return
	}

	rec := s.orch.Run(r.Context(), req.Prompt)
	writeJSON(w, http.StatusOK, rec)
}

// handleManual runs user-supplied SQL through compliance and execution.
func (s *Server) handleManual(w http.ResponseWriter, r *http.Request) {
	var req struct {
		SQL string `json:"sql"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil || req.SQL == "" {
		writeError(w, http.StatusBadRequest, "a non-empty sql field is required")
		return
	}

	rec := s.orch.RunManual(r.Context(), req.SQL)
	writeJSON(w, http.StatusOK, rec)
}

func (s *Server) handleListHistory(w http.ResponseWriter, _ *http.Request) {
	h := s.orch.History()
	writeJSON(w, http.StatusOK, map[string]interface{}{
		"records":    h.Records(),
		"total_cost": h.TotalCost(),
	})
}

func (s *Server) handleGetRecord(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")
	rec, ok := s.orch.History().Get(id)
	if !ok {
		writeError(w, http.StatusNotFound, "no record with that id")
		return
	}
	writeJSON(w, http.StatusOK, rec)
}

func (s *Server) handleDeleteRecord(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")
	if !s.orch.History().Delete(id) {
		writeError(w, http.StatusNotFound, "no record with that id")
		return
	}
	writeJSON(w, http.StatusOK, map[string]string{"deleted": id})
}

func (s *Server) handleVisualize(w http.ResponseWriter, r *http.Request) {
	var req struct {
		Request string `json:"request"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil || req.Request == "" {
		writeError(w, http.StatusBadRequest, "a non-empty request field is required")
		return
	}

	artifact, err := s.orch.Visualize(r.Context(), chi.URLParam(r, "id"), req.Request)
	if err != nil {
		writeError(w, http.StatusNotFound, err.Error())
		return
	}
	writeJSON(w, http.StatusOK, artifact)
}

func (s *Server) handleAnalyze(w http.ResponseWriter, r *http.Request) {
	var req struct {
		Question string `json:"question"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil || req.Question == "" {
		writeError(w, http.StatusBadRequest, "a non-empty question field is required")
		return
	}

	artifact, err := s.orch.Analyze(r.Context(), chi.URLParam(r, "id"), req.Question)
	if err != nil {
		writeError(w, http.StatusNotFound, err.Error())
		return
	}
	writeJSON(w, http.StatusOK, artifact)
}

func (s *Server) handleSuggestions(w http.ResponseWriter, r *http.Request) {
	questions, err := s.orch.Suggestions(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		writeError(w, http.StatusNotFound, err.Error())
		return
	}
	writeJSON(w, http.StatusOK, map[string][]string{"suggestions": questions})
}

// handleSchema returns the cached whole-database summary.
func (s *Server) handleSchema(w http.ResponseWriter, _ *http.Request) {
	summary, err := s.schema.FullSummary()
	if err != nil {
		log.Error().Err(err).Msg("schema summary failed")
		writeError(w, http.StatusInternalServerError, "could not read schema")
		return
	}
	writeJSON(w, http.StatusOK, map[string]string{"schema": summary})
}

// handleSchemaRefresh drops the cached metadata so the next request
// rebuilds it from the database.
func (s *Server) handleSchemaRefresh(w http.ResponseWriter, _ *http.Request) {
	s.schema.Invalidate()
	writeJSON(w, http.StatusOK, map[string]string{"status": "refreshed"})
}

func (s *Server) handleStats(w http.ResponseWriter, _ *http.Request) {
	writeJSON(w, http.StatusOK, s.collector.Stats())
}

// handleHealth returns a simple health check response.
func (s *Server) handleHealth(w http.ResponseWriter, _ *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}
