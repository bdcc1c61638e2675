// Package web provides the JSON API and SSE streaming transport for
// arena.
package web

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"

	"github.com/rs/zerolog/log"

	"github.com/metalagman/arena/internal/db"
	"github.com/metalagman/arena/internal/debate"
	"github.com/metalagman/arena/internal/llm"
)

// ModelLister is the slice of the Ollama client the models endpoint
// needs.
type ModelLister interface {
	ListModels(ctx context.Context) ([]llm.ModelInfo, error)
}

// Server holds the API handlers and their collaborators.
type Server struct {
	store  *db.Store
	gen    llm.Generator
	models ModelLister
	exec   *debate.Executor
}

// NewServer creates the API server. gen should already be wrapped with
// retry.
func NewServer(store *db.Store, gen llm.Generator, models ModelLister, opts debate.Options) *Server {
	return &Server{
		store:  store,
		gen:    gen,
		models: models,
		exec:   debate.NewExecutor(store, gen, opts),
	}
}

// Routes returns the router for the API.
func (s *Server) Routes() http.Handler {
	mux := http.NewServeMux()

	mux.HandleFunc("GET /api/agents", s.handleListAgents)
	mux.HandleFunc("POST /api/agents", s.handleCreateAgent)
	mux.HandleFunc("GET /api/agents/{id}", s.handleGetAgent)
	mux.HandleFunc("PUT /api/agents/{id}", s.handleUpdateAgent)
	mux.HandleFunc("DELETE /api/agents/{id}", s.handleDeleteAgent)
	mux.HandleFunc("POST /api/agents/{id}/clone", s.handleCloneAgent)
	mux.HandleFunc("POST /api/agents/preview", s.handlePreviewAgent)

	mux.HandleFunc("GET /api/models", s.handleListModels)

	mux.HandleFunc("POST /api/debate/runs", s.handleCreateRun)
	mux.HandleFunc("GET /api/debate/runs", s.handleListRuns)
	mux.HandleFunc("GET /api/debate/runs/{id}", s.handleGetRun)
	mux.HandleFunc("DELETE /api/debate/runs/{id}", s.handleDeleteRun)
	mux.HandleFunc("GET /api/debate/runs/{id}/turns", s.handleListTurns)
	mux.HandleFunc("POST /api/debate/runs/{id}/swap", s.handleSwapRun)
	mux.HandleFunc("GET /api/debate/runs/{id}/bias", s.handleBias)
	mux.HandleFunc("GET /api/debate/stream/{id}", s.handleStream)

	return mux
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		log.Error().Err(err).Msg("write json response")
	}
}

type errorResponse struct {
	Error string `json:"error"`
}

func writeError(w http.ResponseWriter, err error) {
	status := http.StatusInternalServerError
	switch {
	case errors.Is(err, db.ErrNotFound):
		status = http.StatusNotFound
	case errors.Is(err, db.ErrSamePosition), errors.Is(err, debate.ErrNotCompleted):
		status = http.StatusBadRequest
	case errors.Is(err, debate.ErrNotPending):
		status = http.StatusConflict
	}
	writeJSON(w, status, errorResponse{Error: err.Error()})
}

func decodeBody(w http.ResponseWriter, r *http.Request, v any) bool {
	if err := json.NewDecoder(r.Body).Decode(v); err != nil {
		writeJSON(w, http.StatusBadRequest, errorResponse{Error: "invalid request body: " + err.Error()})
		return false
	}
	return true
}

func (s *Server) handleListModels(w http.ResponseWriter, r *http.Request) {
	models, err := s.models.ListModels(r.Context())
	if err != nil {
		writeError(w, err)
		return
	}
	if models == nil {
		models = []llm.ModelInfo{}
	}
	writeJSON(w, http.StatusOK, map[string]any{"models": models})
}
