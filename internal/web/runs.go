package web

import (
	"net/http"

	"github.com/metalagman/arena/internal/debate"
	"github.com/metalagman/arena/internal/model"
)

type createRunRequest struct {
	Topic     string          `json:"topic"`
	AgentAID  string          `json:"agent_a_id"`
	AgentBID  string          `json:"agent_b_id"`
	AgentJID  string          `json:"agent_j_id"`
	PositionA model.Position  `json:"position_a"`
	PositionB model.Position  `json:"position_b"`
	Config    model.RunConfig `json:"config,omitempty"`
	Rubric    model.Rubric    `json:"rubric,omitempty"`
}

func (s *Server) handleCreateRun(w http.ResponseWriter, r *http.Request) {
	var req createRunRequest
	if !decodeBody(w, r, &req) {
		return
	}
	if req.Topic == "" {
		writeJSON(w, http.StatusBadRequest, errorResponse{Error: "topic is required"})
		return
	}
	if req.PositionA == "" {
		req.PositionA = model.PositionFor
	}
	if req.PositionB == "" {
		req.PositionB = model.PositionAgainst
	}

	run, err := s.store.CreateRun(r.Context(), model.Run{
		Topic:     req.Topic,
		AgentAID:  req.AgentAID,
		AgentBID:  req.AgentBID,
		AgentJID:  req.AgentJID,
		PositionA: req.PositionA,
		PositionB: req.PositionB,
		Config:    req.Config,
		Rubric:    req.Rubric,
	})
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusCreated, run)
}

func (s *Server) handleListRuns(w http.ResponseWriter, r *http.Request) {
	runs, err := s.store.ListRuns(r.Context())
	if err != nil {
		writeError(w, err)
		return
	}
	if runs == nil {
		runs = []model.Run{}
	}
	writeJSON(w, http.StatusOK, runs)
}

func (s *Server) handleGetRun(w http.ResponseWriter, r *http.Request) {
	run, err := s.store.GetRun(r.Context(), r.PathValue("id"))
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, run)
}

func (s *Server) handleDeleteRun(w http.ResponseWriter, r *http.Request) {
	if err := s.store.DeleteRun(r.Context(), r.PathValue("id")); err != nil {
		writeError(w, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (s *Server) handleListTurns(w http.ResponseWriter, r *http.Request) {
	runID := r.PathValue("id")
	if _, err := s.store.GetRun(r.Context(), runID); err != nil {
		writeError(w, err)
		return
	}
	turns, err := s.store.GetTurnsByRun(r.Context(), runID)
	if err != nil {
		writeError(w, err)
		return
	}
	if turns == nil {
		turns = []model.Turn{}
	}
	writeJSON(w, http.StatusOK, turns)
}

// handleSwapRun creates a fresh pending run with the debater positions
// exchanged. Only completed runs can be swapped.
func (s *Server) handleSwapRun(w http.ResponseWriter, r *http.Request) {
	run, err := s.store.GetRun(r.Context(), r.PathValue("id"))
	if err != nil {
		writeError(w, err)
		return
	}
	swapped, err := debate.SwappedRun(run)
	if err != nil {
		writeError(w, err)
		return
	}
	created, err := s.store.CreateRun(r.Context(), swapped)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusCreated, created)
}

func (s *Server) handleBias(w http.ResponseWriter, r *http.Request) {
	swappedID := r.URL.Query().Get("swapped")
	if swappedID == "" {
		writeJSON(w, http.StatusBadRequest, errorResponse{Error: "swapped query parameter is required"})
		return
	}

	original, err := s.store.GetRun(r.Context(), r.PathValue("id"))
	if err != nil {
		writeError(w, err)
		return
	}
	swapped, err := s.store.GetRun(r.Context(), swappedID)
	if err != nil {
		writeError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, debate.ClassifyBias(original, swapped))
}
