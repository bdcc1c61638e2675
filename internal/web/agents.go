package web

import (
	"net/http"

	"github.com/metalagman/arena/internal/llm"
	"github.com/metalagman/arena/internal/model"
	"github.com/metalagman/arena/internal/prompt"
)

type agentRequest struct {
	Name    string         `json:"name"`
	Model   string         `json:"model"`
	Persona *model.Persona `json:"persona,omitempty"`
	Params  *model.Params  `json:"params,omitempty"`
}

func (s *Server) handleListAgents(w http.ResponseWriter, r *http.Request) {
	agents, err := s.store.ListAgents(r.Context())
	if err != nil {
		writeError(w, err)
		return
	}
	if agents == nil {
		agents = []model.Agent{}
	}
	writeJSON(w, http.StatusOK, agents)
}

func (s *Server) handleCreateAgent(w http.ResponseWriter, r *http.Request) {
	var req agentRequest
	if !decodeBody(w, r, &req) {
		return
	}
	if req.Name == "" || req.Model == "" {
		writeJSON(w, http.StatusBadRequest, errorResponse{Error: "name and model are required"})
		return
	}

	agent := model.Agent{Name: req.Name, Model: req.Model}
	if req.Persona != nil {
		agent.Persona = *req.Persona
	}
	if req.Params != nil {
		agent.Params = *req.Params
	}

	created, err := s.store.CreateAgent(r.Context(), agent)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusCreated, created)
}

func (s *Server) handleGetAgent(w http.ResponseWriter, r *http.Request) {
	agent, err := s.store.GetAgent(r.Context(), r.PathValue("id"))
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, agent)
}

// handleUpdateAgent applies a partial update; omitted fields keep their
// stored values.
func (s *Server) handleUpdateAgent(w http.ResponseWriter, r *http.Request) {
	agent, err := s.store.GetAgent(r.Context(), r.PathValue("id"))
	if err != nil {
		writeError(w, err)
		return
	}

	var req agentRequest
	if !decodeBody(w, r, &req) {
		return
	}
	if req.Name != "" {
		agent.Name = req.Name
	}
	if req.Model != "" {
		agent.Model = req.Model
	}
	if req.Persona != nil {
		agent.Persona = *req.Persona
	}
	if req.Params != nil {
		agent.Params = *req.Params
	}

	updated, err := s.store.UpdateAgent(r.Context(), agent)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, updated)
}

func (s *Server) handleDeleteAgent(w http.ResponseWriter, r *http.Request) {
	if err := s.store.DeleteAgent(r.Context(), r.PathValue("id")); err != nil {
		writeError(w, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (s *Server) handleCloneAgent(w http.ResponseWriter, r *http.Request) {
	clone, err := s.store.CloneAgent(r.Context(), r.PathValue("id"))
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusCreated, clone)
}

type previewRequest struct {
	agentRequest
	Topic    string         `json:"topic"`
	Position model.Position `json:"position,omitempty"`
}

type previewResponse struct {
	Content string `json:"content"`
}

// handlePreviewAgent generates a one-off opening argument for an agent
// configuration without persisting anything.
func (s *Server) handlePreviewAgent(w http.ResponseWriter, r *http.Request) {
	var req previewRequest
	if !decodeBody(w, r, &req) {
		return
	}
	if req.Model == "" || req.Topic == "" {
		writeJSON(w, http.StatusBadRequest, errorResponse{Error: "model and topic are required"})
		return
	}
	if req.Position == "" {
		req.Position = model.PositionFor
	}

	persona := model.Persona{}
	if req.Persona != nil {
		persona = *req.Persona
	}
	params := model.Params{}
	if req.Params != nil {
		params = *req.Params
	}

	content, err := s.gen.Generate(r.Context(), llm.GenerateRequest{
		Model:       req.Model,
		Prompt:      prompt.Opening(req.Topic, req.Position, persona),
		System:      prompt.System(persona),
		Temperature: params.TemperatureOr(0.7),
		MaxTokens:   params.MaxTokensOr(1024),
	})
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, previewResponse{Content: content})
}
