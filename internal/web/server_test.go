package web

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/http/httptest"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/metalagman/arena/internal/db"
	"github.com/metalagman/arena/internal/debate"
	"github.com/metalagman/arena/internal/llm"
	"github.com/metalagman/arena/internal/model"
)

// stubGen answers scoring prompts with JSON and everything else with
// canned text.
type stubGen struct {
	totalA, totalB float64
}

func (g *stubGen) respond(req llm.GenerateRequest) string {
	switch {
	case strings.Contains(req.Prompt, "You are scoring Alice"):
		return fmt.Sprintf(`{"argumentation":{"total":24},"rebuttal":{"total":20},"delivery":{"total":16},"strategy":{"total":8},"total":%g}`, g.totalA)
	case strings.Contains(req.Prompt, "You are scoring Bob"):
		return fmt.Sprintf(`{"argumentation":{"total":24},"rebuttal":{"total":20},"delivery":{"total":16},"strategy":{"total":8},"total":%g}`, g.totalB)
	case strings.Contains(req.Prompt, "final verdict"):
		return "A convincing win."
	default:
		return "Generated text."
	}
}

func (g *stubGen) Generate(_ context.Context, req llm.GenerateRequest) (string, error) {
	return g.respond(req), nil
}

func (g *stubGen) GenerateStream(_ context.Context, req llm.GenerateRequest, fn func(string) error) error {
	return fn(g.respond(req))
}

type stubModels struct{}

func (stubModels) ListModels(context.Context) ([]llm.ModelInfo, error) {
	return []llm.ModelInfo{{Name: "llama3"}}, nil
}

func newTestServer(t *testing.T) (*httptest.Server, *db.Store) {
	t.Helper()
	handle, err := db.Open(filepath.Join(t.TempDir(), "arena.db"))
	require.NoError(t, err)
	t.Cleanup(func() { _ = handle.Close() })

	store := db.NewStore(handle)
	srv := NewServer(store, &stubGen{totalA: 30, totalB: 20}, stubModels{}, debate.Options{})
	ts := httptest.NewServer(srv.Routes())
	t.Cleanup(ts.Close)
	return ts, store
}

func postJSON(t *testing.T, url string, body any) *http.Response {
	t.Helper()
	raw, err := json.Marshal(body)
	require.NoError(t, err)
	resp, err := http.Post(url, "application/json", bytes.NewReader(raw))
	require.NoError(t, err)
	return resp
}

func decodeJSON(t *testing.T, resp *http.Response, v any) {
	t.Helper()
	defer func() { _ = resp.Body.Close() }()
	require.NoError(t, json.NewDecoder(resp.Body).Decode(v))
}

func createAgent(t *testing.T, ts *httptest.Server, name string) model.Agent {
	t.Helper()
	resp := postJSON(t, ts.URL+"/api/agents", map[string]any{
		"name":  name,
		"model": "llama3",
	})
	require.Equal(t, http.StatusCreated, resp.StatusCode)
	var agent model.Agent
	decodeJSON(t, resp, &agent)
	return agent
}

func createRun(t *testing.T, ts *httptest.Server) model.Run {
	t.Helper()
	a := createAgent(t, ts, "Alice")
	b := createAgent(t, ts, "Bob")
	j := createAgent(t, ts, "Judy")

	resp := postJSON(t, ts.URL+"/api/debate/runs", map[string]any{
		"topic":      "Tabs beat spaces",
		"agent_a_id": a.AgentID,
		"agent_b_id": b.AgentID,
		"agent_j_id": j.AgentID,
		"position_a": "FOR",
		"position_b": "AGAINST",
	})
	require.Equal(t, http.StatusCreated, resp.StatusCode)
	var run model.Run
	decodeJSON(t, resp, &run)
	return run
}

func TestAgentEndpoints(t *testing.T) {
	ts, _ := newTestServer(t)
	agent := createAgent(t, ts, "Alice")

	resp, err := http.Get(ts.URL + "/api/agents/" + agent.AgentID)
	require.NoError(t, err)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	var got model.Agent
	decodeJSON(t, resp, &got)
	assert.Equal(t, "Alice", got.Name)

	resp, err = http.Get(ts.URL + "/api/agents/missing")
	require.NoError(t, err)
	_ = resp.Body.Close()
	assert.Equal(t, http.StatusNotFound, resp.StatusCode)

	resp = postJSON(t, ts.URL+"/api/agents/"+agent.AgentID+"/clone", map[string]any{})
	require.Equal(t, http.StatusCreated, resp.StatusCode)
	var clone model.Agent
	decodeJSON(t, resp, &clone)
	assert.Equal(t, "Alice (Copy)", clone.Name)

	req, err := http.NewRequest(http.MethodDelete, ts.URL+"/api/agents/"+clone.AgentID, nil)
	require.NoError(t, err)
	resp, err = http.DefaultClient.Do(req)
	require.NoError(t, err)
	_ = resp.Body.Close()
	assert.Equal(t, http.StatusNoContent, resp.StatusCode)
}

func TestUpdateAgentPartial(t *testing.T) {
	ts, _ := newTestServer(t)
	agent := createAgent(t, ts, "Alice")

	raw, _ := json.Marshal(map[string]any{"name": "Alicia"})
	req, err := http.NewRequest(http.MethodPut, ts.URL+"/api/agents/"+agent.AgentID, bytes.NewReader(raw))
	require.NoError(t, err)
	resp, err := http.DefaultClient.Do(req)
	require.NoError(t, err)
	require.Equal(t, http.StatusOK, resp.StatusCode)

	var got model.Agent
	decodeJSON(t, resp, &got)
	assert.Equal(t, "Alicia", got.Name)
	// Omitted fields keep their stored values.
	assert.Equal(t, "llama3", got.Model)
}

func TestCreateRunValidation(t *testing.T) {
	ts, _ := newTestServer(t)
	a := createAgent(t, ts, "Alice")
	b := createAgent(t, ts, "Bob")
	j := createAgent(t, ts, "Judy")

	resp := postJSON(t, ts.URL+"/api/debate/runs", map[string]any{
		"topic":      "t",
		"agent_a_id": a.AgentID,
		"agent_b_id": b.AgentID,
		"agent_j_id": j.AgentID,
		"position_a": "FOR",
		"position_b": "FOR",
	})
	defer func() { _ = resp.Body.Close() }()
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
}

func TestStreamRunsDebateToCompletion(t *testing.T) {
	ts, store := newTestServer(t)
	run := createRun(t, ts)

	resp, err := http.Get(ts.URL + "/api/debate/stream/" + run.RunID)
	require.NoError(t, err)
	defer func() { _ = resp.Body.Close() }()
	require.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Equal(t, "text/event-stream", resp.Header.Get("Content-Type"))

	body, err := io.ReadAll(resp.Body)
	require.NoError(t, err)
	stream := string(body)
	assert.Contains(t, stream, "event: phase_start")
	assert.Contains(t, stream, "event: token")
	assert.Contains(t, stream, "event: score")
	assert.Contains(t, stream, "event: verdict")
	assert.Contains(t, stream, "event: run_complete")
	assert.NotContains(t, stream, "event: error")

	got, err := store.GetRun(context.Background(), run.RunID)
	require.NoError(t, err)
	assert.Equal(t, model.StatusCompleted, got.Status)
	require.NotNil(t, got.Result)
	assert.Equal(t, model.WinnerA, got.Result.Winner)

	turns, err := store.GetTurnsByRun(context.Background(), run.RunID)
	require.NoError(t, err)
	assert.Len(t, turns, 8)

	// Replays come back through the turns endpoint.
	resp, err = http.Get(ts.URL + "/api/debate/runs/" + run.RunID + "/turns")
	require.NoError(t, err)
	var replay []model.Turn
	decodeJSON(t, resp, &replay)
	assert.Len(t, replay, 8)
}

func TestStreamRejectsNonPendingRun(t *testing.T) {
	ts, store := newTestServer(t)
	run := createRun(t, ts)
	require.NoError(t, store.UpdateRunStatus(context.Background(), run.RunID, model.StatusCompleted, &model.Result{Winner: model.WinnerA}))

	resp, err := http.Get(ts.URL + "/api/debate/stream/" + run.RunID)
	require.NoError(t, err)
	_ = resp.Body.Close()
	assert.Equal(t, http.StatusConflict, resp.StatusCode)
}

func TestSwapAndBiasEndpoints(t *testing.T) {
	ts, store := newTestServer(t)
	run := createRun(t, ts)

	// Swapping a pending run is rejected.
	resp := postJSON(t, ts.URL+"/api/debate/runs/"+run.RunID+"/swap", map[string]any{})
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
	_ = resp.Body.Close()

	require.NoError(t, store.UpdateRunStatus(context.Background(), run.RunID, model.StatusCompleted,
		&model.Result{Winner: model.WinnerA}))

	resp = postJSON(t, ts.URL+"/api/debate/runs/"+run.RunID+"/swap", map[string]any{})
	require.Equal(t, http.StatusCreated, resp.StatusCode)
	var swapped model.Run
	decodeJSON(t, resp, &swapped)
	assert.Equal(t, run.PositionB, swapped.PositionA)
	assert.Equal(t, run.PositionA, swapped.PositionB)
	assert.Equal(t, model.StatusPending, swapped.Status)

	// FOR won the original; make B (now arguing FOR) win the swap.
	require.NoError(t, store.UpdateRunStatus(context.Background(), swapped.RunID, model.StatusCompleted,
		&model.Result{Winner: model.WinnerB}))

	resp, err := http.Get(ts.URL + "/api/debate/runs/" + run.RunID + "/bias?swapped=" + swapped.RunID)
	require.NoError(t, err)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	var report debate.BiasReport
	decodeJSON(t, resp, &report)
	assert.Equal(t, debate.BiasPosition, report.Bias)
	assert.Equal(t, model.PositionFor, report.BiasedToward)
}

func TestPreviewAndModelsEndpoints(t *testing.T) {
	ts, _ := newTestServer(t)

	resp := postJSON(t, ts.URL+"/api/agents/preview", map[string]any{
		"model": "llama3",
		"topic": "Tabs beat spaces",
	})
	require.Equal(t, http.StatusOK, resp.StatusCode)
	var preview struct {
		Content string `json:"content"`
	}
	decodeJSON(t, resp, &preview)
	assert.Equal(t, "Generated text.", preview.Content)

	resp, err := http.Get(ts.URL + "/api/models")
	require.NoError(t, err)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	var models struct {
		Models []llm.ModelInfo `json:"models"`
	}
	decodeJSON(t, resp, &models)
	require.Len(t, models.Models, 1)
	assert.Equal(t, "llama3", models.Models[0].Name)
}
