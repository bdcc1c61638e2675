package web

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"

	"github.com/rs/zerolog/log"

	"github.com/metalagman/arena/internal/debate"
	"github.com/metalagman/arena/internal/model"
)

// sseSink serializes debate events as server-sent events. Once a write
// fails (client gone) it keeps accepting events and discards them, so
// a dropped listener never aborts the debate.
type sseSink struct {
	w       http.ResponseWriter
	flusher http.Flusher
	dead    bool
}

func (s *sseSink) Emit(ev debate.Event) error {
	if s.dead {
		return nil
	}
	data, err := json.Marshal(ev.Data)
	if err != nil {
		return fmt.Errorf("encode event %s: %w", ev.Type, err)
	}
	if _, err := fmt.Fprintf(s.w, "event: %s\ndata: %s\n\n", ev.Type, data); err != nil {
		log.Warn().Err(err).Msg("sse client disconnected, continuing debate detached")
		s.dead = true
		return nil
	}
	s.flusher.Flush()
	return nil
}

// handleStream executes the debate for a pending run and streams its
// lifecycle events. The run always terminates in the store regardless
// of whether the listener stays attached.
func (s *Server) handleStream(w http.ResponseWriter, r *http.Request) {
	runID := r.PathValue("id")

	// Precondition checks happen before the SSE headers go out so
	// bad requests still get proper JSON errors.
	run, err := s.store.GetRun(r.Context(), runID)
	if err != nil {
		writeError(w, err)
		return
	}
	if run.Status != model.StatusPending {
		writeError(w, fmt.Errorf("run %s has status %s: %w", runID, run.Status, debate.ErrNotPending))
		return
	}

	flusher, ok := w.(http.Flusher)
	if !ok {
		writeJSON(w, http.StatusInternalServerError, errorResponse{Error: "streaming not supported"})
		return
	}

	w.Header().Set("Content-Type", "text/event-stream")
	w.Header().Set("Cache-Control", "no-cache")
	w.Header().Set("Connection", "keep-alive")
	flusher.Flush()

	// The run must reach a terminal status even if the client hangs
	// up, so the executor gets a detached context.
	ctx := context.WithoutCancel(r.Context())
	if err := s.exec.Execute(ctx, runID, &sseSink{w: w, flusher: flusher}); err != nil {
		log.Error().Err(err).Str("run_id", runID).Msg("streamed debate failed")
	}
}
