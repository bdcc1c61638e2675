package debate

import "github.com/metalagman/arena/internal/model"

// EventType names a lifecycle event on the debate stream.
type EventType string

// Stream event types.
const (
	EventPhaseStart  EventType = "phase_start"
	EventToken       EventType = "token"
	EventScore       EventType = "score"
	EventPhaseEnd    EventType = "phase_end"
	EventVerdict     EventType = "verdict"
	EventRunComplete EventType = "run_complete"
	EventError       EventType = "error"
)

// Event is one typed entry on the debate event stream. Data is always
// JSON-serializable.
type Event struct {
	Type EventType `json:"type"`
	Data any       `json:"data"`
}

// PhaseStartPayload announces a phase and its responsible agent.
type PhaseStartPayload struct {
	Phase   string `json:"phase"`
	AgentID string `json:"agent_id"`
}

// TokenPayload carries one streamed fragment, or the full content of a
// non-streaming phase with Complete set.
type TokenPayload struct {
	TurnID   string `json:"turn_id"`
	Content  string `json:"content"`
	Complete bool   `json:"complete,omitempty"`
}

// ScorePayload carries the raw parsed judge scores for one phase.
type ScorePayload struct {
	Phase  string         `json:"phase"`
	Scores map[string]any `json:"scores"`
	Agent  string         `json:"agent"`
}

// PhaseEndPayload closes a phase with its last turn id.
type PhaseEndPayload struct {
	Phase  string `json:"phase"`
	TurnID string `json:"turn_id"`
}

// FinalScores holds both debaters' accumulated score breakdowns.
type FinalScores struct {
	A model.ScoreCard `json:"a"`
	B model.ScoreCard `json:"b"`
}

// VerdictPayload carries the final outcome.
type VerdictPayload struct {
	Winner      model.Winner `json:"winner"`
	FinalScores FinalScores  `json:"final_scores"`
	Reasoning   string       `json:"reasoning"`
}

// RunCompletePayload is the terminal success event.
type RunCompletePayload struct {
	RunID  string       `json:"run_id"`
	Status model.Status `json:"status"`
	Winner model.Winner `json:"winner"`
}

// ErrorPayload is the terminal failure event, emitted in place of
// run_complete.
type ErrorPayload struct {
	Code    string `json:"code"`
	Message string `json:"message"`
	Phase   string `json:"phase"`
}

// errorCode is the single error code used on the stream.
const errorCode = "DEBATE_ERROR"

// Sink receives the ordered event stream of one debate run.
type Sink interface {
	Emit(ev Event) error
}

// SinkFunc adapts a function to the Sink interface.
type SinkFunc func(ev Event) error

// Emit calls f.
func (f SinkFunc) Emit(ev Event) error { return f(ev) }
