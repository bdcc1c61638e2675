// Package model holds the core domain types shared across the arena service.
package model

import "time"

// Status is the lifecycle status of a debate run.
type Status string

// Run lifecycle states.
const (
	StatusPending   Status = "pending"
	StatusRunning   Status = "running"
	StatusJudging   Status = "judging"
	StatusCompleted Status = "completed"
	StatusFailed    Status = "failed"
)

// Position is the side a debater argues.
type Position string

// Debater positions.
const (
	PositionFor     Position = "FOR"
	PositionAgainst Position = "AGAINST"
)

// Role distinguishes debater turns from judge turns.
type Role string

// Turn roles.
const (
	RoleDebater Role = "debater"
	RoleJudge   Role = "judge"
)

// Winner identifies the outcome of a completed debate.
type Winner string

// Debate outcomes.
const (
	WinnerA    Winner = "A"
	WinnerB    Winner = "B"
	WinnerDraw Winner = "DRAW"
)

// Persona describes how an agent speaks and argues.
type Persona struct {
	Name                 string   `json:"name,omitempty"                   yaml:"name,omitempty"`
	Tone                 string   `json:"tone,omitempty"                   yaml:"tone,omitempty"`
	ThinkingStyle        string   `json:"thinking_style,omitempty"         yaml:"thinking_style,omitempty"`
	SpeakingStyle        string   `json:"speaking_style,omitempty"         yaml:"speaking_style,omitempty"`
	Values               []string `json:"values,omitempty"                 yaml:"values,omitempty"`
	ForbiddenPhrases     []string `json:"forbidden_phrases,omitempty"      yaml:"forbidden_phrases,omitempty"`
	SystemPromptOverride string   `json:"system_prompt_override,omitempty" yaml:"system_prompt_override,omitempty"`
}

// Params are per-agent generation parameters.
type Params struct {
	Temperature float64 `json:"temperature,omitempty" yaml:"temperature,omitempty"`
	MaxTokens   int     `json:"max_tokens,omitempty"  yaml:"max_tokens,omitempty"`
}

// TemperatureOr returns the configured temperature, or def when unset.
func (p Params) TemperatureOr(def float64) float64 {
	if p.Temperature <= 0 {
		return def
	}
	return p.Temperature
}

// MaxTokensOr returns the configured token limit, or def when unset.
func (p Params) MaxTokensOr(def int) int {
	if p.MaxTokens <= 0 {
		return def
	}
	return p.MaxTokens
}

// Agent is a stored debater or judge definition. During orchestration
// agents are read once and treated as immutable snapshots.
type Agent struct {
	AgentID   string    `json:"agent_id"`
	Name      string    `json:"name"`
	Model     string    `json:"model"`
	Persona   Persona   `json:"persona"`
	Params    Params    `json:"params"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// Rubric maps weight names (e.g. "argumentation_weight") to percentages.
// Lookups fall back to a default when a key is absent, matching the
// loose-key semantics the scoring arithmetic depends on.
type Rubric map[string]float64

// Weight returns the rubric weight for key, or def when the key is absent.
func (r Rubric) Weight(key string, def float64) float64 {
	if v, ok := r[key]; ok {
		return v
	}
	return def
}

// DefaultRubric returns the standard BP Lite weights.
func DefaultRubric() Rubric {
	return Rubric{
		"argumentation_weight": 35,
		"rebuttal_weight":      30,
		"delivery_weight":      20,
		"strategy_weight":      15,
	}
}

// RunConfig holds free-form run configuration (round count, token caps).
type RunConfig map[string]any

// DefaultRunConfig returns the standard run configuration.
func DefaultRunConfig() RunConfig {
	return RunConfig{
		"rounds":              3,
		"max_tokens_per_turn": 1024,
	}
}

// ScoreCard is the weighted running score for one debater.
type ScoreCard struct {
	Argumentation float64 `json:"argumentation"`
	Rebuttal      float64 `json:"rebuttal"`
	Delivery      float64 `json:"delivery"`
	Strategy      float64 `json:"strategy"`
	Total         float64 `json:"total"`
}

// Result is the frozen outcome of a completed run.
type Result struct {
	Winner  Winner    `json:"winner"`
	ScoresA ScoreCard `json:"scores_a"`
	ScoresB ScoreCard `json:"scores_b"`
	Verdict string    `json:"verdict"`
}

// Run is one debate instance.
type Run struct {
	RunID      string     `json:"run_id"`
	Topic      string     `json:"topic"`
	AgentAID   string     `json:"agent_a_id"`
	AgentBID   string     `json:"agent_b_id"`
	AgentJID   string     `json:"agent_j_id"`
	PositionA  Position   `json:"position_a"`
	PositionB  Position   `json:"position_b"`
	Config     RunConfig  `json:"config"`
	Rubric     Rubric     `json:"rubric"`
	Result     *Result    `json:"result,omitempty"`
	Status     Status     `json:"status"`
	CreatedAt  time.Time  `json:"created_at"`
	FinishedAt *time.Time `json:"finished_at,omitempty"`
}

// Turn is one generated utterance within a run. Turns are append-only;
// the only mutation after creation is a single metadata merge performed
// by the matching scoring phase.
type Turn struct {
	TurnID    string         `json:"turn_id"`
	RunID     string         `json:"run_id"`
	AgentID   string         `json:"agent_id"`
	Phase     string         `json:"phase"`
	Role      Role           `json:"role"`
	Content   string         `json:"content"`
	Targets   []string       `json:"targets"`
	Metadata  map[string]any `json:"metadata"`
	CreatedAt time.Time      `json:"created_at"`
}

// Violation is one detected forbidden-phrase occurrence.
type Violation struct {
	Phrase  string `json:"phrase"`
	Context string `json:"context"`
}

// RunBundle is a run together with its three agent snapshots.
type RunBundle struct {
	Run    Run
	AgentA Agent
	AgentB Agent
	AgentJ Agent
}
