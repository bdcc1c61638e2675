// Package debate implements the debate orchestration core: the fixed
// 14-phase state machine, weighted scoring, violation detection, the
// judge score parser, and position-swap bias analysis.
package debate

import (
	"github.com/metalagman/arena/internal/model"
)

// State is the per-run record threaded through the phase pipeline. It
// is owned by a single executor invocation and never shared.
type State struct {
	Run    model.Run
	AgentA model.Agent
	AgentB model.Agent
	AgentJ model.Agent

	// Turns holds exactly one entry per executed generation phase, in
	// execution order. Phase names are unique within a run, so lookups
	// by phase resolve to at most one turn.
	Turns []model.Turn

	ScoresA model.ScoreCard
	ScoresB model.ScoreCard

	Phase   string
	Winner  model.Winner
	Verdict string
}

func newState(b model.RunBundle) *State {
	return &State{
		Run:    b.Run,
		AgentA: b.AgentA,
		AgentB: b.AgentB,
		AgentJ: b.AgentJ,
	}
}

func (s *State) agent(sl slot) model.Agent {
	switch sl {
	case slotA:
		return s.AgentA
	case slotB:
		return s.AgentB
	default:
		return s.AgentJ
	}
}

func (s *State) position(sl slot) model.Position {
	if sl == slotB {
		return s.Run.PositionB
	}
	return s.Run.PositionA
}

func (s *State) scores(sl slot) *model.ScoreCard {
	if sl == slotB {
		return &s.ScoresB
	}
	return &s.ScoresA
}

// turnByPhase returns the turn produced by the named phase, if any.
func (s *State) turnByPhase(phase string) (*model.Turn, bool) {
	for i := range s.Turns {
		if s.Turns[i].Phase == phase {
			return &s.Turns[i], true
		}
	}
	return nil, false
}

// debaterContents returns the contents of all debater turns so far, in
// execution order.
func (s *State) debaterContents() []string {
	var out []string
	for _, t := range s.Turns {
		if t.Role == model.RoleDebater {
			out = append(out, t.Content)
		}
	}
	return out
}

// debaterContentsBefore returns debater turn contents preceding the
// turn with the given id.
func (s *State) debaterContentsBefore(turnID string) []string {
	var out []string
	for _, t := range s.Turns {
		if t.TurnID == turnID {
			break
		}
		if t.Role == model.RoleDebater {
			out = append(out, t.Content)
		}
	}
	return out
}
