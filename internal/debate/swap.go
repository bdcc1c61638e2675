package debate

import (
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/metalagman/arena/internal/model"
)

// ErrNotCompleted rejects swap attempts on runs that have not finished.
var ErrNotCompleted = errors.New("run is not completed")

// BiasType classifies the outcome of a position-swap comparison.
type BiasType string

// Bias classifications.
const (
	BiasNone         BiasType = "none"
	BiasPosition     BiasType = "position"
	BiasInconclusive BiasType = "inconclusive"
)

// BiasReport is the result of comparing an original run against its
// position-swapped rerun.
type BiasReport struct {
	Bias         BiasType       `json:"bias"`
	BiasedToward model.Position `json:"biased_toward,omitempty"`
}

// SwappedRun derives a fresh pending run from a completed one with the
// debater positions exchanged. Everything else (topic, agents, config,
// rubric) carries over.
func SwappedRun(run model.Run) (model.Run, error) {
	if run.Status != model.StatusCompleted {
		return model.Run{}, fmt.Errorf("swap run %s: %w (status %s)", run.RunID, ErrNotCompleted, run.Status)
	}
	swapped := run
	swapped.RunID = uuid.New().String()
	swapped.PositionA, swapped.PositionB = run.PositionB, run.PositionA
	swapped.Status = model.StatusPending
	swapped.Result = nil
	swapped.FinishedAt = nil
	swapped.CreatedAt = time.Now().UTC()
	return swapped, nil
}

// winningPosition maps a run's winner back to the position that won.
func winningPosition(run model.Run) (model.Position, bool) {
	if run.Result == nil {
		return "", false
	}
	switch run.Result.Winner {
	case model.WinnerA:
		return run.PositionA, true
	case model.WinnerB:
		return run.PositionB, true
	}
	return "", false
}

// ClassifyBias compares which position won each run. The same position
// winning both sides of the swap indicates a position bias; different
// positions winning indicates none; a draw or missing winner on either
// side is inconclusive.
func ClassifyBias(original, swapped model.Run) BiasReport {
	origPos, okO := winningPosition(original)
	swapPos, okS := winningPosition(swapped)
	if !okO || !okS {
		return BiasReport{Bias: BiasInconclusive}
	}
	if origPos == swapPos {
		return BiasReport{Bias: BiasPosition, BiasedToward: origPos}
	}
	return BiasReport{Bias: BiasNone}
}
