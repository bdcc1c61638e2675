package debate

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/metalagman/arena/internal/model"
)

func completedRun(winner model.Winner) model.Run {
	run := testBundle().Run
	run.Status = model.StatusCompleted
	run.Result = &model.Result{Winner: winner}
	return run
}

func TestSwappedRun(t *testing.T) {
	run := completedRun(model.WinnerA)
	swapped, err := SwappedRun(run)
	require.NoError(t, err)

	assert.NotEqual(t, run.RunID, swapped.RunID)
	assert.Equal(t, run.PositionB, swapped.PositionA)
	assert.Equal(t, run.PositionA, swapped.PositionB)
	assert.Equal(t, model.StatusPending, swapped.Status)
	assert.Nil(t, swapped.Result)
	assert.Nil(t, swapped.FinishedAt)
	assert.Equal(t, run.Topic, swapped.Topic)
	assert.Equal(t, run.AgentAID, swapped.AgentAID)
	assert.Equal(t, run.AgentBID, swapped.AgentBID)
}

func TestSwappedRunRejectsUnfinished(t *testing.T) {
	run := testBundle().Run
	run.Status = model.StatusRunning
	_, err := SwappedRun(run)
	require.ErrorIs(t, err, ErrNotCompleted)
}

func TestClassifyBias(t *testing.T) {
	// original: A=FOR, B=AGAINST; swapped: A=AGAINST, B=FOR.
	original := completedRun(model.WinnerA)
	swapped, err := SwappedRun(original)
	require.NoError(t, err)

	withWinner := func(run model.Run, w model.Winner) model.Run {
		run.Result = &model.Result{Winner: w}
		run.Status = model.StatusCompleted
		return run
	}

	// FOR wins both runs (A first, then B after the swap).
	report := ClassifyBias(original, withWinner(swapped, model.WinnerB))
	assert.Equal(t, BiasPosition, report.Bias)
	assert.Equal(t, model.PositionFor, report.BiasedToward)

	// Different positions win.
	report = ClassifyBias(original, withWinner(swapped, model.WinnerA))
	assert.Equal(t, BiasNone, report.Bias)
	assert.Empty(t, report.BiasedToward)

	// A draw on either side is inconclusive.
	report = ClassifyBias(original, withWinner(swapped, model.WinnerDraw))
	assert.Equal(t, BiasInconclusive, report.Bias)
	report = ClassifyBias(withWinner(original, model.WinnerDraw), withWinner(swapped, model.WinnerB))
	assert.Equal(t, BiasInconclusive, report.Bias)

	// A missing result is inconclusive.
	noResult := original
	noResult.Result = nil
	report = ClassifyBias(noResult, withWinner(swapped, model.WinnerB))
	assert.Equal(t, BiasInconclusive, report.Bias)
}
