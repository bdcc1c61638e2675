package debate

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestPhaseOrderSequence(t *testing.T) {
	want := []string{
		"judge_intro",
		"opening_a", "score_opening_a",
		"opening_b", "score_opening_b",
		"rebuttal_a", "score_rebuttal_a",
		"rebuttal_b", "score_rebuttal_b",
		"summary_a", "score_summary_a",
		"summary_b", "score_summary_b",
		"judge_verdict",
	}
	assert.Equal(t, want, PhaseNames())
}

func TestScoringPhasesScoreThePrecedingPhase(t *testing.T) {
	for i, ps := range phaseOrder {
		switch ps.Kind {
		case kindScoreOpening, kindScoreRebuttal, kindScoreSummary:
			require.Greater(t, i, 0)
			assert.Equal(t, phaseOrder[i-1].Name, ps.Scores, "phase %s", ps.Name)
			assert.Contains(t, ps.Requires, ps.Scores, "phase %s", ps.Name)
			assert.Equal(t, slotJudge, ps.Actor, "phase %s", ps.Name)
		}
	}
}

func TestRequiredPhasesPrecedeTheirDependents(t *testing.T) {
	seen := map[string]bool{}
	for _, ps := range phaseOrder {
		for _, req := range ps.Requires {
			assert.True(t, seen[req], "phase %s requires %s before it ran", ps.Name, req)
		}
		seen[ps.Name] = true
	}
}

func TestSpecFor(t *testing.T) {
	ps, ok := specFor(PhaseScoreRebuttalB)
	require.True(t, ok)
	assert.Equal(t, kindScoreRebuttal, ps.Kind)
	assert.Equal(t, slotB, ps.Subject)

	_, ok = specFor("no_such_phase")
	assert.False(t, ok)
}
