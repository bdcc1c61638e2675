package debate

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/metalagman/arena/internal/model"
)

func standardRubric() model.Rubric {
	return model.Rubric{
		"argumentation_weight": 35,
		"rebuttal_weight":      30,
		"delivery_weight":      20,
		"strategy_weight":      15,
	}
}

func TestOpeningScoresWeighted(t *testing.T) {
	raw := map[string]any{
		"argumentation": map[string]any{"total": 24.0},
		"delivery":      map[string]any{"total": 16.0},
		"strategy":      map[string]any{"total": 8.0},
		"total":         48.0,
	}
	card := openingScores(raw, standardRubric())

	assert.InDelta(t, 24*0.35, card.Argumentation, 1e-9)
	assert.InDelta(t, 16*0.20, card.Delivery, 1e-9)
	assert.InDelta(t, 8*0.15, card.Strategy, 1e-9)
	assert.Zero(t, card.Rebuttal)
	// Total is the raw judge total, not the weighted sum.
	assert.Equal(t, 48.0, card.Total)
}

func TestOpeningScoresFallbacks(t *testing.T) {
	card := openingScores(map[string]any{}, standardRubric())

	assert.InDelta(t, 21*0.35, card.Argumentation, 1e-9)
	assert.InDelta(t, 14*0.20, card.Delivery, 1e-9)
	assert.InDelta(t, 7*0.15, card.Strategy, 1e-9)
	assert.Equal(t, 42.0, card.Total)
}

func TestAddRebuttalScores(t *testing.T) {
	card := model.ScoreCard{Total: 48}
	addRebuttalScores(&card, map[string]any{
		"rebuttal": map[string]any{"total": 20.0},
		"total":    30.0,
	}, standardRubric())

	assert.InDelta(t, 20*0.30, card.Rebuttal, 1e-9)
	assert.Equal(t, 78.0, card.Total)
}

func TestAddRebuttalScoresFallbacks(t *testing.T) {
	card := model.ScoreCard{}
	addRebuttalScores(&card, map[string]any{}, standardRubric())

	assert.InDelta(t, 21*0.30, card.Rebuttal, 1e-9)
	assert.Equal(t, 35.0, card.Total)
}

func TestAddSummaryScores(t *testing.T) {
	card := model.ScoreCard{Strategy: 1.2, Total: 78}
	addSummaryScores(&card, map[string]any{
		"strategy": map[string]any{"total": 6.0},
		"total":    25.0,
	}, standardRubric())

	assert.InDelta(t, 1.2+6*0.15, card.Strategy, 1e-9)
	assert.Equal(t, 103.0, card.Total)
}

func TestAddSummaryScoresFallbacks(t *testing.T) {
	card := model.ScoreCard{}
	addSummaryScores(&card, map[string]any{}, standardRubric())

	assert.InDelta(t, 7*0.15, card.Strategy, 1e-9)
	assert.Equal(t, 28.0, card.Total)
}

func TestCategoryTotalMalformed(t *testing.T) {
	// A category that is not an object falls back entirely.
	raw := map[string]any{"argumentation": "great"}
	assert.Equal(t, 21.0, categoryTotal(raw, "argumentation", 21))

	// An object without a numeric total falls back too.
	raw = map[string]any{"argumentation": map[string]any{"total": "high"}}
	assert.Equal(t, 21.0, categoryTotal(raw, "argumentation", 21))
}

func TestDecideWinner(t *testing.T) {
	tests := []struct {
		a, b float64
		want model.Winner
	}{
		{80, 74, model.WinnerA},
		{80, 76, model.WinnerDraw},
		{70, 80, model.WinnerB},
		{50, 50, model.WinnerDraw},
		{54.9, 50, model.WinnerDraw},
		{55, 50, model.WinnerA},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, DecideWinner(tt.a, tt.b), "%v vs %v", tt.a, tt.b)
	}
}
