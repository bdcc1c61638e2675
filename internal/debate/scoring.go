package debate

import (
	"encoding/json"

	"github.com/metalagman/arena/internal/model"
)

// Fallback raw totals used when the parsed judge response is missing a
// category. The exact constants are part of the scoring contract.
const (
	fallbackArgumentation = 21
	fallbackDelivery      = 14
	fallbackStrategy      = 7
	fallbackRebuttal      = 21
	fallbackOpeningTotal  = 42
	fallbackRebuttalTotal = 35
	fallbackSummaryTotal  = 28
)

// drawMargin is the total-score difference below which a debate is a
// draw.
const drawMargin = 5.0

func asFloat(v any) (float64, bool) {
	switch n := v.(type) {
	case float64:
		return n, true
	case int:
		return float64(n), true
	case json.Number:
		f, err := n.Float64()
		return f, err == nil
	}
	return 0, false
}

// categoryTotal reads raw[category]["total"], falling back to def when
// the category or its total is absent or malformed.
func categoryTotal(raw map[string]any, category string, def float64) float64 {
	sub, ok := raw[category].(map[string]any)
	if !ok {
		return def
	}
	if v, ok := asFloat(sub["total"]); ok {
		return v
	}
	return def
}

func rawTotal(raw map[string]any, def float64) float64 {
	if v, ok := asFloat(raw["total"]); ok {
		return v
	}
	return def
}

// openingScores computes the initial score card from an opening's raw
// judge scores. Total deliberately takes the raw judge-reported total
// rather than the sum of the weighted components; downstream verdict
// arithmetic depends on this.
func openingScores(raw map[string]any, rubric model.Rubric) model.ScoreCard {
	return model.ScoreCard{
		Argumentation: categoryTotal(raw, "argumentation", fallbackArgumentation) * rubric.Weight("argumentation_weight", 35) / 100,
		Delivery:      categoryTotal(raw, "delivery", fallbackDelivery) * rubric.Weight("delivery_weight", 20) / 100,
		Strategy:      categoryTotal(raw, "strategy", fallbackStrategy) * rubric.Weight("strategy_weight", 15) / 100,
		Rebuttal:      0,
		Total:         rawTotal(raw, fallbackOpeningTotal),
	}
}

// addRebuttalScores folds a rebuttal's raw judge scores into the
// running card.
func addRebuttalScores(card *model.ScoreCard, raw map[string]any, rubric model.Rubric) {
	card.Rebuttal += categoryTotal(raw, "rebuttal", fallbackRebuttal) * rubric.Weight("rebuttal_weight", 30) / 100
	card.Total += rawTotal(raw, fallbackRebuttalTotal)
}

// addSummaryScores folds a summary's raw judge scores into the running
// card.
func addSummaryScores(card *model.ScoreCard, raw map[string]any, rubric model.Rubric) {
	card.Strategy += categoryTotal(raw, "strategy", fallbackStrategy) * rubric.Weight("strategy_weight", 15) / 100
	card.Total += rawTotal(raw, fallbackSummaryTotal)
}

// DecideWinner compares the two accumulated totals. A difference under
// drawMargin is a draw; otherwise the higher total wins.
func DecideWinner(totalA, totalB float64) model.Winner {
	diff := totalA - totalB
	if diff < 0 {
		diff = -diff
	}
	if diff < drawMargin {
		return model.WinnerDraw
	}
	if totalA > totalB {
		return model.WinnerA
	}
	return model.WinnerB
}
