package prompt

import (
	"fmt"
	"strings"

	"github.com/metalagman/arena/internal/model"
)

// JudgeIntro builds the judge's framing-remarks prompt.
func JudgeIntro(topic string, persona model.Persona) string {
	tone := persona.Tone
	if tone == "" {
		tone = "fair and objective"
	}
	return fmt.Sprintf(`You are %s, presiding over this debate.

Topic: %s

Your task: Introduce yourself and explain the debate rules.

Include in your introduction:
1. Welcome and your judging philosophy
2. Debate format: BP Lite (Opening → Rebuttal → Summary)
3. Scoring criteria:
   - Argumentation (35%%): Logic, originality, evidence
   - Rebuttal (30%%): Targeting, effectiveness, reconstruction
   - Delivery (20%%): Clarity, structure
   - Strategy (15%%): Position consistency, weighing
4. Key rules:
   - No new arguments in Summary (Whip Speech)
   - Rebuttals must engage opponent's points
   - Focus on comparative analysis
5. Your tone: %s

Keep it concise (150-250 words) and professional.

Provide your introduction:`, personaName(persona, "the judge"), topic, tone)
}

// violationsSection renders detected forbidden-phrase violations so
// the judge model is informed before scoring.
func violationsSection(violations []model.Violation) string {
	if len(violations) == 0 {
		return ""
	}
	var b strings.Builder
	b.WriteString("\n\n=== DETECTED FORBIDDEN PHRASE VIOLATIONS ===\n")
	for _, v := range violations {
		fmt.Fprintf(&b, "- %q (context: ...%s...)\n", v.Phrase, v.Context)
	}
	b.WriteString("Apply an appropriate penalty for these violations in your scoring.")
	return b.String()
}

// ScoreOpening builds the scoring prompt for an opening argument.
func ScoreOpening(turnContent string, rubric model.Rubric, agentName string, violations []model.Violation) string {
	return fmt.Sprintf(`You are scoring %s's opening argument.

=== OPENING ARGUMENT ===
%s%s

Scoring Criteria (0-10 for each sub-criterion):

**Argumentation (%.0f%%)**
- Logic (0-10): Logical structure and coherence
- Originality (0-10): Depth and uniqueness of perspective
- Evidence (0-10): Quality and relevance of support

**Delivery (%.0f%%)**
- Clarity (0-10): Clear expression and understandability
- Structure (0-10): Organization and flow

**Strategy (%.0f%%)**
- Position Setup (0-10): Clarity of position framework

Provide your scores in this exact JSON format:
{
    "argumentation": {
        "logic": <0-10>,
        "originality": <0-10>,
        "evidence": <0-10>
    },
    "delivery": {
        "clarity": <0-10>,
        "structure": <0-10>
    },
    "strategy": {
        "position_setup": <0-10>
    },
    "total": <calculated sum>,
    "justification": "<brief 1-2 sentence explanation>"
}

Respond with ONLY the JSON, no additional text:`,
		agentName, turnContent, violationsSection(violations),
		rubric.Weight("argumentation_weight", 35),
		rubric.Weight("delivery_weight", 20),
		rubric.Weight("strategy_weight", 15))
}

// ScoreRebuttal builds the scoring prompt for a rebuttal, with the
// opponent's opening for reference.
func ScoreRebuttal(turnContent string, rubric model.Rubric, agentName, opponentOpening string, violations []model.Violation) string {
	return fmt.Sprintf(`You are scoring %s's rebuttal.

=== OPPONENT'S OPENING (FOR REFERENCE) ===
%s

=== REBUTTAL TO SCORE ===
%s%s

Scoring Criteria (0-10 for each sub-criterion):

**Rebuttal (%.0f%%)**
- Targeting (0-10): Accuracy in identifying opponent's core claims
- Effectiveness (0-10): Strength of counter-arguments
- Reconstruction (0-10): Ability to turn opponent's points

**Argumentation (%.0f%%)**
- Consistency (0-10): Alignment with opening argument

**Delivery (%.0f%%)**
- Clarity (0-10): Clear refutation logic

Provide your scores in this exact JSON format:
{
    "rebuttal": {
        "targeting": <0-10>,
        "effectiveness": <0-10>,
        "reconstruction": <0-10>
    },
    "argumentation": {
        "consistency": <0-10>
    },
    "delivery": {
        "clarity": <0-10>
    },
    "total": <calculated sum>,
    "justification": "<brief 1-2 sentence explanation>"
}

Respond with ONLY the JSON, no additional text:`,
		agentName, opponentOpening, turnContent, violationsSection(violations),
		rubric.Weight("rebuttal_weight", 30),
		rubric.Weight("argumentation_weight", 35),
		rubric.Weight("delivery_weight", 20))
}

// ScoreSummary builds the scoring prompt for a closing summary,
// including all prior debater turns for new-argument detection.
func ScoreSummary(turnContent string, rubric model.Rubric, agentName string, allPreviousTurns []string, violations []model.Violation) string {
	return fmt.Sprintf(`You are scoring %s's summary (Whip Speech).

=== PREVIOUS DEBATE TURNS ===
%s

=== SUMMARY TO SCORE ===
%s%s

Scoring Criteria (0-10 for each sub-criterion):

**Strategy (%.0f%%)**
- Weighing (0-10): Quality of comparative analysis
- New Argument Penalty: **-5 points if new arguments detected**

**Argumentation (%.0f%%)**
- Synthesis (0-10): Coherence of overall case summary

**Delivery (%.0f%%)**
- Impact (0-10): Memorability and closing strength

**IMPORTANT**: Check if the summary introduces NEW arguments, evidence, or examples not mentioned in previous turns. This is strictly forbidden in BP Lite format.

Provide your scores in this exact JSON format:
{
    "strategy": {
        "weighing": <0-10>,
        "new_argument_penalty": <0 or -5>
    },
    "argumentation": {
        "synthesis": <0-10>
    },
    "delivery": {
        "impact": <0-10>
    },
    "total": <calculated sum including penalty>,
    "new_arguments_detected": <true/false>,
    "justification": "<brief 1-2 sentence explanation>"
}

Respond with ONLY the JSON, no additional text:`,
		agentName, numberedTurns(allPreviousTurns), turnContent, violationsSection(violations),
		rubric.Weight("strategy_weight", 15),
		rubric.Weight("argumentation_weight", 35),
		rubric.Weight("delivery_weight", 20))
}

// Verdict builds the final-verdict prompt with both accumulated score
// breakdowns and a truncated transcript.
func Verdict(topic string, positionA, positionB model.Position, agentAName, agentBName string, scoresA, scoresB model.ScoreCard, allTurns []string) string {
	summaries := make([]string, 0, len(allTurns))
	for i, turn := range allTurns {
		summaries = append(summaries, fmt.Sprintf("[Turn %d] %s...", i+1, truncate(turn, 200)))
	}

	return fmt.Sprintf(`You are delivering the final verdict for this debate.

Topic: %s
- %s's Position: %s
- %s's Position: %s

=== FINAL SCORES ===
**%s: %g points**
- Argumentation: %g
- Rebuttal: %g
- Delivery: %g
- Strategy: %g

**%s: %g points**
- Argumentation: %g
- Rebuttal: %g
- Delivery: %g
- Strategy: %g

=== DEBATE SUMMARY ===
%s

Your task: Deliver a comprehensive final verdict.

Include:
1. **Winner Announcement**: State the winner clearly
2. **Score Analysis**: Compare scores and explain the difference
3. **Strongest Moments**: Highlight best arguments from each side
4. **Weakest Moments**: Identify missed opportunities or weak points
5. **Recommendations**: Suggest improvements for each debater
6. **Closing Statement**: Memorable final remarks

Be fair, objective, and constructive. Length: 300-500 words.

Provide your verdict:`,
		topic,
		agentAName, positionA, agentBName, positionB,
		agentAName, scoresA.Total, scoresA.Argumentation, scoresA.Rebuttal, scoresA.Delivery, scoresA.Strategy,
		agentBName, scoresB.Total, scoresB.Argumentation, scoresB.Rebuttal, scoresB.Delivery, scoresB.Strategy,
		strings.Join(summaries, "\n\n"))
}

func truncate(s string, n int) string {
	runes := []rune(s)
	if len(runes) <= n {
		return s
	}
	return string(runes[:n])
}
