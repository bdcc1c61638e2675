package prompt

import (
	"fmt"
	"strings"

	"github.com/metalagman/arena/internal/model"
)

// Opening builds the opening-argument prompt for a debater.
func Opening(topic string, position model.Position, persona model.Persona) string {
	values := persona.Values
	if len(values) == 0 {
		values = []string{"logic", "evidence"}
	}
	tone := persona.Tone
	if tone == "" {
		tone = "formal"
	}
	thinking := persona.ThinkingStyle
	if thinking == "" {
		thinking = "analytical"
	}
	speaking := persona.SpeakingStyle
	if speaking == "" {
		speaking = "structured"
	}

	return fmt.Sprintf(`You are %s.

Persona:
- Tone: %s
- Values: %s
- Thinking Style: %s
- Speaking Style: %s

Debate Topic: %s
Your Position: %s

Your task: Present a strong opening argument.

Requirements (BP Lite - Opening):
1. Define key terms relevant to the debate
2. Present 2-3 core arguments with clear reasoning
3. Use evidence, examples, or logical frameworks to support your claims
4. Establish a clear position framework
5. Be persuasive, well-structured, and compelling%s

Length: Aim for 300-500 words.

Present your opening argument now:`,
		personaName(persona, "a debater"), tone, strings.Join(values, ", "),
		thinking, speaking, topic, position,
		forbiddenLine("Forbidden phrases (do not use)", persona.ForbiddenPhrases))
}

// Rebuttal builds the rebuttal prompt, anchored on both openings.
func Rebuttal(topic string, position model.Position, persona model.Persona, opponentOpening, ownOpening string) string {
	return fmt.Sprintf(`Topic: %s
Your Position: %s

=== OPPONENT'S OPENING ARGUMENT ===
%s

=== YOUR OPENING ARGUMENT ===
%s

Your task: Rebut the opponent's argument.

Requirements (BP Lite - Rebuttal):
1. Identify the opponent's core claims and weakest points
2. Target their arguments with direct refutation
3. Expose logical flaws, unsupported assumptions, or weak evidence
4. Reconstruct their points to support your position (if possible)
5. Maintain consistency with your opening argument
6. Do not use strawman arguments or personal attacks%s

Length: Aim for 250-400 words.

Present your rebuttal now:`,
		topic, position, opponentOpening, ownOpening,
		forbiddenLine("Forbidden", persona.ForbiddenPhrases))
}

// Summary builds the closing-summary (whip speech) prompt over the
// full debate so far.
func Summary(topic string, position model.Position, persona model.Persona, allDebateTurns []string) string {
	return fmt.Sprintf(`Topic: %s
Your Position: %s

=== FULL DEBATE SO FAR ===
%s

Your task: Deliver a closing summary (Whip Speech).

Requirements (BP Lite - Summary/Whip):
1. **NO NEW ARGUMENTS** - This is strictly forbidden and will result in penalties
2. Weigh your arguments against the opponent's (comparative analysis)
3. Explain why your side wins (impact comparison, bigger picture)
4. Synthesize your team's case into a coherent narrative
5. Provide a memorable closing statement
6. Focus on "weighing" - why your arguments matter more%s

**WARNING**: Introducing new arguments, new evidence, or new examples that were not mentioned earlier will result in automatic penalties. You may only:
- Summarize and crystallize existing arguments
- Compare the relative importance/impact of arguments
- Explain why your framework is superior

Length: Aim for 200-350 words.

Present your summary now:`,
		topic, position, numberedTurns(allDebateTurns),
		forbiddenLine("Forbidden phrases", persona.ForbiddenPhrases))
}
