// Package prompt builds the prompt strings for every debate phase.
// All builders are pure functions over the debate context.
package prompt

import (
	"fmt"
	"strings"

	"github.com/metalagman/arena/internal/model"
)

// System builds the system prompt for an agent from its persona. A
// full override, when present, wins over the assembled prompt.
func System(persona model.Persona) string {
	if persona.SystemPromptOverride != "" {
		return persona.SystemPromptOverride
	}

	name := persona.Name
	if name == "" {
		name = "a debater"
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

	var b strings.Builder
	fmt.Fprintf(&b, `You are %s, a debate participant.

Your characteristics:
- Tone: %s
- Thinking Style: %s
- Speaking Style: %s`, name, tone, thinking, speaking)

	if len(persona.Values) > 0 {
		fmt.Fprintf(&b, "\n- Core Values: %s", strings.Join(persona.Values, ", "))
	}

	b.WriteString("\n\nEngage in the debate with clarity, logic, and persuasive arguments.")
	return b.String()
}

func personaName(persona model.Persona, fallback string) string {
	if persona.Name != "" {
		return persona.Name
	}
	return fallback
}

func forbiddenLine(label string, phrases []string) string {
	if len(phrases) == 0 {
		return ""
	}
	return fmt.Sprintf("\n\n%s: %s", label, strings.Join(phrases, ", "))
}

func numberedTurns(turns []string) string {
	lines := make([]string, 0, len(turns))
	for i, turn := range turns {
		lines = append(lines, fmt.Sprintf("[Turn %d] %s", i+1, turn))
	}
	return strings.Join(lines, "\n\n")
}
