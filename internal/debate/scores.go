package debate

import (
	"encoding/json"
	"strings"
)

// ParseScores extracts a structured score object from judge output.
// The text usually is a bare JSON object, but models wrap it in prose
// often enough that two fallbacks exist: the first balanced
// brace-delimited substring, then a fixed default structure built from
// def. This function never fails.
func ParseScores(text string, def float64) map[string]any {
	trimmed := strings.TrimSpace(text)

	var scores map[string]any
	if err := json.Unmarshal([]byte(trimmed), &scores); err == nil && scores != nil {
		return scores
	}

	if obj := extractJSONObject(trimmed); obj != "" {
		scores = nil
		if err := json.Unmarshal([]byte(obj), &scores); err == nil && scores != nil {
			return scores
		}
	}

	return defaultScores(def)
}

// extractJSONObject returns the first balanced brace-delimited
// substring of s, or "" when none exists. Braces inside JSON strings
// are ignored.
func extractJSONObject(s string) string {
	start := strings.IndexByte(s, '{')
	if start < 0 {
		return ""
	}

	depth := 0
	inString := false
	escaped := false
	for i := start; i < len(s); i++ {
		c := s[i]
		if inString {
			switch {
			case escaped:
				escaped = false
			case c == '\\':
				escaped = true
			case c == '"':
				inString = false
			}
			continue
		}
		switch c {
		case '"':
			inString = true
		case '{':
			depth++
		case '}':
			depth--
			if depth == 0 {
				return s[start : i+1]
			}
		}
	}
	return ""
}

func defaultScores(def float64) map[string]any {
	return map[string]any{
		"argumentation": map[string]any{"total": def * 3},
		"delivery":      map[string]any{"total": def * 2},
		"strategy":      map[string]any{"total": def},
		"total":         def * 6,
		"justification": "parsing failed",
	}
}
