package debate

import (
	"strings"

	"github.com/metalagman/arena/internal/model"
)

// contextRadius is how many bytes of surrounding text each violation
// record carries on either side of the match.
const contextRadius = 40

// DetectViolations scans content for forbidden phrases. Matching is
// case-insensitive substring matching, so a phrase matches even inside
// a longer word. Every non-overlapping occurrence of every phrase is
// reported; empty and whitespace-only phrases are skipped.
func DetectViolations(content string, phrases []string) []model.Violation {
	if content == "" || len(phrases) == 0 {
		return nil
	}

	lower := strings.ToLower(content)
	var out []model.Violation
	for _, phrase := range phrases {
		if strings.TrimSpace(phrase) == "" {
			continue
		}
		needle := strings.ToLower(phrase)
		for start := 0; start < len(lower); {
			idx := strings.Index(lower[start:], needle)
			if idx < 0 {
				break
			}
			pos := start + idx
			out = append(out, model.Violation{
				Phrase:  phrase,
				Context: surrounding(content, pos, len(needle)),
			})
			start = pos + len(needle)
		}
	}
	return out
}

func surrounding(content string, pos, matchLen int) string {
	lo := pos - contextRadius
	if lo < 0 {
		lo = 0
	}
	hi := pos + matchLen + contextRadius
	if hi > len(content) {
		hi = len(content)
	}
	return content[lo:hi]
}
