package nodes

import (
	"strings"
)

const (
	markerReasoning = "REASONING:"
	markerReframed  = "REFRAMED:"
	markerContext   = "CONTEXT:"
)

// Evaluation is the parsed analysis section of an Evaluator response.
type Evaluation struct {
	Reasoning string
	Reframed  string
	Context   string
}

// ParseEvaluation extracts the REASONING/REFRAMED/CONTEXT sections from a raw
// model response. Each marker is optional: a missing REASONING degrades to an
// empty string, a missing REFRAMED falls back to the original query so the
// reframed query is never empty.
func ParseEvaluation(raw, fallbackQuery string) Evaluation {
	ev := Evaluation{
		Reframed: strings.TrimSpace(fallbackQuery),
	}

	if section, ok := between(raw, markerReasoning, markerReframed, markerContext); ok {
		ev.Reasoning = section
	}
	if section, ok := between(raw, markerReframed, markerContext, markerReasoning); ok && section != "" {
		ev.Reframed = section
	}
	if section, ok := between(raw, markerContext, markerReasoning, markerReframed); ok {
		ev.Context = section
	}

	if ev.Reframed == "" {
		ev.Reframed = strings.TrimSpace(fallbackQuery)
	}
	return ev
}

// between returns the trimmed text after the first occurrence of marker up to
// the earliest following stop marker, or the end of the string.
func between(raw, marker string, stops ...string) (string, bool) {
	start := strings.Index(raw, marker)
	if start < 0 {
		return "", false
	}
	section := raw[start+len(marker):]

	end := len(section)
	for _, stop := range stops {
		if idx := strings.Index(section, stop); idx >= 0 && idx < end {
			end = idx
		}
	}
	return strings.TrimSpace(section[:end]), true
}
