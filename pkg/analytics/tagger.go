package analytics

import (
	"context"
	"fmt"
	"strings"

	"devops-assistant-be/internal/pkg/logger"
	"devops-assistant-be/pkg/llm"
)

const maxTags = 5

// Tagger asks the model for short topic tags per question. Failures yield no
// tags rather than an error; tagging is decoration, not data.
type Tagger struct {
	llm llm.LLMProvider
	log logger.ILogger
}

func NewTagger(provider llm.LLMProvider, log logger.ILogger) *Tagger {
	return &Tagger{
		llm: provider,
		log: log,
	}
}

func (t *Tagger) Tags(ctx context.Context, question string) []string {
	prompt := fmt.Sprintf(
		"Generate up to %d short topic tags for this DevOps question. "+
			"Respond with only the tags, comma separated, lowercase.\n\nQuestion: %s",
		maxTags, question,
	)

	resp, err := t.llm.Generate(ctx, prompt, llm.WithTemperature(0.0))
	if err != nil {
		t.log.Warn("analytics", "tag generation failed", map[string]interface{}{
			"error": err.Error(),
		})
		return nil
	}
	return ParseTags(resp)
}

// ParseTags splits a model response into at most maxTags cleaned tags.
func ParseTags(raw string) []string {
	fields := strings.FieldsFunc(raw, func(r rune) bool {
		return r == ',' || r == '\n'
	})

	tags := make([]string, 0, maxTags)
	for _, field := range fields {
		tag := strings.ToLower(strings.TrimSpace(field))
		tag = strings.Trim(tag, "-• ")
		if tag == "" {
			continue
		}
		tags = append(tags, tag)
		if len(tags) == maxTags {
			break
		}
	}
	return tags
}
