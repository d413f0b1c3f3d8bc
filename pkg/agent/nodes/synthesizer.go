package nodes

import (
	"context"
	"fmt"
	"strings"
	"unicode/utf8"

	"devops-assistant-be/internal/pkg/logger"
	"devops-assistant-be/pkg/agent/state"
	"devops-assistant-be/pkg/llm"
	"devops-assistant-be/pkg/mcp"
)

const (
	searchToolName    = "google"
	docSnippetLen     = 300
	failureAnswerFmt  = "Unable to generate answer: %v"
	noDocsSentinel    = "- No internal documentation found for this query"
	noSearchSentinel  = "- No recent search results available"
	knowledgeBaseHead = "=== KNOWLEDGE BASE (Internal Documentation) ==="
	searchHead        = "=== RECENT SEARCH RESULTS (Latest Information) ==="
)

// Synthesizer composes the final answer. It always re-attempts the external
// search tool before prompting: a non-empty tool result replaces whatever
// searchResults the run already holds and credits the tool.
type Synthesizer struct {
	llm   llm.LLMProvider
	tools *mcp.Registry
	topK  int
	log   logger.ILogger
}

func NewSynthesizer(provider llm.LLMProvider, tools *mcp.Registry, topK int, log logger.ILogger) *Synthesizer {
	if topK <= 0 {
		topK = 5
	}
	return &Synthesizer{
		llm:   provider,
		tools: tools,
		topK:  topK,
		log:   log,
	}
}

// Synthesize fills st.FinalAnswer and returns the name of the external tool
// that contributed results, or "" when none did.
func (s *Synthesizer) Synthesize(ctx context.Context, st *state.State) string {
	usedTool := ""
	if tool := s.tools.Get(searchToolName); tool != nil {
		results, err := tool.Search(ctx, st.EffectiveQuery(), s.topK)
		switch {
		case err != nil:
			s.log.Warn("synthesizer", "external search failed", map[string]interface{}{
				"session_id": st.SessionID,
				"tool":       tool.Name(),
				"error":      err.Error(),
			})
		case len(results) > 0:
			st.SearchResults = results
			usedTool = tool.Name()
		}
	}

	prompt := BuildSynthesisPrompt(st)
	answer, err := s.llm.Generate(ctx, prompt)
	if err != nil {
		st.FinalAnswer = fmt.Sprintf(failureAnswerFmt, err)
		st.AddStep(AgentSynthesizer, StepError, map[string]interface{}{
			"error": err.Error(),
		})
		s.log.Error("synthesizer", "answer generation failed", map[string]interface{}{
			"session_id": st.SessionID,
			"error":      err.Error(),
		})
		return usedTool
	}

	st.FinalAnswer = answer
	st.AddStep(AgentSynthesizer, StepDone, map[string]interface{}{
		"used_mcp": usedTool != "",
	})
	return usedTool
}

// BuildSynthesisPrompt assembles the answer prompt in a fixed section order:
// query, analysis, knowledge base, recent search results, instructions.
func BuildSynthesisPrompt(st *state.State) string {
	var sb strings.Builder
	sb.WriteString("You are a DevOps expert assistant. Answer the user's question using the provided context.\n\n")
	sb.WriteString(fmt.Sprintf("User Query: %s\n\n", st.Query))

	if st.Reasoning != "" {
		sb.WriteString(fmt.Sprintf("Agent Analysis: %s\n\n", st.Reasoning))
	}

	sb.WriteString(knowledgeBaseHead + "\n")
	if len(st.RetrievalResults) == 0 {
		sb.WriteString(noDocsSentinel + "\n")
	} else {
		for _, doc := range st.RetrievalResults {
			sb.WriteString(fmt.Sprintf("- %s: %s\n", doc.Title, truncateRunes(doc.Content, docSnippetLen)))
		}
	}

	sb.WriteString("\n" + searchHead + "\n")
	if len(st.SearchResults) == 0 {
		sb.WriteString(noSearchSentinel + "\n")
	} else {
		for _, res := range st.SearchResults {
			sb.WriteString(fmt.Sprintf("- %s (%s): %s\n", res.Title, res.Link, res.Snippet))
		}
	}

	sb.WriteString("\nInstructions:\n")
	sb.WriteString("1. Prioritize internal documentation when it is relevant\n")
	sb.WriteString("2. Use recent search results for the latest information\n")
	sb.WriteString("3. Be concise and actionable\n")
	sb.WriteString("4. If the context is insufficient, say so and answer from general knowledge\n")
	return sb.String()
}

// truncateRunes caps s at n runes, never splitting a multi-byte character.
func truncateRunes(s string, n int) string {
	if utf8.RuneCountInString(s) <= n {
		return s
	}
	return string([]rune(s)[:n])
}
