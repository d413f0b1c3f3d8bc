package nodes

import (
	"context"
	"fmt"
	"strings"

	"devops-assistant-be/internal/pkg/logger"
	"devops-assistant-be/pkg/agent/state"
	"devops-assistant-be/pkg/llm"
)

// Validator gates every query: a substring guardrail scan first, then an LLM
// yes/no check that the query is DevOps-related. The guardrail never calls
// the model; a blocked term short-circuits the whole run.
type Validator struct {
	llm           llm.LLMProvider
	guardTerms    []string
	historyWindow int
	log           logger.ILogger
}

func NewValidator(provider llm.LLMProvider, guardTerms []string, historyWindow int, log logger.ILogger) *Validator {
	terms := make([]string, len(guardTerms))
	for i, t := range guardTerms {
		terms[i] = strings.ToLower(t)
	}
	return &Validator{
		llm:           provider,
		guardTerms:    terms,
		historyWindow: historyWindow,
		log:           log,
	}
}

func (v *Validator) Validate(ctx context.Context, st *state.State) {
	lowered := strings.ToLower(st.Query)
	for _, term := range v.guardTerms {
		if strings.Contains(lowered, term) {
			st.GuardrailPassed = false
			st.GuardrailReason = fmt.Sprintf("Query contains prohibited term: %s", term)
			st.AddStep(AgentValidator, StepDone, map[string]interface{}{
				"guardrail_passed": false,
				"reason":           st.GuardrailReason,
			})
			v.log.Warn("validator", "query blocked by guardrail", map[string]interface{}{
				"session_id": st.SessionID,
				"term":       term,
			})
			return
		}
	}
	st.GuardrailPassed = true

	prompt := v.buildTopicPrompt(st)
	resp, err := v.llm.Generate(ctx, prompt, llm.WithTemperature(0.0))
	if err != nil {
		// Fail closed: an unreachable classifier treats the query as off-topic
		st.IsOnTopic = false
		st.AddStep(AgentValidator, StepError, map[string]interface{}{
			"guardrail_passed": true,
			"is_devops":        false,
			"error":            err.Error(),
		})
		v.log.Error("validator", "topic classification failed", map[string]interface{}{
			"session_id": st.SessionID,
			"error":      err.Error(),
		})
		return
	}

	st.IsOnTopic = strings.Contains(strings.ToUpper(resp), "YES")
	st.AddStep(AgentValidator, StepDone, map[string]interface{}{
		"guardrail_passed": true,
		"is_devops":        st.IsOnTopic,
	})
}

func (v *Validator) buildTopicPrompt(st *state.State) string {
	var sb strings.Builder
	sb.WriteString("You are a topic classifier for a DevOps assistant.\n")
	sb.WriteString("Decide whether the user's query is related to DevOps: deployment, infrastructure, ")
	sb.WriteString("CI/CD, containers, orchestration, monitoring, cloud platforms, networking, ")
	sb.WriteString("automation, or debugging of such systems.\n\n")

	if recent := st.RecentHistory(v.historyWindow); len(recent) > 0 {
		sb.WriteString("Recent conversation:\n")
		for _, msg := range recent {
			sb.WriteString(fmt.Sprintf("%s: %s\n", msg.Role, msg.Content))
		}
		sb.WriteString("\n")
	}

	sb.WriteString(fmt.Sprintf("Query: %s\n\n", st.Query))
	sb.WriteString("Answer with exactly one word: YES or NO.")
	return sb.String()
}
