package nodes

import (
	"context"
	"fmt"
	"strings"

	"devops-assistant-be/internal/pkg/logger"
	"devops-assistant-be/pkg/agent/state"
	"devops-assistant-be/pkg/llm"
)

// Evaluator classifies an on-topic query as general or debug and reframes it
// for retrieval. Classification failures default to general; the reframed
// query always falls back to the original.
type Evaluator struct {
	llm llm.LLMProvider
	log logger.ILogger
}

func NewEvaluator(provider llm.LLMProvider, log logger.ILogger) *Evaluator {
	return &Evaluator{
		llm: provider,
		log: log,
	}
}

func (e *Evaluator) Evaluate(ctx context.Context, st *state.State) {
	st.QueryType = e.classify(ctx, st)

	ev := e.analyze(ctx, st)
	st.Reasoning = ev.Reasoning
	st.ReframedQuery = ev.Reframed

	st.AddStep(AgentEvaluator, StepDone, map[string]interface{}{
		"query_type":     st.QueryType.String(),
		"reframed_query": st.ReframedQuery,
	})
}

func (e *Evaluator) classify(ctx context.Context, st *state.State) state.QueryType {
	prompt := fmt.Sprintf(
		"Classify this DevOps query.\n\n"+
			"GENERAL: conceptual questions, how-to guides, best practices, tool comparisons.\n"+
			"DEBUG: troubleshooting a concrete failure, error message, or broken system.\n\n"+
			"Query: %s\n\n"+
			"Answer with exactly one word: GENERAL or DEBUG.",
		st.Query,
	)

	resp, err := e.llm.Generate(ctx, prompt, llm.WithTemperature(0.0))
	if err != nil {
		e.log.Warn("evaluator", "classification failed, defaulting to general", map[string]interface{}{
			"session_id": st.SessionID,
			"error":      err.Error(),
		})
		return state.QueryTypeGeneral
	}

	if strings.Contains(strings.ToUpper(resp), "DEBUG") {
		return state.QueryTypeDebug
	}
	return state.QueryTypeGeneral
}

func (e *Evaluator) analyze(ctx context.Context, st *state.State) Evaluation {
	prompt := fmt.Sprintf(
		"Analyze this DevOps query and reframe it as a precise search query.\n\n"+
			"Query: %s\n\n"+
			"Respond in exactly this format:\n"+
			"REASONING: <one or two sentences on what the user needs>\n"+
			"REFRAMED: <a concise search query>\n"+
			"CONTEXT: <any implicit context worth noting, or none>",
		st.Query,
	)

	resp, err := e.llm.Generate(ctx, prompt, llm.WithTemperature(0.0))
	if err != nil {
		e.log.Warn("evaluator", "analysis failed, using original query", map[string]interface{}{
			"session_id": st.SessionID,
			"error":      err.Error(),
		})
		return Evaluation{Reframed: st.Query}
	}
	return ParseEvaluation(resp, st.Query)
}
