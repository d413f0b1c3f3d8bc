package workflow

import (
	"context"
	"fmt"

	"devops-assistant-be/internal/pkg/logger"
	"devops-assistant-be/pkg/agent/nodes"
	"devops-assistant-be/pkg/agent/state"
	"devops-assistant-be/pkg/llm"
	"devops-assistant-be/pkg/mcp"
	"devops-assistant-be/pkg/search"
)

// Outcome is how a run ended.
type Outcome int

const (
	OutcomeAnswered Outcome = iota
	OutcomeRejected
	OutcomeNonTopic
	OutcomeError
)

// Result summarizes a finished run for the session loop.
type Result struct {
	Outcome  Outcome
	UsedTool string
	Err      error
}

// Runner drives one state through the validate/evaluate/retrieve/synthesize
// pipeline, emitting progress events along the way.
type Runner struct {
	validator   *nodes.Validator
	evaluator   *nodes.Evaluator
	nonDevOps   *nodes.NonDevOps
	retriever   *nodes.Retriever
	synthesizer *nodes.Synthesizer
	tools       *mcp.Registry
	log         logger.ILogger
}

type RunnerConfig struct {
	GuardTerms    []string
	HistoryWindow int
	SearchTopK    int
}

func NewRunner(provider llm.LLMProvider, searcher search.Searcher, tools *mcp.Registry, cfg RunnerConfig, log logger.ILogger) *Runner {
	return &Runner{
		validator:   nodes.NewValidator(provider, cfg.GuardTerms, cfg.HistoryWindow, log),
		evaluator:   nodes.NewEvaluator(provider, log),
		nonDevOps:   nodes.NewNonDevOps(),
		retriever:   nodes.NewRetriever(searcher, cfg.SearchTopK, log),
		synthesizer: nodes.NewSynthesizer(provider, tools, cfg.SearchTopK, log),
		tools:       tools,
		log:         log,
	}
}

func emit(sink EventSink, agent, status string, payload map[string]interface{}, usingMCP *bool) {
	sink.Emit(Event{
		Agent:       agent,
		Status:      status,
		Description: Describe(agent),
		Payload:     payload,
		UsingMCP:    usingMCP,
	})
}

// Run executes the pipeline for one message. It never panics outward: an
// unexpected failure surfaces as a Workflow error event and OutcomeError,
// leaving the connection usable.
func (r *Runner) Run(ctx context.Context, st *state.State, sink EventSink) (res Result) {
	defer func() {
		if rec := recover(); rec != nil {
			err := fmt.Errorf("workflow panic: %v", rec)
			emit(sink, AgentWorkflow, StatusError, map[string]interface{}{
				"error": err.Error(),
			}, nil)
			r.log.Error("workflow", "run panicked", map[string]interface{}{
				"session_id": st.SessionID,
				"error":      err.Error(),
			})
			res = Result{Outcome: OutcomeError, Err: err}
		}
	}()

	emit(sink, AgentWorkflow, StatusStarting, nil, nil)

	emit(sink, nodes.AgentValidator, StatusStarting, nil, nil)
	r.validator.Validate(ctx, st)
	emit(sink, nodes.AgentValidator, StatusComplete, map[string]interface{}{
		"guardrail_passed": st.GuardrailPassed,
		"is_devops":        st.IsOnTopic,
	}, nil)

	switch StageAfterValidation(st) {
	case StageRejected:
		emit(sink, AgentWorkflow, StatusComplete, nil, nil)
		return Result{Outcome: OutcomeRejected}

	case StageNonTopic:
		emit(sink, nodes.AgentNonDevOps, StatusStarting, nil, nil)
		r.nonDevOps.Respond(st)
		emit(sink, nodes.AgentNonDevOps, StatusComplete, nil, nil)
		emit(sink, AgentWorkflow, StatusComplete, nil, nil)
		return Result{Outcome: OutcomeNonTopic}
	}

	emit(sink, nodes.AgentEvaluator, StatusStarting, nil, nil)
	r.evaluator.Evaluate(ctx, st)
	emit(sink, nodes.AgentEvaluator, StatusComplete, map[string]interface{}{
		"query_type":     st.QueryType.String(),
		"reframed_query": st.ReframedQuery,
	}, nil)

	if StageAfterEvaluation(st) == StageDebugBranch {
		emit(sink, nodes.AgentRetriever, StatusStarting, nil, nil)
		r.retriever.Retrieve(ctx, st)
		if last := len(st.Steps) - 1; last >= 0 && st.Steps[last].Agent == nodes.AgentRetriever && st.Steps[last].Status == nodes.StepError {
			emit(sink, nodes.AgentRetriever, StatusError, st.Steps[last].Detail, nil)
		} else {
			emit(sink, nodes.AgentRetriever, StatusComplete, map[string]interface{}{
				"documents_found": len(st.RetrievalResults),
			}, nil)
		}
	}

	mcpAvailable := r.tools.Get("google") != nil
	emit(sink, nodes.AgentSynthesizer, StatusStarting, nil, &mcpAvailable)
	usedTool := r.synthesizer.Synthesize(ctx, st)
	usedMCP := usedTool != ""
	emit(sink, nodes.AgentSynthesizer, StatusComplete, nil, &usedMCP)

	emit(sink, AgentWorkflow, StatusComplete, nil, nil)
	return Result{Outcome: OutcomeAnswered, UsedTool: usedTool}
}
