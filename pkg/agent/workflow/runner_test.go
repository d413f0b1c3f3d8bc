package workflow

import (
	"context"
	"errors"
	"testing"

	"devops-assistant-be/pkg/agent/nodes"
	"devops-assistant-be/pkg/agent/state"
	"devops-assistant-be/pkg/llm"
	"devops-assistant-be/pkg/mcp"
	"devops-assistant-be/pkg/search"
)

// --- test fakes ---

type scriptedLLM struct {
	replies []scriptedReply
	calls   int
	panics  bool
}

type scriptedReply struct {
	text string
	err  error
}

func (f *scriptedLLM) Generate(ctx context.Context, prompt string, opts ...llm.Option) (string, error) {
	if f.panics {
		panic("llm exploded")
	}
	f.calls++
	if len(f.replies) == 0 {
		return "", errors.New("no reply scripted")
	}
	reply := f.replies[0]
	f.replies = f.replies[1:]
	return reply.text, reply.err
}

func (f *scriptedLLM) Chat(ctx context.Context, history []llm.Message, opts ...llm.Option) (string, error) {
	return f.Generate(ctx, "", opts...)
}

type fakeSearcher struct {
	results []search.Result
	err     error
}

func (f *fakeSearcher) Search(ctx context.Context, query string, topK int) ([]search.Result, error) {
	if f.err != nil {
		return nil, f.err
	}
	return f.results, nil
}

type fakeTool struct {
	results []mcp.SearchResult
	err     error
}

func (f *fakeTool) Name() string { return "google" }

func (f *fakeTool) Search(ctx context.Context, query string, num int) ([]mcp.SearchResult, error) {
	if f.err != nil {
		return nil, f.err
	}
	return f.results, nil
}

type collectSink struct {
	events []Event
}

func (c *collectSink) Emit(ev Event) {
	c.events = append(c.events, ev)
}

type nopLogger struct{}

func (nopLogger) Debug(module, message string, details map[string]interface{}) {}
func (nopLogger) Info(module, message string, details map[string]interface{})  {}
func (nopLogger) Warn(module, message string, details map[string]interface{})  {}
func (nopLogger) Error(module, message string, details map[string]interface{}) {}
func (nopLogger) Sync() error                                                  { return nil }

func defaultConfig() RunnerConfig {
	return RunnerConfig{
		GuardTerms:    []string{"attack", "bomb", "illegal", "hack"},
		HistoryWindow: 6,
		SearchTopK:    5,
	}
}

func newRunner(provider llm.LLMProvider, searcher search.Searcher, tool mcp.Tool) *Runner {
	reg := mcp.NewRegistry()
	if tool != nil {
		reg.Register(tool)
	}
	return NewRunner(provider, searcher, reg, defaultConfig(), nopLogger{})
}

func eventSignature(events []Event) []string {
	sigs := make([]string, len(events))
	for i, ev := range events {
		sigs[i] = ev.Agent + "/" + ev.Status
	}
	return sigs
}

func assertSignature(t *testing.T, got []Event, want []string) {
	t.Helper()
	sigs := eventSignature(got)
	if len(sigs) != len(want) {
		t.Fatalf("event sequence = %v, want %v", sigs, want)
	}
	for i := range want {
		if sigs[i] != want[i] {
			t.Fatalf("event[%d] = %q, want %q (full: %v)", i, sigs[i], want[i], sigs)
		}
	}
}

func stepAgents(st *state.State) []string {
	agents := make([]string, len(st.Steps))
	for i, step := range st.Steps {
		agents[i] = step.Agent
	}
	return agents
}

// --- stage predicates ---

func TestStageAfterValidation(t *testing.T) {
	tests := []struct {
		name      string
		guardrail bool
		onTopic   bool
		want      Stage
	}{
		{"guardrail failed", false, false, StageRejected},
		{"guardrail failed even if on topic", false, true, StageRejected},
		{"off topic", true, false, StageNonTopic},
		{"on topic", true, true, StageEvaluating},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			st := state.New("q", "s", state.User{}, nil)
			st.GuardrailPassed = tt.guardrail
			st.IsOnTopic = tt.onTopic
			if got := StageAfterValidation(st); got != tt.want {
				t.Errorf("StageAfterValidation = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestStageAfterEvaluation(t *testing.T) {
	st := state.New("q", "s", state.User{}, nil)

	st.QueryType = state.QueryTypeDebug
	if got := StageAfterEvaluation(st); got != StageDebugBranch {
		t.Errorf("debug routed to %v", got)
	}

	st.QueryType = state.QueryTypeGeneral
	if got := StageAfterEvaluation(st); got != StageGeneralBranch {
		t.Errorf("general routed to %v", got)
	}

	st.QueryType = state.QueryTypeUnset
	if got := StageAfterEvaluation(st); got != StageGeneralBranch {
		t.Errorf("unset routed to %v, want general branch", got)
	}
}

// --- end to end scenarios ---

func TestRunDebugHappyPath(t *testing.T) {
	provider := &scriptedLLM{replies: []scriptedReply{
		{text: "YES"},   // topic check
		{text: "DEBUG"}, // classification
		{text: "REASONING: pod crash\nREFRAMED: crashloopbackoff fix\nCONTEXT: none"},
		{text: "final answer"},
	}}
	searcher := &fakeSearcher{results: []search.Result{{ID: "1", Title: "Runbook", Content: "c"}}}
	tool := &fakeTool{results: []mcp.SearchResult{{Title: "Fresh", Link: "https://x"}}}

	st := state.New("my pods keep crashing", "sess-1", state.User{Username: "alice"}, nil)
	sink := &collectSink{}

	res := newRunner(provider, searcher, tool).Run(context.Background(), st, sink)

	if res.Outcome != OutcomeAnswered {
		t.Fatalf("outcome = %v, want answered", res.Outcome)
	}
	if res.UsedTool != "google" {
		t.Errorf("UsedTool = %q, want google", res.UsedTool)
	}
	if st.FinalAnswer != "final answer" {
		t.Errorf("FinalAnswer = %q", st.FinalAnswer)
	}

	assertSignature(t, sink.events, []string{
		"Workflow/starting",
		"Validator/starting", "Validator/complete",
		"Evaluator/starting", "Evaluator/complete",
		"RetrieverAgent/starting", "RetrieverAgent/complete",
		"Synthesizer/starting", "Synthesizer/complete",
		"Workflow/complete",
	})

	wantSteps := []string{"Validator", "Evaluator", "RetrieverAgent", "Synthesizer"}
	got := stepAgents(st)
	if len(got) != len(wantSteps) {
		t.Fatalf("steps = %v, want %v", got, wantSteps)
	}
	for i := range wantSteps {
		if got[i] != wantSteps[i] {
			t.Fatalf("steps = %v, want %v", got, wantSteps)
		}
	}
}

func TestRunGeneralSkipsRetrieval(t *testing.T) {
	provider := &scriptedLLM{replies: []scriptedReply{
		{text: "YES"},
		{text: "GENERAL"},
		{text: "REASONING: basics\nREFRAMED: terraform state explained"},
		{text: "answer"},
	}}
	searcher := &fakeSearcher{err: errors.New("must not be called")}
	tool := &fakeTool{results: []mcp.SearchResult{{Title: "Doc"}}}

	st := state.New("what is terraform state", "sess-1", state.User{Username: "alice"}, nil)
	sink := &collectSink{}

	res := newRunner(provider, searcher, tool).Run(context.Background(), st, sink)

	if res.Outcome != OutcomeAnswered {
		t.Fatalf("outcome = %v", res.Outcome)
	}
	for _, agent := range stepAgents(st) {
		if agent == nodes.AgentRetriever {
			t.Error("general branch recorded a RetrieverAgent step")
		}
	}
	for _, sig := range eventSignature(sink.events) {
		if sig == "RetrieverAgent/starting" || sig == "RetrieverAgent/complete" {
			t.Error("general branch emitted retriever events")
		}
	}
	if len(st.RetrievalResults) != 0 {
		t.Errorf("RetrievalResults = %v, want empty on general branch", st.RetrievalResults)
	}
}

func TestRunGuardrailShortCircuits(t *testing.T) {
	provider := &scriptedLLM{}
	st := state.New("how to hack a server", "sess-1", state.User{Username: "alice"}, nil)
	sink := &collectSink{}

	res := newRunner(provider, &fakeSearcher{}, nil).Run(context.Background(), st, sink)

	if res.Outcome != OutcomeRejected {
		t.Fatalf("outcome = %v, want rejected", res.Outcome)
	}
	if provider.calls != 0 {
		t.Errorf("LLM called %d times on guardrail rejection, want 0", provider.calls)
	}
	assertSignature(t, sink.events, []string{
		"Workflow/starting",
		"Validator/starting", "Validator/complete",
		"Workflow/complete",
	})
	agents := stepAgents(st)
	if len(agents) != 1 || agents[0] != nodes.AgentValidator {
		t.Errorf("steps = %v, want only Validator", agents)
	}
}

func TestRunNonTopicRedirect(t *testing.T) {
	provider := &scriptedLLM{replies: []scriptedReply{{text: "NO"}}}
	st := state.New("best pasta recipe", "sess-1", state.User{Username: "alice"}, nil)
	sink := &collectSink{}

	res := newRunner(provider, &fakeSearcher{}, nil).Run(context.Background(), st, sink)

	if res.Outcome != OutcomeNonTopic {
		t.Fatalf("outcome = %v, want non-topic", res.Outcome)
	}
	if st.FinalAnswer != nodes.RedirectMessage {
		t.Errorf("FinalAnswer = %q, want the fixed redirect", st.FinalAnswer)
	}
	assertSignature(t, sink.events, []string{
		"Workflow/starting",
		"Validator/starting", "Validator/complete",
		"NonDevOpsAgent/starting", "NonDevOpsAgent/complete",
		"Workflow/complete",
	})
}

func TestRunRetrievalFailureStillAnswers(t *testing.T) {
	provider := &scriptedLLM{replies: []scriptedReply{
		{text: "YES"},
		{text: "DEBUG"},
		{text: "REFRAMED: q"},
		{text: "answer despite retrieval failure"},
	}}
	searcher := &fakeSearcher{err: errors.New("vector store down")}

	st := state.New("pods crashing", "sess-1", state.User{Username: "alice"}, nil)
	sink := &collectSink{}

	res := newRunner(provider, searcher, nil).Run(context.Background(), st, sink)

	if res.Outcome != OutcomeAnswered {
		t.Fatalf("outcome = %v, retrieval failure must not abort", res.Outcome)
	}
	if st.FinalAnswer != "answer despite retrieval failure" {
		t.Errorf("FinalAnswer = %q", st.FinalAnswer)
	}

	sawRetrieverError := false
	for _, sig := range eventSignature(sink.events) {
		if sig == "RetrieverAgent/error" {
			sawRetrieverError = true
		}
	}
	if !sawRetrieverError {
		t.Errorf("expected RetrieverAgent/error event, got %v", eventSignature(sink.events))
	}
}

func TestRunPanicSurfacesAsWorkflowError(t *testing.T) {
	provider := &scriptedLLM{panics: true}
	st := state.New("deploy question", "sess-1", state.User{Username: "alice"}, nil)
	sink := &collectSink{}

	res := newRunner(provider, &fakeSearcher{}, nil).Run(context.Background(), st, sink)

	if res.Outcome != OutcomeError {
		t.Fatalf("outcome = %v, want error", res.Outcome)
	}
	if res.Err == nil {
		t.Fatal("Err is nil")
	}
	last := sink.events[len(sink.events)-1]
	if last.Agent != AgentWorkflow || last.Status != StatusError {
		t.Errorf("last event = %s/%s, want Workflow/error", last.Agent, last.Status)
	}
}

func TestRunSynthesizerStartingAdvertisesMCP(t *testing.T) {
	provider := &scriptedLLM{replies: []scriptedReply{
		{text: "YES"},
		{text: "GENERAL"},
		{text: "REFRAMED: q"},
		{text: "answer"},
	}}
	tool := &fakeTool{err: errors.New("down")}

	st := state.New("how to deploy", "sess-1", state.User{Username: "alice"}, nil)
	sink := &collectSink{}

	newRunner(provider, &fakeSearcher{}, tool).Run(context.Background(), st, sink)

	var starting, complete *Event
	for i := range sink.events {
		ev := &sink.events[i]
		if ev.Agent == nodes.AgentSynthesizer && ev.Status == StatusStarting {
			starting = ev
		}
		if ev.Agent == nodes.AgentSynthesizer && ev.Status == StatusComplete {
			complete = ev
		}
	}
	if starting == nil || starting.UsingMCP == nil || !*starting.UsingMCP {
		t.Error("Synthesizer/starting should advertise the registered tool")
	}
	if complete == nil || complete.UsingMCP == nil || *complete.UsingMCP {
		t.Error("Synthesizer/complete should report the tool contributed nothing")
	}
}
