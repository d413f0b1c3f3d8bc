package nodes

import (
	"context"
	"errors"
	"testing"

	"devops-assistant-be/pkg/agent/state"
)

func TestEvaluatorClassification(t *testing.T) {
	tests := []struct {
		name     string
		reply    string
		wantType state.QueryType
	}{
		{"debug", "DEBUG", state.QueryTypeDebug},
		{"debug with prose", "This is clearly DEBUG territory.", state.QueryTypeDebug},
		{"lowercase debug", "debug", state.QueryTypeDebug},
		{"general", "GENERAL", state.QueryTypeGeneral},
		{"unrecognized", "MAYBE", state.QueryTypeGeneral},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			provider := &scriptedLLM{replies: []scriptedReply{
				{text: tt.reply},
				{text: "REASONING: r\nREFRAMED: rq\nCONTEXT: c"},
			}}
			e := NewEvaluator(provider, nopLogger{})
			st := newTestState("my pods keep restarting")

			e.Evaluate(context.Background(), st)

			if st.QueryType != tt.wantType {
				t.Errorf("QueryType = %v, want %v", st.QueryType, tt.wantType)
			}
		})
	}
}

func TestEvaluatorClassificationFailureDefaultsGeneral(t *testing.T) {
	provider := &scriptedLLM{replies: []scriptedReply{
		{err: errors.New("timeout")},
		{text: "REASONING: r\nREFRAMED: rq\nCONTEXT: c"},
	}}
	e := NewEvaluator(provider, nopLogger{})
	st := newTestState("my pods keep restarting")

	e.Evaluate(context.Background(), st)

	if st.QueryType != state.QueryTypeGeneral {
		t.Errorf("QueryType = %v, want general on classification failure", st.QueryType)
	}
	if st.ReframedQuery != "rq" {
		t.Errorf("ReframedQuery = %q, analysis should still run", st.ReframedQuery)
	}
}

func TestEvaluatorAnalysisFailureKeepsOriginalQuery(t *testing.T) {
	provider := &scriptedLLM{replies: []scriptedReply{
		{text: "DEBUG"},
		{err: errors.New("timeout")},
	}}
	e := NewEvaluator(provider, nopLogger{})
	st := newTestState("my pods keep restarting")

	e.Evaluate(context.Background(), st)

	if st.ReframedQuery != "my pods keep restarting" {
		t.Errorf("ReframedQuery = %q, want original query on analysis failure", st.ReframedQuery)
	}
	if st.Reasoning != "" {
		t.Errorf("Reasoning = %q, want empty on analysis failure", st.Reasoning)
	}
	if st.QueryType != state.QueryTypeDebug {
		t.Errorf("QueryType = %v, classification should be kept", st.QueryType)
	}
}

func TestEvaluatorRecordsStep(t *testing.T) {
	provider := &scriptedLLM{replies: []scriptedReply{
		{text: "GENERAL"},
		{text: "REASONING: user wants basics\nREFRAMED: terraform state basics"},
	}}
	e := NewEvaluator(provider, nopLogger{})
	st := newTestState("what is terraform state")

	e.Evaluate(context.Background(), st)

	if len(st.Steps) != 1 {
		t.Fatalf("steps = %+v, want one Evaluator entry", st.Steps)
	}
	step := st.Steps[0]
	if step.Agent != AgentEvaluator || step.Status != StepDone {
		t.Errorf("step = %+v", step)
	}
	if step.Detail["query_type"] != "general" {
		t.Errorf("step query_type = %v, want general", step.Detail["query_type"])
	}
	if step.Detail["reframed_query"] != "terraform state basics" {
		t.Errorf("step reframed_query = %v", step.Detail["reframed_query"])
	}
}
