package nodes

import (
	"context"
	"errors"
	"testing"

	"devops-assistant-be/pkg/search"
)

func TestRetrieverSuccess(t *testing.T) {
	searcher := &fakeSearcher{results: []search.Result{
		{ID: "1", Title: "Runbook", Content: "restart the pod", Score: 0.9},
	}}
	r := NewRetriever(searcher, 5, nopLogger{})
	st := newTestState("pods restarting")
	st.ReframedQuery = "kubernetes crashloopbackoff fix"

	r.Retrieve(context.Background(), st)

	if len(st.RetrievalResults) != 1 {
		t.Fatalf("RetrievalResults = %+v, want 1 entry", st.RetrievalResults)
	}
	if len(searcher.queries) != 1 || searcher.queries[0] != "kubernetes crashloopbackoff fix" {
		t.Errorf("searched with %v, want the reframed query", searcher.queries)
	}
	if len(st.Steps) != 1 || st.Steps[0].Status != StepDone {
		t.Errorf("steps = %+v", st.Steps)
	}
}

func TestRetrieverFailureDegradesToEmpty(t *testing.T) {
	searcher := &fakeSearcher{err: errors.New("connection refused")}
	r := NewRetriever(searcher, 5, nopLogger{})
	st := newTestState("pods restarting")

	r.Retrieve(context.Background(), st)

	if st.RetrievalResults == nil {
		t.Fatal("RetrievalResults is nil, want empty slice")
	}
	if len(st.RetrievalResults) != 0 {
		t.Fatalf("RetrievalResults = %+v, want empty", st.RetrievalResults)
	}
	if len(st.Steps) != 1 || st.Steps[0].Status != StepError {
		t.Fatalf("steps = %+v, want one error entry", st.Steps)
	}
	if st.Steps[0].Agent != AgentRetriever {
		t.Errorf("step agent = %q", st.Steps[0].Agent)
	}
}

func TestRetrieverUsesOriginalQueryWithoutReframe(t *testing.T) {
	searcher := &fakeSearcher{}
	r := NewRetriever(searcher, 5, nopLogger{})
	st := newTestState("pods restarting")

	r.Retrieve(context.Background(), st)

	if len(searcher.queries) != 1 || searcher.queries[0] != "pods restarting" {
		t.Errorf("searched with %v, want the original query", searcher.queries)
	}
}
