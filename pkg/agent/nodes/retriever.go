package nodes

import (
	"context"

	"devops-assistant-be/internal/pkg/logger"
	"devops-assistant-be/pkg/agent/state"
	"devops-assistant-be/pkg/search"
)

// Retriever pulls internal documentation for debug-typed queries. A failing
// backend degrades to an empty result set; it never aborts the run.
type Retriever struct {
	searcher search.Searcher
	topK     int
	log      logger.ILogger
}

func NewRetriever(searcher search.Searcher, topK int, log logger.ILogger) *Retriever {
	if topK <= 0 {
		topK = 5
	}
	return &Retriever{
		searcher: searcher,
		topK:     topK,
		log:      log,
	}
}

func (r *Retriever) Retrieve(ctx context.Context, st *state.State) {
	results, err := r.searcher.Search(ctx, st.EffectiveQuery(), r.topK)
	if err != nil {
		st.RetrievalResults = []search.Result{}
		st.AddStep(AgentRetriever, StepError, map[string]interface{}{
			"error": err.Error(),
		})
		r.log.Error("retriever", "knowledge base search failed", map[string]interface{}{
			"session_id": st.SessionID,
			"error":      err.Error(),
		})
		return
	}

	st.RetrievalResults = results
	st.AddStep(AgentRetriever, StepDone, map[string]interface{}{
		"documents_found": len(results),
	})
}
