package search

import (
	"context"
)

// Result is one normalized knowledge-base hit.
type Result struct {
	ID      string  `json:"id"`
	Title   string  `json:"title"`
	Content string  `json:"content"`
	Score   float64 `json:"score"`
}

// Searcher retrieves documents relevant to a query from the knowledge base.
type Searcher interface {
	Search(ctx context.Context, query string, topK int) ([]Result, error)
}
