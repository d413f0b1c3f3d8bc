package search

import (
	"context"
	"fmt"

	"devops-assistant-be/internal/pkg/logger"
	"devops-assistant-be/internal/repository"
	"devops-assistant-be/pkg/embedding"
)

const keywordFallbackScore = 0.5

// GormSearcher serves knowledge-base lookups from postgres. With an embedding
// provider configured it ranks by pgvector cosine similarity; otherwise, or
// when embedding the query fails, it falls back to an ILIKE scan with a flat
// score.
type GormSearcher struct {
	repo     *repository.DocumentRepository
	embedder embedding.Provider
	log      logger.ILogger
}

var _ Searcher = &GormSearcher{}

func NewGormSearcher(repo *repository.DocumentRepository, embedder embedding.Provider, log logger.ILogger) *GormSearcher {
	return &GormSearcher{
		repo:     repo,
		embedder: embedder,
		log:      log,
	}
}

func (s *GormSearcher) Search(ctx context.Context, query string, topK int) ([]Result, error) {
	if s.embedder != nil {
		results, err := s.vectorSearch(ctx, query, topK)
		if err == nil {
			return results, nil
		}
		s.log.Warn("search", "vector search failed, falling back to keyword scan", map[string]interface{}{
			"error": err.Error(),
		})
	}
	return s.keywordSearch(ctx, query, topK)
}

func (s *GormSearcher) vectorSearch(ctx context.Context, query string, topK int) ([]Result, error) {
	vec, err := s.embedder.Embed(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("embed query: %w", err)
	}

	scored, err := s.repo.SearchSimilar(ctx, vec, topK)
	if err != nil {
		return nil, fmt.Errorf("similarity search: %w", err)
	}

	results := make([]Result, len(scored))
	for i, sd := range scored {
		results[i] = Result{
			ID:      sd.Document.Id.String(),
			Title:   sd.Document.Title,
			Content: sd.Document.Content,
			Score:   sd.Similarity,
		}
	}
	return results, nil
}

func (s *GormSearcher) keywordSearch(ctx context.Context, query string, topK int) ([]Result, error) {
	docs, err := s.repo.SearchByKeyword(ctx, query, topK)
	if err != nil {
		return nil, fmt.Errorf("keyword search: %w", err)
	}

	results := make([]Result, len(docs))
	for i, doc := range docs {
		results[i] = Result{
			ID:      doc.Id.String(),
			Title:   doc.Title,
			Content: doc.Content,
			Score:   keywordFallbackScore,
		}
	}
	return results, nil
}
