package service

import (
	"context"

	"devops-assistant-be/internal/dto"
	"devops-assistant-be/internal/entity"
	"devops-assistant-be/internal/pkg/logger"
	"devops-assistant-be/internal/repository"
	"devops-assistant-be/pkg/embedding"
	"devops-assistant-be/pkg/search"

	"github.com/google/uuid"
	"github.com/pgvector/pgvector-go"
)

type IDocsService interface {
	Add(ctx context.Context, req *dto.AddDocumentRequest) (*dto.DocumentResponse, error)
	List(ctx context.Context) ([]*dto.DocumentResponse, error)
	Search(ctx context.Context, query string, topK int) ([]search.Result, error)
}

type docsService struct {
	docs     *repository.DocumentRepository
	embedder embedding.Provider
	searcher search.Searcher
	log      logger.ILogger
}

func NewDocsService(docs *repository.DocumentRepository, embedder embedding.Provider, searcher search.Searcher, log logger.ILogger) IDocsService {
	return &docsService{
		docs:     docs,
		embedder: embedder,
		searcher: searcher,
		log:      log,
	}
}

func (s *docsService) Add(ctx context.Context, req *dto.AddDocumentRequest) (*dto.DocumentResponse, error) {
	doc := &entity.Document{
		Id:      uuid.New(),
		Title:   req.Title,
		Content: req.Content,
	}
	if err := s.docs.Create(ctx, doc); err != nil {
		return nil, err
	}

	// Embedding is best-effort: keyword search still finds the document
	if s.embedder != nil {
		if vec, err := s.embedder.Embed(ctx, doc.Title+"\n\n"+doc.Content); err != nil {
			s.log.Warn("docs", "embedding failed, document stored without vector", map[string]interface{}{
				"document_id": doc.Id.String(),
				"error":       err.Error(),
			})
		} else if err := s.docs.CreateEmbedding(ctx, &entity.DocumentEmbedding{
			Id:             uuid.New(),
			DocumentId:     doc.Id,
			EmbeddingValue: pgvector.NewVector(vec),
		}); err != nil {
			s.log.Warn("docs", "storing embedding failed", map[string]interface{}{
				"document_id": doc.Id.String(),
				"error":       err.Error(),
			})
		}
	}

	return toDocumentResponse(doc), nil
}

func (s *docsService) List(ctx context.Context) ([]*dto.DocumentResponse, error) {
	docs, err := s.docs.FindAll(ctx)
	if err != nil {
		return nil, err
	}
	out := make([]*dto.DocumentResponse, len(docs))
	for i, doc := range docs {
		out[i] = toDocumentResponse(doc)
	}
	return out, nil
}

func (s *docsService) Search(ctx context.Context, query string, topK int) ([]search.Result, error) {
	return s.searcher.Search(ctx, query, topK)
}

func toDocumentResponse(doc *entity.Document) *dto.DocumentResponse {
	return &dto.DocumentResponse{
		Id:        doc.Id.String(),
		Title:     doc.Title,
		Content:   doc.Content,
		CreatedAt: doc.CreatedAt,
	}
}
