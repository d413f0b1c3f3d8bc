package repository

import (
	"context"

	"devops-assistant-be/internal/entity"

	"github.com/pgvector/pgvector-go"
	"gorm.io/gorm"
)

type DocumentRepository struct {
	db *gorm.DB
}

func NewDocumentRepository(db *gorm.DB) *DocumentRepository {
	return &DocumentRepository{db: db}
}

func (r *DocumentRepository) Create(ctx context.Context, doc *entity.Document) error {
	return r.db.WithContext(ctx).Create(doc).Error
}

func (r *DocumentRepository) FindAll(ctx context.Context) ([]*entity.Document, error) {
	var docs []*entity.Document
	if err := r.db.WithContext(ctx).Order("created_at DESC").Find(&docs).Error; err != nil {
		return nil, err
	}
	return docs, nil
}

func (r *DocumentRepository) CreateEmbedding(ctx context.Context, emb *entity.DocumentEmbedding) error {
	return r.db.WithContext(ctx).Create(emb).Error
}

// ScoredDocument pairs a document with its cosine similarity to a query vector.
type ScoredDocument struct {
	Document   entity.Document
	Similarity float64
}

// SearchSimilar ranks documents by cosine distance of their embeddings.
func (r *DocumentRepository) SearchSimilar(ctx context.Context, embedding []float32, limit int) ([]*ScoredDocument, error) {
	if limit <= 0 {
		limit = 5
	}

	type row struct {
		entity.Document
		Similarity float64
	}
	var rows []row

	queryVector := pgvector.NewVector(embedding)

	// Cosine distance in pgvector is 1 - cosine_similarity
	err := r.db.WithContext(ctx).
		Table("documents").
		Select("documents.*, 1 - (document_embeddings.embedding_value <=> ?) as similarity", queryVector).
		Joins("JOIN document_embeddings ON document_embeddings.document_id = documents.id").
		Order("similarity DESC").
		Limit(limit).
		Scan(&rows).Error
	if err != nil {
		return nil, err
	}

	scored := make([]*ScoredDocument, len(rows))
	for i, res := range rows {
		doc := res.Document
		scored[i] = &ScoredDocument{
			Document:   doc,
			Similarity: res.Similarity,
		}
	}
	return scored, nil
}

// SearchByKeyword is the fallback path when no embedding provider is configured.
func (r *DocumentRepository) SearchByKeyword(ctx context.Context, query string, limit int) ([]*entity.Document, error) {
	if limit <= 0 {
		limit = 5
	}
	var docs []*entity.Document
	pattern := "%" + query + "%"
	err := r.db.WithContext(ctx).
		Where("title ILIKE ? OR content ILIKE ?", pattern, pattern).
		Limit(limit).
		Find(&docs).Error
	if err != nil {
		return nil, err
	}
	return docs, nil
}
