package repository

import (
	"context"

	"devops-assistant-be/internal/entity"

	"gorm.io/gorm"
)

type QuestionRepository struct {
	db *gorm.DB
}

func NewQuestionRepository(db *gorm.DB) *QuestionRepository {
	return &QuestionRepository{db: db}
}

func (r *QuestionRepository) Create(ctx context.Context, q *entity.Question) error {
	return r.db.WithContext(ctx).Create(q).Error
}

// FindAll lists recorded questions, newest first. Empty username means all users.
func (r *QuestionRepository) FindAll(ctx context.Context, username string, limit int) ([]*entity.Question, error) {
	if limit <= 0 {
		limit = 100
	}
	query := r.db.WithContext(ctx).Order("created_at DESC").Limit(limit)
	if username != "" {
		query = query.Where("username = ?", username)
	}
	var questions []*entity.Question
	if err := query.Find(&questions).Error; err != nil {
		return nil, err
	}
	return questions, nil
}

func (r *QuestionRepository) Count(ctx context.Context) (int64, error) {
	var count int64
	err := r.db.WithContext(ctx).Model(&entity.Question{}).Count(&count).Error
	return count, err
}

type CountByKey struct {
	Key   string
	Count int64
}

func (r *QuestionRepository) CountByUser(ctx context.Context) ([]CountByKey, error) {
	var rows []CountByKey
	err := r.db.WithContext(ctx).
		Model(&entity.Question{}).
		Select("username as key, count(*) as count").
		Group("username").
		Order("count DESC").
		Scan(&rows).Error
	return rows, err
}

func (r *QuestionRepository) CountByTool(ctx context.Context) ([]CountByKey, error) {
	var rows []CountByKey
	err := r.db.WithContext(ctx).
		Model(&entity.Question{}).
		Select("used_mcp as key, count(*) as count").
		Where("used_mcp IS NOT NULL").
		Group("used_mcp").
		Order("count DESC").
		Scan(&rows).Error
	return rows, err
}
