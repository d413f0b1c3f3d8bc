package service

import (
	"context"
	"encoding/json"

	"devops-assistant-be/internal/dto"
	"devops-assistant-be/internal/entity"
	"devops-assistant-be/internal/repository"
)

const tagScanLimit = 1000

type IAnalyticsService interface {
	List(ctx context.Context, username string, limit int) ([]*dto.QuestionResponse, error)
	Summary(ctx context.Context) (*dto.StatsSummaryResponse, error)
}

type analyticsService struct {
	questions *repository.QuestionRepository
}

func NewAnalyticsService(questions *repository.QuestionRepository) IAnalyticsService {
	return &analyticsService{questions: questions}
}

func (s *analyticsService) List(ctx context.Context, username string, limit int) ([]*dto.QuestionResponse, error) {
	records, err := s.questions.FindAll(ctx, username, limit)
	if err != nil {
		return nil, err
	}
	out := make([]*dto.QuestionResponse, len(records))
	for i, q := range records {
		out[i] = toQuestionResponse(q)
	}
	return out, nil
}

func (s *analyticsService) Summary(ctx context.Context) (*dto.StatsSummaryResponse, error) {
	total, err := s.questions.Count(ctx)
	if err != nil {
		return nil, err
	}

	byUser, err := s.questions.CountByUser(ctx)
	if err != nil {
		return nil, err
	}
	byTool, err := s.questions.CountByTool(ctx)
	if err != nil {
		return nil, err
	}

	summary := &dto.StatsSummaryResponse{
		TotalQuestions: total,
		ByUser:         make(map[string]int64, len(byUser)),
		ByTag:          make(map[string]int64),
		MCPUsage:       make(map[string]int64, len(byTool)),
	}
	for _, row := range byUser {
		summary.ByUser[row.Key] = row.Count
	}
	for _, row := range byTool {
		summary.MCPUsage[row.Key] = row.Count
	}

	// Tags live inside JSONB arrays, so count them from the recent window
	recent, err := s.questions.FindAll(ctx, "", tagScanLimit)
	if err != nil {
		return nil, err
	}
	for _, q := range recent {
		for _, tag := range decodeTags(q) {
			summary.ByTag[tag]++
		}
	}

	return summary, nil
}

func decodeTags(q *entity.Question) []string {
	if len(q.Tags) == 0 {
		return nil
	}
	var tags []string
	if err := json.Unmarshal(q.Tags, &tags); err != nil {
		return nil
	}
	return tags
}

func toQuestionResponse(q *entity.Question) *dto.QuestionResponse {
	resp := &dto.QuestionResponse{
		Id:          q.Id.String(),
		Username:    q.Username,
		Question:    q.Question,
		Tags:        decodeTags(q),
		FinalAnswer: q.FinalAnswer,
		UsedMCP:     q.UsedMCP,
		CreatedAt:   q.CreatedAt,
	}
	if len(q.AgentSteps) > 0 {
		resp.AgentSteps = json.RawMessage(q.AgentSteps)
	}
	if len(q.WebSources) > 0 {
		_ = json.Unmarshal(q.WebSources, &resp.WebSources)
	}
	return resp
}
