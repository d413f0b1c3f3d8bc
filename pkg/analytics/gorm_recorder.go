package analytics

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"devops-assistant-be/internal/entity"
	"devops-assistant-be/internal/pkg/logger"
	"devops-assistant-be/internal/repository"
	"devops-assistant-be/pkg/events"
	"devops-assistant-be/pkg/nats"

	"gorm.io/datatypes"
)

// GormRecorder writes question records to postgres, tags them via the LLM
// and fans the event out to NATS best-effort.
type GormRecorder struct {
	repo    *repository.QuestionRepository
	tagger  *Tagger
	natsPub *nats.Publisher
	log     logger.ILogger
}

var _ Recorder = &GormRecorder{}

func NewGormRecorder(repo *repository.QuestionRepository, tagger *Tagger, natsPub *nats.Publisher, log logger.ILogger) *GormRecorder {
	return &GormRecorder{
		repo:    repo,
		tagger:  tagger,
		natsPub: natsPub,
		log:     log,
	}
}

func (r *GormRecorder) Record(ctx context.Context, rec Record) error {
	var tags []string
	if r.tagger != nil {
		tags = r.tagger.Tags(ctx, rec.Question)
	}

	q := &entity.Question{
		Username:    rec.Username,
		Question:    rec.Question,
		FinalAnswer: rec.FinalAnswer,
		Tags:        mustJSON(tags),
		AgentSteps:  mustJSON(rec.AgentSteps),
		WebSources:  mustJSON(rec.WebSources),
	}
	if rec.UsedMCP != "" {
		used := rec.UsedMCP
		q.UsedMCP = &used
	}
	if !rec.Timestamp.IsZero() {
		q.CreatedAt = rec.Timestamp
	}

	if err := r.repo.Create(ctx, q); err != nil {
		return fmt.Errorf("store question record: %w", err)
	}

	if r.natsPub != nil {
		event := events.BaseEvent{
			Type: "question_recorded",
			Data: map[string]interface{}{
				"username":  rec.Username,
				"question":  rec.Question,
				"tags":      tags,
				"used_mcp":  rec.UsedMCP,
				"timestamp": rec.Timestamp.Format(time.RFC3339),
			},
			OccurredAt: time.Now(),
		}
		if err := r.natsPub.Publish(ctx, event); err != nil {
			r.log.Warn("analytics", "nats fan-out failed", map[string]interface{}{
				"error": err.Error(),
			})
		}
	}

	return nil
}

func mustJSON(v interface{}) datatypes.JSON {
	if v == nil {
		return datatypes.JSON([]byte("[]"))
	}
	data, err := json.Marshal(v)
	if err != nil {
		return datatypes.JSON([]byte("[]"))
	}
	return datatypes.JSON(data)
}
