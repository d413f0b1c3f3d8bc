package store

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"devops-assistant-be/pkg/llm"

	"github.com/redis/go-redis/v9"
)

const (
	historyKeyPrefix = "chat:history:"
	historyTTL       = 24 * time.Hour
	historyMaxLen    = 50
)

// HistoryStore persists the rolling chat history per session in redis so a
// reconnecting client resumes its context. Nil client degrades to a no-op.
type HistoryStore struct {
	client *redis.Client
}

func NewHistoryStore(client *redis.Client) *HistoryStore {
	return &HistoryStore{client: client}
}

func (s *HistoryStore) key(sessionID string) string {
	return historyKeyPrefix + sessionID
}

// Load returns the stored history for a session, oldest first.
func (s *HistoryStore) Load(ctx context.Context, sessionID string) ([]llm.Message, error) {
	if s.client == nil {
		return nil, nil
	}

	raw, err := s.client.LRange(ctx, s.key(sessionID), 0, -1).Result()
	if err != nil {
		return nil, fmt.Errorf("load history: %w", err)
	}

	messages := make([]llm.Message, 0, len(raw))
	for _, item := range raw {
		var msg llm.Message
		if err := json.Unmarshal([]byte(item), &msg); err != nil {
			continue
		}
		messages = append(messages, msg)
	}
	return messages, nil
}

// Append pushes messages onto the session history and refreshes its TTL.
func (s *HistoryStore) Append(ctx context.Context, sessionID string, messages ...llm.Message) error {
	if s.client == nil || len(messages) == 0 {
		return nil
	}

	key := s.key(sessionID)
	pipe := s.client.TxPipeline()
	for _, msg := range messages {
		payload, err := json.Marshal(msg)
		if err != nil {
			return fmt.Errorf("marshal history message: %w", err)
		}
		pipe.RPush(ctx, key, payload)
	}
	pipe.LTrim(ctx, key, -historyMaxLen, -1)
	pipe.Expire(ctx, key, historyTTL)

	if _, err := pipe.Exec(ctx); err != nil {
		return fmt.Errorf("append history: %w", err)
	}
	return nil
}
