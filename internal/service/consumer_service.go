package service

import (
	"context"
	"encoding/json"

	"devops-assistant-be/internal/pkg/logger"
	"devops-assistant-be/pkg/analytics"

	"github.com/ThreeDotsLabs/watermill/message"
	"github.com/ThreeDotsLabs/watermill/pubsub/gochannel"
)

type IConsumerService interface {
	Consume(ctx context.Context) error
}

// consumerService drains the in-process analytics topic and hands each
// record to the recorder. Analytics is fire-and-forget end to end: bad or
// unprocessable messages are acked and dropped, never retried into a loop.
type consumerService struct {
	pubSub   *gochannel.GoChannel
	topic    string
	recorder analytics.Recorder
	log      logger.ILogger
}

func NewConsumerService(pubSub *gochannel.GoChannel, recorder analytics.Recorder, log logger.ILogger) IConsumerService {
	return &consumerService{
		pubSub:   pubSub,
		topic:    analytics.TopicQuestionRecorded,
		recorder: recorder,
		log:      log,
	}
}

func (cs *consumerService) Consume(ctx context.Context) error {
	messages, err := cs.pubSub.Subscribe(ctx, cs.topic)
	if err != nil {
		return err
	}

	go func() {
		for msg := range messages {
			cs.processMessage(ctx, msg)
		}
	}()

	return nil
}

func (cs *consumerService) processMessage(ctx context.Context, msg *message.Message) {
	defer msg.Ack()

	var rec analytics.Record
	if err := json.Unmarshal(msg.Payload, &rec); err != nil {
		cs.log.Warn("analytics", "dropping malformed record", map[string]interface{}{
			"error": err.Error(),
		})
		return
	}

	if err := cs.recorder.Record(ctx, rec); err != nil {
		cs.log.Warn("analytics", "recording failed", map[string]interface{}{
			"username": rec.Username,
			"error":    err.Error(),
		})
	}
}
