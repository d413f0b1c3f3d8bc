package analytics

import (
	"encoding/json"

	"devops-assistant-be/internal/pkg/logger"

	"github.com/ThreeDotsLabs/watermill"
	"github.com/ThreeDotsLabs/watermill/message"
)

// Publisher pushes question records onto the in-process analytics topic.
// Publishing is fire-and-forget: every failure is logged and swallowed so
// the session loop is never slowed or broken by analytics.
type Publisher struct {
	pub   message.Publisher
	topic string
	log   logger.ILogger
}

func NewPublisher(pub message.Publisher, log logger.ILogger) *Publisher {
	return &Publisher{
		pub:   pub,
		topic: TopicQuestionRecorded,
		log:   log,
	}
}

func (p *Publisher) Publish(rec Record) {
	payload, err := json.Marshal(rec)
	if err != nil {
		p.log.Warn("analytics", "marshal record failed", map[string]interface{}{
			"error": err.Error(),
		})
		return
	}

	msg := message.NewMessage(watermill.NewUUID(), payload)
	if err := p.pub.Publish(p.topic, msg); err != nil {
		p.log.Warn("analytics", "publish record failed", map[string]interface{}{
			"error": err.Error(),
		})
	}
}
