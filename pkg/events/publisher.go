package events

import (
	"encoding/json"
	"time"

	"github.com/adjust/rmq/v5"
	"github.com/maxtour/maxtour/pkg/ctdf"
	"github.com/rs/zerolog/log"
)

const QueueName = "journey-events"

// Publisher pushes journey change events onto the redis queue.
// A nil publisher drops events so the API can run without redis.
type Publisher struct {
	queue rmq.Queue
}

func NewPublisher(connection rmq.Connection) (*Publisher, error) {
	queue, err := connection.OpenQueue(QueueName)
	if err != nil {
		return nil, err
	}

	return &Publisher{queue: queue}, nil
}

func (p *Publisher) Publish(eventType ctdf.EventType, journey *ctdf.Journey) {
	if p == nil {
		return
	}

	event := ctdf.Event{
		Type:      eventType,
		Timestamp: time.Now(),
		Journey:   journey,
	}

	eventBytes, err := json.Marshal(event)
	if err != nil {
		log.Error().Err(err).Msg("Failed to encode event")
		return
	}

	if err := p.queue.PublishBytes(eventBytes); err != nil {
		log.Error().Err(err).Str("type", string(eventType)).Str("journey", journey.ID).Msg("Failed to publish event")
	}
}
