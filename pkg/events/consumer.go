package events

import (
	"encoding/json"

	"github.com/adjust/rmq/v5"
	"github.com/maxtour/maxtour/pkg/ctdf"
	"github.com/rs/zerolog/log"
)

type Handler func(events []*ctdf.Event) error

// BatchConsumer decodes a batch of queued journey events and hands them to a handler.
// Undecodable payloads are logged and dropped. When the handler fails the batch
// is rejected, to be returned to the queue by the consumer's janitor.
type BatchConsumer struct {
	handler Handler
}

func NewBatchConsumer(handler Handler) *BatchConsumer {
	return &BatchConsumer{handler: handler}
}

func (consumer *BatchConsumer) Consume(batch rmq.Deliveries) {
	var decoded []*ctdf.Event
	var accepted rmq.Deliveries

	for _, delivery := range batch {
		var event ctdf.Event
		if err := json.Unmarshal([]byte(delivery.Payload()), &event); err != nil {
			log.Error().Err(err).Str("payload", delivery.Payload()).Msg("Dropping undecodable event")
			if ackErr := delivery.Ack(); ackErr != nil {
				log.Error().Err(ackErr).Msg("Failed to ack event")
			}
			continue
		}

		decoded = append(decoded, &event)
		accepted = append(accepted, delivery)
	}

	if len(decoded) == 0 {
		return
	}

	if err := consumer.handler(decoded); err != nil {
		log.Error().Err(err).Int("events", len(decoded)).Msg("Failed to handle events")

		if rejectErrors := accepted.Reject(); len(rejectErrors) > 0 {
			for _, rejectErr := range rejectErrors {
				log.Error().Err(rejectErr).Msg("Failed to reject event")
			}
		}
		return
	}

	if ackErrors := accepted.Ack(); len(ackErrors) > 0 {
		for _, ackErr := range ackErrors {
			log.Error().Err(ackErr).Msg("Failed to ack event")
		}
	}
}
