package events

import (
	"encoding/json"
	"errors"
	"testing"

	"github.com/adjust/rmq/v5"
	"github.com/maxtour/maxtour/pkg/ctdf"
	"github.com/stretchr/testify/assert"
)

func eventDelivery(t *testing.T, eventType ctdf.EventType, id string) *rmq.TestDelivery {
	eventBytes, err := json.Marshal(ctdf.Event{
		Type:    eventType,
		Journey: &ctdf.Journey{ID: id, RouteID: "CANAA"},
	})
	assert.NoError(t, err)

	return rmq.NewTestDeliveryString(string(eventBytes))
}

func TestBatchConsumerAcksHandledAndUndecodableEvents(t *testing.T) {
	var handled []*ctdf.Event
	consumer := NewBatchConsumer(func(events []*ctdf.Event) error {
		handled = append(handled, events...)
		return nil
	})

	created := eventDelivery(t, ctdf.EventTypeJourneyCreated, "1")
	deleted := eventDelivery(t, ctdf.EventTypeJourneyDeleted, "2")
	garbage := rmq.NewTestDeliveryString("{not json")

	consumer.Consume(rmq.Deliveries{created, garbage, deleted})

	assert.Len(t, handled, 2)
	assert.Equal(t, ctdf.EventTypeJourneyCreated, handled[0].Type)
	assert.Equal(t, "2", handled[1].Journey.ID)

	assert.Equal(t, rmq.Acked, created.State)
	assert.Equal(t, rmq.Acked, deleted.State)
	assert.Equal(t, rmq.Acked, garbage.State)
}

func TestBatchConsumerRejectsOnHandlerFailure(t *testing.T) {
	consumer := NewBatchConsumer(func(events []*ctdf.Event) error {
		return errors.New("index unavailable")
	})

	updated := eventDelivery(t, ctdf.EventTypeJourneyUpdated, "1")
	consumer.Consume(rmq.Deliveries{updated})

	assert.Equal(t, rmq.Rejected, updated.State)
}

func TestNilPublisherDropsEvents(t *testing.T) {
	var publisher *Publisher

	assert.NotPanics(t, func() {
		publisher.Publish(ctdf.EventTypeJourneyCreated, &ctdf.Journey{ID: "1"})
	})
}
