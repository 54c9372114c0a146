package indexer

import (
	"bytes"
	"context"
	"encoding/json"
	"time"

	"github.com/maxtour/maxtour/pkg/ctdf"
	"github.com/maxtour/maxtour/pkg/database"
	"github.com/maxtour/maxtour/pkg/elastic_client"
	"github.com/maxtour/maxtour/pkg/punctuality"
	"github.com/rs/zerolog/log"
)

const JourneysIndexName = "maxtour-journeys"

const journeysIndexBody = `{
	"settings": {
		"number_of_shards": 1,
		"number_of_replicas": 1
	},
	"mappings": {
		"properties": {
			"ID": { "type": "keyword" },
			"RouteID": { "type": "keyword" },
			"RouteName": {
				"type": "text",
				"fields": {
					"keyword": {
						"type": "keyword",
						"ignore_above": 256
					}
				}
			},
			"Date": { "type": "date", "format": "yyyy-MM-dd" },
			"Shift": { "type": "keyword" },
			"Period": { "type": "keyword" },
			"Status": { "type": "keyword" },
			"ScheduledDeparture": { "type": "keyword" },
			"ScheduledArrival": { "type": "keyword" },
			"DepartureDelay": { "type": "integer" },
			"ArrivalDelay": { "type": "integer" },
			"Late": { "type": "boolean" },
			"Classification": { "type": "keyword" },
			"NotRun": { "type": "boolean" },
			"AbsenceReason": { "type": "keyword" },
			"CreatedAt": { "type": "date" }
		}
	}
}`

// JourneyDocument is the searchable form of a journey with its derived punctuality
type JourneyDocument struct {
	ID                 string
	RouteID            string
	RouteName          string
	Date               string
	Shift              ctdf.ShiftTag
	Period             punctuality.Period `json:",omitempty"`
	Status             ctdf.JourneyStatus
	ScheduledDeparture string
	ScheduledArrival   string
	DepartureDelay     *int
	ArrivalDelay       *int
	Late               bool
	Classification     string
	NotRun             bool
	AbsenceReason      ctdf.AbsenceReason `json:",omitempty"`
	CreatedAt          time.Time
}

func NewJourneyDocument(journey *ctdf.Journey, routes punctuality.RouteIndex) *JourneyDocument {
	classification := punctuality.ClassifyJourney(journey, routes)
	period, _ := punctuality.ClassifyPeriod(journey.ScheduledDeparture)

	return &JourneyDocument{
		ID:                 journey.ID,
		RouteID:            journey.RouteID,
		RouteName:          classification.RouteName,
		Date:               journey.Date,
		Shift:              journey.Shift,
		Period:             period,
		Status:             journey.Status,
		ScheduledDeparture: journey.ScheduledDeparture,
		ScheduledArrival:   journey.ScheduledArrival,
		DepartureDelay:     journey.DepartureDelay,
		ArrivalDelay:       journey.ArrivalDelay,
		Late:               journey.IsArrivalLate(),
		Classification:     classification.Status.Label,
		NotRun:             journey.NotRun,
		AbsenceReason:      journey.AbsenceReason,
		CreatedAt:          journey.CreatedAt,
	}
}

// JourneyIndexer keeps the journeys index in line with the store
type JourneyIndexer struct {
	Store database.Store
}

// HandleEvents applies a batch of journey events to the index
func (i *JourneyIndexer) HandleEvents(events []*ctdf.Event) error {
	routes, err := i.Store.ListRoutes(context.Background())
	if err != nil {
		return err
	}
	index := punctuality.NewRouteIndex(routes)

	for _, event := range events {
		if event.Journey == nil {
			continue
		}

		switch event.Type {
		case ctdf.EventTypeJourneyDeleted:
			elastic_client.DeleteDocument(JourneysIndexName, event.Journey.ID)
		case ctdf.EventTypeJourneyCreated, ctdf.EventTypeJourneyUpdated:
			indexJourney(event.Journey, index)
		default:
			log.Warn().Str("type", string(event.Type)).Msg("Ignoring unknown event type")
		}
	}

	return nil
}

// Reindex sends every stored journey to the index
func (i *JourneyIndexer) Reindex(ctx context.Context) error {
	if err := elastic_client.EnsureIndex(ctx, JourneysIndexName, journeysIndexBody); err != nil {
		return err
	}

	routes, err := i.Store.ListRoutes(ctx)
	if err != nil {
		return err
	}
	journeys, err := i.Store.ListJourneys(ctx, ctdf.JourneyQuery{})
	if err != nil {
		return err
	}

	index := punctuality.NewRouteIndex(routes)
	for _, journey := range journeys {
		indexJourney(journey, index)
	}

	log.Info().Int("journeys", len(journeys)).Msg("Sent all index requests to queue")

	return nil
}

func indexJourney(journey *ctdf.Journey, routes punctuality.RouteIndex) {
	documentBytes, err := json.Marshal(NewJourneyDocument(journey, routes))
	if err != nil {
		log.Error().Err(err).Str("journey", journey.ID).Msg("Failed to encode journey document")
		return
	}

	elastic_client.IndexDocument(JourneysIndexName, journey.ID, bytes.NewReader(documentBytes))
}
