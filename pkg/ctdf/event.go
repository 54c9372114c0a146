package ctdf

import "time"

type Event struct {
	Type      EventType
	Timestamp time.Time
	Journey   *Journey
}

type EventType string

const (
	EventTypeJourneyCreated EventType = "JourneyCreated"
	EventTypeJourneyUpdated EventType = "JourneyUpdated"
	EventTypeJourneyDeleted EventType = "JourneyDeleted"
)
