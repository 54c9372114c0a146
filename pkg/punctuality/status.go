package punctuality

import (
	"fmt"
	"time"

	"github.com/maxtour/maxtour/pkg/ctdf"
)

const noClock = "--:--"

type RouteStatus struct {
	RouteID         string         `json:"rota_id"`
	RouteName       string         `json:"nome"`
	Status          Classification `json:"status"`
	LastUpdate      string         `json:"ultimo_update"`
	ExpectedArrival string         `json:"chegada_prevista"`
	LastJourney     *ctdf.Journey  `json:"ultima_jornada,omitempty"`
}

// RouteStatuses reports, for every configured route, the arrival status of its
// latest journey. Latest is by date, then creation time, then position.
func RouteStatuses(routes []*ctdf.Route, journeys []*ctdf.Journey) []RouteStatus {
	last := map[string]*ctdf.Journey{}
	for _, journey := range journeys {
		if journey == nil {
			continue
		}

		current, exists := last[journey.RouteID]
		if !exists || !isBefore(journey, current) {
			last[journey.RouteID] = journey
		}
	}

	statuses := make([]RouteStatus, 0, len(routes))
	for _, route := range routes {
		if route == nil {
			continue
		}

		status := RouteStatus{
			RouteID:         route.ID,
			RouteName:       route.Name,
			Status:          ClassifyDelay(0),
			LastUpdate:      "Sem dados",
			ExpectedArrival: noClock,
		}

		if journey, exists := last[route.ID]; exists {
			delay := 0
			if journey.ArrivalDelay != nil {
				delay = *journey.ArrivalDelay
			}

			status.Status = ClassifyDelay(delay)
			status.LastUpdate = fmt.Sprintf("%s às %s", shortDate(journey.Date), orNoClock(journey.ActualArrival))
			status.ExpectedArrival = orNoClock(journey.ScheduledArrival)
			status.LastJourney = journey
		}

		statuses = append(statuses, status)
	}

	return statuses
}

func shortDate(date string) string {
	parsed, err := time.Parse(time.DateOnly, date)
	if err != nil {
		return date
	}
	return parsed.Format("02/01")
}

func orNoClock(clock string) string {
	if clock == "" {
		return noClock
	}
	return clock
}

func isBefore(a *ctdf.Journey, b *ctdf.Journey) bool {
	if a.Date != b.Date {
		return a.Date < b.Date
	}
	return a.CreatedAt.Before(b.CreatedAt)
}
