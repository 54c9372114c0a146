package punctuality

import (
	"github.com/maxtour/maxtour/pkg/ctdf"
)

func intPointer(i int) *int {
	return &i
}

func canaaRoute() *ctdf.Route {
	return &ctdf.Route{
		ID:     "CANAA",
		Name:   "CANAÃ",
		Active: true,
		Schedule: map[ctdf.ShiftTag][]ctdf.TimeSlot{
			ctdf.ShiftTagFirst: {
				{Arrival: "05:20", MinArrival: "04:50", MaxArrival: "05:20"},
				{Departure: "06:00", MinArrival: "05:55", MaxArrival: "06:10"},
			},
			ctdf.ShiftTagSecond: {
				{Arrival: "17:30", MinArrival: "17:20", MaxArrival: "17:40"},
			},
		},
	}
}

// journey builds a journey with its delays derived from the clock times
func journey(id string, route string, date string, departure string, actualDeparture string, arrival string, actualArrival string) *ctdf.Journey {
	j := &ctdf.Journey{
		ID:                 id,
		RouteID:            route,
		RouteName:          route,
		Date:               date,
		Shift:              ctdf.ShiftTagFirst,
		ScheduledDeparture: departure,
		ActualDeparture:    actualDeparture,
		ScheduledArrival:   arrival,
		ActualArrival:      actualArrival,
	}
	j.UpdateDelays()

	return j
}
