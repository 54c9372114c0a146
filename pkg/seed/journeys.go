package seed

import (
	"fmt"
	"math/rand"
	"time"

	"github.com/google/uuid"
	"github.com/maxtour/maxtour/pkg/ctdf"
	"github.com/maxtour/maxtour/pkg/util"
)

const (
	onTimeShare = 0.7
	maxOffset   = 10
	notePrefix  = "Dados fictícios"
)

// Generator produces fictitious journeys for every timetabled slot of every
// route, skipping Sundays. Most run on time, the rest drift up to ten minutes
// either way on departure and arrival.
type Generator struct {
	Rand *rand.Rand
	Now  func() time.Time
}

func NewGenerator(seed int64) *Generator {
	return &Generator{
		Rand: rand.New(rand.NewSource(seed)),
		Now:  time.Now,
	}
}

func (g *Generator) Generate(routes []*ctdf.Route, from time.Time, to time.Time) []*ctdf.Journey {
	var journeys []*ctdf.Journey

	for _, day := range util.DatesBetween(from, to) {
		if day.Weekday() == time.Sunday {
			continue
		}
		date := day.Format(time.DateOnly)

		for _, route := range routes {
			for _, shift := range ctdf.ShiftTags {
				for _, slot := range route.Schedule[shift] {
					journeys = append(journeys, g.journey(route, shift, slot, date))
				}
			}
		}
	}

	return journeys
}

func (g *Generator) journey(route *ctdf.Route, shift ctdf.ShiftTag, slot ctdf.TimeSlot, date string) *ctdf.Journey {
	departureOffset, arrivalOffset := 0, 0
	status := "No horário"

	if g.Rand.Float64() >= onTimeShare {
		departureOffset = g.Rand.Intn(2*maxOffset+1) - maxOffset
		arrivalOffset = g.Rand.Intn(2*maxOffset+1) - maxOffset
		status = fmt.Sprintf("Atraso %dmin", max(departureOffset, arrivalOffset))
	}

	journey := &ctdf.Journey{
		ID:                 uuid.NewString(),
		RouteID:            route.ID,
		RouteName:          route.Name,
		Date:               date,
		Shift:              shift,
		ScheduledDeparture: slot.Nominal(),
		ScheduledArrival:   slot.MaxArrival,
		ActualDeparture:    ctdf.FormatClock(ctdf.ToMinutes(slot.Nominal()) + departureOffset),
		ActualArrival:      ctdf.FormatClock(ctdf.ToMinutes(slot.MaxArrival) + arrivalOffset),
		ReferenceSlot:      slot.Nominal(),
		Notes:              fmt.Sprintf("%s - %s", notePrefix, status),
		CreatedAt:          g.Now(),
	}
	journey.UpdateDelays()
	journey.UpdateStatus()

	return journey
}
