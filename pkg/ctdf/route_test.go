package ctdf

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func testRoute() *Route {
	return &Route{
		ID:     "CANAA",
		Name:   "CANAÃ",
		Active: true,
		Schedule: map[ShiftTag][]TimeSlot{
			ShiftTagFirst: {
				{Arrival: "05:20", MinArrival: "04:50", MaxArrival: "05:20"},
				{Departure: "06:00", MinArrival: "05:55", MaxArrival: "06:10"},
			},
			ShiftTagSecond: {
				{Arrival: "17:30", MinArrival: "17:20", MaxArrival: "17:40"},
			},
		},
	}
}

func TestRouteValidate(t *testing.T) {
	assert.Empty(t, testRoute().Validate())

	broken := testRoute()
	broken.Name = ""
	broken.Schedule[ShiftTagFirst][0].MinArrival = ""
	broken.Schedule[ShiftTagSecond][0].Departure = "17:30"
	delete(broken.Schedule, ShiftTagSecond)

	problems := broken.Validate()
	assert.Contains(t, problems, "Rota CANAA sem nome")
	assert.Contains(t, problems, "Rota CANAA, 1º Turno, horário 1: tolerância incompleta")
	assert.Contains(t, problems, "Rota CANAA sem horários para 2º Turno")
}

func TestRouteValidateSlotMovement(t *testing.T) {
	route := testRoute()
	route.Schedule[ShiftTagSecond] = []TimeSlot{{MinArrival: "17:20", MaxArrival: "17:40"}}

	problems := route.Validate()
	require.Len(t, problems, 1)
	assert.Equal(t, "Rota CANAA, 2º Turno, horário 1: sem horário de chegada ou saída", problems[0])
}

func TestTimeSlotMovement(t *testing.T) {
	arrival := TimeSlot{Arrival: "05:20"}
	departure := TimeSlot{Departure: "06:00"}

	assert.Equal(t, MovementTypeArrival, arrival.Movement())
	assert.Equal(t, "05:20", arrival.Nominal())
	assert.Equal(t, MovementTypeDeparture, departure.Movement())
	assert.Equal(t, "06:00", departure.Nominal())
}

func TestRouteFindArrivalSlot(t *testing.T) {
	route := testRoute()

	slot, ok := route.FindArrivalSlot(ShiftTagFirst, "05:24", 5)
	assert.True(t, ok)
	assert.Equal(t, "05:20", slot.Arrival)

	_, ok = route.FindArrivalSlot(ShiftTagFirst, "05:40", 5)
	assert.False(t, ok)

	// departure slots never carry the arrival window
	_, ok = route.FindArrivalSlot(ShiftTagFirst, "06:00", 5)
	assert.False(t, ok)

	_, ok = route.FindArrivalSlot(ShiftTagFirst, "", 5)
	assert.False(t, ok)

	var missing *Route
	_, ok = missing.FindArrivalSlot(ShiftTagFirst, "05:20", 5)
	assert.False(t, ok)
}

func TestRouteHasSlotAt(t *testing.T) {
	route := testRoute()

	assert.True(t, route.HasSlotAt(ShiftTagFirst, "06:00"))
	assert.False(t, route.HasSlotAt(ShiftTagSecond, "06:00"))
}

func TestValidatorClock(t *testing.T) {
	validate := NewValidator()

	journey := Journey{RouteID: "CANAA", Date: "2025-07-21", Shift: ShiftTagFirst, ScheduledArrival: "05:20"}
	assert.NoError(t, validate.Struct(journey))

	journey.ScheduledArrival = "25:00"
	assert.Error(t, validate.Struct(journey))

	journey.ScheduledArrival = ""
	journey.Shift = "terceiro_turno"
	assert.Error(t, validate.Struct(journey))

	journey.Shift = ShiftTagFirst
	journey.NotRun = true
	assert.Error(t, validate.Struct(journey))

	journey.AbsenceReason = AbsenceReasonOther
	assert.NoError(t, validate.Struct(journey))
}
