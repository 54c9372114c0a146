package seed

import (
	"math/rand"
	"strings"
	"testing"
	"time"

	"github.com/maxtour/maxtour/pkg/ctdf"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDefaultRoutes(t *testing.T) {
	routes, err := DefaultRoutes()
	require.NoError(t, err)
	require.Len(t, routes, 7)

	assert.Equal(t, "CANAA", routes[0].ID)
	assert.Equal(t, "CANAÃ", routes[0].Name)
	assert.True(t, routes[0].Active)
	assert.NotEmpty(t, routes[0].Schedule[ctdf.ShiftTagFirst])
	assert.NotEmpty(t, routes[0].Schedule[ctdf.ShiftTagSecond])

	assert.Equal(t, "PEQUIS", routes[6].ID)
}

func TestLoadRoutesRejectsInvalid(t *testing.T) {
	_, err := LoadRoutes(strings.NewReader(`
id: BROKEN
nome: BROKEN
ativa: true
horarios:
  primeiro_turno:
    - saida_martins: "05:00"
      chegada_minima: "05:30"
      chegada_maxima: "05:20"
  segundo_turno: []
`))
	assert.Error(t, err)

	_, err = LoadRoutes(strings.NewReader(`
id: BROKEN
nome: BROKEN
ativa: true
horarios:
  primeiro_turno:
    - saida_martins: "25:00"
      chegada_minima: "05:10"
      chegada_maxima: "05:20"
  segundo_turno: []
`))
	assert.Error(t, err)
}

func TestLoadRoutesMultipleDocuments(t *testing.T) {
	routes, err := LoadRoutes(strings.NewReader(`
id: ONE
nome: ONE
ativa: true
horarios:
  primeiro_turno:
    - saida_martins: "05:00"
      chegada_minima: "05:10"
      chegada_maxima: "05:20"
  segundo_turno: []
---
id: TWO
nome: TWO
ativa: false
horarios:
  primeiro_turno: []
  segundo_turno:
    - chegada_martins: "17:20"
      chegada_minima: "17:10"
      chegada_maxima: "17:30"
`))
	require.NoError(t, err)
	require.Len(t, routes, 2)
	assert.Equal(t, "TWO", routes[1].ID)
	assert.False(t, routes[1].Active)
}

func testGenerator() *Generator {
	return &Generator{
		Rand: rand.New(rand.NewSource(42)),
		Now: func() time.Time {
			return time.Date(2024, 3, 6, 12, 0, 0, 0, time.UTC)
		},
	}
}

func TestGenerateSkipsSundays(t *testing.T) {
	route := &ctdf.Route{
		ID:     "CANAA",
		Name:   "CANAÃ",
		Active: true,
		Schedule: map[ctdf.ShiftTag][]ctdf.TimeSlot{
			ctdf.ShiftTagFirst: {
				{Departure: "05:00", MinArrival: "05:10", MaxArrival: "05:20"},
			},
			ctdf.ShiftTagSecond: {
				{Arrival: "17:20", MinArrival: "17:10", MaxArrival: "17:30"},
			},
		},
	}

	// Saturday to Monday
	from := time.Date(2024, 3, 9, 0, 0, 0, 0, time.UTC)
	to := time.Date(2024, 3, 11, 0, 0, 0, 0, time.UTC)

	journeys := testGenerator().Generate([]*ctdf.Route{route}, from, to)
	require.Len(t, journeys, 4)

	dates := map[string]int{}
	for _, journey := range journeys {
		dates[journey.Date]++

		assert.NotEmpty(t, journey.ID)
		assert.Equal(t, "CANAA", journey.RouteID)
		assert.Equal(t, "CANAÃ", journey.RouteName)
		assert.True(t, strings.HasPrefix(journey.Notes, "Dados fictícios - "))
		assert.NotNil(t, journey.DepartureDelay)
		assert.NotNil(t, journey.ArrivalDelay)
		assert.NotEmpty(t, journey.Status)
	}

	assert.Equal(t, map[string]int{"2024-03-09": 2, "2024-03-11": 2}, dates)

	assert.Equal(t, ctdf.ShiftTagFirst, journeys[0].Shift)
	assert.Equal(t, "05:00", journeys[0].ScheduledDeparture)
	assert.Equal(t, "05:20", journeys[0].ScheduledArrival)
	assert.Equal(t, ctdf.ShiftTagSecond, journeys[1].Shift)
	assert.Equal(t, "17:20", journeys[1].ScheduledDeparture)
	assert.Equal(t, "17:30", journeys[1].ScheduledArrival)
}

func TestGenerateOffsetsStayInRange(t *testing.T) {
	routes, err := DefaultRoutes()
	require.NoError(t, err)

	day := time.Date(2024, 3, 6, 0, 0, 0, 0, time.UTC)
	journeys := testGenerator().Generate(routes, day, day)
	require.NotEmpty(t, journeys)

	onTime := 0
	for _, journey := range journeys {
		departure, ok := ctdf.ComputeDelay(journey.ScheduledDeparture, journey.ActualDeparture)
		require.True(t, ok)
		arrival, ok := ctdf.ComputeDelay(journey.ScheduledArrival, journey.ActualArrival)
		require.True(t, ok)

		assert.LessOrEqual(t, departure, maxOffset)
		assert.GreaterOrEqual(t, departure, -maxOffset)
		assert.LessOrEqual(t, arrival, maxOffset)
		assert.GreaterOrEqual(t, arrival, -maxOffset)

		if strings.HasSuffix(journey.Notes, "No horário") {
			onTime++
			assert.Zero(t, departure)
			assert.Zero(t, arrival)
		}
	}

	assert.Positive(t, onTime)
}

func TestGenerateIsDeterministic(t *testing.T) {
	routes, err := DefaultRoutes()
	require.NoError(t, err)

	day := time.Date(2024, 3, 6, 0, 0, 0, 0, time.UTC)
	first := testGenerator().Generate(routes, day, day)
	second := testGenerator().Generate(routes, day, day)

	require.Len(t, second, len(first))
	for i := range first {
		assert.Equal(t, first[i].ActualDeparture, second[i].ActualDeparture)
		assert.Equal(t, first[i].ActualArrival, second[i].ActualArrival)
	}
}
