package punctuality

import (
	"testing"

	"github.com/maxtour/maxtour/pkg/ctdf"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRouteStatuses(t *testing.T) {
	routes := []*ctdf.Route{
		canaaRoute(),
		{ID: "BOA", Name: "BOA VISTA"},
	}

	journeys := []*ctdf.Journey{
		journey("1", "CANAA", "2025-07-20", "05:00", "", "05:20", "05:50"),
		journey("2", "CANAA", "2025-07-21", "05:00", "", "05:20", "05:28"),
	}

	statuses := RouteStatuses(routes, journeys)
	require.Len(t, statuses, 2)

	assert.Equal(t, "CANAÃ", statuses[0].RouteName)
	assert.Equal(t, "Atraso Moderado", statuses[0].Status.Label)
	assert.Equal(t, "21/07 às 05:28", statuses[0].LastUpdate)
	assert.Equal(t, "05:20", statuses[0].ExpectedArrival)
	assert.Equal(t, "2", statuses[0].LastJourney.ID)

	assert.Equal(t, "No horário", statuses[1].Status.Label)
	assert.Equal(t, "Sem dados", statuses[1].LastUpdate)
	assert.Equal(t, "--:--", statuses[1].ExpectedArrival)
	assert.Nil(t, statuses[1].LastJourney)

	reversed := []*ctdf.Journey{journeys[1], journeys[0]}
	assert.Equal(t, "2", RouteStatuses(routes, reversed)[0].LastJourney.ID)
}
