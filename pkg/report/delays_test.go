package report

import (
	"testing"
	"time"

	"github.com/maxtour/maxtour/pkg/ctdf"
	"github.com/stretchr/testify/assert"
)

func intPointer(i int) *int {
	return &i
}

func testRoutes() []*ctdf.Route {
	return []*ctdf.Route{
		{
			ID:     "CANAA",
			Name:   "CANAÃ",
			Active: true,
			Schedule: map[ctdf.ShiftTag][]ctdf.TimeSlot{
				ctdf.ShiftTagFirst: {
					{Arrival: "06:55", MinArrival: "06:25", MaxArrival: "07:00"},
					{Departure: "13:40", MinArrival: "13:30", MaxArrival: "13:40"},
				},
			},
		},
		{ID: "PLANALTO", Name: "PLANALTO", Active: true},
		{ID: "PEQUIS", Name: "PEQUIS", Active: false},
	}
}

func TestBuildDelayReport(t *testing.T) {
	journeys := []*ctdf.Journey{
		{ID: "1", RouteID: "PLANALTO", Date: "2024-03-05", Shift: ctdf.ShiftTagFirst, DepartureDelay: intPointer(4), ArrivalDelay: intPointer(-2)},
		{ID: "2", RouteID: "CANAA", Date: "2024-03-05", Shift: ctdf.ShiftTagFirst, DepartureDelay: intPointer(0), ArrivalDelay: intPointer(7)},
		{ID: "3", RouteID: "CANAA", Date: "2024-03-04", Shift: ctdf.ShiftTagSecond},
		{ID: "4", RouteID: "", Date: "2024-03-06", Shift: ctdf.ShiftTagSecond, DepartureDelay: intPointer(9), ArrivalDelay: intPointer(1)},
	}
	generated := time.Date(2024, 3, 6, 12, 0, 0, 0, time.UTC)

	report := BuildDelayReport(journeys, testRoutes(), generated)

	assert := assert.New(t)

	assert.Equal(4, report.Summary.TotalJourneys)
	assert.Equal(3.3, report.Summary.MeanDepartureDelay)
	assert.Equal(1.5, report.Summary.MeanArrivalDelay)
	assert.Equal(9, report.Summary.MaxDepartureDelay)
	assert.Equal(7, report.Summary.MaxArrivalDelay)
	assert.Equal(50.0, report.Summary.DeparturePunctuality)
	assert.Equal(50.0, report.Summary.ArrivalPunctuality)

	assert.Len(report.PerRoute, 3)
	assert.Equal(2, report.PerRoute["CANAÃ"].TotalJourneys)
	assert.Equal(3.5, report.PerRoute["CANAÃ"].MeanArrivalDelay)
	assert.Equal(100.0, report.PerRoute["CANAÃ"].DeparturePunctuality)
	assert.Equal(1, report.PerRoute[unknownRouteName].TotalJourneys)

	assert.Len(report.Details, 4)
	assert.Equal("2024-03-04", report.Details[0].Date)
	assert.Equal("CANAÃ", report.Details[1].Route)
	assert.Equal("PLANALTO", report.Details[2].Route)
	assert.Equal(unknownRouteName, report.Details[3].Route)
	assert.Equal(0, report.Details[0].DepartureDelay)

	assert.Equal(generated, report.GeneratedAt)
}

func TestBuildDelayReportEmpty(t *testing.T) {
	report := BuildDelayReport(nil, nil, time.Now())

	assert.Equal(t, 0, report.Summary.TotalJourneys)
	assert.Equal(t, 0.0, report.Summary.DeparturePunctuality)
	assert.Empty(t, report.PerRoute)
	assert.NotNil(t, report.Details)
}

func TestBuildDelayReportRouteIDFallback(t *testing.T) {
	journeys := []*ctdf.Journey{
		{ID: "1", RouteID: "SUMIDA", Date: "2024-03-05"},
	}

	report := BuildDelayReport(journeys, testRoutes(), time.Now())

	assert.Equal(t, "SUMIDA", report.Details[0].Route)
	assert.Contains(t, report.PerRoute, "SUMIDA")
}

func TestBuildOverview(t *testing.T) {
	journeys := []*ctdf.Journey{
		{ID: "1", RouteID: "CANAA", DepartureDelay: intPointer(3)},
		{ID: "2", RouteID: "CANAA", DepartureDelay: intPointer(-1)},
		{ID: "3", RouteID: "PLANALTO", DepartureDelay: intPointer(0)},
	}

	overview := BuildOverview(journeys, testRoutes(), time.Now())

	assert := assert.New(t)
	assert.Equal(2, overview.Summary.ActiveRoutes)
	assert.Equal(3, overview.Summary.RecordedJourneys)
	assert.Equal(0.67, overview.Summary.MeanDelay)
	assert.Equal(3, overview.Summary.LargestDelay)
	assert.Equal(2, overview.Summary.PunctualJourneys)
	assert.Equal(66.7, overview.Summary.PunctualityPct)

	assert.Len(overview.PerRoute, 2)
	assert.Equal(RoutePerformance{Journeys: 2, MeanDelay: 1, PunctualJourneys: 1, PunctualityPct: 50}, overview.PerRoute["CANAÃ"])
	assert.NotContains(overview.PerRoute, "PEQUIS")
}
