package punctuality

import (
	"time"

	"github.com/maxtour/maxtour/pkg/ctdf"
	"golang.org/x/exp/maps"
	"golang.org/x/exp/slices"
)

type ChartPoint struct {
	X int64   `json:"x"`
	Y float64 `json:"y"`
}

type ChartSeries struct {
	Movement  ctdf.MovementType `json:"tipo"`
	Scheduled []ChartPoint      `json:"programado"`
	Actual    []ChartPoint      `json:"real"`
}

type dayObservations struct {
	scheduled []int
	actual    []int
}

// ShapeChartSeries averages the scheduled and actual clock times of each day.
// X is the day's midnight UTC in unix milliseconds. A day without observations
// for a series is left out of that series.
func ShapeChartSeries(journeys []*ctdf.Journey, movement ctdf.MovementType) ChartSeries {
	days := map[string]*dayObservations{}

	for _, journey := range journeys {
		if journey == nil {
			continue
		}

		day, exists := days[journey.Date]
		if !exists {
			day = &dayObservations{}
			days[journey.Date] = day
		}

		scheduled, actual := chartClocks(journey, movement)
		if scheduled != "" {
			day.scheduled = append(day.scheduled, ctdf.ToMinutes(scheduled))
		}
		if actual != "" {
			day.actual = append(day.actual, ctdf.ToMinutes(actual))
		}
	}

	series := ChartSeries{
		Movement:  movement,
		Scheduled: []ChartPoint{},
		Actual:    []ChartPoint{},
	}

	dates := maps.Keys(days)
	slices.Sort(dates)

	for _, date := range dates {
		timestamp, err := time.Parse(time.DateOnly, date)
		if err != nil {
			continue
		}
		x := timestamp.UnixMilli()

		day := days[date]
		if len(day.scheduled) > 0 {
			series.Scheduled = append(series.Scheduled, ChartPoint{X: x, Y: mean(day.scheduled)})
		}
		if len(day.actual) > 0 {
			series.Actual = append(series.Actual, ChartPoint{X: x, Y: mean(day.actual)})
		}
	}

	return series
}

func chartClocks(journey *ctdf.Journey, movement ctdf.MovementType) (string, string) {
	if movement == ctdf.MovementTypeDeparture {
		actual := journey.ActualDeparture
		if actual == "" {
			actual = journey.ActualArrival
		}
		return journey.ScheduledDeparture, actual
	}

	return journey.ScheduledArrival, journey.ActualArrival
}

func mean(values []int) float64 {
	sum := 0
	for _, value := range values {
		sum += value
	}
	return float64(sum) / float64(len(values))
}

type FilterOptions struct {
	RouteID string
	Shift   ctdf.ShiftTag
	// scheduled departure of a single timetabled slot
	Slot string
}

func FilterForChart(journeys []*ctdf.Journey, options FilterOptions) []*ctdf.Journey {
	filtered := []*ctdf.Journey{}

	for _, journey := range journeys {
		if journey == nil {
			continue
		}
		if options.RouteID != "" && journey.RouteID != options.RouteID {
			continue
		}
		if options.Shift != "" && journey.Shift != options.Shift {
			continue
		}
		if options.Slot != "" && journey.ScheduledDeparture != options.Slot {
			continue
		}

		filtered = append(filtered, journey)
	}

	return filtered
}
