package punctuality

import (
	"math"

	"github.com/maxtour/maxtour/pkg/ctdf"
)

// Predicate scopes which journeys an aggregate is computed over
type Predicate func(journey *ctdf.Journey) bool

func All(*ctdf.Journey) bool {
	return true
}

func OnDate(date string) Predicate {
	return func(journey *ctdf.Journey) bool {
		return journey.Date == date
	}
}

func OnShift(shift ctdf.ShiftTag) Predicate {
	return func(journey *ctdf.Journey) bool {
		return journey.Shift == shift
	}
}

func OnRoute(routeID string) Predicate {
	return func(journey *ctdf.Journey) bool {
		return journey.RouteID == routeID
	}
}

func And(predicates ...Predicate) Predicate {
	return func(journey *ctdf.Journey) bool {
		for _, predicate := range predicates {
			if !predicate(journey) {
				return false
			}
		}
		return true
	}
}

type Summary struct {
	Count          int `json:"total"`
	LateCount      int `json:"atrasos"`
	PunctualityPct int `json:"pontualidade"`
}

// Aggregate counts the journeys matching the predicate and how many of them
// arrived late. Departure delays never count here.
func Aggregate(journeys []*ctdf.Journey, predicate Predicate) Summary {
	if predicate == nil {
		predicate = All
	}

	summary := Summary{}
	for _, journey := range journeys {
		if journey == nil || !predicate(journey) {
			continue
		}

		summary.Count++
		if journey.IsArrivalLate() {
			summary.LateCount++
		}
	}

	summary.PunctualityPct = percentage(summary.Count-summary.LateCount, summary.Count)

	return summary
}

func percentage(part int, total int) int {
	if total == 0 {
		return 0
	}

	return int(math.Round(float64(part) / float64(total) * 100))
}

func roundTo(value float64, decimals int) float64 {
	factor := math.Pow(10, float64(decimals))
	return math.Round(value*factor) / factor
}

type ShiftTagSummary struct {
	Shift          ctdf.ShiftTag `json:"turno"`
	Label          string        `json:"nome"`
	Count          int           `json:"jornadas"`
	PunctualityPct int           `json:"pontualidade"`
	AverageDelay   int           `json:"atraso_medio"`
}

// ShiftSummary is the card for one configured shift. The average spreads the
// arrival lateness over every journey of the shift, measured the same way as
// the late count.
func ShiftSummary(journeys []*ctdf.Journey, shift ctdf.ShiftTag) ShiftTagSummary {
	aggregate := Aggregate(journeys, OnShift(shift))

	delaySum := 0
	for _, journey := range journeys {
		if journey == nil || journey.Shift != shift {
			continue
		}
		delaySum += journey.ArrivalLateness()
	}

	averageDelay := 0
	if aggregate.Count > 0 {
		averageDelay = int(math.Round(float64(delaySum) / float64(aggregate.Count)))
	}

	return ShiftTagSummary{
		Shift:          shift,
		Label:          shift.Label(),
		Count:          aggregate.Count,
		PunctualityPct: aggregate.PunctualityPct,
		AverageDelay:   averageDelay,
	}
}

type KPIs struct {
	GeneralPunctuality int `json:"pontualidade_geral"`
	TodayPunctuality   int `json:"pontualidade_hoje"`
	LateJourneys       int `json:"atrasos"`
	TodayJourneys      int `json:"jornadas_hoje"`
	TotalJourneys      int `json:"total_jornadas"`
}

func DashboardKPIs(journeys []*ctdf.Journey, today string) KPIs {
	general := Aggregate(journeys, All)
	todays := Aggregate(journeys, OnDate(today))

	return KPIs{
		GeneralPunctuality: general.PunctualityPct,
		TodayPunctuality:   todays.PunctualityPct,
		LateJourneys:       general.LateCount,
		TodayJourneys:      todays.Count,
		TotalJourneys:      general.Count,
	}
}
