package report

import (
	"math"
	"sort"
	"time"

	"github.com/maxtour/maxtour/pkg/ctdf"
)

const unknownRouteName = "Desconhecida"

type DelaySummary struct {
	TotalJourneys        int     `json:"total_percursos"`
	MeanDepartureDelay   float64 `json:"media_atraso_saida"`
	MeanArrivalDelay     float64 `json:"media_atraso_chegada"`
	MaxDepartureDelay    int     `json:"maior_atraso_saida"`
	MaxArrivalDelay      int     `json:"maior_atraso_chegada"`
	DeparturePunctuality float64 `json:"pontualidade_saida"`
	ArrivalPunctuality   float64 `json:"pontualidade_chegada"`
}

type DelayDetail struct {
	Date               string        `json:"data"`
	Route              string        `json:"rota"`
	Shift              ctdf.ShiftTag `json:"turno"`
	ScheduledDeparture string        `json:"saida_programada"`
	ActualDeparture    string        `json:"saida_real"`
	ScheduledArrival   string        `json:"chegada_programada"`
	ActualArrival      string        `json:"chegada_real"`
	DepartureDelay     int           `json:"atraso_saida"`
	ArrivalDelay       int           `json:"atraso_chegada"`
	Notes              string        `json:"observacoes"`
}

type DelayReport struct {
	Summary     DelaySummary            `json:"resumo"`
	PerRoute    map[string]DelaySummary `json:"por_rota"`
	Details     []DelayDetail           `json:"detalhes"`
	GeneratedAt time.Time               `json:"data_geracao"`
}

// BuildDelayReport summarises the stored departure and arrival delays.
// A journey is punctual when its delay is zero or negative, missing delays count as zero.
func BuildDelayReport(journeys []*ctdf.Journey, routes []*ctdf.Route, generatedAt time.Time) *DelayReport {
	names := routeNames(routes)

	report := &DelayReport{
		PerRoute:    map[string]DelaySummary{},
		Details:     []DelayDetail{},
		GeneratedAt: generatedAt,
	}

	byRoute := map[string][]*ctdf.Journey{}
	for _, journey := range journeys {
		name := names.lookup(journey.RouteID)
		byRoute[name] = append(byRoute[name], journey)

		report.Details = append(report.Details, DelayDetail{
			Date:               journey.Date,
			Route:              name,
			Shift:              journey.Shift,
			ScheduledDeparture: journey.ScheduledDeparture,
			ActualDeparture:    journey.ActualDeparture,
			ScheduledArrival:   journey.ScheduledArrival,
			ActualArrival:      journey.ActualArrival,
			DepartureDelay:     storedDelay(journey.DepartureDelay),
			ArrivalDelay:       storedDelay(journey.ArrivalDelay),
			Notes:              journey.Notes,
		})
	}

	report.Summary = summarise(journeys)
	for name, routeJourneys := range byRoute {
		report.PerRoute[name] = summarise(routeJourneys)
	}

	sort.SliceStable(report.Details, func(i, j int) bool {
		if report.Details[i].Date != report.Details[j].Date {
			return report.Details[i].Date < report.Details[j].Date
		}
		return report.Details[i].Route < report.Details[j].Route
	})

	return report
}

func summarise(journeys []*ctdf.Journey) DelaySummary {
	summary := DelaySummary{TotalJourneys: len(journeys)}
	if len(journeys) == 0 {
		return summary
	}

	departures := make([]int, 0, len(journeys))
	arrivals := make([]int, 0, len(journeys))
	for _, journey := range journeys {
		departures = append(departures, storedDelay(journey.DepartureDelay))
		arrivals = append(arrivals, storedDelay(journey.ArrivalDelay))
	}

	summary.MeanDepartureDelay, summary.MaxDepartureDelay, summary.DeparturePunctuality = delayStats(departures, 1)
	summary.MeanArrivalDelay, summary.MaxArrivalDelay, summary.ArrivalPunctuality = delayStats(arrivals, 1)

	return summary
}

// delayStats returns the mean rounded to decimals, the largest value and the punctual percentage
func delayStats(delays []int, decimals int) (float64, int, float64) {
	if len(delays) == 0 {
		return 0, 0, 0
	}

	sum := 0
	largest := delays[0]
	punctual := 0
	for _, delay := range delays {
		sum += delay
		largest = max(largest, delay)
		if delay <= 0 {
			punctual++
		}
	}

	mean := roundTo(float64(sum)/float64(len(delays)), decimals)
	punctuality := roundTo(float64(punctual)/float64(len(delays))*100, 1)

	return mean, largest, punctuality
}

func storedDelay(delay *int) int {
	if delay == nil {
		return 0
	}
	return *delay
}

func roundTo(value float64, decimals int) float64 {
	factor := math.Pow(10, float64(decimals))
	return math.Round(value*factor) / factor
}

type routeNameIndex map[string]string

func routeNames(routes []*ctdf.Route) routeNameIndex {
	names := routeNameIndex{}
	for _, route := range routes {
		names[route.ID] = route.Name
	}
	return names
}

func (r routeNameIndex) lookup(id string) string {
	if name, exists := r[id]; exists {
		return name
	}
	if id != "" {
		return id
	}
	return unknownRouteName
}
