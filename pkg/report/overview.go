package report

import (
	"time"

	"github.com/maxtour/maxtour/pkg/ctdf"
)

type OperationalSummary struct {
	ActiveRoutes     int     `json:"total_rotas_ativas"`
	RecordedJourneys int     `json:"total_percursos_registrados"`
	MeanDelay        float64 `json:"atraso_medio_geral"`
	LargestDelay     int     `json:"maior_atraso_registrado"`
	PunctualJourneys int     `json:"percursos_pontuais"`
	PunctualityPct   float64 `json:"percentual_pontualidade_geral"`
}

type RoutePerformance struct {
	Journeys         int     `json:"total_percursos"`
	MeanDelay        float64 `json:"atraso_medio"`
	PunctualJourneys int     `json:"percursos_pontuais"`
	PunctualityPct   float64 `json:"percentual_pontualidade"`
}

type Overview struct {
	Summary     OperationalSummary          `json:"resumo_operacional"`
	PerRoute    map[string]RoutePerformance `json:"performance_por_rota"`
	GeneratedAt time.Time                   `json:"data_geracao"`
}

// BuildOverview is the operational summary, measured on departure delays.
// Routes without journeys are left out of the per route performance.
func BuildOverview(journeys []*ctdf.Journey, routes []*ctdf.Route, generatedAt time.Time) *Overview {
	overview := &Overview{
		PerRoute:    map[string]RoutePerformance{},
		GeneratedAt: generatedAt,
	}

	for _, route := range routes {
		if route.Active {
			overview.Summary.ActiveRoutes++
		}
	}

	departures := departureDelays(journeys)
	overview.Summary.RecordedJourneys = len(journeys)
	overview.Summary.MeanDelay, overview.Summary.LargestDelay, overview.Summary.PunctualityPct = delayStats(departures, 2)
	overview.Summary.PunctualJourneys = countPunctual(departures)

	for _, route := range routes {
		routeJourneys := []*ctdf.Journey{}
		for _, journey := range journeys {
			if journey.RouteID == route.ID {
				routeJourneys = append(routeJourneys, journey)
			}
		}
		if len(routeJourneys) == 0 {
			continue
		}

		routeDelays := departureDelays(routeJourneys)
		mean, _, punctuality := delayStats(routeDelays, 2)

		overview.PerRoute[route.Name] = RoutePerformance{
			Journeys:         len(routeJourneys),
			MeanDelay:        mean,
			PunctualJourneys: countPunctual(routeDelays),
			PunctualityPct:   punctuality,
		}
	}

	return overview
}

func departureDelays(journeys []*ctdf.Journey) []int {
	delays := make([]int, 0, len(journeys))
	for _, journey := range journeys {
		delays = append(delays, storedDelay(journey.DepartureDelay))
	}
	return delays
}

func countPunctual(delays []int) int {
	punctual := 0
	for _, delay := range delays {
		if delay <= 0 {
			punctual++
		}
	}
	return punctual
}
