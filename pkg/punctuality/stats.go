package punctuality

import (
	"sort"

	"github.com/maxtour/maxtour/pkg/ctdf"
	"github.com/rs/zerolog/log"
)

const (
	bestSlotMinimumObservations = 3
	historyDays                 = 7

	NoTimeSlot   = "N/A"
	NoRouteLabel = "Nenhuma"
)

type PeriodStats struct {
	Period Period `json:"turno"`
	Label  string `json:"nome"`
	Hours  string `json:"periodo"`

	Journeys       int     `json:"jornadas"`
	Delayed        int     `json:"atrasos"`
	PunctualityPct float64 `json:"pontualidade"`
	AverageDelay   float64 `json:"atrasoMedio"`

	DepartureDelays int `json:"atrasosSaida"`
	ArrivalDelays   int `json:"atrasosChegada"`

	BestTimeSlot    string  `json:"horarioTop"`
	BestTimeSlotPct float64 `json:"horarioTopPercentual"`

	CriticalRoute      string `json:"rotaCritica"`
	CriticalRouteCount int    `json:"rotaCriticaCount"`

	TotalDays     int          `json:"totalDias"`
	DaysWithDelay int          `json:"diasComAtraso"`
	History       []DayHistory `json:"historico"`
}

type DayHistory struct {
	Date           string  `json:"data"`
	PunctualityPct float64 `json:"pontualidade"`
	AverageDelay   float64 `json:"atraso"`
	Journeys       int     `json:"jornadas"`
}

type PeriodReport struct {
	Morning PeriodStats `json:"matutino"`
	Night   PeriodStats `json:"noturno"`

	// journeys left out because they had no scheduled departure
	Skipped []string `json:"ignorados"`
}

func (r *PeriodReport) Get(period Period) *PeriodStats {
	if period == PeriodNight {
		return &r.Night
	}
	return &r.Morning
}

type slotPerformance struct {
	total    int
	punctual int
}

type dayAccumulator struct {
	total    int
	delayed  int
	delaySum int
}

type periodAccumulator struct {
	stats    PeriodStats
	delaySum int

	days          map[string]bool
	daysWithDelay map[string]bool

	slotOrder []string
	slots     map[string]*slotPerformance

	routeOrder []string
	routes     map[string]int

	dayOrder []string
	history  map[string]*dayAccumulator
}

func newPeriodAccumulator(period Period) *periodAccumulator {
	return &periodAccumulator{
		stats: PeriodStats{
			Period: period,
			Label:  period.Label(),
			Hours:  period.Hours(),
		},
		days:          map[string]bool{},
		daysWithDelay: map[string]bool{},
		slots:         map[string]*slotPerformance{},
		routes:        map[string]int{},
		history:       map[string]*dayAccumulator{},
	}
}

func (a *periodAccumulator) add(journey *ctdf.Journey, evaluation Evaluation) {
	a.stats.Journeys++
	a.days[journey.Date] = true

	if evaluation.Late {
		a.stats.Delayed++
		a.delaySum += evaluation.Delay
		a.daysWithDelay[journey.Date] = true

		if evaluation.DepartureLate {
			a.stats.DepartureDelays++
		}
		if evaluation.ArrivalLate {
			a.stats.ArrivalDelays++
		}

		routeName := journey.DisplayRouteName()
		if _, exists := a.routes[routeName]; !exists {
			a.routeOrder = append(a.routeOrder, routeName)
		}
		a.routes[routeName]++
	}

	slotKey := ctdf.FormatClock(ctdf.ToMinutes(journey.ScheduledDeparture))
	slot, exists := a.slots[slotKey]
	if !exists {
		slot = &slotPerformance{}
		a.slots[slotKey] = slot
		a.slotOrder = append(a.slotOrder, slotKey)
	}
	slot.total++
	if !evaluation.Late {
		slot.punctual++
	}

	day, exists := a.history[journey.Date]
	if !exists {
		day = &dayAccumulator{}
		a.history[journey.Date] = day
		a.dayOrder = append(a.dayOrder, journey.Date)
	}
	day.total++
	if evaluation.Late {
		day.delayed++
		day.delaySum += evaluation.Delay
	}
}

func (a *periodAccumulator) finish() PeriodStats {
	stats := a.stats

	stats.TotalDays = len(a.days)
	stats.DaysWithDelay = len(a.daysWithDelay)

	if stats.Journeys > 0 {
		stats.PunctualityPct = roundTo(float64(stats.Journeys-stats.Delayed)/float64(stats.Journeys)*100, 2)
	}
	if stats.Delayed > 0 {
		stats.AverageDelay = roundTo(float64(a.delaySum)/float64(stats.Delayed), 2)
	}

	stats.BestTimeSlot = NoTimeSlot
	bestRatio := 0.0
	for _, slotKey := range a.slotOrder {
		slot := a.slots[slotKey]
		ratio := float64(slot.punctual) / float64(slot.total) * 100

		if slot.total >= bestSlotMinimumObservations && ratio > bestRatio {
			bestRatio = ratio
			stats.BestTimeSlot = slotKey
		}
	}
	stats.BestTimeSlotPct = roundTo(bestRatio, 2)

	stats.CriticalRoute = NoRouteLabel
	for _, routeName := range a.routeOrder {
		if a.routes[routeName] > stats.CriticalRouteCount {
			stats.CriticalRoute = routeName
			stats.CriticalRouteCount = a.routes[routeName]
		}
	}

	days := append([]string(nil), a.dayOrder...)
	sort.Strings(days)
	if len(days) > historyDays {
		days = days[len(days)-historyDays:]
	}

	stats.History = make([]DayHistory, 0, len(days))
	for _, date := range days {
		day := a.history[date]

		entry := DayHistory{
			Date:           date,
			PunctualityPct: roundTo(float64(day.total-day.delayed)/float64(day.total)*100, 2),
			Journeys:       day.total,
		}
		if day.delayed > 0 {
			entry.AverageDelay = roundTo(float64(day.delaySum)/float64(day.delayed), 2)
		}

		stats.History = append(stats.History, entry)
	}

	return stats
}

// BuildPeriodStats folds the journeys into morning and night statistics.
// Journeys without a scheduled departure cannot be placed in a period and are
// reported in Skipped instead. The input is never modified.
func BuildPeriodStats(journeys []*ctdf.Journey, policy LatenessPolicy) PeriodReport {
	accumulators := map[Period]*periodAccumulator{
		PeriodMorning: newPeriodAccumulator(PeriodMorning),
		PeriodNight:   newPeriodAccumulator(PeriodNight),
	}

	report := PeriodReport{Skipped: []string{}}

	for _, journey := range journeys {
		if journey == nil {
			continue
		}

		period, ok := ClassifyPeriod(journey.ScheduledDeparture)
		if !ok {
			log.Warn().Str("journey", journey.ID).Msg("Journey has no scheduled departure, skipping")
			report.Skipped = append(report.Skipped, journey.ID)
			continue
		}

		accumulators[period].add(journey, policy.Evaluate(journey))
	}

	report.Morning = accumulators[PeriodMorning].finish()
	report.Night = accumulators[PeriodNight].finish()

	return report
}
