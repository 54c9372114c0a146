package punctuality

import (
	"fmt"

	"github.com/maxtour/maxtour/pkg/ctdf"
)

type Direction string

const (
	DirectionOnTime Direction = "on_time"
	DirectionLate   Direction = "late"
	DirectionEarly  Direction = "early"
)

type Severity string

const (
	SeverityNone     Severity = "none"
	SeveritySlight   Severity = "slight"
	SeverityModerate Severity = "moderate"
	SeveritySevere   Severity = "severe"
)

const (
	severeDelayThreshold   = 15
	moderateDelayThreshold = 5

	// slot lookup window around the journey's scheduled arrival
	slotMatchTolerance = 5
	// late arrivals above this many minutes outside the window are shown as grave
	toleranceGraveThreshold = 10
)

type Classification struct {
	Delay     int       `json:"atraso"`
	Direction Direction `json:"direcao"`
	Severity  Severity  `json:"severidade"`
	Label     string    `json:"status"`
}

// ClassifyDelay applies the fixed threshold policy used by the cards and tables
func ClassifyDelay(delay int) Classification {
	classification := Classification{
		Delay:     delay,
		Direction: DirectionOnTime,
		Severity:  SeverityNone,
		Label:     "No horário",
	}

	if delay == 0 {
		return classification
	}

	absolute := delay
	classification.Direction = DirectionLate
	if delay < 0 {
		absolute = -delay
		classification.Direction = DirectionEarly
	}

	late := classification.Direction == DirectionLate
	switch {
	case absolute > severeDelayThreshold:
		classification.Severity = SeveritySevere
		classification.Label = pick(late, "Atraso Grave", "Muito Adiantado")
	case absolute > moderateDelayThreshold:
		classification.Severity = SeverityModerate
		classification.Label = pick(late, "Atraso Moderado", "Adiantado")
	default:
		classification.Severity = SeveritySlight
		classification.Label = pick(late, "Atraso Leve", "Levemente Adiantado")
	}

	return classification
}

func pick(condition bool, whenTrue string, whenFalse string) string {
	if condition {
		return whenTrue
	}
	return whenFalse
}

// ToleranceWindow is the accepted arrival range in minutes relative to the slot's nominal time
type ToleranceWindow struct {
	MinOffset int `json:"tolerancia_min"`
	MaxOffset int `json:"tolerancia_max"`
}

func ToleranceWindowFor(slot ctdf.TimeSlot) ToleranceWindow {
	if slot.MinArrival == "" || slot.MaxArrival == "" || slot.Nominal() == "" {
		return ToleranceWindow{}
	}

	nominal := ctdf.ToMinutes(slot.Nominal())

	return ToleranceWindow{
		MinOffset: ctdf.ToMinutes(slot.MinArrival) - nominal,
		MaxOffset: ctdf.ToMinutes(slot.MaxArrival) - nominal,
	}
}

type ToleranceResult struct {
	Delay     int             `json:"atraso"`
	Direction Direction       `json:"direcao"`
	Grave     bool            `json:"grave"`
	Label     string          `json:"status"`
	Window    ToleranceWindow `json:"tolerancia"`
}

// ClassifyWithTolerance treats any delay inside the window as on time
func ClassifyWithTolerance(delay int, window ToleranceWindow) ToleranceResult {
	result := ToleranceResult{
		Delay:     delay,
		Direction: DirectionOnTime,
		Label:     "No horário",
		Window:    window,
	}

	if delay == 0 {
		return result
	}

	absolute := delay
	if absolute < 0 {
		absolute = -absolute
	}

	switch {
	case delay > window.MaxOffset:
		result.Direction = DirectionLate
		result.Grave = absolute > toleranceGraveThreshold
		result.Label = fmt.Sprintf("Atraso %dmin", absolute)
	case delay < window.MinOffset:
		result.Direction = DirectionEarly
		result.Label = fmt.Sprintf("Adiantado %dmin", absolute)
	}

	return result
}

// FindTimeSlot resolves the timetabled arrival slot a journey was recorded against
func FindTimeSlot(route *ctdf.Route, journey *ctdf.Journey) (ctdf.TimeSlot, bool) {
	if route == nil || journey == nil {
		return ctdf.TimeSlot{}, false
	}

	return route.FindArrivalSlot(journey.Shift, journey.ScheduledArrival, slotMatchTolerance)
}

type Compatibility struct {
	Compatible bool   `json:"compativel"`
	Reason     string `json:"motivo"`
}

// CheckCompatibility verifies that the journey's scheduled departure exists in its route's timetable
func CheckCompatibility(journey *ctdf.Journey, route *ctdf.Route) Compatibility {
	if journey == nil || journey.RouteID == "" || journey.Shift == "" {
		return Compatibility{Compatible: false, Reason: "Dados da jornada incompletos"}
	}

	if route == nil {
		return Compatibility{Compatible: false, Reason: fmt.Sprintf("Rota %s não encontrada", journey.RouteID)}
	}

	if _, exists := route.Schedule[journey.Shift]; !exists {
		return Compatibility{
			Compatible: false,
			Reason:     fmt.Sprintf("Horários para %s não configurados na rota %s", journey.Shift, route.Name),
		}
	}

	if journey.ScheduledDeparture == "" {
		return Compatibility{Compatible: true, Reason: "Horário programado não definido na jornada"}
	}

	if route.HasSlotAt(journey.Shift, journey.ScheduledDeparture) {
		return Compatibility{Compatible: true, Reason: "Horário encontrado na configuração da rota"}
	}

	return Compatibility{
		Compatible: false,
		Reason:     fmt.Sprintf("Horário %s não encontrado na configuração da rota %s", journey.ScheduledDeparture, route.Name),
	}
}

type JourneyClassification struct {
	Journey       *ctdf.Journey   `json:"jornada"`
	RouteName     string          `json:"nome_rota"`
	Status        ToleranceResult `json:"status"`
	Compatibility Compatibility   `json:"compatibilidade"`
}

// ClassifyJourney resolves the journey's route and slot and applies the tolerance policy.
// Journeys whose route or slot cannot be resolved use an empty window.
func ClassifyJourney(journey *ctdf.Journey, routes RouteIndex) JourneyClassification {
	route := routes.Get(journey.RouteID)

	window := ToleranceWindow{}
	if slot, ok := FindTimeSlot(route, journey); ok {
		window = ToleranceWindowFor(slot)
	}

	delay := 0
	if journey.ArrivalDelay != nil {
		delay = *journey.ArrivalDelay
	}

	routeName := journey.RouteID
	if route != nil {
		routeName = route.Name
	}

	return JourneyClassification{
		Journey:       journey,
		RouteName:     routeName,
		Status:        ClassifyWithTolerance(delay, window),
		Compatibility: CheckCompatibility(journey, route),
	}
}

// RouteIndex is a lookup of routes by id
type RouteIndex map[string]*ctdf.Route

func NewRouteIndex(routes []*ctdf.Route) RouteIndex {
	index := RouteIndex{}
	for _, route := range routes {
		if route != nil {
			index[route.ID] = route
		}
	}
	return index
}

func (r RouteIndex) Get(id string) *ctdf.Route {
	if r == nil {
		return nil
	}
	return r[id]
}
