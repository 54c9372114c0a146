package punctuality

import "github.com/maxtour/maxtour/pkg/ctdf"

// LatenessPolicy decides when a journey counts as delayed. The dashboard KPIs
// use ArrivalOnly while the period statistics use MaxDepartureArrival.
type LatenessPolicy string

const (
	ArrivalOnly         LatenessPolicy = "arrival_only"
	MaxDepartureArrival LatenessPolicy = "max_departure_arrival"
)

const maxDepartureArrivalThreshold = 5

type Evaluation struct {
	Late          bool
	Delay         int
	DepartureLate bool
	ArrivalLate   bool
}

func (p LatenessPolicy) Evaluate(journey *ctdf.Journey) Evaluation {
	arrivalDelay, _ := journey.ArrivalDelayMinutes()
	arrivalDelay = max(0, arrivalDelay)

	switch p {
	case MaxDepartureArrival:
		departureDelay, _ := journey.DepartureDelayMinutes()
		departureDelay = max(0, departureDelay)

		evaluation := Evaluation{
			DepartureLate: departureDelay > maxDepartureArrivalThreshold,
			ArrivalLate:   arrivalDelay > maxDepartureArrivalThreshold,
			Delay:         max(departureDelay, arrivalDelay),
		}
		evaluation.Late = evaluation.DepartureLate || evaluation.ArrivalLate

		return evaluation
	default:
		late := journey.IsArrivalLate()

		return Evaluation{
			Late:        late,
			ArrivalLate: late,
			Delay:       arrivalDelay,
		}
	}
}

func ParseLatenessPolicy(value string) (LatenessPolicy, bool) {
	switch LatenessPolicy(value) {
	case ArrivalOnly:
		return ArrivalOnly, true
	case MaxDepartureArrival:
		return MaxDepartureArrival, true
	default:
		return "", false
	}
}
