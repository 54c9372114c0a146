package punctuality

import (
	"fmt"

	"github.com/expr-lang/expr"
	"github.com/expr-lang/expr/vm"
	"github.com/maxtour/maxtour/pkg/ctdf"
	"github.com/rs/zerolog/log"
)

// expressionEnv is what a filter expression can see of a journey
type expressionEnv struct {
	ID                 string
	RouteID            string
	RouteName          string
	Date               string
	Shift              string
	ScheduledDeparture string
	ScheduledArrival   string
	ActualDeparture    string
	ActualArrival      string
	DepartureDelay     int
	ArrivalDelay       int
	NotRun             bool
	Status             string
}

func newExpressionEnv(journey *ctdf.Journey) expressionEnv {
	departureDelay, _ := journey.DepartureDelayMinutes()
	arrivalDelay, _ := journey.ArrivalDelayMinutes()

	return expressionEnv{
		ID:                 journey.ID,
		RouteID:            journey.RouteID,
		RouteName:          journey.RouteName,
		Date:               journey.Date,
		Shift:              string(journey.Shift),
		ScheduledDeparture: journey.ScheduledDeparture,
		ScheduledArrival:   journey.ScheduledArrival,
		ActualDeparture:    journey.ActualDeparture,
		ActualArrival:      journey.ActualArrival,
		DepartureDelay:     departureDelay,
		ArrivalDelay:       arrivalDelay,
		NotRun:             journey.NotRun,
		Status:             string(journey.Status),
	}
}

// CompilePredicate builds a Predicate from a boolean expression such as
// `Shift == "primeiro_turno" && Date >= "2025-07-01"`.
func CompilePredicate(expression string) (Predicate, error) {
	if expression == "" {
		return All, nil
	}

	program, err := expr.Compile(expression, expr.Env(expressionEnv{}), expr.AsBool())
	if err != nil {
		return nil, fmt.Errorf("compiling filter expression: %w", err)
	}

	return programPredicate(program), nil
}

func programPredicate(program *vm.Program) Predicate {
	return func(journey *ctdf.Journey) bool {
		output, err := expr.Run(program, newExpressionEnv(journey))
		if err != nil {
			log.Warn().Err(err).Str("journey", journey.ID).Msg("Filter expression failed")
			return false
		}

		matched, _ := output.(bool)
		return matched
	}
}
