package ctdf

import (
	"fmt"
)

type MovementType string

const (
	MovementTypeArrival   MovementType = "chegada"
	MovementTypeDeparture MovementType = "saida"
)

func (m MovementType) Label() string {
	switch m {
	case MovementTypeArrival:
		return "Chegada"
	case MovementTypeDeparture:
		return "Saída"
	default:
		return string(m)
	}
}

// Route is a configured service line with its timetable per shift
type Route struct {
	ID     string `json:"id" yaml:"id" groups:"basic" validate:"required"`
	Name   string `json:"nome" yaml:"nome" groups:"basic" validate:"required"`
	Active bool   `json:"ativa" yaml:"ativa" groups:"basic"`

	Schedule map[ShiftTag][]TimeSlot `json:"horarios" yaml:"horarios" groups:"basic" validate:"dive,dive"`
}

// TimeSlot is one timetabled movement with its acceptable arrival window.
// Only one of Arrival and Departure is set.
type TimeSlot struct {
	Arrival    string `json:"chegada_martins,omitempty" yaml:"chegada_martins,omitempty" groups:"basic" validate:"omitempty,clock"`
	Departure  string `json:"saida_martins,omitempty" yaml:"saida_martins,omitempty" groups:"basic" validate:"omitempty,clock"`
	MinArrival string `json:"chegada_minima" yaml:"chegada_minima" groups:"basic" validate:"omitempty,clock"`
	MaxArrival string `json:"chegada_maxima" yaml:"chegada_maxima" groups:"basic" validate:"omitempty,clock"`
}

func (t TimeSlot) Movement() MovementType {
	if t.Arrival != "" {
		return MovementTypeArrival
	}
	return MovementTypeDeparture
}

func (t TimeSlot) Nominal() string {
	if t.Arrival != "" {
		return t.Arrival
	}
	return t.Departure
}

// Validate lists the consistency problems of the route configuration, empty when valid
func (r *Route) Validate() []string {
	var problems []string

	if r.ID == "" {
		problems = append(problems, "Rota sem ID")
	}
	if r.Name == "" {
		problems = append(problems, fmt.Sprintf("Rota %s sem nome", r.ID))
	}
	if len(r.Schedule) == 0 {
		problems = append(problems, fmt.Sprintf("Rota %s sem horários configurados", r.ID))
	}

	for _, shift := range ShiftTags {
		slots, exists := r.Schedule[shift]
		if !exists {
			problems = append(problems, fmt.Sprintf("Rota %s sem horários para %s", r.ID, shift.Label()))
			continue
		}

		for i, slot := range slots {
			position := i + 1

			switch {
			case slot.Arrival == "" && slot.Departure == "":
				problems = append(problems, fmt.Sprintf("Rota %s, %s, horário %d: sem horário de chegada ou saída", r.ID, shift.Label(), position))
			case slot.Arrival != "" && slot.Departure != "":
				problems = append(problems, fmt.Sprintf("Rota %s, %s, horário %d: chegada e saída definidas ao mesmo tempo", r.ID, shift.Label(), position))
			}

			if slot.MinArrival == "" || slot.MaxArrival == "" {
				problems = append(problems, fmt.Sprintf("Rota %s, %s, horário %d: tolerância incompleta", r.ID, shift.Label(), position))
			} else if ToMinutes(slot.MinArrival) > ToMinutes(slot.MaxArrival) {
				problems = append(problems, fmt.Sprintf("Rota %s, %s, horário %d: tolerância mínima depois da máxima", r.ID, shift.Label(), position))
			}
		}
	}

	for shift := range r.Schedule {
		if !shift.Valid() {
			problems = append(problems, fmt.Sprintf("Rota %s com turno desconhecido %s", r.ID, shift))
		}
	}

	return problems
}

// FindArrivalSlot returns the first arrival slot of the shift whose nominal
// time is within tolerance minutes of clock.
func (r *Route) FindArrivalSlot(shift ShiftTag, clock string, tolerance int) (TimeSlot, bool) {
	if r == nil || clock == "" {
		return TimeSlot{}, false
	}

	target := ToMinutes(clock)
	for _, slot := range r.Schedule[shift] {
		if slot.Arrival == "" {
			continue
		}

		diff := ToMinutes(slot.Arrival) - target
		if diff < 0 {
			diff = -diff
		}
		if diff <= tolerance {
			return slot, true
		}
	}

	return TimeSlot{}, false
}

// SlotAt returns the slot of the shift timetabled exactly at clock
func (r *Route) SlotAt(shift ShiftTag, clock string) (TimeSlot, bool) {
	if r == nil || clock == "" {
		return TimeSlot{}, false
	}

	for _, slot := range r.Schedule[shift] {
		if slot.Arrival == clock || slot.Departure == clock {
			return slot, true
		}
	}

	return TimeSlot{}, false
}

func (r *Route) HasSlotAt(shift ShiftTag, clock string) bool {
	_, ok := r.SlotAt(shift, clock)
	return ok
}

// Copy returns a deep copy of the route
func (r *Route) Copy() *Route {
	copied := *r

	if r.Schedule != nil {
		copied.Schedule = make(map[ShiftTag][]TimeSlot, len(r.Schedule))
		for shift, slots := range r.Schedule {
			copied.Schedule[shift] = append([]TimeSlot(nil), slots...)
		}
	}

	return &copied
}
