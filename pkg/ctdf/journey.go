package ctdf

import (
	"fmt"
	"strings"
	"time"
)

type ShiftTag string

const (
	ShiftTagFirst  ShiftTag = "primeiro_turno"
	ShiftTagSecond ShiftTag = "segundo_turno"
)

var ShiftTags = []ShiftTag{ShiftTagFirst, ShiftTagSecond}

func (s ShiftTag) Valid() bool {
	return s == ShiftTagFirst || s == ShiftTagSecond
}

func (s ShiftTag) Label() string {
	switch s {
	case ShiftTagFirst:
		return "1º Turno"
	case ShiftTagSecond:
		return "2º Turno"
	default:
		return string(s)
	}
}

type AbsenceReason string

const (
	AbsenceReasonMaintenance      AbsenceReason = "manutencao"
	AbsenceReasonMissingDriver    AbsenceReason = "falta_motorista"
	AbsenceReasonTechnicalProblem AbsenceReason = "problema_tecnico"
	AbsenceReasonWeather          AbsenceReason = "condicoes_climaticas"
	AbsenceReasonHoliday          AbsenceReason = "feriado"
	AbsenceReasonCompanyCancelled AbsenceReason = "cancelamento_empresa"
	AbsenceReasonOther            AbsenceReason = "outro"
)

var absenceReasonLabels = map[AbsenceReason]string{
	AbsenceReasonMaintenance:      "Manutenção do veículo",
	AbsenceReasonMissingDriver:    "Falta de motorista",
	AbsenceReasonTechnicalProblem: "Problema técnico",
	AbsenceReasonWeather:          "Condições climáticas",
	AbsenceReasonHoliday:          "Feriado",
	AbsenceReasonCompanyCancelled: "Cancelamento pela empresa",
	AbsenceReasonOther:            "Outro motivo",
}

func (a AbsenceReason) Valid() bool {
	_, ok := absenceReasonLabels[a]
	return ok
}

func (a AbsenceReason) Label() string {
	if label, ok := absenceReasonLabels[a]; ok {
		return label
	}
	return string(a)
}

type JourneyStatus string

const (
	JourneyStatusScheduled JourneyStatus = "programado"
	JourneyStatusCompleted JourneyStatus = "concluido"
	JourneyStatusAbsent    JourneyStatus = "ausente"
)

const absenceNotePrefix = "AUSÊNCIA DE ROTA: "

// Journey is a single run of a route on a given date and shift
type Journey struct {
	ID        string `json:"id" groups:"basic"`
	RouteID   string `json:"rota_id" groups:"basic" validate:"required"`
	RouteName string `json:"nome_rota" groups:"basic"`

	Date  string   `json:"data" groups:"basic" validate:"required,datetime=2006-01-02"`
	Shift ShiftTag `json:"turno" groups:"basic" validate:"required,oneof=primeiro_turno segundo_turno"`

	ScheduledDeparture string `json:"horario_saida_programado" groups:"basic" validate:"omitempty,clock"`
	ScheduledArrival   string `json:"horario_chegada_programado" groups:"basic" validate:"omitempty,clock"`
	ActualDeparture    string `json:"horario_saida_real" groups:"basic" validate:"omitempty,clock"`
	ActualArrival      string `json:"horario_chegada_real" groups:"basic" validate:"omitempty,clock"`

	DepartureDelay *int `json:"atraso_saida" groups:"basic"`
	ArrivalDelay   *int `json:"atraso_chegada" groups:"basic"`

	Notes string `json:"observacoes" groups:"basic"`

	NotRun        bool          `json:"nao_houve_rota" groups:"basic"`
	AbsenceReason AbsenceReason `json:"motivo_ausencia,omitempty" groups:"basic" validate:"required_if=NotRun true"`

	ReferenceSlot string        `json:"horario_referencia,omitempty" groups:"detailed"`
	Status        JourneyStatus `json:"status" groups:"basic"`

	CreatedAt time.Time  `json:"data_criacao" groups:"detailed"`
	UpdatedAt *time.Time `json:"data_atualizacao,omitempty" groups:"detailed"`
}

// ArrivalDelayMinutes prefers the stored delay and falls back to the clock times
func (j *Journey) ArrivalDelayMinutes() (int, bool) {
	if j.ArrivalDelay != nil {
		return *j.ArrivalDelay, true
	}

	return DiffMinutes(j.ScheduledArrival, j.ActualArrival)
}

func (j *Journey) DepartureDelayMinutes() (int, bool) {
	if j.DepartureDelay != nil {
		return *j.DepartureDelay, true
	}

	return DiffMinutes(j.ScheduledDeparture, j.ActualDeparture)
}

// IsArrivalLate compares the arrival clock times, ignoring departure entirely
func (j *Journey) IsArrivalLate() bool {
	if j.ScheduledArrival != "" && j.ActualArrival != "" {
		return ToMinutes(j.ActualArrival) > ToMinutes(j.ScheduledArrival)
	}
	if j.ArrivalDelay != nil {
		return *j.ArrivalDelay > 0
	}

	return false
}

// ArrivalLateness is how many minutes late the arrival was by the same rule
// as IsArrivalLate, zero when on time or early
func (j *Journey) ArrivalLateness() int {
	if j.ScheduledArrival != "" && j.ActualArrival != "" {
		return max(0, ToMinutes(j.ActualArrival)-ToMinutes(j.ScheduledArrival))
	}
	if j.ArrivalDelay != nil {
		return max(0, *j.ArrivalDelay)
	}

	return 0
}

// DisplayRouteName falls back to the route id when the journey was never joined to its route
func (j *Journey) DisplayRouteName() string {
	if j.RouteName != "" {
		return j.RouteName
	}
	if j.RouteID != "" {
		return j.RouteID
	}
	return "Rota Desconhecida"
}

// UpdateDelays recalculates the stored delays from the clock times
func (j *Journey) UpdateDelays() {
	j.DepartureDelay = nil
	j.ArrivalDelay = nil

	if delay, ok := ComputeDelay(j.ScheduledDeparture, j.ActualDeparture); ok {
		j.DepartureDelay = &delay
	}
	if delay, ok := ComputeDelay(j.ScheduledArrival, j.ActualArrival); ok {
		j.ArrivalDelay = &delay
	}
}

// UpdateStatus derives the status. The absence line leads the notes only
// while the journey is registered as not run, with its current reason.
func (j *Journey) UpdateStatus() {
	j.Notes = stripAbsenceNote(j.Notes)

	switch {
	case j.NotRun:
		j.Status = JourneyStatusAbsent

		absenceNote := fmt.Sprintf("%s%s", absenceNotePrefix, j.AbsenceReason.Label())
		if j.Notes == "" {
			j.Notes = absenceNote
		} else {
			j.Notes = fmt.Sprintf("%s\n%s", absenceNote, j.Notes)
		}
	case j.ActualArrival != "" || j.ActualDeparture != "":
		j.Status = JourneyStatusCompleted
	default:
		j.Status = JourneyStatusScheduled
	}
}

func stripAbsenceNote(notes string) string {
	if !strings.HasPrefix(notes, absenceNotePrefix) {
		return notes
	}

	_, rest, _ := strings.Cut(notes, "\n")
	return rest
}

// ApplyRouteDefaults fills the route name and the scheduled times from the
// first slot of the journey's shift when they were not provided.
func (j *Journey) ApplyRouteDefaults(route *Route) {
	if route == nil {
		return
	}

	j.RouteName = route.Name

	slots := route.Schedule[j.Shift]
	if len(slots) == 0 {
		return
	}

	first := slots[0]
	if j.ScheduledDeparture == "" {
		j.ScheduledDeparture = first.Nominal()
	}
	if j.ScheduledArrival == "" {
		j.ScheduledArrival = first.MaxArrival
	}
}

// Copy returns a deep copy of the journey
func (j *Journey) Copy() *Journey {
	copied := *j

	if j.DepartureDelay != nil {
		delay := *j.DepartureDelay
		copied.DepartureDelay = &delay
	}
	if j.ArrivalDelay != nil {
		delay := *j.ArrivalDelay
		copied.ArrivalDelay = &delay
	}
	if j.UpdatedAt != nil {
		updatedAt := *j.UpdatedAt
		copied.UpdatedAt = &updatedAt
	}

	return &copied
}
