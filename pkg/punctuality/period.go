package punctuality

import "github.com/maxtour/maxtour/pkg/ctdf"

// Period is the clock based day/night split. It is unrelated to the shift
// tag configured on routes and the two are never converted into each other.
type Period string

const (
	PeriodMorning Period = "matutino"
	PeriodNight   Period = "noturno"
)

var Periods = []Period{PeriodMorning, PeriodNight}

const (
	morningStartHour = 5
	nightStartHour   = 21
)

func (p Period) Label() string {
	switch p {
	case PeriodMorning:
		return "Matutino"
	case PeriodNight:
		return "Noturno"
	default:
		return string(p)
	}
}

func (p Period) Hours() string {
	switch p {
	case PeriodMorning:
		return "05:00 - 20:59"
	case PeriodNight:
		return "21:00 - 04:59"
	default:
		return ""
	}
}

// ClassifyPeriod buckets a scheduled departure into a period. It returns false
// when the journey has no scheduled departure to classify by.
func ClassifyPeriod(scheduledDeparture string) (Period, bool) {
	if scheduledDeparture == "" {
		return "", false
	}

	hour := ctdf.ToMinutes(scheduledDeparture) / 60
	if hour >= morningStartHour && hour < nightStartHour {
		return PeriodMorning, true
	}

	return PeriodNight, true
}
