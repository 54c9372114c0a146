package util

import (
	"time"

	"github.com/rs/zerolog/log"
)

const defaultTimezone = "America/Sao_Paulo"

// Location is the timezone the operation runs in, used to decide what "today" is
func Location() *time.Location {
	name := GetEnvironmentVariable(GetEnvironmentVariables(), "MAXTOUR_TIMEZONE", defaultTimezone)

	location, err := time.LoadLocation(name)
	if err != nil {
		log.Error().Err(err).Str("timezone", name).Msg("Unknown timezone, using UTC")
		return time.UTC
	}

	return location
}

func Today() string {
	return time.Now().In(Location()).Format(time.DateOnly)
}

func ParseDate(date string) (time.Time, error) {
	return time.ParseInLocation(time.DateOnly, date, time.UTC)
}

// DatesBetween lists every date from start to end inclusive
func DatesBetween(start time.Time, end time.Time) []time.Time {
	dates := []time.Time{}

	for current := start; !current.After(end); current = current.AddDate(0, 0, 1) {
		dates = append(dates, current)
	}

	return dates
}
