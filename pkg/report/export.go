package report

import (
	"io"
	"sort"
	"strconv"

	"github.com/gocarina/gocsv"
	"github.com/maxtour/maxtour/pkg/ctdf"
)

const noClock = "--:--"

// ExportRow is one line of the delay spreadsheet
type ExportRow struct {
	Date          string `csv:"Date"`
	Route         string `csv:"Route"`
	Shift         string `csv:"Shift"`
	MovementType  string `csv:"Movement Type"`
	ScheduledTime string `csv:"Scheduled Time"`
	ActualTime    string `csv:"Actual Time"`
	ToleranceMin  string `csv:"Tolerance Min"`
	ToleranceMax  string `csv:"Tolerance Max"`
	Delay         string `csv:"Delay (minutes)"`
	Notes         string `csv:"Notes"`
}

// BuildExportRows flattens the journeys into spreadsheet rows ordered by date then route.
// The timetable slot is the one scheduled exactly at the departure time, falling back
// to the arrival slot within five minutes of the scheduled arrival.
func BuildExportRows(journeys []*ctdf.Journey, routes []*ctdf.Route) []ExportRow {
	index := map[string]*ctdf.Route{}
	for _, route := range routes {
		index[route.ID] = route
	}
	names := routeNames(routes)

	rows := make([]ExportRow, 0, len(journeys))
	for _, journey := range journeys {
		route := index[journey.RouteID]

		slot, found := route.SlotAt(journey.Shift, journey.ScheduledDeparture)
		if !found {
			slot, found = route.FindArrivalSlot(journey.Shift, journey.ScheduledArrival, 5)
		}

		row := ExportRow{
			Date:          journey.Date,
			Route:         names.lookup(journey.RouteID),
			Shift:         journey.Shift.Label(),
			MovementType:  ctdf.MovementTypeDeparture.Label(),
			ScheduledTime: orNoClock(journey.ScheduledDeparture),
			ActualTime:    orNoClock(journey.ActualDeparture),
			ToleranceMin:  noClock,
			ToleranceMax:  noClock,
			Notes:         journey.Notes,
		}

		if found {
			row.MovementType = slot.Movement().Label()
			row.ToleranceMin = orNoClock(slot.MinArrival)
			row.ToleranceMax = orNoClock(slot.MaxArrival)

			if slot.Movement() == ctdf.MovementTypeArrival {
				row.ScheduledTime = orNoClock(journey.ScheduledArrival)
				row.ActualTime = orNoClock(journey.ActualArrival)
			}
		}

		delay, known := journey.DepartureDelayMinutes()
		if row.MovementType == ctdf.MovementTypeArrival.Label() {
			delay, known = journey.ArrivalDelayMinutes()
		}
		if known {
			row.Delay = strconv.Itoa(delay)
		}

		rows = append(rows, row)
	}

	sort.SliceStable(rows, func(i, j int) bool {
		if rows[i].Date != rows[j].Date {
			return rows[i].Date < rows[j].Date
		}
		return rows[i].Route < rows[j].Route
	})

	return rows
}

func WriteCSV(w io.Writer, rows []ExportRow) error {
	return gocsv.Marshal(rows, w)
}

func orNoClock(clock string) string {
	if clock == "" {
		return noClock
	}
	return clock
}
