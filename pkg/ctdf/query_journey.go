package ctdf

import (
	"go.mongodb.org/mongo-driver/bson"
)

// JourneyQuery is the filter accepted by the journey listing.
// Dates are inclusive YYYY-MM-DD strings.
type JourneyQuery struct {
	RouteID  string
	DateFrom string
	DateTo   string
	Shift    ShiftTag
}

func (q JourneyQuery) ToBson() bson.M {
	filter := bson.M{}

	if q.RouteID != "" {
		filter["routeid"] = q.RouteID
	}
	if q.Shift != "" {
		filter["shift"] = q.Shift
	}

	dateFilter := bson.M{}
	if q.DateFrom != "" {
		dateFilter["$gte"] = q.DateFrom
	}
	if q.DateTo != "" {
		dateFilter["$lte"] = q.DateTo
	}
	if len(dateFilter) > 0 {
		filter["date"] = dateFilter
	}

	return filter
}

func (q JourneyQuery) Matches(journey *Journey) bool {
	if q.RouteID != "" && journey.RouteID != q.RouteID {
		return false
	}
	if q.Shift != "" && journey.Shift != q.Shift {
		return false
	}
	if q.DateFrom != "" && journey.Date < q.DateFrom {
		return false
	}
	if q.DateTo != "" && journey.Date > q.DateTo {
		return false
	}

	return true
}
