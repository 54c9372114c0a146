package dashboard

import (
	"context"
	"time"

	"github.com/maxtour/maxtour/pkg/ctdf"
	"github.com/maxtour/maxtour/pkg/database"
	"github.com/maxtour/maxtour/pkg/report"
)

// Source is where the dashboard loads its collections from
type Source interface {
	Routes(ctx context.Context) ([]*ctdf.Route, error)
	Journeys(ctx context.Context) ([]*ctdf.Journey, error)
	DelayReport(ctx context.Context) (*report.DelayReport, error)
}

// StoreSource reads straight from a store, used when the dashboard runs next to the database
type StoreSource struct {
	Store database.Store
}

func (s *StoreSource) Routes(ctx context.Context) ([]*ctdf.Route, error) {
	return s.Store.ListRoutes(ctx)
}

func (s *StoreSource) Journeys(ctx context.Context) ([]*ctdf.Journey, error) {
	return s.Store.ListJourneys(ctx, ctdf.JourneyQuery{})
}

func (s *StoreSource) DelayReport(ctx context.Context) (*report.DelayReport, error) {
	routes, err := s.Store.ListRoutes(ctx)
	if err != nil {
		return nil, err
	}

	journeys, err := s.Store.ListJourneys(ctx, ctdf.JourneyQuery{})
	if err != nil {
		return nil, err
	}

	return report.BuildDelayReport(journeys, routes, time.Now()), nil
}
