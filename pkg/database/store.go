package database

import (
	"context"
	"errors"
	"fmt"

	"github.com/maxtour/maxtour/pkg/ctdf"
	"github.com/maxtour/maxtour/pkg/util"
	"github.com/rs/zerolog/log"
)

var (
	ErrNotFound      = errors.New("record not found")
	ErrAlreadyExists = errors.New("record already exists")
)

// Store holds the configured routes and the recorded journeys.
// Journeys are listed most recently created first.
type Store interface {
	ListRoutes(ctx context.Context) ([]*ctdf.Route, error)
	GetRoute(ctx context.Context, id string) (*ctdf.Route, error)
	CreateRoute(ctx context.Context, route *ctdf.Route) error
	UpdateRoute(ctx context.Context, route *ctdf.Route) error
	DeleteRoute(ctx context.Context, id string) (*ctdf.Route, error)

	ListJourneys(ctx context.Context, query ctdf.JourneyQuery) ([]*ctdf.Journey, error)
	GetJourney(ctx context.Context, id string) (*ctdf.Journey, error)
	CreateJourney(ctx context.Context, journey *ctdf.Journey) error
	UpdateJourney(ctx context.Context, journey *ctdf.Journey) error
	DeleteJourney(ctx context.Context, id string) (*ctdf.Journey, error)
}

const (
	StoreTypeMongoDB = "mongodb"
	StoreTypeMemory  = "memory"
)

// Open returns the store selected by MAXTOUR_STORE, MongoDB unless told otherwise
func Open() (Store, error) {
	env := util.GetEnvironmentVariables()

	switch storeType := util.GetEnvironmentVariable(env, "MAXTOUR_STORE", StoreTypeMongoDB); storeType {
	case StoreTypeMongoDB:
		if err := ConnectMongoDB(); err != nil {
			return nil, fmt.Errorf("connecting to mongodb: %w", err)
		}
		return NewMongoStore(), nil
	case StoreTypeMemory:
		log.Warn().Msg("Using in-memory store, data will not survive a restart")
		return NewMemoryStore(), nil
	default:
		return nil, fmt.Errorf("unknown store type %q", storeType)
	}
}
