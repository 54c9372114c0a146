package database

import (
	"context"
	"errors"

	"github.com/maxtour/maxtour/pkg/ctdf"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

type MongoStore struct {
	routes   *mongo.Collection
	journeys *mongo.Collection
}

func NewMongoStore() *MongoStore {
	return &MongoStore{
		routes:   GetCollection(routesCollection),
		journeys: GetCollection(journeysCollection),
	}
}

func (s *MongoStore) ListRoutes(ctx context.Context) ([]*ctdf.Route, error) {
	cursor, err := s.routes.Find(ctx, bson.M{}, options.Find().SetSort(bson.D{{Key: "id", Value: 1}}))
	if err != nil {
		return nil, err
	}

	routes := []*ctdf.Route{}
	if err := cursor.All(ctx, &routes); err != nil {
		return nil, err
	}

	return routes, nil
}

func (s *MongoStore) GetRoute(ctx context.Context, id string) (*ctdf.Route, error) {
	var route *ctdf.Route
	err := s.routes.FindOne(ctx, bson.M{"id": id}).Decode(&route)

	return route, translateError(err)
}

func (s *MongoStore) CreateRoute(ctx context.Context, route *ctdf.Route) error {
	_, err := s.routes.InsertOne(ctx, route)

	return translateError(err)
}

func (s *MongoStore) UpdateRoute(ctx context.Context, route *ctdf.Route) error {
	result, err := s.routes.ReplaceOne(ctx, bson.M{"id": route.ID}, route)
	if err != nil {
		return err
	}
	if result.MatchedCount == 0 {
		return ErrNotFound
	}

	return nil
}

func (s *MongoStore) DeleteRoute(ctx context.Context, id string) (*ctdf.Route, error) {
	var route *ctdf.Route
	err := s.routes.FindOneAndDelete(ctx, bson.M{"id": id}).Decode(&route)

	return route, translateError(err)
}

func (s *MongoStore) ListJourneys(ctx context.Context, query ctdf.JourneyQuery) ([]*ctdf.Journey, error) {
	opts := options.Find().SetSort(bson.D{{Key: "createdat", Value: -1}})

	cursor, err := s.journeys.Find(ctx, query.ToBson(), opts)
	if err != nil {
		return nil, err
	}

	journeys := []*ctdf.Journey{}
	if err := cursor.All(ctx, &journeys); err != nil {
		return nil, err
	}

	return journeys, nil
}

func (s *MongoStore) GetJourney(ctx context.Context, id string) (*ctdf.Journey, error) {
	var journey *ctdf.Journey
	err := s.journeys.FindOne(ctx, bson.M{"id": id}).Decode(&journey)

	return journey, translateError(err)
}

func (s *MongoStore) CreateJourney(ctx context.Context, journey *ctdf.Journey) error {
	_, err := s.journeys.InsertOne(ctx, journey)

	return translateError(err)
}

func (s *MongoStore) UpdateJourney(ctx context.Context, journey *ctdf.Journey) error {
	result, err := s.journeys.ReplaceOne(ctx, bson.M{"id": journey.ID}, journey)
	if err != nil {
		return err
	}
	if result.MatchedCount == 0 {
		return ErrNotFound
	}

	return nil
}

func (s *MongoStore) DeleteJourney(ctx context.Context, id string) (*ctdf.Journey, error) {
	var journey *ctdf.Journey
	err := s.journeys.FindOneAndDelete(ctx, bson.M{"id": id}).Decode(&journey)

	return journey, translateError(err)
}

func translateError(err error) error {
	switch {
	case err == nil:
		return nil
	case errors.Is(err, mongo.ErrNoDocuments):
		return ErrNotFound
	case mongo.IsDuplicateKeyError(err):
		return ErrAlreadyExists
	default:
		return err
	}
}
