package database

import (
	"context"

	"github.com/rs/zerolog/log"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

const (
	routesCollection   = "routes"
	journeysCollection = "journeys"
)

func createIndexes() {
	createRoutesIndexes()
	createJourneysIndexes()
}

func createRoutesIndexes() {
	routesIndex := []mongo.IndexModel{
		{
			Keys:    bson.D{{Key: "id", Value: 1}},
			Options: options.Index().SetUnique(true),
		},
	}

	opts := options.CreateIndexes()
	_, err := GetCollection(routesCollection).Indexes().CreateMany(context.Background(), routesIndex, opts)
	if err != nil {
		log.Error().Err(err).Msg("Creating Index")
	}
}

func createJourneysIndexes() {
	journeysIndex := []mongo.IndexModel{
		{
			Keys:    bson.D{{Key: "id", Value: 1}},
			Options: options.Index().SetUnique(true),
		},
		{
			Keys: bson.D{{Key: "routeid", Value: 1}, {Key: "date", Value: 1}},
		},
		{
			Keys: bson.D{{Key: "date", Value: 1}, {Key: "shift", Value: 1}},
		},
		{
			Keys: bson.D{{Key: "createdat", Value: -1}},
		},
	}

	opts := options.CreateIndexes()
	_, err := GetCollection(journeysCollection).Indexes().CreateMany(context.Background(), journeysIndex, opts)
	if err != nil {
		log.Error().Err(err).Msg("Creating Index")
	}
}
