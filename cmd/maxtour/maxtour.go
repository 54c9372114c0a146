package main

import (
	"os"
	"time"

	"github.com/joho/godotenv"
	"github.com/maxtour/maxtour/pkg/api"
	"github.com/maxtour/maxtour/pkg/dashboard"
	"github.com/maxtour/maxtour/pkg/indexer"
	"github.com/maxtour/maxtour/pkg/report"
	"github.com/maxtour/maxtour/pkg/seed"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
	"github.com/urfave/cli/v2"

	_ "time/tzdata"
)

func main() {
	if err := godotenv.Load(); err != nil && !os.IsNotExist(err) {
		log.Warn().Err(err).Msg("Failed to read .env file")
	}

	if os.Getenv("MAXTOUR_LOG_FORMAT") != "JSON" {
		log.Logger = log.Output(zerolog.ConsoleWriter{Out: os.Stdout, TimeFormat: time.RFC3339})
	}

	if os.Getenv("MAXTOUR_DEBUG") == "YES" {
		log.Logger = log.Logger.Level(zerolog.DebugLevel)
	} else {
		log.Logger = log.Logger.Level(zerolog.InfoLevel)
	}

	app := &cli.App{
		Name:        "maxtour",
		Description: "Route punctuality tracking for the MaxTour fleet",

		Commands: []*cli.Command{
			api.RegisterCLI(),
			dashboard.RegisterCLI(),
			report.RegisterCLI(),
			seed.RegisterCLI(),
			indexer.RegisterCLI(),
		},
	}

	err := app.Run(os.Args)
	if err != nil {
		log.Fatal().Err(err).Send()
	}
}
