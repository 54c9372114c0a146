package api

import (
	"context"
	"time"

	"github.com/maxtour/maxtour/pkg/api/routes"
	"github.com/maxtour/maxtour/pkg/api/stats"
	"github.com/maxtour/maxtour/pkg/ctdf"
	"github.com/maxtour/maxtour/pkg/database"
	"github.com/maxtour/maxtour/pkg/events"
	"github.com/maxtour/maxtour/pkg/redis_client"
	"github.com/maxtour/maxtour/pkg/report"
	"github.com/maxtour/maxtour/pkg/util"
	"github.com/rs/zerolog/log"
	"github.com/urfave/cli/v2"
)

const defaultReportCacheExpiration = 10 * time.Minute

func RegisterCLI() *cli.Command {
	return &cli.Command{
		Name:  "api",
		Usage: "Provides the MaxTour web API",
		Subcommands: []*cli.Command{
			{
				Name:  "run",
				Usage: "run web api server",
				Flags: []cli.Flag{
					&cli.StringFlag{
						Name:  "listen",
						Value: ":5000",
						Usage: "listen target for the web server",
					},
				},
				Action: func(c *cli.Context) error {
					store, err := database.Open()
					if err != nil {
						return err
					}

					handlers := &routes.Handlers{
						Store:     store,
						Validator: ctdf.NewValidator(),
					}

					env := util.GetEnvironmentVariables()
					if env["MAXTOUR_REDIS_ADDRESS"] != "" {
						if err := redis_client.Connect(); err != nil {
							return err
						}

						handlers.Cache = report.NewCache(redis_client.Client, defaultReportCacheExpiration)

						handlers.Publisher, err = events.NewPublisher(redis_client.QueueConnection)
						if err != nil {
							return err
						}
					} else {
						log.Info().Msg("Redis not configured, running without report cache and journey events")
					}

					collector := &stats.Collector{Store: store}
					go collector.Run(context.Background(), 1*time.Minute)

					return NewApp(handlers, collector).Listen(c.String("listen"))
				},
			},
		},
	}
}
