package seed

import (
	"errors"
	"os"
	"time"

	"github.com/maxtour/maxtour/pkg/ctdf"
	"github.com/maxtour/maxtour/pkg/database"
	"github.com/maxtour/maxtour/pkg/util"
	"github.com/rs/zerolog/log"
	"github.com/urfave/cli/v2"
)

func RegisterCLI() *cli.Command {
	return &cli.Command{
		Name:  "seed",
		Usage: "Loads route configuration and sample journeys into the store",
		Subcommands: []*cli.Command{
			{
				Name:  "routes",
				Usage: "create or update the configured routes",
				Flags: []cli.Flag{
					&cli.StringFlag{
						Name:  "file",
						Usage: "YAML route file, the built in routes are used when empty",
					},
				},
				Action: func(c *cli.Context) error {
					var routes []*ctdf.Route
					var err error

					if path := c.String("file"); path != "" {
						file, err := os.Open(path)
						if err != nil {
							return err
						}
						defer file.Close()

						routes, err = LoadRoutes(file)
						if err != nil {
							return err
						}
					} else if routes, err = DefaultRoutes(); err != nil {
						return err
					}

					store, err := database.Open()
					if err != nil {
						return err
					}

					for _, route := range routes {
						err := store.CreateRoute(c.Context, route)
						if errors.Is(err, database.ErrAlreadyExists) {
							err = store.UpdateRoute(c.Context, route)
						}
						if err != nil {
							return err
						}

						log.Info().Str("route", route.ID).Msg("Route loaded")
					}

					return nil
				},
			},
			{
				Name:  "journeys",
				Usage: "generate fictitious journeys for every active route",
				Flags: []cli.Flag{
					&cli.StringFlag{
						Name:  "from",
						Usage: "first date to generate (YYYY-MM-DD), defaults to two weeks ago",
					},
					&cli.StringFlag{
						Name:  "to",
						Usage: "last date to generate (YYYY-MM-DD), defaults to today",
					},
					&cli.Int64Flag{
						Name:  "seed",
						Value: time.Now().UnixNano(),
						Usage: "random seed",
					},
				},
				Action: func(c *cli.Context) error {
					toDate := c.String("to")
					if toDate == "" {
						toDate = util.Today()
					}
					to, err := util.ParseDate(toDate)
					if err != nil {
						return err
					}

					from := to.AddDate(0, 0, -14)
					if c.String("from") != "" {
						parsed, err := util.ParseDate(c.String("from"))
						if err != nil {
							return err
						}
						from = parsed
					}

					store, err := database.Open()
					if err != nil {
						return err
					}

					allRoutes, err := store.ListRoutes(c.Context)
					if err != nil {
						return err
					}

					var routes []*ctdf.Route
					for _, route := range allRoutes {
						if route.Active {
							routes = append(routes, route)
						}
					}

					journeys := NewGenerator(c.Int64("seed")).Generate(routes, from, to)
					for _, journey := range journeys {
						if err := store.CreateJourney(c.Context, journey); err != nil {
							return err
						}
					}

					log.Info().
						Int("journeys", len(journeys)).
						Int("routes", len(routes)).
						Str("from", from.Format(time.DateOnly)).
						Str("to", to.Format(time.DateOnly)).
						Msg("Sample journeys generated")

					return nil
				},
			},
		},
	}
}
