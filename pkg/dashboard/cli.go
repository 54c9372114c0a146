package dashboard

import (
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/kr/pretty"
	"github.com/maxtour/maxtour/pkg/database"
	"github.com/maxtour/maxtour/pkg/punctuality"
	"github.com/urfave/cli/v2"
)

func RegisterCLI() *cli.Command {
	return &cli.Command{
		Name:  "dashboard",
		Usage: "Computes the punctuality dashboard and prints it",
		Flags: []cli.Flag{
			&cli.StringFlag{
				Name:  "api",
				Usage: "base URL of a running MaxTour API, reads the store directly when empty",
			},
			&cli.StringFlag{
				Name:  "date",
				Usage: "reference date (YYYY-MM-DD) for the daily figures, defaults to today",
			},
			&cli.StringFlag{
				Name:  "policy",
				Value: string(punctuality.MaxDepartureArrival),
				Usage: "lateness policy for the period statistics (arrival_only, max_departure_arrival)",
			},
			&cli.DurationFlag{
				Name:  "watch",
				Usage: "keep refreshing at this interval instead of printing once",
			},
		},
		Action: func(c *cli.Context) error {
			policy, ok := punctuality.ParseLatenessPolicy(c.String("policy"))
			if !ok {
				return fmt.Errorf("unknown lateness policy %q", c.String("policy"))
			}

			var source Source
			if c.String("api") != "" {
				source = NewClient(c.String("api"))
			} else {
				store, err := database.Open()
				if err != nil {
					return err
				}
				source = &StoreSource{Store: store}
			}

			controller := NewController(source)
			controller.Policy = policy

			controller.Refresh(c.Context)
			pretty.Println(controller.Snapshot(c.String("date")))

			interval := c.Duration("watch")
			if interval <= 0 {
				return nil
			}

			signals := make(chan os.Signal, 1)
			signal.Notify(signals, syscall.SIGINT, syscall.SIGTERM)
			defer signal.Stop(signals)

			ticker := time.NewTicker(interval)
			defer ticker.Stop()

			for {
				select {
				case <-ticker.C:
					controller.Refresh(c.Context)
					pretty.Println(controller.Snapshot(c.String("date")))
				case <-signals:
					return nil
				}
			}
		},
	}
}
