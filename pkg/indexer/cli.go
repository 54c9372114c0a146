package indexer

import (
	"context"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/maxtour/maxtour/pkg/consumer"
	"github.com/maxtour/maxtour/pkg/database"
	"github.com/maxtour/maxtour/pkg/elastic_client"
	"github.com/maxtour/maxtour/pkg/events"
	"github.com/maxtour/maxtour/pkg/redis_client"
	"github.com/rs/zerolog/log"
	"github.com/urfave/cli/v2"
)

func RegisterCLI() *cli.Command {
	return &cli.Command{
		Name:  "indexer",
		Usage: "Indexes journeys into Elasticsearch",
		Subcommands: []*cli.Command{
			{
				Name:  "run",
				Usage: "consume journey events and keep the index up to date",
				Flags: []cli.Flag{
					&cli.StringFlag{
						Name:  "stats-listen",
						Value: ":3333",
						Usage: "address for the queue stats server",
					},
				},
				Action: func(c *cli.Context) error {
					store, err := database.Open()
					if err != nil {
						return err
					}
					if err := redis_client.Connect(); err != nil {
						return err
					}
					if err := elastic_client.Connect(true); err != nil {
						return err
					}
					if err := elastic_client.EnsureIndex(context.Background(), JourneysIndexName, journeysIndexBody); err != nil {
						return err
					}

					journeyIndexer := &JourneyIndexer{Store: store}

					redisConsumer := consumer.RedisConsumer{
						QueueName:       events.QueueName,
						NumberConsumers: 2,
						BatchSize:       50,
						Timeout:         2 * time.Second,
						StatsListen:     c.String("stats-listen"),
						Consumer:        events.NewBatchConsumer(journeyIndexer.HandleEvents),
					}
					if err := redisConsumer.Setup(); err != nil {
						return err
					}

					signals := make(chan os.Signal, 1)
					signal.Notify(signals, syscall.SIGINT, syscall.SIGTERM)
					defer signal.Stop(signals)

					<-signals
					go func() {
						<-signals
						os.Exit(1)
					}()

					redisConsumer.Stop()
					elastic_client.WaitUntilQueueEmpty()

					return nil
				},
			},
			{
				Name:  "reindex",
				Usage: "index every stored journey",
				Action: func(c *cli.Context) error {
					store, err := database.Open()
					if err != nil {
						return err
					}
					if err := elastic_client.Connect(true); err != nil {
						return err
					}

					journeyIndexer := &JourneyIndexer{Store: store}
					if err := journeyIndexer.Reindex(c.Context); err != nil {
						return err
					}

					elastic_client.WaitUntilQueueEmpty()

					log.Info().Msg("Index queue emptied")

					return nil
				},
			},
		},
	}
}
