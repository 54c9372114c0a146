package consumer

import (
	"fmt"
	"math"
	"net/http"
	"time"

	"github.com/adjust/rmq/v5"
	"github.com/maxtour/maxtour/pkg/redis_client"
	"github.com/rs/zerolog/log"
)

const (
	defaultStatsListen     = ":3333"
	defaultJanitorInterval = 5 * time.Minute
)

// RedisConsumer runs a pool of batch consumers against one rmq queue
// and serves the queue stats and health endpoints next to them. A janitor
// periodically returns rejected deliveries to the queue and cleans up after
// dead connections.
type RedisConsumer struct {
	QueueName string

	NumberConsumers int
	BatchSize       int

	Timeout time.Duration

	StatsListen string

	// defaults to 5 minutes
	JanitorInterval time.Duration

	Consumer rmq.BatchConsumer

	stopJanitor chan struct{}
}

func (c *RedisConsumer) Setup() error {
	queue, err := c.startConsumers()
	if err != nil {
		return err
	}

	c.stopJanitor = make(chan struct{})
	go c.runJanitor(c.stopJanitor, queue, rmq.NewCleaner(redis_client.QueueConnection))

	go c.startStatsServer()

	return nil
}

// Stop waits for every running Consume call to return
func (c *RedisConsumer) Stop() {
	if c.stopJanitor != nil {
		close(c.stopJanitor)
		c.stopJanitor = nil
	}

	<-redis_client.QueueConnection.StopAllConsuming()
}

func (c *RedisConsumer) startConsumers() (rmq.Queue, error) {
	log.Info().Str("queue", c.QueueName).Int("consumers", c.NumberConsumers).Msg("Starting consumers")

	queue, err := redis_client.QueueConnection.OpenQueue(c.QueueName)
	if err != nil {
		return nil, err
	}
	if err := queue.StartConsuming(int64(c.NumberConsumers*c.BatchSize), 1*time.Second); err != nil {
		return nil, err
	}

	for i := 0; i < c.NumberConsumers; i++ {
		tag := fmt.Sprintf("%s-consumer-%d", c.QueueName, i)
		if _, err := queue.AddBatchConsumer(tag, int64(c.BatchSize), c.Timeout, c.Consumer); err != nil {
			return nil, err
		}
	}

	return queue, nil
}

type rejectedReturner interface {
	ReturnRejected(max int64) (int64, error)
}

type connectionCleaner interface {
	Clean() (int64, error)
}

func (c *RedisConsumer) runJanitor(stop <-chan struct{}, queue rejectedReturner, cleaner connectionCleaner) {
	interval := c.JanitorInterval
	if interval <= 0 {
		interval = defaultJanitorInterval
	}

	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	for {
		select {
		case <-stop:
			return
		case <-ticker.C:
			c.tidyQueue(queue, cleaner)
		}
	}
}

// tidyQueue moves rejected deliveries back to ready and returns the unacked
// deliveries of dead connections
func (c *RedisConsumer) tidyQueue(queue rejectedReturner, cleaner connectionCleaner) {
	returned, err := queue.ReturnRejected(math.MaxInt64)
	if err != nil {
		log.Error().Err(err).Str("queue", c.QueueName).Msg("Failed to return rejected deliveries")
	} else if returned != 0 {
		log.Info().Str("queue", c.QueueName).Msgf("Returned %d rejected deliveries", returned)
	}

	cleaned, err := cleaner.Clean()
	if err != nil {
		log.Error().Err(err).Msg("Failed to clean")
	} else if cleaned != 0 {
		log.Info().Msgf("Cleaned %d records", cleaned)
	}
}

func (c *RedisConsumer) startStatsServer() {
	listen := c.StatsListen
	if listen == "" {
		listen = defaultStatsListen
	}

	endpoint := fmt.Sprintf("/%s/stats", c.QueueName)

	mux := http.NewServeMux()
	mux.Handle(endpoint, NewStatsHandler(redis_client.QueueConnection))
	mux.Handle("/health", NewHealthHandler())

	log.Info().Msgf("Stats server listening on http://%s%s", listen, endpoint)
	if err := http.ListenAndServe(listen, mux); err != nil {
		log.Error().Err(err).Msg("Stats server stopped")
	}
}
