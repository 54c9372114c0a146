package redis_client

import (
	"context"
	"strconv"

	"github.com/adjust/rmq/v5"
	"github.com/maxtour/maxtour/pkg/util"
	"github.com/redis/go-redis/v9"
)

var Client *redis.Client
var QueueConnection rmq.Connection

const defaultConnectionAddress = "localhost:6379"
const defaultConnectionPassword = ""
const defaultDatabase = 0

func Connect() error {
	address := defaultConnectionAddress
	password := defaultConnectionPassword
	database := defaultDatabase

	env := util.GetEnvironmentVariables()

	if env["MAXTOUR_REDIS_ADDRESS"] != "" {
		address = env["MAXTOUR_REDIS_ADDRESS"]
	}

	if env["MAXTOUR_REDIS_PASSWORD"] != "" {
		password = env["MAXTOUR_REDIS_PASSWORD"]
	}

	if env["MAXTOUR_REDIS_DATABASE"] != "" {
		if n, err := strconv.Atoi(env["MAXTOUR_REDIS_DATABASE"]); err == nil {
			database = n
		} else {
			return err
		}
	}

	client := redis.NewClient(&redis.Options{
		Addr:     address,
		Password: password,
		DB:       database,
	})

	return Use(client)
}

// Use sets up the shared client and queue connection from an existing redis client
func Use(client *redis.Client) error {
	if err := client.Ping(context.Background()).Err(); err != nil {
		return err
	}

	queueConnection, err := rmq.OpenConnectionWithRedisClient("maxtour", client, nil)
	if err != nil {
		return err
	}

	Client = client
	QueueConnection = queueConnection

	return nil
}
