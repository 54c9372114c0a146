package routes

import (
	"github.com/gofiber/fiber/v2"
	"github.com/maxtour/maxtour/pkg/database"
	"github.com/maxtour/maxtour/pkg/redis_client"
)

const Version = "v1.0"

func APIVersion(c *fiber.Ctx) error {
	return c.JSON(fiber.Map{
		"version": Version,
	})
}

// Health checks the backing services that are configured
func Health(c *fiber.Ctx) error {
	checks := fiber.Map{}
	healthy := true

	if database.Instance != nil {
		if err := database.Instance.Client.Ping(c.UserContext(), nil); err != nil {
			checks["mongodb"] = err.Error()
			healthy = false
		} else {
			checks["mongodb"] = "OK"
		}
	}

	if redis_client.Client != nil {
		if err := redis_client.Client.Ping(c.UserContext()).Err(); err != nil {
			checks["redis"] = err.Error()
			healthy = false
		} else {
			checks["redis"] = "OK"
		}
	}

	if !healthy {
		c.SendStatus(fiber.StatusServiceUnavailable)
	}

	return c.JSON(fiber.Map{
		"status":   map[bool]string{true: "OK", false: "DEGRADED"}[healthy],
		"servicos": checks,
	})
}
