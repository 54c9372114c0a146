package routes

import (
	"github.com/gofiber/fiber/v2"
	"github.com/maxtour/maxtour/pkg/api/stats"
)

func Stats(collector *stats.Collector) fiber.Handler {
	return func(c *fiber.Ctx) error {
		return c.JSON(collector.Current())
	}
}
