package api

import (
	"errors"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/cors"
	"github.com/gofiber/fiber/v2/middleware/recover"
	"github.com/maxtour/maxtour/pkg/api/routes"
	"github.com/maxtour/maxtour/pkg/api/stats"
)

func NewApp(handlers *routes.Handlers, collector *stats.Collector) *fiber.App {
	webApp := fiber.New(fiber.Config{
		AppName:      "MaxTour",
		ErrorHandler: errorHandler,
		ReadTimeout:  30 * time.Second,
		WriteTimeout: 30 * time.Second,
	})

	webApp.Use(recover.New())
	webApp.Use(NewLogger())
	webApp.Use(cors.New(cors.Config{
		AllowOrigins: "*",
		AllowHeaders: "Origin, Content-Type, Accept",
		AllowMethods: "GET, POST, PUT, DELETE",
	}))

	webApp.Get("version", routes.APIVersion)
	webApp.Get("health", routes.Health)
	if collector != nil {
		webApp.Get("stats", routes.Stats(collector))
	}

	group := webApp.Group("/api")

	handlers.RoutesConfigRouter(group.Group("/config/rotas"))
	handlers.JourneysRouter(group.Group("/percursos"))
	handlers.ReportsRouter(group.Group("/relatorio"))
	handlers.DashboardRouter(group.Group("/dashboard"))

	return webApp
}

func errorHandler(c *fiber.Ctx, err error) error {
	code := fiber.StatusInternalServerError

	var fiberError *fiber.Error
	if errors.As(err, &fiberError) {
		code = fiberError.Code
	}

	c.Status(code)
	return c.JSON(fiber.Map{
		"erro": err.Error(),
	})
}
