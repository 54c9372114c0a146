package routes

import (
	"encoding/json"
	"fmt"

	"github.com/gofiber/fiber/v2"
	"github.com/maxtour/maxtour/pkg/ctdf"
	"github.com/rs/zerolog/log"
)

func (h *Handlers) RoutesConfigRouter(router fiber.Router) {
	router.Get("/", h.listRoutes)
	router.Post("/", h.createRoute)
	router.Get("/validate", h.validateRoutes)
	router.Put("/:id", h.updateRoute)
	router.Delete("/:id", h.deleteRoute)
}

func (h *Handlers) listRoutes(c *fiber.Ctx) error {
	routes, err := h.Store.ListRoutes(c.UserContext())
	if err != nil {
		return sendStoreError(c, err, "Rota não encontrada")
	}

	return c.JSON(routes)
}

func (h *Handlers) createRoute(c *fiber.Ctx) error {
	route := &ctdf.Route{Active: true}
	if err := json.Unmarshal(c.Body(), route); err != nil {
		return sendError(c, fiber.StatusBadRequest, "JSON inválido")
	}

	if err := h.Validator.Struct(route); err != nil {
		return sendError(c, fiber.StatusBadRequest, validationMessage(err))
	}
	if len(route.Schedule) == 0 {
		return sendError(c, fiber.StatusBadRequest, "Campo obrigatório: horarios")
	}

	if err := h.Store.CreateRoute(c.UserContext(), route); err != nil {
		return sendStoreError(c, err, "Rota não encontrada")
	}

	h.Cache.Invalidate(c.UserContext())

	log.Info().Str("route", route.ID).Msg("Route created")

	c.SendStatus(fiber.StatusCreated)
	return c.JSON(route)
}

// updateRoute merges the fields present in the body into the stored route
func (h *Handlers) updateRoute(c *fiber.Ctx) error {
	id := c.Params("id")

	route, err := h.Store.GetRoute(c.UserContext(), id)
	if err != nil {
		return sendStoreError(c, err, "Rota não encontrada")
	}

	if err := json.Unmarshal(c.Body(), route); err != nil {
		return sendError(c, fiber.StatusBadRequest, "JSON inválido")
	}
	route.ID = id

	if err := h.Validator.Struct(route); err != nil {
		return sendError(c, fiber.StatusBadRequest, validationMessage(err))
	}

	if err := h.Store.UpdateRoute(c.UserContext(), route); err != nil {
		return sendStoreError(c, err, "Rota não encontrada")
	}

	h.Cache.Invalidate(c.UserContext())

	return c.JSON(route)
}

func (h *Handlers) deleteRoute(c *fiber.Ctx) error {
	route, err := h.Store.DeleteRoute(c.UserContext(), c.Params("id"))
	if err != nil {
		return sendStoreError(c, err, "Rota não encontrada")
	}

	h.Cache.Invalidate(c.UserContext())

	return c.JSON(fiber.Map{
		"mensagem": "Rota removida com sucesso",
		"rota":     route,
	})
}

type routeValidation struct {
	Valid    bool     `json:"valida"`
	Problems []string `json:"problemas"`
}

func (h *Handlers) validateRoutes(c *fiber.Ctx) error {
	routes, err := h.Store.ListRoutes(c.UserContext())
	if err != nil {
		return sendStoreError(c, err, "Rota não encontrada")
	}

	problems := []string{}
	seen := map[string]bool{}
	for _, route := range routes {
		if seen[route.ID] {
			problems = append(problems, fmt.Sprintf("Rota %s duplicada", route.ID))
		}
		seen[route.ID] = true

		problems = append(problems, route.Validate()...)
	}

	return c.JSON(routeValidation{
		Valid:    len(problems) == 0,
		Problems: problems,
	})
}
