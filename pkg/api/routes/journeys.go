package routes

import (
	"encoding/json"
	"errors"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
	"github.com/jinzhu/copier"
	"github.com/liip/sheriff"
	"github.com/maxtour/maxtour/pkg/ctdf"
	"github.com/maxtour/maxtour/pkg/database"
	"github.com/maxtour/maxtour/pkg/util"
	"github.com/rs/zerolog/log"
	iso8601 "github.com/senseyeio/duration"
)

func (h *Handlers) JourneysRouter(router fiber.Router) {
	router.Get("/", h.listJourneys)
	router.Post("/", h.createJourney)
	router.Get("/:id", h.getJourney)
	router.Put("/:id", h.updateJourney)
	router.Delete("/:id", h.deleteJourney)
}

// journeyInput holds the journey fields a client may write
type journeyInput struct {
	RouteID string        `json:"rota_id"`
	Date    string        `json:"data"`
	Shift   ctdf.ShiftTag `json:"turno"`

	ScheduledDeparture string `json:"horario_saida_programado"`
	ScheduledArrival   string `json:"horario_chegada_programado"`
	ActualDeparture    string `json:"horario_saida_real"`
	ActualArrival      string `json:"horario_chegada_real"`

	Notes string `json:"observacoes"`

	NotRun        bool               `json:"nao_houve_rota"`
	AbsenceReason ctdf.AbsenceReason `json:"motivo_ausencia"`

	ReferenceSlot string `json:"horario_referencia"`
}

// journeyQuery reads the listing filters. periodo is an ISO 8601 duration
// counted from data_inicio and sets data_fim to the last day it covers.
func journeyQuery(c *fiber.Ctx) (ctdf.JourneyQuery, error) {
	query := ctdf.JourneyQuery{
		RouteID:  c.Query("rota"),
		DateFrom: c.Query("data_inicio"),
		DateTo:   c.Query("data_fim"),
		Shift:    ctdf.ShiftTag(c.Query("turno")),
	}

	if query.Shift != "" && !query.Shift.Valid() {
		return query, fiber.NewError(fiber.StatusBadRequest, shiftErrorMessage)
	}

	if periodo := c.Query("periodo"); periodo != "" {
		if query.DateFrom == "" {
			return query, fiber.NewError(fiber.StatusBadRequest, "periodo requer data_inicio")
		}

		duration, err := iso8601.ParseISO8601(periodo)
		if err != nil {
			return query, fiber.NewError(fiber.StatusBadRequest, "periodo inválido")
		}

		start, err := util.ParseDate(query.DateFrom)
		if err != nil {
			return query, fiber.NewError(fiber.StatusBadRequest, "data_inicio inválida")
		}

		query.DateTo = duration.Shift(start).AddDate(0, 0, -1).Format(time.DateOnly)
	}

	return query, nil
}

func (h *Handlers) listJourneys(c *fiber.Ctx) error {
	query, err := journeyQuery(c)
	if err != nil {
		return sendFiberError(c, err)
	}

	journeys, err := h.Store.ListJourneys(c.UserContext(), query)
	if err != nil {
		return sendStoreError(c, err, "Percurso não encontrado")
	}

	reduced, err := sheriff.Marshal(&sheriff.Options{
		Groups: []string{"basic", "detailed"},
	}, journeys)
	if err != nil {
		return sendError(c, fiber.StatusInternalServerError, "Sheriff could not reduce Journeys")
	}

	return c.JSON(reduced)
}

func (h *Handlers) getJourney(c *fiber.Ctx) error {
	journey, err := h.Store.GetJourney(c.UserContext(), c.Params("id"))
	if err != nil {
		return sendStoreError(c, err, "Percurso não encontrado")
	}

	groups := []string{"basic"}
	if c.QueryBool("detalhado", true) {
		groups = append(groups, "detailed")
	}

	reduced, err := sheriff.Marshal(&sheriff.Options{Groups: groups}, journey)
	if err != nil {
		return sendError(c, fiber.StatusInternalServerError, "Sheriff could not reduce Journey")
	}

	return c.JSON(reduced)
}

func (h *Handlers) createJourney(c *fiber.Ctx) error {
	var input journeyInput
	if err := json.Unmarshal(c.Body(), &input); err != nil {
		return sendError(c, fiber.StatusBadRequest, "JSON inválido")
	}

	journey := &ctdf.Journey{}
	if err := copier.Copy(journey, &input); err != nil {
		return sendError(c, fiber.StatusInternalServerError, err.Error())
	}

	if message, ok := h.validateJourney(journey); !ok {
		return sendError(c, fiber.StatusBadRequest, message)
	}

	route, err := h.Store.GetRoute(c.UserContext(), journey.RouteID)
	if errors.Is(err, database.ErrNotFound) {
		return sendError(c, fiber.StatusBadRequest, "Rota não encontrada")
	} else if err != nil {
		return sendStoreError(c, err, "Rota não encontrada")
	}

	journey.ID = uuid.NewString()
	journey.CreatedAt = h.now()
	journey.ApplyRouteDefaults(route)
	journey.UpdateDelays()
	journey.UpdateStatus()

	if err := h.Store.CreateJourney(c.UserContext(), journey); err != nil {
		return sendStoreError(c, err, "Percurso não encontrado")
	}

	h.journeyChanged(c, ctdf.EventTypeJourneyCreated, journey)

	c.SendStatus(fiber.StatusCreated)
	return c.JSON(journey)
}

// updateJourney merges the fields present in the body and recomputes the delays
// against the journey's own scheduled times
func (h *Handlers) updateJourney(c *fiber.Ctx) error {
	journey, err := h.Store.GetJourney(c.UserContext(), c.Params("id"))
	if err != nil {
		return sendStoreError(c, err, "Percurso não encontrado")
	}

	var input journeyInput
	if err := copier.Copy(&input, journey); err != nil {
		return sendError(c, fiber.StatusInternalServerError, err.Error())
	}
	if err := json.Unmarshal(c.Body(), &input); err != nil {
		return sendError(c, fiber.StatusBadRequest, "JSON inválido")
	}
	if err := copier.Copy(journey, &input); err != nil {
		return sendError(c, fiber.StatusInternalServerError, err.Error())
	}

	if message, ok := h.validateJourney(journey); !ok {
		return sendError(c, fiber.StatusBadRequest, message)
	}

	if route, err := h.Store.GetRoute(c.UserContext(), journey.RouteID); err == nil {
		journey.RouteName = route.Name
	}

	updatedAt := h.now()
	journey.UpdatedAt = &updatedAt
	journey.UpdateDelays()
	journey.UpdateStatus()

	if err := h.Store.UpdateJourney(c.UserContext(), journey); err != nil {
		return sendStoreError(c, err, "Percurso não encontrado")
	}

	h.journeyChanged(c, ctdf.EventTypeJourneyUpdated, journey)

	return c.JSON(journey)
}

func (h *Handlers) deleteJourney(c *fiber.Ctx) error {
	journey, err := h.Store.DeleteJourney(c.UserContext(), c.Params("id"))
	if err != nil {
		return sendStoreError(c, err, "Percurso não encontrado")
	}

	h.journeyChanged(c, ctdf.EventTypeJourneyDeleted, journey)

	return c.JSON(fiber.Map{
		"mensagem": "Percurso removido com sucesso",
		"percurso": journey,
	})
}

func (h *Handlers) journeyChanged(c *fiber.Ctx, eventType ctdf.EventType, journey *ctdf.Journey) {
	h.Cache.Invalidate(c.UserContext())
	h.Publisher.Publish(eventType, journey)

	log.Debug().Str("type", string(eventType)).Str("journey", journey.ID).Msg("Journey changed")
}

func (h *Handlers) validateJourney(journey *ctdf.Journey) (string, bool) {
	if err := h.Validator.Struct(journey); err != nil {
		return validationMessage(err), false
	}
	if journey.AbsenceReason != "" && !journey.AbsenceReason.Valid() {
		return "Motivo de ausência inválido", false
	}

	return "", true
}
