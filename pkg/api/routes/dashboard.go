package routes

import (
	"github.com/gofiber/fiber/v2"
	"github.com/maxtour/maxtour/pkg/ctdf"
	"github.com/maxtour/maxtour/pkg/dashboard"
	"github.com/maxtour/maxtour/pkg/punctuality"
	"github.com/maxtour/maxtour/pkg/report"
	"github.com/maxtour/maxtour/pkg/util"
)

func (h *Handlers) DashboardRouter(router fiber.Router) {
	router.Get("/", h.getDashboard)
	router.Get("/turnos", h.getPeriods)
	router.Get("/grafico", h.getChart)
	router.Get("/pontualidade", h.getPunctuality)
	router.Get("/jornadas", h.getClassifiedJourneys)
	router.Get("/status", h.getRouteStatuses)
}

func (h *Handlers) loadState(c *fiber.Ctx, query ctdf.JourneyQuery) (dashboard.State, error) {
	routes, err := h.Store.ListRoutes(c.UserContext())
	if err != nil {
		return dashboard.State{}, err
	}
	journeys, err := h.Store.ListJourneys(c.UserContext(), query)
	if err != nil {
		return dashboard.State{}, err
	}

	return dashboard.State{
		Routes:      routes,
		Journeys:    journeys,
		DelayReport: report.BuildDelayReport(journeys, routes, h.now()),
		LoadedAt:    h.now(),
	}, nil
}

func latenessPolicy(c *fiber.Ctx) (punctuality.LatenessPolicy, error) {
	value := c.Query("politica", string(punctuality.MaxDepartureArrival))

	policy, ok := punctuality.ParseLatenessPolicy(value)
	if !ok {
		return "", fiber.NewError(fiber.StatusBadRequest, "politica deve ser arrival_only ou max_departure_arrival")
	}

	return policy, nil
}

func (h *Handlers) getDashboard(c *fiber.Ctx) error {
	policy, err := latenessPolicy(c)
	if err != nil {
		return sendFiberError(c, err)
	}

	state, err := h.loadState(c, ctdf.JourneyQuery{})
	if err != nil {
		return sendStoreError(c, err, "Dados não encontrados")
	}

	date := c.Query("data", util.Today())

	return c.JSON(dashboard.BuildSnapshot(state, date, policy))
}

type periodComparison struct {
	Periods    punctuality.PeriodReport       `json:"periodos"`
	Insights   []punctuality.Insight          `json:"insights"`
	Comparison []punctuality.MetricComparison `json:"comparacao"`
}

func (h *Handlers) getPeriods(c *fiber.Ctx) error {
	policy, err := latenessPolicy(c)
	if err != nil {
		return sendFiberError(c, err)
	}

	journeys, err := h.Store.ListJourneys(c.UserContext(), delayReportQuery(c))
	if err != nil {
		return sendStoreError(c, err, "Dados não encontrados")
	}

	periods := punctuality.BuildPeriodStats(journeys, policy)

	return c.JSON(periodComparison{
		Periods:    periods,
		Insights:   punctuality.CompareShifts(periods.Morning, periods.Night),
		Comparison: punctuality.ComparisonTable(periods),
	})
}

func (h *Handlers) getChart(c *fiber.Ctx) error {
	movement := ctdf.MovementType(c.Query("tipo", string(ctdf.MovementTypeDeparture)))
	if movement != ctdf.MovementTypeDeparture && movement != ctdf.MovementTypeArrival {
		return sendError(c, fiber.StatusBadRequest, "tipo deve ser saida ou chegada")
	}

	journeys, err := h.Store.ListJourneys(c.UserContext(), ctdf.JourneyQuery{})
	if err != nil {
		return sendStoreError(c, err, "Dados não encontrados")
	}

	filtered := punctuality.FilterForChart(journeys, punctuality.FilterOptions{
		RouteID: c.Query("rota"),
		Shift:   ctdf.ShiftTag(c.Query("turno")),
		Slot:    c.Query("horario"),
	})

	return c.JSON(punctuality.ShapeChartSeries(filtered, movement))
}

// getPunctuality aggregates the journeys matching an optional filter expression,
// e.g. filtro=Shift == "primeiro_turno" && RouteID == "CANAA"
func (h *Handlers) getPunctuality(c *fiber.Ctx) error {
	predicate, err := punctuality.CompilePredicate(c.Query("filtro"))
	if err != nil {
		return sendError(c, fiber.StatusBadRequest, err.Error())
	}

	journeys, err := h.Store.ListJourneys(c.UserContext(), ctdf.JourneyQuery{})
	if err != nil {
		return sendStoreError(c, err, "Dados não encontrados")
	}

	if date := c.Query("data"); date != "" {
		predicate = punctuality.And(predicate, punctuality.OnDate(date))
	}

	return c.JSON(punctuality.Aggregate(journeys, predicate))
}

func (h *Handlers) getClassifiedJourneys(c *fiber.Ctx) error {
	state, err := h.loadState(c, ctdf.JourneyQuery{
		DateFrom: c.Query("data"),
		DateTo:   c.Query("data"),
		RouteID:  c.Query("rota"),
	})
	if err != nil {
		return sendStoreError(c, err, "Dados não encontrados")
	}

	routes := punctuality.NewRouteIndex(state.Routes)

	classified := make([]punctuality.JourneyClassification, 0, len(state.Journeys))
	for _, journey := range state.Journeys {
		classified = append(classified, punctuality.ClassifyJourney(journey, routes))
	}

	return c.JSON(classified)
}

func (h *Handlers) getRouteStatuses(c *fiber.Ctx) error {
	state, err := h.loadState(c, ctdf.JourneyQuery{})
	if err != nil {
		return sendStoreError(c, err, "Dados não encontrados")
	}

	return c.JSON(punctuality.RouteStatuses(state.Routes, state.Journeys))
}
