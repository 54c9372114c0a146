package routes

import (
	"bytes"
	"encoding/json"
	"fmt"

	"github.com/gofiber/fiber/v2"
	"github.com/maxtour/maxtour/pkg/ctdf"
	"github.com/maxtour/maxtour/pkg/report"
)

func (h *Handlers) ReportsRouter(router fiber.Router) {
	router.Get("/", h.getOverview)
	router.Get("/atrasos", h.getDelayReport)
	router.Get("/atrasos/export", h.exportDelays)
}

// sendCached answers from the report cache or builds, caches and sends the report
func (h *Handlers) sendCached(c *fiber.Ctx, build func() (interface{}, error), kind string, parts ...string) error {
	if body, hit := h.Cache.Get(c.UserContext(), kind, parts...); hit {
		c.Set(fiber.HeaderContentType, fiber.MIMEApplicationJSONCharsetUTF8)
		c.Set("X-Cache", "HIT")
		return c.SendString(body)
	}

	result, err := build()
	if err != nil {
		return sendStoreError(c, err, "Relatório não encontrado")
	}

	body, err := json.Marshal(result)
	if err != nil {
		return sendError(c, fiber.StatusInternalServerError, err.Error())
	}

	h.Cache.Set(c.UserContext(), string(body), kind, parts...)

	c.Set(fiber.HeaderContentType, fiber.MIMEApplicationJSONCharsetUTF8)
	c.Set("X-Cache", "MISS")
	return c.Send(body)
}

func (h *Handlers) getOverview(c *fiber.Ctx) error {
	return h.sendCached(c, func() (interface{}, error) {
		routes, err := h.Store.ListRoutes(c.UserContext())
		if err != nil {
			return nil, err
		}
		journeys, err := h.Store.ListJourneys(c.UserContext(), ctdf.JourneyQuery{})
		if err != nil {
			return nil, err
		}

		return report.BuildOverview(journeys, routes, h.now()), nil
	}, "relatorio")
}

func delayReportQuery(c *fiber.Ctx) ctdf.JourneyQuery {
	return ctdf.JourneyQuery{
		RouteID:  c.Query("rota"),
		DateFrom: c.Query("data_inicio"),
		DateTo:   c.Query("data_fim"),
	}
}

func (h *Handlers) loadDelayData(c *fiber.Ctx, query ctdf.JourneyQuery) ([]*ctdf.Journey, []*ctdf.Route, error) {
	routes, err := h.Store.ListRoutes(c.UserContext())
	if err != nil {
		return nil, nil, err
	}
	journeys, err := h.Store.ListJourneys(c.UserContext(), query)
	if err != nil {
		return nil, nil, err
	}

	return journeys, routes, nil
}

func (h *Handlers) getDelayReport(c *fiber.Ctx) error {
	query := delayReportQuery(c)

	return h.sendCached(c, func() (interface{}, error) {
		journeys, routes, err := h.loadDelayData(c, query)
		if err != nil {
			return nil, err
		}

		return report.BuildDelayReport(journeys, routes, h.now()), nil
	}, "atrasos", query.RouteID, query.DateFrom, query.DateTo)
}

func (h *Handlers) exportDelays(c *fiber.Ctx) error {
	journeys, routes, err := h.loadDelayData(c, delayReportQuery(c))
	if err != nil {
		return sendStoreError(c, err, "Relatório não encontrado")
	}

	var buffer bytes.Buffer
	if err := report.WriteCSV(&buffer, report.BuildExportRows(journeys, routes)); err != nil {
		return sendError(c, fiber.StatusInternalServerError, err.Error())
	}

	filename := fmt.Sprintf("relatorio_atrasos_%s.csv", h.now().Format("2006-01-02"))

	c.Set(fiber.HeaderContentType, "text/csv; charset=utf-8")
	c.Set(fiber.HeaderContentDisposition, fmt.Sprintf(`attachment; filename="%s"`, filename))
	return c.Send(buffer.Bytes())
}
