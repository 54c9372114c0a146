package api

import (
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"net/url"
	"strings"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/gofiber/fiber/v2"
	"github.com/maxtour/maxtour/pkg/api/routes"
	"github.com/maxtour/maxtour/pkg/ctdf"
	"github.com/maxtour/maxtour/pkg/database"
	"github.com/maxtour/maxtour/pkg/report"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const canaaRoute = `{
	"id": "CANAA",
	"nome": "CANAÃ",
	"horarios": {
		"primeiro_turno": [
			{"chegada_martins": "06:55", "chegada_minima": "06:25", "chegada_maxima": "07:00"},
			{"saida_martins": "13:40", "chegada_minima": "13:30", "chegada_maxima": "13:40"}
		],
		"segundo_turno": [
			{"saida_martins": "23:00", "chegada_minima": "23:10", "chegada_maxima": "23:40"}
		]
	}
}`

var testNow = time.Date(2024, 3, 6, 10, 0, 0, 0, time.UTC)

func newTestApp(t *testing.T, cache *report.Cache) (*fiber.App, database.Store) {
	store := database.NewMemoryStore()

	handlers := &routes.Handlers{
		Store:     store,
		Cache:     cache,
		Validator: ctdf.NewValidator(),
		Now:       func() time.Time { return testNow },
	}

	return NewApp(handlers, nil), store
}

func doRequest(t *testing.T, app *fiber.App, method string, target string, body string) (int, []byte, http.Header) {
	var reader io.Reader
	if body != "" {
		reader = strings.NewReader(body)
	}

	req := httptest.NewRequest(method, target, reader)
	if body != "" {
		req.Header.Set("Content-Type", "application/json")
	}

	resp, err := app.Test(req, -1)
	require.NoError(t, err)
	defer resp.Body.Close()

	responseBody, err := io.ReadAll(resp.Body)
	require.NoError(t, err)

	return resp.StatusCode, responseBody, resp.Header
}

func decode[T any](t *testing.T, body []byte) T {
	var value T
	require.NoError(t, json.Unmarshal(body, &value), string(body))
	return value
}

func createCanaa(t *testing.T, app *fiber.App) {
	status, body, _ := doRequest(t, app, http.MethodPost, "/api/config/rotas", canaaRoute)
	require.Equal(t, http.StatusCreated, status, string(body))
}

func TestVersionAndHealth(t *testing.T) {
	app, _ := newTestApp(t, nil)

	status, body, _ := doRequest(t, app, http.MethodGet, "/version", "")
	assert.Equal(t, http.StatusOK, status)
	assert.Equal(t, routes.Version, decode[map[string]string](t, body)["version"])

	status, _, _ = doRequest(t, app, http.MethodGet, "/health", "")
	assert.Equal(t, http.StatusOK, status)

	status, body, _ = doRequest(t, app, http.MethodGet, "/api/nada", "")
	assert.Equal(t, http.StatusNotFound, status)
	assert.Contains(t, decode[map[string]string](t, body), "erro")
}

func TestRoutesConfig(t *testing.T) {
	app, _ := newTestApp(t, nil)

	status, body, _ := doRequest(t, app, http.MethodPost, "/api/config/rotas", canaaRoute)
	require.Equal(t, http.StatusCreated, status, string(body))
	created := decode[ctdf.Route](t, body)
	assert.True(t, created.Active)

	status, _, _ = doRequest(t, app, http.MethodPost, "/api/config/rotas", canaaRoute)
	assert.Equal(t, http.StatusBadRequest, status)

	status, body, _ = doRequest(t, app, http.MethodPost, "/api/config/rotas", `{"id": "PEQUIS", "horarios": {}}`)
	assert.Equal(t, http.StatusBadRequest, status)
	assert.Equal(t, "Campo obrigatório: nome", decode[map[string]string](t, body)["erro"])

	status, body, _ = doRequest(t, app, http.MethodPost, "/api/config/rotas", `{"id": "PEQUIS", "nome": "PEQUIS"}`)
	assert.Equal(t, http.StatusBadRequest, status)
	assert.Equal(t, "Campo obrigatório: horarios", decode[map[string]string](t, body)["erro"])

	status, body, _ = doRequest(t, app, http.MethodPut, "/api/config/rotas/CANAA", `{"ativa": false}`)
	require.Equal(t, http.StatusOK, status, string(body))
	updated := decode[ctdf.Route](t, body)
	assert.False(t, updated.Active)
	assert.Equal(t, "CANAÃ", updated.Name)
	assert.Len(t, updated.Schedule[ctdf.ShiftTagFirst], 2)

	status, body, _ = doRequest(t, app, http.MethodGet, "/api/config/rotas/validate", "")
	require.Equal(t, http.StatusOK, status)
	validation := decode[map[string]interface{}](t, body)
	assert.Equal(t, true, validation["valida"])

	status, body, _ = doRequest(t, app, http.MethodGet, "/api/config/rotas", "")
	require.Equal(t, http.StatusOK, status)
	assert.Len(t, decode[[]ctdf.Route](t, body), 1)

	status, _, _ = doRequest(t, app, http.MethodDelete, "/api/config/rotas/CANAA", "")
	assert.Equal(t, http.StatusOK, status)

	status, body, _ = doRequest(t, app, http.MethodDelete, "/api/config/rotas/CANAA", "")
	assert.Equal(t, http.StatusNotFound, status)
	assert.Equal(t, "Rota não encontrada", decode[map[string]string](t, body)["erro"])
}

func TestCreateJourney(t *testing.T) {
	app, _ := newTestApp(t, nil)
	createCanaa(t, app)

	status, body, _ := doRequest(t, app, http.MethodPost, "/api/percursos", `{"data": "2024-03-05", "turno": "primeiro_turno"}`)
	assert.Equal(t, http.StatusBadRequest, status)
	assert.Equal(t, "Campo obrigatório: rota_id", decode[map[string]string](t, body)["erro"])

	status, body, _ = doRequest(t, app, http.MethodPost, "/api/percursos", `{"rota_id": "SUMIDA", "data": "2024-03-05", "turno": "primeiro_turno"}`)
	assert.Equal(t, http.StatusBadRequest, status)
	assert.Equal(t, "Rota não encontrada", decode[map[string]string](t, body)["erro"])

	status, _, _ = doRequest(t, app, http.MethodPost, "/api/percursos", `{"rota_id": "CANAA", "data": "2024-03-05", "turno": "terceiro_turno"}`)
	assert.Equal(t, http.StatusBadRequest, status)

	status, body, _ = doRequest(t, app, http.MethodPost, "/api/percursos", `{
		"rota_id": "CANAA",
		"data": "2024-03-05",
		"turno": "primeiro_turno",
		"horario_saida_real": "07:04",
		"horario_chegada_real": "07:06",
		"status": "ausente",
		"id": "escolhido"
	}`)
	require.Equal(t, http.StatusCreated, status, string(body))

	journey := decode[ctdf.Journey](t, body)
	assert.NotEqual(t, "escolhido", journey.ID)
	assert.Len(t, journey.ID, 36)
	assert.Equal(t, "CANAÃ", journey.RouteName)
	assert.Equal(t, "06:55", journey.ScheduledDeparture)
	assert.Equal(t, "07:00", journey.ScheduledArrival)
	assert.Equal(t, 9, *journey.DepartureDelay)
	assert.Equal(t, 6, *journey.ArrivalDelay)
	assert.Equal(t, ctdf.JourneyStatusCompleted, journey.Status)
	assert.True(t, testNow.Equal(journey.CreatedAt))
}

func TestCreateAbsentJourney(t *testing.T) {
	app, _ := newTestApp(t, nil)
	createCanaa(t, app)

	status, _, _ := doRequest(t, app, http.MethodPost, "/api/percursos", `{"rota_id": "CANAA", "data": "2024-03-05", "turno": "segundo_turno", "nao_houve_rota": true}`)
	assert.Equal(t, http.StatusBadRequest, status)

	status, body, _ := doRequest(t, app, http.MethodPost, "/api/percursos", `{
		"rota_id": "CANAA",
		"data": "2024-03-05",
		"turno": "segundo_turno",
		"nao_houve_rota": true,
		"motivo_ausencia": "feriado",
		"observacoes": "Carnaval"
	}`)
	require.Equal(t, http.StatusCreated, status, string(body))

	journey := decode[ctdf.Journey](t, body)
	assert.Equal(t, ctdf.JourneyStatusAbsent, journey.Status)
	assert.True(t, strings.HasPrefix(journey.Notes, "AUSÊNCIA DE ROTA: "))
	assert.True(t, strings.HasSuffix(journey.Notes, "\nCarnaval"))
}

func TestUpdateAndDeleteJourney(t *testing.T) {
	app, _ := newTestApp(t, nil)
	createCanaa(t, app)

	_, body, _ := doRequest(t, app, http.MethodPost, "/api/percursos", `{
		"rota_id": "CANAA",
		"data": "2024-03-05",
		"turno": "segundo_turno",
		"horario_saida_programado": "23:00",
		"horario_chegada_programado": "23:40"
	}`)
	created := decode[ctdf.Journey](t, body)
	assert.Equal(t, ctdf.JourneyStatusScheduled, created.Status)
	assert.Nil(t, created.DepartureDelay)

	status, body, _ := doRequest(t, app, http.MethodPut, "/api/percursos/"+created.ID, `{"horario_saida_real": "00:05", "observacoes": "Chuva"}`)
	require.Equal(t, http.StatusOK, status, string(body))

	updated := decode[ctdf.Journey](t, body)
	assert.Equal(t, created.ID, updated.ID)
	assert.Equal(t, "23:00", updated.ScheduledDeparture)
	assert.Equal(t, 65, *updated.DepartureDelay)
	assert.Equal(t, "Chuva", updated.Notes)
	assert.Equal(t, ctdf.JourneyStatusCompleted, updated.Status)
	require.NotNil(t, updated.UpdatedAt)

	status, body, _ = doRequest(t, app, http.MethodGet, "/api/percursos/"+created.ID, "")
	require.Equal(t, http.StatusOK, status)
	assert.Equal(t, "Chuva", decode[ctdf.Journey](t, body).Notes)

	status, _, _ = doRequest(t, app, http.MethodPut, "/api/percursos/nenhum", `{}`)
	assert.Equal(t, http.StatusNotFound, status)

	status, _, _ = doRequest(t, app, http.MethodDelete, "/api/percursos/"+created.ID, "")
	assert.Equal(t, http.StatusOK, status)

	status, body, _ = doRequest(t, app, http.MethodGet, "/api/percursos/"+created.ID, "")
	assert.Equal(t, http.StatusNotFound, status)
	assert.Equal(t, "Percurso não encontrado", decode[map[string]string](t, body)["erro"])
}

func TestListJourneysFilters(t *testing.T) {
	app, _ := newTestApp(t, nil)
	createCanaa(t, app)

	for _, date := range []string{"2024-03-01", "2024-03-05", "2024-03-08", "2024-03-09"} {
		status, body, _ := doRequest(t, app, http.MethodPost, "/api/percursos", `{"rota_id": "CANAA", "data": "`+date+`", "turno": "primeiro_turno"}`)
		require.Equal(t, http.StatusCreated, status, string(body))
	}

	_, body, _ := doRequest(t, app, http.MethodGet, "/api/percursos?data_inicio=2024-03-05&data_fim=2024-03-08", "")
	assert.Len(t, decode[[]ctdf.Journey](t, body), 2)

	_, body, _ = doRequest(t, app, http.MethodGet, "/api/percursos?data_inicio=2024-03-02&periodo=P7D", "")
	assert.Len(t, decode[[]ctdf.Journey](t, body), 2)

	_, body, _ = doRequest(t, app, http.MethodGet, "/api/percursos?turno=segundo_turno", "")
	assert.Empty(t, decode[[]ctdf.Journey](t, body))

	status, _, _ := doRequest(t, app, http.MethodGet, "/api/percursos?periodo=P1W", "")
	assert.Equal(t, http.StatusBadRequest, status)

	status, _, _ = doRequest(t, app, http.MethodGet, "/api/percursos?data_inicio=2024-03-02&periodo=semana", "")
	assert.Equal(t, http.StatusBadRequest, status)
}

func TestDelayReportCache(t *testing.T) {
	server := miniredis.RunT(t)
	cache := report.NewCache(redis.NewClient(&redis.Options{Addr: server.Addr()}), time.Minute)

	app, _ := newTestApp(t, cache)
	createCanaa(t, app)

	doRequest(t, app, http.MethodPost, "/api/percursos", `{"rota_id": "CANAA", "data": "2024-03-05", "turno": "primeiro_turno", "horario_chegada_real": "07:03"}`)

	status, body, headers := doRequest(t, app, http.MethodGet, "/api/relatorio/atrasos", "")
	require.Equal(t, http.StatusOK, status)
	assert.Equal(t, "MISS", headers.Get("X-Cache"))
	assert.Equal(t, 1, decode[report.DelayReport](t, body).Summary.TotalJourneys)

	_, _, headers = doRequest(t, app, http.MethodGet, "/api/relatorio/atrasos", "")
	assert.Equal(t, "HIT", headers.Get("X-Cache"))

	doRequest(t, app, http.MethodPost, "/api/percursos", `{"rota_id": "CANAA", "data": "2024-03-06", "turno": "primeiro_turno"}`)

	_, body, headers = doRequest(t, app, http.MethodGet, "/api/relatorio/atrasos", "")
	assert.Equal(t, "MISS", headers.Get("X-Cache"))
	delayReport := decode[report.DelayReport](t, body)
	assert.Equal(t, 2, delayReport.Summary.TotalJourneys)
	assert.Equal(t, 3, delayReport.Summary.MaxArrivalDelay)

	_, body, _ = doRequest(t, app, http.MethodGet, "/api/relatorio/atrasos?data_inicio=2024-03-06", "")
	assert.Equal(t, 1, decode[report.DelayReport](t, body).Summary.TotalJourneys)

	status, body, _ = doRequest(t, app, http.MethodGet, "/api/relatorio", "")
	require.Equal(t, http.StatusOK, status)
	overview := decode[report.Overview](t, body)
	assert.Equal(t, 1, overview.Summary.ActiveRoutes)
	assert.Equal(t, 2, overview.Summary.RecordedJourneys)
}

func TestExportDelays(t *testing.T) {
	app, _ := newTestApp(t, nil)
	createCanaa(t, app)

	doRequest(t, app, http.MethodPost, "/api/percursos", `{"rota_id": "CANAA", "data": "2024-03-05", "turno": "primeiro_turno", "horario_saida_programado": "13:40", "horario_saida_real": "13:45"}`)

	status, body, headers := doRequest(t, app, http.MethodGet, "/api/relatorio/atrasos/export", "")
	require.Equal(t, http.StatusOK, status)
	assert.Contains(t, headers.Get("Content-Disposition"), "relatorio_atrasos_2024-03-06.csv")

	lines := strings.Split(strings.TrimSpace(string(body)), "\n")
	require.Len(t, lines, 2)
	assert.Equal(t, "Date,Route,Shift,Movement Type,Scheduled Time,Actual Time,Tolerance Min,Tolerance Max,Delay (minutes),Notes", lines[0])
	assert.Equal(t, "2024-03-05,CANAÃ,1º Turno,Saída,13:40,13:45,13:30,13:40,5,", lines[1])
}

func TestDashboardEndpoints(t *testing.T) {
	app, _ := newTestApp(t, nil)
	createCanaa(t, app)

	doRequest(t, app, http.MethodPost, "/api/percursos", `{"rota_id": "CANAA", "data": "2024-03-05", "turno": "primeiro_turno", "horario_saida_real": "06:56", "horario_chegada_real": "07:10"}`)
	doRequest(t, app, http.MethodPost, "/api/percursos", `{"rota_id": "CANAA", "data": "2024-03-05", "turno": "segundo_turno", "horario_saida_real": "23:00", "horario_chegada_real": "23:10"}`)

	status, body, _ := doRequest(t, app, http.MethodGet, "/api/dashboard?data=2024-03-05", "")
	require.Equal(t, http.StatusOK, status, string(body))
	snapshot := decode[map[string]json.RawMessage](t, body)
	assert.Contains(t, snapshot, "kpis")
	assert.Contains(t, snapshot, "periodos")
	assert.Contains(t, snapshot, "status_rotas")

	status, _, _ = doRequest(t, app, http.MethodGet, "/api/dashboard?politica=qualquer", "")
	assert.Equal(t, http.StatusBadRequest, status)

	status, body, _ = doRequest(t, app, http.MethodGet, "/api/dashboard/pontualidade?filtro="+url.QueryEscape(`Shift == "primeiro_turno"`), "")
	require.Equal(t, http.StatusOK, status, string(body))
	summary := decode[map[string]int](t, body)
	assert.Equal(t, 1, summary["total"])
	assert.Equal(t, 1, summary["atrasos"])
	assert.Equal(t, 0, summary["pontualidade"])

	status, _, _ = doRequest(t, app, http.MethodGet, "/api/dashboard/pontualidade?filtro="+url.QueryEscape(`Shift ==`), "")
	assert.Equal(t, http.StatusBadRequest, status)

	status, body, _ = doRequest(t, app, http.MethodGet, "/api/dashboard/grafico?tipo=chegada&turno=primeiro_turno", "")
	require.Equal(t, http.StatusOK, status)
	assert.Equal(t, "chegada", decode[map[string]interface{}](t, body)["tipo"])

	status, _, _ = doRequest(t, app, http.MethodGet, "/api/dashboard/grafico?tipo=voo", "")
	assert.Equal(t, http.StatusBadRequest, status)

	status, body, _ = doRequest(t, app, http.MethodGet, "/api/dashboard/turnos", "")
	require.Equal(t, http.StatusOK, status)
	assert.Contains(t, decode[map[string]json.RawMessage](t, body), "insights")

	status, body, _ = doRequest(t, app, http.MethodGet, "/api/dashboard/jornadas?data=2024-03-05", "")
	require.Equal(t, http.StatusOK, status)
	assert.Len(t, decode[[]map[string]interface{}](t, body), 2)

	status, body, _ = doRequest(t, app, http.MethodGet, "/api/dashboard/status", "")
	require.Equal(t, http.StatusOK, status)
	assert.Len(t, decode[[]map[string]interface{}](t, body), 1)
}
