package dashboard

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"strings"
	"time"

	"github.com/maxtour/maxtour/pkg/ctdf"
	"github.com/maxtour/maxtour/pkg/report"
)

const defaultClientTimeout = 30 * time.Second

// Client reads the dashboard collections from a running MaxTour API
type Client struct {
	BaseURL    string
	HTTPClient *http.Client
}

func NewClient(baseURL string) *Client {
	return &Client{
		BaseURL:    strings.TrimSuffix(baseURL, "/"),
		HTTPClient: &http.Client{Timeout: defaultClientTimeout},
	}
}

func (c *Client) Routes(ctx context.Context) ([]*ctdf.Route, error) {
	var routes []*ctdf.Route
	if err := c.get(ctx, "/api/config/rotas", &routes); err != nil {
		return nil, err
	}
	return routes, nil
}

func (c *Client) Journeys(ctx context.Context) ([]*ctdf.Journey, error) {
	var journeys []*ctdf.Journey
	if err := c.get(ctx, "/api/percursos", &journeys); err != nil {
		return nil, err
	}
	return journeys, nil
}

func (c *Client) DelayReport(ctx context.Context) (*report.DelayReport, error) {
	var delayReport report.DelayReport
	if err := c.get(ctx, "/api/relatorio/atrasos", &delayReport); err != nil {
		return nil, err
	}
	return &delayReport, nil
}

type apiError struct {
	Message string `json:"erro"`
}

func (c *Client) get(ctx context.Context, path string, target interface{}) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.BaseURL+path, nil)
	if err != nil {
		return err
	}
	req.Header.Set("Accept", "application/json")

	resp, err := c.HTTPClient.Do(req)
	if err != nil {
		return fmt.Errorf("requesting %s: %w", path, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		var body apiError
		if json.NewDecoder(resp.Body).Decode(&body) == nil && body.Message != "" {
			return fmt.Errorf("requesting %s: %d %s", path, resp.StatusCode, body.Message)
		}
		return fmt.Errorf("requesting %s: unexpected status %d", path, resp.StatusCode)
	}

	if err := json.NewDecoder(resp.Body).Decode(target); err != nil {
		return fmt.Errorf("decoding %s: %w", path, err)
	}

	return nil
}
