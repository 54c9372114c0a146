package stats

import (
	"context"
	"sync"
	"time"

	"github.com/maxtour/maxtour/pkg/ctdf"
	"github.com/maxtour/maxtour/pkg/database"
	"github.com/rs/zerolog/log"
)

type RecordsStats struct {
	Routes       int `json:"rotas"`
	ActiveRoutes int `json:"rotas_ativas"`

	Journeys          int `json:"percursos"`
	ScheduledJourneys int `json:"percursos_programados"`
	CompletedJourneys int `json:"percursos_concluidos"`
	AbsentJourneys    int `json:"percursos_ausentes"`

	UpdatedAt time.Time `json:"atualizado_em"`
}

// Collector keeps the record counts of a store up to date
type Collector struct {
	Store database.Store

	mutex   sync.RWMutex
	current RecordsStats
}

func (c *Collector) Current() RecordsStats {
	c.mutex.RLock()
	defer c.mutex.RUnlock()

	return c.current
}

func (c *Collector) Update(ctx context.Context) error {
	routes, err := c.Store.ListRoutes(ctx)
	if err != nil {
		return err
	}
	journeys, err := c.Store.ListJourneys(ctx, ctdf.JourneyQuery{})
	if err != nil {
		return err
	}

	recordsStats := RecordsStats{
		Routes:    len(routes),
		Journeys:  len(journeys),
		UpdatedAt: time.Now(),
	}

	for _, route := range routes {
		if route.Active {
			recordsStats.ActiveRoutes++
		}
	}

	for _, journey := range journeys {
		switch journey.Status {
		case ctdf.JourneyStatusAbsent:
			recordsStats.AbsentJourneys++
		case ctdf.JourneyStatusCompleted:
			recordsStats.CompletedJourneys++
		default:
			recordsStats.ScheduledJourneys++
		}
	}

	c.mutex.Lock()
	c.current = recordsStats
	c.mutex.Unlock()

	return nil
}

// Run updates the counts every interval until ctx is done
func (c *Collector) Run(ctx context.Context, interval time.Duration) {
	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	for {
		if err := c.Update(ctx); err != nil {
			log.Error().Err(err).Msg("Failed to update records stats")
		}

		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
		}
	}
}
