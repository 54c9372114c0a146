package dashboard

import (
	"context"
	"sync"
	"sync/atomic"
	"time"

	"github.com/maxtour/maxtour/pkg/ctdf"
	"github.com/maxtour/maxtour/pkg/punctuality"
	"github.com/maxtour/maxtour/pkg/report"
	"github.com/maxtour/maxtour/pkg/util"
	"github.com/rs/zerolog/log"
	"github.com/sourcegraph/conc/pool"
)

// Controller owns the dashboard state and refreshes it from a source.
// Refreshes may overlap, the result of an older refresh never replaces a newer one.
type Controller struct {
	Source Source
	Policy punctuality.LatenessPolicy

	issued atomic.Uint64

	mutex   sync.RWMutex
	state   State
	applied uint64
}

func NewController(source Source) *Controller {
	return &Controller{
		Source: source,
		Policy: punctuality.MaxDepartureArrival,
	}
}

// Refresh loads the three collections concurrently and applies them as one.
// A failed fetch is logged and replaced by an empty collection. It reports
// whether the result was applied or discarded as stale.
func (c *Controller) Refresh(ctx context.Context) (State, bool) {
	generation := c.issued.Add(1)

	var routes []*ctdf.Route
	var journeys []*ctdf.Journey
	var delayReport *report.DelayReport

	fetches := pool.New()

	fetches.Go(func() {
		result, err := c.Source.Routes(ctx)
		if err != nil {
			log.Error().Err(err).Msg("Failed to load routes")
			result = []*ctdf.Route{}
		}
		routes = result
	})
	fetches.Go(func() {
		result, err := c.Source.Journeys(ctx)
		if err != nil {
			log.Error().Err(err).Msg("Failed to load journeys")
			result = []*ctdf.Journey{}
		}
		journeys = result
	})
	fetches.Go(func() {
		result, err := c.Source.DelayReport(ctx)
		if err != nil {
			log.Error().Err(err).Msg("Failed to load delay report")
		}
		delayReport = result
	})

	fetches.Wait()

	loaded := State{
		Routes:      routes,
		Journeys:    journeys,
		DelayReport: delayReport,
		LoadedAt:    time.Now(),
	}

	c.mutex.Lock()
	defer c.mutex.Unlock()

	if generation < c.applied {
		log.Debug().Uint64("generation", generation).Uint64("applied", c.applied).Msg("Discarding stale dashboard refresh")
		return c.state, false
	}

	c.state = loaded
	c.applied = generation

	log.Info().
		Int("routes", len(routes)).
		Int("journeys", len(journeys)).
		Msg("Dashboard refreshed")

	return loaded, true
}

func (c *Controller) State() State {
	c.mutex.RLock()
	defer c.mutex.RUnlock()

	return c.state
}

// Snapshot computes the dashboard for date, today when empty
func (c *Controller) Snapshot(date string) *Snapshot {
	if date == "" {
		date = util.Today()
	}

	return BuildSnapshot(c.State(), date, c.Policy)
}
