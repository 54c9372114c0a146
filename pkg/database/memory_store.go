package database

import (
	"context"
	"sort"
	"sync"

	"github.com/maxtour/maxtour/pkg/ctdf"
)

// MemoryStore keeps everything in process. Records are copied on the way in
// and out so callers never share state with the store.
type MemoryStore struct {
	mutex sync.RWMutex

	routes   map[string]*ctdf.Route
	journeys map[string]*ctdf.Journey

	// insertion sequence, breaks ties between journeys created in the same instant
	sequence   int
	journeySeq map[string]int
}

func NewMemoryStore() *MemoryStore {
	return &MemoryStore{
		routes:     map[string]*ctdf.Route{},
		journeys:   map[string]*ctdf.Journey{},
		journeySeq: map[string]int{},
	}
}

func (s *MemoryStore) ListRoutes(_ context.Context) ([]*ctdf.Route, error) {
	s.mutex.RLock()
	defer s.mutex.RUnlock()

	routes := make([]*ctdf.Route, 0, len(s.routes))
	for _, route := range s.routes {
		routes = append(routes, route.Copy())
	}

	sort.Slice(routes, func(i, j int) bool {
		return routes[i].ID < routes[j].ID
	})

	return routes, nil
}

func (s *MemoryStore) GetRoute(_ context.Context, id string) (*ctdf.Route, error) {
	s.mutex.RLock()
	defer s.mutex.RUnlock()

	route, exists := s.routes[id]
	if !exists {
		return nil, ErrNotFound
	}

	return route.Copy(), nil
}

func (s *MemoryStore) CreateRoute(_ context.Context, route *ctdf.Route) error {
	s.mutex.Lock()
	defer s.mutex.Unlock()

	if _, exists := s.routes[route.ID]; exists {
		return ErrAlreadyExists
	}
	s.routes[route.ID] = route.Copy()

	return nil
}

func (s *MemoryStore) UpdateRoute(_ context.Context, route *ctdf.Route) error {
	s.mutex.Lock()
	defer s.mutex.Unlock()

	if _, exists := s.routes[route.ID]; !exists {
		return ErrNotFound
	}
	s.routes[route.ID] = route.Copy()

	return nil
}

func (s *MemoryStore) DeleteRoute(_ context.Context, id string) (*ctdf.Route, error) {
	s.mutex.Lock()
	defer s.mutex.Unlock()

	route, exists := s.routes[id]
	if !exists {
		return nil, ErrNotFound
	}
	delete(s.routes, id)

	return route, nil
}

func (s *MemoryStore) ListJourneys(_ context.Context, query ctdf.JourneyQuery) ([]*ctdf.Journey, error) {
	s.mutex.RLock()
	defer s.mutex.RUnlock()

	journeys := []*ctdf.Journey{}
	for _, journey := range s.journeys {
		if query.Matches(journey) {
			journeys = append(journeys, journey.Copy())
		}
	}

	sort.Slice(journeys, func(i, j int) bool {
		if !journeys[i].CreatedAt.Equal(journeys[j].CreatedAt) {
			return journeys[i].CreatedAt.After(journeys[j].CreatedAt)
		}
		return s.journeySeq[journeys[i].ID] > s.journeySeq[journeys[j].ID]
	})

	return journeys, nil
}

func (s *MemoryStore) GetJourney(_ context.Context, id string) (*ctdf.Journey, error) {
	s.mutex.RLock()
	defer s.mutex.RUnlock()

	journey, exists := s.journeys[id]
	if !exists {
		return nil, ErrNotFound
	}

	return journey.Copy(), nil
}

func (s *MemoryStore) CreateJourney(_ context.Context, journey *ctdf.Journey) error {
	s.mutex.Lock()
	defer s.mutex.Unlock()

	if _, exists := s.journeys[journey.ID]; exists {
		return ErrAlreadyExists
	}

	s.sequence++
	s.journeySeq[journey.ID] = s.sequence
	s.journeys[journey.ID] = journey.Copy()

	return nil
}

func (s *MemoryStore) UpdateJourney(_ context.Context, journey *ctdf.Journey) error {
	s.mutex.Lock()
	defer s.mutex.Unlock()

	if _, exists := s.journeys[journey.ID]; !exists {
		return ErrNotFound
	}
	s.journeys[journey.ID] = journey.Copy()

	return nil
}

func (s *MemoryStore) DeleteJourney(_ context.Context, id string) (*ctdf.Journey, error) {
	s.mutex.Lock()
	defer s.mutex.Unlock()

	journey, exists := s.journeys[id]
	if !exists {
		return nil, ErrNotFound
	}
	delete(s.journeys, id)
	delete(s.journeySeq, id)

	return journey, nil
}
