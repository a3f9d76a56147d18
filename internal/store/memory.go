package store

import (
	"context"
	"sort"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/i474232898/angin-nusantara/internal/cities"
)

// MemoryStore is a concurrency-safe in-memory implementation of cities.Repository.
type MemoryStore struct {
	mu sync.RWMutex

	// key: document id
	data map[string]cities.SavedCity
}

// NewMemoryStore creates an empty MemoryStore.
func NewMemoryStore() *MemoryStore {
	return &MemoryStore{
		data: make(map[string]cities.SavedCity),
	}
}

func (s *MemoryStore) FindByName(_ context.Context, userID, cityName string) (*cities.SavedCity, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	if c, ok := s.findLocked(userID, cityName); ok {
		return &c, nil
	}
	return nil, nil
}

// Create inserts city under a fresh id. The duplicate check runs under the
// same lock as the insert.
func (s *MemoryStore) Create(_ context.Context, city cities.SavedCity) (cities.SavedCity, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, ok := s.findLocked(city.UserID, city.CityName); ok {
		return cities.SavedCity{}, cities.ErrDuplicate
	}

	city.ID = uuid.NewString()
	s.data[city.ID] = city
	return city, nil
}

func (s *MemoryStore) Get(_ context.Context, id string) (cities.SavedCity, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	c, ok := s.data[id]
	if !ok {
		return cities.SavedCity{}, cities.ErrNotFound
	}
	return c, nil
}

// ListByUser returns the user's cities by CreatedAt descending. Ties keep no particular order.
func (s *MemoryStore) ListByUser(_ context.Context, userID string) ([]cities.SavedCity, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	result := []cities.SavedCity{}
	for _, c := range s.data {
		if c.UserID == userID {
			result = append(result, c)
		}
	}

	sort.Slice(result, func(i, j int) bool {
		return result[i].CreatedAt.After(result[j].CreatedAt)
	})
	return result, nil
}

func (s *MemoryStore) CountByUser(_ context.Context, userID string) (int, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	n := 0
	for _, c := range s.data {
		if c.UserID == userID {
			n++
		}
	}
	return n, nil
}

func (s *MemoryStore) UpdateWeather(_ context.Context, id string, data cities.WeatherData, updatedAt time.Time) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	c, ok := s.data[id]
	if !ok {
		return cities.ErrNotFound
	}
	c.Weather = data
	c.LastUpdated = updatedAt
	s.data[id] = c
	return nil
}

func (s *MemoryStore) Delete(_ context.Context, id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, ok := s.data[id]; !ok {
		return cities.ErrNotFound
	}
	delete(s.data, id)
	return nil
}

func (s *MemoryStore) findLocked(userID, cityName string) (cities.SavedCity, bool) {
	for _, c := range s.data {
		if c.UserID == userID && c.CityName == cityName {
			return c, true
		}
	}
	return cities.SavedCity{}, false
}
