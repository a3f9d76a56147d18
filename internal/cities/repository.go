package cities

import (
	"context"
	"errors"
	"time"
)

var (
	// ErrNotFound is returned when no saved city has the requested id.
	ErrNotFound = errors.New("saved city not found")
	// ErrDuplicate is returned by Repository.Create when (userId, cityName) already exists.
	ErrDuplicate = errors.New("saved city already exists")
)

// Repository is the document database holding saved cities.
type Repository interface {
	// FindByName returns nil, nil when the user has no city with exactly that name.
	FindByName(ctx context.Context, userID, cityName string) (*SavedCity, error)
	// Create assigns an id and inserts city unless the user already saved that
	// name; the check and the insert are atomic.
	Create(ctx context.Context, city SavedCity) (SavedCity, error)
	Get(ctx context.Context, id string) (SavedCity, error)
	// ListByUser orders by CreatedAt descending.
	ListByUser(ctx context.Context, userID string) ([]SavedCity, error)
	CountByUser(ctx context.Context, userID string) (int, error)
	UpdateWeather(ctx context.Context, id string, data WeatherData, updatedAt time.Time) error
	Delete(ctx context.Context, id string) error
}
