package weather

import (
	"context"
	"errors"
)

var (
	// ErrCityNotFound is returned when the provider does not know the requested city.
	ErrCityNotFound = errors.New("city not found")
	// ErrProvider wraps provider-reported failures (bad cod, malformed payloads).
	ErrProvider = errors.New("weather provider error")
)

// Provider abstracts a weather data source (e.g. OpenWeatherMap).
// Implementations return descriptive errors; Service collapses them for callers.
type Provider interface {
	Name() string
	Current(ctx context.Context, city string) (Snapshot, error)
	// Forecast returns the raw feed ordered by time ascending.
	Forecast(ctx context.Context, city string) ([]ForecastEntry, error)
	Search(ctx context.Context, query string) ([]CityMatch, error)
}
