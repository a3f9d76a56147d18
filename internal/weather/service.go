package weather

import (
	"context"
	"strings"

	"go.uber.org/zap"
)

// DefaultForecastDays is the number of calendar days returned by Service.Forecast.
const DefaultForecastDays = 5

// Service is the fail-soft front of a Provider: every failure is logged and
// reported to callers as "unavailable" (nil), without distinguishing causes.
type Service struct {
	provider     Provider
	forecastDays int
	log          *zap.Logger
}

// NewService creates a new Service. forecastDays <= 0 falls back to DefaultForecastDays.
func NewService(provider Provider, forecastDays int, log *zap.Logger) *Service {
	if forecastDays <= 0 {
		forecastDays = DefaultForecastDays
	}
	if log == nil {
		log = zap.NewNop()
	}
	return &Service{
		provider:     provider,
		forecastDays: forecastDays,
		log:          log.Named("weather"),
	}
}

// Current returns the current conditions for city, or nil when unavailable.
func (s *Service) Current(ctx context.Context, city string) *Snapshot {
	city = strings.TrimSpace(city)
	if city == "" || s.provider == nil {
		return nil
	}

	snap, err := s.provider.Current(ctx, city)
	if err != nil {
		s.log.Warn("current weather unavailable",
			zap.String("provider", s.provider.Name()),
			zap.String("city", city),
			zap.Error(err))
		return nil
	}
	return &snap
}

// Forecast returns at most one entry per calendar day for city, or nil when unavailable.
func (s *Service) Forecast(ctx context.Context, city string) []ForecastDay {
	city = strings.TrimSpace(city)
	if city == "" || s.provider == nil {
		return nil
	}

	entries, err := s.provider.Forecast(ctx, city)
	if err != nil {
		s.log.Warn("forecast unavailable",
			zap.String("provider", s.provider.Name()),
			zap.String("city", city),
			zap.Error(err))
		return nil
	}
	return DailyForecast(entries, s.forecastDays)
}

// Search returns city suggestions for query; failures yield an empty list.
func (s *Service) Search(ctx context.Context, query string) []CityMatch {
	query = strings.TrimSpace(query)
	if query == "" || s.provider == nil {
		return []CityMatch{}
	}

	matches, err := s.provider.Search(ctx, query)
	if err != nil {
		s.log.Warn("city search failed",
			zap.String("provider", s.provider.Name()),
			zap.String("query", query),
			zap.Error(err))
		return []CityMatch{}
	}
	if matches == nil {
		matches = []CityMatch{}
	}
	return matches
}
