package cities

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"go.uber.org/zap"

	"github.com/i474232898/angin-nusantara/internal/auth"
	"github.com/i474232898/angin-nusantara/internal/common"
	"github.com/i474232898/angin-nusantara/internal/weather"
)

var (
	ErrNotAuthenticated   = errors.New("not authenticated")
	ErrAlreadySaved       = errors.New("city already saved")
	ErrWeatherUnavailable = errors.New("weather data unavailable")
	ErrForbidden          = errors.New("city belongs to another user")
	ErrStore              = errors.New("city store unavailable")
)

var messages = map[error]string{
	ErrNotAuthenticated:   "Please log in first",
	ErrAlreadySaved:       "City is already in your saved list",
	ErrWeatherUnavailable: "Could not get weather data for this city",
	ErrForbidden:          "You do not have permission to change this city",
	ErrNotFound:           "City not found",
	ErrStore:              "Saved cities are unavailable right now. Try again later",
}

// Message returns a human-readable text for an error returned by Service.
func Message(err error) string {
	if err == nil {
		return ""
	}
	for kind, msg := range messages {
		if errors.Is(err, kind) {
			return msg
		}
	}
	return err.Error()
}

// WeatherSource fetches current conditions; nil means unavailable.
type WeatherSource interface {
	Current(ctx context.Context, city string) *weather.Snapshot
}

// IdentitySource reports the signed-in user, nil when signed out.
type IdentitySource interface {
	CurrentIdentity() *auth.Identity
}

// Service manages a user's saved cities on top of a Repository, fronted by a
// per-user ListCache that is rebuilt after every successful mutation.
type Service struct {
	repo     Repository
	weather  WeatherSource
	identity IdentitySource
	cache    *ListCache
	locks    userLocks
	now      func() time.Time
	log      *zap.Logger
}

// userLocks serializes cache writes per user. A store read and the cache
// write that follows it must not interleave with another one for the same
// user, or an older list can overwrite a newer one.
type userLocks struct {
	mu sync.Mutex
	m  map[string]*sync.Mutex
}

func (l *userLocks) lock(userID string) func() {
	l.mu.Lock()
	if l.m == nil {
		l.m = make(map[string]*sync.Mutex)
	}
	m, ok := l.m[userID]
	if !ok {
		m = &sync.Mutex{}
		l.m[userID] = m
	}
	l.mu.Unlock()

	m.Lock()
	return m.Unlock
}

// NewService creates a new Service.
func NewService(repo Repository, weather WeatherSource, identity IdentitySource, cache *ListCache, log *zap.Logger) *Service {
	if log == nil {
		log = zap.NewNop()
	}
	return &Service{
		repo:     repo,
		weather:  weather,
		identity: identity,
		cache:    cache,
		now:      time.Now,
		log:      log.Named("cities"),
	}
}

// Save adds cityName to the signed-in user's saved cities.
func (s *Service) Save(ctx context.Context, cityName string) (SavedCity, error) {
	user := s.identity.CurrentIdentity()
	if user == nil {
		return SavedCity{}, ErrNotAuthenticated
	}

	name := common.NormalizeCityName(cityName)

	existing, err := s.repo.FindByName(ctx, user.UID, name)
	if err != nil {
		// Create re-checks atomically, so a failed lookup is not fatal here.
		s.log.Warn("existence check failed", zap.String("city", name), zap.Error(err))
	} else if existing != nil {
		return SavedCity{}, ErrAlreadySaved
	}

	snap := s.weather.Current(ctx, name)
	if snap == nil {
		return SavedCity{}, ErrWeatherUnavailable
	}

	now := s.now().UTC()
	city, err := s.repo.Create(ctx, SavedCity{
		UserID:      user.UID,
		CityName:    name,
		CountryCode: snap.CountryCode,
		Weather:     WeatherDataFrom(*snap),
		CreatedAt:   now,
		LastUpdated: now,
	})
	if errors.Is(err, ErrDuplicate) {
		return SavedCity{}, ErrAlreadySaved
	}
	if err != nil {
		return SavedCity{}, fmt.Errorf("%w: create: %v", ErrStore, err)
	}

	s.rebuildCache(ctx, user.UID)

	s.log.Info("city saved", zap.String("uid", user.UID), zap.String("city", name), zap.String("id", city.ID))
	return city, nil
}

// List returns the signed-in user's saved cities, newest first.
// A non-empty cached list is returned without consulting the repository.
// Signed out, it returns an empty list together with ErrNotAuthenticated.
func (s *Service) List(ctx context.Context) (Listing, error) {
	user := s.identity.CurrentIdentity()
	if user == nil {
		return Listing{Cities: []SavedCity{}}, ErrNotAuthenticated
	}

	cached := s.loadCache(ctx, user.UID)
	if len(cached) > 0 {
		return Listing{Cities: cached, FromCache: true}, nil
	}

	unlock := s.locks.lock(user.UID)
	defer unlock()

	list, err := s.repo.ListByUser(ctx, user.UID)
	if err != nil {
		s.log.Warn("listing from store failed; serving cache", zap.String("uid", user.UID), zap.Error(err))
		return Listing{Cities: cached, FromCache: true}, nil
	}
	if list == nil {
		list = []SavedCity{}
	}

	if err := s.cache.Replace(ctx, user.UID, list); err != nil {
		s.log.Warn("populating city cache failed", zap.String("uid", user.UID), zap.Error(err))
	}
	return Listing{Cities: list}, nil
}

// Remove deletes a saved city owned by the signed-in user.
func (s *Service) Remove(ctx context.Context, cityID string) error {
	user := s.identity.CurrentIdentity()
	if user == nil {
		return ErrNotAuthenticated
	}

	city, err := s.get(ctx, cityID)
	if err != nil {
		return err
	}
	if city.UserID != user.UID {
		return ErrForbidden
	}

	if err := s.repo.Delete(ctx, cityID); err != nil {
		if errors.Is(err, ErrNotFound) {
			return ErrNotFound
		}
		return fmt.Errorf("%w: delete: %v", ErrStore, err)
	}

	s.rebuildCache(ctx, user.UID)

	s.log.Info("city removed", zap.String("uid", user.UID), zap.String("id", cityID))
	return nil
}

// RefreshWeather re-fetches the weather of a saved city and stores it.
func (s *Service) RefreshWeather(ctx context.Context, cityID string) (weather.Snapshot, error) {
	city, err := s.get(ctx, cityID)
	if err != nil {
		return weather.Snapshot{}, err
	}

	snap, err := s.refresh(ctx, city)
	if err != nil {
		return weather.Snapshot{}, err
	}

	s.rebuildCache(ctx, city.UserID)
	return snap, nil
}

// RefreshAll refreshes every saved city of the signed-in user one by one and
// rebuilds the cache once. It returns how many cities were refreshed.
func (s *Service) RefreshAll(ctx context.Context) (int, error) {
	user := s.identity.CurrentIdentity()
	if user == nil {
		return 0, ErrNotAuthenticated
	}

	list, err := s.repo.ListByUser(ctx, user.UID)
	if err != nil {
		return 0, fmt.Errorf("%w: list: %v", ErrStore, err)
	}

	refreshed := 0
	for _, city := range list {
		if ctx.Err() != nil {
			break
		}
		if _, err := s.refresh(ctx, city); err != nil {
			s.log.Warn("refresh failed", zap.String("id", city.ID), zap.String("city", city.CityName), zap.Error(err))
			continue
		}
		refreshed++
	}

	if refreshed > 0 {
		s.rebuildCache(ctx, user.UID)
	}
	return refreshed, ctx.Err()
}

// Count returns how many cities the signed-in user saved; 0 when signed out
// or when the store cannot be read.
func (s *Service) Count(ctx context.Context) int {
	user := s.identity.CurrentIdentity()
	if user == nil {
		return 0
	}

	n, err := s.repo.CountByUser(ctx, user.UID)
	if err != nil {
		s.log.Warn("counting cities failed", zap.String("uid", user.UID), zap.Error(err))
		return 0
	}
	return n
}

func (s *Service) get(ctx context.Context, cityID string) (SavedCity, error) {
	city, err := s.repo.Get(ctx, cityID)
	if errors.Is(err, ErrNotFound) {
		return SavedCity{}, ErrNotFound
	}
	if err != nil {
		return SavedCity{}, fmt.Errorf("%w: get: %v", ErrStore, err)
	}
	return city, nil
}

func (s *Service) refresh(ctx context.Context, city SavedCity) (weather.Snapshot, error) {
	snap := s.weather.Current(ctx, city.CityName)
	if snap == nil {
		return weather.Snapshot{}, ErrWeatherUnavailable
	}

	if err := s.repo.UpdateWeather(ctx, city.ID, WeatherDataFrom(*snap), s.now().UTC()); err != nil {
		if errors.Is(err, ErrNotFound) {
			return weather.Snapshot{}, ErrNotFound
		}
		return weather.Snapshot{}, fmt.Errorf("%w: update: %v", ErrStore, err)
	}
	return *snap, nil
}

func (s *Service) loadCache(ctx context.Context, userID string) []SavedCity {
	list, err := s.cache.Load(ctx, userID)
	if err != nil {
		s.log.Warn("reading city cache failed", zap.String("uid", userID), zap.Error(err))
		return []SavedCity{}
	}
	return list
}

// rebuildCache replaces the user's cached list with a fresh read of the store.
// When that fails the entry is dropped so the next List reads through.
// It runs after the mutation, so the last rebuild to take the lock sees every
// mutation that finished before it.
func (s *Service) rebuildCache(ctx context.Context, userID string) {
	unlock := s.locks.lock(userID)
	defer unlock()

	list, err := s.repo.ListByUser(ctx, userID)
	if err == nil {
		err = s.cache.Replace(ctx, userID, list)
	}
	if err == nil {
		return
	}

	s.log.Warn("rebuilding city cache failed; invalidating", zap.String("uid", userID), zap.Error(err))
	if err := s.cache.Invalidate(ctx, userID); err != nil {
		s.log.Error("invalidating city cache failed", zap.String("uid", userID), zap.Error(err))
	}
}
