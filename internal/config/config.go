package config

import (
	"fmt"
	"net"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
)

// Backend names accepted by AUTH_BACKEND and STORE_BACKEND.
const (
	BackendMemory    = "memory"
	BackendFirebase  = "firebase"
	BackendFirestore = "firestore"
)

type AppConfig struct {
	// Host is the listen address. The API acts for the device's signed-in
	// user, so it binds to loopback unless told otherwise.
	Host     string
	Port     string
	LogLevel string

	// Weather provider.
	OpenWeatherAPIKey  string
	OpenWeatherBaseURL string
	WeatherLanguage    string
	ForecastCount      int
	ForecastDays       int
	HTTPTimeout        time.Duration

	// Credential gateway.
	AuthBackend    string
	FirebaseAPIKey string

	// City store.
	StoreBackend        string
	FirebaseProjectID   string
	FirebaseCredentials string // base64 service-account JSON

	// LocalCachePath is the sqlite file backing the local key-value cache.
	// ":memory:" keeps the cache in process.
	LocalCachePath string

	// AutoRefreshInterval refreshes saved cities periodically; 0 disables it.
	AutoRefreshInterval time.Duration
}

// LoadDotEnv loads a .env file when present. It returns the load error so the
// caller can log it; a missing file is not fatal.
func LoadDotEnv() error {
	return godotenv.Load()
}

// Load reads configuration from environment with sensible defaults.
func Load() (*AppConfig, error) {
	cfg := &AppConfig{
		Host:     getenvDefault("HOST", "127.0.0.1"),
		Port:     getenvDefault("PORT", "8080"),
		LogLevel: getenvDefault("LOG_LEVEL", "info"),

		OpenWeatherAPIKey:  os.Getenv("OPENWEATHER_API_KEY"),
		OpenWeatherBaseURL: os.Getenv("OPENWEATHER_BASE_URL"),
		WeatherLanguage:    getenvDefault("WEATHER_LANG", "id"),
		ForecastCount:      getenvInt("FORECAST_COUNT", 5),
		ForecastDays:       getenvInt("FORECAST_DAYS", 5),

		AuthBackend:    strings.ToLower(getenvDefault("AUTH_BACKEND", BackendMemory)),
		FirebaseAPIKey: os.Getenv("FIREBASE_API_KEY"),

		StoreBackend:        strings.ToLower(getenvDefault("STORE_BACKEND", BackendMemory)),
		FirebaseProjectID:   os.Getenv("FIREBASE_PROJECT_ID"),
		FirebaseCredentials: os.Getenv("FIREBASE_CREDENTIALS"),

		LocalCachePath: getenvDefault("LOCAL_CACHE_PATH", "data/angin-nusantara.db"),
	}

	var err error
	if cfg.HTTPTimeout, err = getenvDuration("HTTP_TIMEOUT", 10*time.Second); err != nil {
		return nil, err
	}
	if cfg.AutoRefreshInterval, err = getenvDuration("AUTO_REFRESH_INTERVAL", 0); err != nil {
		return nil, err
	}

	if err := cfg.validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// ListenAddr is the address the HTTP server binds to.
func (c *AppConfig) ListenAddr() string {
	return net.JoinHostPort(c.Host, c.Port)
}

func (c *AppConfig) validate() error {
	switch c.AuthBackend {
	case BackendMemory:
	case BackendFirebase:
		if c.FirebaseAPIKey == "" {
			return fmt.Errorf("FIREBASE_API_KEY is required when AUTH_BACKEND=%s", BackendFirebase)
		}
	default:
		return fmt.Errorf("invalid AUTH_BACKEND %q", c.AuthBackend)
	}

	switch c.StoreBackend {
	case BackendMemory, BackendFirestore:
	default:
		return fmt.Errorf("invalid STORE_BACKEND %q", c.StoreBackend)
	}

	if c.ForecastCount <= 0 {
		return fmt.Errorf("FORECAST_COUNT must be positive")
	}
	if c.ForecastDays <= 0 {
		return fmt.Errorf("FORECAST_DAYS must be positive")
	}
	if c.HTTPTimeout <= 0 {
		return fmt.Errorf("HTTP_TIMEOUT must be positive")
	}
	return nil
}

func getenvDefault(key, def string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return def
}

func getenvInt(key string, def int) int {
	if v := os.Getenv(key); v != "" {
		n, err := strconv.Atoi(v)
		if err == nil {
			return n
		}
	}
	return def
}

func getenvDuration(key string, def time.Duration) (time.Duration, error) {
	v := os.Getenv(key)
	if v == "" {
		return def, nil
	}
	d, err := time.ParseDuration(v)
	if err != nil {
		return 0, fmt.Errorf("invalid %s: %w", key, err)
	}
	return d, nil
}
