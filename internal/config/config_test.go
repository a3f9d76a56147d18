package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"
)

var keys = []string{
	"HOST", "PORT", "LOG_LEVEL", "OPENWEATHER_API_KEY", "OPENWEATHER_BASE_URL", "WEATHER_LANG",
	"FORECAST_COUNT", "FORECAST_DAYS", "HTTP_TIMEOUT", "AUTH_BACKEND", "FIREBASE_API_KEY",
	"STORE_BACKEND", "FIREBASE_PROJECT_ID", "FIREBASE_CREDENTIALS", "LOCAL_CACHE_PATH",
	"AUTO_REFRESH_INTERVAL",
}

func clearEnv(t *testing.T) {
	t.Helper()
	for _, k := range keys {
		t.Setenv(k, "")
	}
}

func TestLoadDefaults(t *testing.T) {
	clearEnv(t)

	cfg, err := Load()
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}
	if cfg.Host != "127.0.0.1" || cfg.ListenAddr() != "127.0.0.1:8080" {
		t.Errorf("listen address = %q, want loopback", cfg.ListenAddr())
	}
	if cfg.Port != "8080" || cfg.LogLevel != "info" || cfg.WeatherLanguage != "id" {
		t.Errorf("unexpected defaults: %+v", cfg)
	}
	if cfg.ForecastCount != 5 || cfg.ForecastDays != 5 {
		t.Errorf("forecast defaults = %d/%d", cfg.ForecastCount, cfg.ForecastDays)
	}
	if cfg.HTTPTimeout != 10*time.Second || cfg.AutoRefreshInterval != 0 {
		t.Errorf("durations = %v/%v", cfg.HTTPTimeout, cfg.AutoRefreshInterval)
	}
	if cfg.AuthBackend != BackendMemory || cfg.StoreBackend != BackendMemory {
		t.Errorf("backends = %s/%s", cfg.AuthBackend, cfg.StoreBackend)
	}
	if cfg.LocalCachePath != "data/angin-nusantara.db" {
		t.Errorf("LocalCachePath = %q", cfg.LocalCachePath)
	}
}

func TestLoadOverrides(t *testing.T) {
	clearEnv(t)
	t.Setenv("HOST", "0.0.0.0")
	t.Setenv("PORT", "9090")
	t.Setenv("FORECAST_COUNT", "40")
	t.Setenv("HTTP_TIMEOUT", "3s")
	t.Setenv("AUTO_REFRESH_INTERVAL", "30m")
	t.Setenv("AUTH_BACKEND", "Firebase")
	t.Setenv("FIREBASE_API_KEY", "key")
	t.Setenv("STORE_BACKEND", "firestore")

	cfg, err := Load()
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}
	if cfg.Port != "9090" || cfg.ForecastCount != 40 || cfg.HTTPTimeout != 3*time.Second {
		t.Errorf("unexpected overrides: %+v", cfg)
	}
	if cfg.ListenAddr() != "0.0.0.0:9090" {
		t.Errorf("ListenAddr() = %q", cfg.ListenAddr())
	}
	if cfg.AutoRefreshInterval != 30*time.Minute {
		t.Errorf("AutoRefreshInterval = %v", cfg.AutoRefreshInterval)
	}
	if cfg.AuthBackend != BackendFirebase || cfg.StoreBackend != BackendFirestore {
		t.Errorf("backends = %s/%s", cfg.AuthBackend, cfg.StoreBackend)
	}
}

func TestLoadInvalid(t *testing.T) {
	tests := []struct {
		name string
		env  map[string]string
	}{
		{"bad timeout", map[string]string{"HTTP_TIMEOUT": "soon"}},
		{"bad refresh interval", map[string]string{"AUTO_REFRESH_INTERVAL": "hourly"}},
		{"unknown auth backend", map[string]string{"AUTH_BACKEND": "ldap"}},
		{"firebase without key", map[string]string{"AUTH_BACKEND": "firebase"}},
		{"unknown store backend", map[string]string{"STORE_BACKEND": "mysql"}},
		{"zero forecast days", map[string]string{"FORECAST_DAYS": "0"}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			clearEnv(t)
			for k, v := range tt.env {
				t.Setenv(k, v)
			}
			if _, err := Load(); err == nil {
				t.Fatal("expected error")
			}
		})
	}
}

func TestLoadDotEnv(t *testing.T) {
	clearEnv(t)
	dir := t.TempDir()
	if err := os.WriteFile(filepath.Join(dir, ".env"), []byte("WEATHER_LANG=en\n"), 0o600); err != nil {
		t.Fatal(err)
	}
	wd, _ := os.Getwd()
	if err := os.Chdir(dir); err != nil {
		t.Fatal(err)
	}
	defer os.Chdir(wd)

	os.Unsetenv("WEATHER_LANG")
	if err := LoadDotEnv(); err != nil {
		t.Fatalf("LoadDotEnv() error = %v", err)
	}
	t.Cleanup(func() { os.Unsetenv("WEATHER_LANG") })

	cfg, err := Load()
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}
	if cfg.WeatherLanguage != "en" {
		t.Fatalf("WeatherLanguage = %q, want en", cfg.WeatherLanguage)
	}
}
