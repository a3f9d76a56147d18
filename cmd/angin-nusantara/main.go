package main

import (
	"context"
	"log"
	"net/http"
	"os/signal"
	"syscall"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/logger"
	"github.com/gofiber/fiber/v2/middleware/recover"
	"go.uber.org/zap"

	httpapi "github.com/i474232898/angin-nusantara/internal/api/http"
	"github.com/i474232898/angin-nusantara/internal/auth"
	"github.com/i474232898/angin-nusantara/internal/cities"
	"github.com/i474232898/angin-nusantara/internal/config"
	"github.com/i474232898/angin-nusantara/internal/kv"
	"github.com/i474232898/angin-nusantara/internal/logging"
	"github.com/i474232898/angin-nusantara/internal/scheduler"
	"github.com/i474232898/angin-nusantara/internal/store"
	"github.com/i474232898/angin-nusantara/internal/weather"
	"github.com/i474232898/angin-nusantara/internal/weather/providers"
)

func main() {
	dotenvErr := config.LoadDotEnv()

	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("failed to load config: %v", err)
	}

	zl, err := logging.New(cfg.LogLevel)
	if err != nil {
		log.Fatalf("failed to build logger: %v", err)
	}
	defer zl.Sync()

	if dotenvErr != nil {
		zl.Info("no .env file loaded", zap.Error(dotenvErr))
	}

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	// Shared HTTP client for outbound provider calls.
	httpClient := &http.Client{
		Timeout: cfg.HTTPTimeout,
	}

	// Weather client.
	provider := providers.NewOpenWeatherProvider(httpClient, cfg.OpenWeatherAPIKey,
		providers.WithBaseURL(cfg.OpenWeatherBaseURL),
		providers.WithLanguage(cfg.WeatherLanguage),
		providers.WithForecastCount(cfg.ForecastCount),
	)
	if cfg.OpenWeatherAPIKey == "" {
		zl.Warn("OPENWEATHER_API_KEY is empty; weather lookups will fail")
	}
	weatherSvc := weather.NewService(provider, cfg.ForecastDays, zl)

	// Local key-value cache.
	cache, err := kv.OpenSQLite(cfg.LocalCachePath)
	if err != nil {
		zl.Fatal("failed to open local cache", zap.String("path", cfg.LocalCachePath), zap.Error(err))
	}
	defer cache.Close()

	// Credential gateway.
	var identityProvider auth.Provider
	switch cfg.AuthBackend {
	case config.BackendFirebase:
		identityProvider = auth.NewFirebaseProvider(httpClient, cfg.FirebaseAPIKey, "")
	default:
		identityProvider = auth.NewMemoryProvider()
	}
	gateway := auth.NewGateway(identityProvider, cache, zl)
	stopWatch := gateway.WatchSession(func(id *auth.Identity) {
		if id == nil {
			zl.Info("session: signed out")
			return
		}
		zl.Info("session: signed in", zap.String("uid", id.UID))
	})
	defer stopWatch()

	// City store.
	var repo cities.Repository
	switch cfg.StoreBackend {
	case config.BackendFirestore:
		client, err := store.NewFirestoreClient(ctx, cfg.FirebaseProjectID, cfg.FirebaseCredentials)
		if err != nil {
			zl.Fatal("failed to connect to firestore", zap.Error(err))
		}
		defer client.Close()
		repo = store.NewFirestoreStore(client)
	default:
		repo = store.NewMemoryStore()
	}
	citySvc := cities.NewService(repo, weatherSvc, gateway, cities.NewListCache(cache), zl)

	sched := scheduler.New(cfg.AutoRefreshInterval, citySvc, zl)
	if err := sched.Start(); err != nil {
		zl.Fatal("failed to start scheduler", zap.Error(err))
	}
	defer sched.Stop()

	app := fiber.New(fiber.Config{
		AppName:               "angin-nusantara",
		DisableStartupMessage: true,
		ReadTimeout:           10 * time.Second,
		WriteTimeout:          2 * cfg.HTTPTimeout,
		ErrorHandler:          httpapi.ErrorHandler(zl),
	})

	app.Use(logger.New())
	app.Use(recover.New())

	app.Get("/health", func(c *fiber.Ctx) error {
		return c.JSON(fiber.Map{
			"status":  "ok",
			"service": "angin-nusantara",
			"auth":    cfg.AuthBackend,
			"store":   cfg.StoreBackend,
		})
	})

	httpapi.RegisterRoutes(app, httpapi.Services{
		Auth:    gateway,
		Weather: weatherSvc,
		Cities:  citySvc,
	})

	go func() {
		zl.Info("listening", zap.String("addr", cfg.ListenAddr()))
		if err := app.Listen(cfg.ListenAddr()); err != nil {
			zl.Error("fiber server stopped", zap.Error(err))
			stop()
		}
	}()

	<-ctx.Done()

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	if err := app.ShutdownWithContext(shutdownCtx); err != nil {
		zl.Error("error during shutdown", zap.Error(err))
	}
}
