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

	httpapi "github.com/Sanjai-Shaarugesh/Advanced-Weather-Companion/internal/api/http"
	"github.com/Sanjai-Shaarugesh/Advanced-Weather-Companion/internal/config"
	"github.com/Sanjai-Shaarugesh/Advanced-Weather-Companion/internal/location"
	"github.com/Sanjai-Shaarugesh/Advanced-Weather-Companion/internal/scheduler"
	"github.com/Sanjai-Shaarugesh/Advanced-Weather-Companion/internal/store"
	"github.com/Sanjai-Shaarugesh/Advanced-Weather-Companion/internal/weather"
	"github.com/Sanjai-Shaarugesh/Advanced-Weather-Companion/internal/weather/providers"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("failed to load config: %v", err)
	}

	// Shared HTTP client bounding every outbound call.
	httpClient := &http.Client{
		Timeout: cfg.HTTPTimeout,
	}

	memStore := store.NewMemoryStore(cfg.StoreMaxHistory, cfg.StoreMaxAge)

	registry := providers.NewRegistry(cfg.CustomProviderURL)
	transport := providers.NewTransport(httpClient)

	resolver := location.NewResolver(location.Config{
		Mode:           cfg.LocationMode,
		ManualLocation: cfg.ManualLocation,
		GoogleAPIKey:   cfg.GoogleAPIKey,
	}, httpClient)

	service := weather.NewService(memStore, registry, transport, resolver, cfg.ProviderID, cfg.ProviderAPIKey)

	// Advisory probe in the background; fallback candidates get classified
	// without delaying the first refresh.
	go func() {
		ctx, cancel := context.WithTimeout(context.Background(), cfg.HTTPTimeout*2)
		defer cancel()
		service.ProbeProviders(ctx)
	}()

	// First refresh so the API has data to serve.
	go func() {
		ctx, cancel := context.WithTimeout(context.Background(), pipelineTimeout(cfg.HTTPTimeout))
		defer cancel()
		if _, err := service.Refresh(ctx); err != nil {
			log.Printf("initial refresh failed: %v", err)
		}
	}()

	sched := scheduler.New(cfg.RefreshInterval, pipelineTimeout(cfg.HTTPTimeout), service)
	if err := sched.Start(); err != nil {
		log.Fatalf("failed to start scheduler: %v", err)
	}
	defer sched.Stop()

	app := fiber.New(fiber.Config{
		AppName:               "advanced-weather-companion",
		DisableStartupMessage: true,
		ReadTimeout:           10 * time.Second,
		WriteTimeout:          30 * time.Second,
		ErrorHandler: func(c *fiber.Ctx, err error) error {
			code := fiber.StatusInternalServerError
			if e, ok := err.(*fiber.Error); ok {
				code = e.Code
			}
			return c.Status(code).JSON(fiber.Map{
				"error":   true,
				"message": err.Error(),
			})
		},
	})

	app.Use(logger.New())
	app.Use(recover.New())

	app.Get("/health", func(c *fiber.Ctx) error {
		return c.JSON(fiber.Map{
			"status":  "ok",
			"service": "advanced-weather-companion",
		})
	})

	httpapi.RegisterRoutes(app, service, resolver.Geocoder(), httpapi.DisplayConfig{
		UseFahrenheit: cfg.UseFahrenheit,
		WindSpeedUnit: cfg.WindSpeedUnit,
		TimeFormat:    cfg.TimeFormat,
	})

	go func() {
		if err := app.Listen(":" + cfg.Port); err != nil {
			log.Printf("fiber server stopped: %v", err)
		}
	}()

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	<-ctx.Done()

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	if err := app.ShutdownWithContext(shutdownCtx); err != nil {
		log.Printf("error during shutdown: %v", err)
	}
}

// pipelineTimeout bounds one full refresh: resolution attempts plus the
// primary fetch plus one fallback fetch.
func pipelineTimeout(httpTimeout time.Duration) time.Duration {
	return 4 * httpTimeout
}
