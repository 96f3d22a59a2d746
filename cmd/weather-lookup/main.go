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

	httpapi "github.com/i474232898/weather-lookup/internal/api/http"
	"github.com/i474232898/weather-lookup/internal/config"
	"github.com/i474232898/weather-lookup/internal/location"
	"github.com/i474232898/weather-lookup/internal/scheduler"
	"github.com/i474232898/weather-lookup/internal/weather"
)

func main() {
	// Load configuration.
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("failed to load config: %v", err)
	}
	if cfg.OpenWeatherAPIKey == "" {
		log.Println("INFO: OPENWEATHER_API_KEY is not set; lookups will fail until it is configured")
	}

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	// The loop owns the published weather state.
	loop := weather.NewLoop()
	loop.Start(ctx)

	client := weather.NewClient(cfg.OpenWeatherAPIKey, loop,
		weather.WithBaseURL(cfg.BaseURL),
		weather.WithHTTPClient(&http.Client{Timeout: cfg.HTTPTimeout}),
		weather.WithBreaker(cfg.BreakerFailures, cfg.BreakerCooldown),
	)

	// Periodically refresh the last lookup.
	sched := scheduler.New(cfg.RefreshInterval, client)
	if err := sched.Start(); err != nil {
		log.Fatalf("failed to start scheduler: %v", err)
	}
	defer sched.Stop()

	app := fiber.New(fiber.Config{
		AppName:               "weather-lookup",
		DisableStartupMessage: true,
		ReadTimeout:           10 * time.Second,
		ErrorHandler:          httpapi.ErrorHandler,
	})

	// Global middleware
	app.Use(logger.New())
	app.Use(recover.New())

	app.Get("/health", func(c *fiber.Ctx) error {
		return c.JSON(fiber.Map{
			"status":  "ok",
			"service": "weather-lookup",
		})
	})

	httpapi.RegisterRoutes(app, client, locationSource(cfg.Location))

	go func() {
		if err := app.Listen(":" + cfg.Port); err != nil {
			log.Printf("fiber server stopped: %v", err)
		}
	}()

	<-ctx.Done()

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	if err := app.ShutdownWithContext(shutdownCtx); err != nil {
		log.Printf("error during shutdown: %v", err)
	}
}

// locationSource prefers fixed coordinates over geocoding a city.
func locationSource(cfg config.LocationConfig) location.Source {
	switch {
	case cfg.Coordinates != nil:
		return location.Static{Coordinates: *cfg.Coordinates}
	case cfg.City != "":
		return location.Geocoded{City: cfg.City, Country: cfg.Country, APIKey: cfg.GeocoderAPIKey}
	default:
		log.Println("INFO: no location configured; /weather/locate is unavailable")
		return nil
	}
}
