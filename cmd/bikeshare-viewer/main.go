package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/logger"
	"github.com/gofiber/fiber/v2/middleware/recover"
	"github.com/gofiber/fiber/v2/middleware/requestid"
	"github.com/google/uuid"
	"github.com/rs/zerolog"

	httpapi "github.com/i474232898/bikeshare-viewer/internal/api/http"
	"github.com/i474232898/bikeshare-viewer/internal/bikeshare"
	"github.com/i474232898/bikeshare-viewer/internal/bikeshare/providers"
	"github.com/i474232898/bikeshare-viewer/internal/config"
	"github.com/i474232898/bikeshare-viewer/internal/figure"
	"github.com/i474232898/bikeshare-viewer/internal/scheduler"
	"github.com/i474232898/bikeshare-viewer/internal/store"
)

const serviceName = "bikeshare-viewer"

func main() {
	log := zerolog.New(os.Stdout).
		With().
		Timestamp().
		Str("service", serviceName).
		Logger()

	// Load configuration.
	cfg, dotenv, err := config.Load()
	if err != nil {
		log.Fatal().Err(err).Msg("failed to load config")
	}
	if !dotenv {
		log.Info().Msg("no .env file found; using process environment")
	}
	log = log.Level(cfg.LogLevel)

	// Shared HTTP client for outbound calls.
	httpClient := &http.Client{
		Timeout: cfg.HTTPTimeout,
	}

	directory := providers.NewCityBikesProvider(httpClient, cfg.CityBikesBaseURL, log)
	geolocator := providers.NewIPGeoProvider(httpClient, cfg.IPLookupURL, cfg.GeolocationBaseURL, log)

	service := bikeshare.NewService(directory, geolocator, cfg.DefaultCity, log)

	// The map renderer is the only consumer of the access token; without it the
	// map route is disabled and everything else keeps working.
	var maps *figure.MapRenderer
	if token, err := cfg.RequireMapToken(); err != nil {
		log.Warn().Err(err).Msg("map rendering disabled")
	} else {
		opts := []figure.MapOption{figure.WithMapStyle(cfg.MapStyle), figure.WithLogger(log)}
		if cfg.GeocoderAPIKey != "" {
			opts = append(opts, figure.WithCityLocator(providers.NewGoogleGeocoder(cfg.GeocoderAPIKey, cfg.HTTPTimeout, log)))
		}
		maps, err = figure.NewMapRenderer(token, opts...)
		if err != nil {
			log.Fatal().Err(err).Msg("failed to create map renderer")
		}
	}

	// Directory probe history.
	probes := store.NewMemoryStore(cfg.ProbeMaxHistory, cfg.ProbeMaxAge)

	sched := scheduler.New(cfg.ProbeInterval, service, probes, log)
	if err := sched.Start(); err != nil {
		log.Fatal().Err(err).Msg("failed to start scheduler")
	}
	defer sched.Stop()

	// Basic app configuration
	app := fiber.New(fiber.Config{
		AppName:               serviceName,
		DisableStartupMessage: true,
		ReadTimeout:           10 * time.Second,
		WriteTimeout:          30 * time.Second,
		ErrorHandler: func(c *fiber.Ctx, err error) error {
			// Centralized error response
			code := fiber.StatusInternalServerError
			var e *fiber.Error
			if errors.As(err, &e) {
				code = e.Code
			}
			return c.Status(code).JSON(fiber.Map{
				"error":   true,
				"message": err.Error(),
			})
		},
	})

	// Global middleware
	app.Use(requestid.New(requestid.Config{Generator: uuid.NewString}))
	app.Use(logger.New(logger.Config{
		Format: "${time} ${locals:requestid} ${status} ${method} ${path} ${latency}\n",
	}))
	app.Use(recover.New())

	// Health and API routes.
	httpapi.RegisterHealthRoutes(app, serviceName, probes, maps != nil)
	httpapi.RegisterRoutes(app, service, maps)

	go func() {
		if err := app.Listen(":" + cfg.Port); err != nil {
			log.Error().Err(err).Msg("fiber server stopped")
		}
	}()
	log.Info().Str("port", cfg.Port).Msg("listening")

	// Wait for termination signal
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	<-ctx.Done()

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	if err := app.ShutdownWithContext(shutdownCtx); err != nil {
		log.Error().Err(err).Msg("error during shutdown")
	}
}
