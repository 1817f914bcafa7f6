package main

import (
	"context"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/logger"
	"github.com/gofiber/fiber/v2/middleware/recover"
	"github.com/joho/godotenv"

	httpapi "github.com/avonside/weather-bulletin/internal/api/http"
	"github.com/avonside/weather-bulletin/internal/bulletin"
	"github.com/avonside/weather-bulletin/internal/config"
	"github.com/avonside/weather-bulletin/internal/forecast"
	"github.com/avonside/weather-bulletin/internal/metoffice"
	"github.com/avonside/weather-bulletin/internal/scheduler"
	"github.com/avonside/weather-bulletin/internal/speech"
	"github.com/avonside/weather-bulletin/internal/store"
)

func main() {
	if err := godotenv.Load(); err != nil {
		log.Printf("INFO: No .env file found or error loading it: %v", err)
	}

	// Load configuration.
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("failed to load config: %v", err)
	}

	// Shared HTTP client for outbound calls.
	httpClient := &http.Client{
		Timeout: cfg.HTTPTimeout,
	}

	// In-memory bulletin history with configured retention.
	memStore := store.NewMemoryStore(cfg.StoreMaxHistory, cfg.StoreMaxAge)

	// Feed client with resilience (backoff + circuit breaker).
	feed := metoffice.NewClient(httpClient, cfg.MetOfficeAPIKey, cfg.Latitude, cfg.Longitude, metoffice.Timesteps(cfg.Timesteps))

	// Speech synthesis is optional; without a key we still serve text bulletins.
	var tts bulletin.Synthesizer
	if cfg.TTSAPIKey != "" {
		tts = speech.NewSynthesizer(httpClient, cfg.TTSAPIKey)
	} else {
		log.Println("INFO: no text-to-speech key configured; skipping audio generation")
	}

	composer := &forecast.Composer{Place: cfg.Place}

	// Core service orchestrating fetch, aggregation, composition, synthesis.
	service := bulletin.NewService(feed, tts, memStore, composer, cfg.OutputFile)

	// Generate once at startup so the API has something to serve.
	startupCtx, cancelStartup := context.WithTimeout(context.Background(), 60*time.Second)
	if rec, err := service.Generate(startupCtx); err != nil {
		log.Printf("initial bulletin generation failed: %v", err)
	} else {
		log.Printf("bulletin: %s", rec.Text)
	}
	cancelStartup()

	// Scheduler that periodically regenerates the bulletin.
	sched := scheduler.New(cfg.FetchInterval, service)
	if err := sched.Start(); err != nil {
		log.Fatalf("failed to start scheduler: %v", err)
	}
	defer sched.Stop()

	// Basic app configuration
	app := fiber.New(fiber.Config{
		AppName:               "weather-bulletin",
		DisableStartupMessage: true,
		ReadTimeout:           10 * time.Second,
		WriteTimeout:          10 * time.Second,
		ErrorHandler: func(c *fiber.Ctx, err error) error {
			// Centralized error response
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

	// Global middleware
	app.Use(logger.New())
	app.Use(recover.New())

	// Basic health endpoint
	app.Get("/health", func(c *fiber.Ctx) error {
		return c.JSON(fiber.Map{
			"status":  "ok",
			"service": "weather-bulletin",
		})
	})

	// API routes.
	httpapi.RegisterRoutes(app, service)

	// Start server with graceful shutdown
	port := os.Getenv("PORT")
	if port == "" {
		port = cfg.Port
	}

	go func() {
		if err := app.Listen(":" + port); err != nil {
			log.Printf("fiber server stopped: %v", err)
		}
	}()

	// Wait for termination signal
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	<-ctx.Done()

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	if err := app.ShutdownWithContext(shutdownCtx); err != nil {
		log.Printf("error during shutdown: %v", err)
	}
}
