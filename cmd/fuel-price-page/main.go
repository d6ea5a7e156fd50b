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

	httpapi "github.com/i474232898/fuel-price-page/internal/api/http"
	"github.com/i474232898/fuel-price-page/internal/cache"
	"github.com/i474232898/fuel-price-page/internal/config"
	"github.com/i474232898/fuel-price-page/internal/fuel"
	"github.com/i474232898/fuel-price-page/internal/fuel/providers"
	"github.com/i474232898/fuel-price-page/internal/pricepage"
	"github.com/i474232898/fuel-price-page/internal/publish"
	"github.com/i474232898/fuel-price-page/internal/report"
	"github.com/i474232898/fuel-price-page/internal/scheduler"
	"github.com/i474232898/fuel-price-page/internal/store"
)

func main() {
	// Load configuration (also reads an optional .env).
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("failed to load config: %v", err)
	}

	// Shared HTTP client for outbound source calls.
	httpClient := &http.Client{
		Timeout: cfg.HTTPTimeout,
	}

	// Scraper with resilience (backoff + circuit breaker).
	fetcher := providers.NewSpritpreislisteProvider(httpClient, cfg.SourceBaseURL)

	// Price history: SQLite when configured, otherwise in memory.
	var history fuel.Store
	if cfg.HistoryDB != "" {
		sqlStore, err := store.OpenSQLite(cfg.HistoryDB, cfg.HistoryMaxEntries, cfg.HistoryMaxAge)
		if err != nil {
			log.Fatalf("failed to open history database: %v", err)
		}
		defer sqlStore.Close()
		history = sqlStore
	} else {
		history = store.NewMemoryStore(cfg.HistoryMaxEntries, cfg.HistoryMaxAge)
	}

	prices := cache.NewWithComputeTimeout[fuel.PriceRecord](cfg.RefreshTimeout)
	service := fuel.NewService(prices, fetcher, history, cfg.Airports, cfg.PriceCacheTTL)

	renderer, err := report.NewHTMLRenderer()
	if err != nil {
		log.Fatalf("failed to load page template: %v", err)
	}

	publisher, err := newPublisher(cfg)
	if err != nil {
		log.Fatalf("failed to create publisher: %v", err)
	}

	updater := pricepage.NewUpdater(service, len(cfg.Airports), renderer, publisher, cfg.RefreshTimeout)

	// Scheduler that rebuilds the page at startup and then periodically.
	sched := scheduler.New(cfg.RefreshInterval, cfg.RefreshTimeout, updater)
	if err := sched.Start(); err != nil {
		log.Fatalf("failed to start scheduler: %v", err)
	}
	defer sched.Stop()

	app := fiber.New(fiber.Config{
		AppName:               "fuel-price-page",
		DisableStartupMessage: true,
		ReadTimeout:           10 * time.Second,
		// A refresh through the API scrapes every airport.
		WriteTimeout: cfg.RefreshTimeout,
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
		body := fiber.Map{
			"status":          "ok",
			"service":         "fuel-price-page",
			"airports":        len(service.Airports()),
			"cached_airports": service.CachedCount(),
		}
		if last, ok := updater.LastRefresh(); ok {
			body["last_refresh"] = last
		}
		return c.JSON(body)
	})

	httpapi.RegisterRoutes(app, service, updater, cfg.AdminAPIKey)
	if cfg.AdminAPIKey == "" {
		log.Printf("INFO: ADMIN_API_KEY not set, /api/v1 routes are unprotected")
	}

	go func() {
		if err := app.Listen(":" + cfg.Port); err != nil {
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

func newPublisher(cfg *config.AppConfig) (publish.Publisher, error) {
	switch cfg.PublishTarget {
	case config.PublishDir:
		return publish.NewDirPublisher(cfg.PublishDir)
	case config.PublishAzure:
		return publish.NewBlobPublisher(cfg.StorageConnStr, cfg.PublishContainer)
	default:
		return publish.NewMemoryPublisher(), nil
	}
}
