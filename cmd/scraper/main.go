package main

import (
	"context"
	"encoding/json"
	"net"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
	"github.com/redis/go-redis/v9"

	"github.com/olekdev/autoria-scraper/internal/api"
	"github.com/olekdev/autoria-scraper/internal/backup"
	"github.com/olekdev/autoria-scraper/internal/browser"
	"github.com/olekdev/autoria-scraper/internal/config"
	"github.com/olekdev/autoria-scraper/internal/database"
	"github.com/olekdev/autoria-scraper/internal/schedule"
	"github.com/olekdev/autoria-scraper/internal/scraper"
	"github.com/olekdev/autoria-scraper/internal/sink"
	"github.com/olekdev/autoria-scraper/pkg/logger"
)

// playwrightBrowser adapts the concrete browser to the page interface the
// crawler consumes.
type playwrightBrowser struct {
	*browser.Browser
}

func (b playwrightBrowser) NewPage() (scraper.Page, error) {
	return b.Browser.NewPage()
}

func main() {
	cfg, err := config.Load()
	if err != nil {
		os.Stderr.WriteString("failed to load config: " + err.Error() + "\n")
		os.Exit(1)
	}

	log := logger.New(cfg.Logging.Level, cfg.Logging.Format)

	if err := cfg.Validate(); err != nil {
		log.Error("invalid configuration", "error", err)
		os.Exit(1)
	}

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	// Database connection
	db, err := database.New(ctx, database.Config{
		URL:      cfg.Database.URL(),
		MaxConns: 10,
	})
	if err != nil {
		log.Error("failed to connect to database", "error", err)
		os.Exit(1)
	}
	defer db.Close()

	if err := db.EnsureSchema(ctx); err != nil {
		log.Error("failed to ensure schema", "error", err)
		os.Exit(1)
	}

	// Redis client for the outbox relay
	redisClient := redis.NewClient(&redis.Options{
		Addr:     cfg.Redis.Addr,
		Password: cfg.Redis.Password,
		DB:       cfg.Redis.DB,
	})
	defer redisClient.Close()

	if err := redisClient.Ping(ctx).Err(); err != nil {
		log.Error("failed to connect to Redis", "error", err)
		os.Exit(1)
	}

	relay := database.NewRelay(db, redisClient, log, database.RelayConfig{
		PollInterval: 5 * time.Second,
		BatchSize:    100,
	})
	go func() {
		if err := relay.Start(ctx); err != nil && err != context.Canceled {
			log.Error("relay stopped with error", "error", err)
		}
	}()

	// Single writer between the scrape units and the database
	writer := sink.NewWriter(db, log)
	go writer.Start(ctx)

	openBrowser := func() (scraper.Browser, error) {
		b, err := browser.New(&browser.Options{
			Headless:       cfg.Browser.Headless,
			UserAgent:      cfg.Browser.UserAgent,
			ViewportWidth:  cfg.Browser.ViewportWidth,
			ViewportHeight: cfg.Browser.ViewportHeight,
			Locale:         cfg.Browser.Locale,
			TimezoneID:     cfg.Browser.TimezoneID,
		})
		if err != nil {
			return nil, err
		}
		return playwrightBrowser{b}, nil
	}

	scraperService := scraper.NewService(cfg.Scraper, writer, openBrowser, log)
	dumper := backup.NewDumper(cfg.Backup.Dir, cfg.Database.URL(), log)

	runCrawl := func(ctx context.Context) {
		scraperService.RunSession(ctx)
		if _, err := dumper.CreateDump(ctx); err != nil {
			log.Error("post-crawl backup failed", "error", err)
		}
	}

	// Daily crawl at the configured local time
	scheduler, err := schedule.New(cfg.Schedule.Hour, cfg.Schedule.Minute, cfg.Schedule.Timezone, runCrawl, log)
	if err != nil {
		log.Error("failed to create scheduler", "error", err)
		os.Exit(1)
	}
	go func() {
		if err := scheduler.Start(ctx); err != nil && err != context.Canceled {
			log.Error("scheduler stopped with error", "error", err)
		}
	}()

	handlers := api.NewHandlers(scraperService, db, func() { go runCrawl(ctx) }, log)

	r := chi.NewRouter()

	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(middleware.Logger)
	r.Use(middleware.Recoverer)
	r.Use(middleware.Timeout(60 * time.Second))

	r.Use(cors.Handler(cors.Options{
		AllowedOrigins:   []string{"http://localhost:*", "https://localhost:*"},
		AllowedMethods:   []string{"GET", "POST", "OPTIONS"},
		AllowedHeaders:   []string{"Accept", "Authorization", "Content-Type"},
		AllowCredentials: true,
		MaxAge:           300,
	}))

	r.Get("/health", func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")

		pendingCount, _ := relay.GetPendingCount(r.Context())
		deadLetterCount, _ := relay.GetDeadLetterCount(r.Context())

		health := map[string]interface{}{
			"status":   "ok",
			"crawling": scraperService.Running(),
			"outbox": map[string]interface{}{
				"pending":     pendingCount,
				"dead_letter": deadLetterCount,
			},
		}

		status := http.StatusOK
		if deadLetterCount > 100 {
			health["status"] = "error"
			health["message"] = "High number of dead letter events"
			status = http.StatusServiceUnavailable
		}

		w.WriteHeader(status)
		json.NewEncoder(w).Encode(health)
	})

	r.Route("/api/v1", func(r chi.Router) {
		r.Get("/stats", handlers.GetStats)
		r.Post("/crawl", handlers.TriggerCrawl)
	})

	server := &http.Server{
		Addr:         net.JoinHostPort(cfg.Server.Host, cfg.Server.Port),
		Handler:      r,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 60 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	go func() {
		sigChan := make(chan os.Signal, 1)
		signal.Notify(sigChan, os.Interrupt, syscall.SIGTERM)
		<-sigChan

		log.Info("shutting down...")
		cancel()

		shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), cfg.Server.ShutdownTimeout)
		defer shutdownCancel()

		if err := server.Shutdown(shutdownCtx); err != nil {
			log.Error("server shutdown failed", "error", err)
		}
	}()

	log.Info("server starting", "addr", server.Addr)
	if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
		log.Error("server failed", "error", err)
		os.Exit(1)
	}

	log.Info("server stopped")
}
