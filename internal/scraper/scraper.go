// Package scraper implements the AutoRia crawl: catalog pagination, bounded
// concurrent detail scraping, field extraction and the phone reveal.
package scraper

import (
	"context"
	"log/slog"
	"sync/atomic"

	"github.com/google/uuid"

	"github.com/olekdev/autoria-scraper/internal/config"
	"github.com/olekdev/autoria-scraper/internal/database"
	"github.com/olekdev/autoria-scraper/internal/ratelimit"
)

// Sink receives one normalized listing per successful detail scrape.
type Sink interface {
	Save(ctx context.Context, l *database.Listing) error
}

// OpenBrowser launches a fresh browser for one crawl session.
type OpenBrowser func() (Browser, error)

// Service runs crawl sessions. It is safe to invoke RunSession repeatedly
// from a scheduler; overlapping invocations are rejected.
type Service struct {
	cfg     config.ScraperConfig
	sink    Sink
	open    OpenBrowser
	logger  *slog.Logger
	running atomic.Bool
}

func NewService(cfg config.ScraperConfig, sink Sink, open OpenBrowser, logger *slog.Logger) *Service {
	return &Service{
		cfg:    cfg,
		sink:   sink,
		open:   open,
		logger: logger.With("component", "scraper"),
	}
}

// Running reports whether a session is currently in flight.
func (s *Service) Running() bool {
	return s.running.Load()
}

// RunSession executes one full crawl. It never returns an error: every
// failure is logged and absorbed here so a scheduler can call it unattended.
// Rows written before a fatal catalog failure remain committed.
func (s *Service) RunSession(ctx context.Context) {
	if !s.running.CompareAndSwap(false, true) {
		s.logger.Warn("crawl session already running, skipping")
		return
	}
	defer s.running.Store(false)

	logger := s.logger.With("session", uuid.NewString())
	logger.Info("starting crawl session", "start_url", s.cfg.StartURL, "concurrency", s.cfg.ConcurrentLimit)

	b, err := s.open()
	if err != nil {
		logger.Error("failed to launch browser", "error", err)
		return
	}
	defer func() {
		if err := b.Close(); err != nil {
			logger.Warn("failed to close browser", "error", err)
		}
	}()

	page, err := b.NewPage()
	if err != nil {
		logger.Error("failed to open catalog page", "error", err)
		return
	}
	defer page.Close()

	sess := &session{
		cfg:     s.cfg,
		sink:    s.sink,
		browser: b,
		pacer:   ratelimit.NewPacer(s.cfg.MinDelay, s.cfg.MaxDelay),
		logger:  logger,
	}

	if err := sess.crawlCatalog(ctx, page); err != nil {
		logger.Error("crawl session aborted", "error", err)
		return
	}

	logger.Info("crawl session finished")
}

// session carries the per-invocation state: the shared browsing context,
// the pacing source and the session-scoped logger.
type session struct {
	cfg     config.ScraperConfig
	sink    Sink
	browser Browser
	pacer   *ratelimit.Pacer
	logger  *slog.Logger
}
