// Package api exposes the operational HTTP surface: health, stats and an
// on-demand crawl trigger.
package api

import (
	"context"
	"encoding/json"
	"log/slog"
	"net/http"

	"github.com/olekdev/autoria-scraper/internal/database"
)

// CrawlService is the slice of the scraper the handlers need.
type CrawlService interface {
	Running() bool
}

// StatsStore aggregates listing counts for the stats endpoint.
type StatsStore interface {
	GetListingStats(ctx context.Context) (*database.ListingStats, error)
}

type Handlers struct {
	scraper CrawlService
	store   StatsStore
	trigger func()
	logger  *slog.Logger
}

// NewHandlers wires the handlers. trigger starts a crawl session in the
// background; the overlap guard lives in the scraper itself.
func NewHandlers(scraper CrawlService, store StatsStore, trigger func(), logger *slog.Logger) *Handlers {
	return &Handlers{
		scraper: scraper,
		store:   store,
		trigger: trigger,
		logger:  logger,
	}
}

// GetStats handles statistics retrieval
func (h *Handlers) GetStats(w http.ResponseWriter, r *http.Request) {
	stats, err := h.store.GetListingStats(r.Context())
	if err != nil {
		h.logger.Error("failed to get stats", "error", err)
		h.respondError(w, http.StatusInternalServerError, "failed to get stats")
		return
	}

	h.respondJSON(w, http.StatusOK, stats)
}

// TriggerCrawl starts a crawl session unless one is already in flight.
func (h *Handlers) TriggerCrawl(w http.ResponseWriter, r *http.Request) {
	if h.scraper.Running() {
		h.respondError(w, http.StatusConflict, "a crawl session is already running")
		return
	}

	h.trigger()
	h.respondJSON(w, http.StatusAccepted, map[string]string{"status": "started"})
}

// Helper methods
func (h *Handlers) respondJSON(w http.ResponseWriter, status int, data interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(data); err != nil {
		h.logger.Error("failed to encode response", "error", err)
	}
}

func (h *Handlers) respondError(w http.ResponseWriter, status int, message string) {
	h.respondJSON(w, status, map[string]string{"error": message})
}
