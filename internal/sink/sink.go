// Package sink serializes listing writes from concurrent scrape units onto
// a single storage writer, so the crawl never shares one transactional
// handle between goroutines.
package sink

import (
	"context"
	"log/slog"

	"github.com/olekdev/autoria-scraper/internal/database"
)

// Store is the storage surface the writer drains into.
type Store interface {
	UpsertListing(ctx context.Context, l *database.Listing) error
}

type request struct {
	listing *database.Listing
	done    chan error
}

// Writer is the single-writer actor. All scrape units call Save; one
// goroutine started by Start performs the upserts in arrival order, each
// committed individually.
type Writer struct {
	store    Store
	requests chan request
	logger   *slog.Logger
}

func NewWriter(store Store, logger *slog.Logger) *Writer {
	return &Writer{
		store:    store,
		requests: make(chan request),
		logger:   logger.With("component", "sink"),
	}
}

// Start runs the write loop until ctx is done.
func (w *Writer) Start(ctx context.Context) {
	w.logger.Debug("sink writer started")

	for {
		select {
		case <-ctx.Done():
			w.logger.Debug("sink writer stopped")
			return
		case req := <-w.requests:
			err := w.store.UpsertListing(ctx, req.listing)
			req.done <- err
		}
	}
}

// Save hands the listing to the write loop and waits for its commit result.
func (w *Writer) Save(ctx context.Context, l *database.Listing) error {
	req := request{listing: l, done: make(chan error, 1)}

	select {
	case <-ctx.Done():
		return ctx.Err()
	case w.requests <- req:
	}

	select {
	case <-ctx.Done():
		return ctx.Err()
	case err := <-req.done:
		return err
	}
}
