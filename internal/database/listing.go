package database

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5"
)

// Listing is one scraped vehicle advertisement keyed by its source URL.
// Optional fields are pointers so an absent value is stored as NULL.
type Listing struct {
	ID          int64
	URL         string
	Title       *string
	PriceUSD    *int
	OdometerKm  *int
	SellerName  string
	PhoneNumber *int64
	ImageURL    *string
	PhotoCount  *int
	PlateNumber *string
	VIN         *string
	FoundAt     time.Time
}

// ListingStats is the aggregate view exposed on the stats endpoint.
type ListingStats struct {
	Total       int        `json:"total"`
	WithPhone   int        `json:"with_phone"`
	LastFoundAt *time.Time `json:"last_found_at,omitempty"`
}

// UpsertListing inserts the listing or, when the url already exists,
// overwrites every other field of the existing row. The matching outbox
// event is recorded in the same transaction, so an event exists iff the
// row was written.
func (db *DB) UpsertListing(ctx context.Context, l *Listing) error {
	if l.FoundAt.IsZero() {
		l.FoundAt = time.Now()
	}

	query := `
		INSERT INTO listings (
			url, title, price_usd, odometer_km, seller_name,
			phone_number, image_url, photo_count, plate_number, vin, found_at
		) VALUES (
			$1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11
		)
		ON CONFLICT (url) DO UPDATE SET
			title = EXCLUDED.title,
			price_usd = EXCLUDED.price_usd,
			odometer_km = EXCLUDED.odometer_km,
			seller_name = EXCLUDED.seller_name,
			phone_number = EXCLUDED.phone_number,
			image_url = EXCLUDED.image_url,
			photo_count = EXCLUDED.photo_count,
			plate_number = EXCLUDED.plate_number,
			vin = EXCLUDED.vin,
			found_at = EXCLUDED.found_at
		RETURNING id`

	outbox := NewOutboxRepository(db)

	return db.WithTx(ctx, func(tx pgx.Tx) error {
		err := tx.QueryRow(ctx, query,
			l.URL, l.Title, l.PriceUSD, l.OdometerKm, l.SellerName,
			l.PhoneNumber, l.ImageURL, l.PhotoCount, l.PlateNumber, l.VIN, l.FoundAt,
		).Scan(&l.ID)
		if err != nil {
			return fmt.Errorf("failed to upsert listing: %w", err)
		}

		payload, err := json.Marshal(map[string]any{
			"url":       l.URL,
			"title":     l.Title,
			"price_usd": l.PriceUSD,
		})
		if err != nil {
			return fmt.Errorf("failed to marshal event payload: %w", err)
		}

		event := &OutboxEvent{
			AggregateType: "listing",
			AggregateID:   l.URL,
			EventType:     EventListingScraped,
			Payload:       payload,
		}

		return outbox.InsertWithTx(ctx, tx, event)
	})
}

// GetListingByURL returns nil when no row matches.
func (db *DB) GetListingByURL(ctx context.Context, url string) (*Listing, error) {
	query := `
		SELECT id, url, title, price_usd, odometer_km, seller_name,
		       phone_number, image_url, photo_count, plate_number, vin, found_at
		FROM listings
		WHERE url = $1`

	l := &Listing{}
	err := db.pool.QueryRow(ctx, query, url).Scan(
		&l.ID, &l.URL, &l.Title, &l.PriceUSD, &l.OdometerKm, &l.SellerName,
		&l.PhoneNumber, &l.ImageURL, &l.PhotoCount, &l.PlateNumber, &l.VIN, &l.FoundAt,
	)

	if err == pgx.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get listing: %w", err)
	}

	return l, nil
}

// GetListingStats aggregates row counts for the stats endpoint.
func (db *DB) GetListingStats(ctx context.Context) (*ListingStats, error) {
	query := `
		SELECT COUNT(*),
		       COUNT(phone_number),
		       MAX(found_at)
		FROM listings`

	stats := &ListingStats{}
	err := db.pool.QueryRow(ctx, query).Scan(&stats.Total, &stats.WithPhone, &stats.LastFoundAt)
	if err != nil {
		return nil, fmt.Errorf("failed to count listings: %w", err)
	}

	return stats, nil
}
