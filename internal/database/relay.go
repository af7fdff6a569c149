package database

import (
	"context"
	"log/slog"
	"time"

	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"
)

// RedisClient is the slice of the Redis API the relay needs (for testing).
type RedisClient interface {
	XAdd(ctx context.Context, args *redis.XAddArgs) *redis.StringCmd
	Close() error
}

// OutboxRepo is the outbox surface the relay needs (for testing).
type OutboxRepo interface {
	GetPending(ctx context.Context, limit int) ([]*OutboxEvent, error)
	MarkProcessed(ctx context.Context, id uuid.UUID) error
	MarkFailed(ctx context.Context, id uuid.UUID, err error) error
	CountByStatus(ctx context.Context, status string) (int, error)
}

// Relay drains the outbox table into Redis streams so downstream consumers
// see a listing.scraped event for every row the crawler writes.
type Relay struct {
	redis     RedisClient
	outbox    OutboxRepo
	logger    *slog.Logger
	interval  time.Duration
	batchSize int
}

type RelayConfig struct {
	PollInterval time.Duration
	BatchSize    int
}

func NewRelay(db *DB, redisClient *redis.Client, logger *slog.Logger, config RelayConfig) *Relay {
	if config.PollInterval == 0 {
		config.PollInterval = 5 * time.Second
	}
	if config.BatchSize == 0 {
		config.BatchSize = 100
	}

	return &Relay{
		redis:     redisClient,
		outbox:    NewOutboxRepository(db),
		logger:    logger.With("component", "relay"),
		interval:  config.PollInterval,
		batchSize: config.BatchSize,
	}
}

// Start polls the outbox until ctx is done.
func (r *Relay) Start(ctx context.Context) error {
	r.logger.Info("starting relay", "interval", r.interval, "batch_size", r.batchSize)

	ticker := time.NewTicker(r.interval)
	defer ticker.Stop()

	if err := r.processEvents(ctx); err != nil {
		r.logger.Error("failed to process events on startup", "error", err)
	}

	for {
		select {
		case <-ctx.Done():
			r.logger.Info("relay stopped")
			return ctx.Err()
		case <-ticker.C:
			if err := r.processEvents(ctx); err != nil {
				r.logger.Error("failed to process events", "error", err)
			}
		}
	}
}

func (r *Relay) processEvents(ctx context.Context) error {
	events, err := r.outbox.GetPending(ctx, r.batchSize)
	if err != nil {
		return err
	}

	if len(events) == 0 {
		return nil
	}

	r.logger.Debug("publishing outbox events", "count", len(events))

	for _, event := range events {
		if err := r.publishEvent(ctx, event); err != nil {
			r.logger.Warn("failed to publish event",
				"id", event.ID, "event_type", event.EventType, "error", err)
			if markErr := r.outbox.MarkFailed(ctx, event.ID, err); markErr != nil {
				r.logger.Error("failed to mark event as failed", "id", event.ID, "error", markErr)
			}
			continue
		}

		if err := r.outbox.MarkProcessed(ctx, event.ID); err != nil {
			r.logger.Error("failed to mark event as processed", "id", event.ID, "error", err)
		}
	}

	return nil
}

func (r *Relay) publishEvent(ctx context.Context, event *OutboxEvent) error {
	return r.redis.XAdd(ctx, &redis.XAddArgs{
		Stream: event.TargetStream,
		Values: map[string]interface{}{
			"event_id":     event.ID.String(),
			"event_type":   event.EventType,
			"aggregate_id": event.AggregateID,
			"payload":      string(event.Payload),
		},
	}).Err()
}

// GetPendingCount reports the outbox backlog for health checks.
func (r *Relay) GetPendingCount(ctx context.Context) (int, error) {
	return r.outbox.CountByStatus(ctx, OutboxStatusPending)
}

// GetDeadLetterCount reports events that exhausted their retries.
func (r *Relay) GetDeadLetterCount(ctx context.Context) (int, error) {
	return r.outbox.CountByStatus(ctx, OutboxStatusDeadLetter)
}
