package dedup

import (
	"context"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/trace"

	"github.com/conectifisio/whatsapp-gateway/pkg/logging"
)

// Redis is the shared-store Deduplicator for multi-instance deployments:
// one SET NX per message id, expiring with the dedup window.
type Redis struct {
	client *redis.Client
	ttl    time.Duration
	logger *logging.Logger
	tracer trace.Tracer
}

// NewRedis creates a redis-backed deduplicator.
func NewRedis(client *redis.Client, ttl time.Duration, logger *logging.Logger) *Redis {
	if client == nil {
		panic("dedup: redis client cannot be nil")
	}
	if ttl <= 0 {
		ttl = 24 * time.Hour
	}
	if logger == nil {
		logger = logging.Default()
	}
	return &Redis{
		client: client,
		ttl:    ttl,
		logger: logger,
		tracer: otel.Tracer("conectifisio.dedup.redis"),
	}
}

func (r *Redis) ShouldProcess(ctx context.Context, messageID string) bool {
	if messageID == "" {
		return true
	}

	ctx, span := r.tracer.Start(ctx, "dedup.should_process")
	defer span.End()

	inserted, err := r.client.SetNX(ctx, dedupKey(messageID), 1, r.ttl).Result()
	if err != nil {
		span.RecordError(err)
		// Fail open: dropping a message on a store outage is worse than
		// the odd duplicate reply.
		r.logger.Warn("dedup store unavailable, processing anyway",
			"message_id", messageID,
			"error", err,
		)
		return true
	}
	return inserted
}

func dedupKey(messageID string) string {
	return fmt.Sprintf("dedup:msg:%s", messageID)
}
