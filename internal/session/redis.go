package session

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/trace"
)

// RedisStore is the shared-store Store for multi-instance deployments:
// JSON session blobs expiring with the session TTL.
type RedisStore struct {
	client *redis.Client
	ttl    time.Duration
	tracer trace.Tracer
}

// NewRedisStore creates a redis-backed session store.
func NewRedisStore(client *redis.Client, ttl time.Duration) *RedisStore {
	if client == nil {
		panic("session: redis client cannot be nil")
	}
	if ttl <= 0 {
		ttl = 24 * time.Hour
	}
	return &RedisStore{
		client: client,
		ttl:    ttl,
		tracer: otel.Tracer("conectifisio.session.redis"),
	}
}

func (r *RedisStore) Get(ctx context.Context, senderID string) (Session, error) {
	ctx, span := r.tracer.Start(ctx, "session.get")
	defer span.End()

	data, err := r.client.Get(ctx, sessionKey(senderID)).Bytes()
	if err != nil {
		if err == redis.Nil {
			return Session{Mode: ModeIdle}, nil
		}
		span.RecordError(err)
		return Session{Mode: ModeIdle}, fmt.Errorf("session: load %s: %w", senderID, err)
	}

	var s Session
	if err := json.Unmarshal(data, &s); err != nil {
		span.RecordError(err)
		return Session{Mode: ModeIdle}, fmt.Errorf("session: decode %s: %w", senderID, err)
	}
	return s.Normalize(), nil
}

func (r *RedisStore) Put(ctx context.Context, senderID string, s Session) error {
	ctx, span := r.tracer.Start(ctx, "session.put")
	defer span.End()

	s.UpdatedAt = time.Now()
	data, err := json.Marshal(s.Normalize())
	if err != nil {
		span.RecordError(err)
		return fmt.Errorf("session: encode %s: %w", senderID, err)
	}
	if err := r.client.Set(ctx, sessionKey(senderID), data, r.ttl).Err(); err != nil {
		span.RecordError(err)
		return fmt.Errorf("session: persist %s: %w", senderID, err)
	}
	return nil
}

func sessionKey(senderID string) string {
	return fmt.Sprintf("session:%s", senderID)
}
