package session

import (
	"context"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"

	"skygate/pkg/helpers"
)

// Record is what the store persists per token. A Record with an empty
// UserID is an anonymous shell and must authorize nothing.
type Record struct {
	Token     string    `json:"token"`
	UserID    string    `json:"user_id"`
	CreatedAt time.Time `json:"created_at"`
	ExpiresAt time.Time `json:"expires_at"` // absolute, CreatedAt + TTL
}

// Store abstracts the session backing store so the manager and tests do
// not depend on Redis directly.
type Store interface {
	// Set persists the record under its token for at most ttl.
	Set(ctx context.Context, rec Record, ttl time.Duration) error
	// Get returns the record for token, or (nil, nil) when absent.
	Get(ctx context.Context, token string) (*Record, error)
	// Delete removes the record; deleting an absent token is not an error.
	Delete(ctx context.Context, token string) error
}

type RedisStore struct {
	client *redis.Client
	prefix string
}

func NewRedisStore(client *redis.Client) *RedisStore {
	return &RedisStore{client: client, prefix: "session:"}
}

func (r *RedisStore) key(token string) string {
	return r.prefix + token
}

func (r *RedisStore) Set(ctx context.Context, rec Record, ttl time.Duration) error {
	if rec.Token == "" {
		return fmt.Errorf("session: missing token")
	}
	if ttl <= 0 {
		return fmt.Errorf("session: ttl must be positive")
	}
	return helpers.RedisSetJSON(ctx, r.client, r.key(rec.Token), rec, ttl)
}

func (r *RedisStore) Get(ctx context.Context, token string) (*Record, error) {
	var rec Record
	found, err := helpers.RedisGetJSON(ctx, r.client, r.key(token), &rec)
	if err != nil {
		return nil, err
	}
	if !found {
		return nil, nil
	}
	return &rec, nil
}

func (r *RedisStore) Delete(ctx context.Context, token string) error {
	return helpers.RedisDel(ctx, r.client, r.key(token))
}

var _ Store = (*RedisStore)(nil)
