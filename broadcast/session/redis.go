package session

import (
	"context"
	"errors"
	"fmt"
	"strconv"
	"time"

	"github.com/go-redis/redis/v9"
)

// DefaultRedisPrefix namespaces session keys.
const DefaultRedisPrefix = "groupcaster:session:"

// RedisStore keeps one JSON value per owner. A positive ttl expires idle sessions.
type RedisStore struct {
	client *redis.Client
	prefix string
	ttl    time.Duration
}

// NewRedisStore wraps an existing client.
func NewRedisStore(client *redis.Client, prefix string, ttl time.Duration) *RedisStore {
	if prefix == "" {
		prefix = DefaultRedisPrefix
	}
	if ttl < 0 {
		ttl = 0
	}
	return &RedisStore{client: client, prefix: prefix, ttl: ttl}
}

func (r *RedisStore) key(ownerID int64) string {
	return r.prefix + strconv.FormatInt(ownerID, 10)
}

// Get loads the owner's session.
func (r *RedisStore) Get(ctx context.Context, ownerID int64) (*Session, error) {
	data, err := r.client.Get(ctx, r.key(ownerID)).Bytes()
	if errors.Is(err, redis.Nil) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("session: redis get %d: %w", ownerID, err)
	}
	return decodeSession(data)
}

// Put stores the session, refreshing its ttl.
func (r *RedisStore) Put(ctx context.Context, s *Session) error {
	data, err := encodeSession(s)
	if err != nil {
		return err
	}
	if err := r.client.Set(ctx, r.key(s.OwnerID), data, r.ttl).Err(); err != nil {
		return fmt.Errorf("session: redis set %d: %w", s.OwnerID, err)
	}
	return nil
}

// Delete removes the owner's session.
func (r *RedisStore) Delete(ctx context.Context, ownerID int64) error {
	if err := r.client.Del(ctx, r.key(ownerID)).Err(); err != nil {
		return fmt.Errorf("session: redis del %d: %w", ownerID, err)
	}
	return nil
}

// Count scans the key space under the store prefix.
func (r *RedisStore) Count(ctx context.Context) (int, error) {
	var (
		cursor uint64
		n      int
	)
	for {
		keys, next, err := r.client.Scan(ctx, cursor, r.prefix+"*", 200).Result()
		if err != nil {
			return 0, fmt.Errorf("session: redis scan: %w", err)
		}
		n += len(keys)
		if next == 0 {
			return n, nil
		}
		cursor = next
	}
}

// Close releases the underlying client.
func (r *RedisStore) Close() error {
	return r.client.Close()
}
