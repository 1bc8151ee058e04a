package session

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
)

// RedisStore implements Store on Redis. Sessions are JSON blobs keyed by
// user ID; expiry rides on the Redis key TTL.
type RedisStore struct {
	client *redis.Client
}

// NewRedisStore creates a store using the given client.
func NewRedisStore(client *redis.Client) *RedisStore {
	return &RedisStore{client: client}
}

// Get returns the user's session, or false if the key is absent or expired.
func (s *RedisStore) Get(ctx context.Context, userID string) (Session, bool, error) {
	data, err := s.client.Get(ctx, userID).Bytes()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return Session{}, false, nil
		}
		return Session{}, false, fmt.Errorf("failed to read session for %s: %w", userID, err)
	}

	var sess Session
	if err := json.Unmarshal(data, &sess); err != nil {
		return Session{}, false, fmt.Errorf("failed to decode session for %s: %w", userID, err)
	}

	return sess, true, nil
}

// Set writes the session with the given TTL.
func (s *RedisStore) Set(ctx context.Context, userID string, sess Session, ttl time.Duration) error {
	if err := sess.Validate(); err != nil {
		return err
	}
	if ttl <= 0 {
		ttl = DefaultTTL
	}

	data, err := json.Marshal(sess)
	if err != nil {
		return fmt.Errorf("failed to encode session for %s: %w", userID, err)
	}

	if err := s.client.Set(ctx, userID, data, ttl).Err(); err != nil {
		return fmt.Errorf("failed to write session for %s: %w", userID, err)
	}
	return nil
}

// Delete removes the user's session.
func (s *RedisStore) Delete(ctx context.Context, userID string) error {
	if err := s.client.Del(ctx, userID).Err(); err != nil {
		return fmt.Errorf("failed to delete session for %s: %w", userID, err)
	}
	return nil
}
