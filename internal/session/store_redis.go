// Copyright (c) 2026 Mailcamp. All rights reserved.
// Author: dang.truong.dev@gmail.com

package session

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/dangtruong/mailcamp/internal/platform/apperr"
	"github.com/dangtruong/mailcamp/internal/platform/constants"
)

// RedisStore implements [Store] using Redis.
//
// # Key Lifetime
//
// Entries expire with a TTL equal to the idle timeout. A session that was
// never observed again after going idle therefore vanishes on its own, and a
// missing entry is treated by callers exactly like a revoked one. Saving a
// state (including a revoked one) resets the TTL, so an explicitly revoked
// session stays visible as revoked for the idle window.
type RedisStore struct {
	client *redis.Client
	ttl    time.Duration
}

// NewRedisStore creates a new Redis-backed session [Store].
func NewRedisStore(client *redis.Client, idleTimeout time.Duration) *RedisStore {
	return &RedisStore{client: client, ttl: idleTimeout}
}

/*
Load retrieves and decodes the session state for a user.

Description: Returns apperr.NotFound if the key is absent or has expired.

Parameters:
  - context: context.Context
  - userID: string

Returns:
  - State: Decoded session state
  - error: apperr.NotFound or connectivity errors
*/
func (store *RedisStore) Load(context context.Context, userID string) (State, error) {

	key := constants.RedisPrefixSession + userID

	// Fetch the raw JSON blob
	raw, err := store.client.Get(context, key).Result()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return State{}, apperr.NotFound("Session")
		}
		return State{}, fmt.Errorf("redis_session_load_failed: %w", err)
	}

	// Decode into the state value
	var state State
	if err := json.Unmarshal([]byte(raw), &state); err != nil {
		return State{}, fmt.Errorf("redis_session_decode_failed: %w", err)
	}

	return state, nil
}

/*
Save encodes and replaces the session state for a user.

Description: The write resets the key TTL to the idle timeout.

Parameters:
  - context: context.Context
  - userID: string
  - state: State

Returns:
  - error: Encoding or persistence failures
*/
func (store *RedisStore) Save(context context.Context, userID string, state State) error {

	key := constants.RedisPrefixSession + userID

	// Encode the state value
	raw, err := json.Marshal(state)
	if err != nil {
		return fmt.Errorf("redis_session_encode_failed: %w", err)
	}

	// Replace the blob with a refreshed TTL
	if err := store.client.Set(context, key, raw, store.ttl).Err(); err != nil {
		return fmt.Errorf("redis_session_save_failed: %w", err)
	}

	return nil
}
