package service

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"
)

const pendingMarker = "pending"

var ErrRequestInProgress = errors.New("a request with this idempotency key is still in progress")

// CachedResponse is the stored outcome of the first request made with a key.
type CachedResponse struct {
	StatusCode int    `json:"status_code"`
	Body       string `json:"body"`
}

// IdempotencyStore remembers statement creation responses per user and key
// so that a retried POST replays the original result.
type IdempotencyStore struct {
	client ICacheClient
	ttl    time.Duration
}

func NewIdempotencyStore(client ICacheClient, ttl time.Duration) *IdempotencyStore {
	return &IdempotencyStore{client: client, ttl: ttl}
}

func (s *IdempotencyStore) Key(userID uuid.UUID, route, key string) string {
	return fmt.Sprintf("idempotency:%s:%s:%s", userID, route, key)
}

// Begin reserves key for the caller and returns (nil, nil). If the key was
// already used it returns the stored response, or ErrRequestInProgress while
// the first request has not finished.
func (s *IdempotencyStore) Begin(ctx context.Context, key string) (*CachedResponse, error) {
	reserved, err := s.client.SetNX(ctx, key, pendingMarker, s.ttl).Result()
	if err != nil {
		return nil, fmt.Errorf("could not reserve idempotency key: %w", err)
	}
	if reserved {
		return nil, nil
	}

	val, err := s.client.Get(ctx, key).Result()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			// Expired between SETNX and GET.
			return nil, ErrRequestInProgress
		}
		return nil, fmt.Errorf("could not read idempotency key: %w", err)
	}
	if val == pendingMarker {
		return nil, ErrRequestInProgress
	}

	var resp CachedResponse
	if err := json.Unmarshal([]byte(val), &resp); err != nil {
		return nil, fmt.Errorf("could not decode stored response: %w", err)
	}
	return &resp, nil
}

// Complete stores the response for later replays.
func (s *IdempotencyStore) Complete(ctx context.Context, key string, resp CachedResponse) error {
	data, err := json.Marshal(resp)
	if err != nil {
		return fmt.Errorf("could not encode response: %w", err)
	}
	return s.client.Set(ctx, key, data, s.ttl).Err()
}

// Abort releases the key so the request can be retried.
func (s *IdempotencyStore) Abort(ctx context.Context, key string) error {
	return s.client.Del(ctx, key).Err()
}
