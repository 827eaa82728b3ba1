package cache

import (
	"context"
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/worklane/escrow-engine/internal/domain"
	"github.com/worklane/escrow-engine/internal/ports"
)

// Connect initializes a Redis client from URL or host:port input.
func Connect(_ context.Context, redisURL string) (*redis.Client, error) {
	if strings.HasPrefix(redisURL, "redis://") {
		opt, parseErr := redis.ParseURL(redisURL)
		if parseErr != nil {
			return nil, fmt.Errorf("parse redis url: %w", parseErr)
		}
		return redis.NewClient(opt), nil
	}
	return redis.NewClient(&redis.Options{Addr: redisURL}), nil
}

// RedisIdempotencyStore keeps idempotency records in Redis hashes with a TTL
// so replay windows expire without a sweeper.
type RedisIdempotencyStore struct {
	client *redis.Client
}

func NewRedisIdempotencyStore(client *redis.Client) *RedisIdempotencyStore {
	return &RedisIdempotencyStore{client: client}
}

func redisKey(key string) string { return "escrow:idem:" + key }

func (s *RedisIdempotencyStore) Get(ctx context.Context, key string, now time.Time) (*ports.IdempotencyRecord, error) {
	data, err := s.client.HGetAll(ctx, redisKey(key)).Result()
	if err != nil {
		return nil, err
	}
	if len(data) == 0 {
		return nil, nil
	}
	record := ports.IdempotencyRecord{Key: key, RequestHash: data["request_hash"]}
	if raw, ok := data["response_code"]; ok && raw != "" {
		if code, convErr := strconv.Atoi(raw); convErr == nil {
			record.ResponseCode = code
		}
	}
	if raw, ok := data["response_body"]; ok && raw != "" {
		record.ResponseBody = []byte(raw)
	}
	if raw, ok := data["expires_at"]; ok && raw != "" {
		if unix, convErr := strconv.ParseInt(raw, 10, 64); convErr == nil {
			record.ExpiresAt = time.Unix(unix, 0).UTC()
		}
	}
	if !record.ExpiresAt.IsZero() && now.After(record.ExpiresAt) {
		return nil, nil
	}
	return &record, nil
}

func (s *RedisIdempotencyStore) Reserve(ctx context.Context, key, requestHash string, expiresAt time.Time) error {
	rk := redisKey(key)
	set, err := s.client.HSetNX(ctx, rk, "request_hash", requestHash).Result()
	if err != nil {
		return err
	}
	if !set {
		existing, getErr := s.client.HGet(ctx, rk, "request_hash").Result()
		if getErr != nil && getErr != redis.Nil {
			return getErr
		}
		if existing != requestHash {
			return domain.ErrIdempotencyConflict
		}
		return nil
	}
	_, err = s.client.TxPipelined(ctx, func(p redis.Pipeliner) error {
		p.HSet(ctx, rk, "expires_at", expiresAt.Unix())
		p.ExpireAt(ctx, rk, expiresAt)
		return nil
	})
	return err
}

func (s *RedisIdempotencyStore) Complete(ctx context.Context, key string, responseCode int, responseBody []byte, _ time.Time) error {
	return s.client.HSet(ctx, redisKey(key),
		"response_code", responseCode,
		"response_body", string(responseBody),
	).Err()
}
