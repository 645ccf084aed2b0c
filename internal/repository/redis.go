package repository

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"caravanshare/internal/config"
	"caravanshare/internal/models"

	"github.com/redis/go-redis/v9"
)

const (
	lookupKeyPrefix    = "reservation_lookup:"
	rateLimitKeyPrefix = "rate_limit:"
)

// RedisLookupCache хранит снимки бронирований для анонимного просмотра.
type RedisLookupCache struct {
	client *redis.Client
	ttl    time.Duration
}

// NewRedisClient создает новый клиент Redis на основе конфигурации
func NewRedisClient(cfg config.RedisConfig) *redis.Client {
	options := &redis.Options{
		Addr:     cfg.Address,
		Password: cfg.Password,
		DB:       cfg.DB,
		PoolSize: cfg.PoolSize,
	}

	return redis.NewClient(options)
}

func NewRedisLookupCache(client *redis.Client, ttl time.Duration) *RedisLookupCache {
	return &RedisLookupCache{
		client: client,
		ttl:    ttl,
	}
}

// GetReservation returns nil without error on a cache miss.
func (r *RedisLookupCache) GetReservation(ctx context.Context, id string) (*models.Reservation, error) {
	if r.client == nil {
		return nil, fmt.Errorf("redis client is nil")
	}
	val, err := r.client.Get(ctx, lookupKeyPrefix+id).Bytes()
	if errors.Is(err, redis.Nil) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get reservation from redis: %w", err)
	}

	var reservation models.Reservation
	if err := json.Unmarshal(val, &reservation); err != nil {
		return nil, fmt.Errorf("failed to unmarshal reservation: %w", err)
	}

	return &reservation, nil
}

func (r *RedisLookupCache) SetReservation(ctx context.Context, reservation *models.Reservation) error {
	if r.client == nil {
		return fmt.Errorf("redis client is nil")
	}
	data, err := json.Marshal(reservation)
	if err != nil {
		return fmt.Errorf("failed to marshal reservation: %w", err)
	}

	if err := r.client.Set(ctx, lookupKeyPrefix+reservation.ID, data, r.ttl).Err(); err != nil {
		return fmt.Errorf("failed to set reservation in redis: %w", err)
	}

	return nil
}

func (r *RedisLookupCache) Invalidate(ctx context.Context, id string) error {
	if r.client == nil {
		return fmt.Errorf("redis client is nil")
	}
	if err := r.client.Del(ctx, lookupKeyPrefix+id).Err(); err != nil {
		return fmt.Errorf("failed to delete reservation from redis: %w", err)
	}
	return nil
}

// CheckRateLimit is a fixed-window counter: the window starts with the first hit.
func (r *RedisLookupCache) CheckRateLimit(ctx context.Context, key string, limit int, window time.Duration) (bool, error) {
	if r.client == nil {
		return false, fmt.Errorf("redis client is nil")
	}
	redisKey := rateLimitKeyPrefix + key
	count, err := r.client.Incr(ctx, redisKey).Result()
	if err != nil {
		return false, fmt.Errorf("failed to increment rate limit: %w", err)
	}

	if count == 1 {
		if err := r.client.Expire(ctx, redisKey, window).Err(); err != nil {
			return false, fmt.Errorf("failed to set rate limit window: %w", err)
		}
	}

	return count <= int64(limit), nil
}

// Ping проверяет соединение с Redis
func Ping(ctx context.Context, client *redis.Client) error {
	_, err := client.Ping(ctx).Result()
	if err != nil {
		return fmt.Errorf("failed to ping Redis: %w", err)
	}
	return nil
}

// Close закрывает соединение с Redis
func Close(client *redis.Client) error {
	if client != nil {
		return client.Close()
	}
	return nil
}
