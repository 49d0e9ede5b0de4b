package repository

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/gharseva/gharseva-api/internal/domain"
	"github.com/redis/go-redis/v9"
)

const directoryKeyPrefix = "directory:"

// RedisDirectoryCache implements domain.DirectoryCache using Redis
type RedisDirectoryCache struct {
	client *redis.Client
}

// NewRedisDirectoryCache creates a new Redis-backed directory cache
func NewRedisDirectoryCache(client *redis.Client) *RedisDirectoryCache {
	return &RedisDirectoryCache{
		client: client,
	}
}

// GetSummaries retrieves a cached result set; a miss returns (nil, nil)
func (r *RedisDirectoryCache) GetSummaries(ctx context.Context, key string) ([]domain.PartnerSummary, error) {
	data, err := r.client.Get(ctx, directoryKeyPrefix+key).Bytes()
	if err != nil {
		if err == redis.Nil {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to get cached directory result: %w", err)
	}

	var summaries []domain.PartnerSummary
	if err := json.Unmarshal(data, &summaries); err != nil {
		return nil, fmt.Errorf("failed to unmarshal cached directory result: %w", err)
	}
	return summaries, nil
}

// SetSummaries caches a result set with TTL
func (r *RedisDirectoryCache) SetSummaries(ctx context.Context, key string, summaries []domain.PartnerSummary, ttl time.Duration) error {
	data, err := json.Marshal(summaries)
	if err != nil {
		return fmt.Errorf("failed to marshal directory result: %w", err)
	}

	if err := r.client.Set(ctx, directoryKeyPrefix+key, data, ttl).Err(); err != nil {
		return fmt.Errorf("failed to cache directory result: %w", err)
	}
	return nil
}
