package services

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/automac/dealership-backend/internal/inventory"
)

var RedisClient *redis.Client

const facetCacheKey = "inventory:facets"
const facetCacheTTL = time.Minute

// InitRedis initializes the Redis client. Redis is optional; when it is not
// reachable the listing endpoints fall back to computing facets per request.
func InitRedis(redisURL string) error {
	if redisURL == "" {
		redisURL = "redis://redis:6379" // Default Redis address for Docker
	}

	opt, err := redis.ParseURL(redisURL)
	if err != nil {
		return fmt.Errorf("failed to parse Redis URL: %v", err)
	}

	RedisClient = redis.NewClient(opt)

	// Test the connection
	ctx := context.Background()
	_, err = RedisClient.Ping(ctx).Result()
	if err != nil {
		RedisClient = nil
		return fmt.Errorf("failed to connect to Redis: %v", err)
	}

	return nil
}

// GetCachedFacets retrieves the inventory facet metadata from Redis.
func GetCachedFacets(ctx context.Context) (*inventory.Facets, error) {
	if RedisClient == nil {
		return nil, redis.Nil
	}

	data, err := RedisClient.Get(ctx, facetCacheKey).Result()
	if err != nil {
		return nil, err
	}

	var facets inventory.Facets
	if err := json.Unmarshal([]byte(data), &facets); err != nil {
		return nil, err
	}

	return &facets, nil
}

// SetCachedFacets stores the facet metadata with a short TTL.
func SetCachedFacets(ctx context.Context, facets *inventory.Facets) error {
	if RedisClient == nil {
		return nil
	}

	data, err := json.Marshal(facets)
	if err != nil {
		return err
	}

	return RedisClient.Set(ctx, facetCacheKey, data, facetCacheTTL).Err()
}

// InvalidateFacets drops the cached facets after any car write so listings
// never serve stale brand counts for longer than one request.
func InvalidateFacets(ctx context.Context) {
	if RedisClient == nil {
		return
	}
	RedisClient.Del(ctx, facetCacheKey)
}
