package cache

import (
	"context"
	"encoding/json"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/salonspace/booking-api/internal/config"
	"github.com/salonspace/booking-api/internal/models"
)

const serviceListKey = "services:list"

// ServiceCache keeps the public service catalog in Redis. A nil
// *ServiceCache is valid and turns every operation into a no-op, so
// callers never branch on whether caching is configured.
type ServiceCache struct {
	client *redis.Client
	ttl    time.Duration
}

func NewClient(cfg *config.Config) *redis.Client {
	if cfg.RedisAddr == "" {
		return nil
	}
	return redis.NewClient(&redis.Options{
		Addr:     cfg.RedisAddr,
		Password: cfg.RedisPassword,
	})
}

func NewServiceCache(client *redis.Client, ttl time.Duration) *ServiceCache {
	if client == nil {
		return nil
	}
	return &ServiceCache{client: client, ttl: ttl}
}

func (c *ServiceCache) GetList(ctx context.Context) ([]models.Service, bool) {
	if c == nil {
		return nil, false
	}

	val, err := c.client.Get(ctx, serviceListKey).Result()
	if err != nil {
		return nil, false
	}

	var services []models.Service
	if err := json.Unmarshal([]byte(val), &services); err != nil {
		return nil, false
	}
	return services, true
}

func (c *ServiceCache) SetList(ctx context.Context, services []models.Service) {
	if c == nil {
		return
	}

	data, err := json.Marshal(services)
	if err != nil {
		return
	}
	_ = c.client.Set(ctx, serviceListKey, data, c.ttl).Err()
}

// Invalidate drops the cached catalog after an admin write.
func (c *ServiceCache) Invalidate(ctx context.Context) {
	if c == nil {
		return
	}
	_ = c.client.Del(ctx, serviceListKey).Err()
}
