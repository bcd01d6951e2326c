package cache

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/abdeldjalilBenchabane/aero-nexus-control-sub000/config"
	"github.com/abdeldjalilBenchabane/aero-nexus-control-sub000/internal/domain"
	"github.com/redis/go-redis/v9"
)

type RedisCache struct {
	client       *redis.Client
	resourcesTTL time.Duration
}

func NewRedisCache(cfg config.RedisConfig, resourcesTTL time.Duration) *RedisCache {
	return &RedisCache{
		client:       redis.NewClient(&redis.Options{Addr: cfg.Addr, Password: cfg.Password, DB: cfg.DB}),
		resourcesTTL: resourcesTTL,
	}
}

func (c *RedisCache) GetResources(ctx context.Context, kind domain.ResourceKind) ([]domain.Resource, error) {
	data, err := c.client.Get(ctx, resourcesKey(kind)).Bytes()
	if err != nil {
		if err == redis.Nil {
			return nil, nil
		}
		return nil, err
	}

	var resources []domain.Resource
	if err := json.Unmarshal(data, &resources); err != nil {
		return nil, err
	}
	return resources, nil
}

func (c *RedisCache) SetResources(ctx context.Context, kind domain.ResourceKind, resources []domain.Resource) error {
	payload, err := json.Marshal(resources)
	if err != nil {
		return err
	}
	return c.client.Set(ctx, resourcesKey(kind), payload, c.resourcesTTL).Err()
}

// AcquireResourceLock takes a short-lived SetNX lock on one resource so a
// single process instance serializes its own assign attempts before the
// database transaction runs. The row lock inside the transaction remains
// the authoritative guard.
func (c *RedisCache) AcquireResourceLock(ctx context.Context, kind domain.ResourceKind, resourceID int64, ttl time.Duration) (bool, error) {
	return c.client.SetNX(ctx, resourceLockKey(kind, resourceID), "locked", ttl).Result()
}

func (c *RedisCache) ReleaseResourceLock(ctx context.Context, kind domain.ResourceKind, resourceID int64) error {
	return c.client.Del(ctx, resourceLockKey(kind, resourceID)).Err()
}

func (c *RedisCache) AcquireSeatLock(ctx context.Context, flightID int64, seat int, ttl time.Duration) (bool, error) {
	return c.client.SetNX(ctx, seatLockKey(flightID, seat), "locked", ttl).Result()
}

func (c *RedisCache) ReleaseSeatLock(ctx context.Context, flightID int64, seat int) error {
	return c.client.Del(ctx, seatLockKey(flightID, seat)).Err()
}

func resourcesKey(kind domain.ResourceKind) string {
	return fmt.Sprintf("cache:resources:%s", kind)
}

func resourceLockKey(kind domain.ResourceKind, resourceID int64) string {
	return fmt.Sprintf("lock:%s:%d", kind, resourceID)
}

func seatLockKey(flightID int64, seat int) string {
	return fmt.Sprintf("lock:flight:%d:seat:%d", flightID, seat)
}
