package cache

import (
	"context"
	"encoding/json"
	"time"

	"blink-scheduler/core/config"
	"blink-scheduler/core/constants"
	"blink-scheduler/core/logger"

	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"
)

// ICache is the redis surface the scheduling core needs: a per-enabler
// reconciliation lock and a small workload snapshot cache.
type ICache interface {
	AcquireSyncLock(ctx context.Context, enablerID uuid.UUID) (bool, error)
	ReleaseSyncLock(ctx context.Context, enablerID uuid.UUID) error
	SetWorkloadSnapshot(ctx context.Context, enablerID uuid.UUID, period string, snapshot any, ttl time.Duration) error
	GetWorkloadSnapshot(ctx context.Context, enablerID uuid.UUID, period string, dest any) (bool, error)
	Ping(ctx context.Context) error
}

type Cache struct {
	client *redis.Client
}

func New(cfg config.RedisConfig) *Cache {
	client := redis.NewClient(&redis.Options{
		Addr:     cfg.Addr,
		Password: cfg.Password,
		DB:       cfg.DB,
	})
	return &Cache{client: client}
}

func (c *Cache) Ping(ctx context.Context) error {
	return c.client.Ping(ctx).Err()
}

// AcquireSyncLock serializes calendar reconciliation per enabler. Returns
// false when another run already holds the lock.
func (c *Cache) AcquireSyncLock(ctx context.Context, enablerID uuid.UUID) (bool, error) {
	key := constants.RedisKeyCalendarSyncLock + enablerID.String()
	ok, err := c.client.SetNX(ctx, key, time.Now().UTC().Format(time.RFC3339),
		constants.CalendarSyncLockTTLSeconds*time.Second).Result()
	if err != nil {
		logger.Error("Cache:AcquireSyncLock:Error", "enabler_id", enablerID, "error", err)
		return false, err
	}
	return ok, nil
}

func (c *Cache) ReleaseSyncLock(ctx context.Context, enablerID uuid.UUID) error {
	key := constants.RedisKeyCalendarSyncLock + enablerID.String()
	if err := c.client.Del(ctx, key).Err(); err != nil {
		logger.Error("Cache:ReleaseSyncLock:Error", "enabler_id", enablerID, "error", err)
		return err
	}
	return nil
}

func (c *Cache) SetWorkloadSnapshot(ctx context.Context, enablerID uuid.UUID, period string, snapshot any, ttl time.Duration) error {
	key := constants.RedisKeyWorkloadSnapshot + enablerID.String() + ":" + period
	data, err := json.Marshal(snapshot)
	if err != nil {
		return err
	}
	return c.client.Set(ctx, key, data, ttl).Err()
}

func (c *Cache) GetWorkloadSnapshot(ctx context.Context, enablerID uuid.UUID, period string, dest any) (bool, error) {
	key := constants.RedisKeyWorkloadSnapshot + enablerID.String() + ":" + period
	data, err := c.client.Get(ctx, key).Bytes()
	if err == redis.Nil {
		return false, nil
	}
	if err != nil {
		return false, err
	}
	return true, json.Unmarshal(data, dest)
}
