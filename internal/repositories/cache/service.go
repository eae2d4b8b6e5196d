package cache

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"vigil/internal/models"

	"github.com/redis/go-redis/v9"
)

// Window cache TTL is short: trailing windows go stale with every new
// transaction, so the cache only absorbs bursts.
const windowTTL = time.Minute

// Known-device sets are long-lived; a device seen once stays known.
const deviceTTL = 90 * 24 * time.Hour

type CacheService struct {
	client *redis.Client
	ttl    time.Duration
}

func NewCacheService(client *redis.Client, defaultTTL time.Duration) *CacheService {
	return &CacheService{
		client: client,
		ttl:    defaultTTL,
	}
}

// Base operations

func (s *CacheService) Set(ctx context.Context, key string, value interface{}) error {
	return s.SetWithTTL(ctx, key, value, s.ttl)
}

func (s *CacheService) SetWithTTL(ctx context.Context, key string, value interface{}, ttl time.Duration) error {
	data, err := json.Marshal(value)
	if err != nil {
		return fmt.Errorf("failed to marshal cache value: %w", err)
	}
	return s.client.Set(ctx, key, data, ttl).Err()
}

func (s *CacheService) Get(ctx context.Context, key string, dest interface{}) (bool, error) {
	data, err := s.client.Get(ctx, key).Bytes()
	if err != nil {
		if err == redis.Nil {
			return false, nil
		}
		return false, fmt.Errorf("failed to get cache value: %w", err)
	}

	if err := json.Unmarshal(data, dest); err != nil {
		return false, fmt.Errorf("failed to unmarshal cache value: %w", err)
	}
	return true, nil
}

func (s *CacheService) Delete(ctx context.Context, keys ...string) error {
	return s.client.Del(ctx, keys...).Err()
}

// Trailing-window caching

func windowKey(accountID string, window time.Duration) string {
	return fmt.Sprintf("window:%s:%s", accountID, window)
}

// CacheWindow stores an account's trailing transaction window.
func (s *CacheService) CacheWindow(ctx context.Context, accountID string, window time.Duration, txs []models.Transaction) error {
	return s.SetWithTTL(ctx, windowKey(accountID, window), txs, windowTTL)
}

// GetWindow returns a cached trailing window, if present.
func (s *CacheService) GetWindow(ctx context.Context, accountID string, window time.Duration) ([]models.Transaction, bool, error) {
	var txs []models.Transaction
	hit, err := s.Get(ctx, windowKey(accountID, window), &txs)
	return txs, hit, err
}

// InvalidateWindows drops cached windows after a new transaction lands.
func (s *CacheService) InvalidateWindows(ctx context.Context, accountID string) error {
	return s.Delete(ctx,
		windowKey(accountID, 24*time.Hour),
		windowKey(accountID, time.Hour),
	)
}

// Known-device tracking

func deviceSetKey(accountID string) string {
	return fmt.Sprintf("devices:%s", accountID)
}

// IsKnownDevice reports whether the device has been seen on the account.
func (s *CacheService) IsKnownDevice(ctx context.Context, accountID, deviceID string) (bool, error) {
	return s.client.SIsMember(ctx, deviceSetKey(accountID), deviceID).Result()
}

// RememberDevice records the device in the account's known-device set.
func (s *CacheService) RememberDevice(ctx context.Context, accountID, deviceID string) error {
	key := deviceSetKey(accountID)
	if err := s.client.SAdd(ctx, key, deviceID).Err(); err != nil {
		return err
	}
	return s.client.Expire(ctx, key, deviceTTL).Err()
}

// Health and lifecycle

func (s *CacheService) HealthCheck(ctx context.Context) error {
	if err := s.client.Ping(ctx).Err(); err != nil {
		return fmt.Errorf("redis connection failed: %w", err)
	}
	return nil
}

func (s *CacheService) FlushAll(ctx context.Context) error {
	return s.client.FlushAll(ctx).Err()
}

func (s *CacheService) Close() error {
	return s.client.Close()
}

func (s *CacheService) PoolStats() *redis.PoolStats {
	return s.client.PoolStats()
}
