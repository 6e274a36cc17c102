package redis

import (
	"context"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
)

// LockStore handles distributed locking in Redis.
type LockStore struct {
	client *redis.Client
}

// NewLockStore creates a new LockStore.
func NewLockStore(client *redis.Client) *LockStore {
	return &LockStore{client: client}
}

// AcquirePlanLock attempts to acquire a lock for the given savings plan.
// Returns true if the lock was acquired, false if already held.
func (s *LockStore) AcquirePlanLock(ctx context.Context, planID string, ttl time.Duration) (bool, error) {
	key := fmt.Sprintf("lock:plan:%s", planID)

	ok, err := s.client.SetNX(ctx, key, "1", ttl).Result()
	if err != nil {
		return false, err
	}
	return ok, nil
}

// ReleasePlanLock releases the lock for the given savings plan.
func (s *LockStore) ReleasePlanLock(ctx context.Context, planID string) error {
	key := fmt.Sprintf("lock:plan:%s", planID)

	return s.client.Del(ctx, key).Err()
}

// AcquireBonusLock attempts to acquire the driver's bonus claim lock for the
// given day. Returns true if the lock was acquired, false if already held.
func (s *LockStore) AcquireBonusLock(ctx context.Context, driverID string, day time.Time, ttl time.Duration) (bool, error) {
	key := fmt.Sprintf("lock:bonus:%s:%s", driverID, day.Format("2006-01-02"))

	ok, err := s.client.SetNX(ctx, key, "1", ttl).Result()
	if err != nil {
		return false, err
	}
	return ok, nil
}

// ReleaseBonusLock releases the driver's bonus claim lock for the given day.
func (s *LockStore) ReleaseBonusLock(ctx context.Context, driverID string, day time.Time) error {
	key := fmt.Sprintf("lock:bonus:%s:%s", driverID, day.Format("2006-01-02"))

	return s.client.Del(ctx, key).Err()
}
