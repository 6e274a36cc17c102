package redis

import (
	"context"
	"time"
)

// LockStoreInterface defines the interface for distributed locking.
type LockStoreInterface interface {
	AcquirePlanLock(ctx context.Context, planID string, ttl time.Duration) (bool, error)
	ReleasePlanLock(ctx context.Context, planID string) error
	AcquireBonusLock(ctx context.Context, driverID string, day time.Time, ttl time.Duration) (bool, error)
	ReleaseBonusLock(ctx context.Context, driverID string, day time.Time) error
}

// WalletCacheInterface defines the interface for wallet caching.
type WalletCacheInterface interface {
	GetWallet(ctx context.Context, userID string) (*CachedWallet, error)
	SetWallet(ctx context.Context, wallet *CachedWallet) error
	InvalidateWallet(ctx context.Context, userID string) error
}

// Ensure concrete types implement interfaces.
var (
	_ LockStoreInterface   = (*LockStore)(nil)
	_ WalletCacheInterface = (*CacheStore)(nil)
)
