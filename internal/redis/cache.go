package redis

import (
	"context"
	"encoding/json"
	"time"

	"github.com/redis/go-redis/v9"
)

// CacheStore handles entity caching in Redis.
type CacheStore struct {
	client *redis.Client
}

// NewCacheStore creates a new CacheStore.
func NewCacheStore(client *redis.Client) *CacheStore {
	return &CacheStore{client: client}
}

// Cache TTL constants
const (
	// WalletCacheTTL is short because balances change on every settlement.
	WalletCacheTTL = 10 * time.Second
)

const walletCachePrefix = "cache:wallet:"

// CachedWallet represents a cached wallet entity.
type CachedWallet struct {
	ID            string `json:"id"`
	UserID        string `json:"user_id"`
	AccountNumber string `json:"account_number"`
	Balance       int64  `json:"balance"`
	IsAdmin       bool   `json:"is_admin"`
}

// GetWallet retrieves a wallet from cache keyed by user ID.
// A nil result with nil error is a cache miss.
func (s *CacheStore) GetWallet(ctx context.Context, userID string) (*CachedWallet, error) {
	key := walletCachePrefix + userID
	data, err := s.client.Get(ctx, key).Bytes()
	if err != nil {
		if err == redis.Nil {
			return nil, nil
		}
		return nil, err
	}

	var wallet CachedWallet
	if err := json.Unmarshal(data, &wallet); err != nil {
		return nil, err
	}
	return &wallet, nil
}

// SetWallet stores a wallet in cache keyed by user ID.
func (s *CacheStore) SetWallet(ctx context.Context, wallet *CachedWallet) error {
	data, err := json.Marshal(wallet)
	if err != nil {
		return err
	}

	key := walletCachePrefix + wallet.UserID
	return s.client.Set(ctx, key, data, WalletCacheTTL).Err()
}

// InvalidateWallet removes a wallet from cache.
func (s *CacheStore) InvalidateWallet(ctx context.Context, userID string) error {
	key := walletCachePrefix + userID
	return s.client.Del(ctx, key).Err()
}
