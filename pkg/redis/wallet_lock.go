package redis

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"
)

// WalletLockStore serializes transfers per source wallet. Two transfers
// from the same wallet must never verify funds against the same stale
// balance, so the funds-verification-through-broadcast window runs under
// a short redis lease keyed by the wallet address.
type WalletLockStore struct {
	client *redis.Client
	ttl    time.Duration
}

// NewWalletLockStore creates a lock store with the given lease TTL.
// The TTL caps how long a crashed holder can block a wallet.
func NewWalletLockStore(client *redis.Client, ttl time.Duration) *WalletLockStore {
	if ttl <= 0 {
		ttl = 30 * time.Second
	}
	return &WalletLockStore{client: client, ttl: ttl}
}

// releaseScript deletes the key only when it still holds our token, so a
// lease that expired and was re-acquired elsewhere is never released by us.
var releaseScript = redis.NewScript(`
if redis.call("get", KEYS[1]) == ARGV[1] then
	return redis.call("del", KEYS[1])
end
return 0
`)

// Acquire takes the per-wallet lock. It returns false when another
// transfer already holds it; the caller should surface a conflict rather
// than wait.
func (s *WalletLockStore) Acquire(ctx context.Context, walletAddress string) (token string, acquired bool, err error) {
	token = uuid.New().String()
	ok, err := s.client.SetNX(ctx, s.key(walletAddress), token, s.ttl).Result()
	if err != nil {
		return "", false, err
	}
	return token, ok, nil
}

// Release frees the lock if token still owns it.
func (s *WalletLockStore) Release(ctx context.Context, walletAddress, token string) error {
	return releaseScript.Run(ctx, s.client, []string{s.key(walletAddress)}, token).Err()
}

func (s *WalletLockStore) key(walletAddress string) string {
	return "transfer_lock:" + walletAddress
}
