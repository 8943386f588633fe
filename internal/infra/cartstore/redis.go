package cartstore

import (
	"context"
	"encoding/json"
	"time"

	"storefront-service/internal/domain"
	"storefront-service/internal/infra"

	"github.com/go-redis/redis/v8"
)

// abandonedCartTTL keeps stale guest carts from accumulating forever.
// Every save refreshes it, so an active cart never expires mid-session.
const abandonedCartTTL = 30 * 24 * time.Hour

// RedisStore persists carts as JSON blobs keyed by session id.
type RedisStore struct {
	rdb *redis.Client
}

func NewRedisStore(rdb *redis.Client) *RedisStore {
	return &RedisStore{rdb: rdb}
}

var _ infra.CartStore = (*RedisStore)(nil)

func cartKey(sessionID string) string {
	return "cart:" + sessionID
}

func (s *RedisStore) Load(ctx context.Context, sessionID string) (*domain.Cart, error) {
	b, err := s.rdb.Get(ctx, cartKey(sessionID)).Bytes()
	if err == redis.Nil {
		return &domain.Cart{}, nil
	}
	if err != nil {
		return nil, err
	}

	var cart domain.Cart
	if err := json.Unmarshal(b, &cart); err != nil {
		return nil, err
	}
	return &cart, nil
}

func (s *RedisStore) Save(ctx context.Context, sessionID string, cart *domain.Cart) error {
	b, err := json.Marshal(cart)
	if err != nil {
		return err
	}
	return s.rdb.Set(ctx, cartKey(sessionID), b, abandonedCartTTL).Err()
}

func (s *RedisStore) Delete(ctx context.Context, sessionID string) error {
	return s.rdb.Del(ctx, cartKey(sessionID)).Err()
}
