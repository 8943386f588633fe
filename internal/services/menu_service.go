package services

import (
	"context"
	"encoding/json"
	"fmt"
	"log"
	"time"

	"storefront-service/internal/infra"

	"github.com/go-redis/redis/v8"
	"golang.org/x/sync/singleflight"
)

const productCacheTTL = time.Minute

// MenuService fronts the catalog backend with a redis cache. Concurrent
// lookups for the same product collapse into one upstream call.
type MenuService struct {
	client      infra.MenuClientInterface
	redisClient *redis.Client
	group       singleflight.Group
}

func NewMenuService(client infra.MenuClientInterface) *MenuService {
	return &MenuService{client: client}
}

func (s *MenuService) SetRedisClient(client *redis.Client) {
	s.redisClient = client
}

func (s *MenuService) GetProduct(ctx context.Context, productID uint64) (*infra.ProductInfo, error) {
	cacheKey := fmt.Sprintf("product:%d", productID)

	if s.redisClient != nil {
		cached, err := s.redisClient.Get(ctx, cacheKey).Result()
		if err == nil {
			var p infra.ProductInfo
			if err := json.Unmarshal([]byte(cached), &p); err == nil {
				return &p, nil
			}
		}
	}

	v, err, _ := s.group.Do(cacheKey, func() (interface{}, error) {
		p, err := s.client.GetProductByID(ctx, productID)
		if err != nil {
			return nil, err
		}

		if s.redisClient != nil && p != nil {
			if data, err := json.Marshal(p); err == nil {
				s.redisClient.Set(ctx, cacheKey, data, productCacheTTL)
			}
		}
		return p, nil
	})
	if err != nil {
		return nil, err
	}

	p, _ := v.(*infra.ProductInfo)
	return p, nil
}

// WarmupCache preloads the most-ordered products at startup.
func (s *MenuService) WarmupCache(ctx context.Context, productIDs []uint64) error {
	if s.redisClient == nil {
		return nil
	}

	for _, id := range productIDs {
		p, err := s.client.GetProductByID(ctx, id)
		if err != nil {
			log.Printf("menu: failed to warm up cache for product %d: %v", id, err)
			continue
		}

		if p != nil {
			cacheKey := fmt.Sprintf("product:%d", id)
			if data, err := json.Marshal(p); err == nil {
				s.redisClient.Set(ctx, cacheKey, data, 5*time.Minute)
			}
		}
	}

	return nil
}
