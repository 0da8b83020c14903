package caching

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"salepoint/internal/models"

	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"
)

// ErrCacheMiss is returned when no cached value exists for the key.
var ErrCacheMiss = errors.New("cache miss")

// CacheService is a read-through cache for product lookups. Keys are
// namespaced by tenant so invalidation never crosses tenant boundaries.
type CacheService interface {
	GetProduct(ctx context.Context, tenantID, productID uuid.UUID) (*models.Product, error)
	SetProduct(ctx context.Context, product *models.Product, ttl time.Duration) error
	DeleteProduct(ctx context.Context, tenantID, productID uuid.UUID) error
	InvalidateTenant(ctx context.Context, tenantID uuid.UUID) error
}

type redisCacheService struct {
	client *redis.Client
}

func NewRedisCacheService(addr, password string, db int) CacheService {
	client := redis.NewClient(&redis.Options{
		Addr:     addr,
		Password: password,
		DB:       db,
	})
	return &redisCacheService{client: client}
}

func productKey(tenantID, productID uuid.UUID) string {
	return fmt.Sprintf("tenant:%s:product:%s", tenantID, productID)
}

func (c *redisCacheService) GetProduct(ctx context.Context, tenantID, productID uuid.UUID) (*models.Product, error) {
	data, err := c.client.Get(ctx, productKey(tenantID, productID)).Bytes()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return nil, ErrCacheMiss
		}
		return nil, err
	}
	product := &models.Product{}
	if err := json.Unmarshal(data, product); err != nil {
		return nil, err
	}
	return product, nil
}

func (c *redisCacheService) SetProduct(ctx context.Context, product *models.Product, ttl time.Duration) error {
	data, err := json.Marshal(product)
	if err != nil {
		return err
	}
	return c.client.Set(ctx, productKey(product.TenantID, product.ID), data, ttl).Err()
}

func (c *redisCacheService) DeleteProduct(ctx context.Context, tenantID, productID uuid.UUID) error {
	return c.client.Del(ctx, productKey(tenantID, productID)).Err()
}

func (c *redisCacheService) InvalidateTenant(ctx context.Context, tenantID uuid.UUID) error {
	pattern := fmt.Sprintf("tenant:%s:*", tenantID)
	iter := c.client.Scan(ctx, 0, pattern, 100).Iterator()
	var keys []string
	for iter.Next(ctx) {
		keys = append(keys, iter.Val())
	}
	if err := iter.Err(); err != nil {
		return err
	}
	if len(keys) == 0 {
		return nil
	}
	return c.client.Del(ctx, keys...).Err()
}
