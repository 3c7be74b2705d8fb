package caching

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"

	"gastronom/internal/models"
)

// CacheService is a read-through cache for catalog entities. A miss is
// (nil, nil); cache failures must never fail the read path, callers log
// and fall through to the database.
type CacheService interface {
	GetProduct(ctx context.Context, id uuid.UUID) (*models.Product, error)
	SetProduct(ctx context.Context, product *models.Product, ttl time.Duration) error
	DeleteProduct(ctx context.Context, id uuid.UUID) error

	GetCategory(ctx context.Context, id uuid.UUID) (*models.Category, error)
	SetCategory(ctx context.Context, category *models.Category, ttl time.Duration) error
	DeleteCategory(ctx context.Context, id uuid.UUID) error

	InvalidateCatalog(ctx context.Context) error
	Ping(ctx context.Context) error
}

type redisCacheService struct {
	client *redis.Client
}

func NewRedisCacheService(addr, password string, db int) CacheService {
	// Accept redis:// style addresses as well as bare host:port.
	if after, ok := strings.CutPrefix(addr, "redis://"); ok {
		addr = after
	} else if after, ok := strings.CutPrefix(addr, "rediss://"); ok {
		addr = after
	}

	client := redis.NewClient(&redis.Options{
		Addr:     addr,
		Password: password,
		DB:       db,
	})
	return &redisCacheService{client: client}
}

func productKey(id uuid.UUID) string {
	return fmt.Sprintf("catalog:product:%s", id)
}

func categoryKey(id uuid.UUID) string {
	return fmt.Sprintf("catalog:category:%s", id)
}

func (s *redisCacheService) GetProduct(ctx context.Context, id uuid.UUID) (*models.Product, error) {
	data, err := s.client.Get(ctx, productKey(id)).Bytes()
	if errors.Is(err, redis.Nil) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	product := &models.Product{}
	if err := json.Unmarshal(data, product); err != nil {
		// Stale or corrupt entry, drop it and treat as a miss.
		zap.S().Warnw("dropping undecodable cache entry", "key", productKey(id), "error", err)
		s.client.Del(ctx, productKey(id))
		return nil, nil
	}
	return product, nil
}

func (s *redisCacheService) SetProduct(ctx context.Context, product *models.Product, ttl time.Duration) error {
	data, err := json.Marshal(product)
	if err != nil {
		return err
	}
	return s.client.Set(ctx, productKey(product.ID), data, ttl).Err()
}

func (s *redisCacheService) DeleteProduct(ctx context.Context, id uuid.UUID) error {
	return s.client.Del(ctx, productKey(id)).Err()
}

func (s *redisCacheService) GetCategory(ctx context.Context, id uuid.UUID) (*models.Category, error) {
	data, err := s.client.Get(ctx, categoryKey(id)).Bytes()
	if errors.Is(err, redis.Nil) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	category := &models.Category{}
	if err := json.Unmarshal(data, category); err != nil {
		zap.S().Warnw("dropping undecodable cache entry", "key", categoryKey(id), "error", err)
		s.client.Del(ctx, categoryKey(id))
		return nil, nil
	}
	return category, nil
}

func (s *redisCacheService) SetCategory(ctx context.Context, category *models.Category, ttl time.Duration) error {
	data, err := json.Marshal(category)
	if err != nil {
		return err
	}
	return s.client.Set(ctx, categoryKey(category.ID), data, ttl).Err()
}

func (s *redisCacheService) DeleteCategory(ctx context.Context, id uuid.UUID) error {
	return s.client.Del(ctx, categoryKey(id)).Err()
}

// InvalidateCatalog drops every catalog entry. Used after a sync batch so
// storefront reads pick up fresh prices and stock.
func (s *redisCacheService) InvalidateCatalog(ctx context.Context) error {
	iter := s.client.Scan(ctx, 0, "catalog:*", 100).Iterator()
	var keys []string
	for iter.Next(ctx) {
		keys = append(keys, iter.Val())
		if len(keys) == 100 {
			if err := s.client.Del(ctx, keys...).Err(); err != nil {
				return err
			}
			keys = keys[:0]
		}
	}
	if err := iter.Err(); err != nil {
		return err
	}
	if len(keys) > 0 {
		return s.client.Del(ctx, keys...).Err()
	}
	return nil
}

func (s *redisCacheService) Ping(ctx context.Context) error {
	return s.client.Ping(ctx).Err()
}
