package caching

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"tenantauth/internal/models"

	"github.com/redis/go-redis/v9"
)

// CacheService fronts redis for the two best-effort concerns in this
// service: the tenant-by-slug lookup cache and the login/register rate
// limiter. Neither is a correctness mechanism; callers fail open when redis
// is unreachable.
type CacheService interface {
	GetTenantBySlug(ctx context.Context, slug string) (*models.Tenant, error)
	SetTenantBySlug(ctx context.Context, tenant *models.Tenant, ttl time.Duration) error
	DeleteTenantSlug(ctx context.Context, slug string) error

	IsRateLimited(ctx context.Context, key string, limit int, window time.Duration) (bool, error)

	Close() error
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

func tenantKey(slug string) string {
	return fmt.Sprintf("tenantauth:tenant:slug:%s", slug)
}

func (r *redisCacheService) GetTenantBySlug(ctx context.Context, slug string) (*models.Tenant, error) {
	data, err := r.client.Get(ctx, tenantKey(slug)).Bytes()
	if err != nil {
		if err == redis.Nil {
			return nil, nil // cache miss
		}
		return nil, err
	}

	var tenant models.Tenant
	if err := json.Unmarshal(data, &tenant); err != nil {
		return nil, err
	}
	return &tenant, nil
}

func (r *redisCacheService) SetTenantBySlug(ctx context.Context, tenant *models.Tenant, ttl time.Duration) error {
	data, err := json.Marshal(tenant)
	if err != nil {
		return err
	}
	return r.client.Set(ctx, tenantKey(tenant.Slug), data, ttl).Err()
}

func (r *redisCacheService) DeleteTenantSlug(ctx context.Context, slug string) error {
	return r.client.Del(ctx, tenantKey(slug)).Err()
}

func (r *redisCacheService) IsRateLimited(ctx context.Context, key string, limit int, window time.Duration) (bool, error) {
	cacheKey := fmt.Sprintf("tenantauth:ratelimit:%s", key)
	count, err := r.client.Incr(ctx, cacheKey).Result()
	if err != nil {
		return false, err
	}
	if count == 1 {
		r.client.Expire(ctx, cacheKey, window)
	}
	return count > int64(limit), nil
}

func (r *redisCacheService) Close() error {
	return r.client.Close()
}
