package redis

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/trace"
	"golang.org/x/sync/singleflight"

	"genlog-api/pkg/logger"
	"genlog-api/pkg/metrics"
)

var cacheTracer = otel.Tracer("redis.cache")

// Cache 缓存服务
type Cache struct {
	client *Client
	group  singleflight.Group
}

// NewCache 创建缓存服务
func NewCache(client *Client) *Cache {
	return &Cache{
		client: client,
	}
}

// GetOrLoadSafe 读穿缓存，singleflight 合并同键的并发回源；hit 表示命中缓存
func (c *Cache) GetOrLoadSafe(ctx context.Context, key string, ttl time.Duration, loader func(ctx context.Context) (any, error)) (data []byte, hit bool, err error) {
	ctx, span := cacheTracer.Start(ctx, "cache.GetOrLoadSafe",
		trace.WithAttributes(attribute.String("cache.key", key)))
	defer span.End()

	val, err := c.client.rdb.Get(ctx, key).Bytes()
	if err == nil {
		span.SetAttributes(attribute.Bool("cache.hit", true))
		return val, true, nil
	}
	if err != redis.Nil {
		// 缓存不可用时直接回源
		span.RecordError(err)
		logger.Warn(ctx, "cache read failed, falling back to loader", "key", key, "error", err.Error())
	}

	span.SetAttributes(attribute.Bool("cache.hit", false))

	result, err, shared := c.group.Do(key, func() (any, error) {
		loaded, err := loader(ctx)
		if err != nil {
			return nil, err
		}

		bytes, err := json.Marshal(loaded)
		if err != nil {
			return nil, fmt.Errorf("failed to marshal data: %w", err)
		}

		if err := c.client.rdb.Set(ctx, key, bytes, ttl).Err(); err != nil {
			logger.Warn(ctx, "cache write failed", "key", key, "error", err.Error())
		}
		return bytes, nil
	})
	span.SetAttributes(attribute.Bool("cache.shared", shared))

	if err != nil {
		span.RecordError(err)
		return nil, false, err
	}
	return result.([]byte), false, nil
}

// Delete 删除缓存
func (c *Cache) Delete(ctx context.Context, keys ...string) error {
	ctx, span := cacheTracer.Start(ctx, "cache.Delete",
		trace.WithAttributes(attribute.Int("cache.key_count", len(keys))))
	defer span.End()

	return c.client.rdb.Del(ctx, keys...).Err()
}

// 筛选项种类
const (
	OptionModels = "models"
	OptionTags   = "tags"
)

// OptionCache 应用维度的筛选项缓存
type OptionCache struct {
	cache *Cache
	ttl   time.Duration
}

// NewOptionCache 创建筛选项缓存
func NewOptionCache(cache *Cache, ttl time.Duration) *OptionCache {
	if ttl <= 0 {
		ttl = 5 * time.Minute
	}
	return &OptionCache{cache: cache, ttl: ttl}
}

// Strings 读取某类筛选项，未命中时调用 load
func (c *OptionCache) Strings(ctx context.Context, appID, kind string, load func(ctx context.Context) ([]string, error)) ([]string, error) {
	data, hit, err := c.cache.GetOrLoadSafe(ctx, BuildOptionKey(appID, kind), c.ttl, func(ctx context.Context) (any, error) {
		values, err := load(ctx)
		if err != nil {
			return nil, err
		}
		if values == nil {
			values = []string{}
		}
		return values, nil
	})
	if err != nil {
		return nil, err
	}

	result := "miss"
	if hit {
		result = "hit"
	}
	metrics.CacheRequests.WithLabelValues(kind, result).Inc()

	var values []string
	if err := json.Unmarshal(data, &values); err != nil {
		return nil, fmt.Errorf("failed to decode cached %s: %w", kind, err)
	}
	return values, nil
}

// Invalidate 清除应用下全部筛选项
func (c *OptionCache) Invalidate(ctx context.Context, appID string) error {
	return c.cache.Delete(ctx, BuildOptionKey(appID, OptionModels), BuildOptionKey(appID, OptionTags))
}

// BuildOptionKey 构建筛选项缓存键
func BuildOptionKey(appID, kind string) string {
	return fmt.Sprintf("genlog:options:%s:%s", appID, kind)
}
