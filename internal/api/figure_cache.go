package api

import (
	"context"
	"encoding/json"
	"errors"
	"time"

	"github.com/redis/go-redis/v9"

	"povertymap/internal/figure"
	"povertymap/internal/logger"
)

// 文档注释：Redis 地图缓存
// 约束：底表只读，同一条件的渲染结果恒定，缓存仅受 TTL 约束；Redis 异常视为未命中
type RedisFigureCache struct {
	rc  *redis.Client
	ttl time.Duration
}

func NewRedisFigureCache(rc *redis.Client, ttl time.Duration) *RedisFigureCache {
	if ttl <= 0 {
		ttl = time.Hour
	}
	return &RedisFigureCache{rc: rc, ttl: ttl}
}

func (c *RedisFigureCache) Get(ctx context.Context, key string) (*figure.Figure, bool) {
	if c == nil || c.rc == nil {
		return nil, false
	}
	s, err := c.rc.Get(ctx, key).Result()
	if err != nil {
		if !errors.Is(err, redis.Nil) {
			logger.L().Debug("figure_cache_get_error", "key", key, "err", err)
		}
		return nil, false
	}
	var f figure.Figure
	if err := json.Unmarshal([]byte(s), &f); err != nil {
		logger.L().Debug("figure_cache_decode_error", "key", key, "err", err)
		return nil, false
	}
	return &f, true
}

func (c *RedisFigureCache) Set(ctx context.Context, key string, f *figure.Figure) {
	if c == nil || c.rc == nil || f == nil {
		return
	}
	b, err := json.Marshal(f)
	if err != nil {
		return
	}
	if err := c.rc.Set(ctx, key, b, c.ttl).Err(); err != nil {
		logger.L().Debug("figure_cache_set_error", "key", key, "err", err)
	}
}
