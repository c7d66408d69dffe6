package utils

import (
	"time"

	"github.com/redis/go-redis/v9"

	"povertymap/internal/logger"
)

// OpenRedisFromEnv：按 REDIS_HOST / REDIS_PORT / REDIS_PASS / REDIS_DB 创建客户端
// 约束：REDIS_DB 非法时回退到 0；超时较短，缓存不可用不应拖慢请求
func OpenRedisFromEnv() *redis.Client {
	addr := envOr("REDIS_HOST", "127.0.0.1") + ":" + envOr("REDIS_PORT", "6379")
	db := envInt("REDIS_DB", 0)
	logger.L().Debug("redis_env", "addr", addr, "db", db)
	return redis.NewClient(&redis.Options{
		Addr:         addr,
		Password:     envOr("REDIS_PASS", ""),
		DB:           db,
		DialTimeout:  2 * time.Second,
		ReadTimeout:  time.Second,
		WriteTimeout: time.Second,
	})
}
