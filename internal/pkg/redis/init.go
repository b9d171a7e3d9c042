package redis

import (
	"context"
	"fmt"
	log "log/slog"
	"time"

	"FitTracker/internal/api/config"
	"FitTracker/internal/pkg/logger"

	"github.com/redis/go-redis/v9"
	"github.com/redis/go-redis/v9/maintnotifications"
)

// Rdb 进程内共享的客户端，用于任务锁、脏日期集合和看板缓存
var Rdb *redis.Client

// InitRedis 连接 Redis，启动阶段 Ping 不通即失败
func InitRedis(cfg config.RedisConfig) error {
	rdb := redis.NewClient(&redis.Options{
		Addr:     cfg.Addr,
		Password: cfg.Password,
		DB:       cfg.DB,
		PoolSize: cfg.PoolSize,

		MaintNotificationsConfig: &maintnotifications.Config{
			Mode: maintnotifications.ModeDisabled,
		},
	})
	rdb.AddHook(logger.NewRedisLogger())

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := rdb.Ping(ctx).Err(); err != nil {
		_ = rdb.Close()
		return fmt.Errorf("redis ping %s: %w", cfg.Addr, err)
	}

	log.Info("Redis connection established", "addr", cfg.Addr, "db", cfg.DB)
	Rdb = rdb
	return nil
}
