package logger

import (
	"context"
	"errors"
	"fmt"
	log "log/slog"
	"net"
	"strings"
	"time"

	"github.com/redis/go-redis/v9"
)

const maxLoggedArgs = 8

// RedisLoggerHook 记录 Redis 错误与慢命令
type RedisLoggerHook struct {
	slow time.Duration
}

func NewRedisLogger() *RedisLoggerHook {
	return &RedisLoggerHook{slow: 100 * time.Millisecond}
}

func (s *RedisLoggerHook) DialHook(next redis.DialHook) redis.DialHook {
	return func(ctx context.Context, network, addr string) (net.Conn, error) {
		start := time.Now()
		conn, err := next(ctx, network, addr)
		if err != nil {
			log.ErrorContext(ctx, "Redis Dial Error", "addr", addr, "latency", time.Since(start), "err", err)
		}
		return conn, err
	}
}

func (s *RedisLoggerHook) ProcessHook(next redis.ProcessHook) redis.ProcessHook {
	return func(ctx context.Context, cmd redis.Cmder) error {
		start := time.Now()
		err := next(ctx, cmd)
		elapsed := time.Since(start)

		switch {
		case err != nil && !expectedRedisError(cmd.Name(), err):
			log.ErrorContext(ctx, "Redis Error",
				"command", cmd.Name(), "args", redisArgs(cmd), "latency", elapsed, "err", err)
		case err == nil && elapsed > s.slow:
			log.WarnContext(ctx, "Redis Slow", "command", cmd.Name(), "args", redisArgs(cmd), "latency", elapsed)
		}
		return err
	}
}

func (s *RedisLoggerHook) ProcessPipelineHook(next redis.ProcessPipelineHook) redis.ProcessPipelineHook {
	return func(ctx context.Context, cmds []redis.Cmder) error {
		start := time.Now()
		err := next(ctx, cmds)
		if err != nil {
			log.ErrorContext(ctx, "Redis Pipeline Error", "cmd_count", len(cmds), "latency", time.Since(start), "err", err)
		}
		return err
	}
}

// expectedRedisError 缓存未命中、脏集合为空时 RENAME 失败都属于正常路径
func expectedRedisError(name string, err error) bool {
	if errors.Is(err, redis.Nil) {
		return true
	}
	msg := err.Error()
	if strings.Contains(msg, "no such key") {
		return true
	}
	return name == "client" && strings.Contains(msg, "setinfo")
}

// redisArgs 隐藏认证参数，脏集合等长参数列表只保留前几个
func redisArgs(cmd redis.Cmder) string {
	switch cmd.Name() {
	case "auth", "hello":
		return "[PROTECTED]"
	}
	args := cmd.Args()
	if len(args) > maxLoggedArgs {
		return fmt.Sprint(args[:maxLoggedArgs]) + fmt.Sprintf("...(+%d)", len(args)-maxLoggedArgs)
	}
	return fmt.Sprint(args)
}
