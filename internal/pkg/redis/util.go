package redis

import (
	"context"
	"errors"
	"strings"
	"time"

	"github.com/redis/go-redis/v9"
)

// Store 业务层用到的 Redis 操作
type Store interface {
	GetValue(ctx context.Context, key string) (string, error)
	SetWithExpiration(ctx context.Context, key string, value interface{}, expiration time.Duration) error
	DeleteKey(ctx context.Context, keys ...string) error
	TryLock(ctx context.Context, key string, value interface{}, expiration time.Duration, retryTimes int) (bool, error)
	UnLock(ctx context.Context, key string, value interface{})
	AddToSet(ctx context.Context, key string, members ...string) error
	GetSet(ctx context.Context, key string) ([]string, error)
	Rename(ctx context.Context, oldKey string, newKey string) (bool, error)
	DeleteByPrefix(ctx context.Context, prefix string) (int, error)
}

type clientStore struct {
	rdb *redis.Client
}

// NewStore 基于 go-redis 客户端的 Store
func NewStore(rdb *redis.Client) Store {
	return &clientStore{rdb: rdb}
}

// GetValue 获取字符串类型的值，不存在时返回空串
func (s *clientStore) GetValue(ctx context.Context, key string) (string, error) {
	value, err := s.rdb.Get(ctx, key).Result()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return "", nil
		}
		return "", err
	}
	return value, nil
}

// SetWithExpiration 设置键值对并设置过期时间
func (s *clientStore) SetWithExpiration(ctx context.Context, key string, value interface{}, expiration time.Duration) error {
	return s.rdb.Set(ctx, key, value, expiration).Err()
}

func (s *clientStore) DeleteKey(ctx context.Context, keys ...string) error {
	if len(keys) == 0 {
		return nil
	}
	return s.rdb.Del(ctx, keys...).Err()
}

// TryLock SETNX 加锁，retryTimes 为 -1 时一直重试
func (s *clientStore) TryLock(ctx context.Context, key string, value interface{}, expiration time.Duration, retryTimes int) (bool, error) {
	for i := 0; i < retryTimes || retryTimes == -1; i++ {
		success, err := s.rdb.SetNX(ctx, key, value, expiration).Result()
		if err != nil {
			return false, err
		}
		if success {
			return true, nil
		}
		select {
		case <-ctx.Done():
			return false, ctx.Err()
		case <-time.After(time.Millisecond * 200):
		}
	}
	return false, nil
}

// UnLock 只释放自己持有的锁
func (s *clientStore) UnLock(ctx context.Context, key string, value interface{}) {
	s.rdb.Eval(ctx, "if redis.call('get', KEYS[1]) == ARGV[1] then return redis.call('del', KEYS[1]) else return 0 end", []string{key}, value)
}

func (s *clientStore) AddToSet(ctx context.Context, key string, members ...string) error {
	if len(members) == 0 {
		return nil
	}
	args := make([]interface{}, len(members))
	for i, m := range members {
		args[i] = m
	}
	return s.rdb.SAdd(ctx, key, args...).Err()
}

// GetSet 获取集合
func (s *clientStore) GetSet(ctx context.Context, key string) ([]string, error) {
	return s.rdb.SMembers(ctx, key).Result()
}

// Rename 源键不存在时返回 false, nil
func (s *clientStore) Rename(ctx context.Context, oldKey string, newKey string) (bool, error) {
	err := s.rdb.Rename(ctx, oldKey, newKey).Err()
	if err != nil {
		if strings.Contains(err.Error(), "no such key") {
			return false, nil
		}
		return false, err
	}
	return true, nil
}

// DeleteByPrefix SCAN 匹配前缀后分批删除，返回删除的键数
func (s *clientStore) DeleteByPrefix(ctx context.Context, prefix string) (int, error) {
	iter := s.rdb.Scan(ctx, 0, prefix+"*", 100).Iterator()
	batch := make([]string, 0, 100)
	deleted := 0
	for iter.Next(ctx) {
		batch = append(batch, iter.Val())
		if len(batch) == cap(batch) {
			if err := s.rdb.Del(ctx, batch...).Err(); err != nil {
				return deleted, err
			}
			deleted += len(batch)
			batch = batch[:0]
		}
	}
	if err := iter.Err(); err != nil {
		return deleted, err
	}
	if len(batch) > 0 {
		if err := s.rdb.Del(ctx, batch...).Err(); err != nil {
			return deleted, err
		}
		deleted += len(batch)
	}
	return deleted, nil
}
