package job

import (
	"FitTracker/internal/pkg/metrics"
	"FitTracker/internal/pkg/redis"
	"context"
	log "log/slog"
	"time"

	"github.com/google/uuid"
)

// withLock 抢到锁才执行 fn，多副本下同一任务只有一个实例运行
// release 为 false 时锁保留到过期，同一周期内其他副本不会再执行
func withLock(ctx context.Context, store redis.Store, key string, ttl time.Duration, release bool, fn func() error) (bool, error) {
	token := uuid.NewString()
	ok, err := store.TryLock(ctx, key, token, ttl, 1)
	if err != nil {
		return false, err
	}
	if !ok {
		log.InfoContext(ctx, "job lock held by another instance", "key", key)
		return false, nil
	}
	if release {
		defer store.UnLock(context.WithoutCancel(ctx), key, token)
	}
	return true, fn()
}

func observe(job string, start time.Time) {
	metrics.JobDuration.WithLabelValues(job).Observe(time.Since(start).Seconds())
}
