package job

import (
	"FitTracker/internal/pkg/consts"
	"FitTracker/internal/pkg/logger"
	"FitTracker/internal/pkg/redis"
	"FitTracker/internal/service"
	"context"
	log "log/slog"
	"time"
)

// PurgeJob 清理超过保留期的去重记录
type PurgeJob struct {
	summarySvc    service.DailySummaryService
	store         redis.Store
	retentionDays int
	now           func() time.Time
}

func NewPurgeJob(summarySvc service.DailySummaryService, store redis.Store, retentionDays int) *PurgeJob {
	return &PurgeJob{
		summarySvc:    summarySvc,
		store:         store,
		retentionDays: retentionDays,
		now:           time.Now,
	}
}

func (s *PurgeJob) Run() {
	ctx := logger.WithTrace(context.Background(), "job-purge")
	defer observe("processed_event_purge", time.Now())

	_, err := withLock(ctx, s.store, consts.PurgeLock, time.Hour, true, func() error {
		n, err := s.summarySvc.PurgeProcessed(ctx, s.now(), s.retentionDays)
		if err != nil {
			return err
		}
		log.InfoContext(ctx, "purge processed events success", "deleted", n, "retention_days", s.retentionDays)
		return nil
	})
	if err != nil {
		log.ErrorContext(ctx, "purge processed events error", "err", err)
	}
}
