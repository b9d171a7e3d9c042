package job

import (
	"FitTracker/internal/pkg/consts"
	"FitTracker/internal/pkg/logger"
	"FitTracker/internal/pkg/redis"
	"FitTracker/internal/pkg/util"
	"FitTracker/internal/service"
	"context"
	log "log/slog"
	"time"
)

const nightlyRollupLockTTL = 20 * time.Hour

// NightlyRollupJob 物化昨日 DAILY；周一补上周 WEEKLY；每月 1 号补上月 MONTHLY 与月报
type NightlyRollupJob struct {
	rollupSvc service.RollupService
	store     redis.Store
	loc       *time.Location
	now       func() time.Time
}

func NewNightlyRollupJob(rollupSvc service.RollupService, store redis.Store, loc *time.Location) *NightlyRollupJob {
	return &NightlyRollupJob{
		rollupSvc: rollupSvc,
		store:     store,
		loc:       loc,
		now:       time.Now,
	}
}

func (s *NightlyRollupJob) Run() {
	ctx := logger.WithTrace(context.Background(), "job-rollup")
	defer observe("nightly_rollup", time.Now())

	today := util.DateIn(s.now(), s.loc)
	// 锁按日期区分且不主动释放，当天只会执行一次
	key := consts.RollupLock + util.FormatDate(today)
	_, err := withLock(ctx, s.store, key, nightlyRollupLockTTL, false, func() error {
		stats, err := s.rollupSvc.RunNightly(ctx, today)
		log.InfoContext(ctx, "nightly rollup finished",
			"today", util.FormatDate(today),
			"daily", stats.Daily,
			"weekly", stats.Weekly,
			"monthly", stats.Monthly,
			"failed", stats.Failed,
		)
		return err
	})
	if err != nil {
		log.ErrorContext(ctx, "nightly rollup error", "err", err)
	}
}
