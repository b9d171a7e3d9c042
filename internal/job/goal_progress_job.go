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

// GoalProgressJob 按昨日最终的日汇总计算所有启用目标的进度
type GoalProgressJob struct {
	goalSvc service.GoalService
	store   redis.Store
	loc     *time.Location
	now     func() time.Time
}

func NewGoalProgressJob(goalSvc service.GoalService, store redis.Store, loc *time.Location) *GoalProgressJob {
	return &GoalProgressJob{
		goalSvc: goalSvc,
		store:   store,
		loc:     loc,
		now:     time.Now,
	}
}

func (s *GoalProgressJob) Run() {
	ctx := logger.WithTrace(context.Background(), "job-goal")
	defer observe("goal_progress", time.Now())

	yesterday := util.DateIn(s.now(), s.loc).AddDate(0, 0, -1)
	key := consts.GoalProgressLock + ":" + util.FormatDate(yesterday)
	_, err := withLock(ctx, s.store, key, 20*time.Hour, false, func() error {
		n, err := s.goalSvc.TrackAll(ctx, yesterday)
		log.InfoContext(ctx, "goal progress tracked", "date", util.FormatDate(yesterday), "rows", n)
		return err
	})
	if err != nil {
		log.ErrorContext(ctx, "goal progress error", "err", err)
	}
}
