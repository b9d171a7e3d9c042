package job

import (
	"FitTracker/internal/analytics"
	"FitTracker/internal/model"
	"FitTracker/internal/pkg/consts"
	"FitTracker/internal/pkg/logger"
	"FitTracker/internal/pkg/redis"
	"FitTracker/internal/pkg/util"
	"FitTracker/internal/service"
	"context"
	log "log/slog"
	"strconv"
	"strings"
	"time"
)

const dirtyRollupLockTTL = 10 * time.Minute

// DirtyRollupJob 消费端登记的 {userID}:{date} 集合，重算受影响的周期并清理增强分析缓存
type DirtyRollupJob struct {
	rollupSvc    service.RollupService
	dashboardSvc service.DashboardService
	store        redis.Store
}

func NewDirtyRollupJob(rollupSvc service.RollupService, dashboardSvc service.DashboardService, store redis.Store) *DirtyRollupJob {
	return &DirtyRollupJob{
		rollupSvc:    rollupSvc,
		dashboardSvc: dashboardSvc,
		store:        store,
	}
}

func (s *DirtyRollupJob) Run() {
	ctx := logger.WithTrace(context.Background(), "job-dirty")
	defer observe("dirty_rollup", time.Now())

	_, err := withLock(ctx, s.store, consts.DirtyRollupLock, dirtyRollupLockTTL, true, func() error {
		return s.process(ctx)
	})
	if err != nil {
		log.ErrorContext(ctx, "dirty rollup error", "err", err)
	}
}

func (s *DirtyRollupJob) process(ctx context.Context) error {
	processingKey := consts.DirtyUserDateKey + ":processing"

	// 上次中断遗留的集合优先处理，避免 rename 覆盖
	members, err := s.store.GetSet(ctx, processingKey)
	if err != nil {
		return err
	}
	if len(members) == 0 {
		renamed, err := s.store.Rename(ctx, consts.DirtyUserDateKey, processingKey)
		if err != nil || !renamed {
			return err
		}
		if members, err = s.store.GetSet(ctx, processingKey); err != nil {
			return err
		}
	}

	dirty := groupDirtyMembers(ctx, members)
	var failed []string
	periods := 0
	for userID, dates := range dirty {
		for _, p := range affectedPeriods(dates) {
			if err := s.rebuild(ctx, userID, p); err != nil {
				log.ErrorContext(ctx, "rebuild dirty period error", "user_id", userID, "period", p.String(), "err", err)
				failed = append(failed, dirtyMembers(userID, p, dates)...)
				continue
			}
			periods++
		}
		s.dashboardSvc.Invalidate(ctx, userID)
	}

	// 失败的成员放回待处理集合，下个周期重试
	if len(failed) > 0 {
		if err := s.store.AddToSet(ctx, consts.DirtyUserDateKey, failed...); err != nil {
			log.ErrorContext(ctx, "requeue dirty members error", "err", err)
		}
	}
	if err := s.store.DeleteKey(ctx, processingKey); err != nil {
		log.ErrorContext(ctx, "delete dirty processing set error", "err", err)
	}

	log.InfoContext(ctx, "dirty rollup finished",
		"members", len(members),
		"users", len(dirty),
		"periods", periods,
		"failed", len(failed),
	)
	return nil
}

func (s *DirtyRollupJob) rebuild(ctx context.Context, userID uint64, p analytics.Period) error {
	if err := s.rollupSvc.RebuildPeriod(ctx, userID, p); err != nil {
		return err
	}
	if p.Type == model.PeriodMonthly {
		_, err := s.rollupSvc.RebuildMonthlyReport(ctx, userID, p.Start.Year(), p.Start.Month())
		return err
	}
	return nil
}

// groupDirtyMembers 解析 {userID}:{date}，非法成员直接丢弃
func groupDirtyMembers(ctx context.Context, members []string) map[uint64][]time.Time {
	out := make(map[uint64][]time.Time)
	for _, m := range members {
		uid, day, ok := strings.Cut(m, ":")
		userID := util.StrToUint64(uid)
		date, err := util.ParseDate(day)
		if !ok || userID == 0 || err != nil {
			log.WarnContext(ctx, "skip invalid dirty member", "member", m)
			continue
		}
		out[userID] = append(out[userID], date)
	}
	return out
}

// affectedPeriods 覆盖这些日期的 DAILY / WEEKLY / MONTHLY 周期，去重
func affectedPeriods(dates []time.Time) []analytics.Period {
	seen := make(map[string]struct{})
	periods := make([]analytics.Period, 0, len(dates)*3)
	for _, d := range dates {
		for _, p := range []analytics.Period{
			analytics.DailyPeriod(d),
			analytics.WeeklyPeriod(d),
			analytics.MonthlyPeriod(d.Year(), d.Month()),
		} {
			if _, ok := seen[p.String()]; ok {
				continue
			}
			seen[p.String()] = struct{}{}
			periods = append(periods, p)
		}
	}
	return periods
}

func dirtyMembers(userID uint64, p analytics.Period, dates []time.Time) []string {
	prefix := strconv.FormatUint(userID, 10) + ":"
	var out []string
	for _, d := range dates {
		if p.Contains(d) {
			out = append(out, prefix+util.FormatDate(d))
		}
	}
	return out
}
