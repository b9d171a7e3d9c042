package service

import (
	"context"
	"errors"
	"fmt"
	log "log/slog"
	"time"

	"FitTracker/internal/analytics"
	"FitTracker/internal/model"
	"FitTracker/internal/pkg/consts"
	"FitTracker/internal/pkg/metrics"
	"FitTracker/internal/pkg/util"
	"FitTracker/internal/repository"
)

// HistogramSource 源服务的类型直方图，rollup 只读
type HistogramSource interface {
	MealTypeCounts(ctx context.Context, userID uint64, start, end time.Time) (map[string]int, error)
	WorkoutTypeStats(ctx context.Context, userID uint64, start, end time.Time) (map[string]model.CategoryStat, error)
}

// NightlyStats 一次夜间汇总的处理量
type NightlyStats struct {
	Daily   int
	Weekly  int
	Monthly int
	Failed  int
}

type RollupService interface {
	GetWorkoutAnalytics(ctx context.Context, userID uint64, p analytics.Period, refresh bool) (*model.WorkoutAnalytics, error)
	GetNutritionAnalytics(ctx context.Context, userID uint64, p analytics.Period, refresh bool) (*model.NutritionAnalytics, error)
	GetMonthlyReport(ctx context.Context, userID uint64, year int, month time.Month, refresh bool) (*model.MonthlyReport, error)
	RebuildPeriod(ctx context.Context, userID uint64, p analytics.Period) error
	RebuildMonthlyReport(ctx context.Context, userID uint64, year int, month time.Month) (*model.MonthlyReport, error)
	RunNightly(ctx context.Context, today time.Time) (NightlyStats, error)
}

type rollupServiceImpl struct {
	summaryRepo repository.DailySummaryRepo
	periodRepo  repository.PeriodAnalyticsRepo
	source      HistogramSource
}

// NewRollupService source 可为 nil，直方图恒为空
func NewRollupService(summaryRepo repository.DailySummaryRepo, periodRepo repository.PeriodAnalyticsRepo, source HistogramSource) RollupService {
	return &rollupServiceImpl{
		summaryRepo: summaryRepo,
		periodRepo:  periodRepo,
		source:      source,
	}
}

// GetWorkoutAnalytics 已物化则直接返回，否则现算、落库后返回
func (s *rollupServiceImpl) GetWorkoutAnalytics(ctx context.Context, userID uint64, p analytics.Period, refresh bool) (*model.WorkoutAnalytics, error) {
	if err := validatePeriod(userID, p); err != nil {
		return nil, err
	}
	if !refresh {
		stored, err := s.periodRepo.GetWorkoutAnalytics(ctx, userID, p.Type, p.Start, p.End)
		if err != nil {
			return nil, err
		}
		if stored != nil {
			return stored, nil
		}
	}
	return s.buildWorkout(ctx, userID, p)
}

func (s *rollupServiceImpl) GetNutritionAnalytics(ctx context.Context, userID uint64, p analytics.Period, refresh bool) (*model.NutritionAnalytics, error) {
	if err := validatePeriod(userID, p); err != nil {
		return nil, err
	}
	if !refresh {
		stored, err := s.periodRepo.GetNutritionAnalytics(ctx, userID, p.Type, p.Start, p.End)
		if err != nil {
			return nil, err
		}
		if stored != nil {
			return stored, nil
		}
	}
	return s.buildNutrition(ctx, userID, p)
}

func (s *rollupServiceImpl) GetMonthlyReport(ctx context.Context, userID uint64, year int, month time.Month, refresh bool) (*model.MonthlyReport, error) {
	if userID == 0 || year < 1970 || month < time.January || month > time.December {
		return nil, ErrParamInvalid
	}
	if !refresh {
		stored, err := s.periodRepo.GetMonthlyReport(ctx, userID, year, int(month))
		if err != nil {
			return nil, err
		}
		if stored != nil {
			return stored, nil
		}
	}
	return s.RebuildMonthlyReport(ctx, userID, year, month)
}

// RebuildPeriod 重算训练与饮食两类周期汇总
func (s *rollupServiceImpl) RebuildPeriod(ctx context.Context, userID uint64, p analytics.Period) error {
	if err := validatePeriod(userID, p); err != nil {
		return err
	}
	if _, err := s.buildWorkout(ctx, userID, p); err != nil {
		return err
	}
	_, err := s.buildNutrition(ctx, userID, p)
	return err
}

func (s *rollupServiceImpl) RebuildMonthlyReport(ctx context.Context, userID uint64, year int, month time.Month) (*model.MonthlyReport, error) {
	p := analytics.MonthlyPeriod(year, month)
	days, err := s.summaryRepo.ListRange(ctx, userID, p.Start, p.End)
	if err != nil {
		return nil, err
	}
	report := analytics.BuildMonthlyReport(userID, year, month, days, s.workoutStats(ctx, userID, p), time.Now())
	if err := s.periodRepo.SaveMonthlyReport(ctx, report); err != nil {
		metrics.RollupRuns.WithLabelValues("REPORT", "error").Inc()
		return nil, err
	}
	metrics.RollupRuns.WithLabelValues("REPORT", "success").Inc()
	return report, nil
}

// RunNightly today 为分析时区下的当天：昨日 DAILY；周一补上周 WEEKLY；1 号补上月 MONTHLY 与月报
func (s *rollupServiceImpl) RunNightly(ctx context.Context, today time.Time) (NightlyStats, error) {
	today = util.DateOnly(today)
	yesterday := today.AddDate(0, 0, -1)
	var stats NightlyStats

	periods := []analytics.Period{analytics.DailyPeriod(yesterday)}
	if today.Weekday() == time.Monday {
		periods = append(periods, analytics.WeeklyPeriod(yesterday))
	}
	if today.Day() == 1 {
		periods = append(periods, analytics.MonthlyPeriod(yesterday.Year(), yesterday.Month()))
	}

	var errs []error
	for _, p := range periods {
		userIDs, err := s.summaryRepo.ListUserIDsInRange(ctx, p.Start, p.End)
		if err != nil {
			return stats, fmt.Errorf("list users for %s: %w", p, err)
		}
		for _, userID := range userIDs {
			if ctx.Err() != nil {
				return stats, ctx.Err()
			}
			if err := s.RebuildPeriod(ctx, userID, p); err != nil {
				stats.Failed++
				errs = append(errs, fmt.Errorf("user %d %s: %w", userID, p, err))
				continue
			}
			if p.Type == model.PeriodMonthly {
				if _, err := s.RebuildMonthlyReport(ctx, userID, p.Start.Year(), p.Start.Month()); err != nil {
					stats.Failed++
					errs = append(errs, fmt.Errorf("user %d report %s: %w", userID, p, err))
					continue
				}
			}
			switch p.Type {
			case model.PeriodDaily:
				stats.Daily++
			case model.PeriodWeekly:
				stats.Weekly++
			case model.PeriodMonthly:
				stats.Monthly++
			}
		}
	}
	return stats, errors.Join(errs...)
}

func (s *rollupServiceImpl) buildWorkout(ctx context.Context, userID uint64, p analytics.Period) (*model.WorkoutAnalytics, error) {
	days, err := s.summaryRepo.ListRange(ctx, userID, p.Start, p.End)
	if err != nil {
		return nil, err
	}
	var typeCounts map[string]int
	if stats := s.workoutStats(ctx, userID, p); stats != nil {
		typeCounts = make(map[string]int, len(stats))
		for workoutType, stat := range stats {
			typeCounts[workoutType] = stat.Count
		}
	}
	wa := analytics.BuildWorkoutAnalytics(userID, p, days, typeCounts)
	if err := s.periodRepo.SaveWorkoutAnalytics(ctx, wa); err != nil {
		metrics.RollupRuns.WithLabelValues(string(p.Type), "error").Inc()
		return nil, err
	}
	metrics.RollupRuns.WithLabelValues(string(p.Type), "success").Inc()
	return wa, nil
}

func (s *rollupServiceImpl) buildNutrition(ctx context.Context, userID uint64, p analytics.Period) (*model.NutritionAnalytics, error) {
	days, err := s.summaryRepo.ListRange(ctx, userID, p.Start, p.End)
	if err != nil {
		return nil, err
	}
	na := analytics.BuildNutritionAnalytics(userID, p, days, s.mealCounts(ctx, userID, p))
	if err := s.periodRepo.SaveNutritionAnalytics(ctx, na); err != nil {
		metrics.RollupRuns.WithLabelValues(string(p.Type), "error").Inc()
		return nil, err
	}
	metrics.RollupRuns.WithLabelValues(string(p.Type), "success").Inc()
	return na, nil
}

// workoutStats 源服务不可用时降级为 nil
func (s *rollupServiceImpl) workoutStats(ctx context.Context, userID uint64, p analytics.Period) map[string]model.CategoryStat {
	if s.source == nil {
		return nil
	}
	stats, err := s.source.WorkoutTypeStats(ctx, userID, p.Start, p.End)
	if err != nil {
		metrics.SourceDegraded.WithLabelValues(consts.SourceWorkout).Inc()
		log.WarnContext(ctx, "workout histogram degraded", "user_id", userID, "period", p.String(), "err", err)
		return nil
	}
	return stats
}

func (s *rollupServiceImpl) mealCounts(ctx context.Context, userID uint64, p analytics.Period) map[string]int {
	if s.source == nil {
		return nil
	}
	counts, err := s.source.MealTypeCounts(ctx, userID, p.Start, p.End)
	if err != nil {
		metrics.SourceDegraded.WithLabelValues(consts.SourceNutrition).Inc()
		log.WarnContext(ctx, "meal histogram degraded", "user_id", userID, "period", p.String(), "err", err)
		return nil
	}
	return counts
}

func validatePeriod(userID uint64, p analytics.Period) error {
	if userID == 0 {
		return ErrParamInvalid
	}
	if err := p.Validate(); err != nil {
		return ErrPeriodInvalid
	}
	if p.Days() > MaxRangeDays {
		return ErrRangeTooLarge
	}
	return nil
}
