package service

import (
	"context"
	"fmt"
	log "log/slog"
	"strconv"
	"time"

	"FitTracker/internal/event"
	"FitTracker/internal/model"
	"FitTracker/internal/pkg/consts"
	"FitTracker/internal/pkg/redis"
	"FitTracker/internal/pkg/util"
	"FitTracker/internal/repository"
)

// MaxRangeDays 区间查询允许的最大天数
const MaxRangeDays = 366

// ApplyResult 事件应用结果
type ApplyResult string

const (
	ResultApplied   ApplyResult = "applied"
	ResultDuplicate ApplyResult = "duplicate"
)

type DailySummaryService interface {
	Apply(ctx context.Context, evt event.Event) (ApplyResult, error)
	GetDaily(ctx context.Context, userID uint64, date time.Time) (*model.DailyActivitySummary, error)
	ListRange(ctx context.Context, userID uint64, start, end time.Time) ([]*model.DailyActivitySummary, error)
	PurgeProcessed(ctx context.Context, now time.Time, retentionDays int) (int64, error)
}

type dailySummaryServiceImpl struct {
	summaryRepo repository.DailySummaryRepo
	store       redis.Store
}

// NewDailySummaryService store 可为 nil，此时不登记待重算日期
func NewDailySummaryService(summaryRepo repository.DailySummaryRepo, store redis.Store) DailySummaryService {
	return &dailySummaryServiceImpl{
		summaryRepo: summaryRepo,
		store:       store,
	}
}

// Apply 幂等地把事件增量合并进 (userId, domainDate) 的日汇总
func (s *dailySummaryServiceImpl) Apply(ctx context.Context, evt event.Event) (ApplyResult, error) {
	meta := evt.Meta()
	date := evt.DomainDate().Time()
	processed := &model.ProcessedEvent{
		EventID:      meta.EventID,
		UserID:       meta.UserID,
		Topic:        string(evt.Topic()),
		ActivityDate: date,
		ProcessedAt:  time.Now().UTC(),
	}

	mutate, session := delta(evt)
	applied, err := s.summaryRepo.ApplyDelta(ctx, processed, mutate, session)
	if err != nil {
		return "", fmt.Errorf("apply %s %s: %w", evt.Topic(), meta.EventID, err)
	}
	if !applied {
		return ResultDuplicate, nil
	}

	s.markDirty(ctx, meta.UserID, date)
	return ResultApplied, nil
}

// delta 各事件对日汇总的增量；注册与体重事件只保证行存在
func delta(evt event.Event) (repository.SummaryMutation, *model.WorkoutSession) {
	switch e := evt.(type) {
	case *event.MealCreated:
		return func(s *model.DailyActivitySummary) {
			s.TotalCaloriesConsumed += e.TotalCalories
			s.ProteinG = s.ProteinG.Add(e.TotalProteinG)
			s.CarbsG = s.CarbsG.Add(e.TotalCarbsG)
			s.FatG = s.FatG.Add(e.TotalFatG)
			s.MealsLogged++
		}, nil
	case *event.WorkoutCompleted:
		session := &model.WorkoutSession{
			EventID:         e.EventID,
			UserID:          e.UserID,
			WorkoutDate:     e.WorkoutDate.Time(),
			StartedAt:       e.StartedAt,
			DurationMinutes: e.DurationMinutes,
			WorkoutType:     e.WorkoutType,
			CaloriesBurned:  e.CaloriesBurned,
			ExerciseCount:   e.ExerciseCount,
			RatingBefore:    e.RatingBefore,
			RatingAfter:     e.RatingAfter,
		}
		return func(s *model.DailyActivitySummary) {
			s.TotalCaloriesBurned += e.CaloriesBurned
			s.WorkoutsCompleted++
			s.TotalWorkoutDurationMinutes += e.DurationMinutes
			s.ActiveMinutes += e.DurationMinutes
		}, session
	default:
		return nil, nil
	}
}

// markDirty 登记待重算的 (user, date)，失败只记日志，夜间任务兜底
func (s *dailySummaryServiceImpl) markDirty(ctx context.Context, userID uint64, date time.Time) {
	if s.store == nil {
		return
	}
	member := strconv.FormatUint(userID, 10) + ":" + util.FormatDate(date)
	if err := s.store.AddToSet(ctx, consts.DirtyUserDateKey, member); err != nil {
		log.WarnContext(ctx, "mark dirty user date failed", "member", member, "err", err)
	}
}

func (s *dailySummaryServiceImpl) GetDaily(ctx context.Context, userID uint64, date time.Time) (*model.DailyActivitySummary, error) {
	if userID == 0 || date.IsZero() {
		return nil, ErrParamInvalid
	}
	summary, err := s.summaryRepo.GetByDate(ctx, userID, util.DateOnly(date))
	if err != nil {
		return nil, err
	}
	if summary == nil {
		return nil, ErrSummaryNotFound
	}
	return summary, nil
}

func (s *dailySummaryServiceImpl) ListRange(ctx context.Context, userID uint64, start, end time.Time) ([]*model.DailyActivitySummary, error) {
	if userID == 0 || start.IsZero() || end.IsZero() || start.After(end) {
		return nil, ErrParamInvalid
	}
	if util.DaysBetween(start, end)+1 > MaxRangeDays {
		return nil, ErrRangeTooLarge
	}
	return s.summaryRepo.ListRange(ctx, userID, util.DateOnly(start), util.DateOnly(end))
}

// PurgeProcessed 删除 retentionDays 天前的去重记录；保留期需覆盖最长的重投窗口
func (s *dailySummaryServiceImpl) PurgeProcessed(ctx context.Context, now time.Time, retentionDays int) (int64, error) {
	if retentionDays <= 0 {
		return 0, ErrParamInvalid
	}
	cutoff := now.UTC().AddDate(0, 0, -retentionDays)
	return s.summaryRepo.PurgeProcessedBefore(ctx, cutoff)
}
