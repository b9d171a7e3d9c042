package service

import (
	"context"
	"errors"
	"fmt"
	"time"

	"FitTracker/internal/model"
	"FitTracker/internal/pkg/util"
	"FitTracker/internal/repository"

	"github.com/shopspring/decimal"
)

type GoalService interface {
	CreateGoal(ctx context.Context, goal *model.UserGoal) error
	DeleteGoal(ctx context.Context, userID, goalID uint64) error
	ListGoals(ctx context.Context, userID uint64) ([]*model.UserGoal, error)
	TrackAll(ctx context.Context, date time.Time) (int, error)
	GetProgress(ctx context.Context, userID uint64, date time.Time) ([]*model.GoalProgressTracking, error)
}

type goalServiceImpl struct {
	goalRepo    repository.GoalRepo
	summaryRepo repository.DailySummaryRepo
}

func NewGoalService(goalRepo repository.GoalRepo, summaryRepo repository.DailySummaryRepo) GoalService {
	return &goalServiceImpl{
		goalRepo:    goalRepo,
		summaryRepo: summaryRepo,
	}
}

func (s *goalServiceImpl) CreateGoal(ctx context.Context, goal *model.UserGoal) error {
	if goal == nil || goal.UserID == 0 || !goal.TargetValue.IsPositive() || !validGoalType(goal.GoalType) {
		return ErrParamInvalid
	}
	goal.Active = true
	return s.goalRepo.CreateGoal(ctx, goal)
}

func (s *goalServiceImpl) DeleteGoal(ctx context.Context, userID, goalID uint64) error {
	if userID == 0 || goalID == 0 {
		return ErrParamInvalid
	}
	deleted, err := s.goalRepo.DeleteGoal(ctx, userID, goalID)
	if err != nil {
		return err
	}
	if !deleted {
		return ErrGoalNotFound
	}
	return nil
}

func (s *goalServiceImpl) ListGoals(ctx context.Context, userID uint64) ([]*model.UserGoal, error) {
	if userID == 0 {
		return nil, ErrParamInvalid
	}
	return s.goalRepo.ListActiveGoalsByUser(ctx, userID)
}

// TrackAll 为所有启用目标计算 date 当天进度，返回成功条数
func (s *goalServiceImpl) TrackAll(ctx context.Context, date time.Time) (int, error) {
	goals, err := s.goalRepo.ListActiveGoals(ctx)
	if err != nil {
		return 0, err
	}
	date = util.DateOnly(date)

	byUser := make(map[uint64][]*model.UserGoal)
	order := make([]uint64, 0)
	for _, g := range goals {
		if _, ok := byUser[g.UserID]; !ok {
			order = append(order, g.UserID)
		}
		byUser[g.UserID] = append(byUser[g.UserID], g)
	}

	tracked := 0
	var errs []error
	for _, userID := range order {
		progress, err := s.track(ctx, userID, byUser[userID], date)
		if err != nil {
			errs = append(errs, fmt.Errorf("user %d: %w", userID, err))
			continue
		}
		tracked += len(progress)
	}
	return tracked, errors.Join(errs...)
}

// GetProgress 实时计算并落库，夜间任务之外也能拿到当天进度
func (s *goalServiceImpl) GetProgress(ctx context.Context, userID uint64, date time.Time) ([]*model.GoalProgressTracking, error) {
	if userID == 0 || date.IsZero() {
		return nil, ErrParamInvalid
	}
	goals, err := s.goalRepo.ListActiveGoalsByUser(ctx, userID)
	if err != nil {
		return nil, err
	}
	return s.track(ctx, userID, goals, util.DateOnly(date))
}

func (s *goalServiceImpl) track(ctx context.Context, userID uint64, goals []*model.UserGoal, date time.Time) ([]*model.GoalProgressTracking, error) {
	result := make([]*model.GoalProgressTracking, 0, len(goals))
	if len(goals) == 0 {
		return result, nil
	}

	weekStart := util.WeekStart(date)
	days, err := s.summaryRepo.ListRange(ctx, userID, weekStart, date)
	if err != nil {
		return nil, err
	}

	for _, g := range goals {
		current := goalCurrentValue(g.GoalType, date, days)
		progress := &model.GoalProgressTracking{
			GoalID:             g.ID,
			UserID:             userID,
			TrackingDate:       date,
			CurrentValue:       current,
			ProgressPercentage: model.ProgressPercentage(current, g.TargetValue),
		}
		if err := s.goalRepo.SaveProgress(ctx, progress); err != nil {
			return nil, err
		}
		result = append(result, progress)
	}
	return result, nil
}

// goalCurrentValue days 为本周一至 date 的日汇总
func goalCurrentValue(goalType model.GoalType, date time.Time, days []*model.DailyActivitySummary) decimal.Decimal {
	if goalType == model.GoalWeeklyWorkouts {
		total := 0
		for _, d := range days {
			total += d.WorkoutsCompleted
		}
		return decimal.NewFromInt(int64(total))
	}

	var today *model.DailyActivitySummary
	for _, d := range days {
		if util.DateOnly(d.ActivityDate).Equal(date) {
			today = d
		}
	}
	if today == nil {
		return decimal.Zero
	}

	var v int
	switch goalType {
	case model.GoalDailyCaloriesBurned:
		v = today.TotalCaloriesBurned
	case model.GoalDailyCaloriesConsumed:
		v = today.TotalCaloriesConsumed
	case model.GoalDailyWorkoutMinutes:
		v = today.TotalWorkoutDurationMinutes
	case model.GoalDailySteps:
		v = today.StepsCount
	case model.GoalDailyWaterMl:
		v = today.WaterIntakeMl
	}
	return decimal.NewFromInt(int64(v))
}

func validGoalType(t model.GoalType) bool {
	switch t {
	case model.GoalDailyCaloriesBurned, model.GoalDailyCaloriesConsumed, model.GoalDailyWorkoutMinutes,
		model.GoalDailySteps, model.GoalDailyWaterMl, model.GoalWeeklyWorkouts:
		return true
	}
	return false
}
