package repository

import (
	"context"
	"errors"
	"time"

	"FitTracker/internal/model"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// PeriodAnalyticsRepo 周期汇总与月报，只由 rollup 引擎写入
type PeriodAnalyticsRepo interface {
	GetWorkoutAnalytics(ctx context.Context, userID uint64, periodType model.PeriodType, start, end time.Time) (*model.WorkoutAnalytics, error)
	SaveWorkoutAnalytics(ctx context.Context, wa *model.WorkoutAnalytics) error
	GetNutritionAnalytics(ctx context.Context, userID uint64, periodType model.PeriodType, start, end time.Time) (*model.NutritionAnalytics, error)
	SaveNutritionAnalytics(ctx context.Context, na *model.NutritionAnalytics) error
	GetMonthlyReport(ctx context.Context, userID uint64, year, month int) (*model.MonthlyReport, error)
	SaveMonthlyReport(ctx context.Context, report *model.MonthlyReport) error
}

type periodAnalyticsRepoImpl struct {
	db *gorm.DB
}

func NewPeriodAnalyticsRepo(db *gorm.DB) PeriodAnalyticsRepo {
	return &periodAnalyticsRepoImpl{db: db}
}

var periodKeyColumns = []clause.Column{{Name: "user_id"}, {Name: "period_type"}, {Name: "start_date"}, {Name: "end_date"}}

func (s *periodAnalyticsRepoImpl) GetWorkoutAnalytics(ctx context.Context, userID uint64, periodType model.PeriodType, start, end time.Time) (*model.WorkoutAnalytics, error) {
	var wa model.WorkoutAnalytics
	err := s.db.WithContext(ctx).
		Where("user_id = ? AND period_type = ? AND start_date = ? AND end_date = ?", userID, periodType, start, end).
		First(&wa).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return &wa, nil
}

// SaveWorkoutAnalytics 以 (user, period, start, end) 为键 Upsert，重算结果整体覆盖
func (s *periodAnalyticsRepoImpl) SaveWorkoutAnalytics(ctx context.Context, wa *model.WorkoutAnalytics) error {
	return s.db.WithContext(ctx).Clauses(clause.OnConflict{
		Columns: periodKeyColumns,
		DoUpdates: clause.AssignmentColumns([]string{
			"total_workouts",
			"total_duration_minutes",
			"total_calories_burned",
			"average_duration_minutes",
			"active_days",
			"workout_type_counts",
			"updated_at",
		}),
	}).Create(wa).Error
}

func (s *periodAnalyticsRepoImpl) GetNutritionAnalytics(ctx context.Context, userID uint64, periodType model.PeriodType, start, end time.Time) (*model.NutritionAnalytics, error) {
	var na model.NutritionAnalytics
	err := s.db.WithContext(ctx).
		Where("user_id = ? AND period_type = ? AND start_date = ? AND end_date = ?", userID, periodType, start, end).
		First(&na).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return &na, nil
}

func (s *periodAnalyticsRepoImpl) SaveNutritionAnalytics(ctx context.Context, na *model.NutritionAnalytics) error {
	return s.db.WithContext(ctx).Clauses(clause.OnConflict{
		Columns: periodKeyColumns,
		DoUpdates: clause.AssignmentColumns([]string{
			"total_calories",
			"total_protein_g",
			"total_carbs_g",
			"total_fat_g",
			"average_daily_calories",
			"total_meals",
			"days_logged",
			"meal_type_counts",
			"updated_at",
		}),
	}).Create(na).Error
}

func (s *periodAnalyticsRepoImpl) GetMonthlyReport(ctx context.Context, userID uint64, year, month int) (*model.MonthlyReport, error) {
	var report model.MonthlyReport
	err := s.db.WithContext(ctx).
		Where("user_id = ? AND year = ? AND month = ?", userID, year, month).
		First(&report).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return &report, nil
}

func (s *periodAnalyticsRepoImpl) SaveMonthlyReport(ctx context.Context, report *model.MonthlyReport) error {
	return s.db.WithContext(ctx).Clauses(clause.OnConflict{
		Columns: []clause.Column{{Name: "user_id"}, {Name: "year"}, {Name: "month"}},
		DoUpdates: clause.AssignmentColumns([]string{
			"total_workouts",
			"total_workout_minutes",
			"total_calories_burned",
			"total_calories_consumed",
			"total_meals",
			"active_days",
			"consistency_score",
			"report_data",
			"generated_at",
			"updated_at",
		}),
	}).Create(report).Error
}
