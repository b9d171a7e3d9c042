package handler

import (
	"FitTracker/internal/api/dto"
	"FitTracker/internal/model"
	"FitTracker/internal/pkg/util"
	"time"

	"github.com/jinzhu/copier"
	"github.com/shopspring/decimal"
)

// copyOption 日期转 YYYY-MM-DD，decimal 转 float64
var copyOption = copier.Option{
	Converters: []copier.TypeConverter{
		{
			SrcType: time.Time{},
			DstType: copier.String,
			Fn: func(src interface{}) (interface{}, error) {
				return util.FormatDate(src.(time.Time)), nil
			},
		},
		{
			SrcType: decimal.Decimal{},
			DstType: float64(0),
			Fn: func(src interface{}) (interface{}, error) {
				return src.(decimal.Decimal).InexactFloat64(), nil
			},
		},
	},
}

func toDailySummaryDTO(m *model.DailyActivitySummary) (*dto.DailySummaryDTO, error) {
	out := &dto.DailySummaryDTO{}
	if err := copier.CopyWithOption(out, m, copyOption); err != nil {
		return nil, err
	}
	return out, nil
}

func toWorkoutAnalyticsDTO(m *model.WorkoutAnalytics) (*dto.WorkoutAnalyticsDTO, error) {
	out := &dto.WorkoutAnalyticsDTO{}
	if err := copier.CopyWithOption(out, m, copyOption); err != nil {
		return nil, err
	}
	out.WorkoutTypeCounts = m.WorkoutTypeCounts.Data()
	if out.WorkoutTypeCounts == nil {
		out.WorkoutTypeCounts = map[string]int{}
	}
	return out, nil
}

func toNutritionAnalyticsDTO(m *model.NutritionAnalytics) (*dto.NutritionAnalyticsDTO, error) {
	out := &dto.NutritionAnalyticsDTO{}
	if err := copier.CopyWithOption(out, m, copyOption); err != nil {
		return nil, err
	}
	out.MealTypeCounts = m.MealTypeCounts.Data()
	if out.MealTypeCounts == nil {
		out.MealTypeCounts = map[string]int{}
	}
	return out, nil
}

func toMonthlyReportDTO(m *model.MonthlyReport) (*dto.MonthlyReportDTO, error) {
	out := &dto.MonthlyReportDTO{}
	if err := copier.CopyWithOption(out, m, copyOption); err != nil {
		return nil, err
	}
	out.ReportData = m.ReportData.Data()
	return out, nil
}

func toGoalDTO(m *model.UserGoal) (*dto.GoalDTO, error) {
	out := &dto.GoalDTO{}
	if err := copier.CopyWithOption(out, m, copyOption); err != nil {
		return nil, err
	}
	return out, nil
}

func toGoalProgressDTO(m *model.GoalProgressTracking) (*dto.GoalProgressDTO, error) {
	out := &dto.GoalProgressDTO{}
	if err := copier.CopyWithOption(out, m, copyOption); err != nil {
		return nil, err
	}
	return out, nil
}
