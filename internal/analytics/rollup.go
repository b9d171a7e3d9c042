package analytics

import (
	"sort"
	"time"

	"FitTracker/internal/model"
	"FitTracker/internal/pkg/util"

	"github.com/shopspring/decimal"
	"gorm.io/datatypes"
)

const (
	CategoryWorkout   = "workout"
	CategoryNutrition = "nutrition"
	// 按训练类型细分的分类前缀，例如 workout:RUNNING
	CategoryWorkoutTypePrefix = "workout:"
)

// BuildWorkoutAnalytics 对周期内的日汇总做纯聚合，typeCounts 可为 nil（源服务不可用时）
func BuildWorkoutAnalytics(userID uint64, p Period, days []*model.DailyActivitySummary, typeCounts map[string]int) *model.WorkoutAnalytics {
	wa := &model.WorkoutAnalytics{
		UserID:                 userID,
		PeriodType:             p.Type,
		StartDate:              p.Start,
		EndDate:                p.End,
		AverageDurationMinutes: decimal.Zero,
	}
	for _, d := range days {
		if d == nil || !p.Contains(d.ActivityDate) {
			continue
		}
		wa.TotalWorkouts += d.WorkoutsCompleted
		wa.TotalDurationMinutes += d.TotalWorkoutDurationMinutes
		wa.TotalCaloriesBurned += d.TotalCaloriesBurned
		if d.WorkoutsCompleted > 0 {
			wa.ActiveDays++
		}
	}
	if wa.TotalWorkouts > 0 {
		wa.AverageDurationMinutes = decimal.NewFromInt(int64(wa.TotalDurationMinutes)).
			Div(decimal.NewFromInt(int64(wa.TotalWorkouts))).Round(2)
	}
	if typeCounts == nil {
		typeCounts = map[string]int{}
	}
	wa.WorkoutTypeCounts = datatypes.NewJSONType(typeCounts)
	return wa
}

// BuildNutritionAnalytics 日均热量按有饮食记录的天数计算
func BuildNutritionAnalytics(userID uint64, p Period, days []*model.DailyActivitySummary, mealTypeCounts map[string]int) *model.NutritionAnalytics {
	na := &model.NutritionAnalytics{
		UserID:               userID,
		PeriodType:           p.Type,
		StartDate:            p.Start,
		EndDate:              p.End,
		TotalProteinG:        decimal.Zero,
		TotalCarbsG:          decimal.Zero,
		TotalFatG:            decimal.Zero,
		AverageDailyCalories: decimal.Zero,
	}
	for _, d := range days {
		if d == nil || !p.Contains(d.ActivityDate) {
			continue
		}
		na.TotalCalories += d.TotalCaloriesConsumed
		na.TotalProteinG = na.TotalProteinG.Add(d.ProteinG)
		na.TotalCarbsG = na.TotalCarbsG.Add(d.CarbsG)
		na.TotalFatG = na.TotalFatG.Add(d.FatG)
		na.TotalMeals += d.MealsLogged
		if d.MealsLogged > 0 {
			na.DaysLogged++
		}
	}
	if na.DaysLogged > 0 {
		na.AverageDailyCalories = decimal.NewFromInt(int64(na.TotalCalories)).
			Div(decimal.NewFromInt(int64(na.DaysLogged))).Round(2)
	}
	if mealTypeCounts == nil {
		mealTypeCounts = map[string]int{}
	}
	na.MealTypeCounts = datatypes.NewJSONType(mealTypeCounts)
	return na
}

// BuildMonthlyReport 生成月报，workoutTypes 为按训练类型的次数与分钟数（可为 nil）
func BuildMonthlyReport(userID uint64, year int, month time.Month, days []*model.DailyActivitySummary, workoutTypes map[string]model.CategoryStat, now time.Time) *model.MonthlyReport {
	p := MonthlyPeriod(year, month)
	r := &model.MonthlyReport{
		UserID:      userID,
		Year:        year,
		Month:       int(month),
		GeneratedAt: now,
	}

	inMonth := make([]*model.DailyActivitySummary, 0, len(days))
	for _, d := range days {
		if d == nil || !p.Contains(d.ActivityDate) {
			continue
		}
		inMonth = append(inMonth, d)
		r.TotalWorkouts += d.WorkoutsCompleted
		r.TotalWorkoutMinutes += d.TotalWorkoutDurationMinutes
		r.TotalCaloriesBurned += d.TotalCaloriesBurned
		r.TotalCaloriesConsumed += d.TotalCaloriesConsumed
		r.TotalMeals += d.MealsLogged
		if d.HasActivity() {
			r.ActiveDays++
		}
	}

	score := ConsistencyScore(r.ActiveDays, p.Days())
	r.ConsistencyScore = decimal.NewFromFloat(score).Round(2)

	byCategory := map[string]model.CategoryStat{
		CategoryWorkout:   {Count: r.TotalWorkouts, Minutes: r.TotalWorkoutMinutes},
		CategoryNutrition: {Count: r.TotalMeals},
	}
	for workoutType, stat := range workoutTypes {
		byCategory[CategoryWorkoutTypePrefix+workoutType] = stat
	}

	r.ReportData = datatypes.NewJSONType(model.ReportData{
		ByCategory:       byCategory,
		BestWeek:         BestWeek(p, inMonth),
		ConsistencyScore: score,
	})
	return r
}

// ConsistencyScore 100 * activeDays / totalDays，保留两位小数，落在 [0, 100]
func ConsistencyScore(activeDays, totalDays int) float64 {
	if totalDays <= 0 || activeDays <= 0 {
		return 0
	}
	if activeDays > totalDays {
		activeDays = totalDays
	}
	score, _ := decimal.NewFromInt(int64(activeDays * 100)).
		Div(decimal.NewFromInt(int64(totalDays))).Round(2).Float64()
	return score
}

// BestWeek 周期内 meals+workouts 之和最高的连续 7 天窗口，平分时取最早；全为 0 时返回 nil
func BestWeek(p Period, days []*model.DailyActivitySummary) *model.BestWeek {
	n := p.Days()
	if n < 7 {
		return nil
	}
	scores := make([]int, n)
	for _, d := range days {
		if d == nil || !p.Contains(d.ActivityDate) {
			continue
		}
		scores[util.DaysBetween(p.Start, d.ActivityDate)] += d.MealsLogged + d.WorkoutsCompleted
	}

	window := 0
	for i := 0; i < 7; i++ {
		window += scores[i]
	}
	best, bestIdx := window, 0
	for i := 7; i < n; i++ {
		window += scores[i] - scores[i-7]
		if window > best {
			best, bestIdx = window, i-6
		}
	}
	if best == 0 {
		return nil
	}
	return &model.BestWeek{
		Start: util.FormatDate(p.Start.AddDate(0, 0, bestIdx)),
		Score: best,
	}
}

// SortDays 按日期升序
func SortDays(days []*model.DailyActivitySummary) {
	sort.SliceStable(days, func(i, j int) bool {
		return days[i].ActivityDate.Before(days[j].ActivityDate)
	})
}
