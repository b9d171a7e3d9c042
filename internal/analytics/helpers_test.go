package analytics

import (
	"time"

	"FitTracker/internal/model"

	"github.com/shopspring/decimal"
)

func day(y int, m time.Month, d int) time.Time {
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}

func summary(date time.Time, meals, workouts int) *model.DailyActivitySummary {
	s := model.NewDailyActivitySummary(1, date)
	s.MealsLogged = meals
	s.WorkoutsCompleted = workouts
	return s
}

// fullDay 四类全部达成的一天
func fullDay(date time.Time) *model.DailyActivitySummary {
	s := summary(date, 3, 1)
	s.TotalCaloriesConsumed = 2100
	s.TotalCaloriesBurned = 350
	s.ProteinG = decimal.NewFromInt(120)
	s.TotalWorkoutDurationMinutes = 40
	s.ActiveMinutes = 40
	s.RecomputeNet()
	return s
}

func rating(v int) *int { return &v }

func session(date time.Time, hour, minutes int, workoutType string, before, after *int) *model.WorkoutSession {
	started := date.Add(time.Duration(hour) * time.Hour)
	return &model.WorkoutSession{
		UserID:          1,
		WorkoutDate:     date,
		StartedAt:       &started,
		DurationMinutes: minutes,
		WorkoutType:     workoutType,
		RatingBefore:    before,
		RatingAfter:     after,
	}
}
