package dto

import (
	"FitTracker/internal/model"
	"time"
)

// PeriodQuery 周期查询参数，CUSTOM 时必须给出 startDate 与 endDate
type PeriodQuery struct {
	Period    string `form:"period" validate:"omitempty,oneof=DAILY WEEKLY MONTHLY CUSTOM"`
	Date      string `form:"date" validate:"omitempty,datetime=2006-01-02"`
	StartDate string `form:"startDate" validate:"omitempty,datetime=2006-01-02"`
	EndDate   string `form:"endDate" validate:"omitempty,datetime=2006-01-02"`
	Refresh   bool   `form:"refresh"`
}

type WorkoutAnalyticsDTO struct {
	UserID                 uint64         `json:"userId"`
	PeriodType             string         `json:"periodType"`
	StartDate              string         `json:"startDate"`
	EndDate                string         `json:"endDate"`
	TotalWorkouts          int            `json:"totalWorkouts"`
	TotalDurationMinutes   int            `json:"totalDurationMinutes"`
	TotalCaloriesBurned    int            `json:"totalCaloriesBurned"`
	AverageDurationMinutes float64        `json:"averageDurationMinutes"`
	ActiveDays             int            `json:"activeDays"`
	WorkoutTypeCounts      map[string]int `json:"workoutTypeCounts"`
	UpdatedAt              time.Time      `json:"updatedAt"`
}

type NutritionAnalyticsDTO struct {
	UserID               uint64         `json:"userId"`
	PeriodType           string         `json:"periodType"`
	StartDate            string         `json:"startDate"`
	EndDate              string         `json:"endDate"`
	TotalCalories        int            `json:"totalCalories"`
	TotalProteinG        float64        `json:"totalProteinG"`
	TotalCarbsG          float64        `json:"totalCarbsG"`
	TotalFatG            float64        `json:"totalFatG"`
	AverageDailyCalories float64        `json:"averageDailyCalories"`
	TotalMeals           int            `json:"totalMeals"`
	DaysLogged           int            `json:"daysLogged"`
	MealTypeCounts       map[string]int `json:"mealTypeCounts"`
	UpdatedAt            time.Time      `json:"updatedAt"`
}

// MonthlyQuery 月报参数，缺省为分析时区下的当月
type MonthlyQuery struct {
	Year    int  `form:"year" validate:"omitempty,gte=1970,lte=9999"`
	Month   int  `form:"month" validate:"omitempty,gte=1,lte=12"`
	Refresh bool `form:"refresh"`
}

type MonthlyReportDTO struct {
	UserID                uint64           `json:"userId"`
	Year                  int              `json:"year"`
	Month                 int              `json:"month"`
	TotalWorkouts         int              `json:"totalWorkouts"`
	TotalWorkoutMinutes   int              `json:"totalWorkoutMinutes"`
	TotalCaloriesBurned   int              `json:"totalCaloriesBurned"`
	TotalCaloriesConsumed int              `json:"totalCaloriesConsumed"`
	TotalMeals            int              `json:"totalMeals"`
	ActiveDays            int              `json:"activeDays"`
	ConsistencyScore      float64          `json:"consistencyScore"`
	ReportData            model.ReportData `json:"reportData"`
	GeneratedAt           time.Time        `json:"generatedAt"`
}
