package dto

// DailySummaryDTO 单日活动汇总
type DailySummaryDTO struct {
	UserID                      uint64  `json:"userId"`
	ActivityDate                string  `json:"activityDate"` // 2025-01-06
	TotalCaloriesConsumed       int     `json:"totalCaloriesConsumed"`
	TotalCaloriesBurned         int     `json:"totalCaloriesBurned"`
	NetCalories                 int     `json:"netCalories"`
	ProteinG                    float64 `json:"proteinG"`
	CarbsG                      float64 `json:"carbsG"`
	FatG                        float64 `json:"fatG"`
	MealsLogged                 int     `json:"mealsLogged"`
	WorkoutsCompleted           int     `json:"workoutsCompleted"`
	TotalWorkoutDurationMinutes int     `json:"totalWorkoutDurationMinutes"`
	ActiveMinutes               int     `json:"activeMinutes"`
	StepsCount                  int     `json:"stepsCount"`
	WaterIntakeMl               int     `json:"waterIntakeMl"`
}

// DailyRangeDTO 区间内有记录的日汇总，按日期升序，缺失的日期不补零
type DailyRangeDTO struct {
	UserID    uint64             `json:"userId"`
	StartDate string             `json:"startDate"`
	EndDate   string             `json:"endDate"`
	Days      []*DailySummaryDTO `json:"days"`
}
