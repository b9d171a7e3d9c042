package dto

import "time"

type CreateGoalReq struct {
	GoalType    string  `json:"goalType" validate:"required,oneof=DAILY_CALORIES_BURNED DAILY_CALORIES_CONSUMED DAILY_WORKOUT_MINUTES DAILY_STEPS DAILY_WATER_ML WEEKLY_WORKOUTS"`
	TargetValue float64 `json:"targetValue" validate:"gt=0"`
}

type GoalDTO struct {
	ID          uint64    `json:"id"`
	UserID      uint64    `json:"userId"`
	GoalType    string    `json:"goalType"`
	TargetValue float64   `json:"targetValue"`
	Active      bool      `json:"active"`
	CreatedAt   time.Time `json:"createdAt"`
}

type GoalProgressDTO struct {
	GoalID             uint64  `json:"goalId"`
	TrackingDate       string  `json:"trackingDate"`
	CurrentValue       float64 `json:"currentValue"`
	ProgressPercentage float64 `json:"progressPercentage"`
}
