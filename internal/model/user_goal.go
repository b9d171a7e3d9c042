package model

import (
	"time"

	"github.com/shopspring/decimal"
)

// GoalType 目标度量，对应日汇总中的字段
type GoalType string

const (
	GoalDailyCaloriesBurned   GoalType = "DAILY_CALORIES_BURNED"
	GoalDailyCaloriesConsumed GoalType = "DAILY_CALORIES_CONSUMED"
	GoalDailyWorkoutMinutes   GoalType = "DAILY_WORKOUT_MINUTES"
	GoalDailySteps            GoalType = "DAILY_STEPS"
	GoalDailyWaterMl          GoalType = "DAILY_WATER_ML"
	GoalWeeklyWorkouts        GoalType = "WEEKLY_WORKOUTS"
)

type UserGoal struct {
	ID          uint64          `gorm:"primaryKey" json:"id"`
	UserID      uint64          `gorm:"not null;index:idx_goal_user" json:"userId"`
	GoalType    GoalType        `gorm:"type:varchar(32);not null" json:"goalType"`
	TargetValue decimal.Decimal `gorm:"type:decimal(12,2);not null" json:"targetValue"`
	Active      bool            `gorm:"not null;default:true" json:"active"`
	CreatedAt   time.Time       `json:"createdAt"`
	UpdatedAt   time.Time       `json:"updatedAt"`

	// 目标删除时级联删除进度记录
	Progress []GoalProgressTracking `gorm:"foreignKey:GoalID;references:ID;constraint:OnDelete:CASCADE" json:"-"`
}

func (UserGoal) TableName() string {
	return "user_goals"
}

// GoalProgressTracking 目标每日进度
type GoalProgressTracking struct {
	ID                 uint64          `gorm:"primaryKey" json:"id"`
	GoalID             uint64          `gorm:"not null;uniqueIndex:idx_goal_date,priority:1" json:"goalId"`
	UserID             uint64          `gorm:"not null;index:idx_progress_user" json:"userId"`
	TrackingDate       time.Time       `gorm:"type:date;not null;uniqueIndex:idx_goal_date,priority:2" json:"trackingDate"`
	CurrentValue       decimal.Decimal `gorm:"type:decimal(12,2);not null;default:0" json:"currentValue"`
	ProgressPercentage decimal.Decimal `gorm:"type:decimal(5,2);not null;default:0" json:"progressPercentage"`
	CreatedAt          time.Time       `json:"createdAt"`
	UpdatedAt          time.Time       `json:"updatedAt"`
}

func (GoalProgressTracking) TableName() string {
	return "goal_progress_tracking"
}

var hundred = decimal.NewFromInt(100)

// ProgressPercentage min(100, 100*current/target)，target <= 0 时为 0
func ProgressPercentage(current, target decimal.Decimal) decimal.Decimal {
	if !target.IsPositive() {
		return decimal.Zero
	}
	pct := current.Mul(hundred).Div(target).Round(2)
	if pct.GreaterThan(hundred) {
		return hundred
	}
	if pct.IsNegative() {
		return decimal.Zero
	}
	return pct
}
