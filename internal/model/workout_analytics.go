package model

import (
	"time"

	"github.com/shopspring/decimal"
	"gorm.io/datatypes"
)

// WorkoutAnalytics 训练周期汇总，由 rollup 引擎重算
type WorkoutAnalytics struct {
	ID                     uint64                             `gorm:"primaryKey" json:"id"`
	UserID                 uint64                             `gorm:"not null;uniqueIndex:idx_workout_period,priority:1" json:"userId"`
	PeriodType             PeriodType                         `gorm:"type:varchar(16);not null;uniqueIndex:idx_workout_period,priority:2" json:"periodType"`
	StartDate              time.Time                          `gorm:"type:date;not null;uniqueIndex:idx_workout_period,priority:3" json:"startDate"`
	EndDate                time.Time                          `gorm:"type:date;not null;uniqueIndex:idx_workout_period,priority:4" json:"endDate"`
	TotalWorkouts          int                                `gorm:"not null;default:0" json:"totalWorkouts"`
	TotalDurationMinutes   int                                `gorm:"not null;default:0" json:"totalDurationMinutes"`
	TotalCaloriesBurned    int                                `gorm:"not null;default:0" json:"totalCaloriesBurned"`
	AverageDurationMinutes decimal.Decimal                    `gorm:"type:decimal(10,2);not null;default:0" json:"averageDurationMinutes"`
	ActiveDays             int                                `gorm:"not null;default:0" json:"activeDays"`
	WorkoutTypeCounts      datatypes.JSONType[map[string]int] `json:"workoutTypeCounts"`
	CreatedAt              time.Time                          `json:"createdAt"`
	UpdatedAt              time.Time                          `json:"updatedAt"`
}

func (WorkoutAnalytics) TableName() string {
	return "workout_analytics"
}
