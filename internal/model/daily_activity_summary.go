package model

import (
	"time"

	"github.com/shopspring/decimal"
)

// DailyActivitySummary 用户单日活动汇总，由事件消费端独占写入
type DailyActivitySummary struct {
	ID                          uint64          `gorm:"primaryKey" json:"id"`
	UserID                      uint64          `gorm:"not null;uniqueIndex:idx_user_activity_date,priority:1" json:"userId"`
	ActivityDate                time.Time       `gorm:"type:date;not null;uniqueIndex:idx_user_activity_date,priority:2" json:"activityDate"`
	TotalCaloriesConsumed       int             `gorm:"not null;default:0" json:"totalCaloriesConsumed"`
	TotalCaloriesBurned         int             `gorm:"not null;default:0" json:"totalCaloriesBurned"`
	NetCalories                 int             `gorm:"not null;default:0" json:"netCalories"`
	ProteinG                    decimal.Decimal `gorm:"type:decimal(10,2);not null;default:0" json:"proteinG"`
	CarbsG                      decimal.Decimal `gorm:"type:decimal(10,2);not null;default:0" json:"carbsG"`
	FatG                        decimal.Decimal `gorm:"type:decimal(10,2);not null;default:0" json:"fatG"`
	MealsLogged                 int             `gorm:"not null;default:0" json:"mealsLogged"`
	WorkoutsCompleted           int             `gorm:"not null;default:0" json:"workoutsCompleted"`
	TotalWorkoutDurationMinutes int             `gorm:"not null;default:0" json:"totalWorkoutDurationMinutes"`
	ActiveMinutes               int             `gorm:"not null;default:0" json:"activeMinutes"`
	StepsCount                  int             `gorm:"not null;default:0" json:"stepsCount"`
	WaterIntakeMl               int             `gorm:"not null;default:0" json:"waterIntakeMl"`
	CreatedAt                   time.Time       `json:"createdAt"`
	UpdatedAt                   time.Time       `json:"updatedAt"`
}

func (DailyActivitySummary) TableName() string {
	return "daily_activity_summaries"
}

// NewDailyActivitySummary 懒创建的零值汇总行
func NewDailyActivitySummary(userID uint64, date time.Time) *DailyActivitySummary {
	return &DailyActivitySummary{
		UserID:       userID,
		ActivityDate: date,
		ProteinG:     decimal.Zero,
		CarbsG:       decimal.Zero,
		FatG:         decimal.Zero,
	}
}

// RecomputeNet 每次写入前调用，保证 net = consumed - burned
func (s *DailyActivitySummary) RecomputeNet() {
	s.NetCalories = s.TotalCaloriesConsumed - s.TotalCaloriesBurned
}

// HasActivity 当天是否有任何记录（饮食、训练或活动分钟）
func (s *DailyActivitySummary) HasActivity() bool {
	return s.MealsLogged+s.WorkoutsCompleted > 0 || s.ActiveMinutes > 0
}
