package model

import (
	"time"

	"github.com/shopspring/decimal"
	"gorm.io/datatypes"
)

// MonthlyReport 月报，月结与按需请求时重新生成
type MonthlyReport struct {
	ID                    uint64                         `gorm:"primaryKey" json:"id"`
	UserID                uint64                         `gorm:"not null;uniqueIndex:idx_user_year_month,priority:1" json:"userId"`
	Year                  int                            `gorm:"not null;uniqueIndex:idx_user_year_month,priority:2" json:"year"`
	Month                 int                            `gorm:"not null;uniqueIndex:idx_user_year_month,priority:3" json:"month"`
	TotalWorkouts         int                            `gorm:"not null;default:0" json:"totalWorkouts"`
	TotalWorkoutMinutes   int                            `gorm:"not null;default:0" json:"totalWorkoutMinutes"`
	TotalCaloriesBurned   int                            `gorm:"not null;default:0" json:"totalCaloriesBurned"`
	TotalCaloriesConsumed int                            `gorm:"not null;default:0" json:"totalCaloriesConsumed"`
	TotalMeals            int                            `gorm:"not null;default:0" json:"totalMeals"`
	ActiveDays            int                            `gorm:"not null;default:0" json:"activeDays"`
	ConsistencyScore      decimal.Decimal                `gorm:"type:decimal(5,2);not null;default:0" json:"consistencyScore"`
	ReportData            datatypes.JSONType[ReportData] `json:"reportData"`
	GeneratedAt           time.Time                      `gorm:"not null" json:"generatedAt"`
	CreatedAt             time.Time                      `json:"createdAt"`
	UpdatedAt             time.Time                      `json:"updatedAt"`
}

func (MonthlyReport) TableName() string {
	return "monthly_reports"
}

// ReportData 月报 JSON 列的固定结构
type ReportData struct {
	ByCategory       map[string]CategoryStat `json:"byCategory"`
	BestWeek         *BestWeek               `json:"bestWeek"`
	ConsistencyScore float64                 `json:"consistencyScore"`
}

// CategoryStat 分类下的次数与分钟数
type CategoryStat struct {
	Count   int `json:"count"`
	Minutes int `json:"minutes"`
}

// BestWeek 月内得分最高的连续 7 天窗口
type BestWeek struct {
	Start string `json:"start"` // YYYY-MM-DD
	Score int    `json:"score"`
}
