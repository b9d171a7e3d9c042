package model

import (
	"time"

	"github.com/shopspring/decimal"
	"gorm.io/datatypes"
)

// NutritionAnalytics 饮食周期汇总
type NutritionAnalytics struct {
	ID                   uint64                             `gorm:"primaryKey" json:"id"`
	UserID               uint64                             `gorm:"not null;uniqueIndex:idx_nutrition_period,priority:1" json:"userId"`
	PeriodType           PeriodType                         `gorm:"type:varchar(16);not null;uniqueIndex:idx_nutrition_period,priority:2" json:"periodType"`
	StartDate            time.Time                          `gorm:"type:date;not null;uniqueIndex:idx_nutrition_period,priority:3" json:"startDate"`
	EndDate              time.Time                          `gorm:"type:date;not null;uniqueIndex:idx_nutrition_period,priority:4" json:"endDate"`
	TotalCalories        int                                `gorm:"not null;default:0" json:"totalCalories"`
	TotalProteinG        decimal.Decimal                    `gorm:"type:decimal(12,2);not null;default:0" json:"totalProteinG"`
	TotalCarbsG          decimal.Decimal                    `gorm:"type:decimal(12,2);not null;default:0" json:"totalCarbsG"`
	TotalFatG            decimal.Decimal                    `gorm:"type:decimal(12,2);not null;default:0" json:"totalFatG"`
	AverageDailyCalories decimal.Decimal                    `gorm:"type:decimal(10,2);not null;default:0" json:"averageDailyCalories"`
	TotalMeals           int                                `gorm:"not null;default:0" json:"totalMeals"`
	DaysLogged           int                                `gorm:"not null;default:0" json:"daysLogged"`
	MealTypeCounts       datatypes.JSONType[map[string]int] `json:"mealTypeCounts"`
	CreatedAt            time.Time                          `json:"createdAt"`
	UpdatedAt            time.Time                          `json:"updatedAt"`
}

func (NutritionAnalytics) TableName() string {
	return "nutrition_analytics"
}
