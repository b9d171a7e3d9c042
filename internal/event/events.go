package event

import (
	"time"

	"github.com/shopspring/decimal"
)

// Event 流经分析管道的领域事件
type Event interface {
	Meta() *Envelope
	Topic() Topic
	// DomainDate 事件归属的业务日期，决定更新哪一行日汇总
	DomainDate() Date
}

// Envelope 所有事件共有的身份字段
type Envelope struct {
	EventID        string    `json:"eventId" validate:"required,max=64"`
	EventTimestamp time.Time `json:"eventTimestamp" validate:"required"`
	UserID         uint64    `json:"userId" validate:"gt=0"`
}

func (e *Envelope) Meta() *Envelope {
	return e
}

// UserRegistered user.registered
type UserRegistered struct {
	Envelope
	RegisteredAt time.Time `json:"registeredAt" validate:"required"`
}

func (*UserRegistered) Topic() Topic { return TopicUserRegistered }

func (e *UserRegistered) DomainDate() Date {
	return NewDate(e.RegisteredAt.UTC())
}

// UserWeightUpdated user.weight.updated
type UserWeightUpdated struct {
	Envelope
	WeightKg   decimal.Decimal `json:"weightKg" validate:"gt=0"`
	RecordedAt time.Time       `json:"recordedAt" validate:"required"`
}

func (*UserWeightUpdated) Topic() Topic { return TopicUserWeightUpdated }

func (e *UserWeightUpdated) DomainDate() Date {
	return NewDate(e.RecordedAt.UTC())
}

// MealCreated meal.created
type MealCreated struct {
	Envelope
	MealDate      Date            `json:"mealDate" validate:"required"`
	TotalCalories int             `json:"totalCalories" validate:"gte=0"`
	TotalProteinG decimal.Decimal `json:"totalProteinG" validate:"gte=0"`
	TotalCarbsG   decimal.Decimal `json:"totalCarbsG" validate:"gte=0"`
	TotalFatG     decimal.Decimal `json:"totalFatG" validate:"gte=0"`
	MealType      string          `json:"mealType,omitempty" validate:"omitempty,max=32"`
}

func (*MealCreated) Topic() Topic { return TopicMealCreated }

func (e *MealCreated) DomainDate() Date {
	return e.MealDate
}

// WorkoutCompleted workout.completed
//
// StartedAt / RatingBefore / RatingAfter 为可选字段，
// 只有客户端采集了训练前后自评时才会出现。
type WorkoutCompleted struct {
	Envelope
	WorkoutDate     Date       `json:"workoutDate" validate:"required"`
	DurationMinutes int        `json:"durationMinutes" validate:"gte=0"`
	CaloriesBurned  int        `json:"caloriesBurned" validate:"gte=0"`
	WorkoutType     string     `json:"workoutType" validate:"max=32"`
	ExerciseCount   int        `json:"exerciseCount" validate:"gte=0"`
	StartedAt       *time.Time `json:"startedAt,omitempty"`
	RatingBefore    *int       `json:"ratingBefore,omitempty" validate:"omitempty,min=1,max=10"`
	RatingAfter     *int       `json:"ratingAfter,omitempty" validate:"omitempty,min=1,max=10"`
}

func (*WorkoutCompleted) Topic() Topic { return TopicWorkoutCompleted }

func (e *WorkoutCompleted) DomainDate() Date {
	return e.WorkoutDate
}
