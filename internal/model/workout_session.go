package model

import "time"

// WorkoutSession 单次训练记录，来源于 workout.completed 事件，供增强分析使用
type WorkoutSession struct {
	ID              uint64     `gorm:"primaryKey" json:"id"`
	EventID         string     `gorm:"type:varchar(64);not null;uniqueIndex:idx_session_event" json:"eventId"`
	UserID          uint64     `gorm:"not null;index:idx_session_user_date,priority:1" json:"userId"`
	WorkoutDate     time.Time  `gorm:"type:date;not null;index:idx_session_user_date,priority:2" json:"workoutDate"`
	StartedAt       *time.Time `json:"startedAt"`
	DurationMinutes int        `gorm:"not null;default:0" json:"durationMinutes"`
	WorkoutType     string     `gorm:"type:varchar(32);not null;default:''" json:"workoutType"`
	CaloriesBurned  int        `gorm:"not null;default:0" json:"caloriesBurned"`
	ExerciseCount   int        `gorm:"not null;default:0" json:"exerciseCount"`
	RatingBefore    *int       `gorm:"type:tinyint" json:"ratingBefore"`
	RatingAfter     *int       `gorm:"type:tinyint" json:"ratingAfter"`
	CreatedAt       time.Time  `json:"createdAt"`
}

func (WorkoutSession) TableName() string {
	return "workout_sessions"
}
