package repository

import (
	"context"
	"time"

	"FitTracker/internal/model"

	"gorm.io/gorm"
)

// WorkoutSessionRepo 训练会话只读查询，写入随日汇总事务完成
type WorkoutSessionRepo interface {
	ListUntil(ctx context.Context, userID uint64, end time.Time) ([]*model.WorkoutSession, error)
}

type workoutSessionRepoImpl struct {
	db *gorm.DB
}

func NewWorkoutSessionRepo(db *gorm.DB) WorkoutSessionRepo {
	return &workoutSessionRepoImpl{db: db}
}

func (s *workoutSessionRepoImpl) ListUntil(ctx context.Context, userID uint64, end time.Time) ([]*model.WorkoutSession, error) {
	sessions := make([]*model.WorkoutSession, 0)
	err := s.db.WithContext(ctx).
		Where("user_id = ? AND workout_date <= ?", userID, end).
		Order("workout_date ASC, id ASC").
		Find(&sessions).Error
	return sessions, err
}
