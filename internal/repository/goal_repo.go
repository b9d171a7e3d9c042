package repository

import (
	"context"

	"FitTracker/internal/model"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

type GoalRepo interface {
	CreateGoal(ctx context.Context, goal *model.UserGoal) error
	DeleteGoal(ctx context.Context, userID, goalID uint64) (bool, error)
	ListActiveGoals(ctx context.Context) ([]*model.UserGoal, error)
	ListActiveGoalsByUser(ctx context.Context, userID uint64) ([]*model.UserGoal, error)
	SaveProgress(ctx context.Context, progress *model.GoalProgressTracking) error
}

type goalRepoImpl struct {
	db *gorm.DB
}

func NewGoalRepo(db *gorm.DB) GoalRepo {
	return &goalRepoImpl{db: db}
}

func (s *goalRepoImpl) CreateGoal(ctx context.Context, goal *model.UserGoal) error {
	return s.db.WithContext(ctx).Create(goal).Error
}

// DeleteGoal 目标与其进度记录一并删除，目标不属于该用户时返回 false
func (s *goalRepoImpl) DeleteGoal(ctx context.Context, userID, goalID uint64) (bool, error) {
	deleted := false
	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		res := tx.Where("id = ? AND user_id = ?", goalID, userID).Delete(&model.UserGoal{})
		if res.Error != nil {
			return res.Error
		}
		if res.RowsAffected == 0 {
			return nil
		}
		deleted = true
		return tx.Where("goal_id = ?", goalID).Delete(&model.GoalProgressTracking{}).Error
	})
	return deleted, err
}

func (s *goalRepoImpl) ListActiveGoals(ctx context.Context) ([]*model.UserGoal, error) {
	goals := make([]*model.UserGoal, 0)
	err := s.db.WithContext(ctx).Where("active = ?", true).Order("id ASC").Find(&goals).Error
	return goals, err
}

func (s *goalRepoImpl) ListActiveGoalsByUser(ctx context.Context, userID uint64) ([]*model.UserGoal, error) {
	goals := make([]*model.UserGoal, 0)
	err := s.db.WithContext(ctx).
		Where("user_id = ? AND active = ?", userID, true).
		Order("id ASC").
		Find(&goals).Error
	return goals, err
}

// SaveProgress (goal_id, tracking_date) 唯一，重复计算覆盖旧值
func (s *goalRepoImpl) SaveProgress(ctx context.Context, progress *model.GoalProgressTracking) error {
	return s.db.WithContext(ctx).Clauses(clause.OnConflict{
		Columns:   []clause.Column{{Name: "goal_id"}, {Name: "tracking_date"}},
		DoUpdates: clause.AssignmentColumns([]string{"current_value", "progress_percentage", "updated_at"}),
	}).Create(progress).Error
}
