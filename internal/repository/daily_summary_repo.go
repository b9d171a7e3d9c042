package repository

import (
	"context"
	"errors"
	"time"

	"FitTracker/internal/model"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// errAlreadyProcessed 事务内发现重复事件，用于回滚
var errAlreadyProcessed = errors.New("event already processed")

// SummaryMutation 在行锁内对日汇总做增量修改
type SummaryMutation func(s *model.DailyActivitySummary)

type DailySummaryRepo interface {
	ApplyDelta(ctx context.Context, processed *model.ProcessedEvent, mutate SummaryMutation, session *model.WorkoutSession) (bool, error)
	GetByDate(ctx context.Context, userID uint64, date time.Time) (*model.DailyActivitySummary, error)
	ListRange(ctx context.Context, userID uint64, start, end time.Time) ([]*model.DailyActivitySummary, error)
	ListUntil(ctx context.Context, userID uint64, end time.Time) ([]*model.DailyActivitySummary, error)
	ListUserIDsInRange(ctx context.Context, start, end time.Time) ([]uint64, error)
	IsProcessed(ctx context.Context, eventID string) (bool, error)
	PurgeProcessedBefore(ctx context.Context, cutoff time.Time) (int64, error)
}

type dailySummaryRepoImpl struct {
	db *gorm.DB
}

func NewDailySummaryRepo(db *gorm.DB) DailySummaryRepo {
	return &dailySummaryRepoImpl{db: db}
}

// ApplyDelta 单事务完成：去重检查 -> 加锁取行（不存在则创建）-> 增量 -> 重算净热量 -> 写去重记录
// 返回 false 表示事件已处理过，数据未变
func (s *dailySummaryRepoImpl) ApplyDelta(ctx context.Context, processed *model.ProcessedEvent, mutate SummaryMutation, session *model.WorkoutSession) (bool, error) {
	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var count int64
		if err := tx.Model(&model.ProcessedEvent{}).Where("event_id = ?", processed.EventID).Count(&count).Error; err != nil {
			return err
		}
		if count > 0 {
			return errAlreadyProcessed
		}
		// 去重记录会被定期清理，训练记录永久保留，过期后重投的训练事件靠它识别
		if session != nil {
			if err := tx.Model(&model.WorkoutSession{}).Where("event_id = ?", session.EventID).Count(&count).Error; err != nil {
				return err
			}
			if count > 0 {
				return errAlreadyProcessed
			}
		}

		// 先占位再加锁读取，避免并发创建同一行时的唯一键冲突
		placeholder := model.NewDailyActivitySummary(processed.UserID, processed.ActivityDate)
		if err := tx.Clauses(clause.OnConflict{DoNothing: true}).Create(placeholder).Error; err != nil {
			return err
		}
		var summary model.DailyActivitySummary
		err := tx.Clauses(clause.Locking{Strength: "UPDATE"}).
			Where("user_id = ? AND activity_date = ?", processed.UserID, processed.ActivityDate).
			First(&summary).Error
		if err != nil {
			return err
		}

		if mutate != nil {
			mutate(&summary)
		}
		summary.RecomputeNet()
		if err := tx.Save(&summary).Error; err != nil {
			return err
		}

		if session != nil {
			if err := tx.Create(session).Error; err != nil {
				if errors.Is(err, gorm.ErrDuplicatedKey) {
					return errAlreadyProcessed
				}
				return err
			}
		}

		if err := tx.Create(processed).Error; err != nil {
			// 并发重投时另一方已先提交
			if errors.Is(err, gorm.ErrDuplicatedKey) {
				return errAlreadyProcessed
			}
			return err
		}
		return nil
	})
	if errors.Is(err, errAlreadyProcessed) {
		return false, nil
	}
	if err != nil {
		return false, err
	}
	return true, nil
}

// GetByDate 不存在时返回 nil, nil
func (s *dailySummaryRepoImpl) GetByDate(ctx context.Context, userID uint64, date time.Time) (*model.DailyActivitySummary, error) {
	var summary model.DailyActivitySummary
	err := s.db.WithContext(ctx).
		Where("user_id = ? AND activity_date = ?", userID, date).
		First(&summary).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return &summary, nil
}

// ListRange 闭区间 [start, end] 内的日汇总，按日期升序
func (s *dailySummaryRepoImpl) ListRange(ctx context.Context, userID uint64, start, end time.Time) ([]*model.DailyActivitySummary, error) {
	summaries := make([]*model.DailyActivitySummary, 0)
	result := s.db.WithContext(ctx).
		Where("user_id = ?", userID).
		Where("activity_date >= ? AND activity_date <= ?", start, end).
		Order("activity_date ASC").
		Find(&summaries)
	if result.Error != nil {
		return nil, result.Error
	}
	return summaries, nil
}

// ListUntil 截至 end（含）的全部历史，用于里程碑与连续天数
func (s *dailySummaryRepoImpl) ListUntil(ctx context.Context, userID uint64, end time.Time) ([]*model.DailyActivitySummary, error) {
	summaries := make([]*model.DailyActivitySummary, 0)
	result := s.db.WithContext(ctx).
		Where("user_id = ? AND activity_date <= ?", userID, end).
		Order("activity_date ASC").
		Find(&summaries)
	if result.Error != nil {
		return nil, result.Error
	}
	return summaries, nil
}

// ListUserIDsInRange 区间内有日汇总的用户
func (s *dailySummaryRepoImpl) ListUserIDsInRange(ctx context.Context, start, end time.Time) ([]uint64, error) {
	userIDs := make([]uint64, 0)
	err := s.db.WithContext(ctx).Model(&model.DailyActivitySummary{}).
		Where("activity_date >= ? AND activity_date <= ?", start, end).
		Distinct().
		Order("user_id ASC").
		Pluck("user_id", &userIDs).Error
	return userIDs, err
}

func (s *dailySummaryRepoImpl) IsProcessed(ctx context.Context, eventID string) (bool, error) {
	var count int64
	err := s.db.WithContext(ctx).Model(&model.ProcessedEvent{}).
		Where("event_id = ?", eventID).
		Count(&count).Error
	return count > 0, err
}

// PurgeProcessedBefore 清理过期的去重记录，返回删除行数
func (s *dailySummaryRepoImpl) PurgeProcessedBefore(ctx context.Context, cutoff time.Time) (int64, error) {
	result := s.db.WithContext(ctx).
		Where("processed_at < ?", cutoff).
		Delete(&model.ProcessedEvent{})
	return result.RowsAffected, result.Error
}
