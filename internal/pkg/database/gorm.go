package database

import (
	"fmt"
	log "log/slog"
	"time"

	"FitTracker/internal/api/config"
	"FitTracker/internal/model"
	"FitTracker/internal/pkg/logger"

	"gorm.io/driver/mysql"
	"gorm.io/gorm"
)

// NewGormDB 初始化并返回 *gorm.DB 实例，处理连接池配置
func NewGormDB(cfg *config.DBConfig) (*gorm.DB, error) {
	db, err := gorm.Open(mysql.Open(cfg.DSN), &gorm.Config{
		Logger:      logger.NewGormLogger(),
		PrepareStmt: true,
		// 唯一键冲突统一翻译为 gorm.ErrDuplicatedKey，去重逻辑依赖它
		TranslateError: true,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to open database connection: %w", err)
	}

	sqlDB, err := db.DB()
	if err != nil {
		return nil, fmt.Errorf("failed to get underlying DB: %w", err)
	}

	sqlDB.SetMaxIdleConns(cfg.MaxIdle)
	sqlDB.SetMaxOpenConns(cfg.MaxOpen)
	sqlDB.SetConnMaxLifetime(time.Duration(cfg.MaxLifetime) * time.Minute)

	if err = sqlDB.Ping(); err != nil {
		return nil, fmt.Errorf("database connection check failed: %w", err)
	}

	log.Info("Database connection established successfully.")
	return db, nil
}

// Models 分析服务拥有的全部表
func Models() []any {
	return []any{
		&model.DailyActivitySummary{},
		&model.ProcessedEvent{},
		&model.WorkoutSession{},
		&model.WorkoutAnalytics{},
		&model.NutritionAnalytics{},
		&model.MonthlyReport{},
		&model.UserGoal{},
		&model.GoalProgressTracking{},
	}
}

// AutoMigrate 启动时建表/补列
func AutoMigrate(db *gorm.DB) error {
	if err := db.AutoMigrate(Models()...); err != nil {
		return fmt.Errorf("auto migrate: %w", err)
	}
	return nil
}
