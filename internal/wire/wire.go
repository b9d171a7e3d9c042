package wire

import (
	"FitTracker/internal/api"
	"FitTracker/internal/api/config"
	"FitTracker/internal/api/handler"
	"FitTracker/internal/job"
	"FitTracker/internal/pkg/cron"
	"FitTracker/internal/pkg/kafka"
	"FitTracker/internal/pkg/redis"
	"FitTracker/internal/pkg/source"
	"FitTracker/internal/repository"
	"FitTracker/internal/service"

	"github.com/gin-gonic/gin"
	"github.com/pkg/errors"
	redisv9 "github.com/redis/go-redis/v9"
	"gorm.io/gorm"
)

// ApplicationContainer 封装了应用运行所需的所有顶级组件
type ApplicationContainer struct {
	Router       *gin.Engine
	DB           *gorm.DB
	KafkaManager *kafka.ConsumerManager
	CronMgr      *cron.Manager
}

func BuildApplication(db *gorm.DB, rdb *redisv9.Client, cfg *config.Config) (*ApplicationContainer, error) {
	loc := cfg.Analytics.Location()
	store := redis.NewStore(rdb)
	sourceClient := source.NewClient(cfg.Source)

	summaryRepo := repository.NewDailySummaryRepo(db)
	sessionRepo := repository.NewWorkoutSessionRepo(db)
	periodRepo := repository.NewPeriodAnalyticsRepo(db)
	goalRepo := repository.NewGoalRepo(db)

	summaryService := service.NewDailySummaryService(summaryRepo, store)
	rollupService := service.NewRollupService(summaryRepo, periodRepo, sourceClient)
	dashboardService := service.NewDashboardService(summaryRepo, sessionRepo, store, loc)
	goalService := service.NewGoalService(goalRepo, summaryRepo)

	handlers := &api.HandlersGroup{
		AnalyticsHandler: handler.NewAnalyticsHandler(summaryService, rollupService, dashboardService, loc),
		GoalHandler:      handler.NewGoalHandler(goalService, loc),
	}

	router := api.SetupRouter(handlers)

	kafkaMgr, err := kafka.NewConsumerManager(cfg, summaryService)
	if err != nil {
		return nil, errors.Wrap(err, "create kafka consumer group")
	}

	cronMgr := cron.NewCronManager(
		cfg.Analytics,
		job.NewNightlyRollupJob(rollupService, store, loc),
		job.NewDirtyRollupJob(rollupService, dashboardService, store),
		job.NewPurgeJob(summaryService, store, cfg.Analytics.ProcessedEventRetentionDays),
		job.NewGoalProgressJob(goalService, store, loc),
	)

	return &ApplicationContainer{
		Router:       router,
		DB:           db,
		KafkaManager: kafkaMgr,
		CronMgr:      cronMgr,
	}, nil
}
