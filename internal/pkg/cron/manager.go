package cron

import (
	"FitTracker/internal/api/config"
	"FitTracker/internal/job"
	log "log/slog"

	"github.com/robfig/cron/v3"
)

type Manager struct {
	engine          *cron.Cron
	cfg             config.AnalyticsConfig
	rollupJob       *job.NightlyRollupJob
	dirtyRollupJob  *job.DirtyRollupJob
	purgeJob        *job.PurgeJob
	goalProgressJob *job.GoalProgressJob
}

func NewCronManager(
	cfg config.AnalyticsConfig,
	rollupJob *job.NightlyRollupJob,
	dirtyRollupJob *job.DirtyRollupJob,
	purgeJob *job.PurgeJob,
	goalProgressJob *job.GoalProgressJob,
) *Manager {
	return &Manager{
		// 上一轮未结束时跳过本轮，调度按分析时区计算
		engine: cron.New(
			cron.WithSeconds(),
			cron.WithLocation(cfg.Location()),
			cron.WithChain(cron.Recover(cron.DefaultLogger), cron.SkipIfStillRunning(cron.DefaultLogger)),
		),
		cfg:             cfg,
		rollupJob:       rollupJob,
		dirtyRollupJob:  dirtyRollupJob,
		purgeJob:        purgeJob,
		goalProgressJob: goalProgressJob,
	}
}

// RegisterJobs 注册定时任务
func (s *Manager) RegisterJobs() error {
	jobs := []struct {
		name string
		spec string
		job  cron.Job
	}{
		{"nightly_rollup", s.cfg.RollupCron, s.rollupJob},
		{"dirty_rollup", s.cfg.DirtyCron, s.dirtyRollupJob},
		{"processed_event_purge", s.cfg.PurgeCron, s.purgeJob},
		{"goal_progress", s.cfg.GoalCron, s.goalProgressJob},
	}
	for _, j := range jobs {
		if j.spec == "" {
			log.Warn("cron job disabled", "job", j.name)
			continue
		}
		if _, err := s.engine.AddJob(j.spec, j.job); err != nil {
			return err
		}
		log.Info("cron job registered", "job", j.name, "spec", j.spec)
	}
	return nil
}

func (s *Manager) Start() {
	log.Info("Cron 定时任务引擎启动")
	s.engine.Start()
}

// Stop 停止调度并等待运行中的任务结束
func (s *Manager) Stop() {
	log.Info("Cron 定时任务引擎停止")
	<-s.engine.Stop().Done()
}
