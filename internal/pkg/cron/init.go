package cron

import log "log/slog"

// InitCron 注册全部分析任务并启动调度
func InitCron(mgr *Manager) error {
	if err := mgr.RegisterJobs(); err != nil {
		return err
	}
	mgr.Start()
	log.Info("Cron Jobs started", "entries", len(mgr.engine.Entries()), "timezone", mgr.cfg.Location().String())
	return nil
}
