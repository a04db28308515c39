package cron

import log "log/slog"

// InitCron 注册并启动定时任务
func InitCron(mgr *Manager) error {
	if err := mgr.RegisterJobs(); err != nil {
		log.Error("Failed to register cron jobs", "err", err)
		return err
	}
	mgr.Start()
	mgr.RunOnStartup()
	return nil
}
