package cron

import (
	"Parchment/internal/api/config"
	"Parchment/internal/job"
	log "log/slog"

	"github.com/robfig/cron/v3"
)

type Manager struct {
	engine       *cron.Cron
	cfg          config.CronConfig
	footprintJob *job.AuthorFootprintJob
	rebuildJob   *job.AuthorFootprintRebuildJob
}

func NewCronManager(cfg config.CronConfig, footprintJob *job.AuthorFootprintJob, rebuildJob *job.AuthorFootprintRebuildJob) *Manager {
	return &Manager{
		engine:       cron.New(cron.WithSeconds(), cron.WithChain(cron.SkipIfStillRunning(cron.DefaultLogger))),
		cfg:          cfg,
		footprintJob: footprintJob,
		rebuildJob:   rebuildJob,
	}
}

// RegisterJobs 注册定时任务
func (s *Manager) RegisterJobs() error {
	if _, err := s.engine.AddJob(s.cfg.FootprintDirty, s.footprintJob); err != nil {
		return err
	}
	if _, err := s.engine.AddJob(s.cfg.FootprintRebuild, s.rebuildJob); err != nil {
		return err
	}
	return nil
}

func (s *Manager) Start() {
	log.Info("Cron 定时任务引擎启动")
	s.engine.Start()
}

// RunOnStartup 启动时异步全量重算一次作者足迹
func (s *Manager) RunOnStartup() {
	if s.rebuildJob == nil {
		return
	}
	log.Info("Running footprint rebuild on startup")
	go s.rebuildJob.Run()
}

func (s *Manager) Stop() {
	log.Info("Cron 定时任务引擎停止")
	<-s.engine.Stop().Done()
}
