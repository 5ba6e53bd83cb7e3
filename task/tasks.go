package task

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/icodeforyou/spotboard-go/config"
	"github.com/robfig/cron/v3"
)

type Tasks struct {
	cron               *cron.Cron
	cnfg               *config.AppConfig
	logger             *slog.Logger
	DashboardProbeTask func()
}

func NewTasks(assembler BoardAssembler, cnfg *config.AppConfig) *Tasks {
	logger := slog.Default().With("module", "tasks")
	return &Tasks{
		cron:   cron.New(),
		cnfg:   cnfg,
		logger: logger,
		DashboardProbeTask: NewDashboardProbeTask(
			logger.With(slog.String("task", "dashboard_probe")),
			assembler,
			cnfg.EnergiDataService.Timeout*2),
	}
}

// Run schedules the probe, nothing is scheduled when probe.run_at is empty.
func (t *Tasks) Run() error {
	if t.cnfg.Probe.RunAt == "" {
		t.logger.Debug("dashboard probe disabled")
		return nil
	}
	if _, err := t.cron.AddFunc(t.cnfg.Probe.RunAt, t.DashboardProbeTask); err != nil {
		return fmt.Errorf("failed to schedule dashboard probe (%s): %w", t.cnfg.Probe.RunAt, err)
	}
	t.cron.Start()
	return nil
}

func (t *Tasks) Stop() context.Context {
	return t.cron.Stop()
}
