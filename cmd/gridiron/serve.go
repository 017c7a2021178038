package main

import (
	"context"
	"fmt"
	"os/signal"
	"strconv"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/yourusername/gridiron-edge/internal/health"
	"github.com/yourusername/gridiron-edge/internal/metrics"
	"github.com/yourusername/gridiron-edge/internal/pipeline"
	"github.com/yourusername/gridiron-edge/internal/report"
	"github.com/yourusername/gridiron-edge/internal/scheduler"
)

var serveRunNow bool

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Run the pipeline on schedule.cron and expose health and metrics",
	RunE:  runServe,
}

func init() {
	serveCmd.Flags().BoolVar(&serveRunNow, "run-now", false, "Run one cycle immediately after start")
}

func runServe(cmd *cobra.Command, _ []string) error {
	if !cfg.Schedule.Enabled {
		return fmt.Errorf("schedule.enabled is false")
	}
	ctx, stop := signal.NotifyContext(cmd.Context(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	in, err := openInputs(ctx, cfg)
	if err != nil {
		return err
	}
	defer in.close()

	// Season and week are resolved per cycle; FromConfig only needs a
	// placeholder here.
	base, err := pipeline.FromConfig(cfg, 1, 1)
	if err != nil {
		return err
	}
	var opts []pipeline.Option
	if in.repos != nil {
		opts = append(opts, pipeline.WithRecorder(in.repos.Recommendation))
	}
	weekly, err := pipeline.NewWeekly(base, cfg.Schedule.Season, cfg.Schedule.Week, in.source, newCalibration(), log, opts...)
	if err != nil {
		return err
	}

	sched := scheduler.NewScheduler(&cycle{weekly: weekly, refresh: in.refresh}, func(rep *pipeline.Report) {
		log.Info(report.Console(rep))
	}, log)

	metrics.InitRegistry()
	healthCfg := health.Config{
		ServiceName: cfg.App.Name,
		Version:     Version,
		Commit:      GitCommit,
		Port:        strconv.Itoa(cfg.Metrics.Port),
		Logger:      log,
		MetricsPath: cfg.Metrics.Path,
		Cycles:      sched,
	}
	if cfg.Metrics.Enabled {
		healthCfg.Metrics = metrics.Handler()
	}
	if in.db != nil {
		healthCfg.DB = in.db
	}
	srv := health.NewServer(healthCfg)
	if err := srv.Start(ctx); err != nil {
		return err
	}

	if err := sched.SchedulePipeline(cfg.Schedule.Cron); err != nil {
		return err
	}
	if err := sched.Start(); err != nil {
		return err
	}
	srv.SetReady(true)
	log.WithField("next_run", sched.GetNextRun()).Info("Service started")

	if serveRunNow {
		go sched.RunOnce()
	}

	<-ctx.Done()
	srv.SetReady(false)
	if err := sched.Stop(); err != nil {
		log.WithError(err).Warn("Scheduler did not stop cleanly")
	}
	return srv.Shutdown()
}

// cycle starts every scheduled run from fresh feed data, so the week
// resolution sees the current schedule.
type cycle struct {
	weekly  *pipeline.Weekly
	refresh func()
}

func (c *cycle) Run(ctx context.Context) (*pipeline.Report, error) {
	c.refresh()
	return c.weekly.Run(ctx)
}

var migrateCmd = &cobra.Command{
	Use:   "migrate",
	Short: "Create the database tables",
	RunE: func(cmd *cobra.Command, _ []string) error {
		ctx, cancel := context.WithCancel(cmd.Context())
		defer cancel()
		db, err := newDB(ctx)
		if err != nil {
			return err
		}
		defer db.Close()
		if err := db.Migrate(ctx); err != nil {
			return err
		}
		log.Info("Database schema is up to date")
		return nil
	},
}
