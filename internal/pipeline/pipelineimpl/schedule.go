package pipelineimpl

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/go-co-op/gocron/v2"
)

// Schedule registers a cron job that reruns the whole batch. Runs never
// overlap; a tick that arrives while a run is in progress is skipped.
func (p *PipelineImpl) Schedule(ctx context.Context, cron string, files []string) error {
	loc, err := time.LoadLocation(p.Config.Schedule.TimeZone)
	if err != nil {
		loc = time.Local
		p.Logger.Warn("Failed to load timezone, using local timezone", "timezone", p.Config.Schedule.TimeZone, "error", err)
	}

	scheduler, err := gocron.NewScheduler(gocron.WithLocation(loc))
	if err != nil {
		return fmt.Errorf("failed to create scheduler: %w", err)
	}

	withSeconds := len(strings.Fields(cron)) == 6
	_, err = scheduler.NewJob(
		gocron.CronJob(cron, withSeconds),
		gocron.NewTask(func() {
			if ctx.Err() != nil {
				p.Logger.Info("Context cancelled, skipping scheduled run")
				return
			}

			p.Logger.Info("Starting scheduled run", "files", len(files))
			if _, err := p.Run(ctx, files); err != nil {
				p.Logger.Error("Scheduled run failed", "error", err)
			}
		}),
		gocron.WithSingletonMode(gocron.LimitModeReschedule),
	)
	if err != nil {
		_ = scheduler.Shutdown()
		return fmt.Errorf("failed to schedule run: %w", err)
	}

	scheduler.Start()
	p.Logger.Info("Scheduled runs", "cron", cron, "timezone", loc.String())

	go func() {
		<-ctx.Done()
		p.Logger.Info("Stopping run scheduler")
		if err := scheduler.Shutdown(); err != nil {
			p.Logger.Error("Failed to shut down scheduler", "error", err)
		}
	}()

	return nil
}
