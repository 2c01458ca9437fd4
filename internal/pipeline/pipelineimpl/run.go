package pipelineimpl

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/orgball2608/deface/internal/domain"
	"github.com/orgball2608/deface/internal/history"
	"github.com/orgball2608/deface/internal/pipeline"
	apperrors "github.com/orgball2608/deface/pkg/errors"
)

func (p *PipelineImpl) Run(ctx context.Context, files []string) (pipeline.Report, error) {
	report := pipeline.Report{Files: len(files)}

	batches, err := p.Loader.Load(ctx, files)
	if err != nil {
		return report, fmt.Errorf("failed to load files: %w", err)
	}

	posts := history.New()
	for _, batch := range batches {
		if batch.Err != nil {
			report.Unreadable++
			p.Logger.Error("Failed to load file", "file", batch.File, "error", batch.Err)
			continue
		}

		report.Raw += batch.Raw
		failures := batch.Errors
		for _, post := range batch.Posts {
			if err := posts.Add(post); err != nil {
				failures = append(failures, err)
			}
		}
		report.Malformed += len(failures)
		for _, err := range failures {
			p.Logger.Error(err.Error(), "file", batch.File, "details", apperrors.Details(err))
		}
	}

	timeline := posts.Timeline()
	report.Posts = len(timeline)

	for _, r := range history.FindSimultaneous(timeline) {
		report.Timestamps++
		report.Simultaneous += r.Len()
		p.Logger.Warn(
			fmt.Sprintf("There are %d posts with timestamp %d", r.Len(), timeline[r.Start].Timestamp),
			"posts", timeline[r.Start:r.Stop],
		)
	}

	report.Run = domain.ExportRun{
		ID:        uuid.New(),
		CreatedAt: p.now().UTC(),
		Files:     files,
		Posts:     len(timeline),
	}
	if err := p.emit(ctx, report.Run, timeline); err != nil {
		return report, err
	}

	p.signOff(ctx, report)
	return report, nil
}

// emit hands the timeline to all sinks at once and waits for them.
func (p *PipelineImpl) emit(ctx context.Context, run domain.ExportRun, timeline []domain.Post) error {
	if len(p.Sinks) == 0 {
		return nil
	}

	pool, err := p.newPool(len(p.Sinks))
	if err != nil {
		return fmt.Errorf("failed to create sink pool: %w", err)
	}
	defer func() {
		if err := pool.ReleaseTimeout(time.Second); err != nil {
			p.Logger.Warn("Sink pool did not shut down in time", "error", err)
		}
	}()

	var (
		wg   sync.WaitGroup
		mu   sync.Mutex
		errs []error
	)
	for _, sink := range p.Sinks {
		wg.Add(1)
		err := pool.Submit(func() {
			defer wg.Done()
			if err := sink.Emit(ctx, run, timeline); err != nil {
				p.Logger.Error("Sink failed", "sink", sink.Name(), "run", run.ID, "error", err)
				mu.Lock()
				errs = append(errs, fmt.Errorf("%s: %w", sink.Name(), err))
				mu.Unlock()
				return
			}
			p.Logger.Debug("Sink done", "sink", sink.Name(), "run", run.ID)
		})
		if err != nil {
			wg.Done()
			mu.Lock()
			errs = append(errs, fmt.Errorf("failed to submit %s: %w", sink.Name(), err))
			mu.Unlock()
		}
	}
	wg.Wait()

	if err := errors.Join(errs...); err != nil {
		return fmt.Errorf("failed to emit timeline: %w", err)
	}
	return nil
}

func (p *PipelineImpl) signOff(ctx context.Context, report pipeline.Report) {
	message := report.String()
	if report.Failed() {
		p.Logger.Error(message, "run", report.Run.ID)
	} else {
		p.Logger.Info(message, "run", report.Run.ID)
	}

	if p.Notifier == nil {
		return
	}
	if err := p.Notifier.SendMessageToUser(ctx, message); err != nil {
		p.Logger.Error("Failed to send run summary", "run", report.Run.ID, "error", err)
	}
}
