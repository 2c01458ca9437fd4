package pipelineimpl

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/orgball2608/deface/internal/domain"
)

var ErrNoTimelineStore = errors.New("replaying a run requires Postgres")

// Replay loads a stored run and hands its timeline to the sinks again. The
// Postgres sink recognizes the run as already stored.
func (p *PipelineImpl) Replay(ctx context.Context, runID uuid.UUID) (domain.ExportRun, error) {
	if p.Timeline == nil {
		return domain.ExportRun{}, ErrNoTimelineStore
	}

	run, err := p.Timeline.GetRun(ctx, runID)
	if err != nil {
		return domain.ExportRun{}, fmt.Errorf("failed to get run %s: %w", runID, err)
	}
	posts, err := p.Timeline.ListPosts(ctx, runID)
	if err != nil {
		return *run, fmt.Errorf("failed to list posts of run %s: %w", runID, err)
	}

	if err := p.emit(ctx, *run, posts); err != nil {
		return *run, err
	}

	p.Logger.Info("Replayed run", "run", run.ID, "created_at", run.CreatedAt, "posts", len(posts))
	return *run, nil
}
