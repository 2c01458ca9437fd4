package pipelineimpl

import (
	"context"
	"time"

	"github.com/orgball2608/deface/internal/archive"
	"github.com/orgball2608/deface/internal/export"
	"github.com/orgball2608/deface/internal/pipeline"
	"github.com/orgball2608/deface/internal/repositories/timeline"
	"github.com/orgball2608/deface/internal/telegram"
	"github.com/orgball2608/deface/pkg/config"
	"github.com/orgball2608/deface/pkg/logger"
	"github.com/panjf2000/ants/v2"
	"go.uber.org/fx"
)

// Loader reads and decodes archive files.
type Loader interface {
	Load(ctx context.Context, files []string) ([]archive.Batch, error)
}

type Opts struct {
	fx.In

	Config   *config.Config
	Logger   logger.Logger
	Loader   Loader
	Sinks    []export.Sink       `group:"sinks"`
	Notifier telegram.Client     `optional:"true"`
	Timeline timeline.Repository `optional:"true"`
}

type PipelineImpl struct {
	Config   *config.Config
	Logger   logger.Logger
	Loader   Loader
	Sinks    []export.Sink
	Notifier telegram.Client
	Timeline timeline.Repository

	now     func() time.Time
	newPool func(size int) (*ants.Pool, error)
}

func newSinkPool(size int) (*ants.Pool, error) {
	return ants.NewPool(size, ants.WithPreAlloc(true))
}

var _ pipeline.Runner = (*PipelineImpl)(nil)

func New(opts Opts) *PipelineImpl {
	return &PipelineImpl{
		Config:   opts.Config,
		Logger:   opts.Logger.WithComponent("Pipeline"),
		Loader:   opts.Loader,
		Sinks:    opts.Sinks,
		Notifier: opts.Notifier,
		Timeline: opts.Timeline,
		now:      time.Now,
		newPool:  newSinkPool,
	}
}
