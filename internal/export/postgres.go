package export

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5/pgconn"
	"github.com/orgball2608/deface/internal/domain"
	"github.com/orgball2608/deface/internal/repositories"
	"github.com/orgball2608/deface/internal/repositories/timeline"
	"github.com/orgball2608/deface/pkg/logger"
	"github.com/orgball2608/deface/pkg/retry"
	"go.uber.org/fx"
)

type PostgresOpts struct {
	fx.In

	Repository timeline.Repository
	Logger     logger.Logger
}

// Postgres stores each run with its timeline.
type Postgres struct {
	repo   timeline.Repository
	logger logger.Logger
	retry  retry.Config
}

var _ Sink = (*Postgres)(nil)

func NewPostgres(opts PostgresOpts) *Postgres {
	return &Postgres{
		repo:   opts.Repository,
		logger: opts.Logger.WithComponent("PostgresSink"),
		retry:  storeRetry(),
	}
}

func storeRetry() retry.Config {
	cfg := retry.DefaultConfig()
	cfg.Permanent = permanent
	return cfg
}

// permanent reports failures caused by the statement or the data rather than
// the connection: bad queries, data exceptions (class 22), integrity
// violations (class 23) and syntax or access errors (class 42).
func permanent(err error) bool {
	if errors.Is(err, repositories.ErrBadQuery) {
		return true
	}
	var pgErr *pgconn.PgError
	if !errors.As(err, &pgErr) || len(pgErr.Code) < 2 {
		return false
	}
	switch pgErr.Code[:2] {
	case "22", "23", "42":
		return true
	}
	return false
}

func (p *Postgres) Name() string {
	return "postgres"
}

func (p *Postgres) Emit(ctx context.Context, run domain.ExportRun, posts []domain.Post) error {
	err := retry.Do(ctx, p.logger, "save timeline", func() error {
		err := p.repo.Save(ctx, run, posts)
		if errors.Is(err, timeline.ErrAlreadyExists) {
			// An earlier attempt committed before failing to report back.
			p.logger.Warn("Export run already stored", "run", run.ID)
			return nil
		}
		return err
	}, p.retry)
	if err != nil {
		return fmt.Errorf("failed to store run %s: %w", run.ID, err)
	}

	p.logger.Info("Stored timeline", "run", run.ID, "posts", len(posts))
	return nil
}
