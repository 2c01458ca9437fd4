package app

import (
	"context"

	"github.com/orgball2608/deface/internal/archive"
	"github.com/orgball2608/deface/internal/export"
	"github.com/orgball2608/deface/internal/migrations"
	"github.com/orgball2608/deface/internal/pipeline"
	"github.com/orgball2608/deface/internal/pipeline/pipelineimpl"
	repositories "github.com/orgball2608/deface/internal/repositories/fx"
	"github.com/orgball2608/deface/internal/telegram"
	"github.com/orgball2608/deface/internal/telegram/telegramimpl"
	"github.com/orgball2608/deface/pkg/config"
	"github.com/orgball2608/deface/pkg/logger"
	"github.com/orgball2608/deface/pkg/pgx"
	"go.uber.org/fx"
)

// Options assembles the application for the given configuration and logger.
// The stdout writer is always present; Postgres and Telegram are added when
// enabled.
func Options(cfg *config.Config, log *logger.Impl) fx.Option {
	options := []fx.Option{
		fx.Supply(cfg),
		logger.FxOption(log),
		fx.Provide(
			fx.Annotate(
				archive.New,
				fx.As(new(pipelineimpl.Loader)),
			),
			fx.Annotate(
				pipelineimpl.New,
				fx.As(new(pipeline.Runner)),
			),
		),
		export.Module,
	}

	if cfg.Postgres.Enabled {
		options = append(options, Postgres)
	}
	if cfg.Telegram.Enabled {
		options = append(options, Telegram)
	}
	return fx.Options(options...)
}

var Postgres = fx.Options(
	fx.Provide(pgx.New),
	repositories.Module,
	export.PostgresModule,
	fx.Invoke(migrate),
)

var Telegram = fx.Provide(
	fx.Annotate(
		telegramimpl.New,
		fx.As(new(telegram.Client)),
	),
)

func migrate(lc fx.Lifecycle, cfg *config.Config, log logger.Logger) {
	lc.Append(fx.Hook{
		OnStart: func(ctx context.Context) error {
			log.Info("Applying migrations", "database", cfg.Postgres.Name)
			return migrations.Up(ctx, cfg.GetDSN())
		},
	})
}
