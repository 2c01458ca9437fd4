package logger

import (
	"github.com/orgball2608/deface/pkg/config"
	"go.uber.org/fx"
)

// FromConfig returns the logger options for cfg.
func FromConfig(cfg *config.Config) Opts {
	return Opts{
		Env:       cfg.App.Env,
		Level:     cfg.App.LogLevel,
		SentryDSN: cfg.App.SentryUrl,
		Color:     cfg.Output.Color,
	}
}

// FxOption supplies an already built logger as Logger, so the process keeps a
// single zerolog writer and initializes Sentry once.
func FxOption(log *Impl) fx.Option {
	return fx.Supply(
		fx.Annotate(
			log,
			fx.As(new(Logger)),
		),
	)
}
