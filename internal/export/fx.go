package export

import (
	"os"

	"github.com/orgball2608/deface/pkg/config"
	"go.uber.org/fx"
)

// AsSink registers a sink constructor in the "sinks" group.
func AsSink(f any) any {
	return fx.Annotate(
		f,
		fx.As(new(Sink)),
		fx.ResultTags(`group:"sinks"`),
	)
}

// Module provides the stdout writer.
var Module = fx.Module("export",
	fx.Provide(
		AsSink(func(cfg *config.Config) (*Writer, error) {
			format, err := ParseFormat(cfg.Output.Format)
			if err != nil {
				return nil, err
			}
			return NewWriter(os.Stdout, format), nil
		}),
	),
)

// PostgresModule adds the Postgres sink; it needs a timeline.Repository.
var PostgresModule = fx.Module("export_postgres",
	fx.Provide(AsSink(NewPostgres)),
)
