// Package cli implements the deface command line.
package cli

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/orgball2608/deface/internal/app"
	"github.com/orgball2608/deface/internal/export"
	"github.com/orgball2608/deface/internal/pipeline"
	"github.com/orgball2608/deface/pkg/config"
	"github.com/orgball2608/deface/pkg/logger"
	"github.com/spf13/cobra"
	"go.uber.org/fx"
)

// starter builds the application and returns its runner together with a
// function that stops it.
type starter func(ctx context.Context, cfg *config.Config, log *logger.Impl) (pipeline.Runner, func(), error)

type options struct {
	configPath  string
	format      string
	color       bool
	postgres    bool
	notify      bool
	concurrency int
	cron        string
}

func NewCommand() *cobra.Command {
	return newCommand(startApp)
}

func newCommand(start starter) *cobra.Command {
	var opts options

	root := &cobra.Command{
		Use:   "deface [flags] FILE...",
		Short: "Clean up and consolidate posts from a personal data archive",
		Long: `deface reads one or more files with possibly overlapping post data,
simplifies the structure of the data, eliminates redundant information,
reconciles the records into a single timeline, and exports that timeline of
posts as JSON.`,
		Args:          cobra.MinimumNArgs(1),
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, files []string) error {
			return execute(cmd, &opts, start, func(ctx context.Context, runner pipeline.Runner) error {
				_, err := runner.Run(ctx, files)
				return err
			})
		},
	}

	flags := root.PersistentFlags()
	flags.StringVar(&opts.configPath, "config", "", "read configuration from a YAML, TOML or env file")
	flags.StringVarP(&opts.format, "format", "f", string(export.NDJSON), "export data as plain (json), newline-delimited (ndjson) or pretty-printed (pretty) JSON, or not at all (none)")
	flags.BoolVar(&opts.color, "color", true, "color the log output")
	flags.BoolVar(&opts.postgres, "postgres", false, "also store the timeline in Postgres")
	flags.BoolVar(&opts.notify, "notify", false, "send the run summary to Telegram")
	flags.IntVar(&opts.concurrency, "concurrency", 4, "number of files decoded in parallel")

	schedule := &cobra.Command{
		Use:   "schedule [flags] FILE...",
		Short: "Rerun the export on a cron schedule until interrupted",
		Args:  cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, files []string) error {
			return execute(cmd, &opts, start, func(ctx context.Context, runner pipeline.Runner) error {
				if err := runner.Schedule(ctx, opts.cron, files); err != nil {
					return err
				}
				<-ctx.Done()
				return nil
			})
		},
	}
	schedule.Flags().StringVar(&opts.cron, "cron", "", "cron expression, with an optional leading seconds field")

	replay := &cobra.Command{
		Use:   "replay [flags] RUN_ID",
		Short: "Emit the timeline of a run stored in Postgres again",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			runID, err := uuid.Parse(args[0])
			if err != nil {
				return fmt.Errorf("invalid run id %q: %w", args[0], err)
			}
			return execute(cmd, &opts, start, func(ctx context.Context, runner pipeline.Runner) error {
				_, err := runner.Replay(ctx, runID)
				return err
			})
		},
	}

	root.AddCommand(schedule, replay)

	return root
}

func execute(cmd *cobra.Command, opts *options, start starter, do func(context.Context, pipeline.Runner) error) error {
	cfg, err := configure(cmd, opts)
	if err != nil {
		return err
	}

	log := logger.New(logger.FromConfig(cfg))

	ctx := cmd.Context()
	if ctx == nil {
		ctx = context.Background()
	}

	runner, stop, err := start(ctx, cfg, log)
	if err != nil {
		return fmt.Errorf("failed to start application: %w", err)
	}
	defer stop()

	return do(ctx, runner)
}

// configure loads the configuration and applies the flags given on the
// command line on top of it.
func configure(cmd *cobra.Command, opts *options) (*config.Config, error) {
	cfg, err := config.Load(opts.configPath)
	if err != nil {
		return nil, err
	}

	flags := cmd.Flags()
	if flags.Changed("format") {
		cfg.Output.Format = opts.format
	}
	if flags.Changed("color") {
		cfg.Output.Color = opts.color
	}
	if flags.Changed("postgres") {
		cfg.Postgres.Enabled = opts.postgres
	}
	if flags.Changed("notify") {
		cfg.Telegram.Enabled = opts.notify
	}
	if flags.Changed("concurrency") {
		cfg.Loader.Concurrency = opts.concurrency
	}
	if opts.cron == "" {
		opts.cron = cfg.Schedule.Cron
	}

	if _, err := export.ParseFormat(cfg.Output.Format); err != nil {
		return nil, err
	}
	if cfg.Loader.Concurrency < 1 {
		return nil, fmt.Errorf("concurrency must be positive, got %d", cfg.Loader.Concurrency)
	}
	switch cmd.Name() {
	case "schedule":
		if opts.cron == "" {
			return nil, errors.New("no cron expression, set --cron or SCHEDULE_CRON")
		}
	case "replay":
		cfg.Postgres.Enabled = true
	}
	return cfg, nil
}

func startApp(ctx context.Context, cfg *config.Config, log *logger.Impl) (pipeline.Runner, func(), error) {
	var runner pipeline.Runner
	fxApp := fx.New(
		fx.Logger(log),
		app.Options(cfg, log),
		fx.Populate(&runner),
	)
	if err := fxApp.Start(ctx); err != nil {
		return nil, nil, err
	}

	stop := func() {
		stopCtx, cancel := context.WithTimeout(context.Background(), 15*time.Second)
		defer cancel()
		if err := fxApp.Stop(stopCtx); err != nil {
			log.Error("Failed to stop application", "error", err)
		}
	}
	return runner, stop, nil
}
