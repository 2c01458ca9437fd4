// Package archive loads archive files concurrently. Each file is read,
// repaired and decoded on its own goroutine; the batches come back in the
// order of the file names, so that consolidation stays deterministic.
package archive

import (
	"context"
	"fmt"
	"os"

	"github.com/orgball2608/deface/internal/domain"
	"github.com/orgball2608/deface/internal/ingest"
	"github.com/orgball2608/deface/pkg/config"
	"github.com/orgball2608/deface/pkg/logger"
	"go.uber.org/fx"
	"golang.org/x/sync/errgroup"
)

// Batch holds the decoded contents of one archive file.
type Batch struct {
	File   string
	Raw    int // posts in the file, including malformed ones
	Posts  []domain.Post
	Errors []error // per post
	Err    error   // the file could not be read or parsed
}

type Opts struct {
	fx.In

	Config *config.Config
	Logger logger.Logger
}

type Loader struct {
	concurrency int
	logger      logger.Logger
	readFile    func(name string) ([]byte, error)
}

func New(opts Opts) *Loader {
	return &Loader{
		concurrency: max(opts.Config.Loader.Concurrency, 1),
		logger:      opts.Logger.WithComponent("Loader"),
		readFile:    os.ReadFile,
	}
}

// Load decodes the files. A file that cannot be read or parsed yields a batch
// with Err set; only cancellation makes Load fail as a whole.
func (l *Loader) Load(ctx context.Context, files []string) ([]Batch, error) {
	batches := make([]Batch, len(files))

	g, ctx := errgroup.WithContext(ctx)
	g.SetLimit(l.concurrency)
	for i, file := range files {
		g.Go(func() error {
			if err := ctx.Err(); err != nil {
				return err
			}
			batches[i] = l.load(file)
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}
	return batches, nil
}

func (l *Loader) load(file string) Batch {
	l.logger.Info("Processing file", "file", file)
	batch := Batch{File: file}

	data, err := l.readFile(file)
	if err != nil {
		batch.Err = fmt.Errorf("failed to read %s: %w", file, err)
		return batch
	}
	root, err := ingest.Open(data, file)
	if err != nil {
		batch.Err = err
		return batch
	}
	if list, ok := root.Raw().([]any); ok {
		batch.Raw = len(list)
	}

	batch.Posts, batch.Errors = ingest.Posts(root)
	l.logger.Debug("Decoded file", "file", file, "posts", len(batch.Posts), "errors", len(batch.Errors))
	return batch
}
