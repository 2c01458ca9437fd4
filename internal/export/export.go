// Package export emits a consolidated timeline. Every configured sink
// receives the full timeline of a run.
package export

import (
	"context"

	"github.com/orgball2608/deface/internal/domain"
)

//go:generate go run go.uber.org/mock/mockgen -source=export.go -destination=mocks/mock.go

type Sink interface {
	// Name identifies the sink in logs
	Name() string

	// Emit writes the timeline of the run
	Emit(ctx context.Context, run domain.ExportRun, timeline []domain.Post) error
}
