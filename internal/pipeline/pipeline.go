package pipeline

import (
	"context"
	"fmt"
	"strings"

	"github.com/google/uuid"
	"github.com/orgball2608/deface/internal/domain"
	"github.com/orgball2608/deface/pkg/formatter"
)

//go:generate go run go.uber.org/mock/mockgen -source=pipeline.go -destination=mocks/mock.go

type Runner interface {
	// Run consolidates the posts of all files into one timeline and emits it
	Run(ctx context.Context, files []string) (Report, error)

	// Schedule repeats Run on a cron schedule until ctx is done
	Schedule(ctx context.Context, cron string, files []string) error

	// Replay emits the timeline of a stored run again
	Replay(ctx context.Context, runID uuid.UUID) (domain.ExportRun, error)
}

// Report summarizes a run.
type Report struct {
	Run          domain.ExportRun
	Files        int
	Unreadable   int // files that could not be read or parsed
	Raw          int // posts found in the files
	Malformed    int // posts that could not be decoded or merged
	Posts        int // posts in the timeline
	Simultaneous int // posts sharing their timestamp with another post
	Timestamps   int // distinct timestamps shared by several posts
}

// Failed reports whether anything was dropped along the way.
func (r Report) Failed() bool {
	return r.Unreadable > 0 || r.Malformed > 0
}

// String renders the sign-off message.
func (r Report) String() string {
	var sb strings.Builder
	sb.WriteString("Processed " + formatter.Count(r.Files, "file"))
	sb.WriteString(" with " + formatter.Count(r.Raw, "raw post"))
	if r.Malformed > 0 {
		sb.WriteString(", including " + formatter.Count(r.Malformed, "malformed one"))
	}
	sb.WriteString(";\nyielded " + formatter.Count(r.Posts, "cleaned post"))
	if r.Timestamps > 0 {
		fmt.Fprintf(&sb, ", including %d that share %d timestamps with other posts", r.Simultaneous, r.Timestamps)
	}
	sb.WriteString(".")
	return sb.String()
}
