package timeline

import (
	"context"
	"errors"

	"github.com/google/uuid"
	"github.com/orgball2608/deface/internal/domain"
)

var (
	ErrAlreadyExists = errors.New("export run already exists")
	ErrNotFound      = errors.New("export run not found")
)

//go:generate go run go.uber.org/mock/mockgen -source=timeline.go -destination=mocks/mock.go

type Repository interface {
	// Save stores the run together with its timeline in one transaction
	Save(ctx context.Context, run domain.ExportRun, posts []domain.Post) error

	// GetRun returns the run with the given ID
	GetRun(ctx context.Context, id uuid.UUID) (*domain.ExportRun, error)

	// ListPosts returns the timeline of a run in order
	ListPosts(ctx context.Context, runID uuid.UUID) ([]domain.Post, error)
}
