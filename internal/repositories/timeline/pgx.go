package timeline

import (
	"context"
	"errors"
	"fmt"

	sq "github.com/Masterminds/squirrel"
	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/orgball2608/deface/internal/domain"
	"github.com/orgball2608/deface/internal/repositories"
	"github.com/orgball2608/deface/pkg/logger"
)

// Rows per INSERT statement; keeps the parameter count below Postgres' limit.
const batchSize = 1000

type Pgx struct {
	pg     *pgxpool.Pool
	logger logger.Logger
}

func NewPgx(pg *pgxpool.Pool, logger logger.Logger) *Pgx {
	return &Pgx{
		pg:     pg,
		logger: logger.WithComponent("TimelineRepo"),
	}
}

var _ Repository = (*Pgx)(nil)

// Save stores the run together with its timeline in one transaction
func (p *Pgx) Save(ctx context.Context, run domain.ExportRun, posts []domain.Post) error {
	tx, err := p.pg.Begin(ctx)
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer func() {
		if err := tx.Rollback(ctx); err != nil && !errors.Is(err, pgx.ErrTxClosed) {
			p.logger.Warn("Failed to roll back", "run", run.ID, "error", err)
		}
	}()

	query, args, err := repositories.SqBuilder.
		Insert("export_runs").
		Columns("id", "created_at", "files", "posts").
		Values(run.ID, run.CreatedAt, run.Files, run.Posts).
		ToSql()
	if err != nil {
		return repositories.ErrBadQuery
	}
	if _, err := tx.Exec(ctx, query, args...); err != nil {
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && pgErr.Code == "23505" {
			return ErrAlreadyExists
		}
		return err
	}

	for start := 0; start < len(posts); start += batchSize {
		stop := min(start+batchSize, len(posts))
		insert := repositories.SqBuilder.
			Insert("timeline_posts").
			Columns("run_id", "position", "timestamp", "document")
		for i, post := range posts[start:stop] {
			document, err := domain.EncodePost(post)
			if err != nil {
				return err
			}
			insert = insert.Values(run.ID, start+i, post.Timestamp, document)
		}

		query, args, err := insert.ToSql()
		if err != nil {
			return repositories.ErrBadQuery
		}
		if _, err := tx.Exec(ctx, query, args...); err != nil {
			return err
		}
	}

	if err := tx.Commit(ctx); err != nil {
		return fmt.Errorf("failed to commit run %s: %w", run.ID, err)
	}
	p.logger.Debug("Saved timeline", "run", run.ID, "posts", len(posts))
	return nil
}

// GetRun returns the run with the given ID
func (p *Pgx) GetRun(ctx context.Context, id uuid.UUID) (*domain.ExportRun, error) {
	query, args, err := repositories.SqBuilder.
		Select("id", "created_at", "files", "posts").
		From("export_runs").
		Where(sq.Eq{"id": id}).
		ToSql()
	if err != nil {
		return nil, repositories.ErrBadQuery
	}

	var run domain.ExportRun
	err = p.pg.QueryRow(ctx, query, args...).Scan(&run.ID, &run.CreatedAt, &run.Files, &run.Posts)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	return &run, nil
}

// ListPosts returns the timeline of a run in order
func (p *Pgx) ListPosts(ctx context.Context, runID uuid.UUID) ([]domain.Post, error) {
	query, args, err := repositories.SqBuilder.
		Select("document").
		From("timeline_posts").
		Where(sq.Eq{"run_id": runID}).
		OrderBy("position").
		ToSql()
	if err != nil {
		return nil, repositories.ErrBadQuery
	}

	rows, err := p.pg.Query(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var posts []domain.Post
	for rows.Next() {
		var document []byte
		if err := rows.Scan(&document); err != nil {
			return nil, err
		}
		post, err := domain.DecodePost(document)
		if err != nil {
			return nil, err
		}
		posts = append(posts, post)
	}

	if err := rows.Err(); err != nil {
		return nil, err
	}

	return posts, nil
}
