package database

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"

	"github.com/jonesrussell/medium-crawler/internal/domain"
)

// crawlRunColumns is the select list shared by crawl run queries.
const crawlRunColumns = `id, tag, status, started_at, completed_at, blogs_found, error_message`

// CrawlRunRepository handles database operations for crawl runs.
type CrawlRunRepository struct {
	db *sqlx.DB
}

// NewCrawlRunRepository creates a new crawl run repository.
func NewCrawlRunRepository(db *sqlx.DB) *CrawlRunRepository {
	return &CrawlRunRepository{db: db}
}

// Create inserts a run in the in_progress state and records its start time.
func (r *CrawlRunRepository) Create(ctx context.Context, tag string) (*domain.CrawlRun, error) {
	run := &domain.CrawlRun{
		ID:        uuid.NewString(),
		Tag:       tag,
		Status:    domain.CrawlStatusInProgress,
		StartedAt: time.Now(),
	}

	query := `
		INSERT INTO crawl_runs (id, tag, status, started_at, blogs_found)
		VALUES ($1, $2, $3, $4, 0)
	`
	if _, err := r.db.ExecContext(
		ctx, query, run.ID, run.Tag, run.Status, run.StartedAt,
	); err != nil {
		return nil, fmt.Errorf("create crawl run: %w", err)
	}

	return run, nil
}

// Complete transitions a run to the completed state, setting the
// completion timestamp, the article count, and an optional message.
// Runs already in a terminal state are left untouched.
func (r *CrawlRunRepository) Complete(ctx context.Context, id string, blogsFound int, message *string) error {
	query := `
		UPDATE crawl_runs
		SET status = $1, completed_at = $2, blogs_found = $3, error_message = $4
		WHERE id = $5 AND status = $6
	`

	result, err := r.db.ExecContext(
		ctx, query,
		domain.CrawlStatusCompleted, time.Now(), blogsFound, message,
		id, domain.CrawlStatusInProgress,
	)
	if err != nil {
		return fmt.Errorf("complete crawl run: %w", err)
	}

	return requireRowAffected(result, id)
}

// Fail transitions a run to the failed state with the error message
// captured verbatim. Runs already in a terminal state are left untouched.
func (r *CrawlRunRepository) Fail(ctx context.Context, id, errorMessage string) error {
	query := `
		UPDATE crawl_runs
		SET status = $1, completed_at = $2, error_message = $3
		WHERE id = $4 AND status = $5
	`

	result, err := r.db.ExecContext(
		ctx, query,
		domain.CrawlStatusFailed, time.Now(), errorMessage,
		id, domain.CrawlStatusInProgress,
	)
	if err != nil {
		return fmt.Errorf("fail crawl run: %w", err)
	}

	return requireRowAffected(result, id)
}

// LatestByTag returns the most recently started run for the tag, or
// ErrNotFound when the tag was never crawled.
func (r *CrawlRunRepository) LatestByTag(ctx context.Context, tag string) (*domain.CrawlRun, error) {
	query := `
		SELECT ` + crawlRunColumns + `
		FROM crawl_runs
		WHERE tag = $1
		ORDER BY started_at DESC
		LIMIT 1
	`

	var run domain.CrawlRun
	if err := r.db.GetContext(ctx, &run, query, tag); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("latest crawl run: %w", err)
	}

	return &run, nil
}

// requireRowAffected converts a zero-row update into ErrNotFound.
func requireRowAffected(result sql.Result, id string) error {
	n, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("crawl run rows affected: %w", err)
	}
	if n == 0 {
		return fmt.Errorf("crawl run %s: %w", id, ErrNotFound)
	}
	return nil
}
