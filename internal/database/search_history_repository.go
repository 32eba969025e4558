package database

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"

	"github.com/jonesrussell/medium-crawler/internal/domain"
)

// SearchHistoryRepository handles database operations for search history.
type SearchHistoryRepository struct {
	db *sqlx.DB
}

// NewSearchHistoryRepository creates a new search history repository.
func NewSearchHistoryRepository(db *sqlx.DB) *SearchHistoryRepository {
	return &SearchHistoryRepository{db: db}
}

// Create appends a search history entry.
func (r *SearchHistoryRepository) Create(ctx context.Context, entry *domain.SearchHistoryEntry) error {
	if entry.ID == "" {
		entry.ID = uuid.NewString()
	}
	if entry.SearchTime.IsZero() {
		entry.SearchTime = time.Now()
	}

	query := `
		INSERT INTO search_history (id, tag_searched, results_count, crawl_duration, search_time)
		VALUES ($1, $2, $3, $4, $5)
	`
	if _, err := r.db.ExecContext(
		ctx, query,
		entry.ID, entry.TagSearched, entry.ResultsCount, entry.CrawlDuration, entry.SearchTime,
	); err != nil {
		return fmt.Errorf("create search history: %w", err)
	}

	return nil
}

// Recent returns the most recent entries, newest first.
func (r *SearchHistoryRepository) Recent(ctx context.Context, limit int) ([]*domain.SearchHistoryEntry, error) {
	query := `
		SELECT id, tag_searched, results_count, crawl_duration, search_time
		FROM search_history
		ORDER BY search_time DESC
		LIMIT $1
	`

	var entries []*domain.SearchHistoryEntry
	if err := r.db.SelectContext(ctx, &entries, query, limit); err != nil {
		return nil, fmt.Errorf("recent search history: %w", err)
	}

	return entries, nil
}
