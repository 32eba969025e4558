package database

import (
	"context"
	"fmt"

	"github.com/jmoiron/sqlx"
)

// schemaStatements creates the persisted entities. Article URLs and tag
// names carry the only uniqueness constraints; author names are
// deliberately non-unique.
var schemaStatements = []string{
	`CREATE TABLE IF NOT EXISTS authors (
		id UUID PRIMARY KEY,
		name TEXT NOT NULL,
		medium_username TEXT NOT NULL DEFAULT '',
		created_at TIMESTAMPTZ NOT NULL DEFAULT now()
	)`,
	`CREATE TABLE IF NOT EXISTS tags (
		id UUID PRIMARY KEY,
		name TEXT NOT NULL UNIQUE,
		created_at TIMESTAMPTZ NOT NULL DEFAULT now()
	)`,
	`CREATE TABLE IF NOT EXISTS articles (
		id UUID PRIMARY KEY,
		title TEXT NOT NULL,
		content TEXT NOT NULL DEFAULT '',
		summary TEXT NOT NULL DEFAULT '',
		author_id UUID NOT NULL REFERENCES authors (id),
		medium_url TEXT NOT NULL UNIQUE,
		published_date TIMESTAMPTZ,
		crawled_at TIMESTAMPTZ NOT NULL DEFAULT now(),
		claps_count INTEGER NOT NULL DEFAULT 0,
		reading_time TEXT NOT NULL DEFAULT 'Unknown'
	)`,
	`CREATE TABLE IF NOT EXISTS article_tags (
		article_id UUID NOT NULL REFERENCES articles (id) ON DELETE CASCADE,
		tag_id UUID NOT NULL REFERENCES tags (id) ON DELETE CASCADE,
		PRIMARY KEY (article_id, tag_id)
	)`,
	`CREATE TABLE IF NOT EXISTS crawl_runs (
		id UUID PRIMARY KEY,
		tag TEXT NOT NULL,
		status TEXT NOT NULL DEFAULT 'pending',
		started_at TIMESTAMPTZ NOT NULL DEFAULT now(),
		completed_at TIMESTAMPTZ,
		blogs_found INTEGER NOT NULL DEFAULT 0,
		error_message TEXT
	)`,
	`CREATE TABLE IF NOT EXISTS search_history (
		id UUID PRIMARY KEY,
		tag_searched TEXT NOT NULL,
		results_count INTEGER NOT NULL DEFAULT 0,
		crawl_duration DOUBLE PRECISION NOT NULL DEFAULT 0,
		search_time TIMESTAMPTZ NOT NULL DEFAULT now()
	)`,
	`CREATE INDEX IF NOT EXISTS idx_crawl_runs_tag_started
		ON crawl_runs (tag, started_at DESC)`,
	`CREATE INDEX IF NOT EXISTS idx_articles_crawled_at
		ON articles (crawled_at DESC)`,
}

// EnsureSchema creates all tables and indexes if they do not exist.
func EnsureSchema(ctx context.Context, db *sqlx.DB) error {
	for _, stmt := range schemaStatements {
		if _, err := db.ExecContext(ctx, stmt); err != nil {
			return fmt.Errorf("ensure schema: %w", err)
		}
	}
	return nil
}
