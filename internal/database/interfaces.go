package database

import (
	"context"
	"time"

	"github.com/jonesrussell/medium-crawler/internal/domain"
)

// ListArticlesParams filters and pages the article listing.
type ListArticlesParams struct {
	// Tag restricts results to articles carrying the tag (exact,
	// case-insensitive name match). Empty means no tag filter.
	Tag string
	// Search restricts results to articles whose title, content, or
	// author name contains the fragment. Empty means no text filter.
	Search string
	Limit  int
	Offset int
}

// ArticleRepositoryInterface defines article data access.
type ArticleRepositoryInterface interface {
	ExistsByURL(ctx context.Context, url string) (bool, error)
	Create(ctx context.Context, article *domain.Article, tagIDs []string) error
	ListCrawledSince(ctx context.Context, tag string, since time.Time) ([]*domain.Article, error)
	List(ctx context.Context, params ListArticlesParams) ([]*domain.Article, error)
}

// AuthorRepositoryInterface defines author data access.
type AuthorRepositoryInterface interface {
	GetOrCreate(ctx context.Context, name string) (*domain.Author, error)
}

// TagRepositoryInterface defines tag data access.
type TagRepositoryInterface interface {
	GetOrCreate(ctx context.Context, name string) (*domain.Tag, error)
	SuggestNames(ctx context.Context, fragment string, limit int) ([]string, error)
}

// CrawlRunRepositoryInterface defines crawl run data access. Terminal
// transitions set the completion timestamp exactly once.
type CrawlRunRepositoryInterface interface {
	Create(ctx context.Context, tag string) (*domain.CrawlRun, error)
	Complete(ctx context.Context, id string, blogsFound int, message *string) error
	Fail(ctx context.Context, id, errorMessage string) error
	LatestByTag(ctx context.Context, tag string) (*domain.CrawlRun, error)
}

// SearchHistoryRepositoryInterface defines search history data access.
type SearchHistoryRepositoryInterface interface {
	Create(ctx context.Context, entry *domain.SearchHistoryEntry) error
	Recent(ctx context.Context, limit int) ([]*domain.SearchHistoryEntry, error)
}
