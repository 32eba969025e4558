package database

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"

	"github.com/jonesrussell/medium-crawler/internal/domain"
)

// articleColumns is the select list shared by article queries.
const articleColumns = `a.id, a.title, a.content, a.summary, a.author_id,
	a.medium_url, a.published_date, a.crawled_at, a.claps_count, a.reading_time`

// ArticleRepository handles database operations for articles.
type ArticleRepository struct {
	db *sqlx.DB
}

// NewArticleRepository creates a new article repository.
func NewArticleRepository(db *sqlx.DB) *ArticleRepository {
	return &ArticleRepository{db: db}
}

// ExistsByURL reports whether an article with the exact canonical URL
// is already persisted.
func (r *ArticleRepository) ExistsByURL(ctx context.Context, url string) (bool, error) {
	var exists bool
	query := `SELECT EXISTS (SELECT 1 FROM articles WHERE medium_url = $1)`

	if err := r.db.GetContext(ctx, &exists, query, url); err != nil {
		return false, fmt.Errorf("article exists: %w", err)
	}

	return exists, nil
}

// Create inserts an article and its tag associations in one transaction.
// A uniqueness collision on the canonical URL returns ErrDuplicateURL;
// concurrent identical submissions are expected to surface this way.
func (r *ArticleRepository) Create(ctx context.Context, article *domain.Article, tagIDs []string) error {
	if article.ID == "" {
		article.ID = uuid.NewString()
	}
	if article.CrawledAt.IsZero() {
		article.CrawledAt = time.Now()
	}

	tx, err := r.db.BeginTxx(ctx, nil)
	if err != nil {
		return fmt.Errorf("create article begin: %w", err)
	}
	defer tx.Rollback() //nolint:errcheck // no-op after commit

	insert := `
		INSERT INTO articles (
			id, title, content, summary, author_id, medium_url,
			published_date, crawled_at, claps_count, reading_time
		)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10)
	`

	_, err = tx.ExecContext(
		ctx,
		insert,
		article.ID,
		article.Title,
		article.Content,
		article.Summary,
		article.AuthorID,
		article.MediumURL,
		article.PublishedDate,
		article.CrawledAt,
		article.ClapsCount,
		article.ReadingTime,
	)
	if err != nil {
		if isUniqueViolation(err) {
			return ErrDuplicateURL
		}
		return fmt.Errorf("create article: %w", err)
	}

	assoc := `
		INSERT INTO article_tags (article_id, tag_id)
		VALUES ($1, $2)
		ON CONFLICT DO NOTHING
	`
	for _, tagID := range tagIDs {
		if _, assocErr := tx.ExecContext(ctx, assoc, article.ID, tagID); assocErr != nil {
			return fmt.Errorf("create article tag link: %w", assocErr)
		}
	}

	if commitErr := tx.Commit(); commitErr != nil {
		return fmt.Errorf("create article commit: %w", commitErr)
	}

	return nil
}

// ListCrawledSince returns articles carrying the tag that were crawled at
// or after the given time, newest first. Author and tags are loaded.
func (r *ArticleRepository) ListCrawledSince(
	ctx context.Context,
	tag string,
	since time.Time,
) ([]*domain.Article, error) {
	query := `
		SELECT DISTINCT ` + articleColumns + `
		FROM articles a
		JOIN article_tags at ON at.article_id = a.id
		JOIN tags t ON t.id = at.tag_id
		WHERE lower(t.name) = lower($1)
		  AND a.crawled_at >= $2
		ORDER BY a.crawled_at DESC
	`

	var articles []*domain.Article
	if err := r.db.SelectContext(ctx, &articles, query, tag, since); err != nil {
		return nil, fmt.Errorf("list crawled since: %w", err)
	}

	if err := r.loadAssociations(ctx, articles); err != nil {
		return nil, err
	}

	return articles, nil
}

// List returns articles matching the given filters, newest first.
func (r *ArticleRepository) List(ctx context.Context, params ListArticlesParams) ([]*domain.Article, error) {
	query := `SELECT DISTINCT ` + articleColumns + ` FROM articles a`
	args := []any{}

	if params.Tag != "" {
		query += `
			JOIN article_tags at ON at.article_id = a.id
			JOIN tags t ON t.id = at.tag_id`
	}

	where := ""
	if params.Tag != "" {
		args = append(args, params.Tag)
		where = fmt.Sprintf(" WHERE lower(t.name) = lower($%d)", len(args))
	}
	if params.Search != "" {
		args = append(args, "%"+params.Search+"%")
		clause := fmt.Sprintf(
			` (a.title ILIKE $%d OR a.content ILIKE $%d
			   OR a.author_id IN (SELECT id FROM authors WHERE name ILIKE $%d))`,
			len(args), len(args), len(args),
		)
		if where == "" {
			where = " WHERE" + clause
		} else {
			where += " AND" + clause
		}
	}

	query += where + " ORDER BY a.crawled_at DESC"

	if params.Limit > 0 {
		args = append(args, params.Limit)
		query += fmt.Sprintf(" LIMIT $%d", len(args))
	}
	if params.Offset > 0 {
		args = append(args, params.Offset)
		query += fmt.Sprintf(" OFFSET $%d", len(args))
	}

	var articles []*domain.Article
	if err := r.db.SelectContext(ctx, &articles, query, args...); err != nil {
		return nil, fmt.Errorf("list articles: %w", err)
	}

	if err := r.loadAssociations(ctx, articles); err != nil {
		return nil, err
	}

	return articles, nil
}

// loadAssociations attaches the author and tags to each article.
func (r *ArticleRepository) loadAssociations(ctx context.Context, articles []*domain.Article) error {
	authorQuery := `SELECT id, name, medium_username, created_at FROM authors WHERE id = $1`
	tagQuery := `
		SELECT t.id, t.name, t.created_at
		FROM tags t
		JOIN article_tags at ON at.tag_id = t.id
		WHERE at.article_id = $1
		ORDER BY t.name
	`

	for _, article := range articles {
		var author domain.Author
		if err := r.db.GetContext(ctx, &author, authorQuery, article.AuthorID); err != nil {
			return fmt.Errorf("load article author: %w", err)
		}
		article.Author = &author

		var tags []domain.Tag
		if err := r.db.SelectContext(ctx, &tags, tagQuery, article.ID); err != nil {
			return fmt.Errorf("load article tags: %w", err)
		}
		article.Tags = tags
	}

	return nil
}
