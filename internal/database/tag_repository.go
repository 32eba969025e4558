package database

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"

	"github.com/jonesrussell/medium-crawler/internal/domain"
)

// TagRepository handles database operations for tags.
type TagRepository struct {
	db *sqlx.DB
}

// NewTagRepository creates a new tag repository.
func NewTagRepository(db *sqlx.DB) *TagRepository {
	return &TagRepository{db: db}
}

// GetOrCreate looks a tag up by its case-folded name, creating it when
// absent. A concurrent create racing on the unique name constraint is
// resolved by re-reading the winner's row.
func (r *TagRepository) GetOrCreate(ctx context.Context, name string) (*domain.Tag, error) {
	normalized := strings.ToLower(strings.TrimSpace(name))

	tag, err := r.getByName(ctx, normalized)
	if err == nil {
		return tag, nil
	}
	if !errors.Is(err, sql.ErrNoRows) {
		return nil, fmt.Errorf("get tag: %w", err)
	}

	created := domain.Tag{
		ID:        uuid.NewString(),
		Name:      normalized,
		CreatedAt: time.Now(),
	}

	insert := `
		INSERT INTO tags (id, name, created_at)
		VALUES ($1, $2, $3)
		ON CONFLICT (name) DO NOTHING
	`
	result, insertErr := r.db.ExecContext(ctx, insert, created.ID, created.Name, created.CreatedAt)
	if insertErr != nil {
		return nil, fmt.Errorf("create tag: %w", insertErr)
	}

	if n, _ := result.RowsAffected(); n > 0 {
		return &created, nil
	}

	// Lost the race: another run created the tag first.
	tag, err = r.getByName(ctx, normalized)
	if err != nil {
		return nil, fmt.Errorf("get tag after conflict: %w", err)
	}

	return tag, nil
}

// SuggestNames returns up to limit persisted tag names containing the
// fragment, case-insensitively, in name order.
func (r *TagRepository) SuggestNames(ctx context.Context, fragment string, limit int) ([]string, error) {
	query := `
		SELECT name
		FROM tags
		WHERE name ILIKE $1
		ORDER BY name
		LIMIT $2
	`

	var names []string
	if err := r.db.SelectContext(ctx, &names, query, "%"+fragment+"%", limit); err != nil {
		return nil, fmt.Errorf("suggest tag names: %w", err)
	}

	return names, nil
}

func (r *TagRepository) getByName(ctx context.Context, name string) (*domain.Tag, error) {
	var tag domain.Tag
	query := `SELECT id, name, created_at FROM tags WHERE name = $1`

	if err := r.db.GetContext(ctx, &tag, query, name); err != nil {
		return nil, err
	}

	return &tag, nil
}
