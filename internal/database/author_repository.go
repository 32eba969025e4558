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

// AuthorRepository handles database operations for authors.
type AuthorRepository struct {
	db *sqlx.DB
}

// NewAuthorRepository creates a new author repository.
func NewAuthorRepository(db *sqlx.DB) *AuthorRepository {
	return &AuthorRepository{db: db}
}

// GetOrCreate looks an author up by exact name, creating one with an
// empty platform handle when absent. Author names are not unique;
// lookups return the oldest matching row.
func (r *AuthorRepository) GetOrCreate(ctx context.Context, name string) (*domain.Author, error) {
	query := `
		SELECT id, name, medium_username, created_at
		FROM authors
		WHERE name = $1
		ORDER BY created_at
		LIMIT 1
	`

	var author domain.Author
	err := r.db.GetContext(ctx, &author, query, name)
	if err == nil {
		return &author, nil
	}
	if !errors.Is(err, sql.ErrNoRows) {
		return nil, fmt.Errorf("get author: %w", err)
	}

	author = domain.Author{
		ID:        uuid.NewString(),
		Name:      name,
		CreatedAt: time.Now(),
	}

	insert := `
		INSERT INTO authors (id, name, medium_username, created_at)
		VALUES ($1, $2, $3, $4)
	`
	if _, insertErr := r.db.ExecContext(
		ctx, insert, author.ID, author.Name, author.MediumUsername, author.CreatedAt,
	); insertErr != nil {
		return nil, fmt.Errorf("create author: %w", insertErr)
	}

	return &author, nil
}
