package database

import (
	"errors"

	"github.com/lib/pq"
)

// uniqueViolationCode is the PostgreSQL error code for a uniqueness
// constraint violation.
const uniqueViolationCode = "23505"

var (
	// ErrNotFound is returned when a requested record does not exist.
	ErrNotFound = errors.New("record not found")

	// ErrDuplicateURL is returned when an article insert collides with an
	// existing canonical URL. Callers treat it as "already present".
	ErrDuplicateURL = errors.New("article url already exists")
)

// isUniqueViolation reports whether err is a PostgreSQL uniqueness
// constraint violation.
func isUniqueViolation(err error) bool {
	var pqErr *pq.Error
	return errors.As(err, &pqErr) && pqErr.Code == uniqueViolationCode
}
