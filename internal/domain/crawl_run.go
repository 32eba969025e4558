package domain

import "time"

// CrawlStatus is the lifecycle state of a crawl run.
type CrawlStatus string

// Crawl run lifecycle states. A run moves from pending through in_progress
// to exactly one of completed or failed, and is never mutated afterwards.
const (
	CrawlStatusPending    CrawlStatus = "pending"
	CrawlStatusInProgress CrawlStatus = "in_progress"
	CrawlStatusCompleted  CrawlStatus = "completed"
	CrawlStatusFailed     CrawlStatus = "failed"
)

// IsTerminal reports whether the status is completed or failed.
func (s CrawlStatus) IsTerminal() bool {
	return s == CrawlStatusCompleted || s == CrawlStatusFailed
}

// CrawlRun records one complete lifecycle of a single crawl invocation
// for one tag. CompletedAt is set if and only if the status is terminal.
type CrawlRun struct {
	ID           string      `db:"id"            json:"id"`
	Tag          string      `db:"tag"           json:"tag"`
	Status       CrawlStatus `db:"status"        json:"status"`
	StartedAt    time.Time   `db:"started_at"    json:"started_at"`
	CompletedAt  *time.Time  `db:"completed_at"  json:"completed_at,omitempty"`
	BlogsFound   int         `db:"blogs_found"   json:"blogs_found"`
	ErrorMessage *string     `db:"error_message" json:"error_message,omitempty"`
}
