// Package domain provides domain models used across the application.
package domain

import (
	"time"
)

const (
	// SummaryMaxLen is the number of content characters kept in a stored summary.
	SummaryMaxLen = 300

	// DisplaySummaryMaxLen is the number of content characters shown when no
	// stored summary exists.
	DisplaySummaryMaxLen = 200

	// ellipsis marks a truncated summary.
	ellipsis = "..."
)

// DefaultReadingTime is used when no reading time could be extracted.
const DefaultReadingTime = "Unknown"

// Tag represents a topic tag. Names are unique and stored lowercase.
type Tag struct {
	ID        string    `db:"id"         json:"id"`
	Name      string    `db:"name"       json:"name"`
	CreatedAt time.Time `db:"created_at" json:"created_at"`
}

// Author represents an article author. Names are not unique; two
// authors may share a display name.
type Author struct {
	ID             string    `db:"id"              json:"id"`
	Name           string    `db:"name"            json:"name"`
	MediumUsername string    `db:"medium_username" json:"medium_username,omitempty"`
	CreatedAt      time.Time `db:"created_at"      json:"created_at"`
}

// Article represents a crawled article. MediumURL is the canonical source
// URL and the deduplication key.
type Article struct {
	ID            string     `db:"id"             json:"id"`
	Title         string     `db:"title"          json:"title"`
	Content       string     `db:"content"        json:"content"`
	Summary       string     `db:"summary"        json:"summary"`
	AuthorID      string     `db:"author_id"      json:"author_id"`
	MediumURL     string     `db:"medium_url"     json:"medium_url"`
	PublishedDate *time.Time `db:"published_date" json:"published_date,omitempty"`
	CrawledAt     time.Time  `db:"crawled_at"     json:"crawled_at"`
	ClapsCount    int        `db:"claps_count"    json:"claps_count"`
	ReadingTime   string     `db:"reading_time"   json:"reading_time"`

	// Loaded associations. Not populated by every query.
	Author *Author `db:"-" json:"author,omitempty"`
	Tags   []Tag   `db:"-" json:"tags,omitempty"`
}

// Summarize derives the stored summary from article content: the first
// SummaryMaxLen characters followed by an ellipsis, or the full content
// when it is short enough.
func Summarize(content string) string {
	runes := []rune(content)
	if len(runes) <= SummaryMaxLen {
		return content
	}
	return string(runes[:SummaryMaxLen]) + ellipsis
}

// DisplaySummary returns the stored summary, falling back to a truncated
// slice of the content when no summary was stored.
func (a *Article) DisplaySummary() string {
	if a.Summary != "" {
		return a.Summary
	}
	runes := []rune(a.Content)
	if len(runes) <= DisplaySummaryMaxLen {
		return a.Content
	}
	return string(runes[:DisplaySummaryMaxLen]) + ellipsis
}

// PublishedDateDisplay returns the published date as an ISO date string,
// or "Unknown" when the feed never provided one.
func (a *Article) PublishedDateDisplay() string {
	if a.PublishedDate == nil {
		return "Unknown"
	}
	return a.PublishedDate.Format("2006-01-02")
}

// TagNames returns the names of the loaded tags.
func (a *Article) TagNames() []string {
	names := make([]string, 0, len(a.Tags))
	for _, t := range a.Tags {
		names = append(names, t.Name)
	}
	return names
}
