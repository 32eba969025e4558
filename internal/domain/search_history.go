package domain

import "time"

// SearchHistoryEntry is an append-only record of one crawl invocation,
// written regardless of whether the crawl succeeded.
type SearchHistoryEntry struct {
	ID            string    `db:"id"             json:"id"`
	TagSearched   string    `db:"tag_searched"   json:"tag_searched"`
	ResultsCount  int       `db:"results_count"  json:"results_count"`
	CrawlDuration float64   `db:"crawl_duration" json:"crawl_duration"`
	SearchTime    time.Time `db:"search_time"    json:"search_time"`
}
