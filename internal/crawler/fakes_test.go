package crawler_test

import (
	"context"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/jonesrussell/medium-crawler/internal/database"
	"github.com/jonesrussell/medium-crawler/internal/domain"
	"github.com/jonesrussell/medium-crawler/internal/extractor"
	"github.com/jonesrussell/medium-crawler/internal/feed"
)

// fakeFeed serves a fixed candidate list.
type fakeFeed struct {
	candidates []feed.Candidate
}

func (f *fakeFeed) Fetch(_ context.Context, _ string, limit int) []feed.Candidate {
	if len(f.candidates) > limit {
		return f.candidates[:limit]
	}
	return f.candidates
}

// fakeEnricher serves enrichments keyed by URL. Unknown URLs yield nil,
// mimicking a skipped enrichment.
type fakeEnricher struct {
	byURL map[string]*extractor.Enrichment
}

func (f *fakeEnricher) Enrich(_ context.Context, articleURL string) *extractor.Enrichment {
	return f.byURL[articleURL]
}

// memStore is an in-memory implementation of all repository interfaces.
type memStore struct {
	articles map[string]*domain.Article // keyed by canonical URL
	authors  map[string]*domain.Author  // keyed by name
	tags     map[string]*domain.Tag     // keyed by normalized name
	runs     map[string]*domain.CrawlRun
	history  []*domain.SearchHistoryEntry

	// existsErr injects a failure into the existence check.
	existsErr error
}

func newMemStore() *memStore {
	return &memStore{
		articles: make(map[string]*domain.Article),
		authors:  make(map[string]*domain.Author),
		tags:     make(map[string]*domain.Tag),
		runs:     make(map[string]*domain.CrawlRun),
	}
}

func (s *memStore) ExistsByURL(_ context.Context, url string) (bool, error) {
	if s.existsErr != nil {
		return false, s.existsErr
	}
	_, ok := s.articles[url]
	return ok, nil
}

func (s *memStore) Create(_ context.Context, article *domain.Article, _ []string) error {
	if _, ok := s.articles[article.MediumURL]; ok {
		return database.ErrDuplicateURL
	}
	if article.ID == "" {
		article.ID = uuid.NewString()
	}
	if article.CrawledAt.IsZero() {
		article.CrawledAt = time.Now()
	}
	s.articles[article.MediumURL] = article
	return nil
}

func (s *memStore) ListCrawledSince(_ context.Context, tag string, since time.Time) ([]*domain.Article, error) {
	var out []*domain.Article
	for _, a := range s.articles {
		for _, t := range a.Tags {
			if strings.EqualFold(t.Name, tag) && !a.CrawledAt.Before(since) {
				out = append(out, a)
				break
			}
		}
	}
	return out, nil
}

func (s *memStore) List(_ context.Context, _ database.ListArticlesParams) ([]*domain.Article, error) {
	var out []*domain.Article
	for _, a := range s.articles {
		out = append(out, a)
	}
	return out, nil
}

func (s *memStore) GetOrCreate(_ context.Context, name string) (*domain.Author, error) {
	if author, ok := s.authors[name]; ok {
		return author, nil
	}
	author := &domain.Author{ID: uuid.NewString(), Name: name, CreatedAt: time.Now()}
	s.authors[name] = author
	return author, nil
}

// tagStore adapts memStore to the tag repository interface; authors and
// tags share get-or-create semantics but different key spaces.
type tagStore struct{ s *memStore }

func (t tagStore) GetOrCreate(_ context.Context, name string) (*domain.Tag, error) {
	normalized := strings.ToLower(strings.TrimSpace(name))
	if tag, ok := t.s.tags[normalized]; ok {
		return tag, nil
	}
	tag := &domain.Tag{ID: uuid.NewString(), Name: normalized, CreatedAt: time.Now()}
	t.s.tags[normalized] = tag
	return tag, nil
}

func (t tagStore) SuggestNames(_ context.Context, fragment string, limit int) ([]string, error) {
	var names []string
	for name := range t.s.tags {
		if strings.Contains(name, fragment) && len(names) < limit {
			names = append(names, name)
		}
	}
	return names, nil
}

// runStore adapts memStore to the crawl run repository interface.
type runStore struct{ s *memStore }

func (r runStore) Create(_ context.Context, tag string) (*domain.CrawlRun, error) {
	run := &domain.CrawlRun{
		ID:        uuid.NewString(),
		Tag:       tag,
		Status:    domain.CrawlStatusInProgress,
		StartedAt: time.Now(),
	}
	r.s.runs[run.ID] = run
	return run, nil
}

func (r runStore) Complete(_ context.Context, id string, blogsFound int, message *string) error {
	run := r.s.runs[id]
	now := time.Now()
	run.Status = domain.CrawlStatusCompleted
	run.CompletedAt = &now
	run.BlogsFound = blogsFound
	run.ErrorMessage = message
	return nil
}

func (r runStore) Fail(_ context.Context, id, errorMessage string) error {
	run := r.s.runs[id]
	now := time.Now()
	run.Status = domain.CrawlStatusFailed
	run.CompletedAt = &now
	run.ErrorMessage = &errorMessage
	return nil
}

func (r runStore) LatestByTag(_ context.Context, tag string) (*domain.CrawlRun, error) {
	var latest *domain.CrawlRun
	for _, run := range r.s.runs {
		if run.Tag != tag {
			continue
		}
		if latest == nil || run.StartedAt.After(latest.StartedAt) {
			latest = run
		}
	}
	if latest == nil {
		return nil, database.ErrNotFound
	}
	return latest, nil
}

// historyStore adapts memStore to the search history repository interface.
type historyStore struct{ s *memStore }

func (h historyStore) Create(_ context.Context, entry *domain.SearchHistoryEntry) error {
	if entry.ID == "" {
		entry.ID = uuid.NewString()
	}
	if entry.SearchTime.IsZero() {
		entry.SearchTime = time.Now()
	}
	h.s.history = append(h.s.history, entry)
	return nil
}

func (h historyStore) Recent(_ context.Context, limit int) ([]*domain.SearchHistoryEntry, error) {
	if len(h.s.history) > limit {
		return h.s.history[len(h.s.history)-limit:], nil
	}
	return h.s.history, nil
}
