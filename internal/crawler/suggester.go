package crawler

import (
	"context"
	"strings"

	"github.com/jonesrussell/medium-crawler/internal/logger"
)

// MaxSuggestions is the maximum number of tag names returned by Suggest.
const MaxSuggestions = 5

// commonTags is the static vocabulary of common topic tags, consulted
// after persisted tag names.
var commonTags = []string{
	"technology", "programming", "python", "javascript", "data-science",
	"machine-learning", "web-development", "startup", "business",
	"productivity", "design", "marketing", "entrepreneurship",
	"artificial-intelligence", "blockchain", "software-engineering",
}

// TagNameStore looks up persisted tag names by fragment.
type TagNameStore interface {
	SuggestNames(ctx context.Context, fragment string, limit int) ([]string, error)
}

// Suggester combines persisted tag names with the static vocabulary to
// produce autocomplete suggestions. It is independent of the crawl
// pipeline.
type Suggester struct {
	store TagNameStore
	log   logger.Interface
}

// NewSuggester creates a tag suggester.
func NewSuggester(store TagNameStore, log logger.Interface) *Suggester {
	return &Suggester{store: store, log: log}
}

// Suggest returns up to MaxSuggestions unique tag names containing the
// fragment, persisted names first, then static vocabulary matches, in
// first-seen order. A datastore failure degrades to static matches only
// so autocomplete keeps working.
func (s *Suggester) Suggest(ctx context.Context, fragment string) []string {
	fragment = strings.ToLower(strings.TrimSpace(fragment))

	persisted, err := s.store.SuggestNames(ctx, fragment, MaxSuggestions)
	if err != nil {
		s.log.Warn("tag name lookup failed", "fragment", fragment, "error", err)
		persisted = nil
	}

	seen := make(map[string]struct{}, MaxSuggestions)
	suggestions := make([]string, 0, MaxSuggestions)

	appendUnique := func(name string) {
		if len(suggestions) >= MaxSuggestions {
			return
		}
		if _, dup := seen[name]; dup {
			return
		}
		seen[name] = struct{}{}
		suggestions = append(suggestions, name)
	}

	for _, name := range persisted {
		appendUnique(name)
	}
	for _, name := range commonTags {
		if strings.Contains(name, fragment) {
			appendUnique(name)
		}
	}

	return suggestions
}
