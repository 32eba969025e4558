// Package feed fetches and parses tag-scoped RSS feeds into raw
// crawl candidates.
package feed

import (
	"context"
	"fmt"
	"net/http"
	"net/url"
	"regexp"
	"strings"
	"time"

	"github.com/PuerkitoBio/goquery"
	"github.com/mmcdole/gofeed"

	"github.com/jonesrussell/medium-crawler/internal/logger"
)

// UnknownAuthor is the sentinel author name used when a feed entry
// carries no author field.
const UnknownAuthor = "Unknown Author"

// Title cleanup patterns. Feed titles sometimes carry an RSS tracking
// suffix and a trailing hash token.
var (
	rssSuffixPattern = regexp.MustCompile(`(?i)\?Source=Rss.*$`)
	hashTokenPattern = regexp.MustCompile(`(?i)[0-9a-f]{12,}$`)
)

// Candidate is a raw feed entry before enrichment.
type Candidate struct {
	URL           string
	Title         string
	Author        string
	Content       string
	PublishedDate time.Time
	Tags          []string
}

// Source fetches tag feeds from the upstream platform.
type Source struct {
	client    *http.Client
	baseURL   string
	userAgent string
	log       logger.Interface
}

// NewSource creates a feed source. The client's timeout bounds the
// feed fetch.
func NewSource(client *http.Client, baseURL, userAgent string, log logger.Interface) *Source {
	return &Source{
		client:    client,
		baseURL:   strings.TrimRight(baseURL, "/"),
		userAgent: userAgent,
		log:       log,
	}
}

// Fetch returns up to limit candidates for the given tag, in feed order.
// Transport and parse failures degrade to an empty result; the caller
// treats zero candidates as a valid outcome.
func (s *Source) Fetch(ctx context.Context, tagName string, limit int) []Candidate {
	feedURL := s.feedURL(tagName)

	parsed, err := s.fetchFeed(ctx, feedURL)
	if err != nil {
		s.log.Warn("feed fetch failed",
			"tag", tagName,
			"feed_url", feedURL,
			"error", err,
		)
		return nil
	}

	candidates := make([]Candidate, 0, limit)
	for _, entry := range parsed.Items {
		if len(candidates) >= limit {
			break
		}
		if entry.Link == "" {
			continue
		}
		candidates = append(candidates, entryToCandidate(entry, tagName))
	}

	return candidates
}

// feedURL builds the tag-scoped feed endpoint: the tag is trimmed,
// lowercased, space-to-hyphen normalized, and percent-encoded.
func (s *Source) feedURL(tagName string) string {
	clean := NormalizeTag(tagName)
	return fmt.Sprintf("%s/feed/tag/%s", s.baseURL, url.QueryEscape(clean))
}

// fetchFeed performs the HTTP GET and parses the body as RSS/Atom.
func (s *Source) fetchFeed(ctx context.Context, feedURL string) (*gofeed.Feed, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, feedURL, http.NoBody)
	if err != nil {
		return nil, fmt.Errorf("feed request: %w", err)
	}
	req.Header.Set("User-Agent", s.userAgent)

	resp, err := s.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("feed fetch: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("feed fetch: unexpected status %d", resp.StatusCode)
	}

	parsed, err := gofeed.NewParser().Parse(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("feed parse: %w", err)
	}

	return parsed, nil
}

// entryToCandidate maps a feed item to a candidate, applying the
// documented default substitutions.
func entryToCandidate(entry *gofeed.Item, tagName string) Candidate {
	published := time.Now()
	if entry.PublishedParsed != nil {
		published = *entry.PublishedParsed
	}

	return Candidate{
		URL:           entry.Link,
		Title:         CleanTitle(entry.Title),
		Author:        entryAuthor(entry),
		Content:       stripMarkup(entry.Description),
		PublishedDate: published,
		Tags:          []string{tagName},
	}
}

// entryAuthor returns the feed-provided author name, or the sentinel
// when absent.
func entryAuthor(entry *gofeed.Item) string {
	if entry.Author != nil && entry.Author.Name != "" {
		return entry.Author.Name
	}
	for _, a := range entry.Authors {
		if a != nil && a.Name != "" {
			return a.Name
		}
	}
	return UnknownAuthor
}

// NormalizeTag trims, lowercases, and hyphenates a tag name.
func NormalizeTag(tagName string) string {
	clean := strings.ToLower(strings.TrimSpace(tagName))
	return strings.ReplaceAll(clean, " ", "-")
}

// CleanTitle strips RSS tracking artifacts: a trailing "?Source=Rss..."
// query marker and any trailing hash token of 12 or more hex characters.
func CleanTitle(title string) string {
	title = rssSuffixPattern.ReplaceAllString(title, "")
	title = hashTokenPattern.ReplaceAllString(title, "")
	return strings.TrimSpace(title)
}

// stripMarkup reduces a feed summary to plain text.
func stripMarkup(htmlFragment string) string {
	if htmlFragment == "" {
		return ""
	}
	doc, err := goquery.NewDocumentFromReader(strings.NewReader(htmlFragment))
	if err != nil {
		return strings.TrimSpace(htmlFragment)
	}
	return strings.TrimSpace(doc.Text())
}
