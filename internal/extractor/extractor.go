// Package extractor enriches crawl candidates by fetching the article
// page and deriving body text, reading time, and engagement count.
package extractor

import (
	"context"
	"fmt"
	"net/http"
	"regexp"
	"strconv"
	"strings"

	"github.com/PuerkitoBio/goquery"

	"github.com/jonesrussell/medium-crawler/internal/domain"
	"github.com/jonesrussell/medium-crawler/internal/logger"
)

// blockTextSelector matches the block-level text elements whose contents
// form the article body.
const blockTextSelector = "p, h1, h2, h3, h4, h5, h6"

// Extraction patterns over visible page text. Each is an independent
// best-effort pass; a miss leaves the documented default.
var (
	readingTimePattern = regexp.MustCompile(`(?i)\d+\s*min(?:ute)?\s*read`)
	clapsPatterns      = []*regexp.Regexp{
		regexp.MustCompile(`(?i)(\d+)\s*clap`),
		regexp.MustCompile(`(?i)(\d+)\s*applause`),
	}
)

// Enrichment holds the fields derived from a fetched article page.
type Enrichment struct {
	Content     string
	ReadingTime string
	ClapsCount  int
}

// Extractor fetches article pages and applies the extraction heuristics.
type Extractor struct {
	client    *http.Client
	userAgent string
	log       logger.Interface
}

// New creates an extractor. The client's timeout bounds each page fetch.
func New(client *http.Client, userAgent string, log logger.Interface) *Extractor {
	return &Extractor{
		client:    client,
		userAgent: userAgent,
		log:       log,
	}
}

// Enrich fetches the article page and extracts additional fields.
// A transport failure or non-success status yields nil: enrichment is
// skipped and the candidate is persisted with feed-only data.
func (e *Extractor) Enrich(ctx context.Context, articleURL string) *Enrichment {
	doc, err := e.fetchPage(ctx, articleURL)
	if err != nil {
		e.log.Debug("enrichment skipped",
			"url", articleURL,
			"error", err,
		)
		return nil
	}

	pageText := doc.Text()

	return &Enrichment{
		Content:     extractBody(doc),
		ReadingTime: extractReadingTime(pageText),
		ClapsCount:  extractClaps(pageText),
	}
}

// fetchPage performs the HTTP GET and parses the response into a document.
func (e *Extractor) fetchPage(ctx context.Context, articleURL string) (*goquery.Document, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, articleURL, http.NoBody)
	if err != nil {
		return nil, fmt.Errorf("page request: %w", err)
	}
	req.Header.Set("User-Agent", e.userAgent)

	resp, err := e.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("page fetch: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("page fetch: unexpected status %d", resp.StatusCode)
	}

	doc, err := goquery.NewDocumentFromReader(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("parse html: %w", err)
	}

	return doc, nil
}

// extractBody concatenates the text of paragraph and heading elements,
// joined by blank lines. Empty elements are skipped.
func extractBody(doc *goquery.Document) string {
	var blocks []string
	doc.Find(blockTextSelector).Each(func(_ int, sel *goquery.Selection) {
		if text := strings.TrimSpace(sel.Text()); text != "" {
			blocks = append(blocks, text)
		}
	})
	return strings.Join(blocks, "\n\n")
}

// extractReadingTime returns the first "<n> min read" style label found
// in the page text, or the default when none matches.
func extractReadingTime(pageText string) string {
	if match := readingTimePattern.FindString(pageText); match != "" {
		return match
	}
	return domain.DefaultReadingTime
}

// extractClaps returns the first engagement count matched in the page
// text. Parse failures on the captured number are swallowed.
func extractClaps(pageText string) int {
	for _, pattern := range clapsPatterns {
		match := pattern.FindStringSubmatch(pageText)
		if match == nil {
			continue
		}
		count, err := strconv.Atoi(match[1])
		if err != nil {
			continue
		}
		return count
	}
	return 0
}
