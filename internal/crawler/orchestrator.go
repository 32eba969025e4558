// Package crawler coordinates the crawl pipeline: feed acquisition,
// page enrichment, idempotent persistence, and crawl lifecycle tracking.
package crawler

import (
	"context"
	"errors"
	"fmt"
	"time"

	"golang.org/x/time/rate"

	"github.com/jonesrussell/medium-crawler/internal/database"
	"github.com/jonesrussell/medium-crawler/internal/domain"
	"github.com/jonesrussell/medium-crawler/internal/extractor"
	"github.com/jonesrussell/medium-crawler/internal/feed"
	"github.com/jonesrussell/medium-crawler/internal/logger"
)

const (
	// noArticlesMessage is recorded on runs that found an empty feed.
	noArticlesMessage = "No articles found for this tag"

	// progressTitleMaxLen caps the title length in progress notifications.
	progressTitleMaxLen = 50

	// finalizeTimeout bounds the terminal-state writes. They run on a
	// detached context so a cancelled crawl still reaches a terminal,
	// queryable state.
	finalizeTimeout = 10 * time.Second
)

// FeedSource returns raw candidates for a tag. Implementations degrade
// transport and parse failures to an empty result.
type FeedSource interface {
	Fetch(ctx context.Context, tagName string, limit int) []feed.Candidate
}

// Enricher fetches an article page and derives extra fields. A nil
// result means enrichment was skipped.
type Enricher interface {
	Enrich(ctx context.Context, articleURL string) *extractor.Enrichment
}

// ProgressFunc receives fire-and-forget progress notifications. Delivery
// failure never aborts the crawl.
type ProgressFunc func(index, total int, title string)

// Config holds orchestrator settings.
type Config struct {
	// Limit caps the number of candidates processed per run.
	Limit int
	// Delay is the politeness pause between successive page fetches.
	Delay time.Duration
}

// Orchestrator runs one crawl invocation to completion on a single
// logical worker. Every invocation produces exactly one terminal
// CrawlRun and one SearchHistory entry.
type Orchestrator struct {
	feeds    FeedSource
	enricher Enricher
	articles database.ArticleRepositoryInterface
	authors  database.AuthorRepositoryInterface
	tags     database.TagRepositoryInterface
	runs     database.CrawlRunRepositoryInterface
	history  database.SearchHistoryRepositoryInterface
	cfg      Config
	log      logger.Interface
}

// NewOrchestrator creates a crawl orchestrator.
func NewOrchestrator(
	feeds FeedSource,
	enricher Enricher,
	articles database.ArticleRepositoryInterface,
	authors database.AuthorRepositoryInterface,
	tags database.TagRepositoryInterface,
	runs database.CrawlRunRepositoryInterface,
	history database.SearchHistoryRepositoryInterface,
	cfg Config,
	log logger.Interface,
) *Orchestrator {
	return &Orchestrator{
		feeds:    feeds,
		enricher: enricher,
		articles: articles,
		authors:  authors,
		tags:     tags,
		runs:     runs,
		history:  history,
		cfg:      cfg,
		log:      log,
	}
}

// CrawlTag crawls articles for one tag. It records a CrawlRun in the
// in_progress state, processes each feed candidate with a politeness
// pause, and always finalizes the run and appends a search history
// entry before returning, on success and failure alike. The returned
// articles are the newly created rows; duplicates are skipped silently.
func (o *Orchestrator) CrawlTag(
	ctx context.Context,
	tagName string,
	progress ProgressFunc,
) ([]*domain.Article, error) {
	start := time.Now()

	run, err := o.runs.Create(ctx, tagName)
	if err != nil {
		return nil, fmt.Errorf("start crawl run: %w", err)
	}

	o.log.Info("crawl started", "tag", tagName, "run_id", run.ID)

	created, candidateCount, crawlErr := o.runPipeline(ctx, tagName, progress)

	if crawlErr != nil {
		o.finalizeFailed(run.ID, crawlErr)
		o.recordHistory(tagName, len(created), start)
		return created, fmt.Errorf("crawl tag %q: %w", tagName, crawlErr)
	}

	var message *string
	if candidateCount == 0 {
		msg := noArticlesMessage
		message = &msg
	}
	o.finalizeCompleted(run.ID, len(created), message)
	o.recordHistory(tagName, len(created), start)

	o.log.Info("crawl completed",
		"tag", tagName,
		"run_id", run.ID,
		"candidates", candidateCount,
		"created", len(created),
	)

	return created, nil
}

// runPipeline fetches candidates and processes them in feed order.
func (o *Orchestrator) runPipeline(
	ctx context.Context,
	tagName string,
	progress ProgressFunc,
) (created []*domain.Article, candidateCount int, err error) {
	candidates := o.feeds.Fetch(ctx, tagName, o.cfg.Limit)
	if len(candidates) == 0 {
		return nil, 0, nil
	}

	// The limiter paces page fetches: the first candidate proceeds
	// immediately, each subsequent one waits out the politeness delay.
	// Wait is the cancellation point for an aborted run.
	limiter := rate.NewLimiter(rate.Every(o.cfg.Delay), 1)

	for i, candidate := range candidates {
		if waitErr := limiter.Wait(ctx); waitErr != nil {
			return created, len(candidates), fmt.Errorf("politeness wait: %w", waitErr)
		}

		notifyProgress(progress, i+1, len(candidates), candidate.Title)

		enrichment := o.enricher.Enrich(ctx, candidate.URL)

		article, persistErr := o.persistCandidate(ctx, candidate, enrichment)
		if persistErr != nil {
			return created, len(candidates), persistErr
		}
		if article != nil {
			created = append(created, article)
		}
	}

	return created, len(candidates), nil
}

// persistCandidate saves one enriched candidate. A nil article with nil
// error means the URL was already present and the candidate was skipped.
func (o *Orchestrator) persistCandidate(
	ctx context.Context,
	candidate feed.Candidate,
	enrichment *extractor.Enrichment,
) (*domain.Article, error) {
	exists, err := o.articles.ExistsByURL(ctx, candidate.URL)
	if err != nil {
		return nil, fmt.Errorf("check article exists: %w", err)
	}
	if exists {
		o.log.Debug("skipping duplicate article", "url", candidate.URL)
		return nil, nil
	}

	author, err := o.authors.GetOrCreate(ctx, candidate.Author)
	if err != nil {
		return nil, fmt.Errorf("resolve author: %w", err)
	}

	content := candidate.Content
	readingTime := domain.DefaultReadingTime
	clapsCount := 0
	if enrichment != nil {
		if enrichment.Content != "" {
			content = enrichment.Content
		}
		readingTime = enrichment.ReadingTime
		clapsCount = enrichment.ClapsCount
	}

	tagIDs := make([]string, 0, len(candidate.Tags))
	var tags []domain.Tag
	for _, name := range candidate.Tags {
		tag, tagErr := o.tags.GetOrCreate(ctx, name)
		if tagErr != nil {
			return nil, fmt.Errorf("resolve tag: %w", tagErr)
		}
		tagIDs = append(tagIDs, tag.ID)
		tags = append(tags, *tag)
	}

	published := candidate.PublishedDate
	article := &domain.Article{
		Title:         candidate.Title,
		Content:       content,
		Summary:       domain.Summarize(content),
		AuthorID:      author.ID,
		MediumURL:     candidate.URL,
		PublishedDate: &published,
		ClapsCount:    clapsCount,
		ReadingTime:   readingTime,
	}

	if createErr := o.articles.Create(ctx, article, tagIDs); createErr != nil {
		// A concurrent run may have created the URL between the existence
		// check and the insert. Treat the collision as already present.
		if errors.Is(createErr, database.ErrDuplicateURL) {
			o.log.Debug("article created concurrently, skipping", "url", candidate.URL)
			return nil, nil
		}
		return nil, fmt.Errorf("persist article: %w", createErr)
	}

	article.Author = author
	article.Tags = tags

	return article, nil
}

// finalizeCompleted transitions the run to completed on a detached context.
func (o *Orchestrator) finalizeCompleted(runID string, blogsFound int, message *string) {
	ctx, cancel := finalizeContext()
	defer cancel()

	if err := o.runs.Complete(ctx, runID, blogsFound, message); err != nil {
		o.log.Error("failed to finalize crawl run", "run_id", runID, "error", err)
	}
}

// finalizeFailed transitions the run to failed on a detached context,
// capturing the error message verbatim.
func (o *Orchestrator) finalizeFailed(runID string, crawlErr error) {
	ctx, cancel := finalizeContext()
	defer cancel()

	if err := o.runs.Fail(ctx, runID, crawlErr.Error()); err != nil {
		o.log.Error("failed to finalize crawl run", "run_id", runID, "error", err)
	}
}

// recordHistory appends the search history entry. Written on every exit
// path; the duration is measured to the terminal write.
func (o *Orchestrator) recordHistory(tagName string, resultsCount int, start time.Time) {
	ctx, cancel := finalizeContext()
	defer cancel()

	entry := &domain.SearchHistoryEntry{
		TagSearched:   tagName,
		ResultsCount:  resultsCount,
		CrawlDuration: time.Since(start).Seconds(),
	}
	if err := o.history.Create(ctx, entry); err != nil {
		o.log.Error("failed to record search history", "tag", tagName, "error", err)
	}
}

// finalizeContext returns a bounded context that survives cancellation
// of the crawl context, so terminal writes always execute.
func finalizeContext() (context.Context, context.CancelFunc) {
	return context.WithTimeout(context.Background(), finalizeTimeout)
}

// notifyProgress delivers a progress notification, swallowing observer
// panics so delivery failure cannot abort the crawl.
func notifyProgress(progress ProgressFunc, index, total int, title string) {
	if progress == nil {
		return
	}
	defer func() {
		_ = recover()
	}()
	progress(index, total, truncateTitle(title))
}

// truncateTitle shortens a title for progress display.
func truncateTitle(title string) string {
	runes := []rune(title)
	if len(runes) <= progressTitleMaxLen {
		return title
	}
	return string(runes[:progressTitleMaxLen]) + "..."
}
