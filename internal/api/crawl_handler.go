package api

import (
	"context"
	"errors"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"

	"github.com/jonesrussell/medium-crawler/internal/crawler"
	"github.com/jonesrussell/medium-crawler/internal/database"
	"github.com/jonesrussell/medium-crawler/internal/domain"
)

// CrawlStarter runs one crawl invocation to a terminal state.
type CrawlStarter interface {
	CrawlTag(ctx context.Context, tagName string, progress crawler.ProgressFunc) ([]*domain.Article, error)
}

// StartCrawlRequest is the body of POST /api/v1/crawls.
type StartCrawlRequest struct {
	Tag string `json:"tag" binding:"required"`
}

// ArticleResponse is the per-article payload of the crawl status endpoint.
type ArticleResponse struct {
	Title         string   `json:"title"`
	Author        string   `json:"author"`
	Summary       string   `json:"summary"`
	URL           string   `json:"url"`
	PublishedDate string   `json:"published_date"`
	ReadingTime   string   `json:"reading_time"`
	Tags          []string `json:"tags"`
}

// CrawlStatusResponse is the payload of GET /api/v1/crawls/:tag.
type CrawlStatusResponse struct {
	Status       domain.CrawlStatus `json:"status"`
	BlogsFound   int                `json:"blogs_found"`
	Blogs        []ArticleResponse  `json:"blogs"`
	CompletedAt  *string            `json:"completed_at"`
	ErrorMessage *string            `json:"error_message"`
}

// CrawlHandler handles crawl-related HTTP requests.
type CrawlHandler struct {
	orchestrator CrawlStarter
	runs         database.CrawlRunRepositoryInterface
	articles     database.ArticleRepositoryInterface
	progress     crawler.ProgressFunc
}

// NewCrawlHandler creates a crawl handler. The progress function may be
// nil; it receives fire-and-forget notifications from background crawls.
func NewCrawlHandler(
	orchestrator CrawlStarter,
	runs database.CrawlRunRepositoryInterface,
	articles database.ArticleRepositoryInterface,
	progress crawler.ProgressFunc,
) *CrawlHandler {
	return &CrawlHandler{
		orchestrator: orchestrator,
		runs:         runs,
		articles:     articles,
		progress:     progress,
	}
}

// StartCrawl handles POST /api/v1/crawls. The crawl runs on a detached
// background goroutine; the caller polls GetCrawlStatus for progress.
// Crawl failures are recorded on the CrawlRun, not surfaced here.
func (h *CrawlHandler) StartCrawl(c *gin.Context) {
	var req StartCrawlRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request: " + err.Error()})
		return
	}

	tag := strings.ToLower(strings.TrimSpace(req.Tag))
	if tag == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Tag name cannot be empty"})
		return
	}

	go func() {
		// The request context dies with the response; the crawl must not.
		_, _ = h.orchestrator.CrawlTag(context.Background(), tag, h.progress)
	}()

	c.JSON(http.StatusAccepted, gin.H{
		"tag":    tag,
		"status": domain.CrawlStatusInProgress,
	})
}

// GetCrawlStatus handles GET /api/v1/crawls/:tag. It returns the latest
// run for the tag together with the articles crawled since that run
// started.
func (h *CrawlHandler) GetCrawlStatus(c *gin.Context) {
	tag := strings.ToLower(strings.TrimSpace(c.Param("tag")))

	run, err := h.runs.LatestByTag(c.Request.Context(), tag)
	if err != nil {
		if errors.Is(err, database.ErrNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"error": "Crawl not found"})
			return
		}
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to retrieve crawl status"})
		return
	}

	articles, err := h.articles.ListCrawledSince(c.Request.Context(), tag, run.StartedAt)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to retrieve crawled articles"})
		return
	}

	resp := CrawlStatusResponse{
		Status:       run.Status,
		BlogsFound:   len(articles),
		Blogs:        make([]ArticleResponse, 0, len(articles)),
		ErrorMessage: run.ErrorMessage,
	}
	if run.CompletedAt != nil {
		completed := run.CompletedAt.Format("2006-01-02T15:04:05Z07:00")
		resp.CompletedAt = &completed
	}

	for _, article := range articles {
		resp.Blogs = append(resp.Blogs, toArticleResponse(article))
	}

	c.JSON(http.StatusOK, resp)
}

// toArticleResponse maps an article to its API payload.
func toArticleResponse(article *domain.Article) ArticleResponse {
	authorName := ""
	if article.Author != nil {
		authorName = article.Author.Name
	}

	return ArticleResponse{
		Title:         article.Title,
		Author:        authorName,
		Summary:       article.DisplaySummary(),
		URL:           article.MediumURL,
		PublishedDate: article.PublishedDateDisplay(),
		ReadingTime:   article.ReadingTime,
		Tags:          article.TagNames(),
	}
}
