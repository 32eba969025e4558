package api_test

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jonesrussell/medium-crawler/internal/api"
	"github.com/jonesrussell/medium-crawler/internal/crawler"
	"github.com/jonesrussell/medium-crawler/internal/database"
	"github.com/jonesrussell/medium-crawler/internal/domain"
	"github.com/jonesrussell/medium-crawler/internal/logger"
)

// fakeStarter records crawl invocations and signals their arrival.
type fakeStarter struct {
	started chan string
}

func newFakeStarter() *fakeStarter {
	return &fakeStarter{started: make(chan string, 1)}
}

func (f *fakeStarter) CrawlTag(_ context.Context, tagName string, _ crawler.ProgressFunc) ([]*domain.Article, error) {
	f.started <- tagName
	return nil, nil
}

// fakeRuns serves a single canned crawl run.
type fakeRuns struct {
	run *domain.CrawlRun
}

func (f *fakeRuns) Create(_ context.Context, _ string) (*domain.CrawlRun, error) {
	return nil, nil
}

func (f *fakeRuns) Complete(_ context.Context, _ string, _ int, _ *string) error { return nil }

func (f *fakeRuns) Fail(_ context.Context, _, _ string) error { return nil }

func (f *fakeRuns) LatestByTag(_ context.Context, _ string) (*domain.CrawlRun, error) {
	if f.run == nil {
		return nil, database.ErrNotFound
	}
	return f.run, nil
}

// fakeArticles serves a canned article list for every query.
type fakeArticles struct {
	articles []*domain.Article
}

func (f *fakeArticles) ExistsByURL(_ context.Context, _ string) (bool, error) { return false, nil }

func (f *fakeArticles) Create(_ context.Context, _ *domain.Article, _ []string) error { return nil }

func (f *fakeArticles) ListCrawledSince(_ context.Context, _ string, _ time.Time) ([]*domain.Article, error) {
	return f.articles, nil
}

func (f *fakeArticles) List(_ context.Context, _ database.ListArticlesParams) ([]*domain.Article, error) {
	return f.articles, nil
}

// fakeSuggester records the fragment it was asked about.
type fakeSuggester struct {
	fragment    string
	suggestions []string
}

func (f *fakeSuggester) Suggest(_ context.Context, fragment string) []string {
	f.fragment = fragment
	return f.suggestions
}

// fakeHistory serves canned search history entries.
type fakeHistory struct {
	entries []*domain.SearchHistoryEntry
}

func (f *fakeHistory) Create(_ context.Context, _ *domain.SearchHistoryEntry) error { return nil }

func (f *fakeHistory) Recent(_ context.Context, _ int) ([]*domain.SearchHistoryEntry, error) {
	return f.entries, nil
}

type routerFixture struct {
	starter   *fakeStarter
	runs      *fakeRuns
	articles  *fakeArticles
	suggester *fakeSuggester
	history   *fakeHistory
	router    http.Handler
}

func newRouterFixture() *routerFixture {
	f := &routerFixture{
		starter:   newFakeStarter(),
		runs:      &fakeRuns{},
		articles:  &fakeArticles{},
		suggester: &fakeSuggester{},
		history:   &fakeHistory{},
	}
	f.router = api.SetupRouter(
		logger.NewNoop(),
		api.NewCrawlHandler(f.starter, f.runs, f.articles, nil),
		api.NewTagsHandler(f.suggester),
		api.NewArticlesHandler(f.articles),
		api.NewHistoryHandler(f.history),
	)
	return f
}

func (f *routerFixture) do(t *testing.T, method, target, body string) *httptest.ResponseRecorder {
	t.Helper()

	var reader *strings.Reader
	if body == "" {
		reader = strings.NewReader("")
	} else {
		reader = strings.NewReader(body)
	}
	req := httptest.NewRequest(method, target, reader)
	if body != "" {
		req.Header.Set("Content-Type", "application/json")
	}
	rec := httptest.NewRecorder()
	f.router.ServeHTTP(rec, req)
	return rec
}

func TestHealth(t *testing.T) {
	f := newRouterFixture()

	rec := f.do(t, http.MethodGet, "/health", "")

	assert.Equal(t, http.StatusOK, rec.Code)
	assert.JSONEq(t, `{"status":"ok"}`, rec.Body.String())
}

func TestStartCrawl_Accepted(t *testing.T) {
	f := newRouterFixture()

	rec := f.do(t, http.MethodPost, "/api/v1/crawls", `{"tag":"  GoLang  "}`)

	require.Equal(t, http.StatusAccepted, rec.Code)

	var body map[string]string
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	assert.Equal(t, "golang", body["tag"])
	assert.Equal(t, string(domain.CrawlStatusInProgress), body["status"])

	// The crawl runs on a background goroutine after the response.
	select {
	case tag := <-f.starter.started:
		assert.Equal(t, "golang", tag)
	case <-time.After(2 * time.Second):
		t.Fatal("crawl was never started")
	}
}

func TestStartCrawl_MissingTag(t *testing.T) {
	f := newRouterFixture()

	rec := f.do(t, http.MethodPost, "/api/v1/crawls", `{}`)

	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestStartCrawl_BlankTag(t *testing.T) {
	f := newRouterFixture()

	rec := f.do(t, http.MethodPost, "/api/v1/crawls", `{"tag":"   "}`)

	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Contains(t, rec.Body.String(), "Tag name cannot be empty")
}

func TestGetCrawlStatus_NotFound(t *testing.T) {
	f := newRouterFixture()

	rec := f.do(t, http.MethodGet, "/api/v1/crawls/never-crawled", "")

	assert.Equal(t, http.StatusNotFound, rec.Code)
	assert.Contains(t, rec.Body.String(), "Crawl not found")
}

func TestGetCrawlStatus_CompletedRun(t *testing.T) {
	f := newRouterFixture()

	completed := time.Date(2024, time.March, 1, 12, 30, 0, 0, time.UTC)
	f.runs.run = &domain.CrawlRun{
		ID:          "run-1",
		Tag:         "golang",
		Status:      domain.CrawlStatusCompleted,
		StartedAt:   completed.Add(-time.Minute),
		CompletedAt: &completed,
		BlogsFound:  1,
	}
	published := time.Date(2024, time.February, 28, 0, 0, 0, 0, time.UTC)
	f.articles.articles = []*domain.Article{{
		Title:         "Concurrency Patterns",
		Content:       "body",
		Summary:       "body",
		MediumURL:     "https://medium.com/p/one",
		PublishedDate: &published,
		ReadingTime:   "6 min read",
		Author:        &domain.Author{Name: "Jane Writer"},
		Tags:          []domain.Tag{{Name: "golang"}},
	}}

	rec := f.do(t, http.MethodGet, "/api/v1/crawls/golang", "")

	require.Equal(t, http.StatusOK, rec.Code)

	var resp api.CrawlStatusResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	assert.Equal(t, domain.CrawlStatusCompleted, resp.Status)
	assert.Equal(t, 1, resp.BlogsFound)
	require.Len(t, resp.Blogs, 1)
	assert.Equal(t, "Concurrency Patterns", resp.Blogs[0].Title)
	assert.Equal(t, "Jane Writer", resp.Blogs[0].Author)
	assert.Equal(t, "2024-02-28", resp.Blogs[0].PublishedDate)
	assert.Equal(t, []string{"golang"}, resp.Blogs[0].Tags)
	require.NotNil(t, resp.CompletedAt)
	assert.Equal(t, "2024-03-01T12:30:00Z", *resp.CompletedAt)
	assert.Nil(t, resp.ErrorMessage)
}

func TestSuggest_ShortQueryReturnsEmpty(t *testing.T) {
	f := newRouterFixture()
	f.suggester.suggestions = []string{"golang"}

	rec := f.do(t, http.MethodGet, "/api/v1/tags/suggest?q=g", "")

	require.Equal(t, http.StatusOK, rec.Code)
	assert.JSONEq(t, `{"suggestions":[]}`, rec.Body.String())
	assert.Empty(t, f.suggester.fragment, "suggester must not be consulted for short queries")
}

func TestSuggest_ReturnsSuggestions(t *testing.T) {
	f := newRouterFixture()
	f.suggester.suggestions = []string{"golang", "go-programming"}

	rec := f.do(t, http.MethodGet, "/api/v1/tags/suggest?q=go", "")

	require.Equal(t, http.StatusOK, rec.Code)
	assert.JSONEq(t, `{"suggestions":["golang","go-programming"]}`, rec.Body.String())
	assert.Equal(t, "go", f.suggester.fragment)
}

func TestListArticles(t *testing.T) {
	f := newRouterFixture()
	f.articles.articles = []*domain.Article{{
		Title:       "Untagged Draft",
		MediumURL:   "https://medium.com/p/draft",
		ReadingTime: "Unknown",
	}}

	rec := f.do(t, http.MethodGet, "/api/v1/articles?limit=5", "")

	require.Equal(t, http.StatusOK, rec.Code)

	var body struct {
		Articles []api.ArticleResponse `json:"articles"`
		Count    int                   `json:"count"`
	}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	assert.Equal(t, 1, body.Count)
	require.Len(t, body.Articles, 1)
	assert.Equal(t, "Untagged Draft", body.Articles[0].Title)
	assert.Equal(t, "Unknown", body.Articles[0].PublishedDate)
}

func TestRecentHistory(t *testing.T) {
	f := newRouterFixture()
	f.history.entries = []*domain.SearchHistoryEntry{{
		TagSearched:   "golang",
		ResultsCount:  7,
		CrawlDuration: 3.5,
	}}

	rec := f.do(t, http.MethodGet, "/api/v1/history", "")

	require.Equal(t, http.StatusOK, rec.Code)

	var body struct {
		History []*domain.SearchHistoryEntry `json:"history"`
		Count   int                          `json:"count"`
	}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	assert.Equal(t, 1, body.Count)
	require.Len(t, body.History, 1)
	assert.Equal(t, "golang", body.History[0].TagSearched)
}
