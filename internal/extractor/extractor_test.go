package extractor_test

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jonesrussell/medium-crawler/internal/domain"
	"github.com/jonesrussell/medium-crawler/internal/extractor"
	"github.com/jonesrussell/medium-crawler/internal/logger"
)

const testPage = `<!DOCTYPE html>
<html>
<head><title>A Story</title></head>
<body>
	<nav>Home · Write</nav>
	<h1>A Story About Go</h1>
	<div class="meta">7 min read · 412 claps</div>
	<p>First paragraph.</p>
	<p>   </p>
	<h2>Details</h2>
	<p>Second paragraph.</p>
</body>
</html>`

func newTestExtractor(t *testing.T, handler http.HandlerFunc) (*extractor.Extractor, string) {
	t.Helper()

	srv := httptest.NewServer(handler)
	t.Cleanup(srv.Close)

	return extractor.New(srv.Client(), "test-agent", logger.NewNoop()), srv.URL
}

func TestExtractor_Enrich(t *testing.T) {
	t.Parallel()

	ext, url := newTestExtractor(t, func(w http.ResponseWriter, _ *http.Request) {
		_, _ = w.Write([]byte(testPage))
	})

	enrichment := ext.Enrich(context.Background(), url)
	require.NotNil(t, enrichment)

	// Block elements joined by blank lines, empty ones skipped.
	assert.Equal(t,
		"A Story About Go\n\nFirst paragraph.\n\nDetails\n\nSecond paragraph.",
		enrichment.Content,
	)
	assert.Equal(t, "7 min read", enrichment.ReadingTime)
	assert.Equal(t, 412, enrichment.ClapsCount)
}

func TestExtractor_Enrich_NonSuccessStatus(t *testing.T) {
	t.Parallel()

	ext, url := newTestExtractor(t, func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusNotFound)
	})

	assert.Nil(t, ext.Enrich(context.Background(), url))
}

func TestExtractor_Enrich_Defaults(t *testing.T) {
	t.Parallel()

	ext, url := newTestExtractor(t, func(w http.ResponseWriter, _ *http.Request) {
		_, _ = w.Write([]byte(`<html><body><div>No blocks here</div></body></html>`))
	})

	enrichment := ext.Enrich(context.Background(), url)
	require.NotNil(t, enrichment)

	assert.Empty(t, enrichment.Content)
	assert.Equal(t, domain.DefaultReadingTime, enrichment.ReadingTime)
	assert.Zero(t, enrichment.ClapsCount)
}

func TestExtractor_Enrich_MinuteReadVariant(t *testing.T) {
	t.Parallel()

	ext, url := newTestExtractor(t, func(w http.ResponseWriter, _ *http.Request) {
		_, _ = w.Write([]byte(`<html><body><p>A 3 minute read with 9 applause.</p></body></html>`))
	})

	enrichment := ext.Enrich(context.Background(), url)
	require.NotNil(t, enrichment)

	assert.Equal(t, "3 minute read", enrichment.ReadingTime)
	assert.Equal(t, 9, enrichment.ClapsCount)
}
