package scraper

import (
	"context"
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"ainews-feed/internal/domain/entity"
	"ainews-feed/internal/resilience/retry"
	"ainews-feed/internal/usecase/fetch"
)

const sampleRSS = `<?xml version="1.0" encoding="UTF-8"?>
<rss version="2.0">
  <channel>
    <title>AI Wire</title>
    <item>
      <title>New GPT model released</title>
      <description>A stronger reasoning model</description>
      <link>https://example.com/gpt</link>
      <pubDate>Mon, 17 Aug 2026 10:00:00 GMT</pubDate>
    </item>
    <item>
      <link>https://example.com/untitled</link>
    </item>
  </channel>
</rss>`

func testSource(endpoint string) entity.SourceConfig {
	return entity.SourceConfig{
		Name:            "ai-wire",
		Endpoint:        endpoint,
		DefaultCategory: entity.CategoryOthers,
	}
}

func fastFetcher() *RSSFetcher {
	f := NewRSSFetcher(nil, nil)
	f.retryConfig = retry.Config{MaxAttempts: 3, BaseDelay: time.Millisecond}
	return f
}

func TestFetch_ParsesFeed(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/rss+xml")
		_, _ = w.Write([]byte(sampleRSS))
	}))
	defer srv.Close()

	records, err := fastFetcher().Fetch(context.Background(), testSource(srv.URL))
	require.NoError(t, err)
	require.Len(t, records, 2)

	first := records[0]
	assert.Equal(t, "New GPT model released", first.Title)
	assert.Equal(t, "A stronger reasoning model", first.Description)
	assert.Equal(t, "https://example.com/gpt", first.Link)
	assert.Equal(t, "ai-wire", first.SourceName)
	assert.Equal(t, entity.CategoryOthers, first.DefaultCategory)
	assert.Equal(t, time.Date(2026, 8, 17, 10, 0, 0, 0, time.UTC), first.PublishedAt.UTC())
}

func TestFetch_FillsDefaultsForMissingFields(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte(sampleRSS))
	}))
	defer srv.Close()

	before := time.Now()
	records, err := fastFetcher().Fetch(context.Background(), testSource(srv.URL))
	require.NoError(t, err)
	require.Len(t, records, 2)

	bare := records[1]
	assert.Equal(t, "No title", bare.Title)
	assert.Equal(t, "No description", bare.Description)
	assert.Equal(t, "https://example.com/untitled", bare.Link)
	assert.False(t, bare.PublishedAt.Before(before), "missing pubDate defaults to fetch time")
}

func TestFetch_RetriesServerErrors(t *testing.T) {
	var hits atomic.Int32
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if hits.Add(1) < 3 {
			w.WriteHeader(http.StatusInternalServerError)
			return
		}
		_, _ = w.Write([]byte(sampleRSS))
	}))
	defer srv.Close()

	records, err := fastFetcher().Fetch(context.Background(), testSource(srv.URL))
	require.NoError(t, err)
	assert.Len(t, records, 2)
	assert.Equal(t, int32(3), hits.Load())
}

func TestFetch_ExhaustedRetriesReturnFetchError(t *testing.T) {
	var hits atomic.Int32
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		hits.Add(1)
		w.WriteHeader(http.StatusServiceUnavailable)
	}))
	defer srv.Close()

	records, err := fastFetcher().Fetch(context.Background(), testSource(srv.URL))
	require.Error(t, err)
	assert.Nil(t, records, "no partial result alongside an error")
	assert.Equal(t, int32(3), hits.Load())

	var fetchErr *fetch.FetchError
	require.ErrorAs(t, err, &fetchErr)
	assert.Equal(t, "ai-wire", fetchErr.Source)
}

func TestFetch_InvalidFeedBody(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte("this is not a feed"))
	}))
	defer srv.Close()

	_, err := fastFetcher().Fetch(context.Background(), testSource(srv.URL))
	require.Error(t, err)

	var fetchErr *fetch.FetchError
	assert.ErrorAs(t, err, &fetchErr)
}

func TestFetch_ContextCancellationAborts(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		time.Sleep(200 * time.Millisecond)
		_, _ = w.Write([]byte(sampleRSS))
	}))
	defer srv.Close()

	ctx, cancel := context.WithTimeout(context.Background(), 20*time.Millisecond)
	defer cancel()

	start := time.Now()
	_, err := fastFetcher().Fetch(ctx, testSource(srv.URL))
	require.Error(t, err)
	assert.Less(t, time.Since(start), 150*time.Millisecond, "cancellation must not sit out remaining attempts")
}
