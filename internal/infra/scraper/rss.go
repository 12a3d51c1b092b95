// Package scraper provides implementations for fetching RSS/Atom feeds.
// It uses the gofeed library to parse feed content with reliability patterns.
package scraper

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"time"

	"github.com/mmcdole/gofeed"
	"github.com/sony/gobreaker"
	"golang.org/x/time/rate"

	"ainews-feed/internal/domain/entity"
	"ainews-feed/internal/resilience/circuitbreaker"
	"ainews-feed/internal/resilience/retry"
	"ainews-feed/internal/usecase/fetch"
)

// Defaults applied to feed entries that omit the field. Feeds in the wild
// drop any of these, so parsing stays permissive instead of rejecting items.
const (
	defaultTitle       = "No title"
	defaultDescription = "No description"
)

const fetchTimeout = 30 * time.Second

// RSSFetcher implements fetch.FeedFetcher using the gofeed library.
// It includes circuit breaker, retry and rate limiting for improved
// reliability and polite outbound behavior.
type RSSFetcher struct {
	client         *http.Client
	circuitBreaker *circuitbreaker.CircuitBreaker
	retryConfig    retry.Config
	limiter        *rate.Limiter
	logger         *slog.Logger
}

// NewRSSFetcher creates a new RSSFetcher with the given HTTP client.
// A nil client gets a 30-second timeout client. The rate limiter is shared
// across all sources fetched through this instance.
func NewRSSFetcher(client *http.Client, logger *slog.Logger) *RSSFetcher {
	if client == nil {
		client = &http.Client{Timeout: fetchTimeout}
	}
	if logger == nil {
		logger = slog.Default()
	}
	return &RSSFetcher{
		client:         client,
		circuitBreaker: circuitbreaker.New(circuitbreaker.FeedFetchConfig()),
		retryConfig:    retry.FeedFetchConfig(),
		limiter:        rate.NewLimiter(rate.Limit(5), 10),
		logger:         logger,
	}
}

// Fetch retrieves and parses the source's feed. Up to three attempts with
// linear backoff; each attempt goes through the shared rate limiter and the
// circuit breaker. On exhaustion it returns a *fetch.FetchError wrapping the
// last failure and no records.
func (f *RSSFetcher) Fetch(ctx context.Context, source entity.SourceConfig) ([]fetch.RawRecord, error) {
	var records []fetch.RawRecord

	retryErr := retry.Do(ctx, f.retryConfig, func() error {
		if err := f.limiter.Wait(ctx); err != nil {
			return err
		}

		cbResult, err := f.circuitBreaker.Execute(func() (interface{}, error) {
			return f.doFetch(ctx, source)
		})
		if err != nil {
			if errors.Is(err, gobreaker.ErrOpenState) {
				f.logger.Warn("feed fetch circuit breaker open, request rejected",
					slog.String("source", source.Name),
					slog.String("endpoint", source.Endpoint),
					slog.String("state", f.circuitBreaker.State().String()))
			}
			return err
		}

		records = cbResult.([]fetch.RawRecord)
		return nil
	})

	if retryErr != nil {
		return nil, &fetch.FetchError{Source: source.Name, Err: retryErr}
	}
	return records, nil
}

// doFetch performs the actual feed fetch without retry or circuit breaker.
func (f *RSSFetcher) doFetch(ctx context.Context, source entity.SourceConfig) ([]fetch.RawRecord, error) {
	fp := gofeed.NewParser()
	fp.UserAgent = "ainews-feed-bot/1.0"
	fp.Client = f.client

	feed, err := fp.ParseURLWithContext(source.Endpoint, ctx)
	if err != nil {
		return nil, err
	}

	records := make([]fetch.RawRecord, 0, len(feed.Items))
	for _, it := range feed.Items {
		records = append(records, mapItem(it, source))
	}
	return records, nil
}

// mapItem converts one gofeed entry into a raw record, filling defaults for
// the fields feeds commonly omit.
func mapItem(it *gofeed.Item, source entity.SourceConfig) fetch.RawRecord {
	title := it.Title
	if title == "" {
		title = defaultTitle
	}

	description := it.Description
	if description == "" {
		description = it.Content
	}
	if description == "" {
		description = defaultDescription
	}

	publishedAt := time.Now()
	if it.PublishedParsed != nil {
		publishedAt = *it.PublishedParsed
	} else if it.UpdatedParsed != nil {
		publishedAt = *it.UpdatedParsed
	}

	return fetch.RawRecord{
		Title:           title,
		Description:     description,
		Link:            it.Link,
		PublishedAt:     publishedAt,
		SourceName:      source.Name,
		DefaultCategory: source.DefaultCategory,
	}
}
