package fetch

import (
	"context"
	"log/slog"
	"time"

	"golang.org/x/sync/errgroup"

	"ainews-feed/internal/domain/entity"
	"ainews-feed/internal/observability/metrics"
)

// RawRecord is a single feed entry after permissive parsing, before
// classification and storage. The fetcher stamps the source fields so the
// record carries everything the ingestion pipeline needs.
type RawRecord struct {
	Title           string
	Description     string
	Link            string
	PublishedAt     time.Time
	SourceName      string
	DefaultCategory entity.Category
}

// FeedFetcher fetches and parses one source's feed into raw records.
type FeedFetcher interface {
	Fetch(ctx context.Context, source entity.SourceConfig) ([]RawRecord, error)
}

// Service collects records from all configured sources concurrently.
type Service struct {
	fetcher FeedFetcher
	logger  *slog.Logger
}

// NewService creates a collection service backed by the given fetcher.
func NewService(fetcher FeedFetcher, logger *slog.Logger) *Service {
	if logger == nil {
		logger = slog.Default()
	}
	return &Service{fetcher: fetcher, logger: logger}
}

// CollectAll fetches every source concurrently, one goroutine per source,
// and waits for all of them. A failing source is logged and skipped; it
// never fails the collection. The results are concatenated in the order the
// sources were given, with each source's feed order preserved. When every
// source fails the result is an empty slice.
func (s *Service) CollectAll(ctx context.Context, sources []entity.SourceConfig) []RawRecord {
	perSource := make([][]RawRecord, len(sources))

	g, gctx := errgroup.WithContext(ctx)
	for i, src := range sources {
		g.Go(func() error {
			start := time.Now()
			records, err := s.fetcher.Fetch(gctx, src)
			duration := time.Since(start)

			if err != nil {
				metrics.RecordFeedFetch(src.Name, false, duration)
				s.logger.Warn("source fetch failed, skipping",
					slog.String("source", src.Name),
					slog.String("endpoint", src.Endpoint),
					slog.Any("error", err))
				return nil
			}

			metrics.RecordFeedFetch(src.Name, true, duration)
			s.logger.Debug("source fetch completed",
				slog.String("source", src.Name),
				slog.Int("records", len(records)),
				slog.Duration("duration", duration))
			perSource[i] = records
			return nil
		})
	}
	// Per-source errors are swallowed above, so Wait is a pure barrier.
	_ = g.Wait()

	total := 0
	for _, records := range perSource {
		total += len(records)
	}
	merged := make([]RawRecord, 0, total)
	for _, records := range perSource {
		merged = append(merged, records...)
	}
	return merged
}
