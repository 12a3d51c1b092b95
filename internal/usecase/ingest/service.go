// Package ingest runs one full collection cycle: collect raw records from
// every source, classify them, and store the survivors.
package ingest

import (
	"context"
	"log/slog"
	"time"

	"github.com/google/uuid"

	"ainews-feed/internal/domain/entity"
	"ainews-feed/internal/observability/metrics"
	"ainews-feed/internal/repository"
	"ainews-feed/internal/usecase/classify"
	"ainews-feed/internal/usecase/fetch"
)

// RunResult summarizes one collection cycle.
type RunResult struct {
	Success       bool   `json:"success"`
	ItemsIngested int    `json:"itemsIngested"`
	DurationMs    int64  `json:"durationMs"`
	Error         string `json:"error,omitempty"`
}

// Collector fans out to every source and merges the results.
type Collector interface {
	CollectAll(ctx context.Context, sources []entity.SourceConfig) []fetch.RawRecord
}

// Classifier assigns a category to each record.
type Classifier interface {
	ClassifyBatch(inputs []classify.Input) []classify.Result
}

// Service wires the collection pipeline together.
type Service struct {
	collector  Collector
	classifier Classifier
	store      repository.ItemRepository
	sources    []entity.SourceConfig
	logger     *slog.Logger
}

// NewService creates an ingestion service over the given sources.
func NewService(
	collector Collector,
	classifier Classifier,
	store repository.ItemRepository,
	sources []entity.SourceConfig,
	logger *slog.Logger,
) *Service {
	if logger == nil {
		logger = slog.Default()
	}
	return &Service{
		collector:  collector,
		classifier: classifier,
		store:      store,
		sources:    sources,
		logger:     logger,
	}
}

// Sources returns the configured source list.
func (s *Service) Sources() []entity.SourceConfig {
	return s.sources
}

// Run executes one cycle: collect, classify, store. An empty collection is a
// successful run with zero items; per-source fetch failures were already
// absorbed by the collector. The returned result is always non-nil.
func (s *Service) Run(ctx context.Context) RunResult {
	runID := uuid.NewString()
	logger := s.logger.With(slog.String("run_id", runID))
	start := time.Now()

	logger.Info("collection run started",
		slog.Int("sources", len(s.sources)))

	records := s.collector.CollectAll(ctx, s.sources)
	if len(records) == 0 {
		duration := time.Since(start)
		metrics.RecordRun("success", duration)
		logger.Info("collection run completed, no records",
			slog.Duration("duration", duration))
		return RunResult{Success: true, DurationMs: duration.Milliseconds()}
	}

	inputs := make([]classify.Input, 0, len(records))
	for _, rec := range records {
		inputs = append(inputs, classify.Input{
			Title:       rec.Title,
			Description: rec.Description,
			Default:     rec.DefaultCategory,
		})
	}
	results := s.classifier.ClassifyBatch(inputs)

	items := make([]entity.Item, 0, len(records))
	for i, rec := range records {
		items = append(items, entity.Item{
			ID:          entity.NewItemID(rec.Link, rec.PublishedAt),
			Title:       rec.Title,
			Description: rec.Description,
			Link:        rec.Link,
			PublishedAt: rec.PublishedAt,
			SourceName:  rec.SourceName,
			Category:    results[i].Category,
			IngestedAt:  time.Now(),
		})
	}

	stored := s.store.SaveAll(items)
	duration := time.Since(start)

	metrics.RecordRun("success", duration)
	metrics.RecordItemsIngested(stored)
	metrics.UpdateStoreItems(s.store.Stats().TotalItems)

	logger.Info("collection run completed",
		slog.Int("collected", len(records)),
		slog.Int("stored", stored),
		slog.Int("duplicates", len(records)-stored),
		slog.Duration("duration", duration))

	return RunResult{
		Success:       true,
		ItemsIngested: stored,
		DurationMs:    duration.Milliseconds(),
	}
}
