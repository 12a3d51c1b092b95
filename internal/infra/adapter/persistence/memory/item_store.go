// Package memory provides the in-memory implementation of the item store.
//
// The store is volatile by design: it is rebuilt from the source feeds on
// cold start. It is bounded two ways, by item age (retention) and by item
// count (capacity eviction), and it deduplicates on both item ID and
// republished links.
package memory

import (
	"log/slog"
	"sort"
	"sync"
	"time"

	"ainews-feed/internal/domain/entity"
	"ainews-feed/internal/observability/metrics"
	"ainews-feed/internal/repository"
)

// Config holds the retention and capacity bounds for the store.
type Config struct {
	// MaxItems is the capacity bound. When exceeded after retention pruning,
	// the oldest items by publication time are evicted one at a time.
	// Default: 1000
	MaxItems int

	// MaxAge is the retention bound. Items whose publication time is older
	// than MaxAge are purged after every successful save.
	// Default: 7 days
	MaxAge time.Duration

	// DedupWindow is the link-level deduplication window. A new item whose
	// link matches a stored item and whose publication time falls within
	// this window of the stored one is rejected as a republication.
	// Default: 1 hour
	DedupWindow time.Duration
}

// DefaultConfig returns the store bounds used in production.
func DefaultConfig() Config {
	return Config{
		MaxItems:    1000,
		MaxAge:      7 * 24 * time.Hour,
		DedupWindow: time.Hour,
	}
}

// ItemStore is a thread-safe, bounded, deduplicating in-memory item store.
//
// Writes (save, update, delete, evict) are serialized behind an exclusive
// lock; reads share a read lock. Expected outcomes such as duplicate saves
// and not-found updates are reported as boolean returns, never as errors.
type ItemStore struct {
	mu     sync.RWMutex
	items  map[string]entity.Item
	byLink map[string][]string // link -> IDs of stored items sharing it
	cfg    Config
	logger *slog.Logger
}

var _ repository.ItemRepository = (*ItemStore)(nil)

// NewItemStore creates an empty store with the given bounds.
// Zero config fields fall back to the defaults.
func NewItemStore(cfg Config, logger *slog.Logger) *ItemStore {
	def := DefaultConfig()
	if cfg.MaxItems <= 0 {
		cfg.MaxItems = def.MaxItems
	}
	if cfg.MaxAge <= 0 {
		cfg.MaxAge = def.MaxAge
	}
	if cfg.DedupWindow <= 0 {
		cfg.DedupWindow = def.DedupWindow
	}
	if logger == nil {
		logger = slog.Default()
	}
	return &ItemStore{
		items:  make(map[string]entity.Item),
		byLink: make(map[string][]string),
		cfg:    cfg,
		logger: logger,
	}
}

// Save stores the item unless it is a duplicate. A duplicate is either an
// item with the same ID, or an item sharing a link with a stored item whose
// publication times are within the dedup window of each other (feeds
// republishing the same article under a fresh GUID).
//
// After a successful save the retention and capacity bounds are enforced.
// Unexpected internal failures are recovered and reported as false.
func (s *ItemStore) Save(item entity.Item) (saved bool) {
	defer func() {
		if r := recover(); r != nil {
			s.logger.Error("item store save panicked",
				slog.String("item_id", item.ID),
				slog.Any("panic", r))
			saved = false
		}
	}()

	s.mu.Lock()
	defer s.mu.Unlock()

	if _, exists := s.items[item.ID]; exists {
		metrics.RecordDuplicateRejected()
		return false
	}
	for _, id := range s.byLink[item.Link] {
		existing, ok := s.items[id]
		if !ok {
			continue
		}
		delta := item.PublishedAt.Sub(existing.PublishedAt)
		if delta < 0 {
			delta = -delta
		}
		if delta <= s.cfg.DedupWindow {
			metrics.RecordDuplicateRejected()
			return false
		}
	}

	if item.IngestedAt.IsZero() {
		item.IngestedAt = time.Now()
	}
	s.items[item.ID] = item
	s.byLink[item.Link] = append(s.byLink[item.Link], item.ID)

	s.pruneLocked()
	return true
}

// SaveAll saves each item independently and returns how many were stored.
func (s *ItemStore) SaveAll(items []entity.Item) int {
	stored := 0
	for _, item := range items {
		if s.Save(item) {
			stored++
		}
	}
	return stored
}

// Get returns a copy of the item with the given ID.
func (s *ItemStore) Get(id string) (*entity.Item, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	item, ok := s.items[id]
	if !ok {
		return nil, false
	}
	return &item, true
}

// Query returns items matching the filters, sorted by PublishedAt descending,
// with offset applied before limit.
func (s *ItemStore) Query(opts repository.FilterOptions) []entity.Item {
	s.mu.RLock()
	matched := make([]entity.Item, 0, len(s.items))
	for _, item := range s.items {
		if !matches(item, opts) {
			continue
		}
		matched = append(matched, item)
	}
	s.mu.RUnlock()

	sort.Slice(matched, func(i, j int) bool {
		return matched[i].PublishedAt.After(matched[j].PublishedAt)
	})

	if opts.Offset > 0 {
		if opts.Offset >= len(matched) {
			return []entity.Item{}
		}
		matched = matched[opts.Offset:]
	}
	if opts.Limit > 0 && opts.Limit < len(matched) {
		matched = matched[:opts.Limit]
	}
	return matched
}

// matches reports whether the item passes every filter in opts.
func matches(item entity.Item, opts repository.FilterOptions) bool {
	if opts.Category != "" && opts.Category != "*" && item.Category != opts.Category {
		return false
	}
	if opts.Source != "" && item.SourceName != opts.Source {
		return false
	}
	if opts.StartDate != nil && item.PublishedAt.Before(*opts.StartDate) {
		return false
	}
	if opts.EndDate != nil && item.PublishedAt.After(*opts.EndDate) {
		return false
	}
	return true
}

// Update applies the patch to the stored item. It returns false when the
// item is absent or the patch carries an unknown category.
func (s *ItemStore) Update(id string, patch repository.ItemPatch) (updated bool) {
	defer func() {
		if r := recover(); r != nil {
			s.logger.Error("item store update panicked",
				slog.String("item_id", id),
				slog.Any("panic", r))
			updated = false
		}
	}()

	if patch.Category != nil && !patch.Category.IsValid() {
		return false
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	item, ok := s.items[id]
	if !ok {
		return false
	}
	if patch.Title != nil {
		item.Title = *patch.Title
	}
	if patch.Description != nil {
		item.Description = *patch.Description
	}
	if patch.Content != nil {
		item.Content = *patch.Content
	}
	if patch.Category != nil {
		item.Category = *patch.Category
	}
	s.items[id] = item
	return true
}

// Delete removes the item. It returns false when the item is absent.
func (s *ItemStore) Delete(id string) bool {
	s.mu.Lock()
	defer s.mu.Unlock()

	item, ok := s.items[id]
	if !ok {
		return false
	}
	s.removeLocked(item)
	return true
}

// CategoryCounts returns per-category counts in canonical category order,
// including categories with zero items.
func (s *ItemStore) CategoryCounts() []repository.CategoryCount {
	s.mu.RLock()
	byCategory := make(map[entity.Category]int, len(s.items))
	for _, item := range s.items {
		byCategory[item.Category]++
	}
	s.mu.RUnlock()

	counts := make([]repository.CategoryCount, 0, len(entity.Categories()))
	for _, c := range entity.Categories() {
		counts = append(counts, repository.CategoryCount{Category: c, Count: byCategory[c]})
	}
	return counts
}

// Stats returns a snapshot of the store's contents.
func (s *ItemStore) Stats() repository.StoreStats {
	s.mu.RLock()
	defer s.mu.RUnlock()

	stats := repository.StoreStats{
		TotalItems:     len(s.items),
		CategoryCounts: make(map[entity.Category]int),
		SourceCounts:   make(map[string]int),
	}
	for _, item := range s.items {
		stats.CategoryCounts[item.Category]++
		stats.SourceCounts[item.SourceName]++
		stats.EstimatedMemoryBytes += estimateItemBytes(item)

		published := item.PublishedAt
		if stats.OldestItem == nil || published.Before(*stats.OldestItem) {
			t := published
			stats.OldestItem = &t
		}
		if stats.NewestItem == nil || published.After(*stats.NewestItem) {
			t := published
			stats.NewestItem = &t
		}
	}
	return stats
}

// itemFixedOverhead approximates the per-item cost of struct fields,
// map buckets and the link index, beyond the string payloads.
const itemFixedOverhead = 160

func estimateItemBytes(item entity.Item) int64 {
	return int64(len(item.ID) + len(item.Title) + len(item.Description) +
		len(item.Link) + len(item.SourceName) + len(item.Category) +
		len(item.Content) + itemFixedOverhead)
}

// pruneLocked enforces the retention and capacity bounds.
// The caller must hold the write lock.
func (s *ItemStore) pruneLocked() {
	cutoff := time.Now().Add(-s.cfg.MaxAge)
	expired := 0
	for _, item := range s.items {
		if item.PublishedAt.Before(cutoff) {
			s.removeLocked(item)
			expired++
		}
	}
	if expired > 0 {
		metrics.RecordItemsPruned("retention", expired)
		s.logger.Debug("retention pruning removed items",
			slog.Int("removed", expired),
			slog.Time("cutoff", cutoff))
	}

	evicted := 0
	for len(s.items) > s.cfg.MaxItems {
		oldest, ok := s.oldestLocked()
		if !ok {
			break
		}
		s.removeLocked(oldest)
		evicted++
	}
	if evicted > 0 {
		metrics.RecordItemsPruned("capacity", evicted)
		s.logger.Debug("capacity eviction removed items",
			slog.Int("removed", evicted),
			slog.Int("max_items", s.cfg.MaxItems))
	}
}

// oldestLocked returns the stored item with the earliest publication time.
func (s *ItemStore) oldestLocked() (entity.Item, bool) {
	var oldest entity.Item
	found := false
	for _, item := range s.items {
		if !found || item.PublishedAt.Before(oldest.PublishedAt) {
			oldest = item
			found = true
		}
	}
	return oldest, found
}

// removeLocked deletes the item from the primary map and the link index.
func (s *ItemStore) removeLocked(item entity.Item) {
	delete(s.items, item.ID)

	ids := s.byLink[item.Link]
	for i, id := range ids {
		if id == item.ID {
			s.byLink[item.Link] = append(ids[:i], ids[i+1:]...)
			break
		}
	}
	if len(s.byLink[item.Link]) == 0 {
		delete(s.byLink, item.Link)
	}
}
