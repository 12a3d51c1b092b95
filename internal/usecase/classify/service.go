// Package classify provides the keyword-scoring classifier that assigns each
// fetched item one of the fixed topical categories.
//
// Classification is fail-open: scoring failures never propagate to callers,
// they resolve to a configured default category instead. The only errors this
// package returns are validation errors on configuration writes.
package classify

import (
	"log/slog"
	"math"
	"strings"
	"sync"

	"ainews-feed/internal/domain/entity"
	"ainews-feed/internal/observability/metrics"
)

// Result is the outcome of a single classification call. It is ephemeral:
// produced per call, never persisted.
type Result struct {
	Category        entity.Category
	Confidence      float64
	MatchedKeywords []string
}

// Input is one classification request. Default is the source-provided
// fallback category used when the scored confidence is below threshold.
type Input struct {
	Title       string
	Description string
	Default     entity.Category
}

// Config holds the classifier's mutable configuration.
type Config struct {
	// DefaultCategory is the global fallback used when scoring fails
	// internally, or when an input carries no usable source default.
	DefaultCategory entity.Category

	// ConfidenceThreshold is the minimum confidence required to trust the
	// scored category over the source default. Must be in [0, 1].
	ConfidenceThreshold float64
}

// DefaultConfig returns the production classifier configuration.
func DefaultConfig() Config {
	return Config{
		DefaultCategory:     entity.CategoryOthers,
		ConfidenceThreshold: 0.1,
	}
}

// Service scores item text against per-category keyword sets.
// It is safe for concurrent use.
type Service struct {
	mu     sync.RWMutex
	cfg    Config
	stats  map[entity.Category]int
	logger *slog.Logger
}

// NewService creates a classifier with the given configuration.
// Zero config fields fall back to the defaults.
func NewService(cfg Config, logger *slog.Logger) *Service {
	def := DefaultConfig()
	if cfg.DefaultCategory == "" {
		cfg.DefaultCategory = def.DefaultCategory
	}
	if cfg.ConfidenceThreshold == 0 {
		cfg.ConfidenceThreshold = def.ConfidenceThreshold
	}
	if logger == nil {
		logger = slog.Default()
	}
	return &Service{
		cfg:    cfg,
		stats:  make(map[entity.Category]int),
		logger: logger,
	}
}

// Classify scores the concatenated title and description against every
// category's keyword set and returns the best-scoring category, unless its
// length-normalized confidence falls below the threshold, in which case the
// source default wins. Scoring failures are recovered and resolve to the
// global default category.
func (s *Service) Classify(title, description string, sourceDefault entity.Category) (result Result) {
	s.mu.RLock()
	cfg := s.cfg
	s.mu.RUnlock()

	fallback := sourceDefault
	if !fallback.IsValid() {
		fallback = cfg.DefaultCategory
	}

	defer func() {
		if r := recover(); r != nil {
			s.logger.Error("classification panicked, using default category",
				slog.String("title", title),
				slog.Any("panic", r))
			metrics.RecordClassifierFallback("internal_error")
			result = Result{Category: cfg.DefaultCategory}
			s.record(result.Category)
		}
	}()

	text := strings.ToLower(strings.TrimSpace(title + " " + description))
	best, bestScore, matched := scoreText(text)

	confidence := 0.0
	if bestScore > 0 {
		norm := math.Max(float64(len(text))/100.0, 1.0)
		confidence = math.Min(bestScore/norm, 1.0)
	}

	category := best
	if confidence < cfg.ConfidenceThreshold {
		category = fallback
		metrics.RecordClassifierFallback("below_threshold")
	}

	result = Result{
		Category:        category,
		Confidence:      confidence,
		MatchedKeywords: matched,
	}
	s.record(category)
	return result
}

// ClassifyBatch classifies each input independently. Order and count of the
// results match the inputs.
func (s *Service) ClassifyBatch(inputs []Input) []Result {
	results := make([]Result, 0, len(inputs))
	for _, in := range inputs {
		results = append(results, s.Classify(in.Title, in.Description, in.Default))
	}
	return results
}

// scoreText sums keyword occurrence counts weighted by keyword length for
// every category and returns the best category, its score, and the keywords
// of that category that actually matched. Categories are visited in
// canonical order, so ties resolve deterministically to the earlier one.
func scoreText(text string) (entity.Category, float64, []string) {
	var (
		best      entity.Category
		bestScore float64
		matched   []string
	)

	for _, category := range entity.Categories() {
		keywords := categoryKeywords[category]
		if len(keywords) == 0 {
			continue
		}

		score := 0.0
		var hits []string
		for _, kw := range keywords {
			occurrences := strings.Count(text, kw)
			if occurrences == 0 {
				continue
			}
			score += float64(occurrences) * keywordWeight(kw)
			hits = append(hits, kw)
		}
		if score > bestScore {
			best = category
			bestScore = score
			matched = hits
		}
	}
	return best, bestScore, matched
}

// Stats returns a copy of the per-category classification counters.
func (s *Service) Stats() map[entity.Category]int {
	s.mu.RLock()
	defer s.mu.RUnlock()

	out := make(map[entity.Category]int, len(s.stats))
	for category, count := range s.stats {
		out[category] = count
	}
	return out
}

// ResetStats zeroes the per-category classification counters.
func (s *Service) ResetStats() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.stats = make(map[entity.Category]int)
}

// Config returns a snapshot of the current configuration.
func (s *Service) Config() Config {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.cfg
}

// SetDefaultCategory changes the global fallback category.
// The category must belong to the known set.
func (s *Service) SetDefaultCategory(category entity.Category) error {
	if !category.IsValid() {
		return &entity.ValidationError{Field: "default_category", Message: "unknown category"}
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	s.cfg.DefaultCategory = category
	return nil
}

// SetConfidenceThreshold changes the confidence threshold.
// The value must be within [0, 1].
func (s *Service) SetConfidenceThreshold(threshold float64) error {
	if threshold < 0 || threshold > 1 {
		return &entity.ValidationError{Field: "confidence_threshold", Message: "must be between 0 and 1"}
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	s.cfg.ConfidenceThreshold = threshold
	return nil
}

// record bumps the per-category counter and the classification metric.
func (s *Service) record(category entity.Category) {
	s.mu.Lock()
	s.stats[category]++
	s.mu.Unlock()
	metrics.RecordItemClassified(string(category))
}
