// Package metrics provides centralized Prometheus metrics for the application.
package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Collection run metrics track end-to-end ingestion cycles
var (
	// RunsTotal counts collection runs by outcome
	RunsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "collection_runs_total",
			Help: "Total number of collection runs",
		},
		[]string{"status"}, // status: success, failure, conflict
	)

	// RunDuration measures end-to-end collection run duration in seconds
	RunDuration = promauto.NewHistogram(
		prometheus.HistogramOpts{
			Name:    "collection_run_duration_seconds",
			Help:    "End-to-end collection run duration in seconds",
			Buckets: prometheus.ExponentialBuckets(0.1, 2, 10),
		},
	)

	// ItemsIngestedTotal counts items stored across all runs
	ItemsIngestedTotal = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "items_ingested_total",
			Help: "Total number of items stored by collection runs",
		},
	)
)

// Feed fetch metrics track per-source retrieval
var (
	// FeedFetchesTotal counts fetch attempts per source by result
	FeedFetchesTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "feed_fetches_total",
			Help: "Total number of feed fetches",
		},
		[]string{"source", "status"}, // status: success, failure
	)

	// FeedFetchDuration measures time to fetch and parse one source
	FeedFetchDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "feed_fetch_duration_seconds",
			Help:    "Time taken to fetch and parse a feed source",
			Buckets: prometheus.ExponentialBuckets(0.1, 2, 10),
		},
		[]string{"source"},
	)
)

// Classification metrics track classifier outcomes
var (
	// ItemsClassifiedTotal counts classified items by resulting category
	ItemsClassifiedTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "items_classified_total",
			Help: "Total number of items classified, by resulting category",
		},
		[]string{"category"},
	)

	// ClassifierFallbacksTotal counts classifications that fell back to a default
	ClassifierFallbacksTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "classifier_fallbacks_total",
			Help: "Total number of classifications that fell back to a default category",
		},
		[]string{"reason"}, // reason: below_threshold, internal_error
	)
)

// Store metrics track the in-memory item store
var (
	// StoreItemsTotal tracks the current number of stored items
	StoreItemsTotal = promauto.NewGauge(
		prometheus.GaugeOpts{
			Name: "store_items_total",
			Help: "Current number of items held in the store",
		},
	)

	// ItemsPrunedTotal counts items removed by retention or capacity bounds
	ItemsPrunedTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "store_items_pruned_total",
			Help: "Total number of items removed by retention pruning or capacity eviction",
		},
		[]string{"reason"}, // reason: retention, capacity
	)

	// DuplicatesRejectedTotal counts saves rejected by deduplication
	DuplicatesRejectedTotal = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "store_duplicates_rejected_total",
			Help: "Total number of saves rejected as duplicates",
		},
	)
)
