package metrics

import "time"

// RecordRun records the outcome and duration of one collection run.
// Status should be "success", "failure" or "conflict".
func RecordRun(status string, duration time.Duration) {
	RunsTotal.WithLabelValues(status).Inc()
	RunDuration.Observe(duration.Seconds())
}

// RecordItemsIngested records the number of items stored by a run.
func RecordItemsIngested(count int) {
	if count > 0 {
		ItemsIngestedTotal.Add(float64(count))
	}
}

// RecordFeedFetch records one per-source fetch attempt with its outcome.
func RecordFeedFetch(source string, success bool, duration time.Duration) {
	status := "success"
	if !success {
		status = "failure"
	}
	FeedFetchesTotal.WithLabelValues(source, status).Inc()
	FeedFetchDuration.WithLabelValues(source).Observe(duration.Seconds())
}

// RecordItemClassified records the category a classification resolved to.
func RecordItemClassified(category string) {
	ItemsClassifiedTotal.WithLabelValues(category).Inc()
}

// RecordClassifierFallback records a classification that fell back to a
// default category. Reason should be "below_threshold" or "internal_error".
func RecordClassifierFallback(reason string) {
	ClassifierFallbacksTotal.WithLabelValues(reason).Inc()
}

// RecordItemsPruned records items removed by the store's bounds.
// Reason should be "retention" or "capacity".
func RecordItemsPruned(reason string, count int) {
	if count > 0 {
		ItemsPrunedTotal.WithLabelValues(reason).Add(float64(count))
	}
}

// RecordDuplicateRejected records a save rejected by deduplication.
func RecordDuplicateRejected() {
	DuplicatesRejectedTotal.Inc()
}

// UpdateStoreItems updates the gauge of currently stored items.
// This should be refreshed after every run.
func UpdateStoreItems(count int) {
	StoreItemsTotal.Set(float64(count))
}
