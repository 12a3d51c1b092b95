package ingest_test

import (
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"ainews-feed/internal/domain/entity"
	"ainews-feed/internal/infra/adapter/persistence/memory"
	"ainews-feed/internal/infra/scheduler"
	"ainews-feed/internal/infra/scraper"
	"ainews-feed/internal/repository"
	"ainews-feed/internal/usecase/classify"
	"ainews-feed/internal/usecase/fetch"
	"ainews-feed/internal/usecase/ingest"
)

func rssDocument(title, description, link string, publishedAt time.Time) string {
	return fmt.Sprintf(`<?xml version="1.0" encoding="UTF-8"?>
<rss version="2.0">
  <channel>
    <title>test feed</title>
    <item>
      <title>%s</title>
      <description>%s</description>
      <link>%s</link>
      <pubDate>%s</pubDate>
    </item>
  </channel>
</rss>`, title, description, link, publishedAt.Format(time.RFC1123Z))
}

// Drives the whole pipeline over real HTTP: scheduler trigger, concurrent
// fetch of two feeds, keyword classification and deduplicated storage.
func TestPipeline_EndToEnd(t *testing.T) {
	now := time.Now().Add(-time.Hour)
	mux := http.NewServeMux()
	mux.HandleFunc("/models.xml", func(w http.ResponseWriter, r *http.Request) {
		fmt.Fprint(w, rssDocument(
			"New GPT model released",
			"A frontier lab shipped a new flagship model.",
			"https://news.example.com/gpt-release", now))
	})
	mux.HandleFunc("/ide.xml", func(w http.ResponseWriter, r *http.Request) {
		fmt.Fprint(w, rssDocument(
			"GitHub Copilot code completion gets faster",
			"Editor integration now streams suggestions.",
			"https://news.example.com/copilot-speedup", now))
	})
	server := httptest.NewServer(mux)
	defer server.Close()

	sources := []entity.SourceConfig{
		{Name: "models-wire", Endpoint: server.URL + "/models.xml", DefaultCategory: entity.CategoryOthers},
		{Name: "ide-wire", Endpoint: server.URL + "/ide.xml", DefaultCategory: entity.CategoryOthers},
	}

	store := memory.NewItemStore(memory.Config{}, nil)
	classifier := classify.NewService(classify.Config{}, nil)
	collector := fetch.NewService(scraper.NewRSSFetcher(server.Client(), nil), nil)
	service := ingest.NewService(collector, classifier, store, sources, nil)

	sched, err := scheduler.New(service, scheduler.Config{
		Schedule:   "*/30 * * * *",
		Timezone:   "UTC",
		RunTimeout: time.Minute,
	}, nil)
	require.NoError(t, err)

	result := sched.TriggerManually()
	require.True(t, result.Success)
	assert.Equal(t, 2, result.ItemsIngested)

	items := store.Query(repository.FilterOptions{})
	require.Len(t, items, 2)

	byTitle := make(map[string]entity.Item, len(items))
	for _, it := range items {
		byTitle[it.Title] = it
	}
	assert.Equal(t, entity.CategoryModels, byTitle["New GPT model released"].Category)
	assert.Equal(t, entity.CategoryIDE, byTitle["GitHub Copilot code completion gets faster"].Category)

	counts := make(map[entity.Category]int)
	for _, c := range store.CategoryCounts() {
		counts[c.Category] = c.Count
	}
	assert.Equal(t, 1, counts[entity.CategoryModels])
	assert.Equal(t, 1, counts[entity.CategoryIDE])
	assert.Equal(t, 0, counts[entity.CategoryOthers])

	// A second run fetches the same documents; deduplication keeps the
	// store unchanged.
	result = sched.TriggerManually()
	require.True(t, result.Success)
	assert.Equal(t, 0, result.ItemsIngested)
	assert.Len(t, store.Query(repository.FilterOptions{}), 2)

	stats := sched.Stats()
	assert.Equal(t, 2, stats.TotalRuns)
	assert.Equal(t, 2, stats.SuccessfulRuns)
	assert.Equal(t, 2, stats.TotalItemsIngested)
}
