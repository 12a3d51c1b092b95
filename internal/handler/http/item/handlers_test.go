package item

import (
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"ainews-feed/internal/domain/entity"
	"ainews-feed/internal/infra/adapter/persistence/memory"
)

func seedStore(t *testing.T) (*memory.ItemStore, []entity.Item) {
	t.Helper()
	store := memory.NewItemStore(memory.Config{}, nil)

	now := time.Now().Truncate(time.Second)
	items := []entity.Item{
		newItem("https://example.com/gpt", now, "GPT-5 rumors", "alpha", entity.CategoryModels),
		newItem("https://example.com/cursor", now.Add(-time.Hour), "Cursor update", "alpha", entity.CategoryIDE),
		newItem("https://example.com/funding", now.Add(-2*time.Hour), "Funding round", "beta", entity.CategoryBusiness),
	}
	for _, it := range items {
		require.True(t, store.Save(it))
	}
	return store, items
}

func newItem(link string, publishedAt time.Time, title, source string, category entity.Category) entity.Item {
	return entity.Item{
		ID:          entity.NewItemID(link, publishedAt),
		Title:       title,
		Description: "about " + title,
		Link:        link,
		PublishedAt: publishedAt,
		SourceName:  source,
		Category:    category,
		IngestedAt:  time.Now(),
	}
}

func TestList_ReturnsAllNewestFirst(t *testing.T) {
	store, items := seedStore(t)
	mux := http.NewServeMux()
	Register(mux, store, nil)

	rec := httptest.NewRecorder()
	mux.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/items", nil))

	require.Equal(t, http.StatusOK, rec.Code)
	var body struct {
		Items []DTO `json:"items"`
		Count int   `json:"count"`
	}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	require.Equal(t, 3, body.Count)
	assert.Equal(t, items[0].ID, body.Items[0].ID)
	assert.Equal(t, items[2].ID, body.Items[2].ID)
}

func TestList_CategoryFilter(t *testing.T) {
	store, _ := seedStore(t)
	mux := http.NewServeMux()
	Register(mux, store, nil)

	rec := httptest.NewRecorder()
	mux.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/items?category=AI+IDE", nil))

	require.Equal(t, http.StatusOK, rec.Code)
	var body struct {
		Items []DTO `json:"items"`
	}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	require.Len(t, body.Items, 1)
	assert.Equal(t, "Cursor update", body.Items[0].Title)
}

func TestList_InvalidCategoryRejected(t *testing.T) {
	store, _ := seedStore(t)
	mux := http.NewServeMux()
	Register(mux, store, nil)

	rec := httptest.NewRecorder()
	mux.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/items?category=nonsense", nil))

	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestList_LimitAndOffset(t *testing.T) {
	store, items := seedStore(t)
	mux := http.NewServeMux()
	Register(mux, store, nil)

	rec := httptest.NewRecorder()
	mux.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/items?limit=1&offset=1", nil))

	require.Equal(t, http.StatusOK, rec.Code)
	var body struct {
		Items []DTO `json:"items"`
	}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	require.Len(t, body.Items, 1)
	assert.Equal(t, items[1].ID, body.Items[0].ID)
}

func TestList_InvalidLimit(t *testing.T) {
	store, _ := seedStore(t)
	mux := http.NewServeMux()
	Register(mux, store, nil)

	for _, limit := range []string{"0", "-5", "101", "abc"} {
		rec := httptest.NewRecorder()
		mux.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/items?limit="+limit, nil))
		assert.Equal(t, http.StatusBadRequest, rec.Code, "limit=%s", limit)
	}
}

func TestGet_FoundAndNotFound(t *testing.T) {
	store, items := seedStore(t)
	mux := http.NewServeMux()
	Register(mux, store, nil)

	rec := httptest.NewRecorder()
	mux.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/items/"+items[0].ID, nil))
	require.Equal(t, http.StatusOK, rec.Code)

	var dto DTO
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &dto))
	assert.Equal(t, items[0].Title, dto.Title)

	missing := strings.Repeat("ab", 20)
	rec = httptest.NewRecorder()
	mux.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/items/"+missing, nil))
	assert.Equal(t, http.StatusNotFound, rec.Code)
}

func TestGet_MalformedID(t *testing.T) {
	store, _ := seedStore(t)
	mux := http.NewServeMux()
	Register(mux, store, nil)

	rec := httptest.NewRecorder()
	mux.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/items/not-an-id", nil))
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestUpdate_PatchesFields(t *testing.T) {
	store, items := seedStore(t)
	mux := http.NewServeMux()
	Register(mux, store, nil)

	body := strings.NewReader(`{"title":"edited","category":"AI research"}`)
	req := httptest.NewRequest(http.MethodPatch, "/items/"+items[0].ID, body)
	rec := httptest.NewRecorder()
	mux.ServeHTTP(rec, req)

	require.Equal(t, http.StatusOK, rec.Code)
	var dto DTO
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &dto))
	assert.Equal(t, "edited", dto.Title)
	assert.Equal(t, "AI research", dto.Category)
	assert.Equal(t, items[0].Description, dto.Description, "unpatched fields survive")
}

func TestUpdate_InvalidCategory(t *testing.T) {
	store, items := seedStore(t)
	mux := http.NewServeMux()
	Register(mux, store, nil)

	body := strings.NewReader(`{"category":"tabloid"}`)
	req := httptest.NewRequest(http.MethodPatch, "/items/"+items[0].ID, body)
	rec := httptest.NewRecorder()
	mux.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestDelete_RemovesItem(t *testing.T) {
	store, items := seedStore(t)
	mux := http.NewServeMux()
	Register(mux, store, nil)

	req := httptest.NewRequest(http.MethodDelete, "/items/"+items[0].ID, nil)
	rec := httptest.NewRecorder()
	mux.ServeHTTP(rec, req)
	require.Equal(t, http.StatusNoContent, rec.Code)

	rec = httptest.NewRecorder()
	mux.ServeHTTP(rec, httptest.NewRequest(http.MethodDelete, "/items/"+items[0].ID, nil))
	assert.Equal(t, http.StatusNotFound, rec.Code, "second delete of the same item")
}

func TestCounts_IncludesZeroCategories(t *testing.T) {
	store, _ := seedStore(t)
	mux := http.NewServeMux()
	Register(mux, store, nil)

	rec := httptest.NewRecorder()
	mux.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/categories/counts", nil))

	require.Equal(t, http.StatusOK, rec.Code)
	var body struct {
		Categories []struct {
			Category string `json:"category"`
			Count    int    `json:"count"`
		} `json:"categories"`
	}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	require.Len(t, body.Categories, len(entity.Categories()))

	counts := make(map[string]int, len(body.Categories))
	for _, c := range body.Categories {
		counts[c.Category] = c.Count
	}
	assert.Equal(t, 1, counts["AI models"])
	assert.Equal(t, 1, counts["AI IDE"])
	assert.Equal(t, 0, counts["others"])
}

func ExampleRegister() {
	store := memory.NewItemStore(memory.Config{}, nil)
	mux := http.NewServeMux()
	Register(mux, store, nil)

	rec := httptest.NewRecorder()
	mux.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/items", nil))
	fmt.Println(rec.Code)
	// Output: 200
}
