// Package repository defines the storage interfaces consumed by the use case
// layer, together with the query and reporting types they exchange.
package repository

import (
	"time"

	"ainews-feed/internal/domain/entity"
)

// FilterOptions contains optional filters for item queries.
// Zero values mean "no filter"; Category supports "*" as an explicit wildcard.
type FilterOptions struct {
	Category  entity.Category
	Source    string
	StartDate *time.Time // inclusive
	EndDate   *time.Time // inclusive
	Limit     int        // 0 means no limit
	Offset    int
}

// ItemPatch carries partial-field updates for a stored item.
// Nil fields are left untouched.
type ItemPatch struct {
	Title       *string
	Description *string
	Content     *string
	Category    *entity.Category
}

// CategoryCount pairs a category with the number of stored items carrying it.
type CategoryCount struct {
	Category entity.Category `json:"category"`
	Count    int             `json:"count"`
}

// StoreStats is a snapshot of the store's contents.
type StoreStats struct {
	TotalItems           int                     `json:"total_items"`
	CategoryCounts       map[entity.Category]int `json:"category_counts"`
	SourceCounts         map[string]int          `json:"source_counts"`
	OldestItem           *time.Time              `json:"oldest_item,omitempty"`
	NewestItem           *time.Time              `json:"newest_item,omitempty"`
	EstimatedMemoryBytes int64                   `json:"estimated_memory_bytes"`
}

// IntegrityIssue lists the problems found on a single stored item.
type IntegrityIssue struct {
	ItemID   string   `json:"item_id"`
	Problems []string `json:"problems"`
}

// IntegrityReport aggregates the result of a full store scan.
type IntegrityReport struct {
	IsValid    bool             `json:"is_valid"`
	Issues     []IntegrityIssue `json:"issues"`
	TotalItems int              `json:"total_items"`
	ValidItems int              `json:"valid_items"`
}

// ItemRepository is the bounded, deduplicating item store.
//
// Expected outcomes (duplicate save, not-found update/delete) are reported
// as boolean returns, never as errors; callers must check them explicitly.
// Implementations must be safe for concurrent use: scheduled runs, manual
// triggers and the query API all share one store.
type ItemRepository interface {
	// Save stores the item. It returns false, without mutating the store,
	// when an item with the same ID already exists or when an existing item
	// shares the same link with a publication time within one hour.
	Save(item entity.Item) bool
	// SaveAll saves each item independently and returns how many were stored.
	SaveAll(items []entity.Item) int
	// Get returns the item with the given ID, or false if absent.
	Get(id string) (*entity.Item, bool)
	// Query returns items matching the filters, sorted by PublishedAt
	// descending, with offset applied before limit.
	Query(opts FilterOptions) []entity.Item
	// Update applies the patch to the stored item. False means not found
	// or an invalid patch; the store is left unchanged.
	Update(id string, patch ItemPatch) bool
	// Delete removes the item. False means it was not present.
	Delete(id string) bool
	// CategoryCounts returns per-category item counts for every known
	// category in canonical order, including zero counts.
	CategoryCounts() []CategoryCount
	// Stats returns a snapshot of store contents.
	Stats() StoreStats
	// CheckIntegrity scans all stored items for structural problems.
	CheckIntegrity() IntegrityReport
}
