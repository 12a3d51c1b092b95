// Package entity defines the core domain entities and validation logic for the application.
// It contains the fundamental business objects such as Item and SourceConfig, along with
// their validation rules and domain-specific errors.
package entity

import (
	"crypto/sha1"
	"encoding/hex"
	"time"
)

// Item represents a classified, stored news item in the system.
// It is immutable once stored except for explicit partial-field updates,
// and is destroyed only by capacity eviction or retention pruning.
type Item struct {
	ID          string
	Title       string
	Description string
	Link        string
	PublishedAt time.Time
	SourceName  string
	Category    Category
	Content     string
	IngestedAt  time.Time
}

// NewItemID derives the deterministic item ID from the item's link and
// publication timestamp. Identical fetches of the same article always
// produce the same ID, which is what the store's deduplication relies on.
func NewItemID(link string, publishedAt time.Time) string {
	h := sha1.New()
	h.Write([]byte(link))
	h.Write([]byte("|"))
	h.Write([]byte(publishedAt.UTC().Format(time.RFC3339)))
	return hex.EncodeToString(h.Sum(nil))
}

// Validate checks that the item carries every field required for storage.
// It returns a *ValidationError describing the first missing field.
func (i *Item) Validate() error {
	if i.ID == "" {
		return &ValidationError{Field: "id", Message: "cannot be empty"}
	}
	if i.Title == "" {
		return &ValidationError{Field: "title", Message: "cannot be empty"}
	}
	if i.Link == "" {
		return &ValidationError{Field: "link", Message: "cannot be empty"}
	}
	if i.PublishedAt.IsZero() {
		return &ValidationError{Field: "published_at", Message: "cannot be zero"}
	}
	if i.SourceName == "" {
		return &ValidationError{Field: "source_name", Message: "cannot be empty"}
	}
	if !i.Category.IsValid() {
		return &ValidationError{Field: "category", Message: "unknown category"}
	}
	return nil
}
