// Package item provides the HTTP handlers for stored items: listing with
// filters, single-item access, patching and deletion, plus per-category
// counts.
package item

import (
	"time"

	"ainews-feed/internal/domain/entity"
)

// DTO is the JSON representation of a stored item.
type DTO struct {
	ID          string    `json:"id"`
	Title       string    `json:"title"`
	Description string    `json:"description"`
	Link        string    `json:"link"`
	PublishedAt time.Time `json:"publishedAt"`
	SourceName  string    `json:"sourceName"`
	Category    string    `json:"category"`
	Content     string    `json:"content,omitempty"`
	IngestedAt  time.Time `json:"ingestedAt"`
}

// toDTO maps a domain item to its wire form.
func toDTO(it entity.Item) DTO {
	return DTO{
		ID:          it.ID,
		Title:       it.Title,
		Description: it.Description,
		Link:        it.Link,
		PublishedAt: it.PublishedAt,
		SourceName:  it.SourceName,
		Category:    string(it.Category),
		Content:     it.Content,
		IngestedAt:  it.IngestedAt,
	}
}
