package item

import (
	"log/slog"
	"net/http"

	"ainews-feed/internal/handler/http/respond"
	"ainews-feed/internal/repository"
)

// CountsHandler serves GET /categories/counts: per-category item counts in
// the canonical category order, zero counts included.
type CountsHandler struct {
	Store  repository.ItemRepository
	Logger *slog.Logger
}

func (h CountsHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	counts := h.Store.CategoryCounts()
	respond.JSON(w, http.StatusOK, map[string]any{
		"categories": counts,
	})
}
