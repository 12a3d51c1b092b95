package item

import (
	"log/slog"
	"net/http"

	"ainews-feed/internal/repository"
)

// Register registers the item-related HTTP handlers with the given mux:
// listing, single-item access, patching, deletion and category counts.
func Register(mux *http.ServeMux, store repository.ItemRepository, logger *slog.Logger) {
	if logger == nil {
		logger = slog.Default()
	}

	mux.Handle("GET    /items", ListHandler{Store: store, Logger: logger})
	mux.Handle("GET    /items/", GetHandler{Store: store, Logger: logger})
	mux.Handle("PATCH  /items/", UpdateHandler{Store: store, Logger: logger})
	mux.Handle("DELETE /items/", DeleteHandler{Store: store, Logger: logger})

	mux.Handle("GET    /categories/counts", CountsHandler{Store: store, Logger: logger})
}
