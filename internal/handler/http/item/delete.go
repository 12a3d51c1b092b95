package item

import (
	"fmt"
	"log/slog"
	"net/http"

	"ainews-feed/internal/handler/http/pathutil"
	"ainews-feed/internal/handler/http/respond"
	"ainews-feed/internal/observability/logging"
	"ainews-feed/internal/repository"
)

// DeleteHandler serves DELETE /items/{id}.
type DeleteHandler struct {
	Store  repository.ItemRepository
	Logger *slog.Logger
}

func (h DeleteHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	logger := logging.WithRequestID(r.Context(), h.Logger)

	id, err := pathutil.ExtractID(r.URL.Path, "/items/")
	if err != nil {
		respond.SafeError(w, http.StatusBadRequest, err)
		return
	}

	if !h.Store.Delete(id) {
		respond.SafeError(w, http.StatusNotFound, fmt.Errorf("item not found"))
		return
	}

	logger.Info("item deleted", slog.String("item_id", id))
	w.WriteHeader(http.StatusNoContent)
}
