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

// GetHandler serves GET /items/{id}.
type GetHandler struct {
	Store  repository.ItemRepository
	Logger *slog.Logger
}

func (h GetHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	logger := logging.WithRequestID(r.Context(), h.Logger)

	id, err := pathutil.ExtractID(r.URL.Path, "/items/")
	if err != nil {
		respond.SafeError(w, http.StatusBadRequest, err)
		return
	}

	it, found := h.Store.Get(id)
	if !found {
		logger.Debug("item not found", slog.String("item_id", id))
		respond.SafeError(w, http.StatusNotFound, fmt.Errorf("item not found"))
		return
	}

	respond.JSON(w, http.StatusOK, toDTO(*it))
}
