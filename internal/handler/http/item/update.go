package item

import (
	"encoding/json"
	"fmt"
	"log/slog"
	"net/http"

	"ainews-feed/internal/domain/entity"
	"ainews-feed/internal/handler/http/pathutil"
	"ainews-feed/internal/handler/http/respond"
	"ainews-feed/internal/observability/logging"
	"ainews-feed/internal/repository"
)

// updateRequest carries the patchable item fields. Absent fields stay
// untouched.
type updateRequest struct {
	Title       *string `json:"title"`
	Description *string `json:"description"`
	Content     *string `json:"content"`
	Category    *string `json:"category"`
}

// UpdateHandler serves PATCH /items/{id}.
type UpdateHandler struct {
	Store  repository.ItemRepository
	Logger *slog.Logger
}

func (h UpdateHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	logger := logging.WithRequestID(r.Context(), h.Logger)

	id, err := pathutil.ExtractID(r.URL.Path, "/items/")
	if err != nil {
		respond.SafeError(w, http.StatusBadRequest, err)
		return
	}

	var req updateRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respond.SafeError(w, http.StatusBadRequest, fmt.Errorf("request body is invalid"))
		return
	}

	patch := repository.ItemPatch{
		Title:       req.Title,
		Description: req.Description,
		Content:     req.Content,
	}
	if req.Category != nil {
		category := entity.Category(*req.Category)
		if !category.IsValid() {
			respond.SafeError(w, http.StatusBadRequest, fmt.Errorf("category %q is invalid", *req.Category))
			return
		}
		patch.Category = &category
	}

	if !h.Store.Update(id, patch) {
		respond.SafeError(w, http.StatusNotFound, fmt.Errorf("item not found"))
		return
	}

	logger.Info("item updated", slog.String("item_id", id))
	updated, _ := h.Store.Get(id)
	respond.JSON(w, http.StatusOK, toDTO(*updated))
}
