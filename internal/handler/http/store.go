package http

import (
	"log/slog"
	"net/http"

	"ainews-feed/internal/handler/http/respond"
	"ainews-feed/internal/repository"
)

// StoreStatsHandler serves GET /store/stats with occupancy, per-category and
// per-source counts, and the publication-time bounds of the stored items.
type StoreStatsHandler struct {
	Store  repository.ItemRepository
	Logger *slog.Logger
}

func (h StoreStatsHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	respond.JSON(w, http.StatusOK, h.Store.Stats())
}

// StoreIntegrityHandler serves GET /store/integrity: a full scan of the
// stored items for structural problems. The scan holds a read lock, so this
// endpoint is for operators, not dashboards.
type StoreIntegrityHandler struct {
	Store  repository.ItemRepository
	Logger *slog.Logger
}

func (h StoreIntegrityHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	report := h.Store.CheckIntegrity()
	if !report.IsValid {
		h.Logger.Warn("store integrity check found issues",
			slog.Int("issues", len(report.Issues)))
	}
	respond.JSON(w, http.StatusOK, report)
}
