package item

import (
	"fmt"
	"log/slog"
	"net/http"
	"strconv"
	"time"

	"ainews-feed/internal/domain/entity"
	"ainews-feed/internal/handler/http/respond"
	"ainews-feed/internal/observability/logging"
	"ainews-feed/internal/repository"
)

const (
	defaultLimit = 20
	maxLimit     = 100
)

// ListHandler serves GET /items with optional filters.
//
// Query parameters: category (empty or "*" matches all), source, from/to
// (RFC 3339, inclusive), limit (1-100, default 20) and offset. Results are
// always sorted by publication time, newest first.
type ListHandler struct {
	Store  repository.ItemRepository
	Logger *slog.Logger
}

func (h ListHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	logger := logging.WithRequestID(r.Context(), h.Logger)

	opts, err := parseFilterOptions(r)
	if err != nil {
		logger.Warn("invalid list parameters", slog.Any("error", err))
		respond.SafeError(w, http.StatusBadRequest, err)
		return
	}

	items := h.Store.Query(opts)
	dtos := make([]DTO, 0, len(items))
	for _, it := range items {
		dtos = append(dtos, toDTO(it))
	}

	logger.Debug("item list served",
		slog.String("category", string(opts.Category)),
		slog.String("source", opts.Source),
		slog.Int("count", len(dtos)))

	respond.JSON(w, http.StatusOK, map[string]any{
		"items": dtos,
		"count": len(dtos),
	})
}

// parseFilterOptions builds repository filters from the query string.
func parseFilterOptions(r *http.Request) (repository.FilterOptions, error) {
	q := r.URL.Query()
	opts := repository.FilterOptions{
		Category: entity.Category(q.Get("category")),
		Source:   q.Get("source"),
		Limit:    defaultLimit,
	}

	if c := opts.Category; c != "" && c != "*" && !c.IsValid() {
		return opts, fmt.Errorf("category %q is invalid", c)
	}

	if raw := q.Get("from"); raw != "" {
		t, err := time.Parse(time.RFC3339, raw)
		if err != nil {
			return opts, fmt.Errorf("from is invalid: must be RFC 3339")
		}
		opts.StartDate = &t
	}
	if raw := q.Get("to"); raw != "" {
		t, err := time.Parse(time.RFC3339, raw)
		if err != nil {
			return opts, fmt.Errorf("to is invalid: must be RFC 3339")
		}
		opts.EndDate = &t
	}

	if raw := q.Get("limit"); raw != "" {
		n, err := strconv.Atoi(raw)
		if err != nil || n < 1 || n > maxLimit {
			return opts, fmt.Errorf("limit is invalid: must be between 1 and %d", maxLimit)
		}
		opts.Limit = n
	}
	if raw := q.Get("offset"); raw != "" {
		n, err := strconv.Atoi(raw)
		if err != nil || n < 0 {
			return opts, fmt.Errorf("offset is invalid: must be non-negative")
		}
		opts.Offset = n
	}

	return opts, nil
}
