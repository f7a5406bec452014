package handlers

import (
	"fmt"
	"log/slog"
	"net/http"
	"strconv"
	"strings"
	"time"

	"exec-dashboard/internal/errors"
	"exec-dashboard/internal/models"
	"exec-dashboard/internal/observability"
	"exec-dashboard/internal/services"
)

const cacheControl = "public, max-age=300"

type APIHandlers struct {
	dashboard *services.Dashboard
	logger    *slog.Logger
}

func NewAPIHandlers(dashboard *services.Dashboard, logger *slog.Logger) *APIHandlers {
	return &APIHandlers{
		dashboard: dashboard,
		logger:    logger,
	}
}

// HandleFilters serves the control surface: the dataset's observed domain
// plus the default selection (latest year, everything on).
func (h *APIHandlers) HandleFilters(w http.ResponseWriter, r *http.Request) {
	payload := struct {
		Domain  models.Domain    `json:"domain"`
		Default models.Selection `json:"default"`
	}{
		Domain:  h.dashboard.Domain(),
		Default: h.dashboard.DefaultSelection(),
	}

	errors.WriteSuccessWithHeaders(w, payload, map[string]string{
		"Cache-Control": cacheControl,
	})
}

// HandleDashboard computes the full payload for the selection in the query
// string. Omitted parameters fall back to the default selection; an
// explicitly empty regions/categories parameter is an empty set and yields
// an empty view.
func (h *APIHandlers) HandleDashboard(w http.ResponseWriter, r *http.Request) {
	sel, err := h.selectionFromQuery(r)
	if err != nil {
		errors.WriteError(w, h.logger, err, observability.GetRequestID(r.Context()))
		return
	}

	errors.WriteSuccess(w, h.dashboard.Snapshot(sel))
}

func (h *APIHandlers) selectionFromQuery(r *http.Request) (models.Selection, error) {
	q := r.URL.Query()
	sel := h.dashboard.DefaultSelection()

	if v := q.Get("year"); v != "" {
		year, err := strconv.Atoi(v)
		if err != nil {
			return sel, errors.SelectionWrap(err, fmt.Sprintf("invalid year %q", v))
		}
		sel.Year = year
	}
	if q.Has("regions") {
		sel.Regions = splitParam(q.Get("regions"))
	}
	if q.Has("categories") {
		sel.Categories = splitParam(q.Get("categories"))
	}

	return sel, nil
}

func splitParam(v string) []string {
	if v == "" {
		return []string{}
	}
	parts := strings.Split(v, ",")
	out := make([]string, 0, len(parts))
	for _, p := range parts {
		if p = strings.TrimSpace(p); p != "" {
			out = append(out, p)
		}
	}
	return out
}

func (h *APIHandlers) HandleHealth(w http.ResponseWriter, r *http.Request) {
	healthData := map[string]string{
		"status":    "healthy",
		"timestamp": time.Now().Format(time.RFC3339),
		"version":   "1.0.0",
	}

	errors.WriteSuccess(w, healthData)
}

func (h *APIHandlers) HandleStats(w http.ResponseWriter, r *http.Request) {
	errors.WriteSuccess(w, h.dashboard.Stats())
}
