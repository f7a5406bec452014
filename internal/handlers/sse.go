package handlers

import (
	"encoding/json"
	"html/template"
	"log/slog"
	"math"
	"net/http"
	"strings"

	"exec-dashboard/internal/models"
	"exec-dashboard/internal/services"
	"github.com/starfederation/datastar-go/datastar"
)

// growthBannerTemplate renders the year-over-year verdict line under the
// charts; the class switches the success/decline styling.
var growthBannerTemplate = template.Must(template.New("growthBanner").Parse(`
<div id="growth-banner" class="growth-banner {{if .Increased}}growth-up{{else}}growth-down{{end}}">
{{if .Increased}}Revenue increased by {{printf "%.1f" .Percent}}% compared to last year.{{else}}Revenue declined by {{printf "%.1f" .AbsPercent}}% compared to last year.{{end}}
</div>`))

// selectionSignals mirrors the datastar signals the filter controls publish.
type selectionSignals struct {
	Year       int      `json:"year"`
	Regions    []string `json:"regions"`
	Categories []string `json:"categories"`
}

type SSEHandlers struct {
	dashboard *services.Dashboard
	logger    *slog.Logger
}

func NewSSEHandlers(dashboard *services.Dashboard, logger *slog.Logger) *SSEHandlers {
	return &SSEHandlers{
		dashboard: dashboard,
		logger:    logger,
	}
}

// HandleDashboard is the recompute endpoint: the page hits it on every filter
// change, the snapshot is recomputed, and the result is patched back into the
// page's signals for the charts and counters to re-render from.
func (h *SSEHandlers) HandleDashboard(w http.ResponseWriter, r *http.Request) {
	sse := datastar.NewSSE(w, r)

	sel := h.selectionFromSignals(r)
	data := h.dashboard.Snapshot(sel)

	payload, err := json.Marshal(map[string]any{
		"dashboard": data,
	})
	if err != nil {
		h.logger.Error("marshal dashboard signals", "error", err)
		return
	}
	sse.PatchSignals(payload)

	banner, err := h.renderGrowthBanner(data.Growth)
	if err != nil {
		h.logger.Error("render growth banner", "error", err)
		return
	}
	sse.PatchElements(banner)

	if f, ok := w.(http.Flusher); ok {
		f.Flush()
	}
}

// selectionFromSignals reads the filter signals sent by the page. A fresh
// page has no year signal yet; that reads as the default selection.
func (h *SSEHandlers) selectionFromSignals(r *http.Request) models.Selection {
	var sig selectionSignals
	if err := datastar.ReadSignals(r, &sig); err != nil {
		h.logger.Warn("read selection signals", "error", err)
		return h.dashboard.DefaultSelection()
	}

	if sig.Year == 0 {
		return h.dashboard.DefaultSelection()
	}

	sel := models.Selection{
		Year:       sig.Year,
		Regions:    sig.Regions,
		Categories: sig.Categories,
	}
	if sel.Regions == nil {
		sel.Regions = []string{}
	}
	if sel.Categories == nil {
		sel.Categories = []string{}
	}
	return sel
}

func (h *SSEHandlers) renderGrowthBanner(g models.Growth) (string, error) {
	var buf strings.Builder

	err := growthBannerTemplate.Execute(&buf, struct {
		Increased  bool
		Percent    float64
		AbsPercent float64
	}{
		Increased:  g.Increased,
		Percent:    g.Percent,
		AbsPercent: math.Abs(g.Percent),
	})
	return buf.String(), err
}
