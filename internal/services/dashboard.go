package services

import (
	"log/slog"

	"exec-dashboard/internal/dataset"
	"exec-dashboard/internal/models"
)

const DefaultTopProducts = 5

// Dashboard runs the filter -> aggregate pipeline over the immutable dataset
// and assembles the payload the presentation layer renders. The dataset is
// loaded once; every snapshot recomputes from scratch.
type Dashboard struct {
	dataset     *dataset.Dataset
	topProducts int
	logger      *slog.Logger
}

func NewDashboard(ds *dataset.Dataset, topProducts int, logger *slog.Logger) *Dashboard {
	if topProducts <= 0 {
		topProducts = DefaultTopProducts
	}
	if logger == nil {
		logger = slog.Default()
	}
	return &Dashboard{
		dataset:     ds,
		topProducts: topProducts,
		logger:      logger,
	}
}

func (d *Dashboard) Domain() models.Domain {
	return d.dataset.Domain()
}

func (d *Dashboard) DefaultSelection() models.Selection {
	return dataset.DefaultSelection(d.dataset.Domain())
}

// Snapshot computes every KPI and chart series for one selection. Selections
// outside the dataset's domain produce empty views and zero-valued results.
func (d *Dashboard) Snapshot(sel models.Selection) models.DashboardData {
	view := d.dataset.Filter(sel)
	prior := d.dataset.PriorYear(sel.Year)

	growth := RevenueGrowthPercent(view, prior)

	data := models.DashboardData{
		Selection: sel,
		KPIs: models.KPISet{
			Revenue:       TotalRevenue(view),
			Profit:        TotalProfit(view),
			MarginPercent: MarginPercent(view),
		},
		Growth: models.Growth{
			Percent:      growth,
			Increased:    growth > 0,
			PriorRevenue: TotalRevenue(prior),
		},
		Monthly:     MonthlyRevenue(view),
		Categories:  ProfitByCategory(view),
		Regions:     SalesProfitByRegion(view),
		TopProducts: TopProductsByRevenue(view, d.topProducts),
	}

	d.logger.Debug("snapshot computed",
		"year", sel.Year,
		"records", len(view),
		"revenue", data.KPIs.Revenue,
	)

	return data
}

// Stats backs the admin endpoint.
func (d *Dashboard) Stats() map[string]any {
	domain := d.dataset.Domain()
	return map[string]any{
		"source_path":       d.dataset.SourcePath,
		"content_hash":      d.dataset.ContentHash,
		"loaded_at":         d.dataset.LoadedAt,
		"records":           len(d.dataset.Records),
		"total_rows":        d.dataset.TotalRows,
		"duplicate_rows":    d.dataset.DuplicateRows,
		"rows_skipped":      d.dataset.SkippedRows,
		"rows_without_date": d.dataset.RowsWithoutDate,
		"years":             domain.Years,
		"regions":           len(domain.Regions),
		"categories":        len(domain.Categories),
	}
}
