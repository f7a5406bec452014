package models

import "time"

// Record is one sales transaction from the source table. Year and Margin are
// derived at load time; Year is only meaningful when HasDate is true.
type Record struct {
	OrderDate   time.Time
	HasDate     bool
	Year        int
	Sales       float64
	Profit      float64
	Margin      float64
	Region      string
	Category    string
	ProductName string
}

// Selection is the user-chosen filter tuple. An empty Regions or Categories
// slice matches nothing; a nil slice is still an explicit empty set, so
// callers that mean "everything" must pass the full domain.
type Selection struct {
	Year       int      `json:"year"`
	Regions    []string `json:"regions"`
	Categories []string `json:"categories"`
}

// Domain holds the distinct values observed in a dataset, sorted ascending.
// It drives the filter controls and the default selection.
type Domain struct {
	Years      []int    `json:"years"`
	Regions    []string `json:"regions"`
	Categories []string `json:"categories"`
}

type KPISet struct {
	Revenue       float64 `json:"revenue"`
	Profit        float64 `json:"profit"`
	MarginPercent float64 `json:"margin_percent"`
}

// Growth compares selected-year revenue against the full prior year.
// Increased lets the presentation layer pick styling without re-deriving
// the sign.
type Growth struct {
	Percent      float64 `json:"percent"`
	Increased    bool    `json:"increased"`
	PriorRevenue float64 `json:"prior_revenue"`
}

type MonthRevenue struct {
	Month   string  `json:"month"`
	Revenue float64 `json:"revenue"`
}

type CategoryProfit struct {
	Category string  `json:"category"`
	Profit   float64 `json:"profit"`
}

type RegionPerformance struct {
	Region string  `json:"region"`
	Sales  float64 `json:"sales"`
	Profit float64 `json:"profit"`
}

type ProductRevenue struct {
	Product string  `json:"product"`
	Revenue float64 `json:"revenue"`
}

// DashboardData is the complete payload handed to the presentation layer for
// one selection: scalar KPIs, the year-over-year growth pair, and the four
// chart series.
type DashboardData struct {
	Selection   Selection           `json:"selection"`
	KPIs        KPISet              `json:"kpis"`
	Growth      Growth              `json:"growth"`
	Monthly     []MonthRevenue      `json:"monthly_revenue"`
	Categories  []CategoryProfit    `json:"category_profit"`
	Regions     []RegionPerformance `json:"region_performance"`
	TopProducts []ProductRevenue    `json:"top_products"`
}
