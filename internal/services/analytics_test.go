package services

import (
	"math"
	"testing"
	"time"

	"exec-dashboard/internal/models"
)

func rec(year int, month time.Month, sales, profit float64, region, category, product string) models.Record {
	return models.Record{
		OrderDate:   time.Date(year, month, 10, 0, 0, 0, 0, time.UTC),
		HasDate:     true,
		Year:        year,
		Sales:       sales,
		Profit:      profit,
		Region:      region,
		Category:    category,
		ProductName: product,
	}
}

func almostEqual(a, b float64) bool {
	return math.Abs(a-b) < 1e-9
}

func TestKPIs_WorkedExample(t *testing.T) {
	// Two 2023 orders: (100, 20, East, Tech) and (200, -50, West, Office).
	view := []models.Record{
		rec(2023, time.January, 100, 20, "East", "Tech", "A"),
		rec(2023, time.February, 200, -50, "West", "Office", "B"),
	}

	if got := TotalRevenue(view); got != 300 {
		t.Errorf("TotalRevenue = %v, want 300", got)
	}
	if got := TotalProfit(view); got != -30 {
		t.Errorf("TotalProfit = %v, want -30", got)
	}
	if got := MarginPercent(view); !almostEqual(got, -10) {
		t.Errorf("MarginPercent = %v, want -10", got)
	}
}

func TestMarginPercent_ZeroRevenue(t *testing.T) {
	if got := MarginPercent(nil); got != 0 {
		t.Errorf("MarginPercent(empty) = %v, want 0", got)
	}

	view := []models.Record{
		rec(2023, time.January, 0, 25, "East", "Tech", "A"),
		rec(2023, time.January, 0, -25, "East", "Tech", "B"),
	}
	if got := MarginPercent(view); got != 0 {
		t.Errorf("MarginPercent with zero revenue = %v, want 0", got)
	}
}

func TestRevenueGrowthPercent(t *testing.T) {
	current := []models.Record{rec(2023, time.January, 500, 50, "East", "Tech", "A")}
	prior := []models.Record{rec(2022, time.January, 400, 40, "East", "Tech", "A")}

	if got := RevenueGrowthPercent(current, prior); !almostEqual(got, 25) {
		t.Errorf("growth = %v, want 25", got)
	}

	// Prior year with no revenue reads as 0 growth, never a fault.
	if got := RevenueGrowthPercent(current, nil); got != 0 {
		t.Errorf("growth with empty prior = %v, want 0", got)
	}

	decline := []models.Record{rec(2023, time.January, 200, 20, "East", "Tech", "A")}
	if got := RevenueGrowthPercent(decline, prior); !almostEqual(got, -50) {
		t.Errorf("growth = %v, want -50", got)
	}
}

func TestMonthlyRevenue_ChronologicalOrder(t *testing.T) {
	view := []models.Record{
		rec(2023, time.December, 50, 5, "East", "Tech", "A"),
		rec(2023, time.January, 100, 10, "East", "Tech", "A"),
		rec(2023, time.January, 25, 2, "West", "Office", "B"),
		rec(2023, time.June, 75, 7, "East", "Tech", "A"),
	}

	monthly := MonthlyRevenue(view)

	want := []models.MonthRevenue{
		{Month: "2023-01", Revenue: 125},
		{Month: "2023-06", Revenue: 75},
		{Month: "2023-12", Revenue: 50},
	}
	if len(monthly) != len(want) {
		t.Fatalf("expected %d months, got %d", len(want), len(monthly))
	}
	for i := range want {
		if monthly[i] != want[i] {
			t.Errorf("monthly[%d] = %+v, want %+v", i, monthly[i], want[i])
		}
	}
}

func TestMonthlyRevenue_NoZeroFill(t *testing.T) {
	view := []models.Record{
		rec(2023, time.January, 100, 10, "East", "Tech", "A"),
		rec(2023, time.November, 50, 5, "East", "Tech", "A"),
	}

	if got := len(MonthlyRevenue(view)); got != 2 {
		t.Errorf("months without data must be absent, got %d entries", got)
	}
}

func TestProfitByCategory_SumsToTotalProfit(t *testing.T) {
	view := []models.Record{
		rec(2023, time.January, 100, 20, "East", "Tech", "A"),
		rec(2023, time.February, 200, -50, "West", "Office", "B"),
		rec(2023, time.March, 300, 30, "East", "Tech", "C"),
	}

	categories := ProfitByCategory(view)

	if len(categories) != 2 {
		t.Fatalf("expected 2 categories, got %d", len(categories))
	}

	var sum float64
	for _, c := range categories {
		sum += c.Profit
	}
	if !almostEqual(sum, TotalProfit(view)) {
		t.Errorf("category profits sum to %v, want %v", sum, TotalProfit(view))
	}
}

func TestSalesProfitByRegion_SumsToTotals(t *testing.T) {
	view := []models.Record{
		rec(2023, time.January, 100, 20, "East", "Tech", "A"),
		rec(2023, time.February, 200, -50, "West", "Office", "B"),
		rec(2023, time.March, 300, 30, "East", "Tech", "C"),
	}

	regions := SalesProfitByRegion(view)

	if len(regions) != 2 {
		t.Fatalf("expected 2 regions, got %d", len(regions))
	}

	var sales, profit float64
	for _, r := range regions {
		sales += r.Sales
		profit += r.Profit
	}
	if !almostEqual(sales, TotalRevenue(view)) {
		t.Errorf("region sales sum to %v, want %v", sales, TotalRevenue(view))
	}
	if !almostEqual(profit, TotalProfit(view)) {
		t.Errorf("region profits sum to %v, want %v", profit, TotalProfit(view))
	}
}

func TestTopProductsByRevenue_OrderAndTruncation(t *testing.T) {
	view := []models.Record{
		rec(2023, time.January, 100, 10, "East", "Tech", "A"),
		rec(2023, time.January, 300, 30, "East", "Tech", "B"),
		rec(2023, time.January, 200, 20, "East", "Tech", "C"),
		rec(2023, time.February, 100, 10, "East", "Tech", "A"),
	}

	top := TopProductsByRevenue(view, 2)

	if len(top) != 2 {
		t.Fatalf("expected 2 products, got %d", len(top))
	}
	if top[0].Product != "B" || top[0].Revenue != 300 {
		t.Errorf("top[0] = %+v, want B/300", top[0])
	}
	if top[1].Product != "A" || top[1].Revenue != 200 {
		t.Errorf("top[1] = %+v, want A/200", top[1])
	}

	// Revenue is non-increasing across the full ranking.
	all := TopProductsByRevenue(view, 10)
	if len(all) != 3 {
		t.Fatalf("expected min(n, distinct) = 3 products, got %d", len(all))
	}
	for i := 1; i < len(all); i++ {
		if all[i].Revenue > all[i-1].Revenue {
			t.Errorf("ranking not non-increasing at %d: %v > %v", i, all[i].Revenue, all[i-1].Revenue)
		}
	}
}

func TestTopProductsByRevenue_StableTies(t *testing.T) {
	view := []models.Record{
		rec(2023, time.January, 100, 10, "East", "Tech", "First"),
		rec(2023, time.January, 100, 10, "East", "Tech", "Second"),
		rec(2023, time.January, 100, 10, "East", "Tech", "Third"),
	}

	top := TopProductsByRevenue(view, 5)

	want := []string{"First", "Second", "Third"}
	for i, name := range want {
		if top[i].Product != name {
			t.Errorf("tie broken out of encounter order: top[%d] = %q, want %q", i, top[i].Product, name)
		}
	}
}

func TestAggregations_EmptyView(t *testing.T) {
	var view []models.Record

	if TotalRevenue(view) != 0 || TotalProfit(view) != 0 || MarginPercent(view) != 0 {
		t.Error("scalar KPIs over an empty view must be 0")
	}
	if len(MonthlyRevenue(view)) != 0 {
		t.Error("MonthlyRevenue over an empty view must be empty")
	}
	if len(ProfitByCategory(view)) != 0 {
		t.Error("ProfitByCategory over an empty view must be empty")
	}
	if len(SalesProfitByRegion(view)) != 0 {
		t.Error("SalesProfitByRegion over an empty view must be empty")
	}
	if len(TopProductsByRevenue(view, 5)) != 0 {
		t.Error("TopProductsByRevenue over an empty view must be empty")
	}
}
