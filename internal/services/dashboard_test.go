package services

import (
	"testing"
	"time"

	"exec-dashboard/internal/dataset"
	"exec-dashboard/internal/models"
)

func testDashboard() *Dashboard {
	ds := &dataset.Dataset{
		Records: []models.Record{
			rec(2023, time.January, 100, 20, "East", "Technology", "Phone Case"),
			rec(2023, time.March, 200, -50, "West", "Office Supplies", "Stapler"),
			rec(2022, time.June, 400, 40, "South", "Technology", "Laptop Stand"),
		},
		SourcePath:  "test.csv",
		ContentHash: "abc123",
		TotalRows:   3,
	}
	return NewDashboard(ds, 5, nil)
}

func TestDashboard_Snapshot(t *testing.T) {
	d := testDashboard()

	data := d.Snapshot(models.Selection{
		Year:       2023,
		Regions:    []string{"East", "West"},
		Categories: []string{"Technology", "Office Supplies"},
	})

	if data.KPIs.Revenue != 300 {
		t.Errorf("revenue = %v, want 300", data.KPIs.Revenue)
	}
	if data.KPIs.Profit != -30 {
		t.Errorf("profit = %v, want -30", data.KPIs.Profit)
	}
	if !almostEqual(data.KPIs.MarginPercent, -10) {
		t.Errorf("margin = %v, want -10", data.KPIs.MarginPercent)
	}

	// Growth compares against the whole prior year: (300-400)/400.
	if !almostEqual(data.Growth.Percent, -25) {
		t.Errorf("growth = %v, want -25", data.Growth.Percent)
	}
	if data.Growth.Increased {
		t.Error("growth direction should be a decline")
	}
	if data.Growth.PriorRevenue != 400 {
		t.Errorf("prior revenue = %v, want 400", data.Growth.PriorRevenue)
	}

	if len(data.Monthly) != 2 || len(data.Categories) != 2 || len(data.Regions) != 2 || len(data.TopProducts) != 2 {
		t.Errorf("unexpected series sizes: %d/%d/%d/%d",
			len(data.Monthly), len(data.Categories), len(data.Regions), len(data.TopProducts))
	}
}

func TestDashboard_Snapshot_EmptySelection(t *testing.T) {
	d := testDashboard()

	data := d.Snapshot(models.Selection{
		Year:       2023,
		Regions:    []string{},
		Categories: []string{},
	})

	if data.KPIs.Revenue != 0 || data.KPIs.Profit != 0 || data.KPIs.MarginPercent != 0 {
		t.Errorf("empty selection must yield zero KPIs, got %+v", data.KPIs)
	}
	if len(data.Monthly) != 0 || len(data.TopProducts) != 0 {
		t.Error("empty selection must yield empty series")
	}
	// Prior year ignores the filters, so prior revenue is still reported.
	if data.Growth.PriorRevenue != 400 {
		t.Errorf("prior revenue = %v, want 400", data.Growth.PriorRevenue)
	}
	if data.Growth.Percent != -100 {
		t.Errorf("growth = %v, want -100", data.Growth.Percent)
	}
}

func TestDashboard_Snapshot_NoPriorYear(t *testing.T) {
	d := testDashboard()

	data := d.Snapshot(models.Selection{
		Year:       2022,
		Regions:    []string{"South"},
		Categories: []string{"Technology"},
	})

	// 2021 has no data: growth must read 0, not infinity.
	if data.Growth.Percent != 0 {
		t.Errorf("growth with no prior year = %v, want 0", data.Growth.Percent)
	}
	if data.Growth.Increased {
		t.Error("zero growth should not read as an increase")
	}
}

func TestDashboard_DefaultSelection(t *testing.T) {
	d := testDashboard()

	sel := d.DefaultSelection()

	if sel.Year != 2023 {
		t.Errorf("default year = %d, want 2023", sel.Year)
	}
	if len(sel.Regions) != 3 || len(sel.Categories) != 2 {
		t.Errorf("default selection should span the domain, got %v / %v", sel.Regions, sel.Categories)
	}
}

func TestDashboard_Stats(t *testing.T) {
	d := testDashboard()

	stats := d.Stats()

	if stats["records"] != 3 {
		t.Errorf("stats records = %v, want 3", stats["records"])
	}
	if stats["source_path"] != "test.csv" {
		t.Errorf("stats source_path = %v", stats["source_path"])
	}
	for _, key := range []string{"content_hash", "rows_without_date", "years", "regions", "categories"} {
		if _, ok := stats[key]; !ok {
			t.Errorf("stats missing key %q", key)
		}
	}
}
