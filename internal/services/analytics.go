package services

import (
	"slices"
	"strings"

	"exec-dashboard/internal/models"
)

// Pure reductions over filtered views. Every operation is total: an empty
// view yields zeros or empty slices, and zero denominators resolve to 0
// rather than propagating an arithmetic fault.

func TotalRevenue(view []models.Record) float64 {
	var sum float64
	for _, rec := range view {
		sum += rec.Sales
	}
	return sum
}

func TotalProfit(view []models.Record) float64 {
	var sum float64
	for _, rec := range view {
		sum += rec.Profit
	}
	return sum
}

// MarginPercent is profit over revenue as a percentage, 0 when the view has
// no revenue. Profit may be negative, so the result may be too.
func MarginPercent(view []models.Record) float64 {
	revenue := TotalRevenue(view)
	if revenue == 0 {
		return 0
	}
	return TotalProfit(view) / revenue * 100
}

// RevenueGrowthPercent compares the current view's revenue against the prior
// view's. A prior year with no revenue reads as 0 growth, not infinity.
func RevenueGrowthPercent(current, prior []models.Record) float64 {
	priorRevenue := TotalRevenue(prior)
	if priorRevenue == 0 {
		return 0
	}
	return (TotalRevenue(current) - priorRevenue) / priorRevenue * 100
}

// MonthlyRevenue groups sales by calendar month of the order date,
// chronologically ascending. Months absent from the view are absent from the
// result; nothing is zero-filled. Undated records contribute nothing.
func MonthlyRevenue(view []models.Record) []models.MonthRevenue {
	byMonth := make(map[string]float64)
	for _, rec := range view {
		if !rec.HasDate {
			continue
		}
		byMonth[rec.OrderDate.Format("2006-01")] += rec.Sales
	}

	result := make([]models.MonthRevenue, 0, len(byMonth))
	for month, revenue := range byMonth {
		result = append(result, models.MonthRevenue{Month: month, Revenue: revenue})
	}
	// "YYYY-MM" keys sort chronologically as strings.
	slices.SortFunc(result, func(a, b models.MonthRevenue) int {
		return strings.Compare(a.Month, b.Month)
	})
	return result
}

// ProfitByCategory sums profit per distinct category, sorted by category
// name so payloads are deterministic. The entries sum to TotalProfit.
func ProfitByCategory(view []models.Record) []models.CategoryProfit {
	byCategory := make(map[string]float64)
	for _, rec := range view {
		byCategory[rec.Category] += rec.Profit
	}

	result := make([]models.CategoryProfit, 0, len(byCategory))
	for category, profit := range byCategory {
		result = append(result, models.CategoryProfit{Category: category, Profit: profit})
	}
	slices.SortFunc(result, func(a, b models.CategoryProfit) int {
		return strings.Compare(a.Category, b.Category)
	})
	return result
}

// SalesProfitByRegion sums sales and profit per distinct region, sorted by
// region name. The sales entries sum to TotalRevenue.
func SalesProfitByRegion(view []models.Record) []models.RegionPerformance {
	byRegion := make(map[string]*models.RegionPerformance)
	for _, rec := range view {
		rp := byRegion[rec.Region]
		if rp == nil {
			rp = &models.RegionPerformance{Region: rec.Region}
			byRegion[rec.Region] = rp
		}
		rp.Sales += rec.Sales
		rp.Profit += rec.Profit
	}

	result := make([]models.RegionPerformance, 0, len(byRegion))
	for _, rp := range byRegion {
		result = append(result, *rp)
	}
	slices.SortFunc(result, func(a, b models.RegionPerformance) int {
		return strings.Compare(a.Region, b.Region)
	})
	return result
}

// TopProductsByRevenue ranks distinct products by summed sales, descending,
// truncated to n. The stable sort breaks revenue ties by first-encountered
// product order.
func TopProductsByRevenue(view []models.Record, n int) []models.ProductRevenue {
	if n <= 0 {
		return []models.ProductRevenue{}
	}

	index := make(map[string]int)
	products := make([]models.ProductRevenue, 0)
	for _, rec := range view {
		i, ok := index[rec.ProductName]
		if !ok {
			i = len(products)
			index[rec.ProductName] = i
			products = append(products, models.ProductRevenue{Product: rec.ProductName})
		}
		products[i].Revenue += rec.Sales
	}

	slices.SortStableFunc(products, func(a, b models.ProductRevenue) int {
		switch {
		case a.Revenue > b.Revenue:
			return -1
		case a.Revenue < b.Revenue:
			return 1
		default:
			return 0
		}
	})

	if len(products) > n {
		products = products[:n]
	}
	return products
}
