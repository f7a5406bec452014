package dataset

import (
	"slices"

	"exec-dashboard/internal/models"
)

// Filter returns the records matching the selection: year equality plus
// region and category membership. Empty region/category sets match nothing,
// and values outside the dataset's domain simply never match — an
// out-of-domain selection is an empty view, not an error.
func (ds *Dataset) Filter(sel models.Selection) []models.Record {
	regions := toSet(sel.Regions)
	categories := toSet(sel.Categories)

	view := make([]models.Record, 0)
	for _, rec := range ds.Records {
		if !rec.HasDate || rec.Year != sel.Year {
			continue
		}
		if _, ok := regions[rec.Region]; !ok {
			continue
		}
		if _, ok := categories[rec.Category]; !ok {
			continue
		}
		view = append(view, rec)
	}
	return view
}

// PriorYear returns every record from year-1 regardless of region or
// category. Year-over-year growth compares against the whole prior year,
// not the prior year under the current filters.
func (ds *Dataset) PriorYear(year int) []models.Record {
	view := make([]models.Record, 0)
	for _, rec := range ds.Records {
		if rec.HasDate && rec.Year == year-1 {
			view = append(view, rec)
		}
	}
	return view
}

// Domain collects the distinct years, regions and categories observed in the
// dataset, sorted ascending. Undated records contribute no year.
func (ds *Dataset) Domain() models.Domain {
	years := make(map[int]struct{})
	regions := make(map[string]struct{})
	categories := make(map[string]struct{})

	for _, rec := range ds.Records {
		if rec.HasDate {
			years[rec.Year] = struct{}{}
		}
		regions[rec.Region] = struct{}{}
		categories[rec.Category] = struct{}{}
	}

	d := models.Domain{
		Years:      make([]int, 0, len(years)),
		Regions:    make([]string, 0, len(regions)),
		Categories: make([]string, 0, len(categories)),
	}
	for y := range years {
		d.Years = append(d.Years, y)
	}
	for r := range regions {
		d.Regions = append(d.Regions, r)
	}
	for c := range categories {
		d.Categories = append(d.Categories, c)
	}
	slices.Sort(d.Years)
	slices.Sort(d.Regions)
	slices.Sort(d.Categories)
	return d
}

// DefaultSelection is the most recent year with every region and category
// selected, mirroring the initial state of the filter controls.
func DefaultSelection(d models.Domain) models.Selection {
	sel := models.Selection{
		Regions:    slices.Clone(d.Regions),
		Categories: slices.Clone(d.Categories),
	}
	if len(d.Years) > 0 {
		sel.Year = d.Years[len(d.Years)-1]
	}
	return sel
}

func toSet(values []string) map[string]struct{} {
	set := make(map[string]struct{}, len(values))
	for _, v := range values {
		set[v] = struct{}{}
	}
	return set
}
