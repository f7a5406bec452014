package dataset

import (
	"bytes"
	"context"
	"crypto/sha256"
	"encoding/csv"
	"encoding/hex"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"sync"
	"time"

	"github.com/xuri/excelize/v2"
	"golang.org/x/sync/errgroup"
	"golang.org/x/text/encoding/charmap"

	"exec-dashboard/internal/errors"
	"exec-dashboard/internal/models"
)

const (
	parseChunkSize = 2000
	maxWorkers     = 8
)

// Dataset is the deduplicated, derived-column sales table. Immutable after
// load; every filtered view is a fresh slice over the same backing records.
type Dataset struct {
	Records     []models.Record
	SourcePath  string
	ContentHash string
	LoadedAt    time.Time

	// Load accounting. TotalRows counts data rows seen in the source,
	// RowsWithoutDate counts retained records whose order date failed to
	// parse (they never match a year filter).
	TotalRows       int
	DuplicateRows   int
	SkippedRows     int
	RowsWithoutDate int
}

// Loader reads the sales table and memoizes the result keyed on a content
// hash, so repeated loads of an unchanged file skip the parse entirely.
type Loader struct {
	mu     sync.Mutex
	logger *slog.Logger
	hash   string
	memo   *Dataset
}

func NewLoader(logger *slog.Logger) *Loader {
	if logger == nil {
		logger = slog.Default()
	}
	return &Loader{logger: logger}
}

// Load reads path into a Dataset. CSV sources are decoded from Latin-1; an
// .xlsx/.xlsm extension switches to workbook parsing of the first sheet.
func (l *Loader) Load(ctx context.Context, path string) (*Dataset, error) {
	raw, err := os.ReadFile(path)
	if err != nil {
		return nil, errors.DataSourceWrap(err, fmt.Sprintf("read data source %q", path))
	}

	sum := sha256.Sum256(raw)
	hash := hex.EncodeToString(sum[:])

	l.mu.Lock()
	defer l.mu.Unlock()

	if l.memo != nil && l.hash == hash {
		l.logger.Debug("dataset unchanged, reusing parsed records", "path", path, "records", len(l.memo.Records))
		return l.memo, nil
	}

	start := time.Now()

	rows, err := readRows(path, raw)
	if err != nil {
		return nil, err
	}

	ds, err := build(ctx, rows)
	if err != nil {
		return nil, err
	}
	ds.SourcePath = path
	ds.ContentHash = hash
	ds.LoadedAt = time.Now()

	if ds.RowsWithoutDate > 0 {
		l.logger.Warn("rows with unparseable order dates are excluded from year filtering",
			"rows_without_date", ds.RowsWithoutDate,
		)
	}

	l.logger.Info("dataset loaded",
		"path", path,
		"records", len(ds.Records),
		"total_rows", ds.TotalRows,
		"duplicates_removed", ds.DuplicateRows,
		"rows_skipped", ds.SkippedRows,
		"duration", time.Since(start),
	)

	l.hash, l.memo = hash, ds
	return ds, nil
}

func readRows(path string, raw []byte) ([][]string, error) {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".xlsx", ".xlsm":
		return workbookRows(raw)
	default:
		return csvRows(raw)
	}
}

// csvRows parses the Latin-1 CSV export. Product names contain commas, so
// this goes through a real CSV reader rather than splitting lines.
func csvRows(raw []byte) ([][]string, error) {
	decoder := charmap.ISO8859_1.NewDecoder()
	reader := csv.NewReader(decoder.Reader(bytes.NewReader(raw)))
	reader.FieldsPerRecord = -1

	rows, err := reader.ReadAll()
	if err != nil {
		return nil, errors.DataSourceWrap(err, "parse csv source")
	}
	return rows, nil
}

func workbookRows(raw []byte) ([][]string, error) {
	wb, err := excelize.OpenReader(bytes.NewReader(raw))
	if err != nil {
		return nil, errors.DataSourceWrap(err, "open workbook source")
	}
	defer wb.Close()

	sheets := wb.GetSheetList()
	if len(sheets) == 0 {
		return nil, errors.DataSource("workbook has no sheets")
	}

	rows, err := wb.GetRows(sheets[0])
	if err != nil {
		return nil, errors.DataSourceWrap(err, fmt.Sprintf("read sheet %q", sheets[0]))
	}
	return rows, nil
}

type columnIndex struct {
	date, sales, profit, region, category, product int
}

func mapColumns(header []string) (columnIndex, error) {
	byName := make(map[string]int, len(header))
	for i, name := range header {
		name = strings.TrimPrefix(name, "\uFEFF")
		byName[strings.ToLower(strings.TrimSpace(name))] = i
	}

	var ci columnIndex
	for _, col := range []struct {
		name string
		dst  *int
	}{
		{"order date", &ci.date},
		{"sales", &ci.sales},
		{"profit", &ci.profit},
		{"region", &ci.region},
		{"category", &ci.category},
		{"product name", &ci.product},
	} {
		i, ok := byName[col.name]
		if !ok {
			return ci, errors.DataSource(fmt.Sprintf("missing required column %q", col.name))
		}
		*col.dst = i
	}
	return ci, nil
}

type rawRow struct {
	date, sales, profit, region, category, product string
}

func (rr rawRow) key() string {
	return strings.Join([]string{rr.date, rr.sales, rr.profit, rr.region, rr.category, rr.product}, "\x1f")
}

func build(ctx context.Context, rows [][]string) (*Dataset, error) {
	if len(rows) == 0 {
		return nil, errors.DataSource("data source is empty")
	}

	cols, err := mapColumns(rows[0])
	if err != nil {
		return nil, err
	}

	ds := &Dataset{}

	// Exact-duplicate rows are dropped on the raw fields, first occurrence
	// wins, so loading already-deduplicated data is a no-op.
	uniq := make([]rawRow, 0, len(rows)-1)
	seen := make(map[string]struct{}, len(rows)-1)
	for _, row := range rows[1:] {
		if len(row) == 0 {
			continue
		}
		ds.TotalRows++
		rr := rawRow{
			date:     cell(row, cols.date),
			sales:    cell(row, cols.sales),
			profit:   cell(row, cols.profit),
			region:   cell(row, cols.region),
			category: cell(row, cols.category),
			product:  cell(row, cols.product),
		}
		if _, dup := seen[rr.key()]; dup {
			ds.DuplicateRows++
			continue
		}
		seen[rr.key()] = struct{}{}
		uniq = append(uniq, rr)
	}

	parsed := make([]models.Record, len(uniq))
	valid := make([]bool, len(uniq))

	// Chunks own disjoint index ranges of the output slices, so the workers
	// never touch the same element.
	g, ctx := errgroup.WithContext(ctx)
	g.SetLimit(maxWorkers)
	for begin := 0; begin < len(uniq); begin += parseChunkSize {
		end := min(begin+parseChunkSize, len(uniq))
		g.Go(func() error {
			select {
			case <-ctx.Done():
				return ctx.Err()
			default:
			}
			for i := begin; i < end; i++ {
				parsed[i], valid[i] = parseRow(uniq[i])
			}
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}

	records := make([]models.Record, 0, len(uniq))
	for i, rec := range parsed {
		if !valid[i] {
			ds.SkippedRows++
			continue
		}
		if !rec.HasDate {
			ds.RowsWithoutDate++
		}
		records = append(records, rec)
	}
	ds.Records = records

	return ds, nil
}

func cell(row []string, i int) string {
	if i < len(row) {
		return row[i]
	}
	return ""
}

var dateLayouts = []string{
	"1/2/2006",
	"2006-01-02",
	"02-01-2006",
	"1/2/06",
}

func parseDate(s string) (time.Time, bool) {
	s = strings.TrimSpace(s)
	if s == "" {
		return time.Time{}, false
	}
	for _, layout := range dateLayouts {
		if d, err := time.Parse(layout, s); err == nil {
			return d, true
		}
	}
	return time.Time{}, false
}

// parseRow derives year and margin. A row with a bad date is kept (HasDate
// false); a row with unparseable sales or profit is not a usable record.
func parseRow(rr rawRow) (models.Record, bool) {
	sales, err := strconv.ParseFloat(strings.TrimSpace(rr.sales), 64)
	if err != nil {
		return models.Record{}, false
	}
	profit, err := strconv.ParseFloat(strings.TrimSpace(rr.profit), 64)
	if err != nil {
		return models.Record{}, false
	}

	rec := models.Record{
		Sales:       sales,
		Profit:      profit,
		Region:      strings.TrimSpace(rr.region),
		Category:    strings.TrimSpace(rr.category),
		ProductName: strings.TrimSpace(rr.product),
	}

	if d, ok := parseDate(rr.date); ok {
		rec.OrderDate = d
		rec.HasDate = true
		rec.Year = d.Year()
	}

	if sales != 0 {
		rec.Margin = profit / sales
	}

	return rec, true
}
