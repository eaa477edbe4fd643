// Package dataset turns uploaded order files (CSV or XLSX) into an
// in-memory order table. Parsing is pure over (bytes, format); file I/O
// happens only in LoadFile.
package dataset

import (
	"bytes"
	"encoding/csv"
	"fmt"
	"path/filepath"
	"strconv"
	"strings"
	"sync/atomic"
	"time"

	"golang.org/x/sync/errgroup"

	apperrors "superstore-dashboard/internal/errors"
	"superstore-dashboard/internal/models"
)

type Format string

const (
	FormatCSV  Format = "csv"
	FormatXLSX Format = "xlsx"
)

const (
	batchSize  = 5000
	maxWorkers = 8
)

// requiredColumns are checked after header normalization. order_id is
// carried through when present but is not required.
var requiredColumns = []string{
	"order_date",
	"region",
	"category",
	"sub_category",
	"customer_name",
	"sales",
	"profit",
}

// LoadReport describes what happened while parsing one file. Rows whose
// date, sales or profit could not be parsed are dropped, not fatal.
type LoadReport struct {
	Rows     int       `json:"rows"`
	Dropped  int       `json:"dropped"`
	DayFirst bool      `json:"day_first"`
	LoadedAt time.Time `json:"loaded_at"`
}

// DetectFormat guesses the file format from the path extension,
// defaulting to CSV.
func DetectFormat(path string) Format {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".xlsx", ".xls":
		return FormatXLSX
	default:
		return FormatCSV
	}
}

// Load parses raw file bytes into an order table.
func Load(data []byte, format Format) ([]models.Order, *LoadReport, error) {
	switch format {
	case FormatCSV:
		return loadCSV(data)
	case FormatXLSX:
		return loadXLSX(data)
	default:
		return nil, nil, apperrors.Format(fmt.Sprintf("unsupported file format %q", format))
	}
}

func loadCSV(data []byte) ([]models.Order, *LoadReport, error) {
	reader := csv.NewReader(bytes.NewReader(data))
	reader.TrimLeadingSpace = true
	reader.FieldsPerRecord = -1

	rows, err := reader.ReadAll()
	if err != nil {
		return nil, nil, apperrors.FormatWrap(err, "cannot parse input as CSV")
	}

	return buildTable(rows)
}

func buildTable(rows [][]string) ([]models.Order, *LoadReport, error) {
	if len(rows) == 0 {
		return nil, nil, apperrors.Format("file contains no header row")
	}

	columns := make(map[string]int, len(rows[0]))
	for i, name := range rows[0] {
		columns[normalizeColumn(name)] = i
	}

	var missing []string
	for _, name := range requiredColumns {
		if _, ok := columns[name]; !ok {
			missing = append(missing, name)
		}
	}
	if len(missing) > 0 {
		return nil, nil, apperrors.Schema(fmt.Sprintf("missing required columns: %s", strings.Join(missing, ", ")))
	}

	records := rows[1:]

	orders, dropped, dateFailures := parseRecords(records, columns, false)
	dayFirst := false

	// The original data may be day-first. If month-first parsing rejects
	// more than half the rows, re-parse the whole file day-first.
	if len(records) > 0 && dateFailures*2 > len(records) {
		orders, dropped, _ = parseRecords(records, columns, true)
		dayFirst = true
	}

	report := &LoadReport{
		Rows:     len(orders),
		Dropped:  dropped,
		DayFirst: dayFirst,
		LoadedAt: time.Now(),
	}
	return orders, report, nil
}

// normalizeColumn maps "Sub-Category", " sub category " and
// "sub_category" to the same key.
func normalizeColumn(name string) string {
	name = strings.ToLower(strings.TrimSpace(name))
	name = strings.ReplaceAll(name, "-", "_")
	name = strings.ReplaceAll(name, " ", "_")
	return name
}

// parseRecords parses rows in batches on a bounded worker group. Results
// land in a slice indexed by row number, so the table keeps file order.
func parseRecords(records [][]string, columns map[string]int, dayFirst bool) ([]models.Order, int, int) {
	parsed := make([]*models.Order, len(records))
	var dateFailures atomic.Int64

	var g errgroup.Group
	g.SetLimit(maxWorkers)

	for start := 0; start < len(records); start += batchSize {
		end := min(start+batchSize, len(records))
		g.Go(func() error {
			for i := start; i < end; i++ {
				order, dateOK, ok := parseRecord(records[i], columns, dayFirst)
				if !dateOK {
					dateFailures.Add(1)
				}
				if ok {
					parsed[i] = &order
				}
			}
			return nil
		})
	}
	// Workers only write disjoint slice slots and never return errors.
	_ = g.Wait()

	orders := make([]models.Order, 0, len(records))
	for _, p := range parsed {
		if p != nil {
			orders = append(orders, *p)
		}
	}
	return orders, len(records) - len(orders), int(dateFailures.Load())
}

func parseRecord(row []string, columns map[string]int, dayFirst bool) (models.Order, bool, bool) {
	field := func(name string) string {
		idx, ok := columns[name]
		if !ok || idx >= len(row) {
			return ""
		}
		return strings.TrimSpace(row[idx])
	}

	date, ok := parseDate(field("order_date"), dayFirst)
	if !ok {
		return models.Order{}, false, false
	}

	sales, err := parseAmount(field("sales"))
	if err != nil {
		return models.Order{}, true, false
	}

	profit, err := parseAmount(field("profit"))
	if err != nil {
		return models.Order{}, true, false
	}

	return models.Order{
		OrderID:      field("order_id"),
		OrderDate:    date,
		Region:       field("region"),
		Category:     field("category"),
		SubCategory:  field("sub_category"),
		CustomerName: field("customer_name"),
		Sales:        sales,
		Profit:       profit,
	}, true, true
}

var monthFirstLayouts = []string{
	"2006-01-02",
	"2006-01-02 15:04:05",
	"2006/01/02",
	"1/2/2006",
	"01/02/2006",
	"1-2-2006",
	"Jan 2, 2006",
	"2-Jan-2006",
}

var dayFirstLayouts = []string{
	"2006-01-02",
	"2006-01-02 15:04:05",
	"2/1/2006",
	"02/01/2006",
	"2-1-2006",
	"02-01-2006",
	"2 Jan 2006",
}

func parseDate(value string, dayFirst bool) (time.Time, bool) {
	if value == "" {
		return time.Time{}, false
	}

	layouts := monthFirstLayouts
	if dayFirst {
		layouts = dayFirstLayouts
	}
	for _, layout := range layouts {
		if t, err := time.Parse(layout, value); err == nil {
			return t, true
		}
	}

	if t, ok := parseExcelSerial(value); ok {
		return t, true
	}
	return time.Time{}, false
}

func parseAmount(value string) (float64, error) {
	if value == "" {
		return 0, fmt.Errorf("empty amount")
	}
	value = strings.ReplaceAll(value, ",", "")
	value = strings.TrimPrefix(value, "$")
	return strconv.ParseFloat(value, 64)
}
