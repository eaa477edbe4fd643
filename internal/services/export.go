package services

import (
	"bytes"
	"encoding/csv"
	"fmt"
	"strconv"

	"superstore-dashboard/internal/models"
)

// exportHeader matches the order record field names. The exported file
// round-trips: re-parsing it reproduces the view's rows and order.
var exportHeader = []string{
	"order_id",
	"order_date",
	"region",
	"category",
	"sub_category",
	"customer_name",
	"sales",
	"profit",
}

// ExportCSV serializes a filtered view to CSV bytes, one row per record
// in view order. An empty view yields a header-only file.
func ExportCSV(view []models.Order) ([]byte, error) {
	var buf bytes.Buffer
	writer := csv.NewWriter(&buf)

	if err := writer.Write(exportHeader); err != nil {
		return nil, fmt.Errorf("write csv header: %w", err)
	}

	for _, o := range view {
		record := []string{
			o.OrderID,
			o.OrderDate.Format(dateKeyLayout),
			o.Region,
			o.Category,
			o.SubCategory,
			o.CustomerName,
			formatAmount(o.Sales),
			formatAmount(o.Profit),
		}
		if err := writer.Write(record); err != nil {
			return nil, fmt.Errorf("write csv row: %w", err)
		}
	}

	writer.Flush()
	if err := writer.Error(); err != nil {
		return nil, fmt.Errorf("flush csv: %w", err)
	}
	return buf.Bytes(), nil
}

// formatAmount uses the shortest representation that parses back to the
// same float64.
func formatAmount(v float64) string {
	return strconv.FormatFloat(v, 'f', -1, 64)
}
