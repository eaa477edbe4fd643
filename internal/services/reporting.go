package services

import (
	"context"
	"fmt"
	"log/slog"
	"sync"
	"time"

	"superstore-dashboard/internal/dataset"
	apperrors "superstore-dashboard/internal/errors"
	"superstore-dashboard/internal/models"
)

// Reporting owns the currently loaded order table. Every query applies a
// per-request Selection; the table itself is only replaced wholesale, so
// readers share it under a RWMutex.
type Reporting struct {
	mu     sync.RWMutex
	table  []models.Order
	report dataset.LoadReport
	logger *slog.Logger
}

// NewReporting builds an empty reporting service. A nil logger falls
// back to the process default.
func NewReporting(logger *slog.Logger) *Reporting {
	if logger == nil {
		logger = slog.Default()
	}
	return &Reporting{
		table:  []models.Order{},
		logger: logger,
	}
}

// SetTable replaces the loaded table. Used directly by tests.
func (r *Reporting) SetTable(orders []models.Order) {
	r.mu.Lock()
	defer r.mu.Unlock()

	r.table = orders
	r.report = dataset.LoadReport{Rows: len(orders), LoadedAt: time.Now()}
}

// LoadFromFile parses the dataset at path and installs it as the
// current table.
func (r *Reporting) LoadFromFile(ctx context.Context, path string, format dataset.Format) error {
	start := time.Now()
	r.logger.Info("loading dataset", "path", path, "format", format)

	orders, report, err := dataset.LoadFile(ctx, path, format, r.logger)
	if err != nil {
		return fmt.Errorf("load dataset: %w", err)
	}

	r.mu.Lock()
	r.table = orders
	r.report = *report
	r.mu.Unlock()

	duration := time.Since(start)
	r.logger.Info("dataset loaded",
		"rows", report.Rows,
		"dropped", report.Dropped,
		"day_first", report.DayFirst,
		"duration", duration,
	)
	return nil
}

// View filters the current table with sel, preserving row order.
func (r *Reporting) View(sel Selection) []models.Order {
	r.mu.RLock()
	table := r.table
	r.mu.RUnlock()

	view := ApplyFilter(table, sel)
	if len(view) == 0 && len(table) > 0 {
		r.logger.Warn("filter selection matched no rows",
			"code", apperrors.CodeEmptyResult,
			"regions", sel.Regions,
			"categories", sel.Categories,
			"sub_categories", sel.SubCategories,
		)
	}
	return view
}

// Render computes the snapshot and preview rows from one shared view.
func (r *Reporting) Render(sel Selection) (*Snapshot, []models.Order) {
	view := r.View(sel)
	return BuildSnapshot(view), view
}

func (r *Reporting) Snapshot(sel Selection) *Snapshot {
	return BuildSnapshot(r.View(sel))
}

// Export serializes the filtered view to CSV bytes.
func (r *Reporting) Export(sel Selection) ([]byte, error) {
	return ExportCSV(r.View(sel))
}

// Dimensions lists filter options from the full table, ignoring any
// active selection.
func (r *Reporting) Dimensions() Dimensions {
	r.mu.RLock()
	table := r.table
	r.mu.RUnlock()

	return CollectDimensions(table)
}

// Stats reports load diagnostics for the admin endpoint.
func (r *Reporting) Stats() map[string]any {
	r.mu.RLock()
	defer r.mu.RUnlock()

	dims := CollectDimensions(r.table)
	return map[string]any{
		"record_count":   r.report.Rows,
		"dropped_rows":   r.report.Dropped,
		"day_first":      r.report.DayFirst,
		"loaded_at":      r.report.LoadedAt,
		"regions":        len(dims.Regions),
		"categories":     len(dims.Categories),
		"sub_categories": len(dims.SubCategories),
	}
}
