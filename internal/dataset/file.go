package dataset

import (
	"context"
	"fmt"
	"log/slog"
	"os"

	"superstore-dashboard/internal/models"
)

// LoadFile reads and parses the dataset at path. An empty format means
// "sniff from the extension". A fresh gob cache short-circuits parsing.
func LoadFile(ctx context.Context, path string, format Format, logger *slog.Logger) ([]models.Order, *LoadReport, error) {
	if format == "" {
		format = DetectFormat(path)
	}

	if cached, err := loadCache(path); err == nil {
		info, err := os.Stat(path)
		if err == nil && info.ModTime().Before(cached.Report.LoadedAt) {
			logger.Info("loaded dataset from cache", "path", path, "rows", cached.Report.Rows)
			report := cached.Report
			return cached.Orders, &report, nil
		}
	}

	if err := ctx.Err(); err != nil {
		return nil, nil, err
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return nil, nil, fmt.Errorf("read dataset: %w", err)
	}

	orders, report, err := Load(data, format)
	if err != nil {
		return nil, nil, err
	}

	if report.Rows == 0 {
		logger.Warn("dataset contains no valid rows", "path", path, "dropped", report.Dropped)
	}

	if err := saveCache(path, orders, report); err != nil {
		logger.Warn("failed to save dataset cache", "error", err)
	}

	return orders, report, nil
}
