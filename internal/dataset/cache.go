package dataset

import (
	"encoding/gob"
	"fmt"
	"os"
	"strings"

	"superstore-dashboard/internal/models"
)

const (
	cacheVersion = "v1"
	cacheDir     = ".cache"
)

// cachedTable is the gob snapshot of a parsed file. It is stale once the
// source file's mtime moves past Report.LoadedAt.
type cachedTable struct {
	Orders []models.Order
	Report LoadReport
}

func cacheFilename(path string) string {
	return fmt.Sprintf("%s/%s_%s.gob", cacheDir, strings.ReplaceAll(path, "/", "_"), cacheVersion)
}

func saveCache(path string, orders []models.Order, report *LoadReport) error {
	if err := os.MkdirAll(cacheDir, 0755); err != nil {
		return err
	}

	file, err := os.Create(cacheFilename(path))
	if err != nil {
		return err
	}
	defer file.Close()

	snapshot := cachedTable{Orders: orders, Report: *report}
	return gob.NewEncoder(file).Encode(snapshot)
}

func loadCache(path string) (*cachedTable, error) {
	file, err := os.Open(cacheFilename(path))
	if err != nil {
		return nil, err
	}
	defer file.Close()

	var snapshot cachedTable
	if err := gob.NewDecoder(file).Decode(&snapshot); err != nil {
		return nil, err
	}
	return &snapshot, nil
}
