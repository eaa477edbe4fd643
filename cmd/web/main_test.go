package main

import (
	"encoding/json"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"superstore-dashboard/internal/models"
	"superstore-dashboard/internal/server"
	"superstore-dashboard/internal/services"
	"superstore-dashboard/internal/ui"
)

func newTestServer() *server.Server {
	logger := slog.New(slog.NewTextHandler(io.Discard, nil))

	reporting := services.NewReporting(logger)
	reporting.SetTable([]models.Order{
		{
			OrderID:      "O1",
			OrderDate:    time.Date(2023, 1, 15, 0, 0, 0, 0, time.UTC),
			Region:       "West",
			Category:     "Technology",
			SubCategory:  "Phones",
			CustomerName: "Alice",
			Sales:        100,
			Profit:       20,
		},
		{
			OrderID:      "O2",
			OrderDate:    time.Date(2023, 2, 10, 0, 0, 0, 0, time.UTC),
			Region:       "East",
			Category:     "Furniture",
			SubCategory:  "Chairs",
			CustomerName: "Bob",
			Sales:        50,
			Profit:       -5,
		},
	})

	templateHandlers := &server.TemplateHandlers{
		Dashboard: ui.Handler(reporting, logger),
	}

	return server.NewServer(reporting, logger, templateHandlers, "filtered_data.csv")
}

func TestRoutes(t *testing.T) {
	srv := newTestServer()

	tests := []struct {
		name       string
		path       string
		wantStatus int
		wantInBody string
	}{
		{"dashboard page", "/", http.StatusOK, "Superstore"},
		{"health", "/health", http.StatusOK, "healthy"},
		{"admin stats", "/admin/stats", http.StatusOK, "record_count"},
		{"summary", "/api/summary", http.StatusOK, "total_sales"},
		{"sales by region", "/api/sales-by-region", http.StatusOK, "West"},
		{"profit by category", "/api/profit-by-category", http.StatusOK, "Technology"},
		{"sales over time", "/api/sales-over-time", http.StatusOK, "2023-01-15"},
		{"sub-category performance", "/api/sub-category-performance", http.StatusOK, "Phones"},
		{"top customers", "/api/top-customers", http.StatusOK, "Alice"},
		{"rows", "/api/rows", http.StatusOK, "O1"},
		{"dimensions", "/api/dimensions", http.StatusOK, "sub_categories"},
		{"export", "/export.csv", http.StatusOK, "order_id"},
		{"unknown page", "/nope", http.StatusNotFound, ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req := httptest.NewRequest(http.MethodGet, tt.path, nil)
			w := httptest.NewRecorder()
			srv.ServeHTTP(w, req)

			if w.Code != tt.wantStatus {
				t.Fatalf("GET %s: status = %d, want %d", tt.path, w.Code, tt.wantStatus)
			}
			if tt.wantInBody != "" && !strings.Contains(w.Body.String(), tt.wantInBody) {
				t.Errorf("GET %s: body does not contain %q", tt.path, tt.wantInBody)
			}
		})
	}
}

func TestFilteredPipeline(t *testing.T) {
	srv := newTestServer()

	req := httptest.NewRequest(http.MethodGet, "/api/summary?region=West", nil)
	w := httptest.NewRecorder()
	srv.ServeHTTP(w, req)

	var envelope struct {
		Data    services.Snapshot `json:"data"`
		Success bool              `json:"success"`
	}
	if err := json.NewDecoder(w.Body).Decode(&envelope); err != nil {
		t.Fatalf("decode summary: %v", err)
	}

	if envelope.Data.TotalSales != 100 {
		t.Errorf("total sales = %v, want 100", envelope.Data.TotalSales)
	}
	if envelope.Data.ProfitMargin != 20 {
		t.Errorf("profit margin = %v, want 20", envelope.Data.ProfitMargin)
	}

	// The export for the same selection must describe the same view.
	req = httptest.NewRequest(http.MethodGet, "/export.csv?region=West", nil)
	w = httptest.NewRecorder()
	srv.ServeHTTP(w, req)

	body := w.Body.String()
	if !strings.Contains(body, "O1") || strings.Contains(body, "O2") {
		t.Errorf("export should contain O1 only, got:\n%s", body)
	}
}

func TestSSEDashboardRoute(t *testing.T) {
	srv := newTestServer()

	req := httptest.NewRequest(http.MethodGet, "/sse/dashboard?region=East", nil)
	w := httptest.NewRecorder()
	srv.ServeHTTP(w, req)

	if w.Code != http.StatusOK {
		t.Fatalf("status = %d, want 200", w.Code)
	}
	if !strings.Contains(w.Body.String(), "kpi-content") {
		t.Error("SSE response should patch the KPI fragment")
	}
}
