package handlers

import (
	"fmt"
	"log/slog"
	"net/http"
	"strconv"
	"time"

	"superstore-dashboard/internal/errors"
	"superstore-dashboard/internal/observability"
	"superstore-dashboard/internal/services"
)

const (
	defaultPreviewRows = 50
	maxPreviewRows     = 500
	maxTopCustomers    = 100
	cacheControl       = "public, max-age=60"
)

type APIHandlers struct {
	reporting      *services.Reporting
	logger         *slog.Logger
	exportFilename string
}

func NewAPIHandlers(reporting *services.Reporting, logger *slog.Logger, exportFilename string) *APIHandlers {
	return &APIHandlers{
		reporting:      reporting,
		logger:         logger,
		exportFilename: exportFilename,
	}
}

func cacheHeaders() map[string]string {
	return map[string]string{"Cache-Control": cacheControl}
}

// HandleSummary returns the full metrics snapshot for the request's
// filter selection.
func (h *APIHandlers) HandleSummary(w http.ResponseWriter, r *http.Request) {
	sel := services.ParseSelection(r.URL.Query())
	snapshot := h.reporting.Snapshot(sel)

	errors.WriteSuccessWithHeaders(w, snapshot, cacheHeaders())
}

func (h *APIHandlers) HandleSalesByRegion(w http.ResponseWriter, r *http.Request) {
	view := h.reporting.View(services.ParseSelection(r.URL.Query()))

	errors.WriteSuccessWithHeaders(w, services.SalesByRegion(view), cacheHeaders())
}

func (h *APIHandlers) HandleProfitByCategory(w http.ResponseWriter, r *http.Request) {
	view := h.reporting.View(services.ParseSelection(r.URL.Query()))

	errors.WriteSuccessWithHeaders(w, services.ProfitByCategory(view), cacheHeaders())
}

func (h *APIHandlers) HandleSalesOverTime(w http.ResponseWriter, r *http.Request) {
	view := h.reporting.View(services.ParseSelection(r.URL.Query()))

	errors.WriteSuccessWithHeaders(w, services.SalesOverTime(view), cacheHeaders())
}

func (h *APIHandlers) HandleSubCategoryPerformance(w http.ResponseWriter, r *http.Request) {
	view := h.reporting.View(services.ParseSelection(r.URL.Query()))

	errors.WriteSuccessWithHeaders(w, services.SubCategoryPerformance(view), cacheHeaders())
}

func (h *APIHandlers) HandleTopCustomers(w http.ResponseWriter, r *http.Request) {
	n, err := positiveIntParam(r, "n", services.DefaultTopCustomers, maxTopCustomers)
	if err != nil {
		errors.WriteError(w, h.logger, err, observability.GetRequestID(r.Context()))
		return
	}

	view := h.reporting.View(services.ParseSelection(r.URL.Query()))

	errors.WriteSuccessWithHeaders(w, services.TopCustomersBySales(view, n), cacheHeaders())
}

// HandleRows returns the leading rows of the filtered view for the
// tabular preview.
func (h *APIHandlers) HandleRows(w http.ResponseWriter, r *http.Request) {
	limit, err := positiveIntParam(r, "limit", defaultPreviewRows, maxPreviewRows)
	if err != nil {
		errors.WriteError(w, h.logger, err, observability.GetRequestID(r.Context()))
		return
	}

	view := h.reporting.View(services.ParseSelection(r.URL.Query()))
	if len(view) > limit {
		view = view[:limit]
	}

	errors.WriteSuccessWithHeaders(w, view, cacheHeaders())
}

// HandleDimensions lists the distinct values per filter dimension.
func (h *APIHandlers) HandleDimensions(w http.ResponseWriter, r *http.Request) {
	errors.WriteSuccessWithHeaders(w, h.reporting.Dimensions(), cacheHeaders())
}

// HandleExport streams the filtered view as a CSV download.
func (h *APIHandlers) HandleExport(w http.ResponseWriter, r *http.Request) {
	sel := services.ParseSelection(r.URL.Query())

	data, err := h.reporting.Export(sel)
	if err != nil {
		requestID := observability.GetRequestID(r.Context())
		errors.WriteError(w, h.logger, errors.InternalWrap(err, "export failed"), requestID)
		return
	}

	w.Header().Set("Content-Type", "text/csv; charset=utf-8")
	w.Header().Set("Content-Disposition", fmt.Sprintf("attachment; filename=%q", h.exportFilename))
	w.Header().Set("Content-Length", strconv.Itoa(len(data)))
	w.WriteHeader(http.StatusOK)
	w.Write(data)
}

func (h *APIHandlers) HandleHealth(w http.ResponseWriter, r *http.Request) {
	healthData := map[string]string{
		"status":    "healthy",
		"timestamp": time.Now().Format(time.RFC3339),
		"version":   "1.0.0",
	}

	errors.WriteSuccess(w, healthData)
}

func (h *APIHandlers) HandleStats(w http.ResponseWriter, r *http.Request) {
	errors.WriteSuccess(w, h.reporting.Stats())
}

func positiveIntParam(r *http.Request, name string, defaultValue, maxValue int) (int, error) {
	raw := r.URL.Query().Get(name)
	if raw == "" {
		return defaultValue, nil
	}

	value, err := strconv.Atoi(raw)
	if err != nil || value < 1 {
		return 0, errors.Validation(fmt.Sprintf("parameter %q must be a positive integer", name))
	}
	if value > maxValue {
		value = maxValue
	}
	return value, nil
}
