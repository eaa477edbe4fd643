package server

import (
	"log/slog"
	"net/http"

	"superstore-dashboard/internal/handlers"
	"superstore-dashboard/internal/observability"
	"superstore-dashboard/internal/services"
)

type Server struct {
	reporting   *services.Reporting
	mux         *http.ServeMux
	logger      *slog.Logger
	apiHandlers *handlers.APIHandlers
	sseHandlers *handlers.SSEHandlers
}

type TemplateHandlers struct {
	Dashboard http.HandlerFunc
}

func NewServer(reporting *services.Reporting, logger *slog.Logger, templateHandlers *TemplateHandlers, exportFilename string) *Server {
	s := &Server{
		reporting:   reporting,
		mux:         http.NewServeMux(),
		logger:      logger,
		apiHandlers: handlers.NewAPIHandlers(reporting, observability.Component(logger, "api"), exportFilename),
		sseHandlers: handlers.NewSSEHandlers(reporting, observability.Component(logger, "sse")),
	}
	s.setupRoutes(templateHandlers)
	return s
}

func (s *Server) setupRoutes(templateHandlers *TemplateHandlers) {
	// Dashboard routes
	s.mux.HandleFunc("GET /", templateHandlers.Dashboard)
	s.mux.HandleFunc("GET /health", s.apiHandlers.HandleHealth)
	s.mux.HandleFunc("GET /admin/stats", s.apiHandlers.HandleStats)

	// REST API endpoints; all accept region/category/sub_category
	// filter parameters
	s.mux.HandleFunc("GET /api/summary", s.apiHandlers.HandleSummary)
	s.mux.HandleFunc("GET /api/sales-by-region", s.apiHandlers.HandleSalesByRegion)
	s.mux.HandleFunc("GET /api/profit-by-category", s.apiHandlers.HandleProfitByCategory)
	s.mux.HandleFunc("GET /api/sales-over-time", s.apiHandlers.HandleSalesOverTime)
	s.mux.HandleFunc("GET /api/sub-category-performance", s.apiHandlers.HandleSubCategoryPerformance)
	s.mux.HandleFunc("GET /api/top-customers", s.apiHandlers.HandleTopCustomers)
	s.mux.HandleFunc("GET /api/rows", s.apiHandlers.HandleRows)
	s.mux.HandleFunc("GET /api/dimensions", s.apiHandlers.HandleDimensions)

	// Filtered CSV download
	s.mux.HandleFunc("GET /export.csv", s.apiHandlers.HandleExport)

	// Datastar SSE endpoint
	s.mux.HandleFunc("GET /sse/dashboard", s.sseHandlers.HandleDashboard)
}

func (s *Server) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	s.mux.ServeHTTP(w, r)
}
