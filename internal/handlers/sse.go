package handlers

import (
	"encoding/json"
	"html/template"
	"log/slog"
	"net/http"
	"strings"

	"github.com/starfederation/datastar-go/datastar"

	"superstore-dashboard/internal/models"
	"superstore-dashboard/internal/services"
)

const maxTableRows = 50

var kpiTemplate = template.Must(template.New("kpi").Parse(`
<div id="kpi-content">
<div class="kpi-card"><span class="kpi-label">Total Sales</span><strong>${{printf "%.2f" .TotalSales}}</strong></div>
<div class="kpi-card"><span class="kpi-label">Total Profit</span><strong>${{printf "%.2f" .TotalProfit}}</strong></div>
<div class="kpi-card"><span class="kpi-label">Profit Margin</span><strong>{{printf "%.2f" .ProfitMargin}}%</strong></div>
<div class="kpi-card"><span class="kpi-label">Orders</span><strong>{{.RowCount}}</strong></div>
</div>`))

var previewTableTemplate = template.Must(template.New("preview").Parse(`
<div id="preview-content">
<table class="modern-table">
<thead><tr><th>Order Date</th><th>Region</th><th>Category</th><th>Sub-Category</th><th>Customer</th><th>Sales</th><th>Profit</th></tr></thead>
<tbody>
{{range .Rows}}<tr>
<td>{{.OrderDate.Format "2006-01-02"}}</td>
<td>{{.Region}}</td>
<td>{{.Category}}</td>
<td><span class="category-badge">{{.SubCategory}}</span></td>
<td>{{.CustomerName}}</td>
<td><strong>${{printf "%.2f" .Sales}}</strong></td>
<td>${{printf "%.2f" .Profit}}</td>
</tr>{{end}}
</tbody>
</table>
{{if not .Rows}}<p class="empty-note">No rows match the current filters.</p>{{end}}
</div>`))

type SSEHandlers struct {
	reporting *services.Reporting
	logger    *slog.Logger
}

func NewSSEHandlers(reporting *services.Reporting, logger *slog.Logger) *SSEHandlers {
	return &SSEHandlers{
		reporting: reporting,
		logger:    logger,
	}
}

func (h *SSEHandlers) renderKPIs(snapshot *services.Snapshot) (string, error) {
	var buf strings.Builder
	err := kpiTemplate.Execute(&buf, snapshot)
	return buf.String(), err
}

func (h *SSEHandlers) renderPreview(rows []models.Order) (string, error) {
	if len(rows) > maxTableRows {
		rows = rows[:maxTableRows]
	}

	var buf strings.Builder
	err := previewTableTemplate.Execute(&buf, struct{ Rows []models.Order }{rows})
	return buf.String(), err
}

// HandleDashboard recomputes the whole dashboard for the request's
// filter selection: the KPI and preview fragments are patched as
// elements, the chart series are pushed as signals.
func (h *SSEHandlers) HandleDashboard(w http.ResponseWriter, r *http.Request) {
	sse := datastar.NewSSE(w, r)

	sel := services.ParseSelection(r.URL.Query())
	snapshot, rows := h.reporting.Render(sel)

	html, err := h.renderKPIs(snapshot)
	if err != nil {
		h.logger.Error("render kpi fragment", "error", err)
		return
	}
	sse.PatchElements(html)

	preview, err := h.renderPreview(rows)
	if err != nil {
		h.logger.Error("render preview fragment", "error", err)
		return
	}
	sse.PatchElements(preview)

	signals, err := json.Marshal(map[string]any{
		"regionData":      snapshot.SalesByRegion,
		"categoryData":    snapshot.ProfitByCategory,
		"timeData":        snapshot.SalesOverTime,
		"subCategoryData": snapshot.SubCategoryPerformance,
		"customerData":    snapshot.TopCustomers,
	})
	if err != nil {
		h.logger.Error("marshal chart signals", "error", err)
		return
	}
	sse.PatchSignals(signals)

	if f, ok := w.(http.Flusher); ok {
		f.Flush()
	}
}
