// Package ui renders the dashboard page. Charts are drawn client-side
// by Plotly from data pushed over the datastar SSE endpoint.
package ui

import (
	"html/template"
	"log/slog"
	"net/http"

	"superstore-dashboard/internal/services"
)

var pageTemplate = template.Must(template.New("dashboard").Parse(`<!DOCTYPE html>
<html lang="en">
<head>
<meta charset="utf-8">
<title>Superstore Dashboard</title>
<script type="module" src="https://cdn.jsdelivr.net/gh/starfederation/datastar@v1.0.0/bundles/datastar.js"></script>
<script src="https://cdn.plot.ly/plotly-2.35.2.min.js"></script>
<style>
body { font-family: system-ui, sans-serif; margin: 0; background: #f3f4f6; color: #1f2937; }
header { background: #1f2937; color: #f3f4f6; padding: 1rem 2rem; }
main { padding: 1rem 2rem; }
.filters { display: flex; gap: 1rem; margin-bottom: 1rem; }
.filters label { display: block; font-size: 0.8rem; margin-bottom: 0.25rem; }
.filters select { min-width: 12rem; min-height: 6rem; }
#kpi-content { display: flex; gap: 1rem; margin-bottom: 1rem; }
.kpi-card { background: #2563eb; color: white; border-radius: 12px; padding: 1rem 1.5rem; flex: 1; }
.kpi-card .kpi-label { display: block; font-size: 0.8rem; opacity: 0.8; }
.kpi-card strong { font-size: 1.4rem; }
.charts { display: grid; grid-template-columns: 1fr 1fr; gap: 1rem; }
.chart { background: white; border-radius: 12px; padding: 0.5rem; min-height: 320px; }
.modern-table { width: 100%; border-collapse: collapse; background: white; }
.modern-table th, .modern-table td { padding: 0.4rem 0.6rem; border-bottom: 1px solid #e5e7eb; text-align: left; }
.category-badge { background: #e5e7eb; border-radius: 8px; padding: 0.1rem 0.5rem; font-size: 0.8rem; }
.empty-note { color: #6b7280; }
.toolbar { margin: 1rem 0; }
</style>
<script>
function selectedValues(id) {
  return Array.from(document.getElementById(id).selectedOptions).map(function(o) { return o.value; });
}
function filterQuery() {
  var params = new URLSearchParams();
  selectedValues('region-select').forEach(function(v) { params.append('region', v); });
  selectedValues('category-select').forEach(function(v) { params.append('category', v); });
  selectedValues('subcategory-select').forEach(function(v) { params.append('sub_category', v); });
  return params.toString();
}
function barChart(el, data, xKey, yKey) {
  if (!data) return;
  Plotly.react(el, [{
    type: 'bar',
    x: data.map(function(d) { return d[xKey]; }),
    y: data.map(function(d) { return d[yKey]; })
  }], {margin: {t: 24}}, {responsive: true});
}
function areaChart(el, data, xKey, yKey) {
  if (!data) return;
  Plotly.react(el, [{
    type: 'scatter', fill: 'tozeroy',
    x: data.map(function(d) { return d[xKey]; }),
    y: data.map(function(d) { return d[yKey]; })
  }], {margin: {t: 24}}, {responsive: true});
}
</script>
</head>
<body data-signals="{regionData: [], categoryData: [], timeData: [], subCategoryData: [], customerData: []}"
      data-on-load="@get('/sse/dashboard')">
<header><h1>Superstore — Interactive Dashboard</h1></header>
<main>
<div class="filters">
  <div>
    <label for="region-select">Region</label>
    <select id="region-select" multiple data-on-change="@get('/sse/dashboard?' + filterQuery())">
      {{range .Regions}}<option value="{{.}}">{{.}}</option>{{end}}
    </select>
  </div>
  <div>
    <label for="category-select">Category</label>
    <select id="category-select" multiple data-on-change="@get('/sse/dashboard?' + filterQuery())">
      {{range .Categories}}<option value="{{.}}">{{.}}</option>{{end}}
    </select>
  </div>
  <div>
    <label for="subcategory-select">Sub-Category</label>
    <select id="subcategory-select" multiple data-on-change="@get('/sse/dashboard?' + filterQuery())">
      {{range .SubCategories}}<option value="{{.}}">{{.}}</option>{{end}}
    </select>
  </div>
</div>

<div id="kpi-content"></div>

<div class="charts">
  <div class="chart" id="region-chart" data-effect="barChart(el, $regionData, 'region', 'sales')"></div>
  <div class="chart" id="category-chart" data-effect="barChart(el, $categoryData, 'category', 'profit')"></div>
  <div class="chart" id="time-chart" data-effect="areaChart(el, $timeData, 'date', 'sales')"></div>
  <div class="chart" id="customer-chart" data-effect="barChart(el, $customerData, 'customer_name', 'sales')"></div>
</div>
<div class="chart" id="subcategory-chart" data-effect="barChart(el, $subCategoryData, 'sub_category', 'sales')"></div>

<div class="toolbar">
  <a href="/export.csv" onclick="this.href='/export.csv?' + filterQuery()">Download filtered CSV</a>
</div>

<h2>Raw Data Preview</h2>
<div id="preview-content"></div>
</main>
</body>
</html>`))

type pageData struct {
	Regions       []string
	Categories    []string
	SubCategories []string
}

// Handler serves the dashboard page with the filter controls populated
// from the loaded table.
func Handler(reporting *services.Reporting, logger *slog.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/" {
			http.NotFound(w, r)
			return
		}

		dims := reporting.Dimensions()
		data := pageData{
			Regions:       dims.Regions,
			Categories:    dims.Categories,
			SubCategories: dims.SubCategories,
		}

		w.Header().Set("Content-Type", "text/html; charset=utf-8")
		if err := pageTemplate.Execute(w, data); err != nil {
			logger.Error("render dashboard page", "error", err)
		}
	}
}
