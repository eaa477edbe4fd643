package services

import (
	"math"
	"testing"

	"superstore-dashboard/internal/models"
)

func almostEqual(a, b float64) bool {
	return math.Abs(a-b) < 1e-9
}

func TestScalarMetrics_FilteredScenario(t *testing.T) {
	snapshot, view := Render(sampleTable(), Selection{Regions: []string{"R1"}})

	if len(view) != 2 {
		t.Fatalf("expected 2 rows in view, got %d", len(view))
	}
	if !almostEqual(snapshot.TotalSales, 150) {
		t.Errorf("total sales = %v, want 150", snapshot.TotalSales)
	}
	if !almostEqual(snapshot.TotalProfit, 15) {
		t.Errorf("total profit = %v, want 15", snapshot.TotalProfit)
	}
	if !almostEqual(snapshot.ProfitMargin, 10.0) {
		t.Errorf("profit margin = %v, want 10.0", snapshot.ProfitMargin)
	}

	if len(snapshot.SalesByRegion) != 1 || snapshot.SalesByRegion[0].Region != "R1" || !almostEqual(snapshot.SalesByRegion[0].Sales, 150) {
		t.Errorf("sales by region = %+v, want [{R1 150}]", snapshot.SalesByRegion)
	}

	want := []models.CustomerSales{
		{CustomerName: "Alice", Sales: 100},
		{CustomerName: "Bob", Sales: 50},
	}
	if len(snapshot.TopCustomers) != len(want) {
		t.Fatalf("top customers = %+v, want %+v", snapshot.TopCustomers, want)
	}
	for i, w := range want {
		got := snapshot.TopCustomers[i]
		if got.CustomerName != w.CustomerName || !almostEqual(got.Sales, w.Sales) {
			t.Errorf("top customers[%d] = %+v, want %+v", i, got, w)
		}
	}
}

func TestMetrics_EmptyView(t *testing.T) {
	snapshot, view := Render(sampleTable(), Selection{Categories: []string{"NonExistent"}})

	if len(view) != 0 {
		t.Fatalf("expected empty view, got %d rows", len(view))
	}
	if snapshot.TotalSales != 0 || snapshot.TotalProfit != 0 || snapshot.ProfitMargin != 0 {
		t.Errorf("scalar metrics should all be 0, got %+v", snapshot)
	}
	if len(snapshot.SalesByRegion) != 0 {
		t.Errorf("sales by region should be empty, got %+v", snapshot.SalesByRegion)
	}
	if len(snapshot.ProfitByCategory) != 0 {
		t.Errorf("profit by category should be empty, got %+v", snapshot.ProfitByCategory)
	}
	if len(snapshot.SalesOverTime) != 0 {
		t.Errorf("sales over time should be empty, got %+v", snapshot.SalesOverTime)
	}
	if len(snapshot.SubCategoryPerformance) != 0 {
		t.Errorf("sub-category performance should be empty, got %+v", snapshot.SubCategoryPerformance)
	}
	if len(snapshot.TopCustomers) != 0 {
		t.Errorf("top customers should be empty, got %+v", snapshot.TopCustomers)
	}
}

func TestProfitMargin_ZeroSales(t *testing.T) {
	view := []models.Order{
		{CustomerName: "Alice", Sales: 0, Profit: 10},
	}

	if got := ProfitMargin(view); got != 0 {
		t.Errorf("margin with zero sales = %v, want 0", got)
	}
	if got := ProfitMargin(nil); got != 0 {
		t.Errorf("margin of empty view = %v, want 0", got)
	}
}

func TestTotalSales_EmptySelectionEqualsNoFilter(t *testing.T) {
	table := sampleTable()

	unfiltered := TotalSales(table)
	filtered := TotalSales(ApplyFilter(table, Selection{}))

	if !almostEqual(unfiltered, filtered) {
		t.Errorf("empty selection changed total sales: %v vs %v", filtered, unfiltered)
	}
}

func TestSalesByRegion_AbsentRegionsAbsent(t *testing.T) {
	view := ApplyFilter(sampleTable(), Selection{Regions: []string{"R2"}})
	result := SalesByRegion(view)

	if len(result) != 1 {
		t.Fatalf("expected 1 region, got %+v", result)
	}
	if result[0].Region != "R2" {
		t.Errorf("region = %q, want R2", result[0].Region)
	}
}

func TestProfitByCategory(t *testing.T) {
	result := ProfitByCategory(sampleTable())

	if len(result) != 2 {
		t.Fatalf("expected 2 categories, got %+v", result)
	}
	// Tech profit 15 > Office profit 10
	if result[0].Category != "Tech" || !almostEqual(result[0].Profit, 15) {
		t.Errorf("first category = %+v, want {Tech 15}", result[0])
	}
	if result[1].Category != "Office" || !almostEqual(result[1].Profit, 10) {
		t.Errorf("second category = %+v, want {Office 10}", result[1])
	}
}

func TestSalesOverTime_AscendingByDate(t *testing.T) {
	table := []models.Order{
		{OrderDate: day(2023, 3, 1), Sales: 5},
		{OrderDate: day(2023, 1, 2), Sales: 10},
		{OrderDate: day(2023, 1, 2), Sales: 20},
		{OrderDate: day(2023, 2, 14), Sales: 7},
	}

	result := SalesOverTime(table)

	wantDates := []string{"2023-01-02", "2023-02-14", "2023-03-01"}
	if len(result) != len(wantDates) {
		t.Fatalf("expected %d days, got %+v", len(wantDates), result)
	}
	for i, d := range wantDates {
		if result[i].Date != d {
			t.Errorf("day[%d] = %q, want %q", i, result[i].Date, d)
		}
	}
	if !almostEqual(result[0].Sales, 30) {
		t.Errorf("2023-01-02 sales = %v, want 30", result[0].Sales)
	}
}

func TestSubCategoryPerformance_PairedSums(t *testing.T) {
	result := SubCategoryPerformance(sampleTable())

	if len(result) != 2 {
		t.Fatalf("expected 2 sub-categories, got %+v", result)
	}
	// A: sales 130, profit 30; B: sales 50, profit -5
	if result[0].SubCategory != "A" || !almostEqual(result[0].Sales, 130) || !almostEqual(result[0].Profit, 30) {
		t.Errorf("first = %+v, want {A 130 30}", result[0])
	}
	if result[1].SubCategory != "B" || !almostEqual(result[1].Sales, 50) || !almostEqual(result[1].Profit, -5) {
		t.Errorf("second = %+v, want {B 50 -5}", result[1])
	}
}

func TestTopCustomersBySales_Limit(t *testing.T) {
	table := []models.Order{
		{CustomerName: "A", Sales: 10},
		{CustomerName: "B", Sales: 30},
		{CustomerName: "C", Sales: 20},
		{CustomerName: "D", Sales: 40},
	}

	result := TopCustomersBySales(table, 2)

	if len(result) != 2 {
		t.Fatalf("expected 2 entries, got %d", len(result))
	}
	if result[0].CustomerName != "D" || result[1].CustomerName != "B" {
		t.Errorf("top 2 = %+v, want D then B", result)
	}
}

func TestTopCustomersBySales_TiesKeepFirstAppearance(t *testing.T) {
	table := []models.Order{
		{CustomerName: "Late", Sales: 50},
		{CustomerName: "Zed", Sales: 100},
		{CustomerName: "Ann", Sales: 100},
		{CustomerName: "Late", Sales: 50},
	}

	result := TopCustomersBySales(table, 5)

	// All three tie at 100; Late's first row precedes Zed and Ann, so the
	// stable ordering keeps it in front.
	wantNames := []string{"Late", "Zed", "Ann"}
	if len(result) != len(wantNames) {
		t.Fatalf("expected %d customers, got %+v", len(wantNames), result)
	}
	for i, name := range wantNames {
		if result[i].CustomerName != name {
			t.Errorf("position %d: got %q, want %q", i, result[i].CustomerName, name)
		}
	}
	if !almostEqual(result[0].Sales, 100) {
		t.Errorf("Late sales = %v, want 100", result[0].Sales)
	}
}

func TestTopCustomersBySales_NonPositiveN(t *testing.T) {
	if got := TopCustomersBySales(sampleTable(), 0); len(got) != 0 {
		t.Errorf("n=0 should return no entries, got %+v", got)
	}
}
