package services

import (
	"net/url"
	"testing"
	"time"

	"superstore-dashboard/internal/models"
)

func day(y int, m time.Month, d int) time.Time {
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}

func sampleTable() []models.Order {
	return []models.Order{
		{OrderID: "O1", OrderDate: day(2023, 1, 15), Region: "R1", Category: "Tech", SubCategory: "A", CustomerName: "Alice", Sales: 100, Profit: 20},
		{OrderID: "O2", OrderDate: day(2023, 1, 16), Region: "R1", Category: "Tech", SubCategory: "B", CustomerName: "Bob", Sales: 50, Profit: -5},
		{OrderID: "O3", OrderDate: day(2023, 2, 1), Region: "R2", Category: "Office", SubCategory: "A", CustomerName: "Alice", Sales: 30, Profit: 10},
	}
}

func TestApplyFilter_EmptySelection(t *testing.T) {
	table := sampleTable()
	view := ApplyFilter(table, Selection{})

	if len(view) != len(table) {
		t.Fatalf("empty selection should keep all rows, got %d of %d", len(view), len(table))
	}
	for i := range table {
		if view[i].OrderID != table[i].OrderID {
			t.Errorf("row %d: order changed, got %q want %q", i, view[i].OrderID, table[i].OrderID)
		}
	}
}

func TestApplyFilter_SingleDimension(t *testing.T) {
	view := ApplyFilter(sampleTable(), Selection{Regions: []string{"R1"}})

	if len(view) != 2 {
		t.Fatalf("expected 2 rows for region R1, got %d", len(view))
	}
	for _, o := range view {
		if o.Region != "R1" {
			t.Errorf("row %q has region %q, want R1", o.OrderID, o.Region)
		}
	}
}

func TestApplyFilter_AndAcrossDimensions(t *testing.T) {
	sel := Selection{Regions: []string{"R1"}, SubCategories: []string{"A"}}
	view := ApplyFilter(sampleTable(), sel)

	if len(view) != 1 || view[0].OrderID != "O1" {
		t.Fatalf("expected only O1, got %+v", view)
	}
}

func TestApplyFilter_OrWithinDimension(t *testing.T) {
	sel := Selection{SubCategories: []string{"A", "B"}}
	view := ApplyFilter(sampleTable(), sel)

	if len(view) != 3 {
		t.Fatalf("expected all 3 rows for sub-categories A or B, got %d", len(view))
	}
}

func TestApplyFilter_NoMatches(t *testing.T) {
	view := ApplyFilter(sampleTable(), Selection{Categories: []string{"NonExistent"}})

	if view == nil {
		t.Fatal("filtered view should be an empty slice, not nil")
	}
	if len(view) != 0 {
		t.Fatalf("expected empty view, got %d rows", len(view))
	}
}

func TestApplyFilter_PreservesOrder(t *testing.T) {
	table := []models.Order{
		{OrderID: "O1", Region: "R1"},
		{OrderID: "O2", Region: "R2"},
		{OrderID: "O3", Region: "R1"},
		{OrderID: "O4", Region: "R1"},
	}

	view := ApplyFilter(table, Selection{Regions: []string{"R1"}})

	want := []string{"O1", "O3", "O4"}
	if len(view) != len(want) {
		t.Fatalf("expected %d rows, got %d", len(want), len(view))
	}
	for i, id := range want {
		if view[i].OrderID != id {
			t.Errorf("position %d: got %q, want %q", i, view[i].OrderID, id)
		}
	}
}

func TestParseSelection(t *testing.T) {
	query := url.Values{
		"region":       {"R1", "R2", ""},
		"sub_category": {"A"},
	}

	sel := ParseSelection(query)

	if len(sel.Regions) != 2 || sel.Regions[0] != "R1" || sel.Regions[1] != "R2" {
		t.Errorf("regions = %v, want [R1 R2]", sel.Regions)
	}
	if len(sel.Categories) != 0 {
		t.Errorf("categories = %v, want empty", sel.Categories)
	}
	if len(sel.SubCategories) != 1 || sel.SubCategories[0] != "A" {
		t.Errorf("sub-categories = %v, want [A]", sel.SubCategories)
	}
	if sel.IsEmpty() {
		t.Error("selection with values should not be empty")
	}
	if !ParseSelection(url.Values{}).IsEmpty() {
		t.Error("selection from empty query should be empty")
	}
}

func TestCollectDimensions(t *testing.T) {
	table := []models.Order{
		{Region: "West", Category: "Tech", SubCategory: "Phones"},
		{Region: "East", Category: "Tech", SubCategory: "Chairs"},
		{Region: "West", Category: "Office", SubCategory: "Phones"},
		{Region: "", Category: "Office", SubCategory: "Binders"},
	}

	dims := CollectDimensions(table)

	wantRegions := []string{"East", "West"}
	if len(dims.Regions) != len(wantRegions) {
		t.Fatalf("regions = %v, want %v", dims.Regions, wantRegions)
	}
	for i, r := range wantRegions {
		if dims.Regions[i] != r {
			t.Errorf("regions[%d] = %q, want %q", i, dims.Regions[i], r)
		}
	}

	if len(dims.Categories) != 2 {
		t.Errorf("categories = %v, want 2 distinct values", dims.Categories)
	}
	if len(dims.SubCategories) != 3 {
		t.Errorf("sub-categories = %v, want 3 distinct values", dims.SubCategories)
	}
}
