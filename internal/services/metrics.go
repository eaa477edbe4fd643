package services

import (
	"slices"

	"superstore-dashboard/internal/models"
)

const dateKeyLayout = "2006-01-02"

// DefaultTopCustomers is the top-N cutoff for the customer leaderboard.
const DefaultTopCustomers = 5

// Snapshot bundles every aggregate the dashboard displays, computed from
// exactly one filtered view. All fields degrade to zero values for an
// empty view.
type Snapshot struct {
	RowCount               int                             `json:"row_count"`
	TotalSales             float64                         `json:"total_sales"`
	TotalProfit            float64                         `json:"total_profit"`
	ProfitMargin           float64                         `json:"profit_margin"`
	SalesByRegion          []models.RegionSales            `json:"sales_by_region"`
	ProfitByCategory       []models.CategoryProfit         `json:"profit_by_category"`
	SalesOverTime          []models.DailySales             `json:"sales_over_time"`
	SubCategoryPerformance []models.SubCategoryPerformance `json:"sub_category_performance"`
	TopCustomers           []models.CustomerSales          `json:"top_customers"`
}

func TotalSales(view []models.Order) float64 {
	var total float64
	for _, o := range view {
		total += o.Sales
	}
	return total
}

func TotalProfit(view []models.Order) float64 {
	var total float64
	for _, o := range view {
		total += o.Profit
	}
	return total
}

// ProfitMargin is total profit over total sales as a percentage, defined
// as 0 when total sales is 0.
func ProfitMargin(view []models.Order) float64 {
	return margin(TotalSales(view), TotalProfit(view))
}

func margin(sales, profit float64) float64 {
	if sales == 0 {
		return 0
	}
	return profit / sales * 100
}

// groupSums accumulates one float per key in a single pass, remembering
// the order keys first appeared so ties sort deterministically.
type groupSums struct {
	keys []string
	sums map[string]float64
}

func newGroupSums() *groupSums {
	return &groupSums{sums: make(map[string]float64)}
}

func (g *groupSums) add(key string, value float64) {
	if _, ok := g.sums[key]; !ok {
		g.keys = append(g.keys, key)
	}
	g.sums[key] += value
}

// SalesByRegion sums sales per region, sorted descending by sales.
// Regions absent from the view are absent from the result.
func SalesByRegion(view []models.Order) []models.RegionSales {
	groups := newGroupSums()
	for _, o := range view {
		groups.add(o.Region, o.Sales)
	}

	result := make([]models.RegionSales, 0, len(groups.keys))
	for _, region := range groups.keys {
		result = append(result, models.RegionSales{Region: region, Sales: groups.sums[region]})
	}
	slices.SortStableFunc(result, func(a, b models.RegionSales) int {
		return compareDesc(a.Sales, b.Sales)
	})
	return result
}

// ProfitByCategory sums profit per category, sorted descending by profit.
func ProfitByCategory(view []models.Order) []models.CategoryProfit {
	groups := newGroupSums()
	for _, o := range view {
		groups.add(o.Category, o.Profit)
	}

	result := make([]models.CategoryProfit, 0, len(groups.keys))
	for _, category := range groups.keys {
		result = append(result, models.CategoryProfit{Category: category, Profit: groups.sums[category]})
	}
	slices.SortStableFunc(result, func(a, b models.CategoryProfit) int {
		return compareDesc(a.Profit, b.Profit)
	})
	return result
}

// SalesOverTime sums sales per calendar day, ascending by date. Day keys
// use the 2006-01-02 layout, so lexicographic order is date order.
func SalesOverTime(view []models.Order) []models.DailySales {
	groups := newGroupSums()
	for _, o := range view {
		groups.add(o.OrderDate.Format(dateKeyLayout), o.Sales)
	}

	result := make([]models.DailySales, 0, len(groups.keys))
	for _, day := range groups.keys {
		result = append(result, models.DailySales{Date: day, Sales: groups.sums[day]})
	}
	slices.SortFunc(result, func(a, b models.DailySales) int {
		switch {
		case a.Date < b.Date:
			return -1
		case a.Date > b.Date:
			return 1
		default:
			return 0
		}
	})
	return result
}

// SubCategoryPerformance pairs summed sales and profit per sub-category,
// sorted descending by sales.
func SubCategoryPerformance(view []models.Order) []models.SubCategoryPerformance {
	sales := newGroupSums()
	profits := make(map[string]float64)
	for _, o := range view {
		sales.add(o.SubCategory, o.Sales)
		profits[o.SubCategory] += o.Profit
	}

	result := make([]models.SubCategoryPerformance, 0, len(sales.keys))
	for _, sub := range sales.keys {
		result = append(result, models.SubCategoryPerformance{
			SubCategory: sub,
			Sales:       sales.sums[sub],
			Profit:      profits[sub],
		})
	}
	slices.SortStableFunc(result, func(a, b models.SubCategoryPerformance) int {
		return compareDesc(a.Sales, b.Sales)
	})
	return result
}

// TopCustomersBySales sums sales per customer and returns at most n
// entries, descending by summed sales. Exact ties keep the order in
// which the customers first appear in the view.
func TopCustomersBySales(view []models.Order, n int) []models.CustomerSales {
	if n <= 0 {
		return []models.CustomerSales{}
	}

	groups := newGroupSums()
	for _, o := range view {
		groups.add(o.CustomerName, o.Sales)
	}

	result := make([]models.CustomerSales, 0, len(groups.keys))
	for _, name := range groups.keys {
		result = append(result, models.CustomerSales{CustomerName: name, Sales: groups.sums[name]})
	}
	slices.SortStableFunc(result, func(a, b models.CustomerSales) int {
		return compareDesc(a.Sales, b.Sales)
	})

	if len(result) > n {
		result = result[:n]
	}
	return result
}

// BuildSnapshot computes every dashboard aggregate from one view.
func BuildSnapshot(view []models.Order) *Snapshot {
	totalSales := TotalSales(view)
	totalProfit := TotalProfit(view)

	return &Snapshot{
		RowCount:               len(view),
		TotalSales:             totalSales,
		TotalProfit:            totalProfit,
		ProfitMargin:           margin(totalSales, totalProfit),
		SalesByRegion:          SalesByRegion(view),
		ProfitByCategory:       ProfitByCategory(view),
		SalesOverTime:          SalesOverTime(view),
		SubCategoryPerformance: SubCategoryPerformance(view),
		TopCustomers:           TopCustomersBySales(view, DefaultTopCustomers),
	}
}

// Render is the whole pipeline for one interaction: filter the table
// once, then derive the snapshot and the preview rows from that same
// view.
func Render(table []models.Order, sel Selection) (*Snapshot, []models.Order) {
	view := ApplyFilter(table, sel)
	return BuildSnapshot(view), view
}

func compareDesc(a, b float64) int {
	switch {
	case a > b:
		return -1
	case a < b:
		return 1
	default:
		return 0
	}
}
