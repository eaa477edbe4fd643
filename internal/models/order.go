package models

import "time"

// Order is one transactional row of the retail dataset.
type Order struct {
	OrderID      string    `json:"order_id"`
	OrderDate    time.Time `json:"order_date"`
	Region       string    `json:"region"`
	Category     string    `json:"category"`
	SubCategory  string    `json:"sub_category"`
	CustomerName string    `json:"customer_name"`
	Sales        float64   `json:"sales"`
	Profit       float64   `json:"profit"`
}

type RegionSales struct {
	Region string  `json:"region"`
	Sales  float64 `json:"sales"`
}

type CategoryProfit struct {
	Category string  `json:"category"`
	Profit   float64 `json:"profit"`
}

type SubCategoryPerformance struct {
	SubCategory string  `json:"sub_category"`
	Sales       float64 `json:"sales"`
	Profit      float64 `json:"profit"`
}

// DailySales is one point of the sales-over-time series. Date is the
// calendar day formatted as 2006-01-02.
type DailySales struct {
	Date  string  `json:"date"`
	Sales float64 `json:"sales"`
}

type CustomerSales struct {
	CustomerName string  `json:"customer_name"`
	Sales        float64 `json:"sales"`
}
