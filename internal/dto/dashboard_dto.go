package dto

import "time"

type DashboardCounts struct {
	Brands    int64 `json:"brands"`
	Customers int64 `json:"customers"`
	Products  int64 `json:"products"`
	Orders    int64 `json:"orders"`
}

// NamedCount is one bucket of a grouped count.
type NamedCount struct {
	Name  string `json:"name"`
	Count int64  `json:"count"`
}

type DashboardResponse struct {
	Counts         DashboardCounts `json:"counts"`
	OrdersByBrand  []NamedCount    `json:"orders_by_brand"`
	OrdersByStatus []NamedCount    `json:"orders_by_status"`
	GeneratedAt    time.Time       `json:"generated_at"`
}

// TrendPoint is one month of a trend series.
type TrendPoint struct {
	Month      string `json:"month"` // YYYY-MM
	Count      int64  `json:"count"`
	Cumulative int64  `json:"cumulative"`
}

type TrendsResponse struct {
	Brands    []TrendPoint `json:"brands"`
	Customers []TrendPoint `json:"customers"`
	Orders    []TrendPoint `json:"orders"`
	Products  []TrendPoint `json:"products"`
}
