package inventory

import "time"

// Record is one product's production figures for one calendar day. Date is a
// YYYY-MM-DD string so the (date, product) key survives timezone changes.
type Record struct {
	ID         int64     `json:"id"`
	Date       string    `json:"date"`
	ProductID  int64     `json:"product_id"`
	TotalBaked float64   `json:"total_baked"`
	Locked     bool      `json:"locked"`
	UpdatedAt  time.Time `json:"updated_at"`
}

// Settings controls which product categories appear on the daily sheet.
type Settings struct {
	EnabledCategories []string  `json:"enabled_categories"`
	UpdatedAt         time.Time `json:"updated_at"`
}
