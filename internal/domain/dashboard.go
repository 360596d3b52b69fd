package domain

import "time"

// DashboardQuery selects the analytics window. Category only narrows the
// stale-SKU list; leaderboards always cover all categories.
type DashboardQuery struct {
	WindowDays int    `json:"window_days"`
	StaleDays  int    `json:"stale_days"`
	Category   string `json:"category,omitempty"`
}

// CategoryTotal is one leaderboard row of executed pull quantity per category.
type CategoryTotal struct {
	Category string `json:"category"`
	PullQty  int    `json:"pull_qty"`
}

// SKUTotal is one leaderboard row of executed pull quantity per (category, sku).
type SKUTotal struct {
	Category string `json:"category"`
	SKU      string `json:"sku"`
	PullQty  int    `json:"pull_qty"`
}

// StaleItem is an in-stock key with no recent (or no) completed pull.
type StaleItem struct {
	SKU            string     `json:"sku"`
	Size           string     `json:"size"`
	Color          string     `json:"color"`
	Category       string     `json:"category"`
	Qty            int        `json:"qty"`
	LastExecutedAt *time.Time `json:"last_executed_at,omitempty"`
}

// DashboardPayload is the full analytics response.
type DashboardPayload struct {
	WindowDays    int             `json:"window_days"`
	StaleDays     int             `json:"stale_days"`
	Category      string          `json:"category,omitempty"`
	GeneratedAt   time.Time       `json:"generated_at"`
	TopCategories []CategoryTotal `json:"top_categories"`
	TopSKUs       []SKUTotal      `json:"top_skus"`
	NoReplan      []StaleItem     `json:"no_replan"`
}
