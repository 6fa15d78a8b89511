package tracking

import "time"

// TopN is the ranking depth for popular pages and referrers.
const TopN = 10

// PageCount ranks a (url, title) pair by view count.
type PageCount struct {
	PageURL   string `json:"page_url"`
	PageTitle string `json:"page_title"`
	Views     int64  `json:"views"`
}

// ReferrerCount ranks a non-empty referrer by view count.
type ReferrerCount struct {
	Referrer string `json:"referrer"`
	Views    int64  `json:"views"`
}

// DailyCount is one point of the per-day view series. Days with zero views
// are absent; consumers treat absence as zero.
type DailyCount struct {
	Day   string `json:"day"` // YYYY-MM-DD
	Views int64  `json:"views"`
}

// PageNumberCount is the per-page breakdown of pdf_page views.
type PageNumberCount struct {
	PageNumber int   `json:"page"`
	Views      int64 `json:"views"`
}

// SiteSummary is the windowed dashboard aggregate over page views.
type SiteSummary struct {
	WindowDays     int             `json:"window_days"`
	Since          time.Time       `json:"since"`
	TotalViews     int64           `json:"total_views"`
	UniqueVisitors int64           `json:"unique_visitors"`
	TopPages       []PageCount     `json:"top_pages"`
	DailyViews     []DailyCount    `json:"daily_views"`
	TopReferrers   []ReferrerCount `json:"top_referrers"`
}

// ProductSummary is the windowed aggregate for a single product.
type ProductSummary struct {
	ProductID  int64             `json:"product_id"`
	WindowDays int               `json:"window_days"`
	Since      time.Time         `json:"since"`
	TotalViews int64             `json:"total_views"`
	UniqueIPs  int64             `json:"unique_ips"`
	PageViews  []PageNumberCount `json:"page_views"`
}

// WindowStart returns the inclusive lower bound of a trailing N-day window.
// Rows with timestamp >= the returned instant are inside the window.
func WindowStart(now time.Time, days int) time.Time {
	if days <= 0 {
		days = 30
	}
	return now.UTC().AddDate(0, 0, -days)
}
