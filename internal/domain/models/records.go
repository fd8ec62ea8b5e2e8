package models

import "time"

// HistoricalRecord is one day of observed unit sales for a SKU.
// The dataset store guarantees at most one record per (sku, date) and
// drops rows whose date could not be parsed.
type HistoricalRecord struct {
	Date  time.Time
	SKU   string
	Units int
}

// SocialRecord is one aggregated mention row from a social/search source.
// SKU may be empty when the row could not be attributed; Hashtag is
// normalized (lower-case, leading '#') or empty.
type SocialRecord struct {
	Date     time.Time
	SKU      string
	Source   string
	Hashtag  string
	Mentions int
}

// SeriesPoint is a (date, units) pair in API shape.
type SeriesPoint struct {
	Date  string  `json:"date"`
	Units float64 `json:"units"`
}
