package models

// Forecast response shapes mirror the dashboard contract: dates travel as
// YYYY-MM-DD strings, monetary and unit values rounded to two decimals.

// ForecastPoint is one forecast day.
type ForecastPoint struct {
	Date  string  `json:"date"`
	Units float64 `json:"units"`
}

// ConfidenceIntervals holds the three index-aligned band series.
type ConfidenceIntervals struct {
	Low    []ForecastPoint `json:"low"`
	Median []ForecastPoint `json:"median"`
	High   []ForecastPoint `json:"high"`
}

// AggregateMetrics summarizes a forecast horizon.
// ExpectedRevenue is nil when the SKU has no configured unit price.
type AggregateMetrics struct {
	ExpectedUnits   float64  `json:"expected_units"`
	ExpectedRevenue *float64 `json:"expected_revenue"`
	StockoutRiskPct float64  `json:"stockout_risk_pct"`
}

// DataWindow is the observed historical date range for the SKU.
type DataWindow struct {
	Start string `json:"start"`
	End   string `json:"end"`
}

// ForecastResponse is the full payload served by GET /api/forecast and
// stored as-is in the forecast cache.
type ForecastResponse struct {
	SKU                 string              `json:"sku"`
	Region              string              `json:"region"`
	Horizon             int                 `json:"horizon"`
	TrainedAt           string              `json:"trained_at"`
	DataWindow          DataWindow          `json:"data_window"`
	PointForecast       []ForecastPoint     `json:"point_forecast"`
	ConfidenceIntervals ConfidenceIntervals `json:"confidence_intervals"`
	AggregateMetrics    AggregateMetrics    `json:"aggregate_metrics"`
	Historical          []SeriesPoint       `json:"historical"`
	Notes               string              `json:"notes"`
	ModelVersion        string              `json:"model_version"`
	LastUpdated         string              `json:"last_updated"`
	TTLSeconds          int                 `json:"ttl_seconds"`
}

// HistoricResponse is the payload served by GET /api/historic.
type HistoricResponse struct {
	SKU    string        `json:"sku"`
	Series []SeriesPoint `json:"series"`
}
