package usecase

import (
	"context"
	"fmt"
	"math"
	"sort"
	"time"

	"demandcast/internal/domain/models"
	domrepo "demandcast/internal/domain/repository"
	xhttp "demandcast/pkg/http"
	xlogger "demandcast/pkg/logger"
	"demandcast/pkg/util"
)

const forecastNotes = "stub: 28-day rolling mean + weekday multiplier"

// ForecastConfig carries the knobs the engine needs beyond its dependencies.
// Prices and Titles are the static catalog tables, injected so tests can swap
// them without touching config files.
type ForecastConfig struct {
	WindowDays   int
	ModelVersion string
	TTL          time.Duration
	Prices       map[string]float64
}

// ForecastEngine produces per-SKU demand forecasts from the historical
// dataset. No fitted model: a trailing rolling mean modulated by weekday
// multipliers, with fixed-ratio confidence bands.
type ForecastEngine struct {
	store   domrepo.DatasetStore
	cache   domrepo.ForecastCache
	metrics domrepo.Metrics
	logger  *xlogger.Logger
	cfg     ForecastConfig
}

func NewForecastEngine(store domrepo.DatasetStore, cache domrepo.ForecastCache, metrics domrepo.Metrics, logger *xlogger.Logger, cfg ForecastConfig) *ForecastEngine {
	if cfg.WindowDays <= 0 {
		cfg.WindowDays = 28
	}
	if cfg.ModelVersion == "" {
		cfg.ModelVersion = "v0.1-stub"
	}
	if cfg.TTL <= 0 {
		cfg.TTL = 86_400 * time.Second
	}
	return &ForecastEngine{store: store, cache: cache, metrics: metrics, logger: logger, cfg: cfg}
}

// Historic returns the observed (date, units) series for one SKU.
func (e *ForecastEngine) Historic(ctx context.Context, sku string) (*models.HistoricResponse, error) {
	records, err := e.store.Historical(ctx)
	if err != nil {
		e.metrics.RecordError("dataset_read")
		return nil, xhttp.InternalErrorf("historic dataset unavailable: %v", err)
	}
	subset := filterSKU(records, sku)
	if len(subset) == 0 {
		return nil, xhttp.NotFoundErrorf("SKU %s not found in historic data", sku)
	}
	sortByDate(subset)

	series := make([]models.SeriesPoint, 0, len(subset))
	for _, r := range subset {
		series = append(series, models.SeriesPoint{Date: formatDate(r.Date), Units: float64(r.Units)})
	}
	return &models.HistoricResponse{SKU: sku, Series: series}, nil
}

// Forecast assembles (or replays from cache) the full forecast response.
func (e *ForecastEngine) Forecast(ctx context.Context, req models.ForecastRequest) (*models.ForecastResponse, error) {
	start := time.Now()
	defer func() { e.metrics.RecordLatency("forecast", time.Since(start).Seconds()) }()

	records, err := e.store.Historical(ctx)
	if err != nil {
		e.metrics.RecordError("dataset_read")
		return nil, xhttp.InternalErrorf("historic dataset unavailable: %v", err)
	}
	subset := filterSKU(records, req.SKU)
	if len(subset) == 0 {
		return nil, xhttp.NotFoundErrorf("SKU %s not found in historic data", req.SKU)
	}
	sortByDate(subset)
	latest := subset[len(subset)-1].Date

	// SKU existence is checked first, so an unknown SKU is a 404 even when
	// the horizon is also bad.
	if req.Horizon != 7 && req.Horizon != 14 && req.Horizon != 30 {
		return nil, xhttp.BadRequestError("horizon must be one of 7, 14, or 30")
	}

	forecastStart, err := resolveStart(req.StartDate, latest)
	if err != nil {
		return nil, err
	}

	key := cacheKey(req.SKU, req.Horizon, req.Region, forecastStart)
	if cached, ok := e.cache.Get(ctx, key); ok {
		e.metrics.RecordCacheHit("forecast")
		return cached, nil
	}
	e.metrics.RecordCacheMiss("forecast")

	multipliers := weekdayMultipliers(subset)
	rolling := rollingMean(subset, e.cfg.WindowDays)

	points := make([]models.ForecastPoint, 0, req.Horizon)
	for i := 0; i < req.Horizon; i++ {
		day := forecastStart.AddDate(0, 0, i)
		value := math.Max(1.0, rolling*multipliers[int(day.Weekday())])
		points = append(points, models.ForecastPoint{Date: formatDate(day), Units: round2(value)})
	}

	resp := &models.ForecastResponse{
		SKU:     req.SKU,
		Region:  req.Region,
		Horizon: req.Horizon,
		DataWindow: models.DataWindow{
			Start: formatDate(subset[0].Date),
			End:   formatDate(latest),
		},
		PointForecast:       points,
		ConfidenceIntervals: confidenceIntervals(points),
		AggregateMetrics:    e.aggregateMetrics(points, req.Horizon, req.SKU),
		Historical:          tailSeries(subset, maxInt(e.cfg.WindowDays, req.Horizon)),
		Notes:               forecastNotes,
		ModelVersion:        e.cfg.ModelVersion,
		TTLSeconds:          int(e.cfg.TTL / time.Second),
	}
	now := time.Now().UTC().Format("2006-01-02T15:04:05Z")
	resp.TrainedAt = now
	resp.LastUpdated = now

	e.logger.Warn("returning stub forecast",
		xlogger.String("sku", req.SKU),
		xlogger.Int("horizon", req.Horizon),
		xlogger.String("region", req.Region),
	)

	e.cache.Set(ctx, key, resp, e.cfg.TTL)
	return resp, nil
}

// resolveStart picks the forecast start: the supplied date when present, the
// day after the latest observation otherwise.
func resolveStart(startDate string, latest time.Time) (time.Time, error) {
	if startDate == "" {
		return latest.AddDate(0, 0, 1), nil
	}
	t, ok := util.ParseDate(startDate)
	if !ok {
		return time.Time{}, xhttp.BadRequestError("start_date must be YYYY-MM-DD")
	}
	return t, nil
}

func cacheKey(sku string, horizon int, region string, start time.Time) string {
	return fmt.Sprintf("%s|%d|%s|%s", sku, horizon, region, formatDate(start))
}

// weekdayMultipliers derives the seasonal table: per-weekday mean units over
// the overall mean (floored at 1.0). Weekdays with no observations get 1.0;
// the table is always fully populated.
func weekdayMultipliers(records []models.HistoricalRecord) [7]float64 {
	var multipliers [7]float64
	for i := range multipliers {
		multipliers[i] = 1.0
	}
	if len(records) == 0 {
		return multipliers
	}

	var overall float64
	var sums, counts [7]float64
	for _, r := range records {
		wd := int(r.Date.Weekday())
		sums[wd] += float64(r.Units)
		counts[wd]++
		overall += float64(r.Units)
	}
	overall = math.Max(overall/float64(len(records)), 1.0)

	for wd := 0; wd < 7; wd++ {
		if counts[wd] > 0 {
			multipliers[wd] = round2(sums[wd] / counts[wd] / overall)
		}
	}
	return multipliers
}

// rollingMean averages units over the inclusive trailing window ending at the
// latest observed date. Empty window degrades to 1.0.
func rollingMean(records []models.HistoricalRecord, windowDays int) float64 {
	if len(records) == 0 {
		return 1.0
	}
	latest := records[0].Date
	for _, r := range records {
		if r.Date.After(latest) {
			latest = r.Date
		}
	}
	windowStart := latest.AddDate(0, 0, -(windowDays - 1))

	var sum float64
	var n int
	for _, r := range records {
		if !r.Date.Before(windowStart) && !r.Date.After(latest) {
			sum += float64(r.Units)
			n++
		}
	}
	if n == 0 {
		return 1.0
	}
	return sum / float64(n)
}

// confidenceIntervals derives the fixed-ratio band from the point forecast.
// This is a declared stub, not a fitted interval.
func confidenceIntervals(points []models.ForecastPoint) models.ConfidenceIntervals {
	ci := models.ConfidenceIntervals{
		Low:    make([]models.ForecastPoint, 0, len(points)),
		Median: make([]models.ForecastPoint, 0, len(points)),
		High:   make([]models.ForecastPoint, 0, len(points)),
	}
	for _, p := range points {
		ci.Low = append(ci.Low, models.ForecastPoint{Date: p.Date, Units: round2(p.Units * 0.7)})
		ci.Median = append(ci.Median, p)
		ci.High = append(ci.High, models.ForecastPoint{Date: p.Date, Units: round2(p.Units * 1.3)})
	}
	return ci
}

func (e *ForecastEngine) aggregateMetrics(points []models.ForecastPoint, horizon int, sku string) models.AggregateMetrics {
	var expectedUnits float64
	for _, p := range points {
		expectedUnits += p.Units
	}
	expectedUnits = round2(expectedUnits)

	var expectedRevenue *float64
	if price, ok := e.cfg.Prices[sku]; ok {
		v := round2(expectedUnits * price)
		expectedRevenue = &v
	}

	risk := math.Min(50.0, math.Max(5.0, 10.0+float64(horizon)*0.5))

	return models.AggregateMetrics{
		ExpectedUnits:   expectedUnits,
		ExpectedRevenue: expectedRevenue,
		StockoutRiskPct: round2(risk),
	}
}

func tailSeries(records []models.HistoricalRecord, limit int) []models.SeriesPoint {
	if len(records) > limit {
		records = records[len(records)-limit:]
	}
	out := make([]models.SeriesPoint, 0, len(records))
	for _, r := range records {
		out = append(out, models.SeriesPoint{Date: formatDate(r.Date), Units: float64(r.Units)})
	}
	return out
}

func filterSKU(records []models.HistoricalRecord, sku string) []models.HistoricalRecord {
	out := make([]models.HistoricalRecord, 0, len(records))
	for _, r := range records {
		if r.SKU == sku {
			out = append(out, r)
		}
	}
	return out
}

func sortByDate(records []models.HistoricalRecord) {
	sort.SliceStable(records, func(i, j int) bool { return records[i].Date.Before(records[j].Date) })
}

func formatDate(t time.Time) string { return t.Format("2006-01-02") }

func round2(v float64) float64 { return math.Round(v*100) / 100 }

func maxInt(a, b int) int {
	if a > b {
		return a
	}
	return b
}
