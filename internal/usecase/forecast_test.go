package usecase

import (
	"context"
	"errors"
	"testing"
	"time"

	"demandcast/internal/domain/models"
	xhttp "demandcast/pkg/http"
	"demandcast/pkg/logger"
)

type fakeStore struct {
	hist   []models.HistoricalRecord
	social []models.SocialRecord
	err    error
}

func (f *fakeStore) Historical(context.Context) ([]models.HistoricalRecord, error) {
	return f.hist, f.err
}

func (f *fakeStore) Social(context.Context) ([]models.SocialRecord, error) {
	return f.social, f.err
}

func (f *fakeStore) Close() error { return nil }

type fakeCache struct {
	m map[string]*models.ForecastResponse
}

func newFakeCache() *fakeCache { return &fakeCache{m: make(map[string]*models.ForecastResponse)} }

func (f *fakeCache) Get(_ context.Context, key string) (*models.ForecastResponse, bool) {
	v, ok := f.m[key]
	return v, ok
}

func (f *fakeCache) Set(_ context.Context, key string, v *models.ForecastResponse, _ time.Duration) {
	f.m[key] = v
}

type noopMetrics struct{}

func (noopMetrics) RecordRequest(string)          {}
func (noopMetrics) RecordCacheHit(string)         {}
func (noopMetrics) RecordCacheMiss(string)        {}
func (noopMetrics) RecordError(string)            {}
func (noopMetrics) RecordLatency(string, float64) {}
func (noopMetrics) RecordMentionIngested(string)  {}

func testLogger(t *testing.T) *logger.Logger {
	t.Helper()
	l, err := logger.New(&logger.Config{Level: "error", Format: "console", Output: "stdout"})
	if err != nil {
		t.Fatalf("logger: %v", err)
	}
	return l
}

func day(y int, m time.Month, d int) time.Time {
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}

// flatSeries builds n consecutive days of constant unit sales ending at end.
func flatSeries(sku string, end time.Time, n, units int) []models.HistoricalRecord {
	out := make([]models.HistoricalRecord, 0, n)
	for i := n - 1; i >= 0; i-- {
		out = append(out, models.HistoricalRecord{Date: end.AddDate(0, 0, -i), SKU: sku, Units: units})
	}
	return out
}

func newForecastEngine(t *testing.T, store *fakeStore, cache *fakeCache) *ForecastEngine {
	t.Helper()
	return NewForecastEngine(store, cache, noopMetrics{}, testLogger(t), ForecastConfig{
		Prices: map[string]float64{"GS-019": 280.0},
	})
}

func TestForecastHorizonShape(t *testing.T) {
	end := day(2024, 3, 31)
	store := &fakeStore{hist: flatSeries("GS-019", end, 30, 120)}
	e := newForecastEngine(t, store, newFakeCache())

	resp, err := e.Forecast(context.Background(), models.ForecastRequest{SKU: "GS-019", Horizon: 7, Region: "global"})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(resp.PointForecast) != 7 {
		t.Fatalf("expected 7 points, got %d", len(resp.PointForecast))
	}
	for i, p := range resp.PointForecast {
		want := end.AddDate(0, 0, i+1).Format("2006-01-02")
		if p.Date != want {
			t.Fatalf("point %d: expected date %s, got %s", i, want, p.Date)
		}
		if p.Units < 1.0 {
			t.Fatalf("point %d: expected units >= 1.0, got %v", i, p.Units)
		}
	}
	if resp.DataWindow.End != end.Format("2006-01-02") {
		t.Fatalf("unexpected data window end %s", resp.DataWindow.End)
	}
}

func TestForecastBandOrdering(t *testing.T) {
	store := &fakeStore{hist: flatSeries("GS-019", day(2024, 3, 31), 30, 85)}
	e := newForecastEngine(t, store, newFakeCache())

	resp, err := e.Forecast(context.Background(), models.ForecastRequest{SKU: "GS-019", Horizon: 14, Region: "global"})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	ci := resp.ConfidenceIntervals
	if len(ci.Low) != 14 || len(ci.Median) != 14 || len(ci.High) != 14 {
		t.Fatalf("expected index-aligned bands of 14")
	}
	for i := range ci.Median {
		if ci.Low[i].Units > ci.Median[i].Units || ci.Median[i].Units > ci.High[i].Units {
			t.Fatalf("point %d: band ordering violated: %v %v %v",
				i, ci.Low[i].Units, ci.Median[i].Units, ci.High[i].Units)
		}
	}
}

func TestForecastWeekdayExample(t *testing.T) {
	// 14 days: one week of 100, one week of 200. Every weekday averages 150,
	// so all multipliers are 1.0 and each point equals the rolling mean.
	end := day(2024, 3, 31)
	hist := make([]models.HistoricalRecord, 0, 14)
	for i := 13; i >= 0; i-- {
		units := 100
		if i < 7 {
			units = 200
		}
		hist = append(hist, models.HistoricalRecord{Date: end.AddDate(0, 0, -i), SKU: "X", Units: units})
	}
	e := newForecastEngine(t, &fakeStore{hist: hist}, newFakeCache())

	resp, err := e.Forecast(context.Background(), models.ForecastRequest{SKU: "X", Horizon: 7, Region: "global"})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	var sum float64
	for _, p := range resp.PointForecast {
		if p.Units != 150.0 {
			t.Fatalf("expected every point to equal the rolling mean 150, got %v", p.Units)
		}
		sum += p.Units
	}
	if sum != 1050.0 {
		t.Fatalf("expected horizon sum 1050, got %v", sum)
	}
	if resp.AggregateMetrics.ExpectedUnits != 1050.0 {
		t.Fatalf("unexpected expected_units %v", resp.AggregateMetrics.ExpectedUnits)
	}
}

func TestForecastCacheReplay(t *testing.T) {
	store := &fakeStore{hist: flatSeries("GS-019", day(2024, 3, 31), 30, 100)}
	e := newForecastEngine(t, store, newFakeCache())
	req := models.ForecastRequest{SKU: "GS-019", Horizon: 7, Region: "eu"}

	first, err := e.Forecast(context.Background(), req)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	second, err := e.Forecast(context.Background(), req)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if first != second {
		t.Fatalf("expected second call to replay the cached response")
	}
}

func TestForecastRegionSeparatesCacheKeys(t *testing.T) {
	store := &fakeStore{hist: flatSeries("GS-019", day(2024, 3, 31), 30, 100)}
	e := newForecastEngine(t, store, newFakeCache())

	eu, _ := e.Forecast(context.Background(), models.ForecastRequest{SKU: "GS-019", Horizon: 7, Region: "eu"})
	us, _ := e.Forecast(context.Background(), models.ForecastRequest{SKU: "GS-019", Horizon: 7, Region: "us"})
	if eu == us {
		t.Fatalf("expected distinct cache entries per region")
	}
	if us.Region != "us" {
		t.Fatalf("expected region echoed back, got %q", us.Region)
	}
}

func TestForecastUnknownSKU(t *testing.T) {
	store := &fakeStore{hist: flatSeries("GS-019", day(2024, 3, 31), 30, 100)}
	e := newForecastEngine(t, store, newFakeCache())

	_, err := e.Forecast(context.Background(), models.ForecastRequest{SKU: "NOPE", Horizon: 7, Region: "global"})
	var appErr *xhttp.AppError
	if !errors.As(err, &appErr) || appErr.Status != 404 {
		t.Fatalf("expected 404 AppError, got %v", err)
	}
}

func TestForecastBadStartDate(t *testing.T) {
	store := &fakeStore{hist: flatSeries("GS-019", day(2024, 3, 31), 30, 100)}
	e := newForecastEngine(t, store, newFakeCache())

	_, err := e.Forecast(context.Background(), models.ForecastRequest{
		SKU: "GS-019", Horizon: 7, Region: "global", StartDate: "31-03-2024",
	})
	var appErr *xhttp.AppError
	if !errors.As(err, &appErr) || appErr.Status != 400 {
		t.Fatalf("expected 400 AppError, got %v", err)
	}
}

func TestForecastBadHorizon(t *testing.T) {
	store := &fakeStore{hist: flatSeries("GS-019", day(2024, 3, 31), 30, 100)}
	e := newForecastEngine(t, store, newFakeCache())

	_, err := e.Forecast(context.Background(), models.ForecastRequest{SKU: "GS-019", Horizon: 9, Region: "global"})
	var appErr *xhttp.AppError
	if !errors.As(err, &appErr) || appErr.Status != 400 {
		t.Fatalf("expected 400 AppError, got %v", err)
	}
}

func TestForecastUnknownSKUWinsOverBadHorizon(t *testing.T) {
	// SKU existence is checked before the horizon, so both being wrong is a 404
	store := &fakeStore{hist: flatSeries("GS-019", day(2024, 3, 31), 30, 100)}
	e := newForecastEngine(t, store, newFakeCache())

	_, err := e.Forecast(context.Background(), models.ForecastRequest{SKU: "NOPE", Horizon: 9, Region: "global"})
	var appErr *xhttp.AppError
	if !errors.As(err, &appErr) || appErr.Status != 404 {
		t.Fatalf("expected 404 AppError, got %v", err)
	}
}

func TestForecastDefaultsUnseenWeekdays(t *testing.T) {
	// Mon/Tue/Wed observed at 50/100/150; the other four weekdays fall back to
	// multiplier 1.0, so their points equal the rolling mean of 100.
	hist := []models.HistoricalRecord{
		{Date: day(2024, 4, 1), SKU: "X", Units: 50},
		{Date: day(2024, 4, 2), SKU: "X", Units: 100},
		{Date: day(2024, 4, 3), SKU: "X", Units: 150},
	}

	multipliers := weekdayMultipliers(hist)
	if len(multipliers) != 7 {
		t.Fatalf("expected 7 weekday entries, got %d", len(multipliers))
	}
	for _, wd := range []time.Weekday{time.Thursday, time.Friday, time.Saturday, time.Sunday} {
		if multipliers[int(wd)] != 1.0 {
			t.Fatalf("expected unobserved %s to default to 1.0, got %v", wd, multipliers[int(wd)])
		}
	}
	if multipliers[int(time.Monday)] != 0.5 || multipliers[int(time.Wednesday)] != 1.5 {
		t.Fatalf("unexpected observed multipliers %v", multipliers)
	}

	e := newForecastEngine(t, &fakeStore{hist: hist}, newFakeCache())
	resp, err := e.Forecast(context.Background(), models.ForecastRequest{SKU: "X", Horizon: 7, Region: "global"})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	// forecast starts Thursday 2024-04-04
	for i := 0; i < 4; i++ {
		if resp.PointForecast[i].Units != 100.0 {
			t.Fatalf("point %d: expected rolling mean 100 on an unobserved weekday, got %v", i, resp.PointForecast[i].Units)
		}
	}
	if resp.PointForecast[4].Units != 50.0 {
		t.Fatalf("expected Monday point 50, got %v", resp.PointForecast[4].Units)
	}
}

func TestForecastExpectedRevenue(t *testing.T) {
	end := day(2024, 3, 31)
	store := &fakeStore{hist: append(flatSeries("GS-019", end, 30, 100), flatSeries("NO-PRICE", end, 30, 100)...)}
	e := newForecastEngine(t, store, newFakeCache())

	priced, _ := e.Forecast(context.Background(), models.ForecastRequest{SKU: "GS-019", Horizon: 7, Region: "global"})
	if priced.AggregateMetrics.ExpectedRevenue == nil {
		t.Fatalf("expected revenue for a priced SKU")
	}
	unpriced, _ := e.Forecast(context.Background(), models.ForecastRequest{SKU: "NO-PRICE", Horizon: 7, Region: "global"})
	if unpriced.AggregateMetrics.ExpectedRevenue != nil {
		t.Fatalf("expected nil revenue for an unpriced SKU")
	}
}

func TestHistoricUnknownSKU(t *testing.T) {
	e := newForecastEngine(t, &fakeStore{}, newFakeCache())
	_, err := e.Historic(context.Background(), "NOPE")
	var appErr *xhttp.AppError
	if !errors.As(err, &appErr) || appErr.Status != 404 {
		t.Fatalf("expected 404 AppError, got %v", err)
	}
}

func TestHistoricSortedSeries(t *testing.T) {
	hist := []models.HistoricalRecord{
		{Date: day(2024, 1, 3), SKU: "GS-019", Units: 3},
		{Date: day(2024, 1, 1), SKU: "GS-019", Units: 1},
		{Date: day(2024, 1, 2), SKU: "GS-019", Units: 2},
	}
	e := newForecastEngine(t, &fakeStore{hist: hist}, newFakeCache())

	resp, err := e.Historic(context.Background(), "GS-019")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	for i, p := range resp.Series {
		if p.Units != float64(i+1) {
			t.Fatalf("expected chronological series, got %v", resp.Series)
		}
	}
}

func TestStockoutRiskScalesWithHorizon(t *testing.T) {
	store := &fakeStore{hist: flatSeries("GS-019", day(2024, 3, 31), 30, 100)}
	e := newForecastEngine(t, store, newFakeCache())

	r7, _ := e.Forecast(context.Background(), models.ForecastRequest{SKU: "GS-019", Horizon: 7, Region: "global"})
	r30, _ := e.Forecast(context.Background(), models.ForecastRequest{SKU: "GS-019", Horizon: 30, Region: "global"})
	if r7.AggregateMetrics.StockoutRiskPct != 13.5 {
		t.Fatalf("expected 13.5 for horizon 7, got %v", r7.AggregateMetrics.StockoutRiskPct)
	}
	if r30.AggregateMetrics.StockoutRiskPct != 25.0 {
		t.Fatalf("expected 25.0 for horizon 30, got %v", r30.AggregateMetrics.StockoutRiskPct)
	}
}
