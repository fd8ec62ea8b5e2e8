package usecase

import (
	"context"
	"errors"
	"testing"
	"time"

	"demandcast/internal/domain/models"
	"demandcast/pkg/config"
)

func newTrendEngine(t *testing.T, store *fakeStore) *TrendEngine {
	t.Helper()
	return NewTrendEngine(store, nil, noopMetrics{}, testLogger(t), config.DefaultThresholds(),
		map[string]string{"GS-019": "Electric Kettle"})
}

func socialRow(d time.Time, sku, source, tag string, mentions int) models.SocialRecord {
	return models.SocialRecord{Date: d, SKU: sku, Source: source, Hashtag: tag, Mentions: mentions}
}

func TestPctChange(t *testing.T) {
	cases := []struct {
		current, previous, want int
	}{
		{0, 0, 0},
		{5, 0, 100},
		{0, 100, -100},
		{500, 100, 200}, // +400% clamps to +200
		{100, 100, 0},
		{150, 100, 50},
	}
	for _, tc := range cases {
		if got := pctChange(tc.current, tc.previous); got != tc.want {
			t.Fatalf("pctChange(%d, %d) = %d, want %d", tc.current, tc.previous, got, tc.want)
		}
	}
}

func TestMentionBaseline(t *testing.T) {
	d := day(2024, 1, 1)
	if got := mentionBaseline(nil); got != 1 {
		t.Fatalf("empty dataset baseline = %v, want 1", got)
	}
	low := []models.SocialRecord{socialRow(d, "a", "x", "#t", 0)}
	if got := mentionBaseline(low); got != 1 {
		t.Fatalf("baseline floors at 1, got %v", got)
	}
	rows := []models.SocialRecord{
		socialRow(d, "a", "x", "#t", 2),
		socialRow(d, "a", "x", "#t", 4),
		socialRow(d, "a", "x", "#t", 10),
	}
	if got := mentionBaseline(rows); got != 4 {
		t.Fatalf("odd-count median = %v, want 4", got)
	}
}

func TestSpikeZeroMentionsIsBaselineIndexed(t *testing.T) {
	// SKU Z never appears in social data: spike = round((0+1)/baseline*100).
	d := day(2024, 3, 31)
	store := &fakeStore{
		hist: flatSeries("Z", d, 10, 50),
		social: []models.SocialRecord{
			socialRow(d, "GS-019", "TikTok", "#sale", 4),
			socialRow(d, "GS-019", "TikTok", "#sale", 4),
			socialRow(d, "GS-019", "TikTok", "#sale", 4),
		},
	}
	e := newTrendEngine(t, store)

	for _, s := range e.SkuMappings(context.Background()) {
		if s.SKU == "Z" {
			if s.TrendSpike != 25 {
				t.Fatalf("expected spike round(100/4)=25, got %d", s.TrendSpike)
			}
			return
		}
	}
	t.Fatalf("expected SKU Z in mappings")
}

func TestClassify(t *testing.T) {
	e := newTrendEngine(t, &fakeStore{})
	if got := e.classify(200, 10, 0); got != models.StatusActionRequired {
		t.Fatalf("spike threshold should dominate, got %s", got)
	}
	if got := e.classify(10, 30, 10); got != models.StatusInReview {
		t.Fatalf("expected in_review, got %s", got)
	}
	if got := e.classify(10, 60, 0); got != models.StatusActionRequired {
		t.Fatalf("change24 over action threshold, got %s", got)
	}
	if got := e.classify(10, 10, 50); got != models.StatusInReview {
		t.Fatalf("change7 over review threshold, got %s", got)
	}
	if got := e.classify(10, 10, 10); got != models.StatusMonitor {
		t.Fatalf("expected monitor, got %s", got)
	}
}

func TestStockoutLadder(t *testing.T) {
	e := newTrendEngine(t, &fakeStore{})
	cases := []struct {
		avgUnits float64
		spike    int
		want     string
	}{
		{0, 500, "Unknown"},
		{50, 150, "12 hours"},
		{50, 100, "24 hours"},
		{50, 10, "36 hours"},
		{200, 10, "3 days"},
	}
	for _, tc := range cases {
		if got := e.stockoutLadder(tc.avgUnits, tc.spike); got != tc.want {
			t.Fatalf("stockoutLadder(%v, %d) = %q, want %q", tc.avgUnits, tc.spike, got, tc.want)
		}
	}
}

func TestWindowSumBoundaries(t *testing.T) {
	latest := day(2024, 3, 31)
	all := func(models.SocialRecord) bool { return true }
	rows := []models.SocialRecord{
		socialRow(latest, "a", "x", "#t", 10),
		socialRow(latest.AddDate(0, 0, -1), "a", "x", "#t", 20),
		socialRow(latest.AddDate(0, 0, -2), "a", "x", "#t", 40),
	}

	// window 1, offset 0: (latest-1, latest] -> only the latest day
	if got := windowSum(rows, all, 1, 0); got != 10 {
		t.Fatalf("current 1-day window = %d, want 10", got)
	}
	// window 1, offset 1: (latest-2, latest-1] -> only the day before
	if got := windowSum(rows, all, 1, 1); got != 20 {
		t.Fatalf("previous 1-day window = %d, want 20", got)
	}
	// window 7, offset 0 covers all three days
	if got := windowSum(rows, all, 7, 0); got != 70 {
		t.Fatalf("7-day window = %d, want 70", got)
	}
}

func TestTrendsDegradesToEmptyCollections(t *testing.T) {
	store := &fakeStore{err: errors.New("filesystem gone")}
	e := newTrendEngine(t, store)

	resp := e.Trends(context.Background())
	if len(resp.Skus) != 0 || len(resp.Keywords) != 0 || len(resp.Sources) != 0 {
		t.Fatalf("expected empty collections on dataset failure, got %+v", resp)
	}
	if resp.GeneratedAt == "" {
		t.Fatalf("expected generated_at to be set")
	}
}

func TestTopKeywordsEncounterOrderTies(t *testing.T) {
	d := day(2024, 3, 31)
	social := []models.SocialRecord{
		socialRow(d, "GS-019", "TikTok", "#first", 5),
		socialRow(d, "GS-019", "TikTok", "#second", 5),
		socialRow(d, "GS-019", "TikTok", "#third", 5),
		socialRow(d, "GS-019", "TikTok", "#fourth", 5),
	}
	got := topKeywords(social, "GS-019", 3)
	want := []string{"#first", "#second", "#third"}
	if len(got) != 3 {
		t.Fatalf("expected top 3, got %v", got)
	}
	for i := range want {
		if got[i] != want[i] {
			t.Fatalf("expected encounter-order ties %v, got %v", want, got)
		}
	}
}

func TestSkuTrendOrderingAndTitle(t *testing.T) {
	d := day(2024, 3, 31)
	store := &fakeStore{
		hist: append(flatSeries("GS-019", d, 10, 120), flatSeries("BL-101", d, 10, 80)...),
		social: []models.SocialRecord{
			socialRow(d, "GS-019", "TikTok", "#sale", 2),
			socialRow(d, "BL-101", "Instagram", "#new", 50),
		},
	}
	e := newTrendEngine(t, store)

	skus := e.SkuMappings(context.Background())
	if len(skus) != 2 {
		t.Fatalf("expected 2 SKUs, got %d", len(skus))
	}
	if skus[0].SKU != "BL-101" {
		t.Fatalf("expected highest spike first, got %s", skus[0].SKU)
	}
	// untitled SKUs echo the SKU, titled ones resolve from the catalog
	if skus[0].Title != "BL-101" {
		t.Fatalf("expected SKU echoed as title, got %q", skus[0].Title)
	}
	if skus[1].Title != "Electric Kettle" {
		t.Fatalf("expected catalog title, got %q", skus[1].Title)
	}
}

func TestRevenueAtRiskNeverNegative(t *testing.T) {
	d := day(2024, 3, 31)
	store := &fakeStore{
		// strong demand and mention volume pushes confidence toward the cap
		hist: flatSeries("GS-019", d, 14, 500),
		social: []models.SocialRecord{
			socialRow(d, "GS-019", "TikTok", "#sale", 5000),
		},
	}
	e := newTrendEngine(t, store)

	for _, s := range e.SkuMappings(context.Background()) {
		if s.RevenueAtRisk < 0 {
			t.Fatalf("revenue at risk must be non-negative, got %d", s.RevenueAtRisk)
		}
		if s.Confidence < 20 || s.Confidence > 100 {
			t.Fatalf("confidence out of range: %d", s.Confidence)
		}
	}
}

func TestSourceSharesSumToWhole(t *testing.T) {
	d := day(2024, 3, 31)
	store := &fakeStore{social: []models.SocialRecord{
		socialRow(d, "a", "TikTok", "#t", 45),
		socialRow(d, "a", "Instagram", "#t", 30),
		socialRow(d, "a", "Twitter/X", "#t", 25),
	}}
	e := newTrendEngine(t, store)

	shares := e.SourceShares(context.Background())
	if len(shares) != 3 {
		t.Fatalf("expected 3 sources, got %d", len(shares))
	}
	if shares[0].Name != "TikTok" || shares[0].Value != 45 {
		t.Fatalf("expected TikTok 45%%, got %+v", shares[0])
	}
}
