package usecase

import (
	"context"
	"math"
	"sort"
	"strings"
	"time"

	"demandcast/internal/domain/models"
	domrepo "demandcast/internal/domain/repository"
	"demandcast/pkg/config"
	xlogger "demandcast/pkg/logger"
)

// TrendEngine converts social mention volume into per-SKU risk signals and
// keyword/source level summaries. Everything is recomputed fresh per request;
// a missing or unreadable dataset degrades to empty collections.
type TrendEngine struct {
	store   domrepo.DatasetStore
	live    domrepo.MentionSource // optional broker-fed buffer, may be nil
	metrics domrepo.Metrics
	logger  *xlogger.Logger
	th      config.Thresholds
	titles  map[string]string
}

func NewTrendEngine(store domrepo.DatasetStore, live domrepo.MentionSource, metrics domrepo.Metrics, logger *xlogger.Logger, th config.Thresholds, titles map[string]string) *TrendEngine {
	return &TrendEngine{store: store, live: live, metrics: metrics, logger: logger, th: th, titles: titles}
}

// Trends returns the dashboard view: top trending SKUs, keyword trends, and
// ranked signal sources.
func (e *TrendEngine) Trends(ctx context.Context) *models.TrendsResponse {
	start := time.Now()
	defer func() { e.metrics.RecordLatency("trends", time.Since(start).Seconds()) }()

	hist, social := e.loadDatasets(ctx)
	skus := e.scoreAll(hist, social)
	if len(skus) > e.th.TopSkus {
		skus = skus[:e.th.TopSkus]
	}

	return &models.TrendsResponse{
		Skus:        skus,
		Keywords:    e.keywordTrends(social),
		Sources:     e.sourceSignals(social),
		GeneratedAt: time.Now().UTC().Format("2006-01-02T15:04:05Z"),
	}
}

// SkuMappings returns the full per-SKU risk list for all known SKUs.
func (e *TrendEngine) SkuMappings(ctx context.Context) []models.SkuTrend {
	hist, social := e.loadDatasets(ctx)
	return e.scoreAll(hist, social)
}

// Signals returns the flat per-row signal view consumed by the live panel.
func (e *TrendEngine) Signals(ctx context.Context) []models.SignalRow {
	_, social := e.loadDatasets(ctx)
	rows := make([]models.SignalRow, 0, len(social))
	for i, r := range social {
		rows = append(rows, models.SignalRow{
			ID:       i + 1,
			SKU:      r.SKU,
			Source:   r.Source,
			Velocity: r.Mentions,
			Keyword:  r.Hashtag,
			Date:     formatDate(r.Date),
		})
	}
	return rows
}

// SocialFeed returns raw rows plus a top-hashtag aggregation. When hashtag is
// non-empty only rows whose hashtag contains it are returned.
func (e *TrendEngine) SocialFeed(ctx context.Context, hashtag string, topN int) *models.SocialFeed {
	_, social := e.loadDatasets(ctx)

	needle := strings.ToLower(strings.TrimPrefix(hashtag, "#"))
	rows := make([]models.SocialRow, 0, len(social))
	for _, r := range social {
		if needle != "" && !strings.Contains(r.Hashtag, needle) {
			continue
		}
		rows = append(rows, models.SocialRow{
			Date:     formatDate(r.Date),
			SKU:      r.SKU,
			Source:   r.Source,
			Hashtag:  r.Hashtag,
			Mentions: r.Mentions,
		})
	}

	totals, order := sumByKey(social, func(r models.SocialRecord) string { return r.Hashtag })
	top := make([]models.TopHashtag, 0, len(order))
	for _, tag := range rankKeys(totals, order) {
		top = append(top, models.TopHashtag{Hashtag: tag, Mentions: totals[tag]})
	}
	if len(top) > topN {
		top = top[:topN]
	}

	return &models.SocialFeed{Rows: rows, TopHashtags: top}
}

// Sources returns the ranked signal-source panel.
func (e *TrendEngine) Sources(ctx context.Context) []models.SourceSignal {
	_, social := e.loadDatasets(ctx)
	return e.sourceSignals(social)
}

// SourceShares returns each platform's percentage of total mention volume.
func (e *TrendEngine) SourceShares(ctx context.Context) []models.SourceShare {
	_, social := e.loadDatasets(ctx)
	totals, order := sumByKey(social, func(r models.SocialRecord) string { return r.Source })

	var grand int
	for _, v := range totals {
		grand += v
	}
	out := make([]models.SourceShare, 0, len(order))
	for _, src := range rankKeys(totals, order) {
		value := 0
		if grand > 0 {
			value = int(math.Round(float64(totals[src]) / float64(grand) * 100))
		}
		out = append(out, models.SourceShare{Name: src, Value: value})
	}
	return out
}

// loadDatasets reads both datasets, merging any live mention buffer into the
// social series. Read failures degrade to empty slices rather than erroring.
func (e *TrendEngine) loadDatasets(ctx context.Context) ([]models.HistoricalRecord, []models.SocialRecord) {
	hist, err := e.store.Historical(ctx)
	if err != nil {
		e.metrics.RecordError("dataset_read")
		e.logger.Warn("historic dataset unavailable, degrading to empty", xlogger.Error(err))
		hist = nil
	}
	social, err := e.store.Social(ctx)
	if err != nil {
		e.metrics.RecordError("dataset_read")
		e.logger.Warn("social dataset unavailable, degrading to empty", xlogger.Error(err))
		social = nil
	}
	if e.live != nil {
		social = append(social, e.live.Mentions()...)
	}
	return hist, social
}

// scoreAll builds a SkuTrend for every distinct SKU present in either
// dataset, sorted by trend spike descending.
func (e *TrendEngine) scoreAll(hist []models.HistoricalRecord, social []models.SocialRecord) []models.SkuTrend {
	baseline := mentionBaseline(social)

	skuSet := make(map[string]bool)
	order := make([]string, 0)
	for _, r := range hist {
		if r.SKU != "" && !skuSet[r.SKU] {
			skuSet[r.SKU] = true
			order = append(order, r.SKU)
		}
	}
	for _, r := range social {
		if r.SKU != "" && !skuSet[r.SKU] {
			skuSet[r.SKU] = true
			order = append(order, r.SKU)
		}
	}

	out := make([]models.SkuTrend, 0, len(order))
	for _, sku := range order {
		out = append(out, e.scoreSKU(sku, hist, social, baseline))
	}
	sort.SliceStable(out, func(i, j int) bool {
		if out[i].TrendSpike != out[j].TrendSpike {
			return out[i].TrendSpike > out[j].TrendSpike
		}
		if out[i].Mentions != out[j].Mentions {
			return out[i].Mentions > out[j].Mentions
		}
		return out[i].SKU < out[j].SKU
	})
	return out
}

func (e *TrendEngine) scoreSKU(sku string, hist []models.HistoricalRecord, social []models.SocialRecord, baseline float64) models.SkuTrend {
	avgUnits := trailingAvgUnits(hist, sku, 14)

	bySKU := func(r models.SocialRecord) bool { return r.SKU == sku }
	mentionsTotal := 0
	for _, r := range social {
		if bySKU(r) {
			mentionsTotal += r.Mentions
		}
	}

	change24 := pctChange(windowSum(social, bySKU, 1, 0), windowSum(social, bySKU, 1, 1))
	change7 := pctChange(windowSum(social, bySKU, 7, 0), windowSum(social, bySKU, 7, 7))

	spike := int(math.Round(float64(mentionsTotal+1) / baseline * 100))
	spike = clampInt(spike, 0, 999)

	conf := 0.2 + avgUnits/200 + float64(mentionsTotal)/float64(mentionsTotal+300)
	confidence := clampInt(int(math.Round(100*math.Min(0.98, conf))), 20, 100)

	revenueAtRisk := int(math.Round((1 - float64(confidence)/100) * float64(e.th.RevenueAtRiskBase)))
	if revenueAtRisk < 0 {
		revenueAtRisk = 0
	}

	return models.SkuTrend{
		SKU:               sku,
		Title:             e.titleFor(sku),
		Confidence:        confidence,
		TrendSpike:        spike,
		TrendChange24:     change24,
		TrendChange7:      change7,
		TimeUntilStockout: e.stockoutLadder(avgUnits, spike),
		RevenueAtRisk:     revenueAtRisk,
		Status:            e.classify(spike, change24, change7),
		Keywords:          topKeywords(social, sku, 3),
		SourceBreakdown:   sourceBreakdown(social, sku),
		Mentions:          mentionsTotal,
	}
}

// stockoutLadder maps demand and spike level to a categorical urgency.
// Rungs are checked in priority order.
func (e *TrendEngine) stockoutLadder(avgUnits float64, spike int) string {
	switch {
	case avgUnits <= 0:
		return "Unknown"
	case spike >= e.th.Spike12Hours:
		return "12 hours"
	case spike >= e.th.Spike24Hours:
		return "24 hours"
	case avgUnits < e.th.LowDemandUnits:
		return "36 hours"
	default:
		return "3 days"
	}
}

// classify applies the status ladder, first match wins.
func (e *TrendEngine) classify(spike, change24, change7 int) models.SkuStatus {
	switch {
	case spike > e.th.SpikeAction || change24 > e.th.Change24Action:
		return models.StatusActionRequired
	case change24 > e.th.Change24Review || change7 > e.th.Change7Review:
		return models.StatusInReview
	default:
		return models.StatusMonitor
	}
}

func (e *TrendEngine) titleFor(sku string) string {
	if t, ok := e.titles[sku]; ok {
		return t
	}
	return sku
}

func (e *TrendEngine) keywordTrends(social []models.SocialRecord) []models.KeywordTrend {
	totals, order := sumByKey(social, func(r models.SocialRecord) string { return r.Hashtag })
	ranked := rankKeys(totals, order)
	if len(ranked) > e.th.TopKeywords {
		ranked = ranked[:e.th.TopKeywords]
	}

	out := make([]models.KeywordTrend, 0, len(ranked))
	for _, tag := range ranked {
		byTag := func(r models.SocialRecord) bool { return r.Hashtag == tag }
		out = append(out, models.KeywordTrend{
			Keyword:  tag,
			Mentions: totals[tag],
			Change24: pctChange(windowSum(social, byTag, 1, 0), windowSum(social, byTag, 1, 1)),
			Change7:  pctChange(windowSum(social, byTag, 7, 0), windowSum(social, byTag, 7, 7)),
		})
	}
	return out
}

func (e *TrendEngine) sourceSignals(social []models.SocialRecord) []models.SourceSignal {
	totals, order := sumByKey(social, func(r models.SocialRecord) string { return r.Source })
	out := make([]models.SourceSignal, 0, len(order))
	for _, src := range rankKeys(totals, order) {
		bySrc := func(r models.SocialRecord) bool { return r.Source == src }
		out = append(out, models.SourceSignal{
			Name:     src,
			Mentions: totals[src],
			Change24: pctChange(windowSum(social, bySrc, 1, 0), windowSum(social, bySrc, 1, 1)),
			Change7:  pctChange(windowSum(social, bySrc, 7, 0), windowSum(social, bySrc, 7, 7)),
		})
	}
	return out
}

// windowSum sums mentions over the window (end-window, end] where
// end = latest observed date minus offset days. Offset 0 is the current
// window; offset == window gives the immediately preceding window.
func windowSum(social []models.SocialRecord, match func(models.SocialRecord) bool, windowDays, offsetDays int) int {
	if len(social) == 0 {
		return 0
	}
	latest := social[0].Date
	for _, r := range social {
		if r.Date.After(latest) {
			latest = r.Date
		}
	}
	end := latest.AddDate(0, 0, -offsetDays)
	start := end.AddDate(0, 0, -windowDays)

	sum := 0
	for _, r := range social {
		if r.Date.After(start) && !r.Date.After(end) && match(r) {
			sum += r.Mentions
		}
	}
	return sum
}

// pctChange is the percent delta between the current and previous window.
// A previous window of zero reads as +100% when anything happened now, 0
// otherwise; the output is clamped to ±200.
func pctChange(current, previous int) int {
	if previous <= 0 {
		if current > 0 {
			return 100
		}
		return 0
	}
	pct := int(math.Round(float64(current-previous) / float64(previous) * 100))
	return clampInt(pct, -200, 200)
}

// mentionBaseline is the global scalar every spike is indexed against: the
// median of per-row mention counts, floored at 1.
func mentionBaseline(social []models.SocialRecord) float64 {
	if len(social) == 0 {
		return 1
	}
	counts := make([]int, 0, len(social))
	for _, r := range social {
		counts = append(counts, r.Mentions)
	}
	sort.Ints(counts)

	var median float64
	n := len(counts)
	if n%2 == 1 {
		median = float64(counts[n/2])
	} else {
		median = float64(counts[n/2-1]+counts[n/2]) / 2
	}
	return math.Max(1, median)
}

// trailingAvgUnits averages the last windowLen unit observations for a SKU,
// 0 when it has none.
func trailingAvgUnits(hist []models.HistoricalRecord, sku string, windowLen int) float64 {
	subset := filterSKU(hist, sku)
	if len(subset) == 0 {
		return 0
	}
	sortByDate(subset)
	if len(subset) > windowLen {
		subset = subset[len(subset)-windowLen:]
	}
	sum := 0
	for _, r := range subset {
		sum += r.Units
	}
	return float64(sum) / float64(len(subset))
}

// topKeywords picks the SKU's top-n hashtags by summed mentions; ties keep
// encounter order.
func topKeywords(social []models.SocialRecord, sku string, n int) []string {
	subset := make([]models.SocialRecord, 0)
	for _, r := range social {
		if r.SKU == sku && r.Hashtag != "" {
			subset = append(subset, r)
		}
	}
	totals, order := sumByKey(subset, func(r models.SocialRecord) string { return r.Hashtag })
	ranked := rankKeys(totals, order)
	if len(ranked) > n {
		ranked = ranked[:n]
	}
	return ranked
}

func sourceBreakdown(social []models.SocialRecord, sku string) []models.SourceMentions {
	subset := make([]models.SocialRecord, 0)
	for _, r := range social {
		if r.SKU == sku {
			subset = append(subset, r)
		}
	}
	totals, order := sumByKey(subset, func(r models.SocialRecord) string { return r.Source })
	out := make([]models.SourceMentions, 0, len(order))
	for _, src := range rankKeys(totals, order) {
		out = append(out, models.SourceMentions{Source: src, Mentions: totals[src]})
	}
	return out
}

// sumByKey accumulates mention totals per key, remembering first-encounter
// order so ties rank deterministically.
func sumByKey(social []models.SocialRecord, key func(models.SocialRecord) string) (map[string]int, []string) {
	totals := make(map[string]int)
	order := make([]string, 0)
	for _, r := range social {
		k := key(r)
		if k == "" {
			continue
		}
		if _, seen := totals[k]; !seen {
			order = append(order, k)
		}
		totals[k] += r.Mentions
	}
	return totals, order
}

// rankKeys sorts keys by total descending, preserving encounter order on ties.
func rankKeys(totals map[string]int, order []string) []string {
	ranked := make([]string, len(order))
	copy(ranked, order)
	sort.SliceStable(ranked, func(i, j int) bool { return totals[ranked[i]] > totals[ranked[j]] })
	return ranked
}

func clampInt(v, lo, hi int) int {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}
