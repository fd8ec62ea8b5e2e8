package models

// SkuStatus classifies how urgently a SKU needs attention.
type SkuStatus string

const (
	StatusActionRequired SkuStatus = "action_required"
	StatusInReview       SkuStatus = "in_review"
	StatusMonitor        SkuStatus = "monitor"
)

// SourceMentions is a per-source mention total for one SKU.
type SourceMentions struct {
	Source   string `json:"source"`
	Mentions int    `json:"mentions"`
}

// SkuTrend is the per-SKU risk record recomputed fresh on every request.
type SkuTrend struct {
	SKU               string           `json:"sku"`
	Title             string           `json:"title"`
	Confidence        int              `json:"confidence"`
	TrendSpike        int              `json:"trendSpike"`
	TrendChange24     int              `json:"trendChange24"`
	TrendChange7      int              `json:"trendChange7"`
	TimeUntilStockout string           `json:"timeUntilStockout"`
	RevenueAtRisk     int              `json:"revenueAtRisk"`
	Status            SkuStatus        `json:"status"`
	Keywords          []string         `json:"keywords"`
	SourceBreakdown   []SourceMentions `json:"sourceBreakdown"`
	Mentions          int              `json:"mentions"`
}

// KeywordTrend is a hashtag-level aggregate with windowed deltas.
type KeywordTrend struct {
	Keyword  string `json:"keyword"`
	Mentions int    `json:"mentions"`
	Change24 int    `json:"change24"`
	Change7  int    `json:"change7"`
}

// SourceSignal ranks a platform by total mention volume.
type SourceSignal struct {
	Name     string `json:"name"`
	Mentions int    `json:"mentions"`
	Change24 int    `json:"change24"`
	Change7  int    `json:"change7"`
}

// SourceShare is a platform's percentage share of total mention volume,
// served by GET /api/sources.
type SourceShare struct {
	Name  string `json:"name"`
	Value int    `json:"value"`
}

// TrendsResponse is the payload served by GET /api/trends.
type TrendsResponse struct {
	Skus        []SkuTrend     `json:"skus"`
	Keywords    []KeywordTrend `json:"keywords"`
	Sources     []SourceSignal `json:"sources"`
	GeneratedAt string         `json:"generated_at"`
}

// SignalRow is the flat per-row view served by GET /api/trends/signals.
type SignalRow struct {
	ID       int    `json:"id"`
	SKU      string `json:"sku"`
	Source   string `json:"source"`
	Velocity int    `json:"velocity"`
	Keyword  string `json:"keyword"`
	Date     string `json:"date"`
}

// TopHashtag is one entry of the social feed aggregation.
type TopHashtag struct {
	Hashtag  string `json:"hashtag"`
	Mentions int    `json:"mentions"`
}

// SocialRow is a raw social record in API shape.
type SocialRow struct {
	Date     string `json:"date"`
	SKU      string `json:"sku"`
	Source   string `json:"source"`
	Hashtag  string `json:"hashtag"`
	Mentions int    `json:"mentions"`
}

// SocialFeed is the payload served by GET /api/social.
type SocialFeed struct {
	Rows        []SocialRow  `json:"rows"`
	TopHashtags []TopHashtag `json:"top_hashtags"`
}
