package repository

import (
	"context"
	"time"

	"demandcast/internal/domain/models"
)

// DatasetStore loads the two logical datasets the engines consume. Each call
// reads the full dataset; rows already conform to the domain invariants
// (normalized columns, deduplicated, unparsable dates dropped).
type DatasetStore interface {
	Historical(ctx context.Context) ([]models.HistoricalRecord, error)
	Social(ctx context.Context) ([]models.SocialRecord, error)
	Close() error
}

// ForecastCache stores assembled forecast responses keyed by request shape.
// Reads must treat entries past their expiry as misses (lazy eviction);
// writes overwrite unconditionally.
type ForecastCache interface {
	Get(ctx context.Context, key string) (*models.ForecastResponse, bool)
	Set(ctx context.Context, key string, value *models.ForecastResponse, ttl time.Duration)
}

// MentionSource exposes mention rows collected outside the primary dataset,
// e.g. a live ingest buffer fed from a broker.
type MentionSource interface {
	Mentions() []models.SocialRecord
}

type Metrics interface {
	RecordRequest(endpoint string)
	RecordCacheHit(op string)
	RecordCacheMiss(op string)
	RecordError(kind string)
	RecordLatency(op string, seconds float64)
	RecordMentionIngested(source string)
}
