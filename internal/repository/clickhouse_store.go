package repository

import (
	"context"
	"fmt"
	"time"

	"demandcast/internal/domain/models"
	"demandcast/pkg/clickhouse"
	xlogger "demandcast/pkg/logger"
)

// ClickHouseStore serves the datasets from ClickHouse tables instead of flat
// files. Schema mirrors the CSV shape one-to-one; rows come back already
// normalized by the ingestion pipeline that wrote them.
type ClickHouseStore struct {
	client *clickhouse.Client
	logger *xlogger.Logger
}

var datasetSchema = []string{
	`CREATE TABLE IF NOT EXISTS historic_sales (
		date Date,
		sku LowCardinality(String),
		units Int32
	) ENGINE = ReplacingMergeTree ORDER BY (sku, date)`,
	`CREATE TABLE IF NOT EXISTS social_mentions (
		date Date,
		sku LowCardinality(String),
		source LowCardinality(String),
		hashtag String,
		mentions Int32
	) ENGINE = MergeTree ORDER BY (date, sku)`,
}

func NewClickHouseStore(client *clickhouse.Client, logger *xlogger.Logger) (*ClickHouseStore, error) {
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := client.InitSchema(ctx, datasetSchema); err != nil {
		return nil, fmt.Errorf("dataset schema: %w", err)
	}
	return &ClickHouseStore{client: client, logger: logger}, nil
}

func (s *ClickHouseStore) Historical(ctx context.Context) ([]models.HistoricalRecord, error) {
	// FINAL collapses ReplacingMergeTree duplicates so (sku, date) stays unique
	rows, err := s.client.DB().QueryContext(ctx,
		`SELECT date, sku, units FROM historic_sales FINAL ORDER BY sku, date`)
	if err != nil {
		return nil, fmt.Errorf("query historic_sales: %w", err)
	}
	defer rows.Close()

	var out []models.HistoricalRecord
	for rows.Next() {
		var r models.HistoricalRecord
		if err := rows.Scan(&r.Date, &r.SKU, &r.Units); err != nil {
			s.logger.Warn("skipping unreadable historic row", xlogger.Error(err))
			continue
		}
		out = append(out, r)
	}
	return out, rows.Err()
}

func (s *ClickHouseStore) Social(ctx context.Context) ([]models.SocialRecord, error) {
	rows, err := s.client.DB().QueryContext(ctx,
		`SELECT date, sku, source, hashtag, mentions FROM social_mentions ORDER BY date`)
	if err != nil {
		return nil, fmt.Errorf("query social_mentions: %w", err)
	}
	defer rows.Close()

	var out []models.SocialRecord
	for rows.Next() {
		var r models.SocialRecord
		if err := rows.Scan(&r.Date, &r.SKU, &r.Source, &r.Hashtag, &r.Mentions); err != nil {
			s.logger.Warn("skipping unreadable social row", xlogger.Error(err))
			continue
		}
		out = append(out, r)
	}
	return out, rows.Err()
}

func (s *ClickHouseStore) Close() error { return s.client.Close() }
