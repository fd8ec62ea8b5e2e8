package repository

import (
	"context"
	"encoding/csv"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"sort"
	"strconv"
	"strings"

	"demandcast/internal/domain/models"
	xlogger "demandcast/pkg/logger"
	"demandcast/pkg/util"
)

// CSVStore reads the two datasets from flat CSV files on every call, applying
// the same normalization the ingestion pipeline does: column aliases, type
// coercion, hashtag cleanup, and (sku, date) deduplication. Malformed rows are
// dropped, never fatal.
type CSVStore struct {
	historicPath string
	socialPath   string
	logger       *xlogger.Logger
}

func NewCSVStore(dir, historicFile, socialFile string, logger *xlogger.Logger) *CSVStore {
	return &CSVStore{
		historicPath: filepath.Join(dir, historicFile),
		socialPath:   filepath.Join(dir, socialFile),
		logger:       logger,
	}
}

var historicAliases = map[string]string{
	"date": "date", "ds": "date", "day": "date",
	"sku": "sku", "product": "sku", "sku_id": "sku",
	"units": "units", "sales": "units", "quantity": "units", "qty": "units",
}

var socialAliases = map[string]string{
	"date": "date", "ts": "date", "timestamp": "date",
	"hashtag": "hashtag", "tag": "hashtag", "topic": "hashtag",
	"mentions": "mentions", "count": "mentions", "mentions_count": "mentions",
	"source": "source", "platform": "source",
	"sku": "sku", "product": "sku",
}

func (s *CSVStore) Historical(ctx context.Context) ([]models.HistoricalRecord, error) {
	rows, cols, err := s.readAll(ctx, s.historicPath, historicAliases)
	if err != nil {
		return nil, err
	}

	type key struct {
		sku  string
		date string
	}
	latest := make(map[key]int) // keep-last dedup per (sku, date)
	out := make([]models.HistoricalRecord, 0, len(rows))
	for _, row := range rows {
		date, ok := util.ParseDate(cell(row, cols, "date"))
		if !ok {
			continue
		}
		sku := cell(row, cols, "sku")
		if sku == "" {
			sku = "UNK"
		}
		rec := models.HistoricalRecord{
			Date:  date,
			SKU:   sku,
			Units: coerceInt(cell(row, cols, "units")),
		}
		k := key{sku: rec.SKU, date: cell(row, cols, "date")}
		if i, seen := latest[k]; seen {
			out[i] = rec
			continue
		}
		latest[k] = len(out)
		out = append(out, rec)
	}

	sort.SliceStable(out, func(i, j int) bool {
		if out[i].SKU != out[j].SKU {
			return out[i].SKU < out[j].SKU
		}
		return out[i].Date.Before(out[j].Date)
	})
	return out, nil
}

func (s *CSVStore) Social(ctx context.Context) ([]models.SocialRecord, error) {
	rows, cols, err := s.readAll(ctx, s.socialPath, socialAliases)
	if err != nil {
		return nil, err
	}

	seen := make(map[string]struct{}, len(rows)) // full-row dedup
	out := make([]models.SocialRecord, 0, len(rows))
	for _, row := range rows {
		date, ok := util.ParseDate(cell(row, cols, "date"))
		if !ok {
			continue
		}
		source := cell(row, cols, "source")
		if source == "" {
			source = "unknown"
		}
		rec := models.SocialRecord{
			Date:     date,
			SKU:      cell(row, cols, "sku"),
			Source:   source,
			Hashtag:  normalizeHashtag(cell(row, cols, "hashtag")),
			Mentions: coerceInt(cell(row, cols, "mentions")),
		}
		k := fmt.Sprintf("%s|%s|%s|%s|%d", cell(row, cols, "date"), rec.SKU, rec.Source, rec.Hashtag, rec.Mentions)
		if _, dup := seen[k]; dup {
			continue
		}
		seen[k] = struct{}{}
		out = append(out, rec)
	}

	sort.SliceStable(out, func(i, j int) bool { return out[i].Date.Before(out[j].Date) })
	return out, nil
}

func (s *CSVStore) Close() error { return nil }

// readAll parses a CSV into rows plus a canonical-name -> column-index map
// derived from the alias table. A missing file or unreadable header is an
// error the caller decides how to degrade.
func (s *CSVStore) readAll(ctx context.Context, path string, aliases map[string]string) ([][]string, map[string]int, error) {
	if err := ctx.Err(); err != nil {
		return nil, nil, err
	}
	f, err := os.Open(path)
	if err != nil {
		return nil, nil, fmt.Errorf("open dataset: %w", err)
	}
	defer f.Close()

	r := csv.NewReader(f)
	r.FieldsPerRecord = -1

	header, err := r.Read()
	if err != nil {
		return nil, nil, fmt.Errorf("read header: %w", err)
	}
	cols := make(map[string]int, len(header))
	for i, name := range header {
		if canonical, ok := aliases[strings.ToLower(strings.TrimSpace(name))]; ok {
			cols[canonical] = i
		}
	}
	if _, ok := cols["date"]; !ok {
		return nil, nil, fmt.Errorf("dataset %s has no date column", filepath.Base(path))
	}

	var rows [][]string
	for {
		row, err := r.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			s.logger.Warn("skipping malformed csv row", xlogger.String("file", filepath.Base(path)), xlogger.Error(err))
			continue
		}
		rows = append(rows, row)
	}
	return rows, cols, nil
}

func cell(row []string, cols map[string]int, name string) string {
	i, ok := cols[name]
	if !ok || i >= len(row) {
		return ""
	}
	return strings.TrimSpace(row[i])
}

// coerceInt accepts integer or float text, anything else reads as 0.
func coerceInt(s string) int {
	if s == "" {
		return 0
	}
	if v, err := strconv.Atoi(s); err == nil {
		return v
	}
	if f, err := strconv.ParseFloat(s, 64); err == nil {
		return int(f)
	}
	return 0
}

// normalizeHashtag trims, ensures a leading '#', and lower-cases the tag.
// Empty stays empty.
func normalizeHashtag(tag string) string {
	tag = strings.TrimSpace(tag)
	if tag == "" {
		return ""
	}
	if !strings.HasPrefix(tag, "#") {
		tag = "#" + tag
	}
	return strings.ToLower(tag)
}
