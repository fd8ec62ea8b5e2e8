package repository

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"demandcast/pkg/logger"
)

func writeFile(t *testing.T, dir, name, content string) {
	t.Helper()
	if err := os.WriteFile(filepath.Join(dir, name), []byte(content), 0o644); err != nil {
		t.Fatalf("write %s: %v", name, err)
	}
}

func newTestStore(t *testing.T, historic, social string) *CSVStore {
	t.Helper()
	dir := t.TempDir()
	if historic != "" {
		writeFile(t, dir, "historic.csv", historic)
	}
	if social != "" {
		writeFile(t, dir, "social.csv", social)
	}
	l, _ := logger.New(&logger.Config{Level: "error", Format: "console", Output: "stdout"})
	return NewCSVStore(dir, "historic.csv", "social.csv", l)
}

func TestHistoricalAliasesAndDedup(t *testing.T) {
	// ds/product/qty aliases; duplicate (sku, date) keeps the last row
	csv := "ds,product,qty\n" +
		"2024-01-01,GS-019,10\n" +
		"2024-01-01,GS-019,15\n" +
		"2024-01-02,GS-019,20\n"
	s := newTestStore(t, csv, "")

	recs, err := s.Historical(context.Background())
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(recs) != 2 {
		t.Fatalf("expected 2 records after dedup, got %d", len(recs))
	}
	if recs[0].Units != 15 {
		t.Fatalf("expected keep-last dedup, got units=%d", recs[0].Units)
	}
}

func TestHistoricalDefaultsAndBadRows(t *testing.T) {
	csv := "date,units\n" +
		"2024-01-01,7\n" +
		"not-a-date,9\n" +
		"2024-01-02,oops\n"
	s := newTestStore(t, csv, "")

	recs, err := s.Historical(context.Background())
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(recs) != 2 {
		t.Fatalf("expected bad date dropped, got %d records", len(recs))
	}
	if recs[0].SKU != "UNK" {
		t.Fatalf("expected missing sku to default to UNK, got %q", recs[0].SKU)
	}
	if recs[1].Units != 0 {
		t.Fatalf("expected unparsable units coerced to 0, got %d", recs[1].Units)
	}
}

func TestSocialNormalization(t *testing.T) {
	csv := "ts,tag,count,platform,sku\n" +
		"2024-01-02,Sale ,30,TikTok,GS-019\n" +
		"2024-01-01,#NEW,12,,BL-101\n"
	s := newTestStore(t, "", csv)

	recs, err := s.Social(context.Background())
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(recs) != 2 {
		t.Fatalf("expected 2 records, got %d", len(recs))
	}
	// sorted by date ascending
	if recs[0].Hashtag != "#new" {
		t.Fatalf("expected lower-cased hashtag, got %q", recs[0].Hashtag)
	}
	if recs[0].Source != "unknown" {
		t.Fatalf("expected empty source to default to unknown, got %q", recs[0].Source)
	}
	if recs[1].Hashtag != "#sale" {
		t.Fatalf("expected trimmed hashtag with leading #, got %q", recs[1].Hashtag)
	}
	if recs[1].Source != "TikTok" {
		t.Fatalf("unexpected source %q", recs[1].Source)
	}
}

func TestSocialFullRowDedup(t *testing.T) {
	// exact duplicate rows collapse to one; a differing mentions count survives
	csv := "date,sku,source,hashtag,mentions\n" +
		"2024-01-01,GS-019,TikTok,#sale,30\n" +
		"2024-01-01,GS-019,TikTok,#sale,30\n" +
		"2024-01-01,GS-019,TikTok,#sale,31\n"
	s := newTestStore(t, "", csv)

	recs, err := s.Social(context.Background())
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(recs) != 2 {
		t.Fatalf("expected duplicate social rows collapsed to 2, got %d", len(recs))
	}
	total := recs[0].Mentions + recs[1].Mentions
	if total != 61 {
		t.Fatalf("expected mentions total 61 after dedup, got %d", total)
	}
}

func TestMissingFileErrors(t *testing.T) {
	s := newTestStore(t, "", "")
	if _, err := s.Historical(context.Background()); err == nil {
		t.Fatalf("expected error for missing historic.csv")
	}
	if _, err := s.Social(context.Background()); err == nil {
		t.Fatalf("expected error for missing social.csv")
	}
}
