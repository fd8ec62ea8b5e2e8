package util

import (
	"testing"
	"time"
)

func TestParseDate(t *testing.T) {
	got, ok := ParseDate("2024-10-10")
	if !ok {
		t.Fatalf("expected ok")
	}
	want := time.Date(2024, 10, 10, 0, 0, 0, 0, time.UTC)
	if !got.Equal(want) {
		t.Fatalf("unexpected time %v", got)
	}
}

func TestParseDateRejectsTimestamp(t *testing.T) {
	if _, ok := ParseDate("2024-10-10T10:10:10Z"); ok {
		t.Fatalf("expected failure")
	}
	if _, ok := ParseDate(""); ok {
		t.Fatalf("expected failure for empty")
	}
}

func TestParseDateDefault(t *testing.T) {
	def := time.Date(2024, 10, 10, 0, 0, 0, 0, time.UTC)
	got := ParseDateDefault("", def)
	if !got.Equal(def) {
		t.Fatalf("expected default")
	}
}

func TestFormatDate(t *testing.T) {
	got := FormatDate(time.Date(2024, 1, 2, 15, 0, 0, 0, time.UTC))
	if got != "2024-01-02" {
		t.Fatalf("unexpected format %q", got)
	}
}
