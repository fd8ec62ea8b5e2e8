package ingest

import (
	"testing"
	"time"

	"demandcast/internal/domain/models"
)

func TestLiveMentionsEvictsOldest(t *testing.T) {
	b := NewLiveMentions(2)
	day := time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)
	b.Add(models.SocialRecord{Date: day, SKU: "a"})
	b.Add(models.SocialRecord{Date: day, SKU: "b"})
	b.Add(models.SocialRecord{Date: day, SKU: "c"})

	got := b.Mentions()
	if len(got) != 2 {
		t.Fatalf("expected bounded buffer of 2, got %d", len(got))
	}
	if got[0].SKU != "b" || got[1].SKU != "c" {
		t.Fatalf("expected oldest row evicted, got %v", got)
	}
}

func TestMentionsReturnsCopy(t *testing.T) {
	b := NewLiveMentions(10)
	b.Add(models.SocialRecord{SKU: "a"})

	snap := b.Mentions()
	snap[0].SKU = "mutated"
	if b.Mentions()[0].SKU != "a" {
		t.Fatalf("expected snapshot isolation")
	}
}
