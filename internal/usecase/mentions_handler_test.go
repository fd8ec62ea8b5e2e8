package usecase

import (
	"context"
	"testing"

	"demandcast/internal/service/ingest"
)

func newMentionsHandler(t *testing.T, buffer *ingest.LiveMentions) *MentionsHandler {
	t.Helper()
	return NewMentionsHandler("social.mentions", buffer, noopMetrics{}, testLogger(t))
}

func TestHandleMentionEvent(t *testing.T) {
	buffer := ingest.NewLiveMentions(10)
	h := newMentionsHandler(t, buffer)

	payload := []byte(`{"date":"2024-03-31","sku":"GS-019","source":"TikTok","hashtag":"Sale","mentions":12}`)
	if err := h.Handle(context.Background(), payload); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	rows := buffer.Mentions()
	if len(rows) != 1 {
		t.Fatalf("expected 1 buffered row, got %d", len(rows))
	}
	if rows[0].Hashtag != "#sale" {
		t.Fatalf("expected normalized hashtag, got %q", rows[0].Hashtag)
	}
	if rows[0].Mentions != 12 || rows[0].SKU != "GS-019" {
		t.Fatalf("unexpected row %+v", rows[0])
	}
}

func TestHandleRejectsBadPayload(t *testing.T) {
	buffer := ingest.NewLiveMentions(10)
	h := newMentionsHandler(t, buffer)

	if err := h.Handle(context.Background(), []byte("not json")); err == nil {
		t.Fatalf("expected decode error")
	}
	if err := h.Handle(context.Background(), []byte(`{"date":"31/03/2024"}`)); err == nil {
		t.Fatalf("expected bad date error")
	}
	if buffer.Len() != 0 {
		t.Fatalf("rejected events must not be buffered")
	}
}

func TestHandleDefaultsSource(t *testing.T) {
	buffer := ingest.NewLiveMentions(10)
	h := newMentionsHandler(t, buffer)

	if err := h.Handle(context.Background(), []byte(`{"date":"2024-03-31","sku":"BL-101","mentions":-5}`)); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	rows := buffer.Mentions()
	if rows[0].Source != "unknown" {
		t.Fatalf("expected unknown source default, got %q", rows[0].Source)
	}
	if rows[0].Mentions != 0 {
		t.Fatalf("negative mentions must clamp to 0, got %d", rows[0].Mentions)
	}
}
