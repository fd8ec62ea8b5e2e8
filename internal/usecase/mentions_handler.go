package usecase

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"

	"demandcast/internal/domain/models"
	domrepo "demandcast/internal/domain/repository"
	"demandcast/internal/service/ingest"
	xlogger "demandcast/pkg/logger"
	"demandcast/pkg/util"
)

// mentionEvent is the broker wire shape for one aggregated mention row.
type mentionEvent struct {
	Date     string `json:"date"`
	SKU      string `json:"sku"`
	Source   string `json:"source"`
	Hashtag  string `json:"hashtag"`
	Mentions int    `json:"mentions"`
}

// MentionsHandler consumes mention events from the broker and appends them to
// the live buffer the trend engine merges on read.
type MentionsHandler struct {
	topic   string
	buffer  *ingest.LiveMentions
	metrics domrepo.Metrics
	logger  *xlogger.Logger
}

func NewMentionsHandler(topic string, buffer *ingest.LiveMentions, metrics domrepo.Metrics, logger *xlogger.Logger) *MentionsHandler {
	return &MentionsHandler{topic: topic, buffer: buffer, metrics: metrics, logger: logger}
}

func (h *MentionsHandler) Topic() string { return h.topic }

// Handle decodes one event. Undecodable payloads and bad dates are permanent
// failures; retrying them cannot help, so they error straight through to DLQ.
func (h *MentionsHandler) Handle(_ context.Context, data []byte) error {
	var ev mentionEvent
	if err := json.Unmarshal(data, &ev); err != nil {
		h.metrics.RecordError("mention_decode")
		return fmt.Errorf("decode mention event: %w", err)
	}

	date, ok := util.ParseDate(ev.Date)
	if !ok {
		h.metrics.RecordError("mention_decode")
		return fmt.Errorf("mention event has bad date %q", ev.Date)
	}
	if ev.Mentions < 0 {
		ev.Mentions = 0
	}
	source := ev.Source
	if source == "" {
		source = "unknown"
	}

	hashtag := strings.ToLower(strings.TrimSpace(ev.Hashtag))
	if hashtag != "" && !strings.HasPrefix(hashtag, "#") {
		hashtag = "#" + hashtag
	}

	h.buffer.Add(models.SocialRecord{
		Date:     date,
		SKU:      ev.SKU,
		Source:   source,
		Hashtag:  hashtag,
		Mentions: ev.Mentions,
	})
	h.metrics.RecordMentionIngested(source)

	h.logger.Debug("live mention ingested",
		xlogger.String("sku", ev.SKU),
		xlogger.String("source", source),
		xlogger.Int("mentions", ev.Mentions),
	)
	return nil
}
