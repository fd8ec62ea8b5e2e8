package ingest

import (
	"sync"

	"demandcast/internal/domain/models"
)

// LiveMentions is a bounded in-memory buffer of mention rows ingested from
// the broker between dataset refreshes. When full, the oldest rows fall off.
type LiveMentions struct {
	mu    sync.RWMutex
	rows  []models.SocialRecord
	limit int
}

func NewLiveMentions(limit int) *LiveMentions {
	if limit <= 0 {
		limit = 10_000
	}
	return &LiveMentions{limit: limit}
}

// Add appends a mention row, evicting from the front past the limit.
func (b *LiveMentions) Add(rec models.SocialRecord) {
	b.mu.Lock()
	b.rows = append(b.rows, rec)
	if len(b.rows) > b.limit {
		b.rows = b.rows[len(b.rows)-b.limit:]
	}
	b.mu.Unlock()
}

// Mentions returns a snapshot copy of the buffered rows.
func (b *LiveMentions) Mentions() []models.SocialRecord {
	b.mu.RLock()
	defer b.mu.RUnlock()
	out := make([]models.SocialRecord, len(b.rows))
	copy(out, b.rows)
	return out
}

// Len reports the current buffer size.
func (b *LiveMentions) Len() int {
	b.mu.RLock()
	defer b.mu.RUnlock()
	return len(b.rows)
}
