package console

import "fraudconsole/internal/models"

// HistoryLimit is how many past results a session keeps.
const HistoryLimit = 10

// History is a most-recent-first list of results with a fixed capacity.
// It is not safe for concurrent use; Session serializes access.
type History struct {
	entries []models.PredictionResult
	limit   int
}

func NewHistory(limit int) *History {
	if limit <= 0 {
		limit = HistoryLimit
	}
	return &History{
		entries: make([]models.PredictionResult, 0, limit+1),
		limit:   limit,
	}
}

// Add puts r at the front and drops the oldest entry once over capacity.
func (h *History) Add(r models.PredictionResult) {
	h.entries = append(h.entries, models.PredictionResult{})
	copy(h.entries[1:], h.entries)
	h.entries[0] = r
	if len(h.entries) > h.limit {
		h.entries = h.entries[:h.limit]
	}
}

// Entries returns a copy, most recent first.
func (h *History) Entries() []models.PredictionResult {
	out := make([]models.PredictionResult, len(h.entries))
	copy(out, h.entries)
	return out
}

func (h *History) Len() int {
	return len(h.entries)
}
