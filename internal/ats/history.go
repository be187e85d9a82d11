package ats

import (
	"encoding/json"
	"time"
)

// MaxHistory is the history capacity. Recording past it evicts the oldest entry.
const MaxHistory = 20

// HistoryEntry is one recorded snapshot.
type HistoryEntry struct {
	Score      int        `json:"score"`
	Timestamp  time.Time  `json:"timestamp"`
	Sections   Sections   `json:"sections"`
	Confidence Confidence `json:"confidence"`
}

// History is a fixed-capacity ring of entries ordered by insertion. It is a value type:
// Record returns a new History and never mutates the receiver.
type History struct {
	ring [MaxHistory]HistoryEntry
	head int
	size int
}

// NewHistory records the given entries in order.
func NewHistory(entries ...HistoryEntry) History {
	var h History
	for _, e := range entries {
		h = h.Record(e)
	}
	return h
}

// Record appends an entry, evicting the oldest one when the history is full.
func (h History) Record(e HistoryEntry) History {
	e.Sections = e.Sections.Clone()

	if h.size < MaxHistory {
		h.ring[(h.head+h.size)%MaxHistory] = e
		h.size++
		return h
	}

	h.ring[h.head] = e
	h.head = (h.head + 1) % MaxHistory
	return h
}

// Len returns the number of stored entries.
func (h History) Len() int { return h.size }

// At returns the i-th entry, oldest first.
func (h History) At(i int) (HistoryEntry, bool) {
	if i < 0 || i >= h.size {
		return HistoryEntry{}, false
	}
	return h.ring[(h.head+i)%MaxHistory], true
}

// Latest returns the newest entry.
func (h History) Latest() (HistoryEntry, bool) {
	return h.At(h.size - 1)
}

// Entries returns the entries oldest first.
func (h History) Entries() []HistoryEntry {
	out := make([]HistoryEntry, 0, h.size)
	for i := 0; i < h.size; i++ {
		e, _ := h.At(i)
		out = append(out, e)
	}
	return out
}

// Delta returns a.Score − b.Score, or nil when there is no prior entry b.
func Delta(a, b *HistoryEntry) *int {
	if a == nil || b == nil {
		return nil
	}
	d := a.Score - b.Score
	return &d
}

// HistoryRow pairs an entry with its change against the preceding entry.
type HistoryRow struct {
	HistoryEntry
	Delta *int `json:"delta"`
}

// Rows returns entries oldest first, each with its delta. The first row has no delta.
func (h History) Rows() []HistoryRow {
	entries := h.Entries()
	rows := make([]HistoryRow, 0, len(entries))
	for i := range entries {
		var prev *HistoryEntry
		if i > 0 {
			prev = &entries[i-1]
		}
		rows = append(rows, HistoryRow{HistoryEntry: entries[i], Delta: Delta(&entries[i], prev)})
	}
	return rows
}

// MarshalJSON encodes the history as an oldest-first array.
func (h History) MarshalJSON() ([]byte, error) {
	return json.Marshal(h.Entries())
}

// UnmarshalJSON replays an array of entries; only the newest MaxHistory survive.
func (h *History) UnmarshalJSON(data []byte) error {
	var entries []HistoryEntry
	if err := json.Unmarshal(data, &entries); err != nil {
		return err
	}
	*h = NewHistory(entries...)
	return nil
}
