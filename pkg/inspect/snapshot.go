package inspect

import (
	"time"

	"github.com/google/uuid"

	"github.com/vango-dev/livetree/pkg/dom"
)

// Snapshot is the state of the document after a settled batch.
type Snapshot struct {
	ID        string    `json:"id"`
	Batch     uint64    `json:"batch"`
	Time      time.Time `json:"time"`
	HTML      string    `json:"html"`
	Mutations int       `json:"mutations"`
}

func newSnapshotID() string {
	return uuid.Must(uuid.NewV7()).String()
}

// history keeps the most recent mutations.
type history struct {
	limit   int
	records []dom.Mutation
	since   int // mutations since the last snapshot
}

func (h *history) record(m dom.Mutation) {
	h.since++
	h.records = append(h.records, m)
	if over := len(h.records) - h.limit; over > 0 {
		h.records = append(h.records[:0], h.records[over:]...)
	}
}

// last returns up to n of the most recent mutations, oldest first.
func (h *history) last(n int) []dom.Mutation {
	if n <= 0 || n > len(h.records) {
		n = len(h.records)
	}
	return append([]dom.Mutation(nil), h.records[len(h.records)-n:]...)
}

func (h *history) takeSince() int {
	n := h.since
	h.since = 0
	return n
}
