package pipeline

import (
	"fmt"
	"sync"
)

// History is the session's append-ordered collection of records. Total
// cost is maintained incrementally on append and delete; TotalCost never
// rescans the slice, but Reconcile can verify the invariant.
type History struct {
	mu        sync.RWMutex
	records   []*Record
	index     map[string]int
	totalCost float64
}

// NewHistory creates an empty history.
func NewHistory() *History {
	return &History{index: make(map[string]int)}
}

// Append publishes a record. Appending a second record with the same ID
// is an error and leaves the history unchanged.
func (h *History) Append(r *Record) error {
	if r == nil {
		return fmt.Errorf("history: append: nil record")
	}
	if r.ID == "" {
		return fmt.Errorf("history: append: record has no id")
	}

	h.mu.Lock()
	defer h.mu.Unlock()

	if _, exists := h.index[r.ID]; exists {
		return fmt.Errorf("history: append: duplicate record id %s", r.ID)
	}
	h.index[r.ID] = len(h.records)
	h.records = append(h.records, r)
	h.totalCost += r.Cost
	return nil
}

// Get returns the record with the given id.
func (h *History) Get(id string) (*Record, bool) {
	h.mu.RLock()
	defer h.mu.RUnlock()

	i, ok := h.index[id]
	if !ok {
		return nil, false
	}
	return h.records[i], true
}

// Delete removes a record by id and subtracts its cost from the total.
func (h *History) Delete(id string) bool {
	h.mu.Lock()
	defer h.mu.Unlock()

	i, ok := h.index[id]
	if !ok {
		return false
	}
	h.totalCost -= h.records[i].Cost
	h.records = append(h.records[:i], h.records[i+1:]...)
	delete(h.index, id)
	for j := i; j < len(h.records); j++ {
		h.index[h.records[j].ID] = j
	}
	return true
}

// AddCost charges a published record for a post-run collaborator call
// (visualization, analysis). The record's cost and the history total
// move together so Reconcile stays true. Negative amounts are ignored.
func (h *History) AddCost(id string, amount float64) bool {
	if amount <= 0 {
		return false
	}

	h.mu.Lock()
	defer h.mu.Unlock()

	i, ok := h.index[id]
	if !ok {
		return false
	}
	h.records[i].Cost += amount
	h.totalCost += amount
	return true
}

// Records returns a snapshot of the records in append order.
func (h *History) Records() []*Record {
	h.mu.RLock()
	defer h.mu.RUnlock()

	out := make([]*Record, len(h.records))
	copy(out, h.records)
	return out
}

// Len returns the number of records.
func (h *History) Len() int {
	h.mu.RLock()
	defer h.mu.RUnlock()
	return len(h.records)
}

// TotalCost returns the incrementally maintained cost sum.
func (h *History) TotalCost() float64 {
	h.mu.RLock()
	defer h.mu.RUnlock()
	return h.totalCost
}

// Reconcile recomputes the cost sum from the records and returns it
// alongside the incremental total. The two must agree; callers treat a
// mismatch as a bug.
func (h *History) Reconcile() (incremental, recomputed float64) {
	h.mu.RLock()
	defer h.mu.RUnlock()

	for _, r := range h.records {
		recomputed += r.Cost
	}
	return h.totalCost, recomputed
}
