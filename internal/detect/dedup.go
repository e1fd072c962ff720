package detect

import (
	"math"
	"sort"
	"time"
)

// DefaultDedupWindow is how close two records with the same key must be
// to count as one event.
const DefaultDedupWindow = 3 * time.Second

// Deduplicator collapses records of the same event, keeping the one with
// the smallest error. Records further apart than Window are distinct.
type Deduplicator struct {
	Window time.Duration
	kept   map[DedupKey][]int
	out    []Record
}

// NewDeduplicator returns an empty deduplicator.
func NewDeduplicator(window time.Duration) *Deduplicator {
	return &Deduplicator{Window: window, kept: make(map[DedupKey][]int)}
}

// Add offers r. It returns false when r was dropped in favour of an
// existing record.
func (d *Deduplicator) Add(r Record) bool {
	key := r.DedupKey()
	window := d.Window.Seconds()
	for _, idx := range d.kept[key] {
		existing := d.out[idx]
		if math.Abs(existing.Timestamp-r.Timestamp) > window {
			continue
		}
		if r.Error < existing.Error {
			d.out[idx] = r
			return true
		}
		return false
	}
	d.kept[key] = append(d.kept[key], len(d.out))
	d.out = append(d.out, r)
	return true
}

// Records returns the surviving records ordered by timestamp, ties broken
// by key.
func (d *Deduplicator) Records() []Record {
	out := make([]Record, len(d.out))
	copy(out, d.out)
	sort.SliceStable(out, func(i, j int) bool {
		if out[i].Timestamp != out[j].Timestamp {
			return out[i].Timestamp < out[j].Timestamp
		}
		return out[i].Key < out[j].Key
	})
	return out
}
