package detect

import (
	"github.com/banshee-data/sightline/internal/monitoring"
)

// Observer receives progress from a Detector run.
type Observer interface {
	// Stage is called after each stage with the number of items it produced.
	Stage(name string, count int)
	// Crossing is called for every record before deduplication.
	Crossing(r Record)
}

// NopObserver discards everything.
type NopObserver struct{}

func (NopObserver) Stage(string, int) {}
func (NopObserver) Crossing(Record)   {}

// LogObserver forwards progress to monitoring.Logf.
type LogObserver struct{}

func (LogObserver) Stage(name string, count int) {
	monitoring.Logf("[detect] %s: %d", name, count)
}

func (LogObserver) Crossing(r Record) {
	monitoring.Logf("[detect] crossing %s error=%.2fft", r.Key, r.Error)
}
