// Package track holds a recorded vehicle trajectory: an ordered, immutable
// sequence of timestamped GPS samples plus the columns derived from it
// (cumulative distance, time deltas, acceleration, course).
//
// Samples are addressed by index; neighbours are reached with i-1 and
// i+1 rather than links between samples.
package track

import (
	"errors"
	"fmt"
	"sort"

	"github.com/paulmach/orb"
	"gonum.org/v1/gonum/floats"

	"github.com/banshee-data/sightline/internal/geodesy"
)

var (
	// ErrEmpty is returned when a track is built from no samples.
	ErrEmpty = errors.New("track has no samples")
	// ErrOutOfOrder is returned when timestamps step backwards by more
	// than the configured tolerance.
	ErrOutOfOrder = errors.New("track samples out of chronological order")
)

// DefaultFirstSampleDelta is the time delta, in seconds, assumed before
// the first sample.
const DefaultFirstSampleDelta = 10.0

// Sample is one GPS fix.
type Sample struct {
	Index     int
	Timestamp float64   // epoch seconds
	Position  orb.Point // lon, lat
	Speed     float64   // ft/s
}

// Options control track construction.
type Options struct {
	// FirstSampleDelta is reported by PrevDelta(0), in seconds.
	FirstSampleDelta float64
	// OrderTolerance is how far, in seconds, a timestamp may step back
	// before the track is rejected.
	OrderTolerance float64
}

// DefaultOptions returns the standard construction options.
func DefaultOptions() Options {
	return Options{FirstSampleDelta: DefaultFirstSampleDelta}
}

// Track is immutable after construction and safe for concurrent reads.
type Track struct {
	samples    []Sample
	cumDist    []float64 // feet
	accel      []float64 // ft/s^2
	firstDelta float64
}

// New builds a track from samples in recorded order. Sample indexes are
// reassigned to their position.
func New(samples []Sample, opts Options) (*Track, error) {
	if len(samples) == 0 {
		return nil, ErrEmpty
	}

	t := &Track{
		samples:    make([]Sample, len(samples)),
		cumDist:    make([]float64, len(samples)),
		accel:      make([]float64, len(samples)),
		firstDelta: opts.FirstSampleDelta,
	}
	copy(t.samples, samples)

	steps := make([]float64, len(samples))
	for i := range t.samples {
		t.samples[i].Index = i
		if i == 0 {
			continue
		}
		prev, cur := t.samples[i-1], t.samples[i]
		if cur.Timestamp < prev.Timestamp-opts.OrderTolerance {
			return nil, fmt.Errorf("%w: sample %d at %.3f precedes sample %d at %.3f",
				ErrOutOfOrder, i, cur.Timestamp, i-1, prev.Timestamp)
		}
		steps[i] = geodesy.Feet(prev.Position, cur.Position)
	}
	floats.CumSum(t.cumDist, steps)

	for i := 0; i < len(t.samples)-1; i++ {
		dt := t.samples[i+1].Timestamp - t.samples[i].Timestamp
		if dt > 0 {
			t.accel[i] = (t.samples[i+1].Speed - t.samples[i].Speed) / dt
		}
	}
	return t, nil
}

// Len returns the number of samples.
func (t *Track) Len() int { return len(t.samples) }

// At returns sample i.
func (t *Track) At(i int) Sample { return t.samples[i] }

// Samples returns a copy of all samples.
func (t *Track) Samples() []Sample {
	out := make([]Sample, len(t.samples))
	copy(out, t.samples)
	return out
}

// PrevDelta is the time since the previous sample; the configured default
// for the first sample.
func (t *Track) PrevDelta(i int) float64 {
	if i == 0 {
		return t.firstDelta
	}
	return t.samples[i].Timestamp - t.samples[i-1].Timestamp
}

// NextDelta is the time until the next sample. ok is false for the last
// sample.
func (t *Track) NextDelta(i int) (dt float64, ok bool) {
	if i+1 >= len(t.samples) {
		return 0, false
	}
	return t.samples[i+1].Timestamp - t.samples[i].Timestamp, true
}

// Acceleration is the difference quotient of speed to the next sample,
// 0 for the last sample or a non-positive time step.
func (t *Track) Acceleration(i int) float64 { return t.accel[i] }

// CumulativeDistance is the distance travelled up to sample i, in feet.
func (t *Track) CumulativeDistance(i int) float64 { return t.cumDist[i] }

// Course is the forward azimuth from sample i-1 to i; 0 for the first
// sample.
func (t *Track) Course(i int) float64 {
	if i == 0 {
		return 0
	}
	return geodesy.Course(t.samples[i-1].Position, t.samples[i].Position)
}

// Gap is the straight-line distance between samples i and j, in feet.
func (t *Track) Gap(i, j int) float64 {
	return geodesy.Feet(t.samples[i].Position, t.samples[j].Position)
}

// Start returns the first timestamp.
func (t *Track) Start() float64 { return t.samples[0].Timestamp }

// End returns the last timestamp.
func (t *Track) End() float64 { return t.samples[len(t.samples)-1].Timestamp }

// Length returns the total distance travelled, in feet.
func (t *Track) Length() float64 { return t.cumDist[len(t.cumDist)-1] }

// bracket finds i such that ts lies in [t_i, t_i+1]. ok is false outside
// the recorded range.
func (t *Track) bracket(ts float64) (i int, frac float64, ok bool) {
	n := len(t.samples)
	if ts < t.Start() || ts > t.End() {
		return 0, 0, false
	}
	if n == 1 {
		return 0, 0, true
	}
	j := sort.Search(n, func(k int) bool { return t.samples[k].Timestamp >= ts })
	if j == 0 {
		return 0, 0, true
	}
	i = j - 1
	span := t.samples[j].Timestamp - t.samples[i].Timestamp
	if span <= 0 {
		return j, 0, true
	}
	return i, (ts - t.samples[i].Timestamp) / span, true
}

// SpeedAt linearly interpolates speed at ts.
func (t *Track) SpeedAt(ts float64) (float64, bool) {
	i, frac, ok := t.bracket(ts)
	if !ok {
		return 0, false
	}
	if frac == 0 {
		return t.samples[i].Speed, true
	}
	a, b := t.samples[i].Speed, t.samples[i+1].Speed
	return a + (b-a)*frac, true
}

// PositionAt interpolates position at ts along the geodesic between the
// bracketing samples.
func (t *Track) PositionAt(ts float64) (orb.Point, bool) {
	i, frac, ok := t.bracket(ts)
	if !ok {
		return orb.Point{}, false
	}
	if frac == 0 {
		return t.samples[i].Position, true
	}
	return geodesy.Interpolate(t.samples[i].Position, t.samples[i+1].Position, frac), true
}
