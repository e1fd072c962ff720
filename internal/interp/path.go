// Package interp answers "where was the observer at time T" and "when
// had the observer travelled D meters" over a recorded GPS series.
//
// The raw fixes are time-sorted and smoothed with a centered moving
// average before a cumulative geodesic distance column is built. Queries
// interpolate between the two bracketing smoothed fixes and never
// extrapolate: anything outside the recorded span is ErrOutOfRange.
package interp

import (
	"errors"
	"fmt"
	"sort"
	"time"

	"github.com/paulmach/orb"
	"gonum.org/v1/gonum/floats"
	"gonum.org/v1/gonum/stat"

	"github.com/banshee-data/sightline/internal/geodesy"
)

// DefaultWindow is the moving-average width applied to lat/lon.
const DefaultWindow = 5

var (
	ErrOutOfRange  = errors.New("outside recorded range")
	ErrTooFewFixes = errors.New("path needs at least two fixes")
)

// Fix is a raw timestamped position.
type Fix struct {
	Time time.Time
	Lat  float64
	Lon  float64
}

// Path is a smoothed, read-only copy of a fix series.
type Path struct {
	start   time.Time
	points  []orb.Point
	elapsed []float64 // seconds since start
	dist    []float64 // cumulative meters
}

// New builds a Path with the default smoothing window.
func New(fixes []Fix) (*Path, error) {
	return NewWithWindow(fixes, DefaultWindow)
}

// NewWithWindow builds a Path smoothing lat/lon over window fixes.
// Windows are centered and truncated at the ends.
func NewWithWindow(fixes []Fix, window int) (*Path, error) {
	if len(fixes) < 2 {
		return nil, ErrTooFewFixes
	}
	if window < 1 {
		window = 1
	}

	sorted := make([]Fix, len(fixes))
	copy(sorted, fixes)
	sort.SliceStable(sorted, func(i, j int) bool { return sorted[i].Time.Before(sorted[j].Time) })

	n := len(sorted)
	lats := make([]float64, n)
	lons := make([]float64, n)
	for i, f := range sorted {
		lats[i], lons[i] = f.Lat, f.Lon
	}

	p := &Path{
		start:   sorted[0].Time,
		points:  make([]orb.Point, n),
		elapsed: make([]float64, n),
		dist:    make([]float64, n),
	}
	left, right := window/2, (window-1)/2
	for i := range n {
		lo, hi := max(0, i-left), min(n, i+right+1)
		p.points[i] = orb.Point{stat.Mean(lons[lo:hi], nil), stat.Mean(lats[lo:hi], nil)}
		p.elapsed[i] = sorted[i].Time.Sub(p.start).Seconds()
	}

	steps := make([]float64, n)
	for i := 1; i < n; i++ {
		steps[i] = geodesy.Meters(p.points[i-1], p.points[i])
	}
	floats.CumSum(p.dist, steps)
	return p, nil
}

// Start returns the time of the earliest fix.
func (p *Path) Start() time.Time { return p.start }

// Duration returns the recorded span.
func (p *Path) Duration() time.Duration {
	return time.Duration(p.elapsed[len(p.elapsed)-1] * float64(time.Second))
}

// Length returns the smoothed path length in meters.
func (p *Path) Length() float64 { return p.dist[len(p.dist)-1] }

// segment returns the index of the segment [i, i+1] containing v in col
// and the fraction of the way through it.
func segment(col []float64, v float64) (int, float64) {
	i := sort.SearchFloat64s(col, v) - 1
	i = max(0, min(i, len(col)-2))
	span := col[i+1] - col[i]
	if span <= 0 {
		return i, 0
	}
	return i, (v - col[i]) / span
}

// PositionAtTime returns the interpolated position at t.
func (p *Path) PositionAtTime(t time.Time) (orb.Point, error) {
	s := t.Sub(p.start).Seconds()
	if s < 0 || s > p.elapsed[len(p.elapsed)-1] {
		return orb.Point{}, fmt.Errorf("%w: time %s not within [%s, %s]",
			ErrOutOfRange, t.Format(time.RFC3339Nano), p.start.Format(time.RFC3339Nano),
			p.start.Add(p.Duration()).Format(time.RFC3339Nano))
	}
	i, frac := segment(p.elapsed, s)
	return geodesy.Interpolate(p.points[i], p.points[i+1], frac), nil
}

// TimeAtDistance returns the time at which meters had been travelled.
func (p *Path) TimeAtDistance(meters float64) (time.Time, error) {
	if meters < 0 || meters > p.Length() {
		return time.Time{}, fmt.Errorf("%w: distance %.3fm not within [0, %.3fm]", ErrOutOfRange, meters, p.Length())
	}
	i, frac := segment(p.dist, meters)
	s := p.elapsed[i] + frac*(p.elapsed[i+1]-p.elapsed[i])
	return p.start.Add(time.Duration(s * float64(time.Second))), nil
}
