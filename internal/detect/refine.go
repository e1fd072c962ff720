package detect

import (
	"math"

	"github.com/banshee-data/sightline/internal/config"
	"github.com/banshee-data/sightline/internal/geodesy"
	"github.com/banshee-data/sightline/internal/target"
	"github.com/banshee-data/sightline/internal/track"
)

// WeightedLinearOffset blends the time-to-go at two bracketing samples,
// weighting each by its share of the total distance. d0 and d1 are signed
// distances past the threshold; zero speeds contribute nothing.
func WeightedLinearOffset(d0, spd0, d1, spd1 float64) float64 {
	sum := d0 + math.Abs(d1)
	if sum == 0 {
		return 0
	}
	var t0, t1 float64
	if spd0 != 0 {
		t0 = d0 / spd0
	}
	if spd1 != 0 {
		t1 = d1 / spd1
	}
	w0 := d0 / sum
	w1 := math.Abs(d1) / sum
	return math.Abs(w0*t0+w1*t1) / 2
}

// KinematicOffset solves 0 = dsd + v*t + accel/2*t^2 for t and returns the
// root closest to zero. A negative discriminant is clamped to zero. With
// no acceleration, or nothing left to cover, it degrades to dsd/v.
func KinematicOffset(v, accel, dsd float64) float64 {
	a := accel / 2
	if 2*a == 0 || dsd <= 0 {
		if v == 0 {
			return 0
		}
		return dsd / v
	}
	disc := v*v - 4*a*dsd
	if disc < 0 {
		disc = 0
	}
	rad := math.Sqrt(disc)
	neg := (-v - rad) / (2 * a)
	pos := (-v + rad) / (2 * a)
	return math.Min(math.Abs(neg), math.Abs(pos))
}

// Refiner turns a provisional crossing into an absolute timestamp.
type Refiner struct {
	Mode  string // config.RefineKinematic or config.RefineWeighted
	Clamp bool   // keep the offset within [0, next sample delta]
}

// Refinement is the outcome of refining one crossing.
type Refinement struct {
	Offset    float64 // seconds after the crossing sample
	Timestamp float64
	Error     float64 // feet between the interpolated position and the threshold
}

// Refine computes the crossing time for x.
func (r Refiner) Refine(tr *track.Track, t target.Target, x Crossing) Refinement {
	s := tr.At(x.Sample)
	next := tr.At(x.Sample + 1)
	dt, _ := tr.NextDelta(x.Sample)

	var offset float64
	if r.Mode == config.RefineWeighted {
		offset = WeightedLinearOffset(x.Cur-x.Threshold, s.Speed, x.Next-x.Threshold, next.Speed)
	} else {
		offset = KinematicOffset(s.Speed, tr.Acceleration(x.Sample), x.Cur-x.Threshold)
	}
	if r.Clamp {
		offset = clamp(offset, 0, math.Max(dt, 0))
	}

	pos := s.Position
	if dt > 0 {
		pos = geodesy.Interpolate(s.Position, next.Position, offset/dt)
	}
	return Refinement{
		Offset:    offset,
		Timestamp: s.Timestamp + offset,
		Error:     math.Abs(t.DistanceFeet(pos, x.Leg) - x.Threshold),
	}
}

func clamp(v, lo, hi float64) float64 {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}
