package testutil

import (
	"math/rand"

	"github.com/paulmach/orb"

	"github.com/banshee-data/sightline/internal/geodesy"
	"github.com/banshee-data/sightline/internal/units"
)

// Fix is a synthetic GPS fix.
type Fix struct {
	Time     float64 // epoch seconds
	Position orb.Point
	Speed    float64 // ft/s
}

// Epoch is 2025-01-01T00:00:00Z, the start of every synthetic track.
const Epoch = 1735689600.0

// Approach returns n fixes spaced dt seconds apart, driving toward `to`
// along course at a constant speedFPS. The first fix is startFeet short of
// `to`; fixes past it continue along the same course.
func Approach(to orb.Point, course, startFeet, speedFPS, dt float64, n int) []Fix {
	back := geodesy.NormalizeDegrees(course + 180)
	fixes := make([]Fix, n)
	for k := range n {
		remaining := startFeet - speedFPS*dt*float64(k)
		var p orb.Point
		if remaining >= 0 {
			p = geodesy.Destination(to, back, units.FeetToMeters(remaining))
		} else {
			p = geodesy.Destination(to, course, units.FeetToMeters(-remaining))
		}
		fixes[k] = Fix{Time: Epoch + dt*float64(k), Position: p, Speed: speedFPS}
	}
	return fixes
}

// Line returns n fixes one second apart travelling metersPerSec along
// course from origin.
func Line(origin orb.Point, course, metersPerSec float64, n int) []Fix {
	fixes := make([]Fix, n)
	for k := range n {
		fixes[k] = Fix{
			Time:     Epoch + float64(k),
			Position: geodesy.Destination(origin, course, metersPerSec*float64(k)),
			Speed:    units.MPSToFPS(metersPerSec),
		}
	}
	return fixes
}

// Jitter displaces every fix by Gaussian noise of sigma meters, using a
// fixed seed so tests are reproducible.
func Jitter(fixes []Fix, sigma float64, seed int64) []Fix {
	rng := rand.New(rand.NewSource(seed))
	out := make([]Fix, len(fixes))
	for i, f := range fixes {
		dx, dy := rng.NormFloat64()*sigma, rng.NormFloat64()*sigma
		p := geodesy.Destination(f.Position, 90, dx)
		p = geodesy.Destination(p, 0, dy)
		out[i] = Fix{Time: f.Time, Position: p, Speed: f.Speed}
	}
	return out
}
