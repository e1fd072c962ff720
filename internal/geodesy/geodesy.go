// Package geodesy wraps orb's spherical helpers with the conventions used
// throughout sightline: distances in feet, courses in degrees clockwise
// from north in [0, 360).
package geodesy

import (
	"math"

	"github.com/paulmach/orb"
	"github.com/paulmach/orb/geo"

	"github.com/banshee-data/sightline/internal/units"
)

// Meters returns the great-circle distance between a and b in meters.
func Meters(a, b orb.Point) float64 {
	return geo.DistanceHaversine(a, b)
}

// Feet returns the great-circle distance between a and b in feet.
func Feet(a, b orb.Point) float64 {
	return units.MetersToFeet(geo.DistanceHaversine(a, b))
}

// Course returns the forward azimuth from one point to another in [0, 360).
func Course(from, to orb.Point) float64 {
	return NormalizeDegrees(geo.Bearing(from, to))
}

// NormalizeDegrees maps any angle onto [0, 360).
func NormalizeDegrees(d float64) float64 {
	d = math.Mod(d, 360)
	if d < 0 {
		d += 360
	}
	return d
}

// BearingDiff is the smallest angular separation between two bearings,
// in [0, 180].
func BearingDiff(o, r float64) float64 {
	return math.Min(math.Abs(o-r), math.Min(math.Abs(360-o+r), math.Abs(360-r+o)))
}

// Destination returns the point reached by travelling meters along course.
func Destination(p orb.Point, course, meters float64) orb.Point {
	return geo.PointAtBearingAndDistance(p, course, meters)
}

// Interpolate walks fraction of the way from a to b along the geodesic.
// Fractions outside [0, 1] extrapolate.
func Interpolate(a, b orb.Point, fraction float64) orb.Point {
	d := Meters(a, b)
	if d == 0 || fraction == 0 {
		return a
	}
	return Destination(a, Course(a, b), d*fraction)
}

// Within reports whether p lies inside the square bound of radius feet
// around center. It is a cheap prefilter; callers confirm with Feet.
func Within(center, p orb.Point, feet float64) bool {
	return geo.NewBoundAroundPoint(center, units.FeetToMeters(feet)).Contains(p)
}

// LineDistanceFeet returns the perpendicular distance in feet from p to the
// infinite line through a and b, using Heron's formula on the triangle's
// geodesic side lengths. ok is false when a and b coincide.
func LineDistanceFeet(p, a, b orb.Point) (dist float64, ok bool) {
	base := Feet(a, b)
	if base <= 0 {
		return 0, false
	}
	sideA := Feet(p, a)
	sideB := Feet(p, b)
	s := (base + sideA + sideB) / 2
	area := math.Sqrt(math.Abs(s * (s - base) * (s - sideA) * (s - sideB)))
	return 2 * area / base, true
}
