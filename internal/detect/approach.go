package detect

import (
	"github.com/banshee-data/sightline/internal/geodesy"
	"github.com/banshee-data/sightline/internal/target"
)

// ApproachLeg returns the leg of t whose reference bearing is closest to
// course. Ties resolve to the lowest leg index. Single-bearing targets
// always resolve to their only leg.
func ApproachLeg(t target.Target, course float64) target.Leg {
	best := target.Leg(0)
	if t.Legs() == 1 {
		return best
	}
	bestDiff := geodesy.BearingDiff(course, t.ReferenceBearing(best))
	for l := 1; l < t.Legs(); l++ {
		leg := target.Leg(l)
		if d := geodesy.BearingDiff(course, t.ReferenceBearing(leg)); d < bestDiff {
			best, bestDiff = leg, d
		}
	}
	return best
}
