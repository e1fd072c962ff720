package detect

import (
	"github.com/banshee-data/sightline/internal/target"
	"github.com/banshee-data/sightline/internal/track"
)

// Crossing is a provisional sight-distance crossing between samples
// Sample and Sample+1.
type Crossing struct {
	Sample    int
	Target    int // registry index
	Leg       target.Leg
	Threshold float64
	Prev      float64 // distance at Sample-1
	Cur       float64 // distance at Sample
	Next      float64 // distance at Sample+1
	Gap       float64 // feet between Sample and Sample+1
}

// Bracketed reports whether the threshold falls between samples: both the
// previous and current distances are at or beyond it and the next is at
// or inside it. The last condition is waived when the samples are further
// apart than the threshold itself.
func Bracketed(prev, cur, next, threshold, gap float64) bool {
	return prev >= threshold && cur >= threshold && (next <= threshold || gap > threshold)
}

// Confirmed reports whether the observer is still closing at the next sample.
func Confirmed(cur, next float64) bool {
	return next <= cur
}

// DetectCrossing applies the three-point test for candidate c at sample i.
// Samples without both neighbours never cross.
func DetectCrossing(tr *track.Track, t target.Target, c Candidate, i int) (Crossing, bool) {
	if i < 1 || i+1 >= tr.Len() {
		return Crossing{}, false
	}
	x := Crossing{
		Sample:    i,
		Target:    c.Target,
		Leg:       c.Leg,
		Threshold: t.SightDistance(c.Leg),
		Prev:      t.DistanceFeet(tr.At(i-1).Position, c.Leg),
		Cur:       t.DistanceFeet(tr.At(i).Position, c.Leg),
		Next:      t.DistanceFeet(tr.At(i+1).Position, c.Leg),
		Gap:       tr.Gap(i, i+1),
	}
	if !Bracketed(x.Prev, x.Cur, x.Next, x.Threshold, x.Gap) || !Confirmed(x.Cur, x.Next) {
		return Crossing{}, false
	}
	return x, true
}
