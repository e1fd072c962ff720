package target

// Stopping sight distances in feet keyed by posted speed in mph.
var sightDistanceTable = map[int]float64{
	20: 175,
	25: 215,
	30: 270,
	35: 325,
	40: 390,
	45: 460,
	50: 540,
	55: 625,
	60: 715,
}

const (
	// MinSightDistance is used for any speed missing from the table.
	MinSightDistance = 175.0
	// MaxSightDistance is the table entry for the highest tabulated speed.
	MaxSightDistance = 715.0
	// DefaultRelevanceMultiplier scales MaxSightDistance into the radius
	// beyond which a target is ignored.
	DefaultRelevanceMultiplier = 1.5
)

// SightDistanceFor returns the required sight distance for a posted speed.
// Unknown speeds resolve to MinSightDistance, never zero.
func SightDistanceFor(mph int) float64 {
	if d, ok := sightDistanceTable[mph]; ok {
		return d
	}
	return MinSightDistance
}

// RelevanceEnvelope returns the radius in feet around t inside which
// samples are considered.
func RelevanceEnvelope(t Target, multiplier float64) float64 {
	base := MaxSightDistance
	if g, ok := t.(*GenericObject); ok && g.Distance > base {
		base = g.Distance
	}
	return base * multiplier
}
