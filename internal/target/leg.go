package target

import (
	"fmt"
	"strconv"
	"strings"
)

// Leg indexes an intersection approach: North, East, South, West.
type Leg int

// Approach legs. NoLeg marks records that carry no leg.
const (
	NoLeg Leg = -1
	North Leg = 0
	East  Leg = 1
	South Leg = 2
	West  Leg = 3
)

var legNames = [4]string{"NB", "EB", "SB", "WB"}

// String returns the direction-of-travel abbreviation ("NB", "EB", ...).
func (l Leg) String() string {
	if l < North || l > West {
		return "none"
	}
	return legNames[l]
}

// Valid reports whether l is one of the four approach legs.
func (l Leg) Valid() bool { return l >= North && l <= West }

// ParseBearing accepts a compass label (NB, EB, SB, WB) or numeric degrees.
func ParseBearing(s string) (float64, error) {
	s = strings.TrimSpace(s)
	for i, name := range legNames {
		if strings.EqualFold(s, name) {
			return float64(i) * 90, nil
		}
	}
	v, err := strconv.ParseFloat(s, 64)
	if err != nil {
		return 0, fmt.Errorf("bearing %q is neither a compass label nor degrees: %w", s, err)
	}
	return v, nil
}
