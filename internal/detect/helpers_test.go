package detect

import (
	"testing"

	"github.com/paulmach/orb"
	"github.com/stretchr/testify/require"

	"github.com/banshee-data/sightline/internal/target"
	"github.com/banshee-data/sightline/internal/testutil"
	"github.com/banshee-data/sightline/internal/track"
)

var center = orb.Point{-122.0, 37.0}

func buildTrack(t *testing.T, fixes []testutil.Fix) *track.Track {
	t.Helper()
	samples := make([]track.Sample, len(fixes))
	for i, f := range fixes {
		samples[i] = track.Sample{Timestamp: f.Time, Position: f.Position, Speed: f.Speed}
	}
	tr, err := track.New(samples, track.DefaultOptions())
	require.NoError(t, err)
	return tr
}

// intersectionAt builds a plain N/E/S/W intersection with every leg posted
// at mph.
func intersectionAt(t *testing.T, id int, p orb.Point, mph int) *target.Intersection {
	t.Helper()
	in, err := target.NewIntersection(target.IntersectionDef{
		ID:         id,
		NorthSouth: "Main",
		EastWest:   "First",
		Lat:        p.Lat(),
		Lon:        p.Lon(),
		SpeedMPH:   [4]int{mph, mph, mph, mph},
		Bearings:   [4]float64{0, 90, 180, 270},
	})
	require.NoError(t, err)
	return in
}

func registryOf(t *testing.T, targets ...target.Target) *target.Registry {
	t.Helper()
	r, err := target.NewRegistry(targets...)
	require.NoError(t, err)
	return r
}
