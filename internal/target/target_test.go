package target

import (
	"errors"
	"testing"

	"github.com/paulmach/orb"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/banshee-data/sightline/internal/geodesy"
)

func mainAndFirst(t *testing.T) *Intersection {
	t.Helper()
	in, err := NewIntersection(IntersectionDef{
		ID:         1,
		NorthSouth: "Main",
		EastWest:   "First",
		Lat:        37.0,
		Lon:        -122.0,
		SpeedMPH:   [4]int{25, 35, 60, 0},
		Bearings:   [4]float64{0, 90, 180, 270},
	})
	require.NoError(t, err)
	return in
}

func TestSightDistanceFor(t *testing.T) {
	tests := []struct {
		mph  int
		want float64
	}{
		{20, 175}, {25, 215}, {30, 270}, {35, 325}, {40, 390},
		{45, 460}, {50, 540}, {55, 625}, {60, 715},
		{0, MinSightDistance}, {33, MinSightDistance}, {-999, MinSightDistance},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, SightDistanceFor(tt.mph), "mph=%d", tt.mph)
	}
}

func TestIntersectionLegs(t *testing.T) {
	in := mainAndFirst(t)

	assert.Equal(t, KindIntersection, in.Kind())
	assert.Equal(t, 4, in.Legs())
	assert.Equal(t, 215.0, in.SightDistance(North))
	assert.Equal(t, 325.0, in.SightDistance(East))
	assert.Equal(t, 715.0, in.SightDistance(South))
	assert.Equal(t, MinSightDistance, in.SightDistance(West), "unknown speed never yields zero")
	assert.Equal(t, MinSightDistance, in.SightDistance(NoLeg))
	assert.Equal(t, 270.0, in.ReferenceBearing(West))

	assert.Equal(t, "Main", in.Street(North))
	assert.Equal(t, "First", in.Street(East))
	assert.Equal(t, "Main", in.Street(South))
	assert.Equal(t, "First", in.Street(West))
	assert.Equal(t, "Main+First", in.Description())
}

func TestIntersectionDistanceFallsBackToCenter(t *testing.T) {
	in := mainAndFirst(t)
	p := geodesy.Destination(in.Location(), 180, 100)

	assert.False(t, in.StopBar(North).Available)
	assert.InDelta(t, geodesy.Feet(in.Location(), p), in.DistanceFeet(p, North), 1e-9)
}

func TestIntersectionStopBarDistance(t *testing.T) {
	center := orb.Point{-122.0, 37.0}
	// NB stop bar 50 m south of center, running east-west.
	barMid := geodesy.Destination(center, 180, 50)
	inside := geodesy.Destination(barMid, 270, 6)
	shoulder := geodesy.Destination(barMid, 90, 6)

	in, err := NewIntersection(IntersectionDef{
		ID: 7, NorthSouth: "Main", EastWest: "First",
		Lat: center.Lat(), Lon: center.Lon(),
		SpeedMPH: [4]int{25, 25, 25, 25},
		Bearings: [4]float64{0, 90, 180, 270},
		StopBars: [4]*StopBarDef{{
			InsideLat: inside.Lat(), InsideLon: inside.Lon(),
			ShoulderLat: shoulder.Lat(), ShoulderLon: shoulder.Lon(),
		}},
	})
	require.NoError(t, err)
	require.True(t, in.StopBar(North).Available)

	p := geodesy.Destination(center, 180, 150)
	// 100 m from the bar, 150 m from center
	assert.InDelta(t, 328.08, in.DistanceFeet(p, North), 1.0)
	assert.InDelta(t, 492.13, in.DistanceFeet(p, South), 1.0)
}

func TestIntersectionZeroLengthStopBar(t *testing.T) {
	in, err := NewIntersection(IntersectionDef{
		ID: 2, NorthSouth: "A", EastWest: "B", Lat: 37, Lon: -122,
		StopBars: [4]*StopBarDef{{InsideLat: 37.001, InsideLon: -122, ShoulderLat: 37.001, ShoulderLon: -122}},
	})
	require.NoError(t, err)
	p := orb.Point{-122, 36.999}
	assert.InDelta(t, geodesy.Feet(in.Location(), p), in.DistanceFeet(p, North), 1e-9)
}

func TestNewIntersectionValidation(t *testing.T) {
	tests := []struct {
		name string
		def  IntersectionDef
	}{
		{"missing street", IntersectionDef{ID: 1, NorthSouth: "Main"}},
		{"latitude out of range", IntersectionDef{ID: 1, NorthSouth: "A", EastWest: "B", Lat: 91}},
		{"negative id", IntersectionDef{ID: -1, NorthSouth: "A", EastWest: "B"}},
		{"bearing out of range", IntersectionDef{ID: 1, NorthSouth: "A", EastWest: "B", Bearings: [4]float64{0, 400, 0, 0}}},
		{"bad stop bar", IntersectionDef{ID: 1, NorthSouth: "A", EastWest: "B", StopBars: [4]*StopBarDef{nil, {InsideLat: 100}}}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := NewIntersection(tt.def)
			assert.True(t, errors.Is(err, ErrInvalidDefinition), "got %v", err)
		})
	}
}

func TestGenericObject(t *testing.T) {
	g, err := NewGenericObject(GenericObjectDef{
		ID: 1, Street: "Main", Lat: 0, Lon: 0, Bearing: 0, Description: "Stop", SightDistance: 50,
	})
	require.NoError(t, err)

	assert.Equal(t, KindGeneric, g.Kind())
	assert.Equal(t, 1, g.Legs())
	assert.Equal(t, 50.0, g.SightDistance(North))
	assert.Equal(t, 50.0, g.SightDistance(NoLeg))
	assert.Equal(t, 0.0, g.ReferenceBearing(North))
	assert.Equal(t, "Stop", g.Description())

	_, err = NewGenericObject(GenericObjectDef{ID: 2, Street: "Main", Description: "Stop"})
	assert.ErrorIs(t, err, ErrInvalidDefinition, "zero sight distance is rejected")
}

func TestRelevanceEnvelope(t *testing.T) {
	in := mainAndFirst(t)
	assert.Equal(t, 1072.5, RelevanceEnvelope(in, DefaultRelevanceMultiplier))

	far, err := NewGenericObject(GenericObjectDef{ID: 3, Street: "Hwy", Description: "Curve", SightDistance: 1000})
	require.NoError(t, err)
	assert.Equal(t, 1500.0, RelevanceEnvelope(far, DefaultRelevanceMultiplier))
}

func TestParseBearing(t *testing.T) {
	tests := []struct {
		in      string
		want    float64
		wantErr bool
	}{
		{"NB", 0, false},
		{"eb", 90, false},
		{" SB ", 180, false},
		{"WB", 270, false},
		{"45.5", 45.5, false},
		{"north", 0, true},
	}
	for _, tt := range tests {
		got, err := ParseBearing(tt.in)
		if tt.wantErr {
			assert.Error(t, err, tt.in)
			continue
		}
		require.NoError(t, err, tt.in)
		assert.Equal(t, tt.want, got, tt.in)
	}
}

func TestLegString(t *testing.T) {
	assert.Equal(t, "NB", North.String())
	assert.Equal(t, "WB", West.String())
	assert.Equal(t, "none", NoLeg.String())
	assert.False(t, NoLeg.Valid())
}

func TestRegistry(t *testing.T) {
	in := mainAndFirst(t)
	g, err := NewGenericObject(GenericObjectDef{ID: 1, Street: "Main", Description: "Stop", SightDistance: 50})
	require.NoError(t, err)

	r, err := NewRegistry(in, g)
	require.NoError(t, err, "same id across kinds is allowed")
	assert.Equal(t, 2, r.Len())
	assert.Same(t, in, r.At(0))

	got, ok := r.Lookup(KindGeneric, 1)
	require.True(t, ok)
	assert.Same(t, g, got)
	_, ok = r.Lookup(KindGeneric, 9)
	assert.False(t, ok)

	assert.ErrorIs(t, r.Add(in), ErrInvalidDefinition)
	assert.Equal(t, []int{1}, r.IDs(KindIntersection))
}
