package track

import (
	"errors"
	"testing"

	"github.com/paulmach/orb"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/banshee-data/sightline/internal/geodesy"
	"github.com/banshee-data/sightline/internal/testutil"
)

func fromFixes(fixes []testutil.Fix) []Sample {
	out := make([]Sample, len(fixes))
	for i, f := range fixes {
		out[i] = Sample{Timestamp: f.Time, Position: f.Position, Speed: f.Speed}
	}
	return out
}

func TestNewRejectsEmpty(t *testing.T) {
	_, err := New(nil, DefaultOptions())
	assert.ErrorIs(t, err, ErrEmpty)
}

func TestNewRejectsOutOfOrder(t *testing.T) {
	samples := []Sample{
		{Timestamp: 10, Position: orb.Point{0, 0}},
		{Timestamp: 11, Position: orb.Point{0, 0.001}},
		{Timestamp: 10.5, Position: orb.Point{0, 0.002}},
	}

	_, err := New(samples, DefaultOptions())
	require.Error(t, err)
	assert.True(t, errors.Is(err, ErrOutOfOrder))

	// within tolerance is accepted
	_, err = New(samples, Options{FirstSampleDelta: 10, OrderTolerance: 1})
	assert.NoError(t, err)
}

func TestDerivedColumns(t *testing.T) {
	to := orb.Point{-122.0, 37.0}
	samples := fromFixes(testutil.Approach(to, 0, 500, 40, 1, 6))
	samples[2].Speed = 44
	samples[3].Speed = 50

	tr, err := New(samples, DefaultOptions())
	require.NoError(t, err)

	assert.Equal(t, 6, tr.Len())
	for i := range tr.Len() {
		assert.Equal(t, i, tr.At(i).Index)
	}

	t.Run("cumulative distance is monotonic", func(t *testing.T) {
		assert.Equal(t, 0.0, tr.CumulativeDistance(0))
		for i := 1; i < tr.Len(); i++ {
			assert.GreaterOrEqual(t, tr.CumulativeDistance(i), tr.CumulativeDistance(i-1))
		}
		assert.InDelta(t, 200, tr.Length(), 0.1)
	})

	t.Run("time deltas", func(t *testing.T) {
		assert.Equal(t, DefaultFirstSampleDelta, tr.PrevDelta(0))
		assert.Equal(t, 1.0, tr.PrevDelta(3))
		dt, ok := tr.NextDelta(4)
		assert.True(t, ok)
		assert.Equal(t, 1.0, dt)
		_, ok = tr.NextDelta(5)
		assert.False(t, ok)
	})

	t.Run("acceleration", func(t *testing.T) {
		assert.Equal(t, 4.0, tr.Acceleration(1))
		assert.Equal(t, 6.0, tr.Acceleration(2))
		assert.Equal(t, -10.0, tr.Acceleration(3))
		assert.Equal(t, 0.0, tr.Acceleration(5), "last sample has no next")
	})

	t.Run("course", func(t *testing.T) {
		assert.Equal(t, 0.0, tr.Course(0))
		assert.InDelta(t, 0, geodesy.BearingDiff(tr.Course(3), 0), 0.01)
	})
}

func TestZeroTimeStepAcceleration(t *testing.T) {
	samples := []Sample{
		{Timestamp: 5, Position: orb.Point{0, 0}, Speed: 10},
		{Timestamp: 5, Position: orb.Point{0, 0.0001}, Speed: 20},
	}
	tr, err := New(samples, DefaultOptions())
	require.NoError(t, err)
	assert.Equal(t, 0.0, tr.Acceleration(0))
}

func TestSpeedAndPositionAt(t *testing.T) {
	samples := []Sample{
		{Timestamp: 0, Position: orb.Point{0, 0}, Speed: 0},
		{Timestamp: 10, Position: orb.Point{0, 0.001}, Speed: 10},
		{Timestamp: 20, Position: orb.Point{0, 0.002}, Speed: 10},
	}
	tr, err := New(samples, DefaultOptions())
	require.NoError(t, err)

	v, ok := tr.SpeedAt(5)
	require.True(t, ok)
	assert.InDelta(t, 5, v, 1e-9)

	v, ok = tr.SpeedAt(10)
	require.True(t, ok)
	assert.InDelta(t, 10, v, 1e-9)

	p, ok := tr.PositionAt(15)
	require.True(t, ok)
	assert.InDelta(t, 0.0015, p.Lat(), 1e-7)
	assert.InDelta(t, 0.0, p.Lon(), 1e-7)

	p, ok = tr.PositionAt(0)
	require.True(t, ok)
	assert.Equal(t, samples[0].Position, p)

	_, ok = tr.SpeedAt(-1)
	assert.False(t, ok)
	_, ok = tr.PositionAt(20.5)
	assert.False(t, ok)
}

func TestSummary(t *testing.T) {
	samples := []Sample{
		{Timestamp: testutil.Epoch, Position: orb.Point{0, 0}},
		{Timestamp: testutil.Epoch + 1, Position: orb.Point{0, 0.001}},
		{Timestamp: testutil.Epoch + 4, Position: orb.Point{0, 0.002}},
	}
	tr, err := New(samples, DefaultOptions())
	require.NoError(t, err)

	s := tr.Summary()
	assert.Equal(t, 3, s.Points)
	assert.Equal(t, 4.0, s.Duration)
	assert.InDelta(t, 2.0, s.MeanGap, 1e-12)
	assert.InDelta(t, tr.Length(), s.Distance, 1e-12)
	assert.Equal(t, 2025, s.Start.Year())
	assert.Contains(t, s.String(), "Duration: 4 seconds")
	assert.Contains(t, s.String(), "Points: 3")
}

func TestSamplesReturnsCopy(t *testing.T) {
	tr, err := New([]Sample{{Timestamp: 1}}, DefaultOptions())
	require.NoError(t, err)
	s := tr.Samples()
	s[0].Timestamp = 99
	assert.Equal(t, 1.0, tr.At(0).Timestamp)
}
