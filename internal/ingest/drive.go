package ingest

import (
	"errors"
	"fmt"
	"path/filepath"
	"strings"
	"time"

	"github.com/paulmach/orb"

	"github.com/banshee-data/sightline/internal/fsutil"
	"github.com/banshee-data/sightline/internal/geodesy"
	"github.com/banshee-data/sightline/internal/interp"
	"github.com/banshee-data/sightline/internal/track"
	"github.com/banshee-data/sightline/internal/units"
)

// DefaultMaxSpeedMPS rejects derived speeds at or above this value.
const DefaultMaxSpeedMPS = 50.0

// ErrUnsupportedFormat is returned for track files that are neither GPX
// nor CSV.
var ErrUnsupportedFormat = errors.New("unsupported track format")

// Fix is one recorded GPS point.
type Fix struct {
	Time     time.Time
	Lat      float64
	Lon      float64
	SpeedMPS float64
	HasSpeed bool
}

// Position returns the fix as an orb point.
func (f Fix) Position() orb.Point { return orb.Point{f.Lon, f.Lat} }

// Drive is a recorded drive in file order.
type Drive struct {
	Name  string
	Fixes []Fix
}

// LoadDrive reads a .gpx or .csv track file.
func LoadDrive(fsys fsutil.FileSystem, path string) (*Drive, error) {
	f, err := fsys.Open(path)
	if err != nil {
		return nil, fmt.Errorf("opening track: %w", err)
	}
	defer f.Close()

	var d *Drive
	switch ext := strings.ToLower(filepath.Ext(path)); ext {
	case ".gpx":
		d, err = ParseGPX(f)
	case ".csv":
		d, err = ParseTrackCSV(f)
	default:
		return nil, fmt.Errorf("%w: %q", ErrUnsupportedFormat, ext)
	}
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	if d.Name == "" {
		d.Name = strings.TrimSuffix(filepath.Base(path), filepath.Ext(path))
	}
	return d, nil
}

// DeriveSpeed returns the geodesic speed in m/s between two fixes, or 0
// when the time step is not positive or the speed reaches maxMPS.
func DeriveSpeed(p1, p2 orb.Point, t1, t2 time.Time, maxMPS float64) float64 {
	dt := t2.Sub(t1).Seconds()
	if dt <= 0 {
		return 0
	}
	v := geodesy.Meters(p1, p2) / dt
	if v >= maxMPS {
		return 0
	}
	return v
}

// FillSpeeds derives a speed for every fix that carries none, from the
// previous fix. A first fix without speed gets 0.
func (d *Drive) FillSpeeds(maxMPS float64) (derived int) {
	for i := range d.Fixes {
		f := &d.Fixes[i]
		if f.HasSpeed {
			continue
		}
		if i > 0 {
			prev := d.Fixes[i-1]
			f.SpeedMPS = DeriveSpeed(prev.Position(), f.Position(), prev.Time, f.Time, maxMPS)
		}
		f.HasSpeed = true
		derived++
	}
	return derived
}

// Track converts the drive into a detection track with speeds in ft/s.
// Call FillSpeeds first if any fix lacks a speed.
func (d *Drive) Track(opts track.Options) (*track.Track, error) {
	samples := make([]track.Sample, len(d.Fixes))
	for i, f := range d.Fixes {
		samples[i] = track.Sample{
			Timestamp: units.TimeToEpoch(f.Time),
			Position:  f.Position(),
			Speed:     units.MPSToFPS(f.SpeedMPS),
		}
	}
	return track.New(samples, opts)
}

// Path builds a smoothed interpolator over the drive.
func (d *Drive) Path(window int) (*interp.Path, error) {
	fixes := make([]interp.Fix, len(d.Fixes))
	for i, f := range d.Fixes {
		fixes[i] = interp.Fix{Time: f.Time, Lat: f.Lat, Lon: f.Lon}
	}
	return interp.NewWithWindow(fixes, window)
}
