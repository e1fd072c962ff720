package main

import (
	"flag"
	"fmt"
	"time"

	"github.com/banshee-data/sightline/internal/config"
	"github.com/banshee-data/sightline/internal/ingest"
	"github.com/banshee-data/sightline/internal/track"
	"github.com/banshee-data/sightline/internal/units"
)

func runLocate(args []string, e env) error {
	fs := newFlagSet("locate", e)
	trackPath := fs.String("track", "", "GPX or CSV track")
	at := fs.String("at", "", "RFC 3339 time to locate")
	distance := fs.Float64("distance", 0, "meters travelled from the start")
	window := fs.Int("window", 0, "moving-average width; smoothing_window from -config when 0")
	cfgPath := fs.String("config", "", "detection config (.json, .yaml)")
	raw := fs.Bool("raw", false, "with -at: interpolate the recorded fixes without smoothing and report speed")
	if err := fs.Parse(args); err != nil {
		return err
	}

	distanceSet := false
	fs.Visit(func(f *flag.Flag) {
		if f.Name == "distance" {
			distanceSet = true
		}
	})
	if *trackPath == "" || (*at == "") == !distanceSet {
		return fmt.Errorf("locate: need -track and exactly one of -at or -distance")
	}
	if *raw && distanceSet {
		return fmt.Errorf("locate: -raw only applies to -at")
	}

	cfg := config.DefaultDetectionConfig()
	if *cfgPath != "" {
		var err error
		if cfg, err = config.LoadDetectionConfig(e.fsys, *cfgPath); err != nil {
			return err
		}
	}
	if *window <= 0 {
		*window = cfg.GetSmoothingWindow()
	}

	drive, err := ingest.LoadDrive(e.fsys, *trackPath)
	if err != nil {
		return err
	}

	if distanceSet {
		path, err := drive.Path(*window)
		if err != nil {
			return err
		}
		ts, err := path.TimeAtDistance(*distance)
		if err != nil {
			return err
		}
		fmt.Fprintln(e.stdout, ts.Format(time.RFC3339Nano))
		return nil
	}

	ts, err := time.Parse(time.RFC3339Nano, *at)
	if err != nil {
		return fmt.Errorf("locate: bad -at: %w", err)
	}
	if *raw {
		return locateRaw(e, drive, cfg, ts)
	}
	path, err := drive.Path(*window)
	if err != nil {
		return err
	}
	p, err := path.PositionAtTime(ts)
	if err != nil {
		return err
	}
	fmt.Fprintf(e.stdout, "%.7f,%.7f\n", p.Lat(), p.Lon())
	return nil
}

// locateRaw prints "lat,lon speed mph" interpolated between the two
// recorded fixes around ts.
func locateRaw(e env, drive *ingest.Drive, cfg *config.DetectionConfig, ts time.Time) error {
	drive.FillSpeeds(cfg.GetMaxGPSSpeedMPS())
	tr, err := drive.Track(track.Options{
		FirstSampleDelta: cfg.GetFirstSampleDelta().Seconds(),
		OrderTolerance:   cfg.GetOrderTolerance().Seconds(),
	})
	if err != nil {
		return err
	}
	epoch := units.TimeToEpoch(ts)
	p, ok := tr.PositionAt(epoch)
	if !ok {
		return fmt.Errorf("locate: %s is outside the recorded range", ts.Format(time.RFC3339Nano))
	}
	speed, _ := tr.SpeedAt(epoch)
	fmt.Fprintf(e.stdout, "%.7f,%.7f %.1f mph\n", p.Lat(), p.Lon(), units.ConvertSpeed(speed, units.MPH))
	return nil
}
