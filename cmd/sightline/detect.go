package main

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/banshee-data/sightline/internal/config"
	"github.com/banshee-data/sightline/internal/db"
	"github.com/banshee-data/sightline/internal/detect"
	"github.com/banshee-data/sightline/internal/ingest"
	"github.com/banshee-data/sightline/internal/monitoring"
	"github.com/banshee-data/sightline/internal/report"
	"github.com/banshee-data/sightline/internal/target"
	"github.com/banshee-data/sightline/internal/track"
)

func runDetect(ctx context.Context, args []string, e env) error {
	fs := newFlagSet("detect", e)
	intersections := fs.String("intersections", "", "intersection CSV (13 or 29 columns)")
	objects := fs.String("objects", "", "generic object CSV (7 columns)")
	trackPath := fs.String("track", "", "GPX or CSV track")
	cfgPath := fs.String("config", "", "detection config (.json, .yaml); built-in defaults when empty")
	dbPath := fs.String("db", "", "save the run to this SQLite database")
	csvPath := fs.String("csv", "", `write records as CSV ("-" for stdout)`)
	chartDir := fs.String("chart-dir", "", "write PNG distance profiles to this directory")
	if err := fs.Parse(args); err != nil {
		return err
	}
	if *trackPath == "" {
		return fmt.Errorf("detect: -track is required")
	}
	if *intersections == "" && *objects == "" {
		return fmt.Errorf("detect: pass -intersections and/or -objects")
	}

	cfg := config.DefaultDetectionConfig()
	if *cfgPath != "" {
		var err error
		if cfg, err = config.LoadDetectionConfig(e.fsys, *cfgPath); err != nil {
			return err
		}
	}

	reg, err := ingest.LoadRegistry(e.fsys, *intersections, *objects)
	if err != nil {
		return err
	}
	monitoring.Logf("[ingest] intersections %v, generic objects %v",
		reg.IDs(target.KindIntersection), reg.IDs(target.KindGeneric))
	drive, err := ingest.LoadDrive(e.fsys, *trackPath)
	if err != nil {
		return err
	}
	if n := drive.FillSpeeds(cfg.GetMaxGPSSpeedMPS()); n > 0 {
		monitoring.Logf("[ingest] derived speed for %d of %d fixes", n, len(drive.Fixes))
	}
	tr, err := drive.Track(track.Options{
		FirstSampleDelta: cfg.GetFirstSampleDelta().Seconds(),
		OrderTolerance:   cfg.GetOrderTolerance().Seconds(),
	})
	if err != nil {
		return fmt.Errorf("%s: %w", *trackPath, err)
	}
	fmt.Fprint(e.stdout, tr.Summary())

	d := detect.New(reg, cfg)
	d.SetObserver(detect.LogObserver{})
	start := e.clock.Now()
	res, err := d.Run(ctx, tr)
	if err != nil {
		return err
	}
	monitoring.Logf("[detect] %d records from %d samples and %d targets in %s",
		len(res.Records), tr.Len(), reg.Len(), e.clock.Since(start))

	fmt.Fprintf(e.stdout, "Crossings: %d\n", len(res.Records))
	for _, r := range res.Records {
		fmt.Fprintln(e.stdout, r.Label)
	}

	if *csvPath != "" {
		if err := writeCSV(e, *csvPath, res.Records); err != nil {
			return err
		}
	}
	if *chartDir != "" {
		paths, err := report.WriteProfiles(e.fsys, *chartDir, tr, reg, res.Records)
		if err != nil {
			return fmt.Errorf("charts: %w", err)
		}
		monitoring.Logf("[report] wrote %d charts to %s", len(paths), *chartDir)
	}
	if *dbPath != "" {
		cfgJSON, err := json.Marshal(cfg)
		if err != nil {
			return err
		}
		store, err := db.Open(*dbPath)
		if err != nil {
			return err
		}
		defer store.Close()
		store.SetClock(e.clock)

		run := &db.Run{
			TrackName:   drive.Name,
			SampleCount: tr.Len(),
			TargetCount: reg.Len(),
			ConfigJSON:  string(cfgJSON),
		}
		if err := store.SaveRun(ctx, run, res.Records); err != nil {
			return err
		}
		fmt.Fprintf(e.stdout, "Saved run %s\n", run.ID)
	}
	return nil
}

func writeCSV(e env, path string, records []detect.Record) error {
	if path == "-" {
		return report.WriteCSV(e.stdout, records)
	}
	f, err := e.fsys.Create(path)
	if err != nil {
		return err
	}
	if err := report.WriteCSV(f, records); err != nil {
		f.Close()
		return err
	}
	return f.Close()
}
