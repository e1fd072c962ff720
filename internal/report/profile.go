package report

import (
	"fmt"
	"image/color"
	"path/filepath"

	"gonum.org/v1/plot"
	"gonum.org/v1/plot/plotter"
	"gonum.org/v1/plot/vg"
	"gonum.org/v1/plot/vg/draw"

	"github.com/banshee-data/sightline/internal/detect"
	"github.com/banshee-data/sightline/internal/fsutil"
	"github.com/banshee-data/sightline/internal/target"
	"github.com/banshee-data/sightline/internal/track"
)

const (
	profileWidth  = 12 * vg.Inch
	profileHeight = 5 * vg.Inch
)

// DistanceProfile plots the distance from every track sample to t, as
// seen from leg, against seconds since the track start. The sight
// distance is drawn as a horizontal line and crossings of t are marked.
func DistanceProfile(tr *track.Track, t target.Target, leg target.Leg, records []detect.Record) (*plot.Plot, error) {
	start := tr.Start()
	samples := tr.Samples()
	dist := make(plotter.XYs, len(samples))
	for i, s := range samples {
		dist[i] = plotter.XY{X: s.Timestamp - start, Y: t.DistanceFeet(s.Position, leg)}
	}

	p := plot.New()
	p.Title.Text = profileTitle(t, leg)
	p.X.Label.Text = "Elapsed (s)"
	p.Y.Label.Text = "Distance (ft)"
	p.Add(plotter.NewGrid())

	line, err := plotter.NewLine(dist)
	if err != nil {
		return nil, fmt.Errorf("distance line: %w", err)
	}
	line.Width = vg.Points(1)
	line.Color = color.RGBA{B: 200, A: 255}
	p.Add(line)
	p.Legend.Add("distance", line)

	sd := t.SightDistance(leg)
	end := tr.End() - start
	sdLine, err := plotter.NewLine(plotter.XYs{{X: 0, Y: sd}, {X: end, Y: sd}})
	if err != nil {
		return nil, fmt.Errorf("sight distance line: %w", err)
	}
	sdLine.Dashes = []vg.Length{vg.Points(4), vg.Points(4)}
	sdLine.Color = color.RGBA{R: 200, A: 255}
	p.Add(sdLine)
	p.Legend.Add(fmt.Sprintf("sight distance %.0f ft", sd), sdLine)

	var marks plotter.XYs
	for _, r := range records {
		if r.TargetKind == t.Kind() && r.TargetID == t.ID() && (r.Leg == leg || r.Leg == target.NoLeg) {
			marks = append(marks, plotter.XY{X: r.Timestamp - start, Y: r.SightDistance})
		}
	}
	if len(marks) > 0 {
		sc, err := plotter.NewScatter(marks)
		if err != nil {
			return nil, fmt.Errorf("crossing markers: %w", err)
		}
		sc.GlyphStyle.Shape = draw.CrossGlyph{}
		sc.GlyphStyle.Radius = vg.Points(5)
		p.Add(sc)
		p.Legend.Add("crossing", sc)
	}
	return p, nil
}

// profileTitle names the target and, for intersections, the street and
// posted speed of the approach.
func profileTitle(t target.Target, leg target.Leg) string {
	if in, ok := t.(*target.Intersection); ok {
		return fmt.Sprintf("%s %d %s on %s (%d mph): distance to target",
			t.Kind(), t.ID(), leg, in.Street(leg), in.SpeedMPH(leg))
	}
	return fmt.Sprintf("%s %d %s: distance to target", t.Kind(), t.ID(), legName(t, leg))
}

func legName(t target.Target, leg target.Leg) string {
	if t.Kind() == target.KindGeneric {
		return "approach"
	}
	return leg.String()
}

// WriteProfiles renders a PNG distance profile for every target and leg
// that has at least one record, into dir. It returns the written paths.
func WriteProfiles(fsys fsutil.FileSystem, dir string, tr *track.Track, reg *target.Registry, records []detect.Record) ([]string, error) {
	if err := fsys.MkdirAll(dir, 0o755); err != nil {
		return nil, err
	}

	type key struct {
		kind target.Kind
		id   int
		leg  target.Leg
	}
	seen := map[key]bool{}
	var paths []string
	for _, r := range records {
		k := key{r.TargetKind, r.TargetID, r.Leg}
		if seen[k] {
			continue
		}
		seen[k] = true

		t, ok := reg.Lookup(r.TargetKind, r.TargetID)
		if !ok {
			return paths, fmt.Errorf("record %s: unknown %s %d", r.Key, r.TargetKind, r.TargetID)
		}
		leg := r.Leg
		if leg == target.NoLeg {
			leg = target.North
		}
		p, err := DistanceProfile(tr, t, leg, records)
		if err != nil {
			return paths, err
		}
		name := filepath.Join(dir, fmt.Sprintf("%s-%d-%s.png", r.TargetKind, r.TargetID, legName(t, leg)))
		if err := savePNG(fsys, p, name); err != nil {
			return paths, err
		}
		paths = append(paths, name)
	}
	return paths, nil
}

func savePNG(fsys fsutil.FileSystem, p *plot.Plot, name string) error {
	wt, err := p.WriterTo(profileWidth, profileHeight, "png")
	if err != nil {
		return fmt.Errorf("render %s: %w", name, err)
	}
	f, err := fsys.Create(name)
	if err != nil {
		return err
	}
	if _, err := wt.WriteTo(f); err != nil {
		f.Close()
		return fmt.Errorf("write %s: %w", name, err)
	}
	return f.Close()
}
