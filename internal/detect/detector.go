package detect

import (
	"context"
	"fmt"

	"github.com/banshee-data/sightline/internal/config"
	"github.com/banshee-data/sightline/internal/target"
	"github.com/banshee-data/sightline/internal/track"
)

// Result is the output of one Detector run.
type Result struct {
	Candidates Candidates
	Crossings  []Crossing
	// Records are deduplicated and ordered by timestamp.
	Records []Record
}

// Detector runs the full crossing pipeline over tracks.
type Detector struct {
	registry *target.Registry
	cfg      *config.DetectionConfig
	observer Observer
}

// New returns a Detector over registry. A nil cfg uses defaults.
func New(registry *target.Registry, cfg *config.DetectionConfig) *Detector {
	if cfg == nil {
		cfg = config.EmptyDetectionConfig()
	}
	return &Detector{registry: registry, cfg: cfg, observer: NopObserver{}}
}

// SetObserver installs o; nil restores the no-op observer.
func (d *Detector) SetObserver(o Observer) {
	if o == nil {
		o = NopObserver{}
	}
	d.observer = o
}

// Run processes tr. An empty registry or a track that never approaches a
// target yields no records and no error.
func (d *Detector) Run(ctx context.Context, tr *track.Track) (*Result, error) {
	filter := Filter{
		Registry:            d.registry,
		RelevanceMultiplier: d.cfg.GetRelevanceMultiplier(),
		Workers:             d.cfg.GetWorkers(),
	}
	cands, err := filter.Run(ctx, tr)
	if err != nil {
		return nil, fmt.Errorf("candidate filter: %w", err)
	}
	d.observer.Stage("candidates", cands.Count())

	res := &Result{Candidates: cands}
	for i, list := range cands {
		for _, c := range list {
			if x, ok := DetectCrossing(tr, d.registry.At(c.Target), c, i); ok {
				res.Crossings = append(res.Crossings, x)
			}
		}
	}
	d.observer.Stage("crossings", len(res.Crossings))
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	refiner := Refiner{Mode: d.cfg.GetRefineMode(), Clamp: d.cfg.GetClampOffset()}
	dedup := NewDeduplicator(d.cfg.GetDedupWindow())
	for _, x := range res.Crossings {
		t := d.registry.At(x.Target)
		ref := refiner.Refine(tr, t, x)
		rec, err := newRecord(t, x, ref, tr.At(x.Sample).Speed, d.cfg.GetTimezone())
		if err != nil {
			return nil, fmt.Errorf("build record for %s %d: %w", t.Kind(), t.ID(), err)
		}
		d.observer.Crossing(rec)
		dedup.Add(rec)
	}
	res.Records = dedup.Records()
	d.observer.Stage("records", len(res.Records))
	return res, nil
}
