package detect

import (
	"context"
	"sort"

	"golang.org/x/sync/errgroup"

	"github.com/banshee-data/sightline/internal/geodesy"
	"github.com/banshee-data/sightline/internal/target"
	"github.com/banshee-data/sightline/internal/track"
)

// Candidate is a target the observer is approaching at a sample.
type Candidate struct {
	Target      int // registry index
	Leg         target.Leg
	Distance    float64 // feet, stop bar or center
	Approaching bool
}

// Candidates holds, per sample index, the approaching candidates sorted by
// ascending distance.
type Candidates [][]Candidate

// Count returns the total number of candidates across all samples.
func (c Candidates) Count() int {
	n := 0
	for _, s := range c {
		n += len(s)
	}
	return n
}

// Filter builds the candidate lists for a track.
type Filter struct {
	Registry            *target.Registry
	RelevanceMultiplier float64
	// Workers > 1 fans out per target. Output does not depend on it.
	Workers int
}

type slot struct {
	c  Candidate
	ok bool
}

// Run evaluates every sample against every registered target.
func (f Filter) Run(ctx context.Context, tr *track.Track) (Candidates, error) {
	n := f.Registry.Len()
	perTarget := make([][]slot, n)

	if f.Workers > 1 {
		g, gctx := errgroup.WithContext(ctx)
		g.SetLimit(f.Workers)
		for ti := range n {
			g.Go(func() error {
				if err := gctx.Err(); err != nil {
					return err
				}
				perTarget[ti] = f.scan(tr, ti)
				return nil
			})
		}
		if err := g.Wait(); err != nil {
			return nil, err
		}
	} else {
		for ti := range n {
			if err := ctx.Err(); err != nil {
				return nil, err
			}
			perTarget[ti] = f.scan(tr, ti)
		}
	}

	out := make(Candidates, tr.Len())
	for i := range out {
		for ti := range n {
			if s := perTarget[ti][i]; s.ok {
				out[i] = append(out[i], s.c)
			}
		}
		sort.SliceStable(out[i], func(a, b int) bool {
			return out[i][a].Distance < out[i][b].Distance
		})
	}
	return out, nil
}

// scan walks the whole track against one target.
func (f Filter) scan(tr *track.Track, ti int) []slot {
	t := f.Registry.At(ti)
	env := target.RelevanceEnvelope(t, f.multiplier())
	loc := t.Location()
	slots := make([]slot, tr.Len())

	for i := 1; i < tr.Len(); i++ {
		p := tr.At(i).Position
		if !geodesy.Within(loc, p, env) || geodesy.Feet(loc, p) > env {
			continue
		}
		leg := ApproachLeg(t, tr.Course(i))
		d := t.DistanceFeet(p, leg)
		prev := t.DistanceFeet(tr.At(i-1).Position, leg)
		if d < prev {
			slots[i] = slot{c: Candidate{Target: ti, Leg: leg, Distance: d, Approaching: true}, ok: true}
		}
	}
	return slots
}

func (f Filter) multiplier() float64 {
	if f.RelevanceMultiplier <= 0 {
		return target.DefaultRelevanceMultiplier
	}
	return f.RelevanceMultiplier
}
