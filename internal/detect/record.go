package detect

import (
	"fmt"
	"math"
	"strconv"
	"strings"

	"github.com/banshee-data/sightline/internal/target"
	"github.com/banshee-data/sightline/internal/units"
)

// labelTimeLayout renders e.g. "Wed, Jan 1 2025 at 04:00 PM".
const labelTimeLayout = "Mon, Jan 2 2006 at 03:04 PM"

// Record is one detected sight-distance crossing. Records are values and
// are never modified after emission.
type Record struct {
	TargetKind    target.Kind
	TargetID      int
	Leg           target.Leg // NoLeg for single-bearing targets
	Description   string
	Timestamp     float64 // refined crossing time, epoch seconds
	Distance      float64 // feet at the bracketing sample
	Error         float64 // feet
	SightDistance float64
	SampleIndex   int
	Offset        float64 // seconds after SampleIndex
	Speed         float64 // ft/s at SampleIndex
	Label         string
	Key           string
}

// DedupKey identifies records that describe the same physical event.
type DedupKey struct {
	Kind        target.Kind
	ID          int
	Leg         target.Leg
	Description string
}

// DedupKey returns the record's composite key.
func (r Record) DedupKey() DedupKey {
	return DedupKey{Kind: r.TargetKind, ID: r.TargetID, Leg: r.Leg, Description: r.Description}
}

func newRecord(t target.Target, x Crossing, ref Refinement, speed float64, tz string) (Record, error) {
	r := Record{
		TargetKind:    t.Kind(),
		TargetID:      t.ID(),
		Leg:           x.Leg,
		Description:   t.Description(),
		Timestamp:     ref.Timestamp,
		Distance:      x.Cur,
		Error:         ref.Error,
		SightDistance: x.Threshold,
		SampleIndex:   x.Sample,
		Offset:        ref.Offset,
		Speed:         speed,
	}
	if t.Kind() == target.KindGeneric {
		r.Leg = target.NoLeg
	}
	local, err := units.ConvertTime(units.EpochToTime(ref.Timestamp), tz)
	if err != nil {
		return Record{}, err
	}
	r.Key = FileKey(t, x.Leg, x.Threshold, ref.Timestamp)
	r.Label = Label(t, x.Leg, x.Threshold, local.Format(labelTimeLayout))
	return r, nil
}

var unsafeKeyChars = strings.NewReplacer("/", "_", `\`, "_", ":", "_", " ", "_", "\t", "_")

// FileKey builds the filename-safe identifier of a crossing:
// "{id}.{leg}-{name}-{sight distance}-{timestamp}" for intersections and
// "{id}.{sight distance}-{street}-{description}-{timestamp}" for generic
// objects. The timestamp is rounded to milliseconds.
func FileKey(t target.Target, leg target.Leg, sd, ts float64) string {
	tsStr := strconv.FormatFloat(math.Round(ts*1000)/1000, 'f', -1, 64)
	sdStr := strconv.FormatFloat(sd, 'f', -1, 64)
	var key string
	switch v := t.(type) {
	case *target.Intersection:
		key = fmt.Sprintf("%d.%d-%s-%s-%s", v.ID(), int(leg), v.Description(), sdStr, tsStr)
	case *target.GenericObject:
		key = fmt.Sprintf("%d.%s-%s-%s-%s", v.ID(), sdStr, v.Street, v.Desc, tsStr)
	}
	return unsafeKeyChars.Replace(key)
}

// Label builds the human-readable caption of a crossing.
func Label(t target.Target, leg target.Leg, sd float64, when string) string {
	sdStr := strconv.FormatFloat(sd, 'f', -1, 64)
	switch v := t.(type) {
	case *target.Intersection:
		ns, ew := v.Streets()
		return fmt.Sprintf("%s approach of %s and %s (#%d) at ~%s ft on %s", leg, ns, ew, v.ID(), sdStr, when)
	case *target.GenericObject:
		return fmt.Sprintf("%s approach of %s %s (#%d) at ~%s ft on %s",
			compassLabel(v.Bearing), v.Street, v.Desc, v.ID(), sdStr, when)
	}
	return ""
}

// compassLabel snaps a bearing to the nearest of NB/EB/SB/WB.
func compassLabel(bearing float64) string {
	idx := int(math.Round(bearing/90)) % 4
	return target.Leg(idx).String()
}
