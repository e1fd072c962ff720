package track

import (
	"fmt"
	"strings"
	"time"

	"gonum.org/v1/gonum/stat"

	"github.com/banshee-data/sightline/internal/units"
)

// Summary describes a whole track.
type Summary struct {
	Start    time.Time
	End      time.Time
	Duration float64 // seconds
	Distance float64 // feet
	Points   int
	MeanGap  float64 // seconds between samples
}

// Summary computes the track summary.
func (t *Track) Summary() Summary {
	s := Summary{
		Start:    units.EpochToTime(t.Start()),
		End:      units.EpochToTime(t.End()),
		Duration: t.End() - t.Start(),
		Distance: t.Length(),
		Points:   t.Len(),
	}
	if t.Len() > 1 {
		gaps := make([]float64, t.Len()-1)
		for i := 1; i < t.Len(); i++ {
			gaps[i-1] = t.PrevDelta(i)
		}
		s.MeanGap = stat.Mean(gaps, nil)
	}
	return s
}

// String renders the summary as a small report block.
func (s Summary) String() string {
	var b strings.Builder
	fmt.Fprintf(&b, "Start time: %s\n", s.Start.Format(time.RFC3339))
	fmt.Fprintf(&b, "End time: %s\n", s.End.Format(time.RFC3339))
	fmt.Fprintf(&b, "Duration: %s\n", units.FormatDuration(s.Duration))
	fmt.Fprintf(&b, "Distance: %s\n", units.FormatDistance(s.Distance))
	fmt.Fprintf(&b, "Points: %d\n", s.Points)
	fmt.Fprintf(&b, "Average gap: %.2f s\n", s.MeanGap)
	return b.String()
}
