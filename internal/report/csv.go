// Package report renders detection records as CSV, PNG distance profiles
// and an HTML timeline.
package report

import (
	"encoding/csv"
	"fmt"
	"io"
	"strconv"
	"time"

	"github.com/banshee-data/sightline/internal/detect"
	"github.com/banshee-data/sightline/internal/units"
)

// CSVHeader is the first row written by WriteCSV.
var CSVHeader = []string{
	"key", "target_kind", "target_id", "leg", "timestamp", "time_utc",
	"distance_ft", "error_ft", "sight_distance_ft", "offset_s", "speed_mph", "label",
}

func ftoa(v float64, prec int) string { return strconv.FormatFloat(v, 'f', prec, 64) }

// WriteCSV writes one row per record, in the order given.
func WriteCSV(w io.Writer, records []detect.Record) error {
	cw := csv.NewWriter(w)
	if err := cw.Write(CSVHeader); err != nil {
		return err
	}
	for _, r := range records {
		row := []string{
			r.Key,
			string(r.TargetKind),
			strconv.Itoa(r.TargetID),
			r.Leg.String(),
			ftoa(r.Timestamp, 3),
			units.EpochToTime(r.Timestamp).UTC().Format(time.RFC3339Nano),
			ftoa(r.Distance, 2),
			ftoa(r.Error, 2),
			ftoa(r.SightDistance, 0),
			ftoa(r.Offset, 3),
			ftoa(units.ConvertSpeed(r.Speed, units.MPH), 1),
			r.Label,
		}
		if err := cw.Write(row); err != nil {
			return fmt.Errorf("writing %s: %w", r.Key, err)
		}
	}
	cw.Flush()
	return cw.Error()
}
