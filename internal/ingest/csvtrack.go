package ingest

import (
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"strconv"
	"strings"
	"time"

	"github.com/banshee-data/sightline/internal/units"
)

// ParseTrackCSV reads time,lat,lon[,speed_mps] rows. time is RFC 3339 or
// epoch seconds. An empty speed cell marks the speed as unknown. A
// leading header row is skipped.
func ParseTrackCSV(r io.Reader) (*Drive, error) {
	cr := csv.NewReader(r)
	cr.FieldsPerRecord = -1
	cr.TrimLeadingSpace = true

	d := &Drive{}
	first := true
	for {
		row, err := cr.Read()
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("reading track csv: %w", err)
		}
		if blank(row) {
			continue
		}
		line, _ := cr.FieldPos(0)
		if first {
			first = false
			if isTrackHeader(row) {
				continue
			}
		}
		if len(row) < 3 || len(row) > 4 {
			return nil, fmt.Errorf("line %d: want 3 or 4 columns, got %d", line, len(row))
		}

		fix, err := parseTrackRow(row)
		if err != nil {
			return nil, fmt.Errorf("line %d: %w", line, err)
		}
		d.Fixes = append(d.Fixes, fix)
	}
	if len(d.Fixes) == 0 {
		return nil, fmt.Errorf("track csv has no rows")
	}
	return d, nil
}

func isTrackHeader(row []string) bool {
	if len(row) < 2 {
		return false
	}
	_, err := strconv.ParseFloat(strings.TrimSpace(row[1]), 64)
	return err != nil
}

func parseTrackRow(row []string) (Fix, error) {
	var f Fix
	ts, err := parseTime(strings.TrimSpace(row[0]))
	if err != nil {
		return f, err
	}
	f.Time = ts
	if f.Lat, err = strconv.ParseFloat(strings.TrimSpace(row[1]), 64); err != nil {
		return f, fmt.Errorf("bad latitude %q", row[1])
	}
	if f.Lon, err = strconv.ParseFloat(strings.TrimSpace(row[2]), 64); err != nil {
		return f, fmt.Errorf("bad longitude %q", row[2])
	}
	if len(row) == 4 && strings.TrimSpace(row[3]) != "" {
		if f.SpeedMPS, err = strconv.ParseFloat(strings.TrimSpace(row[3]), 64); err != nil {
			return f, fmt.Errorf("bad speed %q", row[3])
		}
		f.HasSpeed = true
	}
	return f, nil
}

func parseTime(s string) (time.Time, error) {
	if v, err := strconv.ParseFloat(s, 64); err == nil {
		return units.EpochToTime(v), nil
	}
	t, err := time.Parse(time.RFC3339Nano, s)
	if err != nil {
		return time.Time{}, fmt.Errorf("bad time %q", s)
	}
	return t.UTC(), nil
}
