package ingest

import (
	"encoding/xml"
	"fmt"
	"io"
	"strings"
	"time"
)

// gpxDoc covers GPX 1.0 and 1.1. Element names match on local name, so
// namespaced extensions such as gpxtpx:TrackPointExtension decode too.
type gpxDoc struct {
	XMLName xml.Name `xml:"gpx"`
	Version string   `xml:"version,attr"`
	Tracks  []struct {
		Name     string `xml:"name"`
		Segments []struct {
			Points []gpxPoint `xml:"trkpt"`
		} `xml:"trkseg"`
	} `xml:"trk"`
}

type gpxPoint struct {
	Lat   float64  `xml:"lat,attr"`
	Lon   float64  `xml:"lon,attr"`
	Time  string   `xml:"time"`
	Speed *float64 `xml:"speed"` // GPX 1.0
	Ext   struct {
		Speed *float64 `xml:"speed"`
		TPX   struct {
			Speed *float64 `xml:"speed"`
		} `xml:"TrackPointExtension"`
	} `xml:"extensions"`
}

func (p gpxPoint) speed() (float64, bool) {
	for _, s := range []*float64{p.Speed, p.Ext.Speed, p.Ext.TPX.Speed} {
		if s != nil {
			return *s, true
		}
	}
	return 0, false
}

// ParseGPX reads every track point of every track and segment, in file
// order. Speeds are taken from <speed> (1.0) or <extensions> (1.1) when
// present.
func ParseGPX(r io.Reader) (*Drive, error) {
	var doc gpxDoc
	if err := xml.NewDecoder(r).Decode(&doc); err != nil {
		return nil, fmt.Errorf("decoding gpx: %w", err)
	}

	d := &Drive{}
	for ti, trk := range doc.Tracks {
		if d.Name == "" {
			d.Name = strings.TrimSpace(trk.Name)
		}
		for si, seg := range trk.Segments {
			for pi, pt := range seg.Points {
				ts, err := time.Parse(time.RFC3339Nano, strings.TrimSpace(pt.Time))
				if err != nil {
					return nil, fmt.Errorf("track %d segment %d point %d: bad time %q", ti, si, pi, pt.Time)
				}
				speed, ok := pt.speed()
				d.Fixes = append(d.Fixes, Fix{
					Time:     ts.UTC(),
					Lat:      pt.Lat,
					Lon:      pt.Lon,
					SpeedMPS: speed,
					HasSpeed: ok,
				})
			}
		}
	}
	if len(d.Fixes) == 0 {
		return nil, fmt.Errorf("gpx has no track points")
	}
	return d, nil
}
