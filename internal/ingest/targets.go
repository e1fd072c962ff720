package ingest

import (
	"bytes"
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/banshee-data/sightline/internal/fsutil"
	"github.com/banshee-data/sightline/internal/target"
)

// Target CSV column counts.
const (
	IntersectionColumns        = 13
	IntersectionStopBarColumns = 29
	GenericObjectColumns       = 7
	stopBarFirstColumn         = 13
	stopBarColumnsPerLeg       = 4
)

// ParseIntersections reads intersection rows from r. A first row whose id
// column is not numeric is treated as a header.
func ParseIntersections(r io.Reader) ([]*target.Intersection, error) {
	rows, err := readRows(r)
	if err != nil {
		return nil, err
	}
	out := make([]*target.Intersection, 0, len(rows))
	for _, row := range rows {
		def, err := intersectionDef(row.fields)
		if err != nil {
			return nil, fmt.Errorf("%w: line %d: %v", target.ErrInvalidDefinition, row.line, err)
		}
		in, err := target.NewIntersection(def)
		if err != nil {
			return nil, fmt.Errorf("line %d: %w", row.line, err)
		}
		out = append(out, in)
	}
	return out, nil
}

func intersectionDef(f []string) (target.IntersectionDef, error) {
	var def target.IntersectionDef
	if len(f) != IntersectionColumns && len(f) != IntersectionStopBarColumns {
		return def, fmt.Errorf("want %d or %d columns, got %d", IntersectionColumns, IntersectionStopBarColumns, len(f))
	}
	p := fieldParser{fields: f}
	def.ID = p.int(0)
	def.NorthSouth = strings.TrimSpace(f[1])
	def.EastWest = strings.TrimSpace(f[2])
	def.Lat = p.float(3)
	def.Lon = p.float(4)
	for leg := range 4 {
		def.SpeedMPH[leg] = p.int(5 + leg)
		def.Bearings[leg] = p.float(9 + leg)
	}
	if len(f) == IntersectionStopBarColumns {
		for leg := range 4 {
			col := stopBarFirstColumn + leg*stopBarColumnsPerLeg
			if blank(f[col : col+stopBarColumnsPerLeg]) {
				continue
			}
			def.StopBars[leg] = &target.StopBarDef{
				InsideLat:   p.float(col),
				InsideLon:   p.float(col + 1),
				ShoulderLat: p.float(col + 2),
				ShoulderLon: p.float(col + 3),
			}
		}
	}
	return def, p.err
}

// ParseGenericObjects reads generic object rows from r: id, street, lat,
// lon, bearing (NB/EB/SB/WB or degrees), description, sight distance.
func ParseGenericObjects(r io.Reader) ([]*target.GenericObject, error) {
	rows, err := readRows(r)
	if err != nil {
		return nil, err
	}
	out := make([]*target.GenericObject, 0, len(rows))
	for _, row := range rows {
		f := row.fields
		if len(f) != GenericObjectColumns {
			return nil, fmt.Errorf("%w: line %d: want %d columns, got %d",
				target.ErrInvalidDefinition, row.line, GenericObjectColumns, len(f))
		}
		p := fieldParser{fields: f}
		def := target.GenericObjectDef{
			ID:            p.int(0),
			Street:        strings.TrimSpace(f[1]),
			Lat:           p.float(2),
			Lon:           p.float(3),
			Description:   strings.TrimSpace(f[5]),
			SightDistance: p.float(6),
		}
		bearing, err := target.ParseBearing(f[4])
		if err = errors.Join(p.err, err); err != nil {
			return nil, fmt.Errorf("%w: line %d: %v", target.ErrInvalidDefinition, row.line, err)
		}
		def.Bearing = bearing
		g, err := target.NewGenericObject(def)
		if err != nil {
			return nil, fmt.Errorf("line %d: %w", row.line, err)
		}
		out = append(out, g)
	}
	return out, nil
}

// LoadRegistry reads both target files into one registry. Either path may
// be empty.
func LoadRegistry(fsys fsutil.FileSystem, intersectionPath, genericPath string) (*target.Registry, error) {
	reg, err := target.NewRegistry()
	if err != nil {
		return nil, err
	}
	if intersectionPath != "" {
		data, err := fsys.ReadFile(intersectionPath)
		if err != nil {
			return nil, fmt.Errorf("reading intersections: %w", err)
		}
		ins, err := ParseIntersections(bytes.NewReader(data))
		if err != nil {
			return nil, fmt.Errorf("%s: %w", intersectionPath, err)
		}
		for _, in := range ins {
			if err := reg.Add(in); err != nil {
				return nil, fmt.Errorf("%s: %w", intersectionPath, err)
			}
		}
	}
	if genericPath != "" {
		data, err := fsys.ReadFile(genericPath)
		if err != nil {
			return nil, fmt.Errorf("reading generic objects: %w", err)
		}
		objs, err := ParseGenericObjects(bytes.NewReader(data))
		if err != nil {
			return nil, fmt.Errorf("%s: %w", genericPath, err)
		}
		for _, g := range objs {
			if err := reg.Add(g); err != nil {
				return nil, fmt.Errorf("%s: %w", genericPath, err)
			}
		}
	}
	return reg, nil
}

type csvRow struct {
	line   int
	fields []string
}

// readRows returns the non-empty rows of r, dropping a leading header.
func readRows(r io.Reader) ([]csvRow, error) {
	cr := csv.NewReader(r)
	cr.FieldsPerRecord = -1
	cr.TrimLeadingSpace = true
	cr.Comment = '#'

	var rows []csvRow
	for {
		fields, err := cr.Read()
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("%w: %v", target.ErrInvalidDefinition, err)
		}
		if blank(fields) {
			continue
		}
		line, _ := cr.FieldPos(0)
		if len(rows) == 0 && isHeader(fields) {
			continue
		}
		rows = append(rows, csvRow{line: line, fields: fields})
	}
	return rows, nil
}

func isHeader(fields []string) bool {
	_, err := strconv.Atoi(strings.TrimSpace(fields[0]))
	return err != nil
}

func blank(fields []string) bool {
	for _, f := range fields {
		if strings.TrimSpace(f) != "" {
			return false
		}
	}
	return true
}

// fieldParser parses columns and keeps the first error.
type fieldParser struct {
	fields []string
	err    error
}

func (p *fieldParser) float(i int) float64 {
	v, err := strconv.ParseFloat(strings.TrimSpace(p.fields[i]), 64)
	if err != nil && p.err == nil {
		p.err = fmt.Errorf("column %d: %q is not a number", i+1, p.fields[i])
	}
	return v
}

func (p *fieldParser) int(i int) int {
	s := strings.TrimSpace(p.fields[i])
	v, err := strconv.Atoi(s)
	if err != nil {
		// speeds are sometimes exported as 35.0
		f, ferr := strconv.ParseFloat(s, 64)
		if ferr == nil && f == float64(int(f)) {
			return int(f)
		}
		if p.err == nil {
			p.err = fmt.Errorf("column %d: %q is not an integer", i+1, p.fields[i])
		}
	}
	return v
}
