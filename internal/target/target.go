package target

import (
	"errors"
	"fmt"

	"github.com/go-playground/validator/v10"
	"github.com/paulmach/orb"

	"github.com/banshee-data/sightline/internal/geodesy"
)

// ErrInvalidDefinition is returned for malformed target definitions.
var ErrInvalidDefinition = errors.New("invalid target definition")

var validate = validator.New()

// Kind distinguishes the target variants.
type Kind string

const (
	KindIntersection Kind = "intersection"
	KindGeneric      Kind = "generic"
)

// Target is implemented only by *Intersection and *GenericObject.
type Target interface {
	Kind() Kind
	ID() int
	Location() orb.Point
	// Legs is the number of approach legs (4 or 1).
	Legs() int
	SightDistance(leg Leg) float64
	ReferenceBearing(leg Leg) float64
	// DistanceFeet measures p against the target as seen from leg: the
	// perpendicular distance to the leg's stop bar when one is available,
	// otherwise the distance to Location.
	DistanceFeet(p orb.Point, leg Leg) float64
	// Description is the human-readable detail used in keys and labels.
	Description() string

	sealed()
}

// StopBar is the painted line an approach stops at, from the inside lane
// point to the shoulder point.
type StopBar struct {
	Inside    orb.Point
	Shoulder  orb.Point
	Available bool
}

// IntersectionDef is the raw definition of an Intersection.
type IntersectionDef struct {
	ID         int        `validate:"gte=0"`
	NorthSouth string     `validate:"required"`
	EastWest   string     `validate:"required"`
	Lat        float64    `validate:"gte=-90,lte=90"`
	Lon        float64    `validate:"gte=-180,lte=180"`
	SpeedMPH   [4]int     `validate:"dive,gte=0,lte=120"`
	Bearings   [4]float64 `validate:"dive,gte=0,lte=360"`
	StopBars   [4]*StopBarDef
}

// StopBarDef holds stop bar endpoints as lat/lon pairs.
type StopBarDef struct {
	InsideLat   float64 `validate:"gte=-90,lte=90"`
	InsideLon   float64 `validate:"gte=-180,lte=180"`
	ShoulderLat float64 `validate:"gte=-90,lte=90"`
	ShoulderLon float64 `validate:"gte=-180,lte=180"`
}

// Intersection is a four-legged signalized intersection.
type Intersection struct {
	id       int
	streets  [2]string
	center   orb.Point
	speeds   [4]int
	sight    [4]float64
	bearings [4]float64
	stopBars [4]StopBar
}

// NewIntersection validates def and builds an Intersection.
func NewIntersection(def IntersectionDef) (*Intersection, error) {
	if err := validate.Struct(def); err != nil {
		return nil, fmt.Errorf("%w: intersection %d: %v", ErrInvalidDefinition, def.ID, err)
	}
	in := &Intersection{
		id:       def.ID,
		streets:  [2]string{def.NorthSouth, def.EastWest},
		center:   orb.Point{def.Lon, def.Lat},
		speeds:   def.SpeedMPH,
		bearings: def.Bearings,
	}
	for leg := range 4 {
		in.sight[leg] = SightDistanceFor(def.SpeedMPH[leg])
		sb := def.StopBars[leg]
		if sb == nil {
			continue
		}
		if err := validate.Struct(sb); err != nil {
			return nil, fmt.Errorf("%w: intersection %d %s stop bar: %v", ErrInvalidDefinition, def.ID, Leg(leg), err)
		}
		in.stopBars[leg] = StopBar{
			Inside:    orb.Point{sb.InsideLon, sb.InsideLat},
			Shoulder:  orb.Point{sb.ShoulderLon, sb.ShoulderLat},
			Available: true,
		}
	}
	return in, nil
}

func (*Intersection) sealed() {}

func (in *Intersection) Kind() Kind          { return KindIntersection }
func (in *Intersection) ID() int             { return in.id }
func (in *Intersection) Location() orb.Point { return in.center }
func (in *Intersection) Legs() int           { return 4 }

// SightDistance returns the sight distance of leg's posted speed.
func (in *Intersection) SightDistance(leg Leg) float64 {
	if !leg.Valid() {
		return MinSightDistance
	}
	return in.sight[leg]
}

// SpeedMPH returns the posted speed of leg.
func (in *Intersection) SpeedMPH(leg Leg) int {
	if !leg.Valid() {
		return 0
	}
	return in.speeds[leg]
}

func (in *Intersection) ReferenceBearing(leg Leg) float64 {
	if !leg.Valid() {
		return 0
	}
	return in.bearings[leg]
}

// StopBar returns the stop bar of leg; Available is false when none was
// defined.
func (in *Intersection) StopBar(leg Leg) StopBar {
	if !leg.Valid() {
		return StopBar{}
	}
	return in.stopBars[leg]
}

func (in *Intersection) DistanceFeet(p orb.Point, leg Leg) float64 {
	if sb := in.StopBar(leg); sb.Available {
		if d, ok := geodesy.LineDistanceFeet(p, sb.Inside, sb.Shoulder); ok {
			return d
		}
	}
	return geodesy.Feet(in.center, p)
}

// Street returns the street a leg travels on: the N/S street for NB and
// SB, the E/W street for EB and WB.
func (in *Intersection) Street(leg Leg) string {
	if leg == East || leg == West {
		return in.streets[1]
	}
	return in.streets[0]
}

// Streets returns the N/S and E/W street names.
func (in *Intersection) Streets() (string, string) { return in.streets[0], in.streets[1] }

// Description joins both street names.
func (in *Intersection) Description() string {
	return in.streets[0] + "+" + in.streets[1]
}

// GenericObjectDef is the raw definition of a GenericObject.
type GenericObjectDef struct {
	ID            int     `validate:"gte=0"`
	Street        string  `validate:"required"`
	Lat           float64 `validate:"gte=-90,lte=90"`
	Lon           float64 `validate:"gte=-180,lte=180"`
	Bearing       float64 `validate:"gte=0,lte=360"`
	Description   string  `validate:"required"`
	SightDistance float64 `validate:"gt=0"`
}

// GenericObject is a sign or marker seen from a single direction.
type GenericObject struct {
	id       int
	Street   string
	position orb.Point
	Bearing  float64
	Desc     string
	Distance float64
}

// NewGenericObject validates def and builds a GenericObject.
func NewGenericObject(def GenericObjectDef) (*GenericObject, error) {
	if err := validate.Struct(def); err != nil {
		return nil, fmt.Errorf("%w: generic object %d: %v", ErrInvalidDefinition, def.ID, err)
	}
	return &GenericObject{
		id:       def.ID,
		Street:   def.Street,
		position: orb.Point{def.Lon, def.Lat},
		Bearing:  def.Bearing,
		Desc:     def.Description,
		Distance: def.SightDistance,
	}, nil
}

func (*GenericObject) sealed() {}

func (g *GenericObject) Kind() Kind                   { return KindGeneric }
func (g *GenericObject) ID() int                      { return g.id }
func (g *GenericObject) Location() orb.Point          { return g.position }
func (g *GenericObject) Legs() int                    { return 1 }
func (g *GenericObject) SightDistance(Leg) float64    { return g.Distance }
func (g *GenericObject) ReferenceBearing(Leg) float64 { return g.Bearing }
func (g *GenericObject) Description() string          { return g.Desc }

func (g *GenericObject) DistanceFeet(p orb.Point, _ Leg) float64 {
	return geodesy.Feet(g.position, p)
}
