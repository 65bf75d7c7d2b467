package model

import "strconv"

// GeometryType tells what a geometry represents, derived from the kind of
// the object that owns it.
type GeometryType int

const (
	GeometryUnknown GeometryType = iota
	GeometryGeneric
	GeometryRoof
	GeometryWall
	GeometryGround
	GeometryClosure
	GeometryFloor
	GeometryInteriorWall
	GeometryCeiling
	GeometryOuterCeiling
	GeometryOuterFloor
	GeometryTransportation
	GeometryVegetation
	GeometryWater
	GeometryRelief
)

func (t GeometryType) String() string {
	switch t {
	case GeometryGeneric:
		return "Generic"
	case GeometryRoof:
		return "Roof"
	case GeometryWall:
		return "Wall"
	case GeometryGround:
		return "Ground"
	case GeometryClosure:
		return "Closure"
	case GeometryFloor:
		return "Floor"
	case GeometryInteriorWall:
		return "InteriorWall"
	case GeometryCeiling:
		return "Ceiling"
	case GeometryOuterCeiling:
		return "OuterCeiling"
	case GeometryOuterFloor:
		return "OuterFloor"
	case GeometryTransportation:
		return "Transportation"
	case GeometryVegetation:
		return "Vegetation"
	case GeometryWater:
		return "Water"
	case GeometryRelief:
		return "Relief"
	default:
		return "Unknown"
	}
}

// GeometryTypeFor maps the owner's kind to the geometry type.
func GeometryTypeFor(k Kind) GeometryType {
	switch k {
	case KindRoofSurface:
		return GeometryRoof
	case KindWallSurface:
		return GeometryWall
	case KindGroundSurface:
		return GeometryGround
	case KindClosureSurface:
		return GeometryClosure
	case KindFloorSurface:
		return GeometryFloor
	case KindInteriorWallSurface:
		return GeometryInteriorWall
	case KindCeilingSurface:
		return GeometryCeiling
	case KindOuterCeilingSurface:
		return GeometryOuterCeiling
	case KindOuterFloorSurface:
		return GeometryOuterFloor
	case KindTrack, KindRoad, KindRailway, KindSquare, KindTransportationObject:
		return GeometryTransportation
	case KindPlantCover, KindSolitaryVegetationObject:
		return GeometryVegetation
	case KindWaterBody, KindWaterSurface:
		return GeometryWater
	case KindReliefFeature, KindReliefComponent, KindTINRelief, KindMassPointRelief,
		KindBreaklineRelief, KindRasterRelief:
		return GeometryRelief
	case KindUnknown:
		return GeometryUnknown
	default:
		return GeometryGeneric
	}
}

// Geometry is one representation of a city object at a level of detail.
// Aggregates (solids, multi surfaces) nest child geometries.
type Geometry struct {
	ID          string
	Type        GeometryType
	LOD         int
	SRSName     string
	Polygons    []*Polygon
	LineStrings []*LineString
	Children    []*Geometry
}

// NewGeometry creates an empty geometry.
func NewGeometry(id string, typ GeometryType, lod int) *Geometry {
	return &Geometry{ID: id, Type: typ, LOD: lod}
}

// AddPolygon appends a polygon.
func (g *Geometry) AddPolygon(p *Polygon) {
	g.Polygons = append(g.Polygons, p)
}

// AddLineString appends a line string.
func (g *Geometry) AddLineString(l *LineString) {
	g.LineStrings = append(g.LineStrings, l)
}

// AddChild nests a geometry.
func (g *Geometry) AddChild(c *Geometry) {
	g.Children = append(g.Children, c)
}

// Walk calls fn for g and every nested geometry, depth first.
func (g *Geometry) Walk(fn func(*Geometry)) {
	fn(g)
	for _, c := range g.Children {
		c.Walk(fn)
	}
}

// PolygonCount counts polygons in g and its children.
func (g *Geometry) PolygonCount() int {
	n := 0
	g.Walk(func(geom *Geometry) { n += len(geom.Polygons) })
	return n
}

// IsEmpty reports whether the geometry holds no polygon or line string.
func (g *Geometry) IsEmpty() bool {
	empty := true
	g.Walk(func(geom *Geometry) {
		if len(geom.Polygons) > 0 || len(geom.LineStrings) > 0 {
			empty = false
		}
	})
	return empty
}

// LineString is an open sequence of vertices.
type LineString struct {
	ID       string
	Vertices []Vec3
}

// ImplicitGeometry is a prototype geometry placed by a transformation
// matrix at a reference point.
type ImplicitGeometry struct {
	ID             string
	LOD            int
	MimeType       string
	LibraryObject  string
	Transform      [16]float64
	ReferencePoint Vec3
	SRSName        string
	Geometries     []*Geometry

	// RelativeGeometryRef is the id of a shared prototype geometry given by
	// reference instead of inline.
	RelativeGeometryRef string
}

// IdentityTransform is the 4x4 identity matrix in row-major order.
var IdentityTransform = [16]float64{1, 0, 0, 0, 0, 1, 0, 0, 0, 0, 1, 0, 0, 0, 0, 1}

func formatVec2(v Vec2) string {
	return strconv.FormatFloat(v[0], 'g', -1, 64) + "," + strconv.FormatFloat(v[1], 'g', -1, 64)
}
