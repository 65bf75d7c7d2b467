package parser

import (
	"github.com/beetlebugorg/citygml/internal/model"
)

// Aggregate geometry elements. Members of an aggregate are polygons, line
// strings or nested aggregates.
var geometryAggregates = []string{
	"gml:Solid", "gml:CompositeSolid", "gml:MultiSolid", "gml:MultiSurface", "gml:CompositeSurface",
	"gml:Surface", "gml:OrientableSurface", "gml:TriangulatedSurface", "gml:Tin", "gml:Shell",
	"gml:MultiCurve", "gml:CompositeCurve", "gml:MultiGeometry",
}

// Member property elements inside aggregates.
var geometryMembers = []string{
	"gml:surfaceMember", "gml:surfaceMembers", "gml:solidMember", "gml:solidMembers",
	"gml:curveMember", "gml:curveMembers", "gml:geometryMember", "gml:geometryMembers",
	"gml:trianglePatches", "gml:patches", "gml:baseSurface", "gml:exterior", "gml:interior",
}

func isOneOf(n Node, qnames []string) bool {
	if !n.Valid() {
		return false
	}
	for _, q := range qnames {
		if n.Is(q) {
			return true
		}
	}
	return false
}

// geometryParser reads an aggregate geometry into one Geometry. Bound
// directly to a polygon or line string it wraps that single primitive.
type geometryParser struct {
	element
	typ     model.GeometryType
	lod     int
	deliver func(*model.Geometry)

	geom *model.Geometry
	// unknownBound accepts any element as the bound one; used when an
	// unregistered element was found to contain geometry.
	unknownBound bool
	wrapped      bool
}

func newGeometryParser(doc *DocumentParser, typ model.GeometryType, lod int, deliver func(*model.Geometry)) *geometryParser {
	p := &geometryParser{typ: typ, lod: lod, deliver: deliver}
	p.init(doc, p)
	return p
}

func (p *geometryParser) Name() string { return "geometry" }

// Handles reports whether n is any geometry the parser can read.
func (p *geometryParser) Handles(n Node) bool {
	return isOneOf(n, geometryAggregates) || isPolygon(n) || n.Is("gml:LineString")
}

func (p *geometryParser) startBound(n Node, attrs *Attributes) (bool, error) {
	if !p.unknownBound && !p.Handles(n) {
		return false, nil
	}
	p.geom = model.NewGeometry(attrs.IDOrEmpty(), p.typ, p.lod)
	p.geom.SRSName = attrs.Value("srsName")

	switch {
	case isPolygon(n):
		p.wrapped = true
		return p.delegate(newPolygonParser(p.doc, func(poly *model.Polygon) {
			p.geom.AddPolygon(poly)
			p.finish()
		}), n, attrs)
	case n.Is("gml:LineString"):
		p.wrapped = true
		return p.delegate(newLineStringParser(p.doc, func(l *model.LineString) {
			p.geom.AddLineString(l)
			p.finish()
		}), n, attrs)
	}
	return true, nil
}

// finish ends a wrapping parser from its only child's callback.
func (p *geometryParser) finish() {
	p.doc.Pop(p)
	p.deliver(p.geom)
}

func (p *geometryParser) endBound(Node, string) error {
	p.deliver(p.geom)
	return nil
}

func (p *geometryParser) startChild(n Node, attrs *Attributes) (bool, error) {
	switch {
	case isOneOf(n, geometryMembers):
		if attrs.HasXLink() {
			p.doc.log.Infof("geometry %q: <%s> refers to %q, shared geometry is not resolved", p.geom.ID, n, attrs.XLinkValue())
		}
		return true, nil
	case isPolygon(n):
		return p.delegate(newPolygonParser(p.doc, p.geom.AddPolygon), n, attrs)
	case n.Is("gml:LineString"):
		return p.delegate(newLineStringParser(p.doc, p.geom.AddLineString), n, attrs)
	case isOneOf(n, geometryAggregates):
		return p.delegate(newGeometryParser(p.doc, p.typ, p.lod, p.geom.AddChild), n, attrs)
	}
	return false, nil
}

func (p *geometryParser) endChild(n Node, _ string) (bool, error) {
	return isOneOf(n, geometryMembers), nil
}
