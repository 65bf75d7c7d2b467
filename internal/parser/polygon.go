package parser

import (
	"github.com/beetlebugorg/citygml/internal/model"
)

// isPolygon reports whether n is one of the planar surface primitives.
func isPolygon(n Node) bool {
	return n.Is("gml:Polygon") || n.Is("gml:Triangle") || n.Is("gml:Rectangle") || n.Is("gml:PolygonPatch")
}

// polygonParser reads a polygon and its boundary rings.
type polygonParser struct {
	element
	deliver func(*model.Polygon)

	poly *model.Polygon
	// exterior is the role of the next ring.
	exterior bool
}

func newPolygonParser(doc *DocumentParser, deliver func(*model.Polygon)) *polygonParser {
	p := &polygonParser{deliver: deliver}
	p.init(doc, p)
	return p
}

func (p *polygonParser) Name() string { return "polygon" }

func (p *polygonParser) Handles(n Node) bool { return isPolygon(n) }

func (p *polygonParser) startBound(n Node, attrs *Attributes) (bool, error) {
	if !isPolygon(n) {
		return false, nil
	}
	p.poly = model.NewPolygon(attrs.IDOrEmpty())
	// Triangles and rectangles have a single exterior ring.
	p.exterior = true
	return true, nil
}

func (p *polygonParser) endBound(n Node, _ string) error {
	if p.poly.Exterior == nil {
		p.doc.builder.warn(model.IssueDataQuality, n.QualifiedName(), "polygon %q has no exterior ring", p.poly.ID)
	}
	p.deliver(p.poly)
	return nil
}

func (p *polygonParser) startChild(n Node, attrs *Attributes) (bool, error) {
	switch n.QualifiedName() {
	case "gml:exterior", "gml:outerBoundaryIs":
		p.exterior = true
		return true, nil
	case "gml:interior", "gml:innerBoundaryIs":
		p.exterior = false
		return true, nil
	case "gml:LinearRing", "gml:Ring":
		return p.delegate(newLinearRingParser(p.doc, p.exterior, p.poly.AddRing), n, attrs)
	}
	return false, nil
}

func (p *polygonParser) endChild(n Node, _ string) (bool, error) {
	switch n.QualifiedName() {
	case "gml:exterior", "gml:outerBoundaryIs", "gml:interior", "gml:innerBoundaryIs":
		return true, nil
	}
	return false, nil
}

// linearRingParser reads the vertices of a gml:LinearRing, or of a gml:Ring
// made of curve members.
type linearRingParser struct {
	element
	exterior bool
	deliver  func(*model.LinearRing)

	ring *model.LinearRing
	pos  positionReader
}

func newLinearRingParser(doc *DocumentParser, exterior bool, deliver func(*model.LinearRing)) *linearRingParser {
	p := &linearRingParser{exterior: exterior, deliver: deliver}
	p.init(doc, p)
	return p
}

func (p *linearRingParser) Name() string { return "linear ring" }

func (p *linearRingParser) Handles(n Node) bool {
	return n.Is("gml:LinearRing") || n.Is("gml:Ring")
}

func (p *linearRingParser) startBound(n Node, attrs *Attributes) (bool, error) {
	if !p.Handles(n) {
		return false, nil
	}
	p.ring = p.doc.builder.newLinearRing(attrs.IDOrEmpty(), p.exterior)
	return true, nil
}

func (p *linearRingParser) endBound(Node, string) error {
	p.ring.Vertices = append(p.ring.Vertices, p.pos.vertices...)
	p.deliver(p.ring)
	return nil
}

func (p *linearRingParser) startChild(n Node, attrs *Attributes) (bool, error) {
	if p.pos.start(n, attrs) {
		return true, nil
	}
	// gml:Ring content.
	return n.Is("gml:curveMember") || n.Is("gml:LineString"), nil
}

func (p *linearRingParser) endChild(n Node, text string) (bool, error) {
	ok, err := p.pos.end(n, text)
	if err != nil {
		p.doc.builder.warn(model.IssueDataQuality, n.QualifiedName(), "ring %q: %v", p.ring.ID, err)
		return true, nil
	}
	if ok {
		return true, nil
	}
	return n.Is("gml:curveMember") || n.Is("gml:LineString"), nil
}

// lineStringParser reads a gml:LineString.
type lineStringParser struct {
	element
	deliver func(*model.LineString)

	line *model.LineString
	pos  positionReader
}

func newLineStringParser(doc *DocumentParser, deliver func(*model.LineString)) *lineStringParser {
	p := &lineStringParser{deliver: deliver}
	p.init(doc, p)
	return p
}

func (p *lineStringParser) Name() string { return "line string" }

func (p *lineStringParser) Handles(n Node) bool { return n.Is("gml:LineString") }

func (p *lineStringParser) startBound(n Node, attrs *Attributes) (bool, error) {
	if !p.Handles(n) {
		return false, nil
	}
	p.line = &model.LineString{ID: attrs.IDOrEmpty()}
	return true, nil
}

func (p *lineStringParser) endBound(n Node, _ string) error {
	p.line.Vertices = p.pos.vertices
	if len(p.line.Vertices) < 2 {
		p.doc.builder.warn(model.IssueDataQuality, n.QualifiedName(), "line string %q has %d vertices", p.line.ID, len(p.line.Vertices))
	}
	p.deliver(p.line)
	return nil
}

func (p *lineStringParser) startChild(n Node, attrs *Attributes) (bool, error) {
	return p.pos.start(n, attrs), nil
}

func (p *lineStringParser) endChild(n Node, text string) (bool, error) {
	ok, err := p.pos.end(n, text)
	if err != nil {
		p.doc.builder.warn(model.IssueDataQuality, n.QualifiedName(), "line string %q: %v", p.line.ID, err)
		return true, nil
	}
	return ok, nil
}
